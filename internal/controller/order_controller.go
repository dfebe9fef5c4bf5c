package controller

import (
	"net/http"

	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	"github.com/alimikegami/e-commerce/storefront-service/internal/middleware"
	"github.com/alimikegami/e-commerce/storefront-service/internal/service"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type OrderController struct {
	service service.OrderService
}

func CreateOrderController(e *echo.Group, service service.OrderService, isLoggedIn echo.MiddlewareFunc) {
	c := OrderController{
		service: service,
	}

	orders := e.Group("/orders", isLoggedIn)
	orders.POST("", c.CreateOrder)
	orders.GET("/mine", c.GetMyOrders)
	orders.GET("", c.GetOrders, middleware.IsAdmin)
	orders.GET("/:id", c.GetOrderByID)
	orders.PUT("/:id/pay", c.MarkOrderPaid)
	orders.PUT("/:id/deliver", c.MarkOrderDelivered, middleware.IsAdmin)
}

func (c *OrderController) CreateOrder(e echo.Context) error {
	payload := dto.OrderRequest{}
	if ok, err := bindAndValidate(e, "CreateOrder", &payload); !ok {
		return err
	}

	resp, err := c.service.CreateOrder(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusCreated, resp)
}

func (c *OrderController) GetMyOrders(e echo.Context) error {
	resp, err := c.service.GetMyOrders(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *OrderController) GetOrders(e echo.Context) error {
	filter := pkgdto.Filter{}
	if err := e.Bind(&filter); err != nil {
		log.Ctx(e.Request().Context()).Warn().Err(err).Str("component", "GetOrders").Msg("")
	}

	resp, err := c.service.GetOrders(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *OrderController) GetOrderByID(e echo.Context) error {
	resp, err := c.service.GetOrderByID(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *OrderController) MarkOrderPaid(e echo.Context) error {
	payload := dto.PaymentResultRequest{}
	if ok, err := bindAndValidate(e, "MarkOrderPaid", &payload); !ok {
		return err
	}

	resp, err := c.service.MarkOrderPaid(e.Request().Context(), e.Param("id"), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *OrderController) MarkOrderDelivered(e echo.Context) error {
	resp, err := c.service.MarkOrderDelivered(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}
