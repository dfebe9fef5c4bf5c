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

type UserController struct {
	service service.UserService
}

func CreateUserController(e *echo.Group, service service.UserService, isLoggedIn echo.MiddlewareFunc) {
	uc := UserController{
		service: service,
	}

	e.POST("/users/register", uc.Signup)
	e.POST("/users/login", uc.Login)
	e.GET("/users/me", uc.GetSelf, isLoggedIn)
	e.PUT("/users/me", uc.UpdateSelf, isLoggedIn)
	e.GET("/users", uc.GetUsers, isLoggedIn, middleware.IsAdmin)
	e.GET("/users/:id", uc.GetUserByID, isLoggedIn, middleware.IsAdmin)
	e.PUT("/users/:id", uc.UpdateUserByID, isLoggedIn, middleware.IsAdmin)
	e.DELETE("/users/:id", uc.DeleteUserByID, isLoggedIn, middleware.IsAdmin)
}

func (c *UserController) Signup(e echo.Context) error {
	payload := dto.SignupRequest{}
	if ok, err := bindAndValidate(e, "Signup", &payload); !ok {
		return err
	}

	resp, err := c.service.Signup(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusCreated, resp)
}

func (c *UserController) Login(e echo.Context) error {
	payload := dto.LoginRequest{}
	if ok, err := bindAndValidate(e, "Login", &payload); !ok {
		return err
	}

	resp, err := c.service.Login(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *UserController) GetSelf(e echo.Context) error {
	resp, err := c.service.GetSelf(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *UserController) UpdateSelf(e echo.Context) error {
	payload := dto.UpdateSelfRequest{}
	if ok, err := bindAndValidate(e, "UpdateSelf", &payload); !ok {
		return err
	}

	resp, err := c.service.UpdateSelf(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *UserController) GetUsers(e echo.Context) error {
	filter := pkgdto.Filter{}
	if err := e.Bind(&filter); err != nil {
		log.Ctx(e.Request().Context()).Warn().Err(err).Str("component", "GetUsers").Msg("")
	}

	resp, err := c.service.GetUsers(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *UserController) GetUserByID(e echo.Context) error {
	resp, err := c.service.GetUserByID(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *UserController) UpdateUserByID(e echo.Context) error {
	payload := dto.UpdateUserRequest{}
	if ok, err := bindAndValidate(e, "UpdateUserByID", &payload); !ok {
		return err
	}

	resp, err := c.service.UpdateUserByID(e.Request().Context(), e.Param("id"), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *UserController) DeleteUserByID(e echo.Context) error {
	if err := c.service.DeleteUserByID(e.Request().Context(), e.Param("id")); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, response.MessageResponse{Message: "User removed"})
}
