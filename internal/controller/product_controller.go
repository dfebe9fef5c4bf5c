package controller

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	"github.com/alimikegami/e-commerce/storefront-service/internal/middleware"
	"github.com/alimikegami/e-commerce/storefront-service/internal/service"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const imageField = "image"

type ProductController struct {
	service service.ProductService
}

func CreateProductController(e *echo.Group, service service.ProductService, isLoggedIn echo.MiddlewareFunc) {
	c := ProductController{
		service: service,
	}

	products := e.Group("/products", isLoggedIn)
	products.GET("", c.GetProducts)
	products.GET("/:id", c.GetProductByID)
	products.POST("", c.AddProduct, middleware.IsAdmin)
	products.PUT("/:id", c.UpdateProduct, middleware.IsAdmin)
	products.DELETE("/:id", c.DeleteProduct, middleware.IsAdmin)
	products.POST("/:id/reviews", c.AddReview)
}

func (c *ProductController) GetProducts(e echo.Context) error {
	filter := pkgdto.Filter{}
	if err := e.Bind(&filter); err != nil {
		log.Ctx(e.Request().Context()).Warn().Err(err).Str("component", "GetProducts").Msg("")
	}

	resp, err := c.service.GetProducts(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *ProductController) GetProductByID(e echo.Context) error {
	resp, err := c.service.GetProductByID(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *ProductController) AddProduct(e echo.Context) error {
	payload := dto.ProductRequest{}
	if ok, err := bindAndValidate(e, "AddProduct", &payload); !ok {
		return err
	}

	image, closeImage, err := formImage(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}
	defer closeImage()

	resp, err := c.service.AddProduct(e.Request().Context(), payload, image)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusCreated, resp)
}

func (c *ProductController) UpdateProduct(e echo.Context) error {
	payload := dto.ProductRequest{}
	if ok, err := bindAndValidate(e, "UpdateProduct", &payload); !ok {
		return err
	}

	image, closeImage, err := formImage(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}
	defer closeImage()

	resp, err := c.service.UpdateProduct(e.Request().Context(), e.Param("id"), payload, image)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, resp)
}

func (c *ProductController) DeleteProduct(e echo.Context) error {
	if err := c.service.DeleteProduct(e.Request().Context(), e.Param("id")); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusOK, response.MessageResponse{Message: "Product removed"})
}

func (c *ProductController) AddReview(e echo.Context) error {
	payload := dto.ReviewRequest{}
	if ok, err := bindAndValidate(e, "AddReview", &payload); !ok {
		return err
	}

	resp, err := c.service.AddReview(e.Request().Context(), e.Param("id"), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, http.StatusCreated, resp)
}

// formImage opens the optional image part. A request without one yields a nil
// upload and a no-op closer.
func formImage(e echo.Context) (*dto.FileUpload, func(), error) {
	noop := func() {}

	header, err := e.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		log.Ctx(e.Request().Context()).Warn().Err(err).Str("component", "FormImage").Msg("")
		return nil, noop, errs.ErrClient
	}

	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*dto.FileUpload, func(), error) {
	src, err := header.Open()
	if err != nil {
		return nil, func() {}, errs.ErrInternalServer
	}

	upload := &dto.FileUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  src,
	}

	return upload, func() { src.Close() }, nil
}
