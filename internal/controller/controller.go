package controller

import (
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/response"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// bindAndValidate decodes the request into payload and runs the registered
// validator. A non-nil return has already been written to the client.
func bindAndValidate(e echo.Context, component string, payload interface{}) (bool, error) {
	if err := e.Bind(payload); err != nil {
		log.Ctx(e.Request().Context()).Warn().Err(err).Str("component", component).Msg("")
		return false, response.WriteErrorResponse(e, errs.ErrClient, []response.ErrorDetail{{Msg: "Malformed request body"}})
	}

	if err := e.Validate(payload); err != nil {
		return false, response.WriteErrorResponse(e, errs.ErrValidation, utils.ValidationErrorDetails(err))
	}

	return true, nil
}
