package response

import (
	"errors"
	"net/http"

	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type ErrorDetail struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Errors  []ErrorDetail `json:"errors"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteSuccessResponse writes the resource itself as the body.
func WriteSuccessResponse(c echo.Context, statusCode int, data interface{}) error {
	if data == nil {
		return c.NoContent(statusCode)
	}

	return c.JSON(statusCode, data)
}

// WriteErrorResponse writes the error envelope. Errors that do not wrap a known
// sentinel are reported as a generic internal error.
func WriteErrorResponse(c echo.Context, err error, details []ErrorDetail) error {
	public := errs.Public(err)
	statusCode := errs.GetErrorStatusCode(err)

	if details == nil {
		details = []ErrorDetail{{Msg: public.Error()}}
	}

	resp := ErrorResponse{
		Status:  "error",
		Message: public.Error(),
		Errors:  details,
	}

	return c.JSON(statusCode, resp)
}

// HTTPErrorHandler renders framework errors (unknown routes, bad methods,
// oversized bodies) with the same envelope as handler errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		log.Ctx(c.Request().Context()).Error().Err(err).Str("component", "HTTPErrorHandler").Msg("")
		if werr := WriteErrorResponse(c, err, nil); werr != nil {
			log.Ctx(c.Request().Context()).Error().Err(werr).Str("component", "HTTPErrorHandler").Msg("")
		}
		return
	}

	msg := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok && m != "" {
		msg = m
	}

	resp := ErrorResponse{
		Status:  "error",
		Message: msg,
		Errors:  []ErrorDetail{{Msg: msg}},
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(he.Code)
	} else {
		werr = c.JSON(he.Code, resp)
	}
	if werr != nil {
		log.Ctx(c.Request().Context()).Error().Err(werr).Str("component", "HTTPErrorHandler").Msg("")
	}
}
