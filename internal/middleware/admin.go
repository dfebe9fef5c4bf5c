package middleware

import (
	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/response"
	"github.com/labstack/echo/v4"
)

// IsAdmin rejects callers that cannot administer before the request body is
// read. It must run after IsLoggedIn.
func IsAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := domain.IdentityFromContext(c.Request().Context())
		if !ok {
			return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
		}

		if !identity.Role.CanAdminister() {
			return response.WriteErrorResponse(c, errs.ErrForbidden, nil)
		}

		return next(c)
	}
}
