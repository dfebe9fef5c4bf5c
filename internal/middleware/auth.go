package middleware

import (
	"errors"
	"strings"

	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/response"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// IsLoggedIn verifies the token carried in header (or a bearer Authorization
// header) and attaches the caller identity to the request context.
func IsLoggedIn(secret string, header string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := strings.TrimSpace(c.Request().Header.Get(header))
			if token == "" {
				token = strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			}
			if token == "" {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
			}

			claims, err := utils.ParseJWTToken(token, secret)
			if err != nil {
				log.Ctx(c.Request().Context()).Debug().Err(err).Str("component", "IsLoggedIn").Msg("")
				if errors.Is(err, errs.ErrTokenExpired) {
					return response.WriteErrorResponse(c, errs.ErrTokenExpired, nil)
				}
				return response.WriteErrorResponse(c, errs.ErrInvalidToken, nil)
			}

			role, ok := domain.ParseRole(claims.Role)
			if !ok {
				return response.WriteErrorResponse(c, errs.ErrInvalidToken, nil)
			}

			ctx := domain.WithIdentity(c.Request().Context(), domain.Identity{UserID: claims.UserID, Role: role})
			ctx = log.Ctx(ctx).With().Str("user_id", claims.UserID).Logger().WithContext(ctx)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
