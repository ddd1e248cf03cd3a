package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "courier-sync.com/courier-sync/internal/errors"
)

// BearerAuth checks every request for the configured static API token.
// Token issuance and refresh belong to the auth service, not here.
func BearerAuth(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			presented, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(apperrors.StatusCode(apperrors.ErrMissingToken), apperrors.ErrMissingToken.Message)
			}
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				return echo.NewHTTPError(apperrors.StatusCode(apperrors.ErrMissingToken), apperrors.ErrMissingToken.Message)
			}
			return next(c)
		}
	}
}
