package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/apperr"
)

// RequireRole gates a route to the listed roles. The list is literal:
// admin access must be granted explicitly, never implied.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, err := MustIdentity(c.Request().Context())
			if err != nil {
				return err
			}
			if _, ok := allowed[ident.Role]; !ok {
				return apperr.New(apperr.Forbidden, "role %s cannot access this resource", ident.Role)
			}
			return next(c)
		}
	}
}
