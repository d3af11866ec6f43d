package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/apperr"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the verified caller: the account id from the token
// subject and the role fixed at signup.
type Identity struct {
	AccountID uuid.UUID
	Role      Role
}

// Middleware authenticates the bearer token on every request and puts
// the verified Identity on the request context. It distinguishes a
// missing credential (Unauthenticated) from a bad one
// (InvalidCredential); both map to 401.
func Middleware(issuer *Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return apperr.New(apperr.Unauthenticated, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return apperr.New(apperr.Unauthenticated, "authorization header is not a bearer token")
			}

			ident, err := issuer.Verify(parts[1])
			if err != nil {
				return apperr.Wrap(apperr.InvalidCredential, err, "invalid or expired token")
			}

			ctx := context.WithValue(c.Request().Context(), identityKey, ident)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// IdentityFromContext returns the verified caller identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey).(Identity)
	return ident, ok
}

// WithIdentity returns a context carrying the given identity. Used by
// tests and internal callers that bypass the HTTP middleware.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// MustIdentity returns the caller identity or an Unauthenticated error.
// Handlers call it after Middleware has run, so a miss means a wiring
// bug rather than a client fault, but the failure mode is still a 401.
func MustIdentity(ctx context.Context) (Identity, error) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return Identity{}, apperr.New(apperr.Unauthenticated, "no verified identity on request")
	}
	return ident, nil
}
