package middleware

import (
	"context"
	"net/http"
	"strings"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/auth"

	"github.com/pkg/errors"
)

// Authenticate validates the bearer token and, when roles are given,
// requires the token to carry one of them. Claims land in the request
// context under auth.Key.
func Authenticate(a *auth.Auth, roles ...string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(c *web.Context) error {
			authStr := c.Request.Header.Get("authorization")

			parts := strings.Split(authStr, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				err := errors.New("expected authorization header format: Bearer <token>")
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			claims, err := a.ValidateToken(parts[1])
			if err != nil {
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			if ok := claims.Authorized(roles...); !ok && len(roles) > 0 {
				return c.RespondError(web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusUnauthorized))
			}

			c.Ctx = context.WithValue(c.Ctx, auth.Key, claims)

			return handler(c)
		}

		return h
	}

	return m
}
