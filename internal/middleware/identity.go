package middleware

// identity.go defines the agent identity middleware. Agent terminals send an
// X-Agent-ID header identifying the workstation; the value is stored in the
// Echo context so the rate limiter can key buckets per agent instead of per
// IP when several terminals share a NAT address. Requests without the header
// fall back to the "anon" bucket.

import (
	"github.com/labstack/echo/v4"
)

// AgentIdentity copies the X-Agent-ID request header into the context under
// "user_id". It never rejects a request; identity here is advisory, not
// authentication.
func AgentIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := c.Request().Header.Get("X-Agent-ID"); id != "" {
				c.Set("user_id", id)
			}
			return next(c)
		}
	}
}
