package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

// Context keys set by the gate for downstream handlers.
const (
	CtxSession = "session"
	CtxProfile = "profile"
	CtxRole    = "role"
)

// SessionCookie is the cookie fallback for browser navigation; API clients
// use the Authorization header.
const SessionCookie = "trade_session"

// Redirect targets for denied navigations.
const (
	SignInPath       = "/auth"
	UnauthorizedPath = "/unauthorized"
)

// Gate wraps a protected route with one authorization evaluation. With no
// roles given, any authenticated role may pass.
//
// Outcomes map to navigation the way a browser expects them:
//   - unauthenticated: 303 to the sign-in page, carrying the original path so
//     the user lands back where they were headed
//   - forbidden: 303 to the access-denied page; the original path is never
//     echoed back
//   - profile unavailable: 503 with a visible error body
//
// A request cancelled mid-evaluation produces no response at all: the
// decision is stale the moment the client is gone.
func Gate(authz ports.Authorizer, roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := authz.Evaluate(c.Request().Context(), BearerToken(c), roles)
			if !decision.Terminal() {
				return nil
			}

			if decision.Allowed {
				c.Set(CtxSession, decision.Session)
				c.Set(CtxProfile, decision.Profile)
				c.Set(CtxRole, decision.Role)
				return next(c)
			}

			switch decision.Reason {
			case domain.DenyUnauthenticated:
				target := SignInPath + "?redirect=" + url.QueryEscape(c.Request().URL.Path)
				return c.Redirect(http.StatusSeeOther, target)
			case domain.DenyForbidden:
				return c.Redirect(http.StatusSeeOther, UnauthorizedPath)
			default:
				return echo.NewHTTPError(http.StatusServiceUnavailable, "profile could not be loaded")
			}
		}
	}
}

// BearerToken extracts the session token from the Authorization header,
// falling back to the session cookie.
func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
