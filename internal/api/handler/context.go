package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cottontrade/marketplace-api/internal/api/middleware"
	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// ctxProfile extracts the profile injected by the gate and fast-fails when it
// is absent — its presence proves the gate ran for this request.
func ctxProfile(c echo.Context) (*domain.Profile, error) {
	profile, _ := c.Get(middleware.CtxProfile).(*domain.Profile)
	if profile == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization context")
	}
	return profile, nil
}

// ctxSession extracts the session snapshot injected by the gate.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get(middleware.CtxSession).(*domain.Session)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization context")
	}
	return sess, nil
}
