package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cottontrade/marketplace-api/internal/api/middleware"
	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

type AuthHandler struct {
	accounts ports.AccountService
	bus      ports.AuthEventBus
}

func NewAuthHandler(accounts ports.AccountService, bus ports.AuthEventBus) *AuthHandler {
	return &AuthHandler{accounts: accounts, bus: bus}
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token   string          `json:"token,omitempty"`
	Account *domain.Account `json:"account,omitempty"`
	Session *domain.Session `json:"session,omitempty"`
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account credentials"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.accounts.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Account: account})
}

// Login authenticates an account and opens a session.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, sess, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, authResponse{Token: token, Session: sess})
}

// Logout destroys the current session and sends the user back to sign-in.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      303
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.accounts.SignOut(c.Request().Context(), sess); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusSeeOther, middleware.SignInPath)
}

// Session returns the current session snapshot.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Session
// @Failure      401  {object}  errorResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

// SignIn handles GET /auth, the sign-in entry point. It echoes the redirect
// target carried by the gate so a client can return there after signing in.
//
// @Summary      Sign-in entry point
// @Tags         auth
// @Produce      json
// @Param        redirect  query  string  false  "Path to return to after sign-in"
// @Success      200
// @Router       /auth [get]
func (h *AuthHandler) SignIn(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message":  "sign in required",
		"redirect": c.QueryParam("redirect"),
	})
}

// Events streams auth state changes as server-sent events until the client
// disconnects.
//
// @Summary      Auth event stream
// @Tags         auth
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /v1/auth/events [get]
func (h *AuthHandler) Events(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.bus.Subscribe(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "event stream unavailable")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			fmt.Fprint(res, ": ping\n\n")
			res.Flush()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(res, "data: %s\n\n", data)
			res.Flush()
		}
	}
}
