package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

// DashboardHandler serves the shared /dashboard entry point and the four
// role-specific dashboards.
type DashboardHandler struct {
	profiles  ports.ProfileService
	inventory ports.InventoryService
	log       zerolog.Logger
}

func NewDashboardHandler(profiles ports.ProfileService, inventory ports.InventoryService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{profiles: profiles, inventory: inventory, log: log}
}

// roleHome maps each role to its navigation subtree.
var roleHome = map[domain.Role]string{
	domain.RoleAdmin:       "/admin",
	domain.RoleSeller:      "/seller",
	domain.RoleBuyer:       "/buyer",
	domain.RoleTransporter: "/transporter",
}

type dashboardResponse struct {
	Profile   *domain.Profile `json:"profile"`
	Role      domain.Role     `json:"role"`
	ItemCount int             `json:"item_count,omitempty"`
	UserCount int             `json:"user_count,omitempty"`
}

// Dispatch handles GET /dashboard: one bookmarkable entry point that forwards
// every role to its own subtree. An unrecognized role value is a defect in
// the stored data, not a reason to crash: log it and render nothing.
//
// @Summary      Role dispatch
// @Tags         dashboard
// @Security     BearerAuth
// @Success      303
// @Success      204
// @Router       /dashboard [get]
func (h *DashboardHandler) Dispatch(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	home, ok := roleHome[profile.Role]
	if !ok {
		h.log.Error().
			Str("subject_id", profile.SubjectID).
			Str("role", string(profile.Role)).
			Msg("unknown role in profile, cannot dispatch")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, home)
}

// Admin handles GET /admin.
//
// @Summary      Admin dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	users, err := h.profiles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		Profile:   profile,
		Role:      profile.Role,
		UserCount: len(users),
	})
}

// Seller handles GET /seller.
//
// @Summary      Seller dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /seller [get]
func (h *DashboardHandler) Seller(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	items, err := h.inventory.ListOwn(c.Request().Context(), profile.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		Profile:   profile,
		Role:      profile.Role,
		ItemCount: len(items),
	})
}

// Buyer handles GET /buyer.
//
// @Summary      Buyer dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /buyer [get]
func (h *DashboardHandler) Buyer(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	items, err := h.inventory.ListMarket(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		Profile:   profile,
		Role:      profile.Role,
		ItemCount: len(items),
	})
}

// Transporter handles GET /transporter.
//
// @Summary      Transporter dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /transporter [get]
func (h *DashboardHandler) Transporter(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		Profile: profile,
		Role:    profile.Role,
	})
}

// Unauthorized handles GET /unauthorized, the fixed access-denied
// destination. It intentionally reveals nothing about what was requested.
//
// @Summary      Access denied page
// @Tags         dashboard
// @Produce      json
// @Success      403  {object}  errorResponse
// @Router       /unauthorized [get]
func (h *DashboardHandler) Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusForbidden, errorResponse{Error: "you do not have access to this page"})
}
