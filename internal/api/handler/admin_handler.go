package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

type AdminHandler struct {
	profiles ports.ProfileService
	activity ports.ActivityRepository
}

func NewAdminHandler(profiles ports.ProfileService, activity ports.ActivityRepository) *AdminHandler {
	return &AdminHandler{profiles: profiles, activity: activity}
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=buyer seller admin transporter"`
}

type listUsersResponse struct {
	Users []*domain.Profile `json:"users"`
}

type listLogsResponse struct {
	Logs []*domain.ActivityEntry `json:"logs"`
}

// ListUsers returns every profile, newest first.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.profiles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: users})
}

// UpdateRole changes a user's role. The change takes effect on the user's
// next request.
//
// @Summary      Update a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Subject id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	actor, err := ctxProfile(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	subjectID := c.Param("id")
	if err := h.profiles.SetRole(c.Request().Context(), subjectID, domain.Role(req.Role), actor.SubjectID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListLogs returns recent activity log entries, newest first.
//
// @Summary      List activity logs
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries (default 200)"
// @Success      200    {object}  listLogsResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/admin/logs [get]
func (h *AdminHandler) ListLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	logs, err := h.activity.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listLogsResponse{Logs: logs})
}
