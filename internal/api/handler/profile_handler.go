package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type updateProfileRequest struct {
	FullName    string `json:"full_name"    validate:"max=120"`
	CompanyName string `json:"company_name" validate:"max=120"`
	Phone       string `json:"phone"        validate:"max=32"`
}

// Get returns the caller's own profile. The gate already loaded (and, on a
// first visit, provisioned) it.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  errorResponse
// @Router       /v1/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Update applies the self-service profile fields. The role cannot be changed
// here.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	updated, err := h.profiles.Update(c.Request().Context(), profile.SubjectID, ports.ProfileUpdateInput{
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
