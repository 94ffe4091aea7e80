package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

// InventoryHandler handles seller inventory management and the buyer-facing
// market listing.
type InventoryHandler struct {
	service ports.InventoryService
}

func NewInventoryHandler(service ports.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

type createItemRequest struct {
	WasteType   string  `json:"waste_type"  validate:"required,oneof=yarn_waste comber_noil flat_strips other"`
	Quantity    float64 `json:"quantity"    validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price"  validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=2000"`
	Location    string  `json:"location"    validate:"max=200"`
}

type updateItemRequest struct {
	Quantity    float64 `json:"quantity"    validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price"  validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=2000"`
	Location    string  `json:"location"    validate:"max=200"`
	Status      string  `json:"status"      validate:"omitempty,oneof=available reserved sold"`
}

type listItemsResponse struct {
	Items []*domain.InventoryItem `json:"items"`
}

// List returns the caller's own inventory, newest first.
//
// @Summary      List own inventory
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listItemsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/inventory [get]
func (h *InventoryHandler) List(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListOwn(c.Request().Context(), profile.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listItemsResponse{Items: items})
}

// Create lists a new cotton waste lot for sale.
//
// @Summary      Create an inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createItemRequest  true  "Item details"
// @Success      201   {object}  domain.InventoryItem
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/inventory [post]
func (h *InventoryHandler) Create(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	item, err := h.service.Create(c.Request().Context(), profile.SubjectID, ports.CreateItemInput{
		WasteType:   req.WasteType,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Get returns one of the caller's items.
//
// @Summary      Get an inventory item
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Item id"
// @Success      200  {object}  domain.InventoryItem
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/inventory/{id} [get]
func (h *InventoryHandler) Get(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	item, err := h.service.Get(c.Request().Context(), c.Param("id"), profile.SubjectID, profile.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Update replaces the mutable fields of one of the caller's items.
//
// @Summary      Update an inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Item id"
// @Param        body  body      updateItemRequest  true  "Item fields"
// @Success      200   {object}  domain.InventoryItem
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/inventory/{id} [put]
func (h *InventoryHandler) Update(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	item, err := h.service.Update(c.Request().Context(), c.Param("id"), profile.SubjectID, ports.UpdateItemInput{
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Description: req.Description,
		Location:    req.Location,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Delete removes one of the caller's items.
//
// @Summary      Delete an inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Param        id  path  string  true  "Item id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), profile.SubjectID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Market returns every item still for sale, across all sellers.
//
// @Summary      Browse the market
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listItemsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/market [get]
func (h *InventoryHandler) Market(c echo.Context) error {
	items, err := h.service.ListMarket(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listItemsResponse{Items: items})
}
