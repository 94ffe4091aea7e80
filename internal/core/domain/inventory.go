package domain

import (
	"errors"
	"time"
)

// WasteType classifies a cotton waste lot.
type WasteType string

const (
	WasteYarn       WasteType = "yarn_waste"
	WasteComberNoil WasteType = "comber_noil"
	WasteFlatStrips WasteType = "flat_strips"
	WasteOther      WasteType = "other"
)

// Valid reports whether w is a known waste type.
func (w WasteType) Valid() bool {
	switch w {
	case WasteYarn, WasteComberNoil, WasteFlatStrips, WasteOther:
		return true
	}
	return false
}

// ItemStatus is the sale state of an inventory item.
type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemReserved  ItemStatus = "reserved"
	ItemSold      ItemStatus = "sold"
)

var ErrItemNotFound = errors.New("inventory item not found")
var ErrInvalidWasteType = errors.New("invalid waste type")
var ErrInvalidStatus = errors.New("invalid item status")
var ErrForbidden = errors.New("access forbidden")

// InventoryItem is a cotton waste lot listed by a seller.
type InventoryItem struct {
	ID          string     `json:"id"`
	SellerID    string     `json:"seller_id"`
	WasteType   WasteType  `json:"waste_type"`
	Quantity    float64    `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Status      ItemStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
