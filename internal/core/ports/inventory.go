package ports

import (
	"context"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

// CreateItemInput is the DTO passed from the transport layer to InventoryService.
type CreateItemInput struct {
	WasteType   string
	Quantity    float64
	UnitPrice   float64
	Description string
	Location    string
}

// UpdateItemInput carries the mutable fields of an inventory item.
type UpdateItemInput struct {
	Quantity    float64
	UnitPrice   float64
	Description string
	Location    string
	Status      string
}

// InventoryRepository defines persistence operations for inventory items.
type InventoryRepository interface {
	Insert(ctx context.Context, item *domain.InventoryItem) error
	FindByID(ctx context.Context, id string) (*domain.InventoryItem, error)
	// ListBySeller returns a seller's items, newest first.
	ListBySeller(ctx context.Context, sellerID string) ([]*domain.InventoryItem, error)
	// ListAvailable returns all items still for sale, newest first.
	ListAvailable(ctx context.Context) ([]*domain.InventoryItem, error)
	Update(ctx context.Context, item *domain.InventoryItem) error
	Delete(ctx context.Context, id string) error
}

// InventoryService implements seller inventory management and the buyer-facing
// market listing. Ownership checks live here, not in the transport layer.
type InventoryService interface {
	Create(ctx context.Context, sellerID string, in CreateItemInput) (*domain.InventoryItem, error)
	Get(ctx context.Context, id, requesterID string, requesterRole domain.Role) (*domain.InventoryItem, error)
	ListOwn(ctx context.Context, sellerID string) ([]*domain.InventoryItem, error)
	ListMarket(ctx context.Context) ([]*domain.InventoryItem, error)
	Update(ctx context.Context, id, sellerID string, in UpdateItemInput) (*domain.InventoryItem, error)
	Delete(ctx context.Context, id, sellerID string) error
}
