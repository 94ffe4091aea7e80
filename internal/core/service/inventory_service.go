package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cottontrade/marketplace-api/internal/api/metrics"
	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

// InventoryService manages cotton waste lots. Ownership is enforced here:
// sellers only ever touch their own items, admins may read anything.
type InventoryService struct {
	repo ports.InventoryRepository
	log  zerolog.Logger
}

func NewInventoryService(repo ports.InventoryRepository, log zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, log: log}
}

func (s *InventoryService) Create(ctx context.Context, sellerID string, in ports.CreateItemInput) (*domain.InventoryItem, error) {
	wasteType := domain.WasteType(in.WasteType)
	if !wasteType.Valid() {
		return nil, domain.ErrInvalidWasteType
	}

	now := time.Now().UTC()
	item := &domain.InventoryItem{
		ID:          uuid.NewString(),
		SellerID:    sellerID,
		WasteType:   wasteType,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Description: in.Description,
		Location:    in.Location,
		Status:      domain.ItemAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		s.log.Error().Err(err).Str("seller_id", sellerID).Msg("failed to create inventory item")
		return nil, err
	}

	metrics.InventoryItemsCreatedTotal.WithLabelValues(string(wasteType)).Inc()
	s.log.Info().
		Str("item_id", item.ID).
		Str("seller_id", sellerID).
		Str("waste_type", string(wasteType)).
		Msg("inventory item created")
	return item, nil
}

func (s *InventoryService) Get(ctx context.Context, id, requesterID string, requesterRole domain.Role) (*domain.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.SellerID != requesterID && requesterRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

func (s *InventoryService) ListOwn(ctx context.Context, sellerID string) ([]*domain.InventoryItem, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

func (s *InventoryService) ListMarket(ctx context.Context) ([]*domain.InventoryItem, error) {
	return s.repo.ListAvailable(ctx)
}

func (s *InventoryService) Update(ctx context.Context, id, sellerID string, in ports.UpdateItemInput) (*domain.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.SellerID != sellerID {
		return nil, domain.ErrForbidden
	}

	if in.Status != "" {
		switch domain.ItemStatus(in.Status) {
		case domain.ItemAvailable, domain.ItemReserved, domain.ItemSold:
			item.Status = domain.ItemStatus(in.Status)
		default:
			return nil, domain.ErrInvalidStatus
		}
	}
	item.Quantity = in.Quantity
	item.UnitPrice = in.UnitPrice
	item.Description = in.Description
	item.Location = in.Location
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id, sellerID string) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if item.SellerID != sellerID {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
