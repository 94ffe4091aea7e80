package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

const collectionInventory = "inventory_items"

type InventoryRepository struct {
	coll *mongo.Collection
}

func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	return &InventoryRepository{coll: db.Collection(collectionInventory)}
}

type mongoItem struct {
	ID          string  `bson:"_id"`
	SellerID    string  `bson:"seller_id"`
	WasteType   string  `bson:"waste_type"`
	Quantity    float64 `bson:"quantity"`
	UnitPrice   float64 `bson:"unit_price"`
	Description string  `bson:"description,omitempty"`
	Location    string  `bson:"location,omitempty"`
	Status      string  `bson:"status"`
	CreatedAt   int64   `bson:"created_at"`
	UpdatedAt   int64   `bson:"updated_at"`
}

func fromDomainItem(item *domain.InventoryItem) mongoItem {
	return mongoItem{
		ID:          item.ID,
		SellerID:    item.SellerID,
		WasteType:   string(item.WasteType),
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Description: item.Description,
		Location:    item.Location,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt.Unix(),
		UpdatedAt:   item.UpdatedAt.Unix(),
	}
}

func (mi mongoItem) toDomain() *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:          mi.ID,
		SellerID:    mi.SellerID,
		WasteType:   domain.WasteType(mi.WasteType),
		Quantity:    mi.Quantity,
		UnitPrice:   mi.UnitPrice,
		Description: mi.Description,
		Location:    mi.Location,
		Status:      domain.ItemStatus(mi.Status),
		CreatedAt:   unixToTime(mi.CreatedAt),
		UpdatedAt:   unixToTime(mi.UpdatedAt),
	}
}

func (r *InventoryRepository) Insert(ctx context.Context, item *domain.InventoryItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, fromDomainItem(item)); err != nil {
		return err
	}
	return nil
}

func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mi mongoItem
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return mi.toDomain(), nil
}

func (r *InventoryRepository) ListBySeller(ctx context.Context, sellerID string) ([]*domain.InventoryItem, error) {
	return r.list(ctx, bson.M{"seller_id": sellerID})
}

func (r *InventoryRepository) ListAvailable(ctx context.Context) ([]*domain.InventoryItem, error) {
	return r.list(ctx, bson.M{"status": string(domain.ItemAvailable)})
}

func (r *InventoryRepository) list(ctx context.Context, filter bson.M) ([]*domain.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.InventoryItem
	for cur.Next(ctx) {
		var mi mongoItem
		if err := cur.Decode(&mi); err != nil {
			return nil, err
		}
		out = append(out, mi.toDomain())
	}
	return out, cur.Err()
}

func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": item.ID}, fromDomainItem(item))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
