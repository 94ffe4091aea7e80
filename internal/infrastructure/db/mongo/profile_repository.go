package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

const collectionProfiles = "profiles"

// ProfileRepository persists profiles keyed by subject id. The subject id is
// the document _id, so Mongo itself enforces the one-profile-per-subject
// invariant and double provisioning surfaces as a duplicate key error.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(collectionProfiles)}
}

type mongoProfile struct {
	ID          string `bson:"_id"`
	FullName    string `bson:"full_name"`
	Role        string `bson:"role"`
	CompanyName string `bson:"company_name,omitempty"`
	Phone       string `bson:"phone,omitempty"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func (mp mongoProfile) toDomain() *domain.Profile {
	return &domain.Profile{
		SubjectID:   mp.ID,
		FullName:    mp.FullName,
		Role:        domain.Role(mp.Role),
		CompanyName: mp.CompanyName,
		Phone:       mp.Phone,
		CreatedAt:   unixToTime(mp.CreatedAt),
		UpdatedAt:   unixToTime(mp.UpdatedAt),
	}
}

func (r *ProfileRepository) FindBySubject(ctx context.Context, subjectID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"_id": subjectID}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: find profile: %v", domain.ErrStoreUnavailable, err)
	}
	return mp.toDomain(), nil
}

func (r *ProfileRepository) Insert(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoProfile{
		ID:          p.SubjectID,
		FullName:    p.FullName,
		Role:        string(p.Role),
		CompanyName: p.CompanyName,
		Phone:       p.Phone,
		CreatedAt:   p.CreatedAt.Unix(),
		UpdatedAt:   p.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("%w: insert profile: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, subjectID string, in ports.ProfileUpdateInput) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"full_name":    in.FullName,
		"company_name": in.CompanyName,
		"phone":        in.Phone,
		"updated_at":   time.Now().UTC().Unix(),
	}}

	var mp mongoProfile
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": subjectID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: update profile: %v", domain.ErrStoreUnavailable, err)
	}
	return mp.toDomain(), nil
}

func (r *ProfileRepository) UpdateRole(ctx context.Context, subjectID string, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"role":       string(role),
		"updated_at": time.Now().UTC().Unix(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": subjectID}, update)
	if err != nil {
		return fmt.Errorf("%w: update role: %v", domain.ErrStoreUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: list profiles: %v", domain.ErrStoreUnavailable, err)
	}
	defer cur.Close(ctx)

	var out []*domain.Profile
	for cur.Next(ctx) {
		var mp mongoProfile
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("%w: decode profile: %v", domain.ErrStoreUnavailable, err)
		}
		out = append(out, mp.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: list profiles: %v", domain.ErrStoreUnavailable, err)
	}
	return out, nil
}
