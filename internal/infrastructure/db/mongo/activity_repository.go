package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

const collectionActivity = "activity_logs"

const defaultLogLimit = 200

type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(collectionActivity)}
}

type mongoActivity struct {
	ID        string         `bson:"_id"`
	SubjectID string         `bson:"subject_id"`
	Action    string         `bson:"action"`
	Details   map[string]any `bson:"details,omitempty"`
	CreatedAt int64          `bson:"created_at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, entry *domain.ActivityEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoActivity{
		ID:        entry.ID,
		SubjectID: entry.SubjectID,
		Action:    entry.Action,
		Details:   entry.Details,
		CreatedAt: entry.CreatedAt.Unix(),
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func (r *ActivityRepository) List(ctx context.Context, limit int) ([]*domain.ActivityEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if limit <= 0 || limit > defaultLogLimit {
		limit = defaultLogLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.ActivityEntry
	for cur.Next(ctx) {
		var ma mongoActivity
		if err := cur.Decode(&ma); err != nil {
			return nil, err
		}
		out = append(out, &domain.ActivityEntry{
			ID:        ma.ID,
			SubjectID: ma.SubjectID,
			Action:    ma.Action,
			Details:   ma.Details,
			CreatedAt: unixToTime(ma.CreatedAt),
		})
	}
	return out, cur.Err()
}
