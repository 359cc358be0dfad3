package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventix_backend/internal/database"
	"eventix_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrAnalyticsNotFound = errors.New("analytics record not found")

// AnalyticsKey identifies one bucket.
type AnalyticsKey struct {
	EventID primitive.ObjectID
	Date    time.Time
	Period  models.AnalyticsPeriod
}

type AnalyticsRepository interface {
	// Increment upserts the bucket and adds inc to the named fields
	// (e.g. "metrics.page_views"). It returns the bucket after the update.
	Increment(ctx context.Context, key AnalyticsKey, inc map[string]float64) (*models.Analytics, error)
	// SetFields overwrites fields on an existing bucket.
	SetFields(ctx context.Context, id primitive.ObjectID, fields map[string]float64) error
	// Initialize creates the bucket if it does not exist.
	Initialize(ctx context.Context, key AnalyticsKey) error
	Find(ctx context.Context, filter AnalyticsFilter) ([]models.Analytics, error)
	TopEvents(ctx context.Context, metric string, limit int) ([]TopEvent, error)
}

type AnalyticsRepositoryImpl struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewAnalyticsRepository(db *mongo.Database) AnalyticsRepository {
	return &AnalyticsRepositoryImpl{
		coll: db.Collection(database.CollectionAnalytics),
		now:  time.Now,
	}
}

func keyFilter(key AnalyticsKey) bson.D {
	return bson.D{
		{Key: "event_id", Value: key.EventID},
		{Key: "date", Value: key.Date},
		{Key: "period", Value: key.Period},
	}
}

func (r *AnalyticsRepositoryImpl) Increment(ctx context.Context, key AnalyticsKey, inc map[string]float64) (*models.Analytics, error) {
	incDoc := bson.M{}
	for field, v := range inc {
		incDoc[field] = v
	}

	update := bson.M{
		"$inc":         incDoc,
		"$setOnInsert": bson.M{"created_at": r.now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var bucket models.Analytics
	err := r.coll.FindOneAndUpdate(ctx, keyFilter(key), update, opts).Decode(&bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to update analytics: %w", err)
	}
	return &bucket, nil
}

func (r *AnalyticsRepositoryImpl) SetFields(ctx context.Context, id primitive.ObjectID, fields map[string]float64) error {
	set := bson.M{}
	for field, v := range fields {
		set[field] = v
	}
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to set analytics fields: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAnalyticsNotFound
	}
	return nil
}

func (r *AnalyticsRepositoryImpl) Initialize(ctx context.Context, key AnalyticsKey) error {
	_, err := r.coll.UpdateOne(ctx, keyFilter(key),
		bson.M{"$setOnInsert": bson.M{
			"metrics":         models.Metrics{},
			"traffic_sources": models.TrafficSources{},
			"devices":         models.Devices{},
			"performance":     models.Performance{},
			"created_at":      r.now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize analytics: %w", err)
	}
	return nil
}

func (r *AnalyticsRepositoryImpl) Find(ctx context.Context, filter AnalyticsFilter) ([]models.Analytics, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll.Find(ctx, BuildAnalyticsFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find analytics: %w", err)
	}
	buckets := make([]models.Analytics, 0)
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode analytics: %w", err)
	}
	return buckets, nil
}

func (r *AnalyticsRepositoryImpl) TopEvents(ctx context.Context, metric string, limit int) ([]TopEvent, error) {
	cursor, err := r.coll.Aggregate(ctx, BuildTopEventsPipeline(metric, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top events: %w", err)
	}
	top := make([]TopEvent, 0, limit)
	if err := cursor.All(ctx, &top); err != nil {
		return nil, fmt.Errorf("failed to decode top events: %w", err)
	}
	return top, nil
}
