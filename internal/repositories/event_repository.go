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
	"golang.org/x/sync/errgroup"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrSlugTaken     = errors.New("slug already in use")
)

// EventStatsDelta is added to an event's stats counters.
type EventStatsDelta struct {
	Views       int64
	SoldTickets int
	Revenue     float64
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	FindBySlug(ctx context.Context, slug string) (*models.Event, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error)
	Search(ctx context.Context, params SearchParams) ([]EventSearchHit, int64, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateConfig(ctx context.Context, id primitive.ObjectID, config models.EventConfig) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) error
	IncrementStats(ctx context.Context, id primitive.ObjectID, delta EventStatsDelta) error
}

type EventRepositoryImpl struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) EventRepository {
	return &EventRepositoryImpl{coll: db.Collection(database.CollectionEvents)}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *models.Event) error {
	res, err := r.coll.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to insert event: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid
	}
	return nil
}

func (r *EventRepositoryImpl) findOne(ctx context.Context, filter bson.D) (*models.Event, error) {
	var event models.Event
	err := r.coll.FindOne(ctx, append(filter, notDeleted())).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return &event, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *EventRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	return r.findOne(ctx, bson.D{{Key: "slug", Value: slug}})
}

// SlugExists also counts soft-deleted events, since the unique index does.
func (r *EventRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return n > 0, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error) {
	query := BuildEventFilter(filter)
	page, limit := NormalizePage(filter.Page, filter.Limit)

	opts := options.Find().
		SetSort(BuildEventSort(filter.Sort)).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	events := make([]models.Event, 0, limit)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, 0, fmt.Errorf("failed to decode events: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}
	return events, total, nil
}

// Search runs the page query and the count query concurrently.
func (r *EventRepositoryImpl) Search(ctx context.Context, params SearchParams) ([]EventSearchHit, int64, error) {
	var (
		hits  []EventSearchHit
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cursor, err := r.coll.Aggregate(gctx, BuildSearchPipeline(params))
		if err != nil {
			return fmt.Errorf("failed to search events: %w", err)
		}
		page := make([]EventSearchHit, 0)
		if err := cursor.All(gctx, &page); err != nil {
			return fmt.Errorf("failed to decode search results: %w", err)
		}
		hits = page
		return nil
	})

	g.Go(func() error {
		cursor, err := r.coll.Aggregate(gctx, BuildSearchCountPipeline(params))
		if err != nil {
			return fmt.Errorf("failed to count search results: %w", err)
		}
		var counts []struct {
			Total int64 `bson:"total"`
		}
		if err := cursor.All(gctx, &counts); err != nil {
			return fmt.Errorf("failed to decode search count: %w", err)
		}
		if len(counts) > 0 {
			total = counts[0].Total
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return hits, total, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, event *models.Event) error {
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: event.ID}, notDeleted()}, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) UpdateConfig(ctx context.Context, id primitive.ObjectID, config models.EventConfig) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}, notDeleted()},
		bson.M{"$set": bson.M{"config": config, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update event config: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}, notDeleted()},
		bson.M{"$set": bson.M{"deleted_at": at, "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) IncrementStats(ctx context.Context, id primitive.ObjectID, delta EventStatsDelta) error {
	inc := bson.M{}
	if delta.Views != 0 {
		inc["stats.views"] = delta.Views
	}
	if delta.SoldTickets != 0 {
		inc["stats.sold_tickets"] = delta.SoldTickets
	}
	if delta.Revenue != 0 {
		inc["stats.revenue"] = delta.Revenue
	}
	if len(inc) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": inc})
	if err != nil {
		return fmt.Errorf("failed to update event stats: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}
