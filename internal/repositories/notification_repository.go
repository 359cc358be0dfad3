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

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationFilter selects a user's notifications.
type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Category   models.NotificationCategory
	Page       int
	Limit      int
}

// DispatchChannel names a delivery channel stamped on a notification.
type DispatchChannel string

const (
	ChannelEmail DispatchChannel = "email"
	ChannelPush  DispatchChannel = "push"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateMany(ctx context.Context, ns []*models.Notification) error
	FindByUser(ctx context.Context, filter NotificationFilter) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkAsRead, Delete and MarkAllAsRead only touch notifications owned by userID.
	MarkAsRead(ctx context.Context, id primitive.ObjectID, userID string, at time.Time) (*models.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string, at time.Time) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
	MarkDispatched(ctx context.Context, id primitive.ObjectID, channel DispatchChannel, at time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type NotificationRepositoryImpl struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	return &NotificationRepositoryImpl{coll: db.Collection(database.CollectionNotifications)}
}

func BuildNotificationFilter(f NotificationFilter) bson.D {
	filter := bson.D{{Key: "user_id", Value: f.UserID}}
	if f.UnreadOnly {
		filter = append(filter, bson.E{Key: "read", Value: false})
	}
	if f.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: f.Category})
	}
	return filter
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, n *models.Notification) error {
	res, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

func (r *NotificationRepositoryImpl) CreateMany(ctx context.Context, ns []*models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	docs := make([]interface{}, len(ns))
	for i, n := range ns {
		if n.ID.IsZero() {
			n.ID = primitive.NewObjectID()
		}
		docs[i] = n
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert notifications: %w", err)
	}
	return nil
}

func (r *NotificationRepositoryImpl) FindByUser(ctx context.Context, filter NotificationFilter) ([]models.Notification, int64, error) {
	query := BuildNotificationFilter(filter)
	page, limit := NormalizePage(filter.Page, filter.Limit)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find notifications: %w", err)
	}
	list := make([]models.Notification, 0, limit)
	if err := cursor.All(ctx, &list); err != nil {
		return nil, 0, fmt.Errorf("failed to decode notifications: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return list, total, nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

func (r *NotificationRepositoryImpl) MarkAsRead(ctx context.Context, id primitive.ObjectID, userID string, at time.Time) (*models.Notification, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Notification
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true, "read_at": at}},
		opts,
	).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return &n, nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": at}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *NotificationRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkDispatched(ctx context.Context, id primitive.ObjectID, channel DispatchChannel, at time.Time) error {
	prefix := string(channel)
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		prefix + "_sent":    true,
		prefix + "_sent_at": at,
	}})
	if err != nil {
		return fmt.Errorf("failed to stamp %s dispatch: %w", channel, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %w", err)
	}
	return res.DeletedCount, nil
}
