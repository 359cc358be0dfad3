package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventix_backend/internal/database"
	"eventix_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrConfigurationNotFound = errors.New("configuration not found")

type ConfigurationRepository interface {
	// FindActiveByKey returns ErrConfigurationNotFound for missing or inactive keys.
	FindActiveByKey(ctx context.Context, key string) (*models.Configuration, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Upsert writes value, category, description, is_public, created_by and
	// updated_at by key and returns the stored document.
	Upsert(ctx context.Context, cfg *models.Configuration) (*models.Configuration, error)
	FindByCategory(ctx context.Context, category models.ConfigCategory) ([]models.Configuration, error)
	FindPublic(ctx context.Context) ([]models.Configuration, error)
	FindAll(ctx context.Context) ([]models.Configuration, error)
}

type ConfigurationRepositoryImpl struct {
	coll *mongo.Collection
}

func NewConfigurationRepository(db *mongo.Database) ConfigurationRepository {
	return &ConfigurationRepositoryImpl{coll: db.Collection(database.CollectionConfigurations)}
}

func (r *ConfigurationRepositoryImpl) FindActiveByKey(ctx context.Context, key string) (*models.Configuration, error) {
	var cfg models.Configuration
	err := r.coll.FindOne(ctx, bson.M{"key": key, "is_active": true}).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrConfigurationNotFound
		}
		return nil, fmt.Errorf("failed to find configuration: %w", err)
	}
	return &cfg, nil
}

func (r *ConfigurationRepositoryImpl) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"key": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check configuration: %w", err)
	}
	return n > 0, nil
}

func (r *ConfigurationRepositoryImpl) Upsert(ctx context.Context, cfg *models.Configuration) (*models.Configuration, error) {
	now := cfg.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	update := bson.M{
		"$set": bson.M{
			"value":       cfg.Value,
			"category":    cfg.Category,
			"description": cfg.Description,
			"is_public":   cfg.IsPublic,
			"created_by":  cfg.CreatedBy,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"is_active":  true,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Configuration
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"key": cfg.Key}, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to upsert configuration: %w", err)
	}
	return &stored, nil
}

func (r *ConfigurationRepositoryImpl) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Configuration, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to find configurations: %w", err)
	}
	list := make([]models.Configuration, 0)
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("failed to decode configurations: %w", err)
	}
	return list, nil
}

func (r *ConfigurationRepositoryImpl) FindByCategory(ctx context.Context, category models.ConfigCategory) ([]models.Configuration, error) {
	return r.find(ctx, bson.M{"category": category, "is_active": true}, bson.D{{Key: "key", Value: 1}})
}

func (r *ConfigurationRepositoryImpl) FindPublic(ctx context.Context) ([]models.Configuration, error) {
	return r.find(ctx, bson.M{"is_public": true, "is_active": true}, bson.D{{Key: "key", Value: 1}})
}

func (r *ConfigurationRepositoryImpl) FindAll(ctx context.Context) ([]models.Configuration, error) {
	return r.find(ctx, bson.M{"is_active": true}, bson.D{{Key: "category", Value: 1}, {Key: "key", Value: 1}})
}
