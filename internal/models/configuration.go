package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Configuration is a global key/value setting. Value holds any JSON-compatible
// value.
type Configuration struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key         string             `bson:"key" json:"key"`
	Value       interface{}        `bson:"value" json:"value"`
	Category    ConfigCategory     `bson:"category" json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	IsPublic    bool               `bson:"is_public" json:"is_public"`
	CreatedBy   string             `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
