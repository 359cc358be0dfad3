package repositories

import (
	"time"

	"eventix_backend/internal/database"
	"eventix_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AnalyticsFilter selects buckets. A nil EventID selects every event.
type AnalyticsFilter struct {
	EventID *primitive.ObjectID
	Period  models.AnalyticsPeriod
	From    *time.Time
	To      *time.Time
}

// TopEvent is one row of the top-events ranking.
type TopEvent struct {
	EventID     primitive.ObjectID `bson:"event_id" json:"event_id"`
	EventName   string             `bson:"event_name" json:"event_name"`
	EventType   models.EventType   `bson:"event_type" json:"event_type"`
	TotalMetric float64            `bson:"total_metric" json:"total_metric"`
	StartDate   time.Time          `bson:"start_date" json:"start_date"`
}

func BuildAnalyticsFilter(f AnalyticsFilter) bson.D {
	filter := bson.D{}
	if f.EventID != nil {
		filter = append(filter, bson.E{Key: "event_id", Value: *f.EventID})
	}
	period := f.Period
	if period == "" {
		period = models.PeriodDay
	}
	filter = append(filter, bson.E{Key: "period", Value: period})

	if f.From != nil || f.To != nil {
		window := bson.M{}
		if f.From != nil {
			window["$gte"] = *f.From
		}
		if f.To != nil {
			window["$lte"] = *f.To
		}
		filter = append(filter, bson.E{Key: "date", Value: window})
	}
	return filter
}

// BuildTopEventsPipeline sums metric per event over daily buckets, keeps the
// highest limit totals and joins the event's name, type and start date.
// metric must be one of models.MetricNames.
func BuildTopEventsPipeline(metric string, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"period": models.PeriodDay}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$event_id",
			"total_metric": bson.M{"$sum": "$metrics." + metric},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_metric", Value: -1}}}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.CollectionEvents,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "event_info",
		}}},
		{{Key: "$unwind", Value: "$event_info"}},
		{{Key: "$project", Value: bson.M{
			"_id":          0,
			"event_id":     "$_id",
			"event_name":   "$event_info.name",
			"event_type":   "$event_info.type",
			"total_metric": 1,
			"start_date":   "$event_info.start_date",
		}}},
	}
}
