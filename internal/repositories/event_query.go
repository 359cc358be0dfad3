package repositories

import (
	"regexp"
	"strings"
	"time"

	"eventix_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EarthRadiusKm converts a radius in kilometers to radians for $centerSphere.
const EarthRadiusKm = 6378.1

// EventFilter drives the event listing.
type EventFilter struct {
	Type       models.EventType
	Status     models.EventStatus
	City       string
	IsFeatured *bool
	DateFrom   *time.Time
	DateTo     *time.Time
	Tags       []string
	Search     string
	Sort       string
	Page       int
	Limit      int
}

// SearchParams drives the search pipeline.
type SearchParams struct {
	Query    string
	Type     models.EventType
	PriceMin *float64
	PriceMax *float64
	Location *models.Coordinates
	RadiusKm float64
	SortBy   string
	Page     int
	Limit    int
}

const (
	SortRelevance  = "relevance"
	SortDateAsc    = "date_asc"
	SortDateDesc   = "date_desc"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortPopularity = "popularity"
)

// EventSearchHit is an event with its text relevance score.
type EventSearchHit struct {
	models.Event   `bson:",inline"`
	RelevanceScore float64 `bson:"relevance_score,omitempty" json:"relevance_score,omitempty"`
}

// notDeleted matches documents whose deleted_at is null or missing.
func notDeleted() bson.E {
	return bson.E{Key: "deleted_at", Value: nil}
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// BuildEventFilter turns f into a find filter. Soft-deleted events are never
// matched.
func BuildEventFilter(f EventFilter) bson.D {
	filter := bson.D{notDeleted()}

	if f.Type != "" {
		filter = append(filter, bson.E{Key: "type", Value: f.Type})
	}
	if f.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: f.Status})
	}
	if f.City != "" {
		filter = append(filter, bson.E{Key: "venue.city", Value: containsRegex(f.City)})
	}
	if f.IsFeatured != nil {
		filter = append(filter, bson.E{Key: "is_featured", Value: *f.IsFeatured})
	}
	if len(f.Tags) > 0 {
		filter = append(filter, bson.E{Key: "tags", Value: bson.M{"$in": f.Tags}})
	}
	if f.DateFrom != nil || f.DateTo != nil {
		window := bson.M{}
		if f.DateFrom != nil {
			window["$gte"] = *f.DateFrom
		}
		if f.DateTo != nil {
			window["$lte"] = *f.DateTo
		}
		filter = append(filter, bson.E{Key: "start_date", Value: window})
	}
	if f.Search != "" {
		re := containsRegex(f.Search)
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"venue.name": re},
			bson.M{"tags": re},
		}})
	}
	return filter
}

// BuildEventSort parses "field" or "-field" (descending). Multiple fields may
// be separated by commas or spaces. Empty input sorts newest first.
func BuildEventSort(sort string) bson.D {
	fields := strings.FieldsFunc(sort, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return bson.D{{Key: "created_at", Value: -1}}
	}

	out := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		switch {
		case strings.HasPrefix(f, "-"):
			dir = -1
			f = f[1:]
		case strings.HasPrefix(f, "+"):
			f = f[1:]
		}
		if f == "" {
			continue
		}
		out = append(out, bson.E{Key: f, Value: dir})
	}
	if len(out) == 0 {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return out
}

// BuildSearchPipeline returns the full search pipeline. Its last two stages
// are always $skip and $limit.
func BuildSearchPipeline(p SearchParams) mongo.Pipeline {
	page, limit := NormalizePage(p.Page, p.Limit)
	pipeline := buildSearchStages(p)
	return append(pipeline,
		bson.D{{Key: "$skip", Value: int64((page - 1) * limit)}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	)
}

// BuildSearchCountPipeline is the search pipeline without pagination, ending
// in a $count stage named "total".
func BuildSearchCountPipeline(p SearchParams) mongo.Pipeline {
	pipeline := buildSearchStages(p)
	return append(pipeline, bson.D{{Key: "$count", Value: "total"}})
}

func buildSearchStages(p SearchParams) mongo.Pipeline {
	var pipeline mongo.Pipeline

	match := bson.D{
		{Key: "status", Value: models.EventStatusPublished},
		notDeleted(),
	}
	if p.Query != "" {
		match = append(match, bson.E{Key: "$text", Value: bson.M{"$search": p.Query}})
	}
	if p.Type != "" {
		match = append(match, bson.E{Key: "type", Value: p.Type})
	}
	if p.PriceMin != nil || p.PriceMax != nil {
		price := bson.M{}
		if p.PriceMin != nil {
			price["$gte"] = *p.PriceMin
		}
		if p.PriceMax != nil {
			price["$lte"] = *p.PriceMax
		}
		match = append(match, bson.E{Key: "ticket_types.price", Value: price})
	}
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})

	if p.Location != nil && p.RadiusKm > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"venue.coordinates": bson.M{
				"$geoWithin": bson.M{
					"$centerSphere": bson.A{
						bson.A{p.Location.Lng, p.Location.Lat},
						p.RadiusKm / EarthRadiusKm,
					},
				},
			},
		}}})
	}

	if p.Query != "" {
		pipeline = append(pipeline, bson.D{{Key: "$addFields", Value: bson.M{
			"relevance_score": bson.M{"$meta": "textScore"},
		}}})
	}

	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: buildSearchSort(p.SortBy, p.Query != "")}})
	return pipeline
}

func buildSearchSort(sortBy string, hasQuery bool) bson.D {
	switch sortBy {
	case SortRelevance:
		if hasQuery {
			return bson.D{{Key: "relevance_score", Value: bson.M{"$meta": "textScore"}}}
		}
	case SortDateAsc:
		return bson.D{{Key: "start_date", Value: 1}}
	case SortDateDesc:
		return bson.D{{Key: "start_date", Value: -1}}
	case SortPriceAsc:
		return bson.D{{Key: "ticket_types.price", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "ticket_types.price", Value: -1}}
	case SortPopularity:
		return bson.D{{Key: "stats.views", Value: -1}}
	}
	return bson.D{{Key: "created_at", Value: -1}}
}
