package repositories

import (
	"testing"
	"time"

	"eventix_backend/internal/database"
	"eventix_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildAnalyticsFilter(t *testing.T) {
	f := BuildAnalyticsFilter(AnalyticsFilter{})
	assert.Equal(t, bson.D{{Key: "period", Value: models.PeriodDay}}, f, "all events, daily buckets")

	id := primitive.NewObjectID()
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	f = BuildAnalyticsFilter(AnalyticsFilter{EventID: &id, From: &from})

	v, _ := lookup(f, "event_id")
	assert.Equal(t, id, v)
	v, _ = lookup(f, "date")
	assert.Equal(t, bson.M{"$gte": from}, v)
}

func TestBuildTopEventsPipeline(t *testing.T) {
	p := BuildTopEventsPipeline(models.MetricRevenue, 5)

	names := make([]string, len(p))
	for i, s := range p {
		names[i] = stageName(s)
	}
	assert.Equal(t, []string{"$match", "$group", "$sort", "$limit", "$lookup", "$unwind", "$project"}, names)

	group := p[1][0].Value.(bson.M)
	assert.Equal(t, "$event_id", group["_id"])
	assert.Equal(t, bson.M{"$sum": "$metrics.revenue"}, group["total_metric"])
	assert.Equal(t, int64(5), p[3][0].Value)

	lookupStage := p[4][0].Value.(bson.M)
	assert.Equal(t, database.CollectionEvents, lookupStage["from"])

	project := p[6][0].Value.(bson.M)
	require.Contains(t, project, "event_name")
	assert.Equal(t, "$event_info.start_date", project["start_date"])
}

func TestBuildNotificationFilter(t *testing.T) {
	f := BuildNotificationFilter(NotificationFilter{UserID: "u1"})
	assert.Equal(t, bson.D{{Key: "user_id", Value: "u1"}}, f)

	f = BuildNotificationFilter(NotificationFilter{UserID: "u1", UnreadOnly: true, Category: models.NotificationCategoryTicket})
	v, _ := lookup(f, "read")
	assert.Equal(t, false, v)
	v, _ = lookup(f, "category")
	assert.Equal(t, models.NotificationCategoryTicket, v)
}
