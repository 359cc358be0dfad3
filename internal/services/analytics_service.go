package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventix_backend/internal/logger"
	"eventix_backend/internal/models"
	"eventix_backend/internal/repositories"
	"eventix_backend/internal/services/dto"
	"eventix_backend/pkg/apperrors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultTopEventsLimit  = 10
	defaultTopEventsMetric = models.MetricRevenue
	weeklyReportDays       = 7
)

// AnalyticsService maintains the daily analytics buckets. The Record* methods
// are side effects of other operations: failures are logged, never returned.
type AnalyticsService interface {
	RecordPageView(ctx context.Context, eventID primitive.ObjectID, userAgent, ip string)
	// RecordDetailView counts a view in the bucket only, for callers that
	// already bumped the event's stats.views.
	RecordDetailView(ctx context.Context, eventID primitive.ObjectID, userAgent, ip string)
	RecordTicketPurchase(ctx context.Context, eventID primitive.ObjectID, quantity int, amount float64)
	RecordRefund(ctx context.Context, eventID primitive.ObjectID, quantity int, amount float64)

	GetDashboardMetrics(ctx context.Context, eventID *primitive.ObjectID, from, to *time.Time) (*dto.DashboardMetrics, error)
	GetTopEvents(ctx context.Context, limit int, metric string) ([]repositories.TopEvent, error)
	GenerateWeeklyReport(ctx context.Context, eventID string) (*dto.WeeklyReport, error)
	InitializeEventAnalytics(ctx context.Context, eventID primitive.ObjectID) error
}

type analyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
	eventRepo     repositories.EventRepository
	now           func() time.Time
}

func NewAnalyticsService(
	analyticsRepo repositories.AnalyticsRepository,
	eventRepo repositories.EventRepository,
) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		eventRepo:     eventRepo,
		now:           time.Now,
	}
}

func (s *analyticsService) todayKey(eventID primitive.ObjectID) repositories.AnalyticsKey {
	return repositories.AnalyticsKey{
		EventID: eventID,
		Date:    models.DayStart(s.now()),
		Period:  models.PeriodDay,
	}
}

// ---------------- Recording ----------------

func (s *analyticsService) RecordPageView(ctx context.Context, eventID primitive.ObjectID, userAgent, ip string) {
	s.recordView(ctx, eventID, userAgent, ip)

	if err := s.eventRepo.IncrementStats(ctx, eventID, repositories.EventStatsDelta{Views: 1}); err != nil {
		logger.CtxWithError(ctx, "Failed to increment event views", err, "event_id", eventID.Hex())
	}
}

func (s *analyticsService) RecordDetailView(ctx context.Context, eventID primitive.ObjectID, userAgent, ip string) {
	s.recordView(ctx, eventID, userAgent, ip)
}

// recordView counts unique_visitors on every view; there is no visitor
// identity to deduplicate on.
func (s *analyticsService) recordView(ctx context.Context, eventID primitive.ObjectID, userAgent, ip string) {
	inc := map[string]float64{
		"metrics." + models.MetricPageViews:         1,
		"metrics." + models.MetricUniqueVisitors:    1,
		"devices." + deviceFromUserAgent(userAgent): 1,
	}
	if _, err := s.analyticsRepo.Increment(ctx, s.todayKey(eventID), inc); err != nil {
		logger.CtxWithError(ctx, "Failed to record page view", err,
			"event_id", eventID.Hex(),
			"ip", ip,
		)
	}
}

func (s *analyticsService) RecordTicketPurchase(ctx context.Context, eventID primitive.ObjectID, quantity int, amount float64) {
	inc := map[string]float64{
		"metrics." + models.MetricTicketsSold:       float64(quantity),
		"metrics." + models.MetricRevenue:           amount,
		"metrics." + models.MetricCheckoutInitiated: 1,
	}
	bucket, err := s.analyticsRepo.Increment(ctx, s.todayKey(eventID), inc)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to record ticket purchase", err, "event_id", eventID.Hex())
		return
	}

	delta := repositories.EventStatsDelta{SoldTickets: quantity, Revenue: amount}
	if err := s.eventRepo.IncrementStats(ctx, eventID, delta); err != nil {
		logger.CtxWithError(ctx, "Failed to update event sales stats", err, "event_id", eventID.Hex())
	}

	derived := map[string]float64{}
	if rate, ok := models.ConversionRateFor(bucket.Metrics.CheckoutInitiated, bucket.Metrics.PageViews); ok {
		derived["metrics."+models.MetricConversionRate] = rate
	}
	if bucket.Metrics.CheckoutInitiated > 0 {
		derived["metrics."+models.MetricAverageOrderValue] = models.Round2(bucket.Metrics.Revenue / bucket.Metrics.CheckoutInitiated)
	}
	if len(derived) == 0 {
		return
	}
	if err := s.analyticsRepo.SetFields(ctx, bucket.ID, derived); err != nil {
		logger.CtxWithError(ctx, "Failed to update conversion rate", err, "event_id", eventID.Hex())
	}
}

// RecordRefund does not floor counters at zero.
func (s *analyticsService) RecordRefund(ctx context.Context, eventID primitive.ObjectID, quantity int, amount float64) {
	inc := map[string]float64{
		"metrics." + models.MetricRefunds:     1,
		"metrics." + models.MetricTicketsSold: -float64(quantity),
		"metrics." + models.MetricRevenue:     -amount,
	}
	if _, err := s.analyticsRepo.Increment(ctx, s.todayKey(eventID), inc); err != nil {
		logger.CtxWithError(ctx, "Failed to record refund", err, "event_id", eventID.Hex())
		return
	}

	delta := repositories.EventStatsDelta{SoldTickets: -quantity, Revenue: -amount}
	if err := s.eventRepo.IncrementStats(ctx, eventID, delta); err != nil {
		logger.CtxWithError(ctx, "Failed to update event refund stats", err, "event_id", eventID.Hex())
	}
}

func (s *analyticsService) InitializeEventAnalytics(ctx context.Context, eventID primitive.ObjectID) error {
	if err := s.analyticsRepo.Initialize(ctx, s.todayKey(eventID)); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// ---------------- Reporting ----------------

func (s *analyticsService) GetDashboardMetrics(ctx context.Context, eventID *primitive.ObjectID, from, to *time.Time) (*dto.DashboardMetrics, error) {
	buckets, err := s.analyticsRepo.Find(ctx, repositories.AnalyticsFilter{
		EventID: eventID,
		Period:  models.PeriodDay,
		From:    from,
		To:      to,
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return summarize(buckets), nil
}

func summarize(buckets []models.Analytics) *dto.DashboardMetrics {
	var totals models.Metrics
	for _, b := range buckets {
		totals.Add(b.Metrics)
	}

	summary := dto.PeriodSummary{TotalDays: len(buckets)}
	if n := float64(len(buckets)); n > 0 {
		summary.AvgDailyViews = totals.PageViews / n
		summary.AvgConversionRate = totals.ConversionRate / n
	}

	return &dto.DashboardMetrics{
		DailyAnalytics: buckets,
		Totals:         totals,
		PeriodSummary:  summary,
	}
}

func (s *analyticsService) GetTopEvents(ctx context.Context, limit int, metric string) ([]repositories.TopEvent, error) {
	if limit <= 0 {
		limit = defaultTopEventsLimit
	}
	if metric == "" {
		metric = defaultTopEventsMetric
	}
	if !models.IsMetricName(metric) {
		return nil, fieldError("metric", "Must be a known analytics metric")
	}

	top, err := s.analyticsRepo.TopEvents(ctx, metric, limit)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return top, nil
}

func (s *analyticsService) GenerateWeeklyReport(ctx context.Context, eventID string) (*dto.WeeklyReport, error) {
	oid, err := parseObjectID(eventID, "analytics", "Event not found")
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrNotFound(err, "analytics", "Event not found")
		}
		return nil, apperrors.DatabaseError(err)
	}

	end := s.now().UTC()
	start := end.AddDate(0, 0, -weeklyReportDays)

	dashboard, err := s.GetDashboardMetrics(ctx, &oid, &start, &end)
	if err != nil {
		return nil, err
	}

	return &dto.WeeklyReport{
		Event: dto.ReportEvent{
			ID:   event.ID.Hex(),
			Name: event.Name,
			Type: event.Type,
		},
		Period:         dto.ReportPeriod{Start: start, End: end},
		Summary:        dashboard.Totals,
		DailyBreakdown: dashboard.DailyAnalytics,
		Insights:       generateInsights(dashboard),
	}, nil
}

// generateInsights reports nothing about conversion between 2% and 5%.
func generateInsights(d *dto.DashboardMetrics) []dto.Insight {
	insights := make([]dto.Insight, 0, 2)

	if d.Totals.Revenue > 0 {
		insights = append(insights, dto.Insight{
			Type:    "revenue",
			Message: fmt.Sprintf("Generated %.2f in sales", d.Totals.Revenue),
			Trend:   "positive",
		})
	}

	avg := d.PeriodSummary.AvgConversionRate
	switch {
	case avg > 5:
		insights = append(insights, dto.Insight{
			Type:    "conversion",
			Message: fmt.Sprintf("Excellent conversion rate of %.1f%%", avg),
			Trend:   "positive",
		})
	case avg < 2:
		insights = append(insights, dto.Insight{
			Type:    "conversion",
			Message: fmt.Sprintf("Low conversion rate of %.1f%%. Consider optimizing the event page", avg),
			Trend:   "negative",
		})
	}
	return insights
}

func deviceFromUserAgent(ua string) string {
	switch {
	case strings.Contains(ua, "iPad"), strings.Contains(ua, "Tablet"):
		return "tablet"
	case strings.Contains(ua, "Mobi"), strings.Contains(ua, "Android"):
		return "mobile"
	default:
		return "desktop"
	}
}
