package dto

import (
	"time"

	"eventix_backend/internal/models"
)

// ---------------- Requests ----------------

type PageViewRequest struct {
	EventID string `json:"event_id" validate:"required,len=24,hexadecimal"`
}

// PurchaseRequest is used for both purchases and refunds.
type PurchaseRequest struct {
	EventID  string  `json:"event_id" validate:"required,len=24,hexadecimal"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

type DateRangeQuery struct {
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02" time_utc:"1"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02" time_utc:"1"`
}

// DashboardQuery selects one event's buckets, or every event's when EventID is empty.
type DashboardQuery struct {
	EventID string `form:"event_id" validate:"omitempty,len=24,hexadecimal"`
	DateRangeQuery
}

type TopEventsQuery struct {
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Metric string `form:"metric" validate:"omitempty,is-metric"`
}

// ---------------- Responses ----------------

type PeriodSummary struct {
	TotalDays         int     `json:"total_days"`
	AvgDailyViews     float64 `json:"avg_daily_views"`
	AvgConversionRate float64 `json:"avg_conversion_rate"`
}

type DashboardMetrics struct {
	DailyAnalytics []models.Analytics `json:"daily_analytics"`
	Totals         models.Metrics     `json:"totals"`
	PeriodSummary  PeriodSummary      `json:"period_summary"`
}

type ReportEvent struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Type models.EventType `json:"type"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Trend   string `json:"trend"`
}

type WeeklyReport struct {
	Event          ReportEvent        `json:"event"`
	Period         ReportPeriod       `json:"period"`
	Summary        models.Metrics     `json:"summary"`
	DailyBreakdown []models.Analytics `json:"daily_breakdown"`
	Insights       []Insight          `json:"insights"`
}
