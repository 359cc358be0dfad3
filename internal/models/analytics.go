package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Analytics is one bucket keyed by (event_id, date, period).
type Analytics struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID        primitive.ObjectID `bson:"event_id" json:"event_id"`
	Date           time.Time          `bson:"date" json:"date"`
	Period         AnalyticsPeriod    `bson:"period" json:"period"`
	Metrics        Metrics            `bson:"metrics" json:"metrics"`
	TrafficSources TrafficSources     `bson:"traffic_sources" json:"traffic_sources"`
	Devices        Devices            `bson:"devices" json:"devices"`
	Performance    Performance        `bson:"performance" json:"performance"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

type Metrics struct {
	PageViews         float64 `bson:"page_views" json:"page_views"`
	UniqueVisitors    float64 `bson:"unique_visitors" json:"unique_visitors"`
	TicketViews       float64 `bson:"ticket_views" json:"ticket_views"`
	AddToCart         float64 `bson:"add_to_cart" json:"add_to_cart"`
	CheckoutInitiated float64 `bson:"checkout_initiated" json:"checkout_initiated"`
	ConversionRate    float64 `bson:"conversion_rate" json:"conversion_rate"`
	Revenue           float64 `bson:"revenue" json:"revenue"`
	TicketsSold       float64 `bson:"tickets_sold" json:"tickets_sold"`
	Refunds           float64 `bson:"refunds" json:"refunds"`
	Cancellations     float64 `bson:"cancellations" json:"cancellations"`
	AverageOrderValue float64 `bson:"average_order_value" json:"average_order_value"`
	BounceRate        float64 `bson:"bounce_rate" json:"bounce_rate"`
	SessionDuration   float64 `bson:"session_duration" json:"session_duration"`
}

type TrafficSources struct {
	Direct   int64 `bson:"direct" json:"direct"`
	Organic  int64 `bson:"organic" json:"organic"`
	Social   int64 `bson:"social" json:"social"`
	Email    int64 `bson:"email" json:"email"`
	Referral int64 `bson:"referral" json:"referral"`
	Paid     int64 `bson:"paid" json:"paid"`
}

type Devices struct {
	Desktop int64 `bson:"desktop" json:"desktop"`
	Mobile  int64 `bson:"mobile" json:"mobile"`
	Tablet  int64 `bson:"tablet" json:"tablet"`
}

type Performance struct {
	PageLoadTime    float64 `bson:"page_load_time" json:"page_load_time"`
	APIResponseTime float64 `bson:"api_response_time" json:"api_response_time"`
	ErrorRate       float64 `bson:"error_rate" json:"error_rate"`
}

const (
	MetricPageViews         = "page_views"
	MetricUniqueVisitors    = "unique_visitors"
	MetricTicketViews       = "ticket_views"
	MetricAddToCart         = "add_to_cart"
	MetricCheckoutInitiated = "checkout_initiated"
	MetricConversionRate    = "conversion_rate"
	MetricRevenue           = "revenue"
	MetricTicketsSold       = "tickets_sold"
	MetricRefunds           = "refunds"
	MetricCancellations     = "cancellations"
	MetricAverageOrderValue = "average_order_value"
	MetricBounceRate        = "bounce_rate"
	MetricSessionDuration   = "session_duration"
)

// MetricNames lists every field of Metrics by its stored name.
var MetricNames = []string{
	MetricPageViews, MetricUniqueVisitors, MetricTicketViews, MetricAddToCart,
	MetricCheckoutInitiated, MetricConversionRate, MetricRevenue, MetricTicketsSold,
	MetricRefunds, MetricCancellations, MetricAverageOrderValue, MetricBounceRate,
	MetricSessionDuration,
}

func IsMetricName(name string) bool {
	for _, m := range MetricNames {
		if m == name {
			return true
		}
	}
	return false
}

// Get returns a metric by its stored name; unknown names yield 0.
func (m Metrics) Get(name string) float64 {
	switch name {
	case MetricPageViews:
		return m.PageViews
	case MetricUniqueVisitors:
		return m.UniqueVisitors
	case MetricTicketViews:
		return m.TicketViews
	case MetricAddToCart:
		return m.AddToCart
	case MetricCheckoutInitiated:
		return m.CheckoutInitiated
	case MetricConversionRate:
		return m.ConversionRate
	case MetricRevenue:
		return m.Revenue
	case MetricTicketsSold:
		return m.TicketsSold
	case MetricRefunds:
		return m.Refunds
	case MetricCancellations:
		return m.Cancellations
	case MetricAverageOrderValue:
		return m.AverageOrderValue
	case MetricBounceRate:
		return m.BounceRate
	case MetricSessionDuration:
		return m.SessionDuration
	}
	return 0
}

// Add sums every field of o into m.
func (m *Metrics) Add(o Metrics) {
	m.PageViews += o.PageViews
	m.UniqueVisitors += o.UniqueVisitors
	m.TicketViews += o.TicketViews
	m.AddToCart += o.AddToCart
	m.CheckoutInitiated += o.CheckoutInitiated
	m.ConversionRate += o.ConversionRate
	m.Revenue += o.Revenue
	m.TicketsSold += o.TicketsSold
	m.Refunds += o.Refunds
	m.Cancellations += o.Cancellations
	m.AverageOrderValue += o.AverageOrderValue
	m.BounceRate += o.BounceRate
	m.SessionDuration += o.SessionDuration
}

// ConversionRateFor returns checkout/views as a percentage rounded to two
// decimals, and false when there were no views.
func ConversionRateFor(checkoutInitiated, pageViews float64) (float64, bool) {
	if pageViews <= 0 {
		return 0, false
	}
	return Round2(checkoutInitiated / pageViews * 100), true
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DayStart truncates t to midnight UTC, the key of a daily bucket.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
