package dto

import (
	"time"

	"eventix_backend/internal/models"
)

// ---------------- Requests ----------------

type CoordinatesRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

func (c CoordinatesRequest) ToModel() models.Coordinates {
	var out models.Coordinates
	if c.Lat != nil {
		out.Lat = *c.Lat
	}
	if c.Lng != nil {
		out.Lng = *c.Lng
	}
	return out
}

type VenueRequest struct {
	Name        string             `json:"name" validate:"required,min=2,max=200"`
	Address     string             `json:"address" validate:"required,min=5,max=500"`
	City        string             `json:"city" validate:"required,min=2,max=100"`
	State       string             `json:"state" validate:"omitempty,max=100"`
	Country     string             `json:"country" validate:"required,min=2,max=100"`
	PostalCode  string             `json:"postal_code" validate:"omitempty,max=20"`
	Coordinates CoordinatesRequest `json:"coordinates"`
	Capacity    int                `json:"capacity" validate:"required,min=1"`
	Facilities  []string           `json:"facilities"`
	Contact     *models.Contact    `json:"contact,omitempty"`
}

type TicketTypeRequest struct {
	ID                string    `json:"id"`
	Name              string    `json:"name" validate:"required,min=2,max=100"`
	Description       string    `json:"description" validate:"omitempty,max=500"`
	Price             float64   `json:"price" validate:"gte=0"`
	QuantityAvailable int       `json:"quantity_available" validate:"required,min=1"`
	MaxPerUser        int       `json:"max_per_user" validate:"omitempty,min=1"`
	SaleStart         time.Time `json:"sale_start"`
	SaleEnd           time.Time `json:"sale_end"`
	Includes          []string  `json:"includes"`
	IsActive          *bool     `json:"is_active"`
}

// EventRequest is the body of both create and full update.
type EventRequest struct {
	Name             string              `json:"name" validate:"required,min=3,max=200"`
	Slug             string              `json:"slug" validate:"omitempty,max=220"`
	Description      string              `json:"description" validate:"required,min=10,max=2000"`
	ShortDescription string              `json:"short_description" validate:"omitempty,max=500"`
	CategoryID       int                 `json:"category_id"`
	Type             models.EventType    `json:"type" validate:"required,is-event-type"`
	StartDate        time.Time           `json:"start_date" validate:"required"`
	EndDate          time.Time           `json:"end_date" validate:"required,gtfield=StartDate"`
	Sessions         []models.Session    `json:"sessions"`
	Venue            VenueRequest        `json:"venue"`
	Config           models.EventConfig  `json:"config"`
	Images           []models.Image      `json:"images"`
	TicketTypes      []TicketTypeRequest `json:"ticket_types" validate:"required,min=1,dive"`
	Status           models.EventStatus  `json:"status" validate:"omitempty,is-event-status"`
	IsFeatured       bool                `json:"is_featured"`
	IsPrivate        bool                `json:"is_private"`
	Tags             []string            `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Organizer        *models.Organizer   `json:"organizer,omitempty"`
}

// EventListQuery is bound from the query string of GET /events.
type EventListQuery struct {
	Type       models.EventType   `form:"type" validate:"omitempty,is-event-type"`
	Status     models.EventStatus `form:"status" validate:"omitempty,is-event-status"`
	City       string             `form:"city"`
	IsFeatured *bool              `form:"is_featured"`
	DateFrom   *time.Time         `form:"date_from" time_format:"2006-01-02T15:04:05Z07:00"`
	DateTo     *time.Time         `form:"date_to" time_format:"2006-01-02T15:04:05Z07:00"`
	Tags       []string           `form:"tags"`
	Search     string             `form:"search"`
	Sort       string             `form:"sort"`
	Page       int                `form:"page" validate:"omitempty,min=1"`
	Limit      int                `form:"limit" validate:"omitempty,min=1"`
}

type SearchFilters struct {
	Type     models.EventType `json:"type" validate:"omitempty,is-event-type"`
	PriceMin *float64         `json:"price_min" validate:"omitempty,gte=0"`
	PriceMax *float64         `json:"price_max" validate:"omitempty,gte=0"`
}

type SearchEventsRequest struct {
	Query    string              `json:"query" validate:"omitempty,max=200"`
	Filters  *SearchFilters      `json:"filters,omitempty"`
	Location *CoordinatesRequest `json:"location,omitempty"`
	Radius   float64             `json:"radius" validate:"omitempty,gt=0"`
	SortBy   string              `json:"sort_by" validate:"omitempty,oneof=relevance date_asc date_desc price_asc price_desc popularity"`
	Page     int                 `json:"page" validate:"omitempty,min=1"`
	Limit    int                 `json:"limit" validate:"omitempty,min=1"`
}

// SeatUpdateRequest carries the fields of every seating type; which ones are
// read depends on the event type.
type SeatUpdateRequest struct {
	TheaterID   string            `json:"theater_id"`
	SectionID   string            `json:"section_id"`
	Row         string            `json:"row"`
	SeatNumbers []int             `json:"seat_numbers"`
	Status      models.SeatStatus `json:"status" validate:"omitempty,is-seat-status"`
	RouteID     string            `json:"route_id"`
	ScheduleID  string            `json:"schedule_id"`
	SeatsToBook int               `json:"seats_to_book" validate:"omitempty,min=1"`
}

// ---------------- Responses ----------------

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

type EventListResponse struct {
	Events     []models.Event
	Pagination Pagination
}
