package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Slug             string             `bson:"slug" json:"slug"`
	Description      string             `bson:"description" json:"description"`
	ShortDescription string             `bson:"short_description,omitempty" json:"short_description,omitempty"`
	CategoryID       int                `bson:"category_id,omitempty" json:"category_id,omitempty"`
	Type             EventType          `bson:"type" json:"type"`

	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date" json:"end_date"`
	Sessions  []Session `bson:"sessions,omitempty" json:"sessions,omitempty"`

	Venue  Venue       `bson:"venue" json:"venue"`
	Config EventConfig `bson:"config" json:"config"`

	Images      []Image      `bson:"images,omitempty" json:"images,omitempty"`
	TicketTypes []TicketType `bson:"ticket_types" json:"ticket_types"`

	Status     EventStatus `bson:"status" json:"status"`
	IsFeatured bool        `bson:"is_featured" json:"is_featured"`
	IsPrivate  bool        `bson:"is_private" json:"is_private"`
	Tags       []string    `bson:"tags,omitempty" json:"tags,omitempty"`

	Stats     EventStats `bson:"stats" json:"stats"`
	Organizer Organizer  `bson:"organizer" json:"organizer"`

	CreatedBy   string     `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
	DeletedAt   *time.Time `bson:"deleted_at" json:"deleted_at,omitempty"`
}

type Session struct {
	ID             string         `bson:"id" json:"id"`
	StartTime      time.Time      `bson:"start_time" json:"start_time"`
	EndTime        time.Time      `bson:"end_time" json:"end_time"`
	AvailableSeats int            `bson:"available_seats" json:"available_seats"`
	PriceModifiers PriceModifiers `bson:"price_modifiers" json:"price_modifiers"`
	Status         string         `bson:"status" json:"status"`
}

type PriceModifiers struct {
	WeekendSurcharge  float64 `bson:"weekend_surcharge" json:"weekend_surcharge"`
	HolidaySurcharge  float64 `bson:"holiday_surcharge" json:"holiday_surcharge"`
	EarlyBirdDiscount float64 `bson:"early_bird_discount" json:"early_bird_discount"`
}

type Venue struct {
	Name        string      `bson:"name" json:"name"`
	Address     string      `bson:"address" json:"address"`
	City        string      `bson:"city" json:"city"`
	State       string      `bson:"state,omitempty" json:"state,omitempty"`
	Country     string      `bson:"country" json:"country"`
	PostalCode  string      `bson:"postal_code,omitempty" json:"postal_code,omitempty"`
	Coordinates Coordinates `bson:"coordinates" json:"coordinates"`
	Capacity    int         `bson:"capacity" json:"capacity"`
	Facilities  []string    `bson:"facilities,omitempty" json:"facilities,omitempty"`
	Contact     *Contact    `bson:"contact,omitempty" json:"contact,omitempty"`
}

type Image struct {
	URL       string `bson:"url" json:"url"`
	Alt       string `bson:"alt,omitempty" json:"alt,omitempty"`
	Type      string `bson:"type,omitempty" json:"type,omitempty"`
	IsPrimary bool   `bson:"is_primary" json:"is_primary"`
	Order     int    `bson:"order" json:"order"`
}

type TicketType struct {
	ID                string    `bson:"id" json:"id"`
	Name              string    `bson:"name" json:"name"`
	Description       string    `bson:"description,omitempty" json:"description,omitempty"`
	Price             float64   `bson:"price" json:"price"`
	QuantityAvailable int       `bson:"quantity_available" json:"quantity_available"`
	QuantitySold      int       `bson:"quantity_sold" json:"quantity_sold"`
	MaxPerUser        int       `bson:"max_per_user" json:"max_per_user"`
	SaleStart         time.Time `bson:"sale_start,omitempty" json:"sale_start,omitempty"`
	SaleEnd           time.Time `bson:"sale_end,omitempty" json:"sale_end,omitempty"`
	Includes          []string  `bson:"includes,omitempty" json:"includes,omitempty"`
	IsActive          bool      `bson:"is_active" json:"is_active"`
}

type EventStats struct {
	TotalTickets   int     `bson:"total_tickets" json:"total_tickets"`
	SoldTickets    int     `bson:"sold_tickets" json:"sold_tickets"`
	Revenue        float64 `bson:"revenue" json:"revenue"`
	Views          int64   `bson:"views" json:"views"`
	Favorites      int64   `bson:"favorites" json:"favorites"`
	Shares         int64   `bson:"shares" json:"shares"`
	ConversionRate float64 `bson:"conversion_rate" json:"conversion_rate"`
}

type Organizer struct {
	UserID  string `bson:"user_id" json:"user_id"`
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Company string `bson:"company,omitempty" json:"company,omitempty"`
}

// TotalTicketCapacity sums the available quantity over every ticket type.
func (e *Event) TotalTicketCapacity() int {
	total := 0
	for _, tt := range e.TicketTypes {
		total += tt.QuantityAvailable
	}
	return total
}

// IsDeleted reports whether the event was soft deleted.
func (e *Event) IsDeleted() bool {
	return e.DeletedAt != nil
}
