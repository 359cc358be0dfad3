package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrTheaterNotFound   = errors.New("theater not found")
	ErrSectionNotFound   = errors.New("section not found")
	ErrRowNotFound       = errors.New("row not found")
	ErrRouteNotFound     = errors.New("route not found")
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrInsufficientSeats = errors.New("not enough available seats")
)

// EventConfig holds the type-specific seating payload. At most one member is
// set and it matches Event.Type; theater, sports and conference events carry
// none.
type EventConfig struct {
	Cinema    *CinemaConfig    `bson:"cinema,omitempty" json:"cinema,omitempty"`
	Concert   *ConcertConfig   `bson:"concert,omitempty" json:"concert,omitempty"`
	Transport *TransportConfig `bson:"transport,omitempty" json:"transport,omitempty"`
}

type Seat struct {
	Number        int        `bson:"number" json:"number"`
	Type          string     `bson:"type,omitempty" json:"type,omitempty"`
	Status        SeatStatus `bson:"status" json:"status" validate:"omitempty,is-seat-status"`
	Price         float64    `bson:"price" json:"price"`
	RowPosition   int        `bson:"row_position,omitempty" json:"row_position,omitempty"`
	Accessibility bool       `bson:"accessibility" json:"accessibility"`
}

type Row struct {
	Letter  string `bson:"letter" json:"letter"`
	Seats   []Seat `bson:"seats" json:"seats" validate:"dive"`
	RowType string `bson:"row_type,omitempty" json:"row_type,omitempty"`
}

// DefaultSeatStatuses marks every seat without a status as available.
func (c *EventConfig) DefaultSeatStatuses() {
	if c.Cinema != nil {
		for i := range c.Cinema.Theaters {
			defaultRowStatuses(c.Cinema.Theaters[i].Rows)
		}
	}
	if c.Concert != nil {
		for i := range c.Concert.Sections {
			defaultRowStatuses(c.Concert.Sections[i].Rows)
		}
	}
}

func defaultRowStatuses(rows []Row) {
	for i := range rows {
		for j := range rows[i].Seats {
			if rows[i].Seats[j].Status == "" {
				rows[i].Seats[j].Status = SeatStatusAvailable
			}
		}
	}
}

// setSeatStatus overwrites the status of the listed seats in the row with the
// given letter. Seat numbers that do not exist in the row are skipped.
func setSeatStatus(rows []Row, letter string, numbers []int, status SeatStatus) (int, error) {
	for i := range rows {
		if rows[i].Letter != letter {
			continue
		}
		wanted := make(map[int]struct{}, len(numbers))
		for _, n := range numbers {
			wanted[n] = struct{}{}
		}
		changed := 0
		for j := range rows[i].Seats {
			if _, ok := wanted[rows[i].Seats[j].Number]; ok {
				rows[i].Seats[j].Status = status
				changed++
			}
		}
		return changed, nil
	}
	return 0, ErrRowNotFound
}

// --- Cinema ---

type CinemaConfig struct {
	Theaters  []Theater  `bson:"theaters" json:"theaters" validate:"dive"`
	MovieInfo *MovieInfo `bson:"movie_info,omitempty" json:"movie_info,omitempty"`
}

type Theater struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Capacity    int    `bson:"capacity" json:"capacity"`
	Rows        []Row  `bson:"rows" json:"rows" validate:"dive"`
	ScreenType  string `bson:"screen_type,omitempty" json:"screen_type,omitempty"`
	AudioSystem string `bson:"audio_system,omitempty" json:"audio_system,omitempty"`
}

type MovieInfo struct {
	Title       string     `bson:"title,omitempty" json:"title,omitempty"`
	Duration    int        `bson:"duration,omitempty" json:"duration,omitempty"`
	Genre       []string   `bson:"genre,omitempty" json:"genre,omitempty"`
	Rating      string     `bson:"rating,omitempty" json:"rating,omitempty"`
	Director    string     `bson:"director,omitempty" json:"director,omitempty"`
	Synopsis    string     `bson:"synopsis,omitempty" json:"synopsis,omitempty"`
	TrailerURL  string     `bson:"trailer_url,omitempty" json:"trailer_url,omitempty"`
	PosterURL   string     `bson:"poster_url,omitempty" json:"poster_url,omitempty"`
	ReleaseDate *time.Time `bson:"release_date,omitempty" json:"release_date,omitempty"`
	Language    string     `bson:"language,omitempty" json:"language,omitempty"`
	Subtitles   []string   `bson:"subtitles,omitempty" json:"subtitles,omitempty"`
}

// SetSeatStatus updates seats in one row of one theater and returns how many
// seats changed.
func (c *CinemaConfig) SetSeatStatus(theaterID, rowLetter string, seatNumbers []int, status SeatStatus) (int, error) {
	for i := range c.Theaters {
		if c.Theaters[i].ID == theaterID {
			return setSeatStatus(c.Theaters[i].Rows, rowLetter, seatNumbers, status)
		}
	}
	return 0, ErrTheaterNotFound
}

// --- Concert ---

type ConcertConfig struct {
	Sections      []ConcertSection `bson:"sections" json:"sections" validate:"dive"`
	ArtistInfo    *ArtistInfo      `bson:"artist_info,omitempty" json:"artist_info,omitempty"`
	TechnicalInfo *TechnicalInfo   `bson:"technical_info,omitempty" json:"technical_info,omitempty"`
}

type ConcertSection struct {
	ID          string         `bson:"id" json:"id"`
	Name        string         `bson:"name" json:"name"`
	Rows        []Row          `bson:"rows" json:"rows" validate:"dive"`
	Pricing     SectionPricing `bson:"pricing" json:"pricing"`
	Benefits    []string       `bson:"benefits,omitempty" json:"benefits,omitempty"`
	MaxCapacity int            `bson:"max_capacity" json:"max_capacity"`
}

type SectionPricing struct {
	BasePrice     float64 `bson:"base_price" json:"base_price"`
	EarlyBird     float64 `bson:"early_bird,omitempty" json:"early_bird,omitempty"`
	VIPPrice      float64 `bson:"vip_price,omitempty" json:"vip_price,omitempty"`
	GroupDiscount float64 `bson:"group_discount" json:"group_discount"`
}

type ArtistInfo struct {
	MainArtist string   `bson:"main_artist" json:"main_artist"`
	Genre      []string `bson:"genre,omitempty" json:"genre,omitempty"`
	Biography  string   `bson:"biography,omitempty" json:"biography,omitempty"`
}

type TechnicalInfo struct {
	SoundSystem    string `bson:"sound_system,omitempty" json:"sound_system,omitempty"`
	Lighting       string `bson:"lighting,omitempty" json:"lighting,omitempty"`
	StageSize      string `bson:"stage_size,omitempty" json:"stage_size,omitempty"`
	AgeRestriction int    `bson:"age_restriction" json:"age_restriction"`
}

func (c *ConcertConfig) SetSeatStatus(sectionID, rowLetter string, seatNumbers []int, status SeatStatus) (int, error) {
	for i := range c.Sections {
		if c.Sections[i].ID == sectionID {
			return setSeatStatus(c.Sections[i].Rows, rowLetter, seatNumbers, status)
		}
	}
	return 0, ErrSectionNotFound
}

// --- Transport ---

type TransportConfig struct {
	Routes      []TransportRoute `bson:"routes" json:"routes"`
	CompanyInfo *CompanyInfo     `bson:"company_info,omitempty" json:"company_info,omitempty"`
	Policies    *Policies        `bson:"policies,omitempty" json:"policies,omitempty"`
}

type TransportRoute struct {
	ID            string     `bson:"id" json:"id"`
	Name          string     `bson:"name" json:"name"`
	Origin        Place      `bson:"origin" json:"origin"`
	Destination   Place      `bson:"destination" json:"destination"`
	VehicleType   string     `bson:"vehicle_type" json:"vehicle_type"`
	Capacity      int        `bson:"capacity" json:"capacity"`
	Schedule      []Schedule `bson:"schedule" json:"schedule"`
	RouteDuration int        `bson:"route_duration,omitempty" json:"route_duration,omitempty"`
	Amenities     []string   `bson:"amenities,omitempty" json:"amenities,omitempty"`
	VehicleClass  string     `bson:"vehicle_class,omitempty" json:"vehicle_class,omitempty"`
}

type Place struct {
	Name        string       `bson:"name" json:"name"`
	Address     string       `bson:"address,omitempty" json:"address,omitempty"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

type Schedule struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	DepartureTime  time.Time          `bson:"departure_time" json:"departure_time"`
	ArrivalTime    time.Time          `bson:"arrival_time" json:"arrival_time"`
	Price          float64            `bson:"price" json:"price"`
	AvailableSeats int                `bson:"available_seats" json:"available_seats"`
	Stops          []Stop             `bson:"stops,omitempty" json:"stops,omitempty"`
	VehicleNumber  string             `bson:"vehicle_number,omitempty" json:"vehicle_number,omitempty"`
}

type Stop struct {
	Name          string    `bson:"name" json:"name"`
	ArrivalTime   time.Time `bson:"arrival_time" json:"arrival_time"`
	DepartureTime time.Time `bson:"departure_time" json:"departure_time"`
}

type CompanyInfo struct {
	Name    string   `bson:"name,omitempty" json:"name,omitempty"`
	License string   `bson:"license,omitempty" json:"license,omitempty"`
	Contact *Contact `bson:"contact,omitempty" json:"contact,omitempty"`
	Rating  float64  `bson:"rating,omitempty" json:"rating,omitempty"`
}

type Policies struct {
	CancellationPolicy string `bson:"cancellation_policy,omitempty" json:"cancellation_policy,omitempty"`
	BaggagePolicy      string `bson:"baggage_policy,omitempty" json:"baggage_policy,omitempty"`
	RefundPolicy       string `bson:"refund_policy,omitempty" json:"refund_policy,omitempty"`
}

// AssignScheduleIDs gives every schedule entry without an id a fresh one.
func (t *TransportConfig) AssignScheduleIDs() {
	for i := range t.Routes {
		for j := range t.Routes[i].Schedule {
			if t.Routes[i].Schedule[j].ID.IsZero() {
				t.Routes[i].Schedule[j].ID = primitive.NewObjectID()
			}
		}
	}
}

// BookSeats takes count seats from a schedule and returns what remains.
// The schedule is left untouched when the result would be negative.
func (t *TransportConfig) BookSeats(routeID string, scheduleID primitive.ObjectID, count int) (int, error) {
	for i := range t.Routes {
		if t.Routes[i].ID != routeID {
			continue
		}
		for j := range t.Routes[i].Schedule {
			sched := &t.Routes[i].Schedule[j]
			if sched.ID != scheduleID {
				continue
			}
			remaining := sched.AvailableSeats - count
			if remaining < 0 {
				return sched.AvailableSeats, ErrInsufficientSeats
			}
			sched.AvailableSeats = remaining
			return remaining, nil
		}
		return 0, ErrScheduleNotFound
	}
	return 0, ErrRouteNotFound
}
