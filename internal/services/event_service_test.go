package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"eventix_backend/internal/models"
	"eventix_backend/internal/repositories"
	"eventix_backend/internal/services/dto"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ownerID = "5f0c3d9e-1111-4a2b-9c3d-000000000001"

type EventServiceSuite struct {
	suite.Suite
	ctx       context.Context
	events    *fakeEventRepo
	analytics *fakeAnalyticsRepo
	svc       *eventService
}

func TestEventService(t *testing.T) {
	suite.Run(t, new(EventServiceSuite))
}

func (s *EventServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.events = newFakeEventRepo()
	s.analytics = newFakeAnalyticsRepo(s.events)
	analyticsSvc := &analyticsService{analyticsRepo: s.analytics, eventRepo: s.events, now: frozenClock}
	s.svc = &eventService{eventRepo: s.events, analyticsService: analyticsSvc, now: frozenClock}
}

func floatPtr(v float64) *float64 { return &v }

func eventRequest(name string, t models.EventType) *dto.EventRequest {
	return &dto.EventRequest{
		Name:        name,
		Description: "An evening of live music under the stars",
		Type:        t,
		StartDate:   time.Date(2024, 8, 1, 18, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 8, 1, 23, 0, 0, 0, time.UTC),
		Venue: dto.VenueRequest{
			Name:        "Central Park",
			Address:     "59th Street",
			City:        " New York ",
			Country:     "USA",
			Coordinates: dto.CoordinatesRequest{Lat: floatPtr(40.7812), Lng: floatPtr(-73.9665)},
			Capacity:    5000,
		},
		TicketTypes: []dto.TicketTypeRequest{
			{Name: "General", Price: 50, QuantityAvailable: 4000},
			{Name: "VIP", Price: 150, QuantityAvailable: 1000, MaxPerUser: 4},
		},
		Tags: []string{"Music", " outdoor", "music"},
	}
}

func seatRows() []models.Row {
	return []models.Row{
		{Letter: "A", Seats: []models.Seat{
			{Number: 1, Status: models.SeatStatusAvailable},
			{Number: 2, Status: models.SeatStatusAvailable},
			{Number: 3, Status: models.SeatStatusAvailable},
		}},
	}
}

func (s *EventServiceSuite) create(req *dto.EventRequest) *models.Event {
	event, err := s.svc.CreateEvent(s.ctx, req, ownerID)
	s.Require().NoError(err)
	return event
}

// ---------------- Create / update ----------------

func (s *EventServiceSuite) TestCreateEventDefaults() {
	event := s.create(eventRequest("Summer Fest", models.EventTypeConcert))

	s.False(event.ID.IsZero())
	s.Equal("summer-fest", event.Slug)
	s.Equal(models.EventStatusDraft, event.Status)
	s.Nil(event.PublishedAt)
	s.Equal(ownerID, event.CreatedBy)
	s.Equal(ownerID, event.Organizer.UserID)
	s.Equal(fixedNow, event.CreatedAt)
	s.Equal("New York", event.Venue.City)
	s.Equal(-73.9665, event.Venue.Coordinates.Lng)
	s.Equal([]string{"music", "outdoor"}, event.Tags)
	s.Equal(5000, event.Stats.TotalTickets)

	s.Require().Len(event.TicketTypes, 2)
	s.NotEmpty(event.TicketTypes[0].ID)
	s.Equal(10, event.TicketTypes[0].MaxPerUser)
	s.True(event.TicketTypes[0].IsActive)
	s.Equal(4, event.TicketTypes[1].MaxPerUser)

	// An empty bucket for today is created with the event.
	buckets, err := s.analytics.Find(s.ctx, repositories.AnalyticsFilter{EventID: &event.ID})
	s.Require().NoError(err)
	s.Len(buckets, 1)
}

func (s *EventServiceSuite) TestCreateEventDerivesUniqueSlugs() {
	first := s.create(eventRequest("Summer Fest", models.EventTypeConcert))
	second := s.create(eventRequest("Summer Fest", models.EventTypeConcert))
	third := s.create(eventRequest("Summer  Fest!", models.EventTypeConcert))

	s.Equal("summer-fest", first.Slug)
	s.Equal("summer-fest-2", second.Slug)
	s.Equal("summer-fest-3", third.Slug)

	untitled := s.create(eventRequest("!!!", models.EventTypeConference))
	s.Equal("event", untitled.Slug)
}

func (s *EventServiceSuite) TestCreateEventExplicitSlugConflict() {
	req := eventRequest("Summer Fest", models.EventTypeConcert)
	req.Slug = "Fest-2024"
	event := s.create(req)
	s.Equal("fest-2024", event.Slug)

	other := eventRequest("Another Fest", models.EventTypeConcert)
	other.Slug = "fest-2024"
	_, err := s.svc.CreateEvent(s.ctx, other, ownerID)
	requireAppError(s.T(), err, http.StatusConflict)
}

func (s *EventServiceSuite) TestCreateEventRejectsMismatchedConfig() {
	req := eventRequest("Film Night", models.EventTypeConcert)
	req.Config.Cinema = &models.CinemaConfig{Theaters: []models.Theater{{ID: "t1"}}}

	_, err := s.svc.CreateEvent(s.ctx, req, ownerID)
	appErr := requireAppError(s.T(), err, http.StatusBadRequest)
	s.Contains(appErr.Details, "config")
}

func (s *EventServiceSuite) TestCreateEventDefaultsSeatStatus() {
	req := eventRequest("Film Night", models.EventTypeCinema)
	req.Config.Cinema = &models.CinemaConfig{Theaters: []models.Theater{{ID: "hall-1", Rows: []models.Row{
		{Letter: "A", Seats: []models.Seat{{Number: 1}, {Number: 2, Status: models.SeatStatusMaintenance}}},
	}}}}
	event := s.create(req)

	seats := s.events.get(event.ID).Config.Cinema.Theaters[0].Rows[0].Seats
	s.Equal(models.SeatStatusAvailable, seats[0].Status)
	s.Equal(models.SeatStatusMaintenance, seats[1].Status)

	update := eventRequest("Film Night", models.EventTypeCinema)
	update.Config.Cinema = &models.CinemaConfig{Theaters: []models.Theater{{ID: "hall-1", Rows: []models.Row{
		{Letter: "B", Seats: []models.Seat{{Number: 7}}},
	}}}}
	updated, err := s.svc.UpdateEvent(s.ctx, event.ID.Hex(), update)
	s.Require().NoError(err)
	s.Equal(models.SeatStatusAvailable, updated.Config.Cinema.Theaters[0].Rows[0].Seats[0].Status)
}

func (s *EventServiceSuite) TestCreatePublishedEventStampsPublishedAt() {
	req := eventRequest("Opening Night", models.EventTypeTheater)
	req.Status = models.EventStatusPublished

	event := s.create(req)
	s.Equal(models.EventStatusPublished, event.Status)
	s.Require().NotNil(event.PublishedAt)
	s.Equal(fixedNow, *event.PublishedAt)
}

func (s *EventServiceSuite) TestUpdateEventPreservesSoldQuantities() {
	event := s.create(eventRequest("Summer Fest", models.EventTypeConcert))

	stored := s.events.get(event.ID)
	stored.TicketTypes[0].QuantitySold = 120
	s.Require().NoError(s.events.Update(s.ctx, stored))

	req := eventRequest("Summer Fest Reloaded", models.EventTypeConcert)
	req.TicketTypes[0].ID = event.TicketTypes[0].ID
	req.TicketTypes[0].QuantityAvailable = 4500
	req.TicketTypes = req.TicketTypes[:1]

	updated, err := s.svc.UpdateEvent(s.ctx, event.ID.Hex(), req)
	s.Require().NoError(err)
	s.Equal("Summer Fest Reloaded", updated.Name)
	s.Equal("summer-fest", updated.Slug)
	s.Require().Len(updated.TicketTypes, 1)
	s.Equal(120, updated.TicketTypes[0].QuantitySold)
	s.Equal(4500, updated.Stats.TotalTickets)
	s.Equal(ownerID, updated.Organizer.UserID)

	s.Equal("Summer Fest Reloaded", s.events.get(event.ID).Name)
}

func (s *EventServiceSuite) TestUpdateEventSlugRules() {
	a := s.create(eventRequest("Alpha", models.EventTypeSports))
	s.create(eventRequest("Beta", models.EventTypeSports))

	req := eventRequest("Alpha", models.EventTypeSports)
	req.Slug = "alpha"
	_, err := s.svc.UpdateEvent(s.ctx, a.ID.Hex(), req)
	s.Require().NoError(err, "keeping its own slug is allowed")

	req.Slug = "beta"
	_, err = s.svc.UpdateEvent(s.ctx, a.ID.Hex(), req)
	requireAppError(s.T(), err, http.StatusConflict)
}

func (s *EventServiceSuite) TestUpdateMissingEvent() {
	_, err := s.svc.UpdateEvent(s.ctx, primitive.NewObjectID().Hex(), eventRequest("Ghost", models.EventTypeSports))
	requireAppError(s.T(), err, http.StatusNotFound)

	_, err = s.svc.UpdateEvent(s.ctx, "xyz", eventRequest("Ghost", models.EventTypeSports))
	requireAppError(s.T(), err, http.StatusNotFound)
}

// ---------------- Read ----------------

func (s *EventServiceSuite) TestGetEventByIDOrSlugCountsViews() {
	event := s.create(eventRequest("Summer Fest", models.EventTypeConcert))

	byID, err := s.svc.GetEventByIDOrSlug(s.ctx, event.ID.Hex())
	s.Require().NoError(err)
	s.Equal(int64(1), byID.Stats.Views)

	bySlug, err := s.svc.GetEventByIDOrSlug(s.ctx, "Summer-Fest")
	s.Require().NoError(err)
	s.Equal(event.ID, bySlug.ID)
	s.Equal(int64(2), bySlug.Stats.Views)

	s.Equal(int64(2), s.events.get(event.ID).Stats.Views)
}

func (s *EventServiceSuite) TestGetEventByIDOrSlugNotFound() {
	_, err := s.svc.GetEventByIDOrSlug(s.ctx, primitive.NewObjectID().Hex())
	requireAppError(s.T(), err, http.StatusNotFound)

	_, err = s.svc.GetEventByIDOrSlug(s.ctx, "no-such-event")
	requireAppError(s.T(), err, http.StatusNotFound)
}

func (s *EventServiceSuite) TestGetEventsDefaultsToPublished() {
	draft := eventRequest("Draft Show", models.EventTypeTheater)
	s.create(draft)
	published := eventRequest("Live Show", models.EventTypeTheater)
	published.Status = models.EventStatusPublished
	s.create(published)

	resp, err := s.svc.GetEvents(s.ctx, &dto.EventListQuery{})
	s.Require().NoError(err)
	s.Require().Len(resp.Events, 1)
	s.Equal("Live Show", resp.Events[0].Name)
	s.Equal(dto.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 1, ItemsPerPage: 20}, resp.Pagination)

	resp, err = s.svc.GetEvents(s.ctx, &dto.EventListQuery{Status: models.EventStatusDraft, Limit: 500})
	s.Require().NoError(err)
	s.Require().Len(resp.Events, 1)
	s.Equal("Draft Show", resp.Events[0].Name)
	s.Equal(100, resp.Pagination.ItemsPerPage)
}

func (s *EventServiceSuite) TestSearchEvents() {
	for _, name := range []string{"Jazz Night", "Rock Night", "Opera Night"} {
		req := eventRequest(name, models.EventTypeConcert)
		req.Status = models.EventStatusPublished
		s.create(req)
	}

	hits, pagination, err := s.svc.SearchEvents(s.ctx, &dto.SearchEventsRequest{
		Query:   "night",
		Filters: &dto.SearchFilters{Type: models.EventTypeConcert},
		Limit:   2,
	})
	s.Require().NoError(err)
	s.Equal(int64(3), pagination.TotalItems)
	s.Equal(2, pagination.TotalPages)
	s.Equal(2, pagination.ItemsPerPage)

	hits, _, err = s.svc.SearchEvents(s.ctx, &dto.SearchEventsRequest{
		Filters: &dto.SearchFilters{Type: models.EventTypeCinema},
	})
	s.Require().NoError(err)
	s.Empty(hits)
}

func (s *EventServiceSuite) TestGetEventAnalytics() {
	event := s.create(eventRequest("Summer Fest", models.EventTypeConcert))

	metrics, err := s.svc.GetEventAnalytics(s.ctx, event.ID.Hex(), nil, nil)
	s.Require().NoError(err)
	s.Equal(1, metrics.PeriodSummary.TotalDays)

	_, err = s.svc.GetEventAnalytics(s.ctx, primitive.NewObjectID().Hex(), nil, nil)
	requireAppError(s.T(), err, http.StatusNotFound)
}

// ---------------- Delete ----------------

func (s *EventServiceSuite) TestDeleteEventIsSoft() {
	event := s.create(eventRequest("Summer Fest", models.EventTypeConcert))

	s.Require().NoError(s.svc.DeleteEvent(s.ctx, event.ID.Hex()))

	stored := s.events.get(event.ID)
	s.Require().NotNil(stored.DeletedAt)
	s.Equal(fixedNow, *stored.DeletedAt)

	_, err := s.svc.GetEventByIDOrSlug(s.ctx, event.ID.Hex())
	requireAppError(s.T(), err, http.StatusNotFound)

	err = s.svc.DeleteEvent(s.ctx, event.ID.Hex())
	requireAppError(s.T(), err, http.StatusNotFound)

	// The slug stays reserved after deletion.
	again := s.create(eventRequest("Summer Fest", models.EventTypeConcert))
	s.Equal("summer-fest-2", again.Slug)
}

// ---------------- Seats ----------------

func (s *EventServiceSuite) TestCinemaSeatUpdate() {
	req := eventRequest("Film Night", models.EventTypeCinema)
	req.Config.Cinema = &models.CinemaConfig{Theaters: []models.Theater{{ID: "hall-1", Rows: seatRows()}}}
	event := s.create(req)

	updated, err := s.svc.UpdateSeatAvailability(s.ctx, event.ID.Hex(), &dto.SeatUpdateRequest{
		TheaterID:   "hall-1",
		Row:         "A",
		SeatNumbers: []int{1, 3, 9},
		Status:      models.SeatStatusOccupied,
	})
	s.Require().NoError(err)

	seats := updated.Config.Cinema.Theaters[0].Rows[0].Seats
	s.Equal(models.SeatStatusOccupied, seats[0].Status)
	s.Equal(models.SeatStatusAvailable, seats[1].Status)
	s.Equal(models.SeatStatusOccupied, seats[2].Status)

	stored := s.events.get(event.ID)
	s.Equal(models.SeatStatusOccupied, stored.Config.Cinema.Theaters[0].Rows[0].Seats[2].Status)
	s.Equal(1, s.events.updateConfigCalls)
}

func (s *EventServiceSuite) TestCinemaSeatUpdateErrors() {
	req := eventRequest("Film Night", models.EventTypeCinema)
	req.Config.Cinema = &models.CinemaConfig{Theaters: []models.Theater{{ID: "hall-1", Rows: seatRows()}}}
	event := s.create(req)

	_, err := s.svc.UpdateSeatAvailability(s.ctx, event.ID.Hex(), &dto.SeatUpdateRequest{
		Row: "A", SeatNumbers: []int{1}, Status: models.SeatStatusOccupied,
	})
	appErr := requireAppError(s.T(), err, http.StatusBadRequest)
	s.Contains(appErr.Details, "theater_id")

	_, err = s.svc.UpdateSeatAvailability(s.ctx, event.ID.Hex(), &dto.SeatUpdateRequest{
		TheaterID: "hall-9", Row: "A", SeatNumbers: []int{1}, Status: models.SeatStatusOccupied,
	})
	requireAppError(s.T(), err, http.StatusNotFound)

	_, err = s.svc.UpdateSeatAvailability(s.ctx, event.ID.Hex(), &dto.SeatUpdateRequest{
		TheaterID: "hall-1", Row: "Z", SeatNumbers: []int{1}, Status: models.SeatStatusOccupied,
	})
	requireAppError(s.T(), err, http.StatusNotFound)

	s.Zero(s.events.updateConfigCalls)
}

func (s *EventServiceSuite) TestConcertSeatUpdate() {
	req := eventRequest("Stadium Tour", models.EventTypeConcert)
	req.Config.Concert = &models.ConcertConfig{Sections: []models.ConcertSection{{ID: "vip", Rows: seatRows()}}}
	event := s.create(req)

	updated, err := s.svc.UpdateSeatAvailability(s.ctx, event.ID.Hex(), &dto.SeatUpdateRequest{
		SectionID:   "vip",
		Row:         "A",
		SeatNumbers: []int{2},
		Status:      models.SeatStatusReserved,
	})
	s.Require().NoError(err)
	s.Equal(models.SeatStatusReserved, updated.Config.Concert.Sections[0].Rows[0].Seats[1].Status)
}

func (s *EventServiceSuite) TestTransportBooking() {
	req := eventRequest("Coastal Express", models.EventTypeTransport)
	req.Config.Transport = &models.TransportConfig{Routes: []models.TransportRoute{{
		ID:       "r1",
		Capacity: 40,
		Schedule: []models.Schedule{{AvailableSeats: 3, Price: 25}},
	}}}
	event := s.create(req)

	scheduleID := event.Config.Transport.Routes[0].Schedule[0].ID
	s.Require().False(scheduleID.IsZero(), "schedule ids are assigned on create")

	updated, err := s.svc.UpdateSeatAvailability(s.ctx, event.ID.Hex(), &dto.SeatUpdateRequest{
		RouteID: "r1", ScheduleID: scheduleID.Hex(), SeatsToBook: 2,
	})
	s.Require().NoError(err)
	s.Equal(1, updated.Config.Transport.Routes[0].Schedule[0].AvailableSeats)

	_, err = s.svc.UpdateSeatAvailability(s.ctx, event.ID.Hex(), &dto.SeatUpdateRequest{
		RouteID: "r1", ScheduleID: scheduleID.Hex(), SeatsToBook: 2,
	})
	requireAppError(s.T(), err, http.StatusConflict)

	stored := s.events.get(event.ID)
	s.Equal(1, stored.Config.Transport.Routes[0].Schedule[0].AvailableSeats)
	s.Equal(1, s.events.updateConfigCalls)

	_, err = s.svc.UpdateSeatAvailability(s.ctx, event.ID.Hex(), &dto.SeatUpdateRequest{
		RouteID: "r1", ScheduleID: primitive.NewObjectID().Hex(), SeatsToBook: 1,
	})
	requireAppError(s.T(), err, http.StatusNotFound)

	_, err = s.svc.UpdateSeatAvailability(s.ctx, event.ID.Hex(), &dto.SeatUpdateRequest{RouteID: "r1"})
	appErr := requireAppError(s.T(), err, http.StatusBadRequest)
	s.Contains(appErr.Details, "schedule_id")
	s.Contains(appErr.Details, "seats_to_book")
}

func (s *EventServiceSuite) TestSeatUpdateUnsupportedType() {
	event := s.create(eventRequest("Derby Day", models.EventTypeSports))

	_, err := s.svc.UpdateSeatAvailability(s.ctx, event.ID.Hex(), &dto.SeatUpdateRequest{
		Row: "A", SeatNumbers: []int{1}, Status: models.SeatStatusOccupied,
	})
	requireAppError(s.T(), err, http.StatusBadRequest)
	s.Zero(s.events.updateConfigCalls)
}
