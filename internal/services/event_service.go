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

const maxSlugAttempts = 100

type EventService interface {
	CreateEvent(ctx context.Context, req *dto.EventRequest, ownerID string) (*models.Event, error)
	GetEvents(ctx context.Context, query *dto.EventListQuery) (*dto.EventListResponse, error)
	// GetEventByIDOrSlug resolves a 24-hex identifier as an id and anything
	// else as a slug, and counts the view on the event.
	GetEventByIDOrSlug(ctx context.Context, identifier string) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, req *dto.EventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	UpdateSeatAvailability(ctx context.Context, id string, req *dto.SeatUpdateRequest) (*models.Event, error)
	SearchEvents(ctx context.Context, req *dto.SearchEventsRequest) ([]repositories.EventSearchHit, dto.Pagination, error)
	GetEventAnalytics(ctx context.Context, id string, from, to *time.Time) (*dto.DashboardMetrics, error)
}

type eventService struct {
	eventRepo        repositories.EventRepository
	analyticsService AnalyticsService
	now              func() time.Time
}

func NewEventService(eventRepo repositories.EventRepository, analyticsService AnalyticsService) EventService {
	return &eventService{
		eventRepo:        eventRepo,
		analyticsService: analyticsService,
		now:              time.Now,
	}
}

func eventRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrEventNotFound):
		return apperrors.ErrNotFound(err, "event", "Event not found")
	case errors.Is(err, repositories.ErrSlugTaken):
		return apperrors.ErrAlreadyExists(err, "event", "Slug is already in use")
	default:
		return apperrors.DatabaseError(err)
	}
}

// ---------------- Create / update ----------------

func (s *eventService) CreateEvent(ctx context.Context, req *dto.EventRequest, ownerID string) (*models.Event, error) {
	if err := checkConfigMatchesType(req.Type, req.Config); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	event := &models.Event{
		CreatedBy: ownerID,
		CreatedAt: now,
		Status:    models.EventStatusDraft,
	}
	applyEventRequest(event, req, now)
	event.Organizer.UserID = ownerID
	event.Stats.TotalTickets = event.TotalTicketCapacity()

	slug, err := s.resolveSlug(ctx, req.Slug, req.Name, "")
	if err != nil {
		return nil, err
	}
	event.Slug = slug

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, eventRepoError(err)
	}

	if err := s.analyticsService.InitializeEventAnalytics(ctx, event.ID); err != nil {
		logger.CtxWithError(ctx, "Failed to initialize event analytics", err, "event_id", event.ID.Hex())
	}

	logger.CtxInfo(ctx, "Event created", "event_id", event.ID.Hex(), "slug", event.Slug, "type", event.Type)
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, req *dto.EventRequest) (*models.Event, error) {
	oid, err := parseObjectID(id, "event", "Event not found")
	if err != nil {
		return nil, err
	}
	if err := checkConfigMatchesType(req.Type, req.Config); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, eventRepoError(err)
	}

	soldByType := make(map[string]int, len(event.TicketTypes))
	for _, tt := range event.TicketTypes {
		soldByType[tt.ID] = tt.QuantitySold
	}

	now := s.now().UTC()
	applyEventRequest(event, req, now)
	for i := range event.TicketTypes {
		event.TicketTypes[i].QuantitySold = soldByType[event.TicketTypes[i].ID]
	}
	event.Stats.TotalTickets = event.TotalTicketCapacity()

	if req.Slug != "" {
		slug, err := s.resolveSlug(ctx, req.Slug, req.Name, event.Slug)
		if err != nil {
			return nil, err
		}
		event.Slug = slug
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, eventRepoError(err)
	}
	return event, nil
}

// applyEventRequest copies the request onto event. Identity, stats, creator
// and creation time are left alone.
func applyEventRequest(event *models.Event, req *dto.EventRequest, now time.Time) {
	event.Name = strings.TrimSpace(req.Name)
	event.Description = strings.TrimSpace(req.Description)
	event.ShortDescription = req.ShortDescription
	event.CategoryID = req.CategoryID
	event.Type = req.Type
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	event.Sessions = req.Sessions
	event.Venue = models.Venue{
		Name:        strings.TrimSpace(req.Venue.Name),
		Address:     strings.TrimSpace(req.Venue.Address),
		City:        strings.TrimSpace(req.Venue.City),
		State:       req.Venue.State,
		Country:     strings.TrimSpace(req.Venue.Country),
		PostalCode:  req.Venue.PostalCode,
		Coordinates: req.Venue.Coordinates.ToModel(),
		Capacity:    req.Venue.Capacity,
		Facilities:  req.Venue.Facilities,
		Contact:     req.Venue.Contact,
	}
	event.Config = req.Config
	event.Config.DefaultSeatStatuses()
	if event.Config.Transport != nil {
		event.Config.Transport.AssignScheduleIDs()
	}
	event.Images = req.Images
	event.TicketTypes = buildTicketTypes(req.TicketTypes)
	event.IsFeatured = req.IsFeatured
	event.IsPrivate = req.IsPrivate
	event.Tags = normalizeTags(req.Tags)

	if req.Organizer != nil {
		ownerID := event.Organizer.UserID
		event.Organizer = *req.Organizer
		event.Organizer.UserID = ownerID
	}

	if req.Status != "" {
		if req.Status == models.EventStatusPublished && event.Status != models.EventStatusPublished {
			published := now
			event.PublishedAt = &published
		}
		event.Status = req.Status
	}
	event.UpdatedAt = now
}

func buildTicketTypes(reqs []dto.TicketTypeRequest) []models.TicketType {
	out := make([]models.TicketType, 0, len(reqs))
	for _, r := range reqs {
		tt := models.TicketType{
			ID:                r.ID,
			Name:              strings.TrimSpace(r.Name),
			Description:       r.Description,
			Price:             r.Price,
			QuantityAvailable: r.QuantityAvailable,
			MaxPerUser:        r.MaxPerUser,
			SaleStart:         r.SaleStart,
			SaleEnd:           r.SaleEnd,
			Includes:          r.Includes,
			IsActive:          true,
		}
		if tt.ID == "" {
			tt.ID = primitive.NewObjectID().Hex()
		}
		if tt.MaxPerUser == 0 {
			tt.MaxPerUser = 10
		}
		if r.IsActive != nil {
			tt.IsActive = *r.IsActive
		}
		out = append(out, tt)
	}
	return out
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// checkConfigMatchesType rejects a seating payload that belongs to another
// event type.
func checkConfigMatchesType(t models.EventType, cfg models.EventConfig) error {
	mismatch := (cfg.Cinema != nil && t != models.EventTypeCinema) ||
		(cfg.Concert != nil && t != models.EventTypeConcert) ||
		(cfg.Transport != nil && t != models.EventTypeTransport)
	if mismatch {
		return fieldError("config", fmt.Sprintf("Seating configuration does not match event type '%s'", t))
	}
	return nil
}

// resolveSlug returns the slug to store. An explicit slug must be free
// (current is the event's own slug on update); a derived one gets a numeric
// suffix until it is.
func (s *eventService) resolveSlug(ctx context.Context, explicit, name, current string) (string, error) {
	if explicit != "" {
		slug := models.Slugify(explicit)
		if slug == "" {
			return "", fieldError("slug", "Must contain at least one letter or digit")
		}
		if slug == current {
			return slug, nil
		}
		taken, err := s.eventRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", apperrors.DatabaseError(err)
		}
		if taken {
			return "", apperrors.ErrAlreadyExists(repositories.ErrSlugTaken, "event", "Slug is already in use")
		}
		return slug, nil
	}

	base := models.Slugify(name)
	if base == "" {
		base = "event"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		taken, err := s.eventRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", apperrors.DatabaseError(err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", apperrors.ErrConflict(repositories.ErrSlugTaken, "event", "Could not derive a unique slug")
}

// ---------------- Read ----------------

func (s *eventService) GetEvents(ctx context.Context, query *dto.EventListQuery) (*dto.EventListResponse, error) {
	status := query.Status
	if status == "" {
		status = models.EventStatusPublished
	}

	var tags []string
	for _, t := range query.Tags {
		for _, part := range strings.Split(t, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				tags = append(tags, part)
			}
		}
	}

	page, limit := repositories.NormalizePage(query.Page, query.Limit)
	events, total, err := s.eventRepo.List(ctx, repositories.EventFilter{
		Type:       query.Type,
		Status:     status,
		City:       strings.TrimSpace(query.City),
		IsFeatured: query.IsFeatured,
		DateFrom:   query.DateFrom,
		DateTo:     query.DateTo,
		Tags:       tags,
		Search:     strings.TrimSpace(query.Search),
		Sort:       query.Sort,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	return &dto.EventListResponse{
		Events:     events,
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

func (s *eventService) GetEventByIDOrSlug(ctx context.Context, identifier string) (*models.Event, error) {
	var (
		event *models.Event
		err   error
	)
	if oid, parseErr := primitive.ObjectIDFromHex(identifier); parseErr == nil {
		event, err = s.eventRepo.FindByID(ctx, oid)
	} else {
		event, err = s.eventRepo.FindBySlug(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		return nil, eventRepoError(err)
	}

	if err := s.eventRepo.IncrementStats(ctx, event.ID, repositories.EventStatsDelta{Views: 1}); err != nil {
		logger.CtxWithError(ctx, "Failed to increment event views", err, "event_id", event.ID.Hex())
	} else {
		event.Stats.Views++
	}
	return event, nil
}

func (s *eventService) SearchEvents(ctx context.Context, req *dto.SearchEventsRequest) ([]repositories.EventSearchHit, dto.Pagination, error) {
	page, limit := repositories.NormalizePage(req.Page, req.Limit)

	params := repositories.SearchParams{
		Query:  strings.TrimSpace(req.Query),
		SortBy: req.SortBy,
		Page:   page,
		Limit:  limit,
	}
	if params.SortBy == "" {
		params.SortBy = repositories.SortRelevance
	}
	if req.Filters != nil {
		params.Type = req.Filters.Type
		params.PriceMin = req.Filters.PriceMin
		params.PriceMax = req.Filters.PriceMax
	}
	if req.Location != nil && req.Radius > 0 {
		loc := req.Location.ToModel()
		params.Location = &loc
		params.RadiusKm = req.Radius
	}

	hits, total, err := s.eventRepo.Search(ctx, params)
	if err != nil {
		return nil, dto.Pagination{}, apperrors.DatabaseError(err)
	}
	return hits, dto.NewPagination(page, limit, total), nil
}

func (s *eventService) GetEventAnalytics(ctx context.Context, id string, from, to *time.Time) (*dto.DashboardMetrics, error) {
	oid, err := parseObjectID(id, "event", "Event not found")
	if err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.FindByID(ctx, oid); err != nil {
		return nil, eventRepoError(err)
	}
	return s.analyticsService.GetDashboardMetrics(ctx, &oid, from, to)
}

// ---------------- Delete ----------------

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	oid, err := parseObjectID(id, "event", "Event not found")
	if err != nil {
		return err
	}
	if err := s.eventRepo.SoftDelete(ctx, oid, s.now().UTC()); err != nil {
		return eventRepoError(err)
	}
	logger.CtxInfo(ctx, "Event deleted", "event_id", id)
	return nil
}

// ---------------- Seats ----------------

// UpdateSeatAvailability reads the event, mutates its seating in memory and
// writes the config back. Concurrent updates to the same event can overwrite
// each other.
func (s *eventService) UpdateSeatAvailability(ctx context.Context, id string, req *dto.SeatUpdateRequest) (*models.Event, error) {
	oid, err := parseObjectID(id, "event", "Event not found")
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, eventRepoError(err)
	}

	switch event.Type {
	case models.EventTypeCinema:
		err = updateCinemaSeats(event.Config.Cinema, req)
	case models.EventTypeConcert:
		err = updateConcertSeats(event.Config.Concert, req)
	case models.EventTypeTransport:
		err = bookTransportSeats(event.Config.Transport, req)
	default:
		return nil, apperrors.ErrUnsupportedType("event",
			fmt.Sprintf("Seat updates are not supported for %s events", event.Type))
	}
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.UpdateConfig(ctx, oid, event.Config); err != nil {
		return nil, eventRepoError(err)
	}
	event.UpdatedAt = s.now().UTC()
	return event, nil
}

func requireSeatSelection(row string, seats []int, status models.SeatStatus) error {
	details := map[string]string{}
	if row == "" {
		details["row"] = "This field is required"
	}
	if len(seats) == 0 {
		details["seat_numbers"] = "This field is required"
	}
	if status == "" {
		details["status"] = "This field is required"
	}
	if len(details) > 0 {
		return apperrors.ValidationError(details)
	}
	return nil
}

func seatingError(err error) error {
	switch {
	case errors.Is(err, models.ErrInsufficientSeats):
		return apperrors.ErrInsufficientCapacity(err, "event", "Not enough available seats")
	case errors.Is(err, models.ErrTheaterNotFound),
		errors.Is(err, models.ErrSectionNotFound),
		errors.Is(err, models.ErrRowNotFound),
		errors.Is(err, models.ErrRouteNotFound),
		errors.Is(err, models.ErrScheduleNotFound):
		msg := err.Error()
		return apperrors.ErrNotFound(err, "event", strings.ToUpper(msg[:1])+msg[1:])
	default:
		return apperrors.InternalError(err)
	}
}

func updateCinemaSeats(cfg *models.CinemaConfig, req *dto.SeatUpdateRequest) error {
	if req.TheaterID == "" {
		return fieldError("theater_id", "This field is required")
	}
	if err := requireSeatSelection(req.Row, req.SeatNumbers, req.Status); err != nil {
		return err
	}
	if cfg == nil {
		return seatingError(models.ErrTheaterNotFound)
	}
	if _, err := cfg.SetSeatStatus(req.TheaterID, req.Row, req.SeatNumbers, req.Status); err != nil {
		return seatingError(err)
	}
	return nil
}

func updateConcertSeats(cfg *models.ConcertConfig, req *dto.SeatUpdateRequest) error {
	if req.SectionID == "" {
		return fieldError("section_id", "This field is required")
	}
	if err := requireSeatSelection(req.Row, req.SeatNumbers, req.Status); err != nil {
		return err
	}
	if cfg == nil {
		return seatingError(models.ErrSectionNotFound)
	}
	if _, err := cfg.SetSeatStatus(req.SectionID, req.Row, req.SeatNumbers, req.Status); err != nil {
		return seatingError(err)
	}
	return nil
}

func bookTransportSeats(cfg *models.TransportConfig, req *dto.SeatUpdateRequest) error {
	details := map[string]string{}
	if req.RouteID == "" {
		details["route_id"] = "This field is required"
	}
	if req.ScheduleID == "" {
		details["schedule_id"] = "This field is required"
	}
	if req.SeatsToBook < 1 {
		details["seats_to_book"] = "Must be at least 1"
	}
	if len(details) > 0 {
		return apperrors.ValidationError(details)
	}

	if cfg == nil {
		return seatingError(models.ErrRouteNotFound)
	}
	scheduleID, err := primitive.ObjectIDFromHex(req.ScheduleID)
	if err != nil {
		return seatingError(models.ErrScheduleNotFound)
	}
	if _, err := cfg.BookSeats(req.RouteID, scheduleID, req.SeatsToBook); err != nil {
		return seatingError(err)
	}
	return nil
}
