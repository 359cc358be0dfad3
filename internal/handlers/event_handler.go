package handlers

import (
	"context"
	"time"

	"eventix_backend/internal/middleware"
	"eventix_backend/internal/models"
	"eventix_backend/internal/services"
	"eventix_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// detailViewTimeout bounds the analytics write started by GET /events/:id.
const detailViewTimeout = 5 * time.Second

type EventHandler struct {
	*BaseHandler
	eventService     services.EventService
	analyticsService services.AnalyticsService
}

func NewEventHandler(base *BaseHandler, eventService services.EventService, analyticsService services.AnalyticsService) *EventHandler {
	return &EventHandler{
		BaseHandler:      base,
		eventService:     eventService,
		analyticsService: analyticsService,
	}
}

func (h *EventHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	events := r.Group("/events")
	{
		events.GET("", h.GetEvents)
		events.GET("/:id", h.GetEvent)
		events.POST("/search", h.SearchEvents)
	}

	// Admin routes
	admin := r.Group("/events")
	admin.Use(h.Auth(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.POST("", h.CreateEvent)
		admin.PUT("/:id", h.UpdateEvent)
		admin.DELETE("/:id", h.DeleteEvent)
		admin.PATCH("/:id/seats", h.UpdateSeatAvailability)
		admin.GET("/:id/analytics", h.GetEventAnalytics)
	}
}

// --- Public handlers ---

func (h *EventHandler) GetEvents(c *gin.Context) {
	var query dto.EventListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.eventService.GetEvents(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondPage(c, resp.Events, resp.Pagination)
}

// GetEvent accepts either an id or a slug. The view is counted on the event
// right away; the analytics bucket is updated in the background.
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.GetEventByIDOrSlug(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.recordDetailView(c, event.ID)
	respondOK(c, event)
}

func (h *EventHandler) recordDetailView(c *gin.Context, eventID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), detailViewTimeout)
	userAgent, ip := c.Request.UserAgent(), c.ClientIP()

	go func() {
		defer cancel()
		h.analyticsService.RecordDetailView(ctx, eventID, userAgent, ip)
	}()
}

func (h *EventHandler) SearchEvents(c *gin.Context) {
	var req dto.SearchEventsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	hits, pagination, err := h.eventService.SearchEvents(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondPage(c, hits, pagination)
}

// --- Admin handlers ---

func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.EventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondCreated(c, "Event created successfully", event)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req dto.EventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondMessage(c, "Event updated successfully", event)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventService.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondMessage(c, "Event deleted successfully", nil)
}

func (h *EventHandler) UpdateSeatAvailability(c *gin.Context) {
	var req dto.SeatUpdateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	event, err := h.eventService.UpdateSeatAvailability(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondMessage(c, "Seat availability updated successfully", event)
}

func (h *EventHandler) GetEventAnalytics(c *gin.Context) {
	var query dto.DateRangeQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	metrics, err := h.eventService.GetEventAnalytics(c.Request.Context(), c.Param("id"), query.StartDate, query.EndDate)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, metrics)
}
