package handlers

import (
	"eventix_backend/internal/middleware"
	"eventix_backend/internal/models"
	"eventix_backend/internal/services"
	"eventix_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      base,
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/analytics")

	// Tracking beacon, no auth
	analytics.POST("/record/page-view", h.RecordPageView)

	admin := analytics.Group("")
	admin.Use(h.Auth(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/dashboard", h.GetDashboardMetrics)
		admin.GET("/top-events", h.GetTopEvents)
		admin.GET("/reports/weekly/:eventId", h.GetWeeklyReport)
		admin.POST("/record/purchase", h.RecordPurchase)
		admin.POST("/record/refund", h.RecordRefund)
	}
}

func (h *AnalyticsHandler) GetDashboardMetrics(c *gin.Context) {
	var query dto.DashboardQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	var eventID *primitive.ObjectID
	if query.EventID != "" {
		oid, _ := primitive.ObjectIDFromHex(query.EventID)
		eventID = &oid
	}

	metrics, err := h.analyticsService.GetDashboardMetrics(c.Request.Context(), eventID, query.StartDate, query.EndDate)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, metrics)
}

func (h *AnalyticsHandler) GetTopEvents(c *gin.Context) {
	var query dto.TopEventsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	top, err := h.analyticsService.GetTopEvents(c.Request.Context(), query.Limit, query.Metric)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, top)
}

func (h *AnalyticsHandler) GetWeeklyReport(c *gin.Context) {
	report, err := h.analyticsService.GenerateWeeklyReport(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, report)
}

// RecordPageView always answers 200; recording failures are only logged.
func (h *AnalyticsHandler) RecordPageView(c *gin.Context) {
	var req dto.PageViewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	eventID, _ := primitive.ObjectIDFromHex(req.EventID)
	h.analyticsService.RecordPageView(c.Request.Context(), eventID, c.Request.UserAgent(), c.ClientIP())

	respondMessage(c, "Page view recorded", nil)
}

func (h *AnalyticsHandler) RecordPurchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	eventID, _ := primitive.ObjectIDFromHex(req.EventID)
	h.analyticsService.RecordTicketPurchase(c.Request.Context(), eventID, req.Quantity, req.Amount)

	respondMessage(c, "Purchase recorded", nil)
}

func (h *AnalyticsHandler) RecordRefund(c *gin.Context) {
	var req dto.PurchaseRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	eventID, _ := primitive.ObjectIDFromHex(req.EventID)
	h.analyticsService.RecordRefund(c.Request.Context(), eventID, req.Quantity, req.Amount)

	respondMessage(c, "Refund recorded", nil)
}
