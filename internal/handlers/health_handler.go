package handlers

import (
	"context"
	"net/http"
	"time"

	"eventix_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	apiVersion         = "1.0.0"
	healthCheckTimeout = 2 * time.Second
)

// StoreCheck reports whether a backing store is reachable.
type StoreCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]StoreCheck
	now    func() time.Time
}

func NewHealthHandler(checks map[string]StoreCheck) *HealthHandler {
	return &HealthHandler{checks: checks, now: time.Now}
}

func (h *HealthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)
}

// Health answers 200 while every store responds and 503 otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	errs := make(map[string]error, len(h.checks))
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}

	// Each goroutine writes only its own slot.
	outcomes := make([]error, len(names))
	var g errgroup.Group
	for i, name := range names {
		check := h.checks[name]
		g.Go(func() error {
			outcomes[i] = check(ctx)
			return nil
		})
	}
	_ = g.Wait()

	healthy := true
	for i, name := range names {
		if outcomes[i] != nil {
			healthy = false
			errs[name] = outcomes[i]
			results[name] = "down"
			continue
		}
		results[name] = "up"
	}

	body := gin.H{
		"success":   healthy,
		"message":   "API is running",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"version":   apiVersion,
	}
	if len(results) > 0 {
		body["services"] = results
	}

	if !healthy {
		for name, err := range errs {
			logger.CtxWithError(c.Request.Context(), "Health check failed", err, "store", name)
		}
		body["message"] = "API is degraded"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
