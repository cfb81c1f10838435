package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"github.com/ozanyurt/voice-campaign-service/internal/broadcast"
	"github.com/ozanyurt/voice-campaign-service/pkg/redis"
)

// pendingCounter reports armed campaign timers; implemented by the scheduler.
type pendingCounter interface {
	PendingCount() int
}

// HealthHandler handles health checks.
type HealthHandler struct {
	db           *sqlx.DB
	redis        *redis.Client
	hub          *broadcast.Hub
	scheduler    pendingCounter
	checkTimeout time.Duration
}

func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client, hub *broadcast.Hub, sched pendingCounter) *HealthHandler {
	return &HealthHandler{
		db:           db,
		redis:        redisClient,
		hub:          hub,
		scheduler:    sched,
		checkTimeout: 2 * time.Second,
	}
}

// Health returns overall status and basic component statuses.
// @Summary Health check
// @Description Returns overall status with DB and Redis connectivity results
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.checkTimeout)
	defer cancel()

	overallStatus := "ok"

	dbStatus := "up"
	if h.db == nil {
		dbStatus = "down"
		overallStatus = "down"
	} else if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "down"
		overallStatus = "down"
	}

	redisStatus := "disabled"
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "down"
			overallStatus = "degraded"
		} else {
			redisStatus = "up"
		}
	}

	subscribers := 0
	if h.hub != nil {
		subscribers = h.hub.SubscriberCount()
	}

	pending := 0
	if h.scheduler != nil {
		pending = h.scheduler.PendingCount()
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"components": map[string]any{
			"database": map[string]any{
				"status": dbStatus,
			},
			"redis": map[string]any{
				"status": redisStatus,
			},
			"progress": map[string]any{
				"subscribers": subscribers,
			},
			"scheduler": map[string]any{
				"pendingCampaigns": pending,
			},
		},
	})
}
