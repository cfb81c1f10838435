package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ozanyurt/voice-campaign-service/environments"
	"github.com/ozanyurt/voice-campaign-service/handlers"
	"github.com/ozanyurt/voice-campaign-service/internal/middlewares"
)

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	campaignHandler *handlers.CampaignHandler,
	contactHandler *handlers.ContactHandler,
	callHandler *handlers.CallHandler,
	progressHandler *handlers.ProgressHandler,
	cfg *environments.Config,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 base group
	v1 := e.Group("/api/v1")

	// The progress stream is read-only and unauthenticated, matching the
	// long-lived subscription surface.
	v1.GET("/ws/campaign-progress", progressHandler.Stream)

	campaigns := v1.Group("/campaigns", middlewares.APIKeyAuth(cfg.Auth.CampaignsAPIKey))

	campaigns.POST("", campaignHandler.CreateCampaign)
	campaigns.GET("", campaignHandler.ListCampaigns)
	campaigns.POST("/schedule", campaignHandler.ScheduleCampaign)
	campaigns.GET("/:id", campaignHandler.GetCampaign)
	campaigns.DELETE("/:id", campaignHandler.DeleteCampaign)
	campaigns.POST("/:id/start", campaignHandler.StartCampaign)
	campaigns.POST("/control/:id/:action", campaignHandler.ControlCampaign)

	calls := v1.Group("/calls", middlewares.APIKeyAuth(cfg.Auth.CampaignsAPIKey))
	calls.GET("/history", callHandler.GetCallHistory)

	analytics := v1.Group("/analytics", middlewares.APIKeyAuth(cfg.Auth.CampaignsAPIKey))
	analytics.GET("/summary", callHandler.GetSummary)
	analytics.GET("/campaign-stats", callHandler.GetCampaignStats)

	contacts := v1.Group("/contacts", middlewares.APIKeyAuth(cfg.Auth.ContactsAPIKey))
	contacts.POST("", contactHandler.CreateContact)
	contacts.GET("", contactHandler.ListContacts)
}
