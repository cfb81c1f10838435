package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ozanyurt/voice-campaign-service/internal/apperrors"
	"github.com/ozanyurt/voice-campaign-service/internal/domain"
	"github.com/ozanyurt/voice-campaign-service/internal/service"
	"github.com/ozanyurt/voice-campaign-service/pkg/response"
	"github.com/ozanyurt/voice-campaign-service/pkg/validator"
)

type CampaignHandler struct {
	service *service.CampaignService
}

func NewCampaignHandler(service *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{service: service}
}

type CreateCampaignRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Message string `json:"message" validate:"required,max=2000"`
	Region  string `json:"region" validate:"omitempty,max=50"`
}

type ScheduleCampaignRequest struct {
	CampaignID int64  `json:"campaignId" validate:"required,min=1"`
	StartTime  string `json:"startTime" validate:"required"`
}

// campaignError maps repository/service errors onto the response envelope.
func campaignError(c echo.Context, err error) error {
	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		return response.NotFound(c, err.Error())
	}

	var invalid *apperrors.InvalidTransitionError
	if errors.As(err, &invalid) {
		return response.Conflict(c, err)
	}

	return response.InternalServerError(c, err)
}

func parseCampaignID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid campaign id")
	}
	return id, nil
}

// CreateCampaign godoc
// @Summary Create a campaign
// @Description Creates a new outbound call campaign in scheduled state
// @Tags campaigns
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for campaigns"
// @Param campaign body CreateCampaignRequest true "Campaign to create"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/campaigns [post]
func (h *CampaignHandler) CreateCampaign(c echo.Context) error {
	var req CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	campaign, err := h.service.CreateCampaign(c.Request().Context(), req.Name, req.Message, req.Region)
	if err != nil {
		return campaignError(c, err)
	}

	return response.Created(c, "Campaign created successfully", campaign)
}

// GetCampaign godoc
// @Summary Get a campaign
// @Description Returns one campaign by id
// @Tags campaigns
// @Produce json
// @Param x-api-key header string true "API key for campaigns"
// @Param id path int true "Campaign ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c echo.Context) error {
	id, err := parseCampaignID(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	campaign, err := h.service.GetCampaign(c.Request().Context(), id)
	if err != nil {
		return campaignError(c, err)
	}

	return response.Ok(c, campaign)
}

// ListCampaigns godoc
// @Summary List campaigns
// @Description Returns a paginated list of campaigns
// @Tags campaigns
// @Produce json
// @Param x-api-key header string true "API key for campaigns"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) ListCampaigns(c echo.Context) error {
	page, pageSize, err := parsePaginationParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	campaigns, totalCount, err := h.service.ListCampaigns(c.Request().Context(), page, pageSize)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, campaigns, page, pageSize, totalCount)
}

// DeleteCampaign godoc
// @Summary Delete a campaign
// @Tags campaigns
// @Produce json
// @Param x-api-key header string true "API key for campaigns"
// @Param id path int true "Campaign ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/campaigns/{id} [delete]
func (h *CampaignHandler) DeleteCampaign(c echo.Context) error {
	id, err := parseCampaignID(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	if err := h.service.DeleteCampaign(c.Request().Context(), id); err != nil {
		return campaignError(c, err)
	}

	return response.OkWithMessage(c, "Campaign deleted successfully", nil)
}

// ScheduleCampaign godoc
// @Summary Schedule a campaign
// @Description Defers the campaign run to the given RFC3339 time
// @Tags campaigns
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for campaigns"
// @Param request body ScheduleCampaignRequest true "Schedule request"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/campaigns/schedule [post]
func (h *CampaignHandler) ScheduleCampaign(c echo.Context) error {
	var req ScheduleCampaignRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	runAt, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return response.BadRequest(c, fmt.Errorf("startTime must be RFC3339: %w", err))
	}

	campaign, err := h.service.ScheduleCampaign(c.Request().Context(), req.CampaignID, runAt)
	if err != nil {
		return campaignError(c, err)
	}

	return response.OkWithMessage(c, "Campaign scheduled", campaign)
}

// StartCampaign godoc
// @Summary Start a campaign now
// @Description Fires the campaign executor immediately
// @Tags campaigns
// @Produce json
// @Param x-api-key header string true "API key for campaigns"
// @Param id path int true "Campaign ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/campaigns/{id}/start [post]
func (h *CampaignHandler) StartCampaign(c echo.Context) error {
	id, err := parseCampaignID(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	campaign, err := h.service.StartCampaign(c.Request().Context(), id)
	if err != nil {
		return campaignError(c, err)
	}

	return response.OkWithMessage(c, "Campaign started", campaign)
}

// ControlCampaign godoc
// @Summary Pause, resume, or stop a campaign
// @Description Applies an operator control action; invalid transitions are rejected with 409
// @Tags campaigns
// @Produce json
// @Param x-api-key header string true "API key for campaigns"
// @Param id path int true "Campaign ID"
// @Param action path string true "Control action" Enums(pause, resume, stop)
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/v1/campaigns/control/{id}/{action} [post]
func (h *CampaignHandler) ControlCampaign(c echo.Context) error {
	id, err := parseCampaignID(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	action := domain.ControlAction(c.Param("action"))
	if !action.IsValid() {
		return response.BadRequest(c, fmt.Errorf("action must be one of pause, resume, stop"))
	}

	campaign, err := h.service.Control(c.Request().Context(), id, action)
	if err != nil {
		return campaignError(c, err)
	}

	return response.OkWithMessage(c, "Campaign status updated", campaign)
}

func parsePaginationParams(c echo.Context) (int, int, error) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)

	pageStr := c.QueryParam("page")
	pageSizeStr := c.QueryParam("pageSize")

	page := defaultPage
	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = p
	}

	pageSize := defaultPageSize
	if pageSizeStr != "" {
		ps, err := strconv.Atoi(pageSizeStr)
		if err != nil || ps <= 0 || ps > maxPageSize {
			return 0, 0, fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
		}

		pageSize = ps
	}

	return page, pageSize, nil
}
