package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ozanyurt/voice-campaign-service/internal/domain"
	"github.com/ozanyurt/voice-campaign-service/pkg/response"
)

type callLogReader interface {
	List(ctx context.Context, filter domain.CallLogFilter) ([]domain.CallLog, error)
	Summary(ctx context.Context) (*domain.CallSummary, error)
	CampaignStats(ctx context.Context) ([]domain.CampaignCallStats, error)
}

type CallHandler struct {
	callLogs callLogReader
}

func NewCallHandler(callLogs callLogReader) *CallHandler {
	return &CallHandler{callLogs: callLogs}
}

// GetCallHistory godoc
// @Summary Get call history
// @Description Returns call logs, newest first, with optional filters
// @Tags calls
// @Produce json
// @Param x-api-key header string true "API key for campaigns"
// @Param campaignId query int false "Filter by campaign id"
// @Param status query string false "Filter by status (initiated, completed, failed)"
// @Param region query string false "Filter by region"
// @Param limit query int false "Max rows (default: 50)"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/calls/history [get]
func (h *CallHandler) GetCallHistory(c echo.Context) error {
	var filter domain.CallLogFilter

	if campaignStr := c.QueryParam("campaignId"); campaignStr != "" {
		campaignID, err := strconv.ParseInt(campaignStr, 10, 64)
		if err != nil || campaignID <= 0 {
			return response.BadRequest(c, fmt.Errorf("campaignId must be a positive integer"))
		}
		filter.CampaignID = &campaignID
	}

	if statusStr := c.QueryParam("status"); statusStr != "" {
		status := domain.CallStatus(statusStr)
		switch status {
		case domain.CallInitiated, domain.CallCompleted, domain.CallFailed:
			filter.Status = &status
		default:
			return response.BadRequest(c, fmt.Errorf("status must be one of initiated, completed, failed"))
		}
	}

	if region := c.QueryParam("region"); region != "" {
		filter.Region = &region
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return response.BadRequest(c, fmt.Errorf("limit must be a positive integer"))
		}
		filter.Limit = limit
	}

	logs, err := h.callLogs.List(c.Request().Context(), filter)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, logs)
}

// GetSummary godoc
// @Summary Platform call summary
// @Description Returns total, successful, and failed call counts
// @Tags analytics
// @Produce json
// @Param x-api-key header string true "API key for campaigns"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/analytics/summary [get]
func (h *CallHandler) GetSummary(c echo.Context) error {
	summary, err := h.callLogs.Summary(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, summary)
}

// GetCampaignStats godoc
// @Summary Per-campaign call statistics
// @Tags analytics
// @Produce json
// @Param x-api-key header string true "API key for campaigns"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/analytics/campaign-stats [get]
func (h *CallHandler) GetCampaignStats(c echo.Context) error {
	stats, err := h.callLogs.CampaignStats(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, stats)
}
