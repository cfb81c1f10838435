package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ozanyurt/voice-campaign-service/internal/apperrors"
	"github.com/ozanyurt/voice-campaign-service/internal/domain"
	"github.com/ozanyurt/voice-campaign-service/internal/service"
	"github.com/ozanyurt/voice-campaign-service/pkg/response"
	"github.com/ozanyurt/voice-campaign-service/pkg/validator"
)

type stubCampaignRepo struct {
	campaign *domain.Campaign
}

func (r *stubCampaignRepo) Create(ctx context.Context, name, message, region string) (*domain.Campaign, error) {
	r.campaign = &domain.Campaign{
		ID:      1,
		Name:    name,
		Message: message,
		Region:  region,
		Status:  domain.StatusScheduled,
	}
	snapshot := *r.campaign
	return &snapshot, nil
}

func (r *stubCampaignRepo) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	if r.campaign == nil || r.campaign.ID != id {
		return nil, apperrors.NewCampaignNotFound(id)
	}
	snapshot := *r.campaign
	return &snapshot, nil
}

func (r *stubCampaignRepo) GetAll(ctx context.Context, page, pageSize int) ([]domain.Campaign, int64, error) {
	if r.campaign == nil {
		return nil, 0, nil
	}
	return []domain.Campaign{*r.campaign}, 1, nil
}

func (r *stubCampaignRepo) UpdateStatus(
	ctx context.Context,
	id int64,
	expected []domain.CampaignStatus,
	next domain.CampaignStatus,
) (*domain.Campaign, error) {
	if r.campaign == nil || r.campaign.ID != id {
		return nil, apperrors.NewCampaignNotFound(id)
	}

	for _, status := range expected {
		if r.campaign.Status == status {
			r.campaign.Status = next
			snapshot := *r.campaign
			return &snapshot, nil
		}
	}

	return nil, &apperrors.InvalidTransitionError{
		CampaignID: id,
		From:       r.campaign.Status,
		To:         next,
	}
}

func (r *stubCampaignRepo) SetSchedule(ctx context.Context, id int64, runAt time.Time) error {
	if r.campaign != nil && r.campaign.ID == id {
		at := runAt
		r.campaign.ScheduledAt = &at
	}
	return nil
}

func (r *stubCampaignRepo) Delete(ctx context.Context, id int64) error {
	r.campaign = nil
	return nil
}

type stubTrigger struct {
	runNow []int64
}

func (t *stubTrigger) RunNow(campaignID int64) { t.runNow = append(t.runNow, campaignID) }

func (t *stubTrigger) RunAt(campaignID int64, runAt time.Time) {}

func newCampaignTestServer(status domain.CampaignStatus) (*echo.Echo, *CampaignHandler, *stubCampaignRepo, *stubTrigger) {
	repo := &stubCampaignRepo{}
	if status != "" {
		repo.campaign = &domain.Campaign{
			ID:      1,
			Name:    "Spring Launch",
			Message: "Hello there",
			Region:  "global",
			Status:  status,
		}
	}

	trig := &stubTrigger{}
	handler := NewCampaignHandler(service.NewCampaignService(repo, trig))

	e := echo.New()
	e.Validator = validator.New()

	return e, handler, repo, trig
}

func decodeError(t *testing.T, body []byte) response.ErrorResponse {
	t.Helper()
	var resp response.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	return resp
}

func TestCreateCampaign_Returns201(t *testing.T) {
	e, handler, _, _ := newCampaignTestServer("")

	body := `{"name":"Spring Launch","message":"Hello there","region":"india"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateCampaign(c); err != nil {
		t.Fatalf("CreateCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var resp response.SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Errorf("expected success=true")
	}
}

func TestCreateCampaign_MissingFieldsReturns422(t *testing.T) {
	e, handler, _, _ := newCampaignTestServer("")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns", strings.NewReader(`{"region":"global"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateCampaign(c); err != nil {
		t.Fatalf("CreateCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateCampaign_MalformedJSONReturns400(t *testing.T) {
	e, handler, _, _ := newCampaignTestServer("")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns", strings.NewReader(`{"name": `))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateCampaign(c); err != nil {
		t.Fatalf("CreateCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
}

func TestControlCampaign_PauseRunningReturns200(t *testing.T) {
	e, handler, repo, _ := newCampaignTestServer(domain.StatusRunning)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/control/1/pause", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "action")
	c.SetParamValues("1", "pause")

	if err := handler.ControlCampaign(c); err != nil {
		t.Fatalf("ControlCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if repo.campaign.Status != domain.StatusPaused {
		t.Errorf("campaign status = %s, want paused", repo.campaign.Status)
	}
}

func TestControlCampaign_InvalidTransitionReturns409(t *testing.T) {
	e, handler, repo, _ := newCampaignTestServer(domain.StatusScheduled)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/control/1/pause", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "action")
	c.SetParamValues("1", "pause")

	if err := handler.ControlCampaign(c); err != nil {
		t.Fatalf("ControlCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body: %s", rec.Code, rec.Body.String())
	}

	resp := decodeError(t, rec.Body.Bytes())
	if !strings.Contains(resp.Error, "invalid transition") {
		t.Errorf("error = %q, want invalid transition reason", resp.Error)
	}
	if repo.campaign.Status != domain.StatusScheduled {
		t.Errorf("rejected action changed status to %s", repo.campaign.Status)
	}
}

func TestControlCampaign_UnknownActionReturns400(t *testing.T) {
	e, handler, _, _ := newCampaignTestServer(domain.StatusRunning)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/control/1/restart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "action")
	c.SetParamValues("1", "restart")

	if err := handler.ControlCampaign(c); err != nil {
		t.Fatalf("ControlCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
}

func TestControlCampaign_UnknownCampaignReturns404(t *testing.T) {
	e, handler, _, _ := newCampaignTestServer("")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/control/42/stop", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "action")
	c.SetParamValues("42", "stop")

	if err := handler.ControlCampaign(c); err != nil {
		t.Fatalf("ControlCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", rec.Code, rec.Body.String())
	}
}

func TestControlCampaign_ResumeTriggersRun(t *testing.T) {
	e, handler, _, trig := newCampaignTestServer(domain.StatusPaused)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/control/1/resume", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "action")
	c.SetParamValues("1", "resume")

	if err := handler.ControlCampaign(c); err != nil {
		t.Fatalf("ControlCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if len(trig.runNow) != 1 || trig.runNow[0] != 1 {
		t.Fatalf("expected resume to trigger one run, got %v", trig.runNow)
	}
}

func TestScheduleCampaign_BadStartTimeReturns400(t *testing.T) {
	e, handler, _, _ := newCampaignTestServer(domain.StatusScheduled)

	body := `{"campaignId":1,"startTime":"tomorrow at noon"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/schedule", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ScheduleCampaign(c); err != nil {
		t.Fatalf("ScheduleCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}

	resp := decodeError(t, rec.Body.Bytes())
	if !strings.Contains(resp.Error, "RFC3339") {
		t.Errorf("error = %q, want RFC3339 hint", resp.Error)
	}
}

func TestGetCampaign_InvalidIDReturns400(t *testing.T) {
	e, handler, _, _ := newCampaignTestServer(domain.StatusScheduled)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := handler.GetCampaign(c); err != nil {
		t.Fatalf("GetCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
}
