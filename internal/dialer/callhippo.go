package dialer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/ozanyurt/voice-campaign-service/environments"
	"github.com/ozanyurt/voice-campaign-service/pkg/logger"
)

// CallHippoDialer places calls through a CallHippo-style REST endpoint; it
// handles the India region.
type CallHippoDialer struct {
	httpClient *resty.Client
}

type callHippoRequest struct {
	Name    string `json:"name"`
	Number  string `json:"number"`
	Message string `json:"message"`
}

type callHippoResponse struct {
	Status       string `json:"status"`
	CallID       string `json:"callId"`
	RecordingURL string `json:"recordingUrl,omitempty"`
	Error        string `json:"error,omitempty"`
}

func NewCallHippoDialer(cfg environments.CallHippoConfig) *CallHippoDialer {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", cfg.APIKey)

	return &CallHippoDialer{httpClient: client}
}

func (d *CallHippoDialer) Dial(ctx context.Context, name, number, message string) (*DialResult, error) {
	payload := callHippoRequest{
		Name:    name,
		Number:  number,
		Message: message,
	}

	var callResp callHippoResponse

	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&callResp).
		Post("/calls")
	if err != nil {
		return nil, fmt.Errorf("callhippo call request failed: %w", err)
	}

	if resp.StatusCode() >= http.StatusMultipleChoices || callResp.Status == "failed" {
		detail := callResp.Error
		if detail == "" {
			detail = fmt.Sprintf("callhippo returned status %d: %s", resp.StatusCode(), resp.String())
		}
		return &DialResult{Success: false, ErrorDetail: detail}, nil
	}

	logger.Debugf("CallHippo call placed for %s (%s), callId=%s", name, number, callResp.CallID)

	return &DialResult{
		Success:      true,
		RecordingURL: callResp.RecordingURL,
	}, nil
}
