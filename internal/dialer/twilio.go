package dialer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/ozanyurt/voice-campaign-service/environments"
	"github.com/ozanyurt/voice-campaign-service/pkg/logger"
)

// TwilioDialer places calls through a Twilio-style REST endpoint. It is the
// fallback provider for every region without a more specific rule.
type TwilioDialer struct {
	httpClient  *resty.Client
	callbackURL string
	fromNumber  string
}

type twilioCallRequest struct {
	To     string `json:"To"`
	From   string `json:"From"`
	URL    string `json:"Url"`
	Method string `json:"Method"`
}

type twilioCallResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	RecordingURL string `json:"recording_url,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewTwilioDialer(cfg environments.TwilioConfig) *TwilioDialer {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &TwilioDialer{
		httpClient:  client,
		callbackURL: cfg.CallbackURL,
		fromNumber:  cfg.FromNumber,
	}
}

func (d *TwilioDialer) Dial(ctx context.Context, name, number, message string) (*DialResult, error) {
	payload := twilioCallRequest{
		To:     number,
		From:   d.fromNumber,
		URL:    d.callbackURL,
		Method: http.MethodGet,
	}

	var callResp twilioCallResponse

	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&callResp).
		Post("/Calls")
	if err != nil {
		return nil, fmt.Errorf("twilio call request failed: %w", err)
	}

	if resp.StatusCode() >= http.StatusMultipleChoices {
		return &DialResult{
			Success:     false,
			ErrorDetail: fmt.Sprintf("twilio returned status %d: %s", resp.StatusCode(), resp.String()),
		}, nil
	}

	logger.Debugf("Twilio call placed for %s (%s), sid=%s", name, number, callResp.SID)

	return &DialResult{
		Success:      true,
		RecordingURL: callResp.RecordingURL,
	}, nil
}
