package dialer

import (
	"context"
	"fmt"
	"strings"
)

// Provider identifies a delivery backend.
type Provider string

const (
	ProviderTwilio    Provider = "twilio"
	ProviderCallHippo Provider = "callhippo"
)

// Route picks the provider for a region. CallHippo handles India; Twilio is
// the fallback for every other region, including "global" and empty.
func Route(region string) Provider {
	if strings.EqualFold(region, "india") {
		return ProviderCallHippo
	}
	return ProviderTwilio
}

// DialResult is the outcome of one delivery attempt. Failure is data, not
// control flow: callers branch on Success instead of catching errors.
type DialResult struct {
	Success      bool   `json:"success"`
	RecordingURL string `json:"recordingUrl,omitempty"`
	ErrorDetail  string `json:"errorDetail,omitempty"`
}

// Dialer performs one outbound call attempt. The call blocks for a network
// round trip; an error return and Success=false both count as failure.
type Dialer interface {
	Dial(ctx context.Context, name, number, message string) (*DialResult, error)
}

// Registry maps providers to their dialers. It is built at wiring time and
// injected; no ambient globals.
type Registry struct {
	dialers map[Provider]Dialer
}

func NewRegistry() *Registry {
	return &Registry{dialers: make(map[Provider]Dialer)}
}

func (r *Registry) Register(provider Provider, d Dialer) {
	r.dialers[provider] = d
}

func (r *Registry) Get(provider Provider) (Dialer, error) {
	d, ok := r.dialers[provider]
	if !ok {
		return nil, fmt.Errorf("no dialer registered for provider %q", provider)
	}
	return d, nil
}
