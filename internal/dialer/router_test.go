package dialer

import "testing"

func TestRoute_IndiaGoesToCallHippo(t *testing.T) {
	for _, region := range []string{"india", "India", "INDIA", "iNdIa"} {
		if got := Route(region); got != ProviderCallHippo {
			t.Errorf("Route(%q) = %q, want %q", region, got, ProviderCallHippo)
		}
	}
}

func TestRoute_EverythingElseFallsBackToTwilio(t *testing.T) {
	for _, region := range []string{"global", "", "europe", "us-east", "indiana"} {
		if got := Route(region); got != ProviderTwilio {
			t.Errorf("Route(%q) = %q, want %q", region, got, ProviderTwilio)
		}
	}
}

func TestRegistry_UnknownProviderIsAnError(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Get(ProviderTwilio); err == nil {
		t.Fatalf("expected error for unregistered provider")
	}

	d := &scriptedDialer{failuresBeforeSuccess: 0}
	r.Register(ProviderTwilio, d)

	got, err := r.Get(ProviderTwilio)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != d {
		t.Fatalf("expected registered dialer back")
	}
}
