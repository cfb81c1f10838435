package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/ozanyurt/voice-campaign-service/pkg/response"
)

func newEchoContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		if called != nil {
			*called = true
		}
		return c.NoContent(http.StatusOK)
	}
}

func TestAPIKeyAuth_MissingServerKeyReturns500(t *testing.T) {
	mw := APIKeyAuth("") // endpoint group key left unconfigured

	c, rec := newEchoContext(http.MethodPost, "/api/v1/campaigns")
	if err := mw(okHandler(nil))(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Success {
		t.Errorf("expected Success=false, got true")
	}
	if body.Error == "" {
		t.Errorf("expected error message, got empty string")
	}
}

func TestAPIKeyAuth_MissingClientKeyReturns401(t *testing.T) {
	mw := APIKeyAuth("campaigns-key")

	// No x-api-key header on the request.
	c, rec := newEchoContext(http.MethodPost, "/api/v1/campaigns")
	if err := mw(okHandler(nil))(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	var body response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Success {
		t.Errorf("expected Success=false, got true")
	}
}

func TestAPIKeyAuth_InvalidClientKeyReturns401(t *testing.T) {
	mw := APIKeyAuth("campaigns-key")

	c, rec := newEchoContext(http.MethodPost, "/api/v1/campaigns/control/1/pause")
	c.Request().Header.Set(APIKeyHeader, "wrong-key")

	called := false
	if err := mw(okHandler(&called))(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if called {
		t.Fatalf("next handler must not run with a bad key")
	}
}

func TestAPIKeyAuth_ValidKeyPassesThrough(t *testing.T) {
	const serverKey = "campaigns-key"
	mw := APIKeyAuth(serverKey)

	c, rec := newEchoContext(http.MethodGet, "/api/v1/campaigns")
	c.Request().Header.Set(APIKeyHeader, serverKey)

	called := false
	if err := mw(okHandler(&called))(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !called {
		t.Fatalf("expected next handler to be called")
	}
}
