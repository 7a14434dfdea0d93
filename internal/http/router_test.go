package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/finsim/ofxserve/internal/config"
	"github.com/finsim/ofxserve/internal/ofx"
	"github.com/finsim/ofxserve/pkg/domain"
	"github.com/finsim/ofxserve/pkg/server"
)

func newTestRouter(t *testing.T, rl config.RateLimitConfig) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := server.New(server.Config{
		Logger:      logger,
		Credentials: domain.Credentials{UserName: "alice", Password: "secret"},
		Now: func() time.Time {
			return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		},
	})
	return NewRouter(RouterConfig{
		Logger:          logger,
		Server:          srv,
		PathPrefix:      "/ofx/test/",
		RateLimitConfig: rl,
	})
}

func ofxRequest(t *testing.T, router http.Handler, doc *ofx.Element) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := ofx.Serialize(&buf, doc); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/ofx/test/", &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func signonRequestDoc() *ofx.Element {
	return ofx.New("OFX",
		ofx.New("SIGNONMSGSRQV1", ofx.New("SONRQ",
			ofx.Str("USERID", "alice"),
			ofx.Str("USERPASS", "secret"),
		)),
	)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRouter_AdminReshapesProtocol(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{})

	// Demand a password change through the admin surface.
	req := httptest.NewRequest(http.MethodPut, "/admin/changepassword", strings.NewReader(`{"required": true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", rec.Code)
	}

	// The next protocol sign-on sees the demand.
	rec = ofxRequest(t, router, signonRequestDoc())
	if rec.Code != http.StatusOK {
		t.Fatalf("protocol status = %d, want 200", rec.Code)
	}
	resp, err := ofx.Parse(rec.Body)
	if err != nil {
		t.Fatalf("response does not parse: %v", err)
	}
	if code, _ := resp.Find("STATUS").ChildValue("CODE"); code != "15000" {
		t.Errorf("CODE = %q, want 15000", code)
	}

	// And the state endpoint reports it.
	req = httptest.NewRequest(http.MethodGet, "/admin/state", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"change_password":true`) {
		t.Errorf("state = %q", rec.Body.String())
	}
}

func TestRouter_MethodAgnosticEndpoint(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodGet} {
		var buf bytes.Buffer
		if err := ofx.Serialize(&buf, signonRequestDoc()); err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(method, "/ofx/test/", &buf)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", method, rec.Code)
		}
	}
}

func TestRouter_OversizedBodyRejected(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{})

	body := strings.NewReader("<OFX>" + strings.Repeat("x", maxRequestBodySize+1) + "</OFX>")
	req := httptest.NewRequest(http.MethodPost, "/ofx/test/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRouter_AdminRateLimit(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/admin/state", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/state", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}

	// The protocol endpoint is not rate limited.
	rec = ofxRequest(t, router, signonRequestDoc())
	if rec.Code != http.StatusOK {
		t.Errorf("protocol status = %d, want 200", rec.Code)
	}
}
