package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// --- テスト ---

func TestCollector_RecordLogin(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(true)
	c.RecordLogin(true)
	c.RecordLogin(false)

	if got := testutil.ToFloat64(c.loginTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("login success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.loginTotal.WithLabelValues("failure")); got != 1 {
		t.Errorf("login failure count = %v, want 1", got)
	}
}

func TestCollector_RecordRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRegistration("success")
	c.RecordRegistration("email_taken")
	c.RecordRegistration("email_taken")

	if got := testutil.ToFloat64(c.registerTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("register success count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.registerTotal.WithLabelValues("email_taken")); got != 2 {
		t.Errorf("register email_taken count = %v, want 2", got)
	}
}

func TestCollector_RecordTokenValidation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTokenValidation(false)

	if got := testutil.ToFloat64(c.tokenValidation.WithLabelValues("failure")); got != 1 {
		t.Errorf("token validation failure count = %v, want 1", got)
	}
}

func TestCollector_RecordChallengeVerify(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordChallengeVerify("success", 150*time.Millisecond)
	c.RecordChallengeVerify("unavailable", 10*time.Second)

	if got := testutil.ToFloat64(c.challengeVerify.WithLabelValues("success")); got != 1 {
		t.Errorf("challenge success count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.challengeVerify.WithLabelValues("unavailable")); got != 1 {
		t.Errorf("challenge unavailable count = %v, want 1", got)
	}
}

func TestCollector_RecordHTTPStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(401)
	c.RecordHTTPStatus(401)

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("401")); got != 2 {
		t.Errorf("http 401 count = %v, want 2", got)
	}
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin(true)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	Handler(reg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "noteman_login_total") {
		t.Error("expected noteman_login_total in scrape output")
	}
}
