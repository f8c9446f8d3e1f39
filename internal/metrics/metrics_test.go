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

// インターフェースを実装していることのコンパイル時チェック
var _ MetricsCollector = (*Collector)(nil)

// HTTPリクエストのカウンターがラベル別に増加することを検証
func TestCollector_RecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodPost, "/login", 201)
	c.RecordHTTPRequest(http.MethodPost, "/login", 201)
	c.RecordHTTPRequest(http.MethodGet, "/tasks", 200)

	got := testutil.ToFloat64(c.httpRequests.WithLabelValues("POST", "/login", "201"))
	if got != 2 {
		t.Errorf("POST /login 201 count = %v, want 2", got)
	}
	got = testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/tasks", "200"))
	if got != 1 {
		t.Errorf("GET /tasks 200 count = %v, want 1", got)
	}
}

// ログイン成否のカウンターが独立して増加することを検証
func TestCollector_RecordLogin(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordLoginFailure()
	c.RecordLoginFailure()

	if got := testutil.ToFloat64(c.loginSuccess); got != 1 {
		t.Errorf("login success count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.loginFail); got != 2 {
		t.Errorf("login fail count = %v, want 2", got)
	}
}

// トークン発行が種別ラベルごとに記録されることを検証
func TestCollector_RecordTokenIssued(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTokenIssued(TokenTypeAccess)
	c.RecordTokenIssued(TokenTypeAccess)
	c.RecordTokenIssued(TokenTypeRefresh)

	if got := testutil.ToFloat64(c.tokensIssued.WithLabelValues(TokenTypeAccess)); got != 2 {
		t.Errorf("access tokens issued = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.tokensIssued.WithLabelValues(TokenTypeRefresh)); got != 1 {
		t.Errorf("refresh tokens issued = %v, want 1", got)
	}
}

// /metricsハンドラーが登録済みメトリクスを公開することを検証
func TestHandler_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPLatency(50 * time.Millisecond)
	c.RecordLoginSuccess()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	for _, name := range []string{
		"taskbook_http_latency_seconds",
		"taskbook_login_success_total",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("exposition output missing %q", name)
		}
	}
}
