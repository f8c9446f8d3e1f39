// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPRequest(method, path string, statusCode int)
	RecordHTTPLatency(duration time.Duration)
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordTokenIssued(tokenType string)
}

// トークン種別のラベル値
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var _ MetricsCollector = (*Collector)(nil)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  prometheus.Histogram
	loginSuccess prometheus.Counter
	loginFail    prometheus.Counter
	tokensIssued *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskbook_http_requests_total",
			Help: "メソッド・パス・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "path", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskbook_http_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskbook_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskbook_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskbook_tokens_issued_total",
			Help: "種別ごとに発行されたトークンの合計数",
		}, []string{"token_type"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.loginSuccess,
		c.loginFail,
		c.tokensIssued,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの完了を記録する。
func (c *Collector) RecordHTTPRequest(method, path string, statusCode int) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPLatency はHTTPリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordHTTPLatency(duration time.Duration) {
	c.httpLatency.Observe(duration.Seconds())
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordTokenIssued はトークンの発行を種別（access/refresh）ごとに記録する。
func (c *Collector) RecordTokenIssued(tokenType string) {
	c.tokensIssued.WithLabelValues(tokenType).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
