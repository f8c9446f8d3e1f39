package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HTTPMetricsRecorder はHTTPリクエストのメトリクス記録に必要なインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type HTTPMetricsRecorder interface {
	RecordHTTPRequest(method, path string, statusCode int)
	RecordHTTPLatency(duration time.Duration)
}

// NewMetricsMiddleware はリクエスト完了時にメトリクスを記録するミドルウェアを返す。
// パスラベルにはルーティング確定後のchiのルートパターン（/tasks/{taskID}等）を
// 使用し、IDごとにラベルが増えないようにする。
func NewMetricsMiddleware(recorder HTTPMetricsRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			recorder.RecordHTTPRequest(r.Method, path, rec.statusCode)
			recorder.RecordHTTPLatency(time.Since(start))
		})
	}
}
