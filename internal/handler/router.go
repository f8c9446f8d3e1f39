package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/taskbook/internal/metrics"
	"github.com/hitoshi/taskbook/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	AccessValidator   middleware.TokenValidator
	RefreshValidator  middleware.TokenValidator
	Logger            *slog.Logger

	// メトリクス
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer

	// ヘルスチェック（DB疎通確認）
	HealthCheck func(ctx context.Context) error

	// サービス
	AuthService     AuthServiceInterface
	AuthConfig      AuthHandlerConfig
	UserService     UserServiceInterface
	TaskService     TaskServiceInterface
	CategoryService CategoryServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → (ルートごとの認証ガード・レート制限)
//
// 公開ルート（/login, POST /users, /users/list, /health, /metrics）は
// 認証ガードの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Collector))

	authHandler := NewAuthHandler(deps.AuthService, deps.Collector, deps.AuthConfig)
	userHandler := NewUserHandler(deps.UserService)
	taskHandler := NewTaskHandler(deps.TaskService)
	categoryHandler := NewCategoryHandler(deps.CategoryService)

	// --- 認証不要のルート ---

	// ログインは総当たり対策の専用レート制限つき
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Post("/users", userHandler.SignUp)
		r.Get("/users/list", userHandler.List)
	})

	// 運用エンドポイント
	r.Get("/health", newHealthHandler(deps.HealthCheck))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// --- リフレッシュトークンが必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRefreshGuard(deps.RefreshValidator))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Post("/restoreAccessToken", authHandler.RestoreAccessToken)
	})

	// --- アクセストークンが必要なルート ---
	// ミドルウェアスタック: AccessGuard → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAccessGuard(deps.AccessValidator))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ユーザー管理（自分自身のみ）
		r.Get("/users", userHandler.Me)
		r.Patch("/users", userHandler.Update)
		r.Delete("/users", userHandler.Withdraw)

		// タスク管理
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.Create)

			r.Route("/list", func(r chi.Router) {
				r.Get("/day", taskHandler.ListByDay)
				r.Get("/week", taskHandler.ListByWeek)
				r.Get("/month", taskHandler.ListByMonth)
			})

			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Patch("/", taskHandler.Update)
				r.Delete("/", taskHandler.Delete)
			})
		})

		// カテゴリ管理
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", categoryHandler.Create)
			r.Get("/", categoryHandler.List)

			r.Route("/{categoryID}", func(r chi.Router) {
				r.Patch("/", categoryHandler.Update)
				r.Delete("/", categoryHandler.Delete)
			})
		})
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "ng"})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
