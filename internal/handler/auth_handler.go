package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hitoshi/taskbook/internal/auth"
	"github.com/hitoshi/taskbook/internal/metrics"
	"github.com/hitoshi/taskbook/internal/middleware"
	"github.com/hitoshi/taskbook/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	IssueAccessToken(userID string) (string, error)
}

// AuthMetricsRecorder はログイン・トークン発行のメトリクス記録インターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type AuthMetricsRecorder interface {
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordTokenIssued(tokenType string)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain    string
	CookieSecure    bool
	RefreshTokenTTL time.Duration // リフレッシュトークンCookieの有効期間
}

// AuthHandler はログインとアクセストークン再発行のHTTPハンドラー。
type AuthHandler struct {
	service   AuthServiceInterface
	collector AuthMetricsRecorder
	config    AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, collector AuthMetricsRecorder, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:   service,
		collector: collector,
		config:    config,
	}
}

// --- リクエスト・レスポンス型 ---

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accessTokenResponse はアクセストークンを返すレスポンス。
// リフレッシュトークンはボディには含めず、Cookieのみで返す。
type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login は資格情報を検証し、トークンの組を発行する。
// リフレッシュトークンはHTTP Only Cookieに、アクセストークンはボディに載せる。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("メールアドレスとパスワードを入力してください。"))
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUnauthorized {
			h.collector.RecordLoginFailure()
		}
		handleServiceError(w, err)
		return
	}

	h.collector.RecordLoginSuccess()
	h.collector.RecordTokenIssued(metrics.TokenTypeAccess)
	h.collector.RecordTokenIssued(metrics.TokenTypeRefresh)

	h.setRefreshTokenCookie(w, result.RefreshToken)

	respondJSON(w, http.StatusCreated, accessTokenResponse{AccessToken: result.AccessToken})
}

// RestoreAccessToken は検証済みリフレッシュトークンの主体に
// 新しいアクセストークンを発行する。リフレッシュガードの配下に置くこと。
// POST /restoreAccessToken
func (h *AuthHandler) RestoreAccessToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	token, err := h.service.IssueAccessToken(userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordTokenIssued(metrics.TokenTypeAccess)

	respondJSON(w, http.StatusCreated, accessTokenResponse{AccessToken: token})
}

// setRefreshTokenCookie はリフレッシュトークンをHTTP Only Cookieとして設定する。
// クロスオリジンのフロントエンドから送信できるようSameSite=Noneとし、
// その場合に必須となるSecure属性は設定に従う。
func (h *AuthHandler) setRefreshTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.RefreshTokenCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   int(h.config.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
}
