package middleware

import (
	"net/http"
	"strings"

	"github.com/hitoshi/taskbook/internal/model"
)

// RefreshTokenCookieName はリフレッシュトークンを保持するCookieの名前。
const RefreshTokenCookieName = "refreshToken"

// TokenValidator はトークン文字列を検証し、subjectのユーザーIDを返す。
// auth.Serviceの部分集合として定義する。
type TokenValidator func(tokenString string) (string, error)

// NewAccessGuard はAuthorizationヘッダーのBearerトークンを検証するミドルウェアを返す。
// 検証に成功したユーザーIDをリクエストコンテキストに注入する。
// ヘッダー自体が存在しない場合は403、トークンが無効・期限切れの場合は401を返す。
func NewAccessGuard(validate TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				WriteAPIError(w, model.NewCredentialMissingError("アクセストークンがありません。"))
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				WriteAPIError(w, model.NewInvalidTokenError())
				return
			}

			userID, err := validate(token)
			if err != nil {
				WriteAPIError(w, err)
				return
			}

			ctx := ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRefreshGuard はHTTP Only Cookieのリフレッシュトークンを検証するミドルウェアを返す。
// アクセストークン再発行エンドポイント専用。
// Cookieが存在しない場合は403、トークンが無効・期限切れの場合は401を返す。
func NewRefreshGuard(validate TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(RefreshTokenCookieName)
			if err != nil || cookie.Value == "" {
				WriteAPIError(w, model.NewCredentialMissingError("リフレッシュトークンがありません。"))
				return
			}

			userID, err := validate(cookie.Value)
			if err != nil {
				WriteAPIError(w, err)
				return
			}

			ctx := ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
