// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/taskbook/internal/middleware"
	"github.com/hitoshi/taskbook/internal/model"
)

// messageResponse は成功メッセージのみを返すレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// respondJSON は指定ステータスでJSONレスポンスを書き込む。
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// handleServiceError はサービス層のエラーを統一フォーマットで書き込む。
func handleServiceError(w http.ResponseWriter, err error) {
	middleware.WriteAPIError(w, err)
}

// principalFromContext は認証ガードが注入したユーザーIDを取り出す。
// ガード配下のルートで取り出せない場合はルーティング構成の不備であり、
// 呼び出し側は500を返す。
func principalFromContext(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewInternalError())
		return "", false
	}
	return userID, true
}

// decodeBody はリクエストボディをJSONとして解析する。
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("リクエストボディの解析に失敗しました。"))
		return false
	}
	return true
}
