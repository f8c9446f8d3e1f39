package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskbook/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
type ErrorResponseBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteAPIError は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// *model.APIErrorの場合はそのステータスとメッセージをそのまま返し、
// それ以外のエラーは詳細をログに記録した上で一般的な500レスポンスを返す。
func WriteAPIError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		slog.Error("unexpected error", slog.String("error", err.Error()))
		apiErr = model.NewInternalError()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:    apiErr.Code,
		Message: apiErr.Message,
	})
}
