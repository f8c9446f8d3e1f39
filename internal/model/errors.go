package model

import "net/http"

// APIError は統一エラーフォーマットを表す。
// クライアントに返すステータスコードと短いメッセージを保持する。
// 内部エラーの詳細はログのみに記録し、APIErrorには含めない。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
	Status  int    // HTTPステータスコード
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return "[" + e.Code + "] " + e.Message
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeTokenExpired   = "TOKEN_EXPIRED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// NewLoginFailedError はログイン失敗エラーを生成する。
// メールアドレス不明とパスワード不一致で同一のメッセージを返し、
// ユーザー列挙を防止する。
func NewLoginFailedError() *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: "メールアドレスまたはパスワードが一致しません。",
		Status:  http.StatusUnauthorized,
	}
}

// NewInvalidTokenError は署名不正・形式不正なトークンのエラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: "トークンが無効です。",
		Status:  http.StatusUnauthorized,
	}
}

// NewTokenExpiredError は有効期限切れトークンのエラーを生成する。
func NewTokenExpiredError() *APIError {
	return &APIError{
		Code:    ErrCodeTokenExpired,
		Message: "トークンの有効期限が切れています。",
		Status:  http.StatusUnauthorized,
	}
}

// NewCredentialMissingError は認証情報がリクエストに存在しない場合のエラーを生成する。
// 認証失敗（401）ではなくリクエスト不備として403を返す。
func NewCredentialMissingError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewOwnershipForbiddenError は所有者以外によるリソース操作のエラーを生成する。
func NewOwnershipForbiddenError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewNotFoundError はリソース未検出エラーを生成する。
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewEmailConflictError はメールアドレス重複エラーを生成する。
func NewEmailConflictError() *APIError {
	return &APIError{
		Code:    ErrCodeConflict,
		Message: "すでに使用されているメールアドレスです。",
		Status:  http.StatusConflict,
	}
}

// NewInvalidRequestError はリクエスト不正エラーを生成する。
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError は内部エラーの統一レスポンス用エラーを生成する。
// 発生原因の詳細は呼び出し側でログに記録すること。
func NewInternalError() *APIError {
	return &APIError{
		Code:    ErrCodeInternal,
		Message: "内部エラーが発生しました。",
		Status:  http.StatusInternalServerError,
	}
}
