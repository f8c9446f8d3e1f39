package handler

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/hitoshi/taskbook/internal/middleware"
	"github.com/hitoshi/taskbook/internal/model"
)

// passwordMinLength は登録時に要求するパスワードの最小文字数。
const passwordMinLength = 8

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	SignUp(ctx context.Context, email, password, name string) (*model.User, error)
	Fetch(ctx context.Context, userID string) (*model.User, error)
	ListActive(ctx context.Context) ([]*model.User, error)
	UpdateName(ctx context.Context, userID, name string) (*model.User, error)
	Withdraw(ctx context.Context, userID string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// signUpRequest はユーザー登録リクエストのボディ。
type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// updateUserRequest はユーザー更新リクエストのボディ。
type updateUserRequest struct {
	Name string `json:"name"`
}

// userResponse はユーザー情報のレスポンス。パスワードハッシュは含めない。
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// publicUserResponse は公開ユーザー一覧用のレスポンス。名前とメールアドレスのみ。
type publicUserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// SignUp は新規ユーザーを登録する。
// POST /users
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if !emailPattern.MatchString(req.Email) {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("メールアドレスの形式が正しくありません。"))
		return
	}
	if len(req.Password) < passwordMinLength {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("パスワードは8文字以上で入力してください。"))
		return
	}
	if req.Name == "" {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("名前を入力してください。"))
		return
	}

	u, err := h.service.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newUserResponse(u))
}

// Me は認証済みユーザー自身の情報を返す。
// GET /users
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	u, err := h.service.Fetch(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newUserResponse(u))
}

// List は退会していない全ユーザーの名前とメールアドレスを返す。
// GET /users/list
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListActive(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]publicUserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, publicUserResponse{Name: u.Name, Email: u.Email})
	}

	respondJSON(w, http.StatusOK, res)
}

// Update は認証済みユーザー自身の名前を変更する。
// PATCH /users
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("名前を入力してください。"))
		return
	}

	u, err := h.service.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newUserResponse(u))
}

// Withdraw は認証済みユーザー自身を退会させる。
// DELETE /users
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	if err := h.service.Withdraw(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "退会が完了しました。"})
}
