package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskbook/internal/middleware"
	"github.com/hitoshi/taskbook/internal/model"
)

// CategoryServiceInterface はカテゴリハンドラーが必要とするサービスインターフェース。
type CategoryServiceInterface interface {
	Create(ctx context.Context, userID, name string) (*model.Category, error)
	List(ctx context.Context, userID string) ([]*model.Category, error)
	UpdateName(ctx context.Context, userID, categoryID, name string) (*model.Category, error)
	Delete(ctx context.Context, userID, categoryID string) error
}

// CategoryHandler はカテゴリ管理のHTTPハンドラー。
type CategoryHandler struct {
	service CategoryServiceInterface
}

// NewCategoryHandler はCategoryHandlerを生成する。
func NewCategoryHandler(service CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// categoryRequest はカテゴリの作成・更新リクエストのボディ。
type categoryRequest struct {
	Name string `json:"name"`
}

// categoryResponse はカテゴリのレスポンス。
type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCategoryResponse(c *model.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Create は新規カテゴリを作成する。
// POST /categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("カテゴリ名を入力してください。"))
		return
	}

	c, err := h.service.Create(r.Context(), userID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newCategoryResponse(c))
}

// List は自分のカテゴリ一覧を取得する。
// GET /categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	categories, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, newCategoryResponse(c))
	}

	respondJSON(w, http.StatusOK, res)
}

// Update は指定カテゴリの名前を変更する。
// PATCH /categories/{categoryID}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	categoryID := chi.URLParam(r, "categoryID")

	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("カテゴリ名を入力してください。"))
		return
	}

	c, err := h.service.UpdateName(r.Context(), userID, categoryID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newCategoryResponse(c))
}

// Delete は指定カテゴリを削除する。
// DELETE /categories/{categoryID}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	categoryID := chi.URLParam(r, "categoryID")

	if err := h.service.Delete(r.Context(), userID, categoryID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "カテゴリを削除しました。"})
}
