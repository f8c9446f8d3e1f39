package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskbook/internal/middleware"
	"github.com/hitoshi/taskbook/internal/model"
	"github.com/hitoshi/taskbook/internal/task"
)

// dateQueryLayout は期間照会のdateクエリパラメータの形式。
const dateQueryLayout = "2006-01-02"

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	Create(ctx context.Context, userID, title, content string) (*model.Task, error)
	GetByID(ctx context.Context, userID, taskID string) (*model.Task, error)
	ListByDay(ctx context.Context, userID string, date time.Time) ([]*model.Task, error)
	ListByWeek(ctx context.Context, userID string, date time.Time) ([]*model.Task, error)
	ListByMonth(ctx context.Context, userID string, date time.Time) ([]*model.Task, error)
	Update(ctx context.Context, userID, taskID string, params task.UpdateParams) (*model.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}

// TaskHandler はタスク管理のHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// createTaskRequest はタスク作成リクエストのボディ。
type createTaskRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// updateTaskRequest はタスク更新リクエストのボディ。nilのフィールドは変更しない。
type updateTaskRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	State   *bool   `json:"state,omitempty"`
}

// taskResponse はタスクのレスポンス。
type taskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	State     bool      `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Content:   t.Content,
		State:     t.State,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func newTaskListResponse(tasks []*model.Task) []taskResponse {
	res := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, newTaskResponse(t))
	}
	return res
}

// Create は新規タスクを作成する。
// POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("タイトルを入力してください。"))
		return
	}

	t, err := h.service.Create(r.Context(), userID, req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newTaskResponse(t))
}

// Get は指定タスクを取得する。
// GET /tasks/{taskID}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	taskID := chi.URLParam(r, "taskID")

	t, err := h.service.GetByID(r.Context(), userID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newTaskResponse(t))
}

// ListByDay は指定日のタスク一覧を取得する。
// GET /tasks/list/day?date=YYYY-MM-DD
func (h *TaskHandler) ListByDay(w http.ResponseWriter, r *http.Request) {
	h.listByPeriod(w, r, h.service.ListByDay)
}

// ListByWeek は指定日を含む週のタスク一覧を取得する。
// GET /tasks/list/week?date=YYYY-MM-DD
func (h *TaskHandler) ListByWeek(w http.ResponseWriter, r *http.Request) {
	h.listByPeriod(w, r, h.service.ListByWeek)
}

// ListByMonth は指定日を含む月のタスク一覧を取得する。
// GET /tasks/list/month?date=YYYY-MM-DD
func (h *TaskHandler) ListByMonth(w http.ResponseWriter, r *http.Request) {
	h.listByPeriod(w, r, h.service.ListByMonth)
}

// listByPeriod はdateクエリパラメータを解析して期間照会を実行する。
// dateが省略された場合は当日を基準にする。
func (h *TaskHandler) listByPeriod(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, userID string, date time.Time) ([]*model.Task, error),
) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateQueryLayout, raw)
		if err != nil {
			middleware.WriteAPIError(w, model.NewInvalidRequestError("dateはYYYY-MM-DD形式で指定してください。"))
			return
		}
		date = parsed
	}

	tasks, err := list(r.Context(), userID, date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newTaskListResponse(tasks))
}

// Update は指定タスクを差分更新する。
// PATCH /tasks/{taskID}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	taskID := chi.URLParam(r, "taskID")

	var req updateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == nil && req.Content == nil && req.State == nil {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("更新するフィールドを指定してください。"))
		return
	}
	if req.Title != nil && *req.Title == "" {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("タイトルを入力してください。"))
		return
	}

	t, err := h.service.Update(r.Context(), userID, taskID, task.UpdateParams{
		Title:   req.Title,
		Content: req.Content,
		State:   req.State,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newTaskResponse(t))
}

// Delete は指定タスクを削除する。
// DELETE /tasks/{taskID}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalFromContext(w, r)
	if !ok {
		return
	}

	taskID := chi.URLParam(r, "taskID")

	if err := h.service.Delete(r.Context(), userID, taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "タスクを削除しました。"})
}
