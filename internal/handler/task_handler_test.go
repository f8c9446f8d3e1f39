package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskbook/internal/model"
	"github.com/hitoshi/taskbook/internal/task"
)

// --- モック ---

type mockTaskService struct {
	createFn   func(ctx context.Context, userID, title, content string) (*model.Task, error)
	getByIDFn  func(ctx context.Context, userID, taskID string) (*model.Task, error)
	listFn     func(ctx context.Context, userID string, date time.Time) ([]*model.Task, error)
	updateFn   func(ctx context.Context, userID, taskID string, params task.UpdateParams) (*model.Task, error)
	deleteFn   func(ctx context.Context, userID, taskID string) error
	lastPeriod string
}

func (m *mockTaskService) Create(ctx context.Context, userID, title, content string) (*model.Task, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, title, content)
	}
	return nil, nil
}
func (m *mockTaskService) GetByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, userID, taskID)
	}
	return nil, nil
}
func (m *mockTaskService) ListByDay(ctx context.Context, userID string, date time.Time) ([]*model.Task, error) {
	m.lastPeriod = "day"
	if m.listFn != nil {
		return m.listFn(ctx, userID, date)
	}
	return nil, nil
}
func (m *mockTaskService) ListByWeek(ctx context.Context, userID string, date time.Time) ([]*model.Task, error) {
	m.lastPeriod = "week"
	if m.listFn != nil {
		return m.listFn(ctx, userID, date)
	}
	return nil, nil
}
func (m *mockTaskService) ListByMonth(ctx context.Context, userID string, date time.Time) ([]*model.Task, error) {
	m.lastPeriod = "month"
	if m.listFn != nil {
		return m.listFn(ctx, userID, date)
	}
	return nil, nil
}
func (m *mockTaskService) Update(ctx context.Context, userID, taskID string, params task.UpdateParams) (*model.Task, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, taskID, params)
	}
	return nil, nil
}
func (m *mockTaskService) Delete(ctx context.Context, userID, taskID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, taskID)
	}
	return nil
}

var _ TaskServiceInterface = (*mockTaskService)(nil)

// newTaskRouter はURLパラメータを解決するため、chiルーター越しにハンドラを組み立てる。
func newTaskRouter(h *TaskHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/tasks", h.Create)
	r.Get("/tasks/list/day", h.ListByDay)
	r.Get("/tasks/list/week", h.ListByWeek)
	r.Get("/tasks/list/month", h.ListByMonth)
	r.Get("/tasks/{taskID}", h.Get)
	r.Patch("/tasks/{taskID}", h.Update)
	r.Delete("/tasks/{taskID}", h.Delete)
	return r
}

// --- テスト ---

// 作成成功で201が返ることを検証
func TestTaskHandler_Create(t *testing.T) {
	svc := &mockTaskService{
		createFn: func(ctx context.Context, userID, title, content string) (*model.Task, error) {
			return &model.Task{ID: "task-1", Title: title, Content: content, UserID: userID}, nil
		},
	}
	router := newTaskRouter(NewTaskHandler(svc))

	req := authedRequest(http.MethodPost, "/tasks", `{"title":"買い物","content":"牛乳"}`, "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var body taskResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.ID != "task-1" || body.Title != "買い物" {
		t.Errorf("unexpected body: %+v", body)
	}
}

// タイトル必須のバリデーションを検証
func TestTaskHandler_Create_MissingTitle(t *testing.T) {
	router := newTaskRouter(NewTaskHandler(&mockTaskService{}))

	req := authedRequest(http.MethodPost, "/tasks", `{"content":"内容だけ"}`, "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// 他人のタスク取得で403が返ることを検証
func TestTaskHandler_Get_Forbidden(t *testing.T) {
	svc := &mockTaskService{
		getByIDFn: func(ctx context.Context, userID, taskID string) (*model.Task, error) {
			return nil, model.NewOwnershipForbiddenError("このタスクを操作する権限がありません。")
		},
	}
	router := newTaskRouter(NewTaskHandler(svc))

	req := authedRequest(http.MethodGet, "/tasks/task-1", "", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

// 期間照会でdateクエリが解析され、対応するサービスメソッドが呼ばれることを検証
func TestTaskHandler_ListByPeriod(t *testing.T) {
	var lastDate time.Time
	svc := &mockTaskService{
		listFn: func(ctx context.Context, userID string, date time.Time) ([]*model.Task, error) {
			lastDate = date
			return []*model.Task{}, nil
		},
	}
	router := newTaskRouter(NewTaskHandler(svc))

	for _, period := range []string{"day", "week", "month"} {
		req := authedRequest(http.MethodGet, "/tasks/list/"+period+"?date=2022-09-15", "", "user-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want %d", period, rec.Code, http.StatusOK)
		}
		if svc.lastPeriod != period {
			t.Errorf("called %q service method, want %q", svc.lastPeriod, period)
		}
		want := time.Date(2022, 9, 15, 0, 0, 0, 0, time.UTC)
		if !lastDate.Equal(want) {
			t.Errorf("%s: date = %v, want %v", period, lastDate, want)
		}
	}
}

// 不正なdateクエリで400が返ることを検証
func TestTaskHandler_ListByPeriod_BadDate(t *testing.T) {
	router := newTaskRouter(NewTaskHandler(&mockTaskService{}))

	req := authedRequest(http.MethodGet, "/tasks/list/day?date=2022/09/15", "", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// 更新で指定フィールドだけがサービスに渡ることを検証
func TestTaskHandler_Update(t *testing.T) {
	var gotParams task.UpdateParams
	svc := &mockTaskService{
		updateFn: func(ctx context.Context, userID, taskID string, params task.UpdateParams) (*model.Task, error) {
			gotParams = params
			return &model.Task{ID: taskID, State: true, UserID: userID}, nil
		},
	}
	router := newTaskRouter(NewTaskHandler(svc))

	req := authedRequest(http.MethodPatch, "/tasks/task-1", `{"state":true}`, "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotParams.State == nil || !*gotParams.State {
		t.Error("State should be passed as true")
	}
	if gotParams.Title != nil || gotParams.Content != nil {
		t.Error("unspecified fields should be nil")
	}
}

// 空の更新リクエストで400が返ることを検証
func TestTaskHandler_Update_Empty(t *testing.T) {
	router := newTaskRouter(NewTaskHandler(&mockTaskService{}))

	req := authedRequest(http.MethodPatch, "/tasks/task-1", `{}`, "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// 削除で成功メッセージが返ることを検証
func TestTaskHandler_Delete(t *testing.T) {
	var deletedID string
	svc := &mockTaskService{
		deleteFn: func(ctx context.Context, userID, taskID string) error {
			deletedID = taskID
			return nil
		},
	}
	router := newTaskRouter(NewTaskHandler(svc))

	req := authedRequest(http.MethodDelete, "/tasks/task-1", "", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if deletedID != "task-1" {
		t.Errorf("deleted ID = %q, want %q", deletedID, "task-1")
	}
}
