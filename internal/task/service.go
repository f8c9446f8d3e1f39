// Package task はタスク管理のドメインロジックを提供する。
package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskbook/internal/authz"
	"github.com/hitoshi/taskbook/internal/model"
	"github.com/hitoshi/taskbook/internal/repository"
	"github.com/hitoshi/taskbook/internal/security"
)

// UpdateParams はタスク更新の差分。nilのフィールドは変更しない。
type UpdateParams struct {
	Title   *string
	Content *string
	State   *bool
}

// Service はタスク管理のサービス層。
// 全ての単一リソース操作で所有者チェックを実施する。
type Service struct {
	taskRepo  repository.TaskRepository
	sanitizer security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(taskRepo repository.TaskRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		taskRepo:  taskRepo,
		sanitizer: sanitizer,
	}
}

// Create は認証済みユーザーを所有者とする新規タスクを作成する。
// タイトルと内容は保存前にサニタイズされる。完了フラグは必ずfalseで始まる。
func (s *Service) Create(ctx context.Context, userID, title, content string) (*model.Task, error) {
	now := time.Now()
	t := &model.Task{
		ID:        uuid.New().String(),
		Title:     s.sanitizer.Sanitize(title),
		Content:   s.sanitizer.Sanitize(content),
		State:     false,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.taskRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	slog.Info("task created",
		slog.String("task_id", t.ID),
		slog.String("user_id", userID),
	)

	return t, nil
}

// GetByID は指定タスクを取得する。
// 存在しない場合はNotFound、他人のタスクの場合はForbiddenを返す。
func (s *Service) GetByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if err := authz.CheckOwnership(t, userID, authz.KindTask); err != nil {
		return nil, err
	}
	return t, nil
}

// ListByDay は指定日に作成された自分のタスクを作成日時順で返す。
func (s *Service) ListByDay(ctx context.Context, userID string, date time.Time) ([]*model.Task, error) {
	start, end := DayRange(date)
	return s.listByRange(ctx, userID, start, end)
}

// ListByWeek は指定日を含む週（日曜始まり）に作成された自分のタスクを返す。
func (s *Service) ListByWeek(ctx context.Context, userID string, date time.Time) ([]*model.Task, error) {
	start, end := WeekRange(date)
	return s.listByRange(ctx, userID, start, end)
}

// ListByMonth は指定日を含む月に作成された自分のタスクを返す。
func (s *Service) ListByMonth(ctx context.Context, userID string, date time.Time) ([]*model.Task, error) {
	start, end := MonthRange(date)
	return s.listByRange(ctx, userID, start, end)
}

func (s *Service) listByRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Task, error) {
	tasks, err := s.taskRepo.ListByUserAndCreatedRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update は指定タスクの差分更新を行う。
// 所有者チェックの後、nilでないフィールドのみをマージして保存する。
// 所有者（user_id）は変更できない。
func (s *Service) Update(ctx context.Context, userID, taskID string, params UpdateParams) (*model.Task, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if err := authz.CheckOwnership(t, userID, authz.KindTask); err != nil {
		return nil, err
	}

	if params.Title != nil {
		t.Title = s.sanitizer.Sanitize(*params.Title)
	}
	if params.Content != nil {
		t.Content = s.sanitizer.Sanitize(*params.Content)
	}
	if params.State != nil {
		t.State = *params.State
	}
	t.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return t, nil
}

// Delete は指定タスクを物理削除する。
// 所有者チェックはUpdate同様、削除前に必ず実施される。
func (s *Service) Delete(ctx context.Context, userID, taskID string) error {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}
	if err := authz.CheckOwnership(t, userID, authz.KindTask); err != nil {
		return err
	}

	if err := s.taskRepo.DeleteByID(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	slog.Info("task deleted",
		slog.String("task_id", taskID),
		slog.String("user_id", userID),
	)

	return nil
}
