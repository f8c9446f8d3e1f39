// Package category はカテゴリ管理のドメインロジックを提供する。
package category

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

// Service はカテゴリ管理のサービス層。
// タスクと同じ所有者チェックの規律で全操作をガードする。
type Service struct {
	categoryRepo repository.CategoryRepository
	sanitizer    security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(categoryRepo repository.CategoryRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		sanitizer:    sanitizer,
	}
}

// Create は認証済みユーザーを所有者とする新規カテゴリを作成する。
func (s *Service) Create(ctx context.Context, userID, name string) (*model.Category, error) {
	now := time.Now()
	c := &model.Category{
		ID:        uuid.New().String(),
		Name:      s.sanitizer.Sanitize(name),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("category created",
		slog.String("category_id", c.ID),
		slog.String("user_id", userID),
	)

	return c, nil
}

// List は自分のカテゴリ一覧を返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Category, error) {
	categories, err := s.categoryRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateName は指定カテゴリの名前を変更する。
// 存在しない場合はNotFound、他人のカテゴリの場合はForbiddenを返す。
func (s *Service) UpdateName(ctx context.Context, userID, categoryID, name string) (*model.Category, error) {
	c, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if err := authz.CheckOwnership(c, userID, authz.KindCategory); err != nil {
		return nil, err
	}

	c.Name = s.sanitizer.Sanitize(name)
	c.UpdatedAt = time.Now()

	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return c, nil
}

// Delete は指定カテゴリを物理削除する。
func (s *Service) Delete(ctx context.Context, userID, categoryID string) error {
	c, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to find category: %w", err)
	}
	if err := authz.CheckOwnership(c, userID, authz.KindCategory); err != nil {
		return err
	}

	if err := s.categoryRepo.DeleteByID(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	slog.Info("category deleted",
		slog.String("category_id", categoryID),
		slog.String("user_id", userID),
	)

	return nil
}
