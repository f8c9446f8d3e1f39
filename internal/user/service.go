// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskbook/internal/auth"
	"github.com/hitoshi/taskbook/internal/model"
	"github.com/hitoshi/taskbook/internal/repository"
)

// Service はユーザー管理のサービス層。
// 登録・取得・更新・退会のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   *auth.PasswordHasher
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, hasher *auth.PasswordHasher) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// SignUp は新規ユーザーを登録する。
// メールアドレスが使用済みの場合はConflictを返す。
// 事前チェックとINSERTの間に同じメールアドレスで登録される競合は
// 一意制約違反として検出し、同じConflictにマップする。
func (s *Service) SignUp(ctx context.Context, email, password, name string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailConflictError()
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: digest,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailConflictError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", slog.String("user_id", u.ID))

	return u, nil
}

// Fetch は自分自身のユーザー情報を取得する。
// ソフトデリート済み・存在しないIDにはNotFoundを返す。
func (s *Service) Fetch(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if u == nil {
		return nil, model.NewNotFoundError("ユーザーが見つかりません。")
	}
	return u, nil
}

// ListActive は退会していない全ユーザーを返す。
// 公開エンドポイント用で、呼び出し側は名前とメールアドレスのみを返却する。
func (s *Service) ListActive(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateName は自分自身の名前を変更する。
func (s *Service) UpdateName(ctx context.Context, userID, name string) (*model.User, error) {
	u, err := s.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.Name = name
	u.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 物理削除ではなくdeleted_atを設定するソフトデリートで、
// 以後このユーザーはログイン・検索の対象外になる。
// タスクとカテゴリは残るが、本人以外からは到達できない。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if u == nil {
		return model.NewNotFoundError("ユーザーが見つかりません。")
	}

	if err := s.userRepo.SoftDeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("failed to withdraw user: %w", err)
	}

	slog.Info("user withdrawn", slog.String("user_id", userID))

	return nil
}
