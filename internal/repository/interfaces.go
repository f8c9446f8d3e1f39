// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hitoshi/taskbook/internal/model"
)

// ErrDuplicateEmail はメールアドレスのunique制約違反を表す。
// サービス層でConflictエラーにマッピングする。
var ErrDuplicateEmail = errors.New("duplicate email")

// UserRepository はユーザーデータの永続化インターフェース。
// 検索系メソッドはソフトデリート済みの行をデフォルトで除外する。
type UserRepository interface {
	// FindByID は指定IDの有効なユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスの有効なユーザーを取得する。
	// 見つからない場合はnilを返す。ログイン時の資格情報検証に使用する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// ListActive は有効な全ユーザーを返す。
	ListActive(ctx context.Context) ([]*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが重複している場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// Update はユーザー情報を更新する。
	Update(ctx context.Context, user *model.User) error

	// SoftDeleteByID は指定IDのユーザーをソフトデリートする。
	// レコードは残したままdeleted_atを設定し、以後の検索から除外する。
	SoftDeleteByID(ctx context.Context, id string) error
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// ListByUserAndCreatedRange は指定ユーザーのタスクのうち、
	// created_atが[start, end]（両端含む）に入るものをcreated_at昇順で返す。
	ListByUserAndCreatedRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Task, error)

	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// Update はタスクを更新する。
	Update(ctx context.Context, task *model.Task) error

	// DeleteByID は指定IDのタスクを物理削除する。
	DeleteByID(ctx context.Context, id string) error
}

// CategoryRepository はカテゴリデータの永続化インターフェース。
type CategoryRepository interface {
	// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Category, error)

	// ListByUserID は指定ユーザーのカテゴリ一覧を返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Category, error)

	// Create はカテゴリを作成する。
	Create(ctx context.Context, category *model.Category) error

	// Update はカテゴリを更新する。
	Update(ctx context.Context, category *model.Category) error

	// DeleteByID は指定IDのカテゴリを物理削除する。
	DeleteByID(ctx context.Context, id string) error
}
