package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskbook/internal/model"
)

// PostgresCategoryRepo はPostgreSQLを使用したカテゴリリポジトリ。
type PostgresCategoryRepo struct {
	db *sql.DB
}

// NewPostgresCategoryRepo はPostgresCategoryRepoを生成する。
func NewPostgresCategoryRepo(db *sql.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: db}
}

// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
func (r *PostgresCategoryRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	category := &model.Category{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, user_id, created_at, updated_at
		 FROM categories WHERE id = $1`,
		id,
	).Scan(&category.ID, &category.Name, &category.UserID, &category.CreatedAt, &category.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// ListByUserID は指定ユーザーのカテゴリ一覧をcreated_at昇順で返す。
func (r *PostgresCategoryRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, user_id, created_at, updated_at
		 FROM categories WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		category := &model.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.UserID, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}

	return categories, nil
}

// Create はカテゴリを作成する。
func (r *PostgresCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		category.ID, category.Name, category.UserID, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

// Update はカテゴリを更新する。
func (r *PostgresCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, updated_at = $2 WHERE id = $3`,
		category.Name, category.UpdatedAt, category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("category not found: %s", category.ID)
	}
	return nil
}

// DeleteByID は指定IDのカテゴリを物理削除する。
func (r *PostgresCategoryRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("category not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ CategoryRepository = (*PostgresCategoryRepo)(nil)
