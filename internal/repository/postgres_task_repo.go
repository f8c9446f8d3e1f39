package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/taskbook/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	task := &model.Task{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, content, state, user_id, created_at, updated_at
		 FROM tasks WHERE id = $1`,
		id,
	).Scan(&task.ID, &task.Title, &task.Content, &task.State, &task.UserID, &task.CreatedAt, &task.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}

	return task, nil
}

// ListByUserAndCreatedRange は指定ユーザーのタスクのうち、
// created_atが[start, end]（両端含む）に入るものをcreated_at昇順で返す。
// user_idでの絞り込みを必ず行うため、他ユーザーのタスクが混入することはない。
func (r *PostgresTaskRepo) ListByUserAndCreatedRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, content, state, user_id, created_at, updated_at
		 FROM tasks
		 WHERE user_id = $1 AND created_at BETWEEN $2 AND $3
		 ORDER BY created_at`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by range: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task := &model.Task{}
		if err := rows.Scan(&task.ID, &task.Title, &task.Content, &task.State, &task.UserID, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}

	return tasks, nil
}

// Create はタスクを作成する。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, content, state, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		task.ID, task.Title, task.Content, task.State, task.UserID, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

// Update はタスクを更新する。user_idは作成後不変のため更新対象に含めない。
func (r *PostgresTaskRepo) Update(ctx context.Context, task *model.Task) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = $1, content = $2, state = $3, updated_at = $4 WHERE id = $5`,
		task.Title, task.Content, task.State, task.UpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task not found: %s", task.ID)
	}
	return nil
}

// DeleteByID は指定IDのタスクを物理削除する。
func (r *PostgresTaskRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
