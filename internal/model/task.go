package model

import "time"

// Task はユーザーが作成するタスク（TODO）を表す。
// UserIDは作成時に確定し、以後変更されない。
type Task struct {
	ID        string
	Title     string
	Content   string
	State     bool // 完了フラグ。デフォルトはfalse（未完了）。
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerUserID は所有者のユーザーIDを返す。
func (t *Task) OwnerUserID() string {
	return t.UserID
}
