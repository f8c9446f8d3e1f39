// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはAPIレスポンスに含めてはならない。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // ソフトデリート用。nilの場合は有効なユーザー。
}
