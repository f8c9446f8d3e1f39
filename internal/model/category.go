package model

import "time"

// Category はタスクを分類するカテゴリを表す。
// TaskとおなじくUserIDによる所有権チェックの対象。
type Category struct {
	ID        string
	Name      string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerUserID は所有者のユーザーIDを返す。
func (c *Category) OwnerUserID() string {
	return c.UserID
}
