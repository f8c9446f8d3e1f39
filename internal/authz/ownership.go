// Package authz はリソースの所有者チェックを提供する。
package authz

import "github.com/hitoshi/taskbook/internal/model"

// Owned は所有者を持つリソースが実装するインターフェース。
type Owned interface {
	OwnerUserID() string
}

// Kind はリソース種別ごとのエラーメッセージを保持する。
type Kind struct {
	notFoundMessage  string
	forbiddenMessage string
}

var (
	// KindTask はタスクリソース。
	KindTask = Kind{
		notFoundMessage:  "タスクが見つかりません。",
		forbiddenMessage: "このタスクを操作する権限がありません。",
	}
	// KindCategory はカテゴリリソース。
	KindCategory = Kind{
		notFoundMessage:  "カテゴリが見つかりません。",
		forbiddenMessage: "このカテゴリを操作する権限がありません。",
	}
)

// CheckOwnership はリソースの存在と所有者を検証する。
// リソースが存在しない場合はNotFoundを返し、存在するが所有者が
// principalIDと一致しない場合はForbiddenを返す。この順序は固定で、
// 他人のリソースIDを指定しても存在の有無だけが先に判明する。
func CheckOwnership[T any, PT interface {
	*T
	Owned
}](resource PT, principalID string, kind Kind) error {
	if resource == nil {
		return model.NewNotFoundError(kind.notFoundMessage)
	}
	if resource.OwnerUserID() != principalID {
		return model.NewOwnershipForbiddenError(kind.forbiddenMessage)
	}
	return nil
}
