package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost はパスワードハッシュのコストパラメータ。
const bcryptCost = 10

// PasswordHasher はbcryptによるパスワードのハッシュ化と検証を提供する。
// ソルトはハッシュ結果に埋め込まれるため、別途保存する必要はない。
type PasswordHasher struct{}

// NewPasswordHasher はPasswordHasherを生成する。
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{}
}

// Hash は平文パスワードをハッシュ化する。
// 呼び出しごとにランダムなソルトが使用されるため、同一パスワードでも結果は毎回異なる。
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify は平文パスワードがハッシュと一致するか検証する。
// 不一致の場合は(false, nil)を返す。
// ハッシュ形式の破損などbcrypt内部のエラーは不一致として扱わず、エラーとして返す。
func (h *PasswordHasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("failed to verify password: %w", err)
}
