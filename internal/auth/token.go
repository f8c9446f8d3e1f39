package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/hitoshi/taskbook/internal/model"
)

// TokenService は署名付きトークン（JWT）の発行と検証を提供する。
// アクセストークンとリフレッシュトークンは秘密鍵と有効期間のみが異なり、
// 発行・検証のロジックは共通。
type TokenService struct{}

// NewTokenService はTokenServiceを生成する。
func NewTokenService() *TokenService {
	return &TokenService{}
}

// Issue は指定ユーザーIDをsubjectとするHS256署名付きJWTを発行する。
// jtiにランダムなUUIDを含めるため、同一秒内の連続発行でもトークンは毎回異なる。
func (s *TokenService) Issue(subjectID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate はトークンの署名と有効期限を検証し、subjectのユーザーIDを返す。
// 有効期限切れはTokenExpired、署名不一致・アルゴリズム不正・形式不正はInvalidTokenを返す。
// 異なる秘密鍵で署名されたトークンは署名不一致として必ず拒否される（fail closed）。
func (s *TokenService) Validate(tokenString string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// HMAC以外のアルゴリズム（none攻撃等）を拒否する
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", model.NewTokenExpiredError()
		}
		return "", model.NewInvalidTokenError()
	}

	if !token.Valid || claims.Subject == "" {
		return "", model.NewInvalidTokenError()
	}

	return claims.Subject, nil
}
