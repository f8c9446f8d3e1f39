// Package auth は資格情報の検証とトークンの発行・検証を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/taskbook/internal/model"
	"github.com/hitoshi/taskbook/internal/repository"
)

// dummyDigest はユーザーが存在しない場合にも検証処理を実行するためのダミーハッシュ。
// メールアドレスの存在有無で応答時間に差が出ることを防ぐ。
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	AccessSecretKey       string
	AccessExpirationTime  time.Duration
	RefreshSecretKey      string
	RefreshExpirationTime time.Duration
}

// LoginResult はログイン成功時に発行されるトークンの組。
// RefreshTokenはHTTP Only Cookieで、AccessTokenはレスポンスボディで返却される。
type LoginResult struct {
	AccessToken  string
	RefreshToken string
}

// Service は認証に関するビジネスロジックを提供する。
// 資格情報の検証（CredentialVerifier）とログイン・再発行フローを担う。
type Service struct {
	userRepo repository.UserRepository
	hasher   *PasswordHasher
	tokens   *TokenService
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, hasher *PasswordHasher, tokens *TokenService, config ServiceConfig) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		config:   config,
	}
}

// VerifyCredentials はメールアドレスとパスワードでユーザーを検証する。
// メールアドレス不明とパスワード不一致は同一のUnauthorizedエラーを返し、
// どちらの失敗かを区別させない。ユーザー不在時もダミーハッシュに対して
// 検証処理を実行し、タイミング差による列挙を防ぐ。
// ソフトデリート済みユーザーは検索対象外のため、退会後のログインも同じ失敗になる。
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if user == nil {
		if _, err := s.hasher.Verify(password, dummyDigest); err != nil {
			return nil, fmt.Errorf("failed to verify password: %w", err)
		}
		return nil, model.NewLoginFailedError()
	}

	matched, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !matched {
		return nil, model.NewLoginFailedError()
	}

	return user, nil
}

// Login は資格情報を検証し、リフレッシュトークンとアクセストークンを発行する。
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	refresh, err := s.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	access, err := s.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// IssueAccessToken は指定ユーザーのアクセストークンを発行する。
// アクセストークン再発行時は呼び出し前にリフレッシュトークンの検証が
// 済んでいることが前提であり、DB参照は行わない。
func (s *Service) IssueAccessToken(userID string) (string, error) {
	access, err := s.tokens.Issue(userID, []byte(s.config.AccessSecretKey), s.config.AccessExpirationTime)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	return access, nil
}

// IssueRefreshToken は指定ユーザーのリフレッシュトークンを発行する。
func (s *Service) IssueRefreshToken(userID string) (string, error) {
	refresh, err := s.tokens.Issue(userID, []byte(s.config.RefreshSecretKey), s.config.RefreshExpirationTime)
	if err != nil {
		return "", fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return refresh, nil
}

// ValidateAccessToken はアクセストークンを検証し、subjectのユーザーIDを返す。
func (s *Service) ValidateAccessToken(tokenString string) (string, error) {
	return s.tokens.Validate(tokenString, []byte(s.config.AccessSecretKey))
}

// ValidateRefreshToken はリフレッシュトークンを検証し、subjectのユーザーIDを返す。
func (s *Service) ValidateRefreshToken(tokenString string) (string, error) {
	return s.tokens.Validate(tokenString, []byte(s.config.RefreshSecretKey))
}
