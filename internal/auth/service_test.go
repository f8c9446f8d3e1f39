package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/taskbook/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}
func (m *mockUserRepo) ListActive(ctx context.Context) ([]*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error  { return nil }
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error  { return nil }
func (m *mockUserRepo) SoftDeleteByID(ctx context.Context, id string) error { return nil }

// --- テスト ---

func testServiceConfig() ServiceConfig {
	return ServiceConfig{
		AccessSecretKey:       "access-secret-for-test",
		AccessExpirationTime:  15 * time.Minute,
		RefreshSecretKey:      "refresh-secret-for-test",
		RefreshExpirationTime: 336 * time.Hour,
	}
}

// newTestService は登録済みユーザー1人を持つServiceを構築する。
func newTestService(t *testing.T, email, password string) *Service {
	t.Helper()

	hasher := NewPasswordHasher()
	digest, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	registered := &model.User{
		ID:           "user-1",
		Email:        email,
		PasswordHash: digest,
		Name:         "テストユーザー",
	}

	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, e string) (*model.User, error) {
			if e == registered.Email {
				return registered, nil
			}
			// ソフトデリート済み・未登録はどちらもnilで返る
			return nil, nil
		},
	}

	return NewService(repo, hasher, NewTokenService(), testServiceConfig())
}

// 正しい資格情報でログインでき、発行されたトークンが各秘密鍵で検証できることを検証
func TestService_Login_Success(t *testing.T) {
	svc := newTestService(t, "taro@example.com", "secret-password")

	result, err := svc.Login(context.Background(), "taro@example.com", "secret-password")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	subject, err := svc.ValidateAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("access token validation failed: %v", err)
	}
	if subject != "user-1" {
		t.Errorf("access token subject = %q, want %q", subject, "user-1")
	}

	subject, err = svc.ValidateRefreshToken(result.RefreshToken)
	if err != nil {
		t.Fatalf("refresh token validation failed: %v", err)
	}
	if subject != "user-1" {
		t.Errorf("refresh token subject = %q, want %q", subject, "user-1")
	}
}

// 同一資格情報でも毎回異なるアクセストークンが発行されることを検証
func TestService_Login_DistinctAccessTokens(t *testing.T) {
	svc := newTestService(t, "taro@example.com", "secret-password")

	r1, err := svc.Login(context.Background(), "taro@example.com", "secret-password")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	r2, err := svc.Login(context.Background(), "taro@example.com", "secret-password")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	if r1.AccessToken == r2.AccessToken {
		t.Error("two logins should produce distinct access tokens")
	}
}

// パスワード不一致とメールアドレス不明で完全に同一のエラーが返ることを検証
func TestService_Login_IdenticalUnauthorizedError(t *testing.T) {
	svc := newTestService(t, "taro@example.com", "secret-password")

	_, errWrongPassword := svc.Login(context.Background(), "taro@example.com", "wrong-password")
	if errWrongPassword == nil {
		t.Fatal("expected error for wrong password, got nil")
	}

	_, errUnknownEmail := svc.Login(context.Background(), "nobody@example.com", "secret-password")
	if errUnknownEmail == nil {
		t.Fatal("expected error for unknown email, got nil")
	}

	var apiErr1, apiErr2 *model.APIError
	if !errors.As(errWrongPassword, &apiErr1) || !errors.As(errUnknownEmail, &apiErr2) {
		t.Fatalf("expected *model.APIError for both, got %T and %T", errWrongPassword, errUnknownEmail)
	}

	if apiErr1.Code != model.ErrCodeUnauthorized || apiErr2.Code != model.ErrCodeUnauthorized {
		t.Errorf("both codes should be UNAUTHORIZED, got %q and %q", apiErr1.Code, apiErr2.Code)
	}
	if apiErr1.Message != apiErr2.Message {
		t.Errorf("messages must be identical to prevent user enumeration: %q vs %q", apiErr1.Message, apiErr2.Message)
	}
}

// リポジトリ障害がUnauthorizedではなく内部エラーとして伝播することを検証
func TestService_Login_RepositoryError(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewService(repo, NewPasswordHasher(), NewTokenService(), testServiceConfig())

	_, err := svc.Login(context.Background(), "taro@example.com", "secret-password")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("repository failure should not be converted to an APIError here, got %v", apiErr)
	}
}

// アクセストークン再発行がDB参照なしで成功することを検証
func TestService_IssueAccessToken_NoRepositoryAccess(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			t.Fatal("IssueAccessToken must not hit the repository")
			return nil, nil
		},
	}
	svc := NewService(repo, NewPasswordHasher(), NewTokenService(), testServiceConfig())

	token, err := svc.IssueAccessToken("user-1")
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	subject, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if subject != "user-1" {
		t.Errorf("subject = %q, want %q", subject, "user-1")
	}
}

// アクセストークンがリフレッシュトークンとして検証されないことを検証
func TestService_CrossTokenValidationFails(t *testing.T) {
	svc := newTestService(t, "taro@example.com", "secret-password")

	result, err := svc.Login(context.Background(), "taro@example.com", "secret-password")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if _, err := svc.ValidateRefreshToken(result.AccessToken); err == nil {
		t.Error("access token must not validate as a refresh token")
	}
	if _, err := svc.ValidateAccessToken(result.RefreshToken); err == nil {
		t.Error("refresh token must not validate as an access token")
	}
}
