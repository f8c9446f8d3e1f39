package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/taskbook/internal/auth"
	"github.com/hitoshi/taskbook/internal/middleware"
	"github.com/hitoshi/taskbook/internal/model"
)

// --- モック ---

type mockAuthService struct {
	loginFn            func(ctx context.Context, email, password string) (*auth.LoginResult, error)
	issueAccessTokenFn func(userID string) (string, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, nil
}
func (m *mockAuthService) IssueAccessToken(userID string) (string, error) {
	if m.issueAccessTokenFn != nil {
		return m.issueAccessTokenFn(userID)
	}
	return "", nil
}

// mockMetrics はメトリクス記録の呼び出しを数えるだけのモック。
type mockMetrics struct {
	loginSuccess int
	loginFailure int
	tokensIssued map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{tokensIssued: map[string]int{}}
}

func (m *mockMetrics) RecordLoginSuccess() { m.loginSuccess++ }
func (m *mockMetrics) RecordLoginFailure() { m.loginFailure++ }
func (m *mockMetrics) RecordTokenIssued(tokenType string) {
	m.tokensIssued[tokenType]++
}

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		CookieSecure:    true,
		RefreshTokenTTL: 336 * time.Hour,
	}
}

// --- テスト ---

// ログイン成功で201、ボディにアクセストークン、Cookieにリフレッシュトークンが
// 設定されることを検証
func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*auth.LoginResult, error) {
			return &auth.LoginResult{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
			}, nil
		},
	}
	collector := newMockMetrics()
	h := NewAuthHandler(svc, collector, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"taro@example.com","password":"secret-password"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var body accessTokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.AccessToken != "access-token" {
		t.Errorf("accessToken = %q, want %q", body.AccessToken, "access-token")
	}

	cookies := rec.Result().Cookies()
	var refreshCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == middleware.RefreshTokenCookieName {
			refreshCookie = c
		}
	}
	if refreshCookie == nil {
		t.Fatal("refreshToken cookie not set")
	}
	if refreshCookie.Value != "refresh-token" {
		t.Errorf("cookie value = %q, want %q", refreshCookie.Value, "refresh-token")
	}
	if !refreshCookie.HttpOnly || !refreshCookie.Secure {
		t.Error("refreshToken cookie must be HttpOnly and Secure")
	}
	if refreshCookie.SameSite != http.SameSiteNoneMode {
		t.Errorf("SameSite = %v, want None", refreshCookie.SameSite)
	}
	if refreshCookie.Path != "/" {
		t.Errorf("Path = %q, want /", refreshCookie.Path)
	}

	if collector.loginSuccess != 1 {
		t.Errorf("login success recorded %d times, want 1", collector.loginSuccess)
	}
	if collector.tokensIssued["access"] != 1 || collector.tokensIssued["refresh"] != 1 {
		t.Errorf("tokens issued = %v, want one access and one refresh", collector.tokensIssued)
	}
}

// 認証失敗で401が返り、リフレッシュCookieが設定されないことを検証
func TestAuthHandler_Login_Unauthorized(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*auth.LoginResult, error) {
			return nil, model.NewLoginFailedError()
		},
	}
	collector := newMockMetrics()
	h := NewAuthHandler(svc, collector, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"taro@example.com","password":"wrong-password"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be set on login failure")
	}
	if collector.loginFailure != 1 {
		t.Errorf("login failure recorded %d times, want 1", collector.loginFailure)
	}
}

// 空の資格情報で400が返ることを検証
func TestAuthHandler_Login_EmptyCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, newMockMetrics(), testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"","password":""}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// 再発行で201と新しいアクセストークンが返ることを検証
func TestAuthHandler_RestoreAccessToken(t *testing.T) {
	svc := &mockAuthService{
		issueAccessTokenFn: func(userID string) (string, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want %q", userID, "user-1")
			}
			return "new-access-token", nil
		},
	}
	collector := newMockMetrics()
	h := NewAuthHandler(svc, collector, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/restoreAccessToken", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()

	h.RestoreAccessToken(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var body accessTokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.AccessToken != "new-access-token" {
		t.Errorf("accessToken = %q, want %q", body.AccessToken, "new-access-token")
	}
	if collector.tokensIssued["access"] != 1 {
		t.Errorf("access tokens issued = %d, want 1", collector.tokensIssued["access"])
	}
}
