// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Token
	AccessSecretKey       string
	AccessExpirationTime  time.Duration
	RefreshSecretKey      string
	RefreshExpirationTime time.Duration

	// CORS
	AllowOriginURL string

	// Cookie
	CookieDomain string
	CookieSecure bool

	// Rate Limit（req/min単位）
	RateLimitGeneral int
	RateLimitLogin   int

	// Server
	ServerPort string

	// Logging
	LogLevel string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
// アクセストークンとリフレッシュトークンの秘密鍵が同一の場合もエラーとする。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.AccessSecretKey = os.Getenv("ACCESS_SECRET_KEY")
	if cfg.AccessSecretKey == "" {
		missing = append(missing, "ACCESS_SECRET_KEY")
	}

	cfg.RefreshSecretKey = os.Getenv("REFRESH_SECRET_KEY")
	if cfg.RefreshSecretKey == "" {
		missing = append(missing, "REFRESH_SECRET_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// 同一鍵を使うと誤った種類のトークンでも検証が通ってしまうため拒否する
	if cfg.AccessSecretKey == cfg.RefreshSecretKey {
		return nil, fmt.Errorf("ACCESS_SECRET_KEY and REFRESH_SECRET_KEY must be different")
	}

	// Optional fields with defaults
	cfg.AccessExpirationTime = getEnvDuration("ACCESS_EXPIRATION_TIME", 15*time.Minute)
	cfg.RefreshExpirationTime = getEnvDuration("REFRESH_EXPIRATION_TIME", 336*time.Hour)
	cfg.AllowOriginURL = getEnvString("ALLOW_ORIGIN_URL", "http://localhost:3000")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", true)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitLogin = getEnvInt("RATE_LIMIT_LOGIN", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
