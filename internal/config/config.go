package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	// 本地开发时从 .env 读取环境变量
	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultTrustedDeviceMaxAge  = 10 * 365 * 24 * time.Hour
	defaultVisitorRetention     = 365 * 24 * time.Hour
	defaultVisitorPurgeInterval = 24 * time.Hour
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr           string
	Port                 string
	DatabasePath         string
	SessionSecret        string
	GinMode              string
	LogLevel             string
	UploadDir            string
	UploadURLPath        string
	SiteBaseURL          string
	SiteIndex            string
	SecureCookies        bool
	AdminPassword        string
	AdminSetupToken      string
	TrustedDeviceMaxAge  time.Duration
	VisitorRetention     time.Duration
	VisitorPurgeInterval time.Duration
}

// Load 从环境变量读取应用配置，并为缺失项提供默认值。
// ADMIN_PASSWORD 和 ADMIN_SETUP_TOKEN 没有默认值，缺失时后台门禁会给出提示；
// 这两个密钥按原样读取，不去除首尾空白。
func Load() AppConfig {
	port := envOr("PORT", "8080")

	listenAddr := envOr("LISTEN_ADDR", "")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	return AppConfig{
		ListenAddr:           listenAddr,
		Port:                 port,
		DatabasePath:         envOr("DATABASE_PATH", "portfolio.db"),
		SessionSecret:        envOr("SESSION_SECRET", "portfolio-dev-secret"),
		GinMode:              envOr("GIN_MODE", "release"),
		LogLevel:             envOr("LOG_LEVEL", "info"),
		UploadDir:            envOr("UPLOAD_DIR", "web/static/uploads"),
		UploadURLPath:        envOr("UPLOAD_URL_PATH", "/static/uploads"),
		SiteBaseURL:          envOr("SITE_BASE_URL", "http://localhost:8080"),
		SiteIndex:            envOr("SITE_INDEX", ""),
		SecureCookies:        boolOr("COOKIE_SECURE", false),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
		AdminSetupToken:      os.Getenv("ADMIN_SETUP_TOKEN"),
		TrustedDeviceMaxAge:  durationOr("TRUSTED_DEVICE_MAX_AGE", defaultTrustedDeviceMaxAge),
		VisitorRetention:     switchableDurationOr("VISITOR_RETENTION", defaultVisitorRetention),
		VisitorPurgeInterval: switchableDurationOr("VISITOR_PURGE_INTERVAL", defaultVisitorPurgeInterval),
	}
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

// durationOr 解析 Go duration 格式，非法或非正值回退到默认值。
func durationOr(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// switchableDurationOr 与 durationOr 相同，但 "0" 或 "off" 返回 0，表示关闭该功能。
func switchableDurationOr(key string, fallback time.Duration) time.Duration {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "0", "off":
		return 0
	}
	return durationOr(key, fallback)
}

func boolOr(key string, fallback bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return parsed
}
