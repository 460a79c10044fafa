package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Security
		UI
		Audit
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret     string
		TokenExpiry   time.Duration
		BcryptCost    int
		SecureCookies bool // Set to false for local dev without HTTPS
		CSRFSecret    string
	}
	Security struct {
		// AllowedIPs restricts protected routes to these client addresses.
		// Empty list disables the filter entirely.
		AllowedIPs []string
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Audit struct {
		RetentionDays   int    // Days to keep login events (default: 30)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// parseAllowedIPs splits the comma-separated ALLOWED_IPS value into a clean list.
func parseAllowedIPs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ips := make([]string, 0, len(parts))
	for _, p := range parts {
		if ip := strings.TrimSpace(p); ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 10000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	// Auth defaults
	v.SetDefault("jwt_secret", "")
	v.SetDefault("auth_token_expiry", "24h") // Session tokens live for a day
	v.SetDefault("auth_bcrypt_cost", 10)     // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", false)
	v.SetDefault("auth_csrf_secret", "")

	// IP allow-list (comma-separated, empty = unrestricted)
	v.SetDefault("allowed_ips", "")

	// Login audit defaults
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenExpiry:   v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:    v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies: v.GetBool("AUTH_SECURE_COOKIES"),
			CSRFSecret:    v.GetString("AUTH_CSRF_SECRET"),
		},
		Security: Security{
			AllowedIPs: parseAllowedIPs(v.GetString("ALLOWED_IPS")),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
