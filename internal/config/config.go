package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppPort string
	Env     string

	MySQLHost     string
	MySQLPort     string
	MySQLDB       string
	MySQLUser     string
	MySQLPass     string
	DBAutoMigrate bool

	RedisAddr string
	RedisDB   int

	IdempTTLSecs        int
	LookupRateLimit     int
	LookupRateWindowSec int
	// CIDRs whose X-Forwarded-For is believed; empty means the socket address is the client
	TrustedProxies []string

	JWTSecret string

	AttachmentsPath     string
	MaxUploadBytes      int64
	DocumentCountPolicy string
	CodeMaxAttempts     int

	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string
	SMTPFrom          string
	SMTPSkipTLSVerify bool
	ManagerEmails     []string
	AdminPanelURL     string

	NotifyQueueSize     int
	NotifyFlushInterval time.Duration
	NotifyBatchSize     int
	NotifyMaxInFlight   int
	NotifyRatePerSec    float64
	NotifyMaxAttempts   int

	LogLevel  string
	LogFormat string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func getduration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func Load() *Config {
	c := &Config{
		AppPort:       getenv("APP_PORT", "8080"),
		Env:           strings.ToLower(getenv("ENVIRONMENT", "development")),
		MySQLHost:     getenv("MYSQL_HOST", "mysql"),
		MySQLPort:     getenv("MYSQL_PORT", "3306"),
		MySQLDB:       getenv("MYSQL_DB", "proposals"),
		MySQLUser:     getenv("MYSQL_USER", "proposals"),
		MySQLPass:     getenv("MYSQL_PASS", "proposals"),
		DBAutoMigrate: getbool("DB_AUTO_MIGRATE", false),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getint("REDIS_DB", 0),

		IdempTTLSecs:        getint("IDEMPOTENCY_TTL_SECONDS", 300),
		LookupRateLimit:     getint("LOOKUP_RATE_LIMIT", 20),
		LookupRateWindowSec: getint("LOOKUP_RATE_WINDOW_SECONDS", 60),
		TrustedProxies:      splitList(os.Getenv("TRUSTED_PROXIES")),

		JWTSecret: os.Getenv("JWT_SECRET"),

		AttachmentsPath:     getenv("ATTACHMENTS_PATH", "attachments"),
		MaxUploadBytes:      int64(getint("MAX_UPLOAD_BYTES", 10<<20)),
		DocumentCountPolicy: getenv("DOCUMENT_COUNT_POLICY", "at_least"),
		CodeMaxAttempts:     getint("CODE_MAX_ATTEMPTS", 16),

		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          getint("SMTP_PORT", 587),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		SMTPFrom:          os.Getenv("SMTP_FROM"), // e.g. "Proposals <no-reply@your.org>"
		SMTPSkipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
		ManagerEmails:     splitList(os.Getenv("MANAGER_EMAILS")),
		AdminPanelURL:     getenv("ADMIN_PANEL_URL", "#"),

		NotifyQueueSize:     getint("NOTIFY_QUEUE_SIZE", 1024),
		NotifyFlushInterval: getduration("NOTIFY_FLUSH_INTERVAL", 2*time.Second),
		NotifyBatchSize:     getint("NOTIFY_BATCH_SIZE", 50),
		NotifyMaxInFlight:   getint("NOTIFY_MAX_IN_FLIGHT", 4),
		NotifyMaxAttempts:   getint("NOTIFY_MAX_ATTEMPTS", 3),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),
	}
	c.NotifyRatePerSec = 5
	if v := os.Getenv("NOTIFY_RATE_PER_SEC"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.NotifyRatePerSec = f
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	switch c.DocumentCountPolicy {
	case "at_least", "exact":
	default:
		return fmt.Errorf("invalid DOCUMENT_COUNT_POLICY %q (want at_least or exact)", c.DocumentCountPolicy)
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", cidr, err)
		}
	}
	if c.MaxUploadBytes < 1 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.CodeMaxAttempts < 1 {
		return errors.New("CODE_MAX_ATTEMPTS must be >= 1")
	}
	if c.NotifyQueueSize < 1 || c.NotifyBatchSize < 1 || c.NotifyMaxInFlight < 1 || c.NotifyMaxAttempts < 1 {
		return errors.New("NOTIFY_* sizes must be >= 1")
	}
	if c.NotifyFlushInterval <= 0 {
		return errors.New("NOTIFY_FLUSH_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
