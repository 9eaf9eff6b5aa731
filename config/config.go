package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config.json or the environment.
type AppConfig struct {
	AppPort string
	// Admin access
	JWTSecret         string
	AdminPassword     string
	AdminPasswordHash string
	TokenTTLHours     int
	// HTTP
	AllowedOrigins     []string
	TrustedProxies     []string
	RateLimitPerMinute int
	VisitorIdentity    string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Persistence
	StoreDriver string
	DataFile    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	SQLitePath  string
	// Redis for snapshot storage and token revocation
	RedisHost        string
	RedisPort        int
	RedisDB          int
	RedisPassword    string
	RedisSnapshotKey string
	// Uploads
	UploadDir        string
	UploadMaxMB      int
	UploadTTLMinutes int
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: config/config.json -> defaults -> environment variable overrides
	if err := loadJSONConfig(filepath.Join("config", "config.json"), &cfg); err != nil {
		log.Fatalf("invalid config/config.json: %v", err)
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		log.Fatal("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Set replaces the cached configuration. Used by tests and tooling that build config in code.
func Set(c AppConfig) {
	applyDefaults(&c)
	cfg = c
	loaded = true
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into cfg if present. Returns error only for invalid JSON.
// Keys may be flat or grouped under "app", "http", "store", "redis", "upload" and "log".
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if s, ok := m[key].(string); ok {
			return s
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		switch t := m[key].(type) {
		case float64:
			return int(t)
		case string:
			i, _ := strconv.Atoi(t)
			return i
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		b, _ := m[key].(bool)
		return b
	}
	getStringSlice := func(m map[string]any, key string) []string {
		arr, ok := m[key].([]any)
		if !ok {
			return nil
		}
		res := make([]string, 0, len(arr))
		for _, it := range arr {
			if s, ok := it.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}
	section := func(name string) map[string]any {
		if m, ok := raw[name].(map[string]any); ok {
			return m
		}
		return raw
	}

	app := section("app")
	out.AppPort = getString(app, "AppPort")
	out.JWTSecret = getString(app, "JWTSecret")
	out.AdminPassword = getString(app, "AdminPassword")
	out.AdminPasswordHash = getString(app, "AdminPasswordHash")
	out.TokenTTLHours = getInt(app, "TokenTTLHours")

	httpCfg := section("http")
	out.AllowedOrigins = getStringSlice(httpCfg, "AllowedOrigins")
	out.TrustedProxies = getStringSlice(httpCfg, "TrustedProxies")
	out.RateLimitPerMinute = getInt(httpCfg, "RateLimitPerMinute")
	out.VisitorIdentity = getString(httpCfg, "VisitorIdentity")
	out.GinMode = getString(httpCfg, "GinMode")
	out.GinPath = getString(httpCfg, "GinPath")

	st := section("store")
	out.StoreDriver = getString(st, "StoreDriver")
	out.DataFile = getString(st, "DataFile")
	out.DatabaseURI = getString(st, "DatabaseURI")
	out.DBHost = getString(st, "DBHost")
	out.DBPort = getString(st, "DBPort")
	out.DBUser = getString(st, "DBUser")
	out.DBPassword = getString(st, "DBPassword")
	out.DBName = getString(st, "DBName")
	out.SQLitePath = getString(st, "SQLitePath")

	rd := section("redis")
	out.RedisHost = getString(rd, "RedisHost")
	out.RedisPort = getInt(rd, "RedisPort")
	out.RedisDB = getInt(rd, "RedisDB")
	out.RedisPassword = getString(rd, "RedisPassword")
	out.RedisSnapshotKey = getString(rd, "RedisSnapshotKey")

	up := section("upload")
	out.UploadDir = getString(up, "UploadDir")
	out.UploadMaxMB = getInt(up, "UploadMaxMB")
	out.UploadTTLMinutes = getInt(up, "UploadTTLMinutes")

	lg := section("log")
	out.LogLevel = getString(lg, "LogLevel")
	out.LogPath = getString(lg, "LogPath")
	out.LogMaxSizeMB = getInt(lg, "LogMaxSizeMB")
	out.LogMaxBackups = getInt(lg, "LogMaxBackups")
	out.LogMaxAgeDays = getInt(lg, "LogMaxAgeDays")
	out.LogCompress = getBool(lg, "LogCompress")
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "3000"
	}
	if c.TokenTTLHours == 0 {
		c.TokenTTLHours = 24
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.VisitorIdentity == "" {
		c.VisitorIdentity = "ip"
	}
	if c.StoreDriver == "" {
		c.StoreDriver = "file"
	}
	if c.DataFile == "" {
		c.DataFile = filepath.Join("data", "database.json")
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "codeshare"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join("data", "codeshare.db")
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.RedisSnapshotKey == "" {
		c.RedisSnapshotKey = "codeshare:snapshot"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.UploadMaxMB == 0 {
		c.UploadMaxMB = 5
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", getEnv("PORT", "")); v != "" {
		c.AppPort = v
	}
	if v := getEnv("JWT_SECRET", ""); v != "" {
		c.JWTSecret = v
	}
	if v := getEnv("ADMIN_PASSWORD", ""); v != "" {
		c.AdminPassword = v
	}
	if v := getEnv("ADMIN_PASSWORD_HASH", ""); v != "" {
		c.AdminPasswordHash = v
	}
	if v := getEnv("TOKEN_TTL_HOURS", ""); v != "" {
		c.TokenTTLHours = mustParseInt(v)
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	}
	if v := getEnv("TRUSTED_PROXIES", ""); v != "" {
		c.TrustedProxies = readListEnv("TRUSTED_PROXIES", c.TrustedProxies)
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("VISITOR_IDENTITY", ""); v != "" {
		c.VisitorIdentity = strings.ToLower(v)
	}
	if v := getEnv("STORE_DRIVER", ""); v != "" {
		c.StoreDriver = strings.ToLower(v)
	}
	if v := getEnv("DATA_FILE", ""); v != "" {
		c.DataFile = v
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("SQLITE_PATH", ""); v != "" {
		c.SQLitePath = v
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("REDIS_SNAPSHOT_KEY", ""); v != "" {
		c.RedisSnapshotKey = v
	}
	if v := getEnv("UPLOAD_DIR", ""); v != "" {
		c.UploadDir = v
	}
	if v := getEnv("UPLOAD_MAX_MB", ""); v != "" {
		c.UploadMaxMB = mustParseInt(v)
	}
	if v := getEnv("UPLOAD_TTL_MINUTES", ""); v != "" {
		c.UploadTTLMinutes = mustParseInt(v)
	}
	// Logging env overrides
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
