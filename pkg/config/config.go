package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Reference reload policies and usage log drivers.
const (
	ReloadOnStartup     = "startup"
	ReloadPerRequest    = "per_request"
	UsageDriverFile     = "file"
	UsageDriverPostgres = "postgres"
)

type Config struct {
	Env       string `validate:"oneof=development production test"`
	Port      int    `validate:"min=1,max=65535"`
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Snapshot   SnapshotConfig
	References ReferencesConfig
	Reports    ReportsConfig
	Usage      UsageConfig
	Cache      CacheConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SnapshotConfig describes the layout of uploaded inventory workbooks and the
// comparison scope applied to them.
type SnapshotConfig struct {
	Sheet          string   `validate:"required"`
	SkipRows       int      `validate:"min=0"`
	MaxRows        int      `validate:"min=1"`
	MaxUploadBytes int64    `validate:"min=1"`
	ActiveStates   []string `validate:"min=1,dive,required"`
	Category       string   `validate:"required"`
}

// ReferencesConfig points at the static reference tables.
type ReferencesConfig struct {
	OrgPath            string `validate:"required"`
	DevicePath         string `validate:"required"`
	CommissioningPath  string `validate:"required"`
	CommissioningSheet string `validate:"required"`
	CommissioningSkip  int    `validate:"min=0"`
	CSVDelimiter       rune
	ReloadPolicy       string `validate:"oneof=startup per_request"`
}

// ReportsConfig configures rendered report storage and download links.
type ReportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
	PDFFontPath     string
}

// UsageConfig selects the usage log backend.
type UsageConfig struct {
	Driver       string `validate:"oneof=file postgres"`
	Path         string `validate:"required_if=Driver file"`
	DefaultLimit int    `validate:"min=1,max=1000"`
}

// CacheConfig governs the optional comparison result cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUpload := v.GetInt64("UPLOAD_MAX_BYTES")
	if maxUpload <= 0 {
		maxUpload = 32 * 1024 * 1024
	}
	cfg.Snapshot = SnapshotConfig{
		Sheet:          v.GetString("SNAPSHOT_SHEET"),
		SkipRows:       v.GetInt("SNAPSHOT_SKIP_ROWS"),
		MaxRows:        v.GetInt("SNAPSHOT_MAX_ROWS"),
		MaxUploadBytes: maxUpload,
		ActiveStates:   splitAndTrim(v.GetString("SNAPSHOT_ACTIVE_STATES")),
		Category:       strings.TrimSpace(v.GetString("SNAPSHOT_CATEGORY")),
	}

	cfg.References = ReferencesConfig{
		OrgPath:            v.GetString("REFERENCE_ORG_PATH"),
		DevicePath:         v.GetString("REFERENCE_DEVICE_PATH"),
		CommissioningPath:  v.GetString("REFERENCE_COMMISSIONING_PATH"),
		CommissioningSheet: v.GetString("REFERENCE_COMMISSIONING_SHEET"),
		CommissioningSkip:  v.GetInt("REFERENCE_COMMISSIONING_SKIP_ROWS"),
		CSVDelimiter:       parseDelimiter(v.GetString("REFERENCE_CSV_DELIMITER"), ';'),
		ReloadPolicy:       parsePolicy(v.GetString("REFERENCE_RELOAD_POLICY")),
	}

	cfg.Reports = ReportsConfig{
		StorageDir:      v.GetString("REPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("REPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("REPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("REPORTS_CLEANUP_INTERVAL"), time.Hour),
		PDFFontPath:     v.GetString("REPORTS_PDF_FONT_PATH"),
	}

	cfg.Usage = UsageConfig{
		Driver:       strings.ToLower(v.GetString("USAGE_LOG_DRIVER")),
		Path:         v.GetString("USAGE_LOG_PATH"),
		DefaultLimit: v.GetInt("USAGE_LOG_DEFAULT_LIMIT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_RESULT_CACHE"),
		TTL:     parseDuration(v.GetString("RESULT_CACHE_TTL"), 10*time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "fund_dynamics")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SNAPSHOT_SHEET", "Отчет")
	v.SetDefault("SNAPSHOT_SKIP_ROWS", 4)
	v.SetDefault("SNAPSHOT_MAX_ROWS", 200000)
	v.SetDefault("UPLOAD_MAX_BYTES", 32*1024*1024)
	v.SetDefault("SNAPSHOT_ACTIVE_STATES", "В работе,В простое")
	v.SetDefault("SNAPSHOT_CATEGORY", "Нефтяная")

	v.SetDefault("REFERENCE_ORG_PATH", "./data/org_structure.csv")
	v.SetDefault("REFERENCE_DEVICE_PATH", "./data/devices.csv")
	v.SetDefault("REFERENCE_COMMISSIONING_PATH", "./data/commissioning.xlsx")
	v.SetDefault("REFERENCE_COMMISSIONING_SHEET", "Лист1")
	v.SetDefault("REFERENCE_COMMISSIONING_SKIP_ROWS", 0)
	v.SetDefault("REFERENCE_CSV_DELIMITER", ";")
	v.SetDefault("REFERENCE_RELOAD_POLICY", ReloadOnStartup)

	v.SetDefault("REPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("REPORTS_SIGNED_URL_SECRET", "dev_reports_secret")
	v.SetDefault("REPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("REPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("REPORTS_PDF_FONT_PATH", "")

	v.SetDefault("USAGE_LOG_DRIVER", UsageDriverFile)
	v.SetDefault("USAGE_LOG_PATH", "./usage_log.csv")
	v.SetDefault("USAGE_LOG_DEFAULT_LIMIT", 20)

	v.SetDefault("ENABLE_RESULT_CACHE", false)
	v.SetDefault("RESULT_CACHE_TTL", "10m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func parseDelimiter(raw string, fallback rune) rune {
	switch raw {
	case "":
		return fallback
	case `\t`, "tab":
		return '\t'
	}
	for _, r := range raw {
		return r
	}
	return fallback
}

func parsePolicy(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), ReloadPerRequest) {
		return ReloadPerRequest
	}
	return ReloadOnStartup
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
