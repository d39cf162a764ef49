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

// Catalog source backends.
const (
	CatalogBackendHTTP     = "http"
	CatalogBackendPostgres = "postgres"
	CatalogBackendFile     = "file"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Catalog   CatalogConfig
	Timetable TimetableConfig
	Search    SearchConfig
	Session   SessionConfig
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
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig selects and tunes the lecture catalog sources.
type CatalogConfig struct {
	Backend         string
	BaseURL         string
	MajorsPath      string
	LiberalArtsPath string
	MajorsFile      string
	LiberalArtsFile string
	HTTPTimeout     time.Duration
	RedisTTL        time.Duration
	WarmOnStart     bool
	WarmRetries     int
}

// TimetableConfig describes the grid every session is laid out on.
type TimetableConfig struct {
	Days              []string
	Periods           int
	CellWidth         float64
	CellHeight        float64
	DayHeaderWidth    float64
	TimeHeaderHeight  float64
	StrictDescriptors bool
}

// SearchConfig tunes the catalog search dialog.
type SearchConfig struct {
	PageSize int
}

// SessionConfig controls the lifetime of in-memory timetable sessions.
type SessionConfig struct {
	TTL             time.Duration
	JanitorInterval time.Duration
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
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Catalog = CatalogConfig{
		Backend:         strings.ToLower(v.GetString("CATALOG_SOURCE")),
		BaseURL:         strings.TrimRight(v.GetString("CATALOG_BASE_URL"), "/"),
		MajorsPath:      v.GetString("CATALOG_MAJORS_PATH"),
		LiberalArtsPath: v.GetString("CATALOG_LIBERAL_ARTS_PATH"),
		MajorsFile:      v.GetString("CATALOG_MAJORS_FILE"),
		LiberalArtsFile: v.GetString("CATALOG_LIBERAL_ARTS_FILE"),
		HTTPTimeout:     parseDuration(v.GetString("CATALOG_HTTP_TIMEOUT"), 10*time.Second),
		RedisTTL:        parseDuration(v.GetString("CATALOG_REDIS_TTL"), 6*time.Hour),
		WarmOnStart:     v.GetBool("CATALOG_WARM_ON_START"),
		WarmRetries:     v.GetInt("CATALOG_WARM_RETRIES"),
	}

	cfg.Timetable = TimetableConfig{
		Days:              splitAndTrim(v.GetString("TIMETABLE_DAYS")),
		Periods:           v.GetInt("TIMETABLE_PERIODS"),
		CellWidth:         v.GetFloat64("TIMETABLE_CELL_WIDTH"),
		CellHeight:        v.GetFloat64("TIMETABLE_CELL_HEIGHT"),
		DayHeaderWidth:    v.GetFloat64("TIMETABLE_DAY_HEADER_WIDTH"),
		TimeHeaderHeight:  v.GetFloat64("TIMETABLE_TIME_HEADER_HEIGHT"),
		StrictDescriptors: v.GetBool("STRICT_DESCRIPTORS"),
	}

	pageSize := v.GetInt("SEARCH_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 100
	}
	cfg.Search = SearchConfig{PageSize: pageSize}

	cfg.Session = SessionConfig{
		TTL:             parseDuration(v.GetString("SESSION_TTL"), 12*time.Hour),
		JanitorInterval: parseDuration(v.GetString("SESSION_JANITOR_INTERVAL"), 5*time.Minute),
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
	v.SetDefault("DB_NAME", "course_catalog")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "timetable-api")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_SOURCE", CatalogBackendHTTP)
	v.SetDefault("CATALOG_BASE_URL", "http://localhost:5173")
	v.SetDefault("CATALOG_MAJORS_PATH", "/schedules-majors.json")
	v.SetDefault("CATALOG_LIBERAL_ARTS_PATH", "/schedules-liberal-arts.json")
	v.SetDefault("CATALOG_MAJORS_FILE", "data/schedules-majors.json")
	v.SetDefault("CATALOG_LIBERAL_ARTS_FILE", "data/schedules-liberal-arts.json")
	v.SetDefault("CATALOG_HTTP_TIMEOUT", "10s")
	v.SetDefault("CATALOG_REDIS_TTL", "6h")
	v.SetDefault("CATALOG_WARM_ON_START", true)
	v.SetDefault("CATALOG_WARM_RETRIES", 3)

	v.SetDefault("TIMETABLE_DAYS", "월,화,수,목,금,토")
	v.SetDefault("TIMETABLE_PERIODS", 24)
	v.SetDefault("TIMETABLE_CELL_WIDTH", 80)
	v.SetDefault("TIMETABLE_CELL_HEIGHT", 30)
	v.SetDefault("TIMETABLE_DAY_HEADER_WIDTH", 120)
	v.SetDefault("TIMETABLE_TIME_HEADER_HEIGHT", 40)
	v.SetDefault("STRICT_DESCRIPTORS", false)

	v.SetDefault("SEARCH_PAGE_SIZE", 100)

	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("SESSION_JANITOR_INTERVAL", "5m")
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
