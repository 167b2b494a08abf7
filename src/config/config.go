package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the storefront server.
type Config struct {
	Env  string
	Host string
	Port string

	CatalogBaseURL string
	CatalogTimeout time.Duration
	ImageOrigin    string

	PageSize        int
	SuggestDebounce time.Duration
	SuggestCutoff   int
	SuggestLimit    int
	SuggestGrace    time.Duration

	SessionTTL   time.Duration
	CookieSecure bool

	CORSOrigins []string

	LogLevel  string
	LogFormat string

	DB    DBConfig
	Redis RedisConfig
	Minio MinioConfig
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

type RedisConfig struct {
	Mode       string
	Host       string
	Port       string
	Password   string
	MasterName string
	Sentinels  []string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LoadDotEnv loads .env from the working directory when the file exists.
func LoadDotEnv(logger *slog.Logger) {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		logger.Warn("could not load .env file", slog.String("error", err.Error()))
		return
	}
	logger.Info("loaded .env file")
}

// Load reads the configuration from the environment, falling back to defaults
// for anything unset or unparsable.
func Load(logger *slog.Logger) *Config {
	l := loader{logger: logger}
	return &Config{
		Env:  os.Getenv("NODE_ENV"),
		Host: l.str("HOST", "0.0.0.0"),
		Port: l.str("APP_PORT", "2000"),

		CatalogBaseURL: strings.TrimRight(l.str("CATALOG_BASE_URL", "https://movie-explorer-ror-abhinav.onrender.com"), "/"),
		CatalogTimeout: l.duration("CATALOG_TIMEOUT", 10*time.Second),
		ImageOrigin:    strings.TrimRight(l.str("IMAGE_ORIGIN", "https://movie-explorer-ror-abhinav.onrender.com"), "/"),

		PageSize:        l.integer("PAGE_SIZE", 10),
		SuggestDebounce: l.duration("SUGGEST_DEBOUNCE", 300*time.Millisecond),
		SuggestCutoff:   l.integer("SUGGEST_CUTOFF", 30),
		SuggestLimit:    l.integer("SUGGEST_LIMIT", 5),
		SuggestGrace:    l.duration("SUGGEST_BLUR_GRACE", 150*time.Millisecond),

		SessionTTL:   l.duration("SESSION_TTL", 24*time.Hour),
		CookieSecure: l.boolean("COOKIE_SECURE", false),

		CORSOrigins: l.list("CORS_ORIGINS", []string{"*"}),

		LogLevel:  l.str("LOG_LEVEL", "info"),
		LogFormat: l.str("LOG_FORMAT", "text"),

		DB: DBConfig{
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
			Host:     l.str("DB_HOST", "localhost"),
			Port:     l.str("DB_PORT", "5432"),
			Name:     l.str("DB_NAME", "movie_explorer"),
		},
		Redis: RedisConfig{
			Mode:       os.Getenv("REDIS_MODE"),
			Host:       l.str("REDIS_HOST", "localhost"),
			Port:       l.str("REDIS_PORT", "6379"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			MasterName: os.Getenv("REDIS_MASTER_NAME"),
			Sentinels:  l.list("REDIS_SENTINELS", nil),
		},
		Minio: MinioConfig{
			Endpoint:  l.str("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    l.str("MINIO_BUCKET", "movie-images"),
			UseSSL:    l.boolean("MINIO_USE_SSL", false),
		},
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

type loader struct {
	logger *slog.Logger
}

func (l loader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (l loader) integer(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		l.warn(key, raw)
		return def
	}
	return v
}

func (l loader) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		l.warn(key, raw)
		return def
	}
	return v
}

func (l loader) boolean(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		l.warn(key, raw)
		return def
	}
	return v
}

func (l loader) list(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func (l loader) warn(key, raw string) {
	if l.logger == nil {
		return
	}
	l.logger.Warn("invalid config value, using default", slog.String("key", key), slog.String("value", raw))
}
