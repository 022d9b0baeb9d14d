package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend variants.
const (
	BackendNoop       = "noop"
	BackendDocStore   = "docstore"
	BackendDirectory  = "directory"
	BackendRelational = "relational"
)

type Config struct {
	Env            string
	Port           int
	ServiceName    string
	MaxBodyBytes   int64
	RequestTimeout time.Duration

	StaticPagePath string
	PageCacheTTL   time.Duration

	Backend             string
	HashStoredPasswords bool

	DocStore  DocStoreConfig
	Directory DirectoryConfig
	DB        DBConfig

	AllowedOrigins   []string
	SubmitRateLimit  int
	SubmitRateWindow time.Duration

	OtelEnabled     bool
	OtelEndpoint    string
	OtelSampleRatio float64
}

type DocStoreConfig struct {
	Driver            string // memory | mongo | redis | s3
	Collection        string
	ProfileCollection string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
}

type DirectoryConfig struct {
	DSN         string
	MinPassword int
}

type DBConfig struct {
	Driver   string // postgres | mysql
	URL      string
	MySQLDSN string
	MaxConns int32
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	// a missing .env is normal outside local dev
	_ = godotenv.Load()

	return Config{
		Env:            getEnv("APP_ENV", "dev"),
		Port:           getEnvInt("PORT", 8080),
		ServiceName:    getEnv("SERVICE_NAME", "formhub"),
		MaxBodyBytes:   getEnvInt64("MAX_BODY_BYTES", 1_000_000),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),

		StaticPagePath: getEnv("STATIC_PAGE_PATH", "home.html"),
		PageCacheTTL:   getEnvDuration("PAGE_CACHE_TTL", 0),

		Backend:             strings.ToLower(getEnv("BACKEND", BackendNoop)),
		HashStoredPasswords: getEnvBool("HASH_STORED_PASSWORDS", false),

		DocStore: DocStoreConfig{
			Driver:            strings.ToLower(getEnv("DOCSTORE_DRIVER", "mongo")),
			Collection:        getEnv("DOC_COLLECTION", "users"),
			ProfileCollection: getEnv("PROFILE_COLLECTION", "profiles"),

			MongoURI:      getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
			MongoDatabase: getEnv("MONGO_DATABASE", "formhub"),

			RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			RedisPrefix:   getEnv("REDIS_PREFIX", "formhub:"),

			S3Bucket:       getEnv("S3_BUCKET", "formhub"),
			S3Region:       getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:     getEnv("S3_ENDPOINT", ""),
			S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
			S3UsePathStyle: getEnvBool("S3_USE_PATH_STYLE", true),
		},

		Directory: DirectoryConfig{
			DSN:         getEnv("DIRECTORY_DSN", "file:directory.db?cache=shared"),
			MinPassword: getEnvInt("DIRECTORY_MIN_PASSWORD", 6),
		},

		DB: DBConfig{
			Driver:   strings.ToLower(getEnv("RELATIONAL_DRIVER", "postgres")),
			URL:      buildDBURL(),
			MySQLDSN: buildMySQLDSN(),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 5)),
		},

		AllowedOrigins:   parseCSV(os.Getenv("ALLOWED_ORIGINS")),
		SubmitRateLimit:  getEnvInt("SUBMIT_RATE_LIMIT", 0),
		SubmitRateWindow: getEnvDuration("SUBMIT_RATE_WINDOW", time.Minute),

		OtelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OtelSampleRatio: getEnvFloat("OTEL_SAMPLE_RATIO", 1),
	}
}

// Validate rejects combinations that cannot start a server.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	switch c.Backend {
	case BackendNoop, BackendDocStore, BackendDirectory, BackendRelational:
	default:
		return fmt.Errorf("unknown BACKEND %q", c.Backend)
	}

	return nil
}

func buildDBURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "formhub")
	pass := getEnv("DB_PASSWORD", "formhub")
	name := getEnv("DB_NAME", "formhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func buildMySQLDSN() string {
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "3306")
	user := getEnv("DB_USER", "formhub")
	pass := getEnv("DB_PASSWORD", "formhub")
	name := getEnv("DB_NAME", "formhub")

	return user + ":" + pass + "@tcp(" + host + ":" + port + ")/" + name + "?charset=utf8mb4&parseTime=true"
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.ParseInt(v, 10, 64)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			return fallback
		}

		return b
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)

		if err != nil {
			return fallback
		}

		return f
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			return fallback
		}

		return d
	}
	return fallback
}

// parseCSV splits a comma separated list, dropping empty entries.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
