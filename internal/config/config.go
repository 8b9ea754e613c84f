package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	PageCacheMemory = "memory"
	PageCacheBadger = "badger"
	PageCacheRedis  = "redis"
)

type Config struct {
	ListenAddr string `validate:"required"`
	StaticDir  string

	RootURL  string `validate:"omitempty,url"`
	SiteName string `validate:"required"`
	Locale   string `validate:"required,bcp47_language_tag"`
	TimeZone string `validate:"required,timezone"`

	PrismicAPIEndpoint     string `validate:"required,url"`
	PrismicGraphQLEndpoint string `validate:"required,url"`
	PrismicAccessToken     string
	PrismicLang            string `validate:"required"`
	PageSize               int    `validate:"gte=1,lte=100"`

	Fallback string `validate:"oneof=true false blocking"`

	PageCache      string `validate:"oneof=memory badger redis"`
	PageCacheDir   string
	PageCacheTTL   time.Duration `validate:"gte=0"`
	RedisAddr      string        `validate:"required_if=PageCache redis"`
	RedisKeyPrefix string

	PrerenderOnStart     bool
	PrerenderConcurrency int `validate:"gte=1,lte=64"`

	RevalidateSecret string

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`
}

// Load reads configuration from the environment after applying an optional
// .env file from the working directory.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := FromEnv()
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func FromEnv() Config {
	apiEndpoint := strings.TrimRight(getEnv("BLOG_PRISMIC_API_ENDPOINT", "https://spacetraveling.cdn.prismic.io/api/v2"), "/")

	return Config{
		ListenAddr: getEnv("BLOG_LISTEN_ADDR", ":8080"),
		StaticDir:  getEnv("BLOG_STATIC_DIR", "internal/web/static"),
		RootURL:    getEnv("BLOG_ROOT_URL", ""),
		SiteName:   getEnv("BLOG_SITE_NAME", "spacetraveling"),
		Locale:     getEnv("BLOG_LOCALE", "pt-BR"),
		TimeZone:   getEnv("BLOG_TIMEZONE", "UTC"),

		PrismicAPIEndpoint:     apiEndpoint,
		PrismicGraphQLEndpoint: getEnv("BLOG_PRISMIC_GRAPHQL_ENDPOINT", graphQLEndpointFor(apiEndpoint)),
		PrismicAccessToken:     os.Getenv("BLOG_PRISMIC_ACCESS_TOKEN"),
		PrismicLang:            getEnv("BLOG_PRISMIC_LANG", "pt-br"),
		PageSize:               getEnvInt("BLOG_PRISMIC_PAGE_SIZE", 20),

		Fallback: strings.ToLower(getEnv("BLOG_FALLBACK", "true")),

		PageCache:      strings.ToLower(getEnv("BLOG_PAGE_CACHE", PageCacheMemory)),
		PageCacheDir:   getEnv("BLOG_PAGE_CACHE_DIR", "data/pages"),
		PageCacheTTL:   getEnvDuration("BLOG_PAGE_CACHE_TTL", 0),
		RedisAddr:      os.Getenv("BLOG_REDIS_ADDR"),
		RedisKeyPrefix: getEnv("BLOG_REDIS_KEY_PREFIX", "spacetraveling"),

		PrerenderOnStart:     getEnvBool("BLOG_PRERENDER_ON_START", false),
		PrerenderConcurrency: getEnvInt("BLOG_PRERENDER_CONCURRENCY", 4),

		RevalidateSecret: os.Getenv("BLOG_REVALIDATE_SECRET"),

		LogLevel:  strings.ToLower(getEnv("BLOG_LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("BLOG_LOG_FORMAT", "json")),
	}
}

func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			parts := make([]string, 0, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				parts = append(parts, fmt.Sprintf("%s failed %q", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(parts, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// graphQLEndpointFor maps https://repo.cdn.prismic.io/api/v2 to https://repo.cdn.prismic.io/graphql.
func graphQLEndpointFor(apiEndpoint string) string {
	base, _, _ := strings.Cut(apiEndpoint, "/api")
	return base + "/graphql"
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}

	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}

	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}

	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		return fallback
	}

	return parsed
}
