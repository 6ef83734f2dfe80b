package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultJWKSURL publishes the keys that sign Firebase Auth ID tokens.
const DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

const defaultCORSOrigins = "http://localhost:3000,http://localhost:9002,https://waf-61e8b.web.app,https://waf-61e8b.firebaseapp.com"

type Config struct {
	Port        string
	MetricsPort string // Admin listener for /metrics; empty disables it
	Environment string
	APIPrefix   string
	CORSOrigins []string

	// Identity provider
	AuthVerifier      string // "jwks" or "oidc"
	FirebaseProjectID string
	AuthIssuer        string // Defaults to https://securetoken.google.com/<project>
	AuthAudience      string // Defaults to the project ID
	AuthJWKSURL       string

	// Document store
	StoreDriver string // "postgres" or "memory"
	DatabaseURL string
	TablePrefix string
	AutoMigrate bool

	// Generative AI
	AIProvider      string // "anthropic" or "lorem"
	AnthropicAPIKey string
	AIModel         string
	AIBaseURL       string
	AIMaxTokens     int
	AITimeout       time.Duration

	RequestTimeout time.Duration

	// Tracing
	TraceExporter string // "none", "stdout" or "otlp"

	// Logging
	LogDir      string
	LogMaxFiles int
	Debug       bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	projectID := getEnv("FIREBASE_PROJECT_ID", "")

	issuer := getEnv("AUTH_ISSUER", "")
	if issuer == "" && projectID != "" {
		issuer = "https://securetoken.google.com/" + projectID
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MetricsPort: getEnvAllowEmpty("METRICS_PORT", "9090"),
		Environment: env,
		APIPrefix:   strings.TrimRight(getEnv("API_PREFIX", "/api/v1"), "/"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", defaultCORSOrigins)),

		AuthVerifier:      getEnv("AUTH_VERIFIER", "jwks"),
		FirebaseProjectID: projectID,
		AuthIssuer:        issuer,
		AuthAudience:      getEnv("AUTH_AUDIENCE", projectID),
		AuthJWKSURL:       getEnv("AUTH_JWKS_URL", DefaultJWKSURL),

		StoreDriver: getEnv("STORE_DRIVER", "postgres"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",

		AIProvider:      getEnv("AI_PROVIDER", "anthropic"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AIModel:         getEnv("AI_MODEL", "claude-haiku-4-5-20251001"),
		AIBaseURL:       getEnv("AI_BASE_URL", ""),
		AIMaxTokens:     getEnvInt("AI_MAX_TOKENS", 2048),
		AITimeout:       getEnvDuration("AI_TIMEOUT", 60*time.Second),

		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 90*time.Second),

		TraceExporter: getEnv("OTEL_EXPORTER", "none"),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
		Debug:       getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.By(isPort)),
		validation.Field(&c.MetricsPort, validation.When(c.MetricsPort != "", validation.By(isPort), validation.NotIn(c.Port))),
		validation.Field(&c.Environment, validation.Required, validation.In("dev", "test", "prod")),
		validation.Field(&c.CORSOrigins, validation.Required),
		validation.Field(&c.AuthVerifier, validation.Required, validation.In("jwks", "oidc")),
		validation.Field(&c.AuthIssuer, validation.Required),
		validation.Field(&c.AuthAudience, validation.Required),
		validation.Field(&c.AuthJWKSURL, validation.When(c.AuthVerifier == "jwks", validation.Required)),
		validation.Field(&c.StoreDriver, validation.Required, validation.In("postgres", "memory")),
		validation.Field(&c.DatabaseURL, validation.When(c.StoreDriver == "postgres", validation.Required)),
		validation.Field(&c.AIProvider, validation.Required, validation.In("anthropic", "lorem")),
		validation.Field(&c.AnthropicAPIKey, validation.When(c.AIProvider == "anthropic", validation.Required)),
		validation.Field(&c.AIModel, validation.Required),
		validation.Field(&c.AIMaxTokens, validation.Min(1)),
		validation.Field(&c.AITimeout, validation.Min(time.Second), validation.By(c.shorterThanRequest)),
		validation.Field(&c.RequestTimeout, validation.Min(time.Second)),
		validation.Field(&c.TraceExporter, validation.Required, validation.In("none", "stdout", "otlp")),
		validation.Field(&c.LogMaxFiles, validation.Min(1)),
	)
}

// shorterThanRequest keeps the AI call inside the request deadline so a slow
// provider is reported by the gateway, not cut off mid-response.
func (c *Config) shorterThanRequest(value interface{}) error {
	d, _ := value.(time.Duration)
	if d >= c.RequestTimeout {
		return fmt.Errorf("must be shorter than the request timeout (%s)", c.RequestTimeout)
	}
	return nil
}

func isPort(value interface{}) error {
	s, _ := value.(string)
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("must be a TCP port number")
	}
	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty is getEnv except that an explicitly empty variable wins.
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
