package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the admin service needs from the environment.
type Config struct {
	AppPort int

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisHost     string
	RedisPort     int
	RedisPassword string

	JWTSecret   string
	TokenIssuer string
	TokenTTL    time.Duration

	CacheTTL           time.Duration
	EnableAuditLogging bool
	SeedDefaultGrants  bool
	InsecureAllowAll   bool
}

// LoadConfig reads .env when present and resolves the environment.
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:            getEnvInt("APP_PORT", 8080),
		PostgresHost:       getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:       getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:       getEnv("POSTGRES_USER", "authz_user"),
		PostgresPassword:   getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:         getEnv("POSTGRES_DB", "hospital_authz"),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnvInt("REDIS_PORT", 6379),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenIssuer:        getEnv("TOKEN_ISSUER", "hospadmin"),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 15*time.Minute),
		CacheTTL:           getEnvDuration("CACHE_TTL", 30*time.Minute),
		EnableAuditLogging: getEnvBool("ENABLE_AUDIT_LOGGING", true),
		SeedDefaultGrants:  getEnvBool("SEED_DEFAULT_GRANTS", true),
		InsecureAllowAll:   getEnvBool("INSECURE_ALLOW_ALL", false),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
