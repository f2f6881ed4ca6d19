package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPass     string
	DBName     string
	ServerPort string
	RedisURL   string
	RedisTTL   time.Duration
	Env        string

	JWTSecret string
	JWTTTL    time.Duration

	MinioURL       string
	MinioPublicURL string
	MinioUser      string
	MinioPassword  string
	MinioBucket    string

	GeoIPDBPath string

	// EarlyAccessLimit is the number of accounts that may register without
	// an invitation code before the invite gate closes.
	EarlyAccessLimit int
	DailyTopicLimit  int

	// LegacyAdminUsername preserves the historical username-based admin
	// bypass. Empty string disables it so only level=admin counts.
	LegacyAdminUsername string
}

func LoadConfig() Config {
	ttlStr := getEnv("REDIS_TTL", "5m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = 5 * time.Minute
	}

	jwtTTLStr := getEnv("JWT_TTL", "168h")
	jwtTTL, err := time.ParseDuration(jwtTTLStr)
	if err != nil {
		jwtTTL = 7 * 24 * time.Hour
	}

	return Config{
		DBHost:              getEnv("DB_HOST", "postgres"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPass:              getEnv("DB_PASSWORD", "password"),
		DBName:              getEnv("DB_NAME", "db_truthboard"),
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		RedisURL:            getEnv("REDIS_URL", "redis:6379"),
		RedisTTL:            ttl,
		Env:                 getEnv("ENV", "dev"),
		JWTSecret:           getEnv("JWT_SECRET", "dev_secret_key_123"),
		JWTTTL:              jwtTTL,
		MinioURL:            getEnv("MINIO_URL", "localhost:9000"),
		MinioPublicURL:      getEnv("MINIO_PUBLIC_URL", ""),
		MinioUser:           getEnv("MINIO_USER", "minioadmin"),
		MinioPassword:       getEnv("MINIO_PASSWORD", "minioadmin"),
		MinioBucket:         getEnv("MINIO_BUCKET", "truthboard-avatars"),
		GeoIPDBPath:         getEnv("GEOIP_DB_PATH", ""),
		EarlyAccessLimit:    getEnvAsInt("EARLY_ACCESS_LIMIT", 50),
		DailyTopicLimit:     getEnvAsInt("DAILY_TOPIC_LIMIT", 5),
		LegacyAdminUsername: getEnv("LEGACY_ADMIN_USERNAME", "admin"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}
