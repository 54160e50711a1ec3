package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	Client   ClientConfig
}

type AppConfig struct {
	Port        string
	Env         string
	PublicURL   string // dipakai untuk link QR di PDF roster
	AuthEnabled bool
}

type DatabaseConfig struct {
	Driver   string // pgx | sqlite3
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string // file sqlite
}

type JWTConfig struct {
	Secret          string
	ExpireHours     int
	RefreshExpHours int
}

type MinIOConfig struct {
	Endpoint string
	User     string
	Password string
	Bucket   string
	UseSSL   bool
}

// Enabled MinIO hanya dipakai jika endpoint diisi
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// ClientConfig konfigurasi untuk CLI roster
type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func Load() *Config {
	// Load .env jika ada (development), di production pakai env variable langsung
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	jwtExpire, _ := strconv.Atoi(getEnv("JWT_EXPIRE_HOURS", "24"))
	jwtRefreshExpire, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRE_HOURS", "168"))
	minioSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisTTL, err := time.ParseDuration(getEnv("REDIS_TTL", "5m"))
	if err != nil {
		redisTTL = 5 * time.Minute
	}
	clientTimeout, err := time.ParseDuration(getEnv("ROSTER_TIMEOUT", "15s"))
	if err != nil {
		clientTimeout = 15 * time.Second
	}

	port := getEnv("APP_PORT", "8080")

	return &Config{
		App: AppConfig{
			Port:        port,
			Env:         getEnv("APP_ENV", "development"),
			PublicURL:   strings.TrimRight(getEnv("APP_PUBLIC_URL", "http://localhost:"+port), "/"),
			AuthEnabled: getEnvBool("AUTH_ENABLED", true),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "pgx"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "roster_user"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "roster_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "roster.db"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "change-this-secret"),
			ExpireHours:     jwtExpire,
			RefreshExpHours: jwtRefreshExpire,
		},
		MinIO: MinIOConfig{
			Endpoint: getEnv("MINIO_ENDPOINT", ""),
			User:     getEnv("MINIO_USER", "minioadmin"),
			Password: getEnv("MINIO_PASSWORD", "minioadmin123"),
			Bucket:   getEnv("MINIO_BUCKET", "roster-photos"),
			UseSSL:   minioSSL,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      redisTTL,
		},
		Client: ClientConfig{
			BaseURL: strings.TrimRight(getEnv("ROSTER_BASE_URL", "http://localhost:"+port+"/api/v1"), "/"),
			Token:   getEnv("ROSTER_TOKEN", ""),
			Timeout: clientTimeout,
		},
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	val, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return val
}
