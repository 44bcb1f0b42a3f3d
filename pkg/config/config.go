// Файл: pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type BackendConfig struct {
	BaseURL string
	// Timeout == 0 означает отсутствие таймаута на стороне клиента.
	Timeout time.Duration
}

type StorageConfig struct {
	Driver string // file | redis | memory
	Path   string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Prefix   string
}

type PaginationConfig struct {
	DirectoryPerPage int
	RosterPerPage    int
	DeskPerPage      int
	EngineersPerPage int
	MaxPages         int
}

type LogConfig struct {
	Level string
	File  string
}

type Config struct {
	Server     ServerConfig
	Backend    BackendConfig
	Storage    StorageConfig
	Redis      RedisConfig
	Pagination PaginationConfig
	Log        LogConfig
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:4200", "http://localhost:5173"}),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:5000/api"), "/"),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", 0),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "file"),
			Path:   getEnv("STORAGE_PATH", "./data/local-storage.json"),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "request-console:"),
		},
		Pagination: PaginationConfig{
			DirectoryPerPage: getEnvInt("DIRECTORY_PER_PAGE", 10),
			RosterPerPage:    getEnvInt("ROSTER_PER_PAGE", 6),
			DeskPerPage:      getEnvInt("DESK_PER_PAGE", 10),
			EngineersPerPage: getEnvInt("ENGINEERS_PER_PAGE", 10),
			MaxPages:         getEnvInt("MAX_PAGES", 100),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "debug"),
			File:  getEnv("LOG_FILE", "./logs/app.log"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		log.Printf("Предупреждение: некорректное значение %s=%q, используется %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d < 0 {
		log.Printf("Предупреждение: некорректное значение %s=%q, используется %s", key, value, fallback)
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
