package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/limaJavier/cttfeatures/pkg/model"
	"github.com/samber/lo"
)

// Config holds the application settings shared by the binaries.
type Config struct {
	ServerPort     string
	GinMode        string
	LogLevel       string
	LogFormat      string
	EngineConfig   string // Optional path to a JSON engine configuration
	RedisURL       string // Caching is disabled when empty
	CacheTTL       time.Duration
	AllowedOrigins []string
	Workers        int // Overrides the engine's worker count when positive
}

// Load reads settings from the environment, loading a .env file first when
// one is present.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "release"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		EngineConfig:   getEnv("ENGINE_CONFIG", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		CacheTTL:       time.Duration(getEnvInt("CACHE_TTL_MINUTES", 60)) * time.Minute,
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
		Workers:        getEnvInt("WORKERS", 0),
	}
}

// EngineSettings resolves the engine configuration: the JSON file named by
// EngineConfig when set, DefaultConfig otherwise, with Workers applied on top.
func (cfg *Config) EngineSettings() (model.Config, error) {
	engineConfig := model.DefaultConfig()
	if cfg.EngineConfig != "" {
		var err error
		if engineConfig, err = model.ConfigFromJson(cfg.EngineConfig); err != nil {
			return model.Config{}, fmt.Errorf("cannot load engine configuration: %w", err)
		}
	}
	if cfg.Workers > 0 {
		engineConfig.Workers = cfg.Workers
	}
	return engineConfig, engineConfig.Validate()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseOrigins(raw string) []string {
	return lo.Compact(lo.Map(strings.Split(raw, ","), func(origin string, _ int) string {
		return strings.TrimSpace(origin)
	}))
}
