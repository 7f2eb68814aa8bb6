package config

import (
	"time"

	"healthontrack/pkg/logger"
	"healthontrack/pkg/util"
)

// Config holds every runtime setting of the service. It is populated once at
// process start from the environment and never re-read.
type Config struct {
	Addr string `env:"ADDR"`
	Mode string `env:"MODE"` // gin mode: debug|release|test

	// Persistence. Backend is picked once at startup: "sqlite" for the
	// durable file-backed store, "memory" for the volatile demo store used
	// on hosts without writable local disk.
	DBBackend string `env:"DB_BACKEND"`
	DBPath    string `env:"DB_PATH"`

	// Emergency request lifecycle. When true (the default), status updates
	// must follow the legal transition table; an explicit override in the
	// request body can still bypass it.
	StrictTransitions bool `env:"EMERGENCY_STRICT_TRANSITIONS"`

	Log logger.LogConfig

	// Outbound generative-language API (OpenAI-compatible).
	LLMApiKey  string        `env:"LLM_API_KEY"`
	LLMBaseURL string        `env:"LLM_BASE_URL"`
	LLMModel   string        `env:"LLM_MODEL"`
	LLMTimeout time.Duration `env:"LLM_TIMEOUT"`

	// Rate limit in ulule format, e.g. "100-M".
	RateLimit string `env:"RATE_LIMIT"`

	TrainCacheTTL time.Duration `env:"TRAIN_CACHE_TTL"`
}

// Load reads the environment (plus an optional .env file selected by APP_ENV)
// and returns the resolved configuration.
func Load() (*Config, error) {
	env := util.GetEnv("APP_ENV", "development")
	if err := util.LoadEnv(env); err != nil {
		// .env files are optional; real env vars win either way.
		_ = err
	}

	cfg := &Config{
		Addr:              util.GetEnv("ADDR", ":8080"),
		Mode:              util.GetEnv("MODE", "release"),
		DBBackend:         util.GetEnv("DB_BACKEND", "sqlite"),
		DBPath:            util.GetEnv("DB_PATH", "data/healthontrack.db"),
		StrictTransitions: util.GetBoolEnv("EMERGENCY_STRICT_TRANSITIONS", true),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL", "info"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE", 100)),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE", 7)),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS", 3)),
		},
		LLMApiKey:     util.GetEnv("LLM_API_KEY"),
		LLMBaseURL:    util.GetEnv("LLM_BASE_URL"),
		LLMModel:      util.GetEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:    util.GetDurationEnv("LLM_TIMEOUT", 30*time.Second),
		RateLimit:     util.GetEnv("RATE_LIMIT", "100-M"),
		TrainCacheTTL: util.GetDurationEnv("TRAIN_CACHE_TTL", 5*time.Minute),
	}
	return cfg, nil
}
