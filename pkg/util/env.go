package util

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// LoadEnv loads the .env file for the given environment, e.g. ".env.development".
// A plain ".env" is tried as a fallback. Missing files are not an error: in
// production configuration usually comes from real environment variables.
func LoadEnv(env string) error {
	if env != "" {
		if err := godotenv.Load(fmt.Sprintf(".env.%s", env)); err == nil {
			return nil
		}
	}
	return godotenv.Load()
}

// GetEnv returns the value of an environment variable, or the first fallback
// when the variable is unset or empty.
func GetEnv(key string, fallback ...string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

// GetIntEnv returns the variable parsed as int64, or the fallback.
func GetIntEnv(key string, fallback ...int64) int64 {
	if v := os.Getenv(key); v != "" {
		return cast.ToInt64(v)
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return 0
}

// GetBoolEnv returns the variable parsed as bool ("1", "true", "on"...), or the fallback.
func GetBoolEnv(key string, fallback ...bool) bool {
	if v := os.Getenv(key); v != "" {
		return cast.ToBool(v)
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return false
}

// GetDurationEnv returns the variable parsed as a time.Duration ("30s", "5m"),
// or the fallback.
func GetDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d := cast.ToDuration(v); d > 0 {
			return d
		}
	}
	return fallback
}
