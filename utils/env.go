package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnv parses the variable named key, falling back to defaultVal when it is
// unset, empty or does not parse.
func getEnv[T any](key string, defaultVal T, parse func(string) (T, error)) T {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return defaultVal
	}
	result, err := parse(strings.TrimSpace(value))
	if err != nil {
		return defaultVal
	}
	return result
}

func GetEnvAsInt(key string, defaultVal int) int {
	return getEnv(key, defaultVal, strconv.Atoi)
}

func GetEnvAsInt64(key string, defaultVal int64) int64 {
	return getEnv(key, defaultVal, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

// GetEnvAsDuration accepts Go duration strings ("30s") or a bare number of
// seconds.
func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	return getEnv(key, defaultVal, func(s string) (time.Duration, error) {
		if secs, err := strconv.Atoi(s); err == nil {
			return time.Duration(secs) * time.Second, nil
		}
		return time.ParseDuration(s)
	})
}

func GetEnvAsBool(key string, defaultVal bool) bool {
	return getEnv(key, defaultVal, strconv.ParseBool)
}

func GetEnvAsString(key string, defaultVal string) string {
	return getEnv(key, defaultVal, func(s string) (string, error) { return s, nil })
}

// GetEnvAsList splits a comma-separated variable, dropping blank entries.
func GetEnvAsList(key string, defaultVal []string) []string {
	return getEnv(key, defaultVal, func(s string) ([]string, error) {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	})
}
