/*
Copyright (C) 2026 Orchesterbuero Kollektiv

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"os"
	"strconv"
	"strings"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment  string
	HTTPBind     string
	HTTPPort     int
	DBPath       string // sqlite database file, empty disables persistence
	ContractPath string // optional YAML overriding contract defaults
	MetricsBind  string
}

// Load reads environment variables and applies defaults. None of the keys
// are required; the engine runs fully in memory without a database.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:  getEnv("DIENSTPLAN_ENV", "development"),
		HTTPBind:     getEnv("DIENSTPLAN_HTTP_BIND", "0.0.0.0"),
		HTTPPort:     getEnvInt("DIENSTPLAN_HTTP_PORT", 8080),
		DBPath:       getEnv("DIENSTPLAN_DB_PATH", ""),
		ContractPath: getEnv("DIENSTPLAN_CONTRACT_PATH", ""),
		MetricsBind:  getEnv("DIENSTPLAN_METRICS_BIND", ""),
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return def
}
