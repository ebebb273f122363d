// Package config loads server configuration.
//
// Precedence, lowest to highest: built-in defaults, the optional YAML file,
// environment variables (a .env file is loaded first when present, so local
// development does not need exported variables).
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration.
type Config struct {
	Port       int    `yaml:"port"`
	DBPath     string `yaml:"db_path"`
	DigestSpec string `yaml:"digest_spec"`
	LogLevel   string `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		Port:       8080,
		DBPath:     "attendance.db",
		DigestSpec: "0 7 * * *",
		LogLevel:   "info",
	}
}

// Load reads configuration. path may be empty (no file); a missing file at
// an explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment always wins.
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ATTENDANCE_PORT"); ok {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ATTENDANCE_PORT %q", v)
		}
		cfg.Port = p
	}
	if v, ok := os.LookupEnv("ATTENDANCE_DB"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("ATTENDANCE_DIGEST_SPEC"); ok {
		cfg.DigestSpec = v
	}
	if v, ok := os.LookupEnv("ATTENDANCE_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}

	return &cfg, nil
}
