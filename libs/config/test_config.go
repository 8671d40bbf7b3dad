package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads database settings for integration tests from TEST_DB_* variables.
// It returns nil when TEST_DB_HOST is not set so callers can skip.
func LoadTestConfig() *Config {
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	if os.Getenv("TEST_DB_HOST") == "" {
		return nil
	}

	l := &loader{}
	cfg := &Config{}
	cfg.Database.Host = os.Getenv("TEST_DB_HOST")
	cfg.Database.Port = l.int("TEST_DB_PORT", 3306)
	cfg.Database.User = l.string("TEST_DB_USER", "root")
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")
	cfg.Database.DBName = l.string("TEST_DB_NAME", "skillbridge_test")
	if l.err != nil {
		return nil
	}

	return cfg
}
