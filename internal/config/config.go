package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server Settings
	AppName     string
	Port        string
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBTimeZone  string

	// JWT Settings
	JWTSecret     string
	JWTExpiration time.Duration

	// Storage
	UploadDir string

	// Messaging: how often clients re-fetch a conversation
	PollInterval time.Duration

	// CORS Settings
	CORSAllowOrigins string

	// Seeded administrator
	AdminEmail    string
	AdminUsername string
	AdminPassword string
}

// Load reads configuration from the environment, after applying a .env file if one exists
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment
func FromEnv() (*Config, error) {
	expHours, err := intEnv("JWT_EXPIRES_IN", 24)
	if err != nil {
		return nil, err
	}
	pollMillis, err := intEnv("POLL_INTERVAL_MS", 3000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppName:     env("APP_NAME", "DevMarket Philippines"),
		Port:        env("PORT", "3000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      env("DB_HOST", "localhost"),
		DBUser:      env("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      env("DB_NAME", "devmarket"),
		DBPort:      env("DB_PORT", "5432"),
		DBTimeZone:  env("DB_TIMEZONE", "Asia/Manila"),

		JWTSecret:     env("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration: time.Duration(expHours) * time.Hour,

		UploadDir:    env("UPLOAD_DIR", "./uploads"),
		PollInterval: time.Duration(pollMillis) * time.Millisecond,

		CORSAllowOrigins: env("CORS_ALLOW_ORIGINS", "*"),

		AdminEmail:    env("ADMIN_EMAIL", "admin@devmarket.ph"),
		AdminUsername: env("ADMIN_USERNAME", "admin"),
		AdminPassword: env("ADMIN_PASSWORD", "admin123"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return errors.New("POLL_INTERVAL_MS must be positive")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if strings.TrimSpace(c.UploadDir) == "" {
		return errors.New("UPLOAD_DIR must not be empty")
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* variables
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBTimeZone,
	)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
