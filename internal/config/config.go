// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Shopify  ShopifyConfig
	SMTP     SMTPConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the connection settings. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver     string
	URLEnv     string
	SQLitePath string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	Debug      bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
	LogLevel   string
	DemoOrders bool
	// DevShop is the shop used in dev mode when a request names none.
	DevShop string
}

// ShopifyConfig holds the app credentials and Admin API settings.
type ShopifyConfig struct {
	APIKey      string
	APISecret   string
	APIVersion  string
	Scopes      string
	AccessToken string
	HTTPTimeout int // seconds
}

// SMTPConfig holds the outgoing mail server. Credentials come from each shop's settings.
type SMTPConfig struct {
	Host string
	Port int
}

// DSN returns the PostgreSQL connection string in key=value format.
// DATABASE_URL, when set, wins.
func (d DatabaseConfig) DSN() string {
	if d.URLEnv != "" {
		return d.URLEnv
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	if d.URLEnv != "" {
		return d.URLEnv
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Timeout returns the Admin API HTTP timeout.
func (s ShopifyConfig) Timeout() time.Duration {
	return time.Duration(s.HTTPTimeout) * time.Second
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URLEnv:     getEnv("DATABASE_URL", ""),
			SQLitePath: getEnv("SQLITE_PATH", "shop-invoices.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "invoices"),
			Password:   getEnv("DB_PASSWORD", "invoices123"),
			DBName:     getEnv("DB_NAME", "shop_invoices"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			Debug:      getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", false),
			Migrations: getEnvBool("MIGRATIONS", false),
			LogLevel:   getEnv("LOG_LEVEL", "info"),
			DemoOrders: getEnvBool("DEMO_ORDERS", false),
			DevShop:    getEnv("SHOP", ""),
		},
		Shopify: ShopifyConfig{
			APIKey:      getEnv("SHOPIFY_API_KEY", ""),
			APISecret:   getEnv("SHOPIFY_API_SECRET", ""),
			APIVersion:  getEnv("SHOPIFY_API_VERSION", "2024-10"),
			Scopes:      getEnv("SCOPES", "read_orders,read_customers"),
			AccessToken: getEnv("SHOPIFY_ACCESS_TOKEN", ""),
			HTTPTimeout: getEnvInt("SHOPIFY_HTTP_TIMEOUT", 10),
		},
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port: getEnvInt("SMTP_PORT", 465),
		},
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q: want postgres or sqlite", c.Database.Driver))
	}
	if !c.App.Dev && c.Shopify.APISecret == "" {
		errs = append(errs, errors.New("SHOPIFY_API_SECRET is required outside dev mode"))
	}
	if c.Shopify.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("SHOPIFY_HTTP_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
