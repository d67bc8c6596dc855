package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIVersion = "2025-10"

type Config struct {
	// Database
	DatabaseURL    string
	DatabaseDriver string

	// Kafka
	KafkaBrokers          string
	KafkaSyncRequestTopic string
	KafkaSyncEventTopic   string

	// API Configuration
	APIPort            string
	APIHost            string
	AdminAPIKey        string
	CORSAllowedOrigins []string
	PermalinkBase      string
	CartCookieName     string

	// Shopify
	ShopDomain      string
	AdminToken      string
	StorefrontToken string
	APIVersion      string
	ShopifyTimeout  time.Duration

	// Sync
	SyncEnabled  bool
	SyncInterval time.Duration
	SyncPageSize int

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:           getEnv("DATABASE_URL", "sqlite://storesync.db"),
		DatabaseDriver:        getEnv("DATABASE_DRIVER", "pgx"),
		KafkaBrokers:          getEnv("KAFKA_BROKERS", ""),
		KafkaSyncRequestTopic: getEnv("KAFKA_SYNC_REQUEST_TOPIC", "catalog-sync-requests"),
		KafkaSyncEventTopic:   getEnv("KAFKA_SYNC_EVENT_TOPIC", "catalog-sync-events"),
		APIPort:               getEnv("API_PORT", "8080"),
		APIHost:               getEnv("API_HOST", "0.0.0.0"),
		AdminAPIKey:           getEnv("ADMIN_API_KEY", ""),
		CORSAllowedOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		PermalinkBase:         getEnv("PERMALINK_BASE", "/shop/"),
		CartCookieName:        getEnv("CART_COOKIE_NAME", "storesync_cart_id"),
		ShopDomain:            getEnv("SHOPIFY_SHOP_DOMAIN", ""),
		AdminToken:            getEnv("SHOPIFY_ADMIN_TOKEN", ""),
		StorefrontToken:       getEnv("SHOPIFY_STOREFRONT_TOKEN", ""),
		APIVersion:            ResolveAPIVersion(getEnv("SHOPIFY_API_VERSION", "")),
		ShopifyTimeout:        time.Duration(getEnvAsInt("SHOPIFY_TIMEOUT_SECONDS", 30)) * time.Second,
		SyncEnabled:           getEnvAsBool("SYNC_ENABLED", false),
		SyncInterval:          time.Duration(getEnvAsInt("SYNC_INTERVAL_MINUTES", 60)) * time.Minute,
		SyncPageSize:          getEnvAsInt("SYNC_PAGE_SIZE", 50),
		Env:                   getEnv("ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}, nil
}

// ValidateShopify reports the first missing Shopify credential.
func (c *Config) ValidateShopify() error {
	switch {
	case c.ShopDomain == "":
		return errors.New("SHOPIFY_SHOP_DOMAIN is required")
	case c.AdminToken == "":
		return errors.New("SHOPIFY_ADMIN_TOKEN is required")
	case c.StorefrontToken == "":
		return errors.New("SHOPIFY_STOREFRONT_TOKEN is required")
	}
	return nil
}

// ResolveAPIVersion falls back to DefaultAPIVersion for blank input.
func ResolveAPIVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return DefaultAPIVersion
	}
	return version
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
