package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL            string
	Port                   string
	GoEnv                  string
	Auth0Domain            string
	Auth0Audience          string
	AWSRegion              string
	AWSS3Bucket            string
	AWSAccessKeyID         string
	AWSSecretAccessKey     string
	LogLevel               string
	CORSAllowedOrigins     []string
	StrictTransitions      bool
	OrderNumberMaxAttempts int
	SeedCatalog            bool
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// Deployed environments set variables directly, so missing files are fine
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	strict, err := getEnvBool("STRICT_TRANSITIONS", false)
	if err != nil {
		return nil, err
	}
	seed, err := getEnvBool("SEED_CATALOG", false)
	if err != nil {
		return nil, err
	}
	maxAttempts, err := getEnvInt("ORDER_NUMBER_MAX_ATTEMPTS", 20)
	if err != nil {
		return nil, err
	}

	config := &Config{
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		Port:                   getEnv("PORT", "8080"),
		GoEnv:                  getEnv("GO_ENV", "development"),
		Auth0Domain:            getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:          getEnv("AUTH0_AUDIENCE", ""),
		AWSRegion:              getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:            getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:         getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		StrictTransitions:      strict,
		OrderNumberMaxAttempts: maxAttempts,
		SeedCatalog:            seed,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.OrderNumberMaxAttempts <= 0 {
		return fmt.Errorf("ORDER_NUMBER_MAX_ATTEMPTS must be positive, got %d", c.OrderNumberMaxAttempts)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// GetConfig returns the loaded configuration.
// Before Load has run it returns development defaults so handlers stay usable in tests.
func GetConfig() *Config {
	if appConfig == nil {
		return &Config{
			Port:                   "8080",
			GoEnv:                  "development",
			AWSRegion:              "us-east-1",
			LogLevel:               "info",
			CORSAllowedOrigins:     []string{"*"},
			OrderNumberMaxAttempts: 20,
		}
	}
	return appConfig
}

// SetConfig replaces the global configuration (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	return parsed, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return parsed, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
