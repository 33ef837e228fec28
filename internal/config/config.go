// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env                 string `mapstructure:"APP_ENV"`
	Port                string `mapstructure:"PORT"`
	JWTSecret           string `mapstructure:"JWT_SECRET"`
	JWTExpiresIn        string `mapstructure:"JWT_EXPIRES_IN"`
	JWTRefreshExpiresIn string `mapstructure:"JWT_REFRESH_EXPIRES_IN"`
	BcryptCost          int    `mapstructure:"BCRYPT_COST"`

	DBHost               string `mapstructure:"DB_HOST"`
	DBPort               string `mapstructure:"DB_PORT"`
	DBUser               string `mapstructure:"DB_USER"`
	DBPassword           string `mapstructure:"DB_PASSWORD"`
	DBName               string `mapstructure:"DB_NAME"`
	DBSSLMode            string `mapstructure:"DB_SSLMODE"`
	DBMaxOpenConns       int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxIdleSeconds int    `mapstructure:"DB_CONN_MAX_IDLE_SECONDS"`
	DBConnectTimeoutSecs int    `mapstructure:"DB_CONNECT_TIMEOUT_SECONDS"`

	RedisURL          string `mapstructure:"REDIS_URL"`
	AllowedOrigins    string `mapstructure:"ALLOWED_ORIGINS"`
	KeepAliveSchedule string `mapstructure:"KEEPALIVE_SCHEDULE"`

	StorageProvider   string `mapstructure:"STORAGE_PROVIDER"`
	LocalUploadPath   string `mapstructure:"LOCAL_UPLOAD_PATH"`
	R2Region          string `mapstructure:"R2_REGION"`
	R2Endpoint        string `mapstructure:"R2_ENDPOINT"`
	R2AccessKeyID     string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `mapstructure:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `mapstructure:"R2_BUCKET_NAME"`
	R2PublicURL       string `mapstructure:"R2_PUBLIC_URL"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional; environment variables are enough to boot.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRES_IN", "1h")
	viper.SetDefault("JWT_REFRESH_EXPIRES_IN", "720h")
	viper.SetDefault("BCRYPT_COST", 12)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "threadline")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_CONN_MAX_IDLE_SECONDS", 120)
	viper.SetDefault("DB_CONNECT_TIMEOUT_SECONDS", 20)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("KEEPALIVE_SCHEDULE", "*/14 * * * *")
	viper.SetDefault("STORAGE_PROVIDER", "local")
	viper.SetDefault("LOCAL_UPLOAD_PATH", "uploads")
	viper.SetDefault("R2_REGION", "auto")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.StorageProvider = strings.ToLower(strings.TrimSpace(c.StorageProvider))
	c.R2PublicURL = strings.TrimRight(c.R2PublicURL, "/")
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if _, err := time.ParseDuration(c.JWTExpiresIn); err != nil {
		return fmt.Errorf("JWT_EXPIRES_IN must be a duration: %w", err)
	}
	if _, err := time.ParseDuration(c.JWTRefreshExpiresIn); err != nil {
		return fmt.Errorf("JWT_REFRESH_EXPIRES_IN must be a duration: %w", err)
	}

	if c.StorageProvider == "r2" {
		if c.R2Endpoint == "" || c.R2BucketName == "" || c.R2PublicURL == "" {
			return errors.New("R2_ENDPOINT, R2_BUCKET_NAME and R2_PUBLIC_URL are required when STORAGE_PROVIDER is r2")
		}
		if c.R2AccessKeyID == "" || c.R2SecretAccessKey == "" {
			return errors.New("R2 credentials are required when STORAGE_PROVIDER is r2")
		}
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}

// IsProduction reports whether the app runs with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// RateLimitEnabled is false for local and test runs so those workflows are not throttled.
func (c *Config) RateLimitEnabled() bool {
	switch c.Env {
	case "", "development", "test":
		return false
	}
	return true
}

// AccessTokenTTL returns the parsed JWT_EXPIRES_IN. Validate guarantees it parses.
func (c *Config) AccessTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWTExpiresIn)
	return d
}

// RefreshTokenTTL returns the parsed JWT_REFRESH_EXPIRES_IN.
func (c *Config) RefreshTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWTRefreshExpiresIn)
	return d
}
