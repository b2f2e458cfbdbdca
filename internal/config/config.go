// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Database types
const (
	SQLiteDatabase = "sqlite"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName               string   `mapstructure:"appname"`
	AppPort               string   `mapstructure:"appport"`
	Environment           string   `mapstructure:"environment"`
	LogLevel              LogLevel `mapstructure:"loglevel"`
	PrivateKey            string   `mapstructure:"privatekey"`
	SessionTimeoutSeconds int      `mapstructure:"sessiontimeoutseconds"`
	CSRFContextKey        string   `mapstructure:"-"`
	Domain                string   `mapstructure:"domain"`

	// File paths
	DatabasePath          string `mapstructure:"storagepath"`
	DatabaseName          string `mapstructure:"-"` // Derived from other settings
	PublicDirectory       string `mapstructure:"publicdir"`
	PublicAssetsUrlPrefix string `mapstructure:"publicassetsurlprefix"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseType         string `mapstructure:"dbtype"`
	DatabaseMaxOpenConns int    `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int    `mapstructure:"dbmaxidleconns"`

	// Commerce API settings
	CommerceAPIVersion        string `mapstructure:"commerceapiversion"`
	CommercePageSize          int    `mapstructure:"commercepagesize"`
	CommerceTimeoutSeconds    int    `mapstructure:"commercetimeoutseconds"`
	AnalyticsCustomerCap      int    `mapstructure:"analyticscustomercap"`
	AnalyticsOrderCap         int    `mapstructure:"analyticsordercap"`
	AnalyticsTopCustomerCount int    `mapstructure:"analyticstopcustomercount"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		// Set defaults
		v.SetDefault("appname", "shoplens")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("privatekey", "88888888888888888888888888888888")
		v.SetDefault("sessiontimeoutseconds", 604800) // 1 week
		v.SetDefault("storagepath", "storage")
		v.SetDefault("publicdir", "web/dist/assets")
		v.SetDefault("publicassetsurlprefix", "/")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("dbtype", SQLiteDatabase)
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("commerceapiversion", "2024-07")
		v.SetDefault("commercepagesize", 250)
		v.SetDefault("commercetimeoutseconds", 30)
		v.SetDefault("analyticscustomercap", 2000)
		v.SetDefault("analyticsordercap", 2000)
		v.SetDefault("analyticstopcustomercount", 10)

		// Bind environment variables
		v.BindEnv("appname", "SHOPLENS_APP_NAME")
		v.BindEnv("appport", "SHOPLENS_APP_PORT")
		v.BindEnv("environment", "SHOPLENS_ENV")
		v.BindEnv("loglevel", "SHOPLENS_LOG_LEVEL")
		v.BindEnv("privatekey", "SHOPLENS_PRIVATE_KEY")
		v.BindEnv("sessiontimeoutseconds", "SHOPLENS_SESSION_TIMEOUT_SECONDS")
		v.BindEnv("domain", "SHOPLENS_DOMAIN")
		v.BindEnv("storagepath", "SHOPLENS_STORAGE_PATH")
		v.BindEnv("publicdir", "SHOPLENS_PUBLIC_DIR")
		v.BindEnv("publicassetsurlprefix", "SHOPLENS_PUBLIC_ASSETS_URL_PREFIX")
		v.BindEnv("logsdir", "SHOPLENS_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "SHOPLENS_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "SHOPLENS_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "SHOPLENS_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("dbtype", "SHOPLENS_DB_TYPE")
		v.BindEnv("dbmaxopenconns", "SHOPLENS_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "SHOPLENS_DB_MAX_IDLE_CONNS")
		v.BindEnv("commerceapiversion", "SHOPLENS_COMMERCE_API_VERSION")
		v.BindEnv("commercepagesize", "SHOPLENS_COMMERCE_PAGE_SIZE")
		v.BindEnv("commercetimeoutseconds", "SHOPLENS_COMMERCE_TIMEOUT_SECONDS")
		v.BindEnv("analyticscustomercap", "SHOPLENS_ANALYTICS_CUSTOMER_CAP")
		v.BindEnv("analyticsordercap", "SHOPLENS_ANALYTICS_ORDER_CAP")
		v.BindEnv("analyticstopcustomercount", "SHOPLENS_ANALYTICS_TOP_CUSTOMER_COUNT")

		cfg = &Config{
			CSRFContextKey: "csrf",
		}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		// Validate
		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		// Set derived values
		cfg.DatabaseName = cfg.GetDatabasePath()

		// Validate private key - in production, must be explicitly set (not empty, not default)
		defaultKey := "88888888888888888888888888888888"
		if cfg.PrivateKey == "" {
			log.Fatal("Private key is required")
		}
		if cfg.IsProduction() && cfg.PrivateKey == defaultKey {
			log.Fatal("Production requires a unique SHOPLENS_PRIVATE_KEY (cannot use default)")
		}
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validDBTypes := map[string]bool{
		SQLiteDatabase: true,
	}
	if !validDBTypes[c.DatabaseType] {
		return fmt.Errorf("invalid database type: %s", c.DatabaseType)
	}

	if c.CommercePageSize < 1 || c.CommercePageSize > 250 {
		return fmt.Errorf("invalid commerce page size: %d", c.CommercePageSize)
	}
	if c.AnalyticsCustomerCap < 1 || c.AnalyticsOrderCap < 1 {
		return fmt.Errorf("analytics caps must be positive")
	}

	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.DatabasePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.DatabaseName
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetPort returns the HTTP server port (implements cartridge.Config interface).
func (c *Config) GetPort() string {
	return c.AppPort
}

// GetPublicDirectory returns the path to public/static assets (implements cartridge.Config interface).
func (c *Config) GetPublicDirectory() string {
	return c.PublicDirectory
}

// GetAssetsPrefix returns the URL prefix for static assets (implements cartridge.Config interface).
func (c *Config) GetAssetsPrefix() string {
	return c.PublicAssetsUrlPrefix
}

// GetAppName returns the application name (implements cartridge.FactoryConfig interface).
func (c *Config) GetAppName() string {
	return c.AppName
}

// DatabaseDSN returns the database connection string (implements cartridge.FactoryConfig interface).
func (c *Config) DatabaseDSN() string {
	return c.GetDatabasePath()
}

// GetSessionSecret returns the session encryption key (implements cartridge.FactoryConfig interface).
func (c *Config) GetSessionSecret() string {
	return c.PrivateKey
}

// GetLoginSessionTimeout returns the admin session timeout in seconds.
func (c *Config) GetLoginSessionTimeout() int {
	return c.SessionTimeoutSeconds
}

// GetMaxOpenConns returns the appropriate MaxOpenConns value based on environment
// If explicitly set via env var, uses that value. Otherwise:
// - Test: 1 (required for E2E test stability)
// - Development/Production: 10 (allows concurrent reads for parallel page loads)
func (c *Config) GetMaxOpenConns() int {
	if c.DatabaseMaxOpenConns > 0 {
		return c.DatabaseMaxOpenConns
	}

	if c.Environment == Test {
		return 1 // Required for E2E test stability
	}

	return 10 // Higher concurrency for development and production
}

// GetMaxIdleConns returns the appropriate MaxIdleConns value based on environment
// If explicitly set via env var, uses that value. Otherwise:
// - Test: 1 (matches MaxOpenConns for test stability)
// - Development/Production: 5 (keep half the connections warm for reuse)
func (c *Config) GetMaxIdleConns() int {
	if c.DatabaseMaxIdleConns > 0 {
		return c.DatabaseMaxIdleConns
	}

	if c.Environment == Test {
		return 1 // Matches MaxOpenConns for test stability
	}

	return 5 // Keep half the pool warm for development and production
}

// GetLogLevel returns the log level as a string (implements cartridge.LogConfigProvider).
func (c *Config) GetLogLevel() string {
	return string(c.LogLevel)
}

// GetLogDirectory returns the logs directory (implements cartridge.LogConfigProvider).
func (c *Config) GetLogDirectory() string {
	return c.LogsDirectory
}

// GetLogMaxSizeMB returns the max log file size in MB (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxSizeMB() int {
	return c.LogsMaxSizeInMb
}

// GetLogMaxBackups returns the max number of log backups (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxBackups() int {
	return c.LogsMaxBackups
}

// GetLogMaxAgeDays returns the max age in days for log files (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxAgeDays() int {
	return c.LogsMaxAgeInDays
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
