// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"
)

// Directory drivers.
const (
	DriverLDAP   = "ldap"
	DriverMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// ServerShutdownTimeout bounds graceful shutdown of the servers.
	ServerShutdownTimeout time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// DirectoryDriver selects the directory backend ("ldap" or "memory").
	DirectoryDriver string
	// LDAPURL is the URL of the LDAP server (ldap:// or ldaps://).
	LDAPURL string
	// LDAPBindDN is the DN used to bind to the LDAP server.
	LDAPBindDN string
	// LDAPBindPassword is the password used to bind to the LDAP server.
	LDAPBindPassword string
	// LDAPBaseDN is the DN the configuration root is created under.
	LDAPBaseDN string
	// LDAPConfigName is the cn of the configuration root.
	LDAPConfigName string
	// LDAPDialTimeout bounds establishing a directory connection.
	LDAPDialTimeout time.Duration
	// LDAPTLSInsecureSkipVerify disables certificate verification of ldaps:// servers.
	LDAPTLSInsecureSkipVerify bool

	// DirectoryRateLimitEnabled indicates whether directory operations are throttled.
	DirectoryRateLimitEnabled bool
	// DirectoryRateLimitRequestsPerSec is the number of directory operations allowed per second.
	DirectoryRateLimitRequestsPerSec float64
	// DirectoryRateLimitBurst is the burst size of the directory throttle.
	DirectoryRateLimitBurst int

	// RegisterUniqueNames claims AE titles and web application names in the registries.
	RegisterUniqueNames bool
	// ChangeLogLevel is the detail of change logs returned by writes ("off", "objects", "verbose").
	ChangeLogLevel string
	// StoreLastModified stamps device entries with their last modification time.
	StoreLastModified bool
	// PreserveCertificates leaves certificate holder entries untouched on update.
	PreserveCertificates bool
	// PreserveVendorData keeps stored vendor data on update.
	PreserveVendorData bool

	// RateLimitEnabled enables per-client rate limiting of the API.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of API requests allowed per second per client.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst capacity per client.
	RateLimitBurst int

	// CORSEnabled lets browser consoles call the device API directly.
	CORSEnabled bool
	// CORSAllowOrigins lists the origins allowed to call the device API. "*" allows any.
	CORSAllowOrigins []string
	// CORSAllowCredentials lets browsers send cookies and HTTP authentication.
	CORSAllowCredentials bool
	// CORSMaxAge is how long browsers may cache a preflight response.
	CORSMaxAge time.Duration

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:            env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:            env.GetInt("SERVER_PORT", 8080),
		ServerShutdownTimeout: env.GetDuration("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Directory configuration
		DirectoryDriver:           env.GetString("DIRECTORY_DRIVER", DriverLDAP),
		LDAPURL:                   env.GetString("LDAP_URL", "ldap://localhost:389"),
		LDAPBindDN:                env.GetString("LDAP_BIND_DN", "cn=admin,dc=dcm4che,dc=org"),
		LDAPBindPassword:          env.GetString("LDAP_BIND_PASSWORD", ""),
		LDAPBaseDN:                env.GetString("LDAP_BASE_DN", "dc=dcm4che,dc=org"),
		LDAPConfigName:            env.GetString("LDAP_CONFIG_NAME", "DICOM Configuration"),
		LDAPDialTimeout:           env.GetDuration("LDAP_DIAL_TIMEOUT_SECONDS", 10, time.Second),
		LDAPTLSInsecureSkipVerify: env.GetBool("LDAP_TLS_INSECURE_SKIP_VERIFY", false),

		// Directory throttle
		DirectoryRateLimitEnabled:        env.GetBool("DIRECTORY_RATE_LIMIT_ENABLED", false),
		DirectoryRateLimitRequestsPerSec: env.GetFloat64("DIRECTORY_RATE_LIMIT_REQUESTS_PER_SEC", 50.0),
		DirectoryRateLimitBurst:          env.GetInt("DIRECTORY_RATE_LIMIT_BURST", 100),

		// Write options
		RegisterUniqueNames:  env.GetBool("CONFIG_REGISTER_UNIQUE_NAMES", true),
		ChangeLogLevel:       env.GetString("CONFIG_CHANGELOG", "objects"),
		StoreLastModified:    env.GetBool("CONFIG_STORE_LAST_MODIFIED", true),
		PreserveCertificates: env.GetBool("CONFIG_PRESERVE_CERTIFICATES", false),
		PreserveVendorData:   env.GetBool("CONFIG_PRESERVE_VENDOR_DATA", false),

		// API rate limit
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:          env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins:     env.GetStringSlice("CORS_ALLOW_ORIGINS", ",", nil),
		CORSAllowCredentials: env.GetBool("CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAge:           env.GetDuration("CORS_MAX_AGE_SECONDS", 600, time.Second),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "dicomconf"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// Validate checks the settings that have a closed set of values.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DirectoryDriver, validation.Required, validation.In(DriverLDAP, DriverMemory)),
		validation.Field(&c.LDAPURL, validation.When(c.DirectoryDriver == DriverLDAP, validation.Required)),
		validation.Field(&c.LDAPBaseDN, validation.Required),
		validation.Field(&c.LDAPConfigName, validation.Required),
		validation.Field(&c.ChangeLogLevel, validation.In("off", "objects", "verbose")),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.DirectoryRateLimitRequestsPerSec,
			validation.When(c.DirectoryRateLimitEnabled, validation.Required, validation.Min(0.0)),
		),
		validation.Field(&c.DirectoryRateLimitBurst,
			validation.When(c.DirectoryRateLimitEnabled, validation.Required, validation.Min(1)),
		),
		validation.Field(&c.RateLimitRequestsPerSec,
			validation.When(c.RateLimitEnabled, validation.Required, validation.Min(0.0)),
		),
		validation.Field(&c.RateLimitBurst,
			validation.When(c.RateLimitEnabled, validation.Required, validation.Min(1)),
		),
	)
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
