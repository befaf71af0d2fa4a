package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, 30*time.Second, cfg.ServerShutdownTimeout)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, DriverLDAP, cfg.DirectoryDriver)
				assert.Equal(t, "ldap://localhost:389", cfg.LDAPURL)
				assert.Equal(t, "dc=dcm4che,dc=org", cfg.LDAPBaseDN)
				assert.Equal(t, "DICOM Configuration", cfg.LDAPConfigName)
				assert.Equal(t, 10*time.Second, cfg.LDAPDialTimeout)
				assert.False(t, cfg.DirectoryRateLimitEnabled)
				assert.True(t, cfg.RateLimitEnabled)
				assert.Equal(t, 10.0, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 20, cfg.RateLimitBurst)
				assert.True(t, cfg.RegisterUniqueNames)
				assert.Equal(t, "objects", cfg.ChangeLogLevel)
				assert.True(t, cfg.StoreLastModified)
				assert.Equal(t, "dicomconf", cfg.MetricsNamespace)
				assert.False(t, cfg.CORSEnabled)
				assert.Empty(t, cfg.CORSAllowOrigins)
				assert.Equal(t, 10*time.Minute, cfg.CORSMaxAge)
				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom directory configuration",
			envVars: map[string]string{
				"DIRECTORY_DRIVER":                      "memory",
				"LDAP_URL":                              "ldaps://ldap.example.com:636",
				"LDAP_BIND_DN":                          "cn=manager,dc=example,dc=com",
				"LDAP_BIND_PASSWORD":                    "secret",
				"LDAP_BASE_DN":                          "dc=example,dc=com",
				"LDAP_CONFIG_NAME":                      "Test Configuration",
				"LDAP_DIAL_TIMEOUT_SECONDS":             "3",
				"LDAP_TLS_INSECURE_SKIP_VERIFY":         "true",
				"DIRECTORY_RATE_LIMIT_ENABLED":          "true",
				"DIRECTORY_RATE_LIMIT_REQUESTS_PER_SEC": "5.5",
				"DIRECTORY_RATE_LIMIT_BURST":            "7",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DriverMemory, cfg.DirectoryDriver)
				assert.Equal(t, "ldaps://ldap.example.com:636", cfg.LDAPURL)
				assert.Equal(t, "cn=manager,dc=example,dc=com", cfg.LDAPBindDN)
				assert.Equal(t, "secret", cfg.LDAPBindPassword)
				assert.Equal(t, "dc=example,dc=com", cfg.LDAPBaseDN)
				assert.Equal(t, "Test Configuration", cfg.LDAPConfigName)
				assert.Equal(t, 3*time.Second, cfg.LDAPDialTimeout)
				assert.True(t, cfg.LDAPTLSInsecureSkipVerify)
				assert.True(t, cfg.DirectoryRateLimitEnabled)
				assert.Equal(t, 5.5, cfg.DirectoryRateLimitRequestsPerSec)
				assert.Equal(t, 7, cfg.DirectoryRateLimitBurst)
				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name: "load custom write options",
			envVars: map[string]string{
				"CONFIG_REGISTER_UNIQUE_NAMES": "false",
				"CONFIG_CHANGELOG":             "verbose",
				"CONFIG_STORE_LAST_MODIFIED":   "false",
				"CONFIG_PRESERVE_CERTIFICATES": "true",
				"CONFIG_PRESERVE_VENDOR_DATA":  "true",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.RegisterUniqueNames)
				assert.Equal(t, "verbose", cfg.ChangeLogLevel)
				assert.False(t, cfg.StoreLastModified)
				assert.True(t, cfg.PreserveCertificates)
				assert.True(t, cfg.PreserveVendorData)
			},
		},
		{
			name: "load CORS policy",
			envVars: map[string]string{
				"CORS_ENABLED":           "true",
				"CORS_ALLOW_ORIGINS":     "https://console.example.com,http://localhost:3000",
				"CORS_ALLOW_CREDENTIALS": "true",
				"CORS_MAX_AGE_SECONDS":   "120",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.CORSEnabled)
				assert.Equal(t, []string{"https://console.example.com", "http://localhost:3000"}, cfg.CORSAllowOrigins)
				assert.True(t, cfg.CORSAllowCredentials)
				assert.Equal(t, 2*time.Minute, cfg.CORSMaxAge)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
		{
			name: "invalid driver and change log level",
			envVars: map[string]string{
				"DIRECTORY_DRIVER": "postgres",
				"CONFIG_CHANGELOG": "everything",
			},
			validate: func(t *testing.T, cfg *Config) {
				err := cfg.Validate()
				require.Error(t, err)
				assert.Contains(t, err.Error(), "DirectoryDriver")
				assert.Contains(t, err.Error(), "ChangeLogLevel")
			},
		},
		{
			name: "invalid api rate limit burst",
			envVars: map[string]string{
				"RATE_LIMIT_ENABLED": "true",
				"RATE_LIMIT_BURST":   "0",
			},
			validate: func(t *testing.T, cfg *Config) {
				err := cfg.Validate()
				require.Error(t, err)
				assert.Contains(t, err.Error(), "RateLimitBurst")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			// Load configuration
			cfg := Load()

			// Validate
			tt.validate(t, cfg)
		})
	}
}
