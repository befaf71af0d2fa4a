// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/dicomconf/internal/config"
	"github.com/allisson/dicomconf/internal/device/domain"
	deviceHTTP "github.com/allisson/dicomconf/internal/device/http"
	deviceRepository "github.com/allisson/dicomconf/internal/device/repository"
	deviceUseCase "github.com/allisson/dicomconf/internal/device/usecase"
	"github.com/allisson/dicomconf/internal/directory"
	"github.com/allisson/dicomconf/internal/http"
	"github.com/allisson/dicomconf/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config  *config.Config
	version string

	// Infrastructure
	logger          *slog.Logger
	access          *directory.Access
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Repositories
	deviceRepository *deviceRepository.LDAPDeviceRepository

	// Use Cases
	deviceUseCase deviceUseCase.DeviceUseCase

	// Handlers
	deviceHandler *deviceHTTP.DeviceHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                   sync.Mutex
	loggerInit           sync.Once
	accessInit           sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	deviceRepositoryInit sync.Once
	deviceUseCaseInit    sync.Once
	deviceHandlerInit    sync.Once
	httpServerInit       sync.Once
	metricsServerInit    sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		version:    "dev",
		initErrors: make(map[string]error),
	}
}

// WithVersion sets the build version reported on target_info.
func (c *Container) WithVersion(version string) *Container {
	if version != "" {
		c.version = version
	}
	return c
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DirectoryAccess returns the directory access layer.
// The connection itself is opened lazily by the first directory operation.
func (c *Container) DirectoryAccess() (*directory.Access, error) {
	var err error
	c.accessInit.Do(func() {
		c.access, err = c.initDirectoryAccess()
		if err != nil {
			c.initErrors["access"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["access"]; exists {
		return nil, storedErr
	}
	return c.access, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// DeviceRepository returns the directory-backed device repository.
func (c *Container) DeviceRepository() (*deviceRepository.LDAPDeviceRepository, error) {
	var err error
	c.deviceRepositoryInit.Do(func() {
		c.deviceRepository, err = c.initDeviceRepository()
		if err != nil {
			c.initErrors["deviceRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceRepository"]; exists {
		return nil, storedErr
	}
	return c.deviceRepository, nil
}

// DeviceUseCase returns the device use case, decorated with metrics when enabled.
func (c *Container) DeviceUseCase() (deviceUseCase.DeviceUseCase, error) {
	var err error
	c.deviceUseCaseInit.Do(func() {
		c.deviceUseCase, err = c.initDeviceUseCase()
		if err != nil {
			c.initErrors["deviceUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceUseCase"]; exists {
		return nil, storedErr
	}
	return c.deviceUseCase, nil
}

// DeviceHandler returns the HTTP handler for device configuration operations.
func (c *Container) DeviceHandler() (*deviceHTTP.DeviceHandler, error) {
	var err error
	c.deviceHandlerInit.Do(func() {
		c.deviceHandler, err = c.initDeviceHandler()
		if err != nil {
			c.initErrors["deviceHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceHandler"]; exists {
		return nil, storedErr
	}
	return c.deviceHandler, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// WriteOptions returns the persist/merge/remove options derived from configuration.
func (c *Container) WriteOptions() (domain.Options, error) {
	level, err := domain.ParseChangeLogLevel(c.config.ChangeLogLevel)
	if err != nil {
		return domain.Options{}, err
	}
	return domain.Options{
		Register:             c.config.RegisterUniqueNames,
		PreserveCertificates: c.config.PreserveCertificates,
		PreserveVendorData:   c.config.PreserveVendorData,
		ChangeLog:            level,
	}, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Flush metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close directory connection if initialized
	if c.access != nil {
		if err := c.access.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("directory close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDirectoryAccess selects the directory driver and wraps it in the access layer.
func (c *Container) initDirectoryAccess() (*directory.Access, error) {
	var dial directory.Dialer
	switch c.config.DirectoryDriver {
	case config.DriverLDAP:
		dial = directory.NewLDAPDialer(directory.LDAPConfig{
			URL:                   c.config.LDAPURL,
			BindDN:                c.config.LDAPBindDN,
			BindPassword:          c.config.LDAPBindPassword,
			DialTimeout:           c.config.LDAPDialTimeout,
			TLSInsecureSkipVerify: c.config.LDAPTLSInsecureSkipVerify,
		})
	case config.DriverMemory:
		dial = directory.NewMemoryDirectory(c.config.LDAPBaseDN).Dial
	default:
		return nil, fmt.Errorf("unsupported directory driver: %s", c.config.DirectoryDriver)
	}

	var opts []directory.Option
	if c.config.DirectoryRateLimitEnabled {
		opts = append(opts, directory.WithRateLimit(
			c.config.DirectoryRateLimitRequestsPerSec,
			c.config.DirectoryRateLimitBurst,
		))
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for directory access: %w", err)
	}
	if provider != nil {
		directoryMetrics, err := metrics.NewDirectoryMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create directory metrics: %w", err)
		}
		opts = append(opts, directory.WithObserver(directoryMetrics))
	}

	return directory.NewAccess(dial, c.Logger(), opts...), nil
}

// initMetricsProvider creates the Prometheus-backed provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace, c.version)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder, a no-op when metrics are disabled.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initDeviceRepository creates the device repository on top of the directory access layer.
func (c *Container) initDeviceRepository() (*deviceRepository.LDAPDeviceRepository, error) {
	access, err := c.DirectoryAccess()
	if err != nil {
		return nil, fmt.Errorf("failed to get directory access for device repository: %w", err)
	}

	return deviceRepository.NewLDAPDeviceRepository(
		access,
		c.Logger(),
		c.config.LDAPBaseDN,
		c.config.LDAPConfigName,
		deviceRepository.WithLastModified(c.config.StoreLastModified),
	), nil
}

// initDeviceUseCase creates the device use case with all its dependencies.
func (c *Container) initDeviceUseCase() (deviceUseCase.DeviceUseCase, error) {
	repo, err := c.DeviceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get device repository for device use case: %w", err)
	}

	opts, err := c.WriteOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to parse write options for device use case: %w", err)
	}

	useCase := deviceUseCase.NewDeviceUseCase(repo, opts)

	if !c.config.MetricsEnabled {
		return useCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for device use case: %w", err)
	}
	return deviceUseCase.NewDeviceUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initDeviceHandler creates the device HTTP handler.
func (c *Container) initDeviceHandler() (*deviceHTTP.DeviceHandler, error) {
	useCase, err := c.DeviceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get device use case for device handler: %w", err)
	}
	return deviceHTTP.NewDeviceHandler(useCase, c.Logger()), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	repo, err := c.DeviceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get device repository for http server: %w", err)
	}

	handler, err := c.DeviceHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get device handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(repo, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(c.config, handler, provider, c.config.MetricsNamespace)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
