package repository

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/directory"
	apperrors "github.com/allisson/dicomconf/internal/errors"
)

// LDAPDeviceRepository stores device configurations below one configuration
// root. Public methods are serialized; the directory sees at most one
// in-flight operation from a repository at a time.
type LDAPDeviceRepository struct {
	access            *directory.Access
	logger            *slog.Logger
	configName        string
	roots             Roots
	extensions        []DeviceExtension
	storeLastModified bool
	now               func() time.Time

	mu         sync.Mutex
	rootsReady bool
}

// Option configures an LDAPDeviceRepository.
type Option func(*LDAPDeviceRepository)

// WithExtension adds a device extension. Extensions run in registration order.
func WithExtension(ext DeviceExtension) Option {
	return func(r *LDAPDeviceRepository) {
		r.extensions = append(r.extensions, ext)
	}
}

// WithLastModified stamps the device entry with the time of every persist or
// effective merge.
func WithLastModified(enabled bool) Option {
	return func(r *LDAPDeviceRepository) {
		r.storeLastModified = enabled
	}
}

// WithClock replaces time.Now for last-modified stamps.
func WithClock(now func() time.Time) Option {
	return func(r *LDAPDeviceRepository) {
		r.now = now
	}
}

// NewLDAPDeviceRepository creates a repository for the configuration named
// configName below baseDN.
func NewLDAPDeviceRepository(
	access *directory.Access,
	logger *slog.Logger,
	baseDN string,
	configName string,
	opts ...Option,
) *LDAPDeviceRepository {
	r := &LDAPDeviceRepository{
		access:     access,
		logger:     logger,
		configName: configName,
		roots:      newRoots(configName, baseDN),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Roots returns the DNs of the configuration containers.
func (r *LDAPDeviceRepository) Roots() Roots {
	return r.roots
}

// DeviceDN returns the DN the device named name is stored at.
func (r *LDAPDeviceRepository) DeviceDN(name string) string {
	return r.roots.DeviceDN(name)
}

// ConfigurationExists reports whether the configuration root entry exists.
func (r *LDAPDeviceRepository) ConfigurationExists(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configurationExists(ctx)
}

// EnsureConfigurationRoot creates the configuration root and its containers
// where missing.
func (r *LDAPDeviceRepository) EnsureConfigurationRoot(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureRoots(ctx)
}

// PurgeConfiguration deletes the whole configuration subtree, devices and
// registries included. It is a no-op when the configuration does not exist.
func (r *LDAPDeviceRepository) PurgeConfiguration(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	exists, err := r.access.Exists(ctx, r.roots.Config)
	if err != nil {
		return apperrors.Wrap(err, "failed to check configuration root")
	}
	if !exists {
		return nil
	}
	if err := r.access.DestroySubtree(ctx, r.roots.Config); err != nil {
		return apperrors.Wrap(err, "failed to purge configuration")
	}
	r.rootsReady = false
	r.logger.Info("configuration purged", slog.String("dn", r.roots.Config))
	return nil
}

func (r *LDAPDeviceRepository) configurationExists(ctx context.Context) (bool, error) {
	if r.rootsReady {
		return true, nil
	}
	return r.access.Exists(ctx, r.roots.Config)
}

func (r *LDAPDeviceRepository) ensureRoots(ctx context.Context) error {
	if r.rootsReady {
		return nil
	}

	containers := []struct {
		dn          string
		objectClass string
		cn          string
	}{
		{r.roots.Config, ocConfigurationRoot, r.configName},
		{r.roots.Devices, ocDevicesRoot, devicesCN},
		{r.roots.AETitlesRegistry, ocUniqueAETitlesRegistryRoot, aeTitlesRegistryCN},
		{r.roots.WebAppNamesRegistry, ocUniqueWebAppNamesRegistryRoot, webAppNamesRegistryCN},
	}
	for _, c := range containers {
		exists, err := r.access.Exists(ctx, c.dn)
		if err != nil {
			return apperrors.Wrap(err, "failed to check configuration root")
		}
		if exists {
			continue
		}
		attrs := objectClasses(c.objectClass)
		attrs.Put(attrCN, c.cn)
		if err := r.access.Create(ctx, c.dn, attrs); err != nil && !apperrors.Is(err, apperrors.ErrAlreadyExists) {
			return apperrors.Wrap(err, "failed to create configuration root")
		}
		r.logger.Info("configuration container created", slog.String("dn", c.dn))
	}
	r.rootsReady = true
	return nil
}

func (r *LDAPDeviceRepository) session(log *domain.ChangeLog) *Session {
	return &Session{Access: r.access, Roots: r.roots, Logger: r.logger, ChangeLog: log}
}
