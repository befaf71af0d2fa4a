// Package usecase defines the interfaces and implementations for device configuration use cases.
// Use cases validate devices, assign device UIDs and delegate to the directory-backed repository.
package usecase

import (
	"context"

	"github.com/allisson/dicomconf/internal/device/domain"
)

// DeviceRepository defines the interface for device configuration persistence operations.
type DeviceRepository interface {
	Persist(ctx context.Context, device *domain.Device, opts domain.Options) (*domain.ChangeLog, error)
	Merge(ctx context.Context, device *domain.Device, opts domain.Options) (*domain.ChangeLog, error)
	Remove(ctx context.Context, name string, opts domain.Options) (*domain.ChangeLog, error)
	FindDevice(ctx context.Context, name string) (*domain.Device, error)
	FindApplicationEntity(ctx context.Context, title string) (*domain.ApplicationEntity, *domain.Device, error)
	FindWebApplication(ctx context.Context, name string) (*domain.WebApplication, *domain.Device, error)
	ListDeviceNames(ctx context.Context) ([]string, error)
	RegisterAETitle(ctx context.Context, title string) error
	UnregisterAETitle(ctx context.Context, title string) error
	ListRegisteredAETitles(ctx context.Context) ([]string, error)
	ListRegisteredWebAppNames(ctx context.Context) ([]string, error)
	ConfigurationExists(ctx context.Context) (bool, error)
	EnsureConfigurationRoot(ctx context.Context) error
	PurgeConfiguration(ctx context.Context) error
}

// DeviceUseCase defines the interface for device configuration business logic.
type DeviceUseCase interface {
	// Create stores a new device. It fails with domain.ErrDeviceAlreadyExists
	// when a device with the same name is configured.
	Create(ctx context.Context, device *domain.Device) (*domain.ChangeLog, error)
	// Update merges device into the stored configuration of the same name.
	Update(ctx context.Context, device *domain.Device) (*domain.ChangeLog, error)
	// Save creates the device when it does not exist and updates it otherwise.
	// The boolean reports whether the device was created.
	Save(ctx context.Context, device *domain.Device) (*domain.ChangeLog, bool, error)
	Get(ctx context.Context, name string) (*domain.Device, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) (*domain.ChangeLog, error)
	GetApplicationEntity(ctx context.Context, title string) (*domain.ApplicationEntity, *domain.Device, error)
	GetWebApplication(ctx context.Context, name string) (*domain.WebApplication, *domain.Device, error)
	RegisterAETitle(ctx context.Context, title string) error
	UnregisterAETitle(ctx context.Context, title string) error
	ListAETitles(ctx context.Context) ([]string, error)
	ListWebAppNames(ctx context.Context) ([]string, error)
	InitConfiguration(ctx context.Context) error
	PurgeConfiguration(ctx context.Context) error
}
