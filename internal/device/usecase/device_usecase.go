package usecase

import (
	"context"
	"errors"
	"math/big"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/dicomconf/internal/device/domain"
	apperrors "github.com/allisson/dicomconf/internal/errors"
	customValidation "github.com/allisson/dicomconf/internal/validation"
)

// uidRoot is the UID arc for UIDs derived from a UUID (ISO/IEC 9834-8).
const uidRoot = "2.25."

// deviceUseCase implements the DeviceUseCase interface.
type deviceUseCase struct {
	repo DeviceRepository
	opts domain.Options
	// newUUID is replaceable in tests.
	newUUID func() (uuid.UUID, error)
}

// NewDeviceUseCase creates a new DeviceUseCase writing with opts.
func NewDeviceUseCase(repo DeviceRepository, opts domain.Options) DeviceUseCase {
	return &deviceUseCase{
		repo:    repo,
		opts:    opts,
		newUUID: uuid.NewRandom,
	}
}

// Create validates device, assigns a device UID if it has none and persists it.
// A UID assigned here is taken back when the device is not stored.
func (d *deviceUseCase) Create(ctx context.Context, device *domain.Device) (*domain.ChangeLog, error) {
	if err := ValidateDevice(device); err != nil {
		return nil, err
	}
	assigned := false
	if device.UID == "" {
		uid, err := d.generateUID()
		if err != nil {
			return nil, err
		}
		device.UID = uid
		assigned = true
	}
	changes, err := d.repo.Persist(ctx, device, d.opts)
	if err != nil && assigned {
		device.UID = ""
	}
	return changes, err
}

// Update validates device and merges it into the stored device. An empty UID
// keeps the stored one.
func (d *deviceUseCase) Update(ctx context.Context, device *domain.Device) (*domain.ChangeLog, error) {
	if err := ValidateDevice(device); err != nil {
		return nil, err
	}
	if device.UID == "" {
		stored, err := d.repo.FindDevice(ctx, device.Name)
		if err != nil {
			return nil, err
		}
		device.UID = stored.UID
	}
	return d.repo.Merge(ctx, device, d.opts)
}

// Save creates device or, if it already exists, updates it.
func (d *deviceUseCase) Save(ctx context.Context, device *domain.Device) (*domain.ChangeLog, bool, error) {
	changes, err := d.Create(ctx, device)
	if err == nil {
		return changes, true, nil
	}
	if !errors.Is(err, domain.ErrDeviceAlreadyExists) {
		return nil, false, err
	}
	changes, err = d.Update(ctx, device)
	return changes, false, err
}

// Get loads the device named name.
func (d *deviceUseCase) Get(ctx context.Context, name string) (*domain.Device, error) {
	return d.repo.FindDevice(ctx, name)
}

// List returns the names of all configured devices.
func (d *deviceUseCase) List(ctx context.Context) ([]string, error) {
	return d.repo.ListDeviceNames(ctx)
}

// Delete removes the device named name and releases its registered names.
func (d *deviceUseCase) Delete(ctx context.Context, name string) (*domain.ChangeLog, error) {
	return d.repo.Remove(ctx, name, d.opts)
}

// GetApplicationEntity returns the AE with the given title and its device.
func (d *deviceUseCase) GetApplicationEntity(
	ctx context.Context,
	title string,
) (*domain.ApplicationEntity, *domain.Device, error) {
	return d.repo.FindApplicationEntity(ctx, title)
}

// GetWebApplication returns the web application with the given name and its device.
func (d *deviceUseCase) GetWebApplication(
	ctx context.Context,
	name string,
) (*domain.WebApplication, *domain.Device, error) {
	return d.repo.FindWebApplication(ctx, name)
}

// RegisterAETitle reserves title without configuring an AE for it.
func (d *deviceUseCase) RegisterAETitle(ctx context.Context, title string) error {
	if err := customValidation.WrapValidationError(
		validation.Validate(title, validation.Required, customValidation.AETitle),
	); err != nil {
		return err
	}
	return d.repo.RegisterAETitle(ctx, title)
}

// UnregisterAETitle releases a reserved AE title.
func (d *deviceUseCase) UnregisterAETitle(ctx context.Context, title string) error {
	return d.repo.UnregisterAETitle(ctx, title)
}

// ListAETitles returns all registered AE titles.
func (d *deviceUseCase) ListAETitles(ctx context.Context) ([]string, error) {
	return d.repo.ListRegisteredAETitles(ctx)
}

// ListWebAppNames returns all registered web application names.
func (d *deviceUseCase) ListWebAppNames(ctx context.Context) ([]string, error) {
	return d.repo.ListRegisteredWebAppNames(ctx)
}

// InitConfiguration creates the configuration root and its containers when missing.
func (d *deviceUseCase) InitConfiguration(ctx context.Context) error {
	return d.repo.EnsureConfigurationRoot(ctx)
}

// PurgeConfiguration deletes the configuration root with every device and registry entry.
func (d *deviceUseCase) PurgeConfiguration(ctx context.Context) error {
	exists, err := d.repo.ConfigurationExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrConfigurationNotFound
	}
	return d.repo.PurgeConfiguration(ctx)
}

// generateUID derives a device UID from a random UUID.
func (d *deviceUseCase) generateUID() (string, error) {
	id, err := d.newUUID()
	if err != nil {
		return "", apperrors.Wrap(err, "failed to generate device UID")
	}
	return UIDFromUUID(id), nil
}

// UIDFromUUID renders id as a UID under the 2.25 arc.
func UIDFromUUID(id uuid.UUID) string {
	return uidRoot + new(big.Int).SetBytes(id[:]).String()
}
