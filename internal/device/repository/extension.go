package repository

import (
	"context"
	"log/slog"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/directory"
)

// Session is what extensions get to work with during one repository call.
type Session struct {
	Access    *directory.Access
	Roots     Roots
	Logger    *slog.Logger
	ChangeLog *domain.ChangeLog
}

// DeviceExtension contributes attributes and child entries to the device
// subtree. Each hook runs at a fixed point of persist, merge, load or remove;
// embed BaseDeviceExtension to implement only the hooks needed.
type DeviceExtension interface {
	// Name identifies the extension; it keys Device.Extensions.
	Name() string
	// StoreTo adds attributes to the device entry being created.
	StoreTo(s *Session, device *domain.Device, attrs directory.Attributes)
	// LoadFrom reads the extension's attributes from the device entry.
	LoadFrom(ctx context.Context, lc *LoadContext, device *domain.Device, attrs directory.Attributes) error
	// StoreDiffs appends modifications of the device entry.
	StoreDiffs(s *Session, prev, device *domain.Device, mods []directory.Modification) []directory.Modification
	// StoreChilds creates the extension's child entries below deviceDN.
	StoreChilds(ctx context.Context, s *Session, deviceDN string, device *domain.Device) error
	// LoadChilds loads the extension's child entries below deviceDN.
	LoadChilds(ctx context.Context, lc *LoadContext, deviceDN string, device *domain.Device) error
	// MergeChilds reconciles the extension's child entries below deviceDN.
	MergeChilds(ctx context.Context, s *Session, prev, device *domain.Device, deviceDN string) error
	// Register claims names in extension-owned registries and returns the
	// DNs it created. prev is nil on persist.
	Register(ctx context.Context, s *Session, prev, device *domain.Device) ([]string, error)
	// MarkForUnregister returns registry DNs no longer claimed after a merge.
	MarkForUnregister(s *Session, prev, device *domain.Device) []string
	// MarkDeviceForUnregister returns registry DNs claimed by the stored device at deviceDN.
	MarkDeviceForUnregister(ctx context.Context, s *Session, deviceDN string) ([]string, error)
}

// BaseDeviceExtension implements every hook of DeviceExtension except Name as a no-op.
type BaseDeviceExtension struct{}

func (BaseDeviceExtension) StoreTo(*Session, *domain.Device, directory.Attributes) {}

func (BaseDeviceExtension) LoadFrom(context.Context, *LoadContext, *domain.Device, directory.Attributes) error {
	return nil
}

func (BaseDeviceExtension) StoreDiffs(
	_ *Session,
	_, _ *domain.Device,
	mods []directory.Modification,
) []directory.Modification {
	return mods
}

func (BaseDeviceExtension) StoreChilds(context.Context, *Session, string, *domain.Device) error {
	return nil
}

func (BaseDeviceExtension) LoadChilds(context.Context, *LoadContext, string, *domain.Device) error {
	return nil
}

func (BaseDeviceExtension) MergeChilds(context.Context, *Session, *domain.Device, *domain.Device, string) error {
	return nil
}

func (BaseDeviceExtension) Register(context.Context, *Session, *domain.Device, *domain.Device) ([]string, error) {
	return nil, nil
}

func (BaseDeviceExtension) MarkForUnregister(*Session, *domain.Device, *domain.Device) []string {
	return nil
}

func (BaseDeviceExtension) MarkDeviceForUnregister(context.Context, *Session, string) ([]string, error) {
	return nil, nil
}
