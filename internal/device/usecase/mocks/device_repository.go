// Package mocks provides mock implementations of the device use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/dicomconf/internal/device/domain"
)

// MockDeviceRepository is a mock implementation of DeviceRepository for testing.
type MockDeviceRepository struct {
	mock.Mock
}

// Persist mocks the Persist method of DeviceRepository.
func (m *MockDeviceRepository) Persist(
	ctx context.Context,
	device *domain.Device,
	opts domain.Options,
) (*domain.ChangeLog, error) {
	args := m.Called(ctx, device, opts)
	var r0 *domain.ChangeLog
	if v := args.Get(0); v != nil {
		r0 = v.(*domain.ChangeLog)
	}
	return r0, args.Error(1)
}

// Merge mocks the Merge method of DeviceRepository.
func (m *MockDeviceRepository) Merge(
	ctx context.Context,
	device *domain.Device,
	opts domain.Options,
) (*domain.ChangeLog, error) {
	args := m.Called(ctx, device, opts)
	var r0 *domain.ChangeLog
	if v := args.Get(0); v != nil {
		r0 = v.(*domain.ChangeLog)
	}
	return r0, args.Error(1)
}

// Remove mocks the Remove method of DeviceRepository.
func (m *MockDeviceRepository) Remove(
	ctx context.Context,
	name string,
	opts domain.Options,
) (*domain.ChangeLog, error) {
	args := m.Called(ctx, name, opts)
	var r0 *domain.ChangeLog
	if v := args.Get(0); v != nil {
		r0 = v.(*domain.ChangeLog)
	}
	return r0, args.Error(1)
}

// FindDevice mocks the FindDevice method of DeviceRepository.
func (m *MockDeviceRepository) FindDevice(ctx context.Context, name string) (*domain.Device, error) {
	args := m.Called(ctx, name)
	var r0 *domain.Device
	if v := args.Get(0); v != nil {
		r0 = v.(*domain.Device)
	}
	return r0, args.Error(1)
}

// FindApplicationEntity mocks the FindApplicationEntity method of DeviceRepository.
func (m *MockDeviceRepository) FindApplicationEntity(
	ctx context.Context,
	title string,
) (*domain.ApplicationEntity, *domain.Device, error) {
	args := m.Called(ctx, title)
	var r0 *domain.ApplicationEntity
	if v := args.Get(0); v != nil {
		r0 = v.(*domain.ApplicationEntity)
	}
	var r1 *domain.Device
	if v := args.Get(1); v != nil {
		r1 = v.(*domain.Device)
	}
	return r0, r1, args.Error(2)
}

// FindWebApplication mocks the FindWebApplication method of DeviceRepository.
func (m *MockDeviceRepository) FindWebApplication(
	ctx context.Context,
	name string,
) (*domain.WebApplication, *domain.Device, error) {
	args := m.Called(ctx, name)
	var r0 *domain.WebApplication
	if v := args.Get(0); v != nil {
		r0 = v.(*domain.WebApplication)
	}
	var r1 *domain.Device
	if v := args.Get(1); v != nil {
		r1 = v.(*domain.Device)
	}
	return r0, r1, args.Error(2)
}

// ListDeviceNames mocks the ListDeviceNames method of DeviceRepository.
func (m *MockDeviceRepository) ListDeviceNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var r0 []string
	if v := args.Get(0); v != nil {
		r0 = v.([]string)
	}
	return r0, args.Error(1)
}

// RegisterAETitle mocks the RegisterAETitle method of DeviceRepository.
func (m *MockDeviceRepository) RegisterAETitle(ctx context.Context, title string) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

// UnregisterAETitle mocks the UnregisterAETitle method of DeviceRepository.
func (m *MockDeviceRepository) UnregisterAETitle(ctx context.Context, title string) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

// ListRegisteredAETitles mocks the ListRegisteredAETitles method of DeviceRepository.
func (m *MockDeviceRepository) ListRegisteredAETitles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var r0 []string
	if v := args.Get(0); v != nil {
		r0 = v.([]string)
	}
	return r0, args.Error(1)
}

// ListRegisteredWebAppNames mocks the ListRegisteredWebAppNames method of DeviceRepository.
func (m *MockDeviceRepository) ListRegisteredWebAppNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var r0 []string
	if v := args.Get(0); v != nil {
		r0 = v.([]string)
	}
	return r0, args.Error(1)
}

// ConfigurationExists mocks the ConfigurationExists method of DeviceRepository.
func (m *MockDeviceRepository) ConfigurationExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// EnsureConfigurationRoot mocks the EnsureConfigurationRoot method of DeviceRepository.
func (m *MockDeviceRepository) EnsureConfigurationRoot(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// PurgeConfiguration mocks the PurgeConfiguration method of DeviceRepository.
func (m *MockDeviceRepository) PurgeConfiguration(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
