package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/dicomconf/internal/device/domain"
)

// MockDeviceUseCase is a mock implementation of DeviceUseCase for testing.
type MockDeviceUseCase struct {
	mock.Mock
}

// Create mocks the Create method of DeviceUseCase.
func (m *MockDeviceUseCase) Create(ctx context.Context, device *domain.Device) (*domain.ChangeLog, error) {
	args := m.Called(ctx, device)
	var r0 *domain.ChangeLog
	if v := args.Get(0); v != nil {
		r0 = v.(*domain.ChangeLog)
	}
	return r0, args.Error(1)
}

// Update mocks the Update method of DeviceUseCase.
func (m *MockDeviceUseCase) Update(ctx context.Context, device *domain.Device) (*domain.ChangeLog, error) {
	args := m.Called(ctx, device)
	var r0 *domain.ChangeLog
	if v := args.Get(0); v != nil {
		r0 = v.(*domain.ChangeLog)
	}
	return r0, args.Error(1)
}

// Save mocks the Save method of DeviceUseCase.
func (m *MockDeviceUseCase) Save(
	ctx context.Context,
	device *domain.Device,
) (*domain.ChangeLog, bool, error) {
	args := m.Called(ctx, device)
	var r0 *domain.ChangeLog
	if v := args.Get(0); v != nil {
		r0 = v.(*domain.ChangeLog)
	}
	return r0, args.Bool(1), args.Error(2)
}

// Get mocks the Get method of DeviceUseCase.
func (m *MockDeviceUseCase) Get(ctx context.Context, name string) (*domain.Device, error) {
	args := m.Called(ctx, name)
	var r0 *domain.Device
	if v := args.Get(0); v != nil {
		r0 = v.(*domain.Device)
	}
	return r0, args.Error(1)
}

// List mocks the List method of DeviceUseCase.
func (m *MockDeviceUseCase) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var r0 []string
	if v := args.Get(0); v != nil {
		r0 = v.([]string)
	}
	return r0, args.Error(1)
}

// Delete mocks the Delete method of DeviceUseCase.
func (m *MockDeviceUseCase) Delete(ctx context.Context, name string) (*domain.ChangeLog, error) {
	args := m.Called(ctx, name)
	var r0 *domain.ChangeLog
	if v := args.Get(0); v != nil {
		r0 = v.(*domain.ChangeLog)
	}
	return r0, args.Error(1)
}

// GetApplicationEntity mocks the GetApplicationEntity method of DeviceUseCase.
func (m *MockDeviceUseCase) GetApplicationEntity(
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

// GetWebApplication mocks the GetWebApplication method of DeviceUseCase.
func (m *MockDeviceUseCase) GetWebApplication(
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

// RegisterAETitle mocks the RegisterAETitle method of DeviceUseCase.
func (m *MockDeviceUseCase) RegisterAETitle(ctx context.Context, title string) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

// UnregisterAETitle mocks the UnregisterAETitle method of DeviceUseCase.
func (m *MockDeviceUseCase) UnregisterAETitle(ctx context.Context, title string) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

// ListAETitles mocks the ListAETitles method of DeviceUseCase.
func (m *MockDeviceUseCase) ListAETitles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var r0 []string
	if v := args.Get(0); v != nil {
		r0 = v.([]string)
	}
	return r0, args.Error(1)
}

// ListWebAppNames mocks the ListWebAppNames method of DeviceUseCase.
func (m *MockDeviceUseCase) ListWebAppNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var r0 []string
	if v := args.Get(0); v != nil {
		r0 = v.([]string)
	}
	return r0, args.Error(1)
}

// InitConfiguration mocks the InitConfiguration method of DeviceUseCase.
func (m *MockDeviceUseCase) InitConfiguration(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// PurgeConfiguration mocks the PurgeConfiguration method of DeviceUseCase.
func (m *MockDeviceUseCase) PurgeConfiguration(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
