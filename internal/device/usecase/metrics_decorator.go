package usecase

import (
	"context"
	"time"

	"github.com/allisson/dicomconf/internal/device/domain"
	"github.com/allisson/dicomconf/internal/metrics"
)

// deviceUseCaseWithMetrics decorates DeviceUseCase with metrics instrumentation.
type deviceUseCaseWithMetrics struct {
	next    DeviceUseCase
	metrics metrics.BusinessMetrics
}

// NewDeviceUseCaseWithMetrics wraps a DeviceUseCase with metrics recording.
func NewDeviceUseCaseWithMetrics(useCase DeviceUseCase, m metrics.BusinessMetrics) DeviceUseCase {
	return &deviceUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for device creation operations.
func (d *deviceUseCaseWithMetrics) Create(
	ctx context.Context,
	device *domain.Device,
) (*domain.ChangeLog, error) {
	start := time.Now()
	changes, err := d.next.Create(ctx, device)

	d.observeWrite(ctx, "device_create", start, changes, err)

	return changes, err
}

// Update records metrics for device update operations.
func (d *deviceUseCaseWithMetrics) Update(
	ctx context.Context,
	device *domain.Device,
) (*domain.ChangeLog, error) {
	start := time.Now()
	changes, err := d.next.Update(ctx, device)

	d.observeWrite(ctx, "device_update", start, changes, err)

	return changes, err
}

// Save records metrics for device save operations.
func (d *deviceUseCaseWithMetrics) Save(
	ctx context.Context,
	device *domain.Device,
) (*domain.ChangeLog, bool, error) {
	start := time.Now()
	changes, created, err := d.next.Save(ctx, device)

	d.observeWrite(ctx, "device_save", start, changes, err)

	return changes, created, err
}

// Get records metrics for device retrieval operations.
func (d *deviceUseCaseWithMetrics) Get(ctx context.Context, name string) (*domain.Device, error) {
	start := time.Now()
	device, err := d.next.Get(ctx, name)

	d.observe(ctx, "device_get", start, err)

	return device, err
}

// List records metrics for device listing operations.
func (d *deviceUseCaseWithMetrics) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := d.next.List(ctx)

	d.observe(ctx, "device_list", start, err)

	return names, err
}

// Delete records metrics for device deletion operations.
func (d *deviceUseCaseWithMetrics) Delete(ctx context.Context, name string) (*domain.ChangeLog, error) {
	start := time.Now()
	changes, err := d.next.Delete(ctx, name)

	d.observeWrite(ctx, "device_delete", start, changes, err)

	return changes, err
}

// GetApplicationEntity records metrics for AE lookup operations.
func (d *deviceUseCaseWithMetrics) GetApplicationEntity(
	ctx context.Context,
	title string,
) (*domain.ApplicationEntity, *domain.Device, error) {
	start := time.Now()
	ae, device, err := d.next.GetApplicationEntity(ctx, title)

	d.observe(ctx, "ae_get", start, err)

	return ae, device, err
}

// GetWebApplication records metrics for web application lookup operations.
func (d *deviceUseCaseWithMetrics) GetWebApplication(
	ctx context.Context,
	name string,
) (*domain.WebApplication, *domain.Device, error) {
	start := time.Now()
	wa, device, err := d.next.GetWebApplication(ctx, name)

	d.observe(ctx, "webapp_get", start, err)

	return wa, device, err
}

// RegisterAETitle records metrics for AE title registration operations.
func (d *deviceUseCaseWithMetrics) RegisterAETitle(ctx context.Context, title string) error {
	start := time.Now()
	err := d.next.RegisterAETitle(ctx, title)

	d.observe(ctx, "aet_register", start, err)

	return err
}

// UnregisterAETitle records metrics for AE title release operations.
func (d *deviceUseCaseWithMetrics) UnregisterAETitle(ctx context.Context, title string) error {
	start := time.Now()
	err := d.next.UnregisterAETitle(ctx, title)

	d.observe(ctx, "aet_unregister", start, err)

	return err
}

// ListAETitles records metrics for AE title listing operations.
func (d *deviceUseCaseWithMetrics) ListAETitles(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := d.next.ListAETitles(ctx)

	d.observe(ctx, "aet_list", start, err)

	return names, err
}

// ListWebAppNames records metrics for web application name listing operations.
func (d *deviceUseCaseWithMetrics) ListWebAppNames(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := d.next.ListWebAppNames(ctx)

	d.observe(ctx, "webapp_name_list", start, err)

	return names, err
}

// InitConfiguration records metrics for configuration bootstrap operations.
func (d *deviceUseCaseWithMetrics) InitConfiguration(ctx context.Context) error {
	start := time.Now()
	err := d.next.InitConfiguration(ctx)

	d.observe(ctx, "config_init", start, err)

	return err
}

// PurgeConfiguration records metrics for configuration purge operations.
func (d *deviceUseCaseWithMetrics) PurgeConfiguration(ctx context.Context) error {
	start := time.Now()
	err := d.next.PurgeConfiguration(ctx)

	d.observe(ctx, "config_purge", start, err)

	return err
}

func (d *deviceUseCaseWithMetrics) observe(ctx context.Context, operation string, start time.Time, err error) {
	d.metrics.ObserveOperation(ctx, operation, time.Since(start), err)
}

// observeWrite also counts the entries a write touched. A partially applied
// write still reports its change log.
func (d *deviceUseCaseWithMetrics) observeWrite(
	ctx context.Context,
	operation string,
	start time.Time,
	changes *domain.ChangeLog,
	err error,
) {
	d.observe(ctx, operation, start, err)
	if changes.IsEmpty() {
		return
	}
	d.metrics.ObserveEntries(ctx, operation,
		changes.Count(domain.ChangeCreated),
		changes.Count(domain.ChangeUpdated),
		changes.Count(domain.ChangeDeleted),
	)
}
