package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/allisson/dicomconf/internal/errors"
)

// Outcomes of a device use case call.
const (
	OutcomeSuccess  = "success"
	OutcomePartial  = "partial"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Outcome classifies err for the outcome label. A write that reached the
// directory but left registrations or rollback work behind is partial.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case apperrors.IsPartiallyApplied(err):
		return OutcomePartial
	case errors.Is(err, apperrors.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, apperrors.ErrInvalidInput):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// BusinessMetrics records what the device use cases did.
type BusinessMetrics interface {
	// ObserveOperation records one call, e.g. "device_save" or "aet_register".
	ObserveOperation(ctx context.Context, operation string, duration time.Duration, err error)

	// ObserveEntries records the directory entries a write created, updated
	// and deleted, as counted by its change log.
	ObserveEntries(ctx context.Context, operation string, created, updated, deleted int)
}

type businessMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
	entries    metric.Int64Counter
}

// NewBusinessMetrics creates the device use case instruments under namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		fmt.Sprintf("%s_device_operations_total", namespace),
		metric.WithDescription("Total number of device configuration operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durations, err := meter.Float64Histogram(
		fmt.Sprintf("%s_device_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of device configuration operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	entries, err := meter.Int64Counter(
		fmt.Sprintf("%s_directory_entries_changed_total", namespace),
		metric.WithDescription("Directory entries created, updated or deleted by device writes"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry counter: %w", err)
	}

	return &businessMetrics{
		operations: operations,
		durations:  durations,
		entries:    entries,
	}, nil
}

func (b *businessMetrics) ObserveOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", Outcome(err)),
	)
	b.operations.Add(ctx, 1, attrs)
	b.durations.Record(ctx, duration.Seconds(), attrs)
}

func (b *businessMetrics) ObserveEntries(ctx context.Context, operation string, created, updated, deleted int) {
	for change, n := range map[string]int{"created": created, "updated": updated, "deleted": deleted} {
		if n == 0 {
			continue
		}
		b.entries.Add(ctx, int64(n), metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("change", change),
		))
	}
}

// NoOpBusinessMetrics discards everything; used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

// ObserveOperation does nothing.
func (n *NoOpBusinessMetrics) ObserveOperation(context.Context, string, time.Duration, error) {}

// ObserveEntries does nothing.
func (n *NoOpBusinessMetrics) ObserveEntries(context.Context, string, int, int, int) {}
