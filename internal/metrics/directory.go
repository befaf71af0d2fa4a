package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DirectoryMetrics records directory round trips and reconnects.
// It satisfies directory.Observer.
type DirectoryMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	reconnectCounter metric.Int64Counter
}

// NewDirectoryMetrics creates the directory instruments under namespace.
func NewDirectoryMetrics(meterProvider metric.MeterProvider, namespace string) (*DirectoryMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_directory_operations_total", namespace),
		metric.WithDescription("Total number of directory operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_directory_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of directory operations in seconds, reconnect included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory duration histogram: %w", err)
	}

	reconnectCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_directory_reconnects_total", namespace),
		metric.WithDescription("Total number of reconnects after a broken directory connection"),
		metric.WithUnit("{reconnect}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory reconnect counter: %w", err)
	}

	return &DirectoryMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		reconnectCounter: reconnectCounter,
	}, nil
}

// ObserveOperation records one directory operation with its outcome.
func (d *DirectoryMetrics) ObserveOperation(ctx context.Context, operation, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	d.operationCounter.Add(ctx, 1, attrs)
	d.durationHisto.Record(ctx, duration.Seconds(), attrs)
}

// ObserveReconnect records a reconnect attempt.
func (d *DirectoryMetrics) ObserveReconnect(ctx context.Context, status string) {
	d.reconnectCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
