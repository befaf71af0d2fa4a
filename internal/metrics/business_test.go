package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/dicomconf/internal/errors"
)

// assertBizMetricLine checks that the Prometheus output contains a metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestOutcome(t *testing.T) {
	notFound := apperrors.Wrap(apperrors.ErrNotFound, "device not found")
	taken := apperrors.Wrap(apperrors.ErrAlreadyExists, "AE title already registered")

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: OutcomeSuccess},
		{name: "not found", err: notFound, expected: OutcomeNotFound},
		{name: "already registered", err: taken, expected: OutcomeConflict},
		{name: "invalid", err: fmt.Errorf("bad device: %w", apperrors.ErrInvalidInput), expected: OutcomeInvalid},
		{name: "transport", err: apperrors.ErrTransportBroken, expected: OutcomeError},
		{
			name:     "registrations left behind",
			err:      &apperrors.CleanupError{Cause: notFound, Failures: []error{errors.New("busy")}},
			expected: OutcomePartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Outcome(tt.err))
		})
	}
}

func TestBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("biz_test", "test")
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, provider.Shutdown(context.Background())) })

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "biz_test")
	require.NoError(t, err)

	ctx := context.Background()
	taken := apperrors.Wrap(apperrors.ErrAlreadyExists, "AE title already registered")

	bm.ObserveOperation(ctx, "device_save", 40*time.Millisecond, nil)
	bm.ObserveOperation(ctx, "device_save", 60*time.Millisecond, nil)
	bm.ObserveOperation(ctx, "device_save", 10*time.Millisecond, taken)
	bm.ObserveOperation(ctx, "aet_register", 2*time.Millisecond, nil)
	bm.ObserveEntries(ctx, "device_save", 3, 1, 0)
	bm.ObserveEntries(ctx, "device_save", 1, 0, 0)
	bm.ObserveEntries(ctx, "device_delete", 0, 0, 4)

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `biz_test_device_operations_total`,
		`operation="device_save".*outcome="success"`, `2`)
	assertBizMetricLine(t, output, `biz_test_device_operations_total`,
		`operation="device_save".*outcome="conflict"`, `1`)
	assertBizMetricLine(t, output, `biz_test_device_operations_total`,
		`operation="aet_register".*outcome="success"`, `1`)
	assertBizMetricLine(t, output, `biz_test_device_operation_duration_seconds_count`,
		`operation="device_save".*outcome="success"`, `2`)

	assertBizMetricLine(t, output, `biz_test_directory_entries_changed_total`,
		`change="created".*operation="device_save"`, `4`)
	assertBizMetricLine(t, output, `biz_test_directory_entries_changed_total`,
		`change="updated".*operation="device_save"`, `1`)
	assertBizMetricLine(t, output, `biz_test_directory_entries_changed_total`,
		`change="deleted".*operation="device_delete"`, `4`)
	assert.NotRegexp(t, `biz_test_directory_entries_changed_total\{[^}]*change="deleted"[^}]*operation="device_save"`, output)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()

	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)
	assert.NotPanics(t, func() {
		noOp.ObserveOperation(context.Background(), "device_save", time.Millisecond, errors.New("boom"))
		noOp.ObserveEntries(context.Background(), "device_save", 1, 2, 3)
	})
}
