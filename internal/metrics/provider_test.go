package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, p *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	p.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("dicomconf", "1.4.0")
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, provider.Shutdown(context.Background())) })

	assert.NotNil(t, provider.MeterProvider())

	output := scrape(t, provider)
	assert.Contains(t, output, "go_goroutines")
	assert.Regexp(t, `target_info\{[^}]*service_name="dicomconf"`, output)
	assert.Regexp(t, `target_info\{[^}]*service_version="1.4.0"`, output)
}

func TestNewProvider_EmptyNamespaceKeepsServiceName(t *testing.T) {
	provider, err := NewProvider("", "dev")
	require.NoError(t, err)

	assert.Regexp(t, `target_info\{[^}]*service_name="dicomconf"`, scrape(t, provider))
}

func TestProvider_DirectoryLatencyBuckets(t *testing.T) {
	provider, err := NewProvider("test_app", "test")
	require.NoError(t, err)

	dm, err := NewDirectoryMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)
	dm.ObserveOperation(context.Background(), "search", "success", 2*time.Millisecond)

	output := scrape(t, provider)
	assert.Regexp(t, `test_app_directory_operation_duration_seconds_bucket\{[^}]*le="0.001"[^}]*\} 0`, output)
	assert.Regexp(t, `test_app_directory_operation_duration_seconds_bucket\{[^}]*le="0.0025"[^}]*\} 1`, output)
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("test_app", "test")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{meterProvider: nil}

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
