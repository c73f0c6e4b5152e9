package mcp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil element service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingElementService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Elements: &mockElementService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil element service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingElementService)
	})

	t.Run("elements only is valid", func(t *testing.T) {
		ports := &Ports{Elements: &mockElementService{}}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Elements: &mockElementService{},
			Filters:  &mockFilterService{},
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_Handler_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("attrfilter_element_loads_total 1\n"))
	})
	server, err := NewServer(&Ports{Elements: &mockElementService{}}, WithMetricsHandler(metrics))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "attrfilter_element_loads_total")
}

func TestServer_Handler_NoMetrics(t *testing.T) {
	server, err := NewServer(&Ports{Elements: &mockElementService{}})
	require.NoError(t, err)

	assert.NotNil(t, server.Handler())
}
