package metrics

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midiwire-io/midiwire/internal/logging"
)

func TestServer_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm := NewPortMetricsWithRegistry(reg)
	pm.RecordDecoded("NoteOn")

	s := NewServerWithRegistry("127.0.0.1:0", reg)
	require.NoError(t, s.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}()

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "midiwire_port_messages_decoded_total"))
}

func TestServer_AddrBeforeStart(t *testing.T) {
	s := NewServer(":9090")
	assert.Equal(t, ":9090", s.Addr())
}

func TestServer_LogsBoundAddress(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{
		Level:  logging.LevelInfo,
		Format: logging.FormatJSON,
		Output: &buf,
	})

	s := NewServerWithRegistry("127.0.0.1:0", prometheus.NewRegistry()).WithLogger(logger)
	require.NoError(t, s.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}()

	assert.Contains(t, buf.String(), "metrics server listening")
	assert.Contains(t, buf.String(), s.Addr())
}
