package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midiwire-io/midiwire/internal/midi"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Listener.ListenAddr != ":5004" {
		t.Errorf("expected default listen addr :5004, got %s", cfg.Listener.ListenAddr)
	}
	if cfg.Port.InBufferSize != 64 {
		t.Errorf("expected default in buffer size 64, got %d", cfg.Port.InBufferSize)
	}
	if cfg.Port.InChannels != "all" {
		t.Errorf("expected default inChannels all, got %s", cfg.Port.InChannels)
	}
	if cfg.Observability.MetricsAddr != ":9090" {
		t.Errorf("expected default metrics addr :9090, got %s", cfg.Observability.MetricsAddr)
	}
	require.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "midiwire.yaml")
	data := `
listener:
  listenAddr: ":6000"
  readPollMs: 2
port:
  inBufferSize: 128
  inChannels: "1,2,3"
  outChannel: 4
observability:
  logLevel: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.Listener.ListenAddr)
	assert.Equal(t, int64(2), cfg.Listener.ReadPollMs)
	assert.Equal(t, 128, cfg.Port.InBufferSize)
	assert.Equal(t, 4, cfg.Port.OutChannel)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	// Unset keys keep their defaults.
	assert.Equal(t, 32, cfg.Port.ScratchSize)
	assert.Equal(t, "json", cfg.Observability.LogFormat)

	f, err := cfg.InChannelFilter()
	require.NoError(t, err)
	assert.True(t, f.Accepts(2))
	assert.False(t, f.Accepts(0))
}

func TestLoadFromPath_Missing(t *testing.T) {
	_, err := LoadFromPath("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MIDIWIRE_LISTEN_ADDR", ":7000")
	t.Setenv("MIDIWIRE_IN_CHANNELS", "9")
	t.Setenv("MIDIWIRE_IN_BUFFER_SIZE", "256")
	t.Setenv("MIDIWIRE_SERIAL_DEVICE", "/dev/ttyUSB0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Listener.ListenAddr)
	assert.Equal(t, "9", cfg.Port.InChannels)
	assert.Equal(t, 256, cfg.Port.InBufferSize)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Listener.SerialDevice)
}

func TestValidate_Errors(t *testing.T) {
	t.Run("bad channel spec", func(t *testing.T) {
		cfg := Default()
		cfg.Port.InChannels = "banana"
		assert.Error(t, cfg.Validate())
	})

	t.Run("channel out of range", func(t *testing.T) {
		cfg := Default()
		cfg.Port.InChannels = "16"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad out channel", func(t *testing.T) {
		cfg := Default()
		cfg.Port.OutChannel = 16
		err := cfg.Validate()
		assert.ErrorIs(t, err, midi.ErrInvalidChannel)
	})

	t.Run("bad buffer size", func(t *testing.T) {
		cfg := Default()
		cfg.Port.InBufferSize = 0
		assert.Error(t, cfg.Validate())
	})
}
