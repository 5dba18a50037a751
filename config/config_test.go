package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ender-Wang/Swifka-sub000/errors"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, FormatRaw, cfg.Decoder.Format)
	assert.Equal(t, 16, cfg.Decoder.MaxNestedDepth)
	assert.Equal(t, "nats://localhost:4222", cfg.Stream.URL)
	assert.Equal(t, 5*time.Second, cfg.Stream.PullTimeout.Std())
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
decoder:
  format: protobuf
  proto_schema_file: orders.proto
  proto_message: Order
stream:
  subject: orders.>
  pull_timeout: 2s
logging:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, FormatProtobuf, cfg.Decoder.Format)
	assert.Equal(t, "Order", cfg.Decoder.ProtoMessage)
	assert.Equal(t, 2*time.Second, cfg.Stream.PullTimeout.Std())
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())

	// Untouched keys keep their defaults.
	assert.Equal(t, 32, cfg.Stream.BatchSize)
	assert.Equal(t, 32, cfg.Decoder.BytesPreviewLen)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("decoder: [broken"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestValidate_SchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown format", func(c *Config) { c.Decoder.Format = "msgpack" }},
		{"depth too small", func(c *Config) { c.Decoder.MaxNestedDepth = 0 }},
		{"depth too large", func(c *Config) { c.Decoder.MaxNestedDepth = 1000 }},
		{"bad metrics port", func(c *Config) { c.Metrics.Port = 70000 }},
		{"metrics path without slash", func(c *Config) { c.Metrics.Path = "metrics" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"batch size zero", func(c *Config) { c.Stream.BatchSize = 0 }},
		{"backoff below one", func(c *Config) { c.Stream.Connect.BackoffFactor = 0.5 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err))
		})
	}
}

func TestValidate_CrossFieldRules(t *testing.T) {
	cfg := Default()
	cfg.Decoder.Format = FormatAvro
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingConfig)

	cfg = Default()
	cfg.Decoder.ProtoMessage = "Order"
	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingConfig)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
decoder:
  format: avro
  avro_schema_file: readings.avsc
metrics:
  enabled: true
  port: 9191
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatAvro, cfg.Decoder.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9191, cfg.Metrics.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestDuration_UnmarshalForms(t *testing.T) {
	cfg, err := Parse([]byte("stream:\n  pull_timeout: 1500ms\n"))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Stream.PullTimeout.Std())

	_, err = Parse([]byte("stream:\n  pull_timeout: quick\n"))
	require.Error(t, err)
}

func TestFormatOptions_Conversion(t *testing.T) {
	dc := DecoderConfig{MaxNestedDepth: 8, BytesPreviewLen: 64}
	opts := dc.FormatOptions()
	assert.Equal(t, 8, opts.MaxDepth)
	assert.Equal(t, 64, opts.BytesPreviewLen)

	// Zero values fall back to formatter defaults.
	opts = (&DecoderConfig{}).FormatOptions()
	assert.Equal(t, 16, opts.MaxDepth)
	assert.Equal(t, 32, opts.BytesPreviewLen)
}

func TestRetrySettings_Bridge(t *testing.T) {
	settings := RetrySettings{
		MaxRetries:    3,
		InitialDelay:  Duration(100 * time.Millisecond),
		MaxDelay:      Duration(2 * time.Second),
		BackoffFactor: 2.0,
	}
	rc := settings.RetryConfig()
	assert.Equal(t, 3, rc.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, rc.InitialDelay)
}
