package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Ender-Wang/Swifka-sub000/errors"
	"github.com/Ender-Wang/Swifka-sub000/protobuf"
)

// Payload format selectors for the decode pipeline.
const (
	FormatRaw      = "raw"
	FormatProtobuf = "protobuf"
	FormatAvro     = "avro"
)

// Duration wraps time.Duration so YAML configs can say "5s" or "250ms".
type Duration time.Duration

// UnmarshalYAML accepts either a duration string ("5s") or a bare
// integer interpreted as nanoseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err == nil {
		parsed, err := time.ParseDuration(text)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", text, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var ns int64
	if err := value.Decode(&ns); err != nil {
		return fmt.Errorf("invalid duration value")
	}
	*d = Duration(ns)
	return nil
}

// MarshalJSON renders the duration as its string form so the JSON schema
// can type it as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the complete application configuration, loaded from YAML and
// validated against a JSON schema before use.
type Config struct {
	Decoder DecoderConfig `yaml:"decoder" json:"decoder"`
	Stream  StreamConfig  `yaml:"stream" json:"stream"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DecoderConfig controls how payloads are decoded and rendered.
type DecoderConfig struct {
	// Format selects the decode pipeline: raw, protobuf, or avro.
	Format string `yaml:"format" json:"format"`

	// ProtoSchemaFile is a .proto text file; empty means schema-less.
	ProtoSchemaFile string `yaml:"proto_schema_file" json:"proto_schema_file"`

	// ProtoMessage names the target message type within the schema.
	ProtoMessage string `yaml:"proto_message" json:"proto_message"`

	// AvroSchemaFile is an Avro JSON schema file; required for avro.
	AvroSchemaFile string `yaml:"avro_schema_file" json:"avro_schema_file"`

	// MaxNestedDepth caps nested message recursion during formatting.
	MaxNestedDepth int `yaml:"max_nested_depth" json:"max_nested_depth"`

	// BytesPreviewLen caps hex previews of byte fields.
	BytesPreviewLen int `yaml:"bytes_preview_len" json:"bytes_preview_len"`

	// StrictSchema rejects proto schemas that parse with warnings, such
	// as duplicate type names. Off by default: the parser is tolerant and
	// the last definition wins.
	StrictSchema bool `yaml:"strict_schema" json:"strict_schema"`
}

// RetrySettings configures backoff for connection establishment.
type RetrySettings struct {
	MaxRetries    int      `yaml:"max_retries" json:"max_retries"`
	InitialDelay  Duration `yaml:"initial_delay" json:"initial_delay"`
	MaxDelay      Duration `yaml:"max_delay" json:"max_delay"`
	BackoffFactor float64  `yaml:"backoff_factor" json:"backoff_factor"`
}

// RetryConfig bridges to the errors package retry configuration.
func (r RetrySettings) RetryConfig() errors.RetryConfig {
	return errors.RetryConfig{
		MaxRetries:    r.MaxRetries,
		InitialDelay:  r.InitialDelay.Std(),
		MaxDelay:      r.MaxDelay.Std(),
		BackoffFactor: r.BackoffFactor,
	}
}

// StreamConfig configures the NATS JetStream consumer.
type StreamConfig struct {
	URL         string        `yaml:"url" json:"url"`
	Stream      string        `yaml:"stream" json:"stream"`
	Subject     string        `yaml:"subject" json:"subject"`
	Durable     string        `yaml:"durable" json:"durable"`
	BatchSize   int           `yaml:"batch_size" json:"batch_size"`
	HistorySize int           `yaml:"history_size" json:"history_size"`
	PullTimeout Duration      `yaml:"pull_timeout" json:"pull_timeout"`
	Connect     RetrySettings `yaml:"connect" json:"connect"`
}

// MetricsConfig configures the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Port    int    `yaml:"port" json:"port"`
	Path    string `yaml:"path" json:"path"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Decoder: DecoderConfig{
			Format:          FormatRaw,
			MaxNestedDepth:  16,
			BytesPreviewLen: 32,
		},
		Stream: StreamConfig{
			URL:         "nats://localhost:4222",
			BatchSize:   32,
			HistorySize: 256,
			PullTimeout: Duration(5 * time.Second),
			Connect: RetrySettings{
				MaxRetries:    5,
				InitialDelay:  Duration(500 * time.Millisecond),
				MaxDelay:      Duration(10 * time.Second),
				BackoffFactor: 2.0,
			},
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file, overlays it on defaults, and validates
// the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "config", "Load", "read config file")
	}
	return Parse(data)
}

// Parse decodes YAML bytes over the defaults and validates.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapInvalid(err, "config", "Parse", "parse YAML")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural rules via the JSON schema, then the few
// cross-field rules a JSON schema cannot express.
func (c *Config) Validate() error {
	if err := validateAgainstSchema(c); err != nil {
		return err
	}

	if c.Decoder.Format == FormatAvro && c.Decoder.AvroSchemaFile == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: avro format requires avro_schema_file", errors.ErrMissingConfig),
			"config", "Validate", "check decoder settings")
	}
	if c.Decoder.ProtoMessage != "" && c.Decoder.ProtoSchemaFile == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: proto_message set without proto_schema_file", errors.ErrMissingConfig),
			"config", "Validate", "check decoder settings")
	}
	return nil
}

// FormatOptions converts decoder settings to protobuf formatter options.
func (c *DecoderConfig) FormatOptions() protobuf.FormatOptions {
	opts := protobuf.DefaultFormatOptions()
	if c.MaxNestedDepth > 0 {
		opts.MaxDepth = c.MaxNestedDepth
	}
	if c.BytesPreviewLen > 0 {
		opts.BytesPreviewLen = c.BytesPreviewLen
	}
	return opts
}

// SlogLevel maps the configured level name to a slog.Level, defaulting
// to info for unknown names.
func (c *LoggingConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
