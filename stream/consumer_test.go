package stream

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ender-Wang/Swifka-sub000/config"
	"github.com/Ender-Wang/Swifka-sub000/display"
	"github.com/Ender-Wang/Swifka-sub000/errors"
	"github.com/Ender-Wang/Swifka-sub000/metric"
	"github.com/Ender-Wang/Swifka-sub000/testutil"
)

func testStreamConfig() config.StreamConfig {
	cfg := config.Default().Stream
	cfg.Stream = "PAYLOADS"
	cfg.Subject = "payloads.>"
	cfg.HistorySize = 8
	return cfg
}

func TestNew_Validation(t *testing.T) {
	_, err := New(config.StreamConfig{}, config.FormatRaw, display.RawPipeline())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingConfig)

	_, err = New(testStreamConfig(), config.FormatRaw, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingConfig)

	consumer, err := New(testStreamConfig(), config.FormatRaw, display.RawPipeline())
	require.NoError(t, err)
	assert.NotEmpty(t, consumer.ID())
}

func TestNew_DistinctIdentities(t *testing.T) {
	a, err := New(testStreamConfig(), config.FormatRaw, display.RawPipeline())
	require.NoError(t, err)
	b, err := New(testStreamConfig(), config.FormatRaw, display.RawPipeline())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestRun_BeforeConnect(t *testing.T) {
	consumer, err := New(testStreamConfig(), config.FormatRaw, display.RawPipeline())
	require.NoError(t, err)

	err = consumer.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoConnection)
}

// fakeMsg implements jetstream.Msg for process-path testing.
type fakeMsg struct {
	subject string
	data    []byte
	acked   bool
}

func (m *fakeMsg) Metadata() (*jetstream.MsgMetadata, error) {
	return &jetstream.MsgMetadata{Sequence: jetstream.SequencePair{Stream: 42}}, nil
}
func (m *fakeMsg) Data() []byte                          { return m.data }
func (m *fakeMsg) Headers() nats.Header                  { return nil }
func (m *fakeMsg) Subject() string                       { return m.subject }
func (m *fakeMsg) Reply() string                         { return "" }
func (m *fakeMsg) Ack() error                            { m.acked = true; return nil }
func (m *fakeMsg) DoubleAck(context.Context) error       { m.acked = true; return nil }
func (m *fakeMsg) Nak() error                            { return nil }
func (m *fakeMsg) NakWithDelay(time.Duration) error      { return nil }
func (m *fakeMsg) InProgress() error                     { return nil }
func (m *fakeMsg) Term() error                           { return nil }
func (m *fakeMsg) TermWithReason(string) error           { return nil }

func TestProcess_RecordsHistoryAndMetrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	consumer, err := New(testStreamConfig(), config.FormatRaw, display.RawPipeline(),
		WithMetrics(registry.CoreMetrics()))
	require.NoError(t, err)

	payload := testutil.NewWireBuilder().Varint(1, 150).Bytes()
	consumer.process(&fakeMsg{subject: "payloads.orders", data: payload})

	history := consumer.History()
	require.Len(t, history, 1)
	assert.Equal(t, "payloads.orders", history[0].Subject)
	assert.Equal(t, uint64(42), history[0].Seq)
	assert.Equal(t, "{ 1: 150 }", history[0].Flat)
	assert.Empty(t, history[0].DecodeErr)
	assert.Equal(t, len(payload), history[0].Size)
}

func TestProcess_DecodeFailureKeptInHistory(t *testing.T) {
	consumer, err := New(testStreamConfig(), config.FormatRaw, display.RawPipeline())
	require.NoError(t, err)

	// Reserved wire type 6: decode fails, history keeps the placeholder.
	consumer.process(&fakeMsg{subject: "payloads.bad", data: []byte{0x0e}})

	history := consumer.History()
	require.Len(t, history, 1)
	assert.NotEmpty(t, history[0].DecodeErr)
	assert.Contains(t, history[0].Flat, "(protobuf decode error: ")
}

func TestProcess_HistoryBounded(t *testing.T) {
	cfg := testStreamConfig()
	cfg.HistorySize = 2
	consumer, err := New(cfg, config.FormatRaw, display.RawPipeline())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		consumer.process(&fakeMsg{subject: "payloads.x", data: []byte{0x08, byte(i)}})
	}
	assert.Len(t, consumer.History(), 2)
}

func TestBuildPipeline(t *testing.T) {
	caches, err := NewCaches()
	require.NoError(t, err)
	dir := t.TempDir()

	protoPath := filepath.Join(dir, "orders.proto")
	require.NoError(t, os.WriteFile(protoPath, []byte(`message Order { int32 qty = 1; }`), 0o600))

	avroPath := filepath.Join(dir, "readings.avsc")
	require.NoError(t, os.WriteFile(avroPath,
		[]byte(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`), 0o600))

	t.Run("raw", func(t *testing.T) {
		pipeline, err := BuildPipeline(config.DecoderConfig{Format: config.FormatRaw}, caches)
		require.NoError(t, err)
		rendering, err := pipeline([]byte{0x08, 0x01})
		require.NoError(t, err)
		assert.Equal(t, "{ 1: 1 }", rendering.Flat)
	})

	t.Run("protobuf with schema", func(t *testing.T) {
		pipeline, err := BuildPipeline(config.DecoderConfig{
			Format:          config.FormatProtobuf,
			ProtoSchemaFile: protoPath,
			ProtoMessage:    "Order",
		}, caches)
		require.NoError(t, err)
		rendering, err := pipeline([]byte{0x08, 0x05})
		require.NoError(t, err)
		assert.Equal(t, "{ qty: 5 }", rendering.Flat)
	})

	t.Run("protobuf without schema falls back to raw", func(t *testing.T) {
		pipeline, err := BuildPipeline(config.DecoderConfig{Format: config.FormatProtobuf}, caches)
		require.NoError(t, err)
		rendering, err := pipeline([]byte{0x08, 0x05})
		require.NoError(t, err)
		assert.Equal(t, "{ 1: 5 }", rendering.Flat)
	})

	t.Run("avro", func(t *testing.T) {
		pipeline, err := BuildPipeline(config.DecoderConfig{
			Format:         config.FormatAvro,
			AvroSchemaFile: avroPath,
		}, caches)
		require.NoError(t, err)
		rendering, err := pipeline([]byte{0x02})
		require.NoError(t, err)
		assert.Equal(t, "{ a: 1 }", rendering.Flat)
	})

	t.Run("schema parses are cached by path", func(t *testing.T) {
		before := caches.Proto.Stats().Hits()
		_, err := BuildPipeline(config.DecoderConfig{
			Format:          config.FormatProtobuf,
			ProtoSchemaFile: protoPath,
		}, caches)
		require.NoError(t, err)
		assert.Greater(t, caches.Proto.Stats().Hits(), before)
	})

	t.Run("strict schema rejects parse warnings", func(t *testing.T) {
		dupPath := filepath.Join(dir, "dup.proto")
		require.NoError(t, os.WriteFile(dupPath, []byte(
			"message Order { int32 qty = 1; }\nmessage Order { string id = 1; }\n"), 0o600))

		_, err := BuildPipeline(config.DecoderConfig{
			Format:          config.FormatProtobuf,
			ProtoSchemaFile: dupPath,
			StrictSchema:    true,
		}, caches)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidSchema)
		assert.Contains(t, err.Error(), "duplicate message Order")

		// Without strict mode the later Order definition wins.
		pipeline, err := BuildPipeline(config.DecoderConfig{
			Format:          config.FormatProtobuf,
			ProtoSchemaFile: dupPath,
			ProtoMessage:    "Order",
		}, caches)
		require.NoError(t, err)
		rendering, err := pipeline([]byte{0x0a, 0x02, 0x68, 0x69})
		require.NoError(t, err)
		assert.Equal(t, `{ id: "hi" }`, rendering.Flat)
	})

	t.Run("missing schema file", func(t *testing.T) {
		_, err := BuildPipeline(config.DecoderConfig{
			Format:         config.FormatAvro,
			AvroSchemaFile: filepath.Join(dir, "absent.avsc"),
		}, caches)
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := BuildPipeline(config.DecoderConfig{Format: "msgpack"}, caches)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	})
}
