package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ender-Wang/Swifka-sub000/avro"
	"github.com/Ender-Wang/Swifka-sub000/protobuf"
	"github.com/Ender-Wang/Swifka-sub000/testutil"
)

func TestProtoRaw_ThreeStateInput(t *testing.T) {
	assert.Equal(t, "(null)", ProtoRaw(nil).Flat)
	assert.Equal(t, "(null)", ProtoRaw(nil).Pretty)

	assert.Equal(t, "(empty)", ProtoRaw([]byte{}).Flat)
	assert.Equal(t, "(empty)", ProtoRaw([]byte{}).Pretty)
}

func TestProtoRaw_DecodesPresentPayload(t *testing.T) {
	// 0x08 0x96 0x01: field 1, varint 150.
	got := ProtoRaw([]byte{0x08, 0x96, 0x01})
	assert.Equal(t, "{ 1: 150 }", got.Flat)
}

func TestProtoRaw_DecodeErrorBecomesPlaceholder(t *testing.T) {
	// Field 1 with reserved wire type 6.
	got := ProtoRaw([]byte{0x0e})
	assert.Contains(t, got.Flat, "(protobuf decode error: ")
	assert.Equal(t, got.Flat, got.Pretty)
}

func TestProto_NilSchemaNotConfigured(t *testing.T) {
	got := Proto([]byte{0x08, 0x01}, nil, "M", protobuf.DefaultFormatOptions())
	assert.Equal(t, "(protobuf - not configured)", got.Flat)
}

func TestProto_SchemaAwareRendering(t *testing.T) {
	schema := protobuf.ParseSchema(`
		message Order {
			int32 quantity = 1;
			string name = 2;
		}
	`)

	data := testutil.NewWireBuilder().
		Varint(1, 150).
		String(2, "widget").
		Bytes()

	got := Proto(data, schema, "Order", protobuf.DefaultFormatOptions())
	assert.Equal(t, `{ quantity: 150, name: "widget" }`, got.Flat)
	assert.Contains(t, got.Pretty, "quantity: 150")
}

func TestProto_MarkersStillApplyWithSchema(t *testing.T) {
	schema := protobuf.ParseSchema(`message M { int32 a = 1; }`)
	opts := protobuf.DefaultFormatOptions()

	assert.Equal(t, "(null)", Proto(nil, schema, "M", opts).Flat)
	assert.Equal(t, "(empty)", Proto([]byte{}, schema, "M", opts).Flat)
}

func TestAvro_Rendering(t *testing.T) {
	schema, err := avro.ParseSchema(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	require.NoError(t, err)

	got := Avro([]byte{0x02}, schema)
	assert.Equal(t, "{ a: 1 }", got.Flat)
}

func TestAvro_NilSchemaAndMarkers(t *testing.T) {
	schema, err := avro.ParseSchema(`"int"`)
	require.NoError(t, err)

	assert.Equal(t, "(avro - not configured)", Avro([]byte{0x02}, nil).Flat)
	assert.Equal(t, "(null)", Avro(nil, schema).Flat)
	assert.Equal(t, "(empty)", Avro([]byte{}, schema).Flat)
}

func TestAvro_DecodeErrorBecomesPlaceholder(t *testing.T) {
	schema, err := avro.ParseSchema(`"string"`)
	require.NoError(t, err)

	// Length 3 claimed, one byte present.
	got := Avro([]byte{0x06, 'a'}, schema)
	assert.Contains(t, got.Flat, "(avro decode error: ")
}

func TestPipelines_ReportDecodeErrors(t *testing.T) {
	raw := RawPipeline()

	rendering, err := raw([]byte{0x08, 0x96, 0x01})
	require.NoError(t, err)
	assert.Equal(t, "{ 1: 150 }", rendering.Flat)

	rendering, err = raw([]byte{0x0e})
	require.Error(t, err, "pipeline surfaces the error alongside the placeholder")
	assert.Contains(t, rendering.Flat, "(protobuf decode error: ")

	// Degenerate payloads are markers, not errors.
	rendering, err = raw(nil)
	require.NoError(t, err)
	assert.Equal(t, "(null)", rendering.Flat)
}

func TestSummarizeProto(t *testing.T) {
	absent := SummarizeProto(nil)
	assert.True(t, absent.Absent)
	assert.False(t, absent.Empty)

	empty := SummarizeProto([]byte{})
	assert.False(t, empty.Absent)
	assert.True(t, empty.Empty)

	data := testutil.NewWireBuilder().Varint(1, 1).Varint(2, 2).Bytes()
	ok := SummarizeProto(data)
	assert.Equal(t, 2, ok.Fields)
	assert.Equal(t, len(data), ok.Size)
	assert.NoError(t, ok.Err)

	bad := SummarizeProto([]byte{0x0e})
	assert.Error(t, bad.Err)
	assert.Zero(t, bad.Fields)
}

func TestSummarizeAvro(t *testing.T) {
	schema, err := avro.ParseSchema(`{"type":"record","name":"R","fields":[
		{"name": "a", "type": "int"},
		{"name": "b", "type": "int"}
	]}`)
	require.NoError(t, err)

	got := SummarizeAvro(testutil.NewAvroBuilder().Long(1).Long(2).Bytes(), schema)
	assert.Equal(t, 2, got.Fields)
	assert.NoError(t, got.Err)

	noSchema := SummarizeAvro([]byte{0x02}, nil)
	assert.Error(t, noSchema.Err)

	truncated := SummarizeAvro([]byte{0x02}, schema)
	assert.Error(t, truncated.Err)
}
