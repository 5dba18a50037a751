package display

import (
	"fmt"

	"github.com/Ender-Wang/Swifka-sub000/avro"
	"github.com/Ender-Wang/Swifka-sub000/protobuf"
)

// Markers for the two degenerate payload states. A nil slice means the
// producer sent no value at all; a non-nil empty slice means it sent a
// zero-length value. Consumers care about the difference (tombstones vs
// empty messages), so the two render distinctly.
const (
	NullMarker  = "(null)"
	EmptyMarker = "(empty)"
)

// Placeholders rendered instead of raising errors at the display boundary.
const (
	protoNotConfigured = "(protobuf - not configured)"
	avroNotConfigured  = "(avro - not configured)"
)

// Rendering carries both text forms of one payload. Flat is a single
// line for list views; Pretty is indented for detail views.
type Rendering struct {
	Flat   string
	Pretty string
}

func uniform(text string) Rendering {
	return Rendering{Flat: text, Pretty: text}
}

// payloadMarker resolves the two degenerate payload states. ok is false
// when the marker applies and no decoding should be attempted.
func payloadMarker(payload []byte) (Rendering, bool) {
	switch {
	case payload == nil:
		return uniform(NullMarker), false
	case len(payload) == 0:
		return uniform(EmptyMarker), false
	default:
		return Rendering{}, true
	}
}

// Pipeline binds a format choice and its schemas into a single render
// function. The returned error reports decode failures for callers that
// count outcomes; the Rendering is always usable regardless, carrying a
// placeholder when decoding failed.
type Pipeline func(payload []byte) (Rendering, error)

// RawPipeline builds the schema-less protobuf pass: field numbers and
// wire-typed values, no names.
func RawPipeline() Pipeline {
	return func(payload []byte) (Rendering, error) {
		if marker, ok := payloadMarker(payload); !ok {
			return marker, nil
		}
		fields, err := protobuf.DecodeFields(payload)
		if err != nil {
			return uniform(fmt.Sprintf("(protobuf decode error: %v)", err)), err
		}
		flat, pretty := protobuf.FormatRaw(fields)
		return Rendering{Flat: flat, Pretty: pretty}, nil
	}
}

// ProtoPipeline builds the schema-aware protobuf pass. A nil schema
// renders the not-configured placeholder rather than silently degrading
// to raw output, so the caller can tell "no schema set up" apart from
// "schema set up but message type unknown" (the latter falls back to
// synthetic field names inside the formatter).
func ProtoPipeline(schema *protobuf.Schema, messageName string, opts protobuf.FormatOptions) Pipeline {
	var formatter *protobuf.Formatter
	if schema != nil {
		formatter = protobuf.NewFormatter(schema, opts)
	}
	return func(payload []byte) (Rendering, error) {
		if formatter == nil {
			return uniform(protoNotConfigured), nil
		}
		if marker, ok := payloadMarker(payload); !ok {
			return marker, nil
		}
		fields, err := protobuf.DecodeFields(payload)
		if err != nil {
			return uniform(fmt.Sprintf("(protobuf decode error: %v)", err)), err
		}
		flat, pretty := formatter.Format(fields, messageName)
		return Rendering{Flat: flat, Pretty: pretty}, nil
	}
}

// AvroPipeline builds the Avro pass. Avro decoding is all-or-nothing:
// any failure renders a placeholder for the whole payload because a
// misread desynchronizes every field after it.
func AvroPipeline(schema *avro.Schema) Pipeline {
	return func(payload []byte) (Rendering, error) {
		if schema == nil {
			return uniform(avroNotConfigured), nil
		}
		if marker, ok := payloadMarker(payload); !ok {
			return marker, nil
		}
		value, err := avro.Decode(payload, schema)
		if err != nil {
			return uniform(fmt.Sprintf("(avro decode error: %v)", err)), err
		}
		return Rendering{
			Flat:   avro.FormatFlat(value),
			Pretty: avro.FormatPretty(value),
		}, nil
	}
}

// ProtoRaw renders a payload through the schema-less protobuf pass,
// discarding the decode error: the display boundary has nowhere useful
// to propagate one.
func ProtoRaw(payload []byte) Rendering {
	rendering, _ := RawPipeline()(payload)
	return rendering
}

// Proto renders a payload through the schema-aware protobuf pass.
func Proto(payload []byte, schema *protobuf.Schema, messageName string, opts protobuf.FormatOptions) Rendering {
	rendering, _ := ProtoPipeline(schema, messageName, opts)(payload)
	return rendering
}

// Avro renders a payload against a parsed Avro schema.
func Avro(payload []byte, schema *avro.Schema) Rendering {
	rendering, _ := AvroPipeline(schema)(payload)
	return rendering
}

// Summary describes one payload for programmatic consumers (topic
// overviews, counters) without carrying the rendered text.
type Summary struct {
	// Absent is true for a nil payload, Empty for a present zero-length
	// one. At most one of the two is set.
	Absent bool
	Empty  bool

	// Size is the payload length in bytes.
	Size int

	// Fields counts top-level decoded fields (protobuf) or record pairs
	// / array items (Avro). Zero when decoding failed.
	Fields int

	// Err holds the decode failure, if any. Degenerate payloads are not
	// errors.
	Err error
}

// SummarizeProto runs the schema-less protobuf pass for counting.
func SummarizeProto(payload []byte) Summary {
	s := Summary{Absent: payload == nil, Empty: payload != nil && len(payload) == 0, Size: len(payload)}
	if s.Absent || s.Empty {
		return s
	}
	fields, err := protobuf.DecodeFields(payload)
	if err != nil {
		s.Err = err
		return s
	}
	s.Fields = len(fields)
	return s
}

// SummarizeAvro decodes against schema for counting.
func SummarizeAvro(payload []byte, schema *avro.Schema) Summary {
	s := Summary{Absent: payload == nil, Empty: payload != nil && len(payload) == 0, Size: len(payload)}
	if s.Absent || s.Empty {
		return s
	}
	if schema == nil {
		s.Err = fmt.Errorf("no schema configured")
		return s
	}
	value, err := avro.Decode(payload, schema)
	if err != nil {
		s.Err = err
		return s
	}
	switch value.Kind {
	case avro.ValueRecord:
		s.Fields = len(value.Pairs)
	case avro.ValueArray:
		s.Fields = len(value.Items)
	default:
		s.Fields = 1
	}
	return s
}
