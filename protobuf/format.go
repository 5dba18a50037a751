package protobuf

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FormatOptions controls schema-aware rendering behavior.
type FormatOptions struct {
	// MaxDepth caps nested-message recursion to guard against deeply
	// nested adversarial payloads. Wire-format byte consumption is
	// strictly monotonic so decoding terminates regardless; the cap only
	// bounds render depth.
	MaxDepth int

	// BytesPreviewLen is the number of bytes shown in hex previews of
	// bytes fields before truncation.
	BytesPreviewLen int
}

// DefaultFormatOptions returns the rendering defaults.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		MaxDepth:        16,
		BytesPreviewLen: 32,
	}
}

// Formatter combines a decoded field tree with a parsed schema to render
// field names, resolve enums, reinterpret wire values per declared type,
// and group repeated fields. A Formatter is stateless between calls and
// safe for concurrent use.
type Formatter struct {
	schema *Schema
	opts   FormatOptions
}

// NewFormatter creates a formatter for the given schema. A nil schema is
// allowed; every field then renders with synthetic names and raw values.
func NewFormatter(schema *Schema, opts FormatOptions) *Formatter {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultFormatOptions().MaxDepth
	}
	if opts.BytesPreviewLen <= 0 {
		opts.BytesPreviewLen = DefaultFormatOptions().BytesPreviewLen
	}
	return &Formatter{schema: schema, opts: opts}
}

// node is one named entry in the render tree. values holds one item for
// singular fields and N items for repeated groups.
type node struct {
	name     string
	repeated bool
	values   []item
}

// item is either a scalar token (text) or a nested message (children).
type item struct {
	text     string
	children []node
}

// Format renders the decoded fields as the named message type. It returns
// both the single-line and the indented rendering from the same walk, so
// the two are always consistent. Formatting never fails: malformed nested
// payloads render as inline error markers instead of aborting siblings.
func (f *Formatter) Format(fields []Field, messageName string) (flat, pretty string) {
	nodes := f.buildNodes(fields, messageName, 0)
	return renderFlat(nodes), renderPretty(nodes, 0)
}

// FormatRaw renders a schema-less field tree keyed by field number.
// Length-delimited payloads use a UTF-8-or-hex heuristic; no nested
// decoding is attempted at this stage.
func FormatRaw(fields []Field) (flat, pretty string) {
	f := NewFormatter(nil, DefaultFormatOptions())
	nodes := f.buildNodes(fields, "", 0)
	return renderFlat(nodes), renderPretty(nodes, 0)
}

// buildNodes groups the flat field list by field number (stable,
// first-seen order) and converts each group per its declared type.
func (f *Formatter) buildNodes(fields []Field, messageName string, depth int) []node {
	var msgDef *MessageDef
	if f.schema != nil && messageName != "" {
		msgDef = f.schema.Messages[messageName]
	}

	order := []int{}
	groups := map[int][]Value{}
	for _, field := range fields {
		if _, seen := groups[field.Number]; !seen {
			order = append(order, field.Number)
		}
		groups[field.Number] = append(groups[field.Number], field.Value)
	}

	nodes := make([]node, 0, len(order))
	for _, number := range order {
		values := groups[number]

		var def *FieldDef
		if msgDef != nil {
			if d, ok := msgDef.Fields[number]; ok {
				def = &d
			}
		}

		n := node{}
		if def != nil {
			n.name = def.Name
			// Declared repeated, or more than one occurrence on the wire.
			// The second clause degrades gracefully when schema metadata
			// is missing or incomplete.
			n.repeated = def.Repeated || len(values) > 1
		} else {
			if msgDef != nil {
				n.name = "field_" + strconv.Itoa(number)
			} else {
				n.name = strconv.Itoa(number)
			}
			n.repeated = len(values) > 1
		}

		for _, v := range values {
			if def != nil {
				n.values = append(n.values, f.convert(v, def.TypeName, depth))
			} else {
				n.values = append(n.values, f.rawItem(v))
			}
		}
		nodes = append(nodes, n)
	}

	return nodes
}

// convert reinterprets one wire value according to its declared type.
// Wire/type mismatches fall back to the raw rendering rather than
// erroring; a schema that disagrees with the bytes still renders.
func (f *Formatter) convert(v Value, typeName string, depth int) item {
	switch typeName {
	case "bool":
		if v.Kind == KindVarint {
			return item{text: strconv.FormatBool(v.Num != 0)}
		}
	case "int32":
		if v.Kind == KindVarint {
			return item{text: strconv.FormatInt(int64(int32(v.Num)), 10)}
		}
	case "int64":
		if v.Kind == KindVarint {
			return item{text: strconv.FormatInt(int64(v.Num), 10)}
		}
	case "sint32":
		if v.Kind == KindVarint {
			return item{text: strconv.FormatInt(int64(int32(ZigzagDecode(v.Num))), 10)}
		}
	case "sint64":
		if v.Kind == KindVarint {
			return item{text: strconv.FormatInt(ZigzagDecode(v.Num), 10)}
		}
	case "uint32":
		if v.Kind == KindVarint {
			return item{text: strconv.FormatUint(uint64(uint32(v.Num)), 10)}
		}
	case "uint64":
		if v.Kind == KindVarint {
			return item{text: strconv.FormatUint(v.Num, 10)}
		}
	case "double":
		if v.Kind == KindFixed64 {
			return item{text: formatFloat(Float64FromBits(v.Num), 64)}
		}
	case "float":
		if v.Kind == KindFixed32 {
			return item{text: formatFloat(float64(Float32FromBits(uint32(v.Num))), 32)}
		}
	case "fixed64":
		if v.Kind == KindFixed64 {
			return item{text: strconv.FormatUint(v.Num, 10)}
		}
	case "fixed32":
		if v.Kind == KindFixed32 {
			return item{text: strconv.FormatUint(v.Num, 10)}
		}
	case "sfixed64":
		// Fixed-width signed fields are not zigzag-encoded, unlike the
		// varint signed types.
		if v.Kind == KindFixed64 {
			return item{text: strconv.FormatInt(int64(v.Num), 10)}
		}
	case "sfixed32":
		if v.Kind == KindFixed32 {
			return item{text: strconv.FormatInt(int64(int32(v.Num)), 10)}
		}
	case "string":
		if v.Kind == KindLengthDelimited {
			if utf8.Valid(v.Bytes) {
				return item{text: strconv.Quote(string(v.Bytes))}
			}
			return item{text: fmt.Sprintf("<invalid utf8: %d bytes>", len(v.Bytes))}
		}
	case "bytes":
		if v.Kind == KindLengthDelimited {
			return item{text: f.hexPreview(v.Bytes)}
		}
	default:
		if f.schema != nil {
			if enum, ok := f.schema.Enums[typeName]; ok && v.Kind == KindVarint {
				value := int(int32(v.Num))
				if symbol, ok := enum.Values[value]; ok {
					return item{text: symbol}
				}
				return item{text: fmt.Sprintf("UNKNOWN_%d", value)}
			}
			if _, ok := f.schema.Messages[typeName]; ok && v.Kind == KindLengthDelimited {
				return f.nestedItem(v.Bytes, typeName, depth)
			}
		}
	}
	return f.rawItem(v)
}

// nestedItem recursively decodes a length-delimited payload as a nested
// message. Decode failures degrade to an inline error marker so a corrupt
// sub-field never aborts rendering of its siblings.
func (f *Formatter) nestedItem(data []byte, typeName string, depth int) item {
	if depth+1 >= f.opts.MaxDepth {
		return item{text: "<max nesting depth exceeded>"}
	}
	nested, err := DecodeFields(data)
	if err != nil {
		return item{text: fmt.Sprintf("<nested decode error: %v>", err)}
	}
	children := f.buildNodes(nested, typeName, depth+1)
	return item{children: children}
}

// rawItem renders a wire value with no type information.
func (f *Formatter) rawItem(v Value) item {
	switch v.Kind {
	case KindVarint, KindFixed64:
		return item{text: strconv.FormatUint(v.Num, 10)}
	case KindFixed32:
		return item{text: strconv.FormatUint(v.Num, 10)}
	case KindLengthDelimited:
		return item{text: f.untypedBytes(v.Bytes)}
	case KindNested:
		// Only produced by the schema-aware pass; render children inline.
		return item{text: fmt.Sprintf("<nested: %d fields>", len(v.Fields))}
	default:
		return item{text: fmt.Sprintf("<unknown kind %d>", int(v.Kind))}
	}
}

// untypedBytes applies the heuristic for length-delimited payloads with no
// declared type: printable UTF-8 renders as a quoted string, anything with
// an embedded NUL or invalid UTF-8 renders as a hex preview.
func (f *Formatter) untypedBytes(data []byte) string {
	if len(data) == 0 {
		return `""`
	}
	// An embedded NUL is evidence of binary data even when the bytes
	// happen to be valid UTF-8.
	if bytes.IndexByte(data, 0) < 0 && utf8.Valid(data) {
		return strconv.Quote(string(data))
	}
	return f.hexPreview(data)
}

// hexPreview renders bytes as a length-prefixed truncated hex dump.
func (f *Formatter) hexPreview(data []byte) string {
	shown := data
	suffix := ""
	if len(data) > f.opts.BytesPreviewLen {
		shown = data[:f.opts.BytesPreviewLen]
		suffix = "..."
	}
	return fmt.Sprintf("(%d bytes) %s%s", len(data), hex.EncodeToString(shown), suffix)
}

func formatFloat(v float64, bits int) string {
	return strconv.FormatFloat(v, 'g', -1, bits)
}

// renderFlat produces the single-line rendering:
//
//	{ name: value, other: [v1, v2], nested: { inner: 1 } }
func renderFlat(nodes []node) string {
	if len(nodes) == 0 {
		return "{}"
	}

	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.name+": "+renderFlatValues(n))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func renderFlatValues(n node) string {
	rendered := make([]string, 0, len(n.values))
	for _, it := range n.values {
		rendered = append(rendered, renderFlatItem(it))
	}
	if n.repeated {
		return "[" + strings.Join(rendered, ", ") + "]"
	}
	return rendered[0]
}

func renderFlatItem(it item) string {
	if it.children == nil {
		return it.text
	}
	return renderFlat(it.children)
}

// renderPretty produces the multi-line rendering with two-space-per-level
// indentation.
func renderPretty(nodes []node, depth int) string {
	if len(nodes) == 0 {
		return "{}"
	}

	indent := strings.Repeat("  ", depth+1)
	var sb strings.Builder
	sb.WriteString("{\n")
	for i, n := range nodes {
		sb.WriteString(indent)
		sb.WriteString(n.name)
		sb.WriteString(": ")
		sb.WriteString(renderPrettyValues(n, depth+1))
		if i < len(nodes)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString("}")
	return sb.String()
}

func renderPrettyValues(n node, depth int) string {
	if !n.repeated {
		return renderPrettyItem(n.values[0], depth)
	}

	if len(n.values) == 0 {
		return "[]"
	}

	indent := strings.Repeat("  ", depth+1)
	var sb strings.Builder
	sb.WriteString("[\n")
	for i, it := range n.values {
		sb.WriteString(indent)
		sb.WriteString(renderPrettyItem(it, depth+1))
		if i < len(n.values)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString("]")
	return sb.String()
}

func renderPrettyItem(it item, depth int) string {
	if it.children == nil {
		return it.text
	}
	return renderPretty(it.children, depth)
}
