package avro

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// bytesPreviewLen caps hex previews of bytes/fixed values, matching the
// protobuf renderer's truncation policy.
const bytesPreviewLen = 32

// FormatFlat renders a decoded value as a single line:
//
//	{ a: 1, tags: ["x", "y"], blob: (2 bytes) abcd }
//
// Formatting is a pure function of the value: the same value always
// renders to byte-identical text.
func FormatFlat(v Value) string {
	switch v.Kind {
	case ValueNull:
		return "null"
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueInt, ValueLong:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 32)
	case ValueDouble:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueString:
		return formatString(v.Str)
	case ValueBytes:
		return hexPreview(v.Bytes)
	case ValueRecord:
		if len(v.Pairs) == 0 {
			return "{}"
		}
		parts := make([]string, 0, len(v.Pairs))
		for _, pair := range v.Pairs {
			parts = append(parts, pair.Name+": "+FormatFlat(pair.Value))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case ValueArray:
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			parts = append(parts, FormatFlat(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("<unknown value kind %d>", int(v.Kind))
	}
}

// FormatPretty renders a decoded value with two-space-per-level
// indentation.
func FormatPretty(v Value) string {
	return prettyValue(v, 0)
}

func prettyValue(v Value, depth int) string {
	switch v.Kind {
	case ValueRecord:
		if len(v.Pairs) == 0 {
			return "{}"
		}
		indent := strings.Repeat("  ", depth+1)
		var sb strings.Builder
		sb.WriteString("{\n")
		for i, pair := range v.Pairs {
			sb.WriteString(indent)
			sb.WriteString(pair.Name)
			sb.WriteString(": ")
			sb.WriteString(prettyValue(pair.Value, depth+1))
			if i < len(v.Pairs)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("}")
		return sb.String()

	case ValueArray:
		if len(v.Items) == 0 {
			return "[]"
		}
		indent := strings.Repeat("  ", depth+1)
		var sb strings.Builder
		sb.WriteString("[\n")
		for i, item := range v.Items {
			sb.WriteString(indent)
			sb.WriteString(prettyValue(item, depth+1))
			if i < len(v.Items)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("]")
		return sb.String()

	default:
		return FormatFlat(v)
	}
}

// formatString quotes decoded strings except for the decoder-inserted
// invalid-UTF-8 marker, which renders bare so it reads as an annotation
// rather than data.
func formatString(s string) string {
	if s == invalidUTF8Marker {
		return s
	}
	return strconv.Quote(s)
}

func hexPreview(data []byte) string {
	shown := data
	suffix := ""
	if len(data) > bytesPreviewLen {
		shown = data[:bytesPreviewLen]
		suffix = "..."
	}
	return fmt.Sprintf("(%d bytes) %s%s", len(data), hex.EncodeToString(shown), suffix)
}
