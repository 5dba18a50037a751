package protobuf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FieldDef describes one field declaration inside a message block.
type FieldDef struct {
	Number   int
	Name     string
	TypeName string
	Repeated bool
}

// MessageDef holds the fields of one message, keyed by field number.
type MessageDef struct {
	Name   string
	Fields map[int]FieldDef
}

// EnumDef holds the value table of one enum, keyed by numeric value.
type EnumDef struct {
	Name   string
	Values map[int]string
}

// Schema is the parsed representation of a .proto text file. Nested types
// are registered into the same flat maps as top-level types; there is no
// namespacing by enclosing message. A Schema is immutable after parsing
// and safe for concurrent use.
type Schema struct {
	Package  string
	Messages map[string]*MessageDef
	Enums    map[string]*EnumDef

	// Warnings records recoverable oddities found during parsing, such as
	// duplicate type names (last definition wins) or blocks with no
	// matching closing brace (skipped). A best-effort schema with warnings
	// is preferable to no schema for an inspection tool.
	Warnings []string
}

// Message looks up a message definition by name.
func (s *Schema) Message(name string) (*MessageDef, bool) {
	m, ok := s.Messages[name]
	return m, ok
}

// Enum looks up an enum definition by name.
func (s *Schema) Enum(name string) (*EnumDef, bool) {
	e, ok := s.Enums[name]
	return e, ok
}

// MessageNames returns the registered message names. Order is not
// guaranteed; callers needing stable order must sort.
func (s *Schema) MessageNames() []string {
	names := make([]string, 0, len(s.Messages))
	for name := range s.Messages {
		names = append(names, name)
	}
	return names
}

var (
	lineCommentRe  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	packageRe      = regexp.MustCompile(`(?m)^\s*package\s+([A-Za-z_][\w.]*)\s*;`)
	blockHeaderRe  = regexp.MustCompile(`\b(message|enum)\s+([A-Za-z_]\w*)\s*\{`)
	fieldRe        = regexp.MustCompile(`(?m)^\s*(repeated\s+|optional\s+|required\s+)?([A-Za-z_][\w.]*)\s+([A-Za-z_]\w*)\s*=\s*(\d+)`)
	enumValueRe    = regexp.MustCompile(`(?m)^\s*([A-Za-z_]\w*)\s*=\s*(-?\d+)\s*;`)
)

// ParseSchema parses .proto-style text into a Schema. The parser is
// deliberately tolerant: it only understands message/enum blocks, field
// declarations, and enum value lines. Options, imports, services, and RPC
// definitions are ignored. Malformed trailing input is skipped rather
// than aborting the whole parse.
func ParseSchema(text string) *Schema {
	schema := &Schema{
		Messages: make(map[string]*MessageDef),
		Enums:    make(map[string]*EnumDef),
	}

	// Comments are stripped up front so brace matching and field
	// extraction never see commented-out declarations.
	text = blockCommentRe.ReplaceAllString(text, "")
	text = lineCommentRe.ReplaceAllString(text, "")

	if m := packageRe.FindStringSubmatch(text); m != nil {
		schema.Package = m[1]
	}

	parseBlocks(text, schema)
	return schema
}

// parseBlocks scans text for message/enum headers and registers each block
// found. Nested blocks register into the same flat schema maps.
func parseBlocks(text string, schema *Schema) {
	offset := 0
	for {
		loc := blockHeaderRe.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			return
		}

		kind := text[offset+loc[2] : offset+loc[3]]
		name := text[offset+loc[4] : offset+loc[5]]
		openBrace := offset + loc[1] - 1 // header match ends just past '{'

		end := matchBrace(text, openBrace)
		if end < 0 {
			// Unmatched opening brace: skip past it and keep scanning so a
			// malformed trailing block does not discard earlier types.
			schema.Warnings = append(schema.Warnings,
				fmt.Sprintf("%s %s: no matching closing brace, block skipped", kind, name))
			offset = openBrace + 1
			continue
		}

		body := text[openBrace+1 : end]
		switch kind {
		case "message":
			registerMessage(name, body, schema)
		case "enum":
			registerEnum(name, body, schema)
		}

		offset = end + 1
	}
}

// matchBrace returns the index of the '}' matching the '{' at open, using
// depth counting. Returns -1 when the brace is never closed.
func matchBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// registerMessage parses a message body: nested blocks first (registered
// into the same flat maps), then the field declarations of this message
// with nested block text blanked out so the field regex cannot cross
// block boundaries.
func registerMessage(name, body string, schema *Schema) {
	if _, exists := schema.Messages[name]; exists {
		schema.Warnings = append(schema.Warnings,
			fmt.Sprintf("duplicate message %s: later definition replaces earlier", name))
	}
	if _, exists := schema.Enums[name]; exists {
		schema.Warnings = append(schema.Warnings,
			fmt.Sprintf("type %s defined as both enum and message", name))
	}

	parseBlocks(body, schema)

	msg := &MessageDef{
		Name:   name,
		Fields: make(map[int]FieldDef),
	}

	flat := blankNestedBlocks(body)
	for _, m := range fieldRe.FindAllStringSubmatch(flat, -1) {
		typeName := m[2]
		// Guard against the field regex catching a block header remnant.
		if typeName == "message" || typeName == "enum" {
			continue
		}
		number, err := strconv.Atoi(m[4])
		if err != nil || number <= 0 {
			continue
		}
		msg.Fields[number] = FieldDef{
			Number:   number,
			Name:     m[3],
			TypeName: typeName,
			Repeated: strings.HasPrefix(strings.TrimSpace(m[1]), "repeated"),
		}
	}

	schema.Messages[name] = msg
}

// registerEnum parses an enum body into its value table.
func registerEnum(name, body string, schema *Schema) {
	if _, exists := schema.Enums[name]; exists {
		schema.Warnings = append(schema.Warnings,
			fmt.Sprintf("duplicate enum %s: later definition replaces earlier", name))
	}

	enum := &EnumDef{
		Name:   name,
		Values: make(map[int]string),
	}

	for _, m := range enumValueRe.FindAllStringSubmatch(body, -1) {
		if m[1] == "option" {
			continue
		}
		value, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		enum.Values[value] = m[1]
	}

	schema.Enums[name] = enum
}

// blankNestedBlocks replaces every nested message/enum block in body with
// spaces of equal length, so field extraction sees only this message's own
// declarations while offsets stay stable.
func blankNestedBlocks(body string) string {
	out := []byte(body)
	offset := 0
	for {
		loc := blockHeaderRe.FindStringIndex(body[offset:])
		if loc == nil {
			break
		}
		start := offset + loc[0]
		openBrace := offset + loc[1] - 1
		end := matchBrace(body, openBrace)
		if end < 0 {
			// Unmatched nested block: blank to end of body. parseBlocks has
			// already recorded the warning.
			end = len(body) - 1
		}
		for i := start; i <= end; i++ {
			if out[i] != '\n' {
				out[i] = ' '
			}
		}
		offset = end + 1
		if offset >= len(body) {
			break
		}
	}
	return string(out)
}
