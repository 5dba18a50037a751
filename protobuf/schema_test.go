package protobuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchema_RepeatedField(t *testing.T) {
	schema := ParseSchema(`message M { repeated string tags = 3; }`)

	msg, ok := schema.Message("M")
	require.True(t, ok)
	field, ok := msg.Fields[3]
	require.True(t, ok)
	assert.Equal(t, FieldDef{Number: 3, Name: "tags", TypeName: "string", Repeated: true}, field)
}

func TestParseSchema_Package(t *testing.T) {
	schema := ParseSchema(`
syntax = "proto3";
package com.example.telemetry;

message Ping { int32 seq = 1; }
`)
	assert.Equal(t, "com.example.telemetry", schema.Package)
	_, ok := schema.Message("Ping")
	assert.True(t, ok)
}

func TestParseSchema_FieldDeclarations(t *testing.T) {
	schema := ParseSchema(`
message Sensor {
  string name = 1;
  optional int64 last_seen = 2;
  repeated double readings = 3;
  bool active = 4;
  bytes raw = 15;
}
`)

	msg, ok := schema.Message("Sensor")
	require.True(t, ok)
	require.Len(t, msg.Fields, 5)

	assert.Equal(t, FieldDef{Number: 1, Name: "name", TypeName: "string"}, msg.Fields[1])
	assert.Equal(t, FieldDef{Number: 2, Name: "last_seen", TypeName: "int64"}, msg.Fields[2])
	assert.Equal(t, FieldDef{Number: 3, Name: "readings", TypeName: "double", Repeated: true}, msg.Fields[3])
	assert.Equal(t, FieldDef{Number: 4, Name: "active", TypeName: "bool"}, msg.Fields[4])
	assert.Equal(t, FieldDef{Number: 15, Name: "raw", TypeName: "bytes"}, msg.Fields[15])
}

func TestParseSchema_NestedMessages(t *testing.T) {
	schema := ParseSchema(`
message Outer {
  string id = 1;
  message Inner {
    int32 count = 1;
    string label = 2;
  }
  Inner inner = 2;
}
`)

	outer, ok := schema.Message("Outer")
	require.True(t, ok, "outer message must register")
	inner, ok := schema.Message("Inner")
	require.True(t, ok, "nested message must register into the flat map")

	// Field sets must not bleed across the block boundary.
	require.Len(t, outer.Fields, 2)
	assert.Equal(t, "id", outer.Fields[1].Name)
	assert.Equal(t, "inner", outer.Fields[2].Name)
	assert.Equal(t, "Inner", outer.Fields[2].TypeName)

	require.Len(t, inner.Fields, 2)
	assert.Equal(t, "count", inner.Fields[1].Name)
	assert.Equal(t, "label", inner.Fields[2].Name)
}

func TestParseSchema_DeeplyNested(t *testing.T) {
	schema := ParseSchema(`
message A {
  message B {
    message C { int32 x = 9; }
    C c = 5;
  }
  B b = 1;
}
`)

	for _, name := range []string{"A", "B", "C"} {
		_, ok := schema.Message(name)
		assert.True(t, ok, "message %s must register", name)
	}
	c, _ := schema.Message("C")
	assert.Equal(t, "x", c.Fields[9].Name)
	a, _ := schema.Message("A")
	require.Len(t, a.Fields, 1)
	b, _ := schema.Message("B")
	require.Len(t, b.Fields, 1)
}

func TestParseSchema_Enums(t *testing.T) {
	schema := ParseSchema(`
enum Status {
  STATUS_UNKNOWN = 0;
  STATUS_ACTIVE = 1;
  STATUS_RETIRED = 2;
}

message Device {
  Status status = 1;
  enum Mode {
    MODE_OFF = 0;
    MODE_ON = 1;
  }
  Mode mode = 2;
}
`)

	status, ok := schema.Enum("Status")
	require.True(t, ok)
	assert.Equal(t, map[int]string{0: "STATUS_UNKNOWN", 1: "STATUS_ACTIVE", 2: "STATUS_RETIRED"}, status.Values)

	mode, ok := schema.Enum("Mode")
	require.True(t, ok, "nested enum must register into the flat map")
	assert.Equal(t, map[int]string{0: "MODE_OFF", 1: "MODE_ON"}, mode.Values)

	device, ok := schema.Message("Device")
	require.True(t, ok)
	require.Len(t, device.Fields, 2)
	assert.Equal(t, "Status", device.Fields[1].TypeName)
	assert.Equal(t, "Mode", device.Fields[2].TypeName)
}

func TestParseSchema_NegativeEnumValues(t *testing.T) {
	schema := ParseSchema(`enum E { NEG = -1; ZERO = 0; }`)
	e, ok := schema.Enum("E")
	require.True(t, ok)
	assert.Equal(t, "NEG", e.Values[-1])
	assert.Equal(t, "ZERO", e.Values[0])
}

func TestParseSchema_Comments(t *testing.T) {
	schema := ParseSchema(`
// message Ghost { string gone = 1; }
/* message AlsoGhost {
     int32 gone = 1;
   } */
message Real {
  string name = 1; // trailing comment
  /* int32 commented_out = 2; */
}
`)

	_, ok := schema.Message("Ghost")
	assert.False(t, ok)
	_, ok = schema.Message("AlsoGhost")
	assert.False(t, ok)

	real, ok := schema.Message("Real")
	require.True(t, ok)
	require.Len(t, real.Fields, 1)
	assert.Equal(t, "name", real.Fields[1].Name)
}

func TestParseSchema_UnmatchedBraceSkipped(t *testing.T) {
	schema := ParseSchema(`
message Good { string a = 1; }
message Broken { string b = 1;
`)

	good, ok := schema.Message("Good")
	require.True(t, ok, "well-formed block before malformed input must survive")
	assert.Equal(t, "a", good.Fields[1].Name)

	_, ok = schema.Message("Broken")
	assert.False(t, ok, "block with no closing brace is skipped")
	assert.NotEmpty(t, schema.Warnings)
}

func TestParseSchema_DuplicateTypeNames(t *testing.T) {
	schema := ParseSchema(`
message M { string first = 1; }
message M { string second = 1; }
`)

	m, ok := schema.Message("M")
	require.True(t, ok)
	// Last definition wins, and the collision is surfaced as a warning.
	assert.Equal(t, "second", m.Fields[1].Name)

	require.NotEmpty(t, schema.Warnings)
	assert.Contains(t, schema.Warnings[0], "duplicate message M")
}

func TestParseSchema_IgnoresServicesAndOptions(t *testing.T) {
	schema := ParseSchema(`
option java_package = "com.example";
import "other.proto";

service Telemetry {
  rpc Send (Ping) returns (Pong);
}

message Ping {
  int32 seq = 1 [deprecated = true];
}
`)

	ping, ok := schema.Message("Ping")
	require.True(t, ok)
	assert.Equal(t, "seq", ping.Fields[1].Name)
	_, ok = schema.Message("Telemetry")
	assert.False(t, ok)
}

func TestParseSchema_EmptyInput(t *testing.T) {
	schema := ParseSchema("")
	assert.Empty(t, schema.Messages)
	assert.Empty(t, schema.Enums)
	assert.Empty(t, schema.Package)
}
