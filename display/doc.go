// Package display is the boundary between the decode engine and whatever
// shows its output. It owns two policies the codec packages deliberately
// do not:
//
//   - the three-state payload contract: a nil buffer renders "(null)", a
//     present-but-empty buffer renders "(empty)", and only a non-empty
//     buffer is decoded;
//   - error downgrading: decode failures become inline placeholder text
//     like "(protobuf decode error: ...)" instead of returned errors,
//     because a payload list view has no error channel per row.
//
// Programmatic consumers that need structure rather than text use the
// Summarize functions, which keep real error values.
package display
