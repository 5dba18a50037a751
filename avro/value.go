package avro

// ValueKind discriminates decoded value shapes. The set mirrors JSON
// value shapes with integer width and float precision kept distinct so a
// rendering can stay faithful to the schema that produced the value.
type ValueKind int

const (
	// ValueNull is the null sentinel (zero bytes on the wire).
	ValueNull ValueKind = iota
	// ValueBool holds Bool.
	ValueBool
	// ValueInt holds a 32-bit integer in Int.
	ValueInt
	// ValueLong holds a 64-bit integer in Int.
	ValueLong
	// ValueFloat holds a single-precision float in Float.
	ValueFloat
	// ValueDouble holds a double-precision float in Float.
	ValueDouble
	// ValueString holds Str. Enum symbols also decode to this kind.
	ValueString
	// ValueBytes holds Bytes. Fixed blobs also decode to this kind.
	ValueBytes
	// ValueRecord holds Pairs in schema declaration order. Maps decode to
	// this kind too, with insertion order preserved.
	ValueRecord
	// ValueArray holds Items.
	ValueArray
)

// Pair is one entry of an order-preserving record or map value.
type Pair struct {
	Name  string
	Value Value
}

// Value is a decoded Avro datum. Which auxiliary field is meaningful
// depends on Kind. Records are backed by an ordered pair list rather than
// a map because Avro field order must be reproducible for rendering.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Bytes []byte
	Pairs []Pair
	Items []Value
}

// Null is the shared null sentinel value.
func Null() Value {
	return Value{Kind: ValueNull}
}
