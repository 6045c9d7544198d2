package msgpack

import (
	"fmt"
	"reflect"

	"github.com/hulthe/msgpack-go/rmp"
)

// DecodeError reports a str or bin payload that runs past the end of a
// Decoder's byte-slice input. The Offset field is the input position at
// which that payload begins, mirroring codello's tlv.SyntaxError byte
// offset reporting. Other decode failures are returned as the specific
// error types below, not wrapped in a DecodeError.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("msgpack: decode at offset %d: %s", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TypeMismatchError indicates that the marker read from the wire does not
// match the Go type being decoded into, e.g. decoding a map header into a
// string.
type TypeMismatchError struct {
	Expected string
	Marker   rmp.Marker
	Type     reflect.Type
}

func (e *TypeMismatchError) Error() string {
	if e.Type != nil {
		return fmt.Sprintf("msgpack: expected %s for %s, got %s", e.Expected, e.Type, e.Marker)
	}
	return fmt.Sprintf("msgpack: expected %s, got %s", e.Expected, e.Marker)
}

// OutOfRangeError indicates that a numeric value read from the wire does not
// fit in the destination Go type, e.g. decoding a uint64 with the high bit
// set into an int8.
type OutOfRangeError struct {
	Value any
	Type  reflect.Type
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("msgpack: value %v out of range for %s", e.Value, e.Type)
}

// LengthMismatchError indicates that an array or map header announced a
// different number of elements than the destination Go value (typically a
// fixed-size array) can hold.
type LengthMismatchError struct {
	Want, Got int
	Type      reflect.Type
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("msgpack: length mismatch decoding %s: want %d elements, got %d", e.Type, e.Want, e.Got)
}

// Utf8Error indicates that a str value's payload was not valid UTF-8 while
// decoding into a Go string. Decoding such a payload into an untyped any
// yields its bytes as []byte instead.
type Utf8Error struct {
	Bytes []byte
}

func (e *Utf8Error) Error() string {
	return fmt.Sprintf("msgpack: str payload of %d bytes is not valid UTF-8", len(e.Bytes))
}

// DepthLimitExceededError indicates that decoding a nested array or map would
// exceed the Decoder's configured maximum nesting depth. This guards against
// stack exhaustion from adversarial or corrupt input; see WithMaxDepth.
type DepthLimitExceededError struct {
	Limit int
}

func (e *DepthLimitExceededError) Error() string {
	return fmt.Sprintf("msgpack: nesting depth exceeds limit of %d", e.Limit)
}

// UncategorizedError wraps an error returned by a custom Unmarshaler that is
// not already an UncategorizedError, following the teacher's pattern of wrapping decode-time errors from
// user code (ber.StructuralError/ber.SyntaxError wrap an inner Err the same
// way).
type UncategorizedError struct {
	Err error
}

func (e *UncategorizedError) Error() string { return "msgpack: " + e.Err.Error() }
func (e *UncategorizedError) Unwrap() error { return e.Err }

// InvalidUnmarshalError indicates that a non-pointer or nil value was
// passed to Decoder.Decode or Unmarshal, mirroring ber.InvalidDecodeError.
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "msgpack: Decode(nil)"
	}
	if e.Type.Kind() != reflect.Pointer {
		return "msgpack: Decode(non-pointer " + e.Type.String() + ")"
	}
	return "msgpack: Decode(nil " + e.Type.String() + ")"
}

// UnsupportedTypeError indicates that a value passed to Encode cannot be
// represented in MessagePack, mirroring ber.UnsupportedTypeError.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	if e.Type == nil {
		return "msgpack: cannot encode nil value"
	}
	return "msgpack: cannot encode value of type " + e.Type.String()
}

// EncodeError wraps an error returned by a custom Marshaler, mirroring
// ber.EncodeError.
type EncodeError struct {
	Type reflect.Type
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("msgpack: encode error for %s: %s", e.Type, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// LengthTooLargeError is returned when a slice, map, or string argument to
// Encode exceeds MessagePack's 32-bit length limit. It aliases rmp's error
// of the same shape so callers only need to match one type.
type LengthTooLargeError = rmp.LengthTooLargeError

// ErrReserved is returned when the decoder encounters the reserved marker
// byte 0xc1.
var ErrReserved = rmp.ErrReserved
