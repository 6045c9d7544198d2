package msgpack

import (
	"io"
	"reflect"

	"github.com/hulthe/msgpack-go/internal/fields"
	"github.com/hulthe/msgpack-go/rmp"
)

// Encoder writes MessagePack-encoded values to an underlying io.Writer. The
// zero value is not usable; construct one with NewEncoder.
type Encoder struct {
	w   io.Writer
	cfg Config
}

// NewEncoder returns an Encoder that writes to w, configured by opts.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, cfg: buildConfig(opts)}
}

// HumanReadable reports whether the encoder was constructed with
// WithHumanReadable. Custom Marshaler implementations can branch on this the
// way a type might choose a string format over a compact binary one.
func (e *Encoder) HumanReadable() bool { return e.cfg.humanReadable }

// Encode writes the MessagePack encoding of v.
func (e *Encoder) Encode(v any) error {
	return e.encodeValue(reflect.ValueOf(v))
}

//region low-level primitives, usable directly by a custom Marshaler

// EncodeNil writes the nil marker.
func (e *Encoder) EncodeNil() error {
	_, err := rmp.WriteNil(e.w)
	return err
}

// EncodeBool writes a bool marker.
func (e *Encoder) EncodeBool(b bool) error {
	_, err := rmp.WriteBool(e.w, b)
	return err
}

// EncodeInt writes v using the smallest signed-int representation.
func (e *Encoder) EncodeInt(v int64) error {
	_, err := rmp.WriteInt(e.w, v)
	return err
}

// EncodeUint writes v using the smallest unsigned-int representation.
func (e *Encoder) EncodeUint(v uint64) error {
	_, err := rmp.WriteUint(e.w, v)
	return err
}

// EncodeFloat32 writes a Float32 value.
func (e *Encoder) EncodeFloat32(v float32) error {
	_, err := rmp.WriteFloat32(e.w, v)
	return err
}

// EncodeFloat64 writes a Float64 value.
func (e *Encoder) EncodeFloat64(v float64) error {
	_, err := rmp.WriteFloat64(e.w, v)
	return err
}

// EncodeString writes a str header followed by s's UTF-8 bytes.
func (e *Encoder) EncodeString(s string) error {
	if _, err := rmp.WriteStrHeader(e.w, len(s)); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, s)
	return err
}

// EncodeBytes writes a bin header followed by b.
func (e *Encoder) EncodeBytes(b []byte) error {
	if _, err := rmp.WriteBinHeader(e.w, len(b)); err != nil {
		return err
	}
	_, err := e.w.Write(b)
	return err
}

// EncodeArrayHeader writes an array length header for n elements. The
// caller must then write exactly n values.
func (e *Encoder) EncodeArrayHeader(n int) error {
	_, err := rmp.WriteArrayHeader(e.w, n)
	return err
}

// EncodeMapHeader writes a map length header for n pairs. The caller must
// then write exactly 2*n values, alternating key and value.
func (e *Encoder) EncodeMapHeader(n int) error {
	_, err := rmp.WriteMapHeader(e.w, n)
	return err
}

// EncodeExt writes an extension value with the given application-defined
// tag and payload.
func (e *Encoder) EncodeExt(tag int8, data []byte) error {
	if _, err := rmp.WriteExtHeader(e.w, tag, len(data)); err != nil {
		return err
	}
	_, err := e.w.Write(data)
	return err
}

//endregion

// encodeValue is the main reflection-driven encoding dispatch, the
// encode-side counterpart of ber.makeEncoder/encodeValue. Unlike BER,
// MessagePack array and map headers only need an element count, not a total
// byte length, so encoding is single-pass: there is no BER-style
// measure-then-write split.
func (e *Encoder) encodeValue(v reflect.Value) error {
	if !v.IsValid() {
		return e.EncodeNil()
	}

	if v.Kind() == reflect.Pointer && v.Type().Name() != "" && v.CanAddr() {
		v = v.Addr()
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.Kind() == reflect.Interface && v.IsNil() {
			return e.EncodeNil()
		}
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return e.EncodeNil()
		}
		if m, ok := v.Interface().(Marshaler); ok {
			return e.callMarshaler(v.Type(), m)
		}
		v = v.Elem()
	}

	if m, ok := v.Interface().(Marshaler); ok {
		return e.callMarshaler(v.Type(), m)
	}
	// A registered Union variant dispatches here regardless of whether it
	// arrived wrapped in an interface-typed field or as a bare concrete
	// value (e.g. passed to Marshal as `any`, which erases the interface
	// wrapper before reflection ever sees it) — symmetric with
	// Decoder.decodeInterface routing any registered union type through the
	// variant table.
	if info, ok := lookupVariantByType(v.Type()); ok {
		return e.encodeVariant(info, v)
	}
	return e.encodeKind(v)
}

// encodeKind encodes an already-dereferenced value by its reflect.Kind,
// skipping the Marshaler and variant checks encodeValue applies first.
func (e *Encoder) encodeKind(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		return e.EncodeBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.EncodeInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return e.EncodeUint(v.Uint())
	case reflect.Float32:
		return e.EncodeFloat32(float32(v.Float()))
	case reflect.Float64:
		return e.EncodeFloat64(v.Float())
	case reflect.String:
		return e.EncodeString(v.String())
	case reflect.Slice:
		if v.IsNil() {
			return e.EncodeNil()
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return e.EncodeBytes(v.Bytes())
		}
		return e.encodeSeq(v)
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return e.EncodeBytes(b)
		}
		return e.encodeSeq(v)
	case reflect.Map:
		return e.encodeMap(v)
	case reflect.Struct:
		return e.encodeStruct(v)
	default:
		return &UnsupportedTypeError{Type: v.Type()}
	}
}

func (e *Encoder) callMarshaler(t reflect.Type, m Marshaler) error {
	if err := m.EncodeMsgpack(e); err != nil {
		return &EncodeError{Type: t, Err: err}
	}
	return nil
}

func (e *Encoder) encodeSeq(v reflect.Value) error {
	n := v.Len()
	if err := e.EncodeArrayHeader(n); err != nil {
		return err
	}
	for i := range n {
		if err := e.encodeValue(v.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeMap(v reflect.Value) error {
	if v.IsNil() {
		return e.EncodeNil()
	}
	if err := e.EncodeMapHeader(v.Len()); err != nil {
		return err
	}
	iter := v.MapRange()
	for iter.Next() {
		if err := e.encodeValue(iter.Key()); err != nil {
			return err
		}
		if err := e.encodeValue(iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

type structFieldVal struct {
	name string
	val  reflect.Value
}

func (e *Encoder) structFieldVals(v reflect.Value) []structFieldVal {
	var vals []structFieldVal
	for field, params := range fields.Fields(v) {
		if params.OmitEmpty && fields.IsEmptyValue(field) {
			continue
		}
		vals = append(vals, structFieldVal{name: params.Name, val: field})
	}
	return vals
}

func (e *Encoder) encodeStruct(v reflect.Value) error {
	vals := e.structFieldVals(v)
	if e.cfg.structLayout == layoutMap {
		if err := e.EncodeMapHeader(len(vals)); err != nil {
			return err
		}
		for _, fv := range vals {
			if err := e.EncodeString(fv.name); err != nil {
				return err
			}
			if err := e.encodeValue(fv.val); err != nil {
				return err
			}
		}
		return nil
	}
	if err := e.EncodeArrayHeader(len(vals)); err != nil {
		return err
	}
	for _, fv := range vals {
		if err := e.encodeValue(fv.val); err != nil {
			return err
		}
	}
	return nil
}

// encodeVariant writes a Union value. A unit variant (no associated payload)
// is written as a bare identifier; every other variant is written as a
// single-entry map from identifier to payload, per spec §4.3/§6.
func (e *Encoder) encodeVariant(info variantInfo, payload reflect.Value) error {
	if info.unit {
		return e.encodeVariantIdent(info)
	}
	if err := e.EncodeMapHeader(1); err != nil {
		return err
	}
	if err := e.encodeVariantIdent(info); err != nil {
		return err
	}
	return e.encodeKind(payload)
}

func (e *Encoder) encodeVariantIdent(info variantInfo) error {
	if e.cfg.variantIdent == variantIdentIndex {
		return e.EncodeUint(uint64(info.index))
	}
	return e.EncodeString(info.name)
}

// Marshal returns the MessagePack encoding of v.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf writeBuffer
	enc := NewEncoder(&buf, opts...)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.bytes, nil
}

// writeBuffer is a minimal growable byte sink, avoiding a bytes.Buffer
// import solely for Marshal's convenience wrapper.
type writeBuffer struct{ bytes []byte }

func (b *writeBuffer) Write(p []byte) (int, error) {
	b.bytes = append(b.bytes, p...)
	return len(p), nil
}
