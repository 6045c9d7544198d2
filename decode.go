package msgpack

import (
	"io"
	"math"
	"reflect"
	"unicode/utf8"

	"github.com/hulthe/msgpack-go/internal/fields"
	"github.com/hulthe/msgpack-go/rmp"
)

var anyType = reflect.TypeFor[any]()

// Decoder reads MessagePack-encoded values from an underlying source.
// Construct one with NewDecoder or NewDecoderBytes; the zero value is not
// usable.
type Decoder struct {
	r      rmp.ByteReader
	cur    *cursor // non-nil only when built from a byte slice
	cfg    Config
	depth  int
	peeked *rmp.Marker
}

// NewDecoder returns a Decoder reading from r. Values decoded by it never
// borrow (Reference.IsBorrowed is always false), since there is no stable
// buffer to alias.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: rmp.AsByteReader(r), cfg: buildConfig(opts)}
}

// NewDecoderBytes returns a Decoder reading from b. Str and bin values may
// be decoded as Reference/RawRef values that borrow directly from b instead
// of copying.
func NewDecoderBytes(b []byte, opts ...Option) *Decoder {
	c := &cursor{buf: b}
	return &Decoder{r: c, cur: c, cfg: buildConfig(opts)}
}

// HumanReadable reports whether the decoder was constructed with
// WithHumanReadable.
func (d *Decoder) HumanReadable() bool { return d.cfg.humanReadable }

// Decode reads the next MessagePack value into the value pointed to by v.
func (d *Decoder) Decode(v any) error {
	t := reflect.TypeOf(v)
	if t == nil || t.Kind() != reflect.Pointer || reflect.ValueOf(v).IsNil() {
		return &InvalidUnmarshalError{Type: t}
	}
	return d.decodeValue(reflect.ValueOf(v).Elem())
}

//region marker peek/take cache

func (d *Decoder) peekMarker() (rmp.Marker, error) {
	if d.peeked != nil {
		return *d.peeked, nil
	}
	m, err := rmp.ReadMarker(d.r)
	if err != nil {
		return 0, err
	}
	d.peeked = &m
	return m, nil
}

func (d *Decoder) takeMarker() (rmp.Marker, error) {
	if d.peeked != nil {
		m := *d.peeked
		d.peeked = nil
		return m, nil
	}
	return rmp.ReadMarker(d.r)
}

//endregion

func (d *Decoder) pushDepth() error {
	if d.cfg.maxDepth > 0 && d.depth >= d.cfg.maxDepth {
		return &DepthLimitExceededError{Limit: d.cfg.maxDepth}
	}
	d.depth++
	return nil
}

func (d *Decoder) popDepth() { d.depth-- }

//region SeqAccess / MapAccess: the exported iteration helpers a custom
// Unmarshaler uses to consume an array or map without knowing the static Go
// type of its elements ahead of time.

// SeqAccess iterates the elements of a MessagePack array, obtained from
// Decoder.DecodeArrayHeader.
type SeqAccess struct {
	d         *Decoder
	remaining int
	closed    bool
}

// Len returns the number of elements not yet consumed.
func (s *SeqAccess) Len() int { return s.remaining }

// Next decodes the next element into v, a non-nil pointer. It returns false
// without error once every element has been consumed.
func (s *SeqAccess) Next(v any) (bool, error) {
	if s.remaining <= 0 {
		s.Close()
		return false, nil
	}
	t := reflect.TypeOf(v)
	rv := reflect.ValueOf(v)
	if t == nil || t.Kind() != reflect.Pointer || rv.IsNil() {
		return false, &InvalidUnmarshalError{Type: t}
	}
	if err := s.d.decodeValue(rv.Elem()); err != nil {
		return false, err
	}
	s.remaining--
	if s.remaining == 0 {
		s.Close()
	}
	return true, nil
}

// Close releases the depth budget this SeqAccess holds. It is safe to call
// multiple times and is called automatically once Next reports exhaustion.
// Callers that stop consuming early (e.g. after finding what they need)
// must call Close themselves.
func (s *SeqAccess) Close() {
	if !s.closed {
		s.closed = true
		s.d.popDepth()
	}
}

// MapAccess iterates the key/value pairs of a MessagePack map, obtained
// from Decoder.DecodeMapHeader.
type MapAccess struct {
	d         *Decoder
	remaining int
	closed    bool
}

// Len returns the number of pairs not yet consumed.
func (m *MapAccess) Len() int { return m.remaining }

// NextKey decodes the next pair's key into k, a non-nil pointer. It returns
// false without error once every pair has been consumed.
func (m *MapAccess) NextKey(k any) (bool, error) {
	if m.remaining <= 0 {
		m.Close()
		return false, nil
	}
	t := reflect.TypeOf(k)
	rv := reflect.ValueOf(k)
	if t == nil || t.Kind() != reflect.Pointer || rv.IsNil() {
		return false, &InvalidUnmarshalError{Type: t}
	}
	if err := m.d.decodeValue(rv.Elem()); err != nil {
		return false, err
	}
	return true, nil
}

// NextValue decodes the value half of the pair whose key was just read by
// NextKey.
func (m *MapAccess) NextValue(v any) error {
	t := reflect.TypeOf(v)
	rv := reflect.ValueOf(v)
	if t == nil || t.Kind() != reflect.Pointer || rv.IsNil() {
		return &InvalidUnmarshalError{Type: t}
	}
	if err := m.d.decodeValue(rv.Elem()); err != nil {
		return err
	}
	m.remaining--
	if m.remaining == 0 {
		m.Close()
	}
	return nil
}

// Close releases the depth budget this MapAccess holds.
func (m *MapAccess) Close() {
	if !m.closed {
		m.closed = true
		m.d.popDepth()
	}
}

// DecodeArrayHeader reads an array length header and returns a SeqAccess
// for iterating its elements. Callers must consume it to exhaustion or call
// its Close method.
func (d *Decoder) DecodeArrayHeader() (*SeqAccess, error) {
	m, err := d.takeMarker()
	if err != nil {
		return nil, err
	}
	n, err := rmp.ArrayLen(d.r, m)
	if err != nil {
		return nil, err
	}
	if err := d.pushDepth(); err != nil {
		return nil, err
	}
	return &SeqAccess{d: d, remaining: n}, nil
}

// DecodeMapHeader reads a map length header and returns a MapAccess for
// iterating its pairs. Callers must consume it to exhaustion or call its
// Close method.
func (d *Decoder) DecodeMapHeader() (*MapAccess, error) {
	m, err := d.takeMarker()
	if err != nil {
		return nil, err
	}
	n, err := rmp.MapLen(d.r, m)
	if err != nil {
		return nil, err
	}
	if err := d.pushDepth(); err != nil {
		return nil, err
	}
	return &MapAccess{d: d, remaining: n}, nil
}

// DecodeExt reads an ext value's tag and payload.
func (d *Decoder) DecodeExt() (tag int8, data []byte, err error) {
	m, err := d.takeMarker()
	if err != nil {
		return 0, nil, err
	}
	tag, n, err := rmp.ExtHeader(d.r, m)
	if err != nil {
		return 0, nil, err
	}
	data, err = rmp.ReadBytes(d.r, n)
	return tag, data, err
}

//endregion

//region low-level scalar readers, usable directly by a custom Unmarshaler

// DecodeBool reads a bool value.
func (d *Decoder) DecodeBool() (bool, error) {
	m, err := d.takeMarker()
	if err != nil {
		return false, err
	}
	switch m {
	case rmp.True:
		return true, nil
	case rmp.False:
		return false, nil
	default:
		return false, &TypeMismatchError{Expected: "bool", Marker: m}
	}
}

// DecodeInt64 reads an integer value, widening as necessary.
func (d *Decoder) DecodeInt64() (int64, error) {
	m, err := d.takeMarker()
	if err != nil {
		return 0, err
	}
	return d.readIntPayload(m)
}

// DecodeUint64 reads an integer value known to be non-negative.
func (d *Decoder) DecodeUint64() (uint64, error) {
	m, err := d.takeMarker()
	if err != nil {
		return 0, err
	}
	return d.readUintPayload(m)
}

// DecodeFloat64 reads a float value, widening Float32 as necessary.
func (d *Decoder) DecodeFloat64() (float64, error) {
	m, err := d.takeMarker()
	if err != nil {
		return 0, err
	}
	return d.readFloatPayload(m)
}

// DecodeStringRef reads a str value, returning a Reference that borrows
// from the Decoder's input when possible.
func (d *Decoder) DecodeStringRef() (Reference, error) {
	m, err := d.takeMarker()
	if err != nil {
		return Reference{}, err
	}
	n, err := rmp.StrLen(d.r, m)
	if err != nil {
		return Reference{}, err
	}
	return d.readBytesRef(n)
}

// DecodeString reads a str value into an owned Go string.
func (d *Decoder) DecodeString() (string, error) {
	ref, err := d.DecodeStringRef()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(ref.Bytes()) {
		return "", &Utf8Error{Bytes: ref.Bytes()}
	}
	return ref.String(), nil
}

// DecodeBytesRef reads a bin value, returning a Reference that borrows from
// the Decoder's input when possible.
func (d *Decoder) DecodeBytesRef() (Reference, error) {
	m, err := d.takeMarker()
	if err != nil {
		return Reference{}, err
	}
	n, err := rmp.BinLen(d.r, m)
	if err != nil {
		return Reference{}, err
	}
	return d.readBytesRef(n)
}

// DecodeBytes reads a bin value into an owned []byte.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	ref, err := d.DecodeBytesRef()
	if err != nil {
		return nil, err
	}
	return ref.ToOwned().Bytes(), nil
}

//endregion

func (d *Decoder) readBytesRef(n int) (Reference, error) {
	if d.cur != nil {
		if d.cur.pos+n > len(d.cur.buf) {
			return Reference{}, &DecodeError{Offset: int64(d.cur.pos), Err: io.ErrUnexpectedEOF}
		}
		b := d.cur.buf[d.cur.pos : d.cur.pos+n]
		d.cur.pos += n
		return Borrowed(b), nil
	}
	b, err := rmp.ReadBytes(d.r, n)
	if err != nil {
		return Reference{}, err
	}
	return Copied(b), nil
}

func (d *Decoder) readUintPayload(m rmp.Marker) (uint64, error) {
	switch {
	case m.IsFixPos():
		return uint64(m), nil
	case m == rmp.Uint8:
		v, err := rmp.ReadUint8(d.r)
		return uint64(v), err
	case m == rmp.Uint16:
		v, err := rmp.ReadUint16(d.r)
		return uint64(v), err
	case m == rmp.Uint32:
		v, err := rmp.ReadUint32(d.r)
		return uint64(v), err
	case m == rmp.Uint64:
		return rmp.ReadUint64(d.r)
	default:
		return 0, &TypeMismatchError{Expected: "uint", Marker: m}
	}
}

func (d *Decoder) readIntPayload(m rmp.Marker) (int64, error) {
	switch {
	case m.IsFixPos():
		return int64(m), nil
	case m.IsFixNeg():
		return int64(int8(m)), nil
	case m == rmp.Int8:
		v, err := rmp.ReadInt8(d.r)
		return int64(v), err
	case m == rmp.Int16:
		v, err := rmp.ReadInt16(d.r)
		return int64(v), err
	case m == rmp.Int32:
		v, err := rmp.ReadInt32(d.r)
		return int64(v), err
	case m == rmp.Int64:
		return rmp.ReadInt64(d.r)
	case m == rmp.Uint8, m == rmp.Uint16, m == rmp.Uint32, m == rmp.Uint64:
		u, err := d.readUintPayload(m)
		if err != nil {
			return 0, err
		}
		if u > math.MaxInt64 {
			return 0, &OutOfRangeError{Value: u, Type: reflect.TypeFor[int64]()}
		}
		return int64(u), nil
	default:
		return 0, &TypeMismatchError{Expected: "int", Marker: m}
	}
}

func (d *Decoder) readFloatPayload(m rmp.Marker) (float64, error) {
	switch m {
	case rmp.Float32:
		v, err := rmp.ReadFloat32(d.r)
		return float64(v), err
	case rmp.Float64:
		return rmp.ReadFloat64(d.r)
	default:
		switch m.Kind() {
		case rmp.KindUint:
			u, err := d.readUintPayload(m)
			return float64(u), err
		case rmp.KindInt:
			i, err := d.readIntPayload(m)
			return float64(i), err
		}
		return 0, &TypeMismatchError{Expected: "float", Marker: m}
	}
}

// decodeValue is the main reflection-driven decoding dispatch, the
// decode-side counterpart of ber.makeDecoder/decodeValue.
func (d *Decoder) decodeValue(v reflect.Value) error {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(Unmarshaler); ok {
			return d.callUnmarshaler(v.Type(), u)
		}
	}
	if v.Kind() == reflect.Interface {
		return d.decodeInterface(v)
	}

	m, err := d.peekMarker()
	if err != nil {
		return err
	}
	if m == rmp.Reserved {
		d.takeMarker()
		return ErrReserved
	}
	if m == rmp.Nil {
		d.takeMarker()
		v.Set(reflect.Zero(v.Type()))
		return nil
	}

	switch v.Kind() {
	case reflect.Bool:
		b, err := d.DecodeBool()
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := d.DecodeInt64()
		if err != nil {
			return err
		}
		if v.OverflowInt(i) {
			return &OutOfRangeError{Value: i, Type: v.Type()}
		}
		v.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := d.DecodeUint64()
		if err != nil {
			return err
		}
		if v.OverflowUint(u) {
			return &OutOfRangeError{Value: u, Type: v.Type()}
		}
		v.SetUint(u)
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := d.DecodeFloat64()
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil
	case reflect.String:
		s, err := d.DecodeString()
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := d.DecodeBytes()
			if err != nil {
				return err
			}
			v.SetBytes(b)
			return nil
		}
		return d.decodeSlice(v)
	case reflect.Array:
		return d.decodeArray(v)
	case reflect.Map:
		return d.decodeMap(v)
	case reflect.Struct:
		return d.decodeStruct(v)
	default:
		return &TypeMismatchError{Expected: "decodable value", Marker: m, Type: v.Type()}
	}
}

func (d *Decoder) callUnmarshaler(t reflect.Type, u Unmarshaler) error {
	if err := u.DecodeMsgpack(d); err != nil {
		if _, ok := err.(*UncategorizedError); ok {
			return err
		}
		return &UncategorizedError{Err: err}
	}
	return nil
}

func (d *Decoder) decodeInterface(v reflect.Value) error {
	t := v.Type()
	if t == anyType {
		val, err := d.decodeAny()
		if err != nil {
			return err
		}
		if val == nil {
			v.Set(reflect.Zero(t))
		} else {
			v.Set(reflect.ValueOf(val))
		}
		return nil
	}
	if group, ok := lookupVariantGroup(t); ok {
		return d.decodeVariantInto(v, group)
	}
	if t.NumMethod() == 0 {
		val, err := d.decodeAny()
		if err != nil {
			return err
		}
		if val != nil {
			rv := reflect.ValueOf(val)
			if rv.Type().AssignableTo(t) {
				v.Set(rv)
			}
		}
		return nil
	}
	return &TypeMismatchError{Expected: "decodable interface", Type: t}
}

// decodeVariantInto reads a Union value. A bare identifier (str or
// uint/int) is a unit variant with no payload. Otherwise the value must be a
// one-entry container mapping identifier to payload: a single-entry map
// (the form encodeVariant writes, per spec §4.3/§6) or, as a decode-only
// fallback, an array header of length one followed by the identifier and
// then the payload (spec §4.4).
func (d *Decoder) decodeVariantInto(v reflect.Value, group *unionGroup) error {
	m, err := d.peekMarker()
	if err != nil {
		return err
	}
	switch m.Kind() {
	case rmp.KindStr, rmp.KindUint, rmp.KindInt:
		return d.decodeUnitVariant(v, group)
	case rmp.KindMap:
		ma, err := d.DecodeMapHeader()
		if err != nil {
			return err
		}
		defer ma.Close()
		if ma.Len() != 1 {
			return &LengthMismatchError{Want: 1, Got: ma.Len(), Type: v.Type()}
		}
		info, ok, err := d.decodeVariantIdent(group, func(dst any) error {
			_, err := ma.NextKey(dst)
			return err
		})
		if err != nil {
			return err
		}
		if !ok || info.unit {
			return &TypeMismatchError{Expected: "registered non-unit variant", Type: v.Type()}
		}
		payload := reflect.New(info.concrete)
		if err := ma.NextValue(payload.Interface()); err != nil {
			return err
		}
		v.Set(payload.Elem())
		return nil
	case rmp.KindArray:
		seq, err := d.DecodeArrayHeader()
		if err != nil {
			return err
		}
		defer seq.Close()
		if seq.Len() != 1 {
			return &LengthMismatchError{Want: 1, Got: seq.Len(), Type: v.Type()}
		}
		info, ok, err := d.decodeVariantIdent(group, func(dst any) error {
			_, err := seq.Next(dst)
			return err
		})
		if err != nil {
			return err
		}
		if !ok || info.unit {
			return &TypeMismatchError{Expected: "registered non-unit variant", Type: v.Type()}
		}
		// The length-one header counts the identifier only; the payload
		// follows it, so it is read directly rather than through seq.
		payload := reflect.New(info.concrete)
		if err := d.decodeValue(payload.Elem()); err != nil {
			return err
		}
		v.Set(payload.Elem())
		return nil
	default:
		return &TypeMismatchError{Expected: "variant identifier or one-entry container", Marker: m, Type: v.Type()}
	}
}

// decodeVariantIdent reads the identifier half of a wrapped variant (a map
// key or the first array element) using next, and looks it up in group.
func (d *Decoder) decodeVariantIdent(group *unionGroup, next func(dst any) error) (variantInfo, bool, error) {
	m, err := d.peekMarker()
	if err != nil {
		return variantInfo{}, false, err
	}
	if m.Kind() == rmp.KindStr {
		var name string
		if err := next(&name); err != nil {
			return variantInfo{}, false, err
		}
		info, ok := group.byNameLocked(name)
		return info, ok, nil
	}
	var idx uint64
	if err := next(&idx); err != nil {
		return variantInfo{}, false, err
	}
	info, ok := group.byIndexLocked(uint32(idx))
	return info, ok, nil
}

// decodeUnitVariant reads a bare identifier (no wrapping container) and
// sets v to the zero value of the registered unit variant it names.
func (d *Decoder) decodeUnitVariant(v reflect.Value, group *unionGroup) error {
	m, err := d.peekMarker()
	if err != nil {
		return err
	}
	var info variantInfo
	var ok bool
	if m.Kind() == rmp.KindStr {
		name, err := d.DecodeString()
		if err != nil {
			return err
		}
		info, ok = group.byNameLocked(name)
	} else {
		idx, err := d.DecodeUint64()
		if err != nil {
			return err
		}
		info, ok = group.byIndexLocked(uint32(idx))
	}
	if !ok || !info.unit {
		return &TypeMismatchError{Expected: "registered unit variant", Type: v.Type()}
	}
	v.Set(reflect.Zero(info.concrete))
	return nil
}

func (d *Decoder) decodeSlice(v reflect.Value) error {
	seq, err := d.DecodeArrayHeader()
	if err != nil {
		return err
	}
	defer seq.Close()
	n := seq.Len()
	sliceVal := reflect.MakeSlice(v.Type(), n, n)
	for i := range n {
		if _, err := seq.Next(sliceVal.Index(i).Addr().Interface()); err != nil {
			return err
		}
	}
	v.Set(sliceVal)
	return nil
}

func (d *Decoder) decodeArray(v reflect.Value) error {
	seq, err := d.DecodeArrayHeader()
	if err != nil {
		return err
	}
	defer seq.Close()
	if seq.Len() != v.Len() {
		return &LengthMismatchError{Want: v.Len(), Got: seq.Len(), Type: v.Type()}
	}
	for i := range v.Len() {
		if _, err := seq.Next(v.Index(i).Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeMap(v reflect.Value) error {
	ma, err := d.DecodeMapHeader()
	if err != nil {
		return err
	}
	defer ma.Close()
	n := ma.Len()
	t := v.Type()
	mapVal := reflect.MakeMapWithSize(t, n)
	keyType, valType := t.Key(), t.Elem()
	for range n {
		keyPtr := reflect.New(keyType)
		if _, err := ma.NextKey(keyPtr.Interface()); err != nil {
			return err
		}
		valPtr := reflect.New(valType)
		if err := ma.NextValue(valPtr.Interface()); err != nil {
			return err
		}
		mapVal.SetMapIndex(keyPtr.Elem(), valPtr.Elem())
	}
	v.Set(mapVal)
	return nil
}

func (d *Decoder) decodeStruct(v reflect.Value) error {
	m, err := d.peekMarker()
	if err != nil {
		return err
	}
	switch m.Kind() {
	case rmp.KindArray:
		seq, err := d.DecodeArrayHeader()
		if err != nil {
			return err
		}
		defer seq.Close()
		var fieldVals []reflect.Value
		for field := range fields.Fields(v) {
			fieldVals = append(fieldVals, field)
		}
		n := seq.Len()
		for i := range n {
			if i < len(fieldVals) {
				if _, err := seq.Next(fieldVals[i].Addr().Interface()); err != nil {
					return err
				}
			} else {
				var discard Raw
				if _, err := seq.Next(&discard); err != nil {
					return err
				}
			}
		}
		return nil
	case rmp.KindMap:
		ma, err := d.DecodeMapHeader()
		if err != nil {
			return err
		}
		defer ma.Close()
		byName := map[string]reflect.Value{}
		for field, params := range fields.Fields(v) {
			byName[params.Name] = field
		}
		n := ma.Len()
		for range n {
			var key string
			if _, err := ma.NextKey(&key); err != nil {
				return err
			}
			if field, ok := byName[key]; ok {
				if err := ma.NextValue(field.Addr().Interface()); err != nil {
					return err
				}
			} else {
				var discard Raw
				if err := ma.NextValue(&discard); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return &TypeMismatchError{Expected: "array or map", Marker: m, Type: v.Type()}
	}
}

// decodeAny decodes the next value into its natural Go representation:
// nil, bool, int64/uint64, float64, string, []byte, []any, map[any]any, or
// Ext.
func (d *Decoder) decodeAny() (any, error) {
	m, err := d.peekMarker()
	if err != nil {
		return nil, err
	}
	switch m.Kind() {
	case rmp.KindNil:
		d.takeMarker()
		return nil, nil
	case rmp.KindBool:
		return d.DecodeBool()
	case rmp.KindUint:
		return d.DecodeUint64()
	case rmp.KindInt:
		return d.DecodeInt64()
	case rmp.KindFloat:
		return d.DecodeFloat64()
	case rmp.KindStr:
		// The tolerant/any path has no static type to reject on: a str
		// payload that isn't valid UTF-8 is surfaced as bytes instead of
		// failing, mirroring the Rust original's "attempt visit_bytes"
		// fallback (spec §4.4/§4.5). DecodeString's stricter Utf8Error
		// is reserved for decoding into a string-typed destination.
		ref, err := d.DecodeStringRef()
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(ref.Bytes()) {
			return ref.ToOwned().Bytes(), nil
		}
		return string(ref.Bytes()), nil
	case rmp.KindBin:
		return d.DecodeBytes()
	case rmp.KindArray:
		seq, err := d.DecodeArrayHeader()
		if err != nil {
			return nil, err
		}
		defer seq.Close()
		out := make([]any, 0, seq.Len())
		for seq.Len() > 0 {
			var elem any
			if _, err := seq.Next(&elem); err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	case rmp.KindMap:
		ma, err := d.DecodeMapHeader()
		if err != nil {
			return nil, err
		}
		defer ma.Close()
		out := make(map[any]any, ma.Len())
		for ma.Len() > 0 {
			var k, val any
			if _, err := ma.NextKey(&k); err != nil {
				return nil, err
			}
			if err := ma.NextValue(&val); err != nil {
				return nil, err
			}
			out[k] = val
		}
		return out, nil
	case rmp.KindExt:
		tag, data, err := d.DecodeExt()
		if err != nil {
			return nil, err
		}
		return Ext{Tag: tag, Data: data}, nil
	case rmp.KindReserved:
		d.takeMarker()
		return nil, ErrReserved
	default:
		return nil, &TypeMismatchError{Expected: "any value", Marker: m}
	}
}

// decodeRawBytes consumes exactly one complete value (recursing through
// arrays/maps/ext payloads) and returns its encoded bytes. When the
// Decoder was built from a byte slice, the returned slice aliases that
// slice directly; otherwise it is recorded through a wrapping reader.
func (d *Decoder) decodeRawBytes() ([]byte, error) {
	if d.cur != nil {
		start := d.cur.pos
		if d.peeked != nil {
			start-- // the peeked marker byte was already consumed from cur
		}
		if err := d.skipValue(); err != nil {
			return nil, err
		}
		return d.cur.buf[start:d.cur.pos], nil
	}

	rec := &recordingReader{r: d.r}
	if d.peeked != nil {
		rec.buf = append(rec.buf, byte(*d.peeked))
	}
	saved := d.r
	d.r = rec
	err := d.skipValue()
	d.r = saved
	if err != nil {
		return nil, err
	}
	return rec.buf, nil
}

// skipValue consumes exactly one complete value without materializing a Go
// representation of it, recursing into arrays, maps, and struct-shaped
// values the same way decodeAny's traversal does.
func (d *Decoder) skipValue() error {
	m, err := d.takeMarker()
	if err != nil {
		return err
	}
	switch m.Kind() {
	case rmp.KindNil, rmp.KindBool:
		return nil
	case rmp.KindUint:
		_, err := d.readUintPayload(m)
		return err
	case rmp.KindInt:
		_, err := d.readIntPayload(m)
		return err
	case rmp.KindFloat:
		_, err := d.readFloatPayload(m)
		return err
	case rmp.KindStr:
		n, err := rmp.StrLen(d.r, m)
		if err != nil {
			return err
		}
		return rmp.Discard(d.r, n)
	case rmp.KindBin:
		n, err := rmp.BinLen(d.r, m)
		if err != nil {
			return err
		}
		return rmp.Discard(d.r, n)
	case rmp.KindExt:
		_, n, err := rmp.ExtHeader(d.r, m)
		if err != nil {
			return err
		}
		return rmp.Discard(d.r, n)
	case rmp.KindArray:
		n, err := rmp.ArrayLen(d.r, m)
		if err != nil {
			return err
		}
		if err := d.pushDepth(); err != nil {
			return err
		}
		defer d.popDepth()
		for range n {
			if err := d.skipValue(); err != nil {
				return err
			}
		}
		return nil
	case rmp.KindMap:
		n, err := rmp.MapLen(d.r, m)
		if err != nil {
			return err
		}
		if err := d.pushDepth(); err != nil {
			return err
		}
		defer d.popDepth()
		for range 2 * n {
			if err := d.skipValue(); err != nil {
				return err
			}
		}
		return nil
	case rmp.KindReserved:
		return ErrReserved
	default:
		return &TypeMismatchError{Expected: "value", Marker: m}
	}
}

// Unmarshal decodes a single MessagePack value from data into v, a non-nil
// pointer. If data contains trailing bytes after the value, they are
// ignored, matching rmp-serde's from_slice.
func Unmarshal(data []byte, v any, opts ...Option) error {
	return NewDecoderBytes(data, opts...).Decode(v)
}
