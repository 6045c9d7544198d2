package rmp

import (
	"encoding/binary"
	"io"
	"math"
)

// byteWriter is satisfied by bytes.Buffer, bufio.Writer, and most in-memory
// writers this package is handed; when w does not implement it, asByteWriter
// wraps it in writerWrap, whose WriteByte issues one Write call per byte.
type byteWriter interface {
	io.Writer
	io.ByteWriter
}

type writerWrap struct{ io.Writer }

func (w writerWrap) WriteByte(b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func asByteWriter(w io.Writer) byteWriter {
	if bw, ok := w.(byteWriter); ok {
		return bw
	}
	return writerWrap{w}
}

// WriteNil writes the `nil` marker.
func WriteNil(w io.Writer) (int, error) {
	return writeMarker(w, Nil)
}

// WriteBool writes the `true` or `false` marker.
func WriteBool(w io.Writer, b bool) (int, error) {
	if b {
		return writeMarker(w, True)
	}
	return writeMarker(w, False)
}

func writeMarker(w io.Writer, m Marker) (int, error) {
	bw := asByteWriter(w)
	if err := bw.WriteByte(byte(m)); err != nil {
		return 0, err
	}
	return 1, nil
}

// WriteUint writes v using the smallest admissible MessagePack
// representation: positive fixint, then uint8, uint16, uint32, uint64.
func WriteUint(w io.Writer, v uint64) (int, error) {
	bw := asByteWriter(w)
	switch {
	case v <= fixPosMax:
		return writeMarker(bw, Marker(v))
	case v <= math.MaxUint8:
		return writeHeaderByte(bw, Uint8, byte(v))
	case v <= math.MaxUint16:
		return writeHeaderUint16(bw, Uint16, uint16(v))
	case v <= math.MaxUint32:
		return writeHeaderUint32(bw, Uint32, uint32(v))
	default:
		return writeHeaderUint64(bw, Uint64, v)
	}
}

// WriteInt writes v using the smallest admissible MessagePack
// representation: fixint (positive or negative), then int8, int16, int32,
// int64.
func WriteInt(w io.Writer, v int64) (int, error) {
	bw := asByteWriter(w)
	switch {
	case v >= 0 && v <= fixPosMax:
		return writeMarker(bw, Marker(v))
	case v < 0 && v >= -32:
		return writeMarker(bw, Marker(byte(int8(v))))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return writeHeaderByte(bw, Int8, byte(int8(v)))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return writeHeaderUint16(bw, Int16, uint16(int16(v)))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return writeHeaderUint32(bw, Int32, uint32(int32(v)))
	default:
		return writeHeaderUint64(bw, Int64, uint64(v))
	}
}

// WriteFloat32 writes a 32-bit float. Floats are never widened or narrowed:
// a float32 always encodes as Float32.
func WriteFloat32(w io.Writer, f float32) (int, error) {
	bw := asByteWriter(w)
	if _, err := writeMarker(bw, Float32); err != nil {
		return 0, err
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(f))
	n, err := bw.Write(buf[:])
	return n + 1, err
}

// WriteFloat64 writes a 64-bit float. Floats are never widened or narrowed:
// a float64 always encodes as Float64.
func WriteFloat64(w io.Writer, f float64) (int, error) {
	bw := asByteWriter(w)
	if _, err := writeMarker(bw, Float64); err != nil {
		return 0, err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
	n, err := bw.Write(buf[:])
	return n + 1, err
}

// WriteStrHeader writes a string header (fixstr, str8, str16, or str32) for
// a payload of n bytes. The caller is responsible for writing the n payload
// bytes afterward.
func WriteStrHeader(w io.Writer, n int) (int, error) {
	if n < 0 || n > math.MaxUint32 {
		return 0, &LengthTooLargeError{What: "string", Length: n}
	}
	bw := asByteWriter(w)
	switch {
	case n <= 31:
		return writeMarker(bw, Marker(fixStrBase+n))
	case n <= math.MaxUint8:
		return writeHeaderByte(bw, Str8, byte(n))
	case n <= math.MaxUint16:
		return writeHeaderUint16(bw, Str16, uint16(n))
	default:
		return writeHeaderUint32(bw, Str32, uint32(n))
	}
}

// WriteBinHeader writes a bytes header (bin8, bin16, or bin32) for a payload
// of n bytes. The caller is responsible for writing the n payload bytes
// afterward.
func WriteBinHeader(w io.Writer, n int) (int, error) {
	if n < 0 || n > math.MaxUint32 {
		return 0, &LengthTooLargeError{What: "bin", Length: n}
	}
	bw := asByteWriter(w)
	switch {
	case n <= math.MaxUint8:
		return writeHeaderByte(bw, Bin8, byte(n))
	case n <= math.MaxUint16:
		return writeHeaderUint16(bw, Bin16, uint16(n))
	default:
		return writeHeaderUint32(bw, Bin32, uint32(n))
	}
}

// WriteArrayHeader writes an array length header (fixarray, array16, or
// array32) for n elements. The caller writes the n elements afterward.
func WriteArrayHeader(w io.Writer, n int) (int, error) {
	if n < 0 || n > math.MaxUint32 {
		return 0, &LengthTooLargeError{What: "array", Length: n}
	}
	bw := asByteWriter(w)
	switch {
	case n <= 15:
		return writeMarker(bw, Marker(fixArrBase+n))
	case n <= math.MaxUint16:
		return writeHeaderUint16(bw, Array16, uint16(n))
	default:
		return writeHeaderUint32(bw, Array32, uint32(n))
	}
}

// WriteMapHeader writes a map length header (fixmap, map16, or map32) for n
// key/value pairs. The caller writes the 2*n keys and values afterward.
func WriteMapHeader(w io.Writer, n int) (int, error) {
	if n < 0 || n > math.MaxUint32 {
		return 0, &LengthTooLargeError{What: "map", Length: n}
	}
	bw := asByteWriter(w)
	switch {
	case n <= 15:
		return writeMarker(bw, Marker(fixMapBase+n))
	case n <= math.MaxUint16:
		return writeHeaderUint16(bw, Map16, uint16(n))
	default:
		return writeHeaderUint32(bw, Map32, uint32(n))
	}
}

// WriteExtHeader writes an extension-type header (fixext1/2/4/8/16, or
// ext8/16/32) for a payload of n bytes tagged with the application-defined
// signed byte tag. The caller writes the n payload bytes afterward.
func WriteExtHeader(w io.Writer, tag int8, n int) (int, error) {
	if n < 0 || n > math.MaxUint32 {
		return 0, &LengthTooLargeError{What: "ext", Length: n}
	}
	bw := asByteWriter(w)
	var hdrN int
	var err error
	switch n {
	case 1:
		hdrN, err = writeMarker(bw, FixExt1)
	case 2:
		hdrN, err = writeMarker(bw, FixExt2)
	case 4:
		hdrN, err = writeMarker(bw, FixExt4)
	case 8:
		hdrN, err = writeMarker(bw, FixExt8)
	case 16:
		hdrN, err = writeMarker(bw, FixExt16)
	default:
		switch {
		case n <= math.MaxUint8:
			hdrN, err = writeHeaderByte(bw, Ext8, byte(n))
		case n <= math.MaxUint16:
			hdrN, err = writeHeaderUint16(bw, Ext16, uint16(n))
		default:
			hdrN, err = writeHeaderUint32(bw, Ext32, uint32(n))
		}
	}
	if err != nil {
		return hdrN, err
	}
	if err := bw.WriteByte(byte(tag)); err != nil {
		return hdrN, err
	}
	return hdrN + 1, nil
}

func writeHeaderByte(bw byteWriter, m Marker, v byte) (int, error) {
	if _, err := writeMarker(bw, m); err != nil {
		return 0, err
	}
	if err := bw.WriteByte(v); err != nil {
		return 1, err
	}
	return 2, nil
}

func writeHeaderUint16(bw byteWriter, m Marker, v uint16) (int, error) {
	if _, err := writeMarker(bw, m); err != nil {
		return 0, err
	}
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	n, err := bw.Write(buf[:])
	return n + 1, err
}

func writeHeaderUint32(bw byteWriter, m Marker, v uint32) (int, error) {
	if _, err := writeMarker(bw, m); err != nil {
		return 0, err
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	n, err := bw.Write(buf[:])
	return n + 1, err
}

func writeHeaderUint64(bw byteWriter, m Marker, v uint64) (int, error) {
	if _, err := writeMarker(bw, m); err != nil {
		return 0, err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	n, err := bw.Write(buf[:])
	return n + 1, err
}
