package rmp

import "io"

// ByteReader is the minimal reading capability this package needs: a single
// byte at a time for markers, and bulk reads for fixed-width payloads and
// string/bin/ext bodies.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// byteReaderWrap adapts a plain io.Reader to ByteReader by reading a single
// byte at a time when ReadByte is called, mirroring the fallback codello's
// tlv.bufferedReader applies for readers that don't already implement
// io.ByteReader.
type byteReaderWrap struct {
	io.Reader
	one [1]byte
}

func (r *byteReaderWrap) ReadByte() (byte, error) {
	if _, err := io.ReadFull(r.Reader, r.one[:]); err != nil {
		return 0, err
	}
	return r.one[0], nil
}

// AsByteReader adapts r to ByteReader, wrapping it only if it does not
// already implement io.ByteReader.
func AsByteReader(r io.Reader) ByteReader {
	if br, ok := r.(ByteReader); ok {
		return br
	}
	return &byteReaderWrap{Reader: r}
}

// readFull reads exactly len(buf) bytes from r. It returns io.ReadFull's
// error unchanged (io.EOF when nothing was read); callers pass it through
// wrapRead, which promotes io.EOF to io.ErrUnexpectedEOF since a fixed-width
// field is never allowed to end the stream early.
func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	return err
}
