package msgpack

// Raw captures the exact MessagePack-encoded bytes of a single value,
// without interpreting them. Encoding a Raw writes its bytes verbatim;
// decoding into a Raw copies the bytes of whatever value comes next,
// whatever its type. This is useful for partially parsing a message while
// deferring or forwarding a sub-value unchanged.
type Raw []byte

// EncodeMsgpack writes r's bytes verbatim, unconditionally trusting that
// they form one complete, well-formed MessagePack value.
func (r Raw) EncodeMsgpack(e *Encoder) error {
	_, err := e.w.Write(r)
	return err
}

// DecodeMsgpack copies the next complete value's encoded bytes into *r.
func (r *Raw) DecodeMsgpack(d *Decoder) error {
	b, err := d.decodeRawBytes()
	if err != nil {
		return err
	}
	*r = append((*r)[:0], b...)
	return nil
}

// RawRef is the zero-copy counterpart to Raw: decoding into a RawRef
// borrows a slice of the Decoder's input buffer instead of copying it, when
// the Decoder was constructed from a byte slice (NewDecoderBytes or
// Unmarshal). A RawRef decoded from an io.Reader-backed Decoder always
// holds a Copied Reference, since there is no stable buffer to alias.
type RawRef struct {
	Reference
}

// DecodeMsgpack records a reference to the next complete value's encoded
// bytes into r, borrowing from the Decoder's buffer when possible.
func (r *RawRef) DecodeMsgpack(d *Decoder) error {
	b, err := d.decodeRawBytes()
	if err != nil {
		return err
	}
	if d.cur != nil {
		r.Reference = Borrowed(b)
	} else {
		r.Reference = Copied(b)
	}
	return nil
}

// EncodeMsgpack writes r's referenced bytes verbatim.
func (r RawRef) EncodeMsgpack(e *Encoder) error {
	_, err := e.w.Write(r.Bytes())
	return err
}
