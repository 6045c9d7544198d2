package msgpack

// Ext is a MessagePack extension value: an application-defined signed byte
// tag paired with an opaque payload. It is the idiomatic replacement for
// the Rust original's `_ExtStruct` convention, which relies on sniffing a
// struct's Rust type name at serialize time — Go has no equivalent runtime
// type-name hook a generic encoder could intercept, so Ext instead
// implements Marshaler/Unmarshaler directly and is used as an ordinary
// field type (see DESIGN.md).
type Ext struct {
	Tag  int8
	Data []byte
}

// EncodeMsgpack writes e as a MessagePack ext value.
func (e Ext) EncodeMsgpack(enc *Encoder) error {
	return enc.EncodeExt(e.Tag, e.Data)
}

// DecodeMsgpack reads a MessagePack ext value into e.
func (e *Ext) DecodeMsgpack(dec *Decoder) error {
	tag, data, err := dec.DecodeExt()
	if err != nil {
		return err
	}
	e.Tag = tag
	e.Data = data
	return nil
}
