package msgpack

// Marshaler is implemented by types that encode themselves directly,
// bypassing the reflection-based fallback encoder. This is the idiomatic Go
// stand-in for the generic data-model's visitor-based Serialize contract,
// modeled directly on the teacher's BerEncoder interface.
type Marshaler interface {
	EncodeMsgpack(e *Encoder) error
}

// Unmarshaler is implemented by types that decode themselves directly,
// bypassing the reflection-based fallback decoder. This is the idiomatic Go
// stand-in for the generic data-model's visitor-based Deserialize contract,
// modeled directly on the teacher's BerDecoder interface.
type Unmarshaler interface {
	DecodeMsgpack(d *Decoder) error
}
