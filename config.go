package msgpack

// structLayout selects how struct values are framed on the wire, mirroring
// the Rust original's DefaultConfig / StructMapConfig / StructTupleConfig
// wrapper chain.
type structLayout int

const (
	// layoutArray encodes a struct as a MessagePack array of its field
	// values in declaration order, discarding field names. This is the
	// default, matching rmp-serde's DefaultConfig.
	layoutArray structLayout = iota
	// layoutMap encodes a struct as a MessagePack map from field name (or
	// its msgpack tag name) to value, matching StructMapConfig.
	layoutMap
	// layoutTuple is an alias for layoutArray kept distinct so
	// WithStructTuple and the zero value remain independently documented,
	// matching the Rust original exposing both DefaultConfig and
	// StructTupleConfig as separate (behaviorally identical) types.
	layoutTuple
)

// variantIdent selects how enum/union variants are tagged on the wire.
type variantIdent int

const (
	// variantIdentName encodes a variant using its registered string name.
	// This is the default, matching rmp-serde's variant_ident behavior.
	variantIdentName variantIdent = iota
	// variantIdentIndex encodes a variant using its registered numeric
	// index instead of its name.
	variantIdentIndex
)

// defaultMaxDepth is the default nesting-depth ceiling applied by a
// Decoder, matching the 1024 default called out in the original design.
const defaultMaxDepth = 1024

// Config holds the compile-time-selectable wire-format choices that in the
// Rust original are expressed as a chain of generic wrapper types
// (DefaultConfig, StructMapConfig, StructTupleConfig, HumanReadableConfig,
// BinaryConfig). Go has no equivalent sealed-trait generics, so the same
// choices are expressed as a plain struct populated by functional options.
type Config struct {
	structLayout  structLayout
	variantIdent  variantIdent
	humanReadable bool
	maxDepth      int
}

// defaultConfig returns the Config an Encoder/Decoder starts from before
// Options are applied.
func defaultConfig() Config {
	return Config{
		structLayout:  layoutArray,
		variantIdent:  variantIdentName,
		humanReadable: false,
		maxDepth:      defaultMaxDepth,
	}
}

// Option configures an Encoder or Decoder. Options are applied in order, so
// a later option overrides an earlier conflicting one.
type Option func(*Config)

// WithStructMap encodes structs as maps from field name to value instead of
// the default array-of-values layout. Corresponds to rmp-serde's
// StructMapConfig.
func WithStructMap() Option {
	return func(c *Config) { c.structLayout = layoutMap }
}

// WithStructTuple encodes structs as arrays of field values, omitting field
// names. This is the default layout; the option exists so callers can
// restore it explicitly after composing with another option, and to mirror
// rmp-serde's StructTupleConfig being named independently of
// DefaultConfig despite identical behavior.
func WithStructTuple() Option {
	return func(c *Config) { c.structLayout = layoutTuple }
}

// WithVariantIndex encodes union/enum variants using their registered
// numeric index instead of their name.
func WithVariantIndex() Option {
	return func(c *Config) { c.variantIdent = variantIdentIndex }
}

// WithHumanReadable marks the codec as targeting a human-facing format.
// Types whose custom Marshaler/Unmarshaler branch on this (for example,
// encoding a time as an RFC 3339 string instead of seconds-since-epoch) can
// query it via Encoder.HumanReadable / Decoder.HumanReadable. Corresponds to
// rmp-serde's HumanReadableConfig.
func WithHumanReadable() Option {
	return func(c *Config) { c.humanReadable = true }
}

// WithBinary is the converse of WithHumanReadable, restoring the default
// compact, binary-oriented behavior. Corresponds to rmp-serde's
// BinaryConfig; the Rust original models Binary and HumanReadable as
// distinct wrapper types but they drive a single is_human_readable bit, so
// here they're both just setters for humanReadable.
func WithBinary() Option {
	return func(c *Config) { c.humanReadable = false }
}

// WithMaxDepth overrides the maximum nesting depth a Decoder will follow
// before returning a DepthLimitExceededError. A limit of 0 disables the
// check.
func WithMaxDepth(n int) Option {
	return func(c *Config) { c.maxDepth = n }
}

func buildConfig(opts []Option) Config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
