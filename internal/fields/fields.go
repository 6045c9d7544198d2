// Package fields provides reflect-based struct field and tag inspection
// shared by the encoder and decoder. It plays the same role for package
// msgpack that codello.dev/asn1/internal plays for the asn1 package: a small
// tag parser plus a field iterator that flattens anonymous embedded structs.
package fields

import (
	"iter"
	"reflect"
	"strings"
)

// Parameters is the parsed representation of a `msgpack:"..."` struct tag.
type Parameters struct {
	Name      string // explicit wire name, overriding the Go field name
	Ignore    bool   // true iff this field should be skipped entirely
	OmitEmpty bool   // true iff a zero value should be omitted when encoding
}

// ParseTag parses a msgpack struct tag. The first comma-separated part is
// the field's wire name (empty meaning "use the Go field name"); the
// remaining parts are options. Unknown options are ignored so that tags
// written for other purposes do not need to be stripped.
func ParseTag(tag string) (ret Parameters) {
	parts := strings.Split(tag, ",")
	if len(parts) == 0 {
		return ret
	}
	if parts[0] == "-" && len(parts) == 1 {
		ret.Ignore = true
		return ret
	}
	ret.Name = parts[0]
	for _, part := range parts[1:] {
		switch part {
		case "omitempty":
			ret.OmitEmpty = true
		}
	}
	return ret
}

// Fields returns a sequence over the fields of the struct identified by v.
// Fields tagged `msgpack:"-"` are skipped, as are non-exported fields other
// than untagged embedded structs. Fields of anonymous embedded structs
// (exported or not) are yielded as if they belonged to
// the containing struct, matching how internal.StructFields flattens
// embedding in the teacher package. The yielded Parameters.Name is always
// populated: the tag's explicit name if given, otherwise the Go field name.
func Fields(v reflect.Value) iter.Seq2[reflect.Value, Parameters] {
	return func(yield func(reflect.Value, Parameters) bool) {
		t := v.Type()
		for i := range t.NumField() {
			field := t.Field(i)
			params := ParseTag(field.Tag.Get("msgpack"))
			anonymous := field.Anonymous && params.Name == ""
			flatten := anonymous && field.Type.Kind() == reflect.Struct
			if params.Ignore || (!field.IsExported() && !flatten) {
				continue
			}
			if params.Name == "" {
				params.Name = field.Name
			}
			if flatten {
				for vv, nested := range Fields(v.Field(i)) {
					if !yield(vv, nested) {
						return
					}
				}
				continue
			}
			if !yield(v.Field(i), params) {
				return
			}
		}
	}
}

// IsEmptyValue reports whether v is the zero value for its type, used to
// implement the omitempty tag option.
func IsEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
