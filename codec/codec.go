package codec

import (
	"reflect"
)

//go:generate mockgen -destination=codec_mock.go -package=codec -source=codec.go

// Flags carry per-column or per-table codec options. Keys and values are
// opaque to the mapper; each codec documents the flags it honors.
type Flags map[string]string

// FlagStringify tells the default codec to encode scalar values as their
// decimal string form instead of fixed-width binary.
const FlagStringify = "stringify"

// Bool reports whether the flag named key is set to "true".
func (f Flags) Bool(key string) bool {
	return f[key] == "true"
}

// Codec converts field values to and from the raw bytes stored in a cell.
//
// A codec must be deterministic: the same target type always picks the same
// encoding, so no type tag is needed inside the payload. Implementations are
// shared across goroutines and must be safe for concurrent use.
type Codec interface {
	// Serialize encodes a value into cell bytes. A nil value encodes to nil.
	Serialize(value any, flags Flags) ([]byte, error)

	// Deserialize decodes cell bytes into a value of the target type. The
	// returned value is assignable to target.
	Deserialize(data []byte, target reflect.Type, flags Flags) (any, error)

	// CanDeserialize reports whether this codec can produce values of the
	// target type. Schema validation rejects mapped fields whose type the
	// codec cannot handle.
	CanDeserialize(target reflect.Type) bool
}
