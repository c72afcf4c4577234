package codec

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// BestSuit is the default codec. It picks the most compact deterministic
// encoding the target type allows: fixed-width big-endian bytes for scalar
// numbers and booleans, raw UTF-8 for strings and JSON for everything
// composite. Pointers are transparent; a nil value (or nil pointer)
// serializes to nil, which the mapper treats as "no cell".
type BestSuit struct{}

// NewBestSuit returns the default type-directed codec.
func NewBestSuit() *BestSuit {
	return &BestSuit{}
}

// Serialize implements Codec.
func (c *BestSuit) Serialize(value any, flags Flags) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	if flags.Bool(FlagStringify) {
		if s, ok := stringifyScalar(rv); ok {
			return []byte(s), nil
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return fixedWidth(uint64(rv.Int()), scalarWidth(rv.Kind())), nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return fixedWidth(rv.Uint(), scalarWidth(rv.Kind())), nil
	case reflect.Float32:
		return fixedWidth(uint64(math.Float32bits(float32(rv.Float()))), 4), nil
	case reflect.Float64:
		return fixedWidth(math.Float64bits(rv.Float()), 8), nil
	case reflect.String:
		return []byte(rv.String()), nil
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		data, err := json.Marshal(rv.Interface())
		if err != nil {
			return nil, newError(ErrSerialization, "value of type %s: %v", rv.Type(), err)
		}
		return data, nil
	default:
		return nil, newError(ErrSerialization, "unsupported type %s", rv.Type())
	}
}

// Deserialize implements Codec.
func (c *BestSuit) Deserialize(data []byte, target reflect.Type, flags Flags) (any, error) {
	out := reflect.New(target).Elem()
	if err := c.decode(data, out, flags); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func (c *BestSuit) decode(data []byte, out reflect.Value, flags Flags) error {
	t := out.Type()
	if t.Kind() == reflect.Pointer {
		inner := reflect.New(t.Elem())
		if err := c.decode(data, inner.Elem(), flags); err != nil {
			return err
		}
		out.Set(inner)
		return nil
	}

	if flags.Bool(FlagStringify) && isScalarKind(t.Kind()) {
		return parseScalar(string(data), out)
	}

	switch t.Kind() {
	case reflect.Bool:
		if len(data) != 1 {
			return newError(ErrDeserialization, "bool needs 1 byte, got %d", len(data))
		}
		out.SetBool(data[0] != 0)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		u, err := readFixedWidth(data, scalarWidth(t.Kind()), t)
		if err != nil {
			return err
		}
		out.SetInt(signExtend(u, scalarWidth(t.Kind())))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		u, err := readFixedWidth(data, scalarWidth(t.Kind()), t)
		if err != nil {
			return err
		}
		out.SetUint(u)
	case reflect.Float32:
		u, err := readFixedWidth(data, 4, t)
		if err != nil {
			return err
		}
		out.SetFloat(float64(math.Float32frombits(uint32(u))))
	case reflect.Float64:
		u, err := readFixedWidth(data, 8, t)
		if err != nil {
			return err
		}
		out.SetFloat(math.Float64frombits(u))
	case reflect.String:
		out.SetString(string(data))
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		if err := json.Unmarshal(data, out.Addr().Interface()); err != nil {
			return newError(ErrDeserialization, "into type %s: %v", t, err)
		}
	default:
		return newError(ErrDeserialization, "unsupported type %s", t)
	}
	return nil
}

// CanDeserialize implements Codec.
func (c *BestSuit) CanDeserialize(target reflect.Type) bool {
	for target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	switch target.Kind() {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint,
		reflect.Float32, reflect.Float64,
		reflect.String,
		reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

func scalarWidth(k reflect.Kind) int {
	switch k {
	case reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	default:
		return 8
	}
}

func fixedWidth(u uint64, width int) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	return buf[8-width:]
}

func readFixedWidth(data []byte, width int, t reflect.Type) (uint64, error) {
	if len(data) != width {
		return 0, newError(ErrDeserialization, "%s needs %d bytes, got %d", t, width, len(data))
	}
	var buf [8]byte
	copy(buf[8-width:], data)
	return binary.BigEndian.Uint64(buf[:]), nil
}

func signExtend(u uint64, width int) int64 {
	shift := uint(64 - width*8)
	return int64(u<<shift) >> shift
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func stringifyScalar(rv reflect.Value) (string, bool) {
	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	}
	return "", false
}

func parseScalar(s string, out reflect.Value) error {
	switch out.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return newError(ErrDeserialization, "%q as bool: %v", s, err)
		}
		out.SetBool(b)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		i, err := strconv.ParseInt(s, 10, out.Type().Bits())
		if err != nil {
			return newError(ErrDeserialization, "%q as %s: %v", s, out.Type(), err)
		}
		out.SetInt(i)
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		u, err := strconv.ParseUint(s, 10, out.Type().Bits())
		if err != nil {
			return newError(ErrDeserialization, "%q as %s: %v", s, out.Type(), err)
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, out.Type().Bits())
		if err != nil {
			return newError(ErrDeserialization, "%q as %s: %v", s, out.Type(), err)
		}
		out.SetFloat(f)
	}
	return nil
}
