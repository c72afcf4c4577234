// Package mapper converts record structs to and from the row / column
// family / qualifier / timestamp cell model used by LiteTable-shaped
// wide-column stores, without per-field marshaling code.
//
// A record type declares its mapping once: struct tags mark the row key
// source and the column behind each field, and the type's TableSpec names
// the column families. The Mapper resolves and validates that declaration
// on first use, caches it, and from then on transforms records to canonical
// Rows (and back) with a pluggable codec.
package mapper

import (
	"reflect"
	"sync"

	"github.com/litetable/litetable-mapper/codec"
	"github.com/litetable/litetable-mapper/schema"
)

// Re-export the extension-point types so most callers only import this package.
type (
	Record    = schema.Record
	TableSpec = schema.TableSpec
	Codec     = codec.Codec
	Flags     = codec.Flags
)

// Mapper transforms records to and from their columnar Row form. It holds
// only an immutable codec and a schema cache, and is safe for concurrent
// use without external locking.
type Mapper struct {
	codec codec.Codec

	rwMutex sync.RWMutex
	tables  map[reflect.Type]*schema.Table
}

type Config struct {
	// Codec converts field values to and from cell bytes. Nil selects the
	// default type-directed codec.
	Codec codec.Codec
}

// New creates a Mapper. A nil config selects all defaults.
func New(cfg *Config) (*Mapper, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	c := cfg.Codec
	if c == nil {
		c = codec.NewBestSuit()
	}
	return &Mapper{
		codec:  c,
		tables: make(map[reflect.Type]*schema.Table),
	}, nil
}

// schemaFor returns the cached resolved schema for a record type, resolving
// and validating it on first use. Only successful resolutions are cached;
// racing first resolutions recompute idempotently and converge.
func (m *Mapper) schemaFor(rt reflect.Type) (*schema.Table, error) {
	m.rwMutex.RLock()
	tbl, ok := m.tables[rt]
	m.rwMutex.RUnlock()
	if ok {
		return tbl, nil
	}

	tbl, err := schema.Resolve(rt, m.codec)
	if err != nil {
		return nil, err
	}

	m.rwMutex.Lock()
	if cached, exists := m.tables[rt]; exists {
		tbl = cached
	} else {
		m.tables[rt] = tbl
	}
	m.rwMutex.Unlock()
	return tbl, nil
}

// Validate checks whether the record's type is eligible for mapping,
// returning the structural error that makes it ineligible.
func (m *Mapper) Validate(rec Record) error {
	_, err := m.schemaFor(reflect.TypeOf(rec))
	return err
}

// Schema returns the resolved table schema of the record's type.
func (m *Mapper) Schema(rec Record) (*schema.Table, error) {
	return m.schemaFor(reflect.TypeOf(rec))
}

// Families returns the column families of the record's type with their max
// version counts, for provisioning the backing table.
func (m *Mapper) Families(rec Record) (map[string]int, error) {
	tbl, err := m.schemaFor(reflect.TypeOf(rec))
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(tbl.Spec.Families))
	for family, versions := range tbl.Spec.Families {
		out[family] = versions
	}
	return out, nil
}

// RowKey composes and serializes the record's row key.
func (m *Mapper) RowKey(rec Record) ([]byte, error) {
	tbl, err := m.schemaFor(reflect.TypeOf(rec))
	if err != nil {
		return nil, err
	}
	return m.composeRowKey(rec, tbl)
}

// serialize runs the codec, folding its failures into ErrCodec.
func (m *Mapper) serialize(value any, flags codec.Flags) ([]byte, error) {
	data, err := m.codec.Serialize(value, flags)
	if err != nil {
		return nil, newError(ErrCodec, "serialize: %v", err)
	}
	return data, nil
}

// deserialize runs the codec, folding its failures into ErrCodec. Empty
// input decodes to nil without touching the codec.
func (m *Mapper) deserialize(data []byte, target reflect.Type, flags codec.Flags) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	value, err := m.codec.Deserialize(data, target, flags)
	if err != nil {
		return nil, newError(ErrCodec, "deserialize into %s: %v", target, err)
	}
	return value, nil
}
