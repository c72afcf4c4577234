package mapper

import (
	"fmt"

	"github.com/litetable/litetable-mapper/schema"
)

// composeRowKey invokes the record's row key derivation and serializes the
// result with the table-level codec flags. A nil key, or one whose string
// form is empty, is rejected before it can reach the store.
func (m *Mapper) composeRowKey(rec Record, tbl *schema.Table) ([]byte, error) {
	key, err := rec.ComposeRowKey()
	if err != nil {
		return nil, newError(ErrRowKeyCompose, "type %s: %v", tbl.Type.Name(), err)
	}
	if key == nil || fmt.Sprint(key) == "" {
		return nil, newError(ErrRowKeyEmpty, "type %s composed an empty row key", tbl.Type.Name())
	}
	raw, err := m.serialize(key, tbl.Spec.CodecFlags)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, newError(ErrRowKeyEmpty, "type %s composed an empty row key", tbl.Type.Name())
	}
	return raw, nil
}

// parseRowKey deserializes raw key bytes into the type's resolved row key
// type and hands the value to the record. Every failure carries the
// offending bytes and the attempted target type.
func (m *Mapper) parseRowKey(rec Record, tbl *schema.Table, raw []byte) error {
	key, err := m.codec.Deserialize(raw, tbl.RowKeyType, tbl.Spec.CodecFlags)
	if err != nil {
		return newError(ErrRowKeyParse, "raw key %q into %s: %v", raw, tbl.RowKeyType, err)
	}
	if err := rec.ParseRowKey(key); err != nil {
		return newError(ErrRowKeyParse, "raw key %q into %s: %v", raw, tbl.RowKeyType, err)
	}
	return nil
}
