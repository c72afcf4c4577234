package mapper

import (
	"reflect"

	"github.com/rs/zerolog/log"

	"github.com/litetable/litetable-mapper/schema"
)

// WriteRow maps a record to its columnar Row form.
//
// Fields traverse in declaration order. A field whose value serializes to
// zero bytes is omitted entirely; a store cannot tell an empty cell from an
// absent one, so the mapper never writes one. A record that produces a row
// key but not a single cell fails with ErrAllColumnsEmpty.
func (m *Mapper) WriteRow(rec Record) (*Row, error) {
	tbl, err := m.schemaFor(reflect.TypeOf(rec))
	if err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(rec).Elem()
	if isNilValue(tbl.RowKeyValue(rv)) {
		return nil, newError(ErrRowKeyEmpty, "row key field of %s is nil", tbl.Type.Name())
	}
	key, err := m.composeRowKey(rec, tbl)
	if err != nil {
		return nil, err
	}

	row := &Row{Key: key, Columns: make(map[string]VersionedQualifier)}
	cells := 0
	for i := range tbl.Fields {
		field := &tbl.Fields[i]
		value := field.Value(rv)

		var n int
		switch field.Mode {
		case schema.ModeVersioned:
			n, err = m.writeVersioned(row, tbl, field, value)
		case schema.ModeList:
			n, err = m.writeList(row, field, value)
		default:
			n, err = m.writeSingle(row, field, value)
		}
		if err != nil {
			return nil, err
		}
		cells += n
	}

	if cells == 0 {
		return nil, newError(ErrAllColumnsEmpty, "record of %s holds only a row key", tbl.Type.Name())
	}
	return row, nil
}

// WriteRows maps records independently. Results and errors align with the
// input by index; one record's failure never blocks or undoes the others.
func (m *Mapper) WriteRows(records []Record) ([]*Row, []error) {
	rows := make([]*Row, len(records))
	errs := make([]error, len(records))
	for i, rec := range records {
		rows[i], errs[i] = m.WriteRow(rec)
		if errs[i] != nil {
			log.Debug().Err(errs[i]).Int("index", i).Msg("record could not be mapped")
		}
	}
	return rows, errs
}

// writeSingle emits the field's current value at LatestTimestamp, or
// nothing when the value is nil or serializes to zero bytes.
func (m *Mapper) writeSingle(row *Row, field *schema.FieldMapping, value reflect.Value) (int, error) {
	if isNilValue(value) {
		return 0, nil
	}
	raw, err := m.serialize(value.Interface(), field.Flags)
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}
	row.add(field.Family, field.Qualifier, LatestTimestamp, raw)
	return 1, nil
}

// writeVersioned emits one cell per timestamped entry, timestamps passed
// through unchanged. A nil map is skipped; a present-but-empty history is a
// declaration misuse and fails the write.
func (m *Mapper) writeVersioned(row *Row, tbl *schema.Table, field *schema.FieldMapping, value reflect.Value) (int, error) {
	if value.IsNil() {
		return 0, nil
	}
	if value.Len() == 0 {
		return 0, newError(ErrVersionedFieldEmpty, "field %s of %s", field.Name, tbl.Type.Name())
	}
	emitted := 0
	iter := value.MapRange()
	for iter.Next() {
		entry := iter.Value()
		if isNilValue(entry) {
			continue
		}
		raw, err := m.serialize(entry.Interface(), field.Flags)
		if err != nil {
			return 0, err
		}
		if len(raw) == 0 {
			continue
		}
		row.add(field.Family, field.Qualifier, iter.Key().Int(), raw)
		emitted++
	}
	if emitted == 0 {
		return 0, nil
	}
	return 1, nil
}

// writeList emits one column per element, the qualifier derived by the
// element's identifier method, at LatestTimestamp. The zero-bytes omission
// rule applies per element.
func (m *Mapper) writeList(row *Row, field *schema.FieldMapping, value reflect.Value) (int, error) {
	if value.IsNil() {
		return 0, nil
	}
	emitted := 0
	for i := 0; i < value.Len(); i++ {
		elem := value.Index(i)
		if isNilValue(elem) {
			continue
		}
		qualifier, err := field.QualifierFor(elem)
		if err != nil {
			return 0, err
		}
		raw, err := m.serialize(elem.Interface(), field.Flags)
		if err != nil {
			return 0, err
		}
		if len(raw) == 0 {
			continue
		}
		row.add(field.Family, qualifier, LatestTimestamp, raw)
		emitted++
	}
	return emitted, nil
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
