package mapper

import (
	"fmt"
	"reflect"

	"github.com/litetable/litetable-mapper/schema"
)

// ReadRow reconstructs a record of type T from its columnar Row form.
//
// A fresh instance is constructed per call, the row key is parsed first and
// columns are applied in declaration order; absent columns leave their
// fields at the default. An empty row (a store miss) reads as the zero T
// with no error.
//
// On a conversion failure the remaining fields are still processed and
// fields already assigned are kept, but the read is reported failed: the
// partially populated record is returned together with the first
// ErrFieldConversion.
func ReadRow[T Record](m *Mapper, row *Row) (T, error) {
	var zero T
	tbl, err := m.schemaFor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	if row == nil || len(row.Key) == 0 || row.IsEmpty() {
		return zero, nil
	}

	rec := tbl.NewRecord()
	if err := m.parseRowKey(rec, tbl, row.Key); err != nil {
		return zero, err
	}

	rv := reflect.ValueOf(rec).Elem()
	var firstErr error
	for i := range tbl.Fields {
		field := &tbl.Fields[i]
		family, ok := row.Columns[field.Family]
		if !ok || len(family) == 0 {
			continue
		}

		switch field.Mode {
		case schema.ModeVersioned:
			err = m.readVersioned(rv, field, family)
		case schema.ModeList:
			err = m.readList(rv, field, family)
		default:
			err = m.readSingle(rv, field, family)
		}
		if err != nil && firstErr == nil {
			firstErr = newError(ErrFieldConversion, "field %s of %s: %v", field.Name, tbl.Type.Name(), err)
		}
	}

	return rec.(T), firstErr
}

// ReadRows reconstructs records independently. Results and errors align
// with the input by index; one row's failure never blocks the others.
func ReadRows[T Record](m *Mapper, rows []*Row) ([]T, []error) {
	records := make([]T, len(rows))
	errs := make([]error, len(rows))
	for i, row := range rows {
		records[i], errs[i] = ReadRow[T](m, row)
	}
	return records, errs
}

// readSingle assigns the latest version of the field's column.
func (m *Mapper) readSingle(rv reflect.Value, field *schema.FieldMapping, family VersionedQualifier) error {
	versions, ok := family[field.Qualifier]
	if !ok || len(versions) == 0 {
		return nil
	}
	_, raw, _ := versions.Latest()
	value, err := m.deserialize(raw, field.Type, field.Flags)
	if err != nil || value == nil {
		return err
	}
	return setValue(rv, field, reflect.ValueOf(value))
}

// readVersioned assigns the column's whole history as map[int64]V,
// timestamp ordering carried by the keys themselves.
func (m *Mapper) readVersioned(rv reflect.Value, field *schema.FieldMapping, family VersionedQualifier) error {
	versions, ok := family[field.Qualifier]
	if !ok || len(versions) == 0 {
		return nil
	}
	history := reflect.MakeMapWithSize(field.Type, len(versions))
	for ts, raw := range versions {
		value, err := m.deserialize(raw, field.ValueType, field.Flags)
		if err != nil {
			return err
		}
		if value == nil {
			continue
		}
		entry, err := conform(reflect.ValueOf(value), field.ValueType)
		if err != nil {
			return err
		}
		history.SetMapIndex(reflect.ValueOf(ts), entry)
	}
	if history.Len() == 0 {
		return nil
	}
	return setValue(rv, field, history)
}

// readList assigns one element per qualifier under the field's family, in
// byte-lexicographic qualifier order, each decoded from its latest version.
func (m *Mapper) readList(rv reflect.Value, field *schema.FieldMapping, family VersionedQualifier) error {
	list := reflect.MakeSlice(field.Type, 0, len(family))
	for _, qualifier := range family.Qualifiers() {
		versions := family[qualifier]
		if len(versions) == 0 {
			continue
		}
		_, raw, _ := versions.Latest()
		value, err := m.deserialize(raw, field.ValueType, field.Flags)
		if err != nil {
			return err
		}
		if value == nil {
			continue
		}
		elem, err := conform(reflect.ValueOf(value), field.ValueType)
		if err != nil {
			return err
		}
		list = reflect.Append(list, elem)
	}
	if list.Len() == 0 {
		return nil
	}
	return setValue(rv, field, list)
}

func setValue(rv reflect.Value, field *schema.FieldMapping, value reflect.Value) error {
	conformed, err := conform(value, field.Type)
	if err != nil {
		return err
	}
	field.Set(rv, conformed)
	return nil
}

// conform coerces a decoded value to the declared target type; custom
// codecs may return assignable or convertible stand-ins.
func conform(value reflect.Value, target reflect.Type) (reflect.Value, error) {
	switch {
	case value.Type() == target, value.Type().AssignableTo(target):
		return value, nil
	case value.Type().ConvertibleTo(target):
		return value.Convert(target), nil
	default:
		return reflect.Value{}, fmt.Errorf("codec produced %s, want %s", value.Type(), target)
	}
}
