package schema

import (
	"reflect"

	"github.com/rs/zerolog/log"

	"github.com/litetable/litetable-mapper/codec"
)

// Table is the fully resolved metadata of one record type: its TableSpec,
// the row key field and every column mapping, in declaration order.
//
// Resolution is deterministic; resolving the same type twice yields
// value-equal Tables, so results are safe to cache process-wide.
type Table struct {
	Spec TableSpec

	// Type is the underlying struct type of the record.
	Type reflect.Type

	// RowKeyType is the declared type of the rowkey-tagged field. Row key
	// bytes are deserialized into this type on reads; it is resolved here
	// once and never re-inspected per call.
	RowKeyType reflect.Type

	// Fields holds the column mappings in struct declaration order.
	Fields []FieldMapping

	rowKeyIndex int
}

// NewRecord constructs a fresh record instance via the type's zero-argument
// construction path.
func (t *Table) NewRecord() Record {
	return reflect.New(t.Type).Interface().(Record)
}

// RowKeyValue returns the value of the rowkey-tagged field on a record
// struct value.
func (t *Table) RowKeyValue(rec reflect.Value) reflect.Value {
	return rec.Field(t.rowKeyIndex)
}

// Resolve derives the Table for a record type, running the full validation
// rule set. rt must be the pointer-to-struct type of a Record
// implementation; c decides codec compatibility of field types.
//
// Validation is fail-fast: the first violated rule is returned as a
// structural error and nothing is cached by callers.
func Resolve(rt reflect.Type, c codec.Codec) (*Table, error) {
	if rt == nil || rt.Kind() != reflect.Pointer || rt.Elem().Kind() != reflect.Struct {
		return nil, newError(ErrNoAccessibleConstructor, "type %v must be a pointer to a struct", rt)
	}
	st := rt.Elem()
	rec, ok := reflect.New(st).Interface().(Record)
	if !ok {
		return nil, newError(ErrNoAccessibleConstructor, "type %v does not implement Record", rt)
	}

	tbl := &Table{
		Spec:        rec.Table(),
		Type:        st,
		rowKeyIndex: -1,
	}

	// (family, qualifier) pairs already claimed, and families claimed
	// wholesale by list fields.
	claimed := make(map[[2]string]string, st.NumField())
	listFamilies := make(map[string]string)
	familiesUsed := make(map[string]string)

	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		tag, err := parseTag(field.Tag.Get(TagKey))
		if err != nil {
			return nil, newError(ErrInvalidTag, "field %s.%s: %v", st.Name(), field.Name, err)
		}
		if tag.skip {
			continue
		}
		if tag.rowKey {
			if field.PkgPath != "" {
				return nil, newError(ErrUnexportedFieldMapped, "row key field %s.%s", st.Name(), field.Name)
			}
			if tbl.rowKeyIndex >= 0 {
				return nil, newError(ErrInvalidTag, "type %s marks more than one rowkey field", st.Name())
			}
			tbl.rowKeyIndex = i
			tbl.RowKeyType = field.Type
		}
		if !tag.mapped {
			continue
		}

		m := FieldMapping{
			Name:      field.Name,
			Family:    tag.family,
			Qualifier: tag.qualifier,
			Mode:      tag.mode,
			IDMethod:  tag.idMethod,
			Flags:     tag.flags(),
			Type:      field.Type,
			index:     i,
		}
		if err := validateColumnField(&m, field, st, tbl.Spec, c); err != nil {
			return nil, err
		}

		// No two fields may collide on the same column. A list field owns
		// every qualifier under its family, so it conflicts with anything
		// else in that family.
		if m.Mode == ModeList {
			if other, used := familiesUsed[m.Family]; used {
				return nil, newError(ErrDuplicateColumnMapping,
					"fields %s and %s of %s share family %s, which a list field owns entirely",
					other, m.Name, st.Name(), m.Family)
			}
			listFamilies[m.Family] = m.Name
		} else {
			if owner, owned := listFamilies[m.Family]; owned {
				return nil, newError(ErrDuplicateColumnMapping,
					"fields %s and %s of %s share family %s, which a list field owns entirely",
					owner, m.Name, st.Name(), m.Family)
			}
			col := [2]string{m.Family, m.Qualifier}
			if other, dup := claimed[col]; dup {
				return nil, newError(ErrDuplicateColumnMapping,
					"fields %s and %s of %s both map to %s:%s", other, m.Name, st.Name(), m.Family, m.Qualifier)
			}
			claimed[col] = m.Name
		}
		familiesUsed[m.Family] = m.Name

		tbl.Fields = append(tbl.Fields, m)
	}

	if len(tbl.Fields) == 0 {
		return nil, newError(ErrMissingColumnFields, "type %s maps no fields to columns", st.Name())
	}
	if tbl.rowKeyIndex < 0 {
		return nil, newError(ErrMissingRowKeyField, "type %s has no rowkey field", st.Name())
	}

	log.Debug().
		Str("type", st.Name()).
		Str("table", tbl.Spec.Name).
		Int("columns", len(tbl.Fields)).
		Msg("resolved table schema")

	return tbl, nil
}

func validateColumnField(m *FieldMapping, field reflect.StructField, st reflect.Type, spec TableSpec, c codec.Codec) error {
	if field.PkgPath != "" {
		return newError(ErrUnexportedFieldMapped, "field %s.%s", st.Name(), field.Name)
	}
	if field.Anonymous {
		return newError(ErrEmbeddedFieldMapped, "field %s.%s", st.Name(), field.Name)
	}
	if _, configured := spec.Families[m.Family]; !configured {
		return newError(ErrFamilyNotConfigured,
			"field %s.%s maps to family %s, which table %s does not declare", st.Name(), field.Name, m.Family, spec.Name)
	}

	switch m.Mode {
	case ModeVersioned:
		if field.Type.Kind() != reflect.Map || field.Type.Key() != reflect.TypeOf(int64(0)) {
			return newError(ErrUnsupportedFieldType,
				"versioned field %s.%s must be a map[int64]V, not %s", st.Name(), field.Name, field.Type)
		}
		m.ValueType = field.Type.Elem()
	case ModeList:
		if field.Type.Kind() != reflect.Slice {
			return newError(ErrUnsupportedFieldType,
				"list field %s.%s must be a slice, not %s", st.Name(), field.Name, field.Type)
		}
		m.ValueType = field.Type.Elem()
		if err := resolveIDMethod(m, st, field); err != nil {
			return err
		}
	default:
		if isPrimitive(field.Type) {
			return newError(ErrPrimitiveFieldMapped,
				"field %s.%s is a non-nilable %s; absence would be unrepresentable", st.Name(), field.Name, field.Type)
		}
		m.ValueType = field.Type
	}

	if !c.CanDeserialize(m.ValueType) {
		return newError(ErrUnsupportedFieldType,
			"field %s.%s: codec cannot handle %s", st.Name(), field.Name, m.ValueType)
	}
	return nil
}

func resolveIDMethod(m *FieldMapping, st reflect.Type, field reflect.StructField) error {
	elem := m.ValueType
	method, ok := elem.MethodByName(m.IDMethod)
	if !ok && elem.Kind() != reflect.Pointer {
		method, ok = reflect.PointerTo(elem).MethodByName(m.IDMethod)
		m.idOnPointer = true
	}
	if !ok {
		return newError(ErrUnsupportedFieldType,
			"list field %s.%s: element type %s has no method %s", st.Name(), field.Name, elem, m.IDMethod)
	}
	if method.Type.NumIn() != 1 || method.Type.NumOut() != 1 {
		return newError(ErrUnsupportedFieldType,
			"list field %s.%s: method %s must take no arguments and return one value", st.Name(), field.Name, m.IDMethod)
	}
	m.idMethodIdx = method.Index
	return nil
}

// isPrimitive reports whether a type cannot represent absence. Mapped
// single-version fields must be nilable (or a string, whose empty encoding
// already means "no cell").
func isPrimitive(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}
