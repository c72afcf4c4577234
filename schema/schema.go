package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/litetable/litetable-mapper/codec"
)

// TagKey is the struct tag inspected for column mappings.
//
// Supported forms:
//
//	litetable:"rowkey"                              row key source field
//	litetable:"family=f,qualifier=q"                single-version column
//	litetable:"family=f,qualifier=q,versioned"      multi-version column
//	litetable:"family=f,list,id=Method"             one column per list element
//	litetable:"-"                                   never mapped
//
// The stringify option may be appended to any column form to switch the
// default codec to decimal-string encoding for that column.
const TagKey = "litetable"

// Record is the contract a mappable type fulfills. Implementations are
// pointer-to-struct types whose fields carry litetable tags.
//
// Table must be callable on a zero instance; the resolver invokes it once
// per type to learn the table-level metadata.
type Record interface {
	// Table returns the table-level metadata for this record type.
	Table() TableSpec

	// ComposeRowKey derives the row key value from the record's own state.
	ComposeRowKey() (any, error)

	// ParseRowKey restores row-key-derived state onto a freshly constructed
	// record. It is invoked exactly once per read, before columns are set.
	ParseRowKey(key any) error
}

// TableSpec is the table-level metadata of a record type: the set of column
// families with their max version counts, plus codec flags applied to the
// row key.
type TableSpec struct {
	Name       string
	Families   map[string]int // family name -> max versions
	CodecFlags codec.Flags
}

// Mode is the multiplicity of a column mapping.
type Mode int

const (
	// ModeSingle stores the field's current value in one cell.
	ModeSingle Mode = iota
	// ModeVersioned stores a map[int64]V history in one column, one cell
	// per timestamp.
	ModeVersioned
	// ModeList stores a []E under one family, one qualifier per element,
	// derived by the element's identifier method.
	ModeList
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeVersioned:
		return "versioned"
	case ModeList:
		return "list"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// FieldMapping is the resolved mapping of one struct field to its column(s).
type FieldMapping struct {
	Name      string // struct field name
	Family    string
	Qualifier string // empty in list mode; derived per element
	Mode      Mode
	IDMethod  string // list mode: element method that names the qualifier
	Flags     codec.Flags

	// Type is the declared field type; ValueType is the effective value
	// type the codec works with (the map or slice element for versioned
	// and list modes).
	Type      reflect.Type
	ValueType reflect.Type

	index       int
	idMethodIdx int
	idOnPointer bool
}

// Value returns the field's value on a record struct value.
func (f *FieldMapping) Value(rec reflect.Value) reflect.Value {
	return rec.Field(f.index)
}

// Set assigns v to the field on a record struct value.
func (f *FieldMapping) Set(rec reflect.Value, v reflect.Value) {
	rec.Field(f.index).Set(v)
}

// QualifierFor derives the column qualifier for one list element by
// invoking the mapping's identifier method on it.
func (f *FieldMapping) QualifierFor(elem reflect.Value) (string, error) {
	recv := elem
	if f.idOnPointer && recv.Kind() != reflect.Pointer {
		if recv.CanAddr() {
			recv = recv.Addr()
		} else {
			p := reflect.New(recv.Type())
			p.Elem().Set(recv)
			recv = p
		}
	}
	out := recv.Method(f.idMethodIdx).Call(nil)
	return fmt.Sprint(out[0].Interface()), nil
}

// parsedTag is the raw declaration attached to one field, before validation.
type parsedTag struct {
	skip      bool
	rowKey    bool
	mapped    bool
	family    string
	qualifier string
	mode      Mode
	idMethod  string
	stringify bool
}

func parseTag(tag string) (parsedTag, error) {
	var p parsedTag
	if tag == "" {
		return p, nil
	}
	if tag == "-" {
		p.skip = true
		return p, nil
	}
	for _, part := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(part, "=")
		switch key {
		case "rowkey":
			p.rowKey = true
		case "family":
			p.mapped = true
			p.family = value
		case "qualifier":
			p.qualifier = value
		case "versioned":
			p.mode = ModeVersioned
		case "list":
			p.mode = ModeList
		case "id":
			p.idMethod = value
		case "stringify":
			p.stringify = true
		default:
			return p, fmt.Errorf("unknown option %q", part)
		}
		if hasValue && value == "" {
			return p, fmt.Errorf("option %q has an empty value", key)
		}
	}
	if p.mapped {
		switch p.mode {
		case ModeList:
			if p.qualifier != "" {
				return p, fmt.Errorf("list columns derive qualifiers per element")
			}
			if p.idMethod == "" {
				return p, fmt.Errorf("list columns need an id=Method option")
			}
		default:
			if p.qualifier == "" {
				return p, fmt.Errorf("missing qualifier")
			}
			if p.idMethod != "" {
				return p, fmt.Errorf("id=Method is only valid on list columns")
			}
		}
	} else if p.qualifier != "" || p.idMethod != "" || p.mode != ModeSingle || p.stringify {
		return p, fmt.Errorf("column options without a family")
	}
	return p, nil
}

func (p parsedTag) flags() codec.Flags {
	if !p.stringify {
		return nil
	}
	return codec.Flags{codec.FlagStringify: "true"}
}
