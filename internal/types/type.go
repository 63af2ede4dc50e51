// Package types models the BASIC dialect's type system:
// scalar types, user-defined record types, and the derivation of a
// type from an identifier's sigil suffix.
package types

import "strings"

// Kind distinguishes a Type's scalar tag from the user-defined case.
type Kind int

const (
	Integer Kind = iota
	Long
	Single
	Double
	String
	Record
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "INTEGER"
	case Long:
		return "LONG"
	case Single:
		return "SINGLE"
	case Double:
		return "DOUBLE"
	case String:
		return "STRING"
	case Record:
		return "RECORD"
	default:
		return "UNKNOWN"
	}
}

// Field is one (name, scalar type) pair in a record's field list.
type Field struct {
	Name string
	Type *Type
}

// Type is either a scalar or a user-defined record: a scalar tag, or a
// user-defined record's ordered field list. Scalars are process-wide
// singletons (see IntegerType etc. below); records are allocated one
// per TYPE declaration.
type Type struct {
	Kind   Kind
	Name   string  // record type name; "" for scalars
	Fields []Field // non-nil only for Kind == Record
}

var (
	IntegerType = &Type{Kind: Integer, Name: "INTEGER"}
	LongType    = &Type{Kind: Long, Name: "LONG"}
	SingleType  = &Type{Kind: Single, Name: "SINGLE"}
	DoubleType  = &Type{Kind: Double, Name: "DOUBLE"}
	StringType  = &Type{Kind: String, Name: "STRING"}
)

// scalarByKeyword maps the dialect's AS-clause type names to the
// canonical scalar Type singletons.
var scalarByKeyword = map[string]*Type{
	"INTEGER": IntegerType,
	"LONG":    LongType,
	"SINGLE":  SingleType,
	"DOUBLE":  DoubleType,
	"STRING":  StringType,
}

// LookupScalar returns the scalar Type named by an AS clause
// (case-insensitive), or nil if name does not name a scalar keyword.
func LookupScalar(name string) *Type {
	return scalarByKeyword[strings.ToUpper(name)]
}

// SigilType derives a Type from an identifier's trailing sigil
// suffix: `%`→INTEGER, `&`→LONG, `!`→SINGLE, `#`→DOUBLE,
// `$`→STRING. A bare identifier (no recognized sigil) returns nil,
// signalling that the caller should fall back to the program's
// default type.
func SigilType(ident string) *Type {
	if ident == "" {
		return nil
	}
	switch ident[len(ident)-1] {
	case '%':
		return IntegerType
	case '&':
		return LongType
	case '!':
		return SingleType
	case '#':
		return DoubleType
	case '$':
		return StringType
	default:
		return nil
	}
}

// NewRecordType builds a record Type from its ordered field list. name
// is the TYPE declaration's name, matched case-insensitively elsewhere
// via the declarations table.
func NewRecordType(name string, fields []Field) *Type {
	return &Type{Kind: Record, Name: name, Fields: fields}
}

// Field looks up a record type's field by name (case-insensitive),
// returning (field, true) or (zero, false) if t is not a record or has
// no such field.
func (t *Type) Field(name string) (Field, bool) {
	if t.Kind != Record {
		return Field{}, false
	}
	for _, f := range t.Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// CreateInstance returns the type's default (zero) value: 0 for
// numeric scalars, "" for STRING, and a freshly zeroed field map for a
// record.
func (t *Type) CreateInstance() Value {
	switch t.Kind {
	case Integer, Long:
		return Value{Type: t, I: 0}
	case Single, Double:
		return Value{Type: t, F: 0}
	case String:
		return Value{Type: t, S: ""}
	case Record:
		fields := make(map[string]Value, len(t.Fields))
		for _, f := range t.Fields {
			fields[strings.ToUpper(f.Name)] = f.Type.CreateInstance()
		}
		return Value{Type: t, Rec: fields}
	default:
		return Value{Type: t}
	}
}

// IsNumeric reports whether t is one of the four numeric scalar kinds.
func (t *Type) IsNumeric() bool {
	switch t.Kind {
	case Integer, Long, Single, Double:
		return true
	default:
		return false
	}
}
