package entity

import (
	"fmt"
	"strconv"
)

// FieldKind is the semantic type of a column.
type FieldKind int

const (
	KindID FieldKind = iota
	KindForeignKey
	KindEnum
	KindAmount
	KindInteger
	KindBool
	KindDate
	KindTimestamp
	KindText
)

var kindNames = [...]string{
	KindID:         "id",
	KindForeignKey: "foreign_key",
	KindEnum:       "enum",
	KindAmount:     "amount",
	KindInteger:    "integer",
	KindBool:       "bool",
	KindDate:       "date",
	KindTimestamp:  "timestamp",
	KindText:       "text",
}

func (k FieldKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Field describes one column. Ref is set for foreign keys, Values for enums.
type Field struct {
	Name   string
	Kind   FieldKind
	Ref    Type
	Values []string
}

func ID(name string) Field                { return Field{Name: name, Kind: KindID} }
func FK(name string, ref Type) Field      { return Field{Name: name, Kind: KindForeignKey, Ref: ref} }
func Enum(name string, v ...string) Field { return Field{Name: name, Kind: KindEnum, Values: v} }
func Amount(name string) Field            { return Field{Name: name, Kind: KindAmount} }
func Integer(name string) Field           { return Field{Name: name, Kind: KindInteger} }
func Bool(name string) Field              { return Field{Name: name, Kind: KindBool} }
func Date(name string) Field              { return Field{Name: name, Kind: KindDate} }
func Timestamp(name string) Field         { return Field{Name: name, Kind: KindTimestamp} }
func Text(name string) Field              { return Field{Name: name, Kind: KindText} }

// Schema is the ordered column set of an entity. The identifier is always column 0.
type Schema struct {
	Fields []Field
}

func NewSchema(fields ...Field) Schema {
	return Schema{Fields: fields}
}

func (s Schema) Len() int {
	return len(s.Fields)
}

func (s Schema) Header() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// Index returns the column position of name, or -1.
func (s Schema) Index(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// ForeignKeys returns the column positions holding references, keyed by position.
func (s Schema) ForeignKeys() map[int]Type {
	out := make(map[int]Type)
	for i, f := range s.Fields {
		if f.Kind == KindForeignKey {
			out[i] = f.Ref
		}
	}
	return out
}

// Validate checks the column layout of a schema.
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema has no fields")
	}
	if s.Fields[0].Kind != KindID {
		return fmt.Errorf("first field %q is not an identifier", s.Fields[0].Name)
	}
	seen := make(map[string]bool, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("field %d has no name", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		if i > 0 && f.Kind == KindID {
			return fmt.Errorf("field %q: only the first field may be the identifier", f.Name)
		}
		if f.Kind == KindEnum && len(f.Values) == 0 {
			return fmt.Errorf("enum field %q has no values", f.Name)
		}
	}
	return nil
}

// Record is one row in schema order.
type Record []string

// ID parses the identifier column.
func (r Record) ID() (int64, error) {
	if len(r) == 0 {
		return 0, fmt.Errorf("empty record")
	}
	id, err := strconv.ParseInt(r[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q: %w", r[0], err)
	}
	return id, nil
}
