package record

import (
	"errors"
	"fmt"
)

var (
	ErrFieldNotFound = errors.New("field not found")
	ErrInvalidSchema = errors.New("invalid schema")
)

// RecIDField is the implicit primary key every record type carries.
const RecIDField = "RecId"

// FieldType is the declared storage type of a field.
type FieldType int

const (
	Varchar FieldType = iota
	Char
	Int
	Blob
	Boolean
	DateTime
	Decimal
	Float
	Double
	Date
	Text
)

var fieldTypeNames = map[FieldType]string{
	Varchar:  "VARCHAR",
	Char:     "CHAR",
	Int:      "INT",
	Blob:     "BLOB",
	Boolean:  "BOOLEAN",
	DateTime: "DATETIME",
	Decimal:  "DECIMAL",
	Float:    "FLOAT",
	Double:   "DOUBLE",
	Date:     "DATE",
	Text:     "TEXT",
}

func (t FieldType) String() string {
	if s, ok := fieldTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// Constraint is a bitmask of column constraints.
type Constraint int

const ConstraintNone Constraint = 0

const (
	PrimaryKey    Constraint = 1 << iota // 1
	NotNull                              // 2
	AutoIncrement                        // 4
)

type FieldInfo struct {
	name        string
	fieldType   FieldType
	fieldLength int
	constraints Constraint
}

func (f FieldInfo) Name() string            { return f.name }
func (f FieldInfo) Type() FieldType         { return f.fieldType }
func (f FieldInfo) Length() int             { return f.fieldLength }
func (f FieldInfo) Constraints() Constraint { return f.constraints }

func (f FieldInfo) IsPrimaryKey() bool    { return f.constraints&PrimaryKey != 0 }
func (f FieldInfo) IsNotNull() bool       { return f.constraints&NotNull != 0 }
func (f FieldInfo) IsAutoIncrement() bool { return f.constraints&AutoIncrement != 0 }

// Schema is the ordered field list of one record type. A schema is built once
// per record type and shared by all its instances; the schema pointer is the
// identity of the record type.
type Schema struct {
	table     string
	fields    []string
	fieldInfo map[string]FieldInfo
}

// NewSchema creates a schema for the given table with the implicit RecId
// field already declared.
func NewSchema(table string) *Schema {
	s := &Schema{
		table:     table,
		fields:    make([]string, 0),
		fieldInfo: make(map[string]FieldInfo),
	}
	s.fields = append(s.fields, RecIDField)
	s.fieldInfo[RecIDField] = FieldInfo{
		name:        RecIDField,
		fieldType:   Int,
		constraints: PrimaryKey | NotNull | AutoIncrement,
	}
	return s
}

// AddField declares a field. Redeclaring RecId, a second primary key or a
// VARCHAR without a positive length is rejected.
func (s *Schema) AddField(name string, fieldType FieldType, length int, constraints Constraint) error {
	if name == "" {
		return fmt.Errorf("%w: empty field name in %s", ErrInvalidSchema, s.table)
	}
	if _, exists := s.fieldInfo[name]; exists {
		return fmt.Errorf("%w: duplicate field %s.%s", ErrInvalidSchema, s.table, name)
	}
	if constraints&PrimaryKey != 0 {
		return fmt.Errorf("%w: %s.%s: %s is the only primary key", ErrInvalidSchema, s.table, name, RecIDField)
	}
	if fieldType == Varchar && length <= 0 {
		return fmt.Errorf("%w: %s.%s: varchar needs a positive length", ErrInvalidSchema, s.table, name)
	}
	if _, ok := fieldTypeNames[fieldType]; !ok {
		return fmt.Errorf("%w: %s.%s: %v", ErrUnsupportedType, s.table, name, fieldType)
	}
	s.fields = append(s.fields, name)
	s.fieldInfo[name] = FieldInfo{
		name:        name,
		fieldType:   fieldType,
		fieldLength: length,
		constraints: constraints,
	}
	return nil
}

func (s *Schema) AddIntField(name string) error {
	return s.AddField(name, Int, 0, ConstraintNone)
}

func (s *Schema) AddVarcharField(name string, length int) error {
	return s.AddField(name, Varchar, length, ConstraintNone)
}

// MustAddField is AddField for package-level schema declarations.
func (s *Schema) MustAddField(name string, fieldType FieldType, length int, constraints Constraint) *Schema {
	if err := s.AddField(name, fieldType, length, constraints); err != nil {
		panic(err)
	}
	return s
}

// Table returns the backend table name of the record type.
func (s *Schema) Table() string {
	return s.table
}

// Fields returns a copy of the field names slice
func (s *Schema) Fields() []string {
	fields := make([]string, len(s.fields))
	copy(fields, s.fields)
	return fields
}

// GetFieldInfo returns the field information for a given field name
func (s *Schema) GetFieldInfo(fieldName string) (FieldInfo, bool) {
	info, exists := s.fieldInfo[fieldName]
	return info, exists
}

// Lookup is GetFieldInfo returning ErrFieldNotFound for unknown fields.
func (s *Schema) Lookup(fieldName string) (FieldInfo, error) {
	info, exists := s.fieldInfo[fieldName]
	if !exists {
		return FieldInfo{}, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, s.table, fieldName)
	}
	return info, nil
}

// Type returns the type of a field
func (s *Schema) Type(fieldName string) FieldType {
	return s.fieldInfo[fieldName].fieldType
}

// Length returns the length of a field
func (s *Schema) Length(fieldName string) int {
	if info, exists := s.fieldInfo[fieldName]; exists {
		return info.fieldLength
	}
	return 0
}

// HasField checks if the schema contains the specified field.
func (s *Schema) HasField(fieldName string) bool {
	_, exists := s.fieldInfo[fieldName]
	return exists
}

// PrimaryKey returns the primary key field.
func (s *Schema) PrimaryKey() FieldInfo {
	return s.fieldInfo[RecIDField]
}

// Qualified returns the table-qualified column key used in result rows.
func (s *Schema) Qualified(fieldName string) string {
	return s.table + "." + fieldName
}
