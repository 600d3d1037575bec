package record

import (
	"fmt"
	"strings"
)

// Record is one row's worth of typed field values for a schema.
type Record struct {
	schema *Schema
	values map[string]Value
}

// NewRecord creates a record with every field set to its zero value.
func NewRecord(schema *Schema) *Record {
	r := &Record{
		schema: schema,
		values: make(map[string]Value, len(schema.fields)),
	}
	r.Clear()
	return r
}

// FromRow decodes the columns belonging to the schema out of a result row.
// Keys are looked up table-qualified first ("Person.Name"), then bare. Missing
// columns keep their zero value.
func FromRow(schema *Schema, row map[string]string) (*Record, error) {
	r := NewRecord(schema)
	for _, name := range schema.fields {
		text, ok := row[schema.Qualified(name)]
		if !ok {
			text, ok = row[name]
		}
		if !ok {
			continue
		}
		v, err := Decode(schema.Type(name), text)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", schema.Qualified(name), err)
		}
		r.values[name] = v
	}
	return r, nil
}

func (r *Record) Schema() *Schema {
	return r.schema
}

// Clear resets every field to the zero value of its type.
func (r *Record) Clear() {
	for _, name := range r.schema.fields {
		r.values[name] = Zero(r.schema.Type(name))
	}
}

// Get returns the value of a field.
func (r *Record) Get(name string) (Value, error) {
	v, ok := r.values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, r.schema.table, name)
	}
	return v, nil
}

// Set assigns a field. The value type must match the declared field type.
func (r *Record) Set(name string, v Value) error {
	info, err := r.schema.Lookup(name)
	if err != nil {
		return err
	}
	if !v.IsValid() {
		return fmt.Errorf("%w: %s.%s: value built without a constructor", ErrTypeMismatch, r.schema.table, name)
	}
	if v.typ != info.fieldType {
		return fmt.Errorf("%w: %s.%s is %v, got %v", ErrTypeMismatch, r.schema.table, name, info.fieldType, v.typ)
	}
	r.values[name] = v
	return nil
}

// RecID returns the primary key, 0 for a record never written to the backend.
func (r *Record) RecID() int {
	return r.values[RecIDField].AsInt()
}

// SetRecID assigns the primary key handed out by the backend.
func (r *Record) SetRecID(id int) {
	r.values[RecIDField] = NewIntValue(id)
}

// Copy returns a deep copy of the record.
func (r *Record) Copy() *Record {
	c := &Record{
		schema: r.schema,
		values: make(map[string]Value, len(r.values)),
	}
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// CopyFrom overwrites the fields of r with the fields of other that exist in
// both schemas.
func (r *Record) CopyFrom(other *Record) {
	for _, name := range other.schema.fields {
		info, ok := r.schema.fieldInfo[name]
		if !ok || info.fieldType != other.schema.Type(name) {
			continue
		}
		r.values[name] = other.values[name]
	}
}

// Equals compares by primary key when both records are persisted and field by
// field otherwise.
func (r *Record) Equals(other *Record) bool {
	if other == nil || r.schema != other.schema {
		return false
	}
	if r.RecID() != 0 && other.RecID() != 0 {
		return r.RecID() == other.RecID()
	}
	for _, name := range r.schema.fields {
		if !r.values[name].Equals(other.values[name]) {
			return false
		}
	}
	return true
}

// String renders one "Field: value" line per field.
func (r *Record) String() string {
	lines := make([]string, 0, len(r.schema.fields))
	for _, name := range r.schema.fields {
		lines = append(lines, fmt.Sprintf("%s: %s", name, r.values[name]))
	}
	return strings.Join(lines, "\n")
}
