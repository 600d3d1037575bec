package commanddata

// SetData assigns the textual form of a value to a field of the current
// record.
type SetData struct {
	field FieldRef
	value string
}

func NewSetData(field FieldRef, value string) *SetData {
	return &SetData{field: field, value: value}
}

func (s *SetData) Field() FieldRef {
	return s.field
}

func (s *SetData) Value() string {
	return s.value
}
