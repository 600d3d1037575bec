// Package commanddata holds the parsed form of the ecdb command language.
package commanddata

// FieldRef names a field of the root table, or of a joined table when Table
// is set.
type FieldRef struct {
	Table string
	Field string
}

func (f FieldRef) String() string {
	if f.Table == "" {
		return f.Field
	}
	return f.Table + "." + f.Field
}
