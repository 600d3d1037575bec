package commanddata

type FilterData struct {
	field FieldRef
	expr  string
}

func NewFilterData(field FieldRef, expr string) *FilterData {
	return &FilterData{field: field, expr: expr}
}

func (f *FilterData) Field() FieldRef {
	return f.field
}

// Expr returns the filter expression, empty to remove the filter.
func (f *FilterData) Expr() string {
	return f.expr
}

type RangeData struct {
	field    FieldRef
	from, to string
}

func NewRangeData(field FieldRef, from, to string) *RangeData {
	return &RangeData{field: field, from: from, to: to}
}

func (r *RangeData) Field() FieldRef {
	return r.field
}

func (r *RangeData) From() string {
	return r.from
}

func (r *RangeData) To() string {
	return r.to
}
