package query

// Expression represents either a table-qualified field or a bound parameter
// in a WHERE or ON clause.
type Expression struct {
	table   string
	fldName *string
	param   *string
}

// NewFieldNameExpression creates an expression for table.field.
func NewFieldNameExpression(table, fldName string) *Expression {
	return &Expression{
		table:   table,
		fldName: &fldName,
	}
}

// NewParamExpression creates an expression referencing the named parameter.
func NewParamExpression(name string) *Expression {
	return &Expression{
		param: &name,
	}
}

// IsFieldName checks if the expression is a field name.
func (e *Expression) IsFieldName() bool {
	return e.fldName != nil
}

// String renders the expression as SQL.
func (e *Expression) String() string {
	if e.IsFieldName() {
		if e.table == "" {
			return QuoteIdent(*e.fldName)
		}
		return QuoteIdent(e.table) + "." + QuoteIdent(*e.fldName)
	}
	return "@" + *e.param
}
