package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpression(t *testing.T) {
	// Field expression
	fieldExpr := NewFieldNameExpression("Person", "Age")
	assert.True(t, fieldExpr.IsFieldName())
	assert.Equal(t, "`Person`.`Age`", fieldExpr.String())

	// Unqualified field
	assert.Equal(t, "`Age`", NewFieldNameExpression("", "Age").String())

	// Param expression
	paramExpr := NewParamExpression("R_Person_Age")
	assert.False(t, paramExpr.IsFieldName())
	assert.Equal(t, "@R_Person_Age", paramExpr.String())

	// Backticks in identifiers are doubled
	assert.Equal(t, "`we``ird`", QuoteIdent("we`ird"))
}
