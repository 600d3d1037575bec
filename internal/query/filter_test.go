package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashagw/ecdb/internal/record"
)

func personSchema() *record.Schema {
	s := record.NewSchema("Person")
	s.MustAddField("Name", record.Varchar, 50, record.ConstraintNone)
	s.MustAddField("Age", record.Int, 0, record.ConstraintNone)
	s.MustAddField("Born", record.Date, 0, record.ConstraintNone)
	return s
}

func TestParseFilter(t *testing.T) {
	schema := personSchema()

	cases := []struct {
		expr   string
		clause string
		params Params
	}{
		{
			expr:   "18",
			clause: "`Person`.`Age`=@F_Person_Age_2",
			params: Params{{"F_Person_Age_2", int64(18)}},
		},
		{
			expr:   "18..30",
			clause: "`Person`.`Age` BETWEEN @F_Person_Age_5 AND @F_Person_Age_6",
			params: Params{{"F_Person_Age_5", int64(18)}, {"F_Person_Age_6", int64(30)}},
		},
		{
			expr:   "..30",
			clause: "`Person`.`Age`<=@F_Person_Age_4",
			params: Params{{"F_Person_Age_4", int64(30)}},
		},
		{
			expr:   "18..",
			clause: "`Person`.`Age`>=@F_Person_Age_4",
			params: Params{{"F_Person_Age_4", int64(18)}},
		},
		{
			expr:   "<18",
			clause: "`Person`.`Age`<@F_Person_Age_3",
			params: Params{{"F_Person_Age_3", int64(18)}},
		},
		{
			expr:   ">=21",
			clause: "`Person`.`Age`>=@F_Person_Age_4",
			params: Params{{"F_Person_Age_4", int64(21)}},
		},
		{
			expr:   "1|2",
			clause: "`Person`.`Age`=@F_Person_Age_1 OR `Person`.`Age`=@F_Person_Age_3",
			params: Params{{"F_Person_Age_1", int64(1)}, {"F_Person_Age_3", int64(2)}},
		},
		{
			expr:   "1&2",
			clause: "`Person`.`Age`=@F_Person_Age_1 AND `Person`.`Age`=@F_Person_Age_3",
			params: Params{{"F_Person_Age_1", int64(1)}, {"F_Person_Age_3", int64(2)}},
		},
		{
			expr:   "<5|>10",
			clause: "`Person`.`Age`<@F_Person_Age_2 OR `Person`.`Age`>@F_Person_Age_6",
			params: Params{{"F_Person_Age_2", int64(5)}, {"F_Person_Age_6", int64(10)}},
		},
		{
			expr:   "1|4|9",
			clause: "`Person`.`Age`=@F_Person_Age_1 OR `Person`.`Age`=@F_Person_Age_3 OR `Person`.`Age`=@F_Person_Age_5",
			params: Params{{"F_Person_Age_1", int64(1)}, {"F_Person_Age_3", int64(4)}, {"F_Person_Age_5", int64(9)}},
		},
	}

	for _, c := range cases {
		cond, err := ParseFilter(schema, "Age", c.expr)
		require.NoError(t, err, c.expr)
		assert.Equal(t, c.clause, cond.String(), c.expr)
		assert.Equal(t, c.params, cond.Params(), c.expr)
	}
}

func TestParseFilterTypedValues(t *testing.T) {
	schema := personSchema()

	cond, err := ParseFilter(schema, "Name", "Simpson|Flanders")
	require.NoError(t, err)
	assert.Equal(t, "`Person`.`Name`=@F_Person_Name_7 OR `Person`.`Name`=@F_Person_Name_16", cond.String())
	assert.Equal(t, Params{{"F_Person_Name_7", "Simpson"}, {"F_Person_Name_16", "Flanders"}}, cond.Params())

	// Values are never part of the clause text
	cond, err = ParseFilter(schema, "Name", "x' OR '1'='1")
	require.NoError(t, err)
	assert.NotContains(t, cond.String(), "'")

	// Dates inside a range are bound padded
	cond, err = ParseFilter(schema, "Born", "2000-1-1..2001-12-31")
	require.NoError(t, err)
	assert.Equal(t, "`Person`.`Born` BETWEEN @F_Person_Born_19 AND @F_Person_Born_20", cond.String())
	assert.Equal(t, Params{{"F_Person_Born_19", "2000-01-01"}, {"F_Person_Born_20", "2001-12-31"}}, cond.Params())
}

func TestParseFilterErrors(t *testing.T) {
	schema := personSchema()

	// Unknown field
	_, err := ParseFilter(schema, "Missing", "1")
	assert.ErrorIs(t, err, record.ErrFieldNotFound)

	// Value does not decode with the field type
	_, err = ParseFilter(schema, "Age", "abc")
	assert.ErrorIs(t, err, record.ErrFormat)

	// A range followed by a connective
	_, err = ParseFilter(schema, "Age", "1..3|5")
	assert.ErrorIs(t, err, ErrFilterSyntax)

	_, err = ParseFilter(schema, "Age", "1..3&5")
	assert.ErrorIs(t, err, ErrFilterSyntax)

	_, err = ParseFilter(schema, "Age", "1..3<5")
	assert.ErrorIs(t, err, ErrFilterSyntax)
}

func TestParseFilterDeterministic(t *testing.T) {
	schema := personSchema()
	a, err := ParseFilter(schema, "Age", "<5|18..")
	require.NoError(t, err)
	b, err := ParseFilter(schema, "Age", "<5|18..")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
