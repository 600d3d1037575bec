package query

import (
	"fmt"

	"github.com/yashagw/ecdb/internal/record"
)

// Range bounds a field. An empty side is unbounded.
type Range struct {
	From string
	To   string
}

// IsEmpty reports whether neither side is set.
func (r Range) IsEmpty() bool {
	return r.From == "" && r.To == ""
}

// ParseRange compiles a range into a condition: equality when only From is
// set, BETWEEN when both are set and "<=" when only To is set.
func ParseRange(schema *record.Schema, field string, r Range) (Condition, error) {
	info, err := schema.Lookup(field)
	if err != nil {
		return Condition{}, err
	}
	if r.IsEmpty() {
		return Condition{}, fmt.Errorf("%w: empty range on %s", ErrFilterSyntax, schema.Qualified(field))
	}

	table := schema.Table()
	column := *NewFieldNameExpression(table, field)
	param := func(prefix, text string) (Expression, Param, error) {
		v, err := bindText(info.Type(), text)
		if err != nil {
			return Expression{}, Param{}, fmt.Errorf("range on %s: %w", schema.Qualified(field), err)
		}
		name := paramName(prefix, table, field)
		return *NewParamExpression(name), Param{Name: name, Value: v}, nil
	}

	switch {
	case r.To == "":
		e, p, err := param("R", r.From)
		if err != nil {
			return Condition{}, err
		}
		return NewCondition(NewTerm(column, OpEquals, e), Params{p}), nil
	case r.From == "":
		e, p, err := param("RT", r.To)
		if err != nil {
			return Condition{}, err
		}
		return NewCondition(NewTerm(column, OpLessEq, e), Params{p}), nil
	default:
		low, lp, err := param("RF", r.From)
		if err != nil {
			return Condition{}, err
		}
		high, hp, err := param("RT", r.To)
		if err != nil {
			return Condition{}, err
		}
		return NewCondition(NewBetweenTerm(column, low, high), Params{lp, hp}), nil
	}
}
