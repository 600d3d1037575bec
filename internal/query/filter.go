package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yashagw/ecdb/internal/record"
)

var ErrFilterSyntax = errors.New("filter syntax error")

const filterOperators = "<>="

// ParseFilter compiles a filter expression for one field of schema into a
// parameterized condition.
//
// The expression is scanned left to right in a single pass:
//
//	18        `T`.`Age`=@F_T_Age_2
//	<18       `T`.`Age`<@F_T_Age_3
//	18..30    `T`.`Age` BETWEEN @F_T_Age_5 AND @F_T_Age_6
//	18..      `T`.`Age`>=@F_T_Age_4
//	..30      `T`.`Age`<=@F_T_Age_4
//	1|4       `T`.`Age`=@F_T_Age_1 OR `T`.`Age`=@F_T_Age_3
//	>1&<9     `T`.`Age`>@F_T_Age_2 AND `T`.`Age`<@F_T_Age_5
//
// Parameters are named after the table, the field and the scan position, and
// their values are decoded with the field type. Ranges followed by a
// connective or an operator are rejected with ErrFilterSyntax.
func ParseFilter(schema *record.Schema, field, expr string) (Condition, error) {
	info, err := schema.Lookup(field)
	if err != nil {
		return Condition{}, err
	}
	s := &filterScanner{
		table:  schema.Table(),
		field:  field,
		typ:    info.Type(),
		column: NewFieldNameExpression(schema.Table(), field).String(),
	}
	if err := s.scan(expr); err != nil {
		return Condition{}, fmt.Errorf("%w: %s %q", err, schema.Qualified(field), expr)
	}
	return Condition{clause: s.clause.String(), params: s.params}, nil
}

type filterScanner struct {
	table  string
	field  string
	typ    record.FieldType
	column string
	clause strings.Builder
	params Params
}

func (s *filterScanner) scan(expr string) error {
	var val [2]string
	valID := 0
	foundPoint := false

	// Index of the value slot the scanner treats as the other side of a range
	// when a range is closed by a later token. Anything past the second slot
	// has no meaning.
	other := func() (int, error) {
		if valID+1 >= len(val) {
			return 0, ErrFilterSyntax
		}
		return valID + 1, nil
	}

	closeRange := func(pos int) error {
		idx, err := other()
		if err != nil {
			return err
		}
		if err := s.fromTo(pos, val[valID%2], val[idx], expr[pos-1]); err != nil {
			return err
		}
		foundPoint = false
		val[idx] = ""
		return nil
	}

	s.clause.WriteString(s.column)
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch c {
		case '<', '>', '=':
			if !foundPoint {
				s.clause.WriteByte(c)
			} else if err := closeRange(i); err != nil {
				return err
			}
		case '|', '&':
			if !foundPoint {
				if err := s.compare(i, val[valID%2]); err != nil {
					return err
				}
				if c == '|' {
					s.clause.WriteString(" OR ")
				} else {
					s.clause.WriteString(" AND ")
				}
				s.clause.WriteString(s.column)
			} else if err := closeRange(i); err != nil {
				return err
			}
			val[valID%2] = ""
		case '.':
			if foundPoint {
				valID++
			} else {
				foundPoint = true
			}
		default:
			val[valID%2] += string(c)
		}
	}

	if foundPoint {
		return s.fromTo(len(expr), val[valID%2], val[(valID+1)%2], expr[len(expr)-1])
	}
	return s.compare(len(expr), val[valID%2])
}

// compare closes a plain comparison, defaulting the operator to "=".
func (s *filterScanner) compare(pos int, value string) error {
	if !s.endsWithOperator() {
		s.clause.WriteByte('=')
	}
	name, err := s.bind(pos, value)
	if err != nil {
		return err
	}
	s.clause.WriteString("@" + name)
	return nil
}

// fromTo closes a range. With one side missing it becomes ">=" (the to side
// is missing, "18..") or "<=" (the from side is missing, "..30").
func (s *filterScanner) fromTo(pos int, curr, last string, lastChar byte) error {
	if last == "" || curr == "" {
		op, value := OpLessEq, curr
		if lastChar == '.' {
			op, value = OpGreaterEq, last
		}
		name, err := s.bind(pos, value)
		if err != nil {
			return err
		}
		s.clause.WriteString(op + "@" + name)
		return nil
	}

	low, err := s.bind(pos-1, last)
	if err != nil {
		return err
	}
	high, err := s.bind(pos, curr)
	if err != nil {
		return err
	}
	s.clause.WriteString(" " + OpBetween + " @" + low + " AND @" + high)
	return nil
}

func (s *filterScanner) bind(pos int, text string) (string, error) {
	v, err := bindText(s.typ, text)
	if err != nil {
		return "", err
	}
	name := paramName("F", s.table, s.field, strconv.Itoa(pos))
	s.params = append(s.params, Param{Name: name, Value: v})
	return name, nil
}

func (s *filterScanner) endsWithOperator() bool {
	str := s.clause.String()
	return str != "" && strings.IndexByte(filterOperators, str[len(str)-1]) >= 0
}

// bindText decodes a textual value with the field type and converts it to a
// statement argument.
func bindText(t record.FieldType, text string) (any, error) {
	v, err := record.Decode(t, text)
	if err != nil {
		return nil, err
	}
	return record.Bind(t, v)
}
