package query

import (
	"fmt"
	"strings"
)

const (
	OpEquals    = "="
	OpLessEq    = "<="
	OpGreaterEq = ">="
	OpBetween   = "BETWEEN"
)

// Term represents a comparison between a field and one or two other
// expressions (e.g., field = @p, field BETWEEN @a AND @b, field = field).
type Term struct {
	left  Expression
	op    string
	right []Expression
}

// NewTerm creates a new binary Term.
func NewTerm(left Expression, op string, right Expression) *Term {
	return &Term{
		left:  left,
		op:    op,
		right: []Expression{right},
	}
}

// NewBetweenTerm creates a Term for left BETWEEN low AND high.
func NewBetweenTerm(left Expression, low Expression, high Expression) *Term {
	return &Term{
		left:  left,
		op:    OpBetween,
		right: []Expression{low, high},
	}
}

// String returns the term as SQL.
func (t *Term) String() string {
	if t.op == OpBetween {
		return fmt.Sprintf("%s BETWEEN %s AND %s", t.left.String(), t.right[0].String(), t.right[1].String())
	}
	parts := make([]string, len(t.right))
	for i := range t.right {
		parts[i] = t.right[i].String()
	}
	return fmt.Sprintf("%s%s%s", t.left.String(), t.op, strings.Join(parts, ""))
}
