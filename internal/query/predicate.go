package query

import "strings"

// Condition is one rendered, parameterized boolean clause.
type Condition struct {
	clause string
	params Params
}

// NewCondition creates a condition from a term and the params it references.
func NewCondition(t *Term, params Params) Condition {
	return Condition{
		clause: t.String(),
		params: params,
	}
}

func (c Condition) String() string {
	return c.clause
}

func (c Condition) Params() Params {
	return c.params
}

// Predicate represents a conjunction of conditions (ANDed together).
type Predicate struct {
	conditions []Condition
}

// NewPredicate creates an empty Predicate.
func NewPredicate() *Predicate {
	return &Predicate{}
}

// Add appends a condition to the conjunction.
func (p *Predicate) Add(c Condition) {
	p.conditions = append(p.conditions, c)
}

// ConjunctWith adds all conditions from another predicate to this one (AND operation).
func (p *Predicate) ConjunctWith(other Predicate) {
	p.conditions = append(p.conditions, other.conditions...)
}

// Params returns the parameters of all conditions in order.
func (p *Predicate) Params() Params {
	var params Params
	for _, c := range p.conditions {
		params = append(params, c.params...)
	}
	return params
}

// String returns the conditions as "(a) AND (b)".
func (p *Predicate) String() string {
	if len(p.conditions) == 0 {
		return ""
	}
	parts := make([]string, len(p.conditions))
	for i, c := range p.conditions {
		parts[i] = "(" + c.clause + ")"
	}
	return strings.Join(parts, " AND ")
}

// IsEmpty returns true if the predicate has no conditions
func (p *Predicate) IsEmpty() bool {
	return len(p.conditions) == 0
}
