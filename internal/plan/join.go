package plan

import "github.com/yashagw/ecdb/internal/record"

type JoinKind int

const (
	Inner JoinKind = iota
	LeftOuter
	RightOuter
)

func (k JoinKind) String() string {
	switch k {
	case LeftOuter:
		return "LEFT OUTER JOIN"
	case RightOuter:
		return "RIGHT OUTER JOIN"
	default:
		return "INNER JOIN"
	}
}

// Join is an edge from a parent node to a child node, matching
// child.TargetField to parent.SourceField.
type Join struct {
	Kind        JoinKind
	Child       Node
	SourceField string
	// TargetField defaults to the child's primary key when empty.
	TargetField string
}

// Target returns the child field the join matches on.
func (j Join) Target() string {
	if j.TargetField == "" {
		return record.RecIDField
	}
	return j.TargetField
}
