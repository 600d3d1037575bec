package plan

import (
	"github.com/yashagw/ecdb/internal/query"
	"github.com/yashagw/ecdb/internal/record"
)

// Node is one table taking part in a query: the root or a joined child.
// Its query state is read by the Composer when building a statement.
type Node interface {
	// Schema returns the schema of the records the node holds.
	Schema() *record.Schema
	// Filters returns the filter expression per field name.
	Filters() map[string]string
	// Ranges returns the range per field name.
	Ranges() map[string]query.Range
	// OrderFields returns the fields to sort by, in precedence order.
	OrderFields() []string
	// OrderType returns the sort direction shared by all order fields.
	OrderType() OrderType
	// Joins returns the join edges to child nodes in emission order.
	Joins() []Join
}

type OrderType int

const (
	Ascending OrderType = iota
	Descending
)

func (o OrderType) String() string {
	if o == Descending {
		return "DESC"
	}
	return "ASC"
}

// Lookup returns a node selecting the records of schema whose field equals
// value. It has no joins and no order.
func Lookup(schema *record.Schema, field, value string) Node {
	return &lookupNode{
		schema: schema,
		ranges: map[string]query.Range{field: {From: value}},
	}
}

type lookupNode struct {
	schema *record.Schema
	ranges map[string]query.Range
}

func (n *lookupNode) Schema() *record.Schema         { return n.schema }
func (n *lookupNode) Filters() map[string]string     { return nil }
func (n *lookupNode) Ranges() map[string]query.Range { return n.ranges }
func (n *lookupNode) OrderFields() []string          { return nil }
func (n *lookupNode) OrderType() OrderType           { return Ascending }
func (n *lookupNode) Joins() []Join                  { return nil }
