package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yashagw/ecdb/internal/query"
	"github.com/yashagw/ecdb/internal/record"
)

var (
	ErrDuplicateTable = errors.New("table appears more than once in join tree")
	ErrDuplicateParam = errors.New("parameter name used twice")
)

// Statement is a composed SELECT with its named parameters in binding order.
type Statement struct {
	SQL    string
	Params query.Params
}

// Composer turns the query state of a join tree into a parameterized SELECT.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose builds the statement for root and, recursively, all joined nodes.
// Columns are aliased "Table.Field". Filters and ranges are emitted in schema
// field order, so the same state always yields the same statement.
func (c *Composer) Compose(root Node) (Statement, error) {
	if err := c.checkTree(root, map[string]bool{}); err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(c.columns(root, nil), ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(query.QuoteIdent(root.Schema().Table()))
	if err := c.joins(&sb, root); err != nil {
		return Statement{}, err
	}

	pred, err := c.where(root)
	if err != nil {
		return Statement{}, err
	}
	if name, dup := pred.Params().Duplicate(); dup {
		return Statement{}, fmt.Errorf("%w: @%s", ErrDuplicateParam, name)
	}
	if !pred.IsEmpty() {
		sb.WriteString(" WHERE ")
		sb.WriteString(pred.String())
	}

	order, err := c.order(root, nil)
	if err != nil {
		return Statement{}, err
	}
	if len(order) > 0 {
		dir := " " + root.OrderType().String()
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(order, dir+", "))
		sb.WriteString(dir)
	}

	return Statement{SQL: sb.String(), Params: pred.Params()}, nil
}

// checkTree rejects trees in which a table occurs twice. Their columns and
// parameters could not be told apart.
func (c *Composer) checkTree(n Node, seen map[string]bool) error {
	table := n.Schema().Table()
	if seen[table] {
		return fmt.Errorf("%w: %s", ErrDuplicateTable, table)
	}
	seen[table] = true
	for _, j := range n.Joins() {
		if err := c.checkTree(j.Child, seen); err != nil {
			return err
		}
	}
	return nil
}

func (c *Composer) columns(n Node, cols []string) []string {
	schema := n.Schema()
	for _, f := range schema.Fields() {
		col := query.NewFieldNameExpression(schema.Table(), f).String()
		cols = append(cols, col+" AS "+query.QuoteIdent(schema.Qualified(f)))
	}
	for _, j := range n.Joins() {
		cols = c.columns(j.Child, cols)
	}
	return cols
}

func (c *Composer) joins(sb *strings.Builder, parent Node) error {
	for _, j := range parent.Joins() {
		child := j.Child.Schema()
		if _, err := parent.Schema().Lookup(j.SourceField); err != nil {
			return fmt.Errorf("join source: %w", err)
		}
		if _, err := child.Lookup(j.Target()); err != nil {
			return fmt.Errorf("join target: %w", err)
		}
		on := query.NewTerm(
			*query.NewFieldNameExpression(child.Table(), j.Target()),
			query.OpEquals,
			*query.NewFieldNameExpression(parent.Schema().Table(), j.SourceField),
		)
		fmt.Fprintf(sb, " %s %s ON %s", j.Kind, query.QuoteIdent(child.Table()), on)
		if err := c.joins(sb, j.Child); err != nil {
			return err
		}
	}
	return nil
}

// where collects the node's ranges then its filters, then those of every
// joined node depth first.
func (c *Composer) where(n Node) (*query.Predicate, error) {
	schema := n.Schema()
	if err := checkFields(schema, n.Ranges()); err != nil {
		return nil, err
	}
	if err := checkFields(schema, n.Filters()); err != nil {
		return nil, err
	}

	pred := query.NewPredicate()
	ranges := n.Ranges()
	for _, f := range schema.Fields() {
		r, ok := ranges[f]
		if !ok || r.IsEmpty() {
			continue
		}
		cond, err := query.ParseRange(schema, f, r)
		if err != nil {
			return nil, err
		}
		pred.Add(cond)
	}

	filters := n.Filters()
	for _, f := range schema.Fields() {
		expr, ok := filters[f]
		if !ok {
			continue
		}
		cond, err := query.ParseFilter(schema, f, expr)
		if err != nil {
			return nil, err
		}
		pred.Add(cond)
	}

	for _, j := range n.Joins() {
		child, err := c.where(j.Child)
		if err != nil {
			return nil, err
		}
		pred.ConjunctWith(*child)
	}
	return pred, nil
}

func (c *Composer) order(n Node, fields []string) ([]string, error) {
	schema := n.Schema()
	for _, f := range n.OrderFields() {
		if _, err := schema.Lookup(f); err != nil {
			return nil, fmt.Errorf("order: %w", err)
		}
		fields = append(fields, query.NewFieldNameExpression(schema.Table(), f).String())
	}
	var err error
	for _, j := range n.Joins() {
		fields, err = c.order(j.Child, fields)
		if err != nil {
			return nil, err
		}
	}
	return fields, nil
}

func checkFields[V any](schema *record.Schema, m map[string]V) error {
	for f := range m {
		if _, err := schema.Lookup(f); err != nil {
			return err
		}
	}
	return nil
}
