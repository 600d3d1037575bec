// Package table implements the record cursor: a table holds the records of
// its last query in a buffer, a working copy of the current record and the
// query state (filters, ranges, order and joins) used to fetch them.
package table

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/yashagw/ecdb/internal/driver"
	"github.com/yashagw/ecdb/internal/plan"
	"github.com/yashagw/ecdb/internal/query"
	"github.com/yashagw/ecdb/internal/record"
)

var (
	ErrIndexOutOfRange = errors.New("buffer index out of range")
	ErrJoinNotFound    = errors.New("join not found")
	ErrNoDriver        = errors.New("table has no driver")
	ErrInvalidJoin     = errors.New("invalid join")
	ErrJoinedTable     = errors.New("not allowed on a joined table")
)

type join struct {
	kind   plan.JoinKind
	child  *Table
	source string
	target string
}

// Table is a record cursor over one backend table and, through its joins,
// over the tables joined to it. A Table is not safe for concurrent use.
type Table struct {
	schema *record.Schema
	driver driver.Driver
	log    *slog.Logger

	current *record.Record
	buf     *Buffer

	filters   map[string]string
	ranges    map[string]query.Range
	order     []string
	orderType plan.OrderType
	joins     []join
	parent    *Table

	hooks     *hooks
	enumIndex int
}

var _ plan.Node = (*Table)(nil)

// New creates an empty table for schema reading from and writing through d.
func New(schema *record.Schema, d driver.Driver) *Table {
	return &Table{
		schema:    schema,
		driver:    d,
		log:       slog.Default().With("pkg", "table", "table", schema.Table()),
		current:   record.NewRecord(schema),
		buf:       NewBuffer(),
		filters:   map[string]string{},
		ranges:    map[string]query.Range{},
		hooks:     newHooks(),
		enumIndex: -1,
	}
}

func (t *Table) Schema() *record.Schema {
	return t.schema
}

func (t *Table) Driver() driver.Driver {
	return t.driver
}

// Record returns the working copy of the current record. Changes to it are
// stored in the buffer when the cursor moves and written by Modify.
func (t *Table) Record() *record.Record {
	return t.current
}

func (t *Table) RecID() int {
	return t.current.RecID()
}

func (t *Table) Value(field string) (record.Value, error) {
	return t.current.Get(field)
}

func (t *Table) SetValue(field string, v record.Value) error {
	return t.current.Set(field, v)
}

// Text returns a field of the current record in its textual form.
func (t *Table) Text(field string) (string, error) {
	v, err := t.current.Get(field)
	if err != nil {
		return "", err
	}
	return record.Format(t.schema.Type(field), v)
}

// SetText decodes text with the field type and assigns it.
func (t *Table) SetText(field, text string) error {
	info, err := t.schema.Lookup(field)
	if err != nil {
		return err
	}
	v, err := record.Decode(info.Type(), text)
	if err != nil {
		return err
	}
	return t.current.Set(field, v)
}

func (t *Table) GetInt(field string) (int, error) {
	v, err := t.current.Get(field)
	if err != nil {
		return 0, err
	}
	return v.AsInt(), nil
}

func (t *Table) SetInt(field string, val int) error {
	return t.current.Set(field, record.NewIntValue(val))
}

func (t *Table) GetString(field string) (string, error) {
	v, err := t.current.Get(field)
	if err != nil {
		return "", err
	}
	return v.AsString(), nil
}

func (t *Table) SetString(field string, val string) error {
	return t.current.Set(field, record.NewStringValue(val))
}

// SetFilter sets the filter expression of a field, replacing an earlier one.
// An empty expression removes the filter.
func (t *Table) SetFilter(field, expr string) error {
	if expr == "" {
		if _, err := t.schema.Lookup(field); err != nil {
			return err
		}
		delete(t.filters, field)
		return nil
	}
	if _, err := query.ParseFilter(t.schema, field, expr); err != nil {
		return err
	}
	t.filters[field] = expr
	return nil
}

// SetRange bounds a field. Empty from and to remove the range.
func (t *Table) SetRange(field, from, to string) error {
	r := query.Range{From: from, To: to}
	if r.IsEmpty() {
		if _, err := t.schema.Lookup(field); err != nil {
			return err
		}
		delete(t.ranges, field)
		return nil
	}
	if _, err := query.ParseRange(t.schema, field, r); err != nil {
		return err
	}
	t.ranges[field] = r
	return nil
}

// SetOrder replaces the order fields and the sort direction.
func (t *Table) SetOrder(orderType plan.OrderType, fields ...string) error {
	for _, f := range fields {
		if _, err := t.schema.Lookup(f); err != nil {
			return err
		}
	}
	t.order = append([]string(nil), fields...)
	t.orderType = orderType
	return nil
}

// AddJoin joins child to t on child.target = t.source. An empty target is
// the child's primary key.
func (t *Table) AddJoin(kind plan.JoinKind, child *Table, source, target string) error {
	if child == nil || child == t {
		return fmt.Errorf("%w: %s to itself or nil", ErrInvalidJoin, t.schema.Table())
	}
	if _, err := t.schema.Lookup(source); err != nil {
		return err
	}
	j := join{kind: kind, child: child, source: source, target: target}
	if _, err := child.schema.Lookup(j.targetField()); err != nil {
		return err
	}
	t.joins = append(t.joins, j)
	child.parent = t
	return nil
}

func (j join) targetField() string {
	if j.target == "" {
		return record.RecIDField
	}
	return j.target
}

// Joined returns the table joined to t, directly or further down, whose
// schema is schema.
func (t *Table) Joined(schema *record.Schema) (*Table, error) {
	for _, j := range t.joins {
		if j.child.schema == schema {
			return j.child, nil
		}
		if c, err := j.child.Joined(schema); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrJoinNotFound, schema.Table(), t.schema.Table())
}

// ResetQuery drops filters, ranges and order. Joins are kept.
func (t *Table) ResetQuery() {
	clear(t.filters)
	clear(t.ranges)
	t.order = nil
	t.orderType = plan.Ascending
}

// Clear resets the working copy to zero values.
func (t *Table) Clear() {
	t.current.Clear()
}

// Init empties the buffer and clears the working copy, of t and its joined
// tables.
func (t *Table) Init() {
	t.buf.Clear()
	t.current.Clear()
	t.enumIndex = -1
	for _, j := range t.joins {
		j.child.Init()
	}
}

func (t *Table) String() string {
	return t.current.String()
}

// Equals compares the current records of two tables.
func (t *Table) Equals(other *Table) bool {
	if other == nil {
		return false
	}
	return t.current.Equals(other.current)
}

// Filters, Ranges, OrderFields, OrderType and Joins expose the query state
// to the statement composer.

func (t *Table) Filters() map[string]string {
	return maps.Clone(t.filters)
}

func (t *Table) Ranges() map[string]query.Range {
	return maps.Clone(t.ranges)
}

func (t *Table) OrderFields() []string {
	return append([]string(nil), t.order...)
}

func (t *Table) OrderType() plan.OrderType {
	return t.orderType
}

func (t *Table) Joins() []plan.Join {
	joins := make([]plan.Join, len(t.joins))
	for i, j := range t.joins {
		joins[i] = plan.Join{Kind: j.kind, Child: j.child, SourceField: j.source, TargetField: j.target}
	}
	return joins
}
