package binding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/yashagw/ecdb/internal/plan"
	"github.com/yashagw/ecdb/internal/record"
	"github.com/yashagw/ecdb/internal/table"
)

var ErrRowOutOfRange = errors.New("grid row out of range")

// FieldFilter selects the grid columns named in NewGrid's field list.
type FieldFilter int

const (
	AllFields FieldFilter = iota
	HideFields
	ShowFields
)

type column struct {
	schema *record.Schema
	field  string
	header string
}

// Grid mirrors the buffered records of a table, and of the tables joined to
// it, as rows of text. Row i shows buffer slot bufIdx[i].
type Grid struct {
	table  *table.Table
	filter FieldFilter
	fields []string
	log    *slog.Logger

	columns []column
	rows    [][]string
	recIDs  []int
	bufIdx  []int

	unsubscribe []func()
}

// NewGrid binds a grid to t. Root table columns are named by field, joined
// table columns by Table.Field; the field list of a HideFields or ShowFields
// filter uses the same names.
func NewGrid(t *table.Table, filter FieldFilter, fields ...string) *Grid {
	g := &Grid{
		table:  t,
		filter: filter,
		fields: fields,
		log:    slog.Default().With("pkg", "binding", "table", t.Schema().Table()),
	}
	g.columns = g.buildColumns()

	g.unsubscribe = append(g.unsubscribe, t.Subscribe(table.BeforeFindSet, func(*table.Table) { g.clearRows() }))
	for _, h := range []table.Hook{table.AfterFindSet, table.AfterInsert, table.AfterModify, table.AfterDelete} {
		g.unsubscribe = append(g.unsubscribe, t.Subscribe(h, func(*table.Table) { g.Refresh() }))
	}
	g.Refresh()
	return g
}

func (g *Grid) buildColumns() []column {
	var cols []column
	add := func(schema *record.Schema, joined bool) {
		for _, f := range schema.Fields() {
			header := f
			if joined {
				header = schema.Qualified(f)
			}
			if g.visible(header) {
				cols = append(cols, column{schema: schema, field: f, header: header})
			}
		}
	}
	add(g.table.Schema(), false)

	var walk func(n plan.Node)
	walk = func(n plan.Node) {
		for _, j := range n.Joins() {
			add(j.Child.Schema(), true)
			walk(j.Child)
		}
	}
	walk(g.table)
	return cols
}

func (g *Grid) visible(header string) bool {
	switch g.filter {
	case HideFields:
		return !slices.Contains(g.fields, header)
	case ShowFields:
		return slices.Contains(g.fields, header)
	default:
		return true
	}
}

// Refresh rebuilds the rows from the table's buffer.
func (g *Grid) Refresh() {
	g.clearRows()
	for i, snap := range g.table.All() {
		row := make([]string, len(g.columns))
		for c, col := range g.columns {
			text, err := cellText(snap, col)
			if err != nil {
				g.log.Warn("reading grid cell", "row", i, "column", col.header, "err", err)
				continue
			}
			row[c] = text
		}
		g.rows = append(g.rows, row)
		g.recIDs = append(g.recIDs, snap.RecID())
		g.bufIdx = append(g.bufIdx, i)
	}
}

func cellText(snap *table.Table, col column) (string, error) {
	t := snap
	if col.schema != snap.Schema() {
		var err error
		if t, err = snap.Joined(col.schema); err != nil {
			return "", err
		}
	}
	return t.Text(col.field)
}

func (g *Grid) clearRows() {
	g.rows = nil
	g.recIDs = nil
	g.bufIdx = nil
}

func (g *Grid) Headers() []string {
	headers := make([]string, len(g.columns))
	for i, c := range g.columns {
		headers[i] = c.header
	}
	return headers
}

// Rows returns a copy of the grid's cells.
func (g *Grid) Rows() [][]string {
	rows := make([][]string, len(g.rows))
	for i, r := range g.rows {
		rows[i] = slices.Clone(r)
	}
	return rows
}

func (g *Grid) Len() int {
	return len(g.rows)
}

// BufferIndex returns the buffer slot shown in row.
func (g *Grid) BufferIndex(row int) (int, error) {
	if row < 0 || row >= len(g.bufIdx) {
		return 0, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, row, len(g.bufIdx))
	}
	return g.bufIdx[row], nil
}

// Select positions the table on the record shown in row.
func (g *Grid) Select(row int) error {
	idx, err := g.BufferIndex(row)
	if err != nil {
		return err
	}
	return g.table.SetCurrentBufferIndex(idx)
}

// SetCell selects row and assigns text to the field shown in column col.
// The change is written by the table's Modify.
func (g *Grid) SetCell(row, col int, text string) error {
	if col < 0 || col >= len(g.columns) {
		return fmt.Errorf("%w: column %d of %d", ErrRowOutOfRange, col, len(g.columns))
	}
	if err := g.Select(row); err != nil {
		return err
	}
	c := g.columns[col]
	t := g.table
	if c.schema != t.Schema() {
		var err error
		if t, err = g.table.Joined(c.schema); err != nil {
			return err
		}
	}
	if err := t.SetText(c.field, text); err != nil {
		return err
	}
	g.rows[row][col] = text
	return nil
}

// SelectedRecIDs returns a RecId filter expression matching the records
// shown in rows, such as "1|4|9". No rows give the empty expression.
func (g *Grid) SelectedRecIDs(rows ...int) (string, error) {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if r < 0 || r >= len(g.recIDs) {
			return "", fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, r, len(g.recIDs))
		}
		ids = append(ids, strconv.Itoa(g.recIDs[r]))
	}
	return strings.Join(ids, "|"), nil
}

// ApplySelection narrows the table to the records shown in rows and reloads
// it. Without rows the table is emptied.
func (g *Grid) ApplySelection(ctx context.Context, rows ...int) error {
	filter, err := g.SelectedRecIDs(rows...)
	if err != nil {
		return err
	}
	if filter == "" {
		g.table.Init()
		g.clearRows()
		return nil
	}
	if err := g.table.SetFilter(record.RecIDField, filter); err != nil {
		return err
	}
	return g.table.FindSet(ctx)
}

// Close detaches the grid from the table.
func (g *Grid) Close() {
	for _, unsubscribe := range g.unsubscribe {
		unsubscribe()
	}
	g.unsubscribe = nil
}
