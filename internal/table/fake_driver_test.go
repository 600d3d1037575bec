package table

import (
	"context"
	"errors"

	"github.com/yashagw/ecdb/internal/driver"
	"github.com/yashagw/ecdb/internal/plan"
	"github.com/yashagw/ecdb/internal/record"
)

var errBackend = errors.New("backend failure")

// memDriver keeps rows in memory. GetData understands joins and equality
// ranges, which is all the cursor needs; filters are ignored.
type memDriver struct {
	tables  map[string][]*record.Record
	nextID  map[string]int
	queries int
	fail    bool
}

var _ driver.Driver = (*memDriver)(nil)

func newMemDriver() *memDriver {
	return &memDriver{tables: map[string][]*record.Record{}, nextID: map[string]int{}}
}

func (m *memDriver) Connect(context.Context, map[string]string) error { return nil }
func (m *memDriver) Disconnect() error                                { return nil }
func (m *memDriver) IsConnected() bool                                { return true }
func (m *memDriver) CurrentDatabase() string                          { return "mem" }
func (m *memDriver) CurrentUser() string                              { return "" }

func (m *memDriver) CreateTableIfNotExist(_ context.Context, schema *record.Schema) error {
	if _, ok := m.tables[schema.Table()]; !ok {
		m.tables[schema.Table()] = nil
	}
	return nil
}

func (m *memDriver) AlterTableFields(context.Context, *record.Schema) error { return nil }

func (m *memDriver) Insert(_ context.Context, r *record.Record) (int, error) {
	if m.fail {
		return 0, errBackend
	}
	table := r.Schema().Table()
	m.nextID[table]++
	c := r.Copy()
	c.SetRecID(m.nextID[table])
	m.tables[table] = append(m.tables[table], c)
	return c.RecID(), nil
}

func (m *memDriver) Modify(_ context.Context, r *record.Record) error {
	if m.fail {
		return errBackend
	}
	rows := m.tables[r.Schema().Table()]
	for i, row := range rows {
		if row.RecID() == r.RecID() {
			rows[i] = r.Copy()
			return nil
		}
	}
	return driver.ErrNotPersisted
}

func (m *memDriver) Delete(_ context.Context, r *record.Record) error {
	if m.fail {
		return errBackend
	}
	table := r.Schema().Table()
	rows := m.tables[table]
	for i, row := range rows {
		if row.RecID() == r.RecID() {
			m.tables[table] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memDriver) GetData(_ context.Context, root plan.Node) ([]driver.Row, error) {
	m.queries++
	if m.fail {
		return nil, errBackend
	}
	var result []driver.Row
	for _, r := range m.tables[root.Schema().Table()] {
		if !matches(root, r) {
			continue
		}
		row := driver.Row{}
		addColumns(row, r)
		if m.join(root, r, row) {
			result = append(result, row)
		}
	}
	return result, nil
}

func (m *memDriver) join(n plan.Node, parent *record.Record, row driver.Row) bool {
	for _, j := range n.Joins() {
		src, _ := parent.Get(j.SourceField)
		var found *record.Record
		for _, c := range m.tables[j.Child.Schema().Table()] {
			target, _ := c.Get(j.Target())
			if target.Equals(src) && matches(j.Child, c) {
				found = c
				break
			}
		}
		if found == nil {
			if j.Kind == plan.Inner {
				return false
			}
			continue
		}
		addColumns(row, found)
		if !m.join(j.Child, found, row) {
			return false
		}
	}
	return true
}

func matches(n plan.Node, r *record.Record) bool {
	for field, rg := range n.Ranges() {
		v, _ := r.Get(field)
		text, _ := record.Format(n.Schema().Type(field), v)
		if text != rg.From {
			return false
		}
	}
	return true
}

func addColumns(row driver.Row, r *record.Record) {
	s := r.Schema()
	for _, f := range s.Fields() {
		v, _ := r.Get(f)
		text, _ := record.Format(s.Type(f), v)
		row[s.Qualified(f)] = text
	}
}
