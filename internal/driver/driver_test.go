package driver

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashagw/ecdb/internal/plan"
	"github.com/yashagw/ecdb/internal/query"
	"github.com/yashagw/ecdb/internal/record"
)

type testNode struct {
	schema  *record.Schema
	filters map[string]string
	joins   []plan.Join
}

func (n *testNode) Schema() *record.Schema         { return n.schema }
func (n *testNode) Filters() map[string]string     { return n.filters }
func (n *testNode) Ranges() map[string]query.Range { return nil }
func (n *testNode) OrderFields() []string          { return []string{record.RecIDField} }
func (n *testNode) OrderType() plan.OrderType      { return plan.Ascending }
func (n *testNode) Joins() []plan.Join             { return n.joins }

func openSQLite(t *testing.T) *SQLDriver {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := Open(context.Background(), "driver=sqlite;dbpath="+path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Disconnect() })
	return d
}

func addressSchema() *record.Schema {
	s := record.NewSchema("Address")
	s.MustAddField("Street", record.Varchar, 50, record.ConstraintNone)
	s.MustAddField("City", record.Varchar, 50, record.ConstraintNone)
	return s
}

func personSchema() *record.Schema {
	s := record.NewSchema("Person")
	s.MustAddField("Name", record.Varchar, 50, record.NotNull)
	s.MustAddField("RefAddress", record.Int, 0, record.ConstraintNone)
	s.MustAddField("Active", record.Boolean, 0, record.ConstraintNone)
	s.MustAddField("Born", record.Date, 0, record.ConstraintNone)
	s.MustAddField("Seen", record.DateTime, 0, record.ConstraintNone)
	s.MustAddField("Salary", record.Decimal, 0, record.ConstraintNone)
	s.MustAddField("Height", record.Double, 0, record.ConstraintNone)
	return s
}

func TestSQLiteConnect(t *testing.T) {
	d := openSQLite(t)
	assert.True(t, d.IsConnected())
	assert.Equal(t, "test", d.CurrentDatabase())
	assert.Equal(t, "", d.CurrentUser())
	assert.Equal(t, "sqlite", d.Dialect())

	require.NoError(t, d.Disconnect())
	assert.False(t, d.IsConnected())

	_, err := d.Insert(context.Background(), record.NewRecord(addressSchema()))
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = d.GetData(context.Background(), &testNode{schema: addressSchema()})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSQLiteCRUD(t *testing.T) {
	ctx := context.Background()
	d := openSQLite(t)
	schema := personSchema()
	require.NoError(t, d.CreateTableIfNotExist(ctx, schema))
	// twice is fine
	require.NoError(t, d.CreateTableIfNotExist(ctx, schema))

	exists, err := d.Exists(ctx, "Person")
	require.NoError(t, err)
	assert.True(t, exists)

	r := record.NewRecord(schema)
	require.NoError(t, r.Set("Name", record.NewStringValue("Homer")))
	require.NoError(t, r.Set("RefAddress", record.NewIntValue(3)))
	require.NoError(t, r.Set("Active", record.NewBoolValue(true)))
	born := time.Date(1956, 5, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Set("Born", record.NewDateValue(born)))
	seen := time.Date(2024, 1, 2, 3, 4, 5, 600*int(time.Millisecond), time.UTC)
	require.NoError(t, r.Set("Seen", record.NewDateTimeValue(seen)))
	require.NoError(t, r.Set("Salary", record.NewDecimalValue(decimal.RequireFromString("1234.5"))))
	require.NoError(t, r.Set("Height", record.NewDoubleValue(1.83)))

	id, err := d.Insert(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	rows, err := d.GetData(ctx, plan.Lookup(schema, record.RecIDField, "1"))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got, err := record.FromRow(schema, rows[0])
	require.NoError(t, err)
	r.SetRecID(id)
	for _, f := range schema.Fields() {
		want, _ := r.Get(f)
		have, _ := got.Get(f)
		assert.True(t, want.Equals(have), "%s: want %v, have %v", f, want, have)
	}

	// Modify
	require.NoError(t, got.Set("Name", record.NewStringValue("Homer Jay")))
	require.NoError(t, d.Modify(ctx, got))
	rows, err = d.GetData(ctx, &testNode{schema: schema, filters: map[string]string{"Name": "Homer Jay"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["Person.RecId"])

	// Delete
	require.NoError(t, d.Delete(ctx, got))
	rows, err = d.GetData(ctx, &testNode{schema: schema})
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Unsaved records cannot be modified or deleted
	assert.ErrorIs(t, d.Modify(ctx, record.NewRecord(schema)), ErrNotPersisted)
	assert.ErrorIs(t, d.Delete(ctx, record.NewRecord(schema)), ErrNotPersisted)
}

func TestSQLiteJoin(t *testing.T) {
	ctx := context.Background()
	d := openSQLite(t)

	address := addressSchema()
	person := record.NewSchema("Person")
	person.MustAddField("Name", record.Varchar, 50, record.ConstraintNone)
	person.MustAddField("RefAddress", record.Int, 0, record.ConstraintNone)
	require.NoError(t, d.CreateTableIfNotExist(ctx, address))
	require.NoError(t, d.CreateTableIfNotExist(ctx, person))

	for i, a := range [][2]string{{"Main St", "Springfield"}, {"Oak Ave", "Shelbyville"}} {
		r := record.NewRecord(address)
		require.NoError(t, r.Set("Street", record.NewStringValue(a[0])))
		require.NoError(t, r.Set("City", record.NewStringValue(a[1])))
		_, err := d.Insert(ctx, r)
		require.NoError(t, err)

		p := record.NewRecord(person)
		require.NoError(t, p.Set("Name", record.NewStringValue([]string{"Person1's name", "Person2's name"}[i])))
		require.NoError(t, p.Set("RefAddress", record.NewIntValue(i+1)))
		_, err = d.Insert(ctx, p)
		require.NoError(t, err)
	}

	root := &testNode{
		schema: person,
		joins:  []plan.Join{{Kind: plan.Inner, Child: &testNode{schema: address}, SourceField: "RefAddress"}},
	}
	rows, err := d.GetData(ctx, root)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Person2's name", rows[1]["Person.Name"])
	assert.Equal(t, "Shelbyville", rows[1]["Address.City"])
	assert.Equal(t, "2", rows[1]["Address.RecId"])

	// filter on the joined table
	root.joins[0].Child = &testNode{schema: address, filters: map[string]string{"City": "Springfield"}}
	rows, err = d.GetData(ctx, root)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Person1's name", rows[0]["Person.Name"])
}

func TestSQLiteAlterTableFields(t *testing.T) {
	ctx := context.Background()
	d := openSQLite(t)

	v1 := record.NewSchema("Item")
	v1.MustAddField("Name", record.Varchar, 20, record.ConstraintNone)
	v1.MustAddField("Obsolete", record.Int, 0, record.ConstraintNone)
	require.NoError(t, d.CreateTableIfNotExist(ctx, v1))

	r := record.NewRecord(v1)
	require.NoError(t, r.Set("Name", record.NewStringValue("hammer")))
	require.NoError(t, r.Set("Obsolete", record.NewIntValue(5)))
	_, err := d.Insert(ctx, r)
	require.NoError(t, err)

	v2 := record.NewSchema("Item")
	v2.MustAddField("Name", record.Varchar, 20, record.ConstraintNone)
	v2.MustAddField("Count", record.Int, 0, record.NotNull)
	require.NoError(t, d.AlterTableFields(ctx, v2))

	cols, err := d.Columns(ctx, "Item")
	require.NoError(t, err)
	assert.Equal(t, []string{"RecId", "Name", "Count"}, cols)

	rows, err := d.GetData(ctx, &testNode{schema: v2})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "hammer", rows[0]["Item.Name"])
	assert.Equal(t, "0", rows[0]["Item.Count"])

	// new rows keep counting from the old primary keys
	id, err := d.Insert(ctx, record.NewRecord(v2))
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	missing := record.NewSchema("Missing")
	assert.ErrorIs(t, d.AlterTableFields(ctx, missing), ErrTableNotFound)
}

func TestToText(t *testing.T) {
	assert.Equal(t, "", toText(nil))
	assert.Equal(t, "abc", toText([]byte("abc")))
	assert.Equal(t, "42", toText(int64(42)))
	assert.Equal(t, "1.5", toText(1.5))
	assert.Equal(t, "0.1", toText(float32(0.1)))
	assert.Equal(t, "true", toText(true))
	assert.Equal(t, "2024-01-02 03:04:05.600", toText(time.Date(2024, 1, 2, 3, 4, 5, 600*int(time.Millisecond), time.UTC)))
}
