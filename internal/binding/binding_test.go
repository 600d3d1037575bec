package binding

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yashagw/ecdb/internal/driver"
	"github.com/yashagw/ecdb/internal/plan"
	"github.com/yashagw/ecdb/internal/record"
	"github.com/yashagw/ecdb/internal/table"
)

var people = []struct {
	name, street, city string
}{
	{"Person1's name", "Main St", "Springfield"},
	{"Person2's name", "Oak Ave", "Shelbyville"},
	{"Person3's name", "Elm Rd", "Capital City"},
}

// setup stores people in a fresh sqlite database and returns the person
// table joined inner to the address table, loaded in RecId order.
func setup(t *testing.T) (*table.Table, *table.Table) {
	t.Helper()
	ctx := context.Background()

	d, err := driver.Open(ctx, "driver=sqlite;dbpath="+filepath.Join(t.TempDir(), "binding.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Disconnect() })

	ps := record.NewSchema("Person")
	ps.MustAddField("Firstname", record.Varchar, 50, record.ConstraintNone)
	ps.MustAddField("Name", record.Varchar, 50, record.ConstraintNone)
	ps.MustAddField("RefAddress", record.Int, 0, record.ConstraintNone)
	as := record.NewSchema("Address")
	as.MustAddField("Street", record.Varchar, 50, record.ConstraintNone)
	as.MustAddField("City", record.Varchar, 50, record.ConstraintNone)

	person := table.New(ps, d)
	address := table.New(as, d)
	require.NoError(t, person.AddJoin(plan.Inner, address, "RefAddress", ""))
	require.NoError(t, person.SynchronizeSchema(ctx))

	for i, p := range people {
		address.Clear()
		require.NoError(t, address.SetString("Street", p.street))
		require.NoError(t, address.SetString("City", p.city))
		require.NoError(t, address.Insert(ctx))

		person.Clear()
		require.NoError(t, person.SetString("Name", p.name))
		require.NoError(t, person.SetInt("RefAddress", i+1))
		require.NoError(t, person.Insert(ctx))
	}

	require.NoError(t, person.SetOrder(plan.Ascending, record.RecIDField))
	require.NoError(t, person.FindSet(ctx))
	require.Equal(t, 3, person.Count())
	return person, address
}
