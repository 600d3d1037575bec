package main

import (
	"github.com/yashagw/ecdb/internal/driver"
	"github.com/yashagw/ecdb/internal/plan"
	"github.com/yashagw/ecdb/internal/record"
	"github.com/yashagw/ecdb/internal/table"
)

func personSchema() *record.Schema {
	s := record.NewSchema("Person")
	s.MustAddField("Firstname", record.Varchar, 50, record.ConstraintNone)
	s.MustAddField("Name", record.Varchar, 50, record.ConstraintNone)
	s.MustAddField("RefAddress", record.Int, 0, record.ConstraintNone)
	return s
}

func addressSchema() *record.Schema {
	s := record.NewSchema("Address")
	s.MustAddField("Street", record.Varchar, 50, record.ConstraintNone)
	s.MustAddField("City", record.Varchar, 50, record.ConstraintNone)
	return s
}

// demoTables returns the person table joined inner to the address table on
// RefAddress.
func demoTables(d driver.Driver) (*table.Table, *table.Table, error) {
	person := table.New(personSchema(), d)
	address := table.New(addressSchema(), d)
	if err := person.AddJoin(plan.Inner, address, "RefAddress", ""); err != nil {
		return nil, nil, err
	}
	return person, address, nil
}
