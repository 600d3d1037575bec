package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personSchema() *Schema {
	s := NewSchema("Person")
	s.MustAddField("Firstname", Varchar, 50, ConstraintNone)
	s.MustAddField("Name", Varchar, 50, ConstraintNone)
	s.MustAddField("RefAddress", Int, 0, ConstraintNone)
	return s
}

func TestRecordFromRow(t *testing.T) {
	schema := personSchema()

	row := map[string]string{
		"Person.RecId":      "2",
		"Person.Firstname":  "Lisa",
		"Person.Name":       "Person2's name",
		"Person.RefAddress": "",
		"Address.City":      "Shelbyville",
	}
	r, err := FromRow(schema, row)
	require.NoError(t, err)
	assert.Equal(t, 2, r.RecID())

	v, err := r.Get("Name")
	require.NoError(t, err)
	assert.Equal(t, "Person2's name", v.AsString())

	// empty column decodes to the zero value
	v, err = r.Get("RefAddress")
	require.NoError(t, err)
	assert.Equal(t, 0, v.AsInt())

	// bare column names are accepted
	r, err = FromRow(schema, map[string]string{"RecId": "7", "Name": "bare"})
	require.NoError(t, err)
	assert.Equal(t, 7, r.RecID())

	_, err = FromRow(schema, map[string]string{"Person.RefAddress": "x"})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestRecordSetGet(t *testing.T) {
	r := NewRecord(personSchema())
	assert.Equal(t, 0, r.RecID())

	require.NoError(t, r.Set("Name", NewStringValue("Simpson")))
	v, err := r.Get("Name")
	require.NoError(t, err)
	assert.Equal(t, "Simpson", v.AsString())

	err = r.Set("Name", NewIntValue(1))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = r.Set("Missing", NewIntValue(1))
	assert.ErrorIs(t, err, ErrFieldNotFound)

	// the zero Value is not a VARCHAR, it was never built
	assert.False(t, Value{}.IsValid())
	err = r.Set("Name", Value{})
	assert.ErrorIs(t, err, ErrTypeMismatch)
	v, _ = r.Get("Name")
	assert.Equal(t, "Simpson", v.AsString())

	_, err = r.Get("Missing")
	assert.ErrorIs(t, err, ErrFieldNotFound)

	r.SetRecID(9)
	assert.Equal(t, 9, r.RecID())

	r.Clear()
	assert.Equal(t, 0, r.RecID())
	v, _ = r.Get("Name")
	assert.Equal(t, "", v.AsString())
}

func TestRecordCopy(t *testing.T) {
	r := NewRecord(personSchema())
	require.NoError(t, r.Set("Name", NewStringValue("Simpson")))

	c := r.Copy()
	require.NoError(t, c.Set("Name", NewStringValue("Flanders")))

	v, _ := r.Get("Name")
	assert.Equal(t, "Simpson", v.AsString())

	r.CopyFrom(c)
	v, _ = r.Get("Name")
	assert.Equal(t, "Flanders", v.AsString())
}

func TestRecordEquals(t *testing.T) {
	schema := personSchema()

	a := NewRecord(schema)
	b := NewRecord(schema)
	assert.True(t, a.Equals(b))

	// unsaved records compare field by field
	require.NoError(t, a.Set("Name", NewStringValue("Simpson")))
	assert.False(t, a.Equals(b))

	// persisted records compare by primary key only
	a.SetRecID(3)
	b.SetRecID(3)
	assert.True(t, a.Equals(b))
	b.SetRecID(4)
	assert.False(t, a.Equals(b))

	other := NewRecord(NewSchema("Address"))
	assert.False(t, NewRecord(schema).Equals(other))
	assert.False(t, a.Equals(nil))
}

func TestRecordString(t *testing.T) {
	r := NewRecord(personSchema())
	require.NoError(t, r.Set("Firstname", NewStringValue("Homer")))
	r.SetRecID(1)
	assert.Equal(t, "RecId: 1\nFirstname: Homer\nName: \nRefAddress: 0", r.String())
}
