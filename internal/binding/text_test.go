package binding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashagw/ecdb/internal/record"
)

type label struct {
	text    string
	updates int
}

func (l *label) SetText(text string) {
	l.text = text
	l.updates++
}

func TestBindTextFollowsCursor(t *testing.T) {
	person, address := setup(t)
	b := New(nil)

	name, city := &label{}, &label{}
	require.NoError(t, b.BindText(person, "Name", name))
	require.NoError(t, b.BindText(address, "City", city))
	assert.Equal(t, "Person1's name", name.text)
	assert.Equal(t, "Springfield", city.text)

	person.Next()
	assert.Equal(t, "Person2's name", name.text)
	assert.Equal(t, "Shelbyville", city.text)

	person.Last()
	assert.Equal(t, "Person3's name", name.text)
	assert.Equal(t, "Capital City", city.text)

	require.NoError(t, person.FindSet(context.Background()))
	assert.Equal(t, "Person1's name", name.text)

	field, ok := b.Bound(city)
	assert.True(t, ok)
	assert.Equal(t, "Address.City", field)
}

func TestBindTextErrors(t *testing.T) {
	person, _ := setup(t)
	b := New(nil)

	l := &label{}
	require.NoError(t, b.BindText(person, "Name", l))
	assert.ErrorIs(t, b.BindText(person, "Firstname", l), ErrBindingExists)
	assert.ErrorIs(t, b.BindText(person, "Missing", &label{}), record.ErrFieldNotFound)

	assert.ErrorIs(t, b.Update(&label{}, "x"), ErrNotBound)
	_, ok := b.Bound(&label{})
	assert.False(t, ok)
}

func TestBindTextUpdate(t *testing.T) {
	ctx := context.Background()
	person, _ := setup(t)
	b := New(nil)

	name, ref := &label{}, &label{}
	require.NoError(t, b.BindText(person, "Name", name))
	require.NoError(t, b.BindText(person, "RefAddress", ref))

	require.NoError(t, b.Update(name, "Homer"))
	s, err := person.GetString("Name")
	require.NoError(t, err)
	assert.Equal(t, "Homer", s)
	// the sink is not told about its own edit
	assert.Equal(t, "Person1's name", name.text)

	// empty text leaves the field alone
	require.NoError(t, b.Update(name, ""))
	s, _ = person.GetString("Name")
	assert.Equal(t, "Homer", s)

	assert.ErrorIs(t, b.Update(ref, "one"), record.ErrFormat)

	require.NoError(t, person.Modify(ctx))
	assert.Equal(t, "Homer", name.text)

	require.NoError(t, person.FindSet(ctx))
	assert.Equal(t, "Homer", name.text)
	assert.Equal(t, "1", ref.text)
}

func TestUnbind(t *testing.T) {
	person, _ := setup(t)
	b := New(nil)

	l := &label{}
	require.NoError(t, b.BindText(person, "Name", l))
	n := l.updates

	b.Unbind(l)
	person.Next()
	assert.Equal(t, n, l.updates)
	assert.Equal(t, "Person1's name", l.text)

	// the sink can be bound again once released
	b.Unbind(l)
	require.NoError(t, b.BindText(person, "Name", l))
	assert.Equal(t, "Person2's name", l.text)
}
