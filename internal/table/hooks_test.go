package table

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(events *[]string, tbl *Table) func() {
	var unsubs []func()
	for h := BeforeInsert; h <= OnChanged; h++ {
		unsubs = append(unsubs, tbl.Subscribe(h, func(t *Table) {
			*events = append(*events, h.String())
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func TestHooksFireAroundOperations(t *testing.T) {
	ctx := context.Background()
	person, address, _ := setup(t)

	var events []string
	collect(&events, person)
	var childEvents []string
	collect(&childEvents, address)

	require.NoError(t, person.FindSet(ctx))
	assert.Equal(t, []string{"BeforeFindSet", "OnChanged", "AfterFindSet"}, events)
	assert.Equal(t, []string{"OnChanged"}, childEvents)

	events, childEvents = nil, nil
	person.Next()
	assert.Equal(t, []string{"OnChanged"}, events)
	assert.Equal(t, []string{"OnChanged"}, childEvents)

	events = nil
	require.NoError(t, person.Modify(ctx))
	assert.Equal(t, []string{"BeforeModify", "AfterModify"}, events)

	events = nil
	require.NoError(t, person.Insert(ctx))
	assert.Equal(t, []string{"BeforeInsert", "OnChanged", "AfterInsert"}, events)

	events, childEvents = nil, nil
	require.NoError(t, person.Get(ctx, 1))
	assert.Equal(t, []string{"BeforeFindSet", "OnChanged", "AfterFindSet"}, events)
	assert.Equal(t, []string{"OnChanged"}, childEvents)

	childEvents = nil
	require.NoError(t, address.Insert(ctx))
	assert.Equal(t, []string{"BeforeInsert", "OnChanged", "AfterInsert"}, childEvents)

	events = nil
	require.NoError(t, person.FindSet(ctx))
	person.Last()
	events = nil
	require.NoError(t, person.Delete(ctx))
	assert.Equal(t, []string{"BeforeDelete", "BeforeFindSet", "OnChanged", "AfterFindSet", "OnChanged", "AfterDelete"}, events)
}

func TestUnsubscribe(t *testing.T) {
	person, _, _ := setup(t)

	calls := 0
	unsubscribe := person.Subscribe(OnChanged, func(*Table) { calls++ })
	other := 0
	person.Subscribe(OnChanged, func(*Table) { other++ })

	require.NoError(t, person.FindSet(context.Background()))
	assert.Equal(t, 1, calls)

	unsubscribe()
	unsubscribe()
	person.Next()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
}

func TestHandlerMayUnsubscribeItself(t *testing.T) {
	person, _, _ := setup(t)

	calls := 0
	var unsubscribe func()
	unsubscribe = person.Subscribe(OnChanged, func(*Table) {
		calls++
		unsubscribe()
	})
	require.NoError(t, person.FindSet(context.Background()))
	person.Next()
	assert.Equal(t, 1, calls)
}

func TestHookString(t *testing.T) {
	assert.Equal(t, "AfterFindSet", AfterFindSet.String())
	assert.Equal(t, "Hook(?)", Hook(99).String())
}
