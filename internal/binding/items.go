package binding

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/yashagw/ecdb/internal/table"
)

var ErrItemOutOfRange = errors.New("item out of range")

// ItemSink receives the items of a list bound to a field, such as a list or
// combo box.
type ItemSink interface {
	SetItems(items []string)
}

type itemBinding struct {
	table *table.Table
	field string
	items []string
	// bufIdx[i] is the buffer slot of item i, -1 once the slot is gone.
	bufIdx      []int
	unsubscribe []func()
}

// BindItems lists field of every buffered record of t in sink. The list is
// reloaded after FindSet, Insert and Delete, and the item of the current
// record is updated after Modify.
func (b *Bindings) BindItems(t *table.Table, field string, sink ItemSink) error {
	if _, ok := b.items[sink]; ok {
		return fmt.Errorf("%w: %T", ErrBindingExists, sink)
	}
	if _, err := t.Schema().Lookup(field); err != nil {
		return err
	}

	ib := &itemBinding{table: t, field: field}
	reload := func(*table.Table) {
		b.loadItems(ib, nil)
		sink.SetItems(slices.Clone(ib.items))
	}
	for _, h := range []table.Hook{table.AfterFindSet, table.AfterInsert, table.AfterDelete} {
		ib.unsubscribe = append(ib.unsubscribe, t.Subscribe(h, reload))
	}
	ib.unsubscribe = append(ib.unsubscribe, t.Subscribe(table.AfterModify, func(t *table.Table) {
		i := slices.Index(ib.bufIdx, t.CurrentBufferIndex())
		if i < 0 {
			return
		}
		text, err := t.Text(field)
		if err != nil {
			b.log.Warn("reading bound item", "field", t.Schema().Qualified(field), "err", err)
			return
		}
		ib.items[i] = text
		sink.SetItems(slices.Clone(ib.items))
	}))
	b.items[sink] = ib
	reload(t)
	return nil
}

// loadItems replaces the items with the buffered records, after keep.
// Kept items no longer select a record.
func (b *Bindings) loadItems(ib *itemBinding, keep []string) {
	ib.items = slices.Clone(keep)
	ib.bufIdx = make([]int, len(keep))
	for i := range ib.bufIdx {
		ib.bufIdx[i] = -1
	}
	for i, snap := range ib.table.All() {
		text, err := snap.Text(ib.field)
		if err != nil {
			b.log.Warn("reading bound item", "field", snap.Schema().Qualified(ib.field), "slot", i, "err", err)
		}
		ib.items = append(ib.items, text)
		ib.bufIdx = append(ib.bufIdx, i)
	}
}

// LoadItems runs the table's query, which replaces the items of sink.
func (b *Bindings) LoadItems(ctx context.Context, sink ItemSink) error {
	ib, ok := b.items[sink]
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotBound, sink)
	}
	return ib.table.FindSet(ctx)
}

// AddItems runs the table's query and appends its records to the items
// already in sink. Only the appended items select a record.
func (b *Bindings) AddItems(ctx context.Context, sink ItemSink) error {
	ib, ok := b.items[sink]
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotBound, sink)
	}
	keep := ib.items
	if err := ib.table.FindSet(ctx); err != nil {
		return err
	}
	b.loadItems(ib, keep)
	sink.SetItems(slices.Clone(ib.items))
	return nil
}

// SelectItem positions the table on the record listed as item.
func (b *Bindings) SelectItem(sink ItemSink, item int) error {
	ib, ok := b.items[sink]
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotBound, sink)
	}
	if item < 0 || item >= len(ib.bufIdx) {
		return fmt.Errorf("%w: %d of %d", ErrItemOutOfRange, item, len(ib.bufIdx))
	}
	if ib.bufIdx[item] < 0 {
		return fmt.Errorf("%w: item %d is from an earlier query", ErrItemOutOfRange, item)
	}
	return ib.table.SetCurrentBufferIndex(ib.bufIdx[item])
}

// UnbindItems detaches sink from its table. Unbinding an unbound sink does
// nothing.
func (b *Bindings) UnbindItems(sink ItemSink) {
	ib, ok := b.items[sink]
	if !ok {
		return
	}
	for _, unsubscribe := range ib.unsubscribe {
		unsubscribe()
	}
	delete(b.items, sink)
}
