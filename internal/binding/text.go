// Package binding keeps views in step with a table. Bindings subscribe to the
// table's hooks: a text binding mirrors one field of the current record, an
// item binding lists one field of every buffered record and a grid mirrors
// the buffered records.
package binding

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yashagw/ecdb/internal/table"
)

var (
	ErrBindingExists = errors.New("sink is already bound to a table")
	ErrNotBound      = errors.New("sink is not bound")
)

// TextSink receives the textual value of a bound field. Sinks are compared
// by identity, so implementations should be pointer types.
type TextSink interface {
	SetText(text string)
}

type textBinding struct {
	table       *table.Table
	field       string
	unsubscribe []func()
}

// Bindings tracks the text and item sinks bound to tables.
type Bindings struct {
	log   *slog.Logger
	text  map[TextSink]*textBinding
	items map[ItemSink]*itemBinding
}

func New(log *slog.Logger) *Bindings {
	if log == nil {
		log = slog.Default()
	}
	return &Bindings{
		log:   log.With("pkg", "binding"),
		text:  map[TextSink]*textBinding{},
		items: map[ItemSink]*itemBinding{},
	}
}

// BindText mirrors field of t's current record into sink. The sink is
// refreshed now, when the cursor moves, after FindSet and after Modify.
func (b *Bindings) BindText(t *table.Table, field string, sink TextSink) error {
	if _, ok := b.text[sink]; ok {
		return fmt.Errorf("%w: %T", ErrBindingExists, sink)
	}
	if _, err := t.Schema().Lookup(field); err != nil {
		return err
	}

	tb := &textBinding{table: t, field: field}
	push := func(t *table.Table) {
		text, err := t.Text(field)
		if err != nil {
			b.log.Warn("reading bound field", "field", t.Schema().Qualified(field), "err", err)
			return
		}
		sink.SetText(text)
	}
	for _, h := range []table.Hook{table.OnChanged, table.AfterFindSet, table.AfterModify} {
		tb.unsubscribe = append(tb.unsubscribe, t.Subscribe(h, push))
	}
	b.text[sink] = tb
	push(t)
	return nil
}

// Update writes text edited in sink back into the bound field of the current
// record. Empty text leaves the field unchanged.
func (b *Bindings) Update(sink TextSink, text string) error {
	tb, ok := b.text[sink]
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotBound, sink)
	}
	if text == "" {
		return nil
	}
	if err := tb.table.SetText(tb.field, text); err != nil {
		return fmt.Errorf("updating %s: %w", tb.table.Schema().Qualified(tb.field), err)
	}
	return nil
}

// Unbind stops mirroring into sink. Unbinding an unbound sink is a no-op.
func (b *Bindings) Unbind(sink TextSink) {
	tb, ok := b.text[sink]
	if !ok {
		return
	}
	for _, unsubscribe := range tb.unsubscribe {
		unsubscribe()
	}
	delete(b.text, sink)
}

// Bound reports the field sink mirrors, as Table.Field.
func (b *Bindings) Bound(sink TextSink) (string, bool) {
	tb, ok := b.text[sink]
	if !ok {
		return "", false
	}
	return tb.table.Schema().Qualified(tb.field), true
}
