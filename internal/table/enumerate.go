package table

import (
	"fmt"
	"iter"
	"maps"

	"github.com/yashagw/ecdb/internal/record"
)

// MoveNext advances the enumerator, which is independent of the current
// record. It returns false once past the last record.
func (t *Table) MoveNext() bool {
	if t.enumIndex < t.buf.Len() {
		t.enumIndex++
	}
	return t.enumIndex < t.buf.Len()
}

// Reset moves the enumerator before the first record.
func (t *Table) Reset() {
	t.enumIndex = -1
}

// Current returns a detached copy of the table positioned on the
// enumerator's record, joined tables included.
func (t *Table) Current() (*Table, error) {
	if t.enumIndex < 0 || t.enumIndex >= t.buf.Len() {
		return nil, fmt.Errorf("%w: enumerator at %d", ErrIndexOutOfRange, t.enumIndex)
	}
	return t.snapshot(t.enumIndex), nil
}

// All yields a detached copy for every buffered record.
func (t *Table) All() iter.Seq2[int, *Table] {
	return func(yield func(int, *Table) bool) {
		for i := 0; i < t.buf.Len(); i++ {
			if !yield(i, t.snapshot(i)) {
				return
			}
		}
	}
}

func (t *Table) snapshot(i int) *Table {
	s := New(t.schema, t.driver)
	s.filters = maps.Clone(t.filters)
	s.ranges = maps.Clone(t.ranges)
	s.order = append([]string(nil), t.order...)
	s.orderType = t.orderType
	if i < t.buf.Len() {
		r := t.recordAt(i).Copy()
		s.buf.Replace([]*record.Record{r})
		s.current.CopyFrom(r)
	}
	for _, j := range t.joins {
		s.joins = append(s.joins, join{kind: j.kind, child: j.child.snapshot(i), source: j.source, target: j.target})
	}
	return s
}

// recordAt returns slot i, the working copy for the current slot.
func (t *Table) recordAt(i int) *record.Record {
	if i == t.buf.Index() {
		return t.current
	}
	return t.buf.At(i)
}
