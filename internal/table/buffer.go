package table

import "github.com/yashagw/ecdb/internal/record"

// Buffer holds the materialized records of the last query and the position
// of the current record. A detached buffer has a working copy that belongs
// to no slot.
type Buffer struct {
	records  []*record.Record
	index    int
	detached bool
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Len() int {
	return len(b.records)
}

func (b *Buffer) IsEmpty() bool {
	return len(b.records) == 0
}

// Index returns the current position, 0 for an empty buffer.
func (b *Buffer) Index() int {
	return b.index
}

// At returns the record in slot i.
func (b *Buffer) At(i int) *record.Record {
	return b.records[i]
}

// Replace swaps in a new set of records and moves to the first one.
func (b *Buffer) Replace(records []*record.Record) {
	b.records = records
	b.index = 0
	b.detached = false
}

// Append adds a record and moves to it.
func (b *Buffer) Append(r *record.Record) {
	b.records = append(b.records, r)
	b.index = len(b.records) - 1
	b.detached = false
}

// Store writes a copy of r into the current slot. It does nothing for an
// empty or detached buffer.
func (b *Buffer) Store(r *record.Record) {
	if b.IsEmpty() || b.detached {
		return
	}
	b.records[b.index] = r.Copy()
}

func (b *Buffer) Clear() {
	b.records = nil
	b.index = 0
	b.detached = false
}

// Detached reports whether the working copy is outside the buffer.
func (b *Buffer) Detached() bool {
	return b.detached
}

func (b *Buffer) setIndex(i int) {
	b.index = i
	b.detached = false
}

func (b *Buffer) detach() {
	b.detached = true
}
