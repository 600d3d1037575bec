package table

import (
	"fmt"

	"github.com/yashagw/ecdb/internal/record"
)

// Count returns the number of records in the buffer.
func (t *Table) Count() int {
	return t.buf.Len()
}

// CurrentBufferIndex returns the position of the current record.
func (t *Table) CurrentBufferIndex() int {
	return t.buf.Index()
}

// SetCurrentBufferIndex moves to slot pos after storing the working copy in
// the slot being left.
func (t *Table) SetCurrentBufferIndex(pos int) error {
	if pos < 0 || pos >= t.buf.Len() {
		return fmt.Errorf("%w: %d, %s has %d records", ErrIndexOutOfRange, pos, t.schema.Table(), t.buf.Len())
	}
	t.commit()
	t.moveTo(pos)
	return nil
}

// Next moves to the next record. Past the last record it wraps around to the
// first one and returns false.
func (t *Table) Next() bool {
	if t.buf.IsEmpty() {
		return false
	}
	t.commit()
	i, ok := t.buf.Index()+1, true
	if i >= t.buf.Len() {
		i, ok = 0, false
	}
	t.moveTo(i)
	return ok
}

// Previous moves to the previous record. Before the first record it wraps
// around to the last one and returns false.
func (t *Table) Previous() bool {
	if t.buf.IsEmpty() {
		return false
	}
	t.commit()
	i, ok := t.buf.Index()-1, true
	if i < 0 {
		i, ok = t.buf.Len()-1, false
	}
	t.moveTo(i)
	return ok
}

// First moves to the first record. It returns false for an empty buffer.
func (t *Table) First() bool {
	if t.buf.IsEmpty() {
		return false
	}
	t.commit()
	t.moveTo(0)
	return true
}

// Last moves to the last record. It returns false for an empty buffer.
func (t *Table) Last() bool {
	if t.buf.IsEmpty() {
		return false
	}
	t.commit()
	t.moveTo(t.buf.Len() - 1)
	return true
}

// AppendRecord adds an empty, unsaved record to t and its joined tables and
// moves to it.
func (t *Table) AppendRecord() {
	t.commit()
	t.buf.Append(record.NewRecord(t.schema))
	t.current.Clear()
	for _, j := range t.joins {
		j.child.AppendRecord()
	}
	t.fire(OnChanged)
}

// commit stores the working copy in the current slot.
func (t *Table) commit() {
	t.buf.Store(t.current)
}

// moveTo loads slot i into the working copy and moves every joined table to
// the same slot. i must be within the buffer.
func (t *Table) moveTo(i int) {
	t.buf.setIndex(i)
	t.current.CopyFrom(t.buf.At(i))
	for _, j := range t.joins {
		j.child.follow(i)
	}
	t.fire(OnChanged)
}

// follow moves a joined table along with its parent. A parent slot past the
// end of t's buffer leaves t detached with an empty working copy.
func (t *Table) follow(i int) {
	t.commit()
	if i < t.buf.Len() {
		t.moveTo(i)
		return
	}
	t.buf.detach()
	t.current.Clear()
	for _, j := range t.joins {
		j.child.follow(i)
	}
	t.fire(OnChanged)
}

// land replaces the buffers of t and its joined tables with freshly loaded
// records and moves to the first one.
func (t *Table) land(loaded map[*Table][]*record.Record) {
	t.buf.Replace(loaded[t])
	t.enumIndex = -1
	if t.buf.IsEmpty() {
		t.current.Clear()
	} else {
		t.current.CopyFrom(t.buf.At(0))
	}
	for _, j := range t.joins {
		j.child.land(loaded)
	}
	t.fire(OnChanged)
}

// patch replaces the working copies of t and its joined tables with loaded
// records and stores them in the current slots. The rest of the buffers is
// left alone.
func (t *Table) patch(loaded map[*Table][]*record.Record) {
	t.current.CopyFrom(loaded[t][0])
	t.commit()
	for _, j := range t.joins {
		j.child.patch(loaded)
	}
	t.fire(OnChanged)
}

// blank fills loaded with an empty record for t and every table joined to it.
func (t *Table) blank(loaded map[*Table][]*record.Record) {
	loaded[t] = []*record.Record{record.NewRecord(t.schema)}
	for _, j := range t.joins {
		j.child.blank(loaded)
	}
}
