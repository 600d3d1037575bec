package table

import (
	"context"
	"fmt"
	"strconv"

	"github.com/yashagw/ecdb/internal/driver"
	"github.com/yashagw/ecdb/internal/plan"
	"github.com/yashagw/ecdb/internal/record"
)

// FindSet runs the query described by the filters, ranges, order and joins
// of t and loads the result into t and its joined tables. No rows leaves the
// buffers empty.
func (t *Table) FindSet(ctx context.Context) error {
	if t.driver == nil {
		return ErrNoDriver
	}
	t.fire(BeforeFindSet)
	rows, err := t.driver.GetData(ctx, t)
	if err != nil {
		return err
	}
	loaded := map[*Table][]*record.Record{}
	if err := t.decode(rows, loaded); err != nil {
		return err
	}
	t.land(loaded)
	t.log.Debug("find set", "rows", len(rows))
	t.fire(AfterFindSet)
	return nil
}

func (t *Table) decode(rows []driver.Row, loaded map[*Table][]*record.Record) error {
	records := make([]*record.Record, 0, len(rows))
	for _, row := range rows {
		r, err := record.FromRow(t.schema, row)
		if err != nil {
			return err
		}
		records = append(records, r)
	}
	loaded[t] = records
	for _, j := range t.joins {
		if err := j.child.decode(rows, loaded); err != nil {
			return err
		}
	}
	return nil
}

// Get loads the record with primary key recID. Every joined table gets the
// one record matching the join, or an empty record when there is none. An
// unknown recID leaves the buffers empty. Get fires the find-set hooks.
func (t *Table) Get(ctx context.Context, recID int) error {
	if t.driver == nil {
		return ErrNoDriver
	}
	t.fire(BeforeFindSet)
	if err := t.get(ctx, recID); err != nil {
		return err
	}
	t.fire(AfterFindSet)
	return nil
}

func (t *Table) get(ctx context.Context, recID int) error {
	loaded, err := t.lookup(ctx, recID)
	if err != nil {
		return err
	}
	if loaded[t][0].RecID() == 0 {
		clear(loaded)
	}
	t.land(loaded)
	return nil
}

// lookup reads the record with primary key recID and the records joined to
// it, one per table. A missing record is an empty one.
func (t *Table) lookup(ctx context.Context, recID int) (map[*Table][]*record.Record, error) {
	rows, err := t.driver.GetData(ctx, plan.Lookup(t.schema, record.RecIDField, strconv.Itoa(recID)))
	if err != nil {
		return nil, err
	}
	r := record.NewRecord(t.schema)
	if len(rows) > 0 {
		if r, err = record.FromRow(t.schema, rows[0]); err != nil {
			return nil, err
		}
	}
	loaded := map[*Table][]*record.Record{t: {r}}
	if err := t.lookupJoins(ctx, r, loaded); err != nil {
		return nil, err
	}
	return loaded, nil
}

func (t *Table) lookupJoins(ctx context.Context, parent *record.Record, loaded map[*Table][]*record.Record) error {
	for _, j := range t.joins {
		child := j.child
		d := child.driver
		if d == nil {
			d = t.driver
		}

		rec := record.NewRecord(child.schema)
		v, err := parent.Get(j.source)
		if err != nil {
			return err
		}
		if !v.IsZero() {
			text, err := record.Format(t.schema.Type(j.source), v)
			if err != nil {
				return err
			}
			rows, err := d.GetData(ctx, plan.Lookup(child.schema, j.targetField(), text))
			if err != nil {
				return err
			}
			if len(rows) > 0 {
				if rec, err = record.FromRow(child.schema, rows[0]); err != nil {
					return err
				}
			}
		}
		loaded[child] = []*record.Record{rec}
		if err := child.lookupJoins(ctx, rec, loaded); err != nil {
			return err
		}
	}
	return nil
}

// Insert writes the working copy as a new record and reloads it by the
// primary key the backend assigned. A joined table reloads only its current
// slot so it stays aligned with its parent.
func (t *Table) Insert(ctx context.Context) error {
	if t.driver == nil {
		return ErrNoDriver
	}
	t.fire(BeforeInsert)
	id, err := t.driver.Insert(ctx, t.current)
	if err != nil {
		return err
	}
	t.log.Debug("inserted", "recid", id)
	if t.parent != nil {
		loaded, err := t.lookup(ctx, id)
		if err != nil {
			return err
		}
		t.patch(loaded)
	} else if err := t.get(ctx, id); err != nil {
		return err
	}
	t.fire(AfterInsert)
	return nil
}

// Modify writes the working copy and stores it in the current slot. Joined
// tables are not written.
func (t *Table) Modify(ctx context.Context) error {
	if t.driver == nil {
		return ErrNoDriver
	}
	t.fire(BeforeModify)
	if err := t.driver.Modify(ctx, t.current); err != nil {
		return err
	}
	t.commit()
	t.fire(AfterModify)
	return nil
}

// Delete removes the current record, reruns the query and stays at the same
// position, or the last one if the buffer got shorter. On an empty buffer it
// only resets the table. A joined table blanks its current slot instead of
// rerunning the query.
func (t *Table) Delete(ctx context.Context) error {
	if t.driver == nil {
		return ErrNoDriver
	}
	t.fire(BeforeDelete)
	if t.parent != nil {
		if err := t.deleteSlot(ctx); err != nil {
			return err
		}
		t.fire(AfterDelete)
		return nil
	}
	if t.buf.IsEmpty() {
		t.Init()
		t.fire(AfterDelete)
		return nil
	}
	pos := t.buf.Index()
	if err := t.driver.Delete(ctx, t.current); err != nil {
		return err
	}
	t.log.Debug("deleted", "recid", t.current.RecID())
	if err := t.FindSet(ctx); err != nil {
		return err
	}
	if n := t.buf.Len(); n > 0 && pos > 0 {
		t.moveTo(min(pos, n-1))
	}
	t.fire(AfterDelete)
	return nil
}

// deleteSlot deletes the current record of a joined table and blanks its
// slot, and the slots of the tables joined to it, in place.
func (t *Table) deleteSlot(ctx context.Context) error {
	if t.current.RecID() != 0 {
		if err := t.driver.Delete(ctx, t.current); err != nil {
			return err
		}
		t.log.Debug("deleted", "recid", t.current.RecID())
	}
	loaded := map[*Table][]*record.Record{}
	t.blank(loaded)
	t.patch(loaded)
	return nil
}

// DeleteAll deletes every record matching the current query. It is not
// available on a joined table, whose buffer follows its parent.
func (t *Table) DeleteAll(ctx context.Context) error {
	if t.parent != nil {
		return fmt.Errorf("%w: delete all on %s", ErrJoinedTable, t.schema.Table())
	}
	if err := t.FindSet(ctx); err != nil {
		return err
	}
	for t.current.RecID() != 0 {
		n, id := t.buf.Len(), t.current.RecID()
		if err := t.Delete(ctx); err != nil {
			return err
		}
		if t.buf.Len() >= n {
			return fmt.Errorf("delete all: %s record %d was not removed", t.schema.Table(), id)
		}
	}
	return nil
}

// ModifyAll writes every buffered record, inserting the unsaved ones, and
// then returns to the current position.
func (t *Table) ModifyAll(ctx context.Context) error {
	if t.driver == nil {
		return ErrNoDriver
	}
	if t.buf.IsEmpty() {
		return nil
	}
	t.commit()
	pos := t.buf.Index()
	defer func() {
		t.moveTo(min(pos, t.buf.Len()-1))
	}()

	for i := 0; i < t.buf.Len(); i++ {
		r := t.buf.At(i)
		if r.RecID() == 0 {
			id, err := t.driver.Insert(ctx, r)
			if err != nil {
				return err
			}
			r.SetRecID(id)
			continue
		}
		if err := t.driver.Modify(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// SynchronizeSchema creates or alters the backend tables of t and its joined
// tables to match their schemas.
func (t *Table) SynchronizeSchema(ctx context.Context) error {
	if t.driver == nil {
		return ErrNoDriver
	}
	if err := t.driver.CreateTableIfNotExist(ctx, t.schema); err != nil {
		return err
	}
	if err := t.driver.AlterTableFields(ctx, t.schema); err != nil {
		return err
	}
	for _, j := range t.joins {
		if err := j.child.SynchronizeSchema(ctx); err != nil {
			return err
		}
	}
	return nil
}
