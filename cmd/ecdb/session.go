package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/yashagw/ecdb/internal/binding"
	"github.com/yashagw/ecdb/internal/command"
	"github.com/yashagw/ecdb/internal/command/commanddata"
	"github.com/yashagw/ecdb/internal/plan"
	"github.com/yashagw/ecdb/internal/record"
	"github.com/yashagw/ecdb/internal/table"
)

var errUnknownTable = errors.New("unknown table")

const helpText = `Commands:
  sync                       create or alter the Person and Address tables
  find                       run the query and load the records
  get N                      load the person with RecId N
  next | prev | first | last move the cursor
  goto N                     move the cursor to buffer slot N
  filter FIELD ['expr']      set or remove a filter, e.g. filter Name 'Simpson|Flanders'
  range FIELD ['from' ['to']]
                             set or remove a range
  order asc|desc FIELD...    sort the records
  reset                      drop filters, ranges and order
  set FIELD 'value'          edit the current record, e.g. set Address.City 'Springfield'
  clear [TABLE]              empty the current record
  insert | modify | delete [TABLE]
                             write the current record, of Person unless TABLE is given
  append                     add an unsaved record to the buffer
  modifyall | deleteall      write or delete every record
  show                       print the current record
  list                       print the loaded records
  quit | exit`

// formField is a text box of the form shown by "show".
type formField struct {
	label string
	text  string
}

func (f *formField) SetText(text string) {
	f.text = text
}

// session runs commands against the demo tables.
type session struct {
	out      io.Writer
	log      *slog.Logger
	person   *table.Table
	address  *table.Table
	bindings *binding.Bindings
	grid     *binding.Grid
	form     []*formField
	fields   map[commanddata.FieldRef]*formField
}

func newSession(out io.Writer, log *slog.Logger, person, address *table.Table) (*session, error) {
	s := &session{
		out:      out,
		log:      log,
		person:   person,
		address:  address,
		bindings: binding.New(log),
		fields:   map[commanddata.FieldRef]*formField{},
	}
	for _, t := range []*table.Table{person, address} {
		for _, f := range t.Schema().Fields() {
			ff := &formField{label: t.Schema().Qualified(f)}
			if err := s.bindings.BindText(t, f, ff); err != nil {
				return nil, err
			}
			s.form = append(s.form, ff)
			s.fields[commanddata.FieldRef{Table: t.Schema().Table(), Field: f}] = ff
		}
	}
	s.grid = binding.NewGrid(person, binding.HideFields, "Address.RecId")
	return s, nil
}

func (s *session) close() {
	s.grid.Close()
	for _, ff := range s.form {
		s.bindings.Unbind(ff)
	}
}

// prompt shows the name of the current person.
func (s *session) prompt() string {
	ff := s.fields[commanddata.FieldRef{Table: s.person.Schema().Table(), Field: "Name"}]
	if ff == nil || ff.text == "" {
		return "ecdb> "
	}
	return fmt.Sprintf("ecdb [%s]> ", ff.text)
}

// exec parses and runs one command line. It returns true when the session
// should end.
func (s *session) exec(ctx context.Context, line string) (bool, error) {
	cmd, err := command.Parse(line)
	if err != nil {
		return false, err
	}
	s.log.Debug("command", "line", line, "type", fmt.Sprintf("%T", cmd))

	switch c := cmd.(type) {
	case *commanddata.SimpleData:
		t, err := s.target(commanddata.FieldRef{Table: c.Table()})
		if err != nil {
			return false, err
		}
		return c.Op() == commanddata.Quit, s.simple(ctx, c.Op(), t)
	case *commanddata.GetData:
		if err := s.person.Get(ctx, c.RecID()); err != nil {
			return false, err
		}
		if s.person.Count() == 0 {
			fmt.Fprintf(s.out, "no person with RecId %d\n", c.RecID())
			return false, nil
		}
		s.show()
	case *commanddata.GotoData:
		if err := s.person.SetCurrentBufferIndex(c.Index()); err != nil {
			return false, err
		}
		s.show()
	case *commanddata.FilterData:
		t, err := s.target(c.Field())
		if err != nil {
			return false, err
		}
		return false, t.SetFilter(c.Field().Field, c.Expr())
	case *commanddata.RangeData:
		t, err := s.target(c.Field())
		if err != nil {
			return false, err
		}
		return false, t.SetRange(c.Field().Field, c.From(), c.To())
	case *commanddata.OrderData:
		orderType := plan.Ascending
		if c.Descending() {
			orderType = plan.Descending
		}
		return false, s.person.SetOrder(orderType, c.Fields()...)
	case *commanddata.SetData:
		return false, s.set(c.Field(), c.Value())
	default:
		return false, fmt.Errorf("%w: unsupported command %T", command.ErrBadSyntax, cmd)
	}
	return false, nil
}

// simple runs a command without arguments. t is the table named after
// clear, insert, modify and delete, the person table otherwise.
func (s *session) simple(ctx context.Context, op commanddata.Op, t *table.Table) error {
	name := t.Schema().Table()
	switch op {
	case commanddata.Sync:
		if err := s.person.SynchronizeSchema(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "tables synchronized")
	case commanddata.Find:
		if err := s.person.FindSet(ctx); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%d record(s)\n", s.person.Count())
	case commanddata.Next, commanddata.Prev, commanddata.First, commanddata.Last:
		s.move(op)
	case commanddata.Reset:
		s.person.ResetQuery()
		s.address.ResetQuery()
	case commanddata.Clear:
		t.Clear()
		s.refreshForm(t)
	case commanddata.Insert:
		if err := t.Insert(ctx); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "inserted %s RecId %d\n", name, t.RecID())
	case commanddata.Modify:
		if err := t.Modify(ctx); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "modified %s RecId %d\n", name, t.RecID())
	case commanddata.Delete:
		id := t.RecID()
		if err := t.Delete(ctx); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "deleted %s RecId %d, %d record(s) left\n", name, id, t.Count())
	case commanddata.DeleteAll:
		if err := s.person.DeleteAll(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "all matching records deleted")
	case commanddata.ModifyAll:
		if err := s.person.ModifyAll(ctx); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%d record(s) written\n", s.person.Count())
	case commanddata.Append:
		s.person.AppendRecord()
		fmt.Fprintf(s.out, "appended slot %d\n", s.person.CurrentBufferIndex())
	case commanddata.Show:
		s.show()
	case commanddata.List:
		s.list()
	case commanddata.Help:
		fmt.Fprintln(s.out, helpText)
	}
	return nil
}

func (s *session) move(op commanddata.Op) {
	if s.person.Count() == 0 {
		fmt.Fprintln(s.out, mutedStyle.Render("no records, run find first"))
		return
	}
	var ok bool
	switch op {
	case commanddata.Next:
		ok = s.person.Next()
	case commanddata.Prev:
		ok = s.person.Previous()
	case commanddata.First:
		ok = s.person.First()
	case commanddata.Last:
		ok = s.person.Last()
	}
	if !ok {
		fmt.Fprintln(s.out, mutedStyle.Render("wrapped around"))
	}
	s.show()
}

// refreshForm reloads the form fields of t. Clear fires no hook.
func (s *session) refreshForm(t *table.Table) {
	for _, f := range t.Schema().Fields() {
		ff := s.fields[commanddata.FieldRef{Table: t.Schema().Table(), Field: f}]
		if text, err := t.Text(f); err == nil && ff != nil {
			ff.SetText(text)
		}
	}
}

// target returns the table a field reference names.
func (s *session) target(ref commanddata.FieldRef) (*table.Table, error) {
	switch ref.Table {
	case "", s.person.Schema().Table():
		return s.person, nil
	case s.address.Schema().Table():
		return s.address, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnknownTable, ref.Table)
}

// set edits a field through its form field, like typing into the text box.
func (s *session) set(ref commanddata.FieldRef, value string) error {
	t, err := s.target(ref)
	if err != nil {
		return err
	}
	ff := s.fields[commanddata.FieldRef{Table: t.Schema().Table(), Field: ref.Field}]
	if ff == nil {
		return fmt.Errorf("%w: %s", record.ErrFieldNotFound, t.Schema().Qualified(ref.Field))
	}
	// Update ignores empty text, clearing goes to the table directly.
	if value == "" {
		err = t.SetText(ref.Field, "")
	} else {
		err = s.bindings.Update(ff, value)
	}
	if err != nil {
		return err
	}
	ff.SetText(value)
	return nil
}

func (s *session) show() {
	rows := make([][]string, len(s.form))
	for i, ff := range s.form {
		rows[i] = []string{ff.label, ff.text}
	}
	fmt.Fprintln(s.out, renderTable([]string{"Field", "Value"}, rows, -1))
	if n := s.person.Count(); n > 0 {
		fmt.Fprintln(s.out, mutedStyle.Render(fmt.Sprintf("record %d of %d", s.person.CurrentBufferIndex()+1, n)))
	}
}

func (s *session) list() {
	s.grid.Refresh()
	if s.grid.Len() == 0 {
		fmt.Fprintln(s.out, mutedStyle.Render("(0 rows)"))
		return
	}
	current := -1
	for row := 0; row < s.grid.Len(); row++ {
		if idx, _ := s.grid.BufferIndex(row); idx == s.person.CurrentBufferIndex() {
			current = row
		}
	}
	fmt.Fprintln(s.out, renderTable(s.grid.Headers(), s.grid.Rows(), current))
	fmt.Fprintln(s.out, mutedStyle.Render(fmt.Sprintf("(%d row(s))", s.grid.Len())))
}
