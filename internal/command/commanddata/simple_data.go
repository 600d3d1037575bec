package commanddata

// Op names a command that takes no arguments other than an optional table.
type Op string

const (
	Sync      Op = "sync"
	Find      Op = "find"
	Next      Op = "next"
	Prev      Op = "prev"
	First     Op = "first"
	Last      Op = "last"
	Reset     Op = "reset"
	Clear     Op = "clear"
	Insert    Op = "insert"
	Modify    Op = "modify"
	Delete    Op = "delete"
	DeleteAll Op = "deleteall"
	ModifyAll Op = "modifyall"
	Append    Op = "append"
	Show      Op = "show"
	List      Op = "list"
	Help      Op = "help"
	Quit      Op = "quit"
)

// TakesTable reports whether op may name the table it applies to.
func (op Op) TakesTable() bool {
	switch op {
	case Clear, Insert, Modify, Delete:
		return true
	}
	return false
}

type SimpleData struct {
	op    Op
	table string
}

func NewSimpleData(op Op, table string) *SimpleData {
	return &SimpleData{op: op, table: table}
}

func (s *SimpleData) Op() Op {
	return s.op
}

// Table returns the table named after the command, empty for the root
// table.
func (s *SimpleData) Table() string {
	return s.table
}
