package table

// Hook names a point in a table operation at which subscribers are called.
type Hook int

const (
	BeforeInsert Hook = iota
	AfterInsert
	BeforeModify
	AfterModify
	BeforeDelete
	AfterDelete
	BeforeFindSet
	AfterFindSet
	// OnChanged fires whenever the current record is replaced by navigation
	// or a reload.
	OnChanged
)

var hookNames = map[Hook]string{
	BeforeInsert:  "BeforeInsert",
	AfterInsert:   "AfterInsert",
	BeforeModify:  "BeforeModify",
	AfterModify:   "AfterModify",
	BeforeDelete:  "BeforeDelete",
	AfterDelete:   "AfterDelete",
	BeforeFindSet: "BeforeFindSet",
	AfterFindSet:  "AfterFindSet",
	OnChanged:     "OnChanged",
}

func (h Hook) String() string {
	if name, ok := hookNames[h]; ok {
		return name
	}
	return "Hook(?)"
}

// Handler is called synchronously with the table that fired the hook.
type Handler func(t *Table)

type subscription struct {
	id int
	fn Handler
}

type hooks struct {
	nextID int
	subs   map[Hook][]subscription
}

func newHooks() *hooks {
	return &hooks{subs: map[Hook][]subscription{}}
}

// Subscribe registers fn for hook. Handlers of one hook run in subscription
// order. The returned function removes the subscription.
func (t *Table) Subscribe(hook Hook, fn Handler) (unsubscribe func()) {
	h := t.hooks
	h.nextID++
	id := h.nextID
	h.subs[hook] = append(h.subs[hook], subscription{id: id, fn: fn})
	return func() {
		subs := h.subs[hook]
		for i, s := range subs {
			if s.id == id {
				h.subs[hook] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func (t *Table) fire(hook Hook) {
	// Copy, a handler may unsubscribe while we iterate.
	subs := append([]subscription(nil), t.hooks.subs[hook]...)
	for _, s := range subs {
		s.fn(t)
	}
}
