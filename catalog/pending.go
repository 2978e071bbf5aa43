package catalog

import (
	"strconv"
	"sync"
)

// Kind names the entity an in-flight operation targets.
type Kind string

const (
	KindProduct  Kind = "product"
	KindCategory Kind = "category"
)

type pendingKey struct {
	kind Kind
	id   string
}

// Pending tracks rename/delete requests in flight, keyed by entity. At most
// one mutation per entity runs at a time. Safe for concurrent use.
type Pending struct {
	mu  sync.Mutex
	ids map[pendingKey]struct{}
}

func NewPending() *Pending {
	return &Pending{ids: make(map[pendingKey]struct{})}
}

// Begin marks kind/id as in flight. It returns false if it already was.
func (p *Pending) Begin(kind Kind, id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	k := pendingKey{kind: kind, id: id}
	if _, busy := p.ids[k]; busy {
		return false
	}
	p.ids[k] = struct{}{}
	return true
}

// Done clears kind/id. Clearing an id that is not in flight is a no-op.
func (p *Pending) Done(kind Kind, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.ids, pendingKey{kind: kind, id: id})
}

// Active reports whether kind/id is in flight.
func (p *Pending) Active(kind Kind, id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.ids[pendingKey{kind: kind, id: id}]
	return ok
}

// Len returns the number of operations in flight.
func (p *Pending) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ids)
}

// ProductKey renders a product id as a pending-set id.
func ProductKey(id int) string {
	return strconv.Itoa(id)
}
