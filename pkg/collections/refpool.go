package collections

// RefPool is a RefStore that additionally interns by value: pushing an
// equal value twice returns the same Ref both times. This backs structural
// interning of compound expressions (§4.2) and STN edges (§4.5) — equal
// expressions or equal canonical edges must collapse to one handle.
type RefPool[V comparable] struct {
	store   RefStore[V]
	indexOf map[V]Ref
}

// NewRefPool creates an empty interning pool.
func NewRefPool[V comparable](capacityHint int) *RefPool[V] {
	return &RefPool[V]{
		store:   *NewRefStore[V](capacityHint),
		indexOf: make(map[V]Ref, capacityHint),
	}
}

// Intern returns the Ref for v, creating one if this is the first time v
// has been seen. The second return value is true if this call created a
// fresh entry, false if v was already interned.
func (p *RefPool[V]) Intern(v V) (Ref, bool) {
	if r, ok := p.indexOf[v]; ok {
		return r, false
	}
	r := p.store.Push(v)
	p.indexOf[v] = r
	return r, true
}

// Lookup returns the Ref already associated with v, if any, without
// creating one.
func (p *RefPool[V]) Lookup(v V) (Ref, bool) {
	r, ok := p.indexOf[v]
	return r, ok
}

// Get returns the value at r.
func (p *RefPool[V]) Get(r Ref) V {
	return p.store.Get(r)
}

// Len returns the number of distinct values interned.
func (p *RefPool[V]) Len() int {
	return p.store.Len()
}
