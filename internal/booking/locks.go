package booking

import "sync"

// propertyLocks serializes racing creations per property, so the
// availability re-check and the insert execute under mutual exclusion
// for one property while unrelated properties proceed in parallel.
// The Postgres exclusion constraint remains the backstop for multiple
// application instances sharing one database.
type propertyLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newPropertyLocks() *propertyLocks {
	return &propertyLocks{
		locks: make(map[int64]*sync.Mutex),
	}
}

// Lock acquires the lock for a property and returns its unlock func.
func (p *propertyLocks) Lock(propertyID int64) func() {
	p.mu.Lock()
	l, ok := p.locks[propertyID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[propertyID] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
