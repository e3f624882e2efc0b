package refcount

import "github.com/objckit/objckit"

// Pool is one autorelease scope. Pools nest strictly: the pool pushed
// last must drain first. Drain is idempotent so it can sit in a defer
// alongside an early manual drain.
type Pool struct {
	m       *Manager
	pending []objckit.ID
	drained bool
}

// Add registers a handle with this pool for deferred release and returns
// it for chaining. No-op on Nil. Panics if the pool has drained.
func (p *Pool) Add(h objckit.ID) objckit.ID {
	if h.IsNil() {
		return objckit.Nil
	}
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.drained {
		panic("refcount: add to drained pool")
	}
	p.pending = append(p.pending, h)
	return h
}

// Len returns the number of handles awaiting release.
func (p *Pool) Len() int {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	return len(p.pending)
}

// Drain releases every registered handle exactly once and exits the
// scope. Draining while an inner pool is still active panics and leaves
// the pool active, so a later in-order Drain still releases its
// handles; draining an already-drained pool is a no-op.
func (p *Pool) Drain() {
	p.m.drainPool(p)
}
