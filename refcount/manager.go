package refcount

import (
	"sync"

	"go.uber.org/zap"

	"github.com/objckit/objckit"
)

// Manager ties retain/release bookkeeping to Ref lifetimes and owns the
// autorelease pool stack for its runtime.
type Manager struct {
	rt    objckit.Runtime
	mu    sync.Mutex
	pools []*Pool
}

// NewManager creates a manager over a runtime.
func NewManager(rt objckit.Runtime) *Manager {
	return &Manager{rt: rt}
}

// Runtime returns the underlying runtime.
func (m *Manager) Runtime() objckit.Runtime { return m.rt }

// Retain increments the handle's reference count and returns it.
// No-op on Nil. Prefer RetainRef: a raw retain has no Ref tied to it, so
// the matching release is the caller's problem.
func (m *Manager) Retain(h objckit.ID) objckit.ID {
	if h.IsNil() {
		return objckit.Nil
	}
	return m.rt.Retain(h)
}

// Release decrements the handle's reference count. No-op on Nil.
func (m *Manager) Release(h objckit.ID) {
	if h.IsNil() {
		return
	}
	m.rt.Release(h)
}

// Adopt wraps a handle the caller already owns (a +1 transferred by an
// alloc/new/copy-style call) without touching the count.
func (m *Manager) Adopt(h objckit.ID) *Ref {
	return &Ref{m: m, h: h, owned: true}
}

// RetainRef retains the handle and returns an owned Ref whose Release
// balances the retain.
func (m *Manager) RetainRef(h objckit.ID) *Ref {
	m.Retain(h)
	return &Ref{m: m, h: h, owned: true}
}

// Borrow wraps a handle without ownership; releasing a borrowed Ref never
// decrements.
func (m *Manager) Borrow(h objckit.ID) *Ref {
	return &Ref{m: m, h: h}
}

// PushPool enters an autorelease scope. The returned pool must be drained
// on the same goroutine, normally via defer:
//
//	pool := m.PushPool()
//	defer pool.Drain()
func (m *Manager) PushPool() *Pool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &Pool{m: m}
	m.pools = append(m.pools, p)
	logger().Debug("autorelease pool pushed", zap.Int("depth", len(m.pools)))
	return p
}

// Autorelease registers the handle with the innermost active pool for
// deferred release and returns it for chaining. No-op on Nil. Calling
// with no active pool is a discipline violation and panics.
func (m *Manager) Autorelease(h objckit.ID) objckit.ID {
	if h.IsNil() {
		return objckit.Nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pools) == 0 {
		panic("refcount: autorelease with no active pool")
	}
	p := m.pools[len(m.pools)-1]
	p.pending = append(p.pending, h)
	return h
}

// drainPool releases a pool's pending handles and pops it. Out-of-order
// drains panic before the pool is marked drained, so a recovered caller
// that then drains in order still releases every pending handle.
func (m *Manager) drainPool(p *Pool) {
	m.mu.Lock()
	if p.drained {
		m.mu.Unlock()
		return
	}
	if len(m.pools) == 0 || m.pools[len(m.pools)-1] != p {
		m.mu.Unlock()
		panic("refcount: pool drained out of order")
	}
	p.drained = true
	m.pools = m.pools[:len(m.pools)-1]
	pending := p.pending
	p.pending = nil
	m.mu.Unlock()

	logger().Debug("autorelease pool drained", zap.Int("handles", len(pending)))
	for _, h := range pending {
		m.rt.Release(h)
	}
}
