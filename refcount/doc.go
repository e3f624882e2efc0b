// Package refcount enforces the retain/release/autorelease discipline
// over foreign object handles.
//
// # Ownership
//
// Every retain the bridge performs is tied to exactly one Ref. The Ref's
// Release is the matching decrement; borrowed Refs never decrement. This
// makes double-release and leaks unreachable for code that only moves
// handles through Refs — the manager does not detect violations at
// runtime, it makes them unrepresentable.
//
//	ref := m.RetainRef(h) // +1
//	defer ref.Release()   // the matching -1
//
// Handles returned by allocation/copy calls arrive already at +1:
//
//	ref := m.Adopt(h) // no retain; Release balances the alloc
//
// # Autorelease
//
// Pools are stack-disciplined scopes with guaranteed drain:
//
//	pool := m.PushPool()
//	defer pool.Drain()
//	m.Autorelease(h) // released when pool drains, even on panic
//
// Drain is idempotent and panics on out-of-order drains. Pools are
// confined to the goroutine that pushed them.
package refcount
