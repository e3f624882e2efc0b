package refcount

import "github.com/objckit/objckit"

// Ref pairs a handle with an ownership tag. An owned Ref is responsible
// for exactly one release; a borrowed Ref must never release.
//
// A Ref is dead after Release or Autorelease. Using a dead Ref is a
// discipline violation and panics; the handle behind it may already be
// deallocated, so there is nothing safe left to do with it.
type Ref struct {
	m     *Manager
	h     objckit.ID
	owned bool
	dead  bool
}

// Handle returns the wrapped handle.
func (r *Ref) Handle() objckit.ID {
	if r.dead {
		panic("refcount: use of released reference")
	}
	return r.h
}

// Owned reports whether this reference is responsible for a release.
func (r *Ref) Owned() bool { return r.owned }

// IsNil reports whether the reference wraps the null handle.
func (r *Ref) IsNil() bool { return r.h.IsNil() }

// Clone retains the handle again and returns a new owned Ref. Cloning a
// borrowed Ref upgrades the copy to owned; the original stays borrowed.
func (r *Ref) Clone() *Ref {
	if r.dead {
		panic("refcount: clone of released reference")
	}
	return r.m.RetainRef(r.h)
}

// Release ends the reference. An owned Ref decrements the count; a
// borrowed Ref only invalidates. Releasing twice panics: the second call
// means two owners believed they held the same +1.
func (r *Ref) Release() {
	if r.dead {
		panic("refcount: double release of reference")
	}
	r.dead = true
	if r.owned {
		r.m.Release(r.h)
	}
}

// Forget relinquishes ownership without releasing and returns the
// handle. This is the transfer primitive: when a foreign call consumes
// the +1 this Ref was responsible for (an init consuming its alloc, a
// setter documented to take ownership), the Ref must die without a
// decrement. Forgetting a borrowed Ref just invalidates it.
func (r *Ref) Forget() objckit.ID {
	if r.dead {
		panic("refcount: forget of released reference")
	}
	r.dead = true
	return r.h
}

// Autorelease moves the Ref's ownership to the innermost active pool and
// returns the handle. The Ref is dead afterwards; the pool performs the
// release this Ref was responsible for. Borrowed Refs cannot autorelease,
// there is no +1 to transfer.
func (r *Ref) Autorelease() objckit.ID {
	if r.dead {
		panic("refcount: autorelease of released reference")
	}
	if !r.owned {
		panic("refcount: autorelease of borrowed reference")
	}
	r.dead = true
	return r.m.Autorelease(r.h)
}
