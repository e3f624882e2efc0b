package refcount

import (
	"testing"

	"github.com/objckit/objckit"
	"github.com/objckit/objckit/enginetest"
)

func newManager(t *testing.T) (*Manager, *enginetest.Fake) {
	t.Helper()
	rt := enginetest.New()
	rt.DefineClass("Object", "")
	rt.DefineClass("Box", "Object")
	return NewManager(rt), rt
}

func mustPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s did not panic", what)
		}
	}()
	fn()
}

func TestRetainReleaseNetZero(t *testing.T) {
	m, rt := newManager(t)
	h := rt.NewInstance("Box")

	before := rt.RetainCount(h)
	m.Release(m.Retain(h))
	if got := rt.RetainCount(h); got != before {
		t.Fatalf("count = %d, want %d", got, before)
	}
	if !rt.Live(h) {
		t.Fatal("object died under a balanced pair")
	}
}

func TestRetainNilIsNoOp(t *testing.T) {
	m, rt := newManager(t)
	if got := m.Retain(objckit.Nil); got != objckit.Nil {
		t.Fatalf("retain(nil) = %v", got)
	}
	m.Release(objckit.Nil)
	if len(rt.Violations()) != 0 {
		t.Fatalf("violations: %v", rt.Violations())
	}
}

func TestRef_OwnedLifecycle(t *testing.T) {
	m, rt := newManager(t)
	h := rt.NewInstance("Box")

	ref := m.RetainRef(h)
	if !ref.Owned() {
		t.Fatal("RetainRef should produce an owned ref")
	}
	if rt.RetainCount(h) != 2 {
		t.Fatalf("count = %d", rt.RetainCount(h))
	}
	if ref.Handle() != h {
		t.Fatal("wrong handle")
	}

	ref.Release()
	if rt.RetainCount(h) != 1 {
		t.Fatalf("count after release = %d", rt.RetainCount(h))
	}

	mustPanic(t, "double release", ref.Release)
	mustPanic(t, "use after release", func() { _ = ref.Handle() })
	mustPanic(t, "clone after release", func() { ref.Clone() })
}

func TestRef_AdoptBalancesAlloc(t *testing.T) {
	m, rt := newManager(t)
	h := rt.NewInstance("Box") // arrives at +1, ownership transferred

	ref := m.Adopt(h)
	if rt.RetainCount(h) != 1 {
		t.Fatalf("adopt must not retain, count = %d", rt.RetainCount(h))
	}
	ref.Release()
	if rt.Live(h) {
		t.Fatal("adopted ref's release should deallocate")
	}
	if len(rt.Violations()) != 0 {
		t.Fatalf("violations: %v", rt.Violations())
	}
}

func TestRef_BorrowedNeverDecrements(t *testing.T) {
	m, rt := newManager(t)
	h := rt.NewInstance("Box")

	ref := m.Borrow(h)
	if ref.Owned() {
		t.Fatal("borrow should not own")
	}
	ref.Release()
	if rt.RetainCount(h) != 1 {
		t.Fatalf("borrowed release decremented, count = %d", rt.RetainCount(h))
	}
	mustPanic(t, "use after release", func() { _ = ref.Handle() })
}

func TestRef_Clone(t *testing.T) {
	m, rt := newManager(t)
	h := rt.NewInstance("Box")

	borrowed := m.Borrow(h)
	owned := borrowed.Clone()
	if !owned.Owned() {
		t.Fatal("clone should own")
	}
	if rt.RetainCount(h) != 2 {
		t.Fatalf("count = %d", rt.RetainCount(h))
	}

	owned.Release()
	if rt.RetainCount(h) != 1 {
		t.Fatalf("count = %d", rt.RetainCount(h))
	}
	// Original borrow is still usable.
	if borrowed.Handle() != h {
		t.Fatal("borrow invalidated by clone's release")
	}
}

func TestRef_ForgetTransfersWithoutRelease(t *testing.T) {
	m, rt := newManager(t)
	h := rt.NewInstance("Box")

	ref := m.Adopt(h)
	if got := ref.Forget(); got != h {
		t.Fatalf("forget returned %v", got)
	}
	if rt.Releases(h) != 0 {
		t.Fatal("forget must not release")
	}
	mustPanic(t, "use after forget", func() { _ = ref.Handle() })
	mustPanic(t, "release after forget", ref.Release)

	// The +1 still exists; whoever it was transferred to balances it.
	m.Release(h)
	if rt.Live(h) || len(rt.Violations()) != 0 {
		t.Fatalf("live=%v violations=%v", rt.Live(h), rt.Violations())
	}
}

func TestUnmatchedReleaseIsFlagged(t *testing.T) {
	m, rt := newManager(t)
	h := rt.NewInstance("Box")

	// Two retains balanced by two releases, plus the allocation's one.
	m.Retain(h)
	m.Retain(h)
	m.Release(h)
	m.Release(h)
	m.Release(h)
	if len(rt.Violations()) != 0 {
		t.Fatalf("balanced sequence flagged: %v", rt.Violations())
	}

	// One more release than the object ever received retains.
	m.Release(h)
	if len(rt.Violations()) != 1 {
		t.Fatalf("violations = %v", rt.Violations())
	}
}
