// Package enginetest provides an in-memory objckit.Runtime for tests,
// demos, and CI on platforms without the real runtime.
//
// The fake keeps a class table with single-inheritance chains, interned
// selectors, per-class method tables backed by Go functions, and per-object
// reference counts. Unlike the real runtime, it survives discipline
// violations and records them for assertion:
//
//	rt := enginetest.New()
//	rt.DefineClass("Object", "")
//	rt.DefineClass("Box", "Object")
//	rt.DefineMethod("Box", "length", func(recv objckit.ID, _ []objckit.Word) objckit.Word {
//	    return 42
//	})
//
//	h := rt.NewInstance("Box")
//	rt.Release(h)
//	rt.Release(h) // recorded, not fatal
//	if v := rt.Violations(); len(v) != 1 { ... }
//
// Root classes receive default alloc/init implementations so the
// bridge-level construction path works without per-test wiring.
package enginetest
