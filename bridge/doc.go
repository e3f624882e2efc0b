// Package bridge bundles a runtime, its reference manager, and its
// dispatch engine behind one handle-owning base wrapper.
//
// Generated binding packages build on two pieces here: Bridge, which
// every wrapper carries a pointer to, and Object, the root wrapper that
// generated types embed directly or through their superclass wrapper.
//
//	br := bridge.New(rt)
//	box, err := br.NewObject("Box")
//	if err != nil { ... }
//	defer box.Release()
package bridge
