// Package objckit bridges Go programs to an Objective-C style
// reference-counted object runtime.
//
// The bridge is a small set of primitives; everything framework-shaped is
// generated on top of them and lives outside this module.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	objckit/          Root package with handle types and the Runtime boundary
//	├── refcount/     Owned/borrowed references and autorelease pools
//	├── dispatch/     Selector resolution cache and message sending
//	├── marshal/      Go <-> C ABI value conversion
//	├── trait/        Capability descriptors and composition rules
//	├── gen/          Wrapper and method-body source generation
//	├── bridge/       High-level bundle and the base Object wrapper
//	├── engine/       Real runtime backend over libobjc (darwin)
//	├── enginetest/   In-memory fake runtime for tests and demos
//	└── errors/       Structured error types for debugging
//
// # Quick Start
//
// Open a runtime, wrap an object, send it a message:
//
//	br := bridge.New(rt)
//	box, err := br.NewObject("Box")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer box.Release()
//
//	n, err := dispatch.Call[int64](br.Dispatch(), box.Handle(), lengthMethod)
//
// # Ownership
//
// Every retain is tied to exactly one refcount.Ref; releasing happens when
// the owning Ref is released, or when an autorelease pool drains. Borrowed
// refs never release. The discipline is enforced by construction, not
// detected at runtime: dispatching through a stale handle is undefined.
//
// # Thread Safety
//
// The dispatch cache and trait registry are safe for concurrent use.
// Handles, refs, and pools are confined to one goroutine unless the
// underlying foreign class documents thread safety; the bridge adds no
// locking around foreign calls.
package objckit
