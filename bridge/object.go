package bridge

import (
	"fmt"

	"github.com/objckit/objckit"
	"github.com/objckit/objckit/refcount"
)

// Object is the root host wrapper. Generated wrappers for root foreign
// classes embed Object; deeper classes embed their superclass wrapper,
// so the whole chain's surface arrives through embedding.
//
// An Object owns exactly one reference (or holds a borrowed one, for
// types that never own their backing object) and nothing else. Equality
// and identity are handle equality.
type Object struct {
	br  *Bridge
	ref *refcount.Ref
}

// Wrap builds a wrapper from an existing reference. Generated
// constructors funnel through here.
func (b *Bridge) Wrap(ref *refcount.Ref) Object {
	return Object{br: b, ref: ref}
}

// WrapOwned adopts a handle the caller already owns (+1 transferred).
func (b *Bridge) WrapOwned(h objckit.ID) Object {
	return Object{br: b, ref: b.refs.Adopt(h)}
}

// WrapRetained retains the handle and wraps it owned.
func (b *Bridge) WrapRetained(h objckit.ID) Object {
	return Object{br: b, ref: b.refs.RetainRef(h)}
}

// WrapBorrowed wraps a handle without taking ownership.
func (b *Bridge) WrapBorrowed(h objckit.ID) Object {
	return Object{br: b, ref: b.refs.Borrow(h)}
}

// Bridge returns the bridge the object belongs to.
func (o Object) Bridge() *Bridge { return o.br }

// Ref returns the object's reference.
func (o Object) Ref() *refcount.Ref { return o.ref }

// Handle returns the wrapped handle.
func (o Object) Handle() objckit.ID { return o.ref.Handle() }

// IsNil reports whether the wrapper holds the null object.
func (o Object) IsNil() bool { return o.ref == nil || o.ref.IsNil() }

// Equal reports handle equality. Two wrappers are the same object when
// their handles match, regardless of how each was obtained.
func (o Object) Equal(p Object) bool {
	if o.IsNil() || p.IsNil() {
		return o.IsNil() == p.IsNil()
	}
	return o.Handle() == p.Handle()
}

// ClassName returns the runtime class name, or "" for nil.
func (o Object) ClassName() string {
	if o.IsNil() {
		return ""
	}
	rt := o.br.Runtime()
	return rt.ClassName(rt.DynamicClass(o.Handle()))
}

// String formats the wrapper as <ClassName 0x…>. Formatting never
// dispatches, so it is safe on objects mid-teardown and in logs.
func (o Object) String() string {
	if o.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("<%s %s>", o.ClassName(), o.Handle())
}

// Retain clones the underlying reference and returns a new owned
// wrapper for it.
func (o Object) Retain() Object {
	return Object{br: o.br, ref: o.ref.Clone()}
}

// Release ends the wrapper's reference.
func (o Object) Release() {
	o.ref.Release()
}

// Autorelease moves the wrapper's ownership to the innermost active
// pool and returns the handle.
func (o Object) Autorelease() objckit.ID {
	return o.ref.Autorelease()
}
