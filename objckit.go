package objckit

import "fmt"

// ID is an opaque handle to an Objective-C object instance.
// The zero value is Nil, the null object.
type ID uintptr

// Nil is the null object handle.
const Nil ID = 0

// IsNil reports whether the handle is the null object.
func (id ID) IsNil() bool { return id == Nil }

// String formats the handle as a hex address.
func (id ID) String() string { return fmt.Sprintf("0x%x", uintptr(id)) }

// Class is a handle to a class object. Class objects are objects
// themselves; Object converts for sends that target the class.
type Class uintptr

// NilClass is the null class handle.
const NilClass Class = 0

// IsNil reports whether the class handle is null.
func (c Class) IsNil() bool { return c == NilClass }

// Object returns the class object as an instance handle.
func (c Class) Object() ID { return ID(c) }

// SEL is an interned selector. Selectors are process-unique: interning
// the same name twice through one Runtime yields the same SEL.
type SEL uintptr

// IsNil reports whether the selector is null.
func (s SEL) IsNil() bool { return s == 0 }

// IMP is a resolved method implementation. IMPs are only meaningful to
// the Runtime that produced them and stay valid for the process lifetime.
type IMP uintptr

// Word is one argument or return cell at the C calling convention
// boundary. Pointers, handles, and integers pass as-is; floats pass
// bit-cast. Marshaling to and from Word lives in package marshal.
type Word uintptr

// Runtime is the boundary to the foreign object runtime.
//
// Two implementations exist: package engine binds the real Objective-C
// runtime through libobjc (darwin only), and package enginetest provides
// an in-memory fake for tests and demos.
//
// Method lookup is deliberately shallow: InstanceMethod and ClassMethod
// report only methods the class itself provides, not inherited ones.
// Walking the ancestry and caching the result is the dispatch engine's
// job, so resolution policy stays in one place.
type Runtime interface {
	// LookUpClass returns the class object registered under name.
	LookUpClass(name string) (Class, bool)

	// Selector interns a selector name.
	Selector(name string) SEL

	// SelectorName returns the name a selector was interned under.
	SelectorName(sel SEL) string

	// ClassName returns the name of a class.
	ClassName(cls Class) string

	// Superclass returns the direct superclass, or false for a root class.
	Superclass(cls Class) (Class, bool)

	// DynamicClass returns the runtime class of an instance.
	DynamicClass(obj ID) Class

	// InstanceMethod returns the implementation of sel provided directly
	// by cls, not by its ancestors.
	InstanceMethod(cls Class, sel SEL) (IMP, bool)

	// ClassMethod is InstanceMethod for the class (metaclass) side.
	ClassMethod(cls Class, sel SEL) (IMP, bool)

	// Invoke calls a resolved implementation with the receiver, the
	// selector, and marshaled arguments, returning the raw result cell.
	Invoke(imp IMP, recv ID, sel SEL, args []Word) (Word, error)

	// Retain increments the object's reference count. No-op on Nil.
	Retain(obj ID) ID

	// Release decrements the object's reference count, deallocating at
	// zero. No-op on Nil.
	Release(obj ID)
}

// FloatABI is optionally implemented by a Runtime whose Invoke path
// cannot carry floating-point cells. The C ABI passes floats in FP
// registers, which a word-based call path never loads; dispatch rejects
// float-bearing sends to such a runtime instead of miscalling.
// Runtimes that do not implement FloatABI are assumed to carry floats.
type FloatABI interface {
	SupportsFloats() bool
}
