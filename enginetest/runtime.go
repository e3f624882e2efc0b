package enginetest

import (
	"fmt"

	"github.com/objckit/objckit"
)

// objckit.Runtime implementation.

// LookUpClass returns the class object registered under name.
func (f *Fake) LookUpClass(name string) (objckit.Class, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cls, ok := f.classes[name]
	return cls, ok
}

// Selector interns a selector name.
func (f *Fake) Selector(name string) objckit.SEL {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selector(name)
}

// SelectorName returns the name a selector was interned under.
func (f *Fake) SelectorName(sel objckit.SEL) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selNames[sel]
}

// ClassName returns the name of a class.
func (f *Fake) ClassName(cls objckit.Class) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ci, ok := f.info[cls]; ok {
		return ci.name
	}
	return ""
}

// Superclass returns the direct superclass, or false for a root class.
func (f *Fake) Superclass(cls objckit.Class) (objckit.Class, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ci, ok := f.info[cls]; ok && ci.hasSuper {
		return ci.super, true
	}
	return objckit.NilClass, false
}

// DynamicClass returns the runtime class of an instance. Class objects
// report themselves, mirroring sends that target the class.
func (f *Fake) DynamicClass(obj objckit.ID) objckit.Class {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.objects[obj]; ok && o.live {
		return o.cls
	}
	if _, ok := f.info[objckit.Class(obj)]; ok {
		return objckit.Class(obj)
	}
	return objckit.NilClass
}

// InstanceMethod returns the implementation of sel provided directly by
// cls, not by its ancestors.
func (f *Fake) InstanceMethod(cls objckit.Class, sel objckit.SEL) (objckit.IMP, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ci, ok := f.info[cls]; ok {
		imp, ok := ci.instance[sel]
		return imp, ok
	}
	return 0, false
}

// ClassMethod returns the class-side implementation of sel provided
// directly by cls.
func (f *Fake) ClassMethod(cls objckit.Class, sel objckit.SEL) (objckit.IMP, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ci, ok := f.info[cls]; ok {
		imp, ok := ci.class[sel]
		return imp, ok
	}
	return 0, false
}

// Invoke calls a resolved implementation.
func (f *Fake) Invoke(imp objckit.IMP, recv objckit.ID, sel objckit.SEL, args []objckit.Word) (objckit.Word, error) {
	f.mu.Lock()
	if imp == 0 || int(imp) > len(f.imps) {
		f.mu.Unlock()
		return 0, fmt.Errorf("enginetest: invalid implementation %#x for %s", uintptr(imp), f.selNames[sel])
	}
	fn := f.imps[imp-1]
	f.mu.Unlock()

	// The foreign call runs unlocked so implementations may call back
	// into the runtime.
	return fn(recv, args), nil
}

// Retain increments the object's reference count. No-op on Nil.
func (f *Fake) Retain(obj objckit.ID) objckit.ID {
	if obj.IsNil() {
		return objckit.Nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.objects[obj]
	if !ok || !o.live {
		f.violate("retain of dead handle %s", obj)
		return obj
	}
	o.retains++
	return obj
}

// Release decrements the object's reference count, deallocating at zero.
// No-op on Nil. Unbalanced releases are recorded as violations.
func (f *Fake) Release(obj objckit.ID) {
	if obj.IsNil() {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.objects[obj]
	if !ok || !o.live {
		f.violate("release of dead handle %s", obj)
		f.releases[obj]++
		return
	}
	f.releases[obj]++
	o.retains--
	if o.retains == 0 {
		o.live = false
	}
}

var _ objckit.Runtime = (*Fake)(nil)
