package enginetest

import (
	"fmt"
	"sync"

	"github.com/objckit/objckit"
)

// Func is a fake method implementation. It receives the receiver handle
// and marshaled argument cells and returns the raw result cell.
type Func func(recv objckit.ID, args []objckit.Word) objckit.Word

type classInfo struct {
	name     string
	super    objckit.Class
	hasSuper bool
	instance map[objckit.SEL]objckit.IMP
	class    map[objckit.SEL]objckit.IMP
}

type object struct {
	cls     objckit.Class
	retains int
	live    bool
}

// Fake is an in-memory object runtime implementing objckit.Runtime.
//
// It tracks reference counts per object and records discipline violations
// (over-release, retain of a deallocated object) instead of crashing, so
// tests can assert on them. Root classes get default alloc/init
// implementations matching the foreign runtime's base object behavior.
type Fake struct {
	mu         sync.Mutex
	classes    map[string]objckit.Class
	info       map[objckit.Class]*classInfo
	sels       map[string]objckit.SEL
	selNames   map[objckit.SEL]string
	imps       []Func
	objects    map[objckit.ID]*object
	releases   map[objckit.ID]int
	violations []string
	nextClass  uintptr
	nextObj    uintptr
}

// New creates an empty fake runtime.
func New() *Fake {
	return &Fake{
		classes:  make(map[string]objckit.Class),
		info:     make(map[objckit.Class]*classInfo),
		sels:     make(map[string]objckit.SEL),
		selNames: make(map[objckit.SEL]string),
		objects:  make(map[objckit.ID]*object),
		releases: make(map[objckit.ID]int),
	}
}

// DefineClass registers a class. An empty super makes it a root class,
// which receives default alloc and init implementations.
func (f *Fake) DefineClass(name, super string) objckit.Class {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.classes[name]; exists {
		panic(fmt.Sprintf("enginetest: class %q defined twice", name))
	}

	ci := &classInfo{
		name:     name,
		instance: make(map[objckit.SEL]objckit.IMP),
		class:    make(map[objckit.SEL]objckit.IMP),
	}
	if super != "" {
		sc, ok := f.classes[super]
		if !ok {
			panic(fmt.Sprintf("enginetest: superclass %q of %q not defined", super, name))
		}
		ci.super = sc
		ci.hasSuper = true
	}

	f.nextClass++
	cls := objckit.Class(0x1000 + f.nextClass)
	f.classes[name] = cls
	f.info[cls] = ci

	if super == "" {
		// Implementations run unlocked (see Invoke), so alloc takes the
		// lock itself.
		ci.class[f.selector("alloc")] = f.register(func(recv objckit.ID, _ []objckit.Word) objckit.Word {
			f.mu.Lock()
			defer f.mu.Unlock()
			return objckit.Word(f.allocInstance(objckit.Class(recv)))
		})
		ci.instance[f.selector("init")] = f.register(func(recv objckit.ID, _ []objckit.Word) objckit.Word {
			return objckit.Word(recv)
		})
	}

	return cls
}

// DefineMethod installs an instance method implementation on a class.
func (f *Fake) DefineMethod(class, sel string, fn Func) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ci := f.mustInfo(class)
	ci.instance[f.selector(sel)] = f.register(fn)
}

// DefineClassMethod installs a class method implementation on a class.
func (f *Fake) DefineClassMethod(class, sel string, fn Func) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ci := f.mustInfo(class)
	ci.class[f.selector(sel)] = f.register(fn)
}

// NewInstance allocates an instance of class with reference count 1.
func (f *Fake) NewInstance(class string) objckit.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	cls, ok := f.classes[class]
	if !ok {
		panic(fmt.Sprintf("enginetest: class %q not defined", class))
	}
	return f.allocInstance(cls)
}

// RetainCount returns the current reference count, or 0 for dead handles.
func (f *Fake) RetainCount(obj objckit.ID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.objects[obj]; ok && o.live {
		return o.retains
	}
	return 0
}

// Live reports whether the object has not been deallocated.
func (f *Fake) Live(obj objckit.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.objects[obj]
	return ok && o.live
}

// Releases returns how many release operations the object has received
// over its whole lifetime, including the deallocating one.
func (f *Fake) Releases(obj objckit.ID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releases[obj]
}

// Violations returns recorded ownership-discipline violations.
func (f *Fake) Violations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.violations))
	copy(out, f.violations)
	return out
}

// Classes returns the names of all defined classes.
func (f *Fake) Classes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.classes))
	for name := range f.classes {
		names = append(names, name)
	}
	return names
}

// Selectors returns the names of the instance and class selectors a class
// provides directly.
func (f *Fake) Selectors(class string) (instance, classMethods []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cls, ok := f.classes[class]
	if !ok {
		return nil, nil
	}
	ci := f.info[cls]
	for sel := range ci.instance {
		instance = append(instance, f.selNames[sel])
	}
	for sel := range ci.class {
		classMethods = append(classMethods, f.selNames[sel])
	}
	return instance, classMethods
}

// locked helpers

func (f *Fake) mustInfo(class string) *classInfo {
	cls, ok := f.classes[class]
	if !ok {
		panic(fmt.Sprintf("enginetest: class %q not defined", class))
	}
	return f.info[cls]
}

func (f *Fake) selector(name string) objckit.SEL {
	if sel, ok := f.sels[name]; ok {
		return sel
	}
	sel := objckit.SEL(0x2000 + uintptr(len(f.sels)) + 1)
	f.sels[name] = sel
	f.selNames[sel] = name
	return sel
}

func (f *Fake) register(fn Func) objckit.IMP {
	f.imps = append(f.imps, fn)
	return objckit.IMP(len(f.imps))
}

func (f *Fake) allocInstance(cls objckit.Class) objckit.ID {
	f.nextObj++
	id := objckit.ID(0x10000 + f.nextObj)
	f.objects[id] = &object{cls: cls, retains: 1, live: true}
	return id
}

func (f *Fake) violate(format string, args ...any) {
	f.violations = append(f.violations, fmt.Sprintf(format, args...))
}
