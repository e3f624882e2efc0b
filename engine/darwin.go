//go:build darwin

package engine

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/objckit/objckit"
	"github.com/objckit/objckit/errors"
)

const (
	libobjcPath    = "/usr/lib/libobjc.A.dylib"
	foundationPath = "/System/Library/Frameworks/Foundation.framework/Foundation"
	maxInvokeWords = 6
	ptrSize        = unsafe.Sizeof(uintptr(0))
)

// objcRuntime implements objckit.Runtime over libobjc.
type objcRuntime struct {
	getClass       func(string) objckit.Class
	registerName   func(string) objckit.SEL
	selGetName     func(objckit.SEL) string
	classGetName   func(objckit.Class) string
	getSuperclass  func(objckit.Class) objckit.Class
	objectGetClass func(objckit.ID) objckit.Class
	copyMethodList func(objckit.Class, *uint32) uintptr
	methodGetName  func(uintptr) objckit.SEL
	methodGetImp   func(uintptr) objckit.IMP
	objcRetain     func(objckit.ID) objckit.ID
	objcRelease    func(objckit.ID)
	free           func(uintptr)
}

// New loads libobjc and Foundation and returns a live runtime binding.
// Foundation is loaded RTLD_GLOBAL so the standard class hierarchy is
// registered before the first lookup.
func New() (objckit.Runtime, error) {
	libobjc, err := purego.Dlopen(libobjcPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvokeFailed).
			Cause(err).
			Detail("loading %s", libobjcPath).
			Build()
	}
	if _, err := purego.Dlopen(foundationPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL); err != nil {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvokeFailed).
			Cause(err).
			Detail("loading Foundation").
			Build()
	}

	rt := &objcRuntime{}
	purego.RegisterLibFunc(&rt.getClass, libobjc, "objc_getClass")
	purego.RegisterLibFunc(&rt.registerName, libobjc, "sel_registerName")
	purego.RegisterLibFunc(&rt.selGetName, libobjc, "sel_getName")
	purego.RegisterLibFunc(&rt.classGetName, libobjc, "class_getName")
	purego.RegisterLibFunc(&rt.getSuperclass, libobjc, "class_getSuperclass")
	purego.RegisterLibFunc(&rt.objectGetClass, libobjc, "object_getClass")
	purego.RegisterLibFunc(&rt.copyMethodList, libobjc, "class_copyMethodList")
	purego.RegisterLibFunc(&rt.methodGetName, libobjc, "method_getName")
	purego.RegisterLibFunc(&rt.methodGetImp, libobjc, "method_getImplementation")
	purego.RegisterLibFunc(&rt.objcRetain, libobjc, "objc_retain")
	purego.RegisterLibFunc(&rt.objcRelease, libobjc, "objc_release")
	purego.RegisterLibFunc(&rt.free, purego.RTLD_DEFAULT, "free")

	logger().Debug("objc runtime bound", zap.String("lib", libobjcPath))
	return rt, nil
}

func (r *objcRuntime) LookUpClass(name string) (objckit.Class, bool) {
	cls := r.getClass(name)
	return cls, !cls.IsNil()
}

func (r *objcRuntime) Selector(name string) objckit.SEL {
	return r.registerName(name)
}

func (r *objcRuntime) SelectorName(sel objckit.SEL) string {
	if sel.IsNil() {
		return ""
	}
	return r.selGetName(sel)
}

func (r *objcRuntime) ClassName(cls objckit.Class) string {
	if cls.IsNil() {
		return ""
	}
	return r.classGetName(cls)
}

func (r *objcRuntime) Superclass(cls objckit.Class) (objckit.Class, bool) {
	super := r.getSuperclass(cls)
	return super, !super.IsNil()
}

func (r *objcRuntime) DynamicClass(obj objckit.ID) objckit.Class {
	if obj.IsNil() {
		return objckit.NilClass
	}
	return r.objectGetClass(obj)
}

// InstanceMethod scans the class's own method list. The list is a
// malloc'd C array of Method pointers and must be freed.
func (r *objcRuntime) InstanceMethod(cls objckit.Class, sel objckit.SEL) (objckit.IMP, bool) {
	return r.scanMethods(cls, sel)
}

// ClassMethod scans the metaclass's method list.
func (r *objcRuntime) ClassMethod(cls objckit.Class, sel objckit.SEL) (objckit.IMP, bool) {
	meta := r.objectGetClass(cls.Object())
	if meta.IsNil() {
		return 0, false
	}
	return r.scanMethods(meta, sel)
}

func (r *objcRuntime) scanMethods(cls objckit.Class, sel objckit.SEL) (objckit.IMP, bool) {
	var count uint32
	list := r.copyMethodList(cls, &count)
	if list == 0 {
		return 0, false
	}
	defer r.free(list)

	for i := uintptr(0); i < uintptr(count); i++ {
		method := *(*uintptr)(unsafe.Pointer(list + i*ptrSize))
		if r.methodGetName(method) == sel {
			return r.methodGetImp(method), true
		}
	}
	return 0, false
}

// SupportsFloats reports false: SyscallN loads integer registers only,
// so a float cell would never reach s0/d0 and the callee would read
// garbage. Dispatch rejects float-bearing sends up front.
func (r *objcRuntime) SupportsFloats() bool { return false }

// Invoke calls the implementation directly, bypassing objc_msgSend; the
// IMP was already resolved against the receiver's class.
func (r *objcRuntime) Invoke(imp objckit.IMP, recv objckit.ID, sel objckit.SEL, args []objckit.Word) (objckit.Word, error) {
	if len(args) > maxInvokeWords {
		return 0, errors.New(errors.PhaseRuntime, errors.KindUnsupported).
			Detail("%d arguments exceeds the %d-word invoke limit", len(args), maxInvokeWords).
			Build()
	}
	call := make([]uintptr, 0, 2+len(args))
	call = append(call, uintptr(recv), uintptr(sel))
	for _, w := range args {
		call = append(call, uintptr(w))
	}
	ret, _, _ := purego.SyscallN(uintptr(imp), call...)
	return objckit.Word(ret), nil
}

func (r *objcRuntime) Retain(obj objckit.ID) objckit.ID {
	if obj.IsNil() {
		return obj
	}
	return r.objcRetain(obj)
}

func (r *objcRuntime) Release(obj objckit.ID) {
	if obj.IsNil() {
		return
	}
	r.objcRelease(obj)
}
