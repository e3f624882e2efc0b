package dispatch

import (
	"sync"

	"go.uber.org/zap"

	"github.com/objckit/objckit"
	"github.com/objckit/objckit/errors"
	"github.com/objckit/objckit/marshal"
	"github.com/objckit/objckit/refcount"
	"github.com/objckit/objckit/trait"
)

// Engine resolves selectors against the foreign ancestry chain and sends
// messages with marshaling and ownership applied. Safe for concurrent
// use; resolution results are cached for the process lifetime since
// (class, selector) pairs are stable.
type Engine struct {
	rt    objckit.Runtime
	refs  *refcount.Manager
	cache sync.Map // cacheKey -> objckit.IMP
}

type cacheKey struct {
	cls       objckit.Class
	sel       objckit.SEL
	classSide bool
}

// New creates an engine over a runtime and its reference manager.
func New(rt objckit.Runtime, refs *refcount.Manager) *Engine {
	return &Engine{rt: rt, refs: refs}
}

// Runtime returns the underlying runtime.
func (e *Engine) Runtime() objckit.Runtime { return e.rt }

// Manager returns the reference manager results are wrapped with.
func (e *Engine) Manager() *refcount.Manager { return e.refs }

// Resolve finds the implementation of sel for a class, walking the
// ancestry most-derived first; the first ancestor providing the selector
// wins. classSide selects class-method lookup. The result is cached
// under the starting (dynamic) class.
func (e *Engine) Resolve(cls objckit.Class, sel objckit.SEL, classSide bool) (objckit.IMP, error) {
	key := cacheKey{cls: cls, sel: sel, classSide: classSide}
	if imp, ok := e.cache.Load(key); ok {
		return imp.(objckit.IMP), nil
	}

	for c := cls; ; {
		var (
			imp objckit.IMP
			ok  bool
		)
		if classSide {
			imp, ok = e.rt.ClassMethod(c, sel)
		} else {
			imp, ok = e.rt.InstanceMethod(c, sel)
		}
		if ok {
			e.cache.Store(key, imp)
			logger().Debug("selector resolved",
				zap.String("class", e.rt.ClassName(cls)),
				zap.String("selector", e.rt.SelectorName(sel)),
				zap.String("provider", e.rt.ClassName(c)))
			return imp, nil
		}
		super, more := e.rt.Superclass(c)
		if !more {
			return 0, errors.SelectorNotFound(e.rt.ClassName(cls), e.rt.SelectorName(sel))
		}
		c = super
	}
}

// Send resolves and invokes a declared method on a receiver.
//
// Arguments are marshaled per the declaration before the call; a value
// that cannot be represented fails the send without attempting it.
// Object results come back as a refcount.Ref, owned when the method
// transfers ownership and borrowed otherwise; all other results come
// back as the kind's Go type.
//
// A Nil receiver returns the declared zero value for nil-tolerant
// instance methods (no call is attempted) and a resolution error for
// everything else. For class methods the receiver is the class object.
func (e *Engine) Send(recv objckit.ID, m trait.Method, args ...any) (any, error) {
	var cls objckit.Class
	if m.ClassMethod {
		cls = objckit.Class(recv)
		if cls.IsNil() {
			return nil, errors.NilReceiver(m.Sel)
		}
	} else {
		if recv.IsNil() {
			if m.NilTolerant {
				return e.zeroResult(m), nil
			}
			return nil, errors.NilReceiver(m.Sel)
		}
		cls = e.rt.DynamicClass(recv)
		if cls.IsNil() {
			return nil, errors.New(errors.PhaseResolve, errors.KindNotFound).
				Sel(m.Sel).
				Detail("receiver has no runtime class").
				Build()
		}
	}

	if usesFloats(m) {
		if fa, ok := e.rt.(objckit.FloatABI); ok && !fa.SupportsFloats() {
			return nil, errors.New(errors.PhaseRuntime, errors.KindUnsupported).
				Sel(m.Sel).
				Detail("runtime call path cannot carry float values").
				Build()
		}
	}

	words, err := marshal.EncodeArgs(m.Sel, m.Params, args)
	if err != nil {
		return nil, err
	}

	sel := e.rt.Selector(m.Sel)
	imp, err := e.Resolve(cls, sel, m.ClassMethod)
	if err != nil {
		return nil, err
	}

	w, err := e.rt.Invoke(imp, recv, sel, words)
	if err != nil {
		return nil, errors.InvokeFailed(m.Sel, err)
	}

	result, err := marshal.DecodeResult(m.Sel, m.Result, w)
	if err != nil {
		return nil, err
	}
	if m.Result.IsObject() {
		return e.wrapObject(m, result.(objckit.ID)), nil
	}
	return result, nil
}

// usesFloats reports whether any cell of the method's signature travels
// in FP registers.
func usesFloats(m trait.Method) bool {
	if m.Result.IsFloat() {
		return true
	}
	for _, p := range m.Params {
		if p.IsFloat() {
			return true
		}
	}
	return false
}

func (e *Engine) zeroResult(m trait.Method) any {
	if m.Result.IsObject() {
		return e.refs.Borrow(objckit.Nil)
	}
	return marshal.Zero(m.Result)
}

func (e *Engine) wrapObject(m trait.Method, id objckit.ID) *refcount.Ref {
	if m.TransfersOwnership() {
		return e.refs.Adopt(id)
	}
	return e.refs.Borrow(id)
}
