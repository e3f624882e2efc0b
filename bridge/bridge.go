package bridge

import (
	"go.uber.org/zap"

	"github.com/objckit/objckit"
	"github.com/objckit/objckit/dispatch"
	"github.com/objckit/objckit/errors"
	"github.com/objckit/objckit/marshal"
	"github.com/objckit/objckit/refcount"
	"github.com/objckit/objckit/trait"
)

// Bridge bundles a runtime with its reference manager and dispatch
// engine. One Bridge per runtime; generated wrapper types carry a
// pointer to it.
type Bridge struct {
	rt   objckit.Runtime
	refs *refcount.Manager
	eng  *dispatch.Engine
	log  *zap.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger routes the bridge packages' logging through l.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) {
		b.log = l
		dispatch.SetLogger(l)
		refcount.SetLogger(l)
	}
}

// New creates a bridge over a runtime.
func New(rt objckit.Runtime, opts ...Option) *Bridge {
	b := &Bridge{
		rt:   rt,
		refs: refcount.NewManager(rt),
		log:  zap.NewNop(),
	}
	b.eng = dispatch.New(rt, b.refs)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Runtime returns the underlying runtime.
func (b *Bridge) Runtime() objckit.Runtime { return b.rt }

// Refs returns the reference manager.
func (b *Bridge) Refs() *refcount.Manager { return b.refs }

// Dispatch returns the dispatch engine.
func (b *Bridge) Dispatch() *dispatch.Engine { return b.eng }

// Class looks up a class by name.
func (b *Bridge) Class(name string) (objckit.Class, error) {
	cls, ok := b.rt.LookUpClass(name)
	if !ok {
		return objckit.NilClass, errors.ClassNotFound(name)
	}
	return cls, nil
}

// The construction selectors every root class provides.
var (
	methodAlloc = trait.Method{Sel: "alloc", Result: marshal.KindObject, ClassMethod: true}
	methodInit  = trait.Method{Sel: "init", Result: marshal.KindObject, Ownership: trait.Owned}
)

// NewObject performs the alloc/init dance for a class and returns an
// owned wrapper. init consumes alloc's reference and the returned
// object (which init may have swapped) arrives owned.
func (b *Bridge) NewObject(className string) (Object, error) {
	cls, err := b.Class(className)
	if err != nil {
		return Object{}, err
	}

	allocRef, err := dispatch.Call[*refcount.Ref](b.eng, cls.Object(), methodAlloc)
	if err != nil {
		return Object{}, err
	}

	initRef, err := dispatch.Call[*refcount.Ref](b.eng, allocRef.Handle(), methodInit)
	if err != nil {
		allocRef.Release()
		return Object{}, err
	}
	allocRef.Forget() // consumed by init

	b.log.Debug("object constructed",
		zap.String("class", className),
		zap.String("handle", initRef.Handle().String()))
	return Object{br: b, ref: initRef}, nil
}
