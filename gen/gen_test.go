package gen

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/objckit/objckit/errors"
	"github.com/objckit/objckit/marshal"
	"github.com/objckit/objckit/trait"
)

func newRegistry(t *testing.T) *trait.Registry {
	t.Helper()
	reg := trait.NewRegistry()

	if err := reg.RegisterProtocol(trait.Protocol{
		Name: "Copying",
		Methods: []trait.Method{
			{Sel: "copy", Result: marshal.KindObject},
		},
	}); err != nil {
		t.Fatal(err)
	}

	if err := reg.RegisterClass(trait.Class{
		Name:        "NSObject",
		OwnsBacking: true,
		Methods: []trait.Method{
			{Sel: "hash", Result: marshal.KindUint64},
			{Sel: "isEqual:", Params: []marshal.Kind{marshal.KindObject}, Result: marshal.KindBool},
		},
	}); err != nil {
		t.Fatal(err)
	}

	if err := reg.RegisterClass(trait.Class{
		Name:        "Box",
		Ancestry:    []string{"NSObject"},
		Protocols:   []string{"Copying"},
		OwnsBacking: true,
		Methods: []trait.Method{
			{Sel: "length", Result: marshal.KindInt64},
			{Sel: "setLength:", Params: []marshal.Kind{marshal.KindInt64}},
			{Sel: "boxWithLength:", Params: []marshal.Kind{marshal.KindInt64}, Result: marshal.KindObject, ClassMethod: true},
		},
	}); err != nil {
		t.Fatal(err)
	}

	return reg
}

func mustContain(t *testing.T, src string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(src, want) {
			t.Fatalf("generated source missing %q:\n%s", want, src)
		}
	}
}

func TestObject_RootClass(t *testing.T) {
	g := New(newRegistry(t), "binding")
	out, err := g.Object("NSObject")
	if err != nil {
		t.Fatal(err)
	}
	src := string(out)
	mustContain(t, src,
		"package binding",
		"type NSObject struct {\n\tbridge.Object\n}",
		"func WrapNSObject(br *bridge.Bridge, ref *refcount.Ref) NSObject",
		"func NewNSObject(br *bridge.Bridge) (NSObject, error)",
		`br.NewObject("NSObject")`,
	)
}

func TestObject_DerivedClassEmbedsSuperWrapper(t *testing.T) {
	g := New(newRegistry(t), "binding")
	out, err := g.Object("Box")
	if err != nil {
		t.Fatal(err)
	}
	src := string(out)
	mustContain(t, src,
		"type Box struct {\n\tNSObject\n}",
		"func WrapBox(br *bridge.Bridge, ref *refcount.Ref) Box",
		"WrapNSObject(br, ref)",
	)
	if strings.Contains(src, "bridge.Object\n}") {
		t.Fatal("derived wrapper must embed the superclass wrapper, not the base")
	}
}

func TestObject_BorrowedBacking(t *testing.T) {
	reg := newRegistry(t)
	if err := reg.RegisterClass(trait.Class{
		Name:     "SharedApplication",
		Ancestry: []string{"NSObject"},
	}); err != nil {
		t.Fatal(err)
	}

	g := New(reg, "binding")
	out, err := g.Object("SharedApplication")
	if err != nil {
		t.Fatal(err)
	}
	src := string(out)
	mustContain(t, src, "func BorrowSharedApplication(br *bridge.Bridge, h objckit.ID) SharedApplication")
	if strings.Contains(src, "NewSharedApplication") {
		t.Fatal("borrowed-backing class must not get an owning constructor")
	}
}

func TestObject_UnknownClass(t *testing.T) {
	g := New(newRegistry(t), "binding")
	_, err := g.Object("Missing")
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseGenerate, Kind: errors.KindNotFound}) {
		t.Fatalf("want generate-phase not found, got %v", err)
	}
}

func TestInterface_ScalarMethod(t *testing.T) {
	g := New(newRegistry(t), "binding")
	out, err := g.Interface("Box")
	if err != nil {
		t.Fatal(err)
	}
	src := string(out)
	mustContain(t, src,
		`var boxLength = trait.Method{Sel: "length", Result: marshal.KindInt64}`,
		"func (b Box) Length() (int64, error)",
		"dispatch.Call[int64](b.Bridge().Dispatch(), b.Handle(), boxLength)",
	)
}

func TestInterface_VoidMethod(t *testing.T) {
	g := New(newRegistry(t), "binding")
	out, err := g.Interface("Box")
	if err != nil {
		t.Fatal(err)
	}
	src := string(out)
	mustContain(t, src,
		"func (b Box) SetLength(setLength int64) error",
		".Send(b.Handle(), boxSetLength, setLength)",
	)
}

func TestInterface_ClassMethodTakesBridge(t *testing.T) {
	g := New(newRegistry(t), "binding")
	out, err := g.Interface("Box")
	if err != nil {
		t.Fatal(err)
	}
	src := string(out)
	mustContain(t, src,
		"func BoxBoxWithLength(br *bridge.Bridge, boxWithLength int64) (bridge.Object, error)",
		`br.Class("Box")`,
		"dispatch.Call[*refcount.Ref](br.Dispatch(), cls.Object(), boxBoxWithLengthCls, boxWithLength)",
	)
}

func TestInterface_ProtocolMethodIncluded(t *testing.T) {
	g := New(newRegistry(t), "binding")
	out, err := g.Interface("Box")
	if err != nil {
		t.Fatal(err)
	}
	src := string(out)
	mustContain(t, src,
		"func (b Box) Copy() (bridge.Object, error)",
		"b.Bridge().Wrap(ref)",
	)
}

func TestInterface_InheritedMethodsNotReemitted(t *testing.T) {
	g := New(newRegistry(t), "binding")
	out, err := g.Interface("Box")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "func (b Box) Hash") {
		t.Fatal("inherited selector re-emitted; it should arrive via embedding")
	}
}

func TestInterface_PrivateSelectorFails(t *testing.T) {
	reg := newRegistry(t)
	if err := reg.RegisterClass(trait.Class{
		Name:     "Private",
		Ancestry: []string{"NSObject"},
		Methods: []trait.Method{
			{Sel: "_internal", Result: marshal.KindVoid},
		},
	}); err != nil {
		t.Fatal(err)
	}

	g := New(reg, "binding")
	_, err := g.Interface("Private")
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseGenerate, Kind: errors.KindInvalidName}) {
		t.Fatalf("want invalid name, got %v", err)
	}
}

func TestGoName(t *testing.T) {
	for sel, want := range map[string]string{
		"length":            "Length",
		"setObject:forKey:": "SetObjectForKey",
		"isEqual:":          "IsEqual",
	} {
		got, err := goName(sel)
		if err != nil {
			t.Fatalf("goName(%q): %v", sel, err)
		}
		if got != want {
			t.Fatalf("goName(%q) = %q, want %q", sel, got, want)
		}
	}
	if _, err := goName("_private"); err == nil {
		t.Fatal("underscore selector should not have a Go spelling")
	}
}
