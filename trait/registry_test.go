package trait

import (
	stderrors "errors"
	"testing"

	"github.com/objckit/objckit/errors"
	"github.com/objckit/objckit/marshal"
)

func isKind(err error, phase errors.Phase, kind errors.Kind) bool {
	return stderrors.Is(err, &errors.Error{Phase: phase, Kind: kind})
}

// newBoxRegistry builds the Object <- Box chain used across these tests.
func newBoxRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()

	if err := r.RegisterClass(Class{
		Name: "Object",
		Methods: []Method{
			{Sel: "description", Result: marshal.KindObject, NilTolerant: true},
			{Sel: "hash", Result: marshal.KindUint64, NilTolerant: true},
			{Sel: "alloc", Result: marshal.KindObject, ClassMethod: true},
			{Sel: "init", Result: marshal.KindObject, Ownership: Owned},
		},
		OwnsBacking: true,
	}); err != nil {
		t.Fatal(err)
	}

	if err := r.RegisterClass(Class{
		Name:     "Box",
		Ancestry: []string{"Object"},
		Methods: []Method{
			{Sel: "length", Result: marshal.KindInt64},
			{Sel: "setLength:", Params: []marshal.Kind{marshal.KindInt64}},
		},
		OwnsBacking: true,
	}); err != nil {
		t.Fatal(err)
	}

	return r
}

func TestRegisterClass_Validation(t *testing.T) {
	r := NewRegistry()

	if err := r.RegisterClass(Class{Name: "9Lives"}); !isKind(err, errors.PhaseCompose, errors.KindInvalidName) {
		t.Fatalf("bad name: %v", err)
	}

	if err := r.RegisterClass(Class{
		Name:    "Broken",
		Methods: []Method{{Sel: "set length:"}},
	}); !isKind(err, errors.PhaseCompose, errors.KindInvalidName) {
		t.Fatalf("bad selector: %v", err)
	}

	if err := r.RegisterClass(Class{Name: "Orphan", Ancestry: []string{"Missing"}}); !isKind(err, errors.PhaseCompose, errors.KindUnknownAncestor) {
		t.Fatalf("unknown ancestor: %v", err)
	}

	if err := r.RegisterClass(Class{Name: "Object"}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterClass(Class{Name: "Object"}); !isKind(err, errors.PhaseCompose, errors.KindInvalidName) {
		t.Fatalf("duplicate registration: %v", err)
	}
}

func TestRegisterClass_ChainMustBeLinear(t *testing.T) {
	r := newBoxRegistry(t)

	// Declared ancestry skips Object even though Box's chain has it.
	err := r.RegisterClass(Class{Name: "Crate", Ancestry: []string{"Box"}})
	if !isKind(err, errors.PhaseCompose, errors.KindUnknownAncestor) {
		t.Fatalf("truncated chain: %v", err)
	}

	if err := r.RegisterClass(Class{Name: "Crate", Ancestry: []string{"Box", "Object"}}); err != nil {
		t.Fatal(err)
	}
}

func TestRegisterProtocol_Validation(t *testing.T) {
	r := NewRegistry()

	if err := r.RegisterProtocol(Protocol{Name: "bad name"}); !isKind(err, errors.PhaseCompose, errors.KindInvalidName) {
		t.Fatalf("bad name: %v", err)
	}

	if err := r.RegisterProtocol(Protocol{Name: "Selfish", Requires: []string{"Selfish"}}); !isKind(err, errors.PhaseCompose, errors.KindCycle) {
		t.Fatalf("self-requirement: %v", err)
	}

	if err := r.RegisterProtocol(Protocol{Name: "Measurable"}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterProtocol(Protocol{Name: "Measurable"}); !isKind(err, errors.PhaseCompose, errors.KindInvalidName) {
		t.Fatalf("duplicate: %v", err)
	}
}

func TestFlatten_MostDerivedWins(t *testing.T) {
	r := newBoxRegistry(t)

	// Crate overrides length; the derived default must win.
	if err := r.RegisterClass(Class{
		Name:     "Crate",
		Ancestry: []string{"Box", "Object"},
		Methods: []Method{
			{Sel: "length", Result: marshal.KindInt64},
		},
	}); err != nil {
		t.Fatal(err)
	}

	flat, err := r.Flatten("Crate")
	if err != nil {
		t.Fatal(err)
	}

	var length *Composed
	for i := range flat {
		if flat[i].Sel == "length" && !flat[i].ClassMethod {
			if length != nil {
				t.Fatal("length appears twice in flattened surface")
			}
			length = &flat[i]
		}
	}
	if length == nil {
		t.Fatal("length missing")
	}
	if length.Source != "Crate" {
		t.Fatalf("length contributed by %s, want Crate", length.Source)
	}
}

func TestFlatten_IncludesWholeChain(t *testing.T) {
	r := newBoxRegistry(t)

	flat, err := r.Flatten("Box")
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"length":      "Box",
		"setLength:":  "Box",
		"description": "Object",
		"hash":        "Object",
		"init":        "Object",
	}
	got := make(map[string]string)
	for _, cm := range flat {
		if !cm.ClassMethod {
			got[cm.Sel] = cm.Source
		}
	}
	for sel, source := range want {
		if got[sel] != source {
			t.Errorf("%s from %q, want %q", sel, got[sel], source)
		}
	}
}

func TestFlatten_ProtocolCollision(t *testing.T) {
	r := newBoxRegistry(t)

	// Same selector, different signature from a protocol: rejected.
	if err := r.RegisterProtocol(Protocol{
		Name: "Measurable",
		Methods: []Method{
			{Sel: "length", Result: marshal.KindFloat64},
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterClass(Class{
		Name:      "Rod",
		Ancestry:  []string{"Box", "Object"},
		Protocols: []string{"Measurable"},
	}); err != nil {
		t.Fatal(err)
	}

	_, err := r.Flatten("Rod")
	if !isKind(err, errors.PhaseCompose, errors.KindSelectorCollision) {
		t.Fatalf("want selector collision, got %v", err)
	}
}

func TestFlatten_CompatibleProtocolCollapses(t *testing.T) {
	r := newBoxRegistry(t)

	if err := r.RegisterProtocol(Protocol{
		Name: "Sized",
		Methods: []Method{
			{Sel: "length", Result: marshal.KindInt64}, // matches Box's
			{Sel: "capacity", Result: marshal.KindInt64},
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterClass(Class{
		Name:      "Bin",
		Ancestry:  []string{"Box", "Object"},
		Protocols: []string{"Sized"},
	}); err != nil {
		t.Fatal(err)
	}

	flat, err := r.Flatten("Bin")
	if err != nil {
		t.Fatal(err)
	}

	count := 0
	capacitySeen := false
	for _, cm := range flat {
		if cm.Sel == "length" && !cm.ClassMethod {
			count++
			if cm.Source != "Box" {
				t.Errorf("length from %s, want the class chain", cm.Source)
			}
		}
		if cm.Sel == "capacity" {
			capacitySeen = true
		}
	}
	if count != 1 {
		t.Fatalf("length appears %d times", count)
	}
	if !capacitySeen {
		t.Fatal("protocol method missing from surface")
	}
}

func TestFlatten_ProtocolRequirements(t *testing.T) {
	r := newBoxRegistry(t)

	if err := r.RegisterProtocol(Protocol{
		Name:    "Equatable",
		Methods: []Method{{Sel: "isEqual:", Params: []marshal.Kind{marshal.KindObject}, Result: marshal.KindBool}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterProtocol(Protocol{
		Name:     "Comparable",
		Requires: []string{"Equatable"},
		Methods:  []Method{{Sel: "compare:", Params: []marshal.Kind{marshal.KindObject}, Result: marshal.KindInt}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterClass(Class{
		Name:      "Ranked",
		Ancestry:  []string{"Object"},
		Protocols: []string{"Comparable"},
	}); err != nil {
		t.Fatal(err)
	}

	flat, err := r.Flatten("Ranked")
	if err != nil {
		t.Fatal(err)
	}

	sels := make(map[string]bool)
	for _, cm := range flat {
		sels[cm.Sel] = true
	}
	if !sels["compare:"] || !sels["isEqual:"] {
		t.Fatalf("required protocol methods missing: %v", sels)
	}
}

func TestFlatten_ProtocolCycle(t *testing.T) {
	r := newBoxRegistry(t)

	// A requires B, B requires A. Registration order allows forward
	// references, so the cycle surfaces at flatten time.
	if err := r.RegisterProtocol(Protocol{Name: "A", Requires: []string{"B"}}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterProtocol(Protocol{Name: "B", Requires: []string{"A"}}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterClass(Class{
		Name:      "Tangle",
		Ancestry:  []string{"Object"},
		Protocols: []string{"A"},
	}); err != nil {
		t.Fatal(err)
	}

	_, err := r.Flatten("Tangle")
	if !isKind(err, errors.PhaseCompose, errors.KindCycle) {
		t.Fatalf("want cycle error, got %v", err)
	}
}

func TestFlatten_UnknownProtocol(t *testing.T) {
	r := newBoxRegistry(t)
	if err := r.RegisterClass(Class{
		Name:      "Ghost",
		Ancestry:  []string{"Object"},
		Protocols: []string{"Missing"},
	}); err != nil {
		t.Fatal(err)
	}

	_, err := r.Flatten("Ghost")
	if !isKind(err, errors.PhaseCompose, errors.KindUnknownProtocol) {
		t.Fatalf("want unknown protocol, got %v", err)
	}
}

func TestSurface_OnlyIntroducedMethods(t *testing.T) {
	r := newBoxRegistry(t)

	if err := r.RegisterProtocol(Protocol{
		Name:    "Sealable",
		Methods: []Method{{Sel: "seal", Result: marshal.KindVoid}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterClass(Class{
		Name:      "Crate",
		Ancestry:  []string{"Box", "Object"},
		Protocols: []string{"Sealable"},
		Methods:   []Method{{Sel: "lidCount", Result: marshal.KindInt}},
	}); err != nil {
		t.Fatal(err)
	}

	surface, err := r.Surface("Crate")
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[string]bool)
	for _, cm := range surface {
		got[cm.Sel] = true
	}
	if !got["lidCount"] || !got["seal"] {
		t.Fatalf("missing introduced methods: %v", got)
	}
	// Inherited surface comes from the embedded ancestor wrapper.
	if got["length"] || got["description"] {
		t.Fatalf("inherited methods leaked into surface: %v", got)
	}
}
