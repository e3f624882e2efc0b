package marshal

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/objckit/objckit"
	"github.com/objckit/objckit/errors"
)

func TestEncodeArgs_Arity(t *testing.T) {
	_, err := EncodeArgs("setLength:", []Kind{KindInt64}, []any{})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConvert, Kind: errors.KindArityMismatch}) {
		t.Fatalf("expected arity mismatch, got %v", err)
	}

	words, err := EncodeArgs("setLength:", []Kind{KindInt64}, []any{int64(7)})
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 1 || words[0] != 7 {
		t.Fatalf("unexpected cells %v", words)
	}
}

func wordOf(n int64) objckit.Word { return objckit.Word(n) }

func TestEncodeValue_Integers(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		value   any
		want    objckit.Word
		wantErr errors.Kind
	}{
		{"int into int64", KindInt64, 42, 42, ""},
		{"int8 widens", KindInt32, int8(-5), wordOf(-5), ""},
		{"int32 overflow", KindInt8, int32(200), 0, errors.KindOverflow},
		{"negative into int16", KindInt16, -32768, wordOf(-32768), ""},
		{"int16 underflow", KindInt16, -32769, 0, errors.KindOverflow},
		{"uint into uint8", KindUint8, uint(255), 255, ""},
		{"uint8 overflow", KindUint8, uint16(256), 0, errors.KindOverflow},
		{"uint32 max", KindUint32, uint64(math.MaxUint32), objckit.Word(math.MaxUint32), ""},
		{"uint32 overflow", KindUint32, uint64(math.MaxUint32) + 1, 0, errors.KindOverflow},
		{"string into int", KindInt, "nope", 0, errors.KindTypeMismatch},
		{"unsigned into signed", KindInt32, uint32(1), 0, errors.KindTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := EncodeValue("test:", tt.kind, tt.value)
			if tt.wantErr != "" {
				if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConvert, Kind: tt.wantErr}) {
					t.Fatalf("want %s error, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if w != tt.want {
				t.Fatalf("cell = %#x, want %#x", w, tt.want)
			}
		})
	}
}

func TestEncodeValue_Floats(t *testing.T) {
	w, err := EncodeValue("setRatio:", KindFloat64, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeResult("ratio", KindFloat64, w)
	if err != nil {
		t.Fatal(err)
	}
	if got.(float64) != 2.5 {
		t.Fatalf("round trip = %v", got)
	}

	w, err = EncodeValue("setScale:", KindFloat32, float64(1.5))
	if err != nil {
		t.Fatal(err)
	}
	got, err = DecodeResult("scale", KindFloat32, w)
	if err != nil {
		t.Fatal(err)
	}
	if got.(float32) != 1.5 {
		t.Fatalf("round trip = %v", got)
	}

	if _, err := EncodeValue("setScale:", KindFloat32, math.MaxFloat64); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConvert, Kind: errors.KindOverflow}) {
		t.Fatalf("expected overflow, got %v", err)
	}

	// Infinities are representable in float32, not overflow.
	if _, err := EncodeValue("setScale:", KindFloat32, math.Inf(1)); err != nil {
		t.Fatalf("inf should encode: %v", err)
	}
}

func TestEncodeValue_Handles(t *testing.T) {
	id := objckit.ID(0xbeef)
	w, err := EncodeValue("setDelegate:", KindObject, id)
	if err != nil {
		t.Fatal(err)
	}
	if w != 0xbeef {
		t.Fatalf("cell = %#x", w)
	}

	if _, err := EncodeValue("setDelegate:", KindObject, uintptr(1)); err == nil {
		t.Fatal("raw uintptr must not pass as an object handle")
	}

	if _, err := EncodeValue("isKindOfClass:", KindClass, objckit.Class(7)); err != nil {
		t.Fatal(err)
	}
	if _, err := EncodeValue("respondsToSelector:", KindSelector, objckit.SEL(3)); err != nil {
		t.Fatal(err)
	}
	if _, err := EncodeValue("setBytes:", KindPointer, uintptr(0x100)); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeResult_Signed(t *testing.T) {
	w, err := EncodeValue("setOffset:", KindInt64, int64(-1))
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeResult("offset", KindInt64, w)
	if err != nil {
		t.Fatal(err)
	}
	if got.(int64) != -1 {
		t.Fatalf("sign lost: %v", got)
	}

	// Narrow results truncate to their declared width.
	got, err = DecodeResult("tag", KindInt8, objckit.Word(0x17f))
	if err != nil {
		t.Fatal(err)
	}
	if got.(int8) != 127 {
		t.Fatalf("int8 = %v", got)
	}
}

func TestZero(t *testing.T) {
	tests := []struct {
		kind Kind
		want any
	}{
		{KindVoid, nil},
		{KindBool, false},
		{KindInt32, int32(0)},
		{KindUint64, uint64(0)},
		{KindFloat64, float64(0)},
		{KindObject, objckit.Nil},
		{KindClass, objckit.NilClass},
		{KindPointer, uintptr(0)},
	}
	for _, tt := range tests {
		if got := Zero(tt.kind); got != tt.want {
			t.Errorf("Zero(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestKind_Properties(t *testing.T) {
	if KindVoid.ValidParam() {
		t.Error("void is not a parameter kind")
	}
	if !KindVoid.ValidResult() {
		t.Error("void is a result kind")
	}
	if !KindObject.IsObject() || KindClass.IsObject() {
		t.Error("only object cells carry ownership")
	}
	if Kind(200).Valid() {
		t.Error("out of range kind reported valid")
	}
	if KindFloat64.String() != "float64" || KindObject.GoType() != "objckit.ID" {
		t.Error("wrong names")
	}
}
