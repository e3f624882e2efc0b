package objckit

import "testing"

func TestIDNil(t *testing.T) {
	var zero ID
	if zero != Nil {
		t.Fatal("zero ID is not Nil")
	}
	if !zero.IsNil() {
		t.Fatal("IsNil() false for zero handle")
	}
	if ID(0x1234).IsNil() {
		t.Fatal("IsNil() true for live handle")
	}
}

func TestIDString(t *testing.T) {
	if got := ID(0xdeadbeef).String(); got != "0xdeadbeef" {
		t.Fatalf("String() = %q", got)
	}
	if got := Nil.String(); got != "0x0" {
		t.Fatalf("Nil.String() = %q", got)
	}
}

func TestClassObject(t *testing.T) {
	cls := Class(0x1000)
	if cls.Object() != ID(0x1000) {
		t.Fatal("Object() changed the handle value")
	}
	if !NilClass.IsNil() {
		t.Fatal("NilClass.IsNil() = false")
	}
	if cls.IsNil() {
		t.Fatal("live class reported nil")
	}
}

func TestSELNil(t *testing.T) {
	var s SEL
	if !s.IsNil() {
		t.Fatal("zero SEL should be nil")
	}
	if SEL(0x2001).IsNil() {
		t.Fatal("interned SEL reported nil")
	}
}
