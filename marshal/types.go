package marshal

// Kind identifies the boundary representation of one argument or result.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindObject
	KindClass
	KindSelector
	KindPointer
)

var kindNames = [...]string{
	KindVoid:     "void",
	KindBool:     "bool",
	KindInt:      "int",
	KindInt8:     "int8",
	KindInt16:    "int16",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindUint:     "uint",
	KindUint8:    "uint8",
	KindUint16:   "uint16",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindObject:   "object",
	KindClass:    "class",
	KindSelector: "selector",
	KindPointer:  "pointer",
}

// String returns the kind's boundary type name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Valid reports whether the kind is one of the defined values.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// ValidParam reports whether the kind can appear as a parameter.
func (k Kind) ValidParam() bool {
	return k.Valid() && k != KindVoid
}

// ValidResult reports whether the kind can appear as a result.
func (k Kind) ValidResult() bool {
	return k.Valid()
}

// IsObject reports whether the kind is an object handle subject to
// ownership rules.
func (k Kind) IsObject() bool {
	return k == KindObject
}

// IsFloat reports whether the kind travels in floating-point registers
// under the C calling convention.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

var goTypes = [...]string{
	KindVoid:     "",
	KindBool:     "bool",
	KindInt:      "int",
	KindInt8:     "int8",
	KindInt16:    "int16",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindUint:     "uint",
	KindUint8:    "uint8",
	KindUint16:   "uint16",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindObject:   "objckit.ID",
	KindClass:    "objckit.Class",
	KindSelector: "objckit.SEL",
	KindPointer:  "uintptr",
}

// GoType returns the Go type the kind decodes to, as written in generated
// source. Void has no Go type.
func (k Kind) GoType() string {
	if int(k) < len(goTypes) {
		return goTypes[k]
	}
	return ""
}
