package marshal

import (
	"fmt"
	"math"

	"github.com/objckit/objckit"
	"github.com/objckit/objckit/errors"
)

// DecodeResult converts a boundary cell back into the Go value the result
// kind maps to. Void decodes to nil.
func DecodeResult(sel string, kind Kind, w objckit.Word) (any, error) {
	switch kind {
	case KindVoid:
		return nil, nil
	case KindBool:
		return w != 0, nil
	case KindInt:
		return int(w), nil
	case KindInt8:
		return int8(w), nil
	case KindInt16:
		return int16(w), nil
	case KindInt32:
		return int32(w), nil
	case KindInt64:
		return int64(w), nil
	case KindUint:
		return uint(w), nil
	case KindUint8:
		return uint8(w), nil
	case KindUint16:
		return uint16(w), nil
	case KindUint32:
		return uint32(w), nil
	case KindUint64:
		return uint64(w), nil
	case KindFloat32:
		return math.Float32frombits(uint32(w)), nil
	case KindFloat64:
		return math.Float64frombits(uint64(w)), nil
	case KindObject:
		return objckit.ID(w), nil
	case KindClass:
		return objckit.Class(w), nil
	case KindSelector:
		return objckit.SEL(w), nil
	case KindPointer:
		return uintptr(w), nil
	}

	return nil, errors.Unsupported(errors.PhaseConvert, fmt.Sprintf("result kind %s", kind))
}

// Zero returns the Go zero value for a result kind. This is what a
// nil-tolerant send to Nil produces without touching the runtime.
func Zero(kind Kind) any {
	switch kind {
	case KindBool:
		return false
	case KindInt:
		return int(0)
	case KindInt8:
		return int8(0)
	case KindInt16:
		return int16(0)
	case KindInt32:
		return int32(0)
	case KindInt64:
		return int64(0)
	case KindUint:
		return uint(0)
	case KindUint8:
		return uint8(0)
	case KindUint16:
		return uint16(0)
	case KindUint32:
		return uint32(0)
	case KindUint64:
		return uint64(0)
	case KindFloat32:
		return float32(0)
	case KindFloat64:
		return float64(0)
	case KindObject:
		return objckit.Nil
	case KindClass:
		return objckit.NilClass
	case KindSelector:
		return objckit.SEL(0)
	case KindPointer:
		return uintptr(0)
	}
	return nil
}
