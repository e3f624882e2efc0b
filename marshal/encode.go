package marshal

import (
	"fmt"
	"math"

	"github.com/objckit/objckit"
	"github.com/objckit/objckit/errors"
)

// EncodeArgs converts Go arguments into boundary cells for the given
// parameter kinds. The selector name is only used for error context.
// Arity and range are checked before any cell is produced, so a failed
// encode never leaves a partially marshaled call.
func EncodeArgs(sel string, params []Kind, args []any) ([]objckit.Word, error) {
	if len(args) != len(params) {
		return nil, errors.ArityMismatch(sel, len(params), len(args))
	}
	if len(args) == 0 {
		return nil, nil
	}

	words := make([]objckit.Word, len(args))
	for i, arg := range args {
		w, err := EncodeValue(sel, params[i], arg)
		if err != nil {
			return nil, err
		}
		words[i] = w
	}
	return words, nil
}

// EncodeValue converts one Go value into a boundary cell of the given kind.
func EncodeValue(sel string, kind Kind, v any) (objckit.Word, error) {
	switch kind {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return 0, errors.TypeMismatch(sel, fmt.Sprintf("%T", v), kind.String())
		}
		if b {
			return 1, nil
		}
		return 0, nil

	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		n, ok := toInt64(v)
		if !ok {
			return 0, errors.TypeMismatch(sel, fmt.Sprintf("%T", v), kind.String())
		}
		if !signedFits(n, kind) {
			return 0, errors.Overflow(sel, n, kind.String())
		}
		return objckit.Word(n), nil

	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		n, ok := toUint64(v)
		if !ok {
			return 0, errors.TypeMismatch(sel, fmt.Sprintf("%T", v), kind.String())
		}
		if !unsignedFits(n, kind) {
			return 0, errors.Overflow(sel, n, kind.String())
		}
		return objckit.Word(n), nil

	case KindFloat32:
		f, ok := toFloat64(v)
		if !ok {
			return 0, errors.TypeMismatch(sel, fmt.Sprintf("%T", v), kind.String())
		}
		if f != 0 && !math.IsNaN(f) && !math.IsInf(f, 0) {
			if a := math.Abs(f); a > math.MaxFloat32 {
				return 0, errors.Overflow(sel, f, kind.String())
			}
		}
		return objckit.Word(math.Float32bits(float32(f))), nil

	case KindFloat64:
		f, ok := toFloat64(v)
		if !ok {
			return 0, errors.TypeMismatch(sel, fmt.Sprintf("%T", v), kind.String())
		}
		return objckit.Word(math.Float64bits(f)), nil

	case KindObject:
		id, ok := v.(objckit.ID)
		if !ok {
			return 0, errors.TypeMismatch(sel, fmt.Sprintf("%T", v), kind.String())
		}
		return objckit.Word(id), nil

	case KindClass:
		cls, ok := v.(objckit.Class)
		if !ok {
			return 0, errors.TypeMismatch(sel, fmt.Sprintf("%T", v), kind.String())
		}
		return objckit.Word(cls), nil

	case KindSelector:
		s, ok := v.(objckit.SEL)
		if !ok {
			return 0, errors.TypeMismatch(sel, fmt.Sprintf("%T", v), kind.String())
		}
		return objckit.Word(s), nil

	case KindPointer:
		p, ok := v.(uintptr)
		if !ok {
			return 0, errors.TypeMismatch(sel, fmt.Sprintf("%T", v), kind.String())
		}
		return objckit.Word(p), nil
	}

	return 0, errors.Unsupported(errors.PhaseConvert, fmt.Sprintf("parameter kind %s", kind))
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	case uintptr:
		return uint64(n), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	return 0, false
}

func signedFits(n int64, kind Kind) bool {
	switch kind {
	case KindInt8:
		return n >= math.MinInt8 && n <= math.MaxInt8
	case KindInt16:
		return n >= math.MinInt16 && n <= math.MaxInt16
	case KindInt32:
		return n >= math.MinInt32 && n <= math.MaxInt32
	}
	return true
}

func unsignedFits(n uint64, kind Kind) bool {
	switch kind {
	case KindUint8:
		return n <= math.MaxUint8
	case KindUint16:
		return n <= math.MaxUint16
	case KindUint32:
		return n <= math.MaxUint32
	}
	return true
}
