package dispatch

import (
	"fmt"

	"github.com/objckit/objckit"
	"github.com/objckit/objckit/errors"
	"github.com/objckit/objckit/trait"
)

// Call is the typed form of Engine.Send. T must match the Go type the
// declared result kind decodes to; object results use *refcount.Ref.
// Generated method bodies go through Call so the assertion is checked in
// exactly one place.
func Call[T any](e *Engine, recv objckit.ID, m trait.Method, args ...any) (T, error) {
	var zero T
	v, err := e.Send(recv, m, args...)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
			Sel(m.Sel).
			GoType(fmt.Sprintf("%T", zero)).
			Detail("result decodes to %T", v).
			Build()
	}
	return t, nil
}
