// Package errors provides structured error types for the bridge.
//
// Errors carry a Phase (where processing failed) and a Kind (what went
// wrong), plus optional selector, class, and Go type context:
//
//	err := errors.New(errors.PhaseConvert, errors.KindOverflow).
//	    Sel("setLength:").
//	    Detail("value %d overflows int32", v).
//	    Build()
//
// Matching uses errors.Is on (Phase, Kind) pairs, so callers can branch on
// the category without string comparison:
//
//	target := &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindNotFound}
//	if stderrors.Is(err, target) {
//	    // selector missing from the ancestry chain
//	}
//
// Resolution and conversion errors are recoverable and returned to the
// caller. Composition and generation errors surface before any dispatch
// path exists. Ownership-discipline violations are not errors at all: they
// panic, because by the time one is observable the invariant the bridge is
// built on has already been broken.
package errors
