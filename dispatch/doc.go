// Package dispatch resolves selectors and sends messages to foreign
// objects.
//
// Resolution is dynamic: the receiver's runtime class is walked most-
// derived first and the first ancestor providing the selector wins,
// matching virtual dispatch. Resolved implementations are cached by
// (dynamic class, selector, side) because the pair is stable for the
// process lifetime — classes and method tables don't change under the
// bridge.
//
// Sends marshal every argument before the call and never invoke with a
// value the boundary cannot represent. Nil receivers follow the foreign
// runtime's permissive convention only where a method is declared
// nil-tolerant; everything else reports a resolution error.
//
// # Errors
//
// Resolution errors (selector missing, nil receiver) and conversion
// errors (overflow, arity, unrepresentable values) return to the caller
// and are recoverable. The engine never panics on its own behalf.
package dispatch
