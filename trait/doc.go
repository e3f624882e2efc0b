// Package trait models foreign class ancestry and protocol conformance
// as composable capability sets.
//
// The foreign runtime has single-rooted class inheritance plus unordered
// protocol conformance; Go has neither. Each ancestor class and each
// protocol becomes one capability trait: a named set of method
// declarations whose bodies all dispatch through the engine. A host
// wrapper composes its class's ordered ancestry (most-derived first) plus
// its protocol set, and gains the whole chain's surface without
// re-declaring anything.
//
// Composition is validated before any code generation or dispatch:
// ancestry chains must be linear and registered root-first, protocol
// requirement graphs must be acyclic, and a selector declared twice with
// incompatible signatures is rejected here — never at dispatch time.
// Along the class chain the most-derived declaration wins, mirroring
// override semantics.
package trait
