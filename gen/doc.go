// Package gen emits Go binding source from trait declarations.
//
// Generation is split into two primitives. Object emits the wrapper type
// for one class: a struct embedding its superclass wrapper and the
// constructors its backing policy allows. Interface emits the class's own
// method surface: one trait.Method descriptor and one typed Go method per
// selector, bodies routed through the dispatch engine. Inherited
// selectors are never re-emitted; Go embedding carries them down the
// chain the same way the foreign runtime's inheritance does.
//
// Composition rules are enforced before emission, so generated bindings
// can fail at build time but not invent bad sends at run time.
package gen
