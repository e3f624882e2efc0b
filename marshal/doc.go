// Package marshal converts Go values to and from the foreign calling
// convention's argument cells.
//
// Every argument and result crosses the boundary as one address-sized
// Word: integers and handles as-is, booleans as 0/1, floats bit-cast.
// Kinds describe the declared boundary type of each cell; encoding checks
// arity and range up front so a call is never attempted with a value that
// cannot be represented (spilling a truncated integer into a foreign call
// is how bridges corrupt memory).
//
// Object cells are plain handles here. Ownership of returned objects is
// applied a layer up, in dispatch, because it depends on the selector, not
// on the value.
package marshal
