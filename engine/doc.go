// Package engine binds the native Objective-C runtime on darwin.
//
// The binding is pure Go: libobjc and Foundation are loaded with purego
// at startup and the runtime C functions are registered as Go funcs. No
// cgo is involved.
//
// # Lookup Model
//
// InstanceMethod and ClassMethod report only methods a class provides
// directly, by scanning class_copyMethodList. Inheritance is resolved a
// level up, where results can be cached; this package stays a thin view
// over the C runtime.
//
// # Known Limitations
//
// Float arguments and results are not supported: invocation goes through
// purego.SyscallN, which passes integer registers only. The runtime
// declares this through objckit.FloatABI, so float-bearing sends fail
// at dispatch instead of miscalling. Structure returns
// (objc_msgSend_stret territory) are likewise out of scope.
//
// On other platforms New returns an error; use package enginetest for a
// runtime that works everywhere.
package engine
