package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve  Phase = "resolve"  // selector resolution
	PhaseConvert  Phase = "convert"  // argument/return marshaling
	PhaseCompose  Phase = "compose"  // capability composition
	PhaseGenerate Phase = "generate" // source generation
	PhaseRuntime  Phase = "runtime"  // foreign runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindNilReceiver       Kind = "nil_receiver"
	KindOverflow          Kind = "overflow"
	KindArityMismatch     Kind = "arity_mismatch"
	KindTypeMismatch      Kind = "type_mismatch"
	KindUnsupported       Kind = "unsupported"
	KindInvalidName       Kind = "invalid_name"
	KindUnknownAncestor   Kind = "unknown_ancestor"
	KindUnknownProtocol   Kind = "unknown_protocol"
	KindSelectorCollision Kind = "selector_collision"
	KindCycle             Kind = "cycle"
	KindInvokeFailed      Kind = "invoke_failed"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Sel    string
	Class  string
	GoType string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Class != "" || e.Sel != "" {
		b.WriteString(" at ")
		if e.Class != "" {
			b.WriteString(e.Class)
		}
		if e.Sel != "" {
			if e.Class != "" {
				b.WriteByte('.')
			}
			b.WriteString(e.Sel)
		}
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Sel sets the selector name
func (b *Builder) Sel(sel string) *Builder {
	b.err.Sel = sel
	return b
}

// Class sets the class name
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// SelectorNotFound creates a resolution error for a selector missing from
// the whole ancestry chain.
func SelectorNotFound(class, sel string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindNotFound,
		Class:  class,
		Sel:    sel,
		Detail: "selector not found on class or any ancestor",
	}
}

// NilReceiver creates a resolution error for a nil-intolerant send to Nil.
func NilReceiver(sel string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindNilReceiver,
		Sel:    sel,
		Detail: "receiver is nil and selector is not nil-tolerant",
	}
}

// ClassNotFound creates a runtime error for an unregistered class name.
func ClassNotFound(name string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindNotFound,
		Class:  name,
		Detail: "class not registered with the runtime",
	}
}

// Overflow creates a conversion error for a value outside the target range.
func Overflow(sel string, value any, target string) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindOverflow,
		Sel:    sel,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// ArityMismatch creates a conversion error for a wrong argument count.
func ArityMismatch(sel string, want, got int) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindArityMismatch,
		Sel:    sel,
		Detail: fmt.Sprintf("selector takes %d arguments, got %d", want, got),
	}
}

// TypeMismatch creates a conversion error for an unrepresentable value.
func TypeMismatch(sel, goType, target string) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindTypeMismatch,
		Sel:    sel,
		GoType: goType,
		Detail: fmt.Sprintf("cannot represent as %s", target),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidName creates a generation or composition error for a malformed
// identifier.
func InvalidName(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidName,
		Detail: fmt.Sprintf("malformed name %q", name),
	}
}

// UnknownAncestor creates a composition error for an unregistered ancestor.
func UnknownAncestor(class, ancestor string) *Error {
	return &Error{
		Phase:  PhaseCompose,
		Kind:   KindUnknownAncestor,
		Class:  class,
		Detail: fmt.Sprintf("ancestor %q is not registered", ancestor),
	}
}

// UnknownProtocol creates a composition error for an unregistered protocol.
func UnknownProtocol(class, protocol string) *Error {
	return &Error{
		Phase:  PhaseCompose,
		Kind:   KindUnknownProtocol,
		Class:  class,
		Detail: fmt.Sprintf("protocol %q is not registered", protocol),
	}
}

// SelectorCollision creates a composition error for incompatible duplicate
// selector declarations.
func SelectorCollision(class, sel, a, b string) *Error {
	return &Error{
		Phase:  PhaseCompose,
		Kind:   KindSelectorCollision,
		Class:  class,
		Sel:    sel,
		Detail: fmt.Sprintf("incompatible declarations from %s and %s", a, b),
	}
}

// Cycle creates a composition error for cyclic protocol requirements.
func Cycle(what string) *Error {
	return &Error{
		Phase:  PhaseCompose,
		Kind:   KindCycle,
		Detail: what,
	}
}

// InvokeFailed wraps a foreign call failure.
func InvokeFailed(sel string, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInvokeFailed,
		Sel:    sel,
		Detail: "foreign call failed",
		Cause:  cause,
	}
}
