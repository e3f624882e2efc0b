package trait

import (
	"strings"

	"github.com/objckit/objckit/errors"
	"github.com/objckit/objckit/marshal"
)

// Ownership annotates what a method's object result does to the caller.
type Ownership uint8

const (
	// Inferred applies the runtime's naming convention: selectors whose
	// first word is alloc, new, copy, or mutableCopy transfer ownership.
	Inferred Ownership = iota
	// Owned forces ownership transfer regardless of the selector name.
	Owned
	// Borrowed forces a borrowed result regardless of the selector name.
	Borrowed
)

// String returns a human-readable representation of the ownership.
func (o Ownership) String() string {
	switch o {
	case Inferred:
		return "inferred"
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	default:
		return "?"
	}
}

// Method declares one selector: its boundary signature, ownership
// annotation, nil tolerance, and whether it targets the class side.
type Method struct {
	Sel         string
	Params      []marshal.Kind
	Result      marshal.Kind
	Ownership   Ownership
	NilTolerant bool
	ClassMethod bool
}

// Validate checks the selector shape and the declared kinds. Selectors
// follow the foreign runtime's grammar: a bare identifier takes no
// arguments; otherwise one identifier-plus-colon segment per argument.
func (m Method) Validate() error {
	if !validSelector(m.Sel) {
		return errors.InvalidName(errors.PhaseCompose, m.Sel)
	}
	if n := strings.Count(m.Sel, ":"); n != len(m.Params) {
		return errors.New(errors.PhaseCompose, errors.KindArityMismatch).
			Sel(m.Sel).
			Detail("selector has %d colons but %d parameters", n, len(m.Params)).
			Build()
	}
	for _, p := range m.Params {
		if !p.ValidParam() {
			return errors.Unsupported(errors.PhaseCompose, "parameter kind "+p.String())
		}
	}
	if !m.Result.ValidResult() {
		return errors.Unsupported(errors.PhaseCompose, "result kind "+m.Result.String())
	}
	return nil
}

// TransfersOwnership reports whether the method's object result arrives
// at +1 for the caller, per the annotation or the naming convention.
func (m Method) TransfersOwnership() bool {
	switch m.Ownership {
	case Owned:
		return true
	case Borrowed:
		return false
	}
	return InfersTransfer(m.Sel)
}

// Compatible reports whether two declarations of the same selector agree
// on signature, target side, and effective ownership.
func (m Method) Compatible(o Method) bool {
	if m.Sel != o.Sel || m.ClassMethod != o.ClassMethod || m.Result != o.Result {
		return false
	}
	if len(m.Params) != len(o.Params) {
		return false
	}
	for i := range m.Params {
		if m.Params[i] != o.Params[i] {
			return false
		}
	}
	return m.TransfersOwnership() == o.TransfersOwnership() &&
		m.NilTolerant == o.NilTolerant
}

// ownership-transferring selector prefixes, per the foreign runtime's
// naming convention
var transferPrefixes = []string{"alloc", "new", "copy", "mutableCopy"}

// InfersTransfer applies the naming rule to a selector: leading
// underscores are ignored, and the prefix must end at a word boundary
// ("newItem" transfers, "newsstandIcon" does not).
func InfersTransfer(sel string) bool {
	sel = strings.TrimLeft(sel, "_")
	for _, prefix := range transferPrefixes {
		if !strings.HasPrefix(sel, prefix) {
			continue
		}
		rest := sel[len(prefix):]
		if rest == "" {
			return true
		}
		c := rest[0]
		if c >= 'a' && c <= 'z' {
			continue
		}
		return true
	}
	return false
}

func validSelector(sel string) bool {
	if sel == "" {
		return false
	}
	if !strings.Contains(sel, ":") {
		return validIdent(sel)
	}
	if !strings.HasSuffix(sel, ":") {
		return false
	}
	for _, part := range strings.Split(strings.TrimSuffix(sel, ":"), ":") {
		if !validIdent(part) {
			return false
		}
	}
	return true
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
