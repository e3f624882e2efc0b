package gen

import (
	"strconv"
	"strings"

	"github.com/objckit/objckit/errors"
)

// goKeywords that selector segments may collide with when used as
// parameter names.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
}

// goName converts a selector into an exported Go method name:
// "setObject:forKey:" becomes "SetObjectForKey". A segment that does not
// start with a letter is rejected; underscore-prefixed selectors mark
// private methods and get no binding.
func goName(sel string) (string, error) {
	var b strings.Builder
	for _, seg := range strings.Split(strings.TrimSuffix(sel, ":"), ":") {
		if seg == "" || !isLetter(seg[0]) {
			return "", errors.InvalidName(errors.PhaseGenerate, sel)
		}
		b.WriteString(strings.ToUpper(seg[:1]))
		b.WriteString(seg[1:])
	}
	return b.String(), nil
}

// descName builds the package-level descriptor variable name for a
// selector on a class. Class-side selectors get a Cls suffix so an
// instance method and a class method with the same name coexist.
func descName(class, exported string, classSide bool) string {
	name := strings.ToLower(class[:1]) + class[1:] + exported
	if classSide {
		name += "Cls"
	}
	return name
}

// paramName derives a parameter name from a selector segment, falling
// back to a positional name for keywords.
func paramName(seg string, i int) string {
	seg = strings.TrimSuffix(seg, ":")
	if seg == "" || goKeywords[seg] || !isLetter(seg[0]) {
		return "arg" + strconv.Itoa(i)
	}
	return strings.ToLower(seg[:1]) + seg[1:]
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
