//go:build !darwin

package engine

import (
	"runtime"

	"github.com/objckit/objckit"
	"github.com/objckit/objckit/errors"
)

// New reports that no native runtime exists on this platform.
func New() (objckit.Runtime, error) {
	return nil, errors.Unsupported(errors.PhaseRuntime, "no Objective-C runtime on "+runtime.GOOS)
}
