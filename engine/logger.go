package engine

import (
	"sync"

	"go.uber.org/zap"
)

var (
	log        *zap.Logger
	loggerOnce sync.Once
)

func logger() *zap.Logger {
	loggerOnce.Do(func() {
		if log == nil {
			log = zap.NewNop()
		}
	})
	return log
}

// SetLogger configures the engine package's logger.
// This must be called before New.
func SetLogger(l *zap.Logger) {
	log = l
}
