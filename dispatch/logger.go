package dispatch

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

// SetLogger configures the dispatch package's logger.
// This must be called before any engine operations.
func SetLogger(l *zap.Logger) {
	log = l
}
