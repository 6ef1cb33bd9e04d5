package gpu

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logMu  sync.RWMutex
	logger = zap.NewNop()
)

// SetLogger sets the package logger. Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}

	logMu.Lock()
	logger = l
	logMu.Unlock()
}

func log() *zap.Logger {
	logMu.RLock()
	l := logger
	logMu.RUnlock()

	return l
}
