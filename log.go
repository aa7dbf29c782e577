package formskema

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() { logger.Store(zap.NewNop()) }

// SetLogger replaces the logger used for schema diagnostics. nil restores the
// no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// Logger returns the current diagnostics logger.
func Logger() *zap.Logger { return logger.Load() }

// reportMalformed logs a schema definition error found during an operation.
func reportMalformed(op string, p *path, reason string) {
	Logger().Warn("schema definition error",
		zap.String("op", op),
		zap.String("path", p.pointer()),
		zap.String("reason", reason))
}
