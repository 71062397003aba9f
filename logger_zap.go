package plugging

import "go.uber.org/zap"

// ZapLogger adapts a zap sugared logger to Logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps l. A nil l yields a no-op zap logger.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{sugar: l.Sugar()}
}

func (z *ZapLogger) Info(msg string, args ...any) {
	z.sugar.Infow(msg, args...)
}

func (z *ZapLogger) Error(msg string, args ...any) {
	z.sugar.Errorw(msg, args...)
}

func (z *ZapLogger) Warn(msg string, args ...any) {
	z.sugar.Warnw(msg, args...)
}

func (z *ZapLogger) Debug(msg string, args ...any) {
	z.sugar.Debugw(msg, args...)
}

// Sync flushes buffered log entries.
func (z *ZapLogger) Sync() error {
	return z.sugar.Sync() //nolint:wrapcheck // passthrough
}
