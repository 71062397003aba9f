package plugging

// Logger defines the interface for plugging's structured logging. Arguments
// are key-value pairs:
//
//	logger.Debug("Service registered", "module", "ripple", "service", "Gateway")
//
// *slog.Logger satisfies it directly; NewZapLogger adapts a zap logger.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}
