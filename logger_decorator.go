package plugging

// ScopedLogger is a Logger that adds a fixed set of key-value pairs to every
// entry, for instance the module a builder is configuring.
type ScopedLogger struct {
	inner Logger
	args  []any
}

// NewScopedLogger wraps inner so every entry carries args. Scoping an
// already scoped logger appends to its arguments.
func NewScopedLogger(inner Logger, args ...any) *ScopedLogger {
	if inner == nil {
		inner = NopLogger()
	}
	if scoped, ok := inner.(*ScopedLogger); ok {
		return &ScopedLogger{inner: scoped.inner, args: scoped.combine(args)}
	}
	return &ScopedLogger{inner: inner, args: append([]any(nil), args...)}
}

// Inner returns the wrapped logger.
func (l *ScopedLogger) Inner() Logger {
	return l.inner
}

func (l *ScopedLogger) combine(args []any) []any {
	out := make([]any, 0, len(l.args)+len(args))
	out = append(out, l.args...)
	return append(out, args...)
}

func (l *ScopedLogger) Info(msg string, args ...any) {
	l.inner.Info(msg, l.combine(args)...)
}

func (l *ScopedLogger) Error(msg string, args ...any) {
	l.inner.Error(msg, l.combine(args)...)
}

func (l *ScopedLogger) Warn(msg string, args ...any) {
	l.inner.Warn(msg, l.combine(args)...)
}

func (l *ScopedLogger) Debug(msg string, args ...any) {
	l.inner.Debug(msg, l.combine(args)...)
}
