package plugging

import (
	"context"
	"strings"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// Gateway is the core interface used throughout the tests.
type Gateway interface {
	Name() string
}

// Ledger is a second core interface no test module registers by default.
type Ledger interface {
	Balance() int
}

const (
	opRead Operations = 1 << iota
	opWrite
	opDelete
)

var gatewayOperations = MustOperationSet("gateway",
	Op("read", opRead),
	Op("write", opWrite),
	Op("delete", opDelete),
)

type fooGateway struct {
	name string
}

func (g *fooGateway) Name() string { return g.name }

type notAGateway struct{}

// tracingGateway decorates a Gateway by appending a tag to its name.
type tracingGateway struct {
	inner Gateway
	tag   string
}

func (g *tracingGateway) Name() string { return g.inner.Name() + "+" + g.tag }

// TestLogger captures log entries for verification.
type TestLogger struct {
	mu      sync.Mutex
	entries []TestLogEntry
}

type TestLogEntry struct {
	Level   string
	Message string
	Args    []any
}

func NewTestLogger() *TestLogger {
	return &TestLogger{entries: make([]TestLogEntry, 0)}
}

func (t *TestLogger) log(level, msg string, args []any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, TestLogEntry{Level: level, Message: msg, Args: args})
}

func (t *TestLogger) Info(msg string, args ...any)  { t.log("info", msg, args) }
func (t *TestLogger) Error(msg string, args ...any) { t.log("error", msg, args) }
func (t *TestLogger) Warn(msg string, args ...any)  { t.log("warn", msg, args) }
func (t *TestLogger) Debug(msg string, args ...any) { t.log("debug", msg, args) }

func (t *TestLogger) FindEntry(level, message string) *TestLogEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, entry := range t.entries {
		if entry.Level == level && strings.Contains(entry.Message, message) {
			return &entry
		}
	}
	return nil
}

// recordingObserver stores every event it receives.
type recordingObserver struct {
	mu     sync.Mutex
	events []cloudevents.Event
}

func (o *recordingObserver) OnEvent(_ context.Context, event cloudevents.Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
	return nil
}

func (o *recordingObserver) ObserverID() string { return "recorder" }

func (o *recordingObserver) types() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.events))
	for _, e := range o.events {
		out = append(out, e.Type())
	}
	return out
}
