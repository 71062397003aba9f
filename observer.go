package plugging

import (
	"context"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Observer is notified of configuration events emitted while modules are
// being built. Events use the CloudEvents specification.
type Observer interface {
	// OnEvent handles a single event. Errors are logged and do not abort
	// configuration.
	OnEvent(ctx context.Context, event cloudevents.Event) error

	// ObserverID returns a unique identifier for this observer.
	ObserverID() string
}

// Event types emitted by the Builder.
const (
	EventTypeModuleAdded       = "com.plugging.module.added"
	EventTypeServiceRegistered = "com.plugging.service.registered"
	EventTypeServiceDecorated  = "com.plugging.service.decorated"
	EventTypePluggingAdded     = "com.plugging.configured"
)

// EventSource is the CloudEvents source of every event emitted by plugging.
const EventSource = "plugging.builder"

// FunctionalObserver adapts a function to Observer.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event cloudevents.Event) error
}

// NewFunctionalObserver creates an observer that calls handler for every event.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event cloudevents.Event) error) Observer {
	return &FunctionalObserver{id: id, handler: handler}
}

// OnEvent implements Observer.
func (f *FunctionalObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return f.handler(ctx, event)
}

// ObserverID implements Observer.
func (f *FunctionalObserver) ObserverID() string {
	return f.id
}

// ModuleEventData is the payload of module events.
type ModuleEventData struct {
	Module string `json:"module"`
}

// ServiceEventData is the payload of service events.
type ServiceEventData struct {
	Module     string   `json:"module"`
	Service    string   `json:"service"`
	Supported  string   `json:"supported,omitempty"`
	Operations []string `json:"operations,omitempty"`
}

// PluggingEventData is the payload of EventTypePluggingAdded.
type PluggingEventData struct {
	Modules []string `json:"modules"`
}

// NewCloudEvent creates a CloudEvent with a time-ordered ID. data is encoded
// as JSON; an encoding failure is returned with the event left without data.
func NewCloudEvent(eventType, source string, data any) (cloudevents.Event, error) {
	event := cloudevents.NewEvent()
	event.SetID(generateEventID())
	event.SetSource(source)
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)
	if data != nil {
		if err := event.SetData(cloudevents.ApplicationJSON, data); err != nil {
			return event, fmt.Errorf("encode %s event data: %w", eventType, err)
		}
	}
	return event, nil
}

// generateEventID uses UUIDv7 for time ordering and falls back to v4.
func generateEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// notifier fans events out to observers in registration order.
type notifier struct {
	observers []Observer
	logger    Logger
}

func (n *notifier) emit(ctx context.Context, eventType string, data any) {
	if len(n.observers) == 0 {
		return
	}
	event, err := NewCloudEvent(eventType, EventSource, data)
	if err != nil {
		n.logger.Error("Failed to create event", "eventType", eventType, "error", err)
		return
	}
	for _, o := range n.observers {
		if err := o.OnEvent(ctx, event); err != nil {
			n.logger.Warn("Observer failed to handle event", "observer", o.ObserverID(), "eventType", eventType, "error", err)
		}
	}
}
