package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"
)

type EventType string

const (
	EventConnect    EventType = "connect"
	EventDisconnect EventType = "disconnect"
	EventError      EventType = "error"
)

// Event is a transport lifecycle notification. Err is only set for EventError.
type Event struct {
	Type EventType
	Err  error
}

func Connect() Event {
	return Event{Type: EventConnect}
}

func Disconnect() Event {
	return Event{Type: EventDisconnect}
}

func Error(err error) Event {
	return Event{Type: EventError, Err: err}
}

type Handler func(Event)

type Notifier interface {
	Notify(ev Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(ev Event) {
	f(ev)
}

type subscription struct {
	id      uuid.UUID
	handler Handler
}

// Dispatcher fans an event out to its subscribers, in subscription order, on
// the notifying goroutine.
type Dispatcher struct {
	mu            sync.RWMutex
	subscriptions []subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Subscribe(handler Handler) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := uuid.New()
	d.subscriptions = append(d.subscriptions, subscription{id: id, handler: handler})
	return id
}

func (d *Dispatcher) Unsubscribe(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscriptions = funk.Filter(d.subscriptions, func(s subscription) bool {
		return s.id != id
	}).([]subscription)
}

func (d *Dispatcher) Notify(ev Event) {
	d.mu.RLock()
	subscriptions := make([]subscription, len(d.subscriptions))
	copy(subscriptions, d.subscriptions)
	d.mu.RUnlock()

	// handlers may subscribe or unsubscribe, so they run without the lock
	funk.ForEach(subscriptions, func(s subscription) { s.handler(ev) })
}
