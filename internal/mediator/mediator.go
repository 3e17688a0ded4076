// Package mediator is the process-wide notification hub between domain
// services and the view layer. Services publish after every mutation;
// views subscribe to refresh. Publishing is synchronous and fire-and-forget
// on the caller's goroutine.
package mediator

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"lawoffice/pkg/models"
)

// Action tags what happened to an entity.
type Action string

const (
	ActionAdded         Action = "added"
	ActionUpdated       Action = "updated"
	ActionDeleted       Action = "deleted"
	ActionStatusChanged Action = "status_changed"
)

// DataChanged is the generic notification raised after every operation,
// success or failure.
type DataChanged struct {
	Message string
	Failed  bool
	At      time.Time
}

// CaseEvent carries the affected case. Old/NewStatus are set only for
// ActionStatusChanged.
type CaseEvent struct {
	Case      models.Case
	Action    Action
	OldStatus models.CaseStatus
	NewStatus models.CaseStatus
	At        time.Time
}

// DocumentEvent carries the affected document.
type DocumentEvent struct {
	Document models.Document
	Action   Action
	At       time.Time
}

// InvoiceEvent carries the affected invoice. Status is a human-readable
// payment status string, e.g. "paid".
type InvoiceEvent struct {
	Invoice models.Invoice
	Action  Action
	Status  string
	At      time.Time
}

// PersonEvent carries the affected client or lawyer.
type PersonEvent struct {
	Person models.Person
	Action Action
	At     time.Time
}

// Subscription is the handle returned from every subscribe call. Holders
// must call Unsubscribe when done (e.g. on view teardown) so the mediator
// does not retain their reference indefinitely.
type Subscription struct {
	id     uuid.UUID
	cancel func()
}

// Unsubscribe deregisters the subscriber. Safe to call more than once.
func (s Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type handler[T any] struct {
	id uuid.UUID
	fn func(T)
}

// topic keeps subscribers in registration order. The mutex only guards the
// registry; dispatch happens on a snapshot.
type topic[T any] struct {
	mu   sync.Mutex
	subs []handler[T]
}

func (t *topic[T]) subscribe(fn func(T)) Subscription {
	id := uuid.New()
	t.mu.Lock()
	t.subs = append(t.subs, handler[T]{id: id, fn: fn})
	t.mu.Unlock()
	return Subscription{id: id, cancel: func() { t.unsubscribe(id) }}
}

func (t *topic[T]) unsubscribe(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, h := range t.subs {
		if h.id == id {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			return
		}
	}
}

func (t *topic[T]) publish(ev T) {
	t.mu.Lock()
	subs := make([]handler[T], len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	for _, h := range subs {
		deliver(h, ev)
	}
}

// deliver isolates subscriber failures: a panicking subscriber must not
// stop later subscribers or propagate back to the publishing service.
func deliver[T any](h handler[T], ev T) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("mediator subscriber panicked", "subscription", h.id, "panic", r)
		}
	}()
	h.fn(ev)
}

// Mediator fans notifications out to any number of subscribers per topic.
type Mediator struct {
	data      topic[DataChanged]
	cases     topic[CaseEvent]
	documents topic[DocumentEvent]
	invoices  topic[InvoiceEvent]
	people    topic[PersonEvent]
}

func New() *Mediator { return &Mediator{} }

/* ============================ Subscriptions ============================= */

func (m *Mediator) OnDataChanged(fn func(DataChanged)) Subscription {
	return m.data.subscribe(fn)
}

func (m *Mediator) OnCaseChanged(fn func(CaseEvent)) Subscription {
	return m.cases.subscribe(fn)
}

func (m *Mediator) OnDocumentChanged(fn func(DocumentEvent)) Subscription {
	return m.documents.subscribe(fn)
}

func (m *Mediator) OnInvoiceChanged(fn func(InvoiceEvent)) Subscription {
	return m.invoices.subscribe(fn)
}

func (m *Mediator) OnPersonChanged(fn func(PersonEvent)) Subscription {
	return m.people.subscribe(fn)
}

/* ============================== Publishing ============================== */

// DataChanged announces a successful operation.
func (m *Mediator) DataChanged(message string) {
	m.data.publish(DataChanged{Message: message, At: time.Now()})
}

// Failure announces a failed operation instead of a success notification.
func (m *Mediator) Failure(message string) {
	m.data.publish(DataChanged{Message: message, Failed: true, At: time.Now()})
}

func (m *Mediator) CaseChanged(ev CaseEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	m.cases.publish(ev)
}

func (m *Mediator) DocumentChanged(ev DocumentEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	m.documents.publish(ev)
}

func (m *Mediator) InvoiceChanged(ev InvoiceEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	m.invoices.publish(ev)
}

func (m *Mediator) PersonChanged(ev PersonEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	m.people.publish(ev)
}
