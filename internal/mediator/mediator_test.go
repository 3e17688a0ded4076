package mediator

import (
	"testing"

	"lawoffice/pkg/models"
)

// Subscribers run synchronously in registration order.
func Test_Publish_RegistrationOrder(t *testing.T) {
	m := New()

	var order []int
	s1 := m.OnDataChanged(func(DataChanged) { order = append(order, 1) })
	s2 := m.OnDataChanged(func(DataChanged) { order = append(order, 2) })
	s3 := m.OnDataChanged(func(DataChanged) { order = append(order, 3) })
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()
	defer s3.Unsubscribe()

	m.DataChanged("hello")

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("want [1 2 3], got %v", order)
	}
}

// A panicking subscriber must not stop later subscribers or reach the
// publisher.
func Test_Publish_IsolatesPanickingSubscriber(t *testing.T) {
	m := New()

	s1 := m.OnDataChanged(func(DataChanged) { panic("boom") })
	defer s1.Unsubscribe()
	var reached bool
	s2 := m.OnDataChanged(func(DataChanged) { reached = true })
	defer s2.Unsubscribe()

	m.DataChanged("hello") // must not panic

	if !reached {
		t.Fatal("later subscriber should still run")
	}
}

// After Unsubscribe the handler receives nothing further; a second
// Unsubscribe is harmless.
func Test_Unsubscribe_StopsDelivery(t *testing.T) {
	m := New()

	var count int
	sub := m.OnCaseChanged(func(CaseEvent) { count++ })

	m.CaseChanged(CaseEvent{Action: ActionAdded})
	sub.Unsubscribe()
	m.CaseChanged(CaseEvent{Action: ActionUpdated})
	sub.Unsubscribe()

	if count != 1 {
		t.Fatalf("want exactly one delivery, got %d", count)
	}
}

func Test_Unsubscribe_LeavesOtherSubscribersAlone(t *testing.T) {
	m := New()

	var a, b int
	subA := m.OnDataChanged(func(DataChanged) { a++ })
	subB := m.OnDataChanged(func(DataChanged) { b++ })
	defer subB.Unsubscribe()

	subA.Unsubscribe()
	m.DataChanged("x")

	if a != 0 || b != 1 {
		t.Fatalf("want a=0 b=1, got a=%d b=%d", a, b)
	}
}

// Topics are independent: an invoice event never reaches case subscribers.
func Test_Topics_AreIndependent(t *testing.T) {
	m := New()

	var caseEvents, invoiceEvents int
	s1 := m.OnCaseChanged(func(CaseEvent) { caseEvents++ })
	s2 := m.OnInvoiceChanged(func(InvoiceEvent) { invoiceEvents++ })
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()

	m.InvoiceChanged(InvoiceEvent{Action: ActionAdded, Status: "unpaid"})

	if caseEvents != 0 || invoiceEvents != 1 {
		t.Fatalf("want 0 case / 1 invoice events, got %d / %d", caseEvents, invoiceEvents)
	}
}

// Failure notifications carry the failed flag and a timestamp.
func Test_Failure_SetsFlagAndTimestamp(t *testing.T) {
	m := New()

	var got DataChanged
	sub := m.OnDataChanged(func(ev DataChanged) { got = ev })
	defer sub.Unsubscribe()

	m.Failure("something broke")

	if !got.Failed || got.Message != "something broke" || got.At.IsZero() {
		t.Fatalf("unexpected failure event %#v", got)
	}
}

// Typed events get a timestamp stamped when the publisher left it zero.
func Test_Publish_StampsTimestamp(t *testing.T) {
	m := New()

	var got CaseEvent
	sub := m.OnCaseChanged(func(ev CaseEvent) { got = ev })
	defer sub.Unsubscribe()

	m.CaseChanged(CaseEvent{
		Case:      models.Case{Title: "T"},
		Action:    ActionStatusChanged,
		OldStatus: models.CaseActive,
		NewStatus: models.CaseResolved,
	})

	if got.At.IsZero() {
		t.Fatal("timestamp should be stamped on publish")
	}
	if got.OldStatus != models.CaseActive || got.NewStatus != models.CaseResolved {
		t.Fatalf("status payload lost: %#v", got)
	}
}
