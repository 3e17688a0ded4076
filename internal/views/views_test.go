package views

import (
	"testing"

	"lawoffice/internal/mediator"
	"lawoffice/pkg/models"
)

func Test_Lookup_GetAndOrder(t *testing.T) {
	l := NewLookup(PersonRows([]models.Person{
		{ID: 2, FirstName: "Jane", LastName: "Doe"},
		{ID: 5, FirstName: "Ana", LastName: "Smith"},
	}))

	r, ok := l.Get(5)
	if !ok || r.Label != "Ana Smith" {
		t.Fatalf("want Ana Smith, got %#v (ok=%v)", r, ok)
	}
	if _, ok := l.Get(99); ok {
		t.Fatal("unknown id should not resolve")
	}

	rows := l.Rows()
	if len(rows) != 2 || rows[0].ID != 2 || rows[1].ID != 5 {
		t.Fatalf("rows should keep refresh order, got %#v", rows)
	}
}

// The list re-queries after successful mutations and ignores failures.
func Test_List_RefreshesOnDataChanged(t *testing.T) {
	med := mediator.New()

	data := []string{"a"}
	list := NewList(med, func() ([]string, error) { return data, nil })
	defer list.Close()

	if len(list.Items()) != 1 {
		t.Fatalf("want initial load, got %#v", list.Items())
	}

	data = []string{"a", "b"}
	med.DataChanged("something saved")
	if len(list.Items()) != 2 {
		t.Fatalf("want refreshed copy, got %#v", list.Items())
	}

	data = []string{"a", "b", "c"}
	med.Failure("save failed")
	if len(list.Items()) != 2 {
		t.Fatalf("failures must not refresh, got %#v", list.Items())
	}
}

func Test_List_Close_StopsRefreshing(t *testing.T) {
	med := mediator.New()

	data := []string{"a"}
	list := NewList(med, func() ([]string, error) { return data, nil })

	list.Close()
	data = []string{"a", "b"}
	med.DataChanged("saved")

	if len(list.Items()) != 1 {
		t.Fatalf("closed list should not refresh, got %#v", list.Items())
	}
}
