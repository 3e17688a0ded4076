// Package views holds the presentation-side collaborators: typed lookup
// tables for mapping UI selections to store ids, and observable lists that
// re-query on mediator notifications.
package views

import (
	"sync"

	"lawoffice/internal/mediator"
	"lawoffice/pkg/models"
)

// Row is the display projection a selection widget binds to.
type Row struct {
	ID    uint
	Label string
}

// Lookup maps store ids to display rows. It is rebuilt once per data
// refresh instead of resolving selections dynamically.
type Lookup struct {
	byID  map[uint]Row
	order []Row
}

func NewLookup(rows []Row) *Lookup {
	l := &Lookup{byID: make(map[uint]Row, len(rows)), order: rows}
	for _, r := range rows {
		l.byID[r.ID] = r
	}
	return l
}

// Get resolves a selected id to its display row.
func (l *Lookup) Get(id uint) (Row, bool) {
	r, ok := l.byID[id]
	return r, ok
}

// Rows returns the rows in their original order, for list binding.
func (l *Lookup) Rows() []Row { return l.order }

// PersonRows projects people into selection rows.
func PersonRows(people []models.Person) []Row {
	rows := make([]Row, 0, len(people))
	for _, p := range people {
		rows = append(rows, Row{ID: p.ID, Label: p.FullName()})
	}
	return rows
}

// CaseRows projects cases into selection rows.
func CaseRows(cases []models.Case) []Row {
	rows := make([]Row, 0, len(cases))
	for _, c := range cases {
		rows = append(rows, Row{ID: c.ID, Label: c.Title})
	}
	return rows
}

// List holds an observable copy of an entity list. It subscribes to the
// mediator on construction and re-queries through the supplied loader after
// every successful mutation; Close must be called on teardown to release
// the subscription.
type List[T any] struct {
	mu    sync.Mutex
	load  func() ([]T, error)
	items []T
	sub   mediator.Subscription
}

func NewList[T any](med *mediator.Mediator, load func() ([]T, error)) *List[T] {
	l := &List[T]{load: load}
	l.sub = med.OnDataChanged(func(ev mediator.DataChanged) {
		if ev.Failed {
			return
		}
		_ = l.Refresh()
	})
	_ = l.Refresh()
	return l
}

// Refresh re-queries the backing loader and swaps the held copy.
func (l *List[T]) Refresh() error {
	items, err := l.load()
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return nil
}

// Items returns the current copy.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items
}

// Close releases the mediator subscription.
func (l *List[T]) Close() { l.sub.Unsubscribe() }
