// Package repo provides the generic persistence gateway the domain
// services sit on. One Gateway handles one entity table.
package repo

import (
	"errors"

	"gorm.io/gorm"

	"lawoffice/pkg/models"
)

// Gateway provides CRUD over a single entity type. Restrict/cascade rules
// are enforced by the services so violations surface as domain errors
// instead of being swallowed by the store.
type Gateway[T any] struct {
	db *gorm.DB
}

func New[T any](db *gorm.DB) *Gateway[T] { return &Gateway[T]{db: db} }

// All returns every row, in primary-key order.
func (g *Gateway[T]) All() ([]T, error) {
	var out []T
	if err := g.db.Order("id ASC").Find(&out).Error; err != nil {
		return nil, models.FromStore(err, "load records")
	}
	return out, nil
}

// ByID returns the row with the given id, or a NotFoundError.
func (g *Gateway[T]) ByID(id uint) (*T, error) {
	var e T
	err := g.db.First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundf("record %d not found", id)
	}
	if err != nil {
		return nil, models.FromStore(err, "load record")
	}
	return &e, nil
}

// Add persists a new row; the store assigns the identity.
func (g *Gateway[T]) Add(e *T) error {
	return models.FromStore(g.db.Create(e).Error, "save record")
}

// Update writes back every field of an existing row.
func (g *Gateway[T]) Update(e *T) error {
	return models.FromStore(g.db.Save(e).Error, "update record")
}

// Delete removes the row.
func (g *Gateway[T]) Delete(e *T) error {
	return models.FromStore(g.db.Delete(e).Error, "delete record")
}
