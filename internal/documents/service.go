// Package documents manages the records owned by a case.
package documents

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"lawoffice/internal/mediator"
	"lawoffice/internal/repo"
	"lawoffice/pkg/models"
	"lawoffice/pkg/validation"
)

type AddDocumentInput struct {
	CaseID     uint   `json:"case_id" validate:"required"`
	Type       string `json:"type" validate:"required,max=60"`
	Title      string `json:"title" validate:"required,max=160"`
	Importance string `json:"importance" validate:"omitempty,oneof=low normal high critical"`
}

type Service struct {
	db   *gorm.DB
	docs *repo.Gateway[models.Document]
	med  *mediator.Mediator
}

func NewService(db *gorm.DB, med *mediator.Mediator) *Service {
	return &Service{db: db, docs: repo.New[models.Document](db), med: med}
}

func (s *Service) fail(op string, err error) error {
	slog.Error("document operation failed", "op", op, "error", err)
	s.med.Failure(err.Error())
	return err
}

// Add files a new document under an existing case. The creation timestamp
// is set here and never changes.
func (s *Service) Add(in AddDocumentInput) (*models.Document, error) {
	if errs, err := validation.Validate(in); err != nil {
		return nil, s.fail("add", models.Validationf("invalid document input: %v", err))
	} else if errs != nil {
		return nil, s.fail("add", models.Validationf("%s", validation.Message(errs)))
	}

	var count int64
	if err := s.db.Model(&models.Case{}).Where("id = ?", in.CaseID).Count(&count).Error; err != nil {
		return nil, s.fail("add", models.FromStore(err, "load case"))
	}
	if count == 0 {
		return nil, s.fail("add", models.NotFoundf("case %d not found", in.CaseID))
	}

	importance := models.Importance(in.Importance)
	if importance == "" {
		importance = models.ImportanceNormal
	}
	doc := models.Document{
		CaseID:     in.CaseID,
		Type:       strings.TrimSpace(in.Type),
		Title:      strings.TrimSpace(in.Title),
		Importance: importance,
		CreatedAt:  time.Now(),
	}
	if err := s.docs.Add(&doc); err != nil {
		return nil, s.fail("add", err)
	}

	slog.Info("document added", "document_id", doc.ID, "case_id", doc.CaseID)
	s.med.DocumentChanged(mediator.DocumentEvent{Document: doc, Action: mediator.ActionAdded})
	s.med.DataChanged(fmt.Sprintf("Document %s added successfully", doc.Title))
	return &doc, nil
}

// ByCase returns the documents owned by a case, oldest first.
func (s *Service) ByCase(caseID uint) ([]models.Document, error) {
	var out []models.Document
	err := s.db.Where("case_id = ?", caseID).Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, models.FromStore(err, "load documents")
	}
	return out, nil
}

// Search matches the term case-insensitively against title and type.
func (s *Service) Search(term string) ([]models.Document, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	var out []models.Document
	err := s.db.
		Where("LOWER(title) LIKE ? OR LOWER(type) LIKE ?", pattern, pattern).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, models.FromStore(err, "search documents")
	}
	return out, nil
}

// Rename retitles a document.
func (s *Service) Rename(id uint, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return s.fail("rename", models.Validationf("title must not be empty"))
	}
	doc, err := s.docs.ByID(id)
	if err != nil {
		return s.fail("rename", err)
	}

	doc.Title = title
	if err := s.docs.Update(doc); err != nil {
		return s.fail("rename", err)
	}

	s.med.DocumentChanged(mediator.DocumentEvent{Document: *doc, Action: mediator.ActionUpdated})
	s.med.DataChanged(fmt.Sprintf("Document %s updated", doc.Title))
	return nil
}

// Delete removes a single document. Documents own nothing, so the delete
// is unconditional.
func (s *Service) Delete(id uint) error {
	doc, err := s.docs.ByID(id)
	if err != nil {
		return s.fail("delete", err)
	}
	if err := s.docs.Delete(doc); err != nil {
		return s.fail("delete", err)
	}

	slog.Info("document deleted", "document_id", id)
	s.med.DocumentChanged(mediator.DocumentEvent{Document: *doc, Action: mediator.ActionDeleted})
	s.med.DataChanged(fmt.Sprintf("Document %s deleted", doc.Title))
	return nil
}
