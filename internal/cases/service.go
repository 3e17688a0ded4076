// Package cases owns every legitimate transition of a case's lifecycle and
// its relationship fields.
package cases

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"lawoffice/internal/mediator"
	"lawoffice/internal/repo"
	"lawoffice/pkg/models"
	"lawoffice/pkg/money"
	"lawoffice/pkg/validation"
)

type CreateCaseInput struct {
	Title       string    `json:"title" validate:"required,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	ClientID    uint      `json:"client_id" validate:"required"`
	LawyerID    uint      `json:"lawyer_id" validate:"required"`
	Deadline    time.Time `json:"deadline"`
}

type Service struct {
	db    *gorm.DB
	cases *repo.Gateway[models.Case]
	med   *mediator.Mediator
}

func NewService(db *gorm.DB, med *mediator.Mediator) *Service {
	return &Service{db: db, cases: repo.New[models.Case](db), med: med}
}

// fail publishes a failure notification and hands the error back to the
// caller unchanged.
func (s *Service) fail(op string, err error) error {
	slog.Error("case operation failed", "op", op, "error", err)
	s.med.Failure(err.Error())
	return err
}

func (s *Service) person(id uint, kind models.PersonKind) (*models.Person, error) {
	var p models.Person
	err := s.db.Where("id = ? AND kind = ?", id, kind).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundf("%s %d not found", kind, id)
	}
	if err != nil {
		return nil, models.FromStore(err, "load person")
	}
	return &p, nil
}

// Create opens a new case. The case always starts Active with the opening
// date set to now; both the client and the lawyer must resolve.
func (s *Service) Create(in CreateCaseInput) (*models.Case, error) {
	if errs, err := validation.Validate(in); err != nil {
		return nil, s.fail("create", models.Validationf("invalid case input: %v", err))
	} else if errs != nil {
		return nil, s.fail("create", models.Validationf("%s", validation.Message(errs)))
	}

	if _, err := s.person(in.ClientID, models.KindClient); err != nil {
		return nil, s.fail("create", models.Validationf("client %d does not resolve", in.ClientID))
	}
	if _, err := s.person(in.LawyerID, models.KindLawyer); err != nil {
		return nil, s.fail("create", models.Validationf("lawyer %d does not resolve", in.LawyerID))
	}

	cs := models.Case{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Status:       models.CaseActive,
		OpeningDate:  time.Now(),
		DeadlineDate: in.Deadline,
		ClientID:     in.ClientID,
		LawyerID:     in.LawyerID,
	}
	if err := s.cases.Add(&cs); err != nil {
		return nil, s.fail("create", err)
	}

	slog.Info("case created", "case_id", cs.ID, "title", cs.Title)
	s.med.CaseChanged(mediator.CaseEvent{Case: cs, Action: mediator.ActionAdded})
	s.med.DataChanged(fmt.Sprintf("Case %s added successfully", cs.Title))
	return &cs, nil
}

// ChangeStatus applies the new status unconditionally: the machine is flat
// and repeated application of the same status is a no-op.
func (s *Service) ChangeStatus(id uint, status models.CaseStatus) error {
	if !status.Valid() {
		return s.fail("change status", models.Validationf("unknown case status %q", status))
	}
	cs, err := s.cases.ByID(id)
	if err != nil {
		return s.fail("change status", err)
	}

	old := cs.Status
	cs.Status = status
	if err := s.cases.Update(cs); err != nil {
		return s.fail("change status", err)
	}

	slog.Info("case status changed", "case_id", cs.ID, "old", old, "new", status)
	s.med.CaseChanged(mediator.CaseEvent{
		Case:      *cs,
		Action:    mediator.ActionStatusChanged,
		OldStatus: old,
		NewStatus: status,
	})
	s.med.DataChanged(fmt.Sprintf("Case status changed to %s", status))
	return nil
}

// AssignLawyer reassigns the case to another lawyer.
func (s *Service) AssignLawyer(caseID, lawyerID uint) error {
	cs, err := s.cases.ByID(caseID)
	if err != nil {
		return s.fail("assign lawyer", err)
	}
	lawyer, err := s.person(lawyerID, models.KindLawyer)
	if err != nil {
		return s.fail("assign lawyer", err)
	}

	cs.LawyerID = lawyerID
	if err := s.cases.Update(cs); err != nil {
		return s.fail("assign lawyer", err)
	}

	slog.Info("lawyer assigned", "case_id", cs.ID, "lawyer_id", lawyerID)
	s.med.CaseChanged(mediator.CaseEvent{Case: *cs, Action: mediator.ActionUpdated})
	s.med.DataChanged(fmt.Sprintf("Lawyer %s assigned to case", lawyer.FullName()))
	return nil
}

// Close stamps a closing date and resolves the case. The closing date may
// not precede the opening date.
func (s *Service) Close(id uint, closing time.Time) error {
	cs, err := s.cases.ByID(id)
	if err != nil {
		return s.fail("close", err)
	}
	if closing.Before(cs.OpeningDate) {
		return s.fail("close", models.Validationf("closing date precedes opening date"))
	}

	old := cs.Status
	cs.Status = models.CaseResolved
	cs.ClosingDate = &closing
	if err := s.cases.Update(cs); err != nil {
		return s.fail("close", err)
	}

	s.med.CaseChanged(mediator.CaseEvent{
		Case:      *cs,
		Action:    mediator.ActionStatusChanged,
		OldStatus: old,
		NewStatus: models.CaseResolved,
	})
	s.med.DataChanged(fmt.Sprintf("Case %s closed", cs.Title))
	return nil
}

// AddCost accrues an amount onto the case's running cost total.
func (s *Service) AddCost(id uint, amount money.Cents) error {
	if amount < 0 {
		return s.fail("add cost", models.Validationf("cost amount must be non-negative"))
	}
	cs, err := s.cases.ByID(id)
	if err != nil {
		return s.fail("add cost", err)
	}

	cs.CostCents += int64(amount)
	if err := s.cases.Update(cs); err != nil {
		return s.fail("add cost", err)
	}

	s.med.CaseChanged(mediator.CaseEvent{Case: *cs, Action: mediator.ActionUpdated})
	s.med.DataChanged(fmt.Sprintf("Case %s costs updated", cs.Title))
	return nil
}

// All returns every case.
func (s *Service) All() ([]models.Case, error) {
	return s.cases.All()
}

// ByID returns one case or a NotFoundError.
func (s *Service) ByID(id uint) (*models.Case, error) {
	return s.cases.ByID(id)
}

// ListByStatus returns cases currently in the given status.
func (s *Service) ListByStatus(status models.CaseStatus) ([]models.Case, error) {
	var out []models.Case
	err := s.db.Where("status = ?", status).Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, models.FromStore(err, "load cases")
	}
	return out, nil
}

// UpcomingDeadlines returns cases whose deadline falls in
// [now, now+withinDays], ascending by deadline, ties broken by id.
func (s *Service) UpcomingDeadlines(withinDays int) ([]models.Case, error) {
	now := time.Now()
	until := now.AddDate(0, 0, withinDays)

	var out []models.Case
	err := s.db.
		Where("deadline_date >= ? AND deadline_date <= ?", now, until).
		Order("deadline_date ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, models.FromStore(err, "load deadlines")
	}
	return out, nil
}

// Delete removes a case and cascades to its documents in one transaction.
// It is rejected while any invoice still references the case.
func (s *Service) Delete(id uint) error {
	cs, err := s.cases.ByID(id)
	if err != nil {
		return s.fail("delete", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var invoices int64
		if err := tx.Model(&models.Invoice{}).Where("case_id = ?", id).Count(&invoices).Error; err != nil {
			return models.FromStore(err, "count invoices")
		}
		if invoices > 0 {
			return models.Constraintf("case %d has %d invoice(s); delete them first", id, invoices)
		}
		if err := tx.Where("case_id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return models.FromStore(err, "delete documents")
		}
		return models.FromStore(tx.Delete(&models.Case{}, id).Error, "delete case")
	})
	if err != nil {
		return s.fail("delete", err)
	}

	slog.Info("case deleted", "case_id", id, "title", cs.Title)
	s.med.CaseChanged(mediator.CaseEvent{Case: *cs, Action: mediator.ActionDeleted})
	s.med.DataChanged(fmt.Sprintf("Case %s deleted", cs.Title))
	return nil
}
