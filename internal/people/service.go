// Package people handles CRUD over the office's clients and lawyers:
// uniqueness-free, but deletes are referentially protected.
package people

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

type AddClientInput struct {
	FirstName    string `json:"first_name" validate:"required,max=80"`
	LastName     string `json:"last_name" validate:"required,max=80"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"max=40"`
	Organization string `json:"organization" validate:"max=120"`
	Notes        string `json:"notes" validate:"max=2000"`
}

type AddLawyerInput struct {
	FirstName      string `json:"first_name" validate:"required,max=80"`
	LastName       string `json:"last_name" validate:"required,max=80"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" validate:"max=40"`
	Specialization string `json:"specialization" validate:"max=120"`
	LicenseNumber  string `json:"license_number" validate:"max=40"`
	HourlyRate     string `json:"hourly_rate" validate:"omitempty,amount"`
}

type Service struct {
	db     *gorm.DB
	people *repo.Gateway[models.Person]
	med    *mediator.Mediator
}

func NewService(db *gorm.DB, med *mediator.Mediator) *Service {
	return &Service{db: db, people: repo.New[models.Person](db), med: med}
}

func (s *Service) fail(op string, err error) error {
	slog.Error("people operation failed", "op", op, "error", err)
	s.med.Failure(err.Error())
	return err
}

func (s *Service) byKind(id uint, kind models.PersonKind) (*models.Person, error) {
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

// AddClient registers a new client.
func (s *Service) AddClient(in AddClientInput) (*models.Person, error) {
	if errs, err := validation.Validate(in); err != nil {
		return nil, s.fail("add client", models.Validationf("invalid client input: %v", err))
	} else if errs != nil {
		return nil, s.fail("add client", models.Validationf("%s", validation.Message(errs)))
	}

	p := models.Person{
		Kind:         models.KindClient,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		Organization: strings.TrimSpace(in.Organization),
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    time.Now(),
	}
	if err := s.people.Add(&p); err != nil {
		return nil, s.fail("add client", err)
	}

	slog.Info("client added", "person_id", p.ID, "name", p.FullName())
	s.med.PersonChanged(mediator.PersonEvent{Person: p, Action: mediator.ActionAdded})
	s.med.DataChanged(fmt.Sprintf("Client %s added successfully", p.FullName()))
	return &p, nil
}

// AddLawyer registers a new lawyer. The hourly rate arrives as a decimal
// string and is stored in cents.
func (s *Service) AddLawyer(in AddLawyerInput) (*models.Person, error) {
	if errs, err := validation.Validate(in); err != nil {
		return nil, s.fail("add lawyer", models.Validationf("invalid lawyer input: %v", err))
	} else if errs != nil {
		return nil, s.fail("add lawyer", models.Validationf("%s", validation.Message(errs)))
	}

	var rate money.Cents
	if in.HourlyRate != "" {
		var err error
		rate, err = money.Parse(in.HourlyRate)
		if err != nil {
			return nil, s.fail("add lawyer", models.Validationf("hourly rate: %v", err))
		}
	}

	p := models.Person{
		Kind:            models.KindLawyer,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Email:           strings.TrimSpace(in.Email),
		Phone:           strings.TrimSpace(in.Phone),
		Specialization:  strings.TrimSpace(in.Specialization),
		LicenseNumber:   strings.TrimSpace(in.LicenseNumber),
		HourlyRateCents: int64(rate),
		CreatedAt:       time.Now(),
	}
	if err := s.people.Add(&p); err != nil {
		return nil, s.fail("add lawyer", err)
	}

	slog.Info("lawyer added", "person_id", p.ID, "name", p.FullName())
	s.med.PersonChanged(mediator.PersonEvent{Person: p, Action: mediator.ActionAdded})
	s.med.DataChanged(fmt.Sprintf("Lawyer %s added successfully", p.FullName()))
	return &p, nil
}

// UpdateContactInfo overwrites only the supplied (non-empty) contact
// fields.
func (s *Service) UpdateContactInfo(id uint, email, phone string) error {
	p, err := s.people.ByID(id)
	if err != nil {
		return s.fail("update contact info", err)
	}

	if e := strings.TrimSpace(email); e != "" {
		p.Email = e
	}
	if ph := strings.TrimSpace(phone); ph != "" {
		p.Phone = ph
	}
	if err := s.people.Update(p); err != nil {
		return s.fail("update contact info", err)
	}

	s.med.PersonChanged(mediator.PersonEvent{Person: *p, Action: mediator.ActionUpdated})
	s.med.DataChanged(fmt.Sprintf("%s updated", p.FullName()))
	return nil
}

// DeleteClient removes a client unless cases or invoices still reference
// them.
func (s *Service) DeleteClient(id uint) error {
	return s.deletePerson(id, models.KindClient)
}

// DeleteLawyer removes a lawyer unless cases still reference them.
func (s *Service) DeleteLawyer(id uint) error {
	return s.deletePerson(id, models.KindLawyer)
}

func (s *Service) deletePerson(id uint, kind models.PersonKind) error {
	op := fmt.Sprintf("delete %s", kind)
	p, err := s.byKind(id, kind)
	if err != nil {
		return s.fail(op, err)
	}

	column := "lawyer_id"
	if kind == models.KindClient {
		column = "client_id"
	}
	var cases int64
	if err := s.db.Model(&models.Case{}).Where(column+" = ?", id).Count(&cases).Error; err != nil {
		return s.fail(op, models.FromStore(err, "count cases"))
	}
	if cases > 0 {
		return s.fail(op, models.Constraintf("%s %s is referenced by %d case(s)", kind, p.FullName(), cases))
	}
	if kind == models.KindClient {
		var invoices int64
		if err := s.db.Model(&models.Invoice{}).Where("client_id = ?", id).Count(&invoices).Error; err != nil {
			return s.fail(op, models.FromStore(err, "count invoices"))
		}
		if invoices > 0 {
			return s.fail(op, models.Constraintf("client %s is referenced by %d invoice(s)", p.FullName(), invoices))
		}
	}

	if err := s.people.Delete(p); err != nil {
		return s.fail(op, err)
	}

	slog.Info("person deleted", "person_id", id, "kind", kind)
	s.med.PersonChanged(mediator.PersonEvent{Person: *p, Action: mediator.ActionDeleted})
	s.med.DataChanged(fmt.Sprintf("%s deleted", p.FullName()))
	return nil
}

// Search matches the term case-insensitively against first name, last name
// and email, across both kinds.
func (s *Service) Search(term string) ([]models.Person, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	var out []models.Person
	err := s.db.
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, models.FromStore(err, "search people")
	}
	return out, nil
}

// Clients returns every client.
func (s *Service) Clients() ([]models.Person, error) {
	return s.listKind(models.KindClient)
}

// Lawyers returns every lawyer.
func (s *Service) Lawyers() ([]models.Person, error) {
	return s.listKind(models.KindLawyer)
}

func (s *Service) listKind(kind models.PersonKind) ([]models.Person, error) {
	var out []models.Person
	err := s.db.Where("kind = ?", kind).Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, models.FromStore(err, "load people")
	}
	return out, nil
}

// ByID returns one person of any kind or a NotFoundError.
func (s *Service) ByID(id uint) (*models.Person, error) {
	return s.people.ByID(id)
}
