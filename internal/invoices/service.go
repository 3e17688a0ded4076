// Package invoices owns the billing lifecycle tied to a case.
package invoices

import (
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

type CreateInvoiceInput struct {
	Number   string `json:"number" validate:"required,invoicenum"`
	Amount   string `json:"amount" validate:"required,amount"`
	CaseID   uint   `json:"case_id" validate:"required"`
	ClientID *uint  `json:"client_id"`
}

type Service struct {
	db       *gorm.DB
	invoices *repo.Gateway[models.Invoice]
	med      *mediator.Mediator
}

func NewService(db *gorm.DB, med *mediator.Mediator) *Service {
	return &Service{db: db, invoices: repo.New[models.Invoice](db), med: med}
}

func (s *Service) fail(op string, err error) error {
	slog.Error("invoice operation failed", "op", op, "error", err)
	s.med.Failure(err.Error())
	return err
}

// Create issues a new invoice against a case. The amount arrives as a
// decimal string and must parse to a non-negative value before anything is
// persisted.
func (s *Service) Create(in CreateInvoiceInput) (*models.Invoice, error) {
	if errs, err := validation.Validate(in); err != nil {
		return nil, s.fail("create", models.Validationf("invalid invoice input: %v", err))
	} else if errs != nil {
		return nil, s.fail("create", models.Validationf("%s", validation.Message(errs)))
	}

	amount, err := money.Parse(in.Amount)
	if err != nil {
		return nil, s.fail("create", models.Validationf("amount: %v", err))
	}

	var count int64
	if err := s.db.Model(&models.Case{}).Where("id = ?", in.CaseID).Count(&count).Error; err != nil {
		return nil, s.fail("create", models.FromStore(err, "load case"))
	}
	if count == 0 {
		return nil, s.fail("create", models.Validationf("case %d does not resolve", in.CaseID))
	}

	number := strings.TrimSpace(in.Number)
	if err := s.db.Model(&models.Invoice{}).Where("number = ?", number).Count(&count).Error; err != nil {
		return nil, s.fail("create", models.FromStore(err, "check invoice number"))
	}
	if count > 0 {
		return nil, s.fail("create", models.Validationf("invoice number %s already exists", number))
	}

	inv := models.Invoice{
		Number:      number,
		CaseID:      in.CaseID,
		ClientID:    in.ClientID,
		AmountCents: int64(amount),
		IssueDate:   time.Now(),
		Paid:        false,
	}
	if err := s.invoices.Add(&inv); err != nil {
		return nil, s.fail("create", err)
	}

	slog.Info("invoice created", "invoice_id", inv.ID, "number", inv.Number, "amount", amount)
	s.med.InvoiceChanged(mediator.InvoiceEvent{Invoice: inv, Action: mediator.ActionAdded, Status: "unpaid"})
	s.med.DataChanged(fmt.Sprintf("Invoice %s created successfully", inv.Number))
	return &inv, nil
}

// SetPaid flips the paid flag. Moving to paid stamps the payment date;
// moving back clears it.
func (s *Service) SetPaid(id uint, paid bool) error {
	inv, err := s.invoices.ByID(id)
	if err != nil {
		return s.fail("set paid", err)
	}

	inv.Paid = paid
	if paid {
		now := time.Now()
		inv.PaymentDate = &now
	} else {
		inv.PaymentDate = nil
	}
	if err := s.invoices.Update(inv); err != nil {
		return s.fail("set paid", err)
	}

	status := "unpaid"
	if paid {
		status = "paid"
	}
	slog.Info("invoice payment status changed", "invoice_id", inv.ID, "status", status)
	s.med.InvoiceChanged(mediator.InvoiceEvent{Invoice: *inv, Action: mediator.ActionUpdated, Status: status})
	s.med.DataChanged(fmt.Sprintf("Invoice marked as %s", status))
	return nil
}

// TotalRevenue sums invoice amounts, optionally restricted to paid ones.
// An empty invoice set sums to zero.
func (s *Service) TotalRevenue(paidOnly bool) (money.Cents, error) {
	q := s.db.Model(&models.Invoice{})
	if paidOnly {
		q = q.Where("paid = ?", true)
	}

	var total int64
	if err := q.Select("COALESCE(SUM(amount_cents), 0)").Scan(&total).Error; err != nil {
		return 0, models.FromStore(err, "sum revenue")
	}
	return money.Cents(total), nil
}

// Delete removes an invoice unconditionally: invoices own no children.
func (s *Service) Delete(id uint) error {
	inv, err := s.invoices.ByID(id)
	if err != nil {
		return s.fail("delete", err)
	}
	if err := s.invoices.Delete(inv); err != nil {
		return s.fail("delete", err)
	}

	slog.Info("invoice deleted", "invoice_id", id, "number", inv.Number)
	s.med.InvoiceChanged(mediator.InvoiceEvent{Invoice: *inv, Action: mediator.ActionDeleted})
	s.med.DataChanged(fmt.Sprintf("Invoice %s deleted", inv.Number))
	return nil
}

// All returns every invoice.
func (s *Service) All() ([]models.Invoice, error) {
	return s.invoices.All()
}

// Unpaid returns outstanding invoices.
func (s *Service) Unpaid() ([]models.Invoice, error) {
	return s.listPaid(false)
}

// Paid returns settled invoices.
func (s *Service) Paid() ([]models.Invoice, error) {
	return s.listPaid(true)
}

func (s *Service) listPaid(paid bool) ([]models.Invoice, error) {
	var out []models.Invoice
	err := s.db.Where("paid = ?", paid).Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, models.FromStore(err, "load invoices")
	}
	return out, nil
}

// ByCase returns the invoices billed against one case.
func (s *Service) ByCase(caseID uint) ([]models.Invoice, error) {
	var out []models.Invoice
	err := s.db.Where("case_id = ?", caseID).Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, models.FromStore(err, "load invoices")
	}
	return out, nil
}
