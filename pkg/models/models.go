package models

import (
	"strings"
	"time"
)

/* =============================== Enums ================================== */

// PersonKind discriminates the closed person hierarchy. A person's kind is
// fixed at creation and never changes.
type PersonKind string

const (
	KindLawyer PersonKind = "lawyer"
	KindClient PersonKind = "client"
)

// CaseStatus defines lifecycle states for a case. The machine is flat:
// every status may move to every other status, and none is terminal.
type CaseStatus string

const (
	CaseActive   CaseStatus = "active"
	CaseTrial    CaseStatus = "trial"
	CaseResolved CaseStatus = "resolved"
	CaseRejected CaseStatus = "rejected"
	CaseOnHold   CaseStatus = "on_hold"
)

// Valid reports whether s names a known case status.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseActive, CaseTrial, CaseResolved, CaseRejected, CaseOnHold:
		return true
	}
	return false
}

// Importance levels a document can carry.
type Importance string

const (
	ImportanceLow      Importance = "low"
	ImportanceNormal   Importance = "normal"
	ImportanceHigh     Importance = "high"
	ImportanceCritical Importance = "critical"
)

/* =============================== Entities =============================== */

// Person represents a lawyer or a client of the office. The two kinds share
// one table with a discriminator column; kind-specific fields stay zero for
// the other kind.
type Person struct {
	ID        uint       `gorm:"primaryKey"`
	Kind      PersonKind `gorm:"type:varchar(20);not null;index"`
	FirstName string     `gorm:"not null"`
	LastName  string     `gorm:"not null"`
	Email     string
	Phone     string
	CreatedAt time.Time

	// Lawyer fields
	Specialization  string
	LicenseNumber   string
	HourlyRateCents int64

	// Client fields
	Organization string
	Notes        string
}

// FullName joins the name parts for display.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Case represents a legal matter owned by a client and handled by a lawyer.
// Deleting a case removes its documents but is rejected while invoices
// still reference it.
type Case struct {
	ID           uint   `gorm:"primaryKey"`
	Title        string `gorm:"not null"`
	Description  string
	Status       CaseStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	OpeningDate  time.Time  `gorm:"not null"`
	ClosingDate  *time.Time
	DeadlineDate time.Time `gorm:"index"`

	ClientID uint    `gorm:"not null;index"`
	Client   *Person `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
	LawyerID uint    `gorm:"not null;index"`
	Lawyer   *Person `gorm:"foreignKey:LawyerID;constraint:OnDelete:RESTRICT"`

	Documents []Document `gorm:"constraint:OnDelete:CASCADE"`

	CostCents int64 // accrued so far, in cents
}

// Document is a record owned by exactly one case.
type Document struct {
	ID         uint       `gorm:"primaryKey"`
	CaseID     uint       `gorm:"not null;index"`
	Type       string     `gorm:"not null"`
	Title      string     `gorm:"not null"`
	Importance Importance `gorm:"type:varchar(20);not null;default:'normal'"`
	CreatedAt  time.Time
}

// Invoice bills a case (and optionally the client directly). Amounts are
// stored in cents to avoid float issues.
type Invoice struct {
	ID          uint   `gorm:"primaryKey"`
	Number      string `gorm:"uniqueIndex;not null"`
	CaseID      uint   `gorm:"not null;index"`
	Case        *Case  `gorm:"foreignKey:CaseID;constraint:OnDelete:RESTRICT"`
	ClientID    *uint  `gorm:"index"`
	AmountCents int64  `gorm:"not null"`
	IssueDate   time.Time
	Paid        bool `gorm:"not null;default:false"`
	PaymentDate *time.Time
}
