// Package seed fills an empty database with demo office data.
package seed

import (
	"time"

	"gorm.io/gorm"

	"lawoffice/pkg/models"
)

// IfEmpty inserts demo clients, lawyers and cases when no people exist yet.
func IfEmpty(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Person{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	c1 := models.Person{Kind: models.KindClient, FirstName: "Jane", LastName: "Doe", Email: "jane@mail.com", Organization: "Doe Holdings", CreatedAt: now}
	c2 := models.Person{Kind: models.KindClient, FirstName: "Peter", LastName: "Novak", Email: "peter@mail.com", CreatedAt: now}
	l1 := models.Person{Kind: models.KindLawyer, FirstName: "Ana", LastName: "Smith", Specialization: "Family law", LicenseNumber: "BAR-1021", HourlyRateCents: 15000, CreatedAt: now}
	l2 := models.Person{Kind: models.KindLawyer, FirstName: "Mark", LastName: "Janson", Specialization: "Business law", LicenseNumber: "BAR-2044", HourlyRateCents: 18000, CreatedAt: now}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, p := range []*models.Person{&c1, &c2, &l1, &l2} {
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}

		cases := []models.Case{
			{
				Title:        "Contract Dispute",
				Description:  "Disputed delivery terms in a supply contract",
				Status:       models.CaseActive,
				OpeningDate:  now,
				DeadlineDate: now.AddDate(0, 0, 10),
				ClientID:     c1.ID,
				LawyerID:     l1.ID,
			},
			{
				Title:        "Employment Agreement",
				Description:  "Review and negotiation of an employment agreement",
				Status:       models.CaseActive,
				OpeningDate:  now,
				DeadlineDate: now.AddDate(0, 0, 25),
				ClientID:     c2.ID,
				LawyerID:     l2.ID,
			},
		}
		for i := range cases {
			if err := tx.Create(&cases[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
