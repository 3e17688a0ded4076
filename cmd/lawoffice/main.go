package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"lawoffice/internal/cases"
	"lawoffice/internal/documents"
	"lawoffice/internal/invoices"
	"lawoffice/internal/mediator"
	"lawoffice/internal/people"
	"lawoffice/internal/seed"
	"lawoffice/internal/views"
	"lawoffice/pkg/database"
	"lawoffice/pkg/logging"
	"lawoffice/pkg/models"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	db := database.Init()
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := seed.IfEmpty(db); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	med := mediator.New()
	logSub := med.OnDataChanged(func(ev mediator.DataChanged) {
		if ev.Failed {
			slog.Error(ev.Message)
			return
		}
		slog.Info(ev.Message)
	})
	defer logSub.Unsubscribe()

	caseSvc := cases.NewService(db, med)
	peopleSvc := people.NewService(db, med)
	documentSvc := documents.NewService(db, med)
	invoiceSvc := invoices.NewService(db, med)

	// The desktop shell binds its grids to lists like these and calls the
	// services above; here we just surface a startup summary.
	caseList := views.NewList(med, caseSvc.All)
	defer caseList.Close()
	invoiceList := views.NewList(med, invoiceSvc.All)
	defer invoiceList.Close()

	clients, err := peopleSvc.Clients()
	if err != nil {
		slog.Error("loading clients failed", "error", err)
		os.Exit(1)
	}
	clientLookup := views.NewLookup(views.PersonRows(clients))

	active, err := caseSvc.ListByStatus(models.CaseActive)
	if err != nil {
		slog.Error("loading cases failed", "error", err)
		os.Exit(1)
	}
	upcoming, err := caseSvc.UpcomingDeadlines(30)
	if err != nil {
		slog.Error("loading deadlines failed", "error", err)
		os.Exit(1)
	}
	billed, err := invoiceSvc.TotalRevenue(false)
	if err != nil {
		slog.Error("loading revenue failed", "error", err)
		os.Exit(1)
	}
	collected, err := invoiceSvc.TotalRevenue(true)
	if err != nil {
		slog.Error("loading revenue failed", "error", err)
		os.Exit(1)
	}

	var docCount int
	for _, cs := range caseList.Items() {
		docs, err := documentSvc.ByCase(cs.ID)
		if err != nil {
			slog.Error("loading documents failed", "case_id", cs.ID, "error", err)
			os.Exit(1)
		}
		docCount += len(docs)
	}

	slog.Info("office ready",
		"clients", len(clientLookup.Rows()),
		"cases", len(caseList.Items()),
		"active_cases", len(active),
		"documents", docCount,
		"invoices", len(invoiceList.Items()),
		"upcoming_deadlines", len(upcoming),
		"billed", billed.String(),
		"collected", collected.String(),
	)
}
