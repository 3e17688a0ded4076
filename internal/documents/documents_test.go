package documents

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"lawoffice/internal/mediator"
	"lawoffice/pkg/database"
	"lawoffice/pkg/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCase(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	client := models.Person{Kind: models.KindClient, FirstName: "Jane", LastName: "Doe"}
	lawyer := models.Person{Kind: models.KindLawyer, FirstName: "Ana", LastName: "Smith"}
	for _, p := range []*models.Person{&client, &lawyer} {
		if err := db.Create(p).Error; err != nil {
			t.Fatal(err)
		}
	}
	cs := models.Case{
		Title: "Contract Dispute", Status: models.CaseActive,
		OpeningDate: time.Now(), ClientID: client.ID, LawyerID: lawyer.ID,
	}
	if err := db.Create(&cs).Error; err != nil {
		t.Fatal(err)
	}
	return cs.ID
}

func Test_Add_StampsCreationTime_DefaultsImportance(t *testing.T) {
	db := openTestDB(t)
	med := mediator.New()
	svc := NewService(db, med)
	caseID := seedCase(t, db)

	var events []mediator.DocumentEvent
	sub := med.OnDocumentChanged(func(ev mediator.DocumentEvent) { events = append(events, ev) })
	defer sub.Unsubscribe()

	before := time.Now()
	doc, err := svc.Add(AddDocumentInput{CaseID: caseID, Type: "motion", Title: "Motion to dismiss"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if doc.Importance != models.ImportanceNormal {
		t.Fatalf("want default importance normal, got %q", doc.Importance)
	}
	if doc.CreatedAt.Before(before) || doc.CreatedAt.After(time.Now()) {
		t.Fatalf("creation time should be ≈ now, got %v", doc.CreatedAt)
	}
	if len(events) != 1 || events[0].Action != mediator.ActionAdded {
		t.Fatalf("want one added event, got %#v", events)
	}
}

func Test_Add_UnknownCase_NotFound(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, mediator.New())

	_, err := svc.Add(AddDocumentInput{CaseID: 404, Type: "motion", Title: "X"})
	if !models.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func Test_Add_BadImportance_Validation(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, mediator.New())
	caseID := seedCase(t, db)

	_, err := svc.Add(AddDocumentInput{CaseID: caseID, Type: "motion", Title: "X", Importance: "urgent"})
	if !models.IsValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func Test_ByCase_ReturnsOwnDocumentsOnly(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, mediator.New())
	a := seedCase(t, db)
	b := seedCase(t, db)

	if _, err := svc.Add(AddDocumentInput{CaseID: a, Type: "motion", Title: "For A"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(AddDocumentInput{CaseID: b, Type: "evidence", Title: "For B"}); err != nil {
		t.Fatal(err)
	}

	docs, err := svc.ByCase(a)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Title != "For A" {
		t.Fatalf("want only case A's document, got %#v", docs)
	}
}

func Test_Search_TitleAndType_CaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, mediator.New())
	caseID := seedCase(t, db)

	if _, err := svc.Add(AddDocumentInput{CaseID: caseID, Type: "Motion", Title: "Dismissal brief"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(AddDocumentInput{CaseID: caseID, Type: "Evidence", Title: "Exhibit A"}); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Search("MOTION")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Dismissal brief" {
		t.Fatalf("want the motion, got %#v", got)
	}
}

func Test_Rename_ChangesTitleOnly(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, mediator.New())
	caseID := seedCase(t, db)

	doc, err := svc.Add(AddDocumentInput{CaseID: caseID, Type: "motion", Title: "Old"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Rename(doc.ID, "New"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	var got models.Document
	if err := db.First(&got, doc.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.Title != "New" || got.Type != "motion" {
		t.Fatalf("want retitled document, got %#v", got)
	}

	if err := svc.Rename(doc.ID, "  "); !models.IsValidation(err) {
		t.Fatalf("want ValidationError on empty title, got %v", err)
	}
}

func Test_Delete_Unconditional(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, mediator.New())
	caseID := seedCase(t, db)

	doc, err := svc.Add(AddDocumentInput{CaseID: caseID, Type: "motion", Title: "X"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(doc.ID); !models.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}
