package database

import (
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lawoffice/pkg/models"
)

// Init opens the office database. A DATABASE_URL selects Postgres;
// otherwise a local SQLite file is used (LAWOFFICE_DB, default
// lawoffice.db).
func Init() *gorm.DB {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatal("failed to connect database:", err)
		}
		return db
	}

	path := os.Getenv("LAWOFFICE_DB")
	if path == "" {
		path = "lawoffice.db"
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}
	return db
}

// Migrate creates or updates the schema for every entity table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Person{}, &models.Case{}, &models.Document{}, &models.Invoice{},
	)
}
