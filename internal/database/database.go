package database

import (
	"log"
	"strings"

	"backoffice/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate keeps the schema in sync with the domain entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Quotation{},
		&domain.QuotationTab{},
		&domain.QuotationItem{},
		&domain.TabLink{},
		&domain.Concept{},
		&domain.ConceptCategory{},
		&domain.PriceHistory{},
		&domain.PriceOverride{},
		&domain.Contract{},
		&domain.ContractToken{},
		&domain.ContractSignature{},
		&domain.ContractHistory{},
		&domain.Conversation{},
		&domain.ConversationParticipant{},
		&domain.Message{},
		&domain.Email{},
	)
}
