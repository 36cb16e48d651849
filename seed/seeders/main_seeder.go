package seeders

import (
	"log"

	"gorm.io/gorm"

	"github.com/wordnest/vocab_api/model"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll creates the demo profile and fills its starter word catalog
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.db.AutoMigrate(
		&model.User{},
		&model.UserSettings{},
		&model.Word{},
		&model.WordStat{},
		&model.GameResult{},
	); err != nil {
		return err
	}

	userID, err := s.SeedDemoProfile()
	if err != nil {
		log.Printf("Demo profile seeding failed: %v", err)
		return err
	}

	wordSeeder := NewWordSeeder(s.db)
	if err := wordSeeder.SeedWords(userID); err != nil {
		log.Printf("Word seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedDemoProfile creates the demo login if it does not exist yet and
// returns its user id
func (s *MainSeeder) SeedDemoProfile() (string, error) {
	profileSeeder := NewProfileSeeder(s.db)
	return profileSeeder.SeedDemoProfile()
}

// SeedWordsOnly fills the demo profile's starter catalog
func (s *MainSeeder) SeedWordsOnly() error {
	userID, err := s.SeedDemoProfile()
	if err != nil {
		return err
	}

	wordSeeder := NewWordSeeder(s.db)
	return wordSeeder.SeedWords(userID)
}
