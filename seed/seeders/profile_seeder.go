package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wordnest/vocab_api/model"
)

const (
	demoEmail    = "student@wordnest.local"
	demoUsername = "student"
	demoPassword = "Student123"
)

// ProfileSeeder creates the demo student profile
type ProfileSeeder struct {
	db *gorm.DB
}

// NewProfileSeeder creates a new profile seeder
func NewProfileSeeder(db *gorm.DB) *ProfileSeeder {
	return &ProfileSeeder{db: db}
}

// SeedDemoProfile creates the demo user and its default settings. Running
// it twice is safe; the existing user id is returned.
func (s *ProfileSeeder) SeedDemoProfile() (string, error) {
	var existing model.User
	err := s.db.Where("username = ?", demoUsername).First(&existing).Error
	if err == nil {
		log.Printf("Demo profile already exists, skipping")
		return existing.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	now := time.Now()
	user := model.User{
		ID:        id.String(),
		Email:     demoEmail,
		Username:  demoUsername,
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return "", err
	}

	settings := model.UserSettings{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		DisplayName: "Demo Student",
		Grade:       3,
		DailyGoal:   10,
		Theme:       "light",
		SpeechRate:  1,
		Level:       1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.Create(&settings).Error; err != nil {
		return "", err
	}

	log.Printf("Created demo profile: %s / %s", demoUsername, demoPassword)
	return user.ID, nil
}
