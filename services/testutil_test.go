package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wordnest/vocab_api/model"
)

// newTestStore opens an isolated in-memory database with the full schema.
func newTestStore(t *testing.T) *SqliteService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.UserSettings{},
		&model.Word{},
		&model.WordStat{},
		&model.GameResult{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return &SqliteService{db: db}
}

// seedProfile creates a user with default settings and returns its id.
func seedProfile(t *testing.T, store *SqliteService) string {
	t.Helper()

	userID := uuid.NewString()
	now := time.Now()

	if err := store.CreateUser(&model.User{
		ID:        userID,
		Email:     userID + "@test.local",
		Username:  "u_" + userID[:8],
		Password:  "x",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	if err := store.CreateUserSettings(&model.UserSettings{
		ID:         uuid.NewString(),
		UserID:     userID,
		DailyGoal:  10,
		Theme:      "light",
		SpeechRate: 1,
		Level:      1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	return userID
}

// makeWords builds n words with distinct terms and meanings.
func makeWords(n int) []model.Word {
	words := make([]model.Word, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, model.Word{
			ID:      fmt.Sprintf("word-%d", i),
			Term:    fmt.Sprintf("term%d", i),
			Meaning: fmt.Sprintf("meaning%d", i),
			Grade:   3,
		})
	}
	return words
}

func seedWords(t *testing.T, store *SqliteService, userID string, words []model.Word) {
	t.Helper()

	now := time.Now()
	for i := range words {
		w := words[i]
		w.UserID = userID
		w.CreatedAt = now
		w.UpdatedAt = now
		if err := store.CreateWord(&w); err != nil {
			t.Fatalf("failed to seed word %s: %v", w.Term, err)
		}
	}
}
