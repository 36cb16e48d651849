// model/word.go
package model

import "time"

// Word is a single vocabulary entry in a profile's catalog. The meaning field
// may hold several acceptable answers separated by shared.MeaningDelimiter.
type Word struct {
	ID                     string    `json:"id" gorm:"primaryKey"`
	UserID                 string    `json:"user_id" gorm:"not null;index"`
	Term                   string    `json:"term" gorm:"not null;index"`
	Pronunciation          string    `json:"pronunciation"`
	PartOfSpeech           string    `json:"part_of_speech"`
	Meaning                string    `json:"meaning" gorm:"not null"`
	ExampleSentence        string    `json:"example_sentence" gorm:"type:text"`
	ExampleSentenceMeaning string    `json:"example_sentence_meaning" gorm:"type:text"`
	Grade                  int       `json:"grade"`
	Unit                   *int      `json:"unit"`
	IsCustom               bool      `json:"is_custom" gorm:"default:false"`
	ImageURL               string    `json:"image_url"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// WordStat tracks per-word learning state. Its ID always equals the word's ID
// and a row is created lazily the first time a word is touched.
type WordStat struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	UserID         string     `json:"user_id" gorm:"not null;index"`
	Mastered       bool       `json:"mastered" gorm:"default:false"`
	LastReviewed   *time.Time `json:"last_reviewed"`
	IncorrectCount int        `json:"incorrect_count" gorm:"default:0"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
