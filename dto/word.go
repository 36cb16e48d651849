package dto

import "time"

type CreateWordRequest struct {
	Term                   string `json:"term" validate:"required,min=1,max=100"`
	Pronunciation          string `json:"pronunciation"`
	PartOfSpeech           string `json:"part_of_speech"`
	Meaning                string `json:"meaning" validate:"required"`
	ExampleSentence        string `json:"example_sentence"`
	ExampleSentenceMeaning string `json:"example_sentence_meaning"`
	Grade                  int    `json:"grade" validate:"gte=0,lte=12"`
	Unit                   *int   `json:"unit"`
}

type UpdateWordRequest struct {
	Pronunciation          *string `json:"pronunciation"`
	PartOfSpeech           *string `json:"part_of_speech"`
	Meaning                *string `json:"meaning"`
	ExampleSentence        *string `json:"example_sentence"`
	ExampleSentenceMeaning *string `json:"example_sentence_meaning"`
	Unit                   *int    `json:"unit"`
}

type WordResponse struct {
	ID                     string     `json:"id"`
	Term                   string     `json:"term"`
	Pronunciation          string     `json:"pronunciation,omitempty"`
	PartOfSpeech           string     `json:"part_of_speech"`
	Meaning                string     `json:"meaning"`
	ExampleSentence        string     `json:"example_sentence"`
	ExampleSentenceMeaning string     `json:"example_sentence_meaning,omitempty"`
	Grade                  int        `json:"grade"`
	Unit                   *int       `json:"unit,omitempty"`
	IsCustom               bool       `json:"is_custom"`
	ImageURL               string     `json:"image_url,omitempty"`
	Mastered               bool       `json:"mastered"`
	LastReviewed           *time.Time `json:"last_reviewed"`
	IncorrectCount         int        `json:"incorrect_count"`
}

type WordCollectionResponse struct {
	Words []WordResponse `json:"words"`
	Total int            `json:"total"`
}

type ImportWordsResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
