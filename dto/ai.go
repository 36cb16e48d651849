package dto

// WordLookupResult is the parsed provider response for a word-detail lookup.
// Partial results carry just the term when the provider output was unusable.
type WordLookupResult struct {
	Term                   string `json:"term"`
	Pronunciation          string `json:"pronunciation,omitempty"`
	PartOfSpeech           string `json:"partOfSpeech"`
	Meaning                string `json:"meaning"`
	ExampleSentence        string `json:"exampleSentence"`
	ExampleSentenceMeaning string `json:"exampleSentenceMeaning,omitempty"`
	Partial                bool   `json:"partial,omitempty"`
}

type WordLookupRequest struct {
	Term string `json:"term" validate:"required,min=1,max=100"`
}

type RegenerateExampleRequest struct {
	WordID string `json:"word_id" validate:"required"`
}

type RegenerateExampleResult struct {
	ExampleSentence        string `json:"exampleSentence"`
	ExampleSentenceMeaning string `json:"exampleSentenceMeaning,omitempty"`
}

type SummarizeRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

type SummarizeResult struct {
	Summary string `json:"summary"`
}

type GenerateImageRequest struct {
	WordID string `json:"word_id" validate:"required"`
}

type GenerateImageResult struct {
	WordID   string `json:"word_id"`
	ImageURL string `json:"image_url"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1"`
}

// ChatChunk is one streamed fragment of a tutor-chat reply.
type ChatChunk struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
	Error   string `json:"error,omitempty"`
}

type AIStatusResponse struct {
	Available      bool  `json:"available"`
	CooldownForSec int64 `json:"cooldown_for_sec,omitempty"`
}
