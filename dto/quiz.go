package dto

type StartQuizRequest struct {
	QuizType string `json:"quiz_type" validate:"required,oneof=multiple_choice typed"`
	Grade    int    `json:"grade" validate:"gte=0,lte=12"`
	Unit     *int   `json:"unit"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// QuizStateResponse mirrors the session back to the client after every
// action. The correct meaning is only revealed while a result is showing.
type QuizStateResponse struct {
	SessionID     string   `json:"session_id"`
	Phase         string   `json:"phase"`
	QuizType      string   `json:"quiz_type"`
	QuestionIndex int      `json:"question_index"`
	QuestionCount int      `json:"question_count"`
	Term          string   `json:"term,omitempty"`
	Pronunciation string   `json:"pronunciation,omitempty"`
	Options       []string `json:"options,omitempty"`
	Score         int      `json:"score"`
	ShowingResult bool     `json:"showing_result"`
	LastCorrect   bool     `json:"last_correct"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

type QuizResultResponse struct {
	SessionID string         `json:"session_id"`
	Score     int            `json:"score"`
	Total     int            `json:"total"`
	XPAwarded int            `json:"xp_awarded"`
	LevelUps  int            `json:"level_ups"`
	Mistakes  []WordResponse `json:"mistakes"`
}
