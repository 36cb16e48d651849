package dto

type StartGameRequest struct {
	Game  string `json:"game" validate:"required,oneof=word_match typing_practice speed_quiz word_shooter word_bomb zombie_defense timed_link"`
	Mode  string `json:"mode"`
	Grade int    `json:"grade" validate:"gte=0,lte=12"`
	Unit  *int   `json:"unit"`
}

type GameAnswerRequest struct {
	ItemID string `json:"item_id"`
	Answer string `json:"answer"`
}

type GamePairRequest struct {
	LeftID  string `json:"left_id" validate:"required"`
	RightID string `json:"right_id" validate:"required"`
}

// GameItemResponse is one on-screen item (falling word, bomb, zombie or a
// matching tile) together with its presentation timing.
type GameItemResponse struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Kind         string  `json:"kind"`
	XPercent     float64 `json:"x_percent"`
	EntryDelayMs int     `json:"entry_delay_ms"`
	LifetimeMs   int     `json:"lifetime_ms"`
}

type GameStateResponse struct {
	SessionID     string             `json:"session_id"`
	Game          string             `json:"game"`
	Phase         string             `json:"phase"`
	Score         int                `json:"score"`
	Lives         int                `json:"lives"`
	RemainingMs   int64              `json:"remaining_ms"`
	QuestionIndex int                `json:"question_index"`
	QuestionCount int                `json:"question_count"`
	Prompt        string             `json:"prompt,omitempty"`
	Options       []string           `json:"options,omitempty"`
	Items         []GameItemResponse `json:"items,omitempty"`
	LastJudgement string             `json:"last_judgement,omitempty"`
}

type GameResultResponse struct {
	SessionID string  `json:"session_id"`
	Game      string  `json:"game"`
	Score     int     `json:"score"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	WPM       float64 `json:"wpm,omitempty"`
	XPAwarded int     `json:"xp_awarded"`
	LevelUps  int     `json:"level_ups"`
}
