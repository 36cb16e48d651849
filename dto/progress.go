package dto

import "time"

type SettingsResponse struct {
	DisplayName   string     `json:"display_name"`
	Grade         int        `json:"grade"`
	DailyGoal     int        `json:"daily_goal"`
	Theme         string     `json:"theme"`
	SpeechRate    float64    `json:"speech_rate"`
	Autoplay      bool       `json:"autoplay"`
	XP            int        `json:"xp"`
	Level         int        `json:"level"`
	XPToNextLevel int        `json:"xp_to_next_level"`
	Streak        int        `json:"streak"`
	BestStreak    int        `json:"best_streak"`
	LastLearnDate *time.Time `json:"last_learn_date"`
	LastQuizDate  *time.Time `json:"last_quiz_date"`
	LastGameDate  *time.Time `json:"last_game_date"`
}

type UpdateSettingsRequest struct {
	DisplayName *string  `json:"display_name"`
	Grade       *int     `json:"grade" validate:"omitempty,gte=0,lte=12"`
	DailyGoal   *int     `json:"daily_goal" validate:"omitempty,gte=1,lte=200"`
	Theme       *string  `json:"theme" validate:"omitempty,oneof=light dark"`
	SpeechRate  *float64 `json:"speech_rate" validate:"omitempty,gte=0.5,lte=2"`
	Autoplay    *bool    `json:"autoplay"`
}

// DashboardResponse is recomputed from current state on every read; nothing
// here is stored.
type DashboardResponse struct {
	WordsLearnedToday int  `json:"words_learned_today"`
	TotalWordsLearned int  `json:"total_words_learned"`
	TotalWords        int  `json:"total_words"`
	DailyGoal         int  `json:"daily_goal"`
	Streak            int  `json:"streak"`
	BestStreak        int  `json:"best_streak"`
	LastQuizScore     int  `json:"last_quiz_score"`
	LastQuizTotal     int  `json:"last_quiz_total"`
	QuizDoneToday     bool `json:"quiz_done_today"`
	GameDoneToday     bool `json:"game_done_today"`
	ReviewNeeded      bool `json:"review_needed"`
	XP                int  `json:"xp"`
	Level             int  `json:"level"`
	XPToNextLevel     int  `json:"xp_to_next_level"`
}

type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Level       int    `json:"level"`
	XP          int    `json:"xp"`
	Rank        int    `json:"rank"`
}

type LeaderboardResponse struct {
	TopUsers    []LeaderboardEntry `json:"top_users"`
	CurrentUser LeaderboardEntry   `json:"current_user"`
}
