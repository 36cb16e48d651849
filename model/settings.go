// model/settings.go
package model

import "time"

// UserSettings is the per-profile singleton holding preferences and overall
// progress (XP, level, streaks, last-activity stamps per feature).
type UserSettings struct {
	ID            string  `json:"id" gorm:"primaryKey"`
	UserID        string  `json:"user_id" gorm:"uniqueIndex;not null"`
	DisplayName   string  `json:"display_name"`
	Grade         int     `json:"grade" gorm:"default:1"`
	DailyGoal     int     `json:"daily_goal" gorm:"default:10"`
	Theme         string  `json:"theme" gorm:"default:light"`
	SpeechRate    float64 `json:"speech_rate" gorm:"default:1"`
	Autoplay      bool    `json:"autoplay" gorm:"default:false"`
	XP            int     `json:"xp" gorm:"default:0"`
	Level         int     `json:"level" gorm:"default:1"`
	Streak        int     `json:"streak" gorm:"default:0"`
	BestStreak    int     `json:"best_streak" gorm:"default:0"`
	LastQuizScore int     `json:"last_quiz_score" gorm:"default:0"`
	LastQuizTotal int     `json:"last_quiz_total" gorm:"default:0"`

	LastLearnDate *time.Time `json:"last_learn_date"`
	LastQuizDate  *time.Time `json:"last_quiz_date"`
	LastGameDate  *time.Time `json:"last_game_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
