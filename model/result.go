// model/result.go
package model

import "time"

// GameResult records one finished mini-game session.
type GameResult struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	UserID          string    `json:"user_id" gorm:"not null;index"`
	Game            string    `json:"game" gorm:"not null"`
	Mode            string    `json:"mode"`
	Score           int       `json:"score" gorm:"not null"`
	Correct         int       `json:"correct" gorm:"not null"`
	Incorrect       int       `json:"incorrect" gorm:"not null"`
	DurationSeconds int       `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}
