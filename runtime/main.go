package main

import (
	"github.com/wordnest/vocab_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// @title WordNest API
// @version 1.0
// @description Vocabulary learning service: word catalog, quizzes, mini-games and an AI tutor
// @BasePath /
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.SqliteService{},
		&services.RedisService{},
		&services.MinIOService{},
		&services.JWTService{},
		&services.AuthMiddleware{},

		&services.AuthService{},
		&services.ProgressService{},
		&services.QuizService{},
		&services.GameService{},
		&services.AIService{},
		&services.SpeechService{},
		&services.MediaService{},
		&services.ImporterService{},
		&services.SchedulerService{},

		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
