// services/http.go
package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	docs "github.com/wordnest/vocab_api/docs"

	"github.com/wordnest/vocab_api/services/handlers"
	"github.com/wordnest/vocab_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	progressSvc   *ProgressService
	quizSvc       *QuizService
	gameSvc       *GameService
	aiSvc         *AIService
	speechSvc     *SpeechService
	mediaSvc      *MediaService
	importerSvc   *ImporterService
	monitoringSvc *MonitoringService
	authMW        *AuthMiddleware

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc *HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.quizSvc = svc.Service(QUIZ_SVC).(*QuizService)
	svc.gameSvc = svc.Service(GAME_SVC).(*GameService)
	svc.aiSvc = svc.Service(AI_SVC).(*AIService)
	svc.speechSvc = svc.Service(SPEECH_SVC).(*SpeechService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.importerSvc = svc.Service(IMPORTER_SVC).(*ImporterService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.authMW = svc.Service(AUTH_MIDDLEWARE_SVC).(*AuthMiddleware)

	docs.SwaggerInfo.BasePath = ""

	app := fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		ErrorHandler: svc.handleError,
		BodyLimit:    16 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	svc.registerRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	log.WithField("port", svc.port).Info("HTTP server starting")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	wordHandler := handlers.NewWordHandler(svc.progressSvc, svc.importerSvc, svc.aiSvc, svc.mediaSvc)
	quizHandler := handlers.NewQuizHandler(svc.quizSvc)
	gameHandler := handlers.NewGameHandler(svc.gameSvc)
	progressHandler := handlers.NewProgressHandler(svc.progressSvc)
	aiHandler := handlers.NewAIHandler(svc.aiSvc, svc.progressSvc)
	speechHandler := handlers.NewSpeechHandler(svc.speechSvc)

	v1 := app.Group("/api/v1")

	v1.Get("/ping", svc.ping)
	v1.Post("/register", authHandler.Register)
	v1.Post("/login", authHandler.Login)

	auth := v1.Use(svc.authMW.RequiredAuth())

	auth.Post("/refresh", authHandler.Refresh)

	auth.Get("/words", wordHandler.ListWords)
	auth.Post("/words", wordHandler.CreateWord)
	auth.Post("/words/import", wordHandler.ImportWords)
	auth.Get("/words/:wordId", wordHandler.GetWord)
	auth.Put("/words/:wordId", wordHandler.UpdateWord)
	auth.Delete("/words/:wordId", wordHandler.DeleteWord)
	auth.Post("/words/:wordId/learned", wordHandler.MarkLearned)
	auth.Post("/words/:wordId/mastered", wordHandler.ToggleMastered)
	auth.Post("/words/:wordId/image", wordHandler.GenerateImage)

	auth.Post("/quiz/start", quizHandler.Start)
	auth.Post("/quiz/answer", quizHandler.Answer)
	auth.Post("/quiz/advance", quizHandler.Advance)
	auth.Post("/quiz/restart", quizHandler.Restart)
	auth.Post("/quiz/result", quizHandler.Result)
	auth.Get("/quiz", quizHandler.State)
	auth.Delete("/quiz", quizHandler.Abandon)

	auth.Post("/games/start", gameHandler.Start)
	auth.Post("/games/answer", gameHandler.Answer)
	auth.Post("/games/pair", gameHandler.Pair)
	auth.Post("/games/result", gameHandler.Result)
	auth.Get("/games", gameHandler.State)
	auth.Delete("/games", gameHandler.Quit)

	auth.Get("/dashboard", progressHandler.Dashboard)
	auth.Get("/settings", progressHandler.GetSettings)
	auth.Put("/settings", progressHandler.UpdateSettings)
	auth.Get("/leaderboard", progressHandler.Leaderboard)
	auth.Post("/profile/reset", progressHandler.ResetProfile)

	auth.Get("/ai/status", aiHandler.Status)
	auth.Post("/ai/lookup", aiHandler.Lookup)
	auth.Post("/ai/example", aiHandler.RegenerateExample)
	auth.Post("/ai/summarize", aiHandler.Summarize)
	auth.Post("/ai/chat", aiHandler.Chat)

	auth.Post("/speech", speechHandler.Speak)
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseOK(c, "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= 500 {
			log.WithError(appErr).Error("Request failed")
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
