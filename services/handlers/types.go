package handlers

import (
	"context"
	"io"

	"github.com/wordnest/vocab_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(userID string) (*dto.TokenPair, error)
}

type JWTServiceInterface interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (string, error)
}

type ProgressServiceInterface interface {
	GetSettings(userID string) (*dto.SettingsResponse, error)
	UpdateSettings(userID string, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
	Dashboard(userID string) (*dto.DashboardResponse, error)
	Leaderboard(userID string, limit int) (*dto.LeaderboardResponse, error)
	ResetProfile(userID string) error

	CreateWord(userID string, req *dto.CreateWordRequest) (*dto.WordResponse, error)
	GetWordDetail(userID, wordID string) (*dto.WordResponse, error)
	ListWords(userID string, grade int, unit *int) (*dto.WordCollectionResponse, error)
	UpdateWordDetail(userID, wordID string, req *dto.UpdateWordRequest) (*dto.WordResponse, error)
	DeleteWordDetail(userID, wordID string) error
	ToggleMastered(userID, wordID string) (*dto.WordResponse, error)
	RecordWordLearned(userID, wordID string) error
}

type QuizServiceInterface interface {
	StartQuiz(userID string, req *dto.StartQuizRequest) (*dto.QuizStateResponse, error)
	SubmitAnswer(userID string, req *dto.SubmitAnswerRequest) (*dto.QuizStateResponse, error)
	Advance(userID string) (*dto.QuizStateResponse, error)
	Restart(userID string) (*dto.QuizStateResponse, error)
	Result(userID string) (*dto.QuizResultResponse, error)
	State(userID string) (*dto.QuizStateResponse, error)
	Abandon(userID string)
}

type GameServiceInterface interface {
	StartGame(userID string, req *dto.StartGameRequest) (*dto.GameStateResponse, error)
	SubmitAnswer(userID string, req *dto.GameAnswerRequest) (*dto.GameStateResponse, error)
	SubmitPair(userID string, req *dto.GamePairRequest) (*dto.GameStateResponse, error)
	Result(userID string) (*dto.GameResultResponse, error)
	State(userID string) (*dto.GameStateResponse, error)
	Teardown(userID string)
}

type AIServiceInterface interface {
	LookupWord(ctx context.Context, term string) (*dto.WordLookupResult, error)
	RegenerateExample(ctx context.Context, term, meaning string) (*dto.RegenerateExampleResult, error)
	Summarize(ctx context.Context, text string) (*dto.SummarizeResult, error)
	GenerateImage(ctx context.Context, term string) ([]byte, error)
	Chat(ctx context.Context, message string, out chan<- dto.ChatChunk)
	Status() dto.AIStatusResponse
}

type MediaServiceInterface interface {
	StoreWordImage(userID, wordID string, data []byte, contentType string) (string, error)
	DeleteWordImage(userID, wordID string) error
}

type SpeechServiceInterface interface {
	Speak(ctx context.Context, text, language string, rate float64) ([]byte, error)
}

type ImporterServiceInterface interface {
	ImportXLSX(userID string, r io.Reader) (*dto.ImportWordsResponse, error)
}
