// services/quiz.go
package services

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/model"
	"github.com/wordnest/vocab_api/shared"
)

type quizPhase string

const (
	quizPhaseSetup    quizPhase = "setup"
	quizPhasePlaying  quizPhase = "playing"
	quizPhaseFinished quizPhase = "finished"
)

const (
	quizMaxQuestions   = 10
	quizMinChoicePool  = 4
	quizOptionCount    = 4
	quizDistractorsPer = quizOptionCount - 1
)

type quizSession struct {
	id       string
	userID   string
	quizType string
	grade    int
	unit     *int

	words   []model.Word
	pool    []model.Word
	index   int
	score   int
	options []string

	showingResult bool
	lastCorrect   bool
	phase         quizPhase

	mistakes    []model.Word
	mistakeSeen map[string]bool

	rng *rand.Rand
}

// QuizService runs one quiz session per profile as an in-memory state
// machine. Finished sessions report their outcome to the progress tracker.
type QuizService struct {
	appContext.DefaultService

	sqlSvc      *SqliteService
	progressSvc *ProgressService

	mu       sync.Mutex
	sessions map[string]*quizSession

	rng *rand.Rand
}

const QUIZ_SVC = "quiz_svc"

func (svc *QuizService) Id() string {
	return QUIZ_SVC
}

func (svc *QuizService) Configure(ctx *appContext.Context) error {
	svc.sessions = map[string]*quizSession{}
	svc.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	return svc.DefaultService.Configure(ctx)
}

func (svc *QuizService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	return nil
}

// ==================== SAMPLING & OPTIONS ====================

// sampleWords draws up to max distinct words via a partial Fisher-Yates
// shuffle of a copy of the pool.
func sampleWords(rng *rand.Rand, pool []model.Word, max int) []model.Word {
	out := make([]model.Word, len(pool))
	copy(out, pool)

	n := len(out)
	if max > n {
		max = n
	}

	for i := 0; i < max; i++ {
		j := i + rng.Intn(n-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:max]
}

// buildOptions assembles the choice set for a word: its meaning plus three
// deduplicated distractor meanings from the rest of the pool, padded with
// placeholders when the pool lacks distinct meanings, then shuffled.
func buildOptions(rng *rand.Rand, word model.Word, pool []model.Word) []string {
	seen := map[string]bool{strings.ToLower(strings.TrimSpace(word.Meaning)): true}
	options := []string{word.Meaning}

	order := rng.Perm(len(pool))
	for _, idx := range order {
		if len(options) == quizOptionCount {
			break
		}
		candidate := pool[idx]
		if candidate.ID == word.ID {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(candidate.Meaning))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		options = append(options, candidate.Meaning)
	}

	for i := 1; len(options) < quizOptionCount; i++ {
		options = append(options, fmt.Sprintf("— %d —", i))
	}

	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// answerMatches checks an answer against a meaning. Meanings can list
// alternatives separated by "/"; any of them, trimmed and case-folded,
// counts.
func answerMatches(meaning, answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return false
	}

	for _, alt := range strings.Split(meaning, shared.MeaningDelimiter) {
		if strings.ToLower(strings.TrimSpace(alt)) == answer {
			return true
		}
	}
	return false
}

// ==================== SESSION FLOW ====================

// StartQuiz validates the pool, samples questions and enters the playing
// phase. Too small a pool is a validation error and no session is created.
func (svc *QuizService) StartQuiz(userID string, req *dto.StartQuizRequest) (*dto.QuizStateResponse, error) {
	pool, err := svc.sqlSvc.GetWords(userID, req.Grade, req.Unit)
	if err != nil {
		return nil, err
	}

	session, err := svc.newSession(userID, req.QuizType, req.Grade, req.Unit, pool)
	if err != nil {
		return nil, err
	}

	svc.mu.Lock()
	svc.sessions[userID] = session
	svc.mu.Unlock()

	log.WithFields(log.Fields{
		"user":      userID,
		"type":      req.QuizType,
		"questions": len(session.words),
	}).Info("Quiz started")

	return svc.stateResponse(session), nil
}

func (svc *QuizService) newSession(userID, quizType string, grade int, unit *int, pool []model.Word) (*quizSession, error) {
	minPool := 1
	if quizType == shared.QuizTypeMultipleChoice {
		minPool = quizMinChoicePool
	}
	if len(pool) < minPool {
		return nil, shared.NewBadRequestError(nil,
			fmt.Sprintf("You need at least %d words in this range to start a quiz", minPool))
	}

	// Sessions carry their own rng; the service-level source is only
	// touched under svc.mu.
	svc.mu.Lock()
	rng := rand.New(rand.NewSource(svc.rng.Int63()))
	svc.mu.Unlock()

	session := &quizSession{
		id:          uuid.NewString(),
		userID:      userID,
		quizType:    quizType,
		grade:       grade,
		unit:        unit,
		pool:        pool,
		words:       sampleWords(rng, pool, quizMaxQuestions),
		phase:       quizPhasePlaying,
		mistakeSeen: map[string]bool{},
		rng:         rng,
	}

	if quizType == shared.QuizTypeMultipleChoice {
		session.options = buildOptions(rng, session.words[0], pool)
	}
	return session, nil
}

func (svc *QuizService) session(userID string) (*quizSession, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	session, ok := svc.sessions[userID]
	if !ok {
		return nil, shared.NewNotFoundError(nil, "No quiz in progress")
	}
	return session, nil
}

// SubmitAnswer judges an answer. In choice mode input is locked while the
// result shows; in typed mode a second submit acts as advance.
func (svc *QuizService) SubmitAnswer(userID string, req *dto.SubmitAnswerRequest) (*dto.QuizStateResponse, error) {
	session, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if session.phase != quizPhasePlaying {
		return nil, shared.NewBadRequestError(nil, "The quiz is not running")
	}

	if session.showingResult {
		if session.quizType == shared.QuizTypeTyped {
			svc.advanceLocked(session)
		}
		return svc.stateResponse(session), nil
	}

	word := session.words[session.index]
	correct := answerMatches(word.Meaning, req.Answer)

	session.showingResult = true
	session.lastCorrect = correct

	if correct {
		session.score++
	} else {
		if err := svc.progressSvc.RecordWordMissed(userID, word.ID); err != nil {
			log.WithError(err).WithField("word", word.ID).Warn("Failed to record quiz mistake")
		}
		if !session.mistakeSeen[word.ID] {
			session.mistakeSeen[word.ID] = true
			session.mistakes = append(session.mistakes, word)
		}
	}

	return svc.stateResponse(session), nil
}

// Advance moves to the next question, or finishes the quiz after the last.
func (svc *QuizService) Advance(userID string) (*dto.QuizStateResponse, error) {
	session, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if session.phase != quizPhasePlaying || !session.showingResult {
		return svc.stateResponse(session), nil
	}

	svc.advanceLocked(session)
	return svc.stateResponse(session), nil
}

func (svc *QuizService) advanceLocked(session *quizSession) {
	session.index++
	session.showingResult = false

	if session.index >= len(session.words) {
		session.phase = quizPhaseFinished
		recordSession("quiz", session.quizType)
		return
	}

	if session.quizType == shared.QuizTypeMultipleChoice {
		session.options = buildOptions(session.rng, session.words[session.index], session.pool)
	}
}

// Result reports a finished quiz to the progress tracker and tears the
// session down.
func (svc *QuizService) Result(userID string) (*dto.QuizResultResponse, error) {
	session, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	svc.mu.Lock()
	if session.phase != quizPhaseFinished {
		svc.mu.Unlock()
		return nil, shared.NewBadRequestError(nil, "The quiz is not finished yet")
	}
	delete(svc.sessions, userID)
	svc.mu.Unlock()

	mistakes := make([]dto.WordResponse, 0, len(session.mistakes))
	for i := range session.mistakes {
		mistakes = append(mistakes, *wordResponse(&session.mistakes[i], nil))
	}

	xp, levelUps, err := svc.progressSvc.RecordQuizComplete(userID, session.score, len(session.words))
	if err != nil {
		log.WithError(err).Warn("Failed to record quiz completion")
	}

	return &dto.QuizResultResponse{
		SessionID: session.id,
		Score:     session.score,
		Total:     len(session.words),
		XPAwarded: xp,
		LevelUps:  levelUps,
		Mistakes:  mistakes,
	}, nil
}

// Restart abandons the current session and starts a fresh one over the same
// scope and type.
func (svc *QuizService) Restart(userID string) (*dto.QuizStateResponse, error) {
	session, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	return svc.StartQuiz(userID, &dto.StartQuizRequest{
		QuizType: session.quizType,
		Grade:    session.grade,
		Unit:     session.unit,
	})
}

// Abandon discards the in-progress session without reporting anything.
func (svc *QuizService) Abandon(userID string) {
	svc.mu.Lock()
	delete(svc.sessions, userID)
	svc.mu.Unlock()
}

func (svc *QuizService) State(userID string) (*dto.QuizStateResponse, error) {
	session, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.stateResponse(session), nil
}

func (svc *QuizService) stateResponse(session *quizSession) *dto.QuizStateResponse {
	resp := &dto.QuizStateResponse{
		SessionID:     session.id,
		Phase:         string(session.phase),
		QuizType:      session.quizType,
		QuestionIndex: session.index,
		QuestionCount: len(session.words),
		Score:         session.score,
		ShowingResult: session.showingResult,
		LastCorrect:   session.lastCorrect,
	}

	if session.phase == quizPhasePlaying && session.index < len(session.words) {
		word := session.words[session.index]
		resp.Term = word.Term
		resp.Pronunciation = word.Pronunciation
		resp.Options = session.options
		if session.showingResult {
			resp.CorrectAnswer = word.Meaning
		}
	}
	return resp
}
