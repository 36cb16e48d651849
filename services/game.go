// services/game.go
package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/model"
	"github.com/wordnest/vocab_api/shared"
)

type gamePhase string

const (
	gamePhasePlaying gamePhase = "playing"
	gamePhaseEnded   gamePhase = "ended"
)

// gameItem is one on-screen target: a falling word, a bomb, a zombie or a
// matching tile. Items with a lifetime expire on a timer; expiry counts as
// a miss.
type gameItem struct {
	id       string
	wordID   string
	label    string
	kind     string
	xPercent float64

	entryDelay time.Duration
	lifetime   time.Duration
	timer      *time.Timer

	// decoys are shot-at but never gate the wave and never expire into a
	// miss
	required bool
	resolved bool
}

type gameSession struct {
	mu sync.Mutex

	id     string
	userID string
	mode   string
	policy gamePolicy
	tuning gameTuning

	words []model.Word
	index int

	score     int
	lives     int
	correct   int
	incorrect int

	deadline time.Time
	endTimer *time.Timer

	prompt  string
	options []string
	items   map[string]*gameItem

	// selection state for pair-matching games
	selectedID string

	// single in-flight judgement flag: user input and item timers race for
	// it, first one wins, the loser is a no-op.
	judging bool

	lastJudgement string
	phase         gamePhase
	torn          bool

	mistakes    []string
	mistakeSeen map[string]bool

	typedChars int
	startedAt  time.Time

	rng *rand.Rand
	now func() time.Time
}

// GameService runs mini-game sessions through one generic challenge engine
// parameterized by a per-game policy.
type GameService struct {
	appContext.DefaultService

	sqlSvc      *SqliteService
	progressSvc *ProgressService

	mu       sync.Mutex
	sessions map[string]*gameSession

	rng *rand.Rand
	now func() time.Time
}

const GAME_SVC = "game_svc"

func (svc *GameService) Id() string {
	return GAME_SVC
}

func (svc *GameService) Configure(ctx *appContext.Context) error {
	svc.sessions = map[string]*gameSession{}
	svc.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *GameService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	return nil
}

// ==================== LIFECYCLE ====================

// StartGame creates a session for the requested game over the scoped word
// pool. Too small a pool is a validation error and no session is created.
func (svc *GameService) StartGame(userID string, req *dto.StartGameRequest) (*dto.GameStateResponse, error) {
	pool, err := svc.sqlSvc.GetWords(userID, req.Grade, req.Unit)
	if err != nil {
		return nil, err
	}

	session, err := svc.startSession(userID, req.Game, req.Mode, pool)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user": userID, "game": req.Game}).Info("Game started")
	return svc.stateResponse(session), nil
}

// startSession builds and registers a session from an in-memory pool.
func (svc *GameService) startSession(userID, game, mode string, pool []model.Word) (*gameSession, error) {
	policy, err := policyFor(game)
	if err != nil {
		return nil, err
	}

	tuning := policy.tuning()
	if len(pool) < tuning.minPool {
		return nil, shared.NewBadRequestError(nil,
			fmt.Sprintf("You need at least %d words in this range to play", tuning.minPool))
	}

	// Each session gets its own rng so item timers never share the
	// service-level source across session locks.
	svc.mu.Lock()
	rng := rand.New(rand.NewSource(svc.rng.Int63()))
	svc.mu.Unlock()

	session := &gameSession{
		id:          uuid.NewString(),
		userID:      userID,
		mode:        mode,
		policy:      policy,
		tuning:      tuning,
		words:       sampleWords(rng, pool, tuning.questions),
		lives:       tuning.lives,
		items:       map[string]*gameItem{},
		phase:       gamePhasePlaying,
		mistakeSeen: map[string]bool{},
		startedAt:   svc.now(),
		rng:         rng,
		now:         svc.now,
	}

	if tuning.duration > 0 {
		session.deadline = svc.now().Add(tuning.duration)
		session.endTimer = time.AfterFunc(tuning.duration, func() {
			svc.expireSession(session)
		})
	}

	// Tear down any session the previous game left behind.
	svc.mu.Lock()
	if old, ok := svc.sessions[userID]; ok {
		old.mu.Lock()
		svc.teardownLocked(old)
		old.mu.Unlock()
	}
	svc.sessions[userID] = session
	svc.mu.Unlock()

	session.mu.Lock()
	policy.nextChallenge(session)
	svc.armItemTimers(session)
	session.mu.Unlock()

	return session, nil
}

func (svc *GameService) session(userID string) (*gameSession, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	session, ok := svc.sessions[userID]
	if !ok {
		return nil, shared.NewNotFoundError(nil, "No game in progress")
	}
	return session, nil
}

// armItemTimers schedules expiry for every unarmed timed item. Caller holds
// the session lock.
func (svc *GameService) armItemTimers(session *gameSession) {
	for _, item := range session.items {
		if !item.required || item.lifetime <= 0 || item.timer != nil || item.resolved {
			continue
		}
		it := item
		it.timer = time.AfterFunc(it.entryDelay+it.lifetime, func() {
			svc.expireItem(session, it.id)
		})
	}
}

// expireItem is the timer path of the judgement race: if the player already
// resolved the item, or the session is gone, it does nothing.
func (svc *GameService) expireItem(session *gameSession, itemID string) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.torn || session.phase != gamePhasePlaying {
		return
	}
	if session.judging {
		return
	}

	item, ok := session.items[itemID]
	if !ok || item.resolved {
		return
	}

	session.judging = true
	item.resolved = true

	session.incorrect++
	session.loseLife()
	session.markMistake(item.wordID)
	session.lastJudgement = "missed"

	session.judging = false

	svc.afterJudgement(session)
}

// expireSession ends a countdown game when time runs out.
func (svc *GameService) expireSession(session *gameSession) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.torn || session.phase != gamePhasePlaying {
		return
	}
	svc.endLocked(session)
}

// ==================== JUDGEMENT ====================

// SubmitAnswer judges player input against the current challenge or a
// specific on-screen item.
func (svc *GameService) SubmitAnswer(userID string, req *dto.GameAnswerRequest) (*dto.GameStateResponse, error) {
	session, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.phase != gamePhasePlaying {
		return svc.stateResponse(session), nil
	}
	if session.judging {
		// An item timer is mid-judgement; this input loses the race.
		return svc.stateResponse(session), nil
	}

	if req.ItemID != "" {
		item, ok := session.items[req.ItemID]
		if !ok || item.resolved {
			return svc.stateResponse(session), nil
		}
	}

	session.judging = true
	correct := session.policy.judge(session, req.ItemID, req.Answer)
	session.applyJudgement(correct, req.ItemID)
	session.judging = false

	svc.afterJudgement(session)
	return svc.stateResponse(session), nil
}

// SubmitPair judges a two-tile selection in the matching games. A pair is
// correct iff both tiles carry the same word.
func (svc *GameService) SubmitPair(userID string, req *dto.GamePairRequest) (*dto.GameStateResponse, error) {
	session, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.phase != gamePhasePlaying || session.judging {
		return svc.stateResponse(session), nil
	}

	left, okL := session.items[req.LeftID]
	right, okR := session.items[req.RightID]
	if !okL || !okR || left.resolved || right.resolved || left.id == right.id {
		return svc.stateResponse(session), nil
	}

	session.judging = true
	if left.wordID == right.wordID {
		left.resolved = true
		right.resolved = true
		stopItemTimer(left)
		stopItemTimer(right)

		session.correct++
		session.score += session.tuning.pointsCorrect
		session.lastJudgement = "correct"
	} else {
		session.incorrect++
		session.score -= session.tuning.penaltyWrong
		session.markMistake(left.wordID)
		session.lastJudgement = "wrong"
	}
	session.clamp()
	session.selectedID = ""
	session.judging = false

	svc.afterJudgement(session)
	return svc.stateResponse(session), nil
}

// applyJudgement updates score, lives and counters after a judged input.
// Caller holds the session lock and the judgement flag.
func (s *gameSession) applyJudgement(correct bool, itemID string) {
	word := s.currentWord()
	targetWordID := ""
	if word != nil {
		targetWordID = word.ID
	}

	if itemID != "" {
		if item, ok := s.items[itemID]; ok {
			item.resolved = true
			stopItemTimer(item)
			targetWordID = item.wordID
		}
	}

	if correct {
		s.correct++
		s.score += s.tuning.pointsCorrect + s.timeBonus()
		s.lastJudgement = "correct"
	} else {
		s.incorrect++
		s.score -= s.tuning.penaltyWrong
		if s.tuning.wrongCostsLife {
			s.loseLife()
		}
		s.markMistake(targetWordID)
		s.lastJudgement = "wrong"
	}
	s.clamp()
}

// timeBonus rewards fast answers in countdown games.
func (s *gameSession) timeBonus() int {
	if s.tuning.timeBonusPer == 0 || s.deadline.IsZero() {
		return 0
	}
	remaining := s.deadline.Sub(s.now())
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds()) / s.tuning.timeBonusPer
}

// afterJudgement advances the challenge when it is spent and ends the
// session when the policy says so. Caller holds the session lock.
func (svc *GameService) afterJudgement(session *gameSession) {
	if session.policy.isTerminal(session) {
		svc.endLocked(session)
		return
	}

	if session.challengeSpent() {
		session.index++
		if session.index >= len(session.words) {
			svc.endLocked(session)
			return
		}
		session.policy.nextChallenge(session)
		svc.armItemTimers(session)
	}
}

// challengeSpent reports whether every item of the current wave is resolved
// (or, for itemless games, whether an answer was just judged).
func (s *gameSession) challengeSpent() bool {
	if len(s.items) == 0 {
		return s.lastJudgement != ""
	}
	for _, item := range s.items {
		if item.required && !item.resolved {
			return false
		}
	}
	return true
}

func (s *gameSession) currentWord() *model.Word {
	if s.index < 0 || s.index >= len(s.words) {
		return nil
	}
	return &s.words[s.index]
}

func (s *gameSession) loseLife() {
	if s.lives > 0 {
		s.lives--
	}
}

func (s *gameSession) clamp() {
	if s.score < 0 {
		s.score = 0
	}
	if s.lives < 0 {
		s.lives = 0
	}
}

func (s *gameSession) markMistake(wordID string) {
	if wordID == "" || s.mistakeSeen[wordID] {
		return
	}
	s.mistakeSeen[wordID] = true
	s.mistakes = append(s.mistakes, wordID)
}

func stopItemTimer(item *gameItem) {
	if item.timer != nil {
		item.timer.Stop()
		item.timer = nil
	}
}

// ==================== END & RESULT ====================

// endLocked finishes the session: timers cancelled, final score computed
// and clamped. Caller holds the session lock.
func (svc *GameService) endLocked(session *gameSession) {
	session.phase = gamePhaseEnded
	session.cancelTimers()

	session.score = session.policy.finalScore(session)
	session.clamp()

	recordSession("game", session.policy.game())
}

func (s *gameSession) cancelTimers() {
	for _, item := range s.items {
		stopItemTimer(item)
	}
	if s.endTimer != nil {
		s.endTimer.Stop()
		s.endTimer = nil
	}
}

// Result reports a finished game to the progress tracker and removes the
// session.
func (svc *GameService) Result(userID string) (*dto.GameResultResponse, error) {
	session, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	if session.phase != gamePhaseEnded {
		session.mu.Unlock()
		return nil, shared.NewBadRequestError(nil, "The game is not finished yet")
	}
	session.torn = true
	session.mu.Unlock()

	svc.mu.Lock()
	delete(svc.sessions, userID)
	svc.mu.Unlock()

	duration := int(svc.now().Sub(session.startedAt).Seconds())

	svc.progressSvc.RecordGameMistakes(userID, session.mistakes)
	xp, levelUps, err := svc.progressSvc.RecordGameComplete(
		userID, session.policy.game(), session.mode,
		session.score, session.correct, session.incorrect, duration)
	if err != nil {
		log.WithError(err).Warn("Failed to record game completion")
	}

	resp := &dto.GameResultResponse{
		SessionID: session.id,
		Game:      session.policy.game(),
		Score:     session.score,
		Correct:   session.correct,
		Incorrect: session.incorrect,
		XPAwarded: xp,
		LevelUps:  levelUps,
	}
	if session.policy.game() == shared.GameTypingPractice && duration > 0 {
		resp.WPM = float64(session.typedChars) / 5 / (float64(duration) / 60)
	}
	return resp, nil
}

// Teardown abandons a session. All pending timers are cancelled; a timer
// callback already in flight sees the torn flag and does nothing.
func (svc *GameService) Teardown(userID string) {
	svc.mu.Lock()
	session, ok := svc.sessions[userID]
	if ok {
		delete(svc.sessions, userID)
	}
	svc.mu.Unlock()

	if !ok {
		return
	}

	session.mu.Lock()
	svc.teardownLocked(session)
	session.mu.Unlock()
}

func (svc *GameService) teardownLocked(session *gameSession) {
	session.torn = true
	session.phase = gamePhaseEnded
	session.cancelTimers()
}

// ==================== STATE ====================

func (svc *GameService) State(userID string) (*dto.GameStateResponse, error) {
	session, err := svc.session(userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return svc.stateResponse(session), nil
}

func (svc *GameService) stateResponse(session *gameSession) *dto.GameStateResponse {
	resp := &dto.GameStateResponse{
		SessionID:     session.id,
		Game:          session.policy.game(),
		Phase:         string(session.phase),
		Score:         session.score,
		Lives:         session.lives,
		QuestionIndex: session.index,
		QuestionCount: len(session.words),
		Prompt:        session.prompt,
		Options:       session.options,
		LastJudgement: session.lastJudgement,
	}

	if !session.deadline.IsZero() {
		remaining := session.deadline.Sub(session.now()).Milliseconds()
		if remaining < 0 {
			remaining = 0
		}
		resp.RemainingMs = remaining
	}

	for _, item := range session.items {
		if item.resolved {
			continue
		}
		resp.Items = append(resp.Items, dto.GameItemResponse{
			ID:           item.id,
			Label:        item.label,
			Kind:         item.kind,
			XPercent:     item.xPercent,
			EntryDelayMs: int(item.entryDelay.Milliseconds()),
			LifetimeMs:   int(item.lifetime.Milliseconds()),
		})
	}
	return resp
}
