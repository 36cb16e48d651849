// services/game_policies.go
package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wordnest/vocab_api/shared"
)

// gamePolicy is what distinguishes one mini-game from another: how a
// challenge is laid out, how input is judged, when the session ends and how
// the final score is computed. Everything else lives in the engine.
type gamePolicy interface {
	game() string
	tuning() gameTuning
	nextChallenge(s *gameSession)
	judge(s *gameSession, itemID, answer string) bool
	isTerminal(s *gameSession) bool
	finalScore(s *gameSession) int
}

// gameTuning is a game's knob set. Durations of zero mean the mechanic is
// off for that game.
type gameTuning struct {
	minPool   int
	questions int
	lives     int
	duration  time.Duration

	pointsCorrect  int
	penaltyWrong   int
	timeBonusPer   int
	wrongCostsLife bool

	mismatchDelay time.Duration

	entryDelayMax time.Duration
	lifetimeMin   time.Duration
	lifetimeMax   time.Duration
	decoys        int
}

func policyFor(game string) (gamePolicy, error) {
	switch game {
	case shared.GameWordMatch:
		return &wordMatchPolicy{}, nil
	case shared.GameTypingPractice:
		return &typingPracticePolicy{}, nil
	case shared.GameSpeedQuiz:
		return &speedQuizPolicy{}, nil
	case shared.GameWordShooter:
		return &wordShooterPolicy{}, nil
	case shared.GameWordBomb:
		return &wordBombPolicy{}, nil
	case shared.GameZombieDefense:
		return &zombieDefensePolicy{}, nil
	case shared.GameTimedLink:
		return &timedLinkPolicy{}, nil
	default:
		return nil, shared.NewBadRequestError(nil, "Unknown game")
	}
}

// ==================== SHARED HELPERS ====================

// firstMeaning takes the leading alternative of a meaning for tile labels.
func firstMeaning(meaning string) string {
	if idx := strings.Index(meaning, shared.MeaningDelimiter); idx >= 0 {
		return strings.TrimSpace(meaning[:idx])
	}
	return strings.TrimSpace(meaning)
}

// spawnBoard lays out term/meaning tile pairs for every session word.
func spawnBoard(s *gameSession) {
	s.items = map[string]*gameItem{}
	for i := range s.words {
		w := s.words[i]
		termID := uuid.NewString()
		meaningID := uuid.NewString()
		s.items[termID] = &gameItem{
			id:       termID,
			wordID:   w.ID,
			label:    w.Term,
			kind:     "term",
			required: true,
		}
		s.items[meaningID] = &gameItem{
			id:       meaningID,
			wordID:   w.ID,
			label:    firstMeaning(w.Meaning),
			kind:     "meaning",
			required: true,
		}
	}
}

// spawnTimed drops a single timed target for the current word plus any
// decoys from the rest of the session pool.
func spawnTimed(s *gameSession, kind string, label func(termOrMeaning string) string, useTerm bool) {
	s.items = map[string]*gameItem{}

	word := s.currentWord()
	if word == nil {
		return
	}

	text := word.Term
	if !useTerm {
		text = firstMeaning(word.Meaning)
	}

	lifetime := s.tuning.lifetimeMin
	if spread := s.tuning.lifetimeMax - s.tuning.lifetimeMin; spread > 0 {
		lifetime += time.Duration(s.rng.Int63n(int64(spread)))
	}

	id := uuid.NewString()
	s.items[id] = &gameItem{
		id:         id,
		wordID:     word.ID,
		label:      label(text),
		kind:       kind,
		xPercent:   10 + s.rng.Float64()*80,
		entryDelay: time.Duration(s.rng.Int63n(int64(s.tuning.entryDelayMax) + 1)),
		lifetime:   lifetime,
		required:   true,
	}

	for d := 0; d < s.tuning.decoys && d < len(s.words)-1; d++ {
		decoy := s.words[(s.index+d+1)%len(s.words)]
		text := decoy.Term
		if !useTerm {
			text = firstMeaning(decoy.Meaning)
		}
		did := uuid.NewString()
		s.items[did] = &gameItem{
			id:         did,
			wordID:     decoy.ID,
			label:      label(text),
			kind:       kind,
			xPercent:   10 + s.rng.Float64()*80,
			entryDelay: time.Duration(s.rng.Int63n(int64(s.tuning.entryDelayMax) + 1)),
			lifetime:   lifetime,
		}
	}
}

// resolveRequiredItems clears the current wave, stopping its timers.
func resolveRequiredItems(s *gameSession) {
	for _, item := range s.items {
		if item.required && !item.resolved {
			item.resolved = true
			stopItemTimer(item)
		}
	}
}

func allItemsResolved(s *gameSession) bool {
	for _, item := range s.items {
		if item.required && !item.resolved {
			return false
		}
	}
	return len(s.items) > 0
}

// ==================== WORD MATCH ====================

// wordMatchPolicy: one board of term/meaning tiles, matched at leisure.
type wordMatchPolicy struct{}

func (p *wordMatchPolicy) game() string { return shared.GameWordMatch }

func (p *wordMatchPolicy) tuning() gameTuning {
	return gameTuning{
		minPool:       4,
		questions:     6,
		pointsCorrect: 10,
		penaltyWrong:  2,
		mismatchDelay: 800 * time.Millisecond,
	}
}

func (p *wordMatchPolicy) nextChallenge(s *gameSession) {
	spawnBoard(s)
	s.prompt = "짝을 맞춰 보세요"
}

func (p *wordMatchPolicy) judge(s *gameSession, itemID, answer string) bool {
	// pairs come in through SubmitPair
	return false
}

func (p *wordMatchPolicy) isTerminal(s *gameSession) bool { return allItemsResolved(s) }
func (p *wordMatchPolicy) finalScore(s *gameSession) int  { return s.score }

// ==================== TIMED LINK ====================

// timedLinkPolicy: the matching board under a countdown; leftover seconds
// turn into bonus points when the board is cleared.
type timedLinkPolicy struct{}

func (p *timedLinkPolicy) game() string { return shared.GameTimedLink }

func (p *timedLinkPolicy) tuning() gameTuning {
	return gameTuning{
		minPool:       6,
		questions:     8,
		duration:      90 * time.Second,
		pointsCorrect: 10,
		penaltyWrong:  3,
		mismatchDelay: 600 * time.Millisecond,
	}
}

func (p *timedLinkPolicy) nextChallenge(s *gameSession) {
	spawnBoard(s)
	s.prompt = "시간 안에 모두 연결하세요"
}

func (p *timedLinkPolicy) judge(s *gameSession, itemID, answer string) bool { return false }

func (p *timedLinkPolicy) isTerminal(s *gameSession) bool { return allItemsResolved(s) }

func (p *timedLinkPolicy) finalScore(s *gameSession) int {
	score := s.score
	if allItemsResolved(s) && !s.deadline.IsZero() {
		if remaining := s.deadline.Sub(s.now()); remaining > 0 {
			score += int(remaining.Seconds())
		}
	}
	return score
}

// ==================== TYPING PRACTICE ====================

// typingPracticePolicy: the meaning is shown, the term is typed. WPM is
// reported from total characters over elapsed time.
type typingPracticePolicy struct{}

func (p *typingPracticePolicy) game() string { return shared.GameTypingPractice }

func (p *typingPracticePolicy) tuning() gameTuning {
	return gameTuning{
		minPool:       5,
		questions:     10,
		pointsCorrect: 5,
		penaltyWrong:  1,
	}
}

func (p *typingPracticePolicy) nextChallenge(s *gameSession) {
	if word := s.currentWord(); word != nil {
		s.prompt = firstMeaning(word.Meaning)
	}
	s.options = nil
	s.items = map[string]*gameItem{}
}

func (p *typingPracticePolicy) judge(s *gameSession, itemID, answer string) bool {
	word := s.currentWord()
	if word == nil {
		return false
	}
	s.typedChars += len(strings.TrimSpace(answer))
	return strings.EqualFold(strings.TrimSpace(answer), word.Term)
}

func (p *typingPracticePolicy) isTerminal(s *gameSession) bool { return false }
func (p *typingPracticePolicy) finalScore(s *gameSession) int  { return s.score }

// ==================== SPEED QUIZ ====================

// speedQuizPolicy: multiple choice against the clock; faster answers earn a
// bigger bonus.
type speedQuizPolicy struct{}

func (p *speedQuizPolicy) game() string { return shared.GameSpeedQuiz }

func (p *speedQuizPolicy) tuning() gameTuning {
	return gameTuning{
		minPool:       4,
		questions:     20,
		duration:      60 * time.Second,
		pointsCorrect: 10,
		penaltyWrong:  2,
		timeBonusPer:  10,
	}
}

func (p *speedQuizPolicy) nextChallenge(s *gameSession) {
	word := s.currentWord()
	if word == nil {
		return
	}
	s.prompt = word.Term
	s.options = buildOptions(s.rng, *word, s.words)
	s.items = map[string]*gameItem{}
}

func (p *speedQuizPolicy) judge(s *gameSession, itemID, answer string) bool {
	word := s.currentWord()
	return word != nil && answerMatches(word.Meaning, answer)
}

func (p *speedQuizPolicy) isTerminal(s *gameSession) bool { return false }
func (p *speedQuizPolicy) finalScore(s *gameSession) int  { return s.score }

// ==================== WORD SHOOTER ====================

// wordShooterPolicy: the meaning is prompted while terms drift down; shoot
// the right one before it escapes. Wrong shots cost a life.
type wordShooterPolicy struct{}

func (p *wordShooterPolicy) game() string { return shared.GameWordShooter }

func (p *wordShooterPolicy) tuning() gameTuning {
	return gameTuning{
		minPool:        6,
		questions:      10,
		lives:          3,
		pointsCorrect:  10,
		wrongCostsLife: true,
		entryDelayMax:  800 * time.Millisecond,
		lifetimeMin:    4 * time.Second,
		lifetimeMax:    6 * time.Second,
		decoys:         2,
	}
}

func (p *wordShooterPolicy) nextChallenge(s *gameSession) {
	spawnTimed(s, "target", func(text string) string { return text }, true)
	if word := s.currentWord(); word != nil {
		s.prompt = firstMeaning(word.Meaning)
	}
}

func (p *wordShooterPolicy) judge(s *gameSession, itemID, answer string) bool {
	word := s.currentWord()
	item, ok := s.items[itemID]
	return word != nil && ok && item.wordID == word.ID
}

func (p *wordShooterPolicy) isTerminal(s *gameSession) bool { return s.lives == 0 }
func (p *wordShooterPolicy) finalScore(s *gameSession) int  { return s.score }

// ==================== WORD BOMB ====================

// wordBombPolicy: a bomb carrying a meaning falls; defuse it by typing the
// term. A bomb that lands takes a life.
type wordBombPolicy struct{}

func (p *wordBombPolicy) game() string { return shared.GameWordBomb }

func (p *wordBombPolicy) tuning() gameTuning {
	return gameTuning{
		minPool:        5,
		questions:      20,
		lives:          5,
		pointsCorrect:  10,
		wrongCostsLife: true,
		entryDelayMax:  time.Second,
		lifetimeMin:    5 * time.Second,
		lifetimeMax:    8 * time.Second,
	}
}

func (p *wordBombPolicy) nextChallenge(s *gameSession) {
	spawnTimed(s, "bomb", func(text string) string { return text }, false)
	s.prompt = ""
}

func (p *wordBombPolicy) judge(s *gameSession, itemID, answer string) bool {
	word := s.currentWord()
	if word == nil {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(answer), word.Term) {
		resolveRequiredItems(s)
		return true
	}
	return false
}

func (p *wordBombPolicy) isTerminal(s *gameSession) bool { return s.lives == 0 }
func (p *wordBombPolicy) finalScore(s *gameSession) int  { return s.score }

// ==================== ZOMBIE DEFENSE ====================

// zombieDefensePolicy: zombies shamble in labelled with terms; typing the
// meaning stops them. One through the fence costs a life.
type zombieDefensePolicy struct{}

func (p *zombieDefensePolicy) game() string { return shared.GameZombieDefense }

func (p *zombieDefensePolicy) tuning() gameTuning {
	return gameTuning{
		minPool:       5,
		questions:     12,
		lives:         5,
		pointsCorrect: 8,
		entryDelayMax: 1500 * time.Millisecond,
		lifetimeMin:   6 * time.Second,
		lifetimeMax:   9 * time.Second,
	}
}

func (p *zombieDefensePolicy) nextChallenge(s *gameSession) {
	spawnTimed(s, "zombie", func(text string) string { return text }, true)
	s.prompt = ""
}

func (p *zombieDefensePolicy) judge(s *gameSession, itemID, answer string) bool {
	word := s.currentWord()
	if word == nil {
		return false
	}
	if answerMatches(word.Meaning, answer) {
		resolveRequiredItems(s)
		return true
	}
	return false
}

func (p *zombieDefensePolicy) isTerminal(s *gameSession) bool { return s.lives == 0 }
func (p *zombieDefensePolicy) finalScore(s *gameSession) int  { return s.score }
