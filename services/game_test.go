package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/shared"
)

func newTestGameService() *GameService {
	return &GameService{
		sessions: map[string]*gameSession{},
		rng:      rand.New(rand.NewSource(1)),
		now:      time.Now,
	}
}

// requiredUnresolvedItem picks the live target of the current wave.
func requiredUnresolvedItem(t *testing.T, session *gameSession) string {
	t.Helper()
	session.mu.Lock()
	defer session.mu.Unlock()
	for id, item := range session.items {
		if item.required && !item.resolved {
			return id
		}
	}
	t.Fatal("no unresolved required item in the current wave")
	return ""
}

func TestSessionsGetOwnRandomSource(t *testing.T) {
	svc := newTestGameService()

	first, err := svc.startSession("alice", shared.GameWordMatch, "", makeWords(4))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}
	second, err := svc.startSession("bob", shared.GameWordMatch, "", makeWords(4))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}

	if first.rng == svc.rng || second.rng == svc.rng {
		t.Error("sessions must not share the service-level random source")
	}
	if first.rng == second.rng {
		t.Error("concurrent sessions must not share one random source")
	}
}

func TestStartGamePoolTooSmall(t *testing.T) {
	svc := newTestGameService()

	_, err := svc.startSession("u", shared.GameWordMatch, "", makeWords(3))
	if err == nil {
		t.Fatal("three words should not be enough for a matching board")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 400 {
		t.Errorf("expected a 400 app error, got %v", err)
	}
	if len(svc.sessions) != 0 {
		t.Error("no session should exist after a rejected start")
	}
}

func TestStartGameUnknownGame(t *testing.T) {
	svc := newTestGameService()

	if _, err := svc.startSession("u", "tetris", "", makeWords(10)); err == nil {
		t.Fatal("unknown game should be rejected")
	}
}

func TestWordMatchBoard(t *testing.T) {
	svc := newTestGameService()

	session, err := svc.startSession("u", shared.GameWordMatch, "", makeWords(4))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}

	session.mu.Lock()
	if len(session.items) != 8 {
		t.Fatalf("board has %d tiles, want 8 (4 pairs)", len(session.items))
	}
	tilesByWord := map[string][]string{}
	for id, item := range session.items {
		tilesByWord[item.wordID] = append(tilesByWord[item.wordID], id)
	}
	session.mu.Unlock()

	var pairs [][2]string
	for _, ids := range tilesByWord {
		if len(ids) != 2 {
			t.Fatalf("word has %d tiles, want 2", len(ids))
		}
		pairs = append(pairs, [2]string{ids[0], ids[1]})
	}

	// mismatch first: two tiles of different words
	state, err := svc.SubmitPair("u", &dto.GamePairRequest{LeftID: pairs[0][0], RightID: pairs[1][0]})
	if err != nil {
		t.Fatalf("SubmitPair: %v", err)
	}
	if state.Score != 0 {
		t.Errorf("score = %d after mismatch from zero, want 0 (clamped)", state.Score)
	}
	if state.LastJudgement != "wrong" {
		t.Errorf("last judgement = %q, want wrong", state.LastJudgement)
	}

	for _, pair := range pairs {
		state, err = svc.SubmitPair("u", &dto.GamePairRequest{LeftID: pair[0], RightID: pair[1]})
		if err != nil {
			t.Fatalf("SubmitPair: %v", err)
		}
	}

	if state.Phase != string(gamePhaseEnded) {
		t.Errorf("phase = %q after clearing the board, want ended", state.Phase)
	}
	if state.Score != 40 {
		t.Errorf("score = %d, want 40 (four pairs at 10)", state.Score)
	}
	if len(state.Items) != 0 {
		t.Errorf("%d tiles still reported after the clear", len(state.Items))
	}
}

func TestWordMatchResolvedTileIsInert(t *testing.T) {
	svc := newTestGameService()

	session, err := svc.startSession("u", shared.GameWordMatch, "", makeWords(4))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}

	session.mu.Lock()
	var left, right string
	for id, item := range session.items {
		for otherID, other := range session.items {
			if id != otherID && item.wordID == other.wordID {
				left, right = id, otherID
			}
		}
	}
	session.mu.Unlock()

	if _, err := svc.SubmitPair("u", &dto.GamePairRequest{LeftID: left, RightID: right}); err != nil {
		t.Fatalf("SubmitPair: %v", err)
	}
	state, err := svc.SubmitPair("u", &dto.GamePairRequest{LeftID: left, RightID: right})
	if err != nil {
		t.Fatalf("SubmitPair: %v", err)
	}
	if state.Score != 10 {
		t.Errorf("score = %d after resubmitting a resolved pair, want 10", state.Score)
	}
}

func TestWordBombSession(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)

	svc := newTestGameService()
	svc.sqlSvc = store
	svc.progressSvc = &ProgressService{sqlSvc: store, now: time.Now}

	pool := makeWords(6)
	seedWords(t, store, userID, pool)

	session, err := svc.startSession(userID, shared.GameWordBomb, "", pool)
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}

	// defuse the first bomb by typing its term
	session.mu.Lock()
	term := session.words[0].Term
	session.mu.Unlock()
	state, err := svc.SubmitAnswer(userID, &dto.GameAnswerRequest{Answer: term})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if state.Score != 10 || state.Lives != 5 {
		t.Errorf("score = %d lives = %d after a defusal, want 10 and 5", state.Score, state.Lives)
	}

	// let the next five bombs land
	for i := 0; i < 5; i++ {
		svc.expireItem(session, requiredUnresolvedItem(t, session))
	}

	session.mu.Lock()
	phase := session.phase
	lives := session.lives
	incorrect := session.incorrect
	session.mu.Unlock()

	if phase != gamePhaseEnded {
		t.Fatalf("phase = %q after five landed bombs, want ended", phase)
	}
	if lives != 0 {
		t.Errorf("lives = %d, want 0", lives)
	}
	if incorrect != 5 {
		t.Errorf("incorrect = %d, want 5", incorrect)
	}

	result, err := svc.Result(userID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if result.Score != 10 || result.Correct != 1 || result.Incorrect != 5 {
		t.Errorf("result = %d/%d/%d, want score 10 correct 1 incorrect 5",
			result.Score, result.Correct, result.Incorrect)
	}
	if result.XPAwarded != 10 {
		t.Errorf("xp awarded = %d, want 10 (score as XP)", result.XPAwarded)
	}

	if _, err := svc.State(userID); err == nil {
		t.Error("session should be gone after Result")
	}

	// missed words were recorded for review
	reviewNeeded, err := store.HasWordsNeedingReview(userID)
	if err != nil {
		t.Fatalf("HasWordsNeedingReview: %v", err)
	}
	if !reviewNeeded {
		t.Error("landed bombs should leave words flagged for review")
	}
}

func TestWordBombWrongAnswersDrainLives(t *testing.T) {
	svc := newTestGameService()

	session, err := svc.startSession("u", shared.GameWordBomb, "", makeWords(6))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}

	var state *dto.GameStateResponse
	for i := 0; i < 5; i++ {
		state, err = svc.SubmitAnswer("u", &dto.GameAnswerRequest{Answer: "not the term"})
		if err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
	}

	if state.Lives != 0 {
		t.Errorf("lives = %d after five wrong answers, want 0", state.Lives)
	}
	if state.Phase != string(gamePhaseEnded) {
		t.Errorf("phase = %q, want ended", state.Phase)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.incorrect != 5 {
		t.Errorf("incorrect = %d, want 5", session.incorrect)
	}
}

func TestWordBombQuestionCount(t *testing.T) {
	svc := newTestGameService()

	session, err := svc.startSession("u", shared.GameWordBomb, "", makeWords(25))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if len(session.words) != 20 {
		t.Errorf("a full pool should draw 20 questions, got %d", len(session.words))
	}
}

func TestExpiryAfterResolutionIsNoOp(t *testing.T) {
	svc := newTestGameService()

	session, err := svc.startSession("u", shared.GameZombieDefense, "", makeWords(6))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}

	itemID := requiredUnresolvedItem(t, session)

	session.mu.Lock()
	meaning := session.words[0].Meaning
	session.mu.Unlock()
	if _, err := svc.SubmitAnswer("u", &dto.GameAnswerRequest{Answer: meaning}); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	session.mu.Lock()
	score, lives, incorrect := session.score, session.lives, session.incorrect
	session.mu.Unlock()

	// the stale timer callback for the already-stopped zombie fires late
	svc.expireItem(session, itemID)

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.score != score || session.lives != lives || session.incorrect != incorrect {
		t.Errorf("late expiry mutated the session: score %d->%d lives %d->%d incorrect %d->%d",
			score, session.score, lives, session.lives, incorrect, session.incorrect)
	}
}

func TestTeardownStopsTimers(t *testing.T) {
	svc := newTestGameService()

	session, err := svc.startSession("u", shared.GameWordShooter, "", makeWords(6))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}
	itemID := requiredUnresolvedItem(t, session)

	svc.Teardown("u")

	session.mu.Lock()
	if !session.torn || session.phase != gamePhaseEnded {
		t.Error("teardown should mark the session torn and ended")
	}
	lives := session.lives
	session.mu.Unlock()

	svc.expireItem(session, itemID)
	svc.expireSession(session)

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.lives != lives {
		t.Error("timer callbacks mutated a torn session")
	}

	if _, err := svc.State("u"); err == nil {
		t.Error("session should be unregistered after teardown")
	}
}

func TestStartGameReplacesPreviousSession(t *testing.T) {
	svc := newTestGameService()

	first, err := svc.startSession("u", shared.GameWordShooter, "", makeWords(6))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}
	second, err := svc.startSession("u", shared.GameWordBomb, "", makeWords(6))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}

	first.mu.Lock()
	if !first.torn {
		t.Error("starting a new game should tear down the old session")
	}
	first.mu.Unlock()

	state, err := svc.State("u")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.SessionID != second.id || state.Game != shared.GameWordBomb {
		t.Errorf("active session is %q/%q, want the new word_bomb session", state.SessionID, state.Game)
	}
}

func TestTypingPracticeWPM(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)

	svc := newTestGameService()
	svc.sqlSvc = store
	svc.progressSvc = &ProgressService{sqlSvc: store, now: time.Now}

	started := time.Now()
	svc.now = func() time.Time { return started }

	session, err := svc.startSession(userID, shared.GameTypingPractice, "", makeWords(5))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}

	session.mu.Lock()
	terms := make([]string, len(session.words))
	for i := range session.words {
		terms[i] = session.words[i].Term
	}
	session.mu.Unlock()

	for _, term := range terms {
		if _, err := svc.SubmitAnswer(userID, &dto.GameAnswerRequest{Answer: term}); err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
	}

	session.mu.Lock()
	if session.phase != gamePhaseEnded {
		t.Fatalf("phase = %q after typing every word, want ended", session.phase)
	}
	typed := session.typedChars
	session.mu.Unlock()

	// one minute on the clock makes WPM = chars/5
	svc.now = func() time.Time { return started.Add(time.Minute) }

	result, err := svc.Result(userID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	want := float64(typed) / 5
	if result.WPM != want {
		t.Errorf("WPM = %v, want %v", result.WPM, want)
	}
	if result.Score != 25 {
		t.Errorf("score = %d, want 25 (five words at 5)", result.Score)
	}
}

func TestTimedLinkTimeBonus(t *testing.T) {
	svc := newTestGameService()

	started := time.Now()
	svc.now = func() time.Time { return started }

	session, err := svc.startSession("u", shared.GameTimedLink, "", makeWords(6))
	if err != nil {
		t.Fatalf("startSession: %v", err)
	}
	defer svc.Teardown("u")

	session.mu.Lock()
	tilesByWord := map[string][]string{}
	for id, item := range session.items {
		tilesByWord[item.wordID] = append(tilesByWord[item.wordID], id)
	}
	// clear the board 30 seconds in
	session.now = func() time.Time { return started.Add(30 * time.Second) }
	session.mu.Unlock()

	var state *dto.GameStateResponse
	for _, ids := range tilesByWord {
		state, err = svc.SubmitPair("u", &dto.GamePairRequest{LeftID: ids[0], RightID: ids[1]})
		if err != nil {
			t.Fatalf("SubmitPair: %v", err)
		}
	}

	if state.Phase != string(gamePhaseEnded) {
		t.Fatalf("phase = %q after clearing the board, want ended", state.Phase)
	}
	// 6 pairs at 10 plus the 60 leftover seconds
	if state.Score != 120 {
		t.Errorf("score = %d, want 120 (60 board points + 60s bonus)", state.Score)
	}
}
