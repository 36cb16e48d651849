package services

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/model"
	"github.com/wordnest/vocab_api/shared"
)

func newTestQuizService(store *SqliteService) *QuizService {
	svc := &QuizService{
		sessions: map[string]*quizSession{},
		rng:      rand.New(rand.NewSource(42)),
		sqlSvc:   store,
	}
	if store != nil {
		svc.progressSvc = &ProgressService{sqlSvc: store, now: time.Now}
	}
	return svc
}

func TestSampleWords(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name     string
		poolSize int
		max      int
		want     int
	}{
		{"pool larger than max", 20, 10, 10},
		{"pool equals max", 10, 10, 10},
		{"pool smaller than max", 6, 10, 6},
		{"single word", 1, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleWords(rng, makeWords(tt.poolSize), tt.max)
			if len(got) != tt.want {
				t.Errorf("sampleWords() returned %d words, want %d", len(got), tt.want)
			}

			seen := map[string]bool{}
			for _, w := range got {
				if seen[w.ID] {
					t.Errorf("sampleWords() returned duplicate word %s", w.ID)
				}
				seen[w.ID] = true
			}
		})
	}
}

func TestBuildOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	t.Run("full pool", func(t *testing.T) {
		pool := makeWords(10)
		options := buildOptions(rng, pool[0], pool)

		if len(options) != 4 {
			t.Fatalf("got %d options, want 4", len(options))
		}

		found := false
		seen := map[string]bool{}
		for _, o := range options {
			if o == pool[0].Meaning {
				found = true
			}
			if seen[o] {
				t.Errorf("duplicate option %q", o)
			}
			seen[o] = true
		}
		if !found {
			t.Errorf("options %v do not contain the correct meaning %q", options, pool[0].Meaning)
		}
	})

	t.Run("pool without enough distinct meanings pads with placeholders", func(t *testing.T) {
		pool := []model.Word{
			{ID: "a", Term: "a", Meaning: "같다"},
			{ID: "b", Term: "b", Meaning: "같다"},
			{ID: "c", Term: "c", Meaning: "같다"},
			{ID: "d", Term: "d", Meaning: "같다"},
		}
		options := buildOptions(rng, pool[0], pool)

		if len(options) != 4 {
			t.Fatalf("got %d options, want 4", len(options))
		}

		placeholders := 0
		for _, o := range options {
			if strings.HasPrefix(o, "—") {
				placeholders++
			}
		}
		if placeholders != 3 {
			t.Errorf("got %d placeholders, want 3 (options %v)", placeholders, options)
		}
	})
}

func TestAnswerMatches(t *testing.T) {
	tests := []struct {
		name    string
		meaning string
		answer  string
		want    bool
	}{
		{"exact", "사과", "사과", true},
		{"case insensitive", "Apple", "apple", true},
		{"alternative after delimiter", "개/강아지", "강아지", true},
		{"first alternative", "개/강아지", "개", true},
		{"whitespace trimmed", "사과", "  사과  ", true},
		{"alternative with spaces", "달리다 / 뛰다", "뛰다", true},
		{"wrong answer", "사과", "바나나", false},
		{"empty answer", "사과", "   ", false},
		{"partial alternative", "강아지", "강아", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := answerMatches(tt.meaning, tt.answer); got != tt.want {
				t.Errorf("answerMatches(%q, %q) = %v, want %v", tt.meaning, tt.answer, got, tt.want)
			}
		})
	}
}

func TestQuizSessionGetsOwnRandomSource(t *testing.T) {
	svc := newTestQuizService(nil)

	session, err := svc.newSession("u", shared.QuizTypeMultipleChoice, 1, nil, makeWords(8))
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if session.rng == nil || session.rng == svc.rng {
		t.Error("a quiz session must carry its own random source")
	}
}

func TestQuizPoolTooSmall(t *testing.T) {
	svc := newTestQuizService(nil)

	_, err := svc.newSession("u", shared.QuizTypeMultipleChoice, 0, nil, makeWords(3))
	if err == nil {
		t.Fatal("expected an error for a 3-word choice pool")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 400 {
		t.Errorf("expected a 400 app error, got %v", err)
	}

	if len(svc.sessions) != 0 {
		t.Error("no session should exist after a failed start")
	}

	// typed mode only needs one word
	if _, err := svc.newSession("u", shared.QuizTypeTyped, 0, nil, makeWords(1)); err != nil {
		t.Errorf("typed quiz over 1 word should start, got %v", err)
	}
}

func TestQuizChoiceLocksUntilAdvance(t *testing.T) {
	svc := newTestQuizService(nil)

	session, err := svc.newSession("u", shared.QuizTypeMultipleChoice, 0, nil, makeWords(8))
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	svc.sessions["u"] = session

	first := session.words[0]
	state, err := svc.SubmitAnswer("u", &dto.SubmitAnswerRequest{Answer: first.Meaning})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !state.ShowingResult || !state.LastCorrect || state.Score != 1 {
		t.Fatalf("unexpected state after correct answer: %+v", state)
	}

	// input is locked while the result shows
	state, err = svc.SubmitAnswer("u", &dto.SubmitAnswerRequest{Answer: "anything"})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if state.Score != 1 || state.QuestionIndex != 0 {
		t.Errorf("locked submit changed state: %+v", state)
	}

	state, err = svc.Advance("u")
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if state.QuestionIndex != 1 || state.ShowingResult {
		t.Errorf("unexpected state after advance: %+v", state)
	}
}

func TestQuizTypedResubmitAdvances(t *testing.T) {
	store := newTestStore(t)
	svc := newTestQuizService(store)

	session, err := svc.newSession("u", shared.QuizTypeTyped, 0, nil, makeWords(5))
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	svc.sessions["u"] = session

	if _, err := svc.SubmitAnswer("u", &dto.SubmitAnswerRequest{Answer: "wrong"}); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	state, err := svc.SubmitAnswer("u", &dto.SubmitAnswerRequest{Answer: "wrong again"})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if state.QuestionIndex != 1 {
		t.Errorf("typed resubmit should advance, got index %d", state.QuestionIndex)
	}

	if len(session.mistakes) != 1 {
		t.Errorf("one miss should record one mistake, got %d", len(session.mistakes))
	}
}

func TestMissedAnswerBumpsWordStatImmediately(t *testing.T) {
	store := newTestStore(t)
	svc := newTestQuizService(store)

	session, err := svc.newSession("u", shared.QuizTypeTyped, 0, nil, makeWords(5))
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	svc.sessions["u"] = session

	missed := session.words[0]
	if _, err := svc.SubmitAnswer("u", &dto.SubmitAnswerRequest{Answer: "wrong"}); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	// the session is never finished or reported, the miss still counts
	stat, err := store.GetOrCreateWordStat("u", missed.ID)
	if err != nil {
		t.Fatalf("GetOrCreateWordStat: %v", err)
	}
	if stat.IncorrectCount != 1 {
		t.Errorf("incorrect count = %d, want 1 right after the miss", stat.IncorrectCount)
	}
}

func TestQuizEndToEnd(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)
	words := makeWords(20)
	seedWords(t, store, userID, words)

	meaningByTerm := map[string]string{}
	for _, w := range words {
		meaningByTerm[w.Term] = w.Meaning
	}

	svc := newTestQuizService(store)

	state, err := svc.StartQuiz(userID, &dto.StartQuizRequest{QuizType: shared.QuizTypeMultipleChoice})
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	if state.Phase != "playing" || state.QuestionCount != 10 {
		t.Fatalf("unexpected start state: %+v", state)
	}

	for i := 0; i < 10; i++ {
		state, err = svc.SubmitAnswer(userID, &dto.SubmitAnswerRequest{Answer: meaningByTerm[state.Term]})
		if err != nil {
			t.Fatalf("SubmitAnswer q%d: %v", i, err)
		}
		if !state.LastCorrect {
			t.Fatalf("q%d judged wrong for the correct meaning", i)
		}
		state, err = svc.Advance(userID)
		if err != nil {
			t.Fatalf("Advance q%d: %v", i, err)
		}
	}

	if state.Phase != "finished" {
		t.Fatalf("quiz should be finished, got %q", state.Phase)
	}

	result, err := svc.Result(userID)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if result.Score != 10 || result.Total != 10 {
		t.Errorf("score = %d/%d, want 10/10", result.Score, result.Total)
	}
	if result.XPAwarded != 20 {
		t.Errorf("XPAwarded = %d, want 20", result.XPAwarded)
	}
	if len(result.Mistakes) != 0 {
		t.Errorf("perfect run recorded %d mistakes", len(result.Mistakes))
	}

	settings, err := store.GetUserSettings(userID)
	if err != nil {
		t.Fatalf("GetUserSettings: %v", err)
	}
	if settings.XP != 20 || settings.LastQuizScore != 10 {
		t.Errorf("settings xp=%d lastQuizScore=%d, want 20 and 10", settings.XP, settings.LastQuizScore)
	}

	if _, err := svc.State(userID); err == nil {
		t.Error("session should be gone after Result")
	}
}

func TestQuizRestart(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)
	seedWords(t, store, userID, makeWords(6))

	svc := newTestQuizService(store)

	first, err := svc.StartQuiz(userID, &dto.StartQuizRequest{QuizType: shared.QuizTypeMultipleChoice})
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}

	if _, err := svc.SubmitAnswer(userID, &dto.SubmitAnswerRequest{Answer: "wrong"}); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	second, err := svc.Restart(userID)
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if second.SessionID == first.SessionID {
		t.Error("restart should create a fresh session")
	}
	if second.Score != 0 || second.QuestionIndex != 0 || second.Phase != "playing" {
		t.Errorf("restarted session should be fresh, got %+v", second)
	}
}
