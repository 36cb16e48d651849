package services

import (
	"testing"
	"time"

	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/model"
	"github.com/wordnest/vocab_api/shared"
)

func newTestProgressService(store *SqliteService, now time.Time) *ProgressService {
	return &ProgressService{
		sqlSvc: store,
		now:    func() time.Time { return now },
	}
}

func TestApplyXP(t *testing.T) {
	tests := []struct {
		name       string
		level      int
		xp         int
		amount     int
		wantLevel  int
		wantXP     int
		wantLevels int
	}{
		{"no level up", 1, 0, 50, 1, 50, 0},
		{"exact level up", 1, 0, 100, 2, 0, 1},
		{"overflow carries", 1, 90, 30, 2, 20, 1},
		{"multiple level ups", 1, 0, 350, 3, 50, 2},
		{"higher level costs more", 3, 250, 100, 4, 50, 1},
		{"zero amount", 1, 40, 0, 1, 40, 0},
		{"negative amount ignored", 1, 40, -10, 1, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := &model.UserSettings{Level: tt.level, XP: tt.xp}
			got := applyXP(settings, tt.amount)

			if got != tt.wantLevels {
				t.Errorf("level ups = %d, want %d", got, tt.wantLevels)
			}
			if settings.Level != tt.wantLevel {
				t.Errorf("level = %d, want %d", settings.Level, tt.wantLevel)
			}
			if settings.XP != tt.wantXP {
				t.Errorf("xp = %d, want %d", settings.XP, tt.wantXP)
			}
		})
	}
}

func TestQuizXP(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{10, 10, 20},
		{5, 10, 10},
		{0, 10, 0},
		{7, 10, 14},
		{1, 3, 6},  // 33.33% rounds to 33, /5 = 6
		{2, 3, 13}, // 66.67% rounds to 67, /5 = 13
		{0, 0, 0},
	}

	for _, tt := range tests {
		if got := quizXP(tt.score, tt.total); got != tt.want {
			t.Errorf("quizXP(%d, %d) = %d, want %d", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestAdvanceStreak(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 8, d, 15, 0, 0, 0, time.Local)
	}

	t.Run("first study starts the streak", func(t *testing.T) {
		settings := &model.UserSettings{}
		advanceStreak(settings, day(1))
		if settings.Streak != 1 || settings.BestStreak != 1 {
			t.Errorf("streak = %d best = %d, want 1 and 1", settings.Streak, settings.BestStreak)
		}
	})

	t.Run("same day is idempotent for the streak", func(t *testing.T) {
		settings := &model.UserSettings{}
		advanceStreak(settings, day(1))
		advanceStreak(settings, day(1).Add(2*time.Hour))
		advanceStreak(settings, day(1).Add(5*time.Hour))
		if settings.Streak != 1 {
			t.Errorf("streak = %d after repeated same-day study, want 1", settings.Streak)
		}
	})

	t.Run("consecutive days extend", func(t *testing.T) {
		settings := &model.UserSettings{}
		advanceStreak(settings, day(1))
		advanceStreak(settings, day(2))
		advanceStreak(settings, day(3))
		if settings.Streak != 3 || settings.BestStreak != 3 {
			t.Errorf("streak = %d best = %d, want 3 and 3", settings.Streak, settings.BestStreak)
		}
	})

	t.Run("a missed day resets but keeps the best", func(t *testing.T) {
		settings := &model.UserSettings{}
		advanceStreak(settings, day(1))
		advanceStreak(settings, day(2))
		advanceStreak(settings, day(5))
		if settings.Streak != 1 {
			t.Errorf("streak = %d after a gap, want 1", settings.Streak)
		}
		if settings.BestStreak != 2 {
			t.Errorf("best streak = %d, want 2", settings.BestStreak)
		}
	})
}

func TestRecordWordLearnedStreakIdempotence(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)
	seedWords(t, store, userID, makeWords(3))

	svc := newTestProgressService(store, time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local))

	for _, wordID := range []string{"word-0", "word-1", "word-2"} {
		if err := svc.RecordWordLearned(userID, wordID); err != nil {
			t.Fatalf("RecordWordLearned(%s): %v", wordID, err)
		}
	}

	settings, err := store.GetUserSettings(userID)
	if err != nil {
		t.Fatalf("GetUserSettings: %v", err)
	}
	if settings.Streak != 1 {
		t.Errorf("streak = %d after three same-day reviews, want 1", settings.Streak)
	}

	stat, err := store.GetOrCreateWordStat(userID, "word-0")
	if err != nil {
		t.Fatalf("GetOrCreateWordStat: %v", err)
	}
	if stat.LastReviewed == nil {
		t.Error("review stamp missing")
	}

	// next day advances
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local) }
	if err := svc.RecordWordLearned(userID, "word-0"); err != nil {
		t.Fatalf("RecordWordLearned: %v", err)
	}
	settings, _ = store.GetUserSettings(userID)
	if settings.Streak != 2 {
		t.Errorf("streak = %d after next-day review, want 2", settings.Streak)
	}
}

func TestCreateWordDuplicateTermRejected(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)

	svc := newTestProgressService(store, time.Now())

	if _, err := svc.CreateWord(userID, &dto.CreateWordRequest{Term: "Apple", Meaning: "사과"}); err != nil {
		t.Fatalf("CreateWord: %v", err)
	}

	_, err := svc.CreateWord(userID, &dto.CreateWordRequest{Term: "  apple ", Meaning: "다른 뜻"})
	if err == nil {
		t.Fatal("case-insensitive duplicate term should be rejected")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 409 {
		t.Errorf("expected a 409 app error, got %v", err)
	}

	count, err := store.CountWords(userID)
	if err != nil {
		t.Fatalf("CountWords: %v", err)
	}
	if count != 1 {
		t.Errorf("catalog has %d words after rejected duplicate, want 1", count)
	}
}

func TestDeleteWordOnlyCustom(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)
	seedWords(t, store, userID, makeWords(1)) // seeded words are not custom

	svc := newTestProgressService(store, time.Now())

	if err := svc.DeleteWordDetail(userID, "word-0"); err == nil {
		t.Error("built-in word deletion should be rejected")
	}

	created, err := svc.CreateWord(userID, &dto.CreateWordRequest{Term: "banana", Meaning: "바나나"})
	if err != nil {
		t.Fatalf("CreateWord: %v", err)
	}
	if err := svc.DeleteWordDetail(userID, created.ID); err != nil {
		t.Errorf("custom word deletion failed: %v", err)
	}
}

func TestRecordWordMissed(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)
	seedWords(t, store, userID, makeWords(5))

	svc := newTestProgressService(store, time.Now())

	for i := 0; i < 2; i++ {
		if err := svc.RecordWordMissed(userID, "word-1"); err != nil {
			t.Fatalf("RecordWordMissed: %v", err)
		}
	}

	stat, err := store.GetOrCreateWordStat(userID, "word-1")
	if err != nil {
		t.Fatalf("GetOrCreateWordStat: %v", err)
	}
	if stat.IncorrectCount != 2 {
		t.Errorf("incorrect count = %d, want 2 after two misses", stat.IncorrectCount)
	}
}

func TestRecordQuizComplete(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)
	seedWords(t, store, userID, makeWords(5))

	svc := newTestProgressService(store, time.Now())

	if err := svc.RecordWordMissed(userID, "word-1"); err != nil {
		t.Fatalf("RecordWordMissed: %v", err)
	}
	xp, levelUps, err := svc.RecordQuizComplete(userID, 8, 10)
	if err != nil {
		t.Fatalf("RecordQuizComplete: %v", err)
	}
	if xp != 16 || levelUps != 0 {
		t.Errorf("xp = %d levelUps = %d, want 16 and 0", xp, levelUps)
	}

	dashboard, err := svc.Dashboard(userID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if !dashboard.QuizDoneToday {
		t.Error("dashboard should show the quiz as done today")
	}
	if !dashboard.ReviewNeeded {
		t.Error("dashboard should flag review after mistakes")
	}
	if dashboard.LastQuizScore != 8 || dashboard.LastQuizTotal != 10 {
		t.Errorf("last quiz = %d/%d, want 8/10", dashboard.LastQuizScore, dashboard.LastQuizTotal)
	}
}

func TestRecordGameCompleteClampsScore(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)

	svc := newTestProgressService(store, time.Now())

	xp, _, err := svc.RecordGameComplete(userID, shared.GameWordBomb, "", -5, 0, 5, 30)
	if err != nil {
		t.Fatalf("RecordGameComplete: %v", err)
	}
	if xp != 0 {
		t.Errorf("negative score awarded %d XP, want 0", xp)
	}

	results, err := store.GetRecentGameResults(userID, 10)
	if err != nil {
		t.Fatalf("GetRecentGameResults: %v", err)
	}
	if len(results) != 1 || results[0].Score != 0 {
		t.Errorf("unexpected stored results: %+v", results)
	}
}

func TestLeaderboard(t *testing.T) {
	store := newTestStore(t)
	first := seedProfile(t, store)
	second := seedProfile(t, store)

	svcNow := time.Now()
	svc := newTestProgressService(store, svcNow)

	// first stays level 1 with 90 residual XP; second reaches level 2 with
	// only 50 residual. The level must outrank the bigger residual.
	if _, err := svc.AwardXP(first, 90); err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if _, err := svc.AwardXP(second, 150); err != nil {
		t.Fatalf("AwardXP: %v", err)
	}

	board, err := svc.Leaderboard(first, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board.TopUsers) != 2 {
		t.Fatalf("got %d entries, want 2", len(board.TopUsers))
	}
	if board.TopUsers[0].UserID != second {
		t.Error("higher-level profile should rank first despite the smaller residual XP")
	}
	if board.CurrentUser.Rank != 2 {
		t.Errorf("current user rank = %d, want 2", board.CurrentUser.Rank)
	}
}

func TestStreakRollover(t *testing.T) {
	store := newTestStore(t)
	active := seedProfile(t, store)
	lapsed := seedProfile(t, store)

	now := time.Date(2026, 8, 31, 0, 5, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)
	threeDaysAgo := now.AddDate(0, 0, -3)

	setLearnDate := func(userID string, at time.Time, streak int) {
		settings, err := store.GetUserSettings(userID)
		if err != nil {
			t.Fatalf("GetUserSettings: %v", err)
		}
		settings.LastLearnDate = &at
		settings.Streak = streak
		settings.BestStreak = streak
		if err := store.UpdateUserSettings(settings); err != nil {
			t.Fatalf("UpdateUserSettings: %v", err)
		}
	}
	setLearnDate(active, yesterday, 4)
	setLearnDate(lapsed, threeDaysAgo, 7)

	scheduler := &SchedulerService{sqlSvc: store, now: func() time.Time { return now }}
	scheduler.rolloverStreaks()

	settings, _ := store.GetUserSettings(active)
	if settings.Streak != 4 {
		t.Errorf("active profile streak = %d, want 4", settings.Streak)
	}

	settings, _ = store.GetUserSettings(lapsed)
	if settings.Streak != 0 {
		t.Errorf("lapsed profile streak = %d, want 0", settings.Streak)
	}
	if settings.BestStreak != 7 {
		t.Errorf("best streak = %d, want 7 (never reset)", settings.BestStreak)
	}
}
