// services/progress.go
package services

import (
	"math"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/model"
	"github.com/wordnest/vocab_api/shared"
)

// ProgressService owns the word catalog, per-word stats and the profile's
// settings: XP, level, streaks and daily activity stamps. Quiz and game
// engines report their outcomes here.
type ProgressService struct {
	appContext.DefaultService

	sqlSvc *SqliteService

	now func() time.Time
}

const PROGRESS_SVC = "progress_svc"

func (svc *ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *appContext.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	return nil
}

// ==================== LEVELING ====================

// xpForLevel is the cost of going from level n to n+1.
func xpForLevel(level int) int {
	return level * 100
}

// applyXP adds XP to settings and converts overflow into level-ups in one
// pass. Returns the number of levels gained.
func applyXP(settings *model.UserSettings, amount int) int {
	if amount <= 0 {
		return 0
	}

	settings.XP += amount

	levelUps := 0
	for settings.XP >= xpForLevel(settings.Level) {
		settings.XP -= xpForLevel(settings.Level)
		settings.Level++
		levelUps++
	}
	return levelUps
}

// AwardXP credits XP to a profile and persists the result.
func (svc *ProgressService) AwardXP(userID string, amount int) (int, error) {
	settings, err := svc.sqlSvc.GetUserSettings(userID)
	if err != nil {
		return 0, err
	}

	levelUps := applyXP(settings, amount)
	if err := svc.sqlSvc.UpdateUserSettings(settings); err != nil {
		return levelUps, err
	}

	if levelUps > 0 {
		log.WithFields(log.Fields{"user": userID, "level": settings.Level}).Info("Level up")
	}
	return levelUps, nil
}

// ==================== ACTIVITY RECORDING ====================

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// advanceStreak moves the learning streak forward at most once per calendar
// day. Repeated study on the same day keeps the streak where it is.
func advanceStreak(settings *model.UserSettings, now time.Time) {
	if settings.LastLearnDate != nil && sameCalendarDay(*settings.LastLearnDate, now) {
		stamp := now
		settings.LastLearnDate = &stamp
		return
	}

	if settings.LastLearnDate != nil && sameCalendarDay(settings.LastLearnDate.AddDate(0, 0, 1), now) {
		settings.Streak++
	} else {
		settings.Streak = 1
	}

	if settings.Streak > settings.BestStreak {
		settings.BestStreak = settings.Streak
	}

	stamp := now
	settings.LastLearnDate = &stamp
}

// RecordWordLearned stamps a review on the word and advances the streak.
func (svc *ProgressService) RecordWordLearned(userID, wordID string) error {
	now := svc.now()

	stat, err := svc.sqlSvc.GetOrCreateWordStat(userID, wordID)
	if err != nil {
		return err
	}
	stamp := now
	stat.LastReviewed = &stamp
	if err := svc.sqlSvc.UpdateWordStat(stat); err != nil {
		return err
	}

	settings, err := svc.sqlSvc.GetUserSettings(userID)
	if err != nil {
		return err
	}
	advanceStreak(settings, now)
	return svc.sqlSvc.UpdateUserSettings(settings)
}

// quizXP converts a quiz score into XP: accuracy percent, rounded, divided
// by five.
func quizXP(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100*float64(score)/float64(total))) / 5
}

// RecordWordMissed bumps a word's incorrect count the moment it is missed,
// so an abandoned quiz still leaves its trace on the word stats.
func (svc *ProgressService) RecordWordMissed(userID, wordID string) error {
	stat, err := svc.sqlSvc.GetOrCreateWordStat(userID, wordID)
	if err != nil {
		return err
	}
	stat.IncorrectCount++
	return svc.sqlSvc.UpdateWordStat(stat)
}

// RecordQuizComplete stamps the quiz outcome and awards XP. Returns XP
// awarded and levels gained. Mistakes are recorded per answer as they
// happen, not here.
func (svc *ProgressService) RecordQuizComplete(userID string, score, total int) (int, int, error) {
	now := svc.now()

	settings, err := svc.sqlSvc.GetUserSettings(userID)
	if err != nil {
		return 0, 0, err
	}

	stamp := now
	settings.LastQuizDate = &stamp
	settings.LastQuizScore = score
	settings.LastQuizTotal = total

	xp := quizXP(score, total)
	levelUps := applyXP(settings, xp)

	if err := svc.sqlSvc.UpdateUserSettings(settings); err != nil {
		return xp, levelUps, err
	}
	return xp, levelUps, nil
}

// RecordGameComplete persists a game outcome and awards its score as XP.
func (svc *ProgressService) RecordGameComplete(userID, game, mode string, score, correct, incorrect, durationSec int) (int, int, error) {
	now := svc.now()

	if score < 0 {
		score = 0
	}

	result := &model.GameResult{
		ID:              uuid.NewString(),
		UserID:          userID,
		Game:            game,
		Mode:            mode,
		Score:           score,
		Correct:         correct,
		Incorrect:       incorrect,
		DurationSeconds: durationSec,
		CreatedAt:       now,
	}
	if err := svc.sqlSvc.CreateGameResult(result); err != nil {
		log.WithError(err).WithField("game", game).Warn("Failed to persist game result")
	}

	settings, err := svc.sqlSvc.GetUserSettings(userID)
	if err != nil {
		return 0, 0, err
	}

	stamp := now
	settings.LastGameDate = &stamp
	levelUps := applyXP(settings, score)

	if err := svc.sqlSvc.UpdateUserSettings(settings); err != nil {
		return score, levelUps, err
	}
	return score, levelUps, nil
}

// RecordGameMistakes bumps incorrect counts for words missed in a game.
func (svc *ProgressService) RecordGameMistakes(userID string, wordIDs []string) {
	for _, wordID := range wordIDs {
		stat, err := svc.sqlSvc.GetOrCreateWordStat(userID, wordID)
		if err != nil {
			continue
		}
		stat.IncorrectCount++
		if err := svc.sqlSvc.UpdateWordStat(stat); err != nil {
			log.WithError(err).WithField("word", wordID).Warn("Failed to save game mistake")
		}
	}
}

// ==================== SETTINGS ====================

func (svc *ProgressService) GetSettings(userID string) (*dto.SettingsResponse, error) {
	settings, err := svc.sqlSvc.GetUserSettings(userID)
	if err != nil {
		return nil, err
	}
	return settingsResponse(settings), nil
}

func (svc *ProgressService) UpdateSettings(userID string, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := svc.sqlSvc.GetUserSettings(userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		settings.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Grade != nil {
		settings.Grade = *req.Grade
	}
	if req.DailyGoal != nil {
		settings.DailyGoal = *req.DailyGoal
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.SpeechRate != nil {
		settings.SpeechRate = *req.SpeechRate
	}
	if req.Autoplay != nil {
		settings.Autoplay = *req.Autoplay
	}

	if err := svc.sqlSvc.UpdateUserSettings(settings); err != nil {
		return nil, err
	}
	return settingsResponse(settings), nil
}

func settingsResponse(settings *model.UserSettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		DisplayName:   settings.DisplayName,
		Grade:         settings.Grade,
		DailyGoal:     settings.DailyGoal,
		Theme:         settings.Theme,
		SpeechRate:    settings.SpeechRate,
		Autoplay:      settings.Autoplay,
		XP:            settings.XP,
		Level:         settings.Level,
		XPToNextLevel: xpForLevel(settings.Level) - settings.XP,
		Streak:        settings.Streak,
		BestStreak:    settings.BestStreak,
		LastLearnDate: settings.LastLearnDate,
		LastQuizDate:  settings.LastQuizDate,
		LastGameDate:  settings.LastGameDate,
	}
}

// ==================== DASHBOARD ====================

// Dashboard assembles the home screen summary. Everything is recomputed
// from current state; nothing here is stored.
func (svc *ProgressService) Dashboard(userID string) (*dto.DashboardResponse, error) {
	settings, err := svc.sqlSvc.GetUserSettings(userID)
	if err != nil {
		return nil, err
	}

	now := svc.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	learnedToday, err := svc.sqlSvc.CountWordsReviewedSince(userID, midnight)
	if err != nil {
		return nil, err
	}
	totalLearned, err := svc.sqlSvc.CountWordsReviewed(userID)
	if err != nil {
		return nil, err
	}
	totalWords, err := svc.sqlSvc.CountWords(userID)
	if err != nil {
		return nil, err
	}
	reviewNeeded, err := svc.sqlSvc.HasWordsNeedingReview(userID)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		WordsLearnedToday: learnedToday,
		TotalWordsLearned: totalLearned,
		TotalWords:        totalWords,
		DailyGoal:         settings.DailyGoal,
		Streak:            settings.Streak,
		BestStreak:        settings.BestStreak,
		LastQuizScore:     settings.LastQuizScore,
		LastQuizTotal:     settings.LastQuizTotal,
		QuizDoneToday:     settings.LastQuizDate != nil && sameCalendarDay(*settings.LastQuizDate, now),
		GameDoneToday:     settings.LastGameDate != nil && sameCalendarDay(*settings.LastGameDate, now),
		ReviewNeeded:      reviewNeeded,
		XP:                settings.XP,
		Level:             settings.Level,
		XPToNextLevel:     xpForLevel(settings.Level) - settings.XP,
	}, nil
}

// ==================== WORD CATALOG ====================

// CreateWord adds a custom word. A term already present (case-insensitive)
// is rejected and the catalog stays unchanged.
func (svc *ProgressService) CreateWord(userID string, req *dto.CreateWordRequest) (*dto.WordResponse, error) {
	if _, err := svc.sqlSvc.GetWordByTerm(userID, req.Term); err == nil {
		return nil, shared.NewConflictError(nil, "That word is already in your list")
	}

	now := svc.now()
	word := &model.Word{
		ID:                     uuid.NewString(),
		UserID:                 userID,
		Term:                   strings.TrimSpace(req.Term),
		Pronunciation:          req.Pronunciation,
		PartOfSpeech:           req.PartOfSpeech,
		Meaning:                req.Meaning,
		ExampleSentence:        req.ExampleSentence,
		ExampleSentenceMeaning: req.ExampleSentenceMeaning,
		Grade:                  req.Grade,
		Unit:                   req.Unit,
		IsCustom:               true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := svc.sqlSvc.CreateWord(word); err != nil {
		return nil, err
	}
	return wordResponse(word, nil), nil
}

func (svc *ProgressService) GetWordDetail(userID, wordID string) (*dto.WordResponse, error) {
	word, err := svc.sqlSvc.GetWord(userID, wordID)
	if err != nil {
		return nil, err
	}
	stat, err := svc.sqlSvc.GetOrCreateWordStat(userID, wordID)
	if err != nil {
		return nil, err
	}
	return wordResponse(word, stat), nil
}

func (svc *ProgressService) ListWords(userID string, grade int, unit *int) (*dto.WordCollectionResponse, error) {
	words, err := svc.sqlSvc.GetWords(userID, grade, unit)
	if err != nil {
		return nil, err
	}
	stats, err := svc.sqlSvc.GetWordStats(userID)
	if err != nil {
		return nil, err
	}

	statsByID := make(map[string]*model.WordStat, len(stats))
	for i := range stats {
		statsByID[stats[i].ID] = &stats[i]
	}

	out := make([]dto.WordResponse, 0, len(words))
	for i := range words {
		out = append(out, *wordResponse(&words[i], statsByID[words[i].ID]))
	}
	return &dto.WordCollectionResponse{Words: out, Total: len(out)}, nil
}

func (svc *ProgressService) UpdateWordDetail(userID, wordID string, req *dto.UpdateWordRequest) (*dto.WordResponse, error) {
	word, err := svc.sqlSvc.GetWord(userID, wordID)
	if err != nil {
		return nil, err
	}

	if req.Pronunciation != nil {
		word.Pronunciation = *req.Pronunciation
	}
	if req.PartOfSpeech != nil {
		word.PartOfSpeech = *req.PartOfSpeech
	}
	if req.Meaning != nil {
		word.Meaning = *req.Meaning
	}
	if req.ExampleSentence != nil {
		word.ExampleSentence = *req.ExampleSentence
	}
	if req.ExampleSentenceMeaning != nil {
		word.ExampleSentenceMeaning = *req.ExampleSentenceMeaning
	}
	if req.Unit != nil {
		word.Unit = req.Unit
	}

	if err := svc.sqlSvc.UpdateWord(word); err != nil {
		return nil, err
	}
	return wordResponse(word, nil), nil
}

// DeleteWordDetail removes a custom word and its stat. Seeded catalog words
// cannot be deleted.
func (svc *ProgressService) DeleteWordDetail(userID, wordID string) error {
	word, err := svc.sqlSvc.GetWord(userID, wordID)
	if err != nil {
		return err
	}
	if !word.IsCustom {
		return shared.NewBadRequestError(nil, "Built-in words cannot be deleted")
	}
	return svc.sqlSvc.DeleteWord(userID, wordID)
}

// ToggleMastered flips the mastered flag on a word's stat.
func (svc *ProgressService) ToggleMastered(userID, wordID string) (*dto.WordResponse, error) {
	word, err := svc.sqlSvc.GetWord(userID, wordID)
	if err != nil {
		return nil, err
	}
	stat, err := svc.sqlSvc.GetOrCreateWordStat(userID, wordID)
	if err != nil {
		return nil, err
	}

	stat.Mastered = !stat.Mastered
	if err := svc.sqlSvc.UpdateWordStat(stat); err != nil {
		return nil, err
	}
	return wordResponse(word, stat), nil
}

func wordResponse(word *model.Word, stat *model.WordStat) *dto.WordResponse {
	resp := &dto.WordResponse{
		ID:                     word.ID,
		Term:                   word.Term,
		Pronunciation:          word.Pronunciation,
		PartOfSpeech:           word.PartOfSpeech,
		Meaning:                word.Meaning,
		ExampleSentence:        word.ExampleSentence,
		ExampleSentenceMeaning: word.ExampleSentenceMeaning,
		Grade:                  word.Grade,
		Unit:                   word.Unit,
		IsCustom:               word.IsCustom,
		ImageURL:               word.ImageURL,
	}
	if stat != nil {
		resp.Mastered = stat.Mastered
		resp.LastReviewed = stat.LastReviewed
		resp.IncorrectCount = stat.IncorrectCount
	}
	return resp
}

// ==================== LEADERBOARD ====================

func (svc *ProgressService) Leaderboard(userID string, limit int) (*dto.LeaderboardResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	top, err := svc.sqlSvc.GetTopSettingsByXP(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(top))
	for i := range top {
		entries = append(entries, dto.LeaderboardEntry{
			UserID:      top[i].UserID,
			DisplayName: top[i].DisplayName,
			Level:       top[i].Level,
			XP:          top[i].XP,
			Rank:        i + 1,
		})
	}

	rank, err := svc.sqlSvc.GetUserRankByXP(userID)
	if err != nil {
		return nil, err
	}
	settings, err := svc.sqlSvc.GetUserSettings(userID)
	if err != nil {
		return nil, err
	}

	return &dto.LeaderboardResponse{
		TopUsers: entries,
		CurrentUser: dto.LeaderboardEntry{
			UserID:      userID,
			DisplayName: settings.DisplayName,
			Level:       settings.Level,
			XP:          settings.XP,
			Rank:        rank,
		},
	}, nil
}

// ==================== RESET ====================

// ResetProfile wipes the profile's data and recreates default settings.
func (svc *ProgressService) ResetProfile(userID string) error {
	if err := svc.sqlSvc.DeleteProfileData(userID); err != nil {
		return err
	}

	now := svc.now()
	settings := &model.UserSettings{
		ID:         uuid.NewString(),
		UserID:     userID,
		DailyGoal:  10,
		Theme:      "light",
		SpeechRate: 1,
		Level:      1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.sqlSvc.CreateUserSettings(settings)
}
