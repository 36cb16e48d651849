// services/store.go
package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wordnest/vocab_api/model"
)

// ==================== USER METHODS ====================

func (ds *SqliteService) CreateUser(user *model.User) error {
	return ds.HandleError(ds.db.Create(user).Error)
}

func (ds *SqliteService) GetUserByID(id string) (*model.User, error) {
	var user model.User
	if err := ds.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *SqliteService) GetUserByEmailOrUsername(identifier string) (*model.User, error) {
	var user model.User
	err := ds.db.Where("LOWER(email) = LOWER(?) OR LOWER(username) = LOWER(?)", identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *SqliteService) UpdateLastLogin(userID string, at time.Time) error {
	return ds.HandleError(ds.db.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"last_login": at, "updated_at": at}).Error)
}

// ==================== SETTINGS METHODS ====================

func (ds *SqliteService) CreateUserSettings(settings *model.UserSettings) error {
	return ds.HandleError(ds.db.Create(settings).Error)
}

func (ds *SqliteService) GetUserSettings(userID string) (*model.UserSettings, error) {
	var settings model.UserSettings
	if err := ds.db.First(&settings, "user_id = ?", userID).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &settings, nil
}

func (ds *SqliteService) UpdateUserSettings(settings *model.UserSettings) error {
	settings.UpdatedAt = time.Now()
	return ds.HandleError(ds.db.Save(settings).Error)
}

func (ds *SqliteService) GetAllUserSettings() ([]model.UserSettings, error) {
	var rows []model.UserSettings
	if err := ds.db.Find(&rows).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return rows, nil
}

// Profiles are ranked by level first; the xp column only holds the residual
// inside the current level.
func (ds *SqliteService) GetTopSettingsByXP(limit int) ([]model.UserSettings, error) {
	var rows []model.UserSettings
	err := ds.db.Order("level DESC, xp DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return rows, nil
}

func (ds *SqliteService) GetUserRankByXP(userID string) (int, error) {
	settings, err := ds.GetUserSettings(userID)
	if err != nil {
		return 0, err
	}

	var ahead int64
	err = ds.db.Model(&model.UserSettings{}).
		Where("level > ? OR (level = ? AND xp > ?)", settings.Level, settings.Level, settings.XP).
		Count(&ahead).Error
	if err != nil {
		return 0, ds.HandleError(err)
	}
	return int(ahead) + 1, nil
}

// ==================== WORD METHODS ====================

func (ds *SqliteService) CreateWord(word *model.Word) error {
	return ds.HandleError(ds.db.Create(word).Error)
}

func (ds *SqliteService) GetWord(userID, wordID string) (*model.Word, error) {
	var word model.Word
	err := ds.db.First(&word, "user_id = ? AND id = ?", userID, wordID).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &word, nil
}

// GetWords returns the catalog filtered to a scope. grade 0 means all grades,
// unit nil means all units.
func (ds *SqliteService) GetWords(userID string, grade int, unit *int) ([]model.Word, error) {
	query := ds.db.Where("user_id = ?", userID)
	if grade > 0 {
		query = query.Where("grade = ?", grade)
	}
	if unit != nil {
		query = query.Where("unit = ?", *unit)
	}

	var words []model.Word
	if err := query.Order("term ASC").Find(&words).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return words, nil
}

func (ds *SqliteService) CountWords(userID string) (int, error) {
	var count int64
	if err := ds.db.Model(&model.Word{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, ds.HandleError(err)
	}
	return int(count), nil
}

func (ds *SqliteService) GetWordByTerm(userID, term string) (*model.Word, error) {
	var word model.Word
	err := ds.db.Where("user_id = ? AND LOWER(term) = ?", userID, strings.ToLower(strings.TrimSpace(term))).
		First(&word).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &word, nil
}

func (ds *SqliteService) UpdateWord(word *model.Word) error {
	word.UpdatedAt = time.Now()
	return ds.HandleError(ds.db.Save(word).Error)
}

// DeleteWord removes a word together with its stat row.
func (ds *SqliteService) DeleteWord(userID, wordID string) error {
	return ds.HandleError(ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Word{}, "user_id = ? AND id = ?", userID, wordID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.WordStat{}, "user_id = ? AND id = ?", userID, wordID).Error
	}))
}

// ==================== WORD STAT METHODS ====================

// GetOrCreateWordStat lazily creates the stat row with defaults on first
// touch. The stat id always equals the word id.
func (ds *SqliteService) GetOrCreateWordStat(userID, wordID string) (*model.WordStat, error) {
	var stat model.WordStat
	err := ds.db.First(&stat, "user_id = ? AND id = ?", userID, wordID).Error
	if err == nil {
		return &stat, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, ds.HandleError(err)
	}

	stat = model.WordStat{
		ID:        wordID,
		UserID:    userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := ds.db.Create(&stat).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &stat, nil
}

func (ds *SqliteService) GetWordStats(userID string) ([]model.WordStat, error) {
	var stats []model.WordStat
	if err := ds.db.Where("user_id = ?", userID).Find(&stats).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return stats, nil
}

func (ds *SqliteService) UpdateWordStat(stat *model.WordStat) error {
	stat.UpdatedAt = time.Now()
	return ds.HandleError(ds.db.Save(stat).Error)
}

func (ds *SqliteService) CountWordsReviewedSince(userID string, since time.Time) (int, error) {
	var count int64
	err := ds.db.Model(&model.WordStat{}).
		Where("user_id = ? AND last_reviewed >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		return 0, ds.HandleError(err)
	}
	return int(count), nil
}

func (ds *SqliteService) CountWordsReviewed(userID string) (int, error) {
	var count int64
	err := ds.db.Model(&model.WordStat{}).
		Where("user_id = ? AND last_reviewed IS NOT NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, ds.HandleError(err)
	}
	return int(count), nil
}

func (ds *SqliteService) HasWordsNeedingReview(userID string) (bool, error) {
	var count int64
	err := ds.db.Model(&model.WordStat{}).
		Where("user_id = ? AND incorrect_count > 0", userID).
		Count(&count).Error
	if err != nil {
		return false, ds.HandleError(err)
	}
	return count > 0, nil
}

// ==================== GAME RESULT METHODS ====================

func (ds *SqliteService) CreateGameResult(result *model.GameResult) error {
	return ds.HandleError(ds.db.Create(result).Error)
}

func (ds *SqliteService) GetRecentGameResults(userID string, limit int) ([]model.GameResult, error) {
	var results []model.GameResult
	err := ds.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return results, nil
}

// ==================== RESET ====================

// DeleteProfileData removes everything a profile accumulated. The user row
// itself stays; each table is deleted independently (no cross-table
// atomicity is promised).
func (ds *SqliteService) DeleteProfileData(userID string) error {
	for _, m := range []interface{}{
		&model.UserSettings{},
		&model.Word{},
		&model.WordStat{},
		&model.GameResult{},
	} {
		if err := ds.db.Delete(m, "user_id = ?", userID).Error; err != nil {
			return ds.HandleError(err)
		}
	}
	return nil
}
