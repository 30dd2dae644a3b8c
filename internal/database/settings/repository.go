// Package settings stores runtime-tunable key/value settings, currently
// just the review batch size. Values are strings; interpretation lives in
// internal/settingsstore.
package settings

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wardeiling/FreeWise/internal/entities"
)

// Repository handles settings persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key. Returns gorm.ErrRecordNotFound
// for keys that were never set or were cleared.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// SetSetting upserts a setting on its unique key.
func (r *Repository) SetSetting(key, value string) error {
	setting := entities.Setting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// DeleteSetting removes a setting. Deleting an absent key is a no-op.
func (r *Repository) DeleteSetting(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error
}
