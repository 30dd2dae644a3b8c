// Package settingsstore resolves runtime-tunable review knobs with
// database > environment > default priority.
package settingsstore

import (
	"os"
	"strconv"

	"github.com/wardeiling/FreeWise/internal/config"
	"github.com/wardeiling/FreeWise/internal/entities"
)

// SettingsRepository is the persistence surface this store needs.
// Implemented by internal/database/settings.Repository.
type SettingsRepository interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// Priority: database > environment > default
type SettingsStore struct {
	repo         SettingsRepository
	defaultBatch int
}

func New(repo SettingsRepository, defaultBatchSize int) *SettingsStore {
	if defaultBatchSize <= 0 {
		defaultBatchSize = config.DefaultReviewBatchSize
	}
	return &SettingsStore{repo: repo, defaultBatch: defaultBatchSize}
}

// GetReviewBatchSize returns the effective daily batch size.
func (s *SettingsStore) GetReviewBatchSize() int {
	// Try database first
	setting, err := s.repo.GetSetting(entities.SettingKeyReviewBatchSize)
	if err == nil && setting.Value != "" {
		if size, convErr := strconv.Atoi(setting.Value); convErr == nil && size > 0 {
			return size
		}
	}

	// Try environment variable
	if env := os.Getenv("REVIEW_BATCH_SIZE"); env != "" {
		if size, convErr := strconv.Atoi(env); convErr == nil && size > 0 {
			return size
		}
	}

	return s.defaultBatch
}

// SetReviewBatchSize persists a batch size override in the database.
func (s *SettingsStore) SetReviewBatchSize(size int) error {
	return s.repo.SetSetting(entities.SettingKeyReviewBatchSize, strconv.Itoa(size))
}

// ClearReviewBatchSize drops the database override, falling back to
// environment or default.
func (s *SettingsStore) ClearReviewBatchSize() error {
	return s.repo.DeleteSetting(entities.SettingKeyReviewBatchSize)
}

// ReviewBatchSizeInfo reports the effective value and where it came from.
type ReviewBatchSizeInfo struct {
	BatchSize int    `json:"batch_size"`
	Source    string `json:"source"` // "database", "environment", or "default"
}

// GetReviewBatchSizeInfo returns the effective batch size with its source.
func (s *SettingsStore) GetReviewBatchSizeInfo() ReviewBatchSizeInfo {
	return ReviewBatchSizeInfo{
		BatchSize: s.GetReviewBatchSize(),
		Source:    s.reviewBatchSizeSource(),
	}
}

func (s *SettingsStore) reviewBatchSizeSource() string {
	setting, err := s.repo.GetSetting(entities.SettingKeyReviewBatchSize)
	if err == nil && setting.Value != "" {
		if size, convErr := strconv.Atoi(setting.Value); convErr == nil && size > 0 {
			return "database"
		}
	}
	if env := os.Getenv("REVIEW_BATCH_SIZE"); env != "" {
		if size, convErr := strconv.Atoi(env); convErr == nil && size > 0 {
			return "environment"
		}
	}
	return "default"
}
