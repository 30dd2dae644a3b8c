package settings

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wardeiling/FreeWise/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_settings_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Setting{}))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db), cleanup
}

func TestRepository_SetAndGetSetting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting(entities.SettingKeyReviewBatchSize, "10"))

	setting, err := repo.GetSetting(entities.SettingKeyReviewBatchSize)
	require.NoError(t, err)
	assert.Equal(t, entities.SettingKeyReviewBatchSize, setting.Key)
	assert.Equal(t, "10", setting.Value)
}

func TestRepository_SetSettingUpserts(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting(entities.SettingKeyReviewBatchSize, "5"))
	require.NoError(t, repo.SetSetting(entities.SettingKeyReviewBatchSize, "20"))

	setting, err := repo.GetSetting(entities.SettingKeyReviewBatchSize)
	require.NoError(t, err)
	assert.Equal(t, "20", setting.Value)
}

func TestRepository_GetSettingNotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetSetting("nonexistent")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepository_DeleteSetting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting(entities.SettingKeyReviewBatchSize, "8"))
	require.NoError(t, repo.DeleteSetting(entities.SettingKeyReviewBatchSize))

	_, err := repo.GetSetting(entities.SettingKeyReviewBatchSize)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// Deleting again is a no-op.
	assert.NoError(t, repo.DeleteSetting(entities.SettingKeyReviewBatchSize))
}
