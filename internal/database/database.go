package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wardeiling/FreeWise/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Highlight{},
		&entities.ReviewState{},
		&entities.ReviewSession{},
		&entities.ImportRun{},
		&entities.Setting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetStats returns dashboard totals: books, highlights and highlight counts
// per review status.
func (d *Database) GetStats() (Stats, error) {
	var stats Stats

	if err := d.DB.Model(&entities.Book{}).Count(&stats.TotalBooks).Error; err != nil {
		return stats, err
	}
	if err := d.DB.Model(&entities.Highlight{}).Count(&stats.TotalHighlights).Error; err != nil {
		return stats, err
	}

	type statusCount struct {
		Status entities.ReviewStatus
		Count  int64
	}
	var counts []statusCount
	err := d.DB.Model(&entities.ReviewState{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return stats, err
	}

	for _, c := range counts {
		switch c.Status {
		case entities.ReviewStatusActive:
			stats.Active = c.Count
		case entities.ReviewStatusFavorited:
			stats.Favorited = c.Count
		case entities.ReviewStatusDiscarded:
			stats.Discarded = c.Count
		}
	}
	return stats, nil
}

// Stats holds aggregate library counts for the dashboard endpoint.
type Stats struct {
	TotalBooks      int64 `json:"total_books"`
	TotalHighlights int64 `json:"total_highlights"`
	Active          int64 `json:"active"`
	Favorited       int64 `json:"favorited"`
	Discarded       int64 `json:"discarded"`
}
