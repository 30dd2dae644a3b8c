package http

import (
	"github.com/wardeiling/FreeWise/internal/database"
	"github.com/wardeiling/FreeWise/internal/database/books"
	"github.com/wardeiling/FreeWise/internal/entities"
	"github.com/wardeiling/FreeWise/internal/settingsstore"
)

// This file consolidates the store interface definitions used by HTTP
// controllers. Each controller depends only on the methods it actually
// uses; the database sub-package repositories satisfy them.

// BookStore is the book surface: list/get/edit/delete plus highlight views.
type BookStore interface {
	ListBooks(sort string) ([]books.BookWithCount, error)
	GetBookByID(id uint) (*entities.Book, error)
	UpdateBook(id uint, fields map[string]any) error
	DeleteBook(id uint) error
	FindHighlightsByBook(bookID uint) ([]entities.Highlight, error)
	FindHighlightsByBookByDate(bookID uint) ([]entities.Highlight, error)
}

// FavouritesStore serves the favourites list and the restore action's
// highlight lookup.
type FavouritesStore interface {
	GetFavouriteHighlights(limit, offset int) ([]entities.Highlight, int64, error)
	GetHighlightByID(id uint) (*entities.Highlight, error)
}

// ReviewStateStore restores discarded/favorited highlights to rotation.
// Implemented by internal/database/reviews.Repository.
type ReviewStateStore interface {
	Restore(highlightID uint) error
}

// RunStore reads and records import runs for the import endpoints.
type RunStore interface {
	CreateRun(run *entities.ImportRun) error
	GetRun(id uint) (*entities.ImportRun, error)
	SaveRun(run *entities.ImportRun) error
	ListRuns(limit int) ([]entities.ImportRun, error)
}

// SessionLedgerReader exposes persisted session ledger rows.
type SessionLedgerReader interface {
	GetSessionByUUID(uuid string) (*entities.ReviewSession, error)
	ListSessions(limit int) ([]entities.ReviewSession, error)
}

// SettingsStore resolves and persists the review batch size.
type SettingsStore interface {
	GetReviewBatchSize() int
	SetReviewBatchSize(size int) error
	GetReviewBatchSizeInfo() settingsstore.ReviewBatchSizeInfo
}

// StatsStore serves aggregate dashboard counts.
type StatsStore interface {
	GetStats() (database.Stats, error)
}
