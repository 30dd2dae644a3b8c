// Package books provides database operations for book and highlight management.
//
// This package implements the ImportStore interface defined in
// internal/services/interfaces.go and the book stores consumed by the HTTP
// controllers.
//
// # Interface Implementation
//
//	var _ services.ImportStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(123)
package books

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/wardeiling/FreeWise/internal/entities"
)

// Repository handles all book and highlight database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBookByID retrieves a book by its ID with its highlights and their
// review states.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Highlights", func(db *gorm.DB) *gorm.DB {
		return db.Order("location_value ASC, sort_order ASC, id ASC")
	}).Preload("Highlights.ReviewState").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookByTitleAndAuthor retrieves a book by title and author.
func (r *Repository) GetBookByTitleAndAuthor(title, author string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("title = ? AND author = ?", title, author).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetOrCreateBook returns the book with the given title and author, creating
// it with defaults on first reference. The frequency weight of an existing
// book is never touched here.
func (r *Repository) GetOrCreateBook(title, author string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("title = ? AND author = ?", title, author).First(&book).Error
	if err == nil {
		return &book, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	book = entities.Book{
		Title:           title,
		Author:          author,
		FrequencyWeight: 1.0,
	}
	if err := r.db.Create(&book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book %q: %w", title, err)
	}
	return &book, nil
}

// BookWithCount pairs a book with its highlight count for list views.
type BookWithCount struct {
	entities.Book
	HighlightCount int64 `json:"highlight_count"`
}

// ListBooks returns all books with highlight counts, ordered by the given
// sort key: "title" (default), "author", "highlights" or "updated".
func (r *Repository) ListBooks(sort string) ([]BookWithCount, error) {
	var order string
	switch sort {
	case "", "title":
		order = "books.title ASC"
	case "author":
		order = "books.author ASC, books.title ASC"
	case "highlights":
		order = "highlight_count DESC, books.title ASC"
	case "updated":
		order = "books.updated_at DESC"
	default:
		return nil, fmt.Errorf("unknown sort key %q", sort)
	}

	var books []BookWithCount
	err := r.db.Model(&entities.Book{}).
		Select("books.*, COUNT(highlights.id) as highlight_count").
		Joins("LEFT JOIN highlights ON highlights.book_id = books.id AND highlights.deleted_at IS NULL").
		Group("books.id").
		Order(order).
		Find(&books).Error
	return books, err
}

// SearchBooks searches books by title or author (case-insensitive partial match).
func (r *Repository) SearchBooks(query string) ([]entities.Book, error) {
	var books []entities.Book
	searchPattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", searchPattern, searchPattern).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// UpdateBook applies user edits (title, author, frequency weight) to a book.
func (r *Repository) UpdateBook(id uint, fields map[string]any) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteBook removes a book together with all of its highlights and their
// review states in one transaction. This is the only path that removes a
// book while highlights reference it.
func (r *Repository) DeleteBook(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}

		var highlightIDs []uint
		if err := tx.Model(&entities.Highlight{}).
			Where("book_id = ?", id).
			Pluck("id", &highlightIDs).Error; err != nil {
			return err
		}

		if len(highlightIDs) > 0 {
			if err := tx.Where("highlight_id IN ?", highlightIDs).
				Delete(&entities.ReviewState{}).Error; err != nil {
				return err
			}
			if err := tx.Where("book_id = ?", id).
				Delete(&entities.Highlight{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&entities.Book{}, id).Error
	})
}
