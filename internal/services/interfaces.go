package services

import "github.com/wardeiling/FreeWise/internal/entities"

// ImportStore is the persistence capability set the import pipeline
// consumes. Implemented by internal/database/books.Repository.
type ImportStore interface {
	// GetOrCreateBook returns the book for a title/author pair, creating it
	// with defaults on first import.
	GetOrCreateBook(title, author string) (*entities.Book, error)

	// FindHighlightsByBook returns the stored highlights the deduplicator
	// matches drafts against.
	FindHighlightsByBook(bookID uint) ([]entities.Highlight, error)

	// CreateHighlight stores a new highlight together with its default
	// review state.
	CreateHighlight(highlight *entities.Highlight) error

	// UpdateHighlightFields applies a fill-if-absent enrichment patch.
	UpdateHighlightFields(id uint, fields map[string]any) error
}
