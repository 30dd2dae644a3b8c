package books

import (
	"gorm.io/gorm"

	"github.com/wardeiling/FreeWise/internal/entities"
)

// GetHighlightByID retrieves a highlight with its book and review state.
func (r *Repository) GetHighlightByID(id uint) (*entities.Highlight, error) {
	var highlight entities.Highlight
	err := r.db.Preload("Book").Preload("ReviewState").First(&highlight, id).Error
	if err != nil {
		return nil, err
	}
	return &highlight, nil
}

// FindHighlightsByBook retrieves all highlights for a book with their review
// states, ordered by position in the book.
func (r *Repository) FindHighlightsByBook(bookID uint) ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Preload("ReviewState").
		Where("book_id = ?", bookID).
		Order("location_value ASC, sort_order ASC, id ASC").
		Find(&highlights).Error
	return highlights, err
}

// FindHighlightsByBookByDate retrieves a book's highlights ordered by when
// they were made. Highlights without a highlighted-at date are excluded from
// this view: an absent date never sorts as epoch zero.
func (r *Repository) FindHighlightsByBookByDate(bookID uint) ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Preload("ReviewState").
		Where("book_id = ? AND highlighted_at IS NOT NULL", bookID).
		Order("highlighted_at ASC, id ASC").
		Find(&highlights).Error
	return highlights, err
}

// CreateHighlight stores a new highlight and its default review state in one
// transaction, so no highlight ever exists without exactly one review state.
func (r *Repository) CreateHighlight(highlight *entities.Highlight) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(highlight).Error; err != nil {
			return err
		}
		state := entities.NewReviewState(highlight.ID)
		if err := tx.Create(&state).Error; err != nil {
			return err
		}
		highlight.ReviewState = state
		return nil
	})
}

// UpdateHighlightFields applies an enrichment patch to a stored highlight.
// The caller (deduplicator) guarantees only absent fields are filled; the
// highlight's review state is untouched.
func (r *Repository) UpdateHighlightFields(id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.Model(&entities.Highlight{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteHighlight removes a highlight and its review state together.
func (r *Repository) DeleteHighlight(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var highlight entities.Highlight
		if err := tx.First(&highlight, id).Error; err != nil {
			return err
		}
		if err := tx.Where("highlight_id = ?", id).Delete(&entities.ReviewState{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Highlight{}, id).Error
	})
}

// GetFavouriteHighlights returns favorited highlights with pagination,
// newest favourite first.
func (r *Repository) GetFavouriteHighlights(limit, offset int) ([]entities.Highlight, int64, error) {
	var total int64
	base := r.db.Model(&entities.Highlight{}).
		Joins("JOIN review_states ON review_states.highlight_id = highlights.id").
		Where("review_states.status = ?", entities.ReviewStatusFavorited)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var highlights []entities.Highlight
	query := r.db.Preload("Book").Preload("ReviewState").
		Joins("JOIN review_states ON review_states.highlight_id = highlights.id").
		Where("review_states.status = ?", entities.ReviewStatusFavorited).
		Order("review_states.updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&highlights).Error
	return highlights, total, err
}

// ListAllHighlights returns every highlight with book and review state, in
// book order. Used by the CSV exporter.
func (r *Repository) ListAllHighlights() ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Preload("Book").Preload("ReviewState").
		Order("book_id ASC, location_value ASC, sort_order ASC, id ASC").
		Find(&highlights).Error
	return highlights, err
}
