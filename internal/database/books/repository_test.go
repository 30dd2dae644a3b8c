package books

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wardeiling/FreeWise/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{}, &entities.Highlight{}, &entities.ReviewState{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_GetOrCreateBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.GetOrCreateBook("Walden", "Henry David Thoreau")
	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, 1.0, book.FrequencyWeight)

	// Second call returns the same row, not a duplicate.
	again, err := repo.GetOrCreateBook("Walden", "Henry David Thoreau")
	require.NoError(t, err)
	assert.Equal(t, book.ID, again.ID)

	// Same title by a different author is a distinct book.
	other, err := repo.GetOrCreateBook("Walden", "Someone Else")
	require.NoError(t, err)
	assert.NotEqual(t, book.ID, other.ID)
}

func TestRepository_GetOrCreateBookKeepsWeight(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.GetOrCreateBook("Walden", "Henry David Thoreau")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateBook(book.ID, map[string]any{"frequency_weight": 2.5}))

	again, err := repo.GetOrCreateBook("Walden", "Henry David Thoreau")
	require.NoError(t, err)
	assert.Equal(t, 2.5, again.FrequencyWeight)
}

func TestRepository_CreateHighlightCreatesReviewState(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.GetOrCreateBook("Book", "Author")
	require.NoError(t, err)

	highlight := &entities.Highlight{BookID: book.ID, Text: "Some text"}
	require.NoError(t, repo.CreateHighlight(highlight))
	require.NotZero(t, highlight.ID)

	loaded, err := repo.GetHighlightByID(highlight.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ReviewStatusActive, loaded.ReviewState.Status)
	assert.Nil(t, loaded.ReviewState.LastReviewedAt)
	assert.Equal(t, 0, loaded.ReviewState.ReviewCount)
}

func TestRepository_ListBooksWithCounts(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	walden, err := repo.GetOrCreateBook("Walden", "Henry David Thoreau")
	require.NoError(t, err)
	meditations, err := repo.GetOrCreateBook("Meditations", "Marcus Aurelius")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateHighlight(&entities.Highlight{BookID: walden.ID, Text: "text"}))
	}
	require.NoError(t, repo.CreateHighlight(&entities.Highlight{BookID: meditations.ID, Text: "text"}))

	listed, err := repo.ListBooks("title")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Meditations", listed[0].Title)
	assert.Equal(t, int64(1), listed[0].HighlightCount)
	assert.Equal(t, "Walden", listed[1].Title)
	assert.Equal(t, int64(3), listed[1].HighlightCount)

	byCount, err := repo.ListBooks("highlights")
	require.NoError(t, err)
	assert.Equal(t, "Walden", byCount[0].Title)

	_, err = repo.ListBooks("bogus")
	assert.Error(t, err)
}

func TestRepository_UpdateBookNotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.UpdateBook(999, map[string]any{"title": "anything"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteBookCascades(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.GetOrCreateBook("Book", "Author")
	require.NoError(t, err)

	highlight := &entities.Highlight{BookID: book.ID, Text: "text"}
	require.NoError(t, repo.CreateHighlight(highlight))

	require.NoError(t, repo.DeleteBook(book.ID))

	_, err = repo.GetBookByID(book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetHighlightByID(highlight.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var states int64
	repo.db.Model(&entities.ReviewState{}).Where("highlight_id = ?", highlight.ID).Count(&states)
	assert.Zero(t, states)
}

func TestRepository_FindHighlightsByBookByDate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.GetOrCreateBook("Book", "Author")
	require.NoError(t, err)

	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateHighlight(&entities.Highlight{BookID: book.ID, Text: "undated"}))
	require.NoError(t, repo.CreateHighlight(&entities.Highlight{BookID: book.ID, Text: "late", HighlightedAt: &late}))
	require.NoError(t, repo.CreateHighlight(&entities.Highlight{BookID: book.ID, Text: "early", HighlightedAt: &early}))

	byDate, err := repo.FindHighlightsByBookByDate(book.ID)
	require.NoError(t, err)

	// Undated highlights are excluded, the rest are chronological.
	require.Len(t, byDate, 2)
	assert.Equal(t, "early", byDate[0].Text)
	assert.Equal(t, "late", byDate[1].Text)

	all, err := repo.FindHighlightsByBook(book.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_GetFavouriteHighlights(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.GetOrCreateBook("Book", "Author")
	require.NoError(t, err)

	var favoured *entities.Highlight
	for i := 0; i < 3; i++ {
		h := &entities.Highlight{BookID: book.ID, Text: "text"}
		require.NoError(t, repo.CreateHighlight(h))
		if i == 1 {
			favoured = h
		}
	}

	err = repo.db.Model(&entities.ReviewState{}).
		Where("highlight_id = ?", favoured.ID).
		Update("status", entities.ReviewStatusFavorited).Error
	require.NoError(t, err)

	favourites, total, err := repo.GetFavouriteHighlights(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, favourites, 1)
	assert.Equal(t, favoured.ID, favourites[0].ID)
	assert.Equal(t, "Book", favourites[0].Book.Title)
}
