package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardeiling/FreeWise/internal/database"
	"github.com/wardeiling/FreeWise/internal/database/books"
	"github.com/wardeiling/FreeWise/internal/database/reviews"
	"github.com/wardeiling/FreeWise/internal/entities"
)

func setupStatsTest(t *testing.T) (*books.Repository, *reviews.Repository, *gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_stats_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	bookRepo := books.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)
	controller := NewStatsController(db)

	router := gin.New()
	router.GET("/api/stats", controller.GetStats)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return bookRepo, reviewRepo, router, cleanup
}

func TestStatsController_EmptyLibrary(t *testing.T) {
	_, _, router, cleanup := setupStatsTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats database.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Zero(t, stats.TotalBooks)
	assert.Zero(t, stats.TotalHighlights)
}

func TestStatsController_CountsByStatus(t *testing.T) {
	bookRepo, reviewRepo, router, cleanup := setupStatsTest(t)
	defer cleanup()

	book, err := bookRepo.GetOrCreateBook("Walden", "Henry David Thoreau")
	require.NoError(t, err)

	texts := []string{"first", "second", "third"}
	ids := make([]uint, 0, len(texts))
	for _, text := range texts {
		h := &entities.Highlight{BookID: book.ID, Text: text}
		require.NoError(t, bookRepo.CreateHighlight(h))
		ids = append(ids, h.ID)
	}

	require.NoError(t, reviewRepo.TransitionStatus(ids[0], entities.ReviewStatusActive, entities.ReviewStatusFavorited))
	require.NoError(t, reviewRepo.TransitionStatus(ids[1], entities.ReviewStatusActive, entities.ReviewStatusDiscarded))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats database.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalBooks)
	assert.Equal(t, int64(3), stats.TotalHighlights)
	assert.Equal(t, int64(1), stats.Active)
	assert.Equal(t, int64(1), stats.Favorited)
	assert.Equal(t, int64(1), stats.Discarded)
}
