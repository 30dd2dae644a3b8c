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

func setupFavouritesTest(t *testing.T) (*books.Repository, *reviews.Repository, *gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_favourites_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	bookRepo := books.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)
	controller := NewFavouritesController(bookRepo, reviewRepo)

	router := gin.New()
	router.GET("/api/highlights/favourites", controller.ListFavourites)
	router.POST("/api/highlights/:id/restore", controller.RestoreHighlight)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return bookRepo, reviewRepo, router, cleanup
}

func TestFavouritesController_ListFavourites(t *testing.T) {
	bookRepo, reviewRepo, router, cleanup := setupFavouritesTest(t)
	defer cleanup()

	book, err := bookRepo.GetOrCreateBook("Walden", "Henry David Thoreau")
	require.NoError(t, err)

	var favourited uint
	for i := 0; i < 3; i++ {
		h := &entities.Highlight{BookID: book.ID, Text: "text"}
		require.NoError(t, bookRepo.CreateHighlight(h))
		if i == 0 {
			favourited = h.ID
			require.NoError(t, reviewRepo.TransitionStatus(h.ID,
				entities.ReviewStatusActive, entities.ReviewStatusFavorited))
		}
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/highlights/favourites", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data    []entities.Highlight `json:"data"`
		Total   int64                `json:"total"`
		HasMore bool                 `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(1), response.Total)
	require.Len(t, response.Data, 1)
	assert.Equal(t, favourited, response.Data[0].ID)
	assert.Equal(t, "Walden", response.Data[0].Book.Title)
	assert.False(t, response.HasMore)
}

func TestFavouritesController_ListFavouritesPagination(t *testing.T) {
	bookRepo, reviewRepo, router, cleanup := setupFavouritesTest(t)
	defer cleanup()

	book, err := bookRepo.GetOrCreateBook("Book", "Author")
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		h := &entities.Highlight{BookID: book.ID, Text: "text"}
		require.NoError(t, bookRepo.CreateHighlight(h))
		require.NoError(t, reviewRepo.TransitionStatus(h.ID,
			entities.ReviewStatusActive, entities.ReviewStatusFavorited))
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/highlights/favourites?limit=3&offset=0", nil)
	router.ServeHTTP(w, req)

	var response PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(4), response.Total)
	assert.True(t, response.HasMore)
}

func TestFavouritesController_RestoreHighlight(t *testing.T) {
	bookRepo, reviewRepo, router, cleanup := setupFavouritesTest(t)
	defer cleanup()

	book, err := bookRepo.GetOrCreateBook("Book", "Author")
	require.NoError(t, err)
	h := &entities.Highlight{BookID: book.ID, Text: "text"}
	require.NoError(t, bookRepo.CreateHighlight(h))
	require.NoError(t, reviewRepo.TransitionStatus(h.ID,
		entities.ReviewStatusActive, entities.ReviewStatusDiscarded))

	t.Run("restores a discarded highlight", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/highlights/1/restore", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		state, err := reviewRepo.GetState(h.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ReviewStatusActive, state.Status)
	})

	t.Run("restoring an active highlight conflicts", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/highlights/1/restore", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "invalid_transition", response.Code)
	})

	t.Run("unknown highlight is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/highlights/999/restore", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
