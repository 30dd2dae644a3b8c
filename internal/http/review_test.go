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
	"github.com/wardeiling/FreeWise/internal/database/settings"
	"github.com/wardeiling/FreeWise/internal/entities"
	"github.com/wardeiling/FreeWise/internal/review"
	"github.com/wardeiling/FreeWise/internal/settingsstore"
)

type reviewTestEnv struct {
	books   *books.Repository
	reviews *reviews.Repository
	manager *review.Manager
	router  *gin.Engine
}

func setupReviewTest(t *testing.T) (*reviewTestEnv, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_review_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	bookRepo := books.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)
	manager := review.NewManager(reviewRepo, reviewRepo)
	store := settingsstore.New(settings.NewRepository(db.DB), 5)

	controller := NewReviewController(manager, reviewRepo, store)

	router := gin.New()
	router.POST("/api/review/sessions", controller.StartSession)
	router.GET("/api/review/sessions", controller.ListSessions)
	router.GET("/api/review/sessions/:uuid", controller.GetSession)
	router.POST("/api/review/sessions/:uuid/actions", controller.ApplyAction)

	env := &reviewTestEnv{books: bookRepo, reviews: reviewRepo, manager: manager, router: router}
	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return env, cleanup
}

func (env *reviewTestEnv) seedHighlights(t *testing.T, count int) {
	t.Helper()
	book, err := env.books.GetOrCreateBook("Walden", "Henry David Thoreau")
	require.NoError(t, err)
	for i := 0; i < count; i++ {
		require.NoError(t, env.books.CreateHighlight(&entities.Highlight{BookID: book.ID, Text: "highlight"}))
	}
}

type sessionResponse struct {
	Session   review.Snapshot `json:"session"`
	EmptyPool bool            `json:"empty_pool"`
}

func (env *reviewTestEnv) startSession(t *testing.T, body string) sessionResponse {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/review/sessions", strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (env *reviewTestEnv) applyAction(t *testing.T, uuid, action string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/review/sessions/"+uuid+"/actions",
		strings.NewReader(`{"action": "`+action+`"}`))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)
	return w
}

func TestReviewController_StartSession(t *testing.T) {
	t.Run("defaults to configured batch size", func(t *testing.T) {
		env, cleanup := setupReviewTest(t)
		defer cleanup()
		env.seedHighlights(t, 8)

		response := env.startSession(t, "")

		assert.Equal(t, review.StatePresenting, response.Session.State)
		assert.Len(t, response.Session.Queue, 5)
		assert.False(t, response.EmptyPool)
		require.NotNil(t, response.Session.Current)
	})

	t.Run("batch size override", func(t *testing.T) {
		env, cleanup := setupReviewTest(t)
		defer cleanup()
		env.seedHighlights(t, 8)

		response := env.startSession(t, `{"batch_size": 2}`)
		assert.Len(t, response.Session.Queue, 2)
	})

	t.Run("pool smaller than batch yields whole pool", func(t *testing.T) {
		env, cleanup := setupReviewTest(t)
		defer cleanup()
		env.seedHighlights(t, 3)

		response := env.startSession(t, "")
		assert.Len(t, response.Session.Queue, 3)
	})

	t.Run("empty pool resolves immediately", func(t *testing.T) {
		env, cleanup := setupReviewTest(t)
		defer cleanup()

		response := env.startSession(t, "")
		assert.Equal(t, review.StateResolved, response.Session.State)
		assert.True(t, response.EmptyPool)
	})
}

func TestReviewController_ApplyAction(t *testing.T) {
	t.Run("full session flow", func(t *testing.T) {
		env, cleanup := setupReviewTest(t)
		defer cleanup()
		env.seedHighlights(t, 2)

		started := env.startSession(t, "")
		uuid := started.Session.UUID

		w := env.applyAction(t, uuid, "done")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.applyAction(t, uuid, "favorite")
		require.Equal(t, http.StatusOK, w.Code)

		var response sessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, review.StateResolved, response.Session.State)

		// Ledger recorded the counters and the completion.
		row, err := env.reviews.GetSessionByUUID(uuid)
		require.NoError(t, err)
		assert.Equal(t, entities.SessionStatusCompleted, row.Status)
		assert.Equal(t, 1, row.Reviewed)
		assert.Equal(t, 1, row.Favorited)
	})

	t.Run("action on resolved session conflicts", func(t *testing.T) {
		env, cleanup := setupReviewTest(t)
		defer cleanup()

		started := env.startSession(t, "")
		require.Equal(t, review.StateResolved, started.Session.State)

		w := env.applyAction(t, started.Session.UUID, "done")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown action is a bad request", func(t *testing.T) {
		env, cleanup := setupReviewTest(t)
		defer cleanup()
		env.seedHighlights(t, 1)

		started := env.startSession(t, "")
		w := env.applyAction(t, started.Session.UUID, "skip")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown session is 404", func(t *testing.T) {
		env, cleanup := setupReviewTest(t)
		defer cleanup()

		w := env.applyAction(t, "no-such-uuid", "done")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("concurrent state change conflicts", func(t *testing.T) {
		env, cleanup := setupReviewTest(t)
		defer cleanup()
		env.seedHighlights(t, 1)

		started := env.startSession(t, "")
		current := started.Session.Current
		require.NotNil(t, current)

		// Another writer discards the presented highlight underneath the session.
		require.NoError(t, env.reviews.TransitionStatus(current.ID,
			entities.ReviewStatusActive, entities.ReviewStatusDiscarded))

		w := env.applyAction(t, started.Session.UUID, "favorite")
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestReviewController_GetSession(t *testing.T) {
	env, cleanup := setupReviewTest(t)
	defer cleanup()
	env.seedHighlights(t, 2)

	started := env.startSession(t, "")
	uuid := started.Session.UUID

	t.Run("live session", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/review/sessions/"+uuid, nil)
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response sessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, uuid, response.Session.UUID)
	})

	t.Run("pruned session falls back to the ledger", func(t *testing.T) {
		// Drop the live session; the persisted row remains.
		session, err := env.manager.Get(uuid)
		require.NoError(t, err)
		require.NoError(t, session.Apply(review.ActionDone))
		require.NoError(t, session.Apply(review.ActionDone))
		env.manager.PruneIdle(started.Session.StartedAt.Add(-1))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/review/sessions/"+uuid, nil)
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response struct {
			Ledger *entities.ReviewSession `json:"ledger"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.NotNil(t, response.Ledger)
		assert.Equal(t, 2, response.Ledger.Reviewed)
	})

	t.Run("unknown session is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/review/sessions/no-such-uuid", nil)
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReviewController_ListSessions(t *testing.T) {
	env, cleanup := setupReviewTest(t)
	defer cleanup()
	env.seedHighlights(t, 1)
	env.startSession(t, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/review/sessions", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Sessions []entities.ReviewSession `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Sessions, 1)
}
