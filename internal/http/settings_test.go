package http

import (
	"bytes"
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
	"github.com/wardeiling/FreeWise/internal/database/settings"
	"github.com/wardeiling/FreeWise/internal/settingsstore"
)

func setupSettingsTest(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_settings_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	store := settingsstore.New(settings.NewRepository(db.DB), 5)
	controller := NewSettingsController(store)

	router := gin.New()
	router.GET("/api/settings/review", controller.GetReviewSettings)
	router.PUT("/api/settings/review", controller.UpdateReviewSettings)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, cleanup
}

func getReviewSettings(t *testing.T, router *gin.Engine) settingsstore.ReviewBatchSizeInfo {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/settings/review", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var info settingsstore.ReviewBatchSizeInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	return info
}

func TestSettingsController_GetDefault(t *testing.T) {
	router, cleanup := setupSettingsTest(t)
	defer cleanup()

	info := getReviewSettings(t, router)
	assert.Equal(t, 5, info.BatchSize)
	assert.Equal(t, "default", info.Source)
}

func TestSettingsController_UpdatePersists(t *testing.T) {
	router, cleanup := setupSettingsTest(t)
	defer cleanup()

	body := bytes.NewBufferString(`{"batch_size": 12}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/settings/review", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var info settingsstore.ReviewBatchSizeInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, 12, info.BatchSize)
	assert.Equal(t, "database", info.Source)

	// A subsequent read sees the stored value.
	info = getReviewSettings(t, router)
	assert.Equal(t, 12, info.BatchSize)
	assert.Equal(t, "database", info.Source)
}

func TestSettingsController_UpdateValidation(t *testing.T) {
	router, cleanup := setupSettingsTest(t)
	defer cleanup()

	testCases := []struct {
		name string
		body string
	}{
		{"zero", `{"batch_size": 0}`},
		{"negative", `{"batch_size": -5}`},
		{"too large", `{"batch_size": 101}`},
		{"missing field", `{}`},
		{"not json", `batch_size=5`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("PUT", "/api/settings/review", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	// Rejected updates never touch the stored value.
	info := getReviewSettings(t, router)
	assert.Equal(t, 5, info.BatchSize)
	assert.Equal(t, "default", info.Source)
}
