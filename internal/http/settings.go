package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SettingsController exposes the runtime-tunable review knobs.
type SettingsController struct {
	settings SettingsStore
}

func NewSettingsController(settings SettingsStore) *SettingsController {
	return &SettingsController{settings: settings}
}

// GetReviewSettings handles GET /api/settings/review
func (sc *SettingsController) GetReviewSettings(c *gin.Context) {
	c.JSON(http.StatusOK, sc.settings.GetReviewBatchSizeInfo())
}

// UpdateReviewSettingsRequest carries the new batch size.
type UpdateReviewSettingsRequest struct {
	BatchSize int `json:"batch_size" binding:"required"`
}

// UpdateReviewSettings handles PUT /api/settings/review
func (sc *SettingsController) UpdateReviewSettings(c *gin.Context) {
	var req UpdateReviewSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.BatchSize <= 0 || req.BatchSize > 100 {
		respondBadRequest(c, "batch_size must be between 1 and 100")
		return
	}

	if err := sc.settings.SetReviewBatchSize(req.BatchSize); err != nil {
		respondInternalError(c, err, "update review settings")
		return
	}
	c.JSON(http.StatusOK, sc.settings.GetReviewBatchSizeInfo())
}
