package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsController serves aggregate library counts for the dashboard.
type StatsController struct {
	store StatsStore
}

func NewStatsController(store StatsStore) *StatsController {
	return &StatsController{store: store}
}

// GetStats handles GET /api/stats
func (sc *StatsController) GetStats(c *gin.Context) {
	stats, err := sc.store.GetStats()
	if err != nil {
		respondInternalError(c, err, "get stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
