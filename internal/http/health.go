package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wardeiling/FreeWise/internal/database"
)

// HealthResponse reports service liveness plus per-dependency checks.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Status handles GET /health. Returns 503 when any check fails.
func (h *HealthController) Status(c *gin.Context) {
	checks := map[string]string{
		"database": h.checkDatabase(),
	}

	status := "healthy"
	for _, result := range checks {
		if result != "ok" && result != "not configured" {
			status = "unhealthy"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	c.IndentedJSON(code, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

func (h *HealthController) checkDatabase() string {
	if h.db == nil {
		return "not configured"
	}
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
