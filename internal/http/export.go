package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wardeiling/FreeWise/internal/exporters"
)

// ExportController streams the library as a Readwise-compatible CSV download.
type ExportController struct {
	exporter *exporters.CSVExporter
}

func NewExportController(exporter *exporters.CSVExporter) *ExportController {
	return &ExportController{exporter: exporter}
}

// ExportCSV handles GET /api/export/csv
func (ec *ExportController) ExportCSV(c *gin.Context) {
	fileName := exporters.ExportFileName(time.Now())
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)

	if _, err := ec.exporter.Write(c.Writer); err != nil {
		// Headers may already be out; log and abort the stream.
		respondInternalError(c, err, "export csv")
		return
	}
	c.Status(http.StatusOK)
}
