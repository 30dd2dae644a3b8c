package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wardeiling/FreeWise/internal/entities"
	"github.com/wardeiling/FreeWise/internal/importers"
	"github.com/wardeiling/FreeWise/internal/services"
	"github.com/wardeiling/FreeWise/internal/tasks"
)

// maxImportSize caps uploaded CSV files at 32 MiB.
const maxImportSize = 32 << 20

// ImportController accepts CSV uploads in either source format. Imports run
// synchronously by default; with ?async=1 the upload is spooled to disk and
// a task carries it to a background worker, progress visible through the
// import run record.
type ImportController struct {
	service    *services.ImportService
	runs       RunStore
	taskClient *tasks.Client
	spoolDir   string
}

func NewImportController(service *services.ImportService, runs RunStore, taskClient *tasks.Client, spoolDir string) *ImportController {
	return &ImportController{
		service:    service,
		runs:       runs,
		taskClient: taskClient,
		spoolDir:   spoolDir,
	}
}

// ImportReadwise handles POST /api/import/readwise
func (ic *ImportController) ImportReadwise(c *gin.Context) {
	ic.handleImport(c, entities.ImportSourceReadwiseCSV)
}

// ImportBook handles POST /api/import/book
func (ic *ImportController) ImportBook(c *gin.Context) {
	ic.handleImport(c, entities.ImportSourceBookCSV)
}

func (ic *ImportController) handleImport(c *gin.Context, sourceName string) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "missing file upload")
		return
	}
	if fileHeader.Size > maxImportSize {
		respondBadRequest(c, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "open upload")
		return
	}
	defer file.Close()

	if c.Query("async") == "1" {
		ic.importAsync(c, sourceName, fileHeader.Filename, file)
		return
	}
	ic.importSync(c, sourceName, fileHeader.Filename, file)
}

func (ic *ImportController) importSync(c *gin.Context, sourceName, fileName string, file io.Reader) {
	payload, err := io.ReadAll(file)
	if err != nil {
		respondInternalError(c, err, "read upload")
		return
	}

	total := importers.CountRows(bytes.NewReader(payload))

	source, err := importers.NewSource(sourceName, bytes.NewReader(payload))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	run := &entities.ImportRun{
		Source:    sourceName,
		FileName:  fileName,
		Status:    entities.ImportStatusRunning,
		RowsTotal: total,
		StartedAt: time.Now(),
	}
	if err := ic.runs.CreateRun(run); err != nil {
		respondInternalError(c, err, "create import run")
		return
	}

	report, err := ic.service.Run(c.Request.Context(), source, services.ImportOptions{TotalRows: total})
	ic.finishRun(run, report, err)

	if err != nil {
		respondInternalError(c, err, "import")
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": run.ID, "report": report})
}

func (ic *ImportController) importAsync(c *gin.Context, sourceName, fileName string, file io.Reader) {
	if ic.taskClient == nil {
		respondBadRequest(c, "asynchronous imports are disabled")
		return
	}

	if err := os.MkdirAll(ic.spoolDir, 0o755); err != nil {
		respondInternalError(c, err, "create spool dir")
		return
	}

	spoolPath := filepath.Join(ic.spoolDir, uuid.NewString()+".csv")
	spool, err := os.Create(spoolPath)
	if err != nil {
		respondInternalError(c, err, "create spool file")
		return
	}
	if _, err := io.Copy(spool, file); err != nil {
		spool.Close()
		os.Remove(spoolPath)
		respondInternalError(c, err, "spool upload")
		return
	}
	spool.Close()

	run := &entities.ImportRun{
		Source:    sourceName,
		FileName:  fileName,
		Status:    entities.ImportStatusPending,
		StartedAt: time.Now(),
	}
	if err := ic.runs.CreateRun(run); err != nil {
		os.Remove(spoolPath)
		respondInternalError(c, err, "create import run")
		return
	}

	task := tasks.ImportCSVTask{RunID: run.ID, Source: sourceName, FilePath: spoolPath}
	if _, err := ic.taskClient.Add(task).Save(); err != nil {
		os.Remove(spoolPath)
		respondInternalError(c, err, "enqueue import")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"run_id":  run.ID,
		"message": fmt.Sprintf("import queued, poll /api/import/runs/%d", run.ID),
	})
}

// finishRun records the synchronous import outcome on the run row.
func (ic *ImportController) finishRun(run *entities.ImportRun, report services.ImportReport, runErr error) {
	now := time.Now()
	run.CompletedAt = &now
	run.RowsSeen = report.RowsSeen
	run.Created = report.Created
	run.Updated = report.Updated
	run.Duplicates = report.Duplicates
	run.Skipped = report.Skipped

	if runErr != nil {
		run.Status = entities.ImportStatusFailed
		run.Errors = runErr.Error()
	} else {
		run.Status = entities.ImportStatusCompleted
		if len(report.Failures) > 0 {
			if encoded, err := json.Marshal(report.Failures); err == nil {
				run.Errors = string(encoded)
			}
		}
	}
	if err := ic.runs.SaveRun(run); err != nil {
		// The import itself already committed; the run row is advisory.
		log.Printf("Failed to save import run %d: %v", run.ID, err)
	}
}

// GetRun handles GET /api/import/runs/:id — async progress and final report.
func (ic *ImportController) GetRun(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	run, err := ic.runs.GetRun(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "import run")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get import run")
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListRuns handles GET /api/import/runs
func (ic *ImportController) ListRuns(c *gin.Context) {
	runs, err := ic.runs.ListRuns(parseQueryInt(c, "limit", 20))
	if err != nil {
		respondInternalError(c, err, "list import runs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
