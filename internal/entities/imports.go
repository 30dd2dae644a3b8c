package entities

import (
	"time"
)

type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// Import source identifiers. These name the declared format of an upload,
// not where the file physically came from.
const (
	ImportSourceReadwiseCSV = "readwise_csv"
	ImportSourceBookCSV     = "book_csv"
)

// ImportRun records one import execution so long-running (asynchronous)
// imports can surface incremental progress and a final report. RowsSeen is
// bumped as rows stream through; RowsTotal is the caller-supplied row count
// (0 when unknown).
type ImportRun struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	Source   string       `gorm:"size:32" json:"source"`
	FileName string       `gorm:"size:512" json:"file_name,omitempty"`
	Status   ImportStatus `gorm:"size:20;default:'pending'" json:"status"`

	RowsTotal  int `json:"rows_total"`
	RowsSeen   int `json:"rows_seen"`
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`

	Errors string `gorm:"type:text" json:"errors,omitempty"` // JSON array of row errors

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (ImportRun) TableName() string {
	return "import_runs"
}
