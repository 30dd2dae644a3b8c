// Package exporters writes the library back out as a Readwise-compatible
// CSV export. The column set and date format match what the importer
// accepts, so exporting and re-importing the same library resolves every
// row as a duplicate and creates nothing.
package exporters

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/wardeiling/FreeWise/internal/entities"
	"github.com/wardeiling/FreeWise/internal/importers"
)

// HighlightLister loads every highlight with its book and review state.
// Implemented by internal/database/books.Repository.
type HighlightLister interface {
	ListAllHighlights() ([]entities.Highlight, error)
}

// csvHeader is the Readwise-compatible column set plus the review-state
// columns. Internal IDs and created/updated timestamps are deliberately
// omitted; only the highlight's own highlighted-at date is exported.
var csvHeader = []string{
	"Highlight",
	"Book Title",
	"Book Author",
	"Amazon Book ID",
	"Note",
	"Color",
	"Tags",
	"Location Type",
	"Location",
	"Highlighted at",
	"Document tags",
	"is_favorited",
	"is_discarded",
}

// CSVExporter streams the whole library as CSV.
type CSVExporter struct {
	store HighlightLister
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(store HighlightLister) *CSVExporter {
	return &CSVExporter{store: store}
}

// ExportFileName names a download taken at the given time.
func ExportFileName(at time.Time) string {
	return fmt.Sprintf("freewise_export_%s.csv", at.Format("20060102"))
}

// Write exports every highlight to w. Returns the number of rows written.
func (e *CSVExporter) Write(w io.Writer) (int, error) {
	highlights, err := e.store.ListAllHighlights()
	if err != nil {
		return 0, fmt.Errorf("failed to load highlights: %w", err)
	}
	return e.WriteHighlights(w, highlights)
}

// WriteHighlights exports the given highlights to w. Each highlight must
// carry its Book and ReviewState.
func (e *CSVExporter) WriteHighlights(w io.Writer, highlights []entities.Highlight) (int, error) {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for i, h := range highlights {
		if err := writer.Write(exportRow(h)); err != nil {
			return i, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return len(highlights), writer.Error()
}

func exportRow(h entities.Highlight) []string {
	var locationType, location string
	if h.HasLocation() {
		locationType = string(h.LocationType)
		location = strconv.Itoa(h.LocationValue)
	}

	// Blank when nil: an absent date round-trips as an absent date.
	var highlightedAt string
	if h.HighlightedAt != nil {
		highlightedAt = h.HighlightedAt.Format(importers.ExportTimestampLayout)
	}

	return []string{
		h.Text,
		h.Book.Title,
		h.Book.Author,
		h.Book.ASIN,
		h.Note,
		h.Color,
		h.RawTags,
		locationType,
		location,
		highlightedAt,
		h.Book.DocumentTags,
		strconv.FormatBool(h.ReviewState.Status == entities.ReviewStatusFavorited),
		strconv.FormatBool(h.ReviewState.Status == entities.ReviewStatusDiscarded),
	}
}
