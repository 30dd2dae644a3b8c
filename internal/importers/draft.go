package importers

import (
	"fmt"
	"time"

	"github.com/wardeiling/FreeWise/internal/entities"
)

// Draft represents a candidate highlight from any import source before
// validation and deduplication. Each source format implements a Source that
// streams its native rows as this common representation.
//
// Columns the current UI does not surface (color, raw tags, location kind,
// in-book order) are still carried here so lossy import never blocks a
// future feature.
type Draft struct {
	BookTitle    string
	BookAuthor   string
	BookASIN     string
	DocumentTags string

	Text    string
	Note    string
	Section string

	LocationType  entities.LocationType
	LocationValue int

	Color     string
	RawTags   string
	SortOrder int

	// HighlightedAt is nil when the source row carried no date. Absent
	// dates are not an error and never default to a zero time.
	HighlightedAt *time.Time

	// Line is the 1-based source row the draft came from, for reporting.
	Line int
}

// GroupKey returns a unique identifier for grouping drafts by book.
func (d Draft) GroupKey() string {
	return d.BookAuthor + "|" + d.BookTitle
}

// HasLocation reports whether the draft carries positional metadata.
func (d Draft) HasLocation() bool {
	return d.LocationType != entities.LocationTypeNone
}

// Source streams drafts from a raw export, one row at a time.
//
// Next returns io.EOF once the input is exhausted and *RowError for rows
// that must be skipped without aborting the import (malformed row, missing
// required field, unparseable date). Any other error is fatal for the
// stream. Sources are forward-only: restarting an import means re-reading
// the underlying data.
//
// Implementations:
//   - ReadwiseCSVSource (readwise_csv.go) - third-party CSV export format
//   - BookCSVSource (book_csv.go) - user-authored book format
type Source interface {
	Next() (Draft, error)

	// Name identifies the declared source format, e.g. "readwise_csv".
	Name() string
}

// RowError reports a recoverable failure for a single source row. Callers
// collect these into the import report and continue with the next row.
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
