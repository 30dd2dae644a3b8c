package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wardeiling/FreeWise/internal/dedup"
	"github.com/wardeiling/FreeWise/internal/entities"
	"github.com/wardeiling/FreeWise/internal/importers"
)

// ValidationError rejects a draft before it reaches deduplication. The row
// is skipped and recorded in the import report; the import continues.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason
}

// ProgressFunc receives incremental import progress after each processed
// row. total is the caller-supplied row count, 0 when unknown.
type ProgressFunc func(done, total int)

// ImportOptions tune one import run.
type ImportOptions struct {
	// TotalRows sizes the progress indicator. 0 means unknown.
	TotalRows int
	// Progress, when set, is invoked once per source row.
	Progress ProgressFunc
}

// RowFailure is one skipped row in the import report.
type RowFailure struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport is the outcome of one import run. Created + Updated +
// Duplicates + Skipped always equals RowsSeen.
type ImportReport struct {
	Source     string       `json:"source"`
	RowsSeen   int          `json:"rows_seen"`
	Created    int          `json:"created"`
	Updated    int          `json:"updated"`
	Duplicates int          `json:"duplicates"`
	Skipped    int          `json:"skipped"`
	Failures   []RowFailure `json:"failures,omitempty"`
}

// ImportService drives the ingestion pipeline: it streams drafts from a
// source, validates them, routes each through the deduplicator and confines
// all side effects to the store.
type ImportService struct {
	store ImportStore
}

// NewImportService creates a new ImportService.
func NewImportService(store ImportStore) *ImportService {
	return &ImportService{store: store}
}

// bookState caches a book and its known highlights for the duration of one
// import, so in-file duplicates resolve without re-reading the store after
// every row.
type bookState struct {
	book       *entities.Book
	highlights []entities.Highlight
}

// Run imports every row the source yields. Per-row failures are collected
// into the report; only a broken stream or store aborts the run. The import
// is cancellable between rows via ctx; rows already committed remain.
func (s *ImportService) Run(ctx context.Context, source importers.Source, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{Source: source.Name()}
	books := make(map[string]*bookState)

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		draft, err := source.Next()
		if err == io.EOF {
			break
		}

		var rowErr *importers.RowError
		if errors.As(err, &rowErr) {
			report.RowsSeen++
			report.Skipped++
			report.Failures = append(report.Failures, RowFailure{Line: rowErr.Line, Reason: rowErr.Reason})
			s.reportProgress(opts, report.RowsSeen)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("import stream failed: %w", err)
		}

		report.RowsSeen++

		if err := s.importDraft(draft, books, &report); err != nil {
			var valErr *ValidationError
			if errors.As(err, &valErr) {
				report.Skipped++
				report.Failures = append(report.Failures, RowFailure{Line: draft.Line, Reason: valErr.Reason})
				s.reportProgress(opts, report.RowsSeen)
				continue
			}
			return report, err
		}

		s.reportProgress(opts, report.RowsSeen)
	}

	return report, nil
}

func (s *ImportService) reportProgress(opts ImportOptions, done int) {
	if opts.Progress != nil {
		opts.Progress(done, opts.TotalRows)
	}
}

// importDraft validates one draft and routes it through the deduplicator.
func (s *ImportService) importDraft(draft importers.Draft, books map[string]*bookState, report *ImportReport) error {
	if dedup.NormalizeText(draft.Text) == "" {
		return &ValidationError{Reason: "empty highlight text"}
	}
	if draft.BookTitle == "" {
		return &ValidationError{Reason: "missing book title"}
	}

	state, err := s.bookStateFor(draft, books)
	if err != nil {
		return err
	}

	result := dedup.Decide(draft, state.highlights)
	switch result.Decision {
	case dedup.DecisionNew:
		highlight := highlightFromDraft(draft, state.book.ID)
		if err := s.store.CreateHighlight(&highlight); err != nil {
			return fmt.Errorf("failed to create highlight: %w", err)
		}
		state.highlights = append(state.highlights, highlight)
		report.Created++

	case dedup.DecisionDuplicate:
		report.Duplicates++

	case dedup.DecisionDuplicateWithUpdate:
		if err := s.store.UpdateHighlightFields(result.Existing.ID, result.Patch.Fields()); err != nil {
			return fmt.Errorf("failed to enrich highlight %d: %w", result.Existing.ID, err)
		}
		applyPatch(state, result.Existing.ID, result.Patch)
		report.Updated++
	}
	return nil
}

func (s *ImportService) bookStateFor(draft importers.Draft, books map[string]*bookState) (*bookState, error) {
	key := draft.GroupKey()
	if state, ok := books[key]; ok {
		return state, nil
	}

	book, err := s.store.GetOrCreateBook(draft.BookTitle, draft.BookAuthor)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve book %q: %w", draft.BookTitle, err)
	}

	highlights, err := s.store.FindHighlightsByBook(book.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load highlights for book %d: %w", book.ID, err)
	}

	state := &bookState{book: book, highlights: highlights}
	books[key] = state
	return state, nil
}

func highlightFromDraft(draft importers.Draft, bookID uint) entities.Highlight {
	return entities.Highlight{
		BookID:        bookID,
		Text:          draft.Text,
		Note:          draft.Note,
		Section:       draft.Section,
		LocationType:  draft.LocationType,
		LocationValue: draft.LocationValue,
		Color:         draft.Color,
		RawTags:       draft.RawTags,
		SortOrder:     draft.SortOrder,
		HighlightedAt: draft.HighlightedAt,
	}
}

// applyPatch mirrors a committed enrichment onto the cached copy so later
// rows in the same file dedupe against current data.
func applyPatch(state *bookState, highlightID uint, patch dedup.Patch) {
	for i := range state.highlights {
		if state.highlights[i].ID != highlightID {
			continue
		}
		h := &state.highlights[i]
		if patch.LocationType != nil {
			h.LocationType = *patch.LocationType
			h.LocationValue = *patch.LocationValue
		}
		if patch.HighlightedAt != nil {
			h.HighlightedAt = patch.HighlightedAt
		}
		if patch.Note != nil {
			h.Note = *patch.Note
		}
		if patch.Color != nil {
			h.Color = *patch.Color
		}
		if patch.Section != nil {
			h.Section = *patch.Section
		}
		if patch.RawTags != nil {
			h.RawTags = *patch.RawTags
		}
		if patch.SortOrder != nil {
			h.SortOrder = *patch.SortOrder
		}
		return
	}
}
