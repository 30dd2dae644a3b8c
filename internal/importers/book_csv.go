package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wardeiling/FreeWise/internal/entities"
)

// BookCSVSource streams drafts from the user-authored book format: rows
// explicitly name the book and optionally a section and page. Title and text
// are mandatory; a missing page or section stays absent, it is never
// defaulted to zero.
type BookCSVSource struct {
	reader      *csv.Reader
	headerIndex map[string]int
	line        int
}

// NewBookCSVSource reads and validates the header row.
func NewBookCSVSource(r io.Reader) (*BookCSVSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	requiredHeaders := []string{"title", "text"}
	for _, h := range requiredHeaders {
		if _, ok := headerIndex[h]; !ok {
			return nil, fmt.Errorf("missing required header: %s", h)
		}
	}

	return &BookCSVSource{
		reader:      reader,
		headerIndex: headerIndex,
		line:        1, // header already consumed
	}, nil
}

// Name implements Source.
func (s *BookCSVSource) Name() string {
	return entities.ImportSourceBookCSV
}

// Next implements Source.
func (s *BookCSVSource) Next() (Draft, error) {
	s.line++
	record, err := s.reader.Read()
	if err == io.EOF {
		return Draft{}, io.EOF
	}
	if err != nil {
		return Draft{}, &RowError{Line: s.line, Reason: err.Error()}
	}

	title := getCSVValue(record, s.headerIndex, "title")
	if title == "" {
		return Draft{}, &RowError{Line: s.line, Reason: "missing required title"}
	}

	text := getCSVValue(record, s.headerIndex, "text")
	if text == "" {
		return Draft{}, &RowError{Line: s.line, Reason: "missing required text"}
	}

	draft := Draft{
		BookTitle:  title,
		BookAuthor: getCSVValue(record, s.headerIndex, "author"),
		Text:       text,
		Section:    getCSVValue(record, s.headerIndex, "section"),
		Line:       s.line,
	}

	if raw := getCSVValue(record, s.headerIndex, "page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return Draft{}, &RowError{Line: s.line, Reason: fmt.Sprintf("invalid page %q", raw)}
		}
		draft.LocationType = entities.LocationTypePage
		draft.LocationValue = page
	}

	return draft, nil
}

// Compile-time interface check
var _ Source = (*BookCSVSource)(nil)
