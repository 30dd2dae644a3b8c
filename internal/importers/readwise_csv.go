package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/wardeiling/FreeWise/internal/entities"
)

// ReadwiseCSVSource streams drafts from a Readwise-style CSV export.
//
// Rows whose text carries a trailing heading tag (".h1".."h6") are not
// emitted as drafts; they set the section label attached to the following
// highlights of the same book.
type ReadwiseCSVSource struct {
	reader      *csv.Reader
	headerIndex map[string]int
	line        int
	sections    map[string]string // current section label per book group key
}

// NewReadwiseCSVSource reads and validates the header row. A missing
// required header is a fatal error; individual data rows fail softly via
// RowError from Next.
func NewReadwiseCSVSource(r io.Reader) (*ReadwiseCSVSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	requiredHeaders := []string{"highlight", "book title", "book author"}
	for _, h := range requiredHeaders {
		if _, ok := headerIndex[h]; !ok {
			return nil, fmt.Errorf("missing required header: %s", h)
		}
	}

	return &ReadwiseCSVSource{
		reader:      reader,
		headerIndex: headerIndex,
		line:        1, // header already consumed
		sections:    make(map[string]string),
	}, nil
}

// Name implements Source.
func (s *ReadwiseCSVSource) Name() string {
	return entities.ImportSourceReadwiseCSV
}

// Next implements Source. Heading rows are consumed internally, so a call
// can read several physical rows before producing a draft.
func (s *ReadwiseCSVSource) Next() (Draft, error) {
	for {
		s.line++
		record, err := s.reader.Read()
		if err == io.EOF {
			return Draft{}, io.EOF
		}
		if err != nil {
			return Draft{}, &RowError{Line: s.line, Reason: err.Error()}
		}

		text := getCSVValue(record, s.headerIndex, "highlight")
		title := getCSVValue(record, s.headerIndex, "book title")
		if text == "" || title == "" {
			return Draft{}, &RowError{Line: s.line, Reason: "missing highlight or book title"}
		}

		author := getCSVValue(record, s.headerIndex, "book author")

		node := ParseTextNode(text)
		if node.Heading {
			s.sections[author+"|"+title] = node.Text
			continue
		}

		draft := Draft{
			BookTitle:    title,
			BookAuthor:   author,
			BookASIN:     getCSVValue(record, s.headerIndex, "amazon book id"),
			DocumentTags: getCSVValue(record, s.headerIndex, "document tags"),
			Text:         node.Text,
			Note:         getCSVValue(record, s.headerIndex, "note"),
			Section:      s.sections[author+"|"+title],
			Color:        normalizeColor(getCSVValue(record, s.headerIndex, "color")),
			RawTags:      getCSVValue(record, s.headerIndex, "tags"),
			Line:         s.line,
		}

		// Location is absent unless the row carries a numeric value. A
		// non-numeric location (e.g. a Kindle range) is dropped rather
		// than failing the row.
		if raw := getCSVValue(record, s.headerIndex, "location"); raw != "" {
			if loc, err := strconv.Atoi(raw); err == nil {
				draft.LocationValue = loc
				draft.LocationType = parseLocationType(getCSVValue(record, s.headerIndex, "location type"))
			}
		}
		if draft.LocationType == entities.LocationTypeOrder {
			draft.SortOrder = draft.LocationValue
		}

		if raw := getCSVValue(record, s.headerIndex, "highlighted at"); raw != "" {
			t, err := parseTimestamp(raw)
			if err != nil {
				return Draft{}, &RowError{Line: s.line, Reason: fmt.Sprintf("unparseable date %q", raw)}
			}
			draft.HighlightedAt = &t
		}

		return draft, nil
	}
}

func getCSVValue(record []string, headerIndex map[string]int, header string) string {
	if idx, ok := headerIndex[header]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func parseLocationType(locType string) entities.LocationType {
	switch strings.ToLower(locType) {
	case "page":
		return entities.LocationTypePage
	case "order":
		return entities.LocationTypeOrder
	default:
		// Bare numeric locations without a kind are Kindle-style.
		return entities.LocationTypeLocation
	}
}

func normalizeColor(color string) string {
	colorMap := map[string]string{
		"yellow": "#FFFF00",
		"blue":   "#0000FF",
		"pink":   "#FFC0CB",
		"orange": "#FFA500",
		"green":  "#00FF00",
		"purple": "#800080",
		"red":    "#FF0000",
	}

	if hex, ok := colorMap[strings.ToLower(color)]; ok {
		return hex
	}

	// Return as-is if already hex or unknown
	return color
}

// ExportTimestampLayout is how highlighted-at dates are written on export.
// It is the first layout parseTimestamp accepts, so an export/import cycle
// round-trips dates losslessly.
const ExportTimestampLayout = "2006-01-02 15:04:05"

func parseTimestamp(ts string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05-07:00",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"January 2, 2006",
		"01/02/2006",
		"02/01/2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", ts)
}

// Compile-time interface check
var _ Source = (*ReadwiseCSVSource)(nil)
