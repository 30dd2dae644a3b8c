package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardeiling/FreeWise/internal/entities"
	"github.com/wardeiling/FreeWise/internal/importers"
)

// fakeImportStore is an in-memory ImportStore tracking calls per book.
type fakeImportStore struct {
	books      map[string]*entities.Book
	highlights map[uint][]entities.Highlight
	nextBookID uint
	nextHlID   uint

	updates []uint // highlight IDs enriched via UpdateHighlightFields
}

func newFakeImportStore() *fakeImportStore {
	return &fakeImportStore{
		books:      make(map[string]*entities.Book),
		highlights: make(map[uint][]entities.Highlight),
	}
}

func (f *fakeImportStore) GetOrCreateBook(title, author string) (*entities.Book, error) {
	key := author + "|" + title
	if book, ok := f.books[key]; ok {
		return book, nil
	}
	f.nextBookID++
	book := &entities.Book{ID: f.nextBookID, Title: title, Author: author, FrequencyWeight: 1.0}
	f.books[key] = book
	return book, nil
}

func (f *fakeImportStore) FindHighlightsByBook(bookID uint) ([]entities.Highlight, error) {
	return append([]entities.Highlight(nil), f.highlights[bookID]...), nil
}

func (f *fakeImportStore) CreateHighlight(highlight *entities.Highlight) error {
	f.nextHlID++
	highlight.ID = f.nextHlID
	f.highlights[highlight.BookID] = append(f.highlights[highlight.BookID], *highlight)
	return nil
}

func (f *fakeImportStore) UpdateHighlightFields(id uint, fields map[string]any) error {
	f.updates = append(f.updates, id)
	return nil
}

func readwiseSource(t *testing.T, csvData string) importers.Source {
	t.Helper()
	src, err := importers.NewReadwiseCSVSource(strings.NewReader(csvData))
	require.NoError(t, err)
	return src
}

func TestImportService_CreatesBooksAndHighlights(t *testing.T) {
	csvData := `Highlight,Book Title,Book Author,Note,Location,Highlighted at
"First highlight","Walden","Henry David Thoreau","a note",101,2024-01-15 10:00:00
"Second highlight","Walden","Henry David Thoreau",,102,
"Other book highlight","Meditations","Marcus Aurelius",,,
`

	store := newFakeImportStore()
	service := NewImportService(store)

	report, err := service.Run(context.Background(), readwiseSource(t, csvData), ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, entities.ImportSourceReadwiseCSV, report.Source)
	assert.Equal(t, 3, report.RowsSeen)
	assert.Equal(t, 3, report.Created)
	assert.Equal(t, 0, report.Skipped)
	assert.Len(t, store.books, 2)

	walden := store.books["Henry David Thoreau|Walden"]
	require.NotNil(t, walden)
	require.Len(t, store.highlights[walden.ID], 2)

	first := store.highlights[walden.ID][0]
	assert.Equal(t, "a note", first.Note)
	assert.Equal(t, entities.LocationTypeLocation, first.LocationType)
	assert.Equal(t, 101, first.LocationValue)
	require.NotNil(t, first.HighlightedAt)
}

func TestImportService_MalformedRowsSkippedNotFatal(t *testing.T) {
	csvData := `Highlight,Book Title,Book Author,Highlighted at
"Good row","Book","Author",
"","Book","Author",
"Bad date","Book","Author",not-a-date
"Another good row","Book","Author",
`

	store := newFakeImportStore()
	service := NewImportService(store)

	report, err := service.Run(context.Background(), readwiseSource(t, csvData), ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, report.RowsSeen)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 2, report.Skipped)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, 3, report.Failures[0].Line)
	assert.Contains(t, report.Failures[1].Reason, "unparseable date")

	// Accounting identity holds.
	assert.Equal(t, report.RowsSeen, report.Created+report.Updated+report.Duplicates+report.Skipped)
}

func TestImportService_InFileDuplicates(t *testing.T) {
	csvData := `Highlight,Book Title,Book Author
"Repeated text","Book","Author"
"Repeated text","Book","Author"
"Repeated   text","Book","Author"
`

	store := newFakeImportStore()
	service := NewImportService(store)

	report, err := service.Run(context.Background(), readwiseSource(t, csvData), ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 2, report.Duplicates)
	book := store.books["Author|Book"]
	require.NotNil(t, book)
	assert.Len(t, store.highlights[book.ID], 1)
}

func TestImportService_ReimportEnrichesAbsentFields(t *testing.T) {
	store := newFakeImportStore()
	service := NewImportService(store)

	bare := `Highlight,Book Title,Book Author
"Existing text","Book","Author"
`
	_, err := service.Run(context.Background(), readwiseSource(t, bare), ImportOptions{})
	require.NoError(t, err)

	enriched := `Highlight,Book Title,Book Author,Note,Highlighted at
"Existing text","Book","Author","new note",2024-02-01 09:00:00
`
	report, err := service.Run(context.Background(), readwiseSource(t, enriched), ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Updated)
	require.Len(t, store.updates, 1)
}

func TestImportService_CancelledBetweenRows(t *testing.T) {
	csvData := `Highlight,Book Title,Book Author
"Row one","Book","Author"
"Row two","Book","Author"
`

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := NewImportService(newFakeImportStore())
	report, err := service.Run(ctx, readwiseSource(t, csvData), ImportOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.RowsSeen)
}

func TestImportService_ProgressCallback(t *testing.T) {
	csvData := `Highlight,Book Title,Book Author
"Row one","Book","Author"
"Row two","Book","Author"
"Row three","Book","Author"
`

	var calls []int
	opts := ImportOptions{
		TotalRows: 3,
		Progress: func(done, total int) {
			assert.Equal(t, 3, total)
			calls = append(calls, done)
		},
	}

	service := NewImportService(newFakeImportStore())
	_, err := service.Run(context.Background(), readwiseSource(t, csvData), opts)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, calls)
}
