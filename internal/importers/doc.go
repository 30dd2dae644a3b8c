// Package importers turns raw export files into canonical highlight drafts.
//
// # Architecture
//
// The import flow is streaming end to end:
//
//	Source Data → Source.Next() → Draft → ImportService → Deduplicator → Storage
//
// Each source format implements the Source interface, which yields one Draft
// per data row. Row-level problems surface as *RowError so the caller can
// record them and keep going; only a broken stream (unreadable header,
// truncated input) aborts the import.
//
// # Adding a New Source Format
//
// To add support for a new export format (e.g., Kobo):
//
//  1. Create a new file: kobo_csv.go
//
//  2. Define the source type holding the csv.Reader (or decoder) plus any
//     per-stream state:
//
//     type KoboCSVSource struct {
//     reader *csv.Reader
//     line   int
//     }
//
//  3. Implement the Source interface:
//
//     func (s *KoboCSVSource) Next() (Draft, error) { ... }
//     func (s *KoboCSVSource) Name() string { return "kobo_csv" }
//
//     // Compile-time check
//     var _ Source = (*KoboCSVSource)(nil)
//
//  4. Wire it into the import handler or CLI command that selects a source
//     by declared format.
//
// # Existing Sources
//
//   - ReadwiseCSVSource: third-party CSV export format, including the
//     heading-marker rows that label sections
//   - BookCSVSource: user-authored book format (title/author/text/section/page)
package importers
