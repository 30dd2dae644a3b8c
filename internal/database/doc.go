// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, aggregate stats
//	├── books/           # Book and highlight CRUD, enrichment patches
//	├── reviews/         # Review state transitions, eligible pool, session ledger
//	├── imports/         # Import run progress records
//	└── settings/        # Application settings
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./freewise.db")
//
//	// Create domain-specific repositories
//	booksRepo := books.NewRepository(db.DB)
//	reviewsRepo := reviews.NewRepository(db.DB)
//
//	// Use repositories
//	book, err := booksRepo.GetBookByID(123)
//	pool, err := reviewsRepo.EligibleHighlights(nil)
//
// # Interface Implementations
//
// Consumers declare narrow interfaces at the point of use; the repositories
// satisfy them:
//
//   - books.Repository: implements services.ImportStore and the http book stores
//   - reviews.Repository: implements review.Store and review.Ledger
//   - imports.Repository: implements the http and tasks RunStore interfaces
//
// # Adding a New Domain
//
// To add a new domain:
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
