package cli

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wardeiling/FreeWise/internal/config"
	"github.com/wardeiling/FreeWise/internal/database"
	"github.com/wardeiling/FreeWise/internal/database/books"
	"github.com/wardeiling/FreeWise/internal/entities"
	"github.com/wardeiling/FreeWise/internal/importers"
	"github.com/wardeiling/FreeWise/internal/services"
)

// CSVImportCommand imports a highlights CSV export into the local database.
// The same command backs both the readwise-csv and book-csv formats.
type CSVImportCommand struct {
	Source       string
	FilePath     string
	DatabasePath string
	Verbose      bool

	commandName string
}

func NewImportReadwiseCommand() *CSVImportCommand {
	return &CSVImportCommand{Source: entities.ImportSourceReadwiseCSV, commandName: "import-readwise"}
}

func NewImportBookCommand() *CSVImportCommand {
	return &CSVImportCommand{Source: entities.ImportSourceBookCSV, commandName: "import-book"}
}

func (cmd *CSVImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet(cmd.commandName, flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the CSV export file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s -file <path> [options]\n\n", os.Args[0], cmd.commandName)
		fmt.Fprintf(os.Stderr, "Import highlights from a CSV export into the local database.\n")
		fmt.Fprintf(os.Stderr, "Rows already present are detected and skipped; rows carrying new\n")
		fmt.Fprintf(os.Stderr, "details (note, tags, date) enrich the stored highlight in place.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s %s -file export.csv -db ./freewise.db\n", os.Args[0], cmd.commandName)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *CSVImportCommand) Run() error {
	if _, err := os.Stat(cmd.FilePath); os.IsNotExist(err) {
		return fmt.Errorf("import file not found: %s", cmd.FilePath)
	}

	payload, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	totalRows := importers.CountRows(bytes.NewReader(payload))
	fmt.Printf("File: %s (%d rows)\n", cmd.FilePath, totalRows)

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	source, err := importers.NewSource(cmd.Source, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	service := services.NewImportService(books.NewRepository(db.DB))

	opts := services.ImportOptions{TotalRows: totalRows}
	if cmd.Verbose {
		opts.Progress = func(done, total int) {
			fmt.Printf("\r  %d/%d rows", done, total)
		}
	}

	report, err := service.Run(context.Background(), source, opts)
	if cmd.Verbose {
		fmt.Println()
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Rows seen:  %d\n", report.RowsSeen)
	fmt.Printf("Created:    %d\n", report.Created)
	fmt.Printf("Updated:    %d\n", report.Updated)
	fmt.Printf("Duplicates: %d\n", report.Duplicates)
	fmt.Printf("Skipped:    %d\n", report.Skipped)

	if len(report.Failures) > 0 {
		fmt.Printf("\n%d rows skipped with errors:\n", len(report.Failures))
		for _, failure := range report.Failures {
			fmt.Printf("  [line %d] %s\n", failure.Line, failure.Reason)
		}
	}

	fmt.Println("\nImport complete!")
	return nil
}
