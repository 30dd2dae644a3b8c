package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wardeiling/FreeWise/internal/config"
	"github.com/wardeiling/FreeWise/internal/database"
	"github.com/wardeiling/FreeWise/internal/database/books"
	"github.com/wardeiling/FreeWise/internal/exporters"
)

// CSVExportCommand writes the full library to a round-trippable CSV file.
type CSVExportCommand struct {
	OutputPath   string
	DatabasePath string
}

func NewCSVExportCommand() *CSVExportCommand {
	return &CSVExportCommand{}
}

func (cmd *CSVExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-csv", flag.ExitOnError)

	fs.StringVar(&cmd.OutputPath, "out", "", "Output file path (default: freewise_export_YYYYMMDD.csv in the current directory)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-csv [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export every highlight to a CSV file that can be re-imported\n")
		fmt.Fprintf(os.Stderr, "without creating duplicates.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.OutputPath == "" {
		cmd.OutputPath = exporters.ExportFileName(time.Now())
	}

	return nil
}

func (cmd *CSVExportCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	out, err := os.Create(cmd.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	exporter := exporters.NewCSVExporter(books.NewRepository(db.DB))
	count, err := exporter.Write(out)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("Exported %d highlights to %s\n", count, cmd.OutputPath)
	return nil
}
