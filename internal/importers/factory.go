package importers

import (
	"fmt"
	"io"

	"github.com/wardeiling/FreeWise/internal/entities"
)

// NewSource constructs the source for a declared format name. Used wherever
// the format arrives as data: task payloads, CLI flags, upload routes.
func NewSource(name string, r io.Reader) (Source, error) {
	switch name {
	case entities.ImportSourceReadwiseCSV:
		return NewReadwiseCSVSource(r)
	case entities.ImportSourceBookCSV:
		return NewBookCSVSource(r)
	}
	return nil, fmt.Errorf("unknown import source %q", name)
}
