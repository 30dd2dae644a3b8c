package importers

import (
	"encoding/csv"
	"io"
)

// CountRows returns the number of data rows (excluding the header) in a CSV
// document. Callers use it to size progress reporting before starting an
// import; rows that later fail to parse still occupy a slot so progress can
// reach the total.
func CountRows(r io.Reader) int {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	count := 0
	for {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				break
			}
			count++
			continue
		}
		count++
	}

	if count > 0 {
		count-- // header
	}
	return count
}
