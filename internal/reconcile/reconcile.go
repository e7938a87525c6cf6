// Package reconcile compares CSV-declared record identifiers against a bucket
// inventory and reports the identifiers with no valid corresponding file.
package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alikonainofficial/supabase-file-upload-manager/internal/inventory"
)

// Options control how an identifier is judged against the inventory.
type Options struct {
	// FileExtension is appended to each identifier to derive its file name.
	FileExtension string
	// TreatZeroByteAsMissing counts a zero-byte object as an invalid upload
	// rather than a present file.
	TreatZeroByteAsMissing bool
}

// FileName derives the expected object name for one identifier.
func FileName(id, ext string) string {
	return fmt.Sprintf("%s.%s", id, ext)
}

// Satisfied reports whether name corresponds to a valid object in inv.
func Satisfied(name string, inv inventory.Inventory, opts Options) bool {
	if !inv.Has(name) {
		return false
	}
	if opts.TreatZeroByteAsMissing && inv.IsZeroByte(name) {
		return false
	}
	return true
}

// Missing filters ids down to those whose derived file name is not satisfied,
// preserving input order.
func Missing(ids []string, inv inventory.Inventory, opts Options) []string {
	missing := []string{}
	for _, id := range ids {
		if !Satisfied(FileName(id, opts.FileExtension), inv, opts) {
			missing = append(missing, id)
		}
	}
	return missing
}

// ReadIDs extracts the id column from a CSV file, in row order. Rows with an
// empty id are skipped. A read failure mid-stream aborts and returns the ids
// accumulated so far together with the error.
func ReadIDs(csvPath string) ([]string, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	idx := -1
	for i, col := range header {
		// Tolerate a UTF-8 byte-order mark on the first header cell.
		if i == 0 {
			col = strings.TrimPrefix(col, "\uFEFF")
		}
		if strings.TrimSpace(col) == "id" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("CSV header has no id column: %v", header)
	}

	ids := []string{}
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return ids, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if idx >= len(record) {
			continue
		}
		id := strings.TrimSpace(record[idx])
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// MissingIDs reads the CSV and returns the identifiers with no valid file in
// inv, in CSV row order. On a CSV read error the list computed from the rows
// read so far is returned along with the error.
func MissingIDs(csvPath string, inv inventory.Inventory, opts Options) ([]string, error) {
	ids, err := ReadIDs(csvPath)
	return Missing(ids, inv, opts), err
}
