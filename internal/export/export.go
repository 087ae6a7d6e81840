// Package export writes derived tables to disk.
//
// Two modes are supported. AppendLog grows a CSV log by appending a batch of
// rows, writing the header only when the log is new. Bundle writes fresh
// artifacts (spreadsheets and flat CSV files): every artifact is staged into
// a temporary file next to its destination and only renamed into place by
// Commit, so a failed run never leaves a half-written spreadsheet behind.
package export

import (
	"fmt"
	"os"
)

// ExportError reports that an artifact could not be written.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// EnsureDir creates dir and any missing parents. An existing directory is
// not an error.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ExportError{Path: dir, Err: err}
	}
	return nil
}
