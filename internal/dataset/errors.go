package dataset

import (
	"fmt"
	"strings"
)

// IngestError reports that an input file could not be read as tabular data.
type IngestError struct {
	Path string
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("failed to ingest %s: %v", e.Path, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// SchemaError lists required columns absent from a dataset.
// Missing is sorted and free of duplicates.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns in %s: {%s}", e.Path, strings.Join(e.Missing, ", "))
}
