package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
)

// AppendLog appends rows to the CSV log at path. A missing or empty log is
// created with header first. Existing content is never read back or
// rewritten; only the final byte is inspected so that a log lacking a
// trailing newline does not merge with the new batch.
//
// Concurrent appends from separate processes are not coordinated; callers
// must serialize invocations against the same log.
func AppendLog(path string, header []string, rows [][]string) (created bool, err error) {
	var size int64
	info, err := os.Stat(path)
	switch {
	case err == nil:
		size = info.Size()
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, &ExportError{Path: path, Err: err}
	}
	created = size == 0

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return false, &ExportError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	if !created && !endsWithNewline(path, size) {
		buf.WriteByte('\n')
	}
	w := csv.NewWriter(&buf)
	if created {
		if err := w.Write(header); err != nil {
			_ = f.Close()
			return false, &ExportError{Path: path, Err: err}
		}
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return false, &ExportError{Path: path, Err: err}
	}

	// One write call per batch.
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return false, &ExportError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return false, &ExportError{Path: path, Err: err}
	}
	return created, nil
}

func endsWithNewline(path string, size int64) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer func() { _ = f.Close() }()

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return true
	}
	return last[0] == '\n'
}
