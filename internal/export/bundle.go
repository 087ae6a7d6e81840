package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/opskit/internal/dataset"
	"github.com/xuri/excelize/v2"
)

// maxSheetNameLen is the worksheet name limit imposed by Excel.
const maxSheetNameLen = 31

type stagedFile struct {
	tmp  string
	dest string
}

// Bundle stages a set of artifacts and publishes them together.
type Bundle struct {
	staged []stagedFile
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{}
}

// Paths returns the destination paths staged so far.
func (b *Bundle) Paths() []string {
	out := make([]string, len(b.staged))
	for i, s := range b.staged {
		out[i] = s.dest
	}
	return out
}

// AddWorkbook stages a spreadsheet at path with one sheet per table, in
// order. Every table must have a unique, valid sheet name.
func (b *Bundle) AddWorkbook(path string, tables ...dataset.Table) error {
	if err := validateSheets(tables); err != nil {
		return &ExportError{Path: path, Err: err}
	}

	f, err := buildWorkbook(tables)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	return b.stage(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

// AddCSV stages a flat CSV rendering of table at path.
func (b *Bundle) AddCSV(path string, table dataset.Table) error {
	return b.stage(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(table.Columns); err != nil {
			return err
		}
		for _, row := range table.Rows {
			if err := cw.Write(formatRow(row)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// Commit renames every staged file into place.
func (b *Bundle) Commit() error {
	for i, s := range b.staged {
		if err := os.Rename(s.tmp, s.dest); err != nil {
			b.staged = b.staged[i:]
			b.Abort()
			return &ExportError{Path: s.dest, Err: err}
		}
	}
	b.staged = nil
	return nil
}

// Abort removes all staged temporary files. It is safe to call after Commit.
func (b *Bundle) Abort() {
	for _, s := range b.staged {
		_ = os.Remove(s.tmp)
	}
	b.staged = nil
}

func (b *Bundle) stage(dest string, write func(io.Writer) error) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return &ExportError{Path: dest, Err: err}
	}

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return &ExportError{Path: dest, Err: err}
	}
	if err := write(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return &ExportError{Path: dest, Err: err}
	}

	b.staged = append(b.staged, stagedFile{tmp: tmp.Name(), dest: dest})
	return nil
}

func buildWorkbook(tables []dataset.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.Name); err != nil {
				_ = f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeSheet(f, t); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sheet %s: %w", t.Name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, t dataset.Table) error {
	header := dataset.StringCells(t.Columns)
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(t.Name, cell, &r); err != nil {
			return err
		}
	}
	return nil
}

func validateSheets(tables []dataset.Table) error {
	if len(tables) == 0 {
		return errors.New("workbook needs at least one sheet")
	}
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		name := t.Name
		switch {
		case strings.TrimSpace(name) == "":
			return errors.New("sheet name is empty")
		case utf8.RuneCountInString(name) > maxSheetNameLen:
			return fmt.Errorf("sheet name %q exceeds %d characters", name, maxSheetNameLen)
		case strings.ContainsAny(name, `:\/?*[]`):
			return fmt.Errorf("sheet name %q contains a reserved character", name)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("duplicate sheet name %q", name)
		}
		seen[key] = true
	}
	return nil
}

func formatRow(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = formatCell(v)
	}
	return out
}

func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}
