package dataset

// source.go - reading comma-separated and spreadsheet files

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is the on-disk layout of an input file.
type Format string

// Supported input formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrNoColumns is returned for files without a header row.
var ErrNoColumns = errors.New("no columns to parse from file")

// LoadOptions tune how an input file is read.
type LoadOptions struct {
	// Sheet selects the worksheet for spreadsheet input. Empty means the
	// first sheet of the workbook.
	Sheet string
}

// DetectFormat infers the input format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q (use .csv or .xlsx)", filepath.Ext(path))
	}
}

// Load reads path into a Dataset. Any failure is an *IngestError.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &IngestError{Path: path, Err: err}
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(path, opts.Sheet)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, &IngestError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, &IngestError{Path: path, Err: ErrNoColumns}
	}

	header := cleanHeader(rows[0])
	body := rows[1:]
	for i, rec := range body {
		if len(rec) > len(header) {
			// Line numbers are 1-indexed and include the header.
			return nil, &IngestError{
				Path: path,
				Err:  fmt.Errorf("line %d: expected %d fields, saw %d", i+2, len(header), len(rec)),
			}
		}
	}

	return New(path, header, body), nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	// GetRows trims trailing empty cells but keeps empty rows.
	out := rows[:0]
	for _, rec := range rows {
		if isBlank(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// cleanHeader trims header cells and strips a UTF-8 byte order mark.
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
