package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "devices.csv", "\ufeffname, ip ,site\nrouter1,10.0.0.1,hq\nswitch1,10.0.0.2\n\n")

	ds, err := Load(path, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "ip", "site"}, ds.Columns)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, "router1", ds.Value(0, "name"))
	assert.Equal(t, "10.0.0.2", ds.Value(1, "ip"))
	assert.Equal(t, "", ds.Value(1, "site"), "short records are padded")
	assert.Equal(t, "", ds.Value(0, "absent"))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantMsg string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
			wantMsg: "no such file",
		},
		{
			name:    "empty file",
			path:    func(t *testing.T) string { return writeFile(t, "empty.csv", "") },
			wantMsg: "no columns",
		},
		{
			name:    "too many fields",
			path:    func(t *testing.T) string { return writeFile(t, "wide.csv", "a,b\n1,2,3\n") },
			wantMsg: "line 2: expected 2 fields, saw 3",
		},
		{
			name:    "unsupported extension",
			path:    func(t *testing.T) string { return writeFile(t, "data.json", "{}") },
			wantMsg: "unsupported file extension",
		},
		{
			name:    "corrupt workbook",
			path:    func(t *testing.T) string { return writeFile(t, "bad.xlsx", "not a zip") },
			wantMsg: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t), LoadOptions{})
			require.Error(t, err)

			var ingestErr *IngestError
			require.True(t, errors.As(err, &ingestErr), "expected IngestError, got %T", err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Site", "Status", "Category"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"North", "open", "Network"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"South", "Closed"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := Load(path, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Site", "Status", "Category"}, ds.Columns)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "open", ds.Value(0, "Status"))
	assert.Equal(t, "", ds.Value(1, "Category"))

	_, err = Load(path, LoadOptions{Sheet: "Missing"})
	var ingestErr *IngestError
	assert.ErrorAs(t, err, &ingestErr)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.csv", FormatCSV},
		{"A.CSV", FormatCSV},
		{"a.txt", FormatCSV},
		{"a.xlsx", FormatXLSX},
		{"dir/a.XLSM", FormatXLSX},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := DetectFormat("a.xls")
	assert.Error(t, err)
}

func TestDataset_CloneIsIndependent(t *testing.T) {
	ds := New("x.csv", []string{"a"}, [][]string{{"1"}})
	c := ds.Clone()
	c.Records[0][0] = "2"

	assert.Equal(t, "1", ds.Value(0, "a"))
	assert.Equal(t, "2", c.Value(0, "a"))
}

func TestPassthrough(t *testing.T) {
	ds := New("x.csv", []string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})
	tbl := Passthrough("Inventory", ds)

	assert.Equal(t, "Inventory", tbl.Name)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	assert.Equal(t, [][]any{{"1", "2"}, {"3", ""}}, tbl.Rows)
}
