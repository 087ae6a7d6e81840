package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/opskit/internal/dataset"
	"github.com/leapstack-labs/opskit/internal/derive"
	"github.com/leapstack-labs/opskit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// reachable returns a prober that reports only the given addresses as up.
func reachable(addrs ...string) derive.Prober {
	up := make(map[string]bool, len(addrs))
	for _, a := range addrs {
		up[a] = true
	}
	return derive.ProberFunc(func(_ context.Context, address string) derive.Outcome {
		if up[address] {
			return derive.Reachable
		}
		return derive.Unreachable
	})
}

func newTestEngine(t *testing.T, dir string, prober derive.Prober) *Engine {
	t.Helper()
	return New(Config{
		OutputDir: filepath.Join(dir, "output"),
		Monitor: MonitorConfig{
			DevicesPath: filepath.Join(dir, "devices.csv"),
			LogFile:     "status_log.csv",
		},
		Report: ReportConfig{
			InputPath:    filepath.Join(dir, "ops.csv"),
			Workbook:     "daily_summary.xlsx",
			CSV:          "daily_summary.csv",
			Columns:      derive.TicketColumns{Site: "Site", Status: "Status", Category: "Category"},
			OpenStatus:   "Open",
			ClosedStatus: "Closed",
		},
		Audit: AuditConfig{
			AssetsPath:        filepath.Join(dir, "assets.csv"),
			Workbook:          "inventory_audit.xlsx",
			Columns:           derive.AssetColumns{ID: "asset_id", Quantity: "quantity"},
			LowStockThreshold: 5,
		},
		Prober: prober,
		Now:    func() time.Time { return fixedNow },
		Logger: testutil.NewTestLogger(t),
	})
}

func sheetRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func sheetList(t *testing.T, path string) []string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	return f.GetSheetList()
}

func TestMonitor_AppendsStatusBatch(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "devices.csv", "name,ip\n router1 ,10.0.0.1\nswitch1, 10.0.0.2\n")
	eng := newTestEngine(t, dir, reachable("10.0.0.1"))

	res, err := eng.Monitor(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, derive.StatusUp, res.Entries[0].Status)
	assert.Equal(t, derive.StatusDown, res.Entries[1].Status)
	require.Len(t, res.Down, 1)
	assert.Equal(t, "switch1", res.Down[0].Name)

	want := "timestamp,name,ip,status\n" +
		"2024-05-01T09:30:00,router1,10.0.0.1,UP\n" +
		"2024-05-01T09:30:00,switch1,10.0.0.2,DOWN\n"
	got, err := os.ReadFile(res.LogPath)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))

	// A second run appends without repeating the header.
	res2, err := eng.Monitor(context.Background())
	require.NoError(t, err)
	assert.False(t, res2.Created)
	assert.NotEqual(t, res.RunID, res2.RunID)

	got, err = os.ReadFile(res.LogPath)
	require.NoError(t, err)
	assert.Equal(t, want+want[len("timestamp,name,ip,status\n"):], string(got))
}

func TestMonitor_CancelledRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "devices.csv", "name,ip\nrouter1,10.0.0.1\n")
	eng := newTestEngine(t, dir, reachable())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Monitor(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "output", "status_log.csv"))
}

func TestReport_WritesWorkbookAndCSV(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "ops.csv", "Site,Status,Category\n"+
		"HQ,open,Network\n"+
		"HQ,Open ,Power\n"+
		"Branch,OPEN,Network\n"+
		"Branch,closed,Network\n")
	eng := newTestEngine(t, dir, nil)

	res, err := eng.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Report.Total)
	assert.Equal(t, 3, res.Report.Open)
	assert.Equal(t, 1, res.Report.Closed)

	assert.Equal(t, []string{"Summary", "BySite", "ByStatus", "ByCategory"}, sheetList(t, res.WorkbookPath))
	assert.Equal(t, [][]string{
		{"Metric", "Value"},
		{"Total Items", "4"},
		{"Open Items", "3"},
		{"Closed Items", "1"},
		{"Report Date", "2024-05-01 09:30"},
	}, sheetRows(t, res.WorkbookPath, "Summary"))
	assert.Equal(t, [][]string{
		{"Status", "Count"},
		{"Open", "3"},
		{"Closed", "1"},
	}, sheetRows(t, res.WorkbookPath, "ByStatus"))

	csv, err := os.ReadFile(res.CSVPath)
	require.NoError(t, err)
	assert.Equal(t, "Metric,Value\n"+
		"Total Items,4\n"+
		"Open Items,3\n"+
		"Closed Items,1\n"+
		"Report Date,2024-05-01 09:30\n", string(csv))
}

func TestAudit_LowStockScenario(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "assets.csv", "asset_id,quantity\nA1,3\nA2,9\n")
	eng := newTestEngine(t, dir, nil)

	res, err := eng.Audit(context.Background())
	require.NoError(t, err)
	require.Len(t, res.LowStock, 1)
	assert.Equal(t, "A1", res.LowStock[0].ID)
	assert.Equal(t, int64(3), res.LowStock[0].Quantity)
	assert.Empty(t, res.Duplicates)

	assert.Equal(t, []string{"Inventory", "LowStock", "Duplicates"}, sheetList(t, res.WorkbookPath))
	assert.Equal(t, [][]string{{"asset_id", "quantity"}, {"A1", "3"}}, sheetRows(t, res.WorkbookPath, "LowStock"))
	assert.Equal(t, [][]string{{"asset_id", "quantity"}}, sheetRows(t, res.WorkbookPath, "Duplicates"))
}

func TestAudit_DuplicatesAndMalformedQuantities(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "assets.csv", "asset_id,quantity,location\n"+
		"B7,n/a,Dock\n"+
		"A3, 12 ,Lab\n"+
		"B7,8,Store\n"+
		"A3,4.9,Lab\n")
	eng := newTestEngine(t, dir, nil)

	res, err := eng.Audit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"asset_id", "quantity", "location"},
		{"B7", "0", "Dock"},
		{"A3", "4", "Lab"},
	}, sheetRows(t, res.WorkbookPath, "LowStock"))
	assert.Equal(t, [][]string{
		{"asset_id", "quantity", "location"},
		{"A3", "12", "Lab"},
		{"A3", "4", "Lab"},
		{"B7", "0", "Dock"},
		{"B7", "8", "Store"},
	}, sheetRows(t, res.WorkbookPath, "Duplicates"))
}

func TestAudit_CommaQuantitiesAreMalformed(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "assets.csv", "asset_id,quantity\n"+
		"A1,\"1,2\"\n"+
		"A2,\"1,2,3\"\n"+
		"A3,3\n")
	eng := newTestEngine(t, dir, nil)

	res, err := eng.Audit(context.Background())
	require.NoError(t, err)

	ids := make([]string, len(res.LowStock))
	for i, a := range res.LowStock {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"A1", "A2", "A3"}, ids)
	assert.Equal(t, int64(0), res.LowStock[0].Quantity)
	assert.Equal(t, int64(0), res.LowStock[1].Quantity)
}

func TestAudit_DuplicateIDsMatchAfterTrimming(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "assets.csv", "asset_id,quantity\n"+
		"A1 ,7\n"+
		"A1,8\n"+
		"A2,9\n")
	eng := newTestEngine(t, dir, nil)

	res, err := eng.Audit(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Duplicates, 2)
	assert.Equal(t, "A1", res.Duplicates[0].ID)
	assert.Equal(t, "A1", res.Duplicates[1].ID)
	assert.Equal(t, [][]string{
		{"asset_id", "quantity"},
		{"A1", "7"},
		{"A1", "8"},
	}, sheetRows(t, res.WorkbookPath, "Duplicates"))
}

func TestPipelines_NestedArtifactPaths(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "devices.csv", "name,ip\nrouter1,10.0.0.1\n")
	writeInput(t, dir, "ops.csv", "Site,Status,Category\nHQ,Open,Network\n")
	writeInput(t, dir, "assets.csv", "asset_id,quantity\nA1,3\n")

	eng := newTestEngine(t, dir, reachable("10.0.0.1"))
	eng.cfg.Monitor.LogFile = filepath.Join("logs", "status_log.csv")
	eng.cfg.Report.Workbook = filepath.Join("reports", "daily.xlsx")
	eng.cfg.Report.CSV = filepath.Join("reports", "csv", "daily.csv")
	eng.cfg.Audit.Workbook = filepath.Join("audit", "inventory.xlsx")

	mon, err := eng.Monitor(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, mon.LogPath)

	rep, err := eng.Report(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, rep.WorkbookPath)
	assert.FileExists(t, rep.CSVPath)
	assert.Equal(t, filepath.Join(dir, "output", "reports", "csv", "daily.csv"), rep.CSVPath)

	aud, err := eng.Audit(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, aud.WorkbookPath)
}

func TestPipelines_FailuresLeaveNoArtifacts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		body  string
		run   func(*Engine) error
		check func(t *testing.T, err error)
	}{
		{
			name:  "monitor missing ip column",
			input: "devices.csv",
			body:  "name,address\nrouter1,10.0.0.1\n",
			run:   func(e *Engine) error { _, err := e.Monitor(context.Background()); return err },
			check: func(t *testing.T, err error) {
				var schemaErr *dataset.SchemaError
				require.ErrorAs(t, err, &schemaErr)
				assert.Equal(t, []string{"ip"}, schemaErr.Missing)
			},
		},
		{
			name:  "report missing grouping columns",
			input: "ops.csv",
			body:  "Site,State\nHQ,Open\n",
			run:   func(e *Engine) error { _, err := e.Report(context.Background()); return err },
			check: func(t *testing.T, err error) {
				var schemaErr *dataset.SchemaError
				require.ErrorAs(t, err, &schemaErr)
				assert.Equal(t, []string{"Category", "Status"}, schemaErr.Missing)
			},
		},
		{
			name:  "audit missing quantity column",
			input: "assets.csv",
			body:  "asset_id,qty\nA1,3\n",
			run:   func(e *Engine) error { _, err := e.Audit(context.Background()); return err },
			check: func(t *testing.T, err error) {
				var schemaErr *dataset.SchemaError
				require.ErrorAs(t, err, &schemaErr)
				assert.Equal(t, []string{"quantity"}, schemaErr.Missing)
			},
		},
		{
			name: "audit input missing",
			run:  func(e *Engine) error { _, err := e.Audit(context.Background()); return err },
			check: func(t *testing.T, err error) {
				var ingestErr *dataset.IngestError
				require.ErrorAs(t, err, &ingestErr)
				assert.True(t, errors.Is(err, os.ErrNotExist))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.input != "" {
				writeInput(t, dir, tt.input, tt.body)
			}
			eng := newTestEngine(t, dir, reachable())

			err := tt.run(eng)
			require.Error(t, err)
			tt.check(t, err)
			assert.NoDirExists(t, filepath.Join(dir, "output"))
		})
	}
}

func TestOutputPath(t *testing.T) {
	eng := New(Config{OutputDir: "out"})
	assert.Equal(t, filepath.Join("out", "status_log.csv"), eng.outputPath("status_log.csv"))

	abs := filepath.Join(t.TempDir(), "log.csv")
	assert.Equal(t, abs, eng.outputPath(abs))
}
