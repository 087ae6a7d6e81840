package engine

import (
	"context"

	"github.com/leapstack-labs/opskit/internal/dataset"
	"github.com/leapstack-labs/opskit/internal/derive"
	"github.com/leapstack-labs/opskit/internal/export"
)

// ReportResult is the outcome of one KPI report run.
type ReportResult struct {
	RunID        string
	WorkbookPath string
	CSVPath      string
	Report       derive.Report
}

// Report summarizes the operations dataset into a four sheet workbook and
// a CSV copy of the summary sheet. Both files are published together or
// not at all.
func (e *Engine) Report(ctx context.Context) (*ReportResult, error) {
	runID, log := e.run("report")
	cfg := e.cfg.Report
	cols := cfg.Columns

	log.Debug("loading operations data", "path", cfg.InputPath, "sheet", cfg.Sheet)
	ds, err := dataset.Load(cfg.InputPath, dataset.LoadOptions{Sheet: cfg.Sheet})
	if err != nil {
		return nil, err
	}
	if err := dataset.RequireColumns(ds, cols.Required()...); err != nil {
		return nil, err
	}
	ds = dataset.Normalize(ds,
		dataset.TrimTitle(cols.Status),
		dataset.Trim(cols.Site),
		dataset.Trim(cols.Category),
	)

	tickets := derive.TicketsFrom(ds, cols)
	report := derive.Summarize(tickets, derive.SummaryOptions{
		OpenStatus:   cfg.OpenStatus,
		ClosedStatus: cfg.ClosedStatus,
		Columns:      cols,
	}, e.now())
	log.Info("summarized", "total", report.Total, "open", report.Open, "closed", report.Closed)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	xlsxPath := e.outputPath(cfg.Workbook)
	csvPath := e.outputPath(cfg.CSV)
	if err := e.prepareOutputs(xlsxPath, csvPath); err != nil {
		return nil, err
	}

	bundle := export.NewBundle()
	if err := bundle.AddWorkbook(xlsxPath, report.Tables()...); err != nil {
		bundle.Abort()
		return nil, err
	}
	if err := bundle.AddCSV(csvPath, report.SummaryTable()); err != nil {
		bundle.Abort()
		return nil, err
	}
	artifacts := bundle.Paths()
	if err := bundle.Commit(); err != nil {
		return nil, err
	}
	log.Info("report written", "artifacts", artifacts)

	return &ReportResult{
		RunID:        runID,
		WorkbookPath: xlsxPath,
		CSVPath:      csvPath,
		Report:       report,
	}, nil
}
