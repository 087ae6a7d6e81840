package engine

import (
	"context"

	"github.com/leapstack-labs/opskit/internal/dataset"
	"github.com/leapstack-labs/opskit/internal/derive"
	"github.com/leapstack-labs/opskit/internal/export"
)

// AuditResult is the outcome of one inventory audit run.
type AuditResult struct {
	RunID        string
	WorkbookPath string
	Threshold    int64
	Columns      []string
	Assets       []derive.AssetRow
	LowStock     []derive.AssetRow
	Duplicates   []derive.AssetRow
}

// Audit flags low stock and duplicate asset IDs and writes the inventory
// workbook with Inventory, LowStock and Duplicates sheets.
func (e *Engine) Audit(ctx context.Context) (*AuditResult, error) {
	runID, log := e.run("audit")
	cfg := e.cfg.Audit
	cols := cfg.Columns

	log.Debug("loading assets", "path", cfg.AssetsPath, "sheet", cfg.Sheet)
	ds, err := dataset.Load(cfg.AssetsPath, dataset.LoadOptions{Sheet: cfg.Sheet})
	if err != nil {
		return nil, err
	}
	if err := dataset.RequireColumns(ds, cols.ID, cols.Quantity); err != nil {
		return nil, err
	}
	ds = dataset.Normalize(ds,
		dataset.Trim(cols.ID),
		dataset.Numeric(cols.Quantity, cfg.QuantityDefault),
	)

	assets := derive.AssetsFrom(ds, cols, cfg.QuantityDefault)
	low := derive.LowStock(assets, cfg.LowStockThreshold)
	dups := derive.Duplicates(assets)
	log.Info("audited", "assets", len(assets), "low_stock", len(low), "duplicates", len(dups), "threshold", cfg.LowStockThreshold)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	xlsxPath := e.outputPath(cfg.Workbook)
	if err := e.prepareOutputs(xlsxPath); err != nil {
		return nil, err
	}
	bundle := export.NewBundle()
	err = bundle.AddWorkbook(xlsxPath,
		derive.AssetTable(derive.SheetInventory, ds.Columns, cols.Quantity, assets),
		derive.AssetTable(derive.SheetLowStock, ds.Columns, cols.Quantity, low),
		derive.AssetTable(derive.SheetDuplicates, ds.Columns, cols.Quantity, dups),
	)
	if err != nil {
		bundle.Abort()
		return nil, err
	}
	artifacts := bundle.Paths()
	if err := bundle.Commit(); err != nil {
		return nil, err
	}
	log.Info("audit written", "artifacts", artifacts)

	return &AuditResult{
		RunID:        runID,
		WorkbookPath: xlsxPath,
		Threshold:    cfg.LowStockThreshold,
		Columns:      ds.Columns,
		Assets:       assets,
		LowStock:     low,
		Duplicates:   dups,
	}, nil
}
