package commands

import (
	"github.com/leapstack-labs/opskit/internal/cli/config"
	"github.com/leapstack-labs/opskit/internal/cli/output"
	"github.com/leapstack-labs/opskit/internal/derive"
	"github.com/leapstack-labs/opskit/internal/engine"
	"github.com/spf13/cobra"
)

// NewAuditCommand creates the audit command.
func NewAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Flag low stock and duplicate asset IDs",
		Long: `Read the asset list (columns: asset_id, quantity) and write
inventory_audit.xlsx with three sheets:

  - Inventory:  every asset, with quantities coerced to whole numbers
  - LowStock:   assets with quantity below the threshold, lowest first
  - Duplicates: every row whose asset_id occurs more than once, by ID

Quantities that are empty or not numeric count as 0.`,
		Example: `  # Audit with the default threshold of 5
  opskit audit

  # Audit another list with a higher threshold
  opskit audit --assets warehouse.xlsx --threshold 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAudit(cmd)
		},
	}

	cmd.Flags().String("assets", config.DefaultAssetsPath, "Path to the asset list (CSV or XLSX)")
	cmd.Flags().Int64("threshold", config.DefaultLowStock, "Quantities below this value are low stock")

	return cmd
}

// AuditOutput is the JSON output for the audit command.
type AuditOutput struct {
	RunID      string       `json:"run_id"`
	Workbook   string       `json:"workbook"`
	Threshold  int64        `json:"threshold"`
	Assets     int          `json:"assets"`
	LowStock   []AssetValue `json:"low_stock"`
	Duplicates []AssetValue `json:"duplicates"`
}

// AssetValue is one flagged asset row.
type AssetValue struct {
	Line     int    `json:"line"`
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

func runAudit(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	res, err := cmdCtx.Engine.Audit(cmd.Context())
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(buildAuditOutput(res))
	}

	r.Success("Inventory audit created: " + res.WorkbookPath)
	r.Printf("Low stock items (<%d): %d\n", res.Threshold, len(res.LowStock))
	r.Printf("Duplicate asset IDs: %d\n", len(res.Duplicates))

	if len(res.LowStock) == 0 && len(res.Duplicates) == 0 {
		r.Muted("No low stock or duplicate assets found")
		return nil
	}

	qtyCol := cmdCtx.Cfg.Audit.QuantityColumn
	if len(res.LowStock) > 0 {
		r.Println()
		r.Header(2, derive.SheetLowStock)
		renderAssetRows(r, res.Columns, qtyCol, res.LowStock)
	}
	if len(res.Duplicates) > 0 {
		r.Println()
		r.Header(2, derive.SheetDuplicates)
		renderAssetRows(r, res.Columns, qtyCol, res.Duplicates)
	}
	return nil
}

func renderAssetRows(r *output.Renderer, columns []string, qtyCol string, assets []derive.AssetRow) {
	t := derive.AssetTable("", columns, qtyCol, assets)
	r.Table(t.Columns, t.Rows)
}

func buildAuditOutput(res *engine.AuditResult) *AuditOutput {
	return &AuditOutput{
		RunID:      res.RunID,
		Workbook:   res.WorkbookPath,
		Threshold:  res.Threshold,
		Assets:     len(res.Assets),
		LowStock:   assetValues(res.LowStock),
		Duplicates: assetValues(res.Duplicates),
	}
}

func assetValues(assets []derive.AssetRow) []AssetValue {
	out := make([]AssetValue, len(assets))
	for i, a := range assets {
		out[i] = AssetValue{Line: a.Line, ID: a.ID, Quantity: a.Quantity}
	}
	return out
}

