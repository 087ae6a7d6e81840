package commands

import (
	"github.com/leapstack-labs/opskit/internal/cli/config"
	"github.com/leapstack-labs/opskit/internal/cli/output"
	"github.com/leapstack-labs/opskit/internal/derive"
	"github.com/leapstack-labs/opskit/internal/engine"
	"github.com/spf13/cobra"
)

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the daily operations sheet into KPI reports",
		Long: `Read the operations dataset (CSV or XLSX with Site, Status and Category
columns), count total, open and closed items and write:

  - daily_summary.xlsx with Summary, BySite, ByStatus and ByCategory sheets
  - daily_summary.csv with the Summary sheet only

Status values are trimmed and title-cased before counting, so "open",
"Open " and "OPEN" are the same status.`,
		Example: `  # Summarize the default input
  opskit report

  # Summarize another export as JSON
  opskit report --input exports/ops.csv -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd)
		},
	}

	cmd.Flags().String("input", config.DefaultInputPath, "Path to the operations dataset (CSV or XLSX)")

	return cmd
}

// ReportOutput is the JSON output for the report command.
type ReportOutput struct {
	RunID      string        `json:"run_id"`
	Workbook   string        `json:"workbook"`
	CSV        string        `json:"csv"`
	Metrics    []MetricValue `json:"metrics"`
	BySite     []GroupValue  `json:"by_site"`
	ByStatus   []GroupValue  `json:"by_status"`
	ByCategory []GroupValue  `json:"by_category"`
}

// MetricValue is one KPI.
type MetricValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// GroupValue is one grouped count.
type GroupValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func runReport(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	res, err := cmdCtx.Engine.Report(cmd.Context())
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(buildReportOutput(res))
	}

	r.Success("Report created: " + res.WorkbookPath)
	r.Success("CSV created: " + res.CSVPath)
	r.Println()

	summary := res.Report.SummaryTable()
	r.Table(summary.Columns, summary.Rows)
	return nil
}

func buildReportOutput(res *engine.ReportResult) *ReportOutput {
	metrics := make([]MetricValue, len(res.Report.Metrics))
	for i, m := range res.Report.Metrics {
		metrics[i] = MetricValue{Name: m.Name, Value: m.Value}
	}
	return &ReportOutput{
		RunID:      res.RunID,
		Workbook:   res.WorkbookPath,
		CSV:        res.CSVPath,
		Metrics:    metrics,
		BySite:     groupValues(res.Report.BySite),
		ByStatus:   groupValues(res.Report.ByStatus),
		ByCategory: groupValues(res.Report.ByCategory),
	}
}

func groupValues(groups []derive.GroupCount) []GroupValue {
	out := make([]GroupValue, len(groups))
	for i, g := range groups {
		out[i] = GroupValue{Value: g.Value, Count: g.Count}
	}
	return out
}
