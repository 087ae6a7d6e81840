package derive

import (
	"sort"
	"time"

	"github.com/leapstack-labs/opskit/internal/dataset"
)

// ReportDateLayout formats the "Report Date" metric.
const ReportDateLayout = "2006-01-02 15:04"

// Metric names, in summary order.
const (
	MetricTotal      = "Total Items"
	MetricOpen       = "Open Items"
	MetricClosed     = "Closed Items"
	MetricReportDate = "Report Date"
)

// Summary sheet names.
const (
	SheetSummary    = "Summary"
	SheetBySite     = "BySite"
	SheetByStatus   = "ByStatus"
	SheetByCategory = "ByCategory"
)

// SummaryOptions controls KPI matching. Status comparison is exact and is
// expected to run on normalized values.
type SummaryOptions struct {
	OpenStatus   string
	ClosedStatus string
	Columns      TicketColumns
}

// Metric is one KPI row. Value is an int for counts and a string for dates.
type Metric struct {
	Name  string
	Value any
}

// GroupCount is the number of rows sharing one group value.
type GroupCount struct {
	Value string
	Count int
}

// Report is the aggregation result for one operations dataset.
type Report struct {
	Metrics    []Metric
	BySite     []GroupCount
	ByStatus   []GroupCount
	ByCategory []GroupCount
	Columns    TicketColumns

	Total  int
	Open   int
	Closed int
}

// Summarize computes the KPIs and grouped counts for tickets.
func Summarize(tickets []TicketRow, opts SummaryOptions, now time.Time) Report {
	r := Report{Total: len(tickets), Columns: opts.Columns}
	for _, t := range tickets {
		switch t.Status {
		case opts.OpenStatus:
			r.Open++
		case opts.ClosedStatus:
			r.Closed++
		}
	}

	r.Metrics = []Metric{
		{Name: MetricTotal, Value: r.Total},
		{Name: MetricOpen, Value: r.Open},
		{Name: MetricClosed, Value: r.Closed},
		{Name: MetricReportDate, Value: now.Format(ReportDateLayout)},
	}
	r.BySite = CountBy(tickets, func(t TicketRow) string { return t.Site })
	r.ByStatus = CountBy(tickets, func(t TicketRow) string { return t.Status })
	r.ByCategory = CountBy(tickets, func(t TicketRow) string { return t.Category })
	return r
}

// CountBy groups tickets by key and returns the counts sorted by count
// descending. Groups with equal counts keep first-seen order.
func CountBy(tickets []TicketRow, key func(TicketRow) string) []GroupCount {
	pos := make(map[string]int)
	var groups []GroupCount
	for _, t := range tickets {
		k := key(t)
		if i, ok := pos[k]; ok {
			groups[i].Count++
			continue
		}
		pos[k] = len(groups)
		groups = append(groups, GroupCount{Value: k, Count: 1})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

// Tables returns the summary and grouped tables in sheet order.
func (r Report) Tables() []dataset.Table {
	return []dataset.Table{
		r.SummaryTable(),
		groupTable(SheetBySite, r.Columns.Site, "TotalItems", r.BySite),
		groupTable(SheetByStatus, r.Columns.Status, "Count", r.ByStatus),
		groupTable(SheetByCategory, r.Columns.Category, "Count", r.ByCategory),
	}
}

// SummaryTable returns the one-row-per-metric table.
func (r Report) SummaryTable() dataset.Table {
	t := dataset.Table{Name: SheetSummary, Columns: []string{"Metric", "Value"}}
	for _, m := range r.Metrics {
		t.Rows = append(t.Rows, []any{m.Name, m.Value})
	}
	return t
}

func groupTable(name, keyHeader, countHeader string, groups []GroupCount) dataset.Table {
	t := dataset.Table{Name: name, Columns: []string{keyHeader, countHeader}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []any{g.Value, g.Count})
	}
	return t
}
