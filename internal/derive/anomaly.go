package derive

import (
	"sort"

	"github.com/leapstack-labs/opskit/internal/dataset"
)

// Audit sheet names.
const (
	SheetInventory  = "Inventory"
	SheetLowStock   = "LowStock"
	SheetDuplicates = "Duplicates"
)

// Duplicates returns every asset whose ID occurs more than once, including
// all occurrences, sorted by ID. Rows sharing an ID keep input order.
func Duplicates(assets []AssetRow) []AssetRow {
	counts := make(map[string]int, len(assets))
	for _, a := range assets {
		counts[a.ID]++
	}

	var out []AssetRow
	for _, a := range assets {
		if counts[a.ID] > 1 {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// LowStock returns assets with quantity strictly below threshold, sorted by
// quantity ascending. Equal quantities keep input order.
func LowStock(assets []AssetRow, threshold int64) []AssetRow {
	var out []AssetRow
	for _, a := range assets {
		if a.Quantity < threshold {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity < out[j].Quantity
	})
	return out
}

// AssetTable renders assets as a passthrough table with the given header.
// The quantity column is written as a number.
func AssetTable(name string, columns []string, quantityCol string, assets []AssetRow) dataset.Table {
	qpos := -1
	for i, c := range columns {
		if c == quantityCol {
			qpos = i
			break
		}
	}

	t := dataset.Table{Name: name, Columns: columns, Rows: make([][]any, 0, len(assets))}
	for _, a := range assets {
		row := dataset.StringCells(a.Values)
		if qpos >= 0 && qpos < len(row) {
			row[qpos] = a.Quantity
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
