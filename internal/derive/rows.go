// Package derive computes derived tables from normalized datasets.
//
// Each command has its own typed row (DeviceRow, TicketRow, AssetRow) built
// once from the normalized dataset, so the derivations below never deal with
// raw column lookups or type coercion.
package derive

import (
	"strconv"

	"github.com/leapstack-labs/opskit/internal/dataset"
)

// Device columns.
const (
	ColName = "name"
	ColIP   = "ip"
)

// DeviceRow is one monitored device.
type DeviceRow struct {
	Name string
	IP   string
}

// DevicesFrom builds device rows from a dataset with name and ip columns.
func DevicesFrom(ds *dataset.Dataset) []DeviceRow {
	out := make([]DeviceRow, 0, ds.Len())
	for i := range ds.Records {
		out = append(out, DeviceRow{
			Name: ds.Value(i, ColName),
			IP:   ds.Value(i, ColIP),
		})
	}
	return out
}

// TicketColumns names the grouping columns of an operations dataset.
type TicketColumns struct {
	Site     string
	Status   string
	Category string
}

// Required lists the columns in declaration order.
func (c TicketColumns) Required() []string {
	return []string{c.Site, c.Status, c.Category}
}

// TicketRow is one operational ticket.
type TicketRow struct {
	Site     string
	Status   string
	Category string
}

// TicketsFrom builds ticket rows using the configured column names.
func TicketsFrom(ds *dataset.Dataset, cols TicketColumns) []TicketRow {
	out := make([]TicketRow, 0, ds.Len())
	for i := range ds.Records {
		out = append(out, TicketRow{
			Site:     ds.Value(i, cols.Site),
			Status:   ds.Value(i, cols.Status),
			Category: ds.Value(i, cols.Category),
		})
	}
	return out
}

// AssetColumns names the identifier and quantity columns of an asset dataset.
type AssetColumns struct {
	ID       string
	Quantity string
}

// AssetRow is one inventory asset. Values holds the full record so that
// derived tables can pass every column through.
type AssetRow struct {
	Line     int
	ID       string
	Quantity int64
	Values   []string
}

// AssetsFrom builds asset rows. The quantity column is expected to be
// normalized already; values that still fail to parse resolve to def.
func AssetsFrom(ds *dataset.Dataset, cols AssetColumns, def int64) []AssetRow {
	out := make([]AssetRow, 0, ds.Len())
	for i, rec := range ds.Records {
		raw := ds.Value(i, cols.Quantity)
		qty, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			qty = dataset.CoerceInt(raw, def)
		}
		out = append(out, AssetRow{
			Line:     i + 2,
			ID:       ds.Value(i, cols.ID),
			Quantity: qty,
			Values:   rec,
		})
	}
	return out
}
