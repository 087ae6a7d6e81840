// Package dataset loads tabular input files into memory and prepares them for
// derivation.
//
// A Dataset is the raw, ordered view of one input file: a header row and the
// records below it, every record padded to the header width. The package also
// owns the two steps that run before any derivation:
//
//   - RequireColumns checks that the columns a command depends on exist
//   - Normalize rewrites named fields (trim, title case, numeric coercion)
//
// Derived output is described by Table, a named sheet of cells that the
// export package writes to disk.
package dataset

// Dataset is an ordered set of records sharing one header.
type Dataset struct {
	Path    string
	Columns []string
	Records [][]string

	index map[string]int
}

// New builds a Dataset from a header and records. Records shorter than the
// header are padded with empty values; longer records are kept as-is.
func New(path string, columns []string, records [][]string) *Dataset {
	ds := &Dataset{
		Path:    path,
		Columns: columns,
		Records: make([][]string, 0, len(records)),
	}
	for _, rec := range records {
		if len(rec) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, rec)
			rec = padded
		}
		ds.Records = append(ds.Records, rec)
	}
	ds.buildIndex()
	return ds
}

func (d *Dataset) buildIndex() {
	d.index = make(map[string]int, len(d.Columns))
	for i, col := range d.Columns {
		// First occurrence wins for duplicated header names.
		if _, ok := d.index[col]; !ok {
			d.index[col] = i
		}
	}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Index returns the position of a column, or -1 if absent.
func (d *Dataset) Index(col string) int {
	if d.index == nil {
		d.buildIndex()
	}
	if i, ok := d.index[col]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the header contains col.
func (d *Dataset) HasColumn(col string) bool {
	return d.Index(col) >= 0
}

// Value returns the value of col in record i. Absent columns yield "".
func (d *Dataset) Value(i int, col string) string {
	pos := d.Index(col)
	if pos < 0 || i < 0 || i >= len(d.Records) {
		return ""
	}
	return d.Records[i][pos]
}

// Clone returns a deep copy that can be modified without touching d.
func (d *Dataset) Clone() *Dataset {
	cols := make([]string, len(d.Columns))
	copy(cols, d.Columns)

	recs := make([][]string, len(d.Records))
	for i, rec := range d.Records {
		r := make([]string, len(rec))
		copy(r, rec)
		recs[i] = r
	}
	out := &Dataset{Path: d.Path, Columns: cols, Records: recs}
	out.buildIndex()
	return out
}

// Table is a named derived table. Cells hold strings or numbers so that
// spreadsheet writers can keep numeric cells numeric.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Passthrough converts records of ds into a Table with the same header.
func Passthrough(name string, ds *Dataset) Table {
	t := Table{Name: name, Columns: ds.Columns, Rows: make([][]any, 0, ds.Len())}
	for _, rec := range ds.Records {
		t.Rows = append(t.Rows, StringCells(rec))
	}
	return t
}

// StringCells widens a string record to table cells.
func StringCells(rec []string) []any {
	cells := make([]any, len(rec))
	for i, v := range rec {
		cells[i] = v
	}
	return cells
}
