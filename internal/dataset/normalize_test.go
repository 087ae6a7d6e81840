package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_TrimTitle(t *testing.T) {
	ds := New("ops.csv", []string{"Site", "Status"}, [][]string{
		{" North ", "open"},
		{"South", "Open "},
		{"East", "OPEN"},
		{"West", "  in PROGRESS"},
	})

	out := Normalize(ds, TrimTitle("Status"), Trim("Site"))

	assert.Equal(t, "North", out.Value(0, "Site"))
	for i := 0; i < 3; i++ {
		assert.Equal(t, "Open", out.Value(i, "Status"))
	}
	assert.Equal(t, "In Progress", out.Value(3, "Status"))

	// Input is untouched.
	assert.Equal(t, "open", ds.Value(0, "Status"))
	assert.Equal(t, " North ", ds.Value(0, "Site"))
}

func TestNormalize_NumericFallback(t *testing.T) {
	ds := New("assets.csv", []string{"asset_id", "quantity"}, [][]string{
		{"A1", "3"},
		{"A2", " 9 "},
		{"A3", "abc"},
		{"A4", ""},
		{"A5", "2.9"},
		{"A6", "-1.5"},
		{"A7", "1,200"},
		{"A8", "NaN"},
		{"A9", "inf"},
		{"A10", "1e3"},
		{"A11", "1,2"},
		{"A12", "1,2,3"},
	})

	out := Normalize(ds, Numeric("quantity", 0))

	want := []string{"3", "9", "0", "0", "2", "-1", "0", "0", "0", "1000", "0", "0"}
	for i, w := range want {
		assert.Equal(t, w, out.Value(i, "quantity"), "row %d", i)
	}

	withDefault := Normalize(ds, Numeric("quantity", 7))
	assert.Equal(t, "7", withDefault.Value(2, "quantity"))
	assert.Equal(t, "7", withDefault.Value(10, "quantity"))
}

func TestNormalize_Idempotent(t *testing.T) {
	ds := New("mixed.csv", []string{"Status", "Site", "quantity"}, [][]string{
		{" closed", " HQ ", "x"},
		{"OPEN", "Lab", "4.5"},
		{"on hold", "", ""},
	})
	rules := []Rule{TrimTitle("Status"), Trim("Site"), Numeric("quantity", 0)}

	once := Normalize(ds, rules...)
	twice := Normalize(once, rules...)

	assert.Equal(t, once.Columns, twice.Columns)
	assert.Equal(t, once.Records, twice.Records)
}

func TestNormalize_SkipsAbsentColumns(t *testing.T) {
	ds := New("a.csv", []string{"a"}, [][]string{{" x "}})
	out := Normalize(ds, Trim("b"), Numeric("c", 0))
	assert.Equal(t, " x ", out.Value(0, "a"))
}

func TestCoerceInt(t *testing.T) {
	assert.Equal(t, int64(42), CoerceInt("42", 0))
	assert.Equal(t, int64(-3), CoerceInt("-3", 0))
	assert.Equal(t, int64(5), CoerceInt("five", 5))
	assert.Equal(t, int64(0), CoerceInt("1e400", 0))
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "trim", OpTrim.String())
	assert.Equal(t, "trim+titlecase", OpTrimTitle.String())
	assert.Equal(t, "numeric-coerce-or-default", OpNumeric.String())
}
