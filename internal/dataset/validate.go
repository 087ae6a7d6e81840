package dataset

import "sort"

// RequireColumns checks that every required column exists in ds.
// Only column existence is checked; empty values are acceptable.
func RequireColumns(ds *Dataset, required ...string) error {
	seen := make(map[string]struct{}, len(required))
	var missing []string
	for _, col := range required {
		if _, dup := seen[col]; dup {
			continue
		}
		seen[col] = struct{}{}
		if !ds.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &SchemaError{Path: ds.Path, Missing: missing}
}
