package dataset

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Op is a field normalization operation.
type Op int

// Normalization operations.
const (
	// OpTrim strips leading and trailing whitespace.
	OpTrim Op = iota
	// OpTrimTitle trims and converts to title case ("in PROGRESS " -> "In Progress").
	OpTrimTitle
	// OpNumeric coerces to an integer, substituting Rule.Default on failure.
	OpNumeric
)

func (o Op) String() string {
	switch o {
	case OpTrim:
		return "trim"
	case OpTrimTitle:
		return "trim+titlecase"
	case OpNumeric:
		return "numeric-coerce-or-default"
	default:
		return "unknown"
	}
}

// Rule binds an operation to a column.
type Rule struct {
	Column  string
	Op      Op
	Default int64 // used by OpNumeric only
}

// Trim returns a rule that trims col.
func Trim(col string) Rule {
	return Rule{Column: col, Op: OpTrim}
}

// TrimTitle returns a rule that trims and title-cases col.
func TrimTitle(col string) Rule {
	return Rule{Column: col, Op: OpTrimTitle}
}

// Numeric returns a rule that coerces col to an integer, using def for
// values that do not parse.
func Numeric(col string, def int64) Rule {
	return Rule{Column: col, Op: OpNumeric, Default: def}
}

// Normalize applies rules to a copy of ds and returns the copy.
// Rules for columns that ds does not have are skipped. Normalize never fails:
// malformed numbers resolve to the rule default.
func Normalize(ds *Dataset, rules ...Rule) *Dataset {
	out := ds.Clone()
	title := cases.Title(language.English)

	for _, rule := range rules {
		pos := out.Index(rule.Column)
		if pos < 0 {
			continue
		}
		for _, rec := range out.Records {
			switch rule.Op {
			case OpTrim:
				rec[pos] = strings.TrimSpace(rec[pos])
			case OpTrimTitle:
				rec[pos] = title.String(strings.TrimSpace(rec[pos]))
			case OpNumeric:
				rec[pos] = strconv.FormatInt(CoerceInt(rec[pos], rule.Default), 10)
			}
		}
	}
	return out
}

// CoerceInt parses s as a number truncated toward zero. Empty, malformed,
// NaN, infinite and out-of-range values yield def. Commas are not
// separators, so "1,200" is malformed.
func CoerceInt(s string, def int64) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	f = math.Trunc(f)
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return def
	}
	return int64(f)
}
