package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	outputFormats = []string{"auto", "text", "markdown", "json"}
	logLevels     = []string{"debug", "info", "warn", "warning", "error"}
	logFormats    = []string{"text", "json"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if !slices.Contains(outputFormats, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output must be one of %s, got %q", strings.Join(outputFormats, "|"), c.OutputFormat))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("log_level must be one of %s, got %q", strings.Join(logLevels, "|"), c.LogLevel))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.LogFormat)) {
		errs = append(errs, fmt.Errorf("log_format must be one of %s, got %q", strings.Join(logFormats, "|"), c.LogFormat))
	}

	m := c.Monitor
	requireSet(&errs, map[string]string{
		"monitor.devices_path": m.DevicesPath,
		"monitor.log_file":     m.LogFile,
		"monitor.ping_command": m.PingCommand,
	})
	if m.ProbeCount < 1 {
		errs = append(errs, fmt.Errorf("monitor.probe_count must be at least 1, got %d", m.ProbeCount))
	}
	if m.ProbeTimeout < 0 {
		errs = append(errs, fmt.Errorf("monitor.probe_timeout must not be negative, got %s", m.ProbeTimeout))
	}

	r := c.Report
	requireSet(&errs, map[string]string{
		"report.input_path":      r.InputPath,
		"report.workbook":        r.Workbook,
		"report.csv":             r.CSV,
		"report.site_column":     r.SiteColumn,
		"report.status_column":   r.StatusColumn,
		"report.category_column": r.CategoryColumn,
	})

	a := c.Audit
	requireSet(&errs, map[string]string{
		"audit.assets_path":     a.AssetsPath,
		"audit.workbook":        a.Workbook,
		"audit.id_column":       a.IDColumn,
		"audit.quantity_column": a.QuantityColumn,
	})
	if a.LowStockThreshold < 0 {
		errs = append(errs, fmt.Errorf("audit.low_stock_threshold must not be negative, got %d", a.LowStockThreshold))
	}

	return errors.Join(errs...)
}

// requireSet reports every empty value, in key order.
func requireSet(errs *[]error, values map[string]string) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if strings.TrimSpace(values[key]) == "" {
			*errs = append(*errs, fmt.Errorf("%s is required", key))
		}
	}
}
