// Package config resolves the opskit configuration.
//
// Values are layered, lowest to highest precedence: built-in defaults, the
// YAML config file, the environment variable names of the legacy scripts
// (DEVICES_PATH, INPUT_PATH, ASSETS_PATH, OUTPUT_DIR, LOW_STOCK_THRESHOLD),
// OPSKIT_ prefixed environment variables and finally explicitly set flags.
// The resolved Config is read-only for the rest of the run.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	OutputDir    string        `koanf:"output_dir" yaml:"output_dir" json:"output_dir"`
	OutputFormat string        `koanf:"output" yaml:"output" json:"output"`
	Verbose      bool          `koanf:"verbose" yaml:"verbose" json:"verbose"`
	LogLevel     string        `koanf:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat    string        `koanf:"log_format" yaml:"log_format" json:"log_format"`
	Monitor      MonitorConfig `koanf:"monitor" yaml:"monitor" json:"monitor"`
	Report       ReportConfig  `koanf:"report" yaml:"report" json:"report"`
	Audit        AuditConfig   `koanf:"audit" yaml:"audit" json:"audit"`
}

// MonitorConfig configures the device liveness monitor.
type MonitorConfig struct {
	DevicesPath  string        `koanf:"devices_path" yaml:"devices_path" json:"devices_path"`
	LogFile      string        `koanf:"log_file" yaml:"log_file" json:"log_file"`
	PingCommand  string        `koanf:"ping_command" yaml:"ping_command" json:"ping_command"`
	ProbeCount   int           `koanf:"probe_count" yaml:"probe_count" json:"probe_count"`
	ProbeTimeout time.Duration `koanf:"probe_timeout" yaml:"probe_timeout" json:"probe_timeout"`
}

// ReportConfig configures the daily operations report.
type ReportConfig struct {
	InputPath      string `koanf:"input_path" yaml:"input_path" json:"input_path"`
	Sheet          string `koanf:"sheet" yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Workbook       string `koanf:"workbook" yaml:"workbook" json:"workbook"`
	CSV            string `koanf:"csv" yaml:"csv" json:"csv"`
	SiteColumn     string `koanf:"site_column" yaml:"site_column" json:"site_column"`
	StatusColumn   string `koanf:"status_column" yaml:"status_column" json:"status_column"`
	CategoryColumn string `koanf:"category_column" yaml:"category_column" json:"category_column"`
	OpenStatus     string `koanf:"open_status" yaml:"open_status" json:"open_status"`
	ClosedStatus   string `koanf:"closed_status" yaml:"closed_status" json:"closed_status"`
}

// AuditConfig configures the inventory audit.
type AuditConfig struct {
	AssetsPath        string `koanf:"assets_path" yaml:"assets_path" json:"assets_path"`
	Sheet             string `koanf:"sheet" yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Workbook          string `koanf:"workbook" yaml:"workbook" json:"workbook"`
	IDColumn          string `koanf:"id_column" yaml:"id_column" json:"id_column"`
	QuantityColumn    string `koanf:"quantity_column" yaml:"quantity_column" json:"quantity_column"`
	LowStockThreshold int64  `koanf:"low_stock_threshold" yaml:"low_stock_threshold" json:"low_stock_threshold"`
	QuantityDefault   int64  `koanf:"quantity_default" yaml:"quantity_default" json:"quantity_default"`
}

// Default configuration values.
const (
	DefaultOutputDir   = "output"
	DefaultOutput      = "auto" // TTY=text, non-TTY=markdown
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultDevicesPath = "data/devices.csv"
	DefaultStatusLog   = "status_log.csv"
	DefaultPingCommand = "ping"
	DefaultProbeCount  = 1
	DefaultInputPath   = "data/sample_daily_ops.xlsx"
	DefaultReportXLSX  = "daily_summary.xlsx"
	DefaultReportCSV   = "daily_summary.csv"
	DefaultAssetsPath  = "data/assets.csv"
	DefaultAuditXLSX   = "inventory_audit.xlsx"
	DefaultIDColumn    = "asset_id"
	DefaultQtyColumn   = "quantity"
	DefaultLowStock    = 5
	DefaultQtyFallback = 0
)

// Defaults returns the built-in configuration as a flat koanf map.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"output_dir": DefaultOutputDir,
		"output":     DefaultOutput,
		"verbose":    false,
		"log_level":  DefaultLogLevel,
		"log_format": DefaultLogFormat,

		"monitor.devices_path":  DefaultDevicesPath,
		"monitor.log_file":      DefaultStatusLog,
		"monitor.ping_command":  DefaultPingCommand,
		"monitor.probe_count":   DefaultProbeCount,
		"monitor.probe_timeout": "0s",

		"report.input_path":      DefaultInputPath,
		"report.workbook":        DefaultReportXLSX,
		"report.csv":             DefaultReportCSV,
		"report.site_column":     "Site",
		"report.status_column":   "Status",
		"report.category_column": "Category",
		"report.open_status":     "Open",
		"report.closed_status":   "Closed",

		"audit.assets_path":         DefaultAssetsPath,
		"audit.workbook":            DefaultAuditXLSX,
		"audit.id_column":           DefaultIDColumn,
		"audit.quantity_column":     DefaultQtyColumn,
		"audit.low_stock_threshold": DefaultLowStock,
		"audit.quantity_default":    DefaultQtyFallback,
	}
}
