// Package engine runs the opskit pipelines.
//
// Every run follows the same stages: ingest a dataset, check its required
// columns, normalize the fields, derive the output tables and export them.
// Schema and ingest failures stop a run before anything is written.
package engine

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/opskit/internal/derive"
	"github.com/leapstack-labs/opskit/internal/export"
	"github.com/leapstack-labs/opskit/internal/probe"
)

// Engine runs the monitor, report and audit pipelines.
type Engine struct {
	cfg    Config
	prober derive.Prober
	now    func() time.Time
	logger *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// OutputDir receives every artifact. It is created on first export.
	OutputDir string

	Monitor MonitorConfig
	Report  ReportConfig
	Audit   AuditConfig

	// Prober checks device reachability (optional, defaults to the system ping)
	Prober derive.Prober
	// Now is the clock used for timestamps (optional, defaults to time.Now)
	Now func() time.Time
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// MonitorConfig configures the liveness pipeline.
type MonitorConfig struct {
	DevicesPath string
	// LogFile is the status log name, relative to OutputDir.
	LogFile string
}

// ReportConfig configures the KPI report pipeline.
type ReportConfig struct {
	InputPath    string
	Sheet        string
	Workbook     string
	CSV          string
	Columns      derive.TicketColumns
	OpenStatus   string
	ClosedStatus string
}

// AuditConfig configures the inventory audit pipeline.
type AuditConfig struct {
	AssetsPath        string
	Sheet             string
	Workbook          string
	Columns           derive.AssetColumns
	LowStockThreshold int64
	QuantityDefault   int64
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	prober := cfg.Prober
	if prober == nil {
		prober = &probe.PingProber{Logger: logger}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		cfg:    cfg,
		prober: prober,
		now:    now,
		logger: logger,
	}
}

// run returns a fresh run ID and a logger tagged with it.
func (e *Engine) run(pipeline string) (string, *slog.Logger) {
	id := uuid.NewString()
	return id, e.logger.With("run_id", id, "pipeline", pipeline)
}

// outputPath resolves an artifact name against OutputDir. Absolute names
// are returned unchanged.
func (e *Engine) outputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(e.cfg.OutputDir, name)
}

// prepareOutputs creates OutputDir and the parent directory of every
// artifact path.
func (e *Engine) prepareOutputs(paths ...string) error {
	if err := export.EnsureDir(e.cfg.OutputDir); err != nil {
		return err
	}
	for _, p := range paths {
		if err := export.EnsureDir(filepath.Dir(p)); err != nil {
			return err
		}
	}
	return nil
}
