package commands

import (
	"log/slog"

	"github.com/leapstack-labs/opskit/internal/cli/config"
	"github.com/leapstack-labs/opskit/internal/cli/output"
	"github.com/leapstack-labs/opskit/internal/derive"
	"github.com/leapstack-labs/opskit/internal/engine"
	"github.com/leapstack-labs/opskit/internal/probe"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())

	r, err := newRenderer(cmd, cfg)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   engine.New(engineConfig(cfg, logger)),
		Renderer: r,
	}, nil
}

func newRenderer(cmd *cobra.Command, cfg *config.Config) (*output.Renderer, error) {
	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode), nil
}

// getConfig returns the config resolved by the root command, loading it
// from the command's own flags when the command runs on its own.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetConfig(cmd.Context()); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", cmd.Flags())
}

func engineConfig(cfg *config.Config, logger *slog.Logger) engine.Config {
	m, r, a := cfg.Monitor, cfg.Report, cfg.Audit

	return engine.Config{
		OutputDir: cfg.OutputDir,
		Monitor: engine.MonitorConfig{
			DevicesPath: m.DevicesPath,
			LogFile:     m.LogFile,
		},
		Report: engine.ReportConfig{
			InputPath: r.InputPath,
			Sheet:     r.Sheet,
			Workbook:  r.Workbook,
			CSV:       r.CSV,
			Columns: derive.TicketColumns{
				Site:     r.SiteColumn,
				Status:   r.StatusColumn,
				Category: r.CategoryColumn,
			},
			OpenStatus:   r.OpenStatus,
			ClosedStatus: r.ClosedStatus,
		},
		Audit: engine.AuditConfig{
			AssetsPath: a.AssetsPath,
			Sheet:      a.Sheet,
			Workbook:   a.Workbook,
			Columns: derive.AssetColumns{
				ID:       a.IDColumn,
				Quantity: a.QuantityColumn,
			},
			LowStockThreshold: a.LowStockThreshold,
			QuantityDefault:   a.QuantityDefault,
		},
		Prober: &probe.PingProber{
			Command: m.PingCommand,
			Count:   m.ProbeCount,
			Timeout: m.ProbeTimeout,
			Logger:  logger,
		},
		Logger: logger,
	}
}
