package engine

import (
	"context"

	"github.com/leapstack-labs/opskit/internal/dataset"
	"github.com/leapstack-labs/opskit/internal/derive"
	"github.com/leapstack-labs/opskit/internal/export"
)

// MonitorResult is the outcome of one liveness run.
type MonitorResult struct {
	RunID   string
	LogPath string
	Created bool
	Entries []derive.StatusEntry
	Down    []derive.StatusEntry
}

// Monitor probes every device in the device list and appends one status
// batch to the status log. Unreachable devices are recorded as DOWN; they
// never fail the run.
func (e *Engine) Monitor(ctx context.Context) (*MonitorResult, error) {
	runID, log := e.run("monitor")
	cfg := e.cfg.Monitor

	log.Debug("loading devices", "path", cfg.DevicesPath)
	ds, err := dataset.Load(cfg.DevicesPath, dataset.LoadOptions{})
	if err != nil {
		return nil, err
	}
	if err := dataset.RequireColumns(ds, derive.ColName, derive.ColIP); err != nil {
		return nil, err
	}
	ds = dataset.Normalize(ds,
		dataset.Trim(derive.ColName),
		dataset.Trim(derive.ColIP),
	)

	devices := derive.DevicesFrom(ds)
	log.Info("probing devices", "count", len(devices))
	entries := derive.CheckDevices(ctx, devices, e.prober, e.now)

	// A cancelled run would record every remaining device as DOWN.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logPath := e.outputPath(cfg.LogFile)
	if err := e.prepareOutputs(logPath); err != nil {
		return nil, err
	}

	records := make([][]string, len(entries))
	for i, entry := range entries {
		records[i] = entry.Record()
	}
	created, err := export.AppendLog(logPath, derive.StatusLogHeader, records)
	if err != nil {
		return nil, err
	}

	down := derive.Down(entries)
	log.Info("status batch appended", "log", logPath, "rows", len(records), "down", len(down), "created", created)

	return &MonitorResult{
		RunID:   runID,
		LogPath: logPath,
		Created: created,
		Entries: entries,
		Down:    down,
	}, nil
}
