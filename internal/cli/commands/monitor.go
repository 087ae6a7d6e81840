package commands

import (
	"github.com/leapstack-labs/opskit/internal/cli/config"
	"github.com/leapstack-labs/opskit/internal/cli/output"
	"github.com/leapstack-labs/opskit/internal/derive"
	"github.com/leapstack-labs/opskit/internal/engine"
	"github.com/spf13/cobra"
)

// NewMonitorCommand creates the monitor command.
func NewMonitorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Ping every device and append the results to the status log",
		Long: `Ping every device listed in the devices file (columns: name, ip) and
append one timestamped UP/DOWN row per device to the status log.

The log is created with a header on first use and only appended to
afterwards. Unreachable devices are reported but never fail the run.`,
		Example: `  # Check the default device list
  opskit monitor

  # Use another device list and a per-probe timeout
  opskit monitor --devices lab/devices.csv --probe-timeout 2s`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMonitor(cmd)
		},
	}

	cmd.Flags().String("devices", config.DefaultDevicesPath, "Path to the device list (CSV or XLSX)")
	cmd.Flags().Int("probe-count", config.DefaultProbeCount, "Echo requests sent per device")
	cmd.Flags().Duration("probe-timeout", 0, "Per-device probe timeout (0 waits for ping to exit)")

	return cmd
}

// MonitorOutput is the JSON output for the monitor command.
type MonitorOutput struct {
	RunID   string         `json:"run_id"`
	LogPath string         `json:"log_path"`
	Created bool           `json:"log_created"`
	Devices []DeviceStatus `json:"devices"`
	Down    []DeviceStatus `json:"down"`
}

// DeviceStatus is one probed device.
type DeviceStatus struct {
	Timestamp string `json:"timestamp"`
	Name      string `json:"name"`
	IP        string `json:"ip"`
	Status    string `json:"status"`
}

func runMonitor(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	res, err := cmdCtx.Engine.Monitor(cmd.Context())
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(buildMonitorOutput(res))
	}

	if len(res.Down) == 0 {
		r.Success("All devices UP")
		return nil
	}
	r.Warning("Devices DOWN:")
	rows := make([][]any, len(res.Down))
	for i, e := range res.Down {
		rows[i] = []any{e.Name, e.IP}
	}
	r.Table([]string{derive.ColName, derive.ColIP}, rows)
	return nil
}

func buildMonitorOutput(res *engine.MonitorResult) *MonitorOutput {
	return &MonitorOutput{
		RunID:   res.RunID,
		LogPath: res.LogPath,
		Created: res.Created,
		Devices: deviceStatuses(res.Entries),
		Down:    deviceStatuses(res.Down),
	}
}

func deviceStatuses(entries []derive.StatusEntry) []DeviceStatus {
	out := make([]DeviceStatus, len(entries))
	for i, e := range entries {
		out[i] = DeviceStatus{
			Timestamp: e.Timestamp.Format(derive.TimestampLayout),
			Name:      e.Name,
			IP:        e.IP,
			Status:    string(e.Status),
		}
	}
	return out
}
