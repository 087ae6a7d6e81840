package derive

import (
	"context"
	"time"
)

// Outcome is the result of one reachability probe.
type Outcome int

// Probe outcomes.
const (
	Unreachable Outcome = iota
	Reachable
)

// Prober checks whether an address is reachable. Implementations must map
// every failure (spawn error, timeout, non-zero exit) to Unreachable.
type Prober interface {
	Probe(ctx context.Context, address string) Outcome
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, address string) Outcome

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, address string) Outcome {
	return f(ctx, address)
}

// Status is the liveness state recorded for a device.
type Status string

// Device statuses.
const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

// TimestampLayout formats StatusEntry timestamps (local time, seconds).
const TimestampLayout = "2006-01-02T15:04:05"

// StatusEntry is one row of the status log.
type StatusEntry struct {
	Timestamp time.Time
	Name      string
	IP        string
	Status    Status
}

// Record returns the entry as a status log record.
func (e StatusEntry) Record() []string {
	return []string{e.Timestamp.Format(TimestampLayout), e.Name, e.IP, string(e.Status)}
}

// StatusLogHeader is the header row of the status log.
var StatusLogHeader = []string{"timestamp", "name", "ip", "status"}

// CheckDevices probes every device in order and returns one entry per
// device. Probes run sequentially; each entry is stamped when its probe
// returns.
func CheckDevices(ctx context.Context, devices []DeviceRow, prober Prober, now func() time.Time) []StatusEntry {
	if now == nil {
		now = time.Now
	}
	entries := make([]StatusEntry, 0, len(devices))
	for _, d := range devices {
		status := StatusDown
		if prober.Probe(ctx, d.IP) == Reachable {
			status = StatusUp
		}
		entries = append(entries, StatusEntry{
			Timestamp: now().Truncate(time.Second),
			Name:      d.Name,
			IP:        d.IP,
			Status:    status,
		})
	}
	return entries
}

// Down returns the entries whose status is DOWN, in order.
func Down(entries []StatusEntry) []StatusEntry {
	var out []StatusEntry
	for _, e := range entries {
		if e.Status == StatusDown {
			out = append(out, e)
		}
	}
	return out
}
