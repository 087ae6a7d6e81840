// Package probe implements reachability checks by spawning the system ping
// command.
package probe

import (
	"context"
	"log/slog"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/leapstack-labs/opskit/internal/derive"
)

// DefaultCommand is the executable used when PingProber.Command is empty.
const DefaultCommand = "ping"

// PingProber runs one ping process per address. The exit status is the only
// signal: zero means reachable. Output is discarded.
type PingProber struct {
	Command string
	Count   int
	// Timeout bounds a single probe. Zero leaves it to the command itself.
	Timeout time.Duration
	// GOOS selects the count flag; empty means runtime.GOOS.
	GOOS   string
	Logger *slog.Logger
}

var _ derive.Prober = (*PingProber)(nil)

// CountFlag returns the repetition-count flag of ping on goos.
func CountFlag(goos string) string {
	if goos == "windows" {
		return "-n"
	}
	return "-c"
}

// Args returns the argument list for probing address.
func (p *PingProber) Args(address string) []string {
	goos := p.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	count := p.Count
	if count < 1 {
		count = 1
	}
	return []string{CountFlag(goos), strconv.Itoa(count), address}
}

// Probe spawns the ping command and reports the outcome. Spawn errors,
// timeouts and non-zero exits are all Unreachable.
func (p *PingProber) Probe(ctx context.Context, address string) derive.Outcome {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	name := p.Command
	if name == "" {
		name = DefaultCommand
	}

	// Stdout and Stderr left nil are connected to the null device.
	cmd := exec.CommandContext(ctx, name, p.Args(address)...)
	start := time.Now()
	err := cmd.Run()

	logger := p.logger()
	if err != nil {
		logger.Debug("probe failed", "address", address, "error", err, "duration", time.Since(start))
		return derive.Unreachable
	}
	logger.Debug("probe succeeded", "address", address, "duration", time.Since(start))
	return derive.Reachable
}

func (p *PingProber) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}
