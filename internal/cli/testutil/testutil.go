// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/opskit/internal/cli/config"
	"github.com/leapstack-labs/opskit/internal/cli/output"
)

// Fixture contents written by SetupTestProject.
const (
	DevicesCSV = "name,ip\nrouter1,10.0.0.1\nswitch1,10.0.0.2\n"
	OpsCSV     = "Site,Status,Category\n" +
		"HQ,open,Network\n" +
		"HQ,Open ,Power\n" +
		"Branch,OPEN,Network\n" +
		"Branch,Closed,Network\n"
	AssetsCSV = "asset_id,quantity,location\n" +
		"A1,3,Dock\n" +
		"A2,9,Store\n" +
		"B7,7,Lab\n" +
		"B7,x,Lab\n"
)

// SetupTestProject creates a temporary project with device, operations and
// asset inputs under data/.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dataDir, err)
	}

	files := map[string]string{
		"devices.csv": DevicesCSV,
		"ops.csv":     OpsCSV,
		"assets.csv":  AssetsCSV,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	return tmpDir
}

// TestConfig returns the default configuration rooted at a project created
// by SetupTestProject.
func TestConfig(dir string) *config.Config {
	return &config.Config{
		OutputDir:    filepath.Join(dir, "output"),
		OutputFormat: string(output.ModeMarkdown),
		LogLevel:     config.DefaultLogLevel,
		LogFormat:    config.DefaultLogFormat,
		Monitor: config.MonitorConfig{
			DevicesPath: filepath.Join(dir, "data", "devices.csv"),
			LogFile:     config.DefaultStatusLog,
			PingCommand: config.DefaultPingCommand,
			ProbeCount:  config.DefaultProbeCount,
		},
		Report: config.ReportConfig{
			InputPath:      filepath.Join(dir, "data", "ops.csv"),
			Workbook:       config.DefaultReportXLSX,
			CSV:            config.DefaultReportCSV,
			SiteColumn:     "Site",
			StatusColumn:   "Status",
			CategoryColumn: "Category",
			OpenStatus:     "Open",
			ClosedStatus:   "Closed",
		},
		Audit: config.AuditConfig{
			AssetsPath:        filepath.Join(dir, "data", "assets.csv"),
			Workbook:          config.DefaultAuditXLSX,
			IDColumn:          config.DefaultIDColumn,
			QuantityColumn:    config.DefaultQtyColumn,
			LowStockThreshold: config.DefaultLowStock,
		},
	}
}

// WritePingScript writes an executable stand-in for ping into dir. It exits
// non-zero for the given addresses and zero for any other. The address is
// the last argument, as passed by the ping prober. Tests are skipped when
// no POSIX shell is available.
func WritePingScript(t *testing.T, dir string, down ...string) string {
	t.Helper()

	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skipf("sh not available: %v", err)
	}

	var b strings.Builder
	b.WriteString("#!" + sh + "\n")
	b.WriteString("for addr; do :; done\n")
	b.WriteString("case \"$addr\" in\n")
	for _, addr := range down {
		b.WriteString("  " + addr + ") exit 1 ;;\n")
	}
	b.WriteString("esac\nexit 0\n")

	path := filepath.Join(dir, "fakeping")
	if err := os.WriteFile(path, []byte(b.String()), 0755); err != nil {
		t.Fatalf("failed to write ping script: %v", err)
	}
	return path
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
