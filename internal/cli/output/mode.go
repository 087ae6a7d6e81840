// Package output renders command results to the console.
//
// A Renderer writes in one of three concrete modes: styled text for
// terminals, markdown for pipes and files, and JSON for scripts. ModeAuto
// picks text or markdown from the TTY state of the output stream.
package output

import (
	"fmt"
	"slices"
	"strings"
)

// Mode selects how command output is rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

var modes = []Mode{ModeAuto, ModeText, ModeMarkdown, ModeJSON}

// ParseMode converts a user supplied value to a Mode. The empty string is
// ModeAuto.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeAuto, nil
	}
	if !slices.Contains(modes, m) {
		return "", fmt.Errorf("unknown output mode %q (want auto, text, markdown or json)", s)
	}
	return m, nil
}

// Resolve returns the concrete mode for m given the TTY state.
func (m Mode) Resolve(isTTY bool) Mode {
	switch m {
	case ModeText, ModeMarkdown, ModeJSON:
		return m
	default:
		if isTTY {
			return ModeText
		}
		return ModeMarkdown
	}
}

// FormatHeader returns a markdown header of the given level.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}
