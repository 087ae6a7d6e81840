package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Console glyphs.
const (
	GlyphSuccess   = "✅"
	GlyphAttention = "⚠️"
)

// Renderer writes command output in the configured mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	lr := lipgloss.NewRenderer(out)
	if !isTTY || mode.Resolve(isTTY) != ModeText {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(lr),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Mode returns the configured mode, which may be ModeAuto.
func (r *Renderer) Mode() Mode { return r.mode }

// EffectiveMode returns the concrete mode output is rendered in.
func (r *Renderer) EffectiveMode() Mode { return r.mode.Resolve(r.isTTY) }

// Println writes a line to the output stream.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to the output stream.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() != ModeText {
		r.Println(FormatHeader(level, text))
		r.Println()
		return
	}
	style := r.styles.Header2
	if level <= 1 {
		style = r.styles.Header1
	}
	r.Println(style.Render(text))
}

// Success writes msg prefixed by the success glyph.
func (r *Renderer) Success(msg string) {
	r.Println(GlyphSuccess + " " + r.styles.Success.Render(msg))
}

// Warning writes msg prefixed by the attention glyph.
func (r *Renderer) Warning(msg string) {
	r.Println(GlyphAttention + " " + r.styles.Warning.Render(msg))
}

// Muted writes msg in the muted style.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted.Render(msg))
}

// Error writes msg to the error stream.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("Error:")+" "+msg)
}

// Table writes rows under header. Markdown mode emits a pipe table; text
// mode a box drawn table.
func (r *Renderer) Table(header []string, rows [][]any) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)

	hr := make(table.Row, len(header))
	for i, h := range header {
		hr[i] = h
	}
	tw.AppendHeader(hr)
	for _, row := range rows {
		tw.AppendRow(table.Row(row))
	}

	if r.EffectiveMode() == ModeText {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Format.Header = text.FormatDefault

	if r.EffectiveMode() == ModeText {
		tw.Render()
		return
	}
	tw.RenderMarkdown()
	r.Println()
}

// JSON writes v as an indented JSON document.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
