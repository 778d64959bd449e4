// Package output provides the injected rendering collaborator used by every
// command. Carrying the verbosity level here keeps user-facing output
// testable: tests substitute a capturing writer instead of toggling global
// state.
package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Mode selects the output format.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultStyles returns the standard style set.
func DefaultStyles() *Styles {
	return &Styles{
		Header:  lipgloss.NewStyle().Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Renderer writes user-facing output in the selected mode. Write methods
// are safe for concurrent use: parallel compile jobs report progress from
// multiple goroutines.
type Renderer struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	mode    Mode
	verbose bool
	styles  *Styles
}

// NewRenderer creates a renderer over the given writer pair.
func NewRenderer(out, errOut io.Writer, mode Mode, verbose bool) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:     out,
		errOut:  errOut,
		mode:    mode,
		verbose: verbose,
		styles:  DefaultStyles(),
	}
}

// EffectiveMode resolves ModeAuto to a concrete mode.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode == ModeAuto {
		return ModeText
	}
	return r.mode
}

// Writer returns the underlying output writer, for encoders.
func (r *Renderer) Writer() io.Writer { return r.out }

// Styles returns the active style set.
func (r *Renderer) Styles() *Styles { return r.styles }

// Println writes a plain line.
func (r *Renderer) Println(args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, args...)
}

// Progressf writes a progress line.
func (r *Renderer) Progressf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Verbosef writes a line only when verbosity is enabled.
func (r *Renderer) Verbosef(format string, args ...any) {
	if !r.verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Header writes a styled section header.
func (r *Renderer) Header(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.styles.Header.Render(text))
}

// Successf writes a styled success line.
func (r *Renderer) Successf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.styles.Success.Render(fmt.Sprintf("✓ "+format, args...)))
}

// Errorf writes a styled error line to the error writer.
func (r *Renderer) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.errOut, r.styles.Error.Render(fmt.Sprintf("✗ "+format, args...)))
}

// Warningf writes a styled warning line to the error writer.
func (r *Renderer) Warningf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.errOut, r.styles.Warning.Render(fmt.Sprintf("Warning: "+format, args...)))
}

// KeyValue writes an aligned key/value line.
func (r *Renderer) KeyValue(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s %s\n", r.styles.Muted.Render(key+":"), value)
}
