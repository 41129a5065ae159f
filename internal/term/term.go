// Package term decides whether console output is colored and holds the
// escape sequences used for each log level.
package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/backmassage/treeconv/internal/config"
)

const reset = "\033[0m"

// Palette maps log levels to ANSI sequences. The zero value is uncolored.
type Palette struct {
	Info    string
	Success string
	Warn    string
	Error   string
	Command string
	Debug   string
	Reset   string
}

// colored is the palette used when colors are on.
var colored = Palette{
	Info:    "\033[1;94m",
	Success: "\033[1;92m",
	Warn:    "\033[1;93m",
	Error:   "\033[1;91m",
	Command: "\033[1;95m",
	Debug:   "\033[1;96m",
	Reset:   reset,
}

// NewPalette returns the colored palette when mode resolves to colors for
// stdout, and the empty palette otherwise.
func NewPalette(mode config.ColorMode) Palette {
	if !wantColor(mode, os.Stdout) {
		return Palette{}
	}
	return colored
}

// Enabled reports whether p emits escape sequences.
func (p Palette) Enabled() bool { return p.Reset != "" }

// Paint wraps s in seq and the reset sequence. It returns s unchanged for
// an uncolored palette.
func (p Palette) Paint(seq, s string) string {
	if !p.Enabled() || seq == "" {
		return s
	}
	return seq + s + p.Reset
}

// auto mode: only a real terminal, and never with NO_COLOR
// (https://no-color.org) or TERM=dumb.
func wantColor(mode config.ColorMode, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return IsTerminal(out)
}

// IsTerminal reports whether f is a TTY, counting Cygwin and MSYS ptys.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
