// Package printer writes the tool's user-facing output: colored status
// lines and timestamped log-line prefixes. Diagnostics go through
// zerolog instead.
package printer

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const timeFormat = "2006-01-02 15:04:05"

type Printer struct {
	out io.Writer

	green   *color.Color
	red     *color.Color
	yellow  *color.Color
	cyan    *color.Color
	magenta *color.Color

	now func() time.Time
}

// New builds a Printer for out. Colors are used only when out is a
// terminal and noColor is unset.
func New(out io.Writer, noColor bool) *Printer {
	enabled := !noColor
	if f, ok := out.(*os.File); ok {
		enabled = enabled && isatty.IsTerminal(f.Fd())
	}

	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}

	return &Printer{
		out:     out,
		green:   mk(color.FgGreen, color.Bold),
		red:     mk(color.FgRed, color.Bold),
		yellow:  mk(color.FgYellow, color.Bold),
		cyan:    mk(color.FgCyan, color.Bold),
		magenta: mk(color.FgMagenta, color.Bold),
		now:     time.Now,
	}
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.green.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.out, p.red.Sprintf(format, args...))
}

func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.yellow.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.out, p.cyan.Sprintf(format, args...))
}

// Plain writes an uncolored line.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Prompt writes without a trailing newline, for inline confirmation
// questions.
func (p *Printer) Prompt(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Highlight returns s colored for inline use inside a Plain line.
func (p *Printer) Highlight(s string) string {
	return p.magenta.Sprint(s)
}

// Inline color helpers for composing table cells.

func (p *Printer) Green(s string) string  { return p.green.Sprint(s) }
func (p *Printer) Red(s string) string    { return p.red.Sprint(s) }
func (p *Printer) Yellow(s string) string { return p.yellow.Sprint(s) }
func (p *Printer) Cyan(s string) string   { return p.cyan.Sprint(s) }

// ContainerLine writes one followed log line prefixed with the local
// timestamp and the container name.
func (p *Printer) ContainerLine(name, line string) {
	p.logLine(p.green, name, line)
}

// DeployerLine is ContainerLine for the deployer's own log stream.
func (p *Printer) DeployerLine(name, line string) {
	p.logLine(p.magenta, name, line)
}

func (p *Printer) logLine(nameColor *color.Color, name, line string) {
	fmt.Fprintf(p.out, "[%s | %s] %s\n",
		p.cyan.Sprint(p.now().Format(timeFormat)),
		nameColor.Sprint(name),
		line,
	)
}
