package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	clrGreen  = lipgloss.Color("114")
	clrRed    = lipgloss.Color("203")
	clrYellow = lipgloss.Color("220")
	clrCyan   = lipgloss.Color("81")
	clrDim    = lipgloss.Color("245")
)

// Printer writes operator facing lines. Colors are dropped automatically when out is not a
// terminal, so piped output stays plain text.
type Printer struct {
	out     io.Writer
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
	key     lipgloss.Style
	header  lipgloss.Style
}

func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		success: r.NewStyle().Foreground(clrGreen),
		warning: r.NewStyle().Foreground(clrYellow).Bold(true),
		err:     r.NewStyle().Foreground(clrRed).Bold(true),
		info:    r.NewStyle().Foreground(clrCyan),
		key:     r.NewStyle().Foreground(clrDim),
		header:  r.NewStyle().Bold(true),
	}
}

func (p *Printer) Success(format string, args ...interface{}) {
	p.line(p.success, "OK:", format, args...)
}

func (p *Printer) Warning(format string, args ...interface{}) {
	p.line(p.warning, "WARNING:", format, args...)
}

func (p *Printer) Error(format string, args ...interface{}) {
	p.line(p.err, "ERROR:", format, args...)
}

func (p *Printer) Info(format string, args ...interface{}) {
	p.line(p.info, "INFO:", format, args...)
}

func (p *Printer) Header(title string) {
	fmt.Fprintln(p.out, p.header.Render(title))
	fmt.Fprintln(p.out, p.key.Render(strings.Repeat("-", len(title))))
}

// KV prints an aligned "  key:  value" line.
func (p *Printer) KV(key string, value interface{}) {
	fmt.Fprintf(p.out, "  %s %v\n", p.key.Render(fmt.Sprintf("%-14s", key+":")), value)
}

func (p *Printer) line(style lipgloss.Style, prefix string, format string, args ...interface{}) {
	fmt.Fprintf(p.out, "%s %s\n", style.Render(prefix), fmt.Sprintf(format, args...))
}
