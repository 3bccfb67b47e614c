// Package cli holds the terminal presentation helpers of the extsort command:
// styles, tables and the session sink that prints to a terminal.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

var (
	// Title style for command headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7")).
			Padding(0, 1)

	// Status style for info messages
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAF00"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FD75F"))

	// Highlight for file and folder names
	EmphasisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#81A1C1")).
			Bold(true)

	SummaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShouldColorize reports whether styled output makes sense on w.
func ShouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return IsTerminal(f)
}

// Painter renders styles only when its writer is a terminal.
type Painter struct {
	color bool
}

// NewPainter returns a painter for w.
func NewPainter(w io.Writer) Painter {
	return Painter{color: ShouldColorize(w)}
}

func (p Painter) Render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p Painter) Title(s string) string    { return p.Render(TitleStyle, s) }
func (p Painter) Status(s string) string   { return p.Render(StatusStyle, s) }
func (p Painter) Error(s string) string    { return p.Render(ErrorStyle, s) }
func (p Painter) Warning(s string) string  { return p.Render(WarningStyle, s) }
func (p Painter) Success(s string) string  { return p.Render(SuccessStyle, s) }
func (p Painter) Emphasis(s string) string { return p.Render(EmphasisStyle, s) }

// Box draws s in a rounded box on terminals and leaves it bare elsewhere.
func (p Painter) Box(s string) string {
	return p.Render(SummaryBox, s)
}

// FormatBytes renders a size the way people read it, 1.2 MB rather than 1200000.
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

type ColumnAlignment int

const (
	AlignLeft ColumnAlignment = iota
	AlignRight
)

// RenderTable renders rows under headers as a rounded table.
func RenderTable(headers []string, rows [][]string, aligns []ColumnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// JoinExtensions lists extensions for display.
func JoinExtensions(exts []string) string {
	if len(exts) == 0 {
		return "-"
	}
	return strings.Join(exts, ", ")
}
