package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/crease/internal/stats"
)

// Result is a built view ready for rendering. Params holds the resolved
// selection, defaults included.
type Result struct {
	Mode            Mode
	Title           string
	Subtitle        string
	Params          Params
	Chart           *stats.Chart
	Table           *stats.Table
	Notes           []string
	Highlights      []string
	Recommendations []string
	Scouting        []ScoutingGroup
	Warnings        []string
	Badge           *Badge
	Empty           bool
}

// RenderOptions sizes the text rendering.
type RenderOptions struct {
	Width           int
	ChartHeight     int
	Recommendations bool
}

const defaultChartHeight = 10

// Render prints the result as plain text with colored badges and chart lines.
func Render(w io.Writer, r Result, opts RenderOptions) error {
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = defaultChartHeight
	}
	var b strings.Builder
	if r.Title != "" {
		b.WriteString(r.Title + "\n")
	}
	if r.Subtitle != "" {
		b.WriteString(r.Subtitle + "\n")
	}
	for _, warn := range r.Warnings {
		b.WriteString("warning: " + warn + "\n")
	}
	if r.Badge != nil {
		b.WriteString(BadgeLine(*r.Badge) + "\n")
	}
	if r.Empty {
		b.WriteString("No data available.\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	b.Reset()

	if r.Chart != nil && !r.Empty {
		if err := stats.RenderChart(w, *r.Chart, opts.Width, opts.ChartHeight); err != nil {
			return err
		}
	}
	if r.Table != nil && !r.Empty {
		if err := stats.RenderTable(w, "", *r.Table); err != nil {
			return err
		}
	}

	for _, h := range r.Highlights {
		b.WriteString("  * " + h + "\n")
	}
	for _, g := range r.Scouting {
		fmt.Fprintf(&b, "%s\n  • %s\n", g.Role, strings.Join(g.Players, " • "))
	}
	for _, note := range r.Notes {
		b.WriteString(note + "\n")
	}
	if opts.Recommendations && len(r.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for _, rec := range r.Recommendations {
			b.WriteString("  - " + rec + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// BadgeLine draws the team code in its colors, or the placeholder.
func BadgeLine(b Badge) string {
	if b.Missing() {
		return BadgePlaceholder
	}
	style := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color(b.Foreground)).
		Background(lipgloss.Color(b.Background))
	return style.Render(b.Code) + " " + b.Team
}
