package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/crease/internal/model"
)

// Table is a rendered-to-strings ranking or aggregate table.
type Table struct {
	Headers    []string
	Rows       [][]string
	RightAlign map[int]bool
}

// TableOptions controls which key columns a table shows.
type TableOptions struct {
	EntityHeader string
	Season       bool
	Phase        bool
	Rank         bool
}

// BuildTable formats rows with the key columns selected by opts followed by columns.
func BuildTable[T model.MetricRow](rows []T, columns []string, opts TableOptions) Table {
	t := Table{RightAlign: map[int]bool{}}
	if opts.Rank {
		t.RightAlign[len(t.Headers)] = true
		t.Headers = append(t.Headers, "#")
	}
	if opts.Season {
		t.Headers = append(t.Headers, "season")
	}
	entity := opts.EntityHeader
	if entity == "" {
		entity = "entity"
	}
	t.Headers = append(t.Headers, entity)
	if opts.Phase {
		t.Headers = append(t.Headers, "phase")
	}
	for _, c := range columns {
		t.RightAlign[len(t.Headers)] = true
		t.Headers = append(t.Headers, c)
	}

	for i, r := range rows {
		key := r.Key()
		cells := make([]string, 0, len(t.Headers))
		if opts.Rank {
			cells = append(cells, strconv.Itoa(i+1))
		}
		if opts.Season {
			cells = append(cells, strconv.Itoa(key.Season))
		}
		cells = append(cells, key.Entity)
		if opts.Phase {
			cells = append(cells, string(key.Phase))
		}
		for _, c := range columns {
			v, ok := r.Metric(c)
			if !ok {
				v = math.NaN()
			}
			cells = append(cells, FormatMetric(c, v))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// FormatMetric prints undefined values as "-", counts as integers and rates with two decimals.
func FormatMetric(name string, v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	if !model.IsRateMetric(name) && v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderTable prints a titled table.
func RenderTable(w io.Writer, title string, t Table) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No rows found.")
		return err
	}
	for _, line := range formatTable(t.Headers, t.Rows, t.RightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderChart prints the phase chart sized to totalWidth (0 uses the terminal
// width) followed by the best-value annotation.
func RenderChart(w io.Writer, chart Chart, totalWidth, height int) error {
	if chart.Empty() {
		_, err := fmt.Fprintf(w, "No %s data for %s.\n", chart.Metric, chart.Entity)
		return err
	}
	series := make([]Series, 0, len(chart.Series))
	for _, s := range chart.Series {
		series = append(series, Series{Name: string(s.Phase), Color: PhaseColors[s.Phase], Values: s.Values})
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	if err := PlotSeries(w, chart.Title, chart.SeasonLabels(), series, width, height); err != nil {
		return err
	}
	if chart.Best != nil {
		if _, err := fmt.Fprintln(w, BestLabel(*chart.Best)); err != nil {
			return err
		}
	}
	return nil
}

// BestLabel formats the maximum-point annotation.
func BestLabel(p Point) string {
	return fmt.Sprintf("Best: %.2f in %d (%s)", p.Value, p.Season, p.Phase)
}

// MetricLabel turns a column name into a display label.
func MetricLabel(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		switch word {
		case "pct":
			words[i] = "%"
		case "avg":
			words[i] = "Avg"
		default:
			if word != "" {
				words[i] = strings.ToUpper(word[:1]) + word[1:]
			}
		}
	}
	return strings.Join(words, " ")
}
