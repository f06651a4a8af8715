package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []string{"2021", "2022", "2023", "2024", "2025"}, []Series{
		{Name: "Powerplay", Values: []float64{7.5, 8.1, 9.0, 8.4, 9.9}},
		{Name: "Death", Values: []float64{10.2, math.NaN(), 11.4, 12.0, 11.1}},
	}, 20, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend:") || !strings.Contains(out, "Death (dashed)") {
		t.Fatalf("expected legend in output: %s", out)
	}
	if !strings.Contains(out, "12.00") || !strings.Contains(out, "7.50") {
		t.Fatalf("expected shared axis bounds in output: %s", out)
	}
	if !strings.Contains(out, "2021") || !strings.Contains(out, "2025") {
		t.Fatalf("expected season labels in output: %s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 4 + 1 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesSkipsAllNaN(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Empty", nil, []Series{
		{Name: "Middle", Values: []float64{math.NaN(), math.NaN()}},
	}, 20, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPointColumnSpansWidth(t *testing.T) {
	if got := pointColumn(0, 5, 20); got != 0 {
		t.Fatalf("expected first point at 0, got %d", got)
	}
	if got := pointColumn(4, 5, 20); got != 39 {
		t.Fatalf("expected last point at 39, got %d", got)
	}
	if got := pointColumn(0, 1, 20); got != 0 {
		t.Fatalf("expected single point at 0, got %d", got)
	}
}
