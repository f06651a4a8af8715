package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Player", "Runs", "SR"}
	rows := [][]string{
		{"V Kohli", "741", "154.70"},
		{"RD Gaikwad", "583", "141.16"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "Player      Runs      SR" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "──────────  ────  ──────" {
		t.Fatalf("unexpected rule line: %q", lines[1])
	}
	if lines[2] != "V Kohli      741  154.70" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
	if lines[3] != "RD Gaikwad   583  141.16" {
		t.Fatalf("unexpected row line: %q", lines[3])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected no lines, got %v", lines)
	}
}
