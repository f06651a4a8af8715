package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestWriteAndReadTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bundle", "ipl.db")

	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	header := []string{"season", "striker", "phase", "strike_rate"}
	records := [][]string{
		{"2024", "V Kohli", "Powerplay", "154.7"},
		{"2024", "RD Gaikwad", "Death", ""},
	}
	if err := w.WriteTable(ctx, "player_batting", header, records); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.WriteTable(ctx, "player_batting", header, records[:1]); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = r.Close() }()

	tables, err := r.Tables(ctx)
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	if len(tables) != 1 || tables[0] != "player_batting" {
		t.Fatalf("unexpected tables: %v", tables)
	}

	gotHeader, gotRows, err := r.ReadTable(ctx, "player_batting")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(gotHeader) != 4 || gotHeader[1] != "striker" {
		t.Fatalf("unexpected header: %v", gotHeader)
	}
	if len(gotRows) != 1 {
		t.Fatalf("expected rewrite to replace rows, got %d", len(gotRows))
	}
	if gotRows[0][1] != "V Kohli" || gotRows[0][3] != "154.7" {
		t.Fatalf("unexpected row: %v", gotRows[0])
	}

	if err := r.WriteTable(ctx, "x", header, nil); err == nil {
		t.Fatalf("expected read-only bundle to reject writes")
	}
}

func TestReadTableNullCells(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ipl.db")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = w.Close() }()
	if err := w.WriteTable(ctx, "team_bowling", []string{"season", "economy_rate"}, [][]string{{"2023", ""}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, rows, err := w.ReadTable(ctx, "team_bowling")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rows[0][1] != "" {
		t.Fatalf("expected NULL to read as empty, got %q", rows[0][1])
	}
}

func TestReadTableMissing(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ipl.db")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = w.Close() }()
	if _, _, err := w.ReadTable(ctx, "deliveries"); !errors.Is(err, ErrNoTable) {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}
}

func TestOpenMissingBundle(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.db")); err == nil {
		t.Fatalf("expected error for missing bundle")
	}
}
