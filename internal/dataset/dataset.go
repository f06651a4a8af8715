// Package dataset loads the static cricket tables from a CSV directory, a ZIP
// archive or a SQLite bundle and memoizes them for the life of the process.
package dataset

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ID names a dataset independently of where it is stored.
type ID string

// Known datasets.
const (
	IDDeliveries    ID = "deliveries"
	IDTeamBatting   ID = "team-batting"
	IDTeamBowling   ID = "team-bowling"
	IDPlayerBatting ID = "player-batting"
	IDPlayerBowling ID = "player-bowling"
	IDRecentBatting ID = "recent-batting"
	IDRecentBowling ID = "recent-bowling"
)

// DefaultArchive is the archive file name looked up in the data directory.
const DefaultArchive = "ipl_phase_dataset.zip"

// Spec describes where a dataset lives and how its rows are keyed.
type Spec struct {
	ID             ID
	File           string
	EntityColumn   string
	SeasonOptional bool
}

// Table is the bundle table name for the dataset.
func (s Spec) Table() string {
	return strings.ReplaceAll(string(s.ID), "-", "_")
}

var specs = []Spec{
	{ID: IDDeliveries, File: "ipl_phase_dataset.csv"},
	{ID: IDTeamBatting, File: "season_team_batting_phase.csv", EntityColumn: "cleaned_team_batting"},
	{ID: IDTeamBowling, File: "season_team_bowling_phase.csv", EntityColumn: "cleaned_team_bowling"},
	{ID: IDPlayerBatting, File: "season_phase_batting_df.csv", EntityColumn: "striker"},
	{ID: IDPlayerBowling, File: "season_phase_bowling_df.csv", EntityColumn: "bowler"},
	{ID: IDRecentBatting, File: "player_batting_20_25.csv", EntityColumn: "striker", SeasonOptional: true},
	{ID: IDRecentBowling, File: "player_bowling_20_25.csv", EntityColumn: "bowler", SeasonOptional: true},
}

// Specs lists every known dataset.
func Specs() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Lookup returns the Spec registered for id.
func Lookup(id ID) (Spec, error) {
	for _, s := range specs {
		if s.ID == id {
			return s, nil
		}
	}
	return Spec{}, errors.Newf("unknown dataset %q", id)
}

var (
	// ErrMissing is returned when no source holds the dataset. Views degrade to no data.
	ErrMissing = errors.New("dataset not found")
	// ErrSchema is returned when a required column is absent or a row is malformed.
	ErrSchema = errors.New("dataset schema mismatch")
	// ErrValue is returned for an unparseable value or an empty required field.
	ErrValue = errors.New("invalid dataset value")
)

// LoadError locates a schema or value problem. Row is the 1-based data row,
// not counting the header; it is 0 for header-level problems.
type LoadError struct {
	Dataset ID
	Row     int
	Column  string
	Kind    error
	Detail  string
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Dataset))
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %s", e.Column)
	}
	fmt.Fprintf(&b, ": %v", e.Kind)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Kind }
