package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/crease/internal/model"
)

// DeliveryColumns lists the ball-by-ball columns in file order.
var DeliveryColumns = []string{
	"season", "match_id", "striker", "bowler", "batting_team", "bowling_team", "ball",
	"batsman_runs", "total_runs", "extras_type", "is_four", "is_six",
	"player_dismissed", "wicket_type", "phase",
}

func indexColumns(id ID, header, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := cols[h]; dup {
			return nil, &LoadError{Dataset: id, Column: h, Kind: ErrSchema, Detail: "duplicate column"}
		}
		cols[h] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, &LoadError{Dataset: id, Column: name, Kind: ErrSchema, Detail: "missing column"}
		}
	}
	return cols, nil
}

// cursor reads typed cells from one record and keeps the first error.
type cursor struct {
	id   ID
	cols map[string]int
	rec  []string
	row  int
	err  error
}

func (c *cursor) fail(col, detail string) {
	if c.err == nil {
		c.err = &LoadError{Dataset: c.id, Row: c.row, Column: col, Kind: ErrValue, Detail: detail}
	}
}

func (c *cursor) str(col string) string {
	i, ok := c.cols[col]
	if !ok || i >= len(c.rec) {
		return ""
	}
	v := strings.TrimSpace(c.rec[i])
	if isNA(v) {
		return ""
	}
	return v
}

func (c *cursor) need(col string) string {
	v := c.str(col)
	if v == "" {
		c.fail(col, "empty required field")
	}
	return v
}

func (c *cursor) integer(col string) int {
	v := c.need(col)
	if v == "" {
		return 0
	}
	n, err := parseInt(v)
	if err != nil {
		c.fail(col, strconv.Quote(v)+" is not an integer")
	}
	return n
}

func (c *cursor) flag(col string) bool {
	v := c.need(col)
	switch strings.ToLower(v) {
	case "":
		return false
	case "1", "1.0", "true", "t", "yes":
		return true
	case "0", "0.0", "false", "f", "no":
		return false
	}
	c.fail(col, strconv.Quote(v)+" is not a boolean")
	return false
}

func (c *cursor) season(col string) int {
	v := c.need(col)
	if v == "" {
		return 0
	}
	s, err := model.ParseSeason(v)
	if err != nil {
		c.fail(col, err.Error())
	}
	return s
}

func (c *cursor) phase(col string) model.Phase {
	v := c.need(col)
	if v == "" {
		return ""
	}
	p, err := model.ParsePhase(v)
	if err != nil {
		c.fail(col, err.Error())
	}
	return p
}

// ball accepts a plain ball number or an over.ball label such as "5.3".
func (c *cursor) ball(col string) int {
	v := c.need(col)
	if v == "" {
		return 0
	}
	if n, err := parseInt(v); err == nil {
		return n
	}
	over, ball, ok := strings.Cut(v, ".")
	o, oerr := strconv.Atoi(over)
	b, berr := strconv.Atoi(ball)
	if !ok || oerr != nil || berr != nil || o < 0 || b < 0 {
		c.fail(col, strconv.Quote(v)+" is not a ball number")
		return 0
	}
	return o*6 + b
}

func isNA(v string) bool {
	switch strings.ToLower(v) {
	case "", "na", "nan", "none", "null":
		return true
	}
	return false
}

func parseInt(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

// ParseDeliveries types the ball-by-ball table. Any bad row fails the whole table.
func ParseDeliveries(t RawTable) ([]model.Delivery, error) {
	cols, err := indexColumns(IDDeliveries, t.Header, DeliveryColumns)
	if err != nil {
		return nil, err
	}
	out := make([]model.Delivery, 0, len(t.Records))
	for i, rec := range t.Records {
		c := &cursor{id: IDDeliveries, cols: cols, rec: rec, row: i + 1}
		d := model.Delivery{
			Season:          c.season("season"),
			MatchID:         c.need("match_id"),
			Striker:         c.need("striker"),
			Bowler:          c.need("bowler"),
			BattingTeam:     c.need("batting_team"),
			BowlingTeam:     c.need("bowling_team"),
			Ball:            c.ball("ball"),
			BatsmanRuns:     c.integer("batsman_runs"),
			TotalRuns:       c.integer("total_runs"),
			IsFour:          c.flag("is_four"),
			IsSix:           c.flag("is_six"),
			PlayerDismissed: c.str("player_dismissed"),
			Phase:           c.phase("phase"),
		}
		if d.Extras, err = model.ParseExtrasType(c.str("extras_type")); err != nil {
			c.fail("extras_type", err.Error())
		}
		if d.Dismissal, err = model.ParseDismissalType(c.str("wicket_type")); err != nil {
			c.fail("wicket_type", err.Error())
		}
		if c.err == nil && (d.BatsmanRuns < 0 || d.TotalRuns < d.BatsmanRuns) {
			c.fail("total_runs", "runs must satisfy 0 <= batsman_runs <= total_runs")
		}
		if c.err != nil {
			return nil, c.err
		}
		out = append(out, d)
	}
	return out, nil
}

func skipColumn(name string) bool {
	return name == "" || name == "index" || strings.HasPrefix(name, "Unnamed:")
}

// ParsePhaseRows types a pre-aggregated season/phase table. Every column other
// than the keys is numeric; empty cells become NaN.
func ParsePhaseRows(spec Spec, t RawTable) ([]model.PhaseRow, error) {
	required := []string{spec.EntityColumn, "phase"}
	if !spec.SeasonOptional {
		required = append(required, "season")
	}
	cols, err := indexColumns(spec.ID, t.Header, required)
	if err != nil {
		return nil, err
	}
	_, hasSeason := cols["season"]

	var metrics []string
	for _, h := range t.Header {
		if h == spec.EntityColumn || h == "phase" || h == "season" || skipColumn(h) {
			continue
		}
		metrics = append(metrics, h)
	}

	out := make([]model.PhaseRow, 0, len(t.Records))
	for i, rec := range t.Records {
		c := &cursor{id: spec.ID, cols: cols, rec: rec, row: i + 1}
		r := model.PhaseRow{
			Entity:  c.need(spec.EntityColumn),
			Phase:   c.phase("phase"),
			Metrics: make(map[string]float64, len(metrics)),
		}
		if hasSeason {
			r.Season = c.season("season")
		}
		for _, m := range metrics {
			v := c.str(m)
			if v == "" {
				r.Metrics[m] = math.NaN()
				continue
			}
			f, perr := strconv.ParseFloat(v, 64)
			if perr != nil {
				c.fail(m, strconv.Quote(v)+" is not a number")
				break
			}
			r.Metrics[m] = f
		}
		if c.err != nil {
			return nil, c.err
		}
		out = append(out, r)
	}
	return out, nil
}
