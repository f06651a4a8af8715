package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/verte-zerg/crease/internal/model"
)

var (
	// ErrUnknownMetric is returned when a metric has no polarity entry or no row carries it.
	ErrUnknownMetric = errors.New("unknown metric")
	// ErrInvalidTopN is returned for a top-N count below one.
	ErrInvalidTopN = errors.New("top N must be at least 1")
)

// Direction is the sort order that puts the best value first.
type Direction int8

// Sort directions.
const (
	Descending Direction = iota
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseDirection accepts asc/ascending or desc/descending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Descending, errors.Newf("invalid sort direction %q (want asc or desc)", s)
}

// Polarity maps metric names to their ranking direction.
type Polarity map[string]Direction

// DefaultPolarity returns the built-in polarity table. Lower is better only for
// bowling cost metrics and dismissal frequency; performance_index is always descending.
// Boundary counts flip to ascending under the bowling scope, and dot balls and
// dismissals flip to ascending under the batting scope.
func DefaultPolarity() Polarity {
	p := Polarity{}
	for _, m := range []string{
		model.MetricEconomyRate, model.MetricRunsConceded, model.MetricBowlingAvg, model.MetricBallsPerWicket,
		model.MetricDismissalRate, model.MetricBoundaryPct, model.MetricSixPct,
	} {
		p[m] = Ascending
	}
	for _, m := range []string{
		model.MetricRuns, model.MetricWickets, model.MetricSixes, model.MetricFours, model.MetricBoundaries,
		model.MetricStrikeRate, model.MetricPerformanceIndex, model.MetricBattingAvg, model.MetricBallsPerDismissal,
		model.MetricDotBallPct, model.MetricRunRate, model.MetricTotalRuns, model.MetricBallsFaced,
		model.MetricBallsBowled, model.MetricDotBalls, model.MetricDismissals, model.MetricLegalBalls,
	} {
		p[m] = Descending
	}
	for _, m := range []string{model.MetricSixes, model.MetricFours, model.MetricBoundaries} {
		p[ScopeBowling+"."+m] = Ascending
	}
	for _, m := range []string{model.MetricDotBallPct, model.MetricDotBalls, model.MetricDismissals} {
		p[ScopeBatting+"."+m] = Ascending
	}
	return p
}

// Polarity scopes. Entries prefixed with "<scope>." apply only to rankings of
// that side: conceded boundaries are a bowling cost, dot balls and dismissals
// a batting cost.
const (
	ScopeBatting = "batting"
	ScopeBowling = "bowling"
)

// Scoped returns a copy of p in which "<scope>.<metric>" entries replace the
// plain metric entries.
func (p Polarity) Scoped(scope string) Polarity {
	out := make(Polarity, len(p))
	for k, v := range p {
		out[k] = v
	}
	prefix := scope + "."
	for k, v := range p {
		if metric, ok := strings.CutPrefix(k, prefix); ok {
			out[metric] = v
		}
	}
	return out
}

// WithOverrides returns a copy of p with the given metric directions applied.
// A plain metric override also replaces the built-in scoped entries for that
// metric; scoped overrides are kept.
func (p Polarity) WithOverrides(overrides map[string]string) (Polarity, error) {
	out := make(Polarity, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	explicit := make(map[string]bool, len(overrides))
	for metric := range overrides {
		explicit[strings.TrimSpace(metric)] = true
	}
	for metric, raw := range overrides {
		dir, err := ParseDirection(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "polarity for %s", metric)
		}
		metric = strings.TrimSpace(metric)
		out[metric] = dir
		if strings.Contains(metric, ".") {
			continue
		}
		for k := range p {
			if _, m, ok := strings.Cut(k, "."); ok && m == metric && !explicit[k] {
				delete(out, k)
			}
		}
	}
	return out, nil
}

// Direction looks up the direction for metric.
func (p Polarity) Direction(metric string) (Direction, error) {
	dir, ok := p[metric]
	if !ok {
		return Descending, errors.Wrapf(ErrUnknownMetric, "no ranking polarity for %q", metric)
	}
	return dir, nil
}

// Rank sorts a copy of rows by metric and keeps the first n. Ties keep the
// input order; rows whose value is NaN or missing sort last in either direction.
func Rank[T model.MetricRow](rows []T, metric string, n int, polarity Polarity) ([]T, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidTopN, "got %d", n)
	}
	dir, err := polarity.Direction(metric)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(rows))
	present := false
	for i, r := range rows {
		v, ok := r.Metric(metric)
		if !ok {
			v = math.NaN()
		} else {
			present = true
		}
		values[i] = v
	}
	if len(rows) > 0 && !present {
		return nil, errors.Wrapf(ErrUnknownMetric, "no row has metric %q", metric)
	}

	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return better(values[order[i]], values[order[j]], dir)
	})

	if n > len(order) {
		n = len(order)
	}
	out := make([]T, 0, n)
	for _, i := range order[:n] {
		out = append(out, rows[i])
	}
	return out, nil
}

func better(a, b float64, dir Direction) bool {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN:
		return false
	case bNaN:
		return true
	case dir == Ascending:
		return a < b
	default:
		return a > b
	}
}
