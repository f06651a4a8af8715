package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/verte-zerg/crease/internal/model"
)

// PhaseColors maps each phase to its chart color.
var PhaseColors = map[model.Phase]string{
	model.PhasePowerplay: "#FF6B6B",
	model.PhaseMiddle:    "#4ECDC4",
	model.PhaseDeath:     "#45B7D1",
}

// Point is a single chart value.
type Point struct {
	Season int
	Phase  model.Phase
	Value  float64
}

// PhaseSeries holds one phase's values aligned to Chart.Seasons; NaN marks a gap.
type PhaseSeries struct {
	Phase  model.Phase
	Values []float64
}

// Chart is a per-phase time series of one metric for one entity.
type Chart struct {
	Title   string
	Entity  string
	Metric  string
	Seasons []int
	Series  []PhaseSeries
	Best    *Point
}

// Empty reports whether the chart has nothing to draw.
func (c Chart) Empty() bool {
	return len(c.Seasons) == 0 || len(c.Series) == 0
}

// BuildPhaseChart shapes the entity's rows into one series per phase across
// seasons and records the maximum point. Duplicate season/phase rows keep the first.
func BuildPhaseChart(rows []model.PhaseRow, entity, metric string) (Chart, error) {
	chart := Chart{
		Title:  fmt.Sprintf("Evolution of %s across seasons", metric),
		Entity: entity,
		Metric: metric,
	}

	type cell struct {
		season int
		phase  model.Phase
	}
	values := map[cell]float64{}
	seasonSet := map[int]struct{}{}
	found := false
	for _, r := range rows {
		if r.Entity != entity {
			continue
		}
		v, ok := r.Metric(metric)
		if !ok {
			continue
		}
		found = true
		c := cell{season: r.Season, phase: r.Phase}
		if _, dup := values[c]; dup {
			continue
		}
		values[c] = v
		seasonSet[r.Season] = struct{}{}
	}
	if !found {
		for _, r := range rows {
			if r.Entity == entity {
				return Chart{}, errors.Wrapf(ErrUnknownMetric, "no column %q", metric)
			}
		}
		return chart, nil
	}

	for s := range seasonSet {
		chart.Seasons = append(chart.Seasons, s)
	}
	sort.Ints(chart.Seasons)

	for _, phase := range model.Phases {
		series := PhaseSeries{Phase: phase, Values: make([]float64, len(chart.Seasons))}
		defined := false
		for i, season := range chart.Seasons {
			v, ok := values[cell{season: season, phase: phase}]
			if !ok || math.IsNaN(v) {
				series.Values[i] = math.NaN()
				continue
			}
			series.Values[i] = v
			defined = true
			if chart.Best == nil || v > chart.Best.Value ||
				(v == chart.Best.Value && season < chart.Best.Season) {
				chart.Best = &Point{Season: season, Phase: phase, Value: v}
			}
		}
		if defined {
			chart.Series = append(chart.Series, series)
		}
	}
	return chart, nil
}

// SeasonLabels formats the chart seasons for an x axis.
func (c Chart) SeasonLabels() []string {
	labels := make([]string, len(c.Seasons))
	for i, s := range c.Seasons {
		labels[i] = fmt.Sprintf("%d", s)
	}
	return labels
}
