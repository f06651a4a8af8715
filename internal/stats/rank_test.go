package stats

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/crease/internal/model"
)

func phaseRow(entity string, metrics map[string]float64) model.PhaseRow {
	return model.PhaseRow{Season: 2024, Entity: entity, Phase: model.PhaseDeath, Metrics: metrics}
}

func entities(rows []model.PhaseRow) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Entity
	}
	return names
}

func TestRankTopNLargerThanRows(t *testing.T) {
	var rows []model.PhaseRow
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		rows = append(rows, phaseRow(name, map[string]float64{model.MetricRuns: float64(i * 10)}))
	}
	top, err := Rank(rows, model.MetricRuns, 10, DefaultPolarity())
	require.NoError(t, err)
	assert.Equal(t, []string{"G", "F", "E", "D", "C", "B", "A"}, entities(top))
}

func TestRankAscendingMetric(t *testing.T) {
	rows := []model.PhaseRow{
		phaseRow("A", map[string]float64{model.MetricEconomyRate: 9.5}),
		phaseRow("B", map[string]float64{model.MetricEconomyRate: 6.25}),
		phaseRow("C", map[string]float64{model.MetricEconomyRate: 7.8}),
	}
	top, err := Rank(rows, model.MetricEconomyRate, 2, DefaultPolarity())
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, entities(top))
}

func TestRankNaNLast(t *testing.T) {
	rows := []model.PhaseRow{
		phaseRow("A", map[string]float64{model.MetricBattingAvg: math.NaN()}),
		phaseRow("B", map[string]float64{model.MetricBattingAvg: 31.5}),
		phaseRow("C", map[string]float64{}),
		phaseRow("D", map[string]float64{model.MetricBattingAvg: 44}),
	}
	top, err := Rank(rows, model.MetricBattingAvg, 4, DefaultPolarity())
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "B", "A", "C"}, entities(top))

	asc, err := Rank(rows, model.MetricBattingAvg, 4, Polarity{model.MetricBattingAvg: Ascending})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "D", "A", "C"}, entities(asc))
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	rows := []model.PhaseRow{
		phaseRow("A", map[string]float64{model.MetricWickets: 5}),
		phaseRow("B", map[string]float64{model.MetricWickets: 7}),
		phaseRow("C", map[string]float64{model.MetricWickets: 5}),
		phaseRow("D", map[string]float64{model.MetricWickets: 7}),
	}
	top, err := Rank(rows, model.MetricWickets, 3, DefaultPolarity())
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "D", "A"}, entities(top))
}

func TestRankIsIdempotent(t *testing.T) {
	rows := []model.PhaseRow{
		phaseRow("A", map[string]float64{model.MetricStrikeRate: 140}),
		phaseRow("B", map[string]float64{model.MetricStrikeRate: 180}),
		phaseRow("C", map[string]float64{model.MetricStrikeRate: 140}),
		phaseRow("D", map[string]float64{model.MetricStrikeRate: math.NaN()}),
	}
	once, err := Rank(rows, model.MetricStrikeRate, 3, DefaultPolarity())
	require.NoError(t, err)
	twice, err := Rank(once, model.MetricStrikeRate, 3, DefaultPolarity())
	require.NoError(t, err)
	assert.Equal(t, entities(once), entities(twice))
	assert.Equal(t, []string{"B", "A", "C"}, entities(once))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	rows := []model.PhaseRow{
		phaseRow("A", map[string]float64{model.MetricRuns: 1}),
		phaseRow("B", map[string]float64{model.MetricRuns: 2}),
	}
	_, err := Rank(rows, model.MetricRuns, 1, DefaultPolarity())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, entities(rows))
}

func TestRankAggregates(t *testing.T) {
	rows := AggregateBowling([]model.Delivery{
		ball("A", "X", 0, out("A", model.DismissalBowled)),
		ball("A", "Y", 0, out("A", model.DismissalBowled)),
		ball("B", "Y", 0, out("B", model.DismissalLBW)),
	}, GroupBy{})
	top, err := Rank(rows, model.MetricWickets, 1, DefaultPolarity())
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Y", top[0].Entity)
}

func TestRankErrors(t *testing.T) {
	rows := []model.PhaseRow{phaseRow("A", map[string]float64{model.MetricRuns: 1})}

	_, err := Rank(rows, "nonexistent_metric", 3, DefaultPolarity())
	assert.True(t, errors.Is(err, ErrUnknownMetric), "got %v", err)

	_, err = Rank(rows, model.MetricWickets, 3, DefaultPolarity())
	assert.True(t, errors.Is(err, ErrUnknownMetric), "got %v", err)

	_, err = Rank(rows, model.MetricRuns, 0, DefaultPolarity())
	assert.True(t, errors.Is(err, ErrInvalidTopN), "got %v", err)

	empty, err := Rank([]model.PhaseRow{}, model.MetricRuns, 3, DefaultPolarity())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPolarityOverrides(t *testing.T) {
	p, err := DefaultPolarity().WithOverrides(map[string]string{
		model.MetricDotBallPct: "asc",
		"custom_metric":        "Descending",
	})
	require.NoError(t, err)
	dir, err := p.Direction(model.MetricDotBallPct)
	require.NoError(t, err)
	assert.Equal(t, Ascending, dir)
	dir, err = p.Direction("custom_metric")
	require.NoError(t, err)
	assert.Equal(t, Descending, dir)

	base, err := DefaultPolarity().Direction(model.MetricDotBallPct)
	require.NoError(t, err)
	assert.Equal(t, Descending, base)

	_, err = DefaultPolarity().WithOverrides(map[string]string{model.MetricRuns: "sideways"})
	assert.Error(t, err)
}

func TestDefaultPolarity(t *testing.T) {
	p := DefaultPolarity()
	for metric, want := range map[string]Direction{
		model.MetricEconomyRate:      Ascending,
		model.MetricBowlingAvg:       Ascending,
		model.MetricDismissalRate:    Ascending,
		model.MetricPerformanceIndex: Descending,
		model.MetricStrikeRate:       Descending,
		model.MetricWickets:          Descending,
	} {
		got, err := p.Direction(metric)
		require.NoError(t, err)
		assert.Equal(t, want, got, metric)
	}
}

func TestPolarityScoped(t *testing.T) {
	bowling := DefaultPolarity().Scoped(ScopeBowling)
	dir, err := bowling.Direction(model.MetricSixes)
	require.NoError(t, err)
	assert.Equal(t, Ascending, dir)
	dir, err = bowling.Direction(model.MetricPerformanceIndex)
	require.NoError(t, err)
	assert.Equal(t, Descending, dir)

	dir, err = DefaultPolarity().Direction(model.MetricSixes)
	require.NoError(t, err)
	assert.Equal(t, Descending, dir)

	p, err := DefaultPolarity().WithOverrides(map[string]string{"bowling.sixes": "desc"})
	require.NoError(t, err)
	dir, err = p.Scoped(ScopeBowling).Direction(model.MetricSixes)
	require.NoError(t, err)
	assert.Equal(t, Descending, dir)
}

func TestPolarityBattingScope(t *testing.T) {
	batting := DefaultPolarity().Scoped(ScopeBatting)
	for _, metric := range []string{model.MetricDotBallPct, model.MetricDotBalls, model.MetricDismissals, model.MetricDismissalRate} {
		dir, err := batting.Direction(metric)
		require.NoError(t, err)
		assert.Equal(t, Ascending, dir, metric)
	}
	dir, err := batting.Direction(model.MetricSixes)
	require.NoError(t, err)
	assert.Equal(t, Descending, dir)

	bowling := DefaultPolarity().Scoped(ScopeBowling)
	dir, err = bowling.Direction(model.MetricDotBallPct)
	require.NoError(t, err)
	assert.Equal(t, Descending, dir)

	rows := []model.PhaseRow{
		phaseRow("Blocker", map[string]float64{model.MetricDotBallPct: 0.9}),
		phaseRow("Aggressor", map[string]float64{model.MetricDotBallPct: 0.1}),
	}
	ranked, err := Rank(rows, model.MetricDotBallPct, 1, batting)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aggressor"}, entities(ranked))
}

func TestPlainOverrideReplacesScopedDefaults(t *testing.T) {
	p, err := DefaultPolarity().WithOverrides(map[string]string{model.MetricDotBallPct: "desc"})
	require.NoError(t, err)
	dir, err := p.Scoped(ScopeBatting).Direction(model.MetricDotBallPct)
	require.NoError(t, err)
	assert.Equal(t, Descending, dir)

	p, err = DefaultPolarity().WithOverrides(map[string]string{
		model.MetricSixes: "asc",
		"bowling.sixes":   "desc",
	})
	require.NoError(t, err)
	dir, err = p.Direction(model.MetricSixes)
	require.NoError(t, err)
	assert.Equal(t, Ascending, dir)
	dir, err = p.Scoped(ScopeBowling).Direction(model.MetricSixes)
	require.NoError(t, err)
	assert.Equal(t, Descending, dir)
}
