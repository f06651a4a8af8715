package stats

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/crease/internal/model"
)

func seasonRow(season int, entity string, phase model.Phase, sr float64) model.PhaseRow {
	return model.PhaseRow{
		Season: season, Entity: entity, Phase: phase,
		Metrics: map[string]float64{model.MetricStrikeRate: sr},
	}
}

func TestBuildPhaseChart(t *testing.T) {
	rows := []model.PhaseRow{
		seasonRow(2023, "CSK", model.PhaseDeath, 165),
		seasonRow(2022, "CSK", model.PhasePowerplay, 128.4),
		seasonRow(2023, "CSK", model.PhasePowerplay, 141.2),
		seasonRow(2022, "MI", model.PhaseDeath, 190),
		seasonRow(2022, "CSK", model.PhaseDeath, 171.5),
		seasonRow(2022, "CSK", model.PhaseDeath, 99),
	}
	chart, err := BuildPhaseChart(rows, "CSK", model.MetricStrikeRate)
	require.NoError(t, err)

	assert.Equal(t, "Evolution of strike_rate across seasons", chart.Title)
	assert.Equal(t, []int{2022, 2023}, chart.Seasons)
	assert.Equal(t, []string{"2022", "2023"}, chart.SeasonLabels())
	require.Len(t, chart.Series, 2)
	assert.Equal(t, model.PhasePowerplay, chart.Series[0].Phase)
	assert.Equal(t, []float64{128.4, 141.2}, chart.Series[0].Values)
	assert.Equal(t, model.PhaseDeath, chart.Series[1].Phase)
	assert.Equal(t, []float64{171.5, 165}, chart.Series[1].Values)

	require.NotNil(t, chart.Best)
	assert.Equal(t, Point{Season: 2022, Phase: model.PhaseDeath, Value: 171.5}, *chart.Best)
	assert.Equal(t, "Best: 171.50 in 2022 (Death)", BestLabel(*chart.Best))
}

func TestBuildPhaseChartGapsAndTies(t *testing.T) {
	rows := []model.PhaseRow{
		seasonRow(2021, "RR", model.PhaseMiddle, 120),
		seasonRow(2022, "RR", model.PhaseMiddle, math.NaN()),
		seasonRow(2023, "RR", model.PhaseMiddle, 135),
		seasonRow(2022, "RR", model.PhasePowerplay, 135),
	}
	chart, err := BuildPhaseChart(rows, "RR", model.MetricStrikeRate)
	require.NoError(t, err)
	require.Len(t, chart.Series, 2)
	middle := chart.Series[1]
	assert.Equal(t, model.PhaseMiddle, middle.Phase)
	assert.Equal(t, 120.0, middle.Values[0])
	assert.True(t, math.IsNaN(middle.Values[1]))
	assert.Equal(t, 135.0, middle.Values[2])

	require.NotNil(t, chart.Best)
	assert.Equal(t, 2022, chart.Best.Season)
	assert.Equal(t, model.PhasePowerplay, chart.Best.Phase)
}

func TestBuildPhaseChartUnknownEntity(t *testing.T) {
	chart, err := BuildPhaseChart([]model.PhaseRow{seasonRow(2022, "CSK", model.PhaseDeath, 150)}, "KKR", model.MetricStrikeRate)
	require.NoError(t, err)
	assert.True(t, chart.Empty())
	assert.Nil(t, chart.Best)
}

func TestBuildPhaseChartUnknownMetric(t *testing.T) {
	_, err := BuildPhaseChart([]model.PhaseRow{seasonRow(2022, "CSK", model.PhaseDeath, 150)}, "CSK", "nope")
	assert.True(t, errors.Is(err, ErrUnknownMetric), "got %v", err)
}
