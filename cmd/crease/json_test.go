package main

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/crease/internal/model"
	"github.com/verte-zerg/crease/internal/stats"
	"github.com/verte-zerg/crease/internal/view"
)

func TestJSONViewEncodesGapsAsNull(t *testing.T) {
	res := view.Result{
		Mode:  view.ModeTeamBatting,
		Title: "Team Batting: CSK",
		Chart: &stats.Chart{
			Title:   "Team Batting: CSK",
			Entity:  "CSK",
			Metric:  "run_rate",
			Seasons: []int{2023, 2024},
			Series:  []stats.PhaseSeries{{Phase: model.PhaseDeath, Values: []float64{math.NaN(), 10.5}}},
			Best:    &stats.Point{Season: 2024, Phase: model.PhaseDeath, Value: 10.5},
		},
		Recommendations: []string{"rotate strike"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, toJSONView(res, false)))
	out := buf.String()
	assert.Contains(t, out, `"values": [`)
	assert.Contains(t, out, "null")
	assert.Contains(t, out, "10.5")
	assert.NotContains(t, out, "NaN")
	assert.NotContains(t, out, "rotate strike")
}

func TestJSONRowsKeepKnownMetrics(t *testing.T) {
	rows := []model.PhaseRow{
		{Season: 2024, Entity: "Batter A", Phase: model.PhasePowerplay, Metrics: map[string]float64{"runs": 12, "strike_rate": math.NaN()}},
	}
	got := toJSONRows(rows, []string{"runs", "strike_rate", "sixes"})
	require.Len(t, got, 1)
	assert.Equal(t, "Batter A", got[0].Entity)
	require.NotNil(t, got[0].Metrics["runs"])
	assert.InDelta(t, 12.0, *got[0].Metrics["runs"], 1e-9)
	v, ok := got[0].Metrics["strike_rate"]
	assert.True(t, ok)
	assert.Nil(t, v)
	_, ok = got[0].Metrics["sixes"]
	assert.False(t, ok)
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, checkFormat("json"))
	assert.Error(t, checkFormat("yaml"))
}

func TestWithColumnAddsSortMetric(t *testing.T) {
	base := []string{"runs", "strike_rate"}
	assert.Equal(t, base, withColumn(base, ""))
	assert.Equal(t, base, withColumn(base, "runs"))
	assert.Equal(t, []string{"runs", "strike_rate", "run_rate"}, withColumn(base, "run_rate"))
	assert.Len(t, base, 2)
}
