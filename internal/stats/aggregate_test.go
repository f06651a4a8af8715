package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/crease/internal/model"
)

type deliveryOpt func(*model.Delivery)

func ball(striker, bowler string, runs int, opts ...deliveryOpt) model.Delivery {
	d := model.Delivery{
		Season:      2024,
		MatchID:     "m1",
		Striker:     striker,
		Bowler:      bowler,
		BattingTeam: "CSK",
		BowlingTeam: "MI",
		BatsmanRuns: runs,
		TotalRuns:   runs,
		IsFour:      runs == 4,
		IsSix:       runs == 6,
		Phase:       model.PhasePowerplay,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func extras(kind model.ExtrasType, runs int) deliveryOpt {
	return func(d *model.Delivery) {
		d.Extras = kind
		d.TotalRuns = d.BatsmanRuns + runs
	}
}

func out(player string, how model.DismissalType) deliveryOpt {
	return func(d *model.Delivery) {
		d.PlayerDismissed = player
		d.Dismissal = how
	}
}

func season(year int) deliveryOpt {
	return func(d *model.Delivery) { d.Season = year }
}

func phase(p model.Phase) deliveryOpt {
	return func(d *model.Delivery) { d.Phase = p }
}

func repeat(n int, d model.Delivery) []model.Delivery {
	ds := make([]model.Delivery, n)
	for i := range ds {
		ds[i] = d
	}
	return ds
}

func findBatting(t *testing.T, rows []model.BattingAggregate, entity string) model.BattingAggregate {
	t.Helper()
	for _, r := range rows {
		if r.Entity == entity {
			return r
		}
	}
	t.Fatalf("no batting row for %q", entity)
	return model.BattingAggregate{}
}

func findBowling(t *testing.T, rows []model.BowlingAggregate, entity string) model.BowlingAggregate {
	t.Helper()
	for _, r := range rows {
		if r.Entity == entity {
			return r
		}
	}
	t.Fatalf("no bowling row for %q", entity)
	return model.BowlingAggregate{}
}

func TestAggregateBattingStrikeRate(t *testing.T) {
	var ds []model.Delivery
	ds = append(ds, repeat(10, ball("A", "X", 4))...)
	ds = append(ds, repeat(10, ball("A", "X", 0))...)
	ds = append(ds, ball("A", "X", 0, extras(model.ExtrasWide, 1)))

	rows := AggregateBatting(ds, GroupBy{Season: true})
	require.Len(t, rows, 1)
	a := rows[0]
	assert.Equal(t, model.RowKey{Season: 2024, Entity: "A"}, a.RowKey)
	assert.Equal(t, 40, a.Runs)
	assert.Equal(t, 20, a.BallsFaced)
	assert.Equal(t, 200.00, a.StrikeRate)
	assert.Equal(t, 10, a.DotBalls)
	assert.Equal(t, 10, a.Boundaries)
	assert.Equal(t, 10, a.Fours)
	assert.Equal(t, 0.5, a.DotBallPct)
	assert.True(t, math.IsNaN(a.BattingAvg), "batting_avg must be undefined without dismissals")
	assert.True(t, math.IsNaN(a.BallsPerDismissal))
	assert.Equal(t, 0.0, a.DismissalRate)
	assert.Equal(t, 41, a.TotalRuns)
	assert.Equal(t, 20, a.LegalBalls)
	assert.Equal(t, 12.3, a.RunRate)
}

func TestAggregateBattingNoBallCountsAsFaced(t *testing.T) {
	ds := []model.Delivery{
		ball("A", "X", 6, extras(model.ExtrasNoBall, 1)),
		ball("A", "X", 1),
	}
	a := findBatting(t, AggregateBatting(ds, GroupBy{}), "A")
	assert.Equal(t, 2, a.BallsFaced)
	assert.Equal(t, 1, a.LegalBalls)
	assert.Equal(t, 7, a.Runs)
	assert.Equal(t, 350.00, a.StrikeRate)
}

func TestAggregateBattingDismissalsFollowDismissedPlayer(t *testing.T) {
	ds := []model.Delivery{
		ball("A", "X", 1),
		ball("A", "X", 0, out("A", model.DismissalCaught)),
		ball("C", "X", 0, out("B", model.DismissalRunOut)),
		ball("C", "X", 0, extras(model.ExtrasWide, 1), out("C", model.DismissalStumped)),
		ball("C", "X", 3),
	}
	rows := AggregateBatting(ds, GroupBy{})

	a := findBatting(t, rows, "A")
	assert.Equal(t, 1, a.Dismissals)
	assert.Equal(t, 1.0, a.BattingAvg)
	assert.Equal(t, 2.0, a.BallsPerDismissal)
	assert.Equal(t, 0.5, a.DismissalRate)

	b := findBatting(t, rows, "B")
	assert.Equal(t, 1, b.Dismissals)
	assert.Equal(t, 0, b.BallsFaced)
	assert.True(t, math.IsNaN(b.StrikeRate), "strike_rate must be undefined without balls faced")
	assert.Equal(t, 0.0, b.BattingAvg)

	c := findBatting(t, rows, "C")
	assert.Equal(t, 1, c.Dismissals)
	assert.Equal(t, 2, c.BallsFaced)
	assert.Equal(t, 3.0, c.BattingAvg)
}

func TestAggregateBattingConservesRuns(t *testing.T) {
	ds := []model.Delivery{
		ball("A", "X", 4, season(2023)),
		ball("B", "X", 6, season(2023), phase(model.PhaseDeath)),
		ball("A", "Y", 0, extras(model.ExtrasWide, 5)),
		ball("B", "Y", 2, extras(model.ExtrasNoBall, 1), phase(model.PhaseMiddle)),
		ball("C", "Y", 0, extras(model.ExtrasLegBye, 1), out("D", model.DismissalRunOut)),
		ball("C", "Z", 1, season(2025)),
	}
	want := 0
	for _, d := range ds {
		want += d.BatsmanRuns
	}

	for _, by := range []GroupBy{
		{},
		{Season: true},
		{Season: true, Phase: true},
		{Phase: true, Entity: model.EntityTeam},
	} {
		got := 0
		for _, r := range AggregateBatting(ds, by) {
			got += r.Runs
			if !math.IsNaN(r.StrikeRate) {
				assert.GreaterOrEqual(t, r.StrikeRate, 0.0)
			}
		}
		assert.Equal(t, want, got, "runs conservation for %+v", by)
	}
}

func TestAggregateBattingKeyOrder(t *testing.T) {
	ds := []model.Delivery{
		ball("Z", "X", 1, season(2025), phase(model.PhaseDeath)),
		ball("A", "X", 1, season(2025), phase(model.PhaseDeath)),
		ball("A", "X", 1, season(2025), phase(model.PhasePowerplay)),
		ball("M", "X", 1, season(2023)),
	}
	rows := AggregateBatting(ds, GroupBy{Season: true, Phase: true})
	keys := make([]model.RowKey, len(rows))
	for i, r := range rows {
		keys[i] = r.RowKey
	}
	assert.Equal(t, []model.RowKey{
		{Season: 2023, Entity: "M", Phase: model.PhasePowerplay},
		{Season: 2025, Entity: "A", Phase: model.PhasePowerplay},
		{Season: 2025, Entity: "A", Phase: model.PhaseDeath},
		{Season: 2025, Entity: "Z", Phase: model.PhaseDeath},
	}, keys)
}

func TestAggregateBattingByTeam(t *testing.T) {
	ds := []model.Delivery{
		ball("A", "X", 4),
		ball("B", "X", 1, out("B", model.DismissalBowled)),
		ball("E", "Y", 2, func(d *model.Delivery) { d.BattingTeam = "RCB" }),
	}
	rows := AggregateBatting(ds, GroupBy{Entity: model.EntityTeam})
	require.Len(t, rows, 2)
	csk := findBatting(t, rows, "CSK")
	assert.Equal(t, 5, csk.Runs)
	assert.Equal(t, 1, csk.Dismissals)
	assert.Equal(t, 2, findBatting(t, rows, "RCB").Runs)
}

func TestAggregateBowlingEconomy(t *testing.T) {
	var ds []model.Delivery
	ds = append(ds, repeat(6, ball("A", "B", 4))...)
	ds = append(ds, repeat(6, ball("A", "B", 1))...)
	ds = append(ds, repeat(6, ball("A", "B", 0))...)

	b := findBowling(t, AggregateBowling(ds, GroupBy{Season: true}), "B")
	assert.Equal(t, 18, b.BallsBowled)
	assert.Equal(t, 30, b.RunsConceded)
	assert.Equal(t, 10.00, b.EconomyRate)
	assert.Equal(t, 6, b.DotBalls)
	assert.Equal(t, 0.33, b.DotBallPct)
	assert.Equal(t, 6, b.Boundaries)
	assert.Equal(t, 0.33, b.BoundaryPct)
	assert.Equal(t, 0.0, b.SixPct)
	assert.True(t, math.IsNaN(b.BowlingAvg), "bowling_avg must be undefined without wickets")
	assert.True(t, math.IsNaN(b.BallsPerWicket))
}

func TestAggregateBowlingLegalDeliveries(t *testing.T) {
	var ds []model.Delivery
	ds = append(ds, repeat(6, ball("A", "C", 0))...)
	ds = append(ds,
		ball("A", "C", 0, extras(model.ExtrasWide, 1)),
		ball("A", "C", 0, extras(model.ExtrasNoBall, 1)),
		ball("A", "C", 0, extras(model.ExtrasLegBye, 1)),
	)

	c := findBowling(t, AggregateBowling(ds, GroupBy{}), "C")
	assert.Equal(t, 7, c.BallsBowled)
	assert.Equal(t, 3, c.RunsConceded)
	assert.Equal(t, 2.57, c.EconomyRate)
	assert.Equal(t, 7, c.DotBalls)
	assert.Equal(t, 1.0, c.DotBallPct)
}

func TestAggregateBowlingWicketsCreditBowlerOnly(t *testing.T) {
	ds := []model.Delivery{
		ball("A", "B", 0, out("A", model.DismissalCaught)),
		ball("C", "B", 0, out("C", model.DismissalRunOut)),
		ball("D", "B", 0, extras(model.ExtrasWide, 1), out("D", model.DismissalStumped)),
		ball("E", "B", 0, out("E", model.DismissalOther)),
		ball("F", "B", 0, out("F", model.DismissalHitWicket)),
		ball("G", "B", 6),
	}
	b := findBowling(t, AggregateBowling(ds, GroupBy{}), "B")
	assert.Equal(t, 3, b.Wickets)
	assert.Equal(t, 5, b.BallsBowled)
	assert.Equal(t, 7, b.RunsConceded)
	assert.Equal(t, 2.33, b.BowlingAvg)
	assert.Equal(t, 1.67, b.BallsPerWicket)
	assert.Equal(t, 1, b.Sixes)
	assert.Equal(t, 0.2, b.SixPct)
}

func TestAggregateBowlingOnlyWidesIsUndefined(t *testing.T) {
	ds := []model.Delivery{
		ball("A", "W", 0, extras(model.ExtrasWide, 1)),
		ball("A", "W", 0, extras(model.ExtrasWide, 5)),
	}
	w := findBowling(t, AggregateBowling(ds, GroupBy{}), "W")
	assert.Equal(t, 0, w.BallsBowled)
	assert.Equal(t, 6, w.RunsConceded)
	assert.True(t, math.IsNaN(w.EconomyRate), "economy_rate must be undefined without legal balls")
	assert.True(t, math.IsNaN(w.DotBallPct))
	assert.True(t, math.IsNaN(w.BoundaryPct))
}

func TestAggregateBowlingByTeamAndPhase(t *testing.T) {
	ds := []model.Delivery{
		ball("A", "B", 1, phase(model.PhaseDeath)),
		ball("A", "K", 2, phase(model.PhaseDeath)),
		ball("A", "K", 3),
	}
	rows := AggregateBowling(ds, GroupBy{Phase: true, Entity: model.EntityTeam})
	require.Len(t, rows, 2)
	assert.Equal(t, model.RowKey{Entity: "MI", Phase: model.PhasePowerplay}, rows[0].RowKey)
	assert.Equal(t, 3, rows[0].RunsConceded)
	assert.Equal(t, model.RowKey{Entity: "MI", Phase: model.PhaseDeath}, rows[1].RowKey)
	assert.Equal(t, 3, rows[1].RunsConceded)
}

func TestFilterRows(t *testing.T) {
	rows := AggregateBatting([]model.Delivery{
		ball("A", "X", 1, season(2023)),
		ball("A", "X", 1, season(2024)),
	}, GroupBy{Season: true})
	kept := FilterRows(rows, func(r model.BattingAggregate) bool { return r.Season == 2024 })
	require.Len(t, kept, 1)
	assert.Equal(t, 2024, kept[0].Season)
}
