package stats

import (
	"sort"

	"github.com/verte-zerg/crease/internal/model"
)

// GroupBy selects the grouping key. The entity is always part of the key.
type GroupBy struct {
	Season bool
	Phase  bool
	Entity model.EntityKind
}

func (g GroupBy) key(entity string, d model.Delivery) model.RowKey {
	k := model.RowKey{Entity: entity}
	if g.Season {
		k.Season = d.Season
	}
	if g.Phase {
		k.Phase = d.Phase
	}
	return k
}

type keyIndex map[model.RowKey]int

// slot returns the index of the row for key, appending a zero row when new.
func slot[T any](idx keyIndex, rows *[]T, key model.RowKey, init func(model.RowKey) T) int {
	if i, ok := idx[key]; ok {
		return i
	}
	*rows = append(*rows, init(key))
	idx[key] = len(*rows) - 1
	return len(*rows) - 1
}

// AggregateBatting groups deliveries by key and computes batting counters and rates.
// Wides are excluded from every faced-ball counter; runs and dismissals use all deliveries.
func AggregateBatting(deliveries []model.Delivery, by GroupBy) []model.BattingAggregate {
	idx := keyIndex{}
	var rows []model.BattingAggregate
	newRow := func(k model.RowKey) model.BattingAggregate { return model.BattingAggregate{RowKey: k} }

	for _, d := range deliveries {
		entity := d.Striker
		if by.Entity == model.EntityTeam {
			entity = d.BattingTeam
		}
		i := slot(idx, &rows, by.key(entity, d), newRow)
		row := &rows[i]
		row.Runs += d.BatsmanRuns
		row.TotalRuns += d.TotalRuns
		if d.Extras.Legal() {
			row.LegalBalls++
		}
		if d.Extras != model.ExtrasWide {
			row.BallsFaced++
			if d.BatsmanRuns == 0 {
				row.DotBalls++
			}
			if d.BatsmanRuns == 4 || d.BatsmanRuns == 6 {
				row.Boundaries++
			}
			if d.IsFour {
				row.Fours++
			}
			if d.IsSix {
				row.Sixes++
			}
		}
		if d.PlayerDismissed != "" {
			out := entity
			if by.Entity == model.EntityPlayer {
				out = d.PlayerDismissed
			}
			j := slot(idx, &rows, by.key(out, d), newRow)
			rows[j].Dismissals++
		}
	}

	for i := range rows {
		fillBattingRates(&rows[i])
	}
	sortByKey(rows, func(r model.BattingAggregate) model.RowKey { return r.RowKey })
	return rows
}

func fillBattingRates(a *model.BattingAggregate) {
	a.StrikeRate = StrikeRate(a.Runs, a.BallsFaced)
	a.BattingAvg = Average(a.Runs, a.Dismissals)
	a.BallsPerDismissal = Average(a.BallsFaced, a.Dismissals)
	a.DotBallPct = Fraction(a.DotBalls, a.BallsFaced)
	a.DismissalRate = Fraction(a.Dismissals, a.BallsFaced)
	a.RunRate = RunRate(a.TotalRuns, a.LegalBalls)
}

// AggregateBowling groups deliveries by key and computes bowling counters and rates.
// Every run, extras included, is conceded; wides and no-balls are not balls bowled.
func AggregateBowling(deliveries []model.Delivery, by GroupBy) []model.BowlingAggregate {
	idx := keyIndex{}
	var rows []model.BowlingAggregate
	newRow := func(k model.RowKey) model.BowlingAggregate { return model.BowlingAggregate{RowKey: k} }

	for _, d := range deliveries {
		entity := d.Bowler
		if by.Entity == model.EntityTeam {
			entity = d.BowlingTeam
		}
		i := slot(idx, &rows, by.key(entity, d), newRow)
		row := &rows[i]
		row.RunsConceded += d.TotalRuns
		if d.Extras.Legal() {
			row.BallsBowled++
			if d.BatsmanRuns == 0 {
				row.DotBalls++
			}
		}
		if d.BatsmanRuns == 4 || d.BatsmanRuns == 6 {
			row.Boundaries++
		}
		if d.IsFour {
			row.Fours++
		}
		if d.IsSix {
			row.Sixes++
		}
		if d.Dismissal.CreditsBowler() {
			row.Wickets++
		}
	}

	for i := range rows {
		fillBowlingRates(&rows[i])
	}
	sortByKey(rows, func(r model.BowlingAggregate) model.RowKey { return r.RowKey })
	return rows
}

func fillBowlingRates(a *model.BowlingAggregate) {
	a.EconomyRate = EconomyRate(a.RunsConceded, a.BallsBowled)
	a.BowlingAvg = Average(a.RunsConceded, a.Wickets)
	a.BallsPerWicket = Average(a.BallsBowled, a.Wickets)
	a.DotBallPct = Fraction(a.DotBalls, a.BallsBowled)
	a.BoundaryPct = Fraction(a.Boundaries, a.BallsBowled)
	a.SixPct = Fraction(a.Sixes, a.BallsBowled)
}

// sortByKey orders rows by season, entity and phase, the order ranking ties fall back to.
func sortByKey[T any](rows []T, key func(T) model.RowKey) {
	sort.SliceStable(rows, func(i, j int) bool {
		return keyLess(key(rows[i]), key(rows[j]))
	})
}

func keyLess(a, b model.RowKey) bool {
	if a.Season != b.Season {
		return a.Season < b.Season
	}
	if a.Entity != b.Entity {
		return a.Entity < b.Entity
	}
	return phaseOrder(a.Phase) < phaseOrder(b.Phase)
}

func phaseOrder(p model.Phase) int {
	for i, phase := range model.Phases {
		if phase == p {
			return i + 1
		}
	}
	return 0
}

// FilterRows returns the rows for which keep reports true.
func FilterRows[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
