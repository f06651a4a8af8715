package stats

import (
	"math"

	"github.com/verte-zerg/crease/internal/model"
)

// CombineByEntity folds pre-aggregated rows into one row per entity, in order of
// first appearance. Count metrics are summed; rate metrics are averaged over the
// rows where they are defined. Season is dropped; Phase is kept only when every
// folded row shares it.
func CombineByEntity(rows []model.PhaseRow) []model.PhaseRow {
	type acc struct {
		row    model.PhaseRow
		counts map[string]int
		mixed  bool
	}
	idx := map[string]int{}
	var accs []*acc
	for _, r := range rows {
		i, ok := idx[r.Entity]
		if !ok {
			accs = append(accs, &acc{
				row:    model.PhaseRow{Entity: r.Entity, Phase: r.Phase, Metrics: map[string]float64{}},
				counts: map[string]int{},
			})
			i = len(accs) - 1
			idx[r.Entity] = i
		}
		a := accs[i]
		if a.row.Phase != r.Phase {
			a.mixed = true
		}
		for name, v := range r.Metrics {
			if _, seen := a.row.Metrics[name]; !seen {
				a.row.Metrics[name] = 0
			}
			if math.IsNaN(v) {
				continue
			}
			a.row.Metrics[name] += v
			a.counts[name]++
		}
	}

	out := make([]model.PhaseRow, 0, len(accs))
	for _, a := range accs {
		for name, sum := range a.row.Metrics {
			n := a.counts[name]
			switch {
			case n == 0:
				a.row.Metrics[name] = math.NaN()
			case model.IsRateMetric(name):
				a.row.Metrics[name] = round2(sum / float64(n))
			}
		}
		if a.mixed {
			a.row.Phase = ""
		}
		out = append(out, a.row)
	}
	return out
}
