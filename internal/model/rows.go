package model

// Metric column names shared by aggregates, pre-aggregated tables and rankings.
const (
	MetricRuns              = "runs"
	MetricBallsFaced        = "balls_faced"
	MetricDismissals        = "dismissals"
	MetricDotBalls          = "dot_balls"
	MetricBoundaries        = "boundaries"
	MetricFours             = "fours"
	MetricSixes             = "sixes"
	MetricTotalRuns         = "total_runs"
	MetricLegalBalls        = "legal_balls"
	MetricStrikeRate        = "strike_rate"
	MetricBattingAvg        = "batting_avg"
	MetricBallsPerDismissal = "balls_per_dismissal"
	MetricDotBallPct        = "dot_ball_pct"
	MetricDismissalRate     = "dismissal_rate"
	MetricRunRate           = "run_rate"
	MetricWickets           = "wickets"
	MetricRunsConceded      = "runs_conceded"
	MetricBallsBowled       = "balls_bowled"
	MetricEconomyRate       = "economy_rate"
	MetricBowlingAvg        = "bowling_avg"
	MetricBallsPerWicket    = "balls_per_wicket"
	MetricBoundaryPct       = "boundary_pct"
	MetricSixPct            = "six_pct"
	MetricPerformanceIndex  = "performance_index"
)

var rateMetrics = map[string]struct{}{
	MetricStrikeRate:        {},
	MetricBattingAvg:        {},
	MetricBallsPerDismissal: {},
	MetricDotBallPct:        {},
	MetricDismissalRate:     {},
	MetricRunRate:           {},
	MetricEconomyRate:       {},
	MetricBowlingAvg:        {},
	MetricBallsPerWicket:    {},
	MetricBoundaryPct:       {},
	MetricSixPct:            {},
	MetricPerformanceIndex:  {},
}

// IsRateMetric reports whether a metric is a ratio that must not be summed across rows.
func IsRateMetric(name string) bool {
	_, ok := rateMetrics[name]
	return ok
}

// RowKey identifies an aggregate row. Season is 0 and Phase empty when they
// are not part of the grouping key.
type RowKey struct {
	Season int
	Entity string
	Phase  Phase
}

// MetricRow is a keyed row whose metrics can be looked up by column name.
// The value may be NaN when the metric is undefined for the row.
type MetricRow interface {
	Key() RowKey
	Metric(name string) (float64, bool)
}

// BattingColumns lists the batting aggregate metrics in display order.
var BattingColumns = []string{
	MetricRuns, MetricBallsFaced, MetricDismissals, MetricDotBalls, MetricBoundaries, MetricFours, MetricSixes,
	MetricStrikeRate, MetricBallsPerDismissal, MetricBattingAvg, MetricDotBallPct, MetricDismissalRate,
	MetricRunRate, MetricTotalRuns, MetricLegalBalls,
}

// BattingAggregate holds batting counters and rates for one key.
type BattingAggregate struct {
	RowKey

	Runs       int
	BallsFaced int
	Dismissals int
	DotBalls   int
	Boundaries int
	Fours      int
	Sixes      int
	TotalRuns  int
	LegalBalls int

	StrikeRate        float64
	BattingAvg        float64
	BallsPerDismissal float64
	DotBallPct        float64
	DismissalRate     float64
	RunRate           float64
}

// Key implements MetricRow.
func (a BattingAggregate) Key() RowKey { return a.RowKey }

// Metric implements MetricRow.
func (a BattingAggregate) Metric(name string) (float64, bool) {
	switch name {
	case MetricRuns:
		return float64(a.Runs), true
	case MetricBallsFaced:
		return float64(a.BallsFaced), true
	case MetricDismissals:
		return float64(a.Dismissals), true
	case MetricDotBalls:
		return float64(a.DotBalls), true
	case MetricBoundaries:
		return float64(a.Boundaries), true
	case MetricFours:
		return float64(a.Fours), true
	case MetricSixes:
		return float64(a.Sixes), true
	case MetricTotalRuns:
		return float64(a.TotalRuns), true
	case MetricLegalBalls:
		return float64(a.LegalBalls), true
	case MetricStrikeRate:
		return a.StrikeRate, true
	case MetricBattingAvg:
		return a.BattingAvg, true
	case MetricBallsPerDismissal:
		return a.BallsPerDismissal, true
	case MetricDotBallPct:
		return a.DotBallPct, true
	case MetricDismissalRate:
		return a.DismissalRate, true
	case MetricRunRate:
		return a.RunRate, true
	}
	return 0, false
}

// BowlingColumns lists the bowling aggregate metrics in display order.
var BowlingColumns = []string{
	MetricWickets, MetricRunsConceded, MetricBallsBowled, MetricDotBalls, MetricBoundaries, MetricFours, MetricSixes,
	MetricEconomyRate, MetricBallsPerWicket, MetricBowlingAvg, MetricDotBallPct, MetricBoundaryPct, MetricSixPct,
}

// BowlingAggregate holds bowling counters and rates for one key.
type BowlingAggregate struct {
	RowKey

	Wickets      int
	RunsConceded int
	BallsBowled  int
	DotBalls     int
	Boundaries   int
	Fours        int
	Sixes        int

	EconomyRate    float64
	BowlingAvg     float64
	BallsPerWicket float64
	DotBallPct     float64
	BoundaryPct    float64
	SixPct         float64
}

// Key implements MetricRow.
func (a BowlingAggregate) Key() RowKey { return a.RowKey }

// Metric implements MetricRow.
func (a BowlingAggregate) Metric(name string) (float64, bool) {
	switch name {
	case MetricWickets:
		return float64(a.Wickets), true
	case MetricRunsConceded:
		return float64(a.RunsConceded), true
	case MetricBallsBowled:
		return float64(a.BallsBowled), true
	case MetricDotBalls:
		return float64(a.DotBalls), true
	case MetricBoundaries:
		return float64(a.Boundaries), true
	case MetricFours:
		return float64(a.Fours), true
	case MetricSixes:
		return float64(a.Sixes), true
	case MetricEconomyRate:
		return a.EconomyRate, true
	case MetricBowlingAvg:
		return a.BowlingAvg, true
	case MetricBallsPerWicket:
		return a.BallsPerWicket, true
	case MetricDotBallPct:
		return a.DotBallPct, true
	case MetricBoundaryPct:
		return a.BoundaryPct, true
	case MetricSixPct:
		return a.SixPct, true
	}
	return 0, false
}

// PhaseRow is one row of a pre-aggregated season/phase table.
type PhaseRow struct {
	Season  int
	Entity  string
	Phase   Phase
	Metrics map[string]float64
}

// Key implements MetricRow.
func (r PhaseRow) Key() RowKey {
	return RowKey{Season: r.Season, Entity: r.Entity, Phase: r.Phase}
}

// Metric implements MetricRow.
func (r PhaseRow) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}
