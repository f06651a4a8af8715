package view

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/verte-zerg/crease/internal/dataset"
	"github.com/verte-zerg/crease/internal/logging"
	"github.com/verte-zerg/crease/internal/model"
	"github.com/verte-zerg/crease/internal/stats"
)

// Datasets provides parsed tables. dataset.Cache implements it.
type Datasets interface {
	Deliveries(ctx context.Context) ([]model.Delivery, error)
	PhaseRows(ctx context.Context, id dataset.ID) ([]model.PhaseRow, error)
}

// Deps are the collaborators every handler receives.
type Deps struct {
	Datasets    Datasets
	Polarity    stats.Polarity
	RecentSince int
	Logger      *logging.Logger
}

func (d Deps) log() *logging.Logger {
	if d.Logger == nil {
		return logging.Default()
	}
	return d.Logger
}

func (d Deps) polarity(bowling bool) stats.Polarity {
	p := d.Polarity
	if p == nil {
		p = stats.DefaultPolarity()
	}
	if bowling {
		return p.Scoped(stats.ScopeBowling)
	}
	return p.Scoped(stats.ScopeBatting)
}

// Dispatch normalizes and validates p, then builds the view with the mode's handler.
func Dispatch(ctx context.Context, deps Deps, p Params) (Result, error) {
	p = p.Normalize()
	if err := Validate(ctx, p); err != nil {
		return Result{}, err
	}
	start := time.Now()

	var (
		res Result
		err error
	)
	switch p.Mode {
	case ModeHome:
		res = homeView()
	case ModeTeamBatting:
		res, err = teamView(ctx, deps, p, dataset.IDTeamBatting, false)
	case ModeTeamBowling:
		res, err = teamView(ctx, deps, p, dataset.IDTeamBowling, true)
	case ModePlayerBatting:
		res, err = playerView(ctx, deps, p, dataset.IDPlayerBatting)
	case ModePlayerBowling:
		res, err = playerView(ctx, deps, p, dataset.IDPlayerBowling)
	case ModeOrangeCap:
		res, err = capView(ctx, deps, p, false)
	case ModePurpleCap:
		res, err = capView(ctx, deps, p, true)
	case ModeTopBatters:
		res, err = topView(ctx, deps, p, false)
	case ModeTopBowlers:
		res, err = topView(ctx, deps, p, true)
	case ModeScouting:
		res = scoutingView()
	}
	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to build %s view", p.Mode)
	}
	res.Mode = p.Mode
	if res.Params.Mode == "" {
		res.Params = p
	}
	deps.log().Debug("view built",
		"mode", p.Mode,
		"entity", res.Params.Entity,
		"metric", res.Params.Metric,
		"season", res.Params.Season,
		"empty", res.Empty,
		"elapsed", time.Since(start),
	)
	return res, nil
}

// degrade turns a missing dataset into an empty result with a warning.
func degrade(deps Deps, res Result, id dataset.ID, err error) (Result, error) {
	if !errors.Is(err, dataset.ErrMissing) {
		return Result{}, err
	}
	deps.log().Warn("view data unavailable", "dataset", id, "err", err)
	res.Empty = true
	res.Warnings = append(res.Warnings, fmt.Sprintf("%s data is not available", id))
	return res, nil
}

func homeView() Result {
	return Result{
		Title:      "Welcome to IPL Analytics",
		Notes:      []string{"Select an analysis type to explore detailed performance insights for:"},
		Highlights: []string{"Powerplay", "Middle Overs", "Death Overs", "Top Performers"},
	}
}

func scoutingView() Result {
	return Result{Title: "Recommended Players", Scouting: Scouting()}
}

func teamView(ctx context.Context, deps Deps, p Params, id dataset.ID, bowling bool) (Result, error) {
	res := Result{Title: p.Mode.Label(), Params: p}
	rows, err := deps.Datasets.PhaseRows(ctx, id)
	if err != nil {
		return degrade(deps, res, id, err)
	}
	if p.Entity == "" {
		teams := entities(rows, 0)
		if len(teams) == 0 {
			res.Empty = true
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s has no rows", id))
			return res, nil
		}
		p.Entity = teams[0]
	}
	res.Params = p
	res.Title = fmt.Sprintf("%s: %s", p.Mode.Label(), p.Entity)

	chart, err := stats.BuildPhaseChart(rows, p.Entity, p.Metric)
	if err != nil {
		return Result{}, errors.Wrapf(err, "%s", id)
	}
	res.Chart = &chart
	if chart.Empty() {
		res.Warnings = append(res.Warnings, fmt.Sprintf("no %s rows for %s", id, p.Entity))
	}
	badge := LookupBadge(p.Entity)
	res.Badge = &badge
	if note, ok := Insight(p.Entity, bowling); ok {
		res.Notes = append(res.Notes, note)
	}
	res.Recommendations = Recommendations(bowling)
	return res, nil
}

func playerView(ctx context.Context, deps Deps, p Params, id dataset.ID) (Result, error) {
	res := Result{Title: p.Mode.Label(), Params: p}
	rows, err := deps.Datasets.PhaseRows(ctx, id)
	if err != nil {
		return degrade(deps, res, id, err)
	}
	if p.Entity == "" {
		players := playerChoices(rows, deps.RecentSince)
		if len(players) == 0 {
			res.Empty = true
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s has no rows", id))
			return res, nil
		}
		p.Entity = players[0]
	}
	res.Params = p
	res.Title = fmt.Sprintf("%s: %s", p.Mode.Label(), p.Entity)
	res.Subtitle = "Season-wise player performance by phase"

	chart, err := stats.BuildPhaseChart(rows, p.Entity, p.Metric)
	if err != nil {
		return Result{}, errors.Wrapf(err, "%s", id)
	}
	res.Chart = &chart
	if chart.Empty() {
		res.Warnings = append(res.Warnings, fmt.Sprintf("no %s rows for %s", id, p.Entity))
		return res, nil
	}
	if mean, ok := meanMetric(rows, p.Entity, model.MetricPerformanceIndex); ok {
		res.Notes = append(res.Notes, fmt.Sprintf("Mean performance index: %.2f", mean))
	}
	return res, nil
}

func capView(ctx context.Context, deps Deps, p Params, bowling bool) (Result, error) {
	res := Result{Title: p.Mode.Label(), Params: p}
	deliveries, err := deps.Datasets.Deliveries(ctx)
	if err != nil {
		return degrade(deps, res, dataset.IDDeliveries, err)
	}
	seasons := deliverySeasons(deliveries)
	if len(seasons) == 0 {
		res.Empty = true
		res.Warnings = append(res.Warnings, "deliveries has no rows")
		return res, nil
	}
	if p.Season == 0 {
		p.Season = seasons[len(seasons)-1]
	}
	res.Params = p
	color := "Orange"
	if bowling {
		color = "Purple"
	}
	res.Title = fmt.Sprintf("Top %s-Cap Performers for %d", color, p.Season)
	if !containsInt(seasons, p.Season) {
		res.Empty = true
		res.Warnings = append(res.Warnings, fmt.Sprintf("no deliveries in season %d", p.Season))
		return res, nil
	}

	season := stats.FilterRows(deliveries, func(d model.Delivery) bool { return d.Season == p.Season })
	by := stats.GroupBy{Entity: model.EntityPlayer}
	var table stats.Table
	if bowling {
		ranked, err := stats.Rank(stats.AggregateBowling(season, by), p.Metric, p.TopN, deps.polarity(true))
		if err != nil {
			return Result{}, err
		}
		table = stats.BuildTable(ranked, model.BowlingColumns, stats.TableOptions{EntityHeader: "bowler", Rank: true})
	} else {
		ranked, err := stats.Rank(stats.AggregateBatting(season, by), p.Metric, p.TopN, deps.polarity(false))
		if err != nil {
			return Result{}, err
		}
		table = stats.BuildTable(ranked, model.BattingColumns, stats.TableOptions{EntityHeader: "striker", Rank: true})
	}
	res.Table = &table
	return res, nil
}

// topView ranks players within one phase. A single season reads the full
// per-season table; otherwise the recent table is preferred.
func topView(ctx context.Context, deps Deps, p Params, bowling bool) (Result, error) {
	recentID, fullID, entityHeader, title := dataset.IDRecentBatting, dataset.IDPlayerBatting, "striker", "Top Batsmen"
	if bowling {
		recentID, fullID, entityHeader, title = dataset.IDRecentBowling, dataset.IDPlayerBowling, "bowler", "Top Bowlers"
	}
	res := Result{Title: title, Params: p}

	id := recentID
	var (
		rows []model.PhaseRow
		err  error
	)
	if p.Season == 0 {
		rows, err = deps.Datasets.PhaseRows(ctx, recentID)
	}
	if p.Season != 0 || errors.Is(err, dataset.ErrMissing) {
		if p.Season == 0 {
			deps.log().Warn("recent table missing, falling back", "dataset", recentID, "fallback", fullID)
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s data is not available, using %s from %d", recentID, fullID, deps.RecentSince))
		}
		id = fullID
		rows, err = deps.Datasets.PhaseRows(ctx, fullID)
	}
	if err != nil {
		return degrade(deps, res, id, err)
	}

	keep := func(r model.PhaseRow) bool {
		if r.Phase != p.Phase {
			return false
		}
		switch {
		case p.Season != 0:
			return r.Season == p.Season
		case r.Season == 0:
			return true
		}
		return r.Season >= deps.RecentSince
	}
	combined := stats.CombineByEntity(stats.FilterRows(rows, keep))
	ranked, err := stats.Rank(combined, p.Metric, p.TopN, deps.polarity(bowling))
	if err != nil {
		return Result{}, err
	}
	if p.Season != 0 {
		res.Subtitle = fmt.Sprintf("Ranking for %s overs in %d", p.Phase, p.Season)
	} else {
		res.Subtitle = fmt.Sprintf("Ranking for %s overs since %d", p.Phase, deps.RecentSince)
	}
	table := stats.BuildTable(ranked, []string{p.Metric}, stats.TableOptions{EntityHeader: entityHeader, Rank: true})
	res.Table = &table
	if len(ranked) == 0 {
		res.Empty = true
		res.Warnings = append(res.Warnings, fmt.Sprintf("no %s rows for %s", id, p.Phase))
	}
	return res, nil
}

// Choices lists picker values for one mode.
type Choices struct {
	Metrics  []string
	Entities []string
	Seasons  []int
	Phases   []model.Phase
}

// Options lists the values pickers can offer for mode. Missing datasets yield
// empty lists rather than an error.
func Options(ctx context.Context, deps Deps, mode Mode) (Choices, error) {
	if _, ok := modeTable[mode]; !ok {
		return Choices{}, errors.Wrapf(ErrUnknownMode, "%q", mode)
	}
	c := Choices{Metrics: mode.Metrics()}
	if mode.HasPhase() {
		c.Phases = append([]model.Phase(nil), model.Phases...)
	}
	var err error
	switch mode {
	case ModeTeamBatting, ModeTeamBowling:
		id := dataset.IDTeamBatting
		if mode == ModeTeamBowling {
			id = dataset.IDTeamBowling
		}
		var rows []model.PhaseRow
		if rows, err = deps.Datasets.PhaseRows(ctx, id); err == nil {
			c.Entities = entities(rows, 0)
		}
	case ModePlayerBatting, ModePlayerBowling:
		id := dataset.IDPlayerBatting
		if mode == ModePlayerBowling {
			id = dataset.IDPlayerBowling
		}
		var rows []model.PhaseRow
		if rows, err = deps.Datasets.PhaseRows(ctx, id); err == nil {
			c.Entities = playerChoices(rows, deps.RecentSince)
		}
	case ModeOrangeCap, ModePurpleCap:
		var deliveries []model.Delivery
		if deliveries, err = deps.Datasets.Deliveries(ctx); err == nil {
			c.Seasons = deliverySeasons(deliveries)
		}
	case ModeTopBatters, ModeTopBowlers:
		id := dataset.IDPlayerBatting
		if mode == ModeTopBowlers {
			id = dataset.IDPlayerBowling
		}
		var rows []model.PhaseRow
		if rows, err = deps.Datasets.PhaseRows(ctx, id); err == nil {
			c.Seasons = rowSeasons(rows)
		}
	}
	if err != nil && !errors.Is(err, dataset.ErrMissing) {
		return Choices{}, err
	}
	return c, nil
}

// entities returns the sorted distinct entities with a season >= since.
func entities(rows []model.PhaseRow, since int) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range rows {
		if r.Season < since {
			continue
		}
		if _, ok := seen[r.Entity]; ok {
			continue
		}
		seen[r.Entity] = struct{}{}
		out = append(out, r.Entity)
	}
	sort.Strings(out)
	return out
}

// playerChoices prefers players active since the cutoff and falls back to everyone.
func playerChoices(rows []model.PhaseRow, since int) []string {
	if players := entities(rows, since); len(players) > 0 {
		return players
	}
	return entities(rows, 0)
}

func rowSeasons(rows []model.PhaseRow) []int {
	set := map[int]struct{}{}
	for _, r := range rows {
		if r.Season != 0 {
			set[r.Season] = struct{}{}
		}
	}
	return sortedInts(set)
}

func deliverySeasons(deliveries []model.Delivery) []int {
	set := map[int]struct{}{}
	for _, d := range deliveries {
		set[d.Season] = struct{}{}
	}
	return sortedInts(set)
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func containsInt(values []int, v int) bool {
	i := sort.SearchInts(values, v)
	return i < len(values) && values[i] == v
}

// meanMetric averages the entity's defined values of metric.
func meanMetric(rows []model.PhaseRow, entity, metric string) (float64, bool) {
	var sum float64
	n := 0
	for _, r := range rows {
		if r.Entity != entity {
			continue
		}
		v, ok := r.Metric(metric)
		if !ok || math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
