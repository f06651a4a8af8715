// Package view turns a mode and its parameters into a renderable dashboard view.
package view

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/verte-zerg/crease/internal/model"
)

// Mode names one analysis view.
type Mode string

const (
	ModeHome          Mode = "home"
	ModeTeamBatting   Mode = "team-batting"
	ModeTeamBowling   Mode = "team-bowling"
	ModePlayerBatting Mode = "player-batting"
	ModePlayerBowling Mode = "player-bowling"
	ModePurpleCap     Mode = "purple-cap"
	ModeOrangeCap     Mode = "orange-cap"
	ModeTopBatters    Mode = "top-batters"
	ModeTopBowlers    Mode = "top-bowlers"
	ModeScouting      Mode = "scouting"
)

// ErrUnknownMode reports a mode name outside Modes.
var ErrUnknownMode = errors.New("unknown mode")

type modeInfo struct {
	label   string
	metrics []string
	entity  bool
	season  bool
	phase   bool
	top     bool
}

var modeTable = map[Mode]modeInfo{
	ModeHome: {label: "Home"},
	ModeTeamBatting: {
		label:   "Team Batting",
		metrics: []string{model.MetricRunRate, model.MetricTotalRuns, model.MetricBoundaries, model.MetricFours, model.MetricSixes},
		entity:  true,
	},
	ModeTeamBowling: {
		label:   "Team Bowling",
		metrics: []string{model.MetricEconomyRate, model.MetricTotalRuns, model.MetricBoundaries, model.MetricFours, model.MetricSixes},
		entity:  true,
	},
	ModePlayerBatting: {
		label: "Player Batting",
		metrics: []string{
			model.MetricStrikeRate, model.MetricRuns, model.MetricSixes, model.MetricFours,
			model.MetricBoundaries, model.MetricPerformanceIndex,
		},
		entity: true,
	},
	ModePlayerBowling: {
		label: "Player Bowling",
		metrics: []string{
			model.MetricEconomyRate, model.MetricRunsConceded, model.MetricWickets, model.MetricSixes,
			model.MetricFours, model.MetricBoundaries, model.MetricPerformanceIndex,
		},
		entity: true,
	},
	ModePurpleCap: {
		label:   "Purple Cap (Most Wickets)",
		metrics: purpleCapMetrics(),
		season:  true,
		top:     true,
	},
	ModeOrangeCap: {
		label:   "Orange Cap (Most Runs)",
		metrics: model.BattingColumns,
		season:  true,
		top:     true,
	},
	ModeTopBatters: {
		label: "Top Batters",
		metrics: []string{
			model.MetricStrikeRate, model.MetricRuns, model.MetricSixes, model.MetricFours,
			model.MetricBoundaries, model.MetricPerformanceIndex,
		},
		season: true,
		phase:  true,
		top:    true,
	},
	ModeTopBowlers: {
		label: "Top Bowlers",
		metrics: []string{
			model.MetricEconomyRate, model.MetricRunsConceded, model.MetricSixes, model.MetricFours,
			model.MetricBoundaries, model.MetricPerformanceIndex,
		},
		season: true,
		phase:  true,
		top:    true,
	},
	ModeScouting: {label: "Scouting Perspective"},
}

// purpleCapMetrics puts wickets first so it becomes the default sort.
func purpleCapMetrics() []string {
	out := []string{model.MetricWickets}
	for _, c := range model.BowlingColumns {
		if c != model.MetricWickets {
			out = append(out, c)
		}
	}
	return out
}

// Modes lists every mode in menu order.
func Modes() []Mode {
	return []Mode{
		ModeHome,
		ModeTeamBatting,
		ModeTeamBowling,
		ModePlayerBatting,
		ModePlayerBowling,
		ModePurpleCap,
		ModeOrangeCap,
		ModeTopBatters,
		ModeTopBowlers,
		ModeScouting,
	}
}

// ParseMode accepts a mode name; case and surrounding space are ignored.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := modeTable[m]; !ok {
		return "", errors.Wrapf(ErrUnknownMode, "%q", s)
	}
	return m, nil
}

// Label is the menu title.
func (m Mode) Label() string {
	if info, ok := modeTable[m]; ok {
		return info.label
	}
	return string(m)
}

// Metrics lists the selectable metrics; the first is the default.
func (m Mode) Metrics() []string {
	return append([]string(nil), modeTable[m].metrics...)
}

// HasEntity reports whether the mode charts one team or player.
func (m Mode) HasEntity() bool { return modeTable[m].entity }

// HasSeason reports whether the mode filters by season.
func (m Mode) HasSeason() bool { return modeTable[m].season }

// HasPhase reports whether the mode filters by phase.
func (m Mode) HasPhase() bool { return modeTable[m].phase }

// HasTop reports whether the mode is a top-N ranking.
func (m Mode) HasTop() bool { return modeTable[m].top }

// Bowling reports whether the mode ranks bowlers or bowling sides.
func (m Mode) Bowling() bool {
	switch m {
	case ModeTeamBowling, ModePlayerBowling, ModePurpleCap, ModeTopBowlers:
		return true
	}
	return false
}

func (m Mode) hasMetric(metric string) bool {
	for _, x := range modeTable[m].metrics {
		if x == metric {
			return true
		}
	}
	return false
}
