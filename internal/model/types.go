// Package model defines shared data structures.
package model

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Phase is a partition of an innings used as a grouping and coloring key.
type Phase string

// Innings phases in display order.
const (
	PhasePowerplay Phase = "Powerplay"
	PhaseMiddle    Phase = "Middle"
	PhaseDeath     Phase = "Death"
)

// Phases lists every phase in display order.
var Phases = []Phase{PhasePowerplay, PhaseMiddle, PhaseDeath}

// ParsePhase accepts a phase label case-insensitively.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "powerplay":
		return PhasePowerplay, nil
	case "middle":
		return PhaseMiddle, nil
	case "death":
		return PhaseDeath, nil
	}
	return "", errors.Newf("unknown phase %q", s)
}

// ExtrasType classifies the extras awarded on a delivery.
type ExtrasType uint8

// Extras kinds.
const (
	ExtrasNone ExtrasType = iota
	ExtrasWide
	ExtrasBye
	ExtrasLegBye
	ExtrasNoBall
	ExtrasPenalty
)

var extrasNames = [...]string{"none", "wide", "bye", "legbye", "noball", "penalty"}

func (e ExtrasType) String() string {
	if int(e) < len(extrasNames) {
		return extrasNames[e]
	}
	return "ExtrasType(" + strconv.Itoa(int(e)) + ")"
}

// ParseExtrasType accepts the singular, plural and hyphenated spellings found in ball-by-ball data.
func ParseExtrasType(s string) (ExtrasType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "nan", "none":
		return ExtrasNone, nil
	case "wide", "wides":
		return ExtrasWide, nil
	case "bye", "byes":
		return ExtrasBye, nil
	case "legbye", "legbyes", "leg-bye", "leg-byes", "leg bye", "leg byes":
		return ExtrasLegBye, nil
	case "noball", "noballs", "no-ball", "no-balls", "no ball":
		return ExtrasNoBall, nil
	case "penalty":
		return ExtrasPenalty, nil
	}
	return ExtrasNone, errors.Newf("unknown extras type %q", s)
}

// Legal reports whether the delivery counts as a ball bowled.
func (e ExtrasType) Legal() bool {
	return e != ExtrasWide && e != ExtrasNoBall
}

// DismissalType classifies how a batter got out.
type DismissalType uint8

// Dismissal kinds.
const (
	DismissalNone DismissalType = iota
	DismissalCaught
	DismissalBowled
	DismissalLBW
	DismissalCaughtAndBowled
	DismissalStumped
	DismissalHitWicket
	DismissalRunOut
	DismissalOther
)

var dismissalNames = [...]string{
	"none", "caught", "bowled", "lbw", "caught-and-bowled", "stumped", "hit-wicket", "run-out", "other",
}

func (d DismissalType) String() string {
	if int(d) < len(dismissalNames) {
		return dismissalNames[d]
	}
	return "DismissalType(" + strconv.Itoa(int(d)) + ")"
}

// ParseDismissalType maps a wicket_type value onto a DismissalType.
func ParseDismissalType(s string) (DismissalType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", " ")
	key = strings.ReplaceAll(key, "_", " ")
	switch key {
	case "", "na", "nan", "none":
		return DismissalNone, nil
	case "caught":
		return DismissalCaught, nil
	case "bowled":
		return DismissalBowled, nil
	case "lbw":
		return DismissalLBW, nil
	case "caught and bowled":
		return DismissalCaughtAndBowled, nil
	case "stumped":
		return DismissalStumped, nil
	case "hit wicket":
		return DismissalHitWicket, nil
	case "run out":
		return DismissalRunOut, nil
	case "other", "retired hurt", "retired out", "obstructing the field", "handled the ball",
		"hit the ball twice", "timed out":
		return DismissalOther, nil
	}
	return DismissalNone, errors.Newf("unknown wicket type %q", s)
}

// CreditsBowler reports whether the dismissal counts toward the bowler's wickets.
func (d DismissalType) CreditsBowler() bool {
	switch d {
	case DismissalCaught, DismissalBowled, DismissalLBW, DismissalCaughtAndBowled,
		DismissalStumped, DismissalHitWicket:
		return true
	default:
		return false
	}
}

// ParseSeason accepts "2019" or a split-year label such as "2007/08", which maps to 2008.
func ParseSeason(s string) (int, error) {
	s = strings.TrimSpace(s)
	if head, tail, ok := strings.Cut(s, "/"); ok {
		year, err := strconv.Atoi(head)
		if err != nil || len(tail) == 0 {
			return 0, errors.Newf("invalid season %q", s)
		}
		return year + 1, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) && f > 0 {
		return int(f), nil
	}
	return 0, errors.Newf("invalid season %q", s)
}

// Delivery is one ball bowled.
type Delivery struct {
	Season          int
	MatchID         string
	Striker         string
	Bowler          string
	BattingTeam     string
	BowlingTeam     string
	Ball            int
	BatsmanRuns     int
	TotalRuns       int
	Extras          ExtrasType
	IsFour          bool
	IsSix           bool
	PlayerDismissed string
	Dismissal       DismissalType
	Phase           Phase
}

// EntityKind selects whether rows are grouped per player or per team.
type EntityKind uint8

// Entity kinds.
const (
	EntityPlayer EntityKind = iota
	EntityTeam
)

// ParseEntityKind accepts "player" or "team".
func ParseEntityKind(s string) (EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player", "":
		return EntityPlayer, nil
	case "team":
		return EntityTeam, nil
	}
	return EntityPlayer, errors.Newf("unknown entity kind %q (want player or team)", s)
}
