// Package stats contains cricket metric aggregation, ranking and rendering.
package stats

import "math"

// ratio returns NaN when the denominator is zero.
func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}

// StrikeRate is runs per 100 balls faced.
func StrikeRate(runs, ballsFaced int) float64 {
	return round2(ratio(float64(runs)*100, float64(ballsFaced)))
}

// EconomyRate is runs conceded per six legal deliveries.
func EconomyRate(runsConceded, ballsBowled int) float64 {
	return round2(ratio(float64(runsConceded)*6, float64(ballsBowled)))
}

// RunRate is runs scored per six legal deliveries.
func RunRate(runs, legalBalls int) float64 {
	return round2(ratio(float64(runs)*6, float64(legalBalls)))
}

// Average divides a counter by a dismissal or wicket count.
func Average(num, den int) float64 {
	return round2(ratio(float64(num), float64(den)))
}

// Fraction is a two-decimal share of part over whole.
func Fraction(part, whole int) float64 {
	return round2(ratio(float64(part), float64(whole)))
}
