package session

import (
	"fmt"

	"github.com/claude/repcounter/internal/counter"
)

// referenceWeightKg is the body weight the per-rep rates are quoted for.
const referenceWeightKg = 70.0

// baseCaloriesPerRep is kcal per repetition at the reference weight.
var baseCaloriesPerRep = map[counter.Exercise]float64{
	counter.BicepCurl: 0.2,
	counter.Squat:     0.32,
}

// CaloriesPerRep scales the exercise's base rate linearly with body weight.
// Unknown exercises burn nothing; Start rejects them before any tick.
func CaloriesPerRep(ex counter.Exercise, weightKg float64) float64 {
	return baseCaloriesPerRep[ex] * (weightKg / referenceWeightKg)
}

// FormatClock renders elapsed seconds as MM:SS.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatMinutes renders a duration in minutes as "1h 5m" or "12m".
func FormatMinutes(minutes float64) string {
	if minutes < 0 {
		minutes = 0
	}
	total := int(minutes)
	if h := total / 60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, total%60)
	}
	return fmt.Sprintf("%dm", total)
}
