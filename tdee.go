package main

import "math"

// activityMultipliers maps activity level strings to their TDEE multiplier.
// It is also the list of valid activity levels that saveTDEE checks against.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// goalMultipliers scales TDEE into the daily calorie target for a goal.
var goalMultipliers = map[string]float64{
	"lose":     0.80,
	"maintain": 1.00,
	"gain":     1.15,
}

const (
	genderMale   = "male"
	genderFemale = "female"
)

// computeBMR returns the Harris-Benedict basal metabolic rate in kcal/day.
// Any gender other than "male" uses the female constants.
func computeBMR(gender string, age int, heightCM, weightKG float64) float64 {
	a := float64(age)
	if gender == genderMale {
		return 88.362 + 13.397*weightKG + 4.799*heightCM - 5.677*a
	}
	return 447.593 + 9.247*weightKG + 3.098*heightCM - 4.330*a
}

// computeTDEE multiplies BMR by the activity level multiplier.
// Returns ok=false for an unknown activity level.
func computeTDEE(bmr float64, activity string) (float64, bool) {
	mult, found := activityMultipliers[activity]
	if !found {
		return 0, false
	}
	return bmr * mult, true
}

// computeTarget returns the goal-adjusted daily calorie target. A non-positive
// TDEE yields 0; an unknown goal falls back to maintenance.
func computeTarget(tdee float64, goal string) float64 {
	if tdee <= 0 {
		return 0
	}
	mult, found := goalMultipliers[goal]
	if !found {
		mult = 1.0
	}
	return tdee * mult
}

// progress compares a day's total against its target.
type progress struct {
	Total     float64 `json:"total"`
	Target    float64 `json:"target"`
	Delta     float64 `json:"delta"`
	Percent   float64 `json:"percent"`
	HasTarget bool    `json:"has_target"`
}

// computeProgress fills delta and a 0–100 clamped percent. Without a positive
// target the percent stays 0.
func computeProgress(total, target float64) progress {
	p := progress{Total: total, Target: target, Delta: total - target}
	if target > 0 {
		p.HasTarget = true
		p.Percent = math.Max(0, math.Min(100, total/target*100))
	}
	return p
}

// round2 rounds to two decimals, the precision records are stored with.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
