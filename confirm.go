package main

import "fmt"

// confirmState is a save action's position in the out-of-range workflow:
// Idle → PendingConfirmation → {Accepted, Rejected}. Nothing is remembered
// between requests; the caller re-submits with an explicit confirm value.
type confirmState int

const (
	confirmIdle confirmState = iota
	confirmPending
	confirmAccepted
	confirmRejected
)

func (s confirmState) String() string {
	switch s {
	case confirmPending:
		return "pending_confirmation"
	case confirmAccepted:
		return "accepted"
	case confirmRejected:
		return "rejected"
	default:
		return "idle"
	}
}

// resolveConfirmation decides a submitted save. In-range values are accepted
// directly; out-of-range values wait for confirm and then follow it.
func resolveConfirmation(outOfRange bool, confirm *bool) confirmState {
	switch {
	case !outOfRange:
		return confirmAccepted
	case confirm == nil:
		return confirmPending
	case *confirm:
		return confirmAccepted
	default:
		return confirmRejected
	}
}

// valueRange is an inclusive allowed range.
type valueRange struct {
	Min, Max float64
}

func (r valueRange) contains(v float64) bool { return v >= r.Min && v <= r.Max }

func (r valueRange) String() string { return fmt.Sprintf("%g–%g", r.Min, r.Max) }

var (
	heightRangeCM = valueRange{100, 250}
	weightRangeKG = valueRange{30, 200}
	bmiRange      = valueRange{10, 70}
	ageRange      = valueRange{10, 80}
)

// bmiOutOfRange reports whether any of height, weight or BMI is outside its
// allowed range.
func bmiOutOfRange(heightCM, weightKG, bmi float64) bool {
	return !heightRangeCM.contains(heightCM) ||
		!weightRangeKG.contains(weightKG) ||
		!bmiRange.contains(bmi)
}

func ageOutOfRange(age int) bool {
	return !ageRange.contains(float64(age))
}

// bmiRangeHint lists the allowed BMI ranges for "not saved" messages.
func bmiRangeHint() string {
	return fmt.Sprintf("Height %s cm, Weight %s kg, BMI %s", heightRangeCM, weightRangeKG, bmiRange)
}
