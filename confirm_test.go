package main

import "testing"

func boolPtr(b bool) *bool { return &b }

func TestResolveConfirmation(t *testing.T) {
	cases := []struct {
		name       string
		outOfRange bool
		confirm    *bool
		want       confirmState
	}{
		{"in range, no answer", false, nil, confirmAccepted},
		{"in range ignores false", false, boolPtr(false), confirmAccepted},
		{"out of range, no answer", true, nil, confirmPending},
		{"out of range, declined", true, boolPtr(false), confirmRejected},
		{"out of range, confirmed", true, boolPtr(true), confirmAccepted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveConfirmation(tc.outOfRange, tc.confirm); got != tc.want {
				t.Errorf("resolveConfirmation = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestBMIOutOfRange(t *testing.T) {
	cases := []struct {
		name        string
		h, w, bmi   float64
		wantOutside bool
	}{
		{"all inside", 180, 80, 24.7, false},
		{"bounds inclusive", 100, 30, 10, false},
		{"upper bounds inclusive", 250, 200, 70, false},
		{"tall", 260, 80, 11.8, true},
		{"light", 170, 29.9, 10.3, true},
		{"bmi high", 150, 160, 71.1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := bmiOutOfRange(tc.h, tc.w, tc.bmi); got != tc.wantOutside {
				t.Errorf("bmiOutOfRange = %v, want %v", got, tc.wantOutside)
			}
		})
	}
}

func TestAgeOutOfRange(t *testing.T) {
	for age, want := range map[int]bool{9: true, 10: false, 45: false, 80: false, 81: true} {
		if got := ageOutOfRange(age); got != want {
			t.Errorf("ageOutOfRange(%d) = %v, want %v", age, got, want)
		}
	}
}
