package main

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parseDate validates a YYYY-MM-DD string and returns it in canonical form.
// ok=false for empty or unparseable input.
func parseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", false
	}
	return t.Format(dateLayout), true
}

// parseNumber parses a finite float, ignoring surrounding whitespace.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// numeric holds a JSON number or string as text so that non-numeric input
// reaches validation instead of failing request binding.
type numeric string

func (n *numeric) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*n = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		*n = numeric(unquoted)
		return nil
	}
	*n = numeric(s)
	return nil
}

func (n numeric) String() string { return string(n) }

// blank reports whether the field was omitted or left empty.
func (n numeric) blank() bool { return strings.TrimSpace(string(n)) == "" }

/* ─── Domain structs ─────────────────────────────────────────────────── */

// bmiRecord is one day's BMI measurement. Values are stored rounded to 2 dp.
type bmiRecord struct {
	Date     string  `json:"date"      db:"date"`
	HeightCM float64 `json:"height_cm" db:"height_cm"`
	WeightKG float64 `json:"weight_kg" db:"weight_kg"`
	BMI      float64 `json:"bmi"       db:"bmi"`
}

// tdeeRecord is one day's BMR/TDEE computation. Height and weight are copied
// from the inputs at save time, not referenced from the BMI record.
type tdeeRecord struct {
	Date     string  `json:"date"      db:"date"`
	BMR      float64 `json:"bmr"       db:"bmr"`
	TDEE     float64 `json:"tdee"      db:"tdee"`
	Gender   string  `json:"gender"    db:"gender"`
	Age      int     `json:"age"       db:"age"`
	Activity string  `json:"activity"  db:"activity"`
	HeightCM float64 `json:"height_cm" db:"height_cm"`
	WeightKG float64 `json:"weight_kg" db:"weight_kg"`
}

// foodLogDay is one day's logged calorie total.
type foodLogDay struct {
	Date  string  `json:"date"  db:"date"`
	Total float64 `json:"total" db:"total"`
}

// mealSelection names one catalog entry per category for a meal.
// Empty or unknown names count as 0 kcal.
type mealSelection struct {
	Main     string `json:"main"`
	Dessert  string `json:"dessert"`
	Beverage string `json:"beverage"`
}

/* ─── Request / Response types ───────────────────────────────────────── */

// saveBMIRequest is the request body for POST /api/bmi.
// Confirm is nil until the caller answers an out-of-range warning.
type saveBMIRequest struct {
	Unit    string  `json:"unit"`
	Height  numeric `json:"height"`
	Weight  numeric `json:"weight"`
	Date    string  `json:"date"`
	Confirm *bool   `json:"confirm"`
}

// saveTDEERequest is the request body for POST /api/tdee. HeightCM and
// WeightKG default to the BMI record of Date when omitted.
type saveTDEERequest struct {
	Date     string  `json:"date"`
	Gender   string  `json:"gender"`
	Age      numeric `json:"age"`
	Activity string  `json:"activity"`
	HeightCM numeric `json:"height_cm"`
	WeightKG numeric `json:"weight_kg"`
	Confirm  *bool   `json:"confirm"`
}

// addFoodRequest is the request body for POST /api/foods.
type addFoodRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Calories numeric `json:"calories"`
}

// logDayRequest is the request body for POST /api/food-log.
type logDayRequest struct {
	Date        string        `json:"date"`
	Goal        string        `json:"goal"`
	Breakfast   mealSelection `json:"breakfast"`
	Lunch       mealSelection `json:"lunch"`
	Dinner      mealSelection `json:"dinner"`
	ManualExtra numeric       `json:"manual_extra"`
}

// saveResult is the response shape of a save that went through the
// out-of-range confirmation workflow.
type saveResult struct {
	Status               string      `json:"status"`
	Message              string      `json:"message"`
	ConfirmationRequired bool        `json:"confirmation_required"`
	Record               interface{} `json:"record,omitempty"`
}

// dailySummary is the response shape for POST /api/food-log.
type dailySummary struct {
	Date      string   `json:"date"`
	Goal      string   `json:"goal"`
	Breakfast float64  `json:"breakfast"`
	Lunch     float64  `json:"lunch"`
	Dinner    float64  `json:"dinner"`
	Manual    float64  `json:"manual"`
	Total     float64  `json:"total"`
	Progress  progress `json:"progress"`
	Message   string   `json:"message"`
}

// weekChart is the 7-day calorie series ending at Date with its target line.
type weekChart struct {
	Date   string       `json:"date"`
	Target float64      `json:"target"`
	Days   []foodLogDay `json:"days"`
}
