package main

const (
	unitMetric   = "metric"
	unitImperial = "imperial"

	cmPerInch = 2.54
	kgPerLb   = 0.453592
)

const (
	bmiUnderweight = "Underweight"
	bmiNormal      = "Normal"
	bmiOverweight  = "Overweight"
	bmiObese       = "Obese"
)

// convertToMetric parses height and weight in the given unit system and returns
// centimetres and kilograms. ok=false when either value is not numeric.
// Anything other than "imperial" is treated as metric.
func convertToMetric(unit, height, weight string) (heightCM, weightKG float64, ok bool) {
	h, okH := parseNumber(height)
	w, okW := parseNumber(weight)
	if !okH || !okW {
		return 0, 0, false
	}
	if unit == unitImperial {
		return h * cmPerInch, w * kgPerLb, true
	}
	return h, w, true
}

// computeBMI returns weight / height² with height in metres.
func computeBMI(heightCM, weightKG float64) (float64, bool) {
	if heightCM <= 0 {
		return 0, false
	}
	m := heightCM / 100
	return weightKG / (m * m), true
}

func classifyBMI(bmi float64) string {
	switch {
	case bmi < 18.5:
		return bmiUnderweight
	case bmi < 25:
		return bmiNormal
	case bmi < 30:
		return bmiOverweight
	default:
		return bmiObese
	}
}

// bmiSeriesPoint is one point of the BMI-over-time chart.
type bmiSeriesPoint struct {
	Date     string  `json:"date"`
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
}

// bmiSeries turns date-sorted records into chart points.
func bmiSeries(records []bmiRecord) []bmiSeriesPoint {
	points := make([]bmiSeriesPoint, 0, len(records))
	for _, r := range records {
		points = append(points, bmiSeriesPoint{Date: r.Date, BMI: r.BMI, Category: classifyBMI(r.BMI)})
	}
	return points
}
