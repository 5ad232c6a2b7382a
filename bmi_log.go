package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func bmiDates(records []bmiRecord) []string {
	dates := make([]string, 0, len(records))
	for _, r := range records {
		dates = append(dates, r.Date)
	}
	return dates
}

// listBMI returns the user's BMI records sorted by date, plus the bare date
// list used for date pickers.
// GET /api/bmi.
func (h *Handler) listBMI(c *gin.Context) {
	records, err := h.store.bmiRecords(c, currentUser(c))
	if err != nil {
		storeError(c, "listBMI", err, "failed to fetch BMI records")
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": bmiDates(records), "records": records})
}

// getBMISeries returns chart data: one point per recorded date with its category.
// GET /api/bmi/series.
func (h *Handler) getBMISeries(c *gin.Context) {
	records, err := h.store.bmiRecords(c, currentUser(c))
	if err != nil {
		storeError(c, "getBMISeries", err, "failed to fetch BMI records")
		return
	}
	c.JSON(http.StatusOK, bmiSeries(records))
}

// saveBMI records one day's height and weight. An occupied date is rejected
// until it is cleared. Out-of-range values go through the confirmation
// workflow: 422 while pending, 200 when rejected, 201 when saved.
// POST /api/bmi. Body: { "unit", "height", "weight", "date", "confirm"? }.
func (h *Handler) saveBMI(c *gin.Context) {
	username := currentUser(c)

	var body saveBMIRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, ok := parseDate(body.Date)
	if !ok {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if body.Unit == "" {
		body.Unit = unitMetric
	}
	if body.Unit != unitMetric && body.Unit != unitImperial {
		apiError(c, http.StatusBadRequest, "unit must be one of: metric, imperial")
		return
	}
	heightCM, weightKG, ok := convertToMetric(body.Unit, body.Height.String(), body.Weight.String())
	if !ok {
		apiError(c, http.StatusBadRequest, "height and weight must be numbers")
		return
	}

	// Check the date before asking for confirmation so the user isn't asked to
	// confirm a value that can't be saved anyway.
	if _, exists, err := h.store.bmiRecord(c, username, date); err != nil {
		storeError(c, "saveBMI", err, "failed to fetch BMI record")
		return
	} else if exists {
		apiError(c, http.StatusConflict, fmt.Sprintf("you already have data on %s, clear it first to enter again", date))
		return
	}

	bmi, ok := computeBMI(heightCM, weightKG)
	if !ok {
		apiError(c, http.StatusBadRequest, "unable to compute BMI, check your inputs")
		return
	}

	outOfRange := bmiOutOfRange(heightCM, weightKG, bmi)
	switch state := resolveConfirmation(outOfRange, body.Confirm); state {
	case confirmPending:
		c.JSON(http.StatusUnprocessableEntity, saveResult{
			Status:               state.String(),
			Message:              "Value looks out of the allowed range. Confirm true/false, then save again.",
			ConfirmationRequired: true,
		})
		return
	case confirmRejected:
		c.JSON(http.StatusOK, saveResult{
			Status:  state.String(),
			Message: "Data NOT saved. Use: " + bmiRangeHint() + ".",
		})
		return
	}

	rec := bmiRecord{Date: date, HeightCM: round2(heightCM), WeightKG: round2(weightKG), BMI: round2(bmi)}
	if err := h.store.insertBMI(c, username, rec); err != nil {
		if errors.Is(err, errDuplicateRecord) {
			apiError(c, http.StatusConflict, fmt.Sprintf("you already have data on %s, clear it first to enter again", date))
			return
		}
		storeError(c, "saveBMI", err, "failed to save BMI record")
		return
	}

	msg := fmt.Sprintf("Saved for %s: Height %.1f cm, Weight %.1f kg ⇒ BMI %.1f (%s).",
		date, heightCM, weightKG, bmi, classifyBMI(bmi))
	if outOfRange {
		msg += " Saved outside the usual range as confirmed."
	}
	c.JSON(http.StatusCreated, saveResult{Status: confirmAccepted.String(), Message: msg, Record: rec})
}

// viewBMI returns one day's record with its category.
// GET /api/bmi/:date. 404 if nothing is recorded on that date.
func (h *Handler) viewBMI(c *gin.Context) {
	date, ok := parseDate(c.Param("date"))
	if !ok {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	rec, found, err := h.store.bmiRecord(c, currentUser(c), date)
	if err != nil {
		storeError(c, "viewBMI", err, "failed to fetch BMI record")
		return
	}
	if !found {
		apiError(c, http.StatusNotFound, "no data on this date, please record your BMI first")
		return
	}
	category := classifyBMI(rec.BMI)
	c.JSON(http.StatusOK, gin.H{
		"record":   rec,
		"category": category,
		"summary": fmt.Sprintf("%s: Height %g cm, Weight %g kg, BMI %g (%s).",
			rec.Date, rec.HeightCM, rec.WeightKG, rec.BMI, category),
	})
}

// clearBMI removes a day's BMI record and the TDEE record linked to it.
// Clearing an empty date is not an error.
// DELETE /api/bmi/:date.
func (h *Handler) clearBMI(c *gin.Context) {
	date, ok := parseDate(c.Param("date"))
	if !ok {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	cleared, err := h.store.clearBMI(c, currentUser(c), date)
	if err != nil {
		storeError(c, "clearBMI", err, "failed to clear BMI record")
		return
	}
	msg := "Nothing to clear for that date."
	if cleared {
		msg = fmt.Sprintf("Cleared BMI (and linked TDEE) on %s.", date)
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared, "message": msg})
}
