package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func tdeeDates(records []tdeeRecord) []string {
	dates := make([]string, 0, len(records))
	for _, r := range records {
		dates = append(dates, r.Date)
	}
	return dates
}

// listTDEE returns the user's TDEE records sorted by date.
// GET /api/tdee.
func (h *Handler) listTDEE(c *gin.Context) {
	records, err := h.store.tdeeRecords(c, currentUser(c))
	if err != nil {
		storeError(c, "listTDEE", err, "failed to fetch TDEE records")
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": tdeeDates(records), "records": records})
}

// linkBMIForTDEE loads height and weight from a date's BMI record so the client
// can prefill the TDEE form.
// GET /api/tdee/link/:date.
func (h *Handler) linkBMIForTDEE(c *gin.Context) {
	date, ok := parseDate(c.Param("date"))
	if !ok {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	rec, found, err := h.store.bmiRecord(c, currentUser(c), date)
	if err != nil {
		storeError(c, "linkBMIForTDEE", err, "failed to fetch BMI record")
		return
	}
	if !found {
		apiError(c, http.StatusBadRequest, "no BMI data on that date, record your BMI first")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":      date,
		"height_cm": rec.HeightCM,
		"weight_kg": rec.WeightKG,
		"message":   fmt.Sprintf("Loaded height/weight from %s.", date),
	})
}

// saveTDEE computes BMR (Harris-Benedict) and TDEE for a date that has a BMI
// record and stores the result, overwriting any earlier computation for that
// date. Height and weight default to the BMI record's values. Ages outside
// 10–80 go through the confirmation workflow.
// POST /api/tdee.
func (h *Handler) saveTDEE(c *gin.Context) {
	username := currentUser(c)

	var body saveTDEERequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Collect every missing field so the user can fix them in one go.
	var missing []string
	gender := strings.ToLower(strings.TrimSpace(body.Gender))
	if gender != genderMale && gender != genderFemale {
		missing = append(missing, "gender")
	}
	if _, ok := activityMultipliers[body.Activity]; !ok {
		missing = append(missing, "activity level")
	}
	// Whole years only; 32 bits so the value fits the age column.
	age64, err := strconv.ParseInt(strings.TrimSpace(body.Age.String()), 10, 32)
	if err != nil {
		missing = append(missing, "age")
	}
	age := int(age64)
	if len(missing) > 0 {
		apiError(c, http.StatusBadRequest, "please fill the following first: "+strings.Join(missing, ", "))
		return
	}
	if strings.TrimSpace(body.Date) == "" {
		apiError(c, http.StatusBadRequest, "pick a BMI date first")
		return
	}
	date, ok := parseDate(body.Date)
	if !ok {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	bmiRec, found, err := h.store.bmiRecord(c, username, date)
	if err != nil {
		storeError(c, "saveTDEE", err, "failed to fetch BMI record")
		return
	}
	if !found {
		apiError(c, http.StatusBadRequest, "no BMI data on that date, record your BMI first")
		return
	}

	heightCM, weightKG := bmiRec.HeightCM, bmiRec.WeightKG
	if !body.HeightCM.blank() {
		if heightCM, ok = parseNumber(body.HeightCM.String()); !ok {
			apiError(c, http.StatusBadRequest, "height and weight must be numbers")
			return
		}
	}
	if !body.WeightKG.blank() {
		if weightKG, ok = parseNumber(body.WeightKG.String()); !ok {
			apiError(c, http.StatusBadRequest, "height and weight must be numbers")
			return
		}
	}

	switch state := resolveConfirmation(ageOutOfRange(age), body.Confirm); state {
	case confirmPending:
		c.JSON(http.StatusUnprocessableEntity, saveResult{
			Status:               state.String(),
			Message:              fmt.Sprintf("Age seems out of the allowed range (%s). Is this correct? Confirm true/false, then save again.", ageRange),
			ConfirmationRequired: true,
		})
		return
	case confirmRejected:
		c.JSON(http.StatusOK, saveResult{
			Status:  state.String(),
			Message: fmt.Sprintf("Age out of range, not saved. Please correct your age to be between %g and %g.", ageRange.Min, ageRange.Max),
		})
		return
	}

	bmr := computeBMR(gender, age, heightCM, weightKG)
	tdee, _ := computeTDEE(bmr, body.Activity)
	rec := tdeeRecord{
		Date:     date,
		BMR:      round2(bmr),
		TDEE:     round2(tdee),
		Gender:   gender,
		Age:      age,
		Activity: body.Activity,
		HeightCM: heightCM,
		WeightKG: weightKG,
	}
	if err := h.store.upsertTDEE(c, username, rec); err != nil {
		storeError(c, "saveTDEE", err, "failed to save TDEE record")
		return
	}

	c.JSON(http.StatusCreated, saveResult{
		Status:  confirmAccepted.String(),
		Message: fmt.Sprintf("Calculated & saved for %s: BMR %.0f kcal/day, TDEE %.0f kcal/day.", date, bmr, tdee),
		Record:  rec,
	})
}
