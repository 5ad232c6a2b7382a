package main

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultGoal = "maintain"

// parseGoal defaults an empty goal to maintenance and validates the rest.
func parseGoal(goal string) (string, bool) {
	if goal == "" {
		return defaultGoal, true
	}
	_, ok := goalMultipliers[goal]
	return goal, ok
}

// weekSeries returns the 7 days ending at ref (oldest first). Days without a
// logged total are 0.
func weekSeries(foodLog map[string]float64, ref time.Time) []foodLogDay {
	days := make([]foodLogDay, 7)
	for i := 0; i < 7; i++ {
		d := ref.AddDate(0, 0, i-6).Format(dateLayout)
		days[i] = foodLogDay{Date: d, Total: foodLog[d]}
	}
	return days
}

// targetFor returns the goal-adjusted target for a date's TDEE, or 0 and
// found=false when no TDEE is saved for that date.
func (h *Handler) targetFor(c *gin.Context, date, goal string) (tdee, target float64, found bool, err error) {
	rec, found, err := h.store.tdeeRecord(c, currentUser(c), date)
	if err != nil || !found {
		return 0, 0, found, err
	}
	return rec.TDEE, computeTarget(rec.TDEE, goal), true, nil
}

/* ─── Food catalog ───────────────────────────────────────────────────── */

// getFoods returns the user's three food tables, sentinel first.
// GET /api/foods.
func (h *Handler) getFoods(c *gin.Context) {
	foods, err := h.store.foodCatalog(c, currentUser(c))
	if err != nil {
		storeError(c, "getFoods", err, "failed to fetch foods")
		return
	}
	c.JSON(http.StatusOK, foods)
}

// addFood adds a custom food or overwrites the calories of an existing one.
// The entry moves to the top of its table (right after "-").
// POST /api/foods. Body: { "name", "category", "calories" }.
func (h *Handler) addFood(c *gin.Context) {
	username := currentUser(c)

	var body addFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		apiError(c, http.StatusBadRequest, "please enter a food name")
		return
	}
	kcal, ok := parseNumber(body.Calories.String())
	if !ok || kcal < 0 || kcal > maxCalories {
		apiError(c, http.StatusBadRequest, fmt.Sprintf("calories must be a number between 0 and %d", maxCalories))
		return
	}

	updated, err := h.store.upsertFoodCatalogEntry(c, username, body.Category, name, kcal)
	if err != nil {
		if errors.Is(err, errInvalidFood) {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		storeError(c, "addFood", err, "failed to save food")
		return
	}
	foods, err := h.store.foodCatalog(c, username)
	if err != nil {
		storeError(c, "addFood", err, "failed to fetch foods")
		return
	}

	msg := fmt.Sprintf("Added: %s (%s) = %.0f kcal", name, body.Category, kcal)
	if updated {
		msg = fmt.Sprintf("Updated: %s (%s) = %.0f kcal", name, body.Category, kcal)
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "updated": updated, "foods": foods})
}

/* ─── Food log ───────────────────────────────────────────────────────── */

// getTarget links a date's TDEE and returns the goal-adjusted calorie target.
// GET /api/food-log/target?date=YYYY-MM-DD&goal=lose|maintain|gain.
func (h *Handler) getTarget(c *gin.Context) {
	goal, ok := parseGoal(c.Query("goal"))
	if !ok {
		apiError(c, http.StatusBadRequest, "goal must be one of: lose, maintain, gain")
		return
	}
	if c.Query("date") == "" {
		apiError(c, http.StatusBadRequest, "pick a date that has a saved TDEE")
		return
	}
	date, ok := parseDate(c.Query("date"))
	if !ok {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	tdee, target, found, err := h.targetFor(c, date, goal)
	if err != nil {
		storeError(c, "getTarget", err, "failed to fetch TDEE record")
		return
	}
	if !found {
		apiError(c, http.StatusBadRequest, "no TDEE on this date, compute it first")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "goal": goal, "tdee": tdee, "target": target})
}

// logDay totals the day's meal selections plus manual extra calories and
// stores the total, replacing any earlier total for that date. Progress is
// measured against the date's TDEE target; without a TDEE the target is 0.
// POST /api/food-log.
func (h *Handler) logDay(c *gin.Context) {
	username := currentUser(c)

	var body logDayRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, ok := parseDate(body.Date)
	if !ok {
		apiError(c, http.StatusBadRequest, "pick a valid date (YYYY-MM-DD)")
		return
	}
	goal, ok := parseGoal(body.Goal)
	if !ok {
		apiError(c, http.StatusBadRequest, "goal must be one of: lose, maintain, gain")
		return
	}
	var manual float64
	if !body.ManualExtra.blank() {
		if manual, ok = parseNumber(body.ManualExtra.String()); !ok {
			apiError(c, http.StatusBadRequest, "manual extra calories must be a number")
			return
		}
	}
	if manual > maxCalories {
		apiError(c, http.StatusBadRequest, fmt.Sprintf("manual extra calories must be at most %d", maxCalories))
		return
	}
	manual = math.Max(manual, 0)

	foods, err := h.store.foodCatalog(c, username)
	if err != nil {
		storeError(c, "logDay", err, "failed to fetch foods")
		return
	}
	summary := dailySummary{
		Date:      date,
		Goal:      goal,
		Breakfast: mealTotal(foods, body.Breakfast),
		Lunch:     mealTotal(foods, body.Lunch),
		Dinner:    mealTotal(foods, body.Dinner),
		Manual:    manual,
	}
	summary.Total = dailyTotal(foods, body.Breakfast, body.Lunch, body.Dinner, manual)

	if err := h.store.setFoodLogTotal(c, username, date, summary.Total); err != nil {
		storeError(c, "logDay", err, "failed to save day total")
		return
	}

	_, target, _, err := h.targetFor(c, date, goal)
	if err != nil {
		storeError(c, "logDay", err, "failed to fetch TDEE record")
		return
	}
	summary.Progress = computeProgress(summary.Total, target)
	switch {
	case !summary.Progress.HasTarget:
		summary.Message = "Target is 0; select a date with TDEE and goal."
	case summary.Progress.Delta > 0:
		summary.Message = fmt.Sprintf("Over target by +%.0f kcal.", summary.Progress.Delta)
	default:
		summary.Message = fmt.Sprintf("Under target by %.0f kcal.", math.Abs(summary.Progress.Delta))
	}

	c.JSON(http.StatusOK, summary)
}

// getWeek returns chart data: the 7 days ending at date (default today) and
// the target line for that date's TDEE (0 if none).
// GET /api/food-log/week?date=YYYY-MM-DD&goal=lose|maintain|gain.
func (h *Handler) getWeek(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format(dateLayout))
	date, ok := parseDate(date)
	if !ok {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	goal, ok := parseGoal(c.Query("goal"))
	if !ok {
		apiError(c, http.StatusBadRequest, "goal must be one of: lose, maintain, gain")
		return
	}

	foodLog, err := h.store.foodLog(c, currentUser(c))
	if err != nil {
		storeError(c, "getWeek", err, "failed to fetch food log")
		return
	}
	_, target, _, err := h.targetFor(c, date, goal)
	if err != nil {
		storeError(c, "getWeek", err, "failed to fetch TDEE record")
		return
	}

	ref, _ := time.Parse(dateLayout, date)
	c.JSON(http.StatusOK, weekChart{Date: date, Target: target, Days: weekSeries(foodLog, ref)})
}

// resetDay sets one day's total back to 0.
// DELETE /api/food-log/:date.
func (h *Handler) resetDay(c *gin.Context) {
	date, ok := parseDate(c.Param("date"))
	if !ok {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if err := h.store.clearFoodLogDay(c, currentUser(c), date); err != nil {
		storeError(c, "resetDay", err, "failed to reset day")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "total": 0, "message": fmt.Sprintf("Cleared totals for %s.", date)})
}

// clearFoodLog removes every logged day.
// DELETE /api/food-log.
func (h *Handler) clearFoodLog(c *gin.Context) {
	if err := h.store.clearFoodLogAll(c, currentUser(c)); err != nil {
		storeError(c, "clearFoodLog", err, "failed to clear food log")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cleared log."})
}
