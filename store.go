package main

import (
	"context"
	"errors"
)

var (
	// errDuplicateRecord is returned when a BMI record already exists for the date.
	errDuplicateRecord = errors.New("record already exists for this date")
	// errInvalidFood wraps every food catalog validation failure.
	errInvalidFood = errors.New("invalid food entry")
	// errUnknownUser is returned for a username that never logged in.
	errUnknownUser = errors.New("unknown user")
)

// recordStore is the per-user repository behind every handler. Records are
// keyed by (username, date); dates are canonical YYYY-MM-DD strings.
// Implementations: memoryStore (default) and pgStore.
type recordStore interface {
	// ensureUser creates the user's record with the default catalog if missing.
	ensureUser(ctx context.Context, username string) error

	bmiRecord(ctx context.Context, username, date string) (bmiRecord, bool, error)
	// bmiRecords returns all BMI records sorted by date.
	bmiRecords(ctx context.Context, username string) ([]bmiRecord, error)
	// insertBMI stores rec, failing with errDuplicateRecord if the date is taken.
	insertBMI(ctx context.Context, username string, rec bmiRecord) error
	// clearBMI removes the BMI record and the TDEE record of the same date.
	// Reports false when there was nothing to clear.
	clearBMI(ctx context.Context, username, date string) (bool, error)

	tdeeRecord(ctx context.Context, username, date string) (tdeeRecord, bool, error)
	tdeeRecords(ctx context.Context, username string) ([]tdeeRecord, error)
	// upsertTDEE always overwrites; unlike BMI there is no duplicate guard.
	upsertTDEE(ctx context.Context, username string, rec tdeeRecord) error

	// foodLog returns date → total for every logged day.
	foodLog(ctx context.Context, username string) (map[string]float64, error)
	setFoodLogTotal(ctx context.Context, username, date string, total float64) error
	// clearFoodLogDay resets one day's total to 0.
	clearFoodLogDay(ctx context.Context, username, date string) error
	clearFoodLogAll(ctx context.Context, username string) error

	foodCatalog(ctx context.Context, username string) (foodCatalog, error)
	// upsertFoodCatalogEntry overwrites by name within a category and reports
	// whether an existing entry was replaced.
	upsertFoodCatalogEntry(ctx context.Context, username, category, name string, kcal float64) (bool, error)
}
