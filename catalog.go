package main

import (
	_ "embed"
	"fmt"
	"log"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// sentinelFood is the "nothing selected" entry heading every catalog table.
const sentinelFood = "-"

// maxCalories caps a single catalog entry and a day's manual extra.
const maxCalories = 10000

const (
	categoryMain     = "main"
	categoryDessert  = "dessert"
	categoryBeverage = "beverage"
)

// foodCategories lists the catalog tables in display order.
var foodCategories = []string{categoryMain, categoryDessert, categoryBeverage}

//go:embed catalog_defaults.yaml
var catalogDefaultsYAML []byte

// defaultCatalog is copied into every new user record.
var defaultCatalog foodCatalog

func init() {
	var err error
	defaultCatalog, err = loadCatalog(catalogDefaultsYAML)
	if err != nil {
		log.Fatalf("[catalog] invalid default catalog: %v", err)
	}
}

// foodItem is one name→kcal entry of a catalog table.
type foodItem struct {
	Name     string  `json:"name"     yaml:"name"     db:"name"`
	Calories float64 `json:"calories" yaml:"calories" db:"calories"`
}

// foodCatalog holds a user's three food tables. Each table is ordered: the
// sentinel first, then the most recently added entry, then the rest.
type foodCatalog struct {
	Main     []foodItem `json:"main"     yaml:"main"`
	Dessert  []foodItem `json:"dessert"  yaml:"dessert"`
	Beverage []foodItem `json:"beverage" yaml:"beverage"`
}

// loadCatalog parses a YAML catalog and puts the sentinel at the head of each
// table. Entries must have a name and non-negative calories.
func loadCatalog(data []byte) (foodCatalog, error) {
	var fc foodCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return foodCatalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	for _, category := range foodCategories {
		tbl := fc.table(category)
		items := []foodItem{{Name: sentinelFood, Calories: 0}}
		for _, it := range *tbl {
			if it.Name == sentinelFood {
				continue
			}
			if err := validateFoodEntry(category, it.Name, it.Calories); err != nil {
				return foodCatalog{}, err
			}
			items = append(items, it)
		}
		*tbl = items
	}
	return fc, nil
}

// table returns a pointer to the named table, or nil for an unknown category.
func (fc *foodCatalog) table(category string) *[]foodItem {
	switch category {
	case categoryMain:
		return &fc.Main
	case categoryDessert:
		return &fc.Dessert
	case categoryBeverage:
		return &fc.Beverage
	}
	return nil
}

// clone returns a deep copy so callers can't mutate stored tables.
func (fc foodCatalog) clone() foodCatalog {
	return foodCatalog{
		Main:     append([]foodItem(nil), fc.Main...),
		Dessert:  append([]foodItem(nil), fc.Dessert...),
		Beverage: append([]foodItem(nil), fc.Beverage...),
	}
}

// calories looks up name in a table. Missing names count 0, the same as the
// sentinel.
func (fc foodCatalog) calories(category, name string) float64 {
	tbl := fc.table(category)
	if tbl == nil {
		return 0
	}
	for _, it := range *tbl {
		if it.Name == name {
			return it.Calories
		}
	}
	return 0
}

// upsert overwrites name's calories (or adds it) and moves the entry directly
// after the sentinel. Reports whether an existing entry was overwritten.
func (fc *foodCatalog) upsert(category, name string, kcal float64) (bool, error) {
	name = strings.TrimSpace(name)
	if err := validateFoodEntry(category, name, kcal); err != nil {
		return false, err
	}
	tbl := fc.table(category)
	items := []foodItem{{Name: sentinelFood}, {Name: name, Calories: kcal}}
	updated := false
	for _, it := range *tbl {
		switch it.Name {
		case sentinelFood:
		case name:
			updated = true
		default:
			items = append(items, it)
		}
	}
	*tbl = items
	return updated, nil
}

// validateFoodEntry rejects unknown categories, empty or sentinel names, and
// calorie values outside 0..maxCalories.
func validateFoodEntry(category, name string, kcal float64) error {
	var probe foodCatalog
	if probe.table(category) == nil {
		return fmt.Errorf("%w: category must be one of: %s", errInvalidFood, strings.Join(foodCategories, ", "))
	}
	if name == "" {
		return fmt.Errorf("%w: name is required", errInvalidFood)
	}
	if name == sentinelFood {
		return fmt.Errorf("%w: %q is reserved", errInvalidFood, sentinelFood)
	}
	if kcal < 0 || kcal > maxCalories || math.IsNaN(kcal) {
		return fmt.Errorf("%w: calories must be a number between 0 and %d", errInvalidFood, maxCalories)
	}
	return nil
}

// mealTotal sums one main, one dessert and one beverage.
func mealTotal(fc foodCatalog, sel mealSelection) float64 {
	return fc.calories(categoryMain, sel.Main) +
		fc.calories(categoryDessert, sel.Dessert) +
		fc.calories(categoryBeverage, sel.Beverage)
}

// dailyTotal sums the three meals plus any positive manual extra.
func dailyTotal(fc foodCatalog, breakfast, lunch, dinner mealSelection, manualExtra float64) float64 {
	return mealTotal(fc, breakfast) + mealTotal(fc, lunch) + mealTotal(fc, dinner) +
		math.Max(manualExtra, 0)
}
