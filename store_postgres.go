package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgStore is the Postgres-backed recordStore. Schema lives in db/*.sql and is
// applied with cmd/migrate. The "-" catalog sentinel is never stored; it is
// added back when the catalog is read.
type pgStore struct {
	db *pgxpool.Pool
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// newPGStore creates a connection pool. We use a pool (not a single conn) because
// hosted Postgres providers close idle connections after a few minutes.
func newPGStore(ctx context.Context, dbURL string) (*pgStore, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &pgStore{db: pool}, nil
}

func (s *pgStore) close() { s.db.Close() }

// ensureUser inserts the user and, on first creation, the default catalog in
// one transaction.
func (s *pgStore) ensureUser(ctx context.Context, username string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		"INSERT INTO health_users (username) VALUES (@username) ON CONFLICT (username) DO NOTHING",
		pgx.NamedArgs{"username": username})
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if result.RowsAffected() == 1 {
		for _, category := range foodCategories {
			for pos, it := range *defaultCatalog.table(category) {
				if it.Name == sentinelFood {
					continue
				}
				if _, err := tx.Exec(ctx,
					`INSERT INTO food_catalog (username, category, name, calories, position)
					 VALUES (@username, @category, @name, @calories, @position)`,
					pgx.NamedArgs{
						"username": username, "category": category,
						"name": it.Name, "calories": it.Calories, "position": pos,
					}); err != nil {
					return fmt.Errorf("seed catalog: %w", err)
				}
			}
		}
	}
	return tx.Commit(ctx)
}

/* ─── BMI ────────────────────────────────────────────────────────────── */

const bmiColumns = `TO_CHAR(date, 'YYYY-MM-DD') AS date, height_cm, weight_kg, bmi`

func (s *pgStore) bmiRecord(ctx context.Context, username, date string) (bmiRecord, bool, error) {
	rec, err := queryOne[bmiRecord](s.db, ctx,
		"SELECT "+bmiColumns+" FROM bmi_records WHERE username = @username AND date = @date",
		pgx.NamedArgs{"username": username, "date": date})
	if errors.Is(err, pgx.ErrNoRows) {
		return bmiRecord{}, false, nil
	}
	if err != nil {
		return bmiRecord{}, false, err
	}
	return rec, true, nil
}

func (s *pgStore) bmiRecords(ctx context.Context, username string) ([]bmiRecord, error) {
	return queryMany[bmiRecord](s.db, ctx,
		"SELECT "+bmiColumns+" FROM bmi_records WHERE username = @username ORDER BY date ASC",
		pgx.NamedArgs{"username": username})
}

// insertBMI relies on the (username, date) primary key: a conflicting insert
// affects no rows.
func (s *pgStore) insertBMI(ctx context.Context, username string, rec bmiRecord) error {
	result, err := s.db.Exec(ctx,
		`INSERT INTO bmi_records (username, date, height_cm, weight_kg, bmi)
		 VALUES (@username, @date, @heightCM, @weightKG, @bmi)
		 ON CONFLICT (username, date) DO NOTHING`,
		pgx.NamedArgs{
			"username": username, "date": rec.Date,
			"heightCM": rec.HeightCM, "weightKG": rec.WeightKG, "bmi": rec.BMI,
		})
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return errDuplicateRecord
	}
	return nil
}

func (s *pgStore) clearBMI(ctx context.Context, username, date string) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	args := pgx.NamedArgs{"username": username, "date": date}
	result, err := tx.Exec(ctx, "DELETE FROM bmi_records WHERE username = @username AND date = @date", args)
	if err != nil {
		return false, err
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := tx.Exec(ctx, "DELETE FROM tdee_records WHERE username = @username AND date = @date", args); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

/* ─── TDEE ───────────────────────────────────────────────────────────── */

const tdeeColumns = `TO_CHAR(date, 'YYYY-MM-DD') AS date, bmr, tdee, gender, age, activity, height_cm, weight_kg`

func (s *pgStore) tdeeRecord(ctx context.Context, username, date string) (tdeeRecord, bool, error) {
	rec, err := queryOne[tdeeRecord](s.db, ctx,
		"SELECT "+tdeeColumns+" FROM tdee_records WHERE username = @username AND date = @date",
		pgx.NamedArgs{"username": username, "date": date})
	if errors.Is(err, pgx.ErrNoRows) {
		return tdeeRecord{}, false, nil
	}
	if err != nil {
		return tdeeRecord{}, false, err
	}
	return rec, true, nil
}

func (s *pgStore) tdeeRecords(ctx context.Context, username string) ([]tdeeRecord, error) {
	return queryMany[tdeeRecord](s.db, ctx,
		"SELECT "+tdeeColumns+" FROM tdee_records WHERE username = @username ORDER BY date ASC",
		pgx.NamedArgs{"username": username})
}

func (s *pgStore) upsertTDEE(ctx context.Context, username string, rec tdeeRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO tdee_records (username, date, bmr, tdee, gender, age, activity, height_cm, weight_kg)
		 VALUES (@username, @date, @bmr, @tdee, @gender, @age, @activity, @heightCM, @weightKG)
		 ON CONFLICT (username, date) DO UPDATE SET
			bmr       = EXCLUDED.bmr,
			tdee      = EXCLUDED.tdee,
			gender    = EXCLUDED.gender,
			age       = EXCLUDED.age,
			activity  = EXCLUDED.activity,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg`,
		pgx.NamedArgs{
			"username": username, "date": rec.Date, "bmr": rec.BMR, "tdee": rec.TDEE,
			"gender": rec.Gender, "age": rec.Age, "activity": rec.Activity,
			"heightCM": rec.HeightCM, "weightKG": rec.WeightKG,
		})
	return err
}

/* ─── Food log ───────────────────────────────────────────────────────── */

func (s *pgStore) foodLog(ctx context.Context, username string) (map[string]float64, error) {
	days, err := queryMany[foodLogDay](s.db, ctx,
		`SELECT TO_CHAR(date, 'YYYY-MM-DD') AS date, total
		 FROM food_log WHERE username = @username`,
		pgx.NamedArgs{"username": username})
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(days))
	for _, d := range days {
		out[d.Date] = d.Total
	}
	return out, nil
}

func (s *pgStore) setFoodLogTotal(ctx context.Context, username, date string, total float64) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO food_log (username, date, total) VALUES (@username, @date, @total)
		 ON CONFLICT (username, date) DO UPDATE SET total = EXCLUDED.total`,
		pgx.NamedArgs{"username": username, "date": date, "total": total})
	return err
}

func (s *pgStore) clearFoodLogDay(ctx context.Context, username, date string) error {
	return s.setFoodLogTotal(ctx, username, date, 0)
}

func (s *pgStore) clearFoodLogAll(ctx context.Context, username string) error {
	_, err := s.db.Exec(ctx, "DELETE FROM food_log WHERE username = @username",
		pgx.NamedArgs{"username": username})
	return err
}

/* ─── Food catalog ───────────────────────────────────────────────────── */

// catalogRow is the scan shape of food_catalog rows.
type catalogRow struct {
	Category string  `db:"category"`
	Name     string  `db:"name"`
	Calories float64 `db:"calories"`
}

func (s *pgStore) foodCatalog(ctx context.Context, username string) (foodCatalog, error) {
	rows, err := queryMany[catalogRow](s.db, ctx,
		`SELECT category, name, calories FROM food_catalog
		 WHERE username = @username ORDER BY category, position ASC`,
		pgx.NamedArgs{"username": username})
	if err != nil {
		return foodCatalog{}, err
	}
	var fc foodCatalog
	for _, category := range foodCategories {
		*fc.table(category) = []foodItem{{Name: sentinelFood}}
	}
	for _, r := range rows {
		tbl := fc.table(r.Category)
		if tbl == nil {
			continue
		}
		*tbl = append(*tbl, foodItem{Name: r.Name, Calories: r.Calories})
	}
	return fc, nil
}

// upsertFoodCatalogEntry gives the entry a position below every other entry of
// its category so it sorts right after the sentinel.
func (s *pgStore) upsertFoodCatalogEntry(ctx context.Context, username, category, name string, kcal float64) (bool, error) {
	name = strings.TrimSpace(name)
	if err := validateFoodEntry(category, name, kcal); err != nil {
		return false, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	args := pgx.NamedArgs{"username": username, "category": category, "name": name, "calories": kcal}
	var updated bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM food_catalog
		 WHERE username = @username AND category = @category AND name = @name)`,
		args).Scan(&updated); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO food_catalog (username, category, name, calories, position)
		 VALUES (@username, @category, @name, @calories,
			(SELECT COALESCE(MIN(position), 0) - 1 FROM food_catalog
			 WHERE username = @username AND category = @category))
		 ON CONFLICT (username, category, name) DO UPDATE SET
			calories = EXCLUDED.calories,
			position = EXCLUDED.position`,
		args); err != nil {
		return false, err
	}
	return updated, tx.Commit(ctx)
}
