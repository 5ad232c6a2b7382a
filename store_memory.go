package main

import (
	"context"
	"sort"
	"sync"
)

// userRecord is everything stored for one username.
type userRecord struct {
	bmi     map[string]bmiRecord
	tdee    map[string]tdeeRecord
	foodLog map[string]float64
	foods   foodCatalog
}

// memoryStore keeps all records in process memory. Data is lost on restart.
type memoryStore struct {
	mu    sync.RWMutex
	users map[string]*userRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[string]*userRecord)}
}

func (s *memoryStore) ensureUser(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; !ok {
		s.users[username] = &userRecord{
			bmi:     make(map[string]bmiRecord),
			tdee:    make(map[string]tdeeRecord),
			foodLog: make(map[string]float64),
			foods:   defaultCatalog.clone(),
		}
	}
	return nil
}

// user must be called with s.mu held.
func (s *memoryStore) user(username string) (*userRecord, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, errUnknownUser
	}
	return u, nil
}

/* ─── BMI ────────────────────────────────────────────────────────────── */

func (s *memoryStore) bmiRecord(_ context.Context, username, date string) (bmiRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, err := s.user(username)
	if err != nil {
		return bmiRecord{}, false, err
	}
	rec, ok := u.bmi[date]
	return rec, ok, nil
}

func (s *memoryStore) bmiRecords(_ context.Context, username string) ([]bmiRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, err := s.user(username)
	if err != nil {
		return nil, err
	}
	out := make([]bmiRecord, 0, len(u.bmi))
	for _, rec := range u.bmi {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *memoryStore) insertBMI(_ context.Context, username string, rec bmiRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.user(username)
	if err != nil {
		return err
	}
	if _, exists := u.bmi[rec.Date]; exists {
		return errDuplicateRecord
	}
	u.bmi[rec.Date] = rec
	return nil
}

func (s *memoryStore) clearBMI(_ context.Context, username, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.user(username)
	if err != nil {
		return false, err
	}
	if _, exists := u.bmi[date]; !exists {
		return false, nil
	}
	delete(u.bmi, date)
	delete(u.tdee, date)
	return true, nil
}

/* ─── TDEE ───────────────────────────────────────────────────────────── */

func (s *memoryStore) tdeeRecord(_ context.Context, username, date string) (tdeeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, err := s.user(username)
	if err != nil {
		return tdeeRecord{}, false, err
	}
	rec, ok := u.tdee[date]
	return rec, ok, nil
}

func (s *memoryStore) tdeeRecords(_ context.Context, username string) ([]tdeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, err := s.user(username)
	if err != nil {
		return nil, err
	}
	out := make([]tdeeRecord, 0, len(u.tdee))
	for _, rec := range u.tdee {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *memoryStore) upsertTDEE(_ context.Context, username string, rec tdeeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.user(username)
	if err != nil {
		return err
	}
	u.tdee[rec.Date] = rec
	return nil
}

/* ─── Food log ───────────────────────────────────────────────────────── */

func (s *memoryStore) foodLog(_ context.Context, username string) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, err := s.user(username)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(u.foodLog))
	for d, total := range u.foodLog {
		out[d] = total
	}
	return out, nil
}

func (s *memoryStore) setFoodLogTotal(_ context.Context, username, date string, total float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.user(username)
	if err != nil {
		return err
	}
	u.foodLog[date] = total
	return nil
}

func (s *memoryStore) clearFoodLogDay(ctx context.Context, username, date string) error {
	return s.setFoodLogTotal(ctx, username, date, 0)
}

func (s *memoryStore) clearFoodLogAll(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.user(username)
	if err != nil {
		return err
	}
	clear(u.foodLog)
	return nil
}

/* ─── Food catalog ───────────────────────────────────────────────────── */

func (s *memoryStore) foodCatalog(_ context.Context, username string) (foodCatalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, err := s.user(username)
	if err != nil {
		return foodCatalog{}, err
	}
	return u.foods.clone(), nil
}

func (s *memoryStore) upsertFoodCatalogEntry(_ context.Context, username, category, name string, kcal float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.user(username)
	if err != nil {
		return false, err
	}
	return u.foods.upsert(category, name, kcal)
}
