// Package repotest provides in-memory repositories with the same filtering
// and ordering semantics as the SQL implementations, for use in tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/templui/macrotrack/internal/model"
	"github.com/templui/macrotrack/internal/repository"
)

// Store backs all three repositories. Set Err to make every call fail.
type Store struct {
	mu        sync.Mutex
	meals     map[string]model.Meal
	summaries map[string]model.DailySummary
	goals     map[string]model.NutritionGoals

	Err error
}

func NewStore() *Store {
	return &Store{
		meals:     map[string]model.Meal{},
		summaries: map[string]model.DailySummary{},
		goals:     map[string]model.NutritionGoals{},
	}
}

func (s *Store) Meals() repository.MealRepository       { return &mealRepo{s} }
func (s *Store) Summaries() repository.SummaryRepository { return &summaryRepo{s} }
func (s *Store) Goals() repository.GoalsRepository       { return &goalsRepo{s} }

// MealCount returns the number of stored meals across all users.
func (s *Store) MealCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.meals)
}

// GoalsCount returns the number of stored goal rows across all users.
func (s *Store) GoalsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.goals)
}

// PutSummary stores a summary row directly.
func (s *Store) PutSummary(summary model.DailySummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summaryKey(summary.UserID, summary.Day)] = summary
}

type mealRepo struct{ s *Store }

func (r *mealRepo) Create(_ context.Context, meal *model.Meal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	stored := *meal
	stored.EatenAt = meal.EatenAt.UTC()
	stored.CreatedAt = meal.CreatedAt.UTC()
	stored.UpdatedAt = meal.UpdatedAt.UTC()
	r.s.meals[meal.ID] = stored
	return nil
}

func (r *mealRepo) ByID(_ context.Context, userID, mealID string) (*model.Meal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	meal, ok := r.s.meals[mealID]
	if !ok || meal.UserID != userID {
		return nil, repository.ErrMealNotFound
	}
	return &meal, nil
}

func (r *mealRepo) Between(_ context.Context, userID string, from, to time.Time) ([]*model.Meal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	meals := []*model.Meal{}
	for _, m := range r.s.meals {
		if m.UserID == userID && !m.EatenAt.Before(from) && !m.EatenAt.After(to) {
			meal := m
			meals = append(meals, &meal)
		}
	}
	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].EatenAt.After(meals[j].EatenAt)
	})
	return meals, nil
}

func (r *mealRepo) Patch(_ context.Context, userID, mealID string, patch *model.MealPatch, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	meal, ok := r.s.meals[mealID]
	if !ok || meal.UserID != userID {
		return repository.ErrMealNotFound
	}
	if patch.EatenAt.Set {
		meal.EatenAt = patch.EatenAt.Value.UTC()
	}
	if patch.MealType.Set {
		meal.MealType = patch.MealType.Value
	}
	if patch.Title.Set {
		meal.Title = patch.Title.Value
	}
	if patch.Kcal.Set {
		meal.Kcal = patch.Kcal.Value
	}
	if patch.ProteinG.Set {
		meal.ProteinG = patch.ProteinG.Value
	}
	if patch.CarbsG.Set {
		meal.CarbsG = patch.CarbsG.Value
	}
	if patch.FatG.Set {
		meal.FatG = patch.FatG.Value
	}
	if patch.Confidence.Set {
		if patch.Confidence.Null || patch.Confidence.Value == nil {
			meal.Confidence = nil
		} else {
			v := *patch.Confidence.Value
			meal.Confidence = &v
		}
	}
	if patch.Notes.Set {
		meal.Notes = patch.Notes.Value
	}
	meal.UpdatedFromDashboard = true
	meal.UpdatedAt = now.UTC()
	r.s.meals[mealID] = meal
	return nil
}

func (r *mealRepo) Delete(_ context.Context, userID, mealID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	meal, ok := r.s.meals[mealID]
	if !ok || meal.UserID != userID {
		return repository.ErrMealNotFound
	}
	delete(r.s.meals, mealID)
	return nil
}

func (r *mealRepo) DeleteBetween(_ context.Context, userID string, from, to time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	deleted := 0
	for id, m := range r.s.meals {
		if m.UserID == userID && !m.EatenAt.Before(from) && !m.EatenAt.After(to) {
			delete(r.s.meals, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *mealRepo) UsersSince(_ context.Context, since time.Time) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	seen := map[string]bool{}
	userIDs := []string{}
	for _, m := range r.s.meals {
		if !m.EatenAt.Before(since) && !seen[m.UserID] {
			seen[m.UserID] = true
			userIDs = append(userIDs, m.UserID)
		}
	}
	sort.Strings(userIDs)
	return userIDs, nil
}

type summaryRepo struct{ s *Store }

func summaryKey(userID, day string) string {
	return userID + "|" + day
}

func (r *summaryRepo) ByDay(_ context.Context, userID, day string) (*model.DailySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	summary, ok := r.s.summaries[summaryKey(userID, day)]
	if !ok {
		return nil, repository.ErrSummaryNotFound
	}
	return &summary, nil
}

func (r *summaryRepo) Range(_ context.Context, userID, fromDay, toDay string) ([]*model.DailySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	summaries := []*model.DailySummary{}
	for _, sm := range r.s.summaries {
		if sm.UserID == userID && sm.Day >= fromDay && sm.Day <= toDay {
			summary := sm
			summaries = append(summaries, &summary)
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Day < summaries[j].Day
	})
	return summaries, nil
}

// Recompute aggregates and stores under one lock, matching the single
// statement of the SQL implementation.
func (r *summaryRepo) Recompute(_ context.Context, userID, day string, from, to time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	summary := model.EmptySummary(userID, day)
	for _, m := range r.s.meals {
		if m.UserID == userID && !m.EatenAt.Before(from) && !m.EatenAt.After(to) {
			meal := m
			summary.Add(&meal)
		}
	}
	key := summaryKey(userID, day)
	if summary.MealsCount == 0 {
		delete(r.s.summaries, key)
		return nil
	}
	r.s.summaries[key] = summary
	return nil
}

type goalsRepo struct{ s *Store }

func (r *goalsRepo) ByUserID(_ context.Context, userID string) (*model.NutritionGoals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	goals, ok := r.s.goals[userID]
	if !ok {
		return nil, repository.ErrGoalsNotFound
	}
	return &goals, nil
}

func (r *goalsRepo) Upsert(_ context.Context, goals *model.NutritionGoals) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	stored := *goals
	if existing, ok := r.s.goals[goals.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	r.s.goals[goals.UserID] = stored
	return nil
}
