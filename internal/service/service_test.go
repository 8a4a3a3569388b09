package service

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
	"github.com/templui/macrotrack/internal/model"
	"github.com/templui/macrotrack/internal/repository/repotest"
)

const (
	userA = "7b1f0c2e-3d4a-4c5b-8e6f-0a1b2c3d4e5f"
	userB = "0d9c8b7a-6f5e-4d3c-9b2a-1f0e9d8c7b6a"
)

type fixture struct {
	store     *repotest.Store
	summaries *SummaryService
	meals     *MealService
	goals     *GoalsService
	dashboard *DashboardService
	loc       *time.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	store := repotest.NewStore()
	now := func() time.Time { return time.Date(2025, 3, 10, 20, 0, 0, 0, loc) }

	summaries := NewSummaryService(store.Meals(), store.Summaries(), loc)
	summaries.now = now
	meals := NewMealService(store.Meals(), summaries, loc, 0.7)
	meals.now = now
	goals := NewGoalsService(store.Goals())
	goals.now = now

	return &fixture{
		store:     store,
		summaries: summaries,
		meals:     meals,
		goals:     goals,
		dashboard: NewDashboardService(meals, goals, store.Summaries()),
		loc:       loc,
	}
}

func mealInput(eatenAt time.Time, kcal float64) model.MealInput {
	return model.MealInput{
		Author:       model.MealAuthorManual,
		SourceDetail: "web",
		EatenAt:      eatenAt,
		MealType:     model.MealTypeLunch,
		Title:        "Bowl",
		Kcal:         model.Some(kcal),
		ProteinG:     model.Some(20.0),
		CarbsG:       model.Some(50.0),
		FatG:         model.Some(10.0),
		Confidence:   model.Field[*float64]{Set: true, Null: true},
	}
}

func (f *fixture) create(t *testing.T, userID string, eatenAt time.Time, kcal float64) *model.Meal {
	t.Helper()
	meal, err := f.meals.Create(context.Background(), userID, mealInput(eatenAt, kcal))
	require.NoError(t, err)
	return meal
}
