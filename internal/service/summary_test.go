package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/macrotrack/internal/model"
	"github.com/templui/macrotrack/internal/repository"
)

func TestSummaryService_Refresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, m := range []model.Meal{
		{ID: "a", UserID: userA, EatenAt: time.Date(2025, 3, 10, 8, 0, 0, 0, f.loc), Kcal: 400, ProteinG: 20, CarbsG: 40, FatG: 10},
		{ID: "b", UserID: userA, EatenAt: time.Date(2025, 3, 10, 20, 0, 0, 0, f.loc), Kcal: 600, ProteinG: 35, CarbsG: 60, FatG: 25},
	} {
		meal := m
		require.NoError(t, f.store.Meals().Create(ctx, &meal))
	}

	require.NoError(t, f.summaries.Refresh(ctx, userA, "2025-03-10"))

	summary, err := f.store.Summaries().ByDay(ctx, userA, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, model.DailySummary{
		UserID:       userA,
		Day:          "2025-03-10",
		MealsCount:   2,
		KcalTotal:    1000,
		ProteinTotal: 55,
		CarbsTotal:   100,
		FatTotal:     35,
	}, *summary)
}

func TestSummaryService_RefreshRemovesEmptyDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.PutSummary(model.DailySummary{UserID: userA, Day: "2025-03-10", MealsCount: 3, KcalTotal: 900})

	require.NoError(t, f.summaries.Refresh(ctx, userA, "2025-03-10"))

	_, err := f.store.Summaries().ByDay(ctx, userA, "2025-03-10")
	assert.Error(t, err)
}

func TestSummaryService_Rebuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	meal := model.Meal{ID: "a", UserID: userA, EatenAt: time.Date(2025, 3, 9, 12, 0, 0, 0, f.loc), Kcal: 750}
	require.NoError(t, f.store.Meals().Create(ctx, &meal))
	f.store.PutSummary(model.DailySummary{UserID: userA, Day: "2025-03-10", MealsCount: 1, KcalTotal: 100})

	refreshed, err := f.summaries.Rebuild(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, refreshed)

	summaries, err := f.store.Summaries().Range(ctx, userA, "2025-03-08", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "2025-03-09", summaries[0].Day)
	assert.Equal(t, 750.0, summaries[0].KcalTotal)
}

func TestSummaryService_RebuildWithoutMeals(t *testing.T) {
	f := newFixture(t)
	refreshed, err := f.summaries.Rebuild(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, refreshed)
}

// stallingSummaries holds the first Recompute until release is closed.
type stallingSummaries struct {
	repository.SummaryRepository
	once    sync.Once
	stalled chan struct{}
	release chan struct{}
}

func (s *stallingSummaries) Recompute(ctx context.Context, userID, day string, from, to time.Time) error {
	first := false
	s.once.Do(func() { first = true })
	if first {
		close(s.stalled)
		<-s.release
	}
	return s.SummaryRepository.Recompute(ctx, userID, day, from, to)
}

func TestSummaryService_InterleavedCreatesKeepEveryMeal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stall := &stallingSummaries{
		SummaryRepository: f.store.Summaries(),
		stalled:           make(chan struct{}),
		release:           make(chan struct{}),
	}
	f.summaries.summaries = stall

	done := make(chan error, 1)
	go func() {
		_, err := f.meals.Create(ctx, userA, mealInput(time.Date(2025, 3, 10, 8, 0, 0, 0, f.loc), 400))
		done <- err
	}()

	<-stall.stalled
	f.create(t, userA, time.Date(2025, 3, 10, 12, 0, 0, 0, f.loc), 600)
	close(stall.release)
	require.NoError(t, <-done)

	summary, err := f.store.Summaries().ByDay(ctx, userA, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.MealsCount)
	assert.Equal(t, 1000.0, summary.KcalTotal)

	view, err := f.dashboard.Day(ctx, userA, "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, view.Meals, view.Summary.MealsCount)
	assert.Equal(t, 1000.0, view.Summary.KcalTotal)
}
