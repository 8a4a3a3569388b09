package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/macrotrack/internal/db"
	"github.com/templui/macrotrack/internal/model"
	"github.com/templui/macrotrack/internal/repository"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	dsn := filepath.Join(t.TempDir(), "data", "test.db") + "?_pragma=foreign_keys(1)&_time_format=sqlite"
	conn, err := db.Init(ctx, "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(conn) })

	require.NoError(t, db.RunMigrations(ctx, conn.DB, "sqlite"))
	return conn
}

func TestMigrations(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	version, err := db.Version(ctx, conn.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	require.NoError(t, db.MigrateDown(ctx, conn.DB, "sqlite"))
	version, err = db.Version(ctx, conn.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestMealRepositoryOnSQLite(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	repo := repository.NewMealRepository(conn)

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	now := time.Now()
	conf := 0.4
	for i, eatenAt := range []time.Time{
		time.Date(2025, 3, 10, 0, 0, 0, 0, paris),
		time.Date(2025, 3, 10, 23, 50, 0, 0, paris),
		time.Date(2025, 3, 11, 0, 0, 0, 0, paris),
	} {
		meal := &model.Meal{
			ID:           []string{"m1", "m2", "m3"}[i],
			UserID:       "u1",
			Author:       model.MealAuthorAI,
			SourceDetail: "vision",
			EatenAt:      eatenAt,
			MealType:     model.MealTypeDinner,
			Title:        "Pasta",
			Kcal:         700,
			ProteinG:     25,
			CarbsG:       90,
			FatG:         20,
			Confidence:   &conf,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		require.NoError(t, repo.Create(ctx, meal))
	}

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, paris)
	to := time.Date(2025, 3, 11, 0, 0, 0, 0, paris).Add(-time.Millisecond)
	meals, err := repo.Between(ctx, "u1", from, to)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "m2", meals[0].ID)
	assert.Equal(t, "m1", meals[1].ID)
	require.NotNil(t, meals[0].Confidence)
	assert.Equal(t, 0.4, *meals[0].Confidence)

	patch := &model.MealPatch{Confidence: model.Field[*float64]{Set: true, Null: true}, Kcal: model.Some(650.0)}
	require.NoError(t, repo.Patch(ctx, "u1", "m1", patch, now))
	patched, err := repo.ByID(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.Nil(t, patched.Confidence)
	assert.Equal(t, 650.0, patched.Kcal)
	assert.True(t, patched.UpdatedFromDashboard)

	assert.ErrorIs(t, repo.Patch(ctx, "u2", "m1", patch, now), repository.ErrMealNotFound)

	deleted, err := repo.DeleteBetween(ctx, "u1", from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
}

func TestGoalsUpsertOnSQLite(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	repo := repository.NewGoalsRepository(conn)

	now := time.Now()
	require.NoError(t, repo.Upsert(ctx, &model.NutritionGoals{UserID: "u1", KcalTarget: 2000, ProteinGTarget: 120, CarbsGTarget: 220, FatGTarget: 60, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repo.Upsert(ctx, &model.NutritionGoals{UserID: "u1", KcalTarget: 1800, ProteinGTarget: 150, CarbsGTarget: 180, FatGTarget: 55, CreatedAt: now, UpdatedAt: now}))

	var count int
	require.NoError(t, conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM nutrition_goals`))
	assert.Equal(t, 1, count)

	goals, err := repo.ByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1800.0, goals.KcalTarget)
}

func TestSummaryRecomputeOnSQLite(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	meals := repository.NewMealRepository(conn)
	summaries := repository.NewSummaryRepository(conn)

	now := time.Now()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	from, to := day, day.Add(24*time.Hour-time.Millisecond)
	for i, kcal := range []float64{400, 600} {
		require.NoError(t, meals.Create(ctx, &model.Meal{
			ID:           []string{"m1", "m2"}[i],
			UserID:       "u1",
			Author:       model.MealAuthorManual,
			SourceDetail: "web",
			EatenAt:      day.Add(time.Duration(8+4*i) * time.Hour),
			MealType:     model.MealTypeLunch,
			Title:        "Bowl",
			Kcal:         kcal,
			ProteinG:     20,
			CarbsG:       50,
			FatG:         10,
			CreatedAt:    now,
			UpdatedAt:    now,
		}))
	}

	require.NoError(t, summaries.Recompute(ctx, "u1", "2025-03-10", from, to))
	summary, err := summaries.ByDay(ctx, "u1", "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.MealsCount)
	assert.Equal(t, 1000.0, summary.KcalTotal)
	assert.Equal(t, 40.0, summary.ProteinTotal)

	_, err = meals.DeleteBetween(ctx, "u1", from, to)
	require.NoError(t, err)
	require.NoError(t, summaries.Recompute(ctx, "u1", "2025-03-10", from, to))
	_, err = summaries.ByDay(ctx, "u1", "2025-03-10")
	assert.ErrorIs(t, err, repository.ErrSummaryNotFound)
}
