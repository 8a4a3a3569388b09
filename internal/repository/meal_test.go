package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/macrotrack/internal/model"
)

var mealColumns = []string{
	"id", "user_id", "author", "source_detail", "eaten_at", "meal_type", "title",
	"kcal", "protein_g", "carbs_g", "fat_g", "confidence", "notes",
	"updated_from_dashboard", "created_at", "updated_at",
}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestMealRepository_CreateNormalizesToUTC(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMealRepository(db)

	paris := time.FixedZone("CET", 3600)
	eatenAt := time.Date(2026, 2, 22, 23, 50, 0, 0, paris)
	meal := &model.Meal{
		ID:           "m1",
		UserID:       "u1",
		Author:       model.MealAuthorManual,
		SourceDetail: "manual_form",
		EatenAt:      eatenAt,
		MealType:     model.MealTypeDinner,
		Title:        "Omelette",
		Kcal:         520,
		ProteinG:     30,
		CarbsG:       12,
		FatG:         34,
		Notes:        "",
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO meals (id, user_id, author")).
		WithArgs("m1", "u1", "manual", "manual_form", eatenAt.UTC(), "dinner", "Omelette",
			520.0, 30.0, 12.0, 34.0, nil, "", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), meal))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMealRepository_ByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMealRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM meals WHERE id = $1 AND user_id = $2")).
		WithArgs("m1", "u2").
		WillReturnRows(sqlmock.NewRows(mealColumns))

	_, err := repo.ByID(context.Background(), "u2", "m1")
	assert.ErrorIs(t, err, ErrMealNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMealRepository_Between(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMealRepository(db)

	from := time.Date(2026, 2, 21, 23, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 22, 22, 59, 59, 999000000, time.UTC)
	later := time.Date(2026, 2, 22, 19, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 2, 22, 11, 35, 0, 0, time.UTC)

	rows := sqlmock.NewRows(mealColumns).
		AddRow("m2", "u1", "manual", "manual_form", later, "dinner", "Omelette", 520.0, 30.0, 12.0, 34.0, nil, "", false, later, later).
		AddRow("m1", "u1", "ai", "photo_ai", earlier, "lunch", "Poulet riz", 680.0, 48.0, 72.0, 18.0, 0.78, "Estimation", true, earlier, earlier)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM meals WHERE user_id = $1 AND eaten_at >= $2 AND eaten_at <= $3 ORDER BY eaten_at DESC")).
		WithArgs("u1", from, to).
		WillReturnRows(rows)

	meals, err := repo.Between(context.Background(), "u1", from, to)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "m2", meals[0].ID)
	assert.Nil(t, meals[0].Confidence)
	require.NotNil(t, meals[1].Confidence)
	assert.Equal(t, 0.78, *meals[1].Confidence)
	assert.True(t, meals[1].UpdatedFromDashboard)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMealRepository_PatchOnlyPresentFields(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMealRepository(db)
	now := time.Date(2026, 2, 23, 8, 0, 0, 0, time.UTC)

	patch := &model.MealPatch{
		Kcal:       model.Some(500.0),
		Confidence: model.Field[*float64]{Set: true, Null: true},
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE meals SET kcal = $1, confidence = $2, updated_from_dashboard = $3, updated_at = $4 WHERE id = $5 AND user_id = $6")).
		WithArgs(500.0, nil, true, now, "m1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Patch(context.Background(), "u1", "m1", patch, now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMealRepository_PatchOtherUsersMeal(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMealRepository(db)

	patch := &model.MealPatch{Kcal: model.Some(500.0)}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE meals SET kcal = $1")).
		WithArgs(500.0, true, sqlmock.AnyArg(), "m1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Patch(context.Background(), "intruder", "m1", patch, time.Now())
	assert.ErrorIs(t, err, ErrMealNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMealRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMealRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM meals WHERE id = $1 AND user_id = $2")).
		WithArgs("m1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM meals WHERE id = $1 AND user_id = $2")).
		WithArgs("m1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u1", "m1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u1", "m1"), ErrMealNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMealRepository_DeleteBetweenIsOneStatement(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMealRepository(db)

	from := time.Date(2026, 2, 21, 23, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 22, 22, 59, 59, 999000000, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM meals WHERE user_id = $1 AND eaten_at >= $2 AND eaten_at <= $3")).
		WithArgs("u1", from, to).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.DeleteBetween(context.Background(), "u1", from, to)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMealRepository_DeleteBetweenPropagatesStoreError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMealRepository(db)

	storeErr := errors.New("connection reset")
	mock.ExpectExec("DELETE FROM meals").WillReturnError(storeErr)

	_, err := repo.DeleteBetween(context.Background(), "u1", time.Now(), time.Now())
	assert.ErrorIs(t, err, storeErr)
}

func TestMealRepository_UsersSince(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMealRepository(db)
	since := time.Date(2026, 2, 15, 23, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT user_id FROM meals WHERE eaten_at >= $1")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1").AddRow("u2"))

	users, err := repo.UsersSince(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, users)
}
