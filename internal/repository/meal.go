package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/macrotrack/internal/model"
)

var (
	ErrMealNotFound = errors.New("meal not found")
)

// MealRepository stores meals. Every method is scoped by user ID. Instants
// are written in UTC so range filters compare correctly on every driver.
type MealRepository interface {
	Create(ctx context.Context, meal *model.Meal) error
	ByID(ctx context.Context, userID, mealID string) (*model.Meal, error)
	Between(ctx context.Context, userID string, from, to time.Time) ([]*model.Meal, error)
	Patch(ctx context.Context, userID, mealID string, patch *model.MealPatch, now time.Time) error
	Delete(ctx context.Context, userID, mealID string) error
	DeleteBetween(ctx context.Context, userID string, from, to time.Time) (int, error)
	UsersSince(ctx context.Context, since time.Time) ([]string, error)
}

type mealRepository struct {
	db *sqlx.DB
}

func NewMealRepository(db *sqlx.DB) MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) Create(ctx context.Context, meal *model.Meal) error {
	query := `INSERT INTO meals (id, user_id, author, source_detail, eaten_at, meal_type, title,
	          kcal, protein_g, carbs_g, fat_g, confidence, notes, updated_from_dashboard, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.ExecContext(ctx, query,
		meal.ID,
		meal.UserID,
		meal.Author,
		meal.SourceDetail,
		meal.EatenAt.UTC(),
		meal.MealType,
		meal.Title,
		meal.Kcal,
		meal.ProteinG,
		meal.CarbsG,
		meal.FatG,
		meal.Confidence,
		meal.Notes,
		meal.UpdatedFromDashboard,
		meal.CreatedAt.UTC(),
		meal.UpdatedAt.UTC(),
	)

	return err
}

func (r *mealRepository) ByID(ctx context.Context, userID, mealID string) (*model.Meal, error) {
	meal := &model.Meal{}
	query := `SELECT * FROM meals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, meal, query, mealID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrMealNotFound
	}
	if err != nil {
		return nil, err
	}

	return meal, nil
}

// Between returns meals eaten within [from, to], most recent first.
func (r *mealRepository) Between(ctx context.Context, userID string, from, to time.Time) ([]*model.Meal, error) {
	meals := []*model.Meal{}
	query := `SELECT * FROM meals
	          WHERE user_id = $1 AND eaten_at >= $2 AND eaten_at <= $3
	          ORDER BY eaten_at DESC`

	err := r.db.SelectContext(ctx, &meals, query, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}

	return meals, nil
}

// Patch writes only the fields present in patch and flags the row as edited
// from the dashboard.
func (r *mealRepository) Patch(ctx context.Context, userID, mealID string, patch *model.MealPatch, now time.Time) error {
	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.EatenAt.Set {
		set("eaten_at", patch.EatenAt.Value.UTC())
	}
	if patch.MealType.Set {
		set("meal_type", patch.MealType.Value)
	}
	if patch.Title.Set {
		set("title", patch.Title.Value)
	}
	if patch.Kcal.Set {
		set("kcal", patch.Kcal.Value)
	}
	if patch.ProteinG.Set {
		set("protein_g", patch.ProteinG.Value)
	}
	if patch.CarbsG.Set {
		set("carbs_g", patch.CarbsG.Value)
	}
	if patch.FatG.Set {
		set("fat_g", patch.FatG.Value)
	}
	if patch.Confidence.Set {
		if patch.Confidence.Null || patch.Confidence.Value == nil {
			set("confidence", nil)
		} else {
			set("confidence", *patch.Confidence.Value)
		}
	}
	if patch.Notes.Set {
		set("notes", patch.Notes.Value)
	}
	set("updated_from_dashboard", true)
	set("updated_at", now.UTC())

	args = append(args, mealID, userID)
	query := fmt.Sprintf(`UPDATE meals SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMealNotFound
	}

	return nil
}

func (r *mealRepository) Delete(ctx context.Context, userID, mealID string) error {
	query := `DELETE FROM meals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, mealID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMealNotFound
	}

	return nil
}

// DeleteBetween removes every meal in [from, to] with a single statement.
func (r *mealRepository) DeleteBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	query := `DELETE FROM meals WHERE user_id = $1 AND eaten_at >= $2 AND eaten_at <= $3`
	result, err := r.db.ExecContext(ctx, query, userID, from.UTC(), to.UTC())
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}

// UsersSince lists users with at least one meal eaten at or after since.
func (r *mealRepository) UsersSince(ctx context.Context, since time.Time) ([]string, error) {
	userIDs := []string{}
	query := `SELECT DISTINCT user_id FROM meals WHERE eaten_at >= $1 ORDER BY user_id`

	err := r.db.SelectContext(ctx, &userIDs, query, since.UTC())
	if err != nil {
		return nil, err
	}

	return userIDs, nil
}
