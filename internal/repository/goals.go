package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/macrotrack/internal/model"
)

var (
	ErrGoalsNotFound = errors.New("nutrition goals not found")
)

type GoalsRepository interface {
	ByUserID(ctx context.Context, userID string) (*model.NutritionGoals, error)
	Upsert(ctx context.Context, goals *model.NutritionGoals) error
}

type goalsRepository struct {
	db *sqlx.DB
}

func NewGoalsRepository(db *sqlx.DB) GoalsRepository {
	return &goalsRepository{db: db}
}

func (r *goalsRepository) ByUserID(ctx context.Context, userID string) (*model.NutritionGoals, error) {
	goals := &model.NutritionGoals{}
	query := `SELECT * FROM nutrition_goals WHERE user_id = $1`

	err := r.db.GetContext(ctx, goals, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalsNotFound
	}
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// Upsert inserts the user's goals or overwrites the targets in place.
// created_at is kept from the first insert.
func (r *goalsRepository) Upsert(ctx context.Context, goals *model.NutritionGoals) error {
	query := `INSERT INTO nutrition_goals (user_id, kcal_target, protein_g_target, carbs_g_target, fat_g_target, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (user_id) DO UPDATE SET
	              kcal_target = excluded.kcal_target,
	              protein_g_target = excluded.protein_g_target,
	              carbs_g_target = excluded.carbs_g_target,
	              fat_g_target = excluded.fat_g_target,
	              updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		goals.UserID,
		goals.KcalTarget,
		goals.ProteinGTarget,
		goals.CarbsGTarget,
		goals.FatGTarget,
		goals.CreatedAt.UTC(),
		goals.UpdatedAt.UTC(),
	)

	return err
}
