package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/macrotrack/internal/model"
)

var (
	ErrSummaryNotFound = errors.New("daily summary not found")
)

type SummaryRepository interface {
	ByDay(ctx context.Context, userID, day string) (*model.DailySummary, error)
	Range(ctx context.Context, userID, fromDay, toDay string) ([]*model.DailySummary, error)
	Recompute(ctx context.Context, userID, day string, from, to time.Time) error
}

type summaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) ByDay(ctx context.Context, userID, day string) (*model.DailySummary, error) {
	summary := &model.DailySummary{}
	query := `SELECT * FROM daily_summary WHERE user_id = $1 AND day = $2`

	err := r.db.GetContext(ctx, summary, query, userID, day)
	if err == sql.ErrNoRows {
		return nil, ErrSummaryNotFound
	}
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// Range returns the stored summaries for days in [fromDay, toDay], ascending.
// Days without a row are simply absent.
func (r *summaryRepository) Range(ctx context.Context, userID, fromDay, toDay string) ([]*model.DailySummary, error) {
	summaries := []*model.DailySummary{}
	query := `SELECT * FROM daily_summary
	          WHERE user_id = $1 AND day >= $2 AND day <= $3
	          ORDER BY day ASC`

	err := r.db.SelectContext(ctx, &summaries, query, userID, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

// Recompute rebuilds the row for day from the meals eaten within [from, to].
// Totals are aggregated and written by one statement, so a concurrent write
// to the same day cannot leave behind totals computed from an older read. A
// day whose count drops to zero loses its row.
func (r *summaryRepository) Recompute(ctx context.Context, userID, day string, from, to time.Time) error {
	upsert := `INSERT INTO daily_summary (user_id, day, meals_count, kcal_total, protein_total, carbs_total, fat_total)
	           SELECT $1, $2, COUNT(*), COALESCE(SUM(kcal), 0), COALESCE(SUM(protein_g), 0),
	                  COALESCE(SUM(carbs_g), 0), COALESCE(SUM(fat_g), 0)
	           FROM meals
	           WHERE user_id = $1 AND eaten_at >= $3 AND eaten_at <= $4
	           ON CONFLICT (user_id, day) DO UPDATE SET
	               meals_count = excluded.meals_count,
	               kcal_total = excluded.kcal_total,
	               protein_total = excluded.protein_total,
	               carbs_total = excluded.carbs_total,
	               fat_total = excluded.fat_total`
	prune := `DELETE FROM daily_summary WHERE user_id = $1 AND day = $2 AND meals_count = 0`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsert, userID, day, from.UTC(), to.UTC()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, prune, userID, day); err != nil {
		return err
	}

	return tx.Commit()
}
