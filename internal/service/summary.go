package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/macrotrack/internal/daybounds"
	"github.com/templui/macrotrack/internal/repository"
)

// SummaryService keeps the daily_summary table in step with meals.
type SummaryService struct {
	meals     repository.MealRepository
	summaries repository.SummaryRepository
	loc       *time.Location
	now       func() time.Time
}

func NewSummaryService(
	meals repository.MealRepository,
	summaries repository.SummaryRepository,
	loc *time.Location,
) *SummaryService {
	return &SummaryService{
		meals:     meals,
		summaries: summaries,
		loc:       loc,
		now:       time.Now,
	}
}

// Refresh recomputes the totals of one local day from the meals currently
// stored. A day without meals has its row removed.
func (s *SummaryService) Refresh(ctx context.Context, userID, day string) error {
	bounds, err := daybounds.ForDate(day, s.loc)
	if err != nil {
		return err
	}

	err = s.summaries.Recompute(ctx, userID, day, bounds.From, bounds.To)
	if err != nil {
		return fmt.Errorf("failed to recompute summary: %w", err)
	}
	return nil
}

// Rebuild refreshes the last days local days for every user that logged a
// meal in that window and returns the number of days refreshed.
func (s *SummaryService) Rebuild(ctx context.Context, days int) (int, error) {
	if days < 1 {
		days = 1
	}

	today := daybounds.LocalDate(s.now(), s.loc)
	todayDate, err := daybounds.ParseDate(today)
	if err != nil {
		return 0, err
	}
	from := todayDate.AddDate(0, 0, -(days - 1)).Format(daybounds.DateLayout)

	bounds, err := daybounds.ForRange(from, today, s.loc)
	if err != nil {
		return 0, err
	}

	userIDs, err := s.meals.UsersSince(ctx, bounds.From)
	if err != nil {
		return 0, fmt.Errorf("failed to list users with meals: %w", err)
	}

	dates, err := daybounds.Dates(from, today)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, userID := range userIDs {
		for _, day := range dates {
			if err := ctx.Err(); err != nil {
				return refreshed, err
			}
			err := s.Refresh(ctx, userID, day)
			if err != nil {
				return refreshed, fmt.Errorf("failed to refresh %s for user %s: %w", day, userID, err)
			}
			refreshed++
		}
	}

	slog.Info("daily summaries rebuilt", "users", len(userIDs), "days", refreshed)
	return refreshed, nil
}
