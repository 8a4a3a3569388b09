package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/templui/macrotrack/internal/apperror"
	"github.com/templui/macrotrack/internal/daybounds"
	"github.com/templui/macrotrack/internal/model"
	"github.com/templui/macrotrack/internal/progress"
	"github.com/templui/macrotrack/internal/repository"
)

type DayView struct {
	Date     string             `json:"date"`
	Summary  model.DailySummary `json:"summary"`
	Meals    []*model.Meal      `json:"meals"`
	Goals    model.Targets      `json:"goals"`
	Progress progress.Report    `json:"progress"`
}

type RangeView struct {
	From   string               `json:"from"`
	To     string               `json:"to"`
	Days   []model.DailySummary `json:"days"`
	Meals  []*model.Meal        `json:"meals"`
	Groups []DayGroup           `json:"groups"`
}

// DayGroup is the meals of one local calendar day with their totals.
type DayGroup struct {
	Day    string             `json:"day"`
	Meals  []*model.Meal      `json:"meals"`
	Totals model.DailySummary `json:"totals"`
}

type DashboardService struct {
	mealService  *MealService
	goalsService *GoalsService
	summaries    repository.SummaryRepository
}

func NewDashboardService(
	mealService *MealService,
	goalsService *GoalsService,
	summaries repository.SummaryRepository,
) *DashboardService {
	return &DashboardService{
		mealService:  mealService,
		goalsService: goalsService,
		summaries:    summaries,
	}
}

// Day returns one day's summary and meals with progress against the user's
// goals. A day without a stored summary reads as all zeros.
func (s *DashboardService) Day(ctx context.Context, userID, date string) (*DayView, error) {
	meals, err := s.mealService.ListForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	summary := model.EmptySummary(userID, date)
	stored, err := s.summaries.ByDay(ctx, userID, date)
	switch {
	case err == nil:
		summary = *stored
	case !errors.Is(err, repository.ErrSummaryNotFound):
		return nil, apperror.Persistence(fmt.Errorf("failed to get daily summary: %w", err))
	}

	targets, err := s.goalsService.TargetsOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &DayView{
		Date:     date,
		Summary:  summary,
		Meals:    meals,
		Goals:    targets,
		Progress: progress.ForSummary(summary, targets),
	}, nil
}

// Range returns one summary per calendar date in [fromDate, toDate],
// ascending and zero-filled, with the meals of the whole range.
func (s *DashboardService) Range(ctx context.Context, userID, fromDate, toDate string) (*RangeView, error) {
	dates, err := daybounds.Dates(fromDate, toDate)
	if err != nil {
		return nil, dateError("from", err)
	}

	meals, err := s.mealService.ListForRange(ctx, userID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	stored, err := s.summaries.Range(ctx, userID, fromDate, toDate)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("failed to get daily summaries: %w", err))
	}
	byDay := make(map[string]model.DailySummary, len(stored))
	for _, summary := range stored {
		byDay[summary.Day] = *summary
	}

	days := make([]model.DailySummary, 0, len(dates))
	for _, date := range dates {
		summary, ok := byDay[date]
		if !ok {
			summary = model.EmptySummary(userID, date)
		}
		days = append(days, summary)
	}

	return &RangeView{
		From:   fromDate,
		To:     toDate,
		Days:   days,
		Meals:  meals,
		Groups: GroupMealsByDay(meals, s.mealService.Location()),
	}, nil
}

// GroupMealsByDay groups meals by the local date of eaten_at in loc, most
// recent day first. Meals keep their input order within a group.
func GroupMealsByDay(meals []*model.Meal, loc *time.Location) []DayGroup {
	index := map[string]int{}
	groups := []DayGroup{}

	for _, meal := range meals {
		day := daybounds.LocalDate(meal.EatenAt, loc)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{
				Day:    day,
				Totals: model.EmptySummary(meal.UserID, day),
			})
		}
		groups[i].Meals = append(groups[i].Meals, meal)
		groups[i].Totals.Add(meal)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Day > groups[j].Day
	})
	return groups
}
