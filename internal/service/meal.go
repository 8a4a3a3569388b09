package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/macrotrack/internal/apperror"
	"github.com/templui/macrotrack/internal/daybounds"
	"github.com/templui/macrotrack/internal/model"
	"github.com/templui/macrotrack/internal/repository"
)

const IngestSourceDetail = "api:ingest"

type MealService struct {
	repo                   repository.MealRepository
	summaryService         *SummaryService
	loc                    *time.Location
	lowConfidenceThreshold float64
	now                    func() time.Time
}

func NewMealService(
	repo repository.MealRepository,
	summaryService *SummaryService,
	loc *time.Location,
	lowConfidenceThreshold float64,
) *MealService {
	return &MealService{
		repo:                   repo,
		summaryService:         summaryService,
		loc:                    loc,
		lowConfidenceThreshold: lowConfidenceThreshold,
		now:                    time.Now,
	}
}

func (s *MealService) Location() *time.Location {
	return s.loc
}

// ListForDate returns the meals eaten on date in the app time zone, most
// recent first.
func (s *MealService) ListForDate(ctx context.Context, userID, date string) ([]*model.Meal, error) {
	bounds, err := daybounds.ForDate(date, s.loc)
	if err != nil {
		return nil, dateError("date", err)
	}
	return s.between(ctx, userID, bounds)
}

// ListForRange returns the meals eaten from the start of fromDate to the end
// of toDate, most recent first.
func (s *MealService) ListForRange(ctx context.Context, userID, fromDate, toDate string) ([]*model.Meal, error) {
	bounds, err := daybounds.ForRange(fromDate, toDate, s.loc)
	if err != nil {
		return nil, dateError("from", err)
	}
	return s.between(ctx, userID, bounds)
}

func (s *MealService) between(ctx context.Context, userID string, bounds daybounds.Bounds) ([]*model.Meal, error) {
	meals, err := s.repo.Between(ctx, userID, bounds.From, bounds.To)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("failed to list meals: %w", err))
	}
	for _, meal := range meals {
		s.present(meal)
	}
	return meals, nil
}

// Create stores a new meal and returns it as persisted.
func (s *MealService) Create(ctx context.Context, userID string, input model.MealInput) (*model.Meal, error) {
	notes := ""
	if input.Notes != nil {
		notes = *input.Notes
	}

	now := s.now()
	meal := &model.Meal{
		ID:           uuid.New().String(),
		UserID:       userID,
		Author:       input.Author,
		SourceDetail: input.SourceDetail,
		EatenAt:      input.EatenAt,
		MealType:     input.MealType,
		Title:        input.Title,
		Kcal:         input.Kcal.Value,
		ProteinG:     input.ProteinG.Value,
		CarbsG:       input.CarbsG.Value,
		FatG:         input.FatG.Value,
		Confidence:   input.Confidence.Value,
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.repo.Create(ctx, meal)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("failed to create meal: %w", err))
	}

	created, err := s.repo.ByID(ctx, userID, meal.ID)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("failed to read created meal: %w", err))
	}

	s.refresh(ctx, userID, created.EatenAt)
	s.present(created)
	return created, nil
}

// Ingest creates a meal from an automated source, filling the defaults for
// absent optional fields.
func (s *MealService) Ingest(ctx context.Context, input model.IngestInput) (*model.Meal, error) {
	meal := model.MealInput{
		Author:       model.MealAuthorManual,
		SourceDetail: IngestSourceDetail,
		EatenAt:      s.now(),
		MealType:     model.MealTypeSnack,
		Title:        input.Title,
		Kcal:         input.Kcal,
		ProteinG:     input.ProteinG,
		CarbsG:       input.CarbsG,
		FatG:         input.FatG,
		Confidence:   model.Some(input.Confidence),
		Notes:        input.Notes,
	}
	if input.Author != nil {
		meal.Author = *input.Author
	}
	if input.SourceDetail != nil {
		meal.SourceDetail = *input.SourceDetail
	}
	if input.EatenAt != nil {
		meal.EatenAt = *input.EatenAt
	}
	if input.MealType != nil {
		meal.MealType = *input.MealType
	}

	return s.Create(ctx, input.UserID, meal)
}

// Patch writes the present fields of patch to the user's meal and returns
// the updated record.
func (s *MealService) Patch(ctx context.Context, userID, mealID string, patch *model.MealPatch) (*model.Meal, error) {
	before, err := s.byID(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	err = s.repo.Patch(ctx, userID, mealID, patch, s.now())
	if errors.Is(err, repository.ErrMealNotFound) {
		return nil, apperror.NotFound("Meal not found", err)
	}
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("failed to update meal: %w", err))
	}

	after, err := s.byID(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	s.refresh(ctx, userID, before.EatenAt)
	if daybounds.LocalDate(after.EatenAt, s.loc) != daybounds.LocalDate(before.EatenAt, s.loc) {
		s.refresh(ctx, userID, after.EatenAt)
	}

	s.present(after)
	return after, nil
}

// DeleteOne removes a single meal owned by the user.
func (s *MealService) DeleteOne(ctx context.Context, userID, mealID string) error {
	meal, err := s.byID(ctx, userID, mealID)
	if err != nil {
		return err
	}

	err = s.repo.Delete(ctx, userID, mealID)
	if errors.Is(err, repository.ErrMealNotFound) {
		return apperror.NotFound("Meal not found", err)
	}
	if err != nil {
		return apperror.Persistence(fmt.Errorf("failed to delete meal: %w", err))
	}

	s.refresh(ctx, userID, meal.EatenAt)
	return nil
}

// DeleteForDate removes every meal of the user's local day in one statement
// and returns how many were removed.
func (s *MealService) DeleteForDate(ctx context.Context, userID, date string) (int, error) {
	bounds, err := daybounds.ForDate(date, s.loc)
	if err != nil {
		return 0, dateError("date", err)
	}

	deleted, err := s.repo.DeleteBetween(ctx, userID, bounds.From, bounds.To)
	if err != nil {
		return 0, apperror.Persistence(fmt.Errorf("failed to delete meals: %w", err))
	}

	s.refresh(ctx, userID, bounds.From)
	return deleted, nil
}

func (s *MealService) byID(ctx context.Context, userID, mealID string) (*model.Meal, error) {
	meal, err := s.repo.ByID(ctx, userID, mealID)
	if errors.Is(err, repository.ErrMealNotFound) {
		return nil, apperror.NotFound("Meal not found", err)
	}
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("failed to get meal: %w", err))
	}
	return meal, nil
}

// present expresses eaten_at in the app zone and derives low_confidence.
func (s *MealService) present(meal *model.Meal) {
	meal.EatenAt = meal.EatenAt.In(s.loc)
	meal.LowConfidence = meal.IsLowConfidence(s.lowConfidenceThreshold)
}

func (s *MealService) refresh(ctx context.Context, userID string, eatenAt time.Time) {
	day := daybounds.LocalDate(eatenAt, s.loc)
	err := s.summaryService.Refresh(ctx, userID, day)
	if err != nil {
		slog.Error("failed to refresh daily summary", "error", err, "user_id", userID, "day", day)
	}
}

func dateError(field string, err error) error {
	switch {
	case errors.Is(err, daybounds.ErrInvalidRange):
		return apperror.Validation("Invalid payload", map[string]string{"from": err.Error()})
	case errors.Is(err, daybounds.ErrInvalidDate), errors.Is(err, daybounds.ErrSkippedDate):
		return apperror.Validation("Invalid payload", map[string]string{field: err.Error()})
	default:
		return err
	}
}
