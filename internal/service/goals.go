package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/templui/macrotrack/internal/apperror"
	"github.com/templui/macrotrack/internal/model"
	"github.com/templui/macrotrack/internal/repository"
)

type GoalsService struct {
	repo repository.GoalsRepository
	now  func() time.Time
}

func NewGoalsService(repo repository.GoalsRepository) *GoalsService {
	return &GoalsService{repo: repo, now: time.Now}
}

// Get returns the user's stored goals, or nil when none were saved.
func (s *GoalsService) Get(ctx context.Context, userID string) (*model.NutritionGoals, error) {
	goals, err := s.repo.ByUserID(ctx, userID)
	if errors.Is(err, repository.ErrGoalsNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("failed to get goals: %w", err))
	}
	return goals, nil
}

// TargetsOrDefault returns the stored targets or the default goal set.
func (s *GoalsService) TargetsOrDefault(ctx context.Context, userID string) (model.Targets, error) {
	goals, err := s.Get(ctx, userID)
	if err != nil {
		return model.Targets{}, err
	}
	if goals == nil {
		return model.DefaultTargets(userID), nil
	}
	return goals.Targets(), nil
}

// Upsert saves the user's single goals row, replacing any previous targets.
func (s *GoalsService) Upsert(ctx context.Context, userID string, input model.GoalsInput) (*model.NutritionGoals, error) {
	now := s.now()
	goals := &model.NutritionGoals{
		UserID:         userID,
		KcalTarget:     input.KcalTarget,
		ProteinGTarget: input.ProteinGTarget,
		CarbsGTarget:   input.CarbsGTarget,
		FatGTarget:     input.FatGTarget,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.repo.Upsert(ctx, goals)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("failed to save goals: %w", err))
	}

	saved, err := s.repo.ByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("failed to read saved goals: %w", err))
	}
	return saved, nil
}
