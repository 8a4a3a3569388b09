package model

import (
	"time"
)

const (
	DefaultKcalTarget    = 2200
	DefaultProteinTarget = 140
	DefaultCarbsTarget   = 250
	DefaultFatTarget     = 70
)

type NutritionGoals struct {
	UserID         string    `db:"user_id" json:"user_id"`
	KcalTarget     float64   `db:"kcal_target" json:"kcal_target"`
	ProteinGTarget float64   `db:"protein_g_target" json:"protein_g_target"`
	CarbsGTarget   float64   `db:"carbs_g_target" json:"carbs_g_target"`
	FatGTarget     float64   `db:"fat_g_target" json:"fat_g_target"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type GoalsInput struct {
	KcalTarget     float64 `json:"kcal_target"`
	ProteinGTarget float64 `json:"protein_g_target"`
	CarbsGTarget   float64 `json:"carbs_g_target"`
	FatGTarget     float64 `json:"fat_g_target"`
}

// Targets is the goal set used for progress, stored or default.
type Targets struct {
	UserID         string  `json:"user_id"`
	KcalTarget     float64 `json:"kcal_target"`
	ProteinGTarget float64 `json:"protein_g_target"`
	CarbsGTarget   float64 `json:"carbs_g_target"`
	FatGTarget     float64 `json:"fat_g_target"`
	IsDefault      bool    `json:"is_default"`
}

func DefaultTargets(userID string) Targets {
	return Targets{
		UserID:         userID,
		KcalTarget:     DefaultKcalTarget,
		ProteinGTarget: DefaultProteinTarget,
		CarbsGTarget:   DefaultCarbsTarget,
		FatGTarget:     DefaultFatTarget,
		IsDefault:      true,
	}
}

func (g *NutritionGoals) Targets() Targets {
	return Targets{
		UserID:         g.UserID,
		KcalTarget:     g.KcalTarget,
		ProteinGTarget: g.ProteinGTarget,
		CarbsGTarget:   g.CarbsGTarget,
		FatGTarget:     g.FatGTarget,
	}
}
