package validation

import (
	"github.com/templui/macrotrack/internal/model"
)

const (
	MaxKcalTarget    = 10000
	MaxProteinTarget = 1000
	MaxCarbsTarget   = 2000
	MaxFatTarget     = 1000
)

// ValidateGoals checks that every target is positive and within bounds.
func ValidateGoals(in *model.GoalsInput) error {
	is := issues{}

	checkTarget(is, "kcal_target", in.KcalTarget, MaxKcalTarget)
	checkTarget(is, "protein_g_target", in.ProteinGTarget, MaxProteinTarget)
	checkTarget(is, "carbs_g_target", in.CarbsGTarget, MaxCarbsTarget)
	checkTarget(is, "fat_g_target", in.FatGTarget, MaxFatTarget)

	return is.err("Invalid payload")
}

func checkTarget(is issues, field string, v, max float64) {
	checkMacro(is, field, v, max)
	if _, bad := is[field]; !bad && v == 0 {
		is[field] = "must be greater than 0"
	}
}
