package validation

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/templui/macrotrack/internal/apperror"
	"github.com/templui/macrotrack/internal/model"
)

const (
	MaxKcal     = 10000
	MaxProteinG = 500
	MaxCarbsG   = 1000
	MaxFatG     = 500

	MaxTitleLen        = 180
	MaxSourceDetailLen = 80
	MaxNotesLen        = 800
)

type issues map[string]string

func (i issues) err(message string) error {
	if len(i) == 0 {
		return nil
	}
	return apperror.Validation(message, i)
}

func checkMacro(is issues, field string, v, max float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		is[field] = "must be a finite number"
		return
	}
	if v < 0 {
		is[field] = "must be greater than or equal to 0"
		return
	}
	if v > max {
		is[field] = "must be less than or equal to " + formatNumber(max)
	}
}

// checkRequiredMacro reports a missing or null key before checking bounds.
func checkRequiredMacro(is issues, field string, f model.Field[float64], max float64) {
	if !f.Set {
		is[field] = "Required"
		return
	}
	if f.Null {
		is[field] = "Expected number, received null"
		return
	}
	checkMacro(is, field, f.Value, max)
}

func checkText(is issues, field, v string, maxLen int) {
	if v == "" {
		is[field] = "is required"
		return
	}
	if utf8.RuneCountInString(v) > maxLen {
		is[field] = "is too long (max " + formatNumber(float64(maxLen)) + " characters)"
	}
}

func checkNotes(is issues, v string) {
	if utf8.RuneCountInString(v) > MaxNotesLen {
		is["notes"] = "is too long (max 800 characters)"
	}
}

func checkConfidence(is issues, v *float64) {
	if v == nil {
		return
	}
	if math.IsNaN(*v) || *v < 0 || *v > 1 {
		is["confidence"] = "must be between 0 and 1"
	}
}

func checkEnum(is issues, field, v string, allowed []string) {
	if !slices.Contains(allowed, v) {
		is[field] = "must be one of " + strings.Join(allowed, ", ")
	}
}

// ValidateMealInput checks a create payload. Title and source detail are
// trimmed in place and a missing notes value becomes "".
func ValidateMealInput(in *model.MealInput) error {
	is := issues{}

	in.Title = strings.TrimSpace(in.Title)
	in.SourceDetail = strings.TrimSpace(in.SourceDetail)

	checkEnum(is, "author", in.Author, model.MealAuthors)
	checkText(is, "source_detail", in.SourceDetail, MaxSourceDetailLen)
	if in.EatenAt.IsZero() {
		is["eaten_at"] = "Expected ISO datetime with offset"
	}
	checkEnum(is, "meal_type", in.MealType, model.MealTypes)
	checkText(is, "title", in.Title, MaxTitleLen)
	checkRequiredMacro(is, "kcal", in.Kcal, MaxKcal)
	checkRequiredMacro(is, "protein_g", in.ProteinG, MaxProteinG)
	checkRequiredMacro(is, "carbs_g", in.CarbsG, MaxCarbsG)
	checkRequiredMacro(is, "fat_g", in.FatG, MaxFatG)
	if !in.Confidence.Set {
		is["confidence"] = "Required"
	} else if !in.Confidence.Null {
		checkConfidence(is, in.Confidence.Value)
	}

	if in.Notes == nil {
		empty := ""
		in.Notes = &empty
	}
	checkNotes(is, *in.Notes)

	return is.err("Invalid payload")
}

// ValidateMealPatch checks a partial update. At least one field must be
// present and only confidence may be explicitly null.
func ValidateMealPatch(p *model.MealPatch) error {
	if p.Empty() {
		return apperror.Validation("Invalid payload", map[string]string{
			"_": "At least one field must be provided",
		})
	}

	is := issues{}
	notNull := func(field string, null bool) bool {
		if null {
			is[field] = "must not be null"
		}
		return !null
	}

	if p.EatenAt.Set && notNull("eaten_at", p.EatenAt.Null) && p.EatenAt.Value.IsZero() {
		is["eaten_at"] = "Expected ISO datetime with offset"
	}
	if p.MealType.Set && notNull("meal_type", p.MealType.Null) {
		checkEnum(is, "meal_type", p.MealType.Value, model.MealTypes)
	}
	if p.Title.Set && notNull("title", p.Title.Null) {
		p.Title.Value = strings.TrimSpace(p.Title.Value)
		checkText(is, "title", p.Title.Value, MaxTitleLen)
	}
	if p.Kcal.Set && notNull("kcal", p.Kcal.Null) {
		checkMacro(is, "kcal", p.Kcal.Value, MaxKcal)
	}
	if p.ProteinG.Set && notNull("protein_g", p.ProteinG.Null) {
		checkMacro(is, "protein_g", p.ProteinG.Value, MaxProteinG)
	}
	if p.CarbsG.Set && notNull("carbs_g", p.CarbsG.Null) {
		checkMacro(is, "carbs_g", p.CarbsG.Value, MaxCarbsG)
	}
	if p.FatG.Set && notNull("fat_g", p.FatG.Null) {
		checkMacro(is, "fat_g", p.FatG.Value, MaxFatG)
	}
	if p.Confidence.Set && !p.Confidence.Null {
		checkConfidence(is, p.Confidence.Value)
	}
	if p.Notes.Set && notNull("notes", p.Notes.Null) {
		checkNotes(is, p.Notes.Value)
	}

	return is.err("Invalid payload")
}

// ValidateIngestInput checks an ingestion payload. Optional strings are
// trimmed in place.
func ValidateIngestInput(in *model.IngestInput) error {
	is := issues{}

	_, err := uuid.Parse(in.UserID)
	if err != nil {
		is["user_id"] = "must be a UUID"
	}

	in.Title = strings.TrimSpace(in.Title)
	checkText(is, "title", in.Title, MaxTitleLen)
	checkRequiredMacro(is, "kcal", in.Kcal, MaxKcal)
	checkRequiredMacro(is, "protein_g", in.ProteinG, MaxProteinG)
	checkRequiredMacro(is, "carbs_g", in.CarbsG, MaxCarbsG)
	checkRequiredMacro(is, "fat_g", in.FatG, MaxFatG)

	if in.MealType != nil {
		checkEnum(is, "meal_type", *in.MealType, model.MealTypes)
	}
	if in.Author != nil {
		checkEnum(is, "author", *in.Author, model.MealAuthors)
	}
	if in.SourceDetail != nil {
		trimmed := strings.TrimSpace(*in.SourceDetail)
		in.SourceDetail = &trimmed
		checkText(is, "source_detail", trimmed, MaxSourceDetailLen)
	}
	checkConfidence(is, in.Confidence)
	if in.Notes != nil {
		checkNotes(is, *in.Notes)
	}

	return is.err("Invalid payload")
}

// ValidateMealID checks that a route id is a UUID.
func ValidateMealID(id string) error {
	_, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("Invalid payload", map[string]string{"id": "must be a UUID"})
	}
	return nil
}
