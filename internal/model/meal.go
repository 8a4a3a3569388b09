package model

import (
	"time"
)

const (
	MealAuthorAI     = "ai"
	MealAuthorManual = "manual"
)

const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

var (
	MealAuthors = []string{MealAuthorAI, MealAuthorManual}
	MealTypes   = []string{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}
)

type Meal struct {
	ID                   string    `db:"id" json:"id"`
	UserID               string    `db:"user_id" json:"user_id"`
	Author               string    `db:"author" json:"author"`
	SourceDetail         string    `db:"source_detail" json:"source_detail"`
	EatenAt              time.Time `db:"eaten_at" json:"eaten_at"`
	MealType             string    `db:"meal_type" json:"meal_type"`
	Title                string    `db:"title" json:"title"`
	Kcal                 float64   `db:"kcal" json:"kcal"`
	ProteinG             float64   `db:"protein_g" json:"protein_g"`
	CarbsG               float64   `db:"carbs_g" json:"carbs_g"`
	FatG                 float64   `db:"fat_g" json:"fat_g"`
	Confidence           *float64  `db:"confidence" json:"confidence"` // Nullable, set for automated estimates
	Notes                string    `db:"notes" json:"notes"`
	UpdatedFromDashboard bool      `db:"updated_from_dashboard" json:"updated_from_dashboard"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`

	// Computed fields (not in database)
	LowConfidence bool `db:"-" json:"low_confidence"`
}

// IsLowConfidence reports whether an automated estimate scored below threshold.
// Manual entries are never low confidence.
func (m *Meal) IsLowConfidence(threshold float64) bool {
	return m.Author == MealAuthorAI && m.Confidence != nil && *m.Confidence < threshold
}

// MealInput is the full set of fields accepted when creating a meal. Macros
// and confidence are Fields so a missing key is told apart from zero;
// confidence must be present but may be null.
type MealInput struct {
	Author       string          `json:"author"`
	SourceDetail string          `json:"source_detail"`
	EatenAt      time.Time       `json:"eaten_at"`
	MealType     string          `json:"meal_type"`
	Title        string          `json:"title"`
	Kcal         Field[float64]  `json:"kcal"`
	ProteinG     Field[float64]  `json:"protein_g"`
	CarbsG       Field[float64]  `json:"carbs_g"`
	FatG         Field[float64]  `json:"fat_g"`
	Confidence   Field[*float64] `json:"confidence"`
	Notes        *string         `json:"notes"`
}

// MealPatch carries the fields of a partial update. Only fields with Set
// are written. Confidence is the only field that accepts an explicit null.
type MealPatch struct {
	EatenAt    Field[time.Time] `json:"eaten_at"`
	MealType   Field[string]    `json:"meal_type"`
	Title      Field[string]    `json:"title"`
	Kcal       Field[float64]   `json:"kcal"`
	ProteinG   Field[float64]   `json:"protein_g"`
	CarbsG     Field[float64]   `json:"carbs_g"`
	FatG       Field[float64]   `json:"fat_g"`
	Confidence Field[*float64]  `json:"confidence"`
	Notes      Field[string]    `json:"notes"`
}

func (p *MealPatch) Empty() bool {
	return !p.EatenAt.Set && !p.MealType.Set && !p.Title.Set &&
		!p.Kcal.Set && !p.ProteinG.Set && !p.CarbsG.Set && !p.FatG.Set &&
		!p.Confidence.Set && !p.Notes.Set
}

// IngestInput is the payload of the automated ingestion endpoint. Optional
// fields fall back to ingestion defaults.
type IngestInput struct {
	UserID       string         `json:"user_id"`
	Title        string         `json:"title"`
	Kcal         Field[float64] `json:"kcal"`
	ProteinG     Field[float64] `json:"protein_g"`
	CarbsG       Field[float64] `json:"carbs_g"`
	FatG         Field[float64] `json:"fat_g"`
	EatenAt      *time.Time     `json:"eaten_at"`
	MealType     *string        `json:"meal_type"`
	Author       *string        `json:"author"`
	SourceDetail *string        `json:"source_detail"`
	Confidence   *float64       `json:"confidence"`
	Notes        *string        `json:"notes"`
}
