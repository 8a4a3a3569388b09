package model

type DailySummary struct {
	UserID       string  `db:"user_id" json:"user_id"`
	Day          string  `db:"day" json:"day"` // YYYY-MM-DD in the app time zone
	MealsCount   int     `db:"meals_count" json:"meals_count"`
	KcalTotal    float64 `db:"kcal_total" json:"kcal_total"`
	ProteinTotal float64 `db:"protein_total" json:"protein_total"`
	CarbsTotal   float64 `db:"carbs_total" json:"carbs_total"`
	FatTotal     float64 `db:"fat_total" json:"fat_total"`
}

// EmptySummary is the summary of a day with no meals.
func EmptySummary(userID, day string) DailySummary {
	return DailySummary{UserID: userID, Day: day}
}

// Add folds a meal into the running totals.
func (s *DailySummary) Add(m *Meal) {
	s.MealsCount++
	s.KcalTotal += m.Kcal
	s.ProteinTotal += m.ProteinG
	s.CarbsTotal += m.CarbsG
	s.FatTotal += m.FatG
}
