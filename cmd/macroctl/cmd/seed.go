package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/templui/macrotrack/internal/model"
)

type sampleMeal struct {
	hour, minute int
	mealType     string
	author       string
	title        string
	kcal         float64
	protein      float64
	carbs        float64
	fat          float64
	confidence   *float64
}

func confidence(v float64) *float64 { return &v }

var sampleMenu = []sampleMeal{
	{8, 15, model.MealTypeBreakfast, model.MealAuthorManual, "Greek yogurt with berries and granola", 380, 24, 48, 10, nil},
	{12, 45, model.MealTypeLunch, model.MealAuthorAI, "Chicken rice bowl", 640, 42, 72, 18, confidence(0.86)},
	{16, 30, model.MealTypeSnack, model.MealAuthorAI, "Banana and almonds", 260, 7, 30, 14, confidence(0.62)},
	{19, 50, model.MealTypeDinner, model.MealAuthorManual, "Salmon, potatoes and green beans", 710, 45, 55, 32, nil},
}

// sampleMeals returns the day's sample inputs, eaten at local times on date.
func sampleMeals(date time.Time, loc *time.Location) []model.MealInput {
	inputs := make([]model.MealInput, 0, len(sampleMenu))
	y, m, d := date.Date()
	for _, s := range sampleMenu {
		source := "seed"
		if s.author == model.MealAuthorAI {
			source = "seed:photo"
		}
		notes := ""
		inputs = append(inputs, model.MealInput{
			Author:       s.author,
			SourceDetail: source,
			EatenAt:      time.Date(y, m, d, s.hour, s.minute, 0, 0, loc),
			MealType:     s.mealType,
			Title:        s.title,
			Kcal:         model.Some(s.kcal),
			ProteinG:     model.Some(s.protein),
			CarbsG:       model.Some(s.carbs),
			FatG:         model.Some(s.fat),
			Confidence:   model.Some(s.confidence),
			Notes:        &notes,
		})
	}
	return inputs
}

func SeedCmd() *cobra.Command {
	var userID string
	var days int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample meals for the last days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(userID); err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}

			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.Cfg.IsProduction() {
				return fmt.Errorf("refusing to seed a production database")
			}

			loc := a.MealService.Location()
			today := time.Now().In(loc)
			created := 0
			for i := days - 1; i >= 0; i-- {
				for _, input := range sampleMeals(today.AddDate(0, 0, -i), loc) {
					_, err := a.MealService.Create(ctx, userID, input)
					if err != nil {
						return fmt.Errorf("failed to seed meal: %w", err)
					}
					created++
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d meals over %d days for %s\n", created, days, userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (UUID)")
	cmd.Flags().IntVar(&days, "days", 7, "number of days to seed, ending today")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
