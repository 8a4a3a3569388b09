// Package progress classifies consumption against a daily target.
package progress

import (
	"math"

	"github.com/templui/macrotrack/internal/model"
)

const (
	LabelInvalidTarget = "invalid target"
	LabelOver          = "over"
	LabelFarBelow      = "far below"
	LabelOnTrack       = "on track"
	LabelMidway        = "midway"
)

const (
	BandDanger  = "danger"
	BandWarning = "warning"
	BandSuccess = "success"
)

type Status struct {
	Label string `json:"status"`
	Band  string `json:"band"`
}

// PercentOf returns consumed as a percentage of target, clamped to [0, 100].
// A non-positive target yields 0.
func PercentOf(consumed, target float64) float64 {
	if target <= 0 || math.IsNaN(consumed) {
		return 0
	}
	p := consumed / target * 100
	return math.Max(0, math.Min(p, 100))
}

// Classify maps the consumed/target ratio to a status.
// The 0.9..1.1 band is inclusive on both ends; 0.6 itself is midway.
func Classify(consumed, target float64) Status {
	if target <= 0 {
		return Status{Label: LabelInvalidTarget, Band: BandDanger}
	}

	ratio := consumed / target

	if ratio > 1.1 {
		return Status{Label: LabelOver, Band: BandDanger}
	}
	if ratio < 0.6 {
		return Status{Label: LabelFarBelow, Band: BandDanger}
	}
	if ratio >= 0.9 && ratio <= 1.1 {
		return Status{Label: LabelOnTrack, Band: BandSuccess}
	}
	return Status{Label: LabelMidway, Band: BandWarning}
}

type Macro struct {
	Consumed float64 `json:"consumed"`
	Target   float64 `json:"target"`
	Percent  float64 `json:"percent"`
	Status
}

func NewMacro(consumed, target float64) Macro {
	return Macro{
		Consumed: consumed,
		Target:   target,
		Percent:  PercentOf(consumed, target),
		Status:   Classify(consumed, target),
	}
}

// Report is the progress of one day's totals against the user's targets.
type Report struct {
	Kcal    Macro `json:"kcal"`
	Protein Macro `json:"protein"`
	Carbs   Macro `json:"carbs"`
	Fat     Macro `json:"fat"`
}

func ForSummary(s model.DailySummary, t model.Targets) Report {
	return Report{
		Kcal:    NewMacro(s.KcalTotal, t.KcalTarget),
		Protein: NewMacro(s.ProteinTotal, t.ProteinGTarget),
		Carbs:   NewMacro(s.CarbsTotal, t.CarbsGTarget),
		Fat:     NewMacro(s.FatTotal, t.FatGTarget),
	}
}
