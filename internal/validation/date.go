package validation

import (
	"errors"
	"fmt"

	"github.com/templui/macrotrack/internal/apperror"
	"github.com/templui/macrotrack/internal/daybounds"
)

// ValidateDate checks a YYYY-MM-DD query value.
func ValidateDate(field, date string) error {
	_, err := daybounds.ParseDate(date)
	if err != nil {
		return apperror.Validation("Invalid payload", map[string]string{field: "Expected YYYY-MM-DD"})
	}
	return nil
}

// MaxRangeDays bounds the calendar days a single range query may span.
const MaxRangeDays = 366

// ValidateRange checks both dates, that from is not after to, and that the
// span is at most MaxRangeDays.
func ValidateRange(from, to string) error {
	is := issues{}
	fromDate, err := daybounds.ParseDate(from)
	if err != nil {
		is["from"] = "Expected YYYY-MM-DD"
	}
	toDate, err := daybounds.ParseDate(to)
	if err != nil {
		is["to"] = "Expected YYYY-MM-DD"
	}
	if len(is) > 0 {
		return is.err("Invalid payload")
	}

	err = daybounds.ValidateRange(from, to)
	if errors.Is(err, daybounds.ErrInvalidRange) {
		is["from"] = "'from' must be before or equal to 'to'"
		return is.err("Invalid payload")
	}

	if daybounds.DaysBetweenInclusive(fromDate, toDate) > MaxRangeDays {
		is["to"] = fmt.Sprintf("Range must not exceed %d days", MaxRangeDays)
	}
	return is.err("Invalid payload")
}
