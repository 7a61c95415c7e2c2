package finance

import "time"

// =============================================================================
// PERIOD - The reporting window for statement calculation
// =============================================================================

// Period defines the date boundary for a statement. Both ends are inclusive:
// a transaction dated exactly on Start or End belongs to the period.
//
// Examples:
//   - Calendar month: Feb 1 - Feb 29
//   - Calendar year: Jan 1 - Dec 31
//   - Arbitrary range picked in the UI
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within the period [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Validate returns ErrInvalidPeriod when End precedes Start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// MonthPeriod returns the calendar-month period containing the given date.
func MonthPeriod(year int, month time.Month) Period {
	start := NewDate(year, month, 1)
	end := Date{Time: time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}
	return Period{Start: start, End: end}
}

// YearPeriod returns the calendar-year period for the given year.
func YearPeriod(year int) Period {
	return Period{Start: NewDate(year, time.January, 1), End: NewDate(year, time.December, 31)}
}
