package models

import "time"

// MinYear is the earliest year accepted in the registry.
const MinYear = 1900

// Date is a registry date whose parts may each be missing.
type Date struct {
	Year  *int `json:"annee"`
	Month *int `json:"mois"`
	Day   *int `json:"jour"`
}

// NewDate builds a complete date.
func NewDate(year, month, day int) Date {
	return Date{Year: Int(year), Month: Int(month), Day: Int(day)}
}

// Complete reports whether all three parts are set.
func (d Date) Complete() bool {
	return d.Year != nil && d.Month != nil && d.Day != nil
}

// YearValue returns the year or 0.
func (d Date) YearValue() int {
	if d.Year == nil {
		return 0
	}
	return *d.Year
}

// Problems lists the issues with d, keyed by part ("annee", "mois", "jour",
// "date"). maxYear bounds the year from above; callers pass the as-of year.
func (d Date) Problems(maxYear int) map[string]string {
	out := map[string]string{}
	if d.Year != nil && (*d.Year < MinYear || *d.Year > maxYear) {
		out["annee"] = "out_of_range"
	}
	if d.Month != nil && (*d.Month < 1 || *d.Month > 12) {
		out["mois"] = "out_of_range"
	}
	if d.Day != nil && (*d.Day < 1 || *d.Day > 31) {
		out["jour"] = "out_of_range"
	}
	if len(out) == 0 && d.Complete() && !ValidCalendarDate(*d.Year, *d.Month, *d.Day) {
		out["date"] = "invalid"
	}
	return out
}

// ValidCalendarDate reports whether year-month-day exists (Feb 30 does not).
func ValidCalendarDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}
