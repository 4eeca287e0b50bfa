package domain

import (
	"fmt"
	"math"
	"time"
)

var monthNumbers = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,
}

// MonthNumber maps an English month name to its number. Unknown names fall
// back to January; catalog data with a misspelt month is not rejected.
func MonthNumber(name string) time.Month {
	if m, ok := monthNumbers[name]; ok {
		return m
	}
	return time.January
}

// KnownMonth reports whether name is one of the twelve English month names.
func KnownMonth(name string) bool {
	_, ok := monthNumbers[name]
	return ok
}

// AddedDate is the date a listing was added, as stored in the catalog.
type AddedDate struct {
	Month string
	Day   int
	Year  int
}

// Time reconstructs the calendar date at midnight UTC.
func (d AddedDate) Time() time.Time {
	return time.Date(d.Year, MonthNumber(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date the way listings display it: "October 12, 2024".
func (d AddedDate) String() string {
	return fmt.Sprintf("%s %d, %d", d.Month, d.Day, d.Year)
}

// DaysSince returns the whole number of days between the added date and now,
// rounded up.
func (d AddedDate) DaysSince(now time.Time) int {
	diff := now.Sub(d.Time())
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}
