// Package calendar implements the integer day-count Date and Timespan
// types used throughout the simulation core (spec.md §3).
package calendar

import "fmt"

// DaysPerYear and DaysPerMonth are the game-internal duration constants
// spec.md defines for Timespan's Years/Months constructors: they do not
// track any real calendar, only fixed simulation-day counts.
const (
	DaysPerYear  = 365
	DaysPerMonth = 30
)

// Date is an integer count of days since an implementation-defined epoch.
type Date int64

// Timespan is a signed count of days.
type Timespan int64

// Years constructs a Timespan of n calendar years (365 days each).
func Years(n int64) Timespan { return Timespan(n * DaysPerYear) }

// Months constructs a Timespan of n calendar months (30 days each).
func Months(n int64) Timespan { return Timespan(n * DaysPerMonth) }

// Days constructs a Timespan of n days.
func Days(n int64) Timespan { return Timespan(n) }

// Add returns d advanced by span (span may be negative).
func (d Date) Add(span Timespan) Date {
	return d + Date(span)
}

// Sub returns the number of days between d and other (positive if d is
// later).
func (d Date) Sub(other Date) Timespan {
	return Timespan(d - other)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d < other }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d > other }

// String renders the raw day count; the core has no notion of a Gregorian
// calendar and leaves human-readable formatting to the data-loader
// front-end that owns the epoch mapping.
func (d Date) String() string {
	return fmt.Sprintf("day %d", int64(d))
}
