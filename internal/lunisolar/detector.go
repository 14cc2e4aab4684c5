// Package lunisolar assembles solar-term and new-moon events into the
// lunisolar month structure: numbered months anchored on the winter
// solstice, with astronomically-detected intercalary (leap) months.
package lunisolar

import (
	"errors"

	"almanac/internal/model"
)

// ErrAmbiguousLeapPolicy reports that a date falls inside an intercalary
// month but no LeapMonthMode was configured. The split convention is a
// genuine domain ambiguity, so it is never defaulted silently.
var ErrAmbiguousLeapPolicy = errors.New("leap month encountered but no leap-month mode configured")

// LeapMonthDetector decides whether a lunar month is intercalary.
//
// A month is ordinary when at least one zhongqi (a multiple-of-30° solar
// term) falls strictly within its span; a month without one is a leap
// candidate. The detector only inspects term events; whether a candidate is
// actually assigned the leap flag is decided by the year builder, which
// enforces the 13-month solstice-to-solstice constraint.
type LeapMonthDetector struct {
	terms []model.SolarTermEvent
}

// NewLeapMonthDetector creates a detector over a time-ordered term list
// spanning at least the months it will be asked about.
func NewLeapMonthDetector(terms []model.SolarTermEvent) *LeapMonthDetector {
	return &LeapMonthDetector{terms: terms}
}

// HasZhongqi reports whether a zhongqi instant lies in [monthStart, monthEnd).
func (d *LeapMonthDetector) HasZhongqi(monthStart, monthEnd float64) bool {
	for _, t := range d.terms {
		if !t.IsZhongqi() {
			continue
		}
		if t.Instant >= monthStart && t.Instant < monthEnd {
			return true
		}
	}
	return false
}

// IsLeapCandidate reports whether the month bounded by [monthStart,
// monthEnd) lacks a zhongqi and is therefore a leap candidate.
func (d *LeapMonthDetector) IsLeapCandidate(monthStart, monthEnd float64) bool {
	return !d.HasZhongqi(monthStart, monthEnd)
}
