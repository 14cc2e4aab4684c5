// Package timeconv converts between civil date/times and the continuous
// Julian Day scale, and applies the true-solar-time correction pipeline
// (equation of time plus observer-longitude offset).
//
// Julian Days here are always UT. Civil inputs carry an explicit UTC offset;
// nothing is ever inferred from the host timezone.
package timeconv

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/eqtime"
	"github.com/soniakeys/meeus/v3/julian"
)

// ErrInvalidCalendarDate reports a malformed civil date/time. Inputs are
// rejected outright, never clamped into range.
var ErrInvalidCalendarDate = errors.New("invalid calendar date")

// MinutesPerDegree is the time offset produced by one degree of longitude:
// the Earth turns 360 degrees in 24 hours, 4 minutes per degree.
const MinutesPerDegree = 4.0

// daysInMonth returns the length of a Gregorian month.
func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
	return 0
}

// CivilDateTime is a civil wall-clock date and time with an explicit UTC
// offset in hours (east positive, e.g. 9 for JST).
type CivilDateTime struct {
	Year      int     `json:"year" validate:"required"`
	Month     int     `json:"month" validate:"min=1,max=12"`
	Day       int     `json:"day" validate:"min=1,max=31"`
	Hour      int     `json:"hour" validate:"min=0,max=23"`
	Minute    int     `json:"minute" validate:"min=0,max=59"`
	Second    int     `json:"second" validate:"min=0,max=59"`
	UTCOffset float64 `json:"utcOffset" validate:"min=-14,max=14"`
}

// Validate checks calendar validity beyond simple field ranges (month
// lengths, leap days). It returns ErrInvalidCalendarDate wrapped with the
// offending field.
func (c CivilDateTime) Validate() error {
	if c.Month < 1 || c.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidCalendarDate, c.Month)
	}
	if c.Day < 1 || c.Day > daysInMonth(c.Year, c.Month) {
		return fmt.Errorf("%w: day %d of %d-%02d", ErrInvalidCalendarDate, c.Day, c.Year, c.Month)
	}
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("%w: hour %d", ErrInvalidCalendarDate, c.Hour)
	}
	if c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("%w: minute %d", ErrInvalidCalendarDate, c.Minute)
	}
	if c.Second < 0 || c.Second > 59 {
		return fmt.Errorf("%w: second %d", ErrInvalidCalendarDate, c.Second)
	}
	if c.UTCOffset < -14 || c.UTCOffset > 14 {
		return fmt.Errorf("%w: utc offset %.2f", ErrInvalidCalendarDate, c.UTCOffset)
	}
	return nil
}

// JulianDay converts the civil date/time to a Julian Day in UT using the
// Meeus Gregorian conversion. The civil wall clock is shifted by the UTC
// offset first.
func JulianDay(c CivilDateTime) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	dayFrac := float64(c.Day) +
		(float64(c.Hour)+float64(c.Minute)/60+float64(c.Second)/3600)/24
	jd := julian.CalendarGregorianToJD(c.Year, c.Month, dayFrac)
	return jd - c.UTCOffset/24, nil
}

// Civil converts a Julian Day (UT) back to a civil date/time at the given
// UTC offset. The round trip through JulianDay is stable to well under a
// second.
func Civil(jd float64, utcOffset float64) CivilDateTime {
	y, m, d := julian.JDToCalendar(jd + utcOffset/24)
	day := int(d)
	frac := d - float64(day)
	// Round to the nearest second before splitting fields so values such
	// as 59.9999 do not truncate a minute away.
	secs := int(math.Round(frac * 86400))
	if secs >= 86400 {
		secs -= 86400
		day++
		if day > daysInMonth(y, m) {
			day = 1
			m++
			if m > 12 {
				m = 1
				y++
			}
		}
	}
	return CivilDateTime{
		Year:      y,
		Month:     m,
		Day:       day,
		Hour:      secs / 3600,
		Minute:    secs / 60 % 60,
		Second:    secs % 60,
		UTCOffset: utcOffset,
	}
}

// EquationOfTime returns the offset between apparent and mean solar time in
// minutes at the given instant, from the orbital-element formula (Meeus
// chapter 28: mean longitude, mean anomaly, obliquity, eccentricity).
// Positive values mean the sundial runs ahead of the clock.
func EquationOfTime(jd float64) float64 {
	e := eqtime.ESmart(jd)
	// HourAngle in radians; 1 degree of rotation is 4 minutes of time.
	return e.Rad() * (180 / math.Pi) * MinutesPerDegree
}

// LocalMeanTime shifts a local-standard-time hour to local mean time for an
// observer at the given longitude (degrees, east positive) under the given
// standard meridian. The result is fractional hours and may leave [0,24).
func LocalMeanTime(standardHour, longitude, standardMeridian float64) float64 {
	return standardHour + (longitude-standardMeridian)*MinutesPerDegree/60
}

// LocalApparentTime returns the true-solar-time hour for an observer: local
// mean time plus the equation of time at the instant. The result is
// normalized into [0,24).
func LocalApparentTime(jd, standardHour, longitude, standardMeridian float64) float64 {
	lmt := LocalMeanTime(standardHour, longitude, standardMeridian)
	lat := lmt + EquationOfTime(jd)/60
	lat = math.Mod(lat, 24)
	if lat < 0 {
		lat += 24
	}
	return lat
}
