// Package solver locates solar-longitude and Sun-Moon syzygy events with
// Newton-Raphson iteration over the ephemeris provider.
//
// Both solvers work on a periodic coordinate: every angular difference is
// reduced to (-180,180] degrees before it is used, so the iteration always
// chases the nearest crossing instead of running laps around the circle.
package solver

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/julian"

	"almanac/internal/ephemeris"
)

// Mean angular rates used for initial guesses, degrees per day.
const (
	// MeanSolarMotion is the mean daily motion of the Sun in longitude.
	MeanSolarMotion = 0.9856

	// MeanLunarElongationRate is the Moon's mean motion relative to the
	// Sun, i.e. the rate of the elongation angle.
	MeanLunarElongationRate = 13.2

	// SynodicMonth is the mean new-moon to new-moon period in days.
	SynodicMonth = 29.530588853
)

// ConvergenceError reports that a root finder exhausted its iteration cap.
// It carries the last estimate and its residual for diagnostics; callers
// may retry with a different initial guess but the solver never does.
type ConvergenceError struct {
	Op           string  // which solver failed
	LastEstimate float64 // Julian Day of the final iterate
	Residual     float64 // degrees left between estimate and target
	Iterations   int
}

// Error implements error.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations (last estimate jd=%.6f, residual %.8f deg)",
		e.Op, e.Iterations, e.LastEstimate, e.Residual)
}

// signedDelta reduces an angular difference to (-180,180] degrees.
func signedDelta(deg float64) float64 {
	m := math.Mod(deg, 360)
	switch {
	case m <= -180:
		m += 360
	case m > 180:
		m -= 360
	}
	return m
}

// sunLongitude queries the provider for the apparent solar longitude and
// its daily rate.
func sunLongitude(p ephemeris.Provider, jd float64) (lon, speed float64, err error) {
	pos, err := p.Position(jd, ephemeris.Sun)
	if err != nil {
		return 0, 0, err
	}
	return pos.Longitude, pos.DailySpeed, nil
}

// gregorianJD is the Julian Day (UT) of Gregorian year-month-day, 00:00.
func gregorianJD(year, month, day int) float64 {
	return julian.CalendarGregorianToJD(year, month, float64(day))
}
