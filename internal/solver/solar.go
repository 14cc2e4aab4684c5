package solver

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"almanac/internal/ephemeris"
	"almanac/internal/model"
)

// Solar-term solver parameters.
const (
	// SolarTolerance is the convergence threshold in degrees, about 0.036
	// arcseconds of solar longitude (a fraction of a second of time).
	SolarTolerance = 1e-5

	// solarMaxIterations caps the Newton iteration. Convergence normally
	// takes 3-4 steps; the cap is the circuit breaker for degenerate
	// provider behavior.
	solarMaxIterations = 30
)

// termDefinition pairs a solar term name with its target longitude.
type termDefinition struct {
	name      string
	longitude float64
}

// The twenty-four solar terms in traditional listing order, starting from
// 小寒 (285°). Odd entries (multiples of 30°) are the zhongqi that govern
// leap-month detection.
var termTable = []termDefinition{
	{"小寒", 285}, {"大寒", 300}, {"立春", 315}, {"雨水", 330},
	{"啓蟄", 345}, {"春分", 0}, {"清明", 15}, {"穀雨", 30},
	{"立夏", 45}, {"小満", 60}, {"芒種", 75}, {"夏至", 90},
	{"小暑", 105}, {"大暑", 120}, {"立秋", 135}, {"処暑", 150},
	{"白露", 165}, {"秋分", 180}, {"寒露", 195}, {"霜降", 210},
	{"立冬", 225}, {"小雪", 240}, {"大雪", 255}, {"冬至", 270},
}

// TermName returns the traditional name for a target longitude, or the
// degree value when the longitude is not one of the twenty-four terms.
func TermName(targetLongitude float64) string {
	for _, def := range termTable {
		if def.longitude == targetLongitude {
			return def.name
		}
	}
	return fmt.Sprintf("%.0f°", targetLongitude)
}

// SolarTermSolver finds the instants at which the Sun's apparent ecliptic
// longitude crosses a target angle.
type SolarTermSolver struct {
	provider ephemeris.Provider
}

// NewSolarTermSolver creates a solver over the given provider.
func NewSolarTermSolver(provider ephemeris.Provider) *SolarTermSolver {
	return &SolarTermSolver{provider: provider}
}

// Solve returns the Julian Day (UT) at which the solar longitude equals
// targetLongitude (mod 360), starting from a coarse approximate instant.
//
// The first estimate moves from the approximation by the angular gap at
// mean solar motion; each Newton step then corrects by the residual over
// the instantaneous daily speed. Iteration stops when the residual falls
// below SolarTolerance; exceeding the cap yields a ConvergenceError.
func (s *SolarTermSolver) Solve(targetLongitude, approx float64) (float64, error) {
	lon, _, err := sunLongitude(s.provider, approx)
	if err != nil {
		return 0, fmt.Errorf("solar term %s: %w", TermName(targetLongitude), err)
	}

	diff := signedDelta(targetLongitude - lon)
	jd := approx + diff/MeanSolarMotion

	for i := 0; i < solarMaxIterations; i++ {
		var speed float64
		lon, speed, err = sunLongitude(s.provider, jd)
		if err != nil {
			return 0, fmt.Errorf("solar term %s: %w", TermName(targetLongitude), err)
		}

		diff = signedDelta(targetLongitude - lon)
		if abs(diff) < SolarTolerance {
			return jd, nil
		}

		if speed == 0 {
			// A zero rate would divide the step to infinity; fall back to
			// the mean motion and let the cap decide.
			speed = MeanSolarMotion
		}
		jd += diff / speed
	}

	return 0, &ConvergenceError{
		Op:           fmt.Sprintf("solar term %s", TermName(targetLongitude)),
		LastEstimate: jd,
		Residual:     diff,
		Iterations:   solarMaxIterations,
	}
}

// TermsForYear computes all twenty-four solar terms whose instants fall in
// the given calendar year, ordered by instant.
//
// Each term is seeded from an anchor near 立春 of the year: the Sun covers
// the gap from 315° at roughly a degree per day, which lands the Newton
// iteration within a day or two of every crossing. 小寒 and 大寒 belong to
// January, so their anchor sits in the previous year.
func (s *SolarTermSolver) TermsForYear(year int) ([]model.SolarTermEvent, error) {
	events := make([]model.SolarTermEvent, 0, len(termTable))

	for _, def := range termTable {
		anchorYear := year
		if def.longitude >= 285 && def.longitude < 315 {
			anchorYear = year - 1
		}
		daysFromLichun := signedPositive(def.longitude-315) / 360 * 365.25
		approx := lichunAnchor(anchorYear) + daysFromLichun

		jd, err := s.Solve(def.longitude, approx)
		if err != nil {
			return nil, err
		}
		events = append(events, model.SolarTermEvent{
			Name:            def.name,
			TargetLongitude: def.longitude,
			Instant:         jd,
		})
	}

	sortEventsByInstant(events)
	log.Debug().Int("year", year).Int("terms", len(events)).Msg("solar terms computed")
	return events, nil
}

// lichunAnchor is the Julian Day of Feb 4, 00:00 UT of a year, a stable
// coarse position for 立春.
func lichunAnchor(year int) float64 {
	return gregorianJD(year, 2, 4)
}

// signedPositive reduces an angle to [0,360).
func signedPositive(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func sortEventsByInstant(events []model.SolarTermEvent) {
	sort.Slice(events, func(i, j int) bool { return events[i].Instant < events[j].Instant })
}
