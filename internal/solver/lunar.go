package solver

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"almanac/internal/ephemeris"
	"almanac/internal/model"
)

// Syzygy solver parameters.
const (
	// SyzygyTolerance is the convergence threshold on the Sun-Moon
	// elongation, in degrees.
	SyzygyTolerance = 1e-4

	// syzygyMaxIterations caps the Newton iteration for one new moon.
	syzygyMaxIterations = 50
)

// LunarSyzygySolver finds the instants of Sun-Moon ecliptic conjunction
// (new moons).
type LunarSyzygySolver struct {
	provider ephemeris.Provider
}

// NewLunarSyzygySolver creates a solver over the given provider.
func NewLunarSyzygySolver(provider ephemeris.Provider) *LunarSyzygySolver {
	return &LunarSyzygySolver{provider: provider}
}

// elongation returns the signed Sun-Moon longitude difference in (-180,180]
// and the relative daily rate at jd.
func (s *LunarSyzygySolver) elongation(jd float64) (diff, rate float64, err error) {
	sun, err := s.provider.Position(jd, ephemeris.Sun)
	if err != nil {
		return 0, 0, err
	}
	moon, err := s.provider.Position(jd, ephemeris.Moon)
	if err != nil {
		return 0, 0, err
	}
	diff = signedDelta(moon.Longitude - sun.Longitude)
	rate = moon.DailySpeed - sun.DailySpeed
	return diff, rate, nil
}

// FindNewMoonNear returns the Julian Day (UT) of the syzygy closest to the
// approximate instant.
//
// Newton iteration converges to the nearest root of the elongation, which
// may lie slightly before the seed; enumeration code that needs strictly
// forward motion steps the seed one synodic month past the previous root.
func (s *LunarSyzygySolver) FindNewMoonNear(approx float64) (float64, error) {
	jd := approx
	var diff float64

	for i := 0; i < syzygyMaxIterations; i++ {
		var rate float64
		var err error
		diff, rate, err = s.elongation(jd)
		if err != nil {
			return 0, fmt.Errorf("new moon: %w", err)
		}

		if abs(diff) < SyzygyTolerance {
			return jd, nil
		}

		if rate <= 0 {
			// The Moon always gains on the Sun; a non-positive relative
			// rate means the finite-difference speeds degenerated, so use
			// the mean elongation rate instead.
			rate = MeanLunarElongationRate
		}
		jd -= diff / rate
	}

	return 0, &ConvergenceError{
		Op:           "new moon",
		LastEstimate: jd,
		Residual:     diff,
		Iterations:   syzygyMaxIterations,
	}
}

// Enumerate returns every new moon with fromJD <= instant < toJD, in order.
//
// The search seeds on fromJD, then walks forward one synodic month at a
// time, re-solving each step. Roots that converge just before fromJD are
// dropped; the walk continues until the first root at or past toJD.
func (s *LunarSyzygySolver) Enumerate(fromJD, toJD float64) ([]model.SyzygyEvent, error) {
	if toJD <= fromJD {
		return nil, fmt.Errorf("new moon enumeration: empty span [%.5f, %.5f)", fromJD, toJD)
	}

	var events []model.SyzygyEvent
	seed := fromJD
	for {
		jd, err := s.FindNewMoonNear(seed)
		if err != nil {
			return nil, err
		}
		if jd >= toJD {
			break
		}
		if jd >= fromJD {
			events = append(events, model.SyzygyEvent{Instant: jd})
		}
		seed = jd + SynodicMonth
	}

	log.Debug().
		Float64("from", fromJD).
		Float64("to", toJD).
		Int("count", len(events)).
		Msg("new moons enumerated")
	return events, nil
}
