// Package almanac orchestrates the calendrical components behind a single
// facade: civil date/time in, astronomically-grounded calendar facts out.
//
// A Calendar owns an injected ephemeris provider, the two event solvers,
// the lunisolar year builder and a per-year memoization cache. There are no
// package-level singletons; construct as many independent calendars as
// needed.
package almanac

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"almanac/internal/ephemeris"
	"almanac/internal/lunisolar"
	"almanac/internal/model"
	"almanac/internal/sexagenary"
	"almanac/internal/solver"
	"almanac/internal/timeconv"
)

// lichunLongitude is the solar longitude of 立春, the sexagenary year
// boundary.
const lichunLongitude = 315.0

// degreesPerHour converts a UTC offset to its standard meridian.
const degreesPerHour = 15.0

// Config selects the calendrical conventions a Calendar applies. The zero
// value uses the late-zi day boundary, no leap-month split mode (leap-month
// queries fail until one is chosen) and clock time for hour pillars.
type Config struct {
	// DayBoundary selects when the day pillar rolls to the next index.
	DayBoundary model.DayBoundaryPolicy `validate:"min=0,max=1"`

	// LeapMode selects the leap-month day-attribution convention. Leave
	// unset only if leap-month dates are never requested.
	LeapMode model.LeapMonthMode `validate:"min=0,max=3"`

	// UseTrueSolarTime switches hour pillars from clock time to local
	// apparent time (equation of time plus longitude offset from the
	// standard meridian implied by the input's UTC offset).
	UseTrueSolarTime bool

	// Longitude is the observer's geographic longitude in degrees, east
	// positive. Only consulted when UseTrueSolarTime is set.
	Longitude float64 `validate:"min=-180,max=180"`
}

// Calendar answers pillar and lunisolar-date queries for civil instants.
// Safe for concurrent use.
type Calendar struct {
	provider ephemeris.Provider
	cfg      Config
	validate *validator.Validate

	termSolver   *solver.SolarTermSolver
	syzygySolver *solver.LunarSyzygySolver
	builder      *lunisolar.Builder

	// mu guards lazy population of the two caches below. Entries are
	// immutable once stored (calendar facts for a past year do not
	// change), so readers holding a populated entry need no lock.
	mu    sync.RWMutex
	terms map[int][]model.SolarTermEvent
	years map[int]*lunisolar.YearBundle
}

// New creates a Calendar over the injected ephemeris provider.
func New(provider ephemeris.Provider, cfg Config) (*Calendar, error) {
	if provider == nil {
		return nil, fmt.Errorf("nil ephemeris provider")
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid calendar config: %w", err)
	}

	termSolver := solver.NewSolarTermSolver(provider)
	syzygySolver := solver.NewLunarSyzygySolver(provider)
	return &Calendar{
		provider:     provider,
		cfg:          cfg,
		validate:     v,
		termSolver:   termSolver,
		syzygySolver: syzygySolver,
		builder:      lunisolar.NewBuilder(termSolver, syzygySolver),
		terms:        make(map[int][]model.SolarTermEvent),
		years:        make(map[int]*lunisolar.YearBundle),
	}, nil
}

// SolarTerms returns the twenty-four solar-term events of a calendar year,
// ordered by instant. Results are memoized per year.
func (c *Calendar) SolarTerms(year int) ([]model.SolarTermEvent, error) {
	c.mu.RLock()
	cached, ok := c.terms[year]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok = c.terms[year]; ok {
		return cached, nil
	}
	events, err := c.termSolver.TermsForYear(year)
	if err != nil {
		return nil, err
	}
	c.terms[year] = events
	log.Debug().Int("year", year).Msg("solar term cache populated")
	return events, nil
}

// yearBundle returns the memoized lunisolar structure for a year.
func (c *Calendar) yearBundle(year int) (*lunisolar.YearBundle, error) {
	c.mu.RLock()
	cached, ok := c.years[year]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok = c.years[year]; ok {
		return cached, nil
	}
	bundle, err := c.builder.BuildYear(year)
	if err != nil {
		return nil, err
	}
	c.years[year] = bundle
	log.Debug().Int("year", year).Msg("lunisolar year cache populated")
	return bundle, nil
}

// instant validates the civil input and converts it to a Julian Day (UT).
func (c *Calendar) instant(civil timeconv.CivilDateTime) (float64, error) {
	if err := c.validate.Struct(civil); err != nil {
		return 0, fmt.Errorf("%w: %v", timeconv.ErrInvalidCalendarDate, err)
	}
	return timeconv.JulianDay(civil)
}

// lichun returns the 立春 instant of a calendar year.
func (c *Calendar) lichun(year int) (float64, error) {
	terms, err := c.SolarTerms(year)
	if err != nil {
		return 0, err
	}
	for _, t := range terms {
		if t.TargetLongitude == lichunLongitude {
			return t.Instant, nil
		}
	}
	return 0, fmt.Errorf("no lichun term for %d", year)
}

// jieMonthNumber locates the jie interval holding jd: the most recent
// non-zhongqi term at or before the instant, numbered 1 (立春) through
// 12 (小寒).
func (c *Calendar) jieMonthNumber(jd float64, civilYear int) (int, error) {
	best := -1.0
	bestNo := 0
	for _, y := range []int{civilYear - 1, civilYear, civilYear + 1} {
		terms, err := c.SolarTerms(y)
		if err != nil {
			return 0, err
		}
		for _, t := range terms {
			if t.IsZhongqi() || t.Instant > jd || t.Instant < best {
				continue
			}
			best = t.Instant
			bestNo = int(t.TargetLongitude-lichunLongitude+360)%360/30 + 1
		}
	}
	if bestNo == 0 {
		return 0, fmt.Errorf("no jie term precedes instant %.5f", jd)
	}
	return bestNo, nil
}

// hourForPillar returns the local hour used for the hour branch: clock time
// by default, local apparent (true solar) time when configured.
func (c *Calendar) hourForPillar(jd float64, civil timeconv.CivilDateTime) float64 {
	_, localHour := sexagenary.LocalDay(jd, civil.UTCOffset)
	if !c.cfg.UseTrueSolarTime {
		return localHour
	}
	meridian := civil.UTCOffset * degreesPerHour
	return timeconv.LocalApparentTime(jd, localHour, c.cfg.Longitude, meridian)
}

// FourPillars computes the year, month, day and hour pillars for a civil
// instant. Any upstream failure (invalid date, ephemeris gap, solver
// non-convergence) aborts the whole computation; partial pillars are never
// returned.
func (c *Calendar) FourPillars(civil timeconv.CivilDateTime) (model.FourPillars, error) {
	jd, err := c.instant(civil)
	if err != nil {
		return model.FourPillars{}, err
	}

	lichunJD, err := c.lichun(civil.Year)
	if err != nil {
		return model.FourPillars{}, err
	}
	yearPillar := sexagenary.YearPillar(jd, civil.Year, lichunJD)

	monthNo, err := c.jieMonthNumber(jd, civil.Year)
	if err != nil {
		return model.FourPillars{}, err
	}
	monthPillar := sexagenary.MonthPillar(monthNo, yearPillar.Stem())

	dayPillar := sexagenary.DayPillar(jd, civil.UTCOffset, c.cfg.DayBoundary)
	hourPillar := sexagenary.HourPillar(c.hourForPillar(jd, civil), dayPillar.Stem(), c.cfg.DayBoundary)

	return model.FourPillars{
		Year:  yearPillar,
		Month: monthPillar,
		Day:   dayPillar,
		Hour:  hourPillar,
	}, nil
}

// LunarDate expresses a civil instant in the lunisolar calendar under the
// configured leap-month mode.
func (c *Calendar) LunarDate(civil timeconv.CivilDateTime) (model.LunarDate, error) {
	jd, err := c.instant(civil)
	if err != nil {
		return model.LunarDate{}, err
	}
	bundle, err := c.yearBundle(civil.Year)
	if err != nil {
		return model.LunarDate{}, err
	}
	return bundle.LunarDateAt(jd, c.cfg.LeapMode)
}

// VoidBranches returns the two void (空亡) branches implied by the day
// pillar of the instant.
func (c *Calendar) VoidBranches(civil timeconv.CivilDateTime) ([2]model.Branch, error) {
	jd, err := c.instant(civil)
	if err != nil {
		return [2]model.Branch{}, err
	}
	day := sexagenary.DayPillar(jd, civil.UTCOffset, c.cfg.DayBoundary)
	return sexagenary.VoidBranches(day), nil
}

// NewMoons returns the new-moon events backing the lunisolar structure of
// a calendar year, ordered by instant.
func (c *Calendar) NewMoons(year int) ([]model.SyzygyEvent, error) {
	bundle, err := c.yearBundle(year)
	if err != nil {
		return nil, err
	}
	return bundle.NewMoons, nil
}
