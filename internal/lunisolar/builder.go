package lunisolar

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/soniakeys/meeus/v3/julian"

	"almanac/internal/model"
	"almanac/internal/solver"
)

// winterSolsticeLongitude is the solar longitude of 冬至, the anchor of
// lunisolar month numbering.
const winterSolsticeLongitude = 270.0

// YearBundle is the assembled lunisolar structure for one calendar year:
// the new moons and solar terms that bound it, and the numbered months.
// Months cover November of the previous year through December of the next,
// so any instant of the bundle's civil year falls inside one of them.
// A bundle is immutable once built.
type YearBundle struct {
	Year     int
	NewMoons []model.SyzygyEvent
	Terms    []model.SolarTermEvent
	Months   []model.LunarMonth
}

// Builder assembles YearBundles from the two event solvers.
type Builder struct {
	termSolver   *solver.SolarTermSolver
	syzygySolver *solver.LunarSyzygySolver
}

// NewBuilder creates a calendar builder over the given solvers.
func NewBuilder(terms *solver.SolarTermSolver, syzygies *solver.LunarSyzygySolver) *Builder {
	return &Builder{termSolver: terms, syzygySolver: syzygies}
}

// BuildYear computes the lunisolar structure for a calendar year.
//
// Steps: enumerate new moons from November of year-1 far enough past the
// next winter solstice, compute the solar terms of the three overlapping
// years, locate the months containing consecutive winter solstices, and
// number months between them. The month containing a solstice is ordinal
// 11; a 13-month solstice-to-solstice span holds exactly one leap month,
// the first one without a zhongqi, which inherits the ordinal and year of
// its predecessor.
func (b *Builder) BuildYear(year int) (*YearBundle, error) {
	from := julian.CalendarGregorianToJD(year-1, 11, 1)
	to := julian.CalendarGregorianToJD(year+2, 2, 1)

	moons, err := b.syzygySolver.Enumerate(from, to)
	if err != nil {
		return nil, fmt.Errorf("build year %d: %w", year, err)
	}
	if len(moons) < 14 {
		return nil, fmt.Errorf("build year %d: only %d new moons in span", year, len(moons))
	}

	var terms []model.SolarTermEvent
	for _, y := range []int{year - 1, year, year + 1} {
		yt, err := b.termSolver.TermsForYear(y)
		if err != nil {
			return nil, fmt.Errorf("build year %d: %w", year, err)
		}
		terms = append(terms, yt...)
	}

	months, err := numberMonths(year, moons, terms)
	if err != nil {
		return nil, fmt.Errorf("build year %d: %w", year, err)
	}

	log.Debug().Int("year", year).Int("months", len(months)).Msg("lunisolar year assembled")
	return &YearBundle{
		Year:     year,
		NewMoons: moons,
		Terms:    terms,
		Months:   months,
	}, nil
}

// numberMonths assigns ordinals to the months bounded by consecutive moons,
// anchored on the winter solstices of December year-1 and December year.
func numberMonths(year int, moons []model.SyzygyEvent, terms []model.SolarTermEvent) ([]model.LunarMonth, error) {
	w1, err := solsticeIn(terms, year-1)
	if err != nil {
		return nil, err
	}
	w2, err := solsticeIn(terms, year)
	if err != nil {
		return nil, err
	}
	w3, err := solsticeIn(terms, year+1)
	if err != nil {
		return nil, err
	}

	a, err := monthIndexContaining(moons, w1)
	if err != nil {
		return nil, err
	}
	bIdx, err := monthIndexContaining(moons, w2)
	if err != nil {
		return nil, err
	}
	c, err := monthIndexContaining(moons, w3)
	if err != nil {
		return nil, err
	}

	detector := NewLeapMonthDetector(terms)

	first, err := numberSui(moons, detector, a, bIdx, year-1)
	if err != nil {
		return nil, err
	}
	second, err := numberSui(moons, detector, bIdx, c, year)
	if err != nil {
		return nil, err
	}
	// Close the final solstice month so instants in late December of year+1
	// still resolve.
	last := model.LunarMonth{
		Year:    year + 1,
		Ordinal: 11,
		Start:   moons[c].Instant,
		End:     moons[c+1].Instant,
	}

	months := append(first, second...)
	return append(months, last), nil
}

// numberSui numbers the months in [a, b) where moons[a] starts the month
// holding one winter solstice and moons[b] the month holding the next.
// startYear is the lunar year of the opening ordinal-11 month.
func numberSui(moons []model.SyzygyEvent, detector *LeapMonthDetector, a, b, startYear int) ([]model.LunarMonth, error) {
	count := b - a
	if count != 12 && count != 13 {
		return nil, fmt.Errorf("%d months between consecutive winter solstices", count)
	}

	leapIdx := -1
	if count == 13 {
		for i := a + 1; i < b; i++ {
			if detector.IsLeapCandidate(moons[i].Instant, moons[i+1].Instant) {
				leapIdx = i
				break
			}
		}
		if leapIdx == -1 {
			return nil, fmt.Errorf("13-month span holds no zhongqi-free month")
		}
	}

	months := make([]model.LunarMonth, 0, count)
	ordinal := 11
	lunarYear := startYear
	for i := a; i < b; i++ {
		m := model.LunarMonth{
			Start: moons[i].Instant,
			End:   moons[i+1].Instant,
		}
		if i == leapIdx {
			// The leap month repeats the ordinal and year of the month it
			// follows and does not advance the count.
			m.Ordinal = ordinal
			m.Year = lunarYear
			m.IsLeap = true
			months = append(months, m)
			continue
		}
		if i > a {
			ordinal++
			if ordinal > 12 {
				ordinal = 1
			}
			if ordinal == 1 {
				lunarYear++
			}
		}
		m.Ordinal = ordinal
		m.Year = lunarYear
		months = append(months, m)
	}
	return months, nil
}

// solsticeIn finds the winter solstice event belonging to December of the
// given year.
func solsticeIn(terms []model.SolarTermEvent, year int) (float64, error) {
	dec1 := julian.CalendarGregorianToJD(year, 12, 1)
	jan15 := julian.CalendarGregorianToJD(year+1, 1, 15)
	for _, t := range terms {
		if t.TargetLongitude == winterSolsticeLongitude && t.Instant >= dec1 && t.Instant < jan15 {
			return t.Instant, nil
		}
	}
	return 0, fmt.Errorf("no winter solstice term found for %d", year)
}

// monthIndexContaining returns the index i such that
// moons[i] <= jd < moons[i+1].
func monthIndexContaining(moons []model.SyzygyEvent, jd float64) (int, error) {
	for i := 0; i+1 < len(moons); i++ {
		if moons[i].Instant <= jd && jd < moons[i+1].Instant {
			return i, nil
		}
	}
	return 0, fmt.Errorf("instant %.5f outside enumerated months", jd)
}

// LunarDateAt expresses an instant as a lunisolar date using the bundle's
// month structure. The leap mode decides how days of an intercalary month
// are attributed; LeapModeUnset fails with ErrAmbiguousLeapPolicy when (and
// only when) the instant actually falls in a leap month.
func (yb *YearBundle) LunarDateAt(jd float64, mode model.LeapMonthMode) (model.LunarDate, error) {
	var month *model.LunarMonth
	for i := range yb.Months {
		if yb.Months[i].Contains(jd) {
			month = &yb.Months[i]
			break
		}
	}
	if month == nil {
		return model.LunarDate{}, fmt.Errorf("instant %.5f outside months of year %d", jd, yb.Year)
	}

	day := int(math.Floor(jd-month.Start)) + 1
	date := model.LunarDate{
		Year:        month.Year,
		Month:       month.Ordinal,
		Day:         day,
		IsLeapMonth: month.IsLeap,
	}
	if !month.IsLeap {
		return date, nil
	}

	switch mode {
	case model.LeapModeB:
		return date, nil
	case model.LeapModeA:
		if day <= 15 {
			return date, nil
		}
		return attributeToNext(date), nil
	case model.LeapModeC:
		return attributeToNext(date), nil
	default:
		return model.LunarDate{}, fmt.Errorf("%w: instant %.5f in leap month %d", ErrAmbiguousLeapPolicy, jd, month.Ordinal)
	}
}

// attributeToNext reassigns a leap-month date to the following ordinal
// month, keeping the day number.
func attributeToNext(d model.LunarDate) model.LunarDate {
	d.IsLeapMonth = false
	d.Month++
	if d.Month > 12 {
		d.Month = 1
		d.Year++
	}
	return d
}
