package lunisolar

import (
	"testing"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almanac/internal/ephemeris"
	"almanac/internal/model"
	"almanac/internal/solver"
)

func newTestBuilder() *Builder {
	p := ephemeris.NewMeeusProvider()
	return NewBuilder(solver.NewSolarTermSolver(p), solver.NewLunarSyzygySolver(p))
}

func buildYear(t *testing.T, year int) *YearBundle {
	t.Helper()
	b := newTestBuilder()
	yb, err := b.BuildYear(year)
	require.NoError(t, err)
	return yb
}

// checkMonthChain verifies the structural laws every bundle must satisfy:
// contiguous month intervals, ordinal sequencing with leap repeats, and
// plausible month lengths.
func checkMonthChain(t *testing.T, yb *YearBundle) {
	t.Helper()
	require.NotEmpty(t, yb.Months)

	for i, m := range yb.Months {
		length := m.End - m.Start
		assert.Greater(t, length, 29.2, "month %d length", i)
		assert.Less(t, length, 29.9, "month %d length", i)

		if i == 0 {
			assert.Equal(t, 11, m.Ordinal, "bundles open on a solstice month")
			continue
		}
		prev := yb.Months[i-1]
		assert.Equal(t, prev.End, m.Start, "months %d/%d not contiguous", i-1, i)

		if m.IsLeap {
			assert.Equal(t, prev.Ordinal, m.Ordinal, "leap month repeats its predecessor")
			assert.Equal(t, prev.Year, m.Year)
			assert.False(t, prev.IsLeap, "two leap months in a row")
			continue
		}
		wantOrdinal := prev.Ordinal + 1
		wantYear := prev.Year
		if wantOrdinal > 12 {
			wantOrdinal = 1
			wantYear++
		}
		assert.Equal(t, wantOrdinal, m.Ordinal, "month %d ordinal", i)
		assert.Equal(t, wantYear, m.Year, "month %d year", i)
	}
}

func TestBuildYear2023LeapMonth(t *testing.T) {
	yb := buildYear(t, 2023)
	checkMonthChain(t, yb)

	var leaps []model.LunarMonth
	for _, m := range yb.Months {
		if m.IsLeap {
			leaps = append(leaps, m)
		}
	}
	// 2023 intercalated a second month, starting at the March 21 new moon.
	require.Len(t, leaps, 1)
	leap := leaps[0]
	assert.Equal(t, 2, leap.Ordinal)
	assert.Equal(t, 2023, leap.Year)
	assert.InDelta(t, julian.CalendarGregorianToJD(2023, 3, 21.72), leap.Start, 0.1)
}

func TestBuildYear2024(t *testing.T) {
	yb := buildYear(t, 2024)
	checkMonthChain(t, yb)

	// No leap month in the 2023/2024 solstice span; the following span
	// intercalates a sixth month (mid-2025).
	for _, m := range yb.Months {
		if !m.IsLeap {
			continue
		}
		assert.Equal(t, 6, m.Ordinal)
		assert.Equal(t, 2025, m.Year)
		assert.Greater(t, m.Start, julian.CalendarGregorianToJD(2025, 7, 1))
	}

	// New year's day of lunar 2024: February 10, midday in UTC+9.
	jd := julian.CalendarGregorianToJD(2024, 2, 10.125)
	date, err := yb.LunarDateAt(jd, model.LeapModeUnset)
	require.NoError(t, err)
	assert.Equal(t, model.LunarDate{Year: 2024, Month: 1, Day: 1}, date)

	// Civil new year still sits in the eleventh month of lunar 2023.
	jd = julian.CalendarGregorianToJD(2024, 1, 1.5)
	date, err = yb.LunarDateAt(jd, model.LeapModeUnset)
	require.NoError(t, err)
	assert.Equal(t, 2023, date.Year)
	assert.Equal(t, 11, date.Month)
	assert.False(t, date.IsLeapMonth)
}

func TestLunarDateAtLeapModes(t *testing.T) {
	yb := buildYear(t, 2023)

	// 2023-03-25 03:00 UT, day 4 of the leap second month.
	early := julian.CalendarGregorianToJD(2023, 3, 25.125)
	// 2023-04-10 03:00 UT, day 20 of the same month.
	late := julian.CalendarGregorianToJD(2023, 4, 10.125)

	tests := []struct {
		name string
		jd   float64
		mode model.LeapMonthMode
		want model.LunarDate
	}{
		{"mode A keeps the first half", early, model.LeapModeA,
			model.LunarDate{Year: 2023, Month: 2, Day: 4, IsLeapMonth: true}},
		{"mode A forwards the second half", late, model.LeapModeA,
			model.LunarDate{Year: 2023, Month: 3, Day: 20}},
		{"mode B keeps the whole month", late, model.LeapModeB,
			model.LunarDate{Year: 2023, Month: 2, Day: 20, IsLeapMonth: true}},
		{"mode C forwards the whole month", early, model.LeapModeC,
			model.LunarDate{Year: 2023, Month: 3, Day: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := yb.LunarDateAt(tt.jd, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// Unset mode fails inside the leap month...
	_, err := yb.LunarDateAt(early, model.LeapModeUnset)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousLeapPolicy)

	// ...but resolves ordinary months without complaint.
	ordinary := julian.CalendarGregorianToJD(2023, 6, 1.5)
	_, err = yb.LunarDateAt(ordinary, model.LeapModeUnset)
	assert.NoError(t, err)
}

func TestLunarDateAtOutsideBundle(t *testing.T) {
	yb := buildYear(t, 2024)

	_, err := yb.LunarDateAt(julian.CalendarGregorianToJD(2010, 6, 1), model.LeapModeB)
	assert.Error(t, err)
}

func TestBundleCoversWholeCivilYear(t *testing.T) {
	yb := buildYear(t, 2024)

	first := yb.Months[0]
	last := yb.Months[len(yb.Months)-1]
	assert.Less(t, first.Start, julian.CalendarGregorianToJD(2024, 1, 1))
	assert.Greater(t, last.End, julian.CalendarGregorianToJD(2025, 1, 1))
}
