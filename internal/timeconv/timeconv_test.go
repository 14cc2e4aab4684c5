package timeconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJulianDayKnownEpochs(t *testing.T) {
	tests := []struct {
		name string
		c    CivilDateTime
		want float64
	}{
		{
			"J2000.0",
			CivilDateTime{Year: 2000, Month: 1, Day: 1, Hour: 12},
			2451545.0,
		},
		{
			"Gregorian day boundary",
			CivilDateTime{Year: 2024, Month: 1, Day: 1},
			2460310.5,
		},
		{
			"offset shifts the instant west",
			CivilDateTime{Year: 2000, Month: 1, Day: 1, Hour: 12, UTCOffset: 9},
			2451545.0 - 9.0/24,
		},
		{
			"meeus example 7.a, sputnik epoch",
			CivilDateTime{Year: 1957, Month: 10, Day: 4, Hour: 19, Minute: 26, Second: 24},
			2436116.31,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jd, err := JulianDay(tt.c)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, jd, 1e-6)
		})
	}
}

func TestJulianDayRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		c    CivilDateTime
	}{
		{"month 13", CivilDateTime{Year: 2024, Month: 13, Day: 1}},
		{"month 0", CivilDateTime{Year: 2024, Month: 0, Day: 1}},
		{"day 32", CivilDateTime{Year: 2024, Month: 1, Day: 32}},
		{"feb 30", CivilDateTime{Year: 2024, Month: 2, Day: 30}},
		{"feb 29 of common year", CivilDateTime{Year: 2023, Month: 2, Day: 29}},
		{"hour 24", CivilDateTime{Year: 2024, Month: 1, Day: 1, Hour: 24}},
		{"minute 60", CivilDateTime{Year: 2024, Month: 1, Day: 1, Minute: 60}},
		{"offset beyond range", CivilDateTime{Year: 2024, Month: 1, Day: 1, UTCOffset: 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JulianDay(tt.c)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCalendarDate)
		})
	}

	// Century leap rule: 2000 had a Feb 29, 1900 did not.
	_, err := JulianDay(CivilDateTime{Year: 2000, Month: 2, Day: 29})
	assert.NoError(t, err)
	_, err = JulianDay(CivilDateTime{Year: 1900, Month: 2, Day: 29})
	assert.ErrorIs(t, err, ErrInvalidCalendarDate)
}

func TestCivilRoundTrip(t *testing.T) {
	dates := []CivilDateTime{
		{Year: 1992, Month: 2, Day: 17, Hour: 23, Minute: 59, Second: 59, UTCOffset: 9},
		{Year: 2000, Month: 1, Day: 1, UTCOffset: 0},
		{Year: 2024, Month: 2, Day: 10, Hour: 12, Minute: 30, Second: 15, UTCOffset: 9},
		{Year: 1984, Month: 12, Day: 31, Hour: 18, UTCOffset: -5},
		{Year: 2023, Month: 6, Day: 21, Hour: 3, Minute: 7, Second: 42, UTCOffset: 5.5},
	}
	for _, c := range dates {
		jd, err := JulianDay(c)
		require.NoError(t, err)
		got := Civil(jd, c.UTCOffset)
		assert.Equal(t, c, got, "round trip of %+v", c)
	}
}

// TestCivilRoundingCarry checks that sub-second residue near midnight rounds
// into the next day instead of truncating backwards.
func TestCivilRoundingCarry(t *testing.T) {
	jd, err := JulianDay(CivilDateTime{Year: 2024, Month: 2, Day: 29, Hour: 23, Minute: 59, Second: 59})
	require.NoError(t, err)

	got := Civil(jd+0.9/86400, 0)
	assert.Equal(t, CivilDateTime{Year: 2024, Month: 3, Day: 1}, got)
}

func TestEquationOfTime(t *testing.T) {
	// Mid-February: the sundial trails the clock by roughly 14 minutes.
	jd, err := JulianDay(CivilDateTime{Year: 1992, Month: 2, Day: 11, Hour: 12})
	require.NoError(t, err)
	feb := EquationOfTime(jd)
	assert.Less(t, feb, -12.5)
	assert.Greater(t, feb, -15.5)

	// Early November: the sundial leads by roughly 16 minutes.
	jd, err = JulianDay(CivilDateTime{Year: 1992, Month: 11, Day: 3, Hour: 12})
	require.NoError(t, err)
	nov := EquationOfTime(jd)
	assert.Greater(t, nov, 14.5)
	assert.Less(t, nov, 17.5)
}

func TestLocalMeanTime(t *testing.T) {
	// Kyoto (135.77E) sits almost on the JST meridian (135E).
	assert.InDelta(t, 12.0513, LocalMeanTime(12, 135.77, 135), 1e-3)

	// Beijing (116.4E) under the UTC+8 meridian (120E) runs 14.4 min slow.
	assert.InDelta(t, 12-14.4/60, LocalMeanTime(12, 116.4, 120), 1e-6)
}

func TestLocalApparentTimeStaysInRange(t *testing.T) {
	jd, err := JulianDay(CivilDateTime{Year: 2024, Month: 2, Day: 10, UTCOffset: 9})
	require.NoError(t, err)

	// A standard hour near midnight with a westward longitude correction
	// must wrap, not go negative.
	lat := LocalApparentTime(jd, 0.1, 100, 120)
	assert.GreaterOrEqual(t, lat, 0.0)
	assert.Less(t, lat, 24.0)

	// Near the meridian the correction is just the equation of time.
	lat = LocalApparentTime(jd, 12, 120, 120)
	assert.InDelta(t, 12+EquationOfTime(jd)/60, lat, 1e-9)
}
