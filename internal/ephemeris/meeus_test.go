package ephemeris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Meeus, "Astronomical Algorithms", example 25.a: apparent solar longitude
// for 1992 October 13.0 TD.
func TestSunPosition(t *testing.T) {
	p := NewMeeusProvider()

	pos, err := p.Position(2448908.5, Sun)
	require.NoError(t, err)

	assert.InDelta(t, 199.909, pos.Longitude, 0.01)
	assert.InDelta(t, 0.99766, pos.Distance, 1e-4)
	assert.Zero(t, pos.Latitude)

	// October is near perihelion approach; the sun runs slightly fast.
	assert.InDelta(t, 0.99, pos.DailySpeed, 0.03)
}

// Meeus example 47.a: lunar position for 1992 April 12.0 TD.
func TestMoonPosition(t *testing.T) {
	p := NewMeeusProvider()

	pos, err := p.Position(2448724.5, Moon)
	require.NoError(t, err)

	assert.InDelta(t, 133.1626, pos.Longitude, 0.02)
	assert.InDelta(t, -3.229, pos.Latitude, 0.02)
	assert.InDelta(t, 368409.7/149597870.7, pos.Distance, 1e-5)

	// Lunar longitude rate stays inside 11.8..15.4 degrees/day.
	assert.Greater(t, pos.DailySpeed, 11.8)
	assert.Less(t, pos.DailySpeed, 15.4)
}

func TestLongitudeNormalized(t *testing.T) {
	p := NewMeeusProvider()

	// January longitudes sit in the Capricorn range, near the 270..300 band,
	// and must never be reported negative.
	pos, err := p.Position(2451545.0, Sun)
	require.NoError(t, err)
	assert.InDelta(t, 280.4, pos.Longitude, 0.5)

	for _, jd := range []float64{2440587.5, 2451545.0, 2460310.5} {
		for _, body := range []Body{Sun, Moon} {
			pos, err := p.Position(jd, body)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, pos.Longitude, 0.0)
			assert.Less(t, pos.Longitude, 360.0)
		}
	}
}

func TestPositionOutOfRange(t *testing.T) {
	p := NewMeeusProvider()

	_, err := p.Position(0, Sun)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = p.Position(9e6, Moon)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPositionUnknownBody(t *testing.T) {
	p := NewMeeusProvider()

	_, err := p.Position(2451545.0, Body(99))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBodyUnsupported)
}
