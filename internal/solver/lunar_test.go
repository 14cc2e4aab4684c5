package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"almanac/internal/ephemeris"
	"almanac/internal/model"
)

func TestFindNewMoonNear(t *testing.T) {
	s := NewLunarSyzygySolver(ephemeris.NewMeeusProvider())

	// The January 2024 new moon fell on the 11th, 11:57 UT.
	jd, err := s.FindNewMoonNear(gregorianJD(2024, 1, 8))
	require.NoError(t, err)
	assert.InDelta(t, 2460320.998, jd, 0.03)
}

// TestFindNewMoonNearestRoot: the iteration converges to the nearest
// conjunction, which may lie before the seed.
func TestFindNewMoonNearestRoot(t *testing.T) {
	s := NewLunarSyzygySolver(ephemeris.NewMeeusProvider())

	seed := gregorianJD(2024, 1, 13)
	jd, err := s.FindNewMoonNear(seed)
	require.NoError(t, err)
	assert.Less(t, jd, seed)
	assert.InDelta(t, 2460320.998, jd, 0.03)
}

func TestEnumerateYear2024(t *testing.T) {
	s := NewLunarSyzygySolver(ephemeris.NewMeeusProvider())

	from := gregorianJD(2024, 1, 1)
	to := gregorianJD(2025, 1, 1)
	events, err := s.Enumerate(from, to)
	require.NoError(t, err)

	// 2024 held thirteen new moons: January 11 through December 30.
	require.Len(t, events, 13)
	assert.InDelta(t, 2460320.998, events[0].Instant, 0.03)
	assert.InDelta(t, gregorianJD(2024, 12, 30), events[12].Instant, 2.0)

	for i, e := range events {
		assert.GreaterOrEqual(t, e.Instant, from)
		assert.Less(t, e.Instant, to)
		if i > 0 {
			gap := e.Instant - events[i-1].Instant
			assert.Greater(t, gap, 29.2, "gap before event %d", i)
			assert.Less(t, gap, 29.9, "gap before event %d", i)
		}
	}
}

func TestEnumerateEmptySpan(t *testing.T) {
	s := NewLunarSyzygySolver(ephemeris.NewMeeusProvider())

	_, err := s.Enumerate(2460000.0, 2460000.0)
	assert.Error(t, err)
	_, err = s.Enumerate(2460000.0, 2459990.0)
	assert.Error(t, err)
}

func TestFindNewMoonConvergenceFailure(t *testing.T) {
	// Frozen bodies with a fixed elongation can never reach conjunction.
	p := new(mockProvider)
	p.On("Position", mock.Anything, ephemeris.Sun).
		Return(model.BodyPosition{Longitude: 10, DailySpeed: MeanSolarMotion}, nil)
	p.On("Position", mock.Anything, ephemeris.Moon).
		Return(model.BodyPosition{Longitude: 130, DailySpeed: MeanSolarMotion + MeanLunarElongationRate}, nil)

	s := NewLunarSyzygySolver(p)
	_, err := s.FindNewMoonNear(2460000.0)
	require.Error(t, err)

	var convErr *ConvergenceError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, syzygyMaxIterations, convErr.Iterations)
}

func TestFindNewMoonPropagatesProviderError(t *testing.T) {
	p := new(mockProvider)
	p.On("Position", mock.Anything, ephemeris.Sun).
		Return(model.BodyPosition{}, ephemeris.ErrUnavailable)

	s := NewLunarSyzygySolver(p)
	_, err := s.FindNewMoonNear(2460000.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ephemeris.ErrUnavailable)
}
