package ephemeris

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/solar"

	"almanac/internal/model"
)

// kmPerAU converts the lunar distance returned in kilometers to AU.
const kmPerAU = 149597870.7

// speedStep is the half-width, in days, of the central difference used to
// estimate the daily longitude rate.
const speedStep = 0.01

// Validity range of the analytic series, generous for calendrical use.
var (
	minJD = julian.CalendarGregorianToJD(-1000, 1, 1)
	maxJD = julian.CalendarGregorianToJD(3000, 12, 31)
)

// MeeusProvider resolves Sun and Moon positions from the analytic series in
// Meeus, "Astronomical Algorithms" (via the soniakeys/meeus library). It
// needs no external data files, is deterministic, and is accurate to a few
// arcseconds for the Sun and well under an arcminute for the Moon, which is
// far inside the tolerances of the calendar solvers.
//
// The zero value is ready to use and safe for concurrent callers.
type MeeusProvider struct{}

// NewMeeusProvider returns a ready-to-use analytic provider.
func NewMeeusProvider() *MeeusProvider { return &MeeusProvider{} }

// Position implements Provider.
func (p *MeeusProvider) Position(jd float64, body Body) (model.BodyPosition, error) {
	if jd < minJD || jd > maxJD {
		return model.BodyPosition{}, fmt.Errorf("%w: jd %.5f outside [%.1f, %.1f]",
			ErrUnavailable, jd, minJD, maxJD)
	}

	switch body {
	case Sun:
		return p.sun(jd), nil
	case Moon:
		return p.moon(jd), nil
	default:
		return model.BodyPosition{}, fmt.Errorf("%w: %s", ErrBodyUnsupported, body)
	}
}

// sun returns the apparent geocentric solar position.
func (p *MeeusProvider) sun(jd float64) model.BodyPosition {
	lon := p.sunLongitude(jd)
	return model.BodyPosition{
		Longitude:  lon,
		Latitude:   0, // apparent solar ecliptic latitude stays below 1.2 arcsec
		Distance:   solar.Radius(base.J2000Century(jd)),
		DailySpeed: dailyRate(p.sunLongitude, jd),
	}
}

// moon returns the geocentric lunar position.
func (p *MeeusProvider) moon(jd float64) model.BodyPosition {
	lon, lat, dist := moonposition.Position(jd)
	return model.BodyPosition{
		Longitude:  normalizeDeg(lon.Deg()),
		Latitude:   lat.Deg(),
		Distance:   dist / kmPerAU,
		DailySpeed: dailyRate(p.moonLongitude, jd),
	}
}

func (p *MeeusProvider) sunLongitude(jd float64) float64 {
	return normalizeDeg(solar.ApparentLongitude(base.J2000Century(jd)).Deg())
}

func (p *MeeusProvider) moonLongitude(jd float64) float64 {
	lon, _, _ := moonposition.Position(jd)
	return normalizeDeg(lon.Deg())
}

// dailyRate estimates d(longitude)/dt in degrees/day with a central
// difference, unwrapping the 0/360 seam.
func dailyRate(lon func(float64) float64, jd float64) float64 {
	before := lon(jd - speedStep)
	after := lon(jd + speedStep)
	delta := math.Mod(after-before+540, 360) - 180
	return delta / (2 * speedStep)
}

// normalizeDeg reduces an angle to [0,360).
func normalizeDeg(d float64) float64 {
	m := math.Mod(d, 360)
	if m < 0 {
		m += 360
	}
	return m
}
