package model

// BodyPosition is an ecliptic position returned by an ephemeris provider.
//
// Longitude is the apparent ecliptic longitude in [0,360) degrees, latitude
// the ecliptic latitude in degrees, distance the geocentric distance in AU
// and DailySpeed the longitude rate in degrees per day. Positions are
// produced only by the provider and never mutated.
type BodyPosition struct {
	Longitude  float64
	Latitude   float64
	Distance   float64
	DailySpeed float64
}

// SolarTermEvent is the exact instant the Sun's apparent ecliptic longitude
// crosses a target angle. Twenty-four occur per calendar year.
//
// Invariant: the solar longitude at Instant equals TargetLongitude within
// the solver tolerance.
type SolarTermEvent struct {
	Name            string  `json:"name"`
	TargetLongitude float64 `json:"targetLongitude"` // degrees in [0,360)
	Instant         float64 `json:"instant"`         // Julian Day, UT
}

// IsZhongqi reports whether the term is a 中気: a crossing of a
// multiple-of-30 degree longitude. Zhongqi govern leap-month detection.
func (e SolarTermEvent) IsZhongqi() bool {
	return int(e.TargetLongitude)%30 == 0
}

// SyzygyEvent is the exact instant of a Sun-Moon ecliptic conjunction
// (new moon). The Sun-Moon longitude difference at Instant is 0 (mod 360)
// within the solver tolerance.
type SyzygyEvent struct {
	Instant float64 `json:"instant"` // Julian Day, UT
}

// LunarMonth is one lunisolar month, bounded by two consecutive new moons.
// Start is inclusive, End exclusive. Ordinal is assigned by counting from
// the month containing the winter solstice (ordinal 11); a leap month
// carries the ordinal and year of the month it follows.
type LunarMonth struct {
	Year    int     `json:"year"`    // lunar year the month belongs to
	Ordinal int     `json:"ordinal"` // 1-12
	IsLeap  bool    `json:"isLeap"`
	Start   float64 `json:"start"` // Julian Day, UT
	End     float64 `json:"end"`   // Julian Day, UT
}

// Contains reports whether the instant falls inside the month.
func (m LunarMonth) Contains(jd float64) bool {
	return jd >= m.Start && jd < m.End
}

// LunarDate is a civil instant expressed in the lunisolar calendar.
type LunarDate struct {
	Year        int  `json:"year"`
	Month       int  `json:"month"` // LunarMonth ordinal, 1-12
	Day         int  `json:"day"`   // 1-30
	IsLeapMonth bool `json:"isLeapMonth"`
}
