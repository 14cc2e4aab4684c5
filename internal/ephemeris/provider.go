// Package ephemeris defines the position-provider contract the calendar
// engine depends on, together with an analytic implementation.
//
// The engine never talks to an ephemeris library directly: every component
// receives a Provider, so the underlying tables can be swapped (or mocked in
// tests) without touching the calendrical code.
package ephemeris

import (
	"errors"
	"fmt"

	"almanac/internal/model"
)

// Body identifies a celestial body a provider can resolve.
type Body int

const (
	// Sun is the apparent geocentric Sun.
	Sun Body = iota

	// Moon is the geocentric Moon.
	Moon
)

// String returns the body name.
func (b Body) String() string {
	switch b {
	case Sun:
		return "sun"
	case Moon:
		return "moon"
	}
	return fmt.Sprintf("body(%d)", int(b))
}

// Error definitions for provider failures.
var (
	// ErrUnavailable reports that the provider cannot resolve a position,
	// typically because the instant lies outside its valid range. It is
	// fatal to the computation that issued the query.
	ErrUnavailable = errors.New("ephemeris unavailable")

	// ErrBodyUnsupported reports that the provider does not model the
	// requested body at all. It is distinct from ErrUnavailable so callers
	// can tell "wrong body" from "right body, bad instant".
	ErrBodyUnsupported = errors.New("body not supported by provider")
)

// Provider returns ecliptic positions for celestial bodies.
//
// Position resolves the apparent ecliptic position of body at the given
// instant (Julian Day, UT). Implementations are synchronous and must be safe
// for concurrent use. Failures wrap ErrUnavailable or ErrBodyUnsupported.
type Provider interface {
	Position(jd float64, body Body) (model.BodyPosition, error)
}
