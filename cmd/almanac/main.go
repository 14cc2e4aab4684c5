/*
The almanac command computes sexagenary pillars and the lunisolar date for
a civil date/time.

It wires the analytic Meeus ephemeris provider into the calendar engine,
evaluates the requested instant and prints the result as JSON.

Usage:

	go run ./cmd/almanac -date 1992-02-17T17:18:00 -tz 9 -leap-mode A

A TOML config file can replace the individual flags:

	go run ./cmd/almanac -date 1992-02-17T17:18:00 -config almanac.toml
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"almanac/internal/almanac"
	"almanac/internal/config"
	"almanac/internal/ephemeris"
	"almanac/internal/model"
	"almanac/internal/timeconv"
)

// Command-line flags for configuring the computation.
var (
	dateFlag     = flag.String("date", "", "civil date/time, e.g. 1992-02-17T17:18:00")
	tzFlag       = flag.Float64("tz", 9, "UTC offset in hours, east positive")
	boundaryFlag = flag.String("day-boundary", "late-zi", "day boundary policy: late-zi or early-zi")
	leapFlag     = flag.String("leap-mode", "", "leap month mode: A, B or C (empty = unset)")
	trueSolar    = flag.Bool("true-solar", false, "use true solar time for the hour pillar")
	lonFlag      = flag.Float64("longitude", 0, "observer longitude, east positive (with -true-solar)")
	configFlag   = flag.String("config", "", "optional TOML config file; overrides policy flags")
	termsFlag    = flag.Int("terms", 0, "print the solar terms of the given year instead")
)

// result is the JSON output shape.
type result struct {
	Input        timeconv.CivilDateTime `json:"input"`
	FourPillars  model.FourPillars      `json:"fourPillars"`
	Pillars      map[string]string      `json:"pillars"`
	LunarDate    *model.LunarDate       `json:"lunarDate,omitempty"`
	VoidBranches [2]string              `json:"voidBranches"`
}

func main() {
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, utcOffset, err := buildConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	cal, err := almanac.New(ephemeris.NewMeeusProvider(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct calendar")
	}

	if *termsFlag != 0 {
		printTerms(cal, *termsFlag, utcOffset)
		return
	}

	civil, err := parseCivil(*dateFlag, utcOffset)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -date")
	}

	pillars, err := cal.FourPillars(civil)
	if err != nil {
		log.Fatal().Err(err).Msg("pillar computation failed")
	}
	void, err := cal.VoidBranches(civil)
	if err != nil {
		log.Fatal().Err(err).Msg("void branch computation failed")
	}

	out := result{
		Input:       civil,
		FourPillars: pillars,
		Pillars: map[string]string{
			"year":  pillars.Year.String(),
			"month": pillars.Month.String(),
			"day":   pillars.Day.String(),
			"hour":  pillars.Hour.String(),
		},
		VoidBranches: [2]string{void[0].String(), void[1].String()},
	}

	// The lunar date needs a leap-mode decision in leap months; leave it
	// out of the report rather than fail the whole run when unset.
	if lunar, err := cal.LunarDate(civil); err == nil {
		out.LunarDate = &lunar
	} else {
		log.Warn().Err(err).Msg("lunar date unavailable")
	}

	emit(out)
}

// buildConfig assembles the engine configuration from the config file or
// the individual flags.
func buildConfig() (almanac.Config, float64, error) {
	if *configFlag != "" {
		return config.Load(*configFlag)
	}

	cfg := almanac.Config{
		UseTrueSolarTime: *trueSolar,
		Longitude:        *lonFlag,
	}
	switch *boundaryFlag {
	case "late-zi":
		cfg.DayBoundary = model.PolicyLateZi
	case "early-zi":
		cfg.DayBoundary = model.PolicyEarlyZi
	default:
		return almanac.Config{}, 0, fmt.Errorf("unknown -day-boundary %q", *boundaryFlag)
	}
	switch *leapFlag {
	case "":
		cfg.LeapMode = model.LeapModeUnset
	case "A":
		cfg.LeapMode = model.LeapModeA
	case "B":
		cfg.LeapMode = model.LeapModeB
	case "C":
		cfg.LeapMode = model.LeapModeC
	default:
		return almanac.Config{}, 0, fmt.Errorf("unknown -leap-mode %q", *leapFlag)
	}
	return cfg, *tzFlag, nil
}

// parseCivil splits the -date flag into a CivilDateTime at the given UTC
// offset.
func parseCivil(s string, utcOffset float64) (timeconv.CivilDateTime, error) {
	if s == "" {
		return timeconv.CivilDateTime{}, fmt.Errorf("-date is required")
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		// Allow a bare date as well.
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return timeconv.CivilDateTime{}, fmt.Errorf("unparseable date %q", s)
		}
	}
	return timeconv.CivilDateTime{
		Year:      t.Year(),
		Month:     int(t.Month()),
		Day:       t.Day(),
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		Second:    t.Second(),
		UTCOffset: utcOffset,
	}, nil
}

// printTerms emits the solar terms of a year with local civil timestamps.
func printTerms(cal *almanac.Calendar, year int, utcOffset float64) {
	terms, err := cal.SolarTerms(year)
	if err != nil {
		log.Fatal().Err(err).Msg("solar term computation failed")
	}

	type termOut struct {
		Name      string  `json:"name"`
		Longitude float64 `json:"longitude"`
		Instant   float64 `json:"instant"`
		Local     string  `json:"local"`
	}
	out := make([]termOut, 0, len(terms))
	for _, t := range terms {
		c := timeconv.Civil(t.Instant, utcOffset)
		out = append(out, termOut{
			Name:      t.Name,
			Longitude: t.TargetLongitude,
			Instant:   t.Instant,
			Local: fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
				c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second),
		})
	}
	emit(out)
}

// emit writes the value as indented JSON on stdout.
func emit(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal().Err(err).Msg("encoding output failed")
	}
}
