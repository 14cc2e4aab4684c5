// Package sexagenary derives stem/branch cycle labels (pillars) for years,
// months, days and hours. Everything here is fixed-table integer arithmetic
// over a single pinned calibration; the astronomical inputs (solar-term
// instants) are supplied by the caller.
package sexagenary

import (
	"math"

	"almanac/internal/model"
)

// Day-pillar calibration: the local civil day 1992-02-17 (Julian Day Number
// 2448670) carries cycle index 59 (癸亥). This single anchor reproduces the
// historically attested sequence; earlier candidate anchors derived from
// other reference dates disagree with it and are not used.
const (
	referenceDayNumber = 2448670
	referenceDayIndex  = 59
)

// Year-pillar calibration: 1984 is a 甲子 (index 0) year.
const referenceYear = 1984

// monthStemStart maps a year stem to the stem of that year's first jie
// month (the 寅 month opened by 立春).
var monthStemStart = [10]int{2, 4, 6, 8, 0, 2, 4, 6, 8, 0}

// hourStemStart maps a day stem to the stem of that day's 子 hour.
var hourStemStart = [10]int{0, 2, 4, 6, 8, 0, 2, 4, 6, 8}

// voidBranchTable maps dayIndex/10 to the pair of void (空亡) branches.
var voidBranchTable = [6][2]model.Branch{
	{model.BranchXu, model.BranchHai},
	{model.BranchShen, model.BranchYou},
	{model.BranchWu, model.BranchWei},
	{model.BranchChen, model.BranchSi},
	{model.BranchYin, model.BranchMao},
	{model.BranchZi, model.BranchChou},
}

// LocalDay splits an instant into the local civil day number and the local
// hour for an observer at the given UTC offset (hours). The day number is
// the Julian Day Number of the local civil date, so consecutive local
// midnights bound each value.
func LocalDay(jd, utcOffset float64) (dayNumber int, localHour float64) {
	local := jd + utcOffset/24
	dayNumber = int(math.Floor(local + 0.5))
	localHour = (local + 0.5 - float64(dayNumber)) * 24
	return dayNumber, localHour
}

// DayPillar returns the day pillar for an instant under the given boundary
// policy. With PolicyLateZi an instant in the local 23:00-24:00 window
// already belongs to the next civil day's pillar.
func DayPillar(jd, utcOffset float64, policy model.DayBoundaryPolicy) model.Pillar {
	dayNumber, localHour := LocalDay(jd, utcOffset)
	if policy == model.PolicyLateZi && localHour >= 23 {
		dayNumber++
	}
	return model.PillarOf(referenceDayIndex + dayNumber - referenceDayNumber)
}

// YearPillar returns the year pillar for a civil year, shifted back by one
// when the instant precedes that year's 立春 (the year boundary follows the
// solar term, not January 1).
func YearPillar(jd float64, civilYear int, lichunJD float64) model.Pillar {
	year := civilYear
	if jd < lichunJD {
		year--
	}
	return model.PillarOf(year - referenceYear)
}

// MonthPillar returns the month pillar. monthNo is the jie interval the
// instant falls in, numbered 1 (立春..啓蟄) through 12 (小寒..立春);
// yearStem is the stem of the (立春-adjusted) year pillar.
func MonthPillar(monthNo int, yearStem model.Stem) model.Pillar {
	branch := (monthNo + 1) % 12 // month 1 is the 寅 (index 2) month
	stem := (monthStemStart[yearStem] + monthNo - 1) % 10
	p, _ := model.PillarFromParts(model.Stem(stem), model.Branch(branch))
	return p
}

// HourBranch returns the branch of the two-hour window holding localHour.
// Under PolicyEarlyZi the 23:00-24:00 window is branch 0 of the current
// day; under PolicyLateZi the same arithmetic applies but the day pillar
// has already rolled, so 23:00 opens the next day's 子 hour.
func HourBranch(localHour float64, policy model.DayBoundaryPolicy) model.Branch {
	h := int(localHour)
	if policy == model.PolicyEarlyZi && h >= 23 {
		return model.BranchZi
	}
	return model.Branch((h + 1) / 2 % 12)
}

// HourPillar returns the hour pillar for a local hour given the day stem.
func HourPillar(localHour float64, dayStem model.Stem, policy model.DayBoundaryPolicy) model.Pillar {
	branch := HourBranch(localHour, policy)
	stem := (hourStemStart[dayStem] + int(branch)) % 10
	p, _ := model.PillarFromParts(model.Stem(stem), branch)
	return p
}

// VoidBranches returns the two void branches for a day pillar, indexed by
// its decade within the 60-cycle.
func VoidBranches(day model.Pillar) [2]model.Branch {
	return voidBranchTable[day.CycleIndex/10]
}
