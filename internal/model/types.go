// Package model defines core value objects for the almanac engine.
//
// This package contains the closed enumerations (stems, branches, elements)
// and the derived calendar facts (pillars, lunar dates, solar-term events)
// exchanged between the engine's components. All values are immutable once
// computed; Julian Day instants (UT) are the universal time currency and are
// carried as float64 fractional days.
package model

// Stem is one of the ten heavenly stems (天干).
type Stem int

// The ten stems in cycle order.
const (
	StemJia  Stem = iota // 甲
	StemYi               // 乙
	StemBing             // 丙
	StemDing             // 丁
	StemWu               // 戊
	StemJi               // 己
	StemGeng             // 庚
	StemXin              // 辛
	StemRen              // 壬
	StemGui              // 癸
)

// stemNames maps stem ordinals to their traditional characters.
var stemNames = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

// String returns the traditional character for the stem.
func (s Stem) String() string {
	if s < 0 || int(s) >= len(stemNames) {
		return "?"
	}
	return stemNames[s]
}

// Element returns the wuxing element of the stem. Stems pair up by element
// in cycle order (甲乙 wood, 丙丁 fire, ...).
func (s Stem) Element() Element {
	return Element(int(s) / 2)
}

// Branch is one of the twelve earthly branches (地支).
type Branch int

// The twelve branches in cycle order.
const (
	BranchZi   Branch = iota // 子
	BranchChou               // 丑
	BranchYin                // 寅
	BranchMao                // 卯
	BranchChen               // 辰
	BranchSi                 // 巳
	BranchWu                 // 午
	BranchWei                // 未
	BranchShen               // 申
	BranchYou                // 酉
	BranchXu                 // 戌
	BranchHai                // 亥
)

// branchNames maps branch ordinals to their traditional characters.
var branchNames = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

// branchElements maps branch ordinals to wuxing elements.
var branchElements = [12]Element{
	ElementWater, ElementEarth, ElementWood, ElementWood,
	ElementEarth, ElementFire, ElementFire, ElementEarth,
	ElementMetal, ElementMetal, ElementEarth, ElementWater,
}

// String returns the traditional character for the branch.
func (b Branch) String() string {
	if b < 0 || int(b) >= len(branchNames) {
		return "?"
	}
	return branchNames[b]
}

// Element returns the wuxing element of the branch.
func (b Branch) Element() Element {
	return branchElements[b]
}

// Element is one of the five wuxing elements (五行).
type Element int

// The five elements.
const (
	ElementWood Element = iota
	ElementFire
	ElementEarth
	ElementMetal
	ElementWater
)

var elementNames = [5]string{"木", "火", "土", "金", "水"}

// String returns the traditional character for the element.
func (e Element) String() string {
	if e < 0 || int(e) >= len(elementNames) {
		return "?"
	}
	return elementNames[e]
}

// Pillar is one term of the sexagenary cycle, identified by its cycle index
// in [0,59]. Stem and branch are derived from the index, never stored
// separately, so a pillar can not carry an inconsistent pair.
type Pillar struct {
	CycleIndex int `json:"cycleIndex"` // position in the 60-term cycle, 0 = 甲子
}

// PillarOf returns the pillar for a cycle index, reduced into [0,59].
// Negative indices wrap backwards, so PillarOf(n) == PillarOf(n+60) holds
// for any n.
func PillarOf(index int) Pillar {
	m := index % 60
	if m < 0 {
		m += 60
	}
	return Pillar{CycleIndex: m}
}

// PillarFromParts returns the pillar for a (stem, branch) pair.
//
// Only 60 of the 120 combinations exist in the cycle: stem and branch must
// share parity. The second return value reports whether the pair is valid.
func PillarFromParts(s Stem, b Branch) (Pillar, bool) {
	if int(s)%2 != int(b)%2 {
		return Pillar{}, false
	}
	// Chinese remainder over mod 10 / mod 12: idx = 6s - 5b (mod 60).
	idx := (6*int(s) - 5*int(b)) % 60
	if idx < 0 {
		idx += 60
	}
	return Pillar{CycleIndex: idx}, true
}

// Stem returns the heavenly stem of the pillar.
func (p Pillar) Stem() Stem { return Stem(p.CycleIndex % 10) }

// Branch returns the earthly branch of the pillar.
func (p Pillar) Branch() Branch { return Branch(p.CycleIndex % 12) }

// String returns the two-character pillar label, e.g. "癸亥".
func (p Pillar) String() string { return p.Stem().String() + p.Branch().String() }

// FourPillars are the year, month, day and hour pillars for one instant.
type FourPillars struct {
	Year  Pillar `json:"year"`
	Month Pillar `json:"month"`
	Day   Pillar `json:"day"`
	Hour  Pillar `json:"hour"`
}

// DayBoundaryPolicy selects when a civil day's pillar rolls to the next
// cycle index. The policy is chosen once per calendar configuration and is
// never mixed within one computation.
type DayBoundaryPolicy int

const (
	// PolicyLateZi rolls the day pillar at local 23:00: an instant in the
	// 23:00-24:00 window carries the next day's pillar (晩子時 convention,
	// the engine default).
	PolicyLateZi DayBoundaryPolicy = iota

	// PolicyEarlyZi keeps the current day's pillar until local midnight;
	// 23:00-24:00 is hour branch 0 of the current day (早子時 convention).
	PolicyEarlyZi
)

// String returns the policy name.
func (p DayBoundaryPolicy) String() string {
	switch p {
	case PolicyLateZi:
		return "late-zi"
	case PolicyEarlyZi:
		return "early-zi"
	}
	return "unknown"
}

// LeapMonthMode selects how the days of an intercalary month are attributed
// across the leap split. The conventions differ across divination
// traditions, so the mode is explicit configuration: no default is assumed.
type LeapMonthMode int

const (
	// LeapModeUnset means no convention was configured. A computation that
	// actually needs the decision fails instead of guessing.
	LeapModeUnset LeapMonthMode = iota

	// LeapModeA attributes days 1-15 to the leap month and the remainder to
	// the following ordinal month.
	LeapModeA

	// LeapModeB attributes the whole month to the leap month.
	LeapModeB

	// LeapModeC attributes the whole month to the following ordinal month.
	LeapModeC
)

// String returns the mode name.
func (m LeapMonthMode) String() string {
	switch m {
	case LeapModeA:
		return "A"
	case LeapModeB:
		return "B"
	case LeapModeC:
		return "C"
	}
	return "unset"
}
