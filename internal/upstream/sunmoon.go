package upstream

import (
	"math"
	"time"
)

// Synodic month in days, anchored at the 2000-01-06 18:14 UTC new moon.
const synodicMonth = 29.53059

var knownNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// MoonPhase returns the phase fraction at t: 0 = new moon, 0.5 = full.
func MoonPhase(t time.Time) float64 {
	days := t.Sub(knownNewMoon).Hours() / 24
	phase := math.Mod(days/synodicMonth, 1)
	if phase < 0 {
		phase += 1
	}
	return phase
}

// MoonPhaseName maps a phase fraction to its common name and emoji.
func MoonPhaseName(phase float64) (string, string) {
	switch {
	case phase < 0.0625:
		return "New Moon", "🌑"
	case phase < 0.1875:
		return "Waxing Crescent", "🌒"
	case phase < 0.3125:
		return "First Quarter", "🌓"
	case phase < 0.4375:
		return "Waxing Gibbous", "🌔"
	case phase < 0.5625:
		return "Full Moon", "🌕"
	case phase < 0.6875:
		return "Waning Gibbous", "🌖"
	case phase < 0.8125:
		return "Last Quarter", "🌗"
	case phase < 0.9375:
		return "Waning Crescent", "🌘"
	default:
		return "New Moon", "🌑"
	}
}

// MoonIllumination approximates the illuminated percentage for a phase.
func MoonIllumination(phase float64) int {
	return int(math.Round((1 - math.Cos(2*math.Pi*phase)) / 2 * 100))
}
