// Package kickoff holds the fixed kickoff-table contract: a mapping from a
// 2d6 roll to a stable key and display label, plus the validation rules for
// the detail-bearing results.
package kickoff

import (
	"math"

	"blitzlog/internal/domain/event"
)

// Roll bounds of two six-sided dice.
const (
	MinRoll = 2
	MaxRoll = 12
)

// Table keys with structured details.
const (
	// KeyChangingWeather requires a new weather value in its details.
	KeyChangingWeather = "changing_weather"
	// KeyTimeOut requires a turn-marker delta of +1 or -1.
	KeyTimeOut = "time_out"
	// KeyOfficiousRef carries optional free-form target/outcome fields.
	KeyOfficiousRef = "officious_ref"
	// KeyPitchInvasion carries optional free-form target/outcome fields.
	KeyPitchInvasion = "pitch_invasion"
)

// Result pairs a stable machine key with a display label.
type Result struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// table is the fixed 2d6 mapping. Keys are stable identifiers consumed by
// exports and the drive-modifier extension point; labels are display only.
var table = map[int]Result{
	2:  {Key: "get_the_ref", Label: "Get the Ref"},
	3:  {Key: KeyTimeOut, Label: "Time Out"},
	4:  {Key: "solid_defence", Label: "Solid Defence"},
	5:  {Key: "high_kick", Label: "High Kick"},
	6:  {Key: "cheering_fans", Label: "Cheering Fans"},
	7:  {Key: "brilliant_coaching", Label: "Brilliant Coaching"},
	8:  {Key: KeyChangingWeather, Label: "Changing Weather"},
	9:  {Key: "quick_snap", Label: "Quick Snap"},
	10: {Key: "blitz", Label: "Blitz"},
	11: {Key: KeyOfficiousRef, Label: "Officious Ref"},
	12: {Key: KeyPitchInvasion, Label: "Pitch Invasion"},
}

// Lookup resolves a 2d6 roll to its table result. Out-of-range rolls are
// clamped and fractional input is rounded to the nearest integer.
func Lookup(roll float64) Result {
	r := int(math.Round(roll))
	if r < MinRoll {
		r = MinRoll
	}
	if r > MaxRoll {
		r = MaxRoll
	}
	return table[r]
}

// Entries returns the whole table in roll order for listing consumers.
func Entries() []Result {
	out := make([]Result, 0, MaxRoll-MinRoll+1)
	for roll := MinRoll; roll <= MaxRoll; roll++ {
		out = append(out, table[roll])
	}
	return out
}

// RequiresDetails reports whether a key needs structured details present.
func RequiresDetails(key string) bool {
	return key == KeyChangingWeather || key == KeyTimeOut
}

// ValidateDetails checks the key-specific detail rules for a kickoff
// payload and returns human-readable problems.
func ValidateDetails(key string, d *event.KickoffDetails) []string {
	var problems []string
	switch key {
	case KeyChangingWeather:
		if d == nil || d.NewWeather == "" {
			problems = append(problems, "changing_weather requires a new weather value")
		}
	case KeyTimeOut:
		if d == nil || (d.AppliedDelta != 1 && d.AppliedDelta != -1) {
			problems = append(problems, "time_out requires an applied delta of +1 or -1")
		}
	}
	return problems
}
