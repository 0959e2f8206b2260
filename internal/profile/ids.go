package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownProfile is returned by the strict name parsers.
var ErrUnknownProfile = errors.New("unknown profile")

// ProgressID selects how arc angles move. Integer values match the ids hosts
// have always sent, so raw ints map 1:1.
type ProgressID int

const (
	OpacityTestStub ProgressID = -1

	RaceCondition ProgressID = iota - 1
	Swirly
	Whirlpool
	Hyperloop
	Metronome1
	Metronome2
	Metronome3
	Metronome4
	ButterflyKnife
	Rainbow
	Gotcha
)

// OpacityID selects how arc opacity moves.
type OpacityID int

const (
	None OpacityID = iota
	Blinking
	Shiny
	Aura
	Ripple
)

var progressNames = map[ProgressID]string{
	OpacityTestStub: "opacity_test_stub",
	RaceCondition:   "race_condition",
	Swirly:          "swirly",
	Whirlpool:       "whirlpool",
	Hyperloop:       "hyperloop",
	Metronome1:      "metronome1",
	Metronome2:      "metronome2",
	Metronome3:      "metronome3",
	Metronome4:      "metronome4",
	ButterflyKnife:  "butterfly_knife",
	Rainbow:         "rainbow",
	Gotcha:          "gotcha",
}

var opacityNames = map[OpacityID]string{
	None:     "none",
	Blinking: "blinking",
	Shiny:    "shiny",
	Aura:     "aura",
	Ripple:   "ripple",
}

func (id ProgressID) String() string {
	if s, ok := progressNames[id]; ok {
		return s
	}
	return fmt.Sprintf("progress(%d)", int(id))
}

// Valid reports whether id has a table row.
func (id ProgressID) Valid() bool { _, ok := progressNames[id]; return ok }

func (id OpacityID) String() string {
	if s, ok := opacityNames[id]; ok {
		return s
	}
	return fmt.Sprintf("opacity(%d)", int(id))
}

func (id OpacityID) Valid() bool { _, ok := opacityNames[id]; return ok }

// ParseProgress accepts a profile name (case and '-' insensitive) or its
// integer id.
func ParseProgress(s string) (ProgressID, error) {
	key := normalize(s)
	for id, name := range progressNames {
		if name == key || fmt.Sprint(int(id)) == key {
			return id, nil
		}
	}
	return 0, fmt.Errorf("progress %q: %w", s, ErrUnknownProfile)
}

// ParseOpacity accepts an opacity name or integer id. An empty string is None.
func ParseOpacity(s string) (OpacityID, error) {
	key := normalize(s)
	if key == "" {
		return None, nil
	}
	for id, name := range opacityNames {
		if name == key || fmt.Sprint(int(id)) == key {
			return id, nil
		}
	}
	return 0, fmt.Errorf("opacity %q: %w", s, ErrUnknownProfile)
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

// Progressions lists the animated progress profiles in id order. The test
// stub is left out.
func Progressions() []ProgressID {
	out := make([]ProgressID, 0, len(progressNames))
	for id := range progressNames {
		if id != OpacityTestStub {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Opacities lists the opacity profiles in id order.
func Opacities() []OpacityID {
	out := make([]OpacityID, 0, len(opacityNames))
	for id := range opacityNames {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
