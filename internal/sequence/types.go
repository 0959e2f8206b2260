package sequence

import "github.com/coreman2200/arcprogress/internal/easing"

// Clip is one segment of a show: selects a progress + opacity profile by
// name, sets duration, and an optional fade-out before the NEXT clip.
type Clip struct {
	Name      string  `json:"name" yaml:"name"`
	Progress  string  `json:"progress" yaml:"progress"`
	Opacity   string  `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	ArcCount  int     `json:"arcCount,omitempty" yaml:"arc_count,omitempty"` // 0 keeps the current count
	DurationS float64 `json:"durationS" yaml:"duration_s"`
	XFadeS    float64 `json:"xFadeS,omitempty" yaml:"xfade_s,omitempty"`
	// FadeCurve shapes the fade-out; the zero value is linear.
	FadeCurve easing.Curve `json:"fadeCurve,omitempty" yaml:"fade_curve,omitempty"`
}

// Program is a full sequence of clips.
type Program struct {
	Version string `json:"version" yaml:"version"` // e.g., "seq.v1"
	Loop    bool   `json:"loop,omitempty" yaml:"loop,omitempty"`
	Clips   []Clip `json:"clips" yaml:"clips"`
}

// PlayerState enumerates sequencer states.
type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Hooks are dependency-injected callbacks into the animation engine.
type Hooks struct {
	// Switch the engine to a clip's profiles. arcCount 0 keeps the current count.
	SetProfiles func(progress, opacity string, arcCount int)
	// Global opacity level 0..1 applied on top of the engine output.
	SetFade func(level float64)
}

// Player owns the current Program timeline and uses Hooks to drive the engine.
type Player struct {
	State PlayerState

	prog Program
	nowS float64 // position within program
	idx  int     // current clip index

	lastLevel float64

	hooks Hooks
}
