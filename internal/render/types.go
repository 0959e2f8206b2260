package render

import "github.com/coreman2200/arcprogress/internal/profile"

// ArcState is what a host draws for one arc: an arc starting at StartAngle
// degrees spanning SweepAngle degrees (negative sweeps run counter-clockwise)
// at the given opacity.
type ArcState struct {
	StartAngle float64 `json:"start"`
	SweepAngle float64 `json:"sweep"`
	Opacity    uint8   `json:"opacity"`
}

// Frame holds one ArcState per arc, innermost arc last.
type Frame []ArcState

// Sink consumes frames (LED strip, terminal, websocket...).
type Sink interface {
	Write(Frame) error
}

// Limits on the number of concentric arcs.
const (
	MinArcs = 1
	MaxArcs = 30
)

// Settings is the selection the engine animates.
type Settings struct {
	ArcCount int                `json:"arcCount"`
	Progress profile.ProgressID `json:"progress"`
	Opacity  profile.OpacityID  `json:"opacity"`
}

// DefaultSettings matches a freshly built engine.
var DefaultSettings = Settings{ArcCount: 5, Progress: profile.RaceCondition, Opacity: profile.None}
