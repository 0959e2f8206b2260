package sequence

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// NewPlayer constructs a Player with provided hooks.
func NewPlayer(h Hooks) *Player {
	return &Player{
		State:     Idle,
		hooks:     h,
		lastLevel: 1,
	}
}

// Validate reports the first structural problem in the program.
func (prog Program) Validate() error {
	if len(prog.Clips) == 0 {
		return errors.New("program has no clips")
	}
	for i, c := range prog.Clips {
		if c.Progress == "" {
			return fmt.Errorf("clip %d (%s): no progress profile", i, c.Name)
		}
		if !(c.DurationS > 0) {
			return fmt.Errorf("clip %d (%s): duration must be positive", i, c.Name)
		}
		if c.XFadeS < 0 || c.XFadeS > c.DurationS {
			return fmt.Errorf("clip %d (%s): xfade %.2fs outside [0, %.2fs]", i, c.Name, c.XFadeS, c.DurationS)
		}
	}
	return nil
}

// Load replaces the current program. Resets time and state to Idle.
func (p *Player) Load(prog Program) error {
	if err := prog.Validate(); err != nil {
		return err
	}
	p.prog = prog
	p.nowS = 0
	p.idx = 0
	p.State = Idle
	p.lastLevel = 1
	return nil
}

// Program returns the loaded program.
func (p *Player) Program() Program { return p.prog }

// Start moves to Running and primes the current clip.
func (p *Player) Start() {
	if p.State == Running || len(p.prog.Clips) == 0 {
		return
	}
	p.State = Running
	p.enterClip()
}

// Pause pauses playback.
func (p *Player) Pause() {
	if p.State == Running {
		p.State = Paused
	}
}

// Resume resumes playback.
func (p *Player) Resume() {
	if p.State == Paused {
		p.State = Running
	}
}

// Stop stops and resets to start.
func (p *Player) Stop() {
	p.State = Idle
	p.nowS = 0
	p.idx = 0
	p.setLevel(1)
}

// Position returns the program time in seconds and the current clip index.
func (p *Player) Position() (float64, int) { return p.nowS, p.idx }

// Current returns the active clip; ok is false when nothing is loaded.
func (p *Player) Current() (Clip, bool) {
	if len(p.prog.Clips) == 0 {
		return Clip{}, false
	}
	return p.prog.Clips[p.idx], true
}

// Seek jumps to absolute program time t. Clamps into [0, totalDur).
func (p *Player) Seek(t float64) {
	if len(p.prog.Clips) == 0 {
		return
	}
	if t < 0 {
		t = 0
	}
	total := p.totalDuration()
	if total > 0 && t >= total {
		t = math.Nextafter(total, -1)
	}
	acc := 0.0
	idx := 0
	for i, c := range p.prog.Clips {
		if t < acc+c.DurationS {
			idx = i
			break
		}
		acc += c.DurationS
	}
	p.idx = idx
	p.nowS = t
	p.enterClip()
}

// Tick advances the sequencer by dt seconds and emits control hooks.
func (p *Player) Tick(dt float64) {
	if p.State != Running || len(p.prog.Clips) == 0 {
		return
	}
	if dt <= 0 {
		return
	}
	p.nowS += dt

	for p.State == Running {
		clip, localT := p.currentClipAndLocalT()
		if localT < clip.DurationS {
			p.fade(clip, localT)
			return
		}
		p.advanceClip()
	}
}

func (p *Player) fade(clip Clip, localT float64) {
	if clip.XFadeS <= 0 {
		return
	}
	remain := clip.DurationS - localT
	if remain > clip.XFadeS {
		return
	}
	level := 1 - clip.FadeCurve.Apply(1-remain/clip.XFadeS)
	p.setLevel(min(1, max(0, level)))
}

func (p *Player) setLevel(level float64) {
	if level == p.lastLevel {
		return
	}
	p.lastLevel = level
	if p.hooks.SetFade != nil {
		p.hooks.SetFade(level)
	}
}

func (p *Player) enterClip() {
	clip := p.prog.Clips[p.idx]
	if p.hooks.SetProfiles != nil {
		p.hooks.SetProfiles(clip.Progress, clip.Opacity, clip.ArcCount)
	}
	p.setLevel(1)
}

func (p *Player) clipStart(idx int) float64 {
	acc := 0.0
	for i := 0; i < idx; i++ {
		acc += p.prog.Clips[i].DurationS
	}
	return acc
}

func (p *Player) currentClipAndLocalT() (Clip, float64) {
	return p.prog.Clips[p.idx], p.nowS - p.clipStart(p.idx)
}

func (p *Player) totalDuration() float64 {
	return p.clipStart(len(p.prog.Clips))
}

func (p *Player) nextIndex() int {
	ni := p.idx + 1
	if ni >= len(p.prog.Clips) {
		if p.prog.Loop {
			return 0
		}
		return -1
	}
	return ni
}

func (p *Player) advanceClip() {
	next := p.nextIndex()
	if next == -1 {
		// End of program
		p.State = Idle
		p.setLevel(1)
		return
	}
	if next == 0 {
		// wrap: keep the overshoot past the program end
		p.nowS -= p.totalDuration()
	}
	p.idx = next
	p.enterClip()
}

// --- Lightweight synchronization helpers (optional) ---

type SafePlayer struct {
	mu sync.Mutex
	P  *Player
}

func NewSafePlayer(h Hooks) *SafePlayer {
	return &SafePlayer{P: NewPlayer(h)}
}

func (s *SafePlayer) With(f func(p *Player)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.P)
}
