package app

import (
	"fmt"

	"github.com/coreman2200/arcprogress/internal/sequence"
)

// hooks connects the sequencer to the engine.
func (c *Core) hooks() sequence.Hooks {
	return sequence.Hooks{
		SetProfiles: func(progress, opacity string, arcCount int) {
			if err := c.SetProfiles(progress, opacity, arcCount); err != nil {
				c.log.Warn().Err(err).Str("progress", progress).Msg("clip rejected")
			}
		},
		SetFade: c.SetFade,
	}
}

// SeqCmd drives the sequencer: start, stop, pause or resume.
func (c *Core) SeqCmd(cmd string) error {
	c.log.Debug().Str("cmd", cmd).Msg("sequence")
	var err error
	c.Seq.With(func(p *sequence.Player) {
		switch cmd {
		case "start":
			p.Start()
		case "stop":
			p.Stop()
		case "pause":
			p.Pause()
		case "resume":
			p.Resume()
		default:
			err = fmt.Errorf("unknown cmd: %s", cmd)
		}
	})
	return err
}

// LoadProgram replaces the show. The player is left idle.
func (c *Core) LoadProgram(prog sequence.Program) error {
	var err error
	c.Seq.With(func(p *sequence.Player) { err = p.Load(prog) })
	if err == nil {
		c.log.Info().Int("clips", len(prog.Clips)).Bool("loop", prog.Loop).Msg("program loaded")
	}
	return err
}

// Seek jumps the show to t seconds.
func (c *Core) Seek(t float64) {
	c.Seq.With(func(p *sequence.Player) { p.Seek(t) })
}

// SeqStatus summarises the sequencer for status messages.
type SeqStatus struct {
	State    sequence.PlayerState `json:"state"`
	Clip     string               `json:"clip,omitempty"`
	Index    int                  `json:"index"`
	Position float64              `json:"positionS"`
}

func (c *Core) SeqStatus() SeqStatus {
	var s SeqStatus
	c.Seq.With(func(p *sequence.Player) {
		s.State = p.State
		s.Position, s.Index = p.Position()
		if clip, ok := p.Current(); ok {
			s.Clip = clip.Name
		}
	})
	return s
}
