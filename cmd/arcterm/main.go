// Command arcterm cycles through every progress profile in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcprogress/internal/app"
	"github.com/coreman2200/arcprogress/internal/config"
	"github.com/coreman2200/arcprogress/internal/driver/term"
	"github.com/coreman2200/arcprogress/internal/profile"
	"github.com/coreman2200/arcprogress/internal/render"
)

type gallery struct {
	core *app.Core
	drv  *term.Driver

	progress []profile.ProgressID
	opacity  []profile.OpacityID
	pi, oi   int
	arcs     int
}

func (g *gallery) apply() {
	p, o := g.progress[g.pi], g.opacity[g.oi]
	if err := g.core.SetProfiles(p.String(), o.String(), g.arcs); err != nil {
		log.Warn().Err(err).Msg("switch")
		return
	}
	g.drv.SetColors(g.core.Colors())
	g.drv.SetCaption(fmt.Sprintf(" %s / %s / %d arcs   [n]ext [p]rev [o]pacity [+/-] arcs [q]uit", p, o, g.arcs))
}

func (g *gallery) step(d int) {
	g.pi = (g.pi + d + len(g.progress)) % len(g.progress)
	g.apply()
}

func (g *gallery) key(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRight:
		g.step(1)
	case tcell.KeyLeft:
		g.step(-1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'n', ' ':
			g.step(1)
		case 'p':
			g.step(-1)
		case 'o':
			g.oi = (g.oi + 1) % len(g.opacity)
			g.apply()
		case '+', '=':
			g.arcs = min(render.MaxArcs, g.arcs+1)
			g.apply()
		case '-':
			g.arcs = max(render.MinArcs, g.arcs-1)
			g.apply()
		}
	}
	return false
}

func main() {
	var (
		arcs = flag.Int("arcs", 5, "number of arcs (1..30)")
		hold = flag.Duration("hold", 6*time.Second, "time per profile before moving on; 0 stays put")
		fps  = flag.Int("fps", 30, "frames per second")
		pal  = flag.String("palette", "rainbow", "palette kind: solid | gray | rainbow | gradient")
	)
	flag.Parse()

	// The screen owns stdout; keep logs for after it is gone.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(zerolog.WarnLevel)

	s, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("screen")
	}
	if err := s.Init(); err != nil {
		log.Fatal().Err(err).Msg("screen init")
	}
	defer s.Fini()

	cfg := config.Default()
	cfg.ArcCount = *arcs
	cfg.FPS = *fps
	cfg.Palette.Kind = *pal
	cfg.Ring.PixelsPerRing = 0 // nothing to rasterize
	drv := term.New(s)
	core, err := app.New(cfg, nil, app.WithSinks(drv), app.WithLogger(log.Logger))
	if err != nil {
		s.Fini()
		log.Fatal().Err(err).Msg("core init")
	}

	g := &gallery{core: core, drv: drv, progress: profile.Progressions(), opacity: profile.Opacities(), arcs: cfg.ArcCount}
	g.apply()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = core.Run(ctx) }()

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	var auto <-chan time.Time
	if *hold > 0 {
		t := time.NewTicker(*hold)
		defer t.Stop()
		auto = t.C
	}
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if g.key(ev) {
					return
				}
			case *tcell.EventResize:
				s.Sync()
			}
		case <-auto:
			g.step(1)
		}
	}
}
