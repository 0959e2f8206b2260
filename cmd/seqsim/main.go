package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcprogress/internal/app"
	"github.com/coreman2200/arcprogress/internal/config"
	"github.com/coreman2200/arcprogress/internal/driver/fake"
	"github.com/coreman2200/arcprogress/internal/driver/svg"
	"github.com/coreman2200/arcprogress/internal/render"
	"github.com/coreman2200/arcprogress/internal/sequence"
)

// simClock advances only when the simulation steps it.
type simClock struct{ t time.Time }

func (c *simClock) Now() time.Time { return c.t }

func main() {
	var (
		programPath = flag.String("program", "", "path to a Program file (seq.v1, YAML or .json)")
		configPath  = flag.String("config", "", "optional config.yaml for arcs, palette and geometry")
		fps         = flag.Int("fps", 60, "simulation frames per second")
		maxS        = flag.Float64("max-s", 120, "stop after this many simulated seconds")
		realtime    = flag.Bool("realtime", false, "sleep between frames instead of running flat out")
		svgDir      = flag.String("svg-dir", "", "write SVG snapshots to this directory")
		svgEvery    = flag.Int("svg-every", 30, "frames between SVG snapshots")
		quiet       = flag.Bool("quiet", false, "do not print per-frame summaries")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *programPath == "" {
		log.Fatal().Msg("provide -program path to a Program file")
	}
	prog, err := config.LoadProgram(*programPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load program")
	}

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
	}
	cfg.Show = nil
	if *fps > 0 {
		cfg.FPS = *fps
	}

	var out io.Writer = os.Stdout
	if *quiet {
		out = io.Discard
	}
	sinks := []render.Sink{&fake.Driver{Out: out}}
	var rec *svg.Recorder
	if *svgDir != "" {
		if err := os.MkdirAll(*svgDir, 0755); err != nil {
			log.Fatal().Err(err).Msg("svg dir")
		}
		st := svg.DefaultStyle
		st.Geometry = cfg.Geometry
		rec = &svg.Recorder{Dir: *svgDir, Every: *svgEvery, Style: st}
		sinks = append(sinks, rec)
	}

	clk := &simClock{t: time.Unix(0, 0)}
	core, err := app.New(cfg, nil, app.WithClock(clk.Now), app.WithSinks(sinks...))
	if err != nil {
		log.Fatal().Err(err).Msg("core init")
	}
	if rec != nil {
		rec.Palette = core.Colors
	}
	if err := core.LoadProgram(prog); err != nil {
		log.Fatal().Err(err).Msg("load")
	}
	if err := core.SeqCmd("start"); err != nil {
		log.Fatal().Err(err).Msg("start")
	}

	dt := time.Second / time.Duration(cfg.FPS)
	for elapsed := time.Duration(0); elapsed.Seconds() < *maxS; elapsed += dt {
		clk.t = clk.t.Add(dt)
		core.Render(core.Eng.Now(), dt.Seconds())
		// End when player returns to Idle (no loop)
		if core.SeqStatus().State == sequence.Idle {
			log.Info().Float64("t", (elapsed + dt).Seconds()).Uint64("frames", core.FrameID()).Msg("done")
			break
		}
		if *realtime {
			time.Sleep(dt)
		}
	}
	if rec != nil {
		log.Info().Int("written", rec.Written()).Str("dir", *svgDir).Msg("svg snapshots")
	}
	_ = core.Close()
}
