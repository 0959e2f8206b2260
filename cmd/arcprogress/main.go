package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcprogress/internal/app"
	"github.com/coreman2200/arcprogress/internal/config"
	"github.com/coreman2200/arcprogress/internal/driver/svg"
	"github.com/coreman2200/arcprogress/internal/led"
	"github.com/coreman2200/arcprogress/internal/render"
	"github.com/coreman2200/arcprogress/internal/ws"
)

func main() {
	// ---- Flags (remain usable; config.yaml overrides them when present) ----
	var (
		arcs       = flag.Int("arcs", 5, "number of arcs / LED rings (1..30)")
		pixels     = flag.Int("pixels-per-ring", 24, "LEDs per ring")
		flip       = flag.Bool("flip-every-ring", false, "serpentine: odd rings run backwards")
		progress   = flag.String("progress", "race_condition", "progress profile name or id")
		opacity    = flag.String("opacity", "none", "opacity profile name or id")
		fps        = flag.Int("fps", 60, "target frames per second")
		brightness = flag.Float64("brightness", 0.8, "global brightness 0..1")
		driver     = flag.String("driver", "sim", "driver: spi | console | sim | none")
		spiDev     = flag.String("spi-dev", "", "SPI port name (periph spireg); empty picks the first")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		svgDir     = flag.String("svg-dir", "", "write SVG snapshots of the arcs to this directory")
		svgEvery   = flag.Int("svg-every", 60, "frames between SVG snapshots")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Effective config: flags, replaced by config.yaml when it loads ----
	cfg := config.Default()
	cfg.ArcCount = *arcs
	cfg.Ring.PixelsPerRing = *pixels
	cfg.Ring.FlipEveryRing = *flip
	cfg.Progress = *progress
	cfg.Opacity = *opacity
	cfg.FPS = *fps
	cfg.Brightness = *brightness
	cfg.Driver = *driver
	cfg.SPI.Dev = *spiDev
	cfg.Addr = *addr
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		cfg = c
	}
	if *simOnly {
		cfg.Driver = "sim"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// ---- Driver selection ----
	count := cfg.Layout().Count()
	var drv led.Driver
	switch cfg.Driver {
	case "sim":
		drv = led.NewSim()
	case "spi":
		strip, err := led.OpenStrip(led.StripOpts{Dev: cfg.SPI.Dev, SpeedHz: cfg.SPI.SpeedHz, Count: count})
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", cfg.SPI.Dev).
				Int("speed_hz", cfg.SPI.SpeedHz).
				Msg("SPI init failed; falling back to SIM")
			cfg.Driver = "sim"
			drv = led.NewSim()
		} else {
			log.Info().Str("strip", strip.String()).Int("leds", count).Msg("LED strip open")
			drv = strip
		}
	case "console":
		drv = led.NewConsoleStrip(count)
	case "none":
	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using SIM")
		cfg.Driver = "sim"
		drv = led.NewSim()
	}

	var sinks []render.Sink
	if *svgDir != "" {
		if err := os.MkdirAll(*svgDir, 0755); err != nil {
			log.Fatal().Err(err).Str("dir", *svgDir).Msg("svg dir")
		}
		st := svg.DefaultStyle
		st.Geometry = cfg.Geometry
		rec := &svg.Recorder{Dir: *svgDir, Every: *svgEvery, Style: st}
		sinks = append(sinks, rec)
		defer func() { log.Info().Int("written", rec.Written()).Str("dir", *svgDir).Msg("svg snapshots") }()
	}

	core, err := app.New(cfg, drv, app.WithSinks(sinks...))
	if err != nil {
		log.Fatal().Err(err).Msg("core init")
	}
	for _, s := range sinks {
		if rec, ok := s.(*svg.Recorder); ok {
			rec.Palette = core.Colors
		}
	}
	if cfg.Show != nil {
		_ = core.SeqCmd("start")
	}

	// ---- State ----
	state := ws.NewState(core)
	state.ConfigPath = *configPath
	state.CurrentDriver = cfg.Driver

	// ---- HTTP routes ----
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", state.HandleFramesWS)
	mux.HandleFunc("/diag", state.HandleDiagWS)
	mux.HandleFunc("/control", state.HandleControlWS)
	mux.HandleFunc("/health", state.HandleHealth)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run render loop & server ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := core.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("render loop stopped")
		}
	}()
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("driver", cfg.Driver).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdown)
	<-loopDone
	if err := core.Close(); err != nil {
		log.Warn().Err(err).Msg("driver close")
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
