package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/arcprogress/internal/layout"
	"github.com/coreman2200/arcprogress/internal/led"
	"github.com/coreman2200/arcprogress/internal/palette"
	"github.com/coreman2200/arcprogress/internal/profile"
	"github.com/coreman2200/arcprogress/internal/render"
	"github.com/coreman2200/arcprogress/internal/sequence"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // spireg name, e.g. SPI0.0 or /dev/spidev0.0
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type Ring struct {
	PixelsPerRing int     `yaml:"pixels_per_ring"`
	FlipEveryRing bool    `yaml:"flip_every_ring"`
	OffsetDeg     float64 `yaml:"offset_deg"`
}

type Config struct {
	ArcCount      int            `yaml:"arc_count"`
	Progress      string         `yaml:"progress"`
	Opacity       string         `yaml:"opacity"`
	OpacityBounds profile.Bounds `yaml:"opacity_bounds"`
	MinDelta      float64        `yaml:"min_delta"`

	Driver     string  `yaml:"driver"` // "spi" | "console" | "sim" | "none"
	FPS        int     `yaml:"fps"`
	Brightness float64 `yaml:"brightness"`
	Gamma      float64 `yaml:"gamma"`
	Addr       string  `yaml:"addr"`

	Ring     Ring            `yaml:"ring"`
	Geometry layout.Geometry `yaml:"geometry"`
	Palette  palette.Spec    `yaml:"palette"`
	Power    led.Power       `yaml:"power"`
	SPI      SPI             `yaml:"spi,omitempty"`

	Show *sequence.Program `yaml:"show,omitempty"`
}

// Default returns the stock setup: five 24-pixel rings racing in blue.
func Default() *Config {
	return &Config{
		ArcCount:      render.DefaultSettings.ArcCount,
		Progress:      render.DefaultSettings.Progress.String(),
		Opacity:       render.DefaultSettings.Opacity.String(),
		OpacityBounds: profile.DefaultBounds,
		Driver:        "sim",
		FPS:           60,
		Brightness:    0.8,
		Gamma:         2.2,
		Addr:          ":8080",
		Ring:          Ring{PixelsPerRing: 24, OffsetDeg: 270},
		Geometry:      layout.DefaultGeometry,
		Palette:       palette.Spec{Kind: "solid", Color: "#0000c8"},
		Power:         led.DefaultPower,
		SPI:           SPI{SpeedHz: 2500000},
	}
}

// Layout builds the ring layout described by c.
func (c *Config) Layout() layout.Layout {
	return layout.Layout{
		Rings:         c.ArcCount,
		PixelsPerRing: c.Ring.PixelsPerRing,
		Order:         layout.Serpentine{FlipEveryRing: c.Ring.FlipEveryRing},
		OffsetDeg:     c.Ring.OffsetDeg,
		Geometry:      c.Geometry,
	}
}

// Settings resolves profile names leniently: unknown names fall back to the
// test stub and None, and are reported in the returned error.
func (c *Config) Settings() (render.Settings, error) {
	s := render.Settings{ArcCount: c.ArcCount, Progress: profile.OpacityTestStub, Opacity: profile.None}
	var errs []error
	if id, err := profile.ParseProgress(c.Progress); err != nil {
		errs = append(errs, err)
	} else {
		s.Progress = id
	}
	if id, err := profile.ParseOpacity(c.Opacity); err != nil {
		errs = append(errs, err)
	} else {
		s.Opacity = id
	}
	return s, errors.Join(errs...)
}

// Validate reports the first value the engine or hosts would reject.
func (c *Config) Validate() error {
	if c.ArcCount < render.MinArcs || c.ArcCount > render.MaxArcs {
		return &render.ConfigError{Op: "config", Field: "arc_count", Value: c.ArcCount, Err: render.ErrArcCountRange}
	}
	if c.FPS <= 0 || c.FPS > 240 {
		return fmt.Errorf("fps %d outside [1, 240]", c.FPS)
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		return fmt.Errorf("brightness %.2f outside [0, 1]", c.Brightness)
	}
	if c.Ring.PixelsPerRing < 0 {
		return fmt.Errorf("pixels_per_ring %d is negative", c.Ring.PixelsPerRing)
	}
	if err := c.Geometry.Validate(); err != nil {
		return err
	}
	if _, err := palette.Parse(c.Palette, c.ArcCount); err != nil {
		return err
	}
	if c.Show != nil {
		if err := c.Show.Validate(); err != nil {
			return fmt.Errorf("show: %w", err)
		}
	}
	return nil
}

// Load reads path over the defaults, so a partial file only overrides what
// it names.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// LoadProgram reads a standalone sequence program. Files ending in .json use
// the camelCase wire names; anything else is YAML.
func LoadProgram(path string) (sequence.Program, error) {
	var p sequence.Program
	b, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &p)
	} else {
		err = yaml.Unmarshal(b, &p)
	}
	if err != nil {
		return p, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, p.Validate()
}
