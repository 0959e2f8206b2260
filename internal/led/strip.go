package led

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

// StripOpts selects the SPI port driving a WS281x strip.
type StripOpts struct {
	Dev     string // spireg name, "" picks the first port
	SpeedHz int    // NRZ bit clock; 0 uses 2.5 MHz
	Count   int    // pixels
}

// Strip writes frames to a periph display.Drawer: an nrzled strip on SPI or
// the ANSI console when no port is available.
type Strip struct {
	mu     sync.Mutex
	drawer display.Drawer
	port   io.Closer
	img    *image.NRGBA
	count  int
	// Hardware is false when frames go to the console.
	Hardware bool
}

// NewStrip wraps an already opened drawer.
func NewStrip(d display.Drawer, count int) *Strip {
	return &Strip{
		drawer: d,
		count:  count,
		img:    image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}
}

// NewConsoleStrip prints frames as coloured blocks on stdout.
func NewConsoleStrip(count int) *Strip {
	return NewStrip(screen.New(count), count)
}

// OpenStrip initialises the host, opens the SPI port and binds an nrzled
// device to it.
func OpenStrip(o StripOpts) (*Strip, error) {
	if o.Count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", o.Count)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(o.Dev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", o.Dev, err)
	}
	d, err := NewNRZ(p, o)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	s := NewStrip(d, o.Count)
	s.port = p
	s.Hardware = true
	log.Info().Str("dev", o.Dev).Int("count", o.Count).Str("strip", d.String()).Msg("LED strip ready")
	return s, nil
}

// NewNRZ binds a WS281x encoder to an SPI port.
func NewNRZ(p spi.Port, o StripOpts) (*nrzled.Dev, error) {
	freq := 2500 * physic.KiloHertz
	if o.SpeedHz > 0 {
		freq = physic.Frequency(o.SpeedHz) * physic.Hertz
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: o.Count, Channels: 3, Freq: freq})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return d, nil
}

func (s *Strip) String() string {
	if st, ok := s.drawer.(fmt.Stringer); ok {
		return st.String()
	}
	return "strip"
}

// Write pushes a 3*Count byte frame.
func (s *Strip) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawer == nil {
		return fmt.Errorf("strip closed")
	}
	if len(rgb) != s.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), s.count)
	}
	for i := 0; i < s.count; i++ {
		s.img.SetNRGBA(i, 0, color.NRGBA{R: rgb[i*3], G: rgb[i*3+1], B: rgb[i*3+2], A: 255})
	}
	if err := s.drawer.Draw(s.drawer.Bounds(), s.img, image.Point{}); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawer == nil {
		return nil
	}
	err := s.drawer.Halt()
	s.drawer = nil
	if s.port != nil {
		if cerr := s.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
