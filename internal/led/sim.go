package led

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Sim is a Driver that keeps the last frame in memory and logs a summary
// every few seconds' worth of frames.
type Sim struct {
	mu     sync.Mutex
	last   []byte
	frames uint64
	every  uint64
}

func NewSim() *Sim { return &Sim{every: 300} }

func (s *Sim) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = append(s.last[:0], rgb...)
	s.frames++
	if s.every > 0 && s.frames%s.every == 0 {
		lit := 0
		for i := 0; i+2 < len(rgb); i += 3 {
			if rgb[i]|rgb[i+1]|rgb[i+2] != 0 {
				lit++
			}
		}
		log.Debug().Uint64("frames", s.frames).Int("lit", lit).Float64("mA", EstimateCurrent(rgb, 20)).Msg("sim frame")
	}
	return nil
}

// Last returns a copy of the latest frame and the number of frames written.
func (s *Sim) Last() ([]byte, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...), s.frames
}

func (s *Sim) Close() error { return nil }
