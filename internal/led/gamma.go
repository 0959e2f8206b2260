package led

import "math"

// LUT maps a linear channel value to the byte sent to the strip.
type LUT [256]byte

// BuildGamma returns a gamma correction table. g <= 0 gives the identity.
func BuildGamma(g float64) LUT {
	var l LUT
	for i := range l {
		if g <= 0 {
			l[i] = byte(i)
			continue
		}
		l[i] = byte(math.Round(255 * math.Pow(float64(i)/255, g)))
	}
	return l
}

// Apply rewrites rgb in place.
func (l *LUT) Apply(rgb []byte) {
	for i, v := range rgb {
		rgb[i] = l[v]
	}
}
