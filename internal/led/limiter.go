package led

import "math"

// Power parameters for Limit.
//   - WhiteCap: per-LED cap on R+G+B as a fraction of full white (0 or >=1 = no cap)
//   - ChanmA: mA per colour channel at full scale; WS2812 ≈ 20
//   - BudgetmA: global budget in mA; 0 disables the budget stage
//   - Knee: fraction of budget where soft limiting begins; default 0.9
type Power struct {
	WhiteCap float64 `json:"whiteCap" yaml:"white_cap"`
	ChanmA   float64 `json:"chanMA" yaml:"chan_ma"`
	BudgetmA float64 `json:"budgetMA" yaml:"budget_ma"`
	Knee     float64 `json:"knee" yaml:"knee"`
}

// DefaultPower caps white at 85% and keeps a 3 A budget.
var DefaultPower = Power{WhiteCap: 0.85, ChanmA: 20, BudgetmA: 3000, Knee: 0.9}

// EstimateCurrent returns the estimated draw of rgb in mA.
func EstimateCurrent(rgb []byte, chanmA float64) float64 {
	if chanmA <= 0 {
		chanmA = 20
	}
	var sum float64
	for _, v := range rgb {
		sum += float64(v)
	}
	return sum / 255 * chanmA
}

// Limit applies a two-stage limiter in place:
// 1) per-LED white cap, 2) global current budget with a soft knee that
// starts compressing at Knee*BudgetmA.
func Limit(rgb []byte, p Power) {
	chanmA := p.ChanmA
	if chanmA <= 0 {
		chanmA = 20
	}
	knee := p.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}

	// 1) Per-LED white cap
	if p.WhiteCap > 0 && p.WhiteCap < 1 {
		limit := p.WhiteCap * 3 * 255
		for i := 0; i+2 < len(rgb); i += 3 {
			s := float64(rgb[i]) + float64(rgb[i+1]) + float64(rgb[i+2])
			if s > limit && s > 0 {
				scaleLED(rgb[i:i+3], limit/s)
			}
		}
	}

	// 2) Global budget
	if p.BudgetmA <= 0 {
		return
	}
	total := EstimateCurrent(rgb, chanmA)
	if total <= 0 {
		return
	}
	ratio := total / p.BudgetmA
	if ratio <= knee {
		return
	}
	// Above the knee the output ratio approaches 1 along an exponential, so
	// draw stays under budget and grows continuously with the input.
	w := 1 - knee
	out := knee + w*(1-math.Exp(-(ratio-knee)/w))
	scaleLED(rgb, out/ratio)
}

func scaleLED(rgb []byte, s float64) {
	if s >= 1 {
		return
	}
	for i, v := range rgb {
		rgb[i] = byte(math.Floor(float64(v) * s))
	}
}
