package analysis

import (
	"encoding/json"
	"math"
	"math/cmplx"

	"github.com/silosim/silotherm/internal/plant"
)

// RouthResult is the verdict of the Routh-Hurwitz criterion for
// proportional control of the first-order plant. CriticalGain is +Inf
// when no finite gain bound exists.
type RouthResult struct {
	IsStable     bool    `json:"isStable"`
	CriticalGain float64 `json:"criticalGain"`
}

// NyquistResult is the verdict of the Nyquist criterion.
// Encirclements counts clockwise encirclements of the critical point
// (-1, 0); with no open-loop unstable poles the closed loop is stable
// iff that count is zero.
type NyquistResult struct {
	IsStable      bool `json:"isStable"`
	Encirclements int  `json:"encirclements"`
}

// BodeResult holds the frequency-domain stability margins. Either
// margin is +Inf when the corresponding crossover never occurs.
type BodeResult struct {
	GainMarginDb   float64 `json:"gainMarginDb"`
	PhaseMarginDeg float64 `json:"phaseMarginDeg"`
}

// Infinite margins and critical gains travel as null, mirroring the
// convention of Report.

type routhJson struct {
	IsStable     bool     `json:"isStable"`
	CriticalGain *float64 `json:"criticalGain"`
}

func (r RouthResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(routhJson{
		IsStable:     r.IsStable,
		CriticalGain: finiteOrNil(r.CriticalGain),
	})
}

func (r *RouthResult) UnmarshalJSON(data []byte) error {
	var decoded routhJson
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	r.IsStable = decoded.IsStable
	r.CriticalGain = finiteOrInf(decoded.CriticalGain)
	return nil
}

type bodeJson struct {
	GainMarginDb   *float64 `json:"gainMarginDb"`
	PhaseMarginDeg *float64 `json:"phaseMarginDeg"`
}

func (b BodeResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(bodeJson{
		GainMarginDb:   finiteOrNil(b.GainMarginDb),
		PhaseMarginDeg: finiteOrNil(b.PhaseMarginDeg),
	})
}

func (b *BodeResult) UnmarshalJSON(data []byte) error {
	var decoded bodeJson
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	b.GainMarginDb = finiteOrInf(decoded.GainMarginDb)
	b.PhaseMarginDeg = finiteOrInf(decoded.PhaseMarginDeg)
	return nil
}

// RouthHurwitz evaluates the closed-loop characteristic equation
// tau*s + (1 + kc*gain) = 0: the loop is stable iff 1 + kc*gain > 0.
// For a negative process gain this yields the upper bound
// kc < -1/gain, reported as CriticalGain.
func RouthHurwitz(p *plant.Plant, kc float64) RouthResult {
	result := RouthResult{
		IsStable:     1+kc*p.Gain > 0,
		CriticalGain: math.Inf(1),
	}
	if p.Gain < 0 {
		result.CriticalGain = -1 / p.Gain
	}
	return result
}

// OpenLoop returns the open-loop frequency response kc*G(jw) of the
// plant under proportional gain kc, including dead time and the
// resonant mode when configured.
func OpenLoop(p *plant.Plant, kc float64, omega float64) complex128 {
	s := complex(0, omega)

	response := complex(p.Gain, 0) / (1 + complex(p.TimeConstant, 0)*s)
	if p.Resonance != nil {
		wn := complex(p.Resonance.NaturalFrequency, 0)
		zeta := complex(p.Resonance.DampingRatio, 0)
		weight := complex(p.Resonance.Weight, 0)
		response += weight * complex(p.Gain, 0) * wn * wn / (s*s + 2*zeta*wn*s + wn*wn)
	}

	delay := cmplx.Exp(-s * complex(p.DeadTime, 0))
	return complex(kc, 0) * response * delay
}

const sweepPoints = 20000

// frequencySweep builds a log-spaced grid covering several decades
// around the corner frequency of the dominant lag and, when present,
// the resonant peak.
func frequencySweep(p *plant.Plant) []float64 {
	low := 1e-4 / p.TimeConstant
	high := 1e4 / p.TimeConstant
	if p.Resonance != nil {
		low = math.Min(low, p.Resonance.NaturalFrequency/100)
		high = math.Max(high, p.Resonance.NaturalFrequency*100)
	}
	if p.DeadTime > 0 {
		high = math.Max(high, 100/p.DeadTime)
	}

	logLow := math.Log10(low)
	logHigh := math.Log10(high)
	grid := make([]float64, sweepPoints)
	for i := range grid {
		exponent := logLow + (logHigh-logLow)*float64(i)/float64(sweepPoints-1)
		grid[i] = math.Pow(10, exponent)
	}
	return grid
}

// Nyquist samples the open-loop response over the frequency sweep and
// counts encirclements of (-1, 0). The contribution of the negative
// frequency half of the contour follows from conjugate symmetry.
func Nyquist(p *plant.Plant, kc float64) NyquistResult {
	grid := frequencySweep(p)

	winding := 0.0
	prev := cmplx.Phase(1 + OpenLoop(p, kc, grid[0]))
	for _, omega := range grid[1:] {
		phase := cmplx.Phase(1 + OpenLoop(p, kc, omega))
		delta := phase - prev
		if delta > math.Pi {
			delta -= 2 * math.Pi
		} else if delta < -math.Pi {
			delta += 2 * math.Pi
		}
		winding += delta
		prev = phase
	}

	// positive-frequency winding doubles through the conjugate half;
	// clockwise encirclements are counted positive
	encirclements := int(math.Round(-2 * winding / (2 * math.Pi)))
	return NyquistResult{
		IsStable:      encirclements == 0,
		Encirclements: encirclements,
	}
}

// BodeMargins sweeps magnitude and phase of the open-loop response.
// The gain margin is taken at the worst phase crossover (-180° modulo
// 360°), the phase margin at the 0 dB crossover.
func BodeMargins(p *plant.Plant, kc float64) BodeResult {
	grid := frequencySweep(p)

	result := BodeResult{
		GainMarginDb:   math.Inf(1),
		PhaseMarginDeg: math.Inf(1),
	}

	prevResponse := OpenLoop(p, kc, grid[0])
	prevDistance := phaseCrossoverDistance(prevResponse)

	// a response that already starts at the phase crossover (e.g. a
	// negative loop gain at dc) counts as a crossover at the lowest
	// frequency
	if math.Abs(prevDistance) < 0.5 {
		result.GainMarginDb = -20 * math.Log10(cmplx.Abs(prevResponse))
	}

	for _, omega := range grid[1:] {
		response := OpenLoop(p, kc, omega)

		distance := phaseCrossoverDistance(response)
		if prevDistance != 0 && distance*prevDistance < 0 && math.Abs(distance-prevDistance) < 180 {
			margin := -20 * math.Log10(cmplx.Abs(response))
			if margin < result.GainMarginDb {
				result.GainMarginDb = margin
			}
		}
		prevDistance = distance

		if math.IsInf(result.PhaseMarginDeg, 1) &&
			cmplx.Abs(prevResponse) >= 1 != (cmplx.Abs(response) >= 1) {
			phase := cmplx.Phase(response) * 180 / math.Pi
			result.PhaseMarginDeg = 180 + phase
		}
		prevResponse = response
	}

	return result
}

// phaseCrossoverDistance is the wrapped angular distance of the
// response phase from ±180°, in degrees.
func phaseCrossoverDistance(response complex128) float64 {
	phase := cmplx.Phase(response) * 180 / math.Pi
	distance := math.Mod(phase-180, 360)
	if distance > 180 {
		distance -= 360
	} else if distance < -180 {
		distance += 360
	}
	return distance
}
