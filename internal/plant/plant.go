package plant

import (
	"fmt"

	"github.com/silosim/silotherm/internal/util"
)

// Resonance describes an optional weak second-order mode superposed on
// the dominant first-order lag. Its response to the (delayed) control
// input is added to the plant output scaled by Weight.
type Resonance struct {
	// NaturalFrequency in rad/s
	NaturalFrequency float64 `json:"naturalFrequency"`
	// DampingRatio must lie in (0, 1)
	DampingRatio float64 `json:"dampingRatio"`
	// Weight of the resonant contribution to the plant output
	Weight float64 `json:"weight"`
}

// Plant models the thermal response of a grain mass as a first-order
// lag plus dead time (FOPDT), with an optional resonant mode.
//
//	tau * dy/dt = gain * u(t - deadTime) - y(t)
//
// The dead time is realized by an explicit delay line over the control
// input, so Evolve only depends on the state held by this struct.
type Plant struct {
	// Gain is the process gain per unit control input. It may be
	// negative for a cooling-dominant process.
	Gain float64 `json:"gain"`
	// TimeConstant tau in seconds, must be positive
	TimeConstant float64 `json:"timeConstant"`
	// DeadTime in seconds, zero for no transport delay
	DeadTime float64 `json:"deadTime"`
	// Resonance is nil when no resonant mode is configured
	Resonance *Resonance `json:"resonance,omitempty"`

	delay *util.DelayLine

	// second-order mode state
	resPos float64
	resVel float64
}

func NewPlant(gain float64, timeConstantSeconds float64, deadTimeSeconds float64, resonance *Resonance) (*Plant, error) {
	if timeConstantSeconds <= 0 {
		return nil, fmt.Errorf("time constant must be positive, got %f", timeConstantSeconds)
	}
	if deadTimeSeconds < 0 {
		return nil, fmt.Errorf("dead time must not be negative, got %f", deadTimeSeconds)
	}
	if resonance != nil {
		if resonance.NaturalFrequency <= 0 {
			return nil, fmt.Errorf("natural frequency must be positive, got %f", resonance.NaturalFrequency)
		}
		if resonance.DampingRatio <= 0 || resonance.DampingRatio >= 1 {
			return nil, fmt.Errorf("damping ratio must lie in (0, 1), got %f", resonance.DampingRatio)
		}
	}

	return &Plant{
		Gain:         gain,
		TimeConstant: timeConstantSeconds,
		DeadTime:     deadTimeSeconds,
		Resonance:    resonance,
		delay:        util.NewDelayLine(deadTimeSeconds),
	}, nil
}

// Evolve advances the plant by one Euler step of size dt and returns
// the next process output. The caller is responsible for choosing dt
// small relative to the time constant; no integration-stability check
// is performed.
func (p *Plant) Evolve(currentOutput float64, controlInput float64, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, fmt.Errorf("step size must be positive, got %f", dt)
	}

	delayedInput := p.delay.Push(controlInput, dt)

	base := currentOutput
	if p.Resonance != nil {
		base = currentOutput - p.Resonance.Weight*p.resPos
	}

	nextBase := base + (dt/p.TimeConstant)*(p.Gain*delayedInput-base)

	if p.Resonance == nil {
		return nextBase, nil
	}

	wn := p.Resonance.NaturalFrequency
	zeta := p.Resonance.DampingRatio
	accel := wn*wn*(p.Gain*delayedInput-p.resPos) - 2*zeta*wn*p.resVel
	p.resVel += dt * accel
	p.resPos += dt * p.resVel

	return nextBase + p.Resonance.Weight*p.resPos, nil
}

// RestingOutput is the output the plant settles to with zero input.
func (p *Plant) RestingOutput() float64 {
	return 0
}

// Reset clears the delay line and the resonant mode state so the plant
// can be reused for a fresh run.
func (p *Plant) Reset() {
	p.delay.Reset()
	p.resPos = 0
	p.resVel = 0
}
