package control

import (
	"github.com/silosim/silotherm/internal/fuzzy"
	"github.com/silosim/silotherm/internal/util"
)

// FuzzyPidController is a PID controller whose gains are adjusted
// every step by a fuzzy inference engine. The controller evaluates a
// sensor-lagged copy of the error signal, emulating the transport
// delay of the temperature measurement through the grain mass.
type FuzzyPidController struct {
	Id string `json:"id"`

	base   Gains
	engine *fuzzy.Engine
	windup *Limits

	// effective gains of the most recent step, base + fuzzy delta
	effective Gains

	sensorLag float64
	lagged    *util.DelayLine

	integral  float64
	prevError float64
}

// NewFuzzyPidController builds a fuzzy gain scheduled controller with
// the given base gains. sensorLagSeconds delays the error signal seen
// by the controller; pass the plant dead time to emulate the
// measurement path of the reference scenarios, or zero for an ideal
// sensor.
func NewFuzzyPidController(id string, base Gains, engine *fuzzy.Engine, sensorLagSeconds float64) *FuzzyPidController {
	return &FuzzyPidController{
		Id:        id,
		base:      base,
		engine:    engine,
		effective: base,
		sensorLag: sensorLagSeconds,
		lagged:    util.NewDelayLine(sensorLagSeconds),
	}
}

// WithAntiWindup clamps the integral accumulator to [min, max].
func (c *FuzzyPidController) WithAntiWindup(min float64, max float64) *FuzzyPidController {
	c.windup = &Limits{Min: min, Max: max}
	return c
}

func (c *FuzzyPidController) GetId() string {
	return c.Id
}

// Gains returns the effective gains of the most recent step.
func (c *FuzzyPidController) Gains() Gains {
	return c.effective
}

// BaseGains returns the fixed gains the fuzzy deltas are applied to.
func (c *FuzzyPidController) BaseGains() Gains {
	return c.base
}

func (c *FuzzyPidController) ComputeAction(err float64, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, ErrInvalidStep
	}

	laggedErr := c.lagged.Push(err, dt)
	errRate := (laggedErr - c.prevError) / dt

	deltaKp, deltaKi, deltaKd := c.engine.Infer(laggedErr, errRate)
	c.effective = Gains{
		Kp: c.base.Kp + deltaKp,
		Ki: c.base.Ki + deltaKi,
		Kd: c.base.Kd + deltaKd,
	}

	c.integral += laggedErr * dt
	if c.windup != nil {
		c.integral = util.Coerce(c.integral, c.windup.Min, c.windup.Max)
	}

	action := c.effective.Kp*laggedErr + c.effective.Ki*c.integral + c.effective.Kd*errRate
	c.prevError = laggedErr

	return action, nil
}

func (c *FuzzyPidController) Reset() {
	c.integral = 0
	c.prevError = 0
	c.effective = c.base
	c.lagged.Reset()
}
