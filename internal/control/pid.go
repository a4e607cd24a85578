package control

import "github.com/silosim/silotherm/internal/util"

// PidController implements the P, I, D, PI and PID variants through
// one struct: a zero gain disables the corresponding term.
type PidController struct {
	Id string `json:"id"`

	gains  Gains
	windup *Limits

	integral  float64
	prevError float64
}

func NewPidController(id string, gains Gains) *PidController {
	return &PidController{
		Id:    id,
		gains: gains,
	}
}

func NewPController(id string, kp float64) *PidController {
	return NewPidController(id, Gains{Kp: kp})
}

func NewIController(id string, ki float64) *PidController {
	return NewPidController(id, Gains{Ki: ki})
}

func NewDController(id string, kd float64) *PidController {
	return NewPidController(id, Gains{Kd: kd})
}

func NewPiController(id string, kp float64, ki float64) *PidController {
	return NewPidController(id, Gains{Kp: kp, Ki: ki})
}

// WithAntiWindup clamps the integral accumulator to [min, max]. This
// deviates from the reference numerics and is therefore opt-in.
func (c *PidController) WithAntiWindup(min float64, max float64) *PidController {
	c.windup = &Limits{Min: min, Max: max}
	return c
}

func (c *PidController) GetId() string {
	return c.Id
}

func (c *PidController) Gains() Gains {
	return c.gains
}

func (c *PidController) ComputeAction(err float64, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, ErrInvalidStep
	}

	c.integral += err * dt
	if c.windup != nil {
		c.integral = util.Coerce(c.integral, c.windup.Min, c.windup.Max)
	}

	// prevError starts at zero, so the very first sample produces a
	// derivative transient. This matches the reference behavior and
	// is deliberately not corrected.
	derivative := (err - c.prevError) / dt
	c.prevError = err

	action := c.gains.Kp*err + c.gains.Ki*c.integral + c.gains.Kd*derivative
	return action, nil
}

func (c *PidController) Reset() {
	c.integral = 0
	c.prevError = 0
}
