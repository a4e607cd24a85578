package control

import "errors"

var ErrInvalidStep = errors.New("step size must be positive")

// Gains holds the three PID gains. Variants with fewer terms simply
// leave the unused gains at zero.
type Gains struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`
}

// Limits is an optional clamp on the integral accumulator
// (anti-windup). The reference behavior has no anti-windup, so
// controllers are built without limits unless explicitly requested.
type Limits struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Controller maps an error signal to a control action, mutating only
// its own per-instance state. Instances must not be shared between
// simulation runs.
type Controller interface {
	GetId() string

	// ComputeAction advances the controller by one step of size dt
	// and returns the control action for the given error
	ComputeAction(err float64, dt float64) (float64, error)

	// Gains returns the currently effective gains
	Gains() Gains

	// Reset clears all accumulated state for a fresh run
	Reset()
}
