package simulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/asecurityteam/rolling"
	"github.com/silosim/silotherm/internal/control"
	"github.com/silosim/silotherm/internal/plant"
	"github.com/silosim/silotherm/internal/util"
)

var ErrNumericOverflow = errors.New("numeric overflow")

// Options configures one closed-loop run.
type Options struct {
	// Setpoint is the target process output
	Setpoint float64
	// InitialOutput is the process output at t = 0. The default zero
	// is the resting value of the plant.
	InitialOutput float64
	// Duration of the run in seconds
	Duration float64
	// Dt is the fixed integration step in seconds. It must be small
	// relative to the plant time constant.
	Dt float64
	// SmoothingWindow averages the measured output over the given
	// number of samples before the error is computed. Values below 2
	// disable smoothing.
	SmoothingWindow int
	// OverflowLimit aborts the run when the magnitude of the control
	// action or the process output exceeds it. Zero disables the
	// guard; non-finite values always abort.
	OverflowLimit float64
}

// Run drives the plant and controller through a fixed-step closed
// loop and returns the recorded trajectory. The result is a pure
// function of the arguments: identical inputs yield identical
// trajectories.
func Run(p *plant.Plant, c control.Controller, opts Options) (Trajectory, error) {
	if opts.Dt <= 0 {
		return nil, fmt.Errorf("step size must be positive, got %f", opts.Dt)
	}
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %f", opts.Duration)
	}

	steps := int(math.Round(opts.Duration / opts.Dt))
	trajectory := make(Trajectory, 0, steps)

	smoothing := opts.SmoothingWindow > 1
	var window *rolling.PointPolicy
	if smoothing {
		window = util.CreateRollingWindow(opts.SmoothingWindow)
		util.FillWindow(window, opts.SmoothingWindow, opts.InitialOutput)
	}

	output := opts.InitialOutput
	for i := 0; i < steps; i++ {
		measured := output
		if smoothing {
			window.Append(output)
			measured = util.GetWindowAvg(window)
		}

		err := opts.Setpoint - measured

		action, actionErr := c.ComputeAction(err, opts.Dt)
		if actionErr != nil {
			return nil, actionErr
		}

		next, evolveErr := p.Evolve(output, action, opts.Dt)
		if evolveErr != nil {
			return nil, evolveErr
		}

		time := float64(i+1) * opts.Dt
		if guardErr := checkBounds(time, action, next, opts.OverflowLimit); guardErr != nil {
			return nil, guardErr
		}

		trajectory = append(trajectory, Sample{
			Time:   time,
			Output: next,
			Action: action,
			Error:  err,
		})
		output = next
	}

	return trajectory, nil
}

func checkBounds(time float64, action float64, output float64, limit float64) error {
	if math.IsNaN(action) || math.IsInf(action, 0) || math.IsNaN(output) || math.IsInf(output, 0) {
		return fmt.Errorf("non-finite value at t=%f: %w", time, ErrNumericOverflow)
	}
	if limit > 0 && (math.Abs(action) > limit || math.Abs(output) > limit) {
		return fmt.Errorf("magnitude exceeds %g at t=%f: %w", limit, time, ErrNumericOverflow)
	}
	return nil
}
