package analysis

import (
	"math"
	"testing"

	"github.com/silosim/silotherm/internal/simulation"
	"github.com/stretchr/testify/assert"
)

// firstOrderStep builds the analytic step response of a first-order
// lag towards the given setpoint.
func firstOrderStep(setpoint float64, tau float64, duration float64, dt float64) simulation.Trajectory {
	steps := int(math.Round(duration / dt))
	trajectory := make(simulation.Trajectory, 0, steps)
	for i := 0; i < steps; i++ {
		time := float64(i+1) * dt
		output := setpoint * (1 - math.Exp(-time/tau))
		trajectory = append(trajectory, simulation.Sample{
			Time:   time,
			Output: output,
			Error:  setpoint - output,
		})
	}
	return trajectory
}

func TestExtractRejectsEmptyTrajectory(t *testing.T) {
	// WHEN
	_, err := Extract(simulation.Trajectory{}, 15)

	// THEN
	assert.Error(t, err)
}

func TestExtractRejectsZeroSetpoint(t *testing.T) {
	// GIVEN
	trajectory := firstOrderStep(15, 100, 800, 0.1)

	// WHEN
	_, err := Extract(trajectory, 0)

	// THEN
	assert.ErrorIs(t, err, ErrZeroSetpoint)
}

func TestFirstOrderRiseTime(t *testing.T) {
	// GIVEN
	// the grain silo time constant, 206.16 hours in seconds
	tau := 206.16 * 3600.0
	setpoint := 15.0
	trajectory := firstOrderStep(setpoint, tau, 8*tau, tau/1000)

	// WHEN
	report, err := Extract(trajectory, setpoint)
	assert.NoError(t, err)

	// THEN
	// 10-90% rise time of a first-order lag is ln(9) time constants
	expected := math.Log(9) * tau
	assert.InEpsilon(t, expected, report.RiseTime, 0.01)
}

func TestFirstOrderSettlingTime(t *testing.T) {
	// GIVEN
	tau := 206.16 * 3600.0
	setpoint := 15.0
	trajectory := firstOrderStep(setpoint, tau, 8*tau, tau/1000)

	// WHEN
	report, err := Extract(trajectory, setpoint)
	assert.NoError(t, err)

	// THEN
	// the output leaves the ±2% band for the last time at ln(50) tau,
	// conventionally rounded to 4 tau
	expected := math.Log(50) * tau
	assert.InEpsilon(t, expected, report.SettlingTime, 0.01)
	assert.InEpsilon(t, 4*tau, report.SettlingTime, 0.05)
}

func TestMonotonicResponseHasNoOvershoot(t *testing.T) {
	// GIVEN
	trajectory := firstOrderStep(15, 100, 800, 0.1)

	// WHEN
	report, err := Extract(trajectory, 15)
	assert.NoError(t, err)

	// THEN
	assert.Equal(t, 0.0, report.OvershootPercent)
}

func TestOvershootPercent(t *testing.T) {
	// GIVEN
	setpoint := 10.0
	trajectory := simulation.Trajectory{
		{Time: 1, Output: 5},
		{Time: 2, Output: 12},
		{Time: 3, Output: 9.9},
		{Time: 4, Output: 10},
	}

	// WHEN
	report, err := Extract(trajectory, setpoint)
	assert.NoError(t, err)

	// THEN
	assert.InDelta(t, 20.0, report.OvershootPercent, 1e-9)
}

func TestOvershootWithNegativeSetpoint(t *testing.T) {
	// GIVEN
	setpoint := -10.0
	trajectory := simulation.Trajectory{
		{Time: 1, Output: -5},
		{Time: 2, Output: -12},
		{Time: 3, Output: -10},
	}

	// WHEN
	report, err := Extract(trajectory, setpoint)
	assert.NoError(t, err)

	// THEN
	assert.InDelta(t, 20.0, report.OvershootPercent, 1e-9)
}

func TestSteadyStateErrorUsesLastSample(t *testing.T) {
	// GIVEN
	setpoint := 15.0
	trajectory := simulation.Trajectory{
		{Time: 1, Output: 0},
		{Time: 2, Output: 20},
		{Time: 3, Output: 14.5},
	}

	// WHEN
	report, err := Extract(trajectory, setpoint)
	assert.NoError(t, err)

	// THEN
	assert.InDelta(t, 0.5, report.SteadyStateError, 1e-9)
}

func TestRiseTimeInfiniteWhenNeverReached(t *testing.T) {
	// GIVEN
	// the output never gets past 50% of the setpoint
	setpoint := 10.0
	trajectory := simulation.Trajectory{
		{Time: 1, Output: 2},
		{Time: 2, Output: 4},
		{Time: 3, Output: 5},
	}

	// WHEN
	report, err := Extract(trajectory, setpoint)
	assert.NoError(t, err)

	// THEN
	assert.True(t, math.IsInf(report.RiseTime, 1))
}

func TestSettlingTimeZeroWhenAlwaysInBand(t *testing.T) {
	// GIVEN
	setpoint := 10.0
	trajectory := simulation.Trajectory{
		{Time: 1, Output: 9.9},
		{Time: 2, Output: 10.1},
		{Time: 3, Output: 10},
	}

	// WHEN
	report, err := Extract(trajectory, setpoint)
	assert.NoError(t, err)

	// THEN
	assert.Equal(t, 0.0, report.SettlingTime)
}
