package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeActionRejectsNonPositiveStep(t *testing.T) {
	// GIVEN
	c := NewPController("p", 1.0)

	// WHEN
	_, err := c.ComputeAction(1.0, 0)

	// THEN
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestProportionalAction(t *testing.T) {
	// GIVEN
	c := NewPController("p", 0.5)

	// WHEN
	action, err := c.ComputeAction(10.0, 1.0)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 5.0, action)

	// proportional action carries no state between steps
	action, err = c.ComputeAction(10.0, 1.0)
	assert.NoError(t, err)
	assert.Equal(t, 5.0, action)
}

func TestIntegralAccumulates(t *testing.T) {
	// GIVEN
	c := NewIController("i", 2.0)

	// WHEN / THEN
	action, err := c.ComputeAction(1.0, 0.5)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, action)

	action, err = c.ComputeAction(1.0, 0.5)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, action)

	action, err = c.ComputeAction(1.0, 0.5)
	assert.NoError(t, err)
	assert.Equal(t, 3.0, action)
}

func TestIntegralAccumulatesWithoutBound(t *testing.T) {
	// GIVEN
	c := NewIController("i", 1.0)

	// WHEN
	var action float64
	var err error
	for i := 0; i < 1000; i++ {
		action, err = c.ComputeAction(1.0, 1.0)
		assert.NoError(t, err)
	}

	// THEN
	// no anti-windup by default
	assert.Equal(t, 1000.0, action)
}

func TestAntiWindupClampsIntegral(t *testing.T) {
	// GIVEN
	c := NewIController("i", 1.0).WithAntiWindup(-5, 5)

	// WHEN
	var action float64
	var err error
	for i := 0; i < 1000; i++ {
		action, err = c.ComputeAction(1.0, 1.0)
		assert.NoError(t, err)
	}

	// THEN
	assert.Equal(t, 5.0, action)
}

func TestDerivativeSpikeOnFirstSample(t *testing.T) {
	// GIVEN
	c := NewDController("d", 1.0)

	// WHEN
	action, err := c.ComputeAction(10.0, 0.1)

	// THEN
	// prevError starts at zero, producing a transient spike
	assert.NoError(t, err)
	assert.Equal(t, 100.0, action)

	// WHEN
	action, err = c.ComputeAction(10.0, 0.1)

	// THEN
	// constant error has zero derivative
	assert.NoError(t, err)
	assert.Equal(t, 0.0, action)
}

func TestPidCombinesTerms(t *testing.T) {
	// GIVEN
	c := NewPidController("pid", Gains{Kp: 1.0, Ki: 2.0, Kd: 3.0})

	// WHEN
	action, err := c.ComputeAction(1.0, 1.0)

	// THEN
	// Kp*1 + Ki*(1*1) + Kd*(1-0)/1
	assert.NoError(t, err)
	assert.Equal(t, 6.0, action)
}

func TestResetClearsAccumulatedState(t *testing.T) {
	// GIVEN
	c := NewPidController("pid", Gains{Kp: 1.0, Ki: 2.0, Kd: 3.0})
	_, err := c.ComputeAction(1.0, 1.0)
	assert.NoError(t, err)

	// WHEN
	c.Reset()

	// THEN
	action, err := c.ComputeAction(1.0, 1.0)
	assert.NoError(t, err)
	assert.Equal(t, 6.0, action)
}

func TestGains(t *testing.T) {
	// GIVEN
	gains := Gains{Kp: 1.0, Ki: 2.0, Kd: 3.0}

	// WHEN
	c := NewPidController("pid", gains)

	// THEN
	assert.Equal(t, gains, c.Gains())
}
