package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestAvg(t *testing.T) {
	// GIVEN
	values := []float64{1, 2, 3}

	// WHEN
	result := Avg(values)

	// THEN
	assert.Equal(t, 2.0, result)
}

func TestCoerceInRange(t *testing.T) {
	// GIVEN
	value := 0.5

	// WHEN
	result := Coerce(value, 0, 1)

	// THEN
	assert.Equal(t, 0.5, result)
}

func TestCoerceBelowRange(t *testing.T) {
	// GIVEN
	value := -1.5

	// WHEN
	result := Coerce(value, 0, 1)

	// THEN
	assert.Equal(t, 0.0, result)
}

func TestCoerceAboveRange(t *testing.T) {
	// GIVEN
	value := 1.5

	// WHEN
	result := Coerce(value, 0, 1)

	// THEN
	assert.Equal(t, 1.0, result)
}

func TestRatio(t *testing.T) {
	// GIVEN
	value := 5.0

	// WHEN
	result := Ratio(value, 0, 10)

	// THEN
	assert.Equal(t, 0.5, result)
}
