package configuration

import "time"

type ScenarioConfig struct {
	ID string `json:"id"`

	// Plant and Controller reference definitions by id
	Plant      string `json:"plant"`
	Controller string `json:"controller"`

	// Setpoint is the target grain temperature in °C
	Setpoint float64 `json:"setpoint"`
	// InitialOutput overrides the resting value the run starts from
	InitialOutput float64 `json:"initialOutput"`

	Duration time.Duration `json:"duration"`
	Dt       time.Duration `json:"dt"`

	// SmoothingWindow averages the measured output over the given
	// number of samples, values below 2 disable smoothing
	SmoothingWindow int `json:"smoothingWindow"`

	// OverflowLimit aborts a run whose action or output magnitude
	// exceeds it; zero disables the guard to match the reference
	// numerics
	OverflowLimit float64 `json:"overflowLimit"`

	// WarmStartFrom starts this run at the final output of another
	// scenario instead of InitialOutput
	WarmStartFrom string `json:"warmStartFrom"`
}
