package configuration

import "time"

type ControllerConfig struct {
	ID string `json:"id"`

	P        *PControllerConfig        `json:"p,omitempty"`
	I        *IControllerConfig        `json:"i,omitempty"`
	D        *DControllerConfig        `json:"d,omitempty"`
	PI       *PiControllerConfig       `json:"pi,omitempty"`
	PID      *PidControllerConfig      `json:"pid,omitempty"`
	FuzzyPID *FuzzyPidControllerConfig `json:"fuzzyPid,omitempty"`
}

type PControllerConfig struct {
	Kp float64 `json:"kp"`
}

type IControllerConfig struct {
	Ki float64 `json:"ki"`
}

type DControllerConfig struct {
	Kd float64 `json:"kd"`
}

type PiControllerConfig struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`

	AntiWindup *AntiWindupConfig `json:"antiWindup,omitempty"`
}

type PidControllerConfig struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`

	AntiWindup *AntiWindupConfig `json:"antiWindup,omitempty"`
}

type FuzzyPidControllerConfig struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`

	// FuzzySet references a fuzzy set definition by id; empty selects
	// the built-in default rule table
	FuzzySet string `json:"fuzzySet"`

	// SensorLag delays the error signal seen by the controller. When
	// nil the plant dead time of the scenario is used.
	SensorLag *time.Duration `json:"sensorLag,omitempty"`

	AntiWindup *AntiWindupConfig `json:"antiWindup,omitempty"`
}

// AntiWindupConfig clamps the integral accumulator. The reference
// scripts integrate without bound, so this is off unless configured.
type AntiWindupConfig struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
