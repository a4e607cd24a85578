package configuration

import "time"

type PlantConfig struct {
	ID string `json:"id"`

	// Gain is the process gain per unit control input, negative for a
	// cooling dominant process
	Gain float64 `json:"gain"`
	// TimeConstant of the dominant first-order lag
	TimeConstant time.Duration `json:"timeConstant"`
	// DeadTime of the transport delay, zero for none
	DeadTime time.Duration `json:"deadTime"`

	Resonance *ResonanceConfig `json:"resonance,omitempty"`
}

type ResonanceConfig struct {
	// NaturalFrequency in rad/s
	NaturalFrequency float64 `json:"naturalFrequency"`
	DampingRatio     float64 `json:"dampingRatio"`
	// Weight of the resonant contribution, defaults to 0.25
	Weight float64 `json:"weight"`
}

const DefaultResonanceWeight = 0.25
