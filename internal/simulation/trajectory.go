package simulation

// Sample is one step of a closed-loop run.
type Sample struct {
	// Time in seconds since the start of the run
	Time float64 `json:"time"`
	// Output is the process output after this step
	Output float64 `json:"output"`
	// Action is the control action applied during this step
	Action float64 `json:"action"`
	// Error is the control error at the start of this step
	Error float64 `json:"error"`
}

// Trajectory is the time-ordered sample sequence of one run. It is
// produced once per run and owned by the caller.
type Trajectory []Sample

// Outputs returns the process output series.
func (t Trajectory) Outputs() []float64 {
	result := make([]float64, len(t))
	for i, sample := range t {
		result[i] = sample.Output
	}
	return result
}

// Actions returns the control action series.
func (t Trajectory) Actions() []float64 {
	result := make([]float64, len(t))
	for i, sample := range t {
		result[i] = sample.Action
	}
	return result
}

// Final returns the last sample of the trajectory.
func (t Trajectory) Final() Sample {
	return t[len(t)-1]
}

// Duration returns the time of the last sample, or zero for an empty
// trajectory.
func (t Trajectory) Duration() float64 {
	if len(t) <= 0 {
		return 0
	}
	return t[len(t)-1].Time
}
