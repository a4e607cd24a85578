package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/silosim/silotherm/internal/simulation"
	"github.com/silosim/silotherm/internal/util"
)

var ErrZeroSetpoint = errors.New("setpoint must be non-zero for ratio based metrics")

// Report holds the scalar step-response quality metrics of one run.
// RiseTime is +Inf when the response never reaches 90% of the
// setpoint within the trajectory.
type Report struct {
	// RiseTime is the elapsed time between first reaching 10% and
	// first reaching 90% of the setpoint, in seconds
	RiseTime float64 `json:"riseTime"`
	// SettlingTime is the latest time the output lies outside the
	// ±2% band around the setpoint, in seconds
	SettlingTime float64 `json:"settlingTime"`
	// OvershootPercent is the peak excess over the setpoint relative
	// to the setpoint, zero when the output never overshoots
	OvershootPercent float64 `json:"overshootPercent"`
	// SteadyStateError is the deviation from the setpoint at the last
	// sample
	SteadyStateError float64 `json:"steadyStateError"`
}

// reportJson mirrors Report with nullable time fields. encoding/json
// cannot represent +Inf, so unreached rise and settling times travel
// as null.
type reportJson struct {
	RiseTime         *float64 `json:"riseTime"`
	SettlingTime     *float64 `json:"settlingTime"`
	OvershootPercent float64  `json:"overshootPercent"`
	SteadyStateError float64  `json:"steadyStateError"`
}

func finiteOrNil(value float64) *float64 {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return nil
	}
	return &value
}

func finiteOrInf(value *float64) float64 {
	if value == nil {
		return math.Inf(1)
	}
	return *value
}

func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJson{
		RiseTime:         finiteOrNil(r.RiseTime),
		SettlingTime:     finiteOrNil(r.SettlingTime),
		OvershootPercent: r.OvershootPercent,
		SteadyStateError: r.SteadyStateError,
	})
}

func (r *Report) UnmarshalJSON(data []byte) error {
	var decoded reportJson
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	r.RiseTime = finiteOrInf(decoded.RiseTime)
	r.SettlingTime = finiteOrInf(decoded.SettlingTime)
	r.OvershootPercent = decoded.OvershootPercent
	r.SteadyStateError = decoded.SteadyStateError
	return nil
}

// Extract derives the performance report from a simulated trajectory.
// The trajectory must be long enough for the final sample to serve as
// the steady-state estimate, nominally at least four time constants.
func Extract(trajectory simulation.Trajectory, setpoint float64) (Report, error) {
	if len(trajectory) <= 0 {
		return Report{}, fmt.Errorf("trajectory must not be empty")
	}
	if setpoint == 0 {
		return Report{}, ErrZeroSetpoint
	}

	report := Report{
		RiseTime:         riseTime(trajectory, setpoint),
		SettlingTime:     settlingTime(trajectory, setpoint),
		OvershootPercent: overshootPercent(trajectory, setpoint),
		SteadyStateError: math.Abs(setpoint - trajectory.Final().Output),
	}
	return report, nil
}

// riseTime measures the 10% to 90% transition. Progress is the output
// relative to the setpoint, which also handles negative setpoints.
func riseTime(trajectory simulation.Trajectory, setpoint float64) float64 {
	t10 := math.NaN()
	for _, sample := range trajectory {
		progress := util.Ratio(sample.Output, 0, setpoint)
		if math.IsNaN(t10) && progress >= 0.1 {
			t10 = sample.Time
		}
		if progress >= 0.9 {
			return sample.Time - t10
		}
	}
	return math.Inf(1)
}

func settlingTime(trajectory simulation.Trajectory, setpoint float64) float64 {
	band := 0.02 * math.Abs(setpoint)
	for i := len(trajectory) - 1; i >= 0; i-- {
		if math.Abs(trajectory[i].Output-setpoint) > band {
			return trajectory[i].Time
		}
	}
	return 0
}

func overshootPercent(trajectory simulation.Trajectory, setpoint float64) float64 {
	peak := math.Inf(-1)
	for _, sample := range trajectory {
		progress := util.Ratio(sample.Output, 0, setpoint)
		if progress > peak {
			peak = progress
		}
	}
	if peak <= 1 {
		return 0
	}
	return 100 * (peak - 1)
}
