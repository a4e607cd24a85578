package statistics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/silosim/silotherm/internal/scenarios"
)

type ScenarioCollector struct {
	riseTime         *prometheus.Desc
	settlingTime     *prometheus.Desc
	overshootPercent *prometheus.Desc
	steadyStateError *prometheus.Desc
	finalOutput      *prometheus.Desc
	stable           *prometheus.Desc
}

func NewScenarioCollector() *ScenarioCollector {
	return &ScenarioCollector{
		riseTime: prometheus.NewDesc(prometheus.BuildFQName(namespace, "scenario", "rise_time_seconds"),
			"Time for the output to climb from 10% to 90% of the setpoint",
			[]string{"id"}, nil,
		),
		settlingTime: prometheus.NewDesc(prometheus.BuildFQName(namespace, "scenario", "settling_time_seconds"),
			"Time after which the output stays within 2% of the setpoint",
			[]string{"id"}, nil,
		),
		overshootPercent: prometheus.NewDesc(prometheus.BuildFQName(namespace, "scenario", "overshoot_percent"),
			"Peak excess over the setpoint relative to the setpoint",
			[]string{"id"}, nil,
		),
		steadyStateError: prometheus.NewDesc(prometheus.BuildFQName(namespace, "scenario", "steady_state_error"),
			"Remaining deviation from the setpoint at the end of the run",
			[]string{"id"}, nil,
		),
		finalOutput: prometheus.NewDesc(prometheus.BuildFQName(namespace, "scenario", "final_output"),
			"Plant output at the last sample of the run",
			[]string{"id"}, nil,
		),
		stable: prometheus.NewDesc(prometheus.BuildFQName(namespace, "scenario", "stable"),
			"Whether the closed loop is stable according to the Nyquist criterion",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ScenarioCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.riseTime
	ch <- collector.settlingTime
	ch <- collector.overshootPercent
	ch <- collector.steadyStateError
	ch <- collector.finalOutput
	ch <- collector.stable
}

func (collector *ScenarioCollector) Collect(ch chan<- prometheus.Metric) {
	for entry := range scenarios.ResultMap.IterBuffered() {
		result := entry.Val
		id := result.GetId()

		if !math.IsInf(result.Report.RiseTime, 0) {
			ch <- prometheus.MustNewConstMetric(collector.riseTime, prometheus.GaugeValue, result.Report.RiseTime, id)
		}
		if !math.IsInf(result.Report.SettlingTime, 0) {
			ch <- prometheus.MustNewConstMetric(collector.settlingTime, prometheus.GaugeValue, result.Report.SettlingTime, id)
		}
		ch <- prometheus.MustNewConstMetric(collector.overshootPercent, prometheus.GaugeValue, result.Report.OvershootPercent, id)
		ch <- prometheus.MustNewConstMetric(collector.steadyStateError, prometheus.GaugeValue, result.Report.SteadyStateError, id)
		ch <- prometheus.MustNewConstMetric(collector.finalOutput, prometheus.GaugeValue, result.Trajectory.Final().Output, id)

		stable := 0.0
		if result.Nyquist.IsStable {
			stable = 1.0
		}
		ch <- prometheus.MustNewConstMetric(collector.stable, prometheus.GaugeValue, stable, id)
	}
}
