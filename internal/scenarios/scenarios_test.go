package scenarios

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/silosim/silotherm/internal/configuration"
	"github.com/silosim/silotherm/internal/control"
	"github.com/silosim/silotherm/internal/fuzzy"
)

func testConfig() configuration.Configuration {
	return configuration.Configuration{
		Plants: []configuration.PlantConfig{
			{
				ID:           "silo",
				Gain:         -15,
				TimeConstant: time.Duration(206.16 * float64(time.Hour)),
				DeadTime:     24 * time.Hour,
			},
		},
		Controllers: []configuration.ControllerConfig{
			{
				ID: "p-004",
				P:  &configuration.PControllerConfig{Kp: 0.04},
			},
		},
		Scenarios: []configuration.ScenarioConfig{
			{
				ID:         "baseline",
				Plant:      "silo",
				Controller: "p-004",
				Setpoint:   15,
				Duration:   1000 * time.Hour,
				Dt:         30 * time.Minute,
			},
		},
	}
}

func TestBuildPlantAppliesDefaultResonanceWeight(t *testing.T) {
	// GIVEN
	config := configuration.PlantConfig{
		ID:           "silo",
		Gain:         -15,
		TimeConstant: 10 * time.Hour,
		Resonance: &configuration.ResonanceConfig{
			NaturalFrequency: 0.001,
			DampingRatio:     0.3,
		},
	}

	// WHEN
	p, err := BuildPlant(config)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, configuration.DefaultResonanceWeight, p.Resonance.Weight)
}

func TestBuildControllerVariants(t *testing.T) {
	// GIVEN
	config := testConfig()
	cases := []configuration.ControllerConfig{
		{ID: "p", P: &configuration.PControllerConfig{Kp: 0.04}},
		{ID: "i", I: &configuration.IControllerConfig{Ki: 0.001}},
		{ID: "d", D: &configuration.DControllerConfig{Kd: 10}},
		{ID: "pi", PI: &configuration.PiControllerConfig{Kp: 0.04, Ki: 0.001}},
		{ID: "pid", PID: &configuration.PidControllerConfig{Kp: 0.04, Ki: 0.001, Kd: 10}},
		{ID: "fuzzy", FuzzyPID: &configuration.FuzzyPidControllerConfig{Kp: 0.04}},
	}

	for _, controllerConfig := range cases {
		// WHEN
		c, err := BuildController(controllerConfig, 0, &config)

		// THEN
		assert.NoError(t, err)
		assert.Equal(t, controllerConfig.ID, c.GetId())
	}
}

func TestBuildControllerRejectsEmptyDefinition(t *testing.T) {
	// GIVEN
	config := testConfig()

	// WHEN
	c, err := BuildController(configuration.ControllerConfig{ID: "empty"}, 0, &config)

	// THEN
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestBuildControllerGainsMatchConfig(t *testing.T) {
	// GIVEN
	config := testConfig()
	controllerConfig := configuration.ControllerConfig{
		ID:  "pid",
		PID: &configuration.PidControllerConfig{Kp: 0.04, Ki: 0.001, Kd: 10},
	}

	// WHEN
	c, err := BuildController(controllerConfig, 0, &config)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, control.Gains{Kp: 0.04, Ki: 0.001, Kd: 10}, c.Gains())
}

func TestBuildRuleTableOverridesDomainAndMatrix(t *testing.T) {
	// GIVEN
	row := configuration.TermRow{"ZE", "ZE", "ZE", "ZE", "ZE", "ZE", "ZE"}
	config := configuration.FuzzySetConfig{
		ID:          "custom",
		ErrorDomain: &configuration.DomainConfig{Min: -5, Max: 5},
		DeltaKp:     []configuration.TermRow{row, row, row, row, row, row, row},
	}

	// WHEN
	table, err := BuildRuleTable(config)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, fuzzy.Domain{Min: -5, Max: 5}, table.ErrorDomain)
	for _, rule := range table.Rules {
		assert.Equal(t, fuzzy.Zero, rule.DeltaKp)
	}
	// untouched matrices keep their defaults
	defaults := fuzzy.DefaultRuleTable()
	for i, rule := range table.Rules {
		assert.Equal(t, defaults.Rules[i].DeltaKi, rule.DeltaKi)
	}
}

func TestBuildRuleTableRejectsUnknownTerm(t *testing.T) {
	// GIVEN
	row := configuration.TermRow{"ZE", "ZE", "ZE", "ZE", "ZE", "ZE", "XL"}
	config := configuration.FuzzySetConfig{
		ID:      "custom",
		DeltaKp: []configuration.TermRow{row, row, row, row, row, row, row},
	}

	// WHEN
	table, err := BuildRuleTable(config)

	// THEN
	assert.Error(t, err)
	assert.Nil(t, table)
}

func TestRunProducesReportAndStability(t *testing.T) {
	// GIVEN
	config := testConfig()

	// WHEN
	result, err := Run(config.Scenarios[0], &config)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "baseline", result.GetId())
	assert.NotEmpty(t, result.Trajectory)
	assert.True(t, result.Routh.IsStable)
	assert.True(t, result.Nyquist.IsStable)
	assert.InDelta(t, 1.0/15.0, result.Routh.CriticalGain, 1e-9)
}

func TestRunWarmStartUsesSourceFinalOutput(t *testing.T) {
	// GIVEN
	config := testConfig()
	followup := config.Scenarios[0]
	followup.ID = "followup"
	followup.WarmStartFrom = "baseline"
	config.Scenarios = append(config.Scenarios, followup)

	baseline, err := Run(config.Scenarios[0], &config)
	assert.NoError(t, err)
	ResultMap.Set("baseline", baseline)
	defer ResultMap.Remove("baseline")

	// WHEN
	result, err := Run(followup, &config)

	// THEN
	assert.NoError(t, err)
	// the warm-started run begins near the source's final output
	// instead of the resting value
	assert.InDelta(t, baseline.Trajectory.Final().Output, result.Trajectory[0].Output, 1.0)
}

func TestRunWarmStartWithoutSourceResultFails(t *testing.T) {
	// GIVEN
	config := testConfig()
	followup := config.Scenarios[0]
	followup.ID = "followup"
	followup.WarmStartFrom = "baseline"

	// WHEN
	result, err := Run(followup, &config)

	// THEN
	assert.Error(t, err)
	assert.Nil(t, result)
}
