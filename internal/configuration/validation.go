package configuration

import (
	"errors"
	"fmt"

	"github.com/looplab/tarjan"
	"github.com/silosim/silotherm/internal/fuzzy"
	"github.com/silosim/silotherm/internal/ui"
	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if err := validatePlants(config); err != nil {
		return err
	}
	if err := validateControllers(config); err != nil {
		return err
	}
	if err := validateFuzzySets(config); err != nil {
		return err
	}
	return validateScenarios(config)
}

func validatePlants(config *Configuration) error {
	for _, plantConfig := range config.Plants {
		if len(plantConfig.ID) <= 0 {
			return errors.New("plant is missing an id")
		}
		if plantConfig.TimeConstant <= 0 {
			return fmt.Errorf("plant %s: time constant must be positive", plantConfig.ID)
		}
		if plantConfig.DeadTime < 0 {
			return fmt.Errorf("plant %s: dead time must not be negative", plantConfig.ID)
		}
		if resonance := plantConfig.Resonance; resonance != nil {
			if resonance.NaturalFrequency <= 0 {
				return fmt.Errorf("plant %s: natural frequency must be positive", plantConfig.ID)
			}
			if resonance.DampingRatio <= 0 || resonance.DampingRatio >= 1 {
				return fmt.Errorf("plant %s: damping ratio must lie in (0, 1)", plantConfig.ID)
			}
		}

		if !isPlantConfigInUse(plantConfig, config.Scenarios) {
			ui.Warning("Unused plant configuration: %s", plantConfig.ID)
		}
	}

	return nil
}

func isPlantConfigInUse(config PlantConfig, scenarios []ScenarioConfig) bool {
	for _, scenarioConfig := range scenarios {
		if scenarioConfig.Plant == config.ID {
			return true
		}
	}
	return false
}

func validateControllers(config *Configuration) error {
	for _, controllerConfig := range config.Controllers {
		if len(controllerConfig.ID) <= 0 {
			return errors.New("controller is missing an id")
		}

		subConfigs := 0
		if controllerConfig.P != nil {
			subConfigs++
		}
		if controllerConfig.I != nil {
			subConfigs++
		}
		if controllerConfig.D != nil {
			subConfigs++
		}
		if controllerConfig.PI != nil {
			subConfigs++
		}
		if controllerConfig.PID != nil {
			subConfigs++
		}
		if controllerConfig.FuzzyPID != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("controller %s: only one controller type can be used per controller definition block", controllerConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("controller %s: sub-configuration for controller is missing, use one of: p | i | d | pi | pid | fuzzyPid", controllerConfig.ID)
		}

		if pidConfig := controllerConfig.PID; pidConfig != nil {
			if pidConfig.Kp == 0 && pidConfig.Ki == 0 && pidConfig.Kd == 0 {
				return fmt.Errorf("controller %s: all PID gains are zero", controllerConfig.ID)
			}
		}

		if fuzzyConfig := controllerConfig.FuzzyPID; fuzzyConfig != nil {
			if len(fuzzyConfig.FuzzySet) > 0 && !fuzzySetIdExists(fuzzyConfig.FuzzySet, config) {
				return fmt.Errorf("controller %s: no fuzzy set definition with id '%s' found", controllerConfig.ID, fuzzyConfig.FuzzySet)
			}
			if fuzzyConfig.SensorLag != nil && *fuzzyConfig.SensorLag < 0 {
				return fmt.Errorf("controller %s: sensor lag must not be negative", controllerConfig.ID)
			}
		}

		if windup := antiWindupOf(controllerConfig); windup != nil {
			if windup.Min >= windup.Max {
				return fmt.Errorf("controller %s: anti-windup min must be below max", controllerConfig.ID)
			}
		}

		if !isControllerConfigInUse(controllerConfig, config.Scenarios) {
			ui.Warning("Unused controller configuration: %s", controllerConfig.ID)
		}
	}

	return nil
}

func antiWindupOf(config ControllerConfig) *AntiWindupConfig {
	switch {
	case config.PI != nil:
		return config.PI.AntiWindup
	case config.PID != nil:
		return config.PID.AntiWindup
	case config.FuzzyPID != nil:
		return config.FuzzyPID.AntiWindup
	}
	return nil
}

func isControllerConfigInUse(config ControllerConfig, scenarios []ScenarioConfig) bool {
	for _, scenarioConfig := range scenarios {
		if scenarioConfig.Controller == config.ID {
			return true
		}
	}
	return false
}

func validateFuzzySets(config *Configuration) error {
	for _, fuzzySetConfig := range config.FuzzySets {
		if len(fuzzySetConfig.ID) <= 0 {
			return errors.New("fuzzy set is missing an id")
		}

		domains := map[string]*DomainConfig{
			"errorDomain":     fuzzySetConfig.ErrorDomain,
			"errorRateDomain": fuzzySetConfig.ErrorRateDomain,
			"deltaKpDomain":   fuzzySetConfig.DeltaKpDomain,
			"deltaKiDomain":   fuzzySetConfig.DeltaKiDomain,
			"deltaKdDomain":   fuzzySetConfig.DeltaKdDomain,
		}
		for name, domain := range domains {
			if domain != nil && domain.Max <= domain.Min {
				return fmt.Errorf("fuzzy set %s: %s is empty", fuzzySetConfig.ID, name)
			}
		}

		matrices := map[string][]TermRow{
			"deltaKp": fuzzySetConfig.DeltaKp,
			"deltaKi": fuzzySetConfig.DeltaKi,
			"deltaKd": fuzzySetConfig.DeltaKd,
		}
		for name, matrix := range matrices {
			if len(matrix) <= 0 {
				continue
			}
			if len(matrix) != fuzzy.TermCount {
				return fmt.Errorf("fuzzy set %s: %s must have exactly %d rows", fuzzySetConfig.ID, name, fuzzy.TermCount)
			}
			for rowIdx, row := range matrix {
				if len(row) != fuzzy.TermCount {
					return fmt.Errorf("fuzzy set %s: %s row %d must have exactly %d cells", fuzzySetConfig.ID, name, rowIdx, fuzzy.TermCount)
				}
				for _, cell := range row {
					if _, err := fuzzy.ParseTerm(cell); err != nil {
						return fmt.Errorf("fuzzy set %s: %s row %d: %v", fuzzySetConfig.ID, name, rowIdx, err)
					}
				}
			}
		}
	}

	return nil
}

func fuzzySetIdExists(fuzzySetId string, config *Configuration) bool {
	for _, fuzzySetConfig := range config.FuzzySets {
		if fuzzySetConfig.ID == fuzzySetId {
			return true
		}
	}
	return false
}

func validateScenarios(config *Configuration) error {
	graph := make(map[interface{}][]interface{})
	var scenarioIds []string
	for _, scenarioConfig := range config.Scenarios {
		scenarioIds = append(scenarioIds, scenarioConfig.ID)
	}

	for _, scenarioConfig := range config.Scenarios {
		if len(scenarioConfig.ID) <= 0 {
			return errors.New("scenario is missing an id")
		}

		if len(scenarioConfig.Plant) <= 0 {
			return fmt.Errorf("scenario %s: missing plant id", scenarioConfig.ID)
		}
		if !plantIdExists(scenarioConfig.Plant, config) {
			return fmt.Errorf("scenario %s: no plant definition with id '%s' found", scenarioConfig.ID, scenarioConfig.Plant)
		}

		if len(scenarioConfig.Controller) <= 0 {
			return fmt.Errorf("scenario %s: missing controller id", scenarioConfig.ID)
		}
		if !controllerIdExists(scenarioConfig.Controller, config) {
			return fmt.Errorf("scenario %s: no controller definition with id '%s' found", scenarioConfig.ID, scenarioConfig.Controller)
		}

		if scenarioConfig.Duration <= 0 {
			return fmt.Errorf("scenario %s: duration must be positive", scenarioConfig.ID)
		}
		if scenarioConfig.Dt <= 0 {
			return fmt.Errorf("scenario %s: dt must be positive", scenarioConfig.ID)
		}
		if scenarioConfig.Dt >= scenarioConfig.Duration {
			return fmt.Errorf("scenario %s: dt must be smaller than the duration", scenarioConfig.ID)
		}
		if scenarioConfig.OverflowLimit < 0 {
			return fmt.Errorf("scenario %s: overflow limit must not be negative", scenarioConfig.ID)
		}

		var connections []interface{}
		if len(scenarioConfig.WarmStartFrom) > 0 {
			if scenarioConfig.WarmStartFrom == scenarioConfig.ID {
				return fmt.Errorf("scenario %s: a scenario cannot warm-start from itself", scenarioConfig.ID)
			}
			if !slices.Contains(scenarioIds, scenarioConfig.WarmStartFrom) {
				return fmt.Errorf("scenario %s: no scenario definition with id '%s' found", scenarioConfig.ID, scenarioConfig.WarmStartFrom)
			}
			connections = append(connections, scenarioConfig.WarmStartFrom)
		}
		graph[scenarioConfig.ID] = connections
	}

	return validateNoLoops(graph)
}

func plantIdExists(plantId string, config *Configuration) bool {
	for _, plantConfig := range config.Plants {
		if plantConfig.ID == plantId {
			return true
		}
	}
	return false
}

func controllerIdExists(controllerId string, config *Configuration) bool {
	for _, controllerConfig := range config.Controllers {
		if controllerConfig.ID == controllerId {
			return true
		}
	}
	return false
}

func validateNoLoops(graph map[interface{}][]interface{}) error {
	output := tarjan.Connections(graph)
	for _, items := range output {
		if len(items) > 1 {
			return fmt.Errorf("you have created a scenario warm-start cycle: %v", items)
		}
	}
	return nil
}
