package scenarios

import (
	"fmt"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/silosim/silotherm/internal/analysis"
	"github.com/silosim/silotherm/internal/configuration"
	"github.com/silosim/silotherm/internal/control"
	"github.com/silosim/silotherm/internal/fuzzy"
	"github.com/silosim/silotherm/internal/plant"
	"github.com/silosim/silotherm/internal/simulation"
	"github.com/silosim/silotherm/internal/ui"
)

var (
	// ResultMap holds the result of the most recent run of each
	// scenario, keyed by scenario id.
	ResultMap = cmap.New[*Result]()
)

// Result bundles everything one closed-loop run produced.
type Result struct {
	Config configuration.ScenarioConfig `json:"config"`

	Trajectory simulation.Trajectory `json:"trajectory"`
	Report     analysis.Report       `json:"report"`

	Routh   analysis.RouthResult   `json:"routh"`
	Nyquist analysis.NyquistResult `json:"nyquist"`
	Bode    analysis.BodeResult    `json:"bode"`

	CompletedAt time.Time `json:"completedAt"`
}

func (r *Result) GetId() string {
	return r.Config.ID
}

// Run executes the given scenario against the current configuration.
// Plant and controller are constructed fresh for every call, so
// independent runs never share mutable state.
func Run(scenarioConfig configuration.ScenarioConfig, config *configuration.Configuration) (*Result, error) {
	plantConfig, err := findPlantConfig(scenarioConfig.Plant, config)
	if err != nil {
		return nil, err
	}
	controllerConfig, err := findControllerConfig(scenarioConfig.Controller, config)
	if err != nil {
		return nil, err
	}

	p, err := BuildPlant(plantConfig)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenarioConfig.ID, err)
	}
	c, err := BuildController(controllerConfig, p.DeadTime, config)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenarioConfig.ID, err)
	}

	initialOutput := scenarioConfig.InitialOutput
	if len(scenarioConfig.WarmStartFrom) > 0 {
		previous, exists := ResultMap.Get(scenarioConfig.WarmStartFrom)
		if !exists {
			return nil, fmt.Errorf("scenario %s: warm-start source '%s' has no result yet", scenarioConfig.ID, scenarioConfig.WarmStartFrom)
		}
		initialOutput = previous.Trajectory.Final().Output
		ui.Debug("Scenario %s: warm-starting at %.3f from scenario %s", scenarioConfig.ID, initialOutput, scenarioConfig.WarmStartFrom)
	}

	trajectory, err := simulation.Run(p, c, simulation.Options{
		Setpoint:        scenarioConfig.Setpoint,
		InitialOutput:   initialOutput,
		Duration:        scenarioConfig.Duration.Seconds(),
		Dt:              scenarioConfig.Dt.Seconds(),
		SmoothingWindow: scenarioConfig.SmoothingWindow,
		OverflowLimit:   scenarioConfig.OverflowLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenarioConfig.ID, err)
	}

	report, err := analysis.Extract(trajectory, scenarioConfig.Setpoint)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenarioConfig.ID, err)
	}

	kc := c.Gains().Kp
	result := &Result{
		Config:      scenarioConfig,
		Trajectory:  trajectory,
		Report:      report,
		Routh:       analysis.RouthHurwitz(p, kc),
		Nyquist:     analysis.Nyquist(p, kc),
		Bode:        analysis.BodeMargins(p, kc),
		CompletedAt: time.Now(),
	}
	return result, nil
}

func findPlantConfig(id string, config *configuration.Configuration) (configuration.PlantConfig, error) {
	for _, plantConfig := range config.Plants {
		if plantConfig.ID == id {
			return plantConfig, nil
		}
	}
	return configuration.PlantConfig{}, fmt.Errorf("no plant definition with id '%s' found", id)
}

func findControllerConfig(id string, config *configuration.Configuration) (configuration.ControllerConfig, error) {
	for _, controllerConfig := range config.Controllers {
		if controllerConfig.ID == id {
			return controllerConfig, nil
		}
	}
	return configuration.ControllerConfig{}, fmt.Errorf("no controller definition with id '%s' found", id)
}

// BuildPlant constructs a fresh plant from its configuration.
func BuildPlant(config configuration.PlantConfig) (*plant.Plant, error) {
	var resonance *plant.Resonance
	if config.Resonance != nil {
		weight := config.Resonance.Weight
		if weight == 0 {
			weight = configuration.DefaultResonanceWeight
		}
		resonance = &plant.Resonance{
			NaturalFrequency: config.Resonance.NaturalFrequency,
			DampingRatio:     config.Resonance.DampingRatio,
			Weight:           weight,
		}
	}
	return plant.NewPlant(
		config.Gain,
		config.TimeConstant.Seconds(),
		config.DeadTime.Seconds(),
		resonance,
	)
}

// BuildController constructs a fresh controller from its
// configuration. plantDeadTimeSeconds is used as the default sensor
// lag of the fuzzy variant.
func BuildController(config configuration.ControllerConfig, plantDeadTimeSeconds float64, fullConfig *configuration.Configuration) (control.Controller, error) {
	switch {
	case config.P != nil:
		return control.NewPController(config.ID, config.P.Kp), nil
	case config.I != nil:
		return control.NewIController(config.ID, config.I.Ki), nil
	case config.D != nil:
		return control.NewDController(config.ID, config.D.Kd), nil
	case config.PI != nil:
		c := control.NewPiController(config.ID, config.PI.Kp, config.PI.Ki)
		if windup := config.PI.AntiWindup; windup != nil {
			c = c.WithAntiWindup(windup.Min, windup.Max)
		}
		return c, nil
	case config.PID != nil:
		c := control.NewPidController(config.ID, control.Gains{
			Kp: config.PID.Kp,
			Ki: config.PID.Ki,
			Kd: config.PID.Kd,
		})
		if windup := config.PID.AntiWindup; windup != nil {
			c = c.WithAntiWindup(windup.Min, windup.Max)
		}
		return c, nil
	case config.FuzzyPID != nil:
		return buildFuzzyPidController(config, plantDeadTimeSeconds, fullConfig)
	}

	return nil, fmt.Errorf("no matching controller type for controller: %s", config.ID)
}

func buildFuzzyPidController(config configuration.ControllerConfig, plantDeadTimeSeconds float64, fullConfig *configuration.Configuration) (control.Controller, error) {
	fuzzyConfig := config.FuzzyPID

	table := fuzzy.DefaultRuleTable()
	if len(fuzzyConfig.FuzzySet) > 0 {
		fuzzySetConfig, err := findFuzzySetConfig(fuzzyConfig.FuzzySet, fullConfig)
		if err != nil {
			return nil, err
		}
		table, err = BuildRuleTable(fuzzySetConfig)
		if err != nil {
			return nil, err
		}
	}

	engine, err := fuzzy.NewEngine(table)
	if err != nil {
		return nil, err
	}

	sensorLag := plantDeadTimeSeconds
	if fuzzyConfig.SensorLag != nil {
		sensorLag = fuzzyConfig.SensorLag.Seconds()
	}

	c := control.NewFuzzyPidController(config.ID, control.Gains{
		Kp: fuzzyConfig.Kp,
		Ki: fuzzyConfig.Ki,
		Kd: fuzzyConfig.Kd,
	}, engine, sensorLag)
	if windup := fuzzyConfig.AntiWindup; windup != nil {
		c = c.WithAntiWindup(windup.Min, windup.Max)
	}
	return c, nil
}

func findFuzzySetConfig(id string, config *configuration.Configuration) (configuration.FuzzySetConfig, error) {
	for _, fuzzySetConfig := range config.FuzzySets {
		if fuzzySetConfig.ID == id {
			return fuzzySetConfig, nil
		}
	}
	return configuration.FuzzySetConfig{}, fmt.Errorf("no fuzzy set definition with id '%s' found", id)
}

// BuildRuleTable turns a fuzzy set configuration into a rule table,
// falling back to the defaults for every omitted piece.
func BuildRuleTable(config configuration.FuzzySetConfig) (*fuzzy.RuleTable, error) {
	table := fuzzy.DefaultRuleTable()

	applyDomain := func(target *fuzzy.Domain, source *configuration.DomainConfig) {
		if source != nil {
			*target = fuzzy.Domain{Min: source.Min, Max: source.Max}
		}
	}
	applyDomain(&table.ErrorDomain, config.ErrorDomain)
	applyDomain(&table.ErrorRateDomain, config.ErrorRateDomain)
	applyDomain(&table.DeltaKpDomain, config.DeltaKpDomain)
	applyDomain(&table.DeltaKiDomain, config.DeltaKiDomain)
	applyDomain(&table.DeltaKdDomain, config.DeltaKdDomain)

	matrices := []struct {
		rows []configuration.TermRow
		set  func(rule *fuzzy.Rule, term fuzzy.Term)
	}{
		{config.DeltaKp, func(rule *fuzzy.Rule, term fuzzy.Term) { rule.DeltaKp = term }},
		{config.DeltaKi, func(rule *fuzzy.Rule, term fuzzy.Term) { rule.DeltaKi = term }},
		{config.DeltaKd, func(rule *fuzzy.Rule, term fuzzy.Term) { rule.DeltaKd = term }},
	}
	for _, matrix := range matrices {
		if len(matrix.rows) <= 0 {
			continue
		}
		if len(matrix.rows) != fuzzy.TermCount {
			return nil, fmt.Errorf("fuzzy set %s: consequent matrix must have exactly %d rows", config.ID, fuzzy.TermCount)
		}
		for ruleIdx := range table.Rules {
			rule := &table.Rules[ruleIdx]
			row := matrix.rows[rule.Error]
			if len(row) != fuzzy.TermCount {
				return nil, fmt.Errorf("fuzzy set %s: consequent row for term %s must have exactly %d cells", config.ID, rule.Error, fuzzy.TermCount)
			}
			term, err := fuzzy.ParseTerm(row[rule.ErrorRate])
			if err != nil {
				return nil, fmt.Errorf("fuzzy set %s: %w", config.ID, err)
			}
			matrix.set(rule, term)
		}
	}

	return table, nil
}
