package scenario

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/silosim/silotherm/internal/configuration"
	"github.com/silosim/silotherm/internal/scenarios"
	"github.com/silosim/silotherm/internal/ui"
	"github.com/silosim/silotherm/internal/util"
)

var exportPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single scenario and print its results",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if len(scenarioId) <= 0 {
			return fmt.Errorf("required flag \"id\" not set")
		}
		loadAndValidateConfig()

		scenarioConf, err := getScenarioConfig(scenarioId, configuration.CurrentConfig.Scenarios)
		if err != nil {
			return err
		}

		chain, err := warmStartChain(*scenarioConf, configuration.CurrentConfig.Scenarios)
		if err != nil {
			return err
		}

		var result *scenarios.Result
		for _, link := range chain {
			if link.ID != scenarioConf.ID {
				ui.Info("Running warm-start source %s...", link.ID)
			}
			result, err = scenarios.Run(link, &configuration.CurrentConfig)
			if err != nil {
				return err
			}
			scenarios.ResultMap.Set(link.ID, result)
		}

		printResult(result)

		if len(exportPath) > 0 {
			if err = exportCsv(result, exportPath); err != nil {
				return err
			}
			ui.Success("Trajectory written to %s", exportPath)
		}

		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(
		&exportPath,
		"export", "e",
		"",
		"Write the trajectory to the given file as CSV",
	)
	Command.AddCommand(runCmd)
}

// warmStartChain resolves the scenarios that must run before the given
// one, ordered sources first. Config validation guarantees the chain
// is acyclic.
func warmStartChain(scenarioConf configuration.ScenarioConfig, all []configuration.ScenarioConfig) ([]configuration.ScenarioConfig, error) {
	chain := []configuration.ScenarioConfig{scenarioConf}
	current := scenarioConf
	for len(current.WarmStartFrom) > 0 {
		source, err := getScenarioConfig(current.WarmStartFrom, all)
		if err != nil {
			return nil, err
		}
		chain = append([]configuration.ScenarioConfig{*source}, chain...)
		current = *source
	}
	return chain, nil
}

func printResult(result *scenarios.Result) {
	printTable(
		[]string{"Rise time", "Settling time", "Overshoot", "Steady-state error", "Mean action"},
		[][]string{{
			formatSeconds(result.Report.RiseTime),
			formatSeconds(result.Report.SettlingTime),
			fmt.Sprintf("%.2f %%", result.Report.OvershootPercent),
			fmt.Sprintf("%.3f", result.Report.SteadyStateError),
			fmt.Sprintf("%.3f", util.Avg(result.Trajectory.Actions())),
		}},
	)

	values := result.Trajectory.Outputs()
	caption := fmt.Sprintf("output / time (%s total)", formatSeconds(result.Trajectory.Duration()))
	graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
	ui.Printfln(graph)
}

func exportCsv(result *scenarios.Result, path string) error {
	var builder strings.Builder
	builder.WriteString("time_seconds,output,action,error\n")
	for _, sample := range result.Trajectory {
		builder.WriteString(fmt.Sprintf("%g,%g,%g,%g\n", sample.Time, sample.Output, sample.Action, sample.Error))
	}
	return util.WriteStringToFileAtomic(builder.String(), path)
}
