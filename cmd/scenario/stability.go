package scenario

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/silosim/silotherm/internal/analysis"
	"github.com/silosim/silotherm/internal/configuration"
	"github.com/silosim/silotherm/internal/scenarios"
)

var stabilityCmd = &cobra.Command{
	Use:   "stability",
	Short: "Print the stability verdict of every configured scenario",
	Long: `Evaluates the Routh-Hurwitz criterion, the Nyquist criterion and
the Bode stability margins of each closed loop without simulating it.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		loadAndValidateConfig()

		rows := [][]string{}
		for _, scenarioConf := range configuration.CurrentConfig.Scenarios {
			plantConf, err := findPlantConfig(scenarioConf.Plant)
			if err != nil {
				return err
			}
			controllerConf, err := findControllerConfig(scenarioConf.Controller)
			if err != nil {
				return err
			}

			p, err := scenarios.BuildPlant(plantConf)
			if err != nil {
				return err
			}
			c, err := scenarios.BuildController(controllerConf, p.DeadTime, &configuration.CurrentConfig)
			if err != nil {
				return err
			}

			kc := c.Gains().Kp
			routh := analysis.RouthHurwitz(p, kc)
			nyquist := analysis.Nyquist(p, kc)
			bode := analysis.BodeMargins(p, kc)

			rows = append(rows, []string{
				scenarioConf.ID,
				verdict(routh.IsStable),
				formatGain(routh.CriticalGain),
				verdict(nyquist.IsStable),
				fmt.Sprintf("%d", nyquist.Encirclements),
				formatMargin(bode.GainMarginDb, "dB"),
				formatMargin(bode.PhaseMarginDeg, "deg"),
			})
		}

		printTable(
			[]string{"ID", "Routh", "Critical gain", "Nyquist", "Encirclements", "Gain margin", "Phase margin"},
			rows,
		)

		return nil
	},
}

func init() {
	Command.AddCommand(stabilityCmd)
}

func findPlantConfig(id string) (configuration.PlantConfig, error) {
	for _, plantConf := range configuration.CurrentConfig.Plants {
		if plantConf.ID == id {
			return plantConf, nil
		}
	}
	return configuration.PlantConfig{}, fmt.Errorf("no plant definition with id '%s' found", id)
}

func findControllerConfig(id string) (configuration.ControllerConfig, error) {
	for _, controllerConf := range configuration.CurrentConfig.Controllers {
		if controllerConf.ID == id {
			return controllerConf, nil
		}
	}
	return configuration.ControllerConfig{}, fmt.Errorf("no controller definition with id '%s' found", id)
}

func verdict(stable bool) string {
	if stable {
		return "stable"
	}
	return "unstable"
}

func formatGain(gain float64) string {
	if math.IsInf(gain, 1) {
		return "unbounded"
	}
	return fmt.Sprintf("%.4f", gain)
}

func formatMargin(value float64, unit string) string {
	if math.IsInf(value, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f %s", value, unit)
}
