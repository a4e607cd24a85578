package scenario

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/silosim/silotherm/internal/configuration"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print an overview of all configured scenarios",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		loadAndValidateConfig()

		rows := [][]string{}
		for _, scenarioConf := range configuration.CurrentConfig.Scenarios {
			rows = append(rows, []string{
				scenarioConf.ID,
				scenarioConf.Plant,
				scenarioConf.Controller,
				fmt.Sprintf("%.2f", scenarioConf.Setpoint),
				scenarioConf.Duration.String(),
				scenarioConf.Dt.String(),
				scenarioConf.WarmStartFrom,
			})
		}
		printTable(
			[]string{"ID", "Plant", "Controller", "Setpoint", "Duration", "Dt", "Warm start"},
			rows,
		)

		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
