package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"

	"github.com/silosim/silotherm/cmd/global"
	"github.com/silosim/silotherm/internal/configuration"
	"github.com/silosim/silotherm/internal/ui"
)

var scenarioId string

var Command = &cobra.Command{
	Use:              "scenario",
	Short:            "Scenario related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&scenarioId,
		"id", "i",
		"",
		"Scenario ID as specified in the config",
	)
}

func getScenarioConfig(id string, scenarios []configuration.ScenarioConfig) (*configuration.ScenarioConfig, error) {
	availableScenarioIds := []string{}
	for _, scenarioConf := range scenarios {
		availableScenarioIds = append(availableScenarioIds, scenarioConf.ID)
		if id == scenarioConf.ID {
			return &scenarioConf, nil
		}
	}

	return nil, errors.New(fmt.Sprintf("No scenario with id found: %s, options: %s", id, availableScenarioIds))
}

func loadAndValidateConfig() {
	configPath := configuration.DetectConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	if err := configuration.Validate(); err != nil {
		ui.Fatal(err.Error())
	}
}

func printTable(headers []string, rows [][]string) {
	tab := table.Table{
		Headers: headers,
		Rows:    rows,
	}
	var buf bytes.Buffer
	tableErr := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if tableErr != nil {
		panic(tableErr)
	}
	ui.Printfln(buf.String())
}

// formatSeconds renders a duration given in seconds in the h/m/s
// notation used by the config files. Unreached metrics come in as
// +Inf.
func formatSeconds(seconds float64) string {
	if math.IsInf(seconds, 1) {
		return "never"
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}
