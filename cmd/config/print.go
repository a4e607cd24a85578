package config

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/silosim/silotherm/internal/configuration"
	"github.com/silosim/silotherm/internal/ui"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Prints the active configuration",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)

		content, err := os.ReadFile(configPath)
		if err != nil {
			return err
		}
		ui.Printfln("%s", string(content))
		return nil
	},
}

func init() {
	Command.AddCommand(printCmd)
}
