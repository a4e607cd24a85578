package configuration

import (
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/silosim/silotherm/internal/ui"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`

	Plants      []PlantConfig      `json:"plants"`
	Controllers []ControllerConfig `json:"controllers"`
	FuzzySets   []FuzzySetConfig   `json:"fuzzySets"`
	Scenarios   []ScenarioConfig   `json:"scenarios"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("silotherm")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/silotherm/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbpath", "/etc/silotherm/silotherm.db")

	viper.SetDefault("api", ApiConfig{
		Enabled: false,
		Host:    "localhost",
		Port:    9428,
	})
	viper.SetDefault("statistics", StatisticsConfig{
		Enabled: false,
		Port:    9429,
	})

	viper.SetDefault("plants", []PlantConfig{})
	viper.SetDefault("controllers", []ControllerConfig{})
	viper.SetDefault("fuzzysets", []FuzzySetConfig{})
	viper.SetDefault("scenarios", []ScenarioConfig{})
}

// DetectConfigFile returns the path of the config file viper resolved.
func DetectConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	// load default configuration values
	err := viper.Unmarshal(
		&CurrentConfig,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			TermRowHookFunc(),
		)),
	)
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}
