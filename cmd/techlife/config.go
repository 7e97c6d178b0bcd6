// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/techlife/pkg/types"
)

// setDefaults registers every config key so that environment variables and
// config files can override any of them.
func setDefaults() {
	d := types.DefaultPipelineConfig()
	defaults := map[string]any{
		"inputs.keywords.path":               d.Inputs.Keywords.Path,
		"inputs.keywords.keyword_column":     d.Inputs.Keywords.KeywordColumn,
		"inputs.promising_tech.path":         d.Inputs.PromisingTech.Path,
		"inputs.promising_tech.name_column":  d.Inputs.PromisingTech.NameColumn,
		"inputs.promising_tech.title_column": d.Inputs.PromisingTech.TitleColumn,
		"inputs.expenditure.path":            d.Inputs.Expenditure.Path,
		"inputs.expenditure.division_column": d.Inputs.Expenditure.DivisionColumn,
		"inputs.expenditure.amount_column":   d.Inputs.Expenditure.AmountColumn,
		"inputs.encoding":                    d.Inputs.Encoding,
		"thresholds.mature":                  d.Thresholds.Mature,
		"thresholds.growth":                  d.Thresholds.Growth,
		"output.path":                        d.Output.Path,
		"output.format":                      string(d.Output.Format),
		"output.stage_labels":                string(d.Output.StageLabels),
		"archive.db_path":                    d.Archive.DBPath,
		"metrics.textfile":                   d.Metrics.Textfile,
		"strict_exit":                        d.StrictExit,
	}
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// loadConfig resolves defaults, config file, environment, and flags into a
// validated pipeline configuration.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration the pipeline would run with after
applying defaults, the config file, TECHLIFE_* environment variables, and
flags. The output can be saved as techlife.yaml and edited.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(&cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
