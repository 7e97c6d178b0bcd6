// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Default source file names as published by the Innopolis Foundation
// ((재)연구개발특구진흥재단) on the public data portal.
const (
	DefaultKeywordsPath      = "(재)연구개발특구진흥재단_협약과제 키워드_20240826.csv"
	DefaultPromisingTechPath = "(재)연구개발특구진흥재단_유망기술집_20230210.csv"
	DefaultExpenditurePath   = "(재)연구개발특구진흥재단_연구개발특구 연구개발비 현황_20211231.CSV"
	DefaultOutputPath        = "data.json"
	DefaultEncoding          = "cp949"
)

// KeywordSourceConfig locates the agreement-project keyword file.
type KeywordSourceConfig struct {
	// Path is the CSV file path.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// KeywordColumn holds the technology keyword counted per row.
	KeywordColumn string `json:"keyword_column" yaml:"keyword_column" mapstructure:"keyword_column"`
}

// PromisingTechSourceConfig locates the promising-technology catalogue.
type PromisingTechSourceConfig struct {
	Path        string `json:"path" yaml:"path" mapstructure:"path"`
	NameColumn  string `json:"name_column" yaml:"name_column" mapstructure:"name_column"`
	TitleColumn string `json:"title_column" yaml:"title_column" mapstructure:"title_column"`
}

// ExpenditureSourceConfig locates the R&D expenditure table.
type ExpenditureSourceConfig struct {
	Path           string `json:"path" yaml:"path" mapstructure:"path"`
	DivisionColumn string `json:"division_column" yaml:"division_column" mapstructure:"division_column"`

	// AmountColumn is in millions of won and may contain thousands separators.
	AmountColumn string `json:"amount_column" yaml:"amount_column" mapstructure:"amount_column"`
}

// InputsConfig groups the three source tables and their shared text encoding.
type InputsConfig struct {
	Keywords      KeywordSourceConfig       `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
	PromisingTech PromisingTechSourceConfig `json:"promising_tech" yaml:"promising_tech" mapstructure:"promising_tech"`
	Expenditure   ExpenditureSourceConfig   `json:"expenditure" yaml:"expenditure" mapstructure:"expenditure"`

	// Encoding names the text encoding of all three files (e.g. "cp949", "utf-8").
	Encoding string `json:"encoding" yaml:"encoding" mapstructure:"encoding"`
}

// ThresholdConfig holds the keyword-count boundaries between lifecycle stages.
// A count above Mature is mature; above Growth (and up to Mature) is growth;
// anything else is early.
type ThresholdConfig struct {
	Mature int `json:"mature" yaml:"mature" mapstructure:"mature"`
	Growth int `json:"growth" yaml:"growth" mapstructure:"growth"`
}

// OutputFormat selects the report serialization.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatXLSX OutputFormat = "xlsx"
)

// StageLabels selects how lifecycle stages are spelled in the report.
type StageLabels string

const (
	LabelsEnglish StageLabels = "en"
	LabelsKorean  StageLabels = "ko"
)

// OutputConfig controls where and how the report is written.
type OutputConfig struct {
	Path        string       `json:"path" yaml:"path" mapstructure:"path"`
	Format      OutputFormat `json:"format" yaml:"format" mapstructure:"format"`
	StageLabels StageLabels  `json:"stage_labels" yaml:"stage_labels" mapstructure:"stage_labels"`
}

// ArchiveConfig enables the SQLite run history. An empty DBPath disables it.
type ArchiveConfig struct {
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
}

// MetricsConfig enables a Prometheus textfile-collector export.
type MetricsConfig struct {
	Textfile string `json:"textfile" yaml:"textfile" mapstructure:"textfile"`
}

// PipelineConfig groups every setting the pipeline reads.
type PipelineConfig struct {
	Inputs     InputsConfig    `json:"inputs" yaml:"inputs" mapstructure:"inputs"`
	Thresholds ThresholdConfig `json:"thresholds" yaml:"thresholds" mapstructure:"thresholds"`
	Output     OutputConfig    `json:"output" yaml:"output" mapstructure:"output"`
	Archive    ArchiveConfig   `json:"archive" yaml:"archive" mapstructure:"archive"`
	Metrics    MetricsConfig   `json:"metrics" yaml:"metrics" mapstructure:"metrics"`

	// StrictExit makes a failed run return a non-zero exit status in
	// addition to the printed message.
	StrictExit bool `json:"strict_exit" yaml:"strict_exit" mapstructure:"strict_exit"`
}

// DefaultPipelineConfig returns the configuration that reproduces the
// historical zero-argument behaviour.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Inputs: InputsConfig{
			Keywords: KeywordSourceConfig{
				Path:          DefaultKeywordsPath,
				KeywordColumn: "키워드명",
			},
			PromisingTech: PromisingTechSourceConfig{
				Path:        DefaultPromisingTechPath,
				NameColumn:  "기술명",
				TitleColumn: "발명의 명칭",
			},
			Expenditure: ExpenditureSourceConfig{
				Path:           DefaultExpenditurePath,
				DivisionColumn: "구분",
				AmountColumn:   "총 연구개발비(백만원)",
			},
			Encoding: DefaultEncoding,
		},
		Thresholds: ThresholdConfig{Mature: 10, Growth: 5},
		Output: OutputConfig{
			Path:        DefaultOutputPath,
			Format:      FormatJSON,
			StageLabels: LabelsEnglish,
		},
	}
}

// Validate reports configuration errors before any file is touched.
func (c PipelineConfig) Validate() error {
	var errs []error
	required := []struct{ name, value string }{
		{"inputs.keywords.path", c.Inputs.Keywords.Path},
		{"inputs.keywords.keyword_column", c.Inputs.Keywords.KeywordColumn},
		{"inputs.promising_tech.path", c.Inputs.PromisingTech.Path},
		{"inputs.promising_tech.name_column", c.Inputs.PromisingTech.NameColumn},
		{"inputs.promising_tech.title_column", c.Inputs.PromisingTech.TitleColumn},
		{"inputs.expenditure.path", c.Inputs.Expenditure.Path},
		{"inputs.expenditure.division_column", c.Inputs.Expenditure.DivisionColumn},
		{"inputs.expenditure.amount_column", c.Inputs.Expenditure.AmountColumn},
		{"inputs.encoding", c.Inputs.Encoding},
		{"output.path", c.Output.Path},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", r.name))
		}
	}

	if c.Thresholds.Growth < 0 || c.Thresholds.Mature < 0 {
		errs = append(errs, fmt.Errorf("thresholds must be non-negative (growth=%d, mature=%d)",
			c.Thresholds.Growth, c.Thresholds.Mature))
	}
	if c.Thresholds.Growth >= c.Thresholds.Mature {
		errs = append(errs, fmt.Errorf("thresholds.growth (%d) must be below thresholds.mature (%d)",
			c.Thresholds.Growth, c.Thresholds.Mature))
	}

	switch c.Output.Format {
	case FormatJSON, FormatYAML, FormatXLSX:
	default:
		errs = append(errs, fmt.Errorf("unsupported output format %q: use json, yaml, or xlsx", c.Output.Format))
	}
	switch c.Output.StageLabels {
	case LabelsEnglish, LabelsKorean:
	default:
		errs = append(errs, fmt.Errorf("unsupported stage labels %q: use en or ko", c.Output.StageLabels))
	}

	return errors.Join(errs...)
}
