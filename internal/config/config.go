package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "surveycli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Panels    []PanelConfig   `yaml:"panels" ignored:"true" validate:"dive"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system locations
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// PipelineConfig controls dataset cleaning runs
type PipelineConfig struct {
	// Workers bounds how many datasets are cleaned at once
	Workers      int      `yaml:"workers" envconfig:"WORKERS" validate:"gte=1,lte=64"`
	OutputFormat string   `yaml:"output_format" envconfig:"OUTPUT_FORMAT" validate:"oneof=csv parquet gob xlsx"`
	Datasets     []string `yaml:"datasets" envconfig:"DATASETS"`
	// FailFast stops the run at the first failed dataset
	FailFast bool `yaml:"fail_fast" envconfig:"FAIL_FAST"`
}

// TelemetryConfig controls tracing and metrics
type TelemetryConfig struct {
	Enabled        bool    `yaml:"enabled" envconfig:"ENABLED"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	MetricsAddr    string  `yaml:"metrics_addr" envconfig:"METRICS_ADDR"`
}

// PanelConfig describes one panel built from cleaned datasets
type PanelConfig struct {
	Name      string `yaml:"name" validate:"required"`
	TimeIndex string `yaml:"time_index" validate:"oneof=period mapped"`
	// MapColumn names the column holding the period when TimeIndex is "mapped"
	MapColumn      string         `yaml:"map_column" validate:"required_if=TimeIndex mapped"`
	DropIncomplete bool           `yaml:"drop_incomplete"`
	Datasets       []PanelDataset `yaml:"datasets" validate:"required,min=1,dive"`
}

// PanelDataset selects variables from one cleaned dataset. An empty list or
// the single entry "ALL" selects every column.
type PanelDataset struct {
	Name      string   `yaml:"name" validate:"required"`
	Variables []string `yaml:"variables"`
}

// AllVariables reports whether every column of the dataset is selected
func (d PanelDataset) AllVariables() bool {
	return len(d.Variables) == 0 || (len(d.Variables) == 1 && strings.EqualFold(d.Variables[0], AllVariables))
}

// Panel looks up a panel by name
func (c *Config) Panel(name string) (PanelConfig, bool) {
	for _, p := range c.Panels {
		if p.Name == name {
			return p, true
		}
	}
	return PanelConfig{}, false
}

// Load builds the configuration from defaults, then the YAML file at path
// (or the first default location when path is empty), then SURVEY_*
// environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config file %s", path), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// getConfigFilePath returns the first existing default config location
func getConfigFilePath() string {
	locations := []string{
		"survey.yaml",
		"configs/survey.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report YAML names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatValidationError(fe))
			}
			return apperrors.NewConfigError("config validation failed: "+strings.Join(msgs, "; "), err)
		}
		return apperrors.NewConfigError("config validation failed", err)
	}

	seen := make(map[string]struct{}, len(c.Panels))
	for _, p := range c.Panels {
		if _, dup := seen[p.Name]; dup {
			return apperrors.NewConfigError(fmt.Sprintf("duplicate panel %q", p.Name), nil)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

func formatValidationError(err validator.FieldError) string {
	field := err.Namespace()
	switch err.Tag() {
	case "required", "required_if", "required_unless":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(err.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, err.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/surveyclean.log",
		},
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Pipeline: PipelineConfig{
			Workers:      DefaultWorkers,
			OutputFormat: DefaultOutputFormat,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
