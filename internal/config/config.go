package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"growlab/pkg/contracts/domain"
)

// Config is the complete application configuration. Defaults and
// environment variables (GROWLAB_ prefix) are applied first; values from
// the optional YAML file override them.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"100"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/growlab.log"`
}

// DataConfig describes where the experiment data lives and how its files
// are named.
type DataConfig struct {
	// Dir is resolved relative to the executable when not absolute.
	Dir string `yaml:"dir" envconfig:"DIR" default:"data" validate:"required"`
	// EnvironmentSuffix is appended to a school display name to form its
	// environment CSV file name.
	EnvironmentSuffix string `yaml:"environment_suffix" envconfig:"ENVIRONMENT_SUFFIX" default:"_환경데이터.csv" validate:"required"`
	// GrowthWorkbook is the shared growth-results workbook file name.
	GrowthWorkbook string `yaml:"growth_workbook" envconfig:"GROWTH_WORKBOOK" default:"4개교_생육결과데이터.xlsx" validate:"required"`
	// Schools is the closed school set with target-EC setpoints. YAML only;
	// defaults to the four experiment schools.
	Schools []domain.School `yaml:"schools" validate:"min=1,dive"`
}

// DefaultSchools returns the four schools of the polar-plant experiment
// and their nominal EC setpoints.
func DefaultSchools() []domain.School {
	return []domain.School{
		{ID: "송도고", TargetEC: 1.0, Color: "#1f77b4"},
		{ID: "하늘고", TargetEC: 2.0, Color: "#2ca02c"},
		{ID: "아라고", TargetEC: 4.0, Color: "#ff7f0e"},
		{ID: "동산고", TargetEC: 8.0, Color: "#d62728"},
	}
}

// Load loads configuration from the optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadFromFile(os.Getenv("GROWLAB_CONFIG_FILE"))
}

// LoadFromFile is Load with an explicit config file path. An empty path
// skips the file; a named but missing file is an error.
func LoadFromFile(path string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("GROWLAB", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if len(cfg.Data.Schools) == 0 {
		cfg.Data.Schools = DefaultSchools()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[domain.SchoolID]bool, len(c.Data.Schools))
	for _, s := range c.Data.Schools {
		if seen[s.ID] {
			return fmt.Errorf("invalid configuration: duplicate school %q", s.ID)
		}
		seen[s.ID] = true
	}

	return nil
}

// SchoolSet builds the immutable school set from the configuration.
func (c *Config) SchoolSet() *domain.SchoolSet {
	return domain.NewSchoolSet(c.Data.Schools)
}
