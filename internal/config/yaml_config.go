package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"splitpath/internal/models"
)

// YAMLConfig represents the structure of the optional config.yaml file.
// It declares experiments that should exist at startup, which is easier
// to manage than creating them by hand on every fresh deployment.
type YAMLConfig struct {
	Experiments []ExperimentConfig `yaml:"experiments"`
}

// ExperimentConfig defines an experiment in the YAML config.
type ExperimentConfig struct {
	Name     string          `yaml:"name"`
	Status   string          `yaml:"status,omitempty"` // defaults to "active"
	Variants []VariantConfig `yaml:"variants"`
}

// VariantConfig defines a variant in the YAML config.
type VariantConfig struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path"`
	Weight    int    `yaml:"weight,omitempty"` // defaults to 1
	IsControl bool   `yaml:"is_control,omitempty"`
}

// ToModel converts the declared experiment into its model form.
func (e ExperimentConfig) ToModel() models.Experiment {
	exp := models.Experiment{
		Name:   e.Name,
		Status: e.Status,
	}
	for _, v := range e.Variants {
		exp.Variants = append(exp.Variants, models.Variant{
			Name:      v.Name,
			Path:      v.Path,
			Weight:    v.Weight,
			IsControl: v.IsControl,
		})
	}
	return exp
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	for i := range cfg.Experiments {
		if cfg.Experiments[i].Status == "" {
			cfg.Experiments[i].Status = "active"
		}
		for j := range cfg.Experiments[i].Variants {
			if cfg.Experiments[i].Variants[j].Weight == 0 {
				cfg.Experiments[i].Variants[j].Weight = 1
			}
		}
	}

	return &cfg, nil
}
