package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"wealth-dashboard/internal/data"
	"wealth-dashboard/internal/derive"
	"wealth-dashboard/internal/model"
	"wealth-dashboard/internal/params"
	"wealth-dashboard/internal/present"

	"gopkg.in/yaml.v3"
)

// EnvServiceURL overrides service.base_url. It is the only environment override.
const EnvServiceURL = "SIMULATION_SERVICE_URL"

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Derive  DeriveConfig  `yaml:"derive"`
	Charts  ChartsConfig  `yaml:"charts"`

	// Optional: load starting parameters from a separate YAML (e.g. parameters/baseline.yaml).
	// Parameters set below override the file.
	ParametersFile string             `yaml:"parameters_file"`
	Parameters     ParameterOverrides `yaml:"parameters"`

	// Simulation is the resolved starting configuration: defaults, then
	// parameters_file, then parameters.
	Simulation model.SimulationConfig `yaml:"-"`
}

type ServiceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	Mode           string   `yaml:"mode"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DeriveConfig struct {
	DecileLabels string `yaml:"decile_labels"`
}

type ChartsConfig struct {
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ParameterOverrides is a partial SimulationConfig. Nil fields are left alone,
// so an explicit zero still overrides.
type ParameterOverrides struct {
	TotalPopulation    *int     `yaml:"total_population"`
	NumTimeSteps       *int     `yaml:"num_time_steps"`
	InheritanceTaxRate *float64 `yaml:"inheritance_tax_rate"`
	WealthTaxRate      *float64 `yaml:"wealth_tax"`
	CapitalGainsTax    *float64 `yaml:"cg_tax"`

	WealthPerDecile  []float64 `yaml:"wealth_per_decile"`
	BirthRate        []float64 `yaml:"birth_rate"`
	DeathRate        []float64 `yaml:"death_rate"`
	NetMigration     []float64 `yaml:"net_migration"`
	RateOfReturn     []float64 `yaml:"rate_of_return"`
	SavingsRate      []float64 `yaml:"savings_rate"`
	WageBandLow      []float64 `yaml:"wage_band_low"`
	WageBandHigh     []float64 `yaml:"wage_band_high"`
	UnemploymentRate []float64 `yaml:"unemployment_rate"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{BaseURL: data.DefaultBaseURL, Timeout: 2 * time.Minute},
		Server: ServerConfig{
			Addr:           ":8080",
			Mode:           "debug",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Log:    LogConfig{Level: "info", Format: "json"},
		Derive: DeriveConfig{DecileLabels: derive.LabelsFromFirstSnapshot.String()},
		Charts: ChartsConfig{
			Width:    present.DefaultWidth,
			Height:   present.DefaultHeight,
			CacheTTL: present.DefaultCacheTTL,
		},
		Simulation: params.Default(),
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// An empty path yields the defaults plus the environment override.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	sim := params.Default()
	if c.ParametersFile != "" {
		paramsPath := c.ParametersFile
		if !filepath.IsAbs(paramsPath) && path != "" {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), paramsPath)
			if _, err := os.Stat(cand); err == nil {
				paramsPath = cand
			}
		}
		loaded, err := LoadParametersFile(paramsPath)
		if err != nil {
			return nil, err
		}
		sim = MergeParameters(sim, loaded)
	}
	c.Simulation = MergeParameters(sim, c.Parameters)

	c.applyEnv(os.LookupEnv)
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvServiceURL); ok && v != "" {
		c.Service.BaseURL = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("service.base_url %q must be an http(s) URL", c.Service.BaseURL)
	}
	if c.Service.Timeout < 0 {
		return errors.New("service.timeout must not be negative")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release or test", c.Server.Mode)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q must be json or text", c.Log.Format)
	}
	if _, err := derive.ParseLabelPolicy(c.Derive.DecileLabels); err != nil {
		return fmt.Errorf("derive.decile_labels: %w", err)
	}
	if c.Charts.Width < 0 || c.Charts.Height < 0 {
		return errors.New("charts.width and charts.height must not be negative")
	}
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("parameters invalid: %w", err)
	}
	return nil
}

// LabelPolicy returns the parsed derive.decile_labels setting.
func (c *Config) LabelPolicy() derive.LabelPolicy {
	p, err := derive.ParseLabelPolicy(c.Derive.DecileLabels)
	if err != nil {
		return derive.LabelsFromFirstSnapshot
	}
	return p
}

type parametersFileWrapper struct {
	Parameters ParameterOverrides `yaml:"parameters"`
}

// LoadParametersFile reads a YAML document with a top-level parameters key.
func LoadParametersFile(path string) (ParameterOverrides, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ParameterOverrides{}, err
	}
	var w parametersFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ParameterOverrides{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Parameters, nil
}

// MergeParameters overlays the set fields of override onto a copy of base.
func MergeParameters(base model.SimulationConfig, override ParameterOverrides) model.SimulationConfig {
	out := base.Clone()
	if override.TotalPopulation != nil {
		out.TotalPopulation = *override.TotalPopulation
	}
	if override.NumTimeSteps != nil {
		out.NumTimeSteps = *override.NumTimeSteps
	}
	if override.InheritanceTaxRate != nil {
		out.InheritanceTaxRate = *override.InheritanceTaxRate
	}
	if override.WealthTaxRate != nil {
		out.WealthTaxRate = *override.WealthTaxRate
	}
	if override.CapitalGainsTax != nil {
		out.CapitalGainsTax = *override.CapitalGainsTax
	}

	vectors := []struct {
		dst *[]float64
		src []float64
	}{
		{&out.WealthPerDecile, override.WealthPerDecile},
		{&out.BirthRate, override.BirthRate},
		{&out.DeathRate, override.DeathRate},
		{&out.NetMigration, override.NetMigration},
		{&out.RateOfReturn, override.RateOfReturn},
		{&out.SavingsRate, override.SavingsRate},
		{&out.WageBandLow, override.WageBandLow},
		{&out.WageBandHigh, override.WageBandHigh},
		{&out.UnemploymentRate, override.UnemploymentRate},
	}
	for _, v := range vectors {
		if v.src != nil {
			*v.dst = append([]float64(nil), v.src...)
		}
	}
	return out
}
