// Package config defines the data structures related to configuration and
// includes functions for loading, resolving and validating simulations.
package config

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/property-yield/internal/acquisition"
	"github.com/iwvelando/property-yield/internal/regime"
	"github.com/iwvelando/property-yield/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for property-yield.
type Configuration struct {
	Common    Common        `yaml:"common" mapstructure:"common"`
	Scenarios []Scenario    `yaml:"scenarios" mapstructure:"scenarios"`
	Logging   LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json, html
}

// Common holds the entity parameters shared by every scenario.
type Common struct {
	Entity EntityConfig `yaml:"entity,omitempty" mapstructure:"entity"`
}

// Scenario is one property under evaluation.
type Scenario struct {
	Name     string             `yaml:"name" mapstructure:"name"`
	Active   bool               `yaml:"active" mapstructure:"active"`
	Property acquisition.Inputs `yaml:"property" mapstructure:"property"`
	Entity   EntityConfig       `yaml:"entity,omitempty" mapstructure:"entity"`
}

// EntityConfig holds optional entity parameters. A nil field inherits from the
// next level (scenario, then common, then defaults).
type EntityConfig struct {
	OwnershipPercent             *float64 `json:"ownershipPercent,omitempty" yaml:"ownershipPercent,omitempty" mapstructure:"ownershipPercent"`
	MarginalTaxRate              *float64 `json:"marginalTaxRate,omitempty" yaml:"marginalTaxRate,omitempty" mapstructure:"marginalTaxRate"`
	Regime                       string   `json:"regime,omitempty" yaml:"regime,omitempty" mapstructure:"regime"`
	LandPercent                  *float64 `json:"landPercent,omitempty" yaml:"landPercent,omitempty" mapstructure:"landPercent"`
	BuildingDepreciationYears    *float64 `json:"buildingDepreciationYears,omitempty" yaml:"buildingDepreciationYears,omitempty" mapstructure:"buildingDepreciationYears"`
	ImprovementDepreciationYears *float64 `json:"improvementDepreciationYears,omitempty" yaml:"improvementDepreciationYears,omitempty" mapstructure:"improvementDepreciationYears"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromBytes is LoadConfigurationFromReader over a byte slice.
func LoadConfigurationFromBytes(data []byte) (*Configuration, error) {
	return LoadConfigurationFromReader(bytes.NewReader(data))
}

func decode(v *viper.Viper) (*Configuration, error) {
	v.SetEnvPrefix("PROPERTY_YIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// ActiveScenarios returns the scenarios flagged active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// Inputs returns the scenario's acquisition inputs; the title defaults to the
// scenario name.
func (s Scenario) Inputs() acquisition.Inputs {
	in := s.Property
	if in.Title == "" {
		in.Title = s.Name
	}
	return in
}

// ResolveEntity layers the scenario entity over the common entity over the
// defaults. An unparsable regime selector falls back to both.
func (c *Configuration) ResolveEntity(s Scenario) regime.Inputs {
	return s.Entity.Over(c.Common.Entity.Over(regime.DefaultInputs()))
}

// Over returns base with every field set in e applied.
func (e EntityConfig) Over(base regime.Inputs) regime.Inputs {
	resolved := base
	apply := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&resolved.OwnershipPercent, e.OwnershipPercent)
	apply(&resolved.MarginalTaxRate, e.MarginalTaxRate)
	apply(&resolved.LandPercent, e.LandPercent)
	apply(&resolved.BuildingDepreciationYears, e.BuildingDepreciationYears)
	apply(&resolved.ImprovementDepreciationYears, e.ImprovementDepreciationYears)
	if e.Regime != "" {
		if selector, err := regime.ParseSelector(e.Regime); err == nil {
			resolved.Regime = selector
		}
	}
	return resolved
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	warnings = append(warnings, validateSelector("Common entity", c.Common.Entity.Regime)...)

	if len(c.ActiveScenarios()) == 0 {
		warnings = append(warnings, "No active scenarios defined")
	}

	seen := make(map[string]bool)
	for _, scenario := range c.Scenarios {
		if !scenario.Active {
			continue
		}
		label := fmt.Sprintf("Scenario '%s'", scenario.Name)
		if scenario.Name == "" {
			warnings = append(warnings, "Active scenario without a name")
		} else if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("%s is defined more than once", label))
		}
		seen[scenario.Name] = true

		warnings = append(warnings, validateSelector(label, scenario.Entity.Regime)...)
		warnings = append(warnings, ValidateInputs(label, scenario.Inputs(), c.ResolveEntity(scenario))...)
	}

	return warnings
}

func validateSelector(label, value string) []string {
	if value == "" {
		return nil
	}
	if _, err := regime.ParseSelector(value); err != nil {
		return []string{fmt.Sprintf("%s: %v", label, err)}
	}
	return nil
}

// ValidateInputs checks one property and entity pair. Out-of-range values are
// reported as warnings; the engines still accept them.
func ValidateInputs(label string, property acquisition.Inputs, entity regime.Inputs) []string {
	return validation.Collect(
		validation.ValidateNonNegative(label, "monthlyRent", property.MonthlyRent),
		validation.ValidateNonNegative(label, "netSellerPrice", property.NetSellerPrice),
		validation.ValidateNonNegative(label, "agencyFees", property.AgencyFees),
		validation.ValidateNonNegative(label, "renovationBudget", property.RenovationBudget),
		validation.ValidateNonNegative(label, "notaryFeesPercent", property.NotaryFeesPercent),
		validation.ValidatePositive(label, "loanDurationYears", property.LoanDurationYears),
		validation.ValidateNonNegative(label, "interestRate", property.InterestRate),
		validation.ValidateNonNegative(label, "downPayment", property.DownPayment),
		validation.ValidateNonNegative(label, "targetYield", property.TargetYield),
		validation.ValidateNonNegative(label, "maintenanceFees", property.MaintenanceFees),
		validation.ValidateNonNegative(label, "propertyTax", property.PropertyTax),
		validation.ValidateNonNegative(label, "localBusinessTax", property.LocalBusinessTax),
		validation.ValidateNonNegative(label, "condoFees", property.CondoFees),
		validation.ValidateRange(label, "ownershipPercent", entity.OwnershipPercent, validation.OwnershipRange),
		validation.ValidateMarginalTaxRate(label, entity.MarginalTaxRate),
		validation.ValidateRange(label, "landPercent", entity.LandPercent, validation.LandRange),
		validation.ValidateRange(label, "buildingDepreciationYears", entity.BuildingDepreciationYears, validation.BuildingDepreciationRange),
		validation.ValidateRange(label, "improvementDepreciationYears", entity.ImprovementDepreciationYears, validation.ImprovementDepreciationRange),
	)
}
