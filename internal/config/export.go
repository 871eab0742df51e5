package config

import (
	"fmt"

	"github.com/iwvelando/property-yield/internal/acquisition"
	"github.com/iwvelando/property-yield/internal/regime"
	"github.com/iwvelando/property-yield/pkg/constants"
	"gopkg.in/yaml.v3"
)

// EntityFromInputs captures every field of entity.
func EntityFromInputs(entity regime.Inputs) EntityConfig {
	ownership := entity.OwnershipPercent
	marginal := entity.MarginalTaxRate
	land := entity.LandPercent
	building := entity.BuildingDepreciationYears
	improvement := entity.ImprovementDepreciationYears
	return EntityConfig{
		OwnershipPercent:             &ownership,
		MarginalTaxRate:              &marginal,
		Regime:                       string(entity.Regime),
		LandPercent:                  &land,
		BuildingDepreciationYears:    &building,
		ImprovementDepreciationYears: &improvement,
	}
}

// NewSingleScenario builds a configuration holding one active scenario. The
// name defaults to the property title.
func NewSingleScenario(name string, property acquisition.Inputs, entity regime.Inputs) *Configuration {
	if name == "" {
		name = property.Title
	}
	if name == "" {
		name = "simulation"
	}
	return &Configuration{
		Common: Common{Entity: EntityFromInputs(entity)},
		Scenarios: []Scenario{{
			Name:     name,
			Active:   true,
			Property: property,
		}},
		Output: OutputConfig{Format: constants.OutputFormatPretty},
	}
}

// Marshal renders the configuration as YAML that LoadConfiguration accepts.
func (c *Configuration) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return data, nil
}
