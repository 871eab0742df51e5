package validation

import (
	"fmt"
	"math"
	"slices"

	"github.com/iwvelando/property-yield/pkg/constants"
)

// Range is an inclusive bound on a numeric field.
type Range struct {
	Min float64
	Max float64
}

// Entity parameter bounds.
var (
	OwnershipRange               = Range{constants.MinOwnershipPercent, constants.MaxOwnershipPercent}
	LandRange                    = Range{constants.MinLandPercent, constants.MaxLandPercent}
	BuildingDepreciationRange    = Range{constants.MinBuildingDepreciationYears, constants.MaxBuildingDepreciationYears}
	ImprovementDepreciationRange = Range{constants.MinImprovementDepreciationYears, constants.MaxImprovementDepreciationYears}
)

// ValidateRange returns a warning when value lies outside r, or "" otherwise.
func ValidateRange(label, field string, value float64, r Range) string {
	if math.IsNaN(value) || value < r.Min || value > r.Max {
		return fmt.Sprintf("%s: %s %g outside [%g, %g]", label, field, value, r.Min, r.Max)
	}
	return ""
}

// ValidateNonNegative returns a warning for negative or non-finite amounts.
func ValidateNonNegative(label, field string, value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Sprintf("%s: %s must be a non-negative amount, got %g", label, field, value)
	}
	return ""
}

// ValidatePositive returns a warning unless value is strictly positive.
func ValidatePositive(label, field string, value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Sprintf("%s: %s must be greater than 0, got %g", label, field, value)
	}
	return ""
}

// ValidateMarginalTaxRate checks the rate against the income tax brackets.
func ValidateMarginalTaxRate(label string, rate float64) string {
	if !slices.Contains(constants.MarginalTaxRates, rate) {
		return fmt.Sprintf("%s: marginal tax rate %g%% is not one of %v", label, rate, constants.MarginalTaxRates)
	}
	return ""
}

// Collect drops empty messages.
func Collect(messages ...string) []string {
	var warnings []string
	for _, message := range messages {
		if message != "" {
			warnings = append(warnings, message)
		}
	}
	return warnings
}
