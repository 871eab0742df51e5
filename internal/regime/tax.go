package regime

import (
	"github.com/iwvelando/property-yield/pkg/constants"
	"github.com/iwvelando/property-yield/pkg/mathutil"
)

// CorporateTax applies the two-band corporate tax to a taxable profit.
func CorporateTax(taxableIncome float64) float64 {
	if taxableIncome <= 0 {
		return 0
	}
	if taxableIncome <= constants.CorporateTaxThreshold {
		return taxableIncome * constants.CorporateTaxReducedRate
	}
	return constants.CorporateTaxThreshold*constants.CorporateTaxReducedRate +
		(taxableIncome-constants.CorporateTaxThreshold)*constants.CorporateTaxStandardRate
}

// Depreciation spreads the building (price minus land) and the improvements
// over their periods. Land is never depreciated; a zero period contributes 0.
func Depreciation(netSellerPrice, renovationBudget, landPercent, buildingYears, improvementYears float64) float64 {
	buildingValue := netSellerPrice * (1 - landPercent/constants.PercentageMultiplier)
	return mathutil.SafeDivide(buildingValue, buildingYears) + mathutil.SafeDivide(renovationBudget, improvementYears)
}
