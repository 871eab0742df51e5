package regime

import (
	"github.com/iwvelando/property-yield/internal/acquisition"
	"github.com/iwvelando/property-yield/pkg/constants"
	"github.com/iwvelando/property-yield/pkg/mathutil"
)

// CorporateCalculator projects the corporate tax regime.
type CorporateCalculator struct{}

// Kind implements Calculator.
func (CorporateCalculator) Kind() Kind { return Corporate }

// Compute implements Calculator.
func (c CorporateCalculator) Compute(in acquisition.Inputs, res acquisition.Results, entity Inputs) Result {
	return evaluate(c, in, res, entity)
}

func (CorporateCalculator) kind() Kind { return Corporate }

func (CorporateCalculator) taxes(b base) taxation {
	depreciation := Depreciation(
		b.in.NetSellerPrice,
		b.in.RenovationBudget,
		b.entity.LandPercent,
		b.entity.BuildingDepreciationYears,
		b.entity.ImprovementDepreciationYears,
	)
	taxable := mathutil.Finite(mathutil.Max(0, b.grossAnnualIncome-b.deductibleCharges-depreciation))
	corporateTax := CorporateTax(taxable)
	distributable := taxable - corporateTax
	distributionTax := distributable * constants.DistributionTaxRate
	return taxation{
		depreciation:    depreciation,
		taxableIncome:   taxable,
		corporateTax:    corporateTax,
		distributionTax: distributionTax,
		totalTax:        corporateTax + distributionTax,
		netAnnualIncome: distributable - distributionTax,
	}
}

// Distributions are the owner's only income, so the loan share is paid out of
// them and nothing changes once the loan is repaid.
func (CorporateCalculator) cashFlows(b base, _ taxation, personalShare float64) (float64, float64) {
	cashFlow := personalShare - b.res.MonthlyPayment*b.ownershipShare
	return cashFlow, personalShare
}
