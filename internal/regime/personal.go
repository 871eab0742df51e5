package regime

import (
	"github.com/iwvelando/property-yield/internal/acquisition"
	"github.com/iwvelando/property-yield/pkg/constants"
	"github.com/iwvelando/property-yield/pkg/mathutil"
)

// PersonalCalculator projects the personal income tax regime.
type PersonalCalculator struct{}

// Kind implements Calculator.
func (PersonalCalculator) Kind() Kind { return Personal }

// Compute implements Calculator.
func (p PersonalCalculator) Compute(in acquisition.Inputs, res acquisition.Results, entity Inputs) Result {
	return evaluate(p, in, res, entity)
}

func (PersonalCalculator) kind() Kind { return Personal }

func (PersonalCalculator) taxes(b base) taxation {
	taxable := mathutil.Finite(mathutil.Max(0, b.grossAnnualIncome-b.deductibleCharges))
	incomeTax := mathutil.ApplyPercentage(taxable, b.entity.MarginalTaxRate)
	socialLevy := taxable * constants.SocialLevyRate
	totalTax := incomeTax + socialLevy
	return taxation{
		taxableIncome:   taxable,
		incomeTax:       incomeTax,
		socialLevy:      socialLevy,
		totalTax:        totalTax,
		netAnnualIncome: b.grossAnnualIncome - b.deductibleCharges - totalTax,
	}
}

func (PersonalCalculator) cashFlows(b base, t taxation, _ float64) (float64, float64) {
	monthlyCharges := b.res.TotalAnnualFees / constants.MonthsPerYear
	monthlyTax := t.totalTax / constants.MonthsPerYear
	cashFlow := b.in.MonthlyRent - monthlyCharges - b.res.MonthlyPayment - monthlyTax
	postLoan := (b.in.MonthlyRent - monthlyCharges - monthlyTax) * b.ownershipShare
	return cashFlow, postLoan
}
