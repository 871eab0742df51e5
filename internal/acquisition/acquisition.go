// Package acquisition implements the acquisition and yield engine: transaction
// costs, total project cost, gross and net yield, loan figures and the
// closed-form maximum purchase price for a target yield.
//
// Every function is pure. Degenerate inputs (zero cost, zero target, zero
// duration) degrade to 0 instead of producing NaN or infinities.
package acquisition

import (
	"github.com/iwvelando/property-yield/pkg/constants"
	"github.com/iwvelando/property-yield/pkg/loans"
	"github.com/iwvelando/property-yield/pkg/mathutil"
)

// Inputs holds the raw figures of a purchase. Percentages are expressed in
// percent (8 means 8%).
type Inputs struct {
	Title             string  `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	MonthlyRent       float64 `json:"monthlyRent" yaml:"monthlyRent" mapstructure:"monthlyRent"`
	NetSellerPrice    float64 `json:"netSellerPrice" yaml:"netSellerPrice" mapstructure:"netSellerPrice"`
	AgencyFees        float64 `json:"agencyFees" yaml:"agencyFees" mapstructure:"agencyFees"`
	RenovationBudget  float64 `json:"renovationBudget" yaml:"renovationBudget" mapstructure:"renovationBudget"`
	NotaryFeesPercent float64 `json:"notaryFeesPercent" yaml:"notaryFeesPercent" mapstructure:"notaryFeesPercent"`
	LoanDurationYears float64 `json:"loanDurationYears" yaml:"loanDurationYears" mapstructure:"loanDurationYears"`
	InterestRate      float64 `json:"interestRate" yaml:"interestRate" mapstructure:"interestRate"`
	DownPayment       float64 `json:"downPayment" yaml:"downPayment" mapstructure:"downPayment"`
	TargetYield       float64 `json:"targetYield" yaml:"targetYield" mapstructure:"targetYield"`
	MaintenanceFees   float64 `json:"maintenanceFees" yaml:"maintenanceFees" mapstructure:"maintenanceFees"`
	PropertyTax       float64 `json:"propertyTax" yaml:"propertyTax" mapstructure:"propertyTax"`
	LocalBusinessTax  float64 `json:"localBusinessTax" yaml:"localBusinessTax" mapstructure:"localBusinessTax"`
	CondoFees         float64 `json:"condoFees" yaml:"condoFees" mapstructure:"condoFees"`
}

// Results holds every figure derived from Inputs.
type Results struct {
	NotaryFees        float64 `json:"notaryFees"`
	TotalProjectCost  float64 `json:"totalProjectCost"`
	GrossYield        float64 `json:"grossYield"`
	TotalAnnualFees   float64 `json:"totalAnnualFees"`
	NetAnnualIncome   float64 `json:"netAnnualIncome"`
	NetYield          float64 `json:"netYield"`
	LoanAmount        float64 `json:"loanAmount"`
	MonthlyPayment    float64 `json:"monthlyPayment"`
	TotalInterestCost float64 `json:"totalInterestCost"`
	MaxNetSellerPrice float64 `json:"maxNetSellerPrice"`
	MaxTotalCost      float64 `json:"maxTotalCost"`
}

// TargetSolution is the unclamped reverse solve of the yield formula.
type TargetSolution struct {
	// MaxTotalCost is the project cost at which the rent yields exactly the target.
	MaxTotalCost float64
	// Base is MaxTotalCost with notary fees removed.
	Base float64
	// TheoreticalPrice is the net seller price before the non-negative floor.
	TheoreticalPrice float64
}

// Price returns the theoretical price floored at zero.
func (s TargetSolution) Price() float64 {
	return mathutil.Max(0, s.TheoreticalPrice)
}

// AnnualRent returns twelve months of rent.
func AnnualRent(monthlyRent float64) float64 {
	return monthlyRent * constants.MonthsPerYear
}

// NotaryFees computes the notary fees charged on price plus agency fees.
func NotaryFees(netSellerPrice, agencyFees, notaryFeesPercent float64) float64 {
	return mathutil.ApplyPercentage(netSellerPrice+agencyFees, notaryFeesPercent)
}

// TotalProjectCost sums the price, agency fees, renovation budget and notary fees.
func TotalProjectCost(netSellerPrice, agencyFees, renovationBudget, notaryFees float64) float64 {
	return netSellerPrice + agencyFees + renovationBudget + notaryFees
}

// GrossYield returns the annual rent as a percentage of the total project
// cost, or 0 when the cost is 0.
func GrossYield(monthlyRent, totalProjectCost float64) float64 {
	if totalProjectCost == 0 {
		return 0
	}
	return mathutil.Finite(mathutil.CalculatePercentage(AnnualRent(monthlyRent), totalProjectCost))
}

// AnnualCharges sums the four recurring annual charges.
func (in Inputs) AnnualCharges() float64 {
	return in.MaintenanceFees + in.PropertyTax + in.LocalBusinessTax + in.CondoFees
}

// NetYield returns the annual rent net of recurring charges as a percentage of
// the total project cost, or 0 when the cost is 0.
func NetYield(monthlyRent, annualCharges, totalProjectCost float64) float64 {
	if totalProjectCost == 0 {
		return 0
	}
	return mathutil.Finite(mathutil.CalculatePercentage(AnnualRent(monthlyRent)-annualCharges, totalProjectCost))
}

// LoanAmount returns the borrowed amount; a down payment above the cost never
// produces negative debt.
func LoanAmount(totalProjectCost, downPayment float64) float64 {
	return mathutil.Max(0, totalProjectCost-downPayment)
}

// SolveTargetPrice inverts the gross yield formula for the net seller price
// that makes the rent yield exactly targetYield percent. A zero target
// returns the zero solution.
func SolveTargetPrice(monthlyRent, agencyFees, renovationBudget, notaryFeesPercent, targetYield float64) TargetSolution {
	targetRate := targetYield / constants.PercentageMultiplier
	if targetRate == 0 {
		return TargetSolution{}
	}
	notaryRate := notaryFeesPercent / constants.PercentageMultiplier

	// The solve divides renovation by (1 + notary) as well, so the forward
	// yield reproduces the target exactly only when renovation or the notary
	// rate is 0.
	maxTotalCost := mathutil.Finite(AnnualRent(monthlyRent) / targetRate)
	base := mathutil.SafeDivide(maxTotalCost, 1+notaryRate)
	return TargetSolution{
		MaxTotalCost:     maxTotalCost,
		Base:             base,
		TheoreticalPrice: base - agencyFees - renovationBudget,
	}
}

// MaxNetSellerPrice returns the highest net seller price meeting the target
// yield, floored at zero.
func MaxNetSellerPrice(monthlyRent, agencyFees, renovationBudget, notaryFeesPercent, targetYield float64) float64 {
	return SolveTargetPrice(monthlyRent, agencyFees, renovationBudget, notaryFeesPercent, targetYield).Price()
}

// Compute derives every Results figure from in.
func Compute(in Inputs) Results {
	notaryFees := NotaryFees(in.NetSellerPrice, in.AgencyFees, in.NotaryFeesPercent)
	totalProjectCost := TotalProjectCost(in.NetSellerPrice, in.AgencyFees, in.RenovationBudget, notaryFees)
	annualFees := in.AnnualCharges()

	loanAmount := LoanAmount(totalProjectCost, in.DownPayment)
	monthlyPayment := loans.CalculateMonthlyPayment(loanAmount, in.InterestRate, in.LoanDurationYears)
	totalInterest := loans.CalculateTotalInterestCost(monthlyPayment, in.LoanDurationYears, loanAmount)

	maxPrice := MaxNetSellerPrice(in.MonthlyRent, in.AgencyFees, in.RenovationBudget, in.NotaryFeesPercent, in.TargetYield)
	// Recomputed from the floored price; this can differ from the solve's own
	// total when the floor applies.
	maxNotaryFees := NotaryFees(maxPrice, in.AgencyFees, in.NotaryFeesPercent)
	maxTotalCost := TotalProjectCost(maxPrice, in.AgencyFees, in.RenovationBudget, maxNotaryFees)

	return Results{
		NotaryFees:        mathutil.Finite(notaryFees),
		TotalProjectCost:  mathutil.Finite(totalProjectCost),
		GrossYield:        GrossYield(in.MonthlyRent, totalProjectCost),
		TotalAnnualFees:   mathutil.Finite(annualFees),
		NetAnnualIncome:   mathutil.Finite(AnnualRent(in.MonthlyRent) - annualFees),
		NetYield:          NetYield(in.MonthlyRent, annualFees, totalProjectCost),
		LoanAmount:        mathutil.Finite(loanAmount),
		MonthlyPayment:    mathutil.Finite(monthlyPayment),
		TotalInterestCost: mathutil.Finite(totalInterest),
		MaxNetSellerPrice: mathutil.Finite(maxPrice),
		MaxTotalCost:      mathutil.Finite(maxTotalCost),
	}
}
