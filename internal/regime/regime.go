// Package regime compares holding a rental property through a company taxed
// under the personal income tax regime with the corporate tax regime.
//
// Both regimes run the same acquisition results through a Calculator. The
// shared arithmetic (income, charges, cash-flow, break-even) lives in
// evaluate; calculators only supply taxation and cash-flow specifics.
package regime

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/property-yield/internal/acquisition"
	"github.com/iwvelando/property-yield/pkg/constants"
	"github.com/iwvelando/property-yield/pkg/mathutil"
)

// Kind names a tax regime.
type Kind string

const (
	// Personal is the personal income tax regime (rental profit taxed at the
	// owner's marginal rate plus social levy).
	Personal Kind = "personal"
	// Corporate is the corporate tax regime (depreciation, corporate tax,
	// then a flat tax on distributions).
	Corporate Kind = "corporate"
)

// Selector tells callers which regime results to display.
type Selector string

const (
	SelectPersonal  Selector = "personal"
	SelectCorporate Selector = "corporate"
	SelectBoth      Selector = "both"
)

// ParseSelector parses a regime selector. The French abbreviations IR and IS
// are accepted as aliases.
func ParseSelector(value string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "both":
		return SelectBoth, nil
	case "personal", "ir":
		return SelectPersonal, nil
	case "corporate", "is":
		return SelectCorporate, nil
	default:
		return "", fmt.Errorf("unknown regime selector %q: expected personal, corporate or both", value)
	}
}

// Inputs holds the ownership and tax parameters of the holding company.
type Inputs struct {
	OwnershipPercent             float64  `json:"ownershipPercent" yaml:"ownershipPercent" mapstructure:"ownershipPercent"`
	MarginalTaxRate              float64  `json:"marginalTaxRate" yaml:"marginalTaxRate" mapstructure:"marginalTaxRate"`
	Regime                       Selector `json:"regime" yaml:"regime" mapstructure:"regime"`
	LandPercent                  float64  `json:"landPercent" yaml:"landPercent" mapstructure:"landPercent"`
	BuildingDepreciationYears    float64  `json:"buildingDepreciationYears" yaml:"buildingDepreciationYears" mapstructure:"buildingDepreciationYears"`
	ImprovementDepreciationYears float64  `json:"improvementDepreciationYears" yaml:"improvementDepreciationYears" mapstructure:"improvementDepreciationYears"`
}

// DefaultInputs returns the entity parameters used when none are supplied.
func DefaultInputs() Inputs {
	return Inputs{
		OwnershipPercent:             constants.DefaultOwnershipPercent,
		MarginalTaxRate:              constants.DefaultMarginalTaxRate,
		Regime:                       SelectBoth,
		LandPercent:                  constants.DefaultLandPercent,
		BuildingDepreciationYears:    constants.DefaultBuildingDepreciationYears,
		ImprovementDepreciationYears: constants.DefaultImprovementDepreciationYears,
	}
}

// Result is the projection of one regime. Tax components that do not apply to
// the regime are zero so both results share one shape.
type Result struct {
	Regime Kind `json:"regime"`

	GrossAnnualIncome float64 `json:"grossAnnualIncome"`
	DeductibleCharges float64 `json:"deductibleCharges"`
	Depreciation      float64 `json:"depreciation"`
	TaxableIncome     float64 `json:"taxableIncome"`

	IncomeTax       float64 `json:"incomeTax"`
	SocialLevy      float64 `json:"socialLevy"`
	CorporateTax    float64 `json:"corporateTax"`
	DistributionTax float64 `json:"distributionTax"`
	TotalTax        float64 `json:"totalTax"`

	NetAnnualIncome  float64 `json:"netAnnualIncome"`
	NetMonthlyIncome float64 `json:"netMonthlyIncome"`
	PersonalShare    float64 `json:"personalShare"`

	MonthlyLoanPayment float64 `json:"monthlyLoanPayment"`
	MonthlyCashFlow    float64 `json:"monthlyCashFlow"`
	SavingsEffort      float64 `json:"savingsEffort"`

	// BreakEvenMonths is 0 when profitable from the start and -1 when never
	// profitable.
	BreakEvenMonths       int     `json:"breakEvenMonths"`
	TotalSavingsRequired  float64 `json:"totalSavingsRequired"`
	PostLoanMonthlyIncome float64 `json:"postLoanMonthlyIncome"`
}

// BreakEven returns the tagged form of BreakEvenMonths.
func (r Result) BreakEven() BreakEven {
	return BreakEvenFromMonths(r.BreakEvenMonths)
}

// Comparison reports which regime leaves the higher net annual income.
type Comparison struct {
	BestRegime        Kind    `json:"bestRegime"`
	AnnualDifference  float64 `json:"annualDifference"`
	MonthlyDifference float64 `json:"monthlyDifference"`
}

// Outcome bundles both regime projections and their comparison.
type Outcome struct {
	Personal   Result     `json:"personal"`
	Corporate  Result     `json:"corporate"`
	Comparison Comparison `json:"comparison"`
}

// Selected returns the results a caller should display for selector.
func (o Outcome) Selected(selector Selector) []Result {
	switch selector {
	case SelectPersonal:
		return []Result{o.Personal}
	case SelectCorporate:
		return []Result{o.Corporate}
	default:
		return []Result{o.Personal, o.Corporate}
	}
}

// Calculator projects one tax regime.
type Calculator interface {
	Kind() Kind
	Compute(in acquisition.Inputs, res acquisition.Results, entity Inputs) Result
}

// taxation is what a regime contributes on top of the shared base.
type taxation struct {
	depreciation    float64
	taxableIncome   float64
	incomeTax       float64
	socialLevy      float64
	corporateTax    float64
	distributionTax float64
	totalTax        float64
	netAnnualIncome float64
}

// steps isolates the regime-specific parts of a projection.
type steps interface {
	kind() Kind
	taxes(b base) taxation
	// cashFlows returns the monthly cash-flow during the loan and the owner's
	// monthly income once the loan is repaid.
	cashFlows(b base, t taxation, personalShare float64) (monthlyCashFlow, postLoanMonthlyIncome float64)
}

// base holds the figures shared by every regime.
type base struct {
	in                acquisition.Inputs
	res               acquisition.Results
	entity            Inputs
	grossAnnualIncome float64
	deductibleCharges float64
	ownershipShare    float64
	loanTermMonths    float64
}

func newBase(in acquisition.Inputs, res acquisition.Results, entity Inputs) base {
	annualInterest := mathutil.SafeDivide(res.TotalInterestCost, in.LoanDurationYears)
	return base{
		in:                in,
		res:               res,
		entity:            entity,
		grossAnnualIncome: acquisition.AnnualRent(in.MonthlyRent),
		deductibleCharges: annualInterest + res.TotalAnnualFees,
		ownershipShare:    entity.OwnershipPercent / constants.PercentageMultiplier,
		loanTermMonths:    in.LoanDurationYears * constants.MonthsPerYear,
	}
}

func evaluate(s steps, in acquisition.Inputs, res acquisition.Results, entity Inputs) Result {
	b := newBase(in, res, entity)
	t := s.taxes(b)

	netMonthly := t.netAnnualIncome / constants.MonthsPerYear
	personalShare := netMonthly * b.ownershipShare
	cashFlow, postLoan := s.cashFlows(b, t, personalShare)

	savingsEffort := 0.0
	if cashFlow < 0 {
		savingsEffort = math.Abs(cashFlow)
	}
	totalSavings := savingsEffort * b.loanTermMonths

	return Result{
		Regime:                s.kind(),
		GrossAnnualIncome:     mathutil.Finite(b.grossAnnualIncome),
		DeductibleCharges:     mathutil.Finite(b.deductibleCharges),
		Depreciation:          mathutil.Finite(t.depreciation),
		TaxableIncome:         mathutil.Finite(t.taxableIncome),
		IncomeTax:             mathutil.Finite(t.incomeTax),
		SocialLevy:            mathutil.Finite(t.socialLevy),
		CorporateTax:          mathutil.Finite(t.corporateTax),
		DistributionTax:       mathutil.Finite(t.distributionTax),
		TotalTax:              mathutil.Finite(t.totalTax),
		NetAnnualIncome:       mathutil.Finite(t.netAnnualIncome),
		NetMonthlyIncome:      mathutil.Finite(netMonthly),
		PersonalShare:         mathutil.Finite(personalShare),
		MonthlyLoanPayment:    mathutil.Finite(res.MonthlyPayment),
		MonthlyCashFlow:       mathutil.Finite(cashFlow),
		SavingsEffort:         mathutil.Finite(savingsEffort),
		BreakEvenMonths:       ComputeBreakEven(cashFlow, savingsEffort, totalSavings, postLoan, b.loanTermMonths).Months(),
		TotalSavingsRequired:  mathutil.Finite(totalSavings),
		PostLoanMonthlyIncome: mathutil.Finite(postLoan),
	}
}

// Calculators returns the personal and corporate calculators, in that order.
func Calculators() []Calculator {
	return []Calculator{PersonalCalculator{}, CorporateCalculator{}}
}

// Compare projects both regimes and recommends the one with the higher net
// annual income. Ties go to the personal regime.
func Compare(in acquisition.Inputs, res acquisition.Results, entity Inputs) Outcome {
	personal := PersonalCalculator{}.Compute(in, res, entity)
	corporate := CorporateCalculator{}.Compute(in, res, entity)
	return Outcome{
		Personal:   personal,
		Corporate:  corporate,
		Comparison: Contrast(personal, corporate),
	}
}

// Contrast builds the comparison of two regime results.
func Contrast(personal, corporate Result) Comparison {
	difference := corporate.NetAnnualIncome - personal.NetAnnualIncome
	best := Personal
	if difference > 0 {
		best = Corporate
	}
	return Comparison{
		BestRegime:        best,
		AnnualDifference:  mathutil.Finite(math.Abs(difference)),
		MonthlyDifference: mathutil.Finite(math.Abs(difference / constants.MonthsPerYear)),
	}
}
