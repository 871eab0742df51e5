package output

import (
	"github.com/iwvelando/property-yield/internal/regime"
	"github.com/iwvelando/property-yield/internal/simulation"
	"github.com/iwvelando/property-yield/pkg/format"
)

type valueKind int

const (
	euros valueKind = iota
	cents
	percent
	months
)

// row is one reported figure.
type row struct {
	section string
	metric  string
	value   float64
	kind    valueKind
}

func (r row) display() string {
	switch r.kind {
	case cents:
		return format.CurrencyCents(r.value)
	case percent:
		return format.Percent(r.value)
	case months:
		return format.Duration(int(r.value))
	default:
		return format.Currency(r.value)
	}
}

const (
	sectionAcquisition = "acquisition"
	sectionCredit      = "credit"
	sectionTarget      = "target"
)

func acquisitionRows(r simulation.Result) []row {
	a := r.Acquisition
	return []row{
		{sectionAcquisition, "Notary fees", a.NotaryFees, euros},
		{sectionAcquisition, "Total project cost", a.TotalProjectCost, euros},
		{sectionAcquisition, "Gross yield", a.GrossYield, percent},
		{sectionAcquisition, "Annual charges", a.TotalAnnualFees, euros},
		{sectionAcquisition, "Net annual income", a.NetAnnualIncome, euros},
		{sectionAcquisition, "Net yield", a.NetYield, percent},
		{sectionCredit, "Loan amount", a.LoanAmount, euros},
		{sectionCredit, "Monthly payment", a.MonthlyPayment, cents},
		{sectionCredit, "Total interest cost", a.TotalInterestCost, euros},
		{sectionTarget, "Target yield", r.Property.TargetYield, percent},
		{sectionTarget, "Max net seller price", a.MaxNetSellerPrice, euros},
		{sectionTarget, "Max total cost", a.MaxTotalCost, euros},
	}
}

func regimeRows(res regime.Result) []row {
	section := string(res.Regime)
	rows := []row{
		{section, "Gross annual income", res.GrossAnnualIncome, euros},
		{section, "Deductible charges", res.DeductibleCharges, euros},
	}
	if res.Regime == regime.Corporate {
		rows = append(rows, row{section, "Depreciation", res.Depreciation, euros})
	}
	rows = append(rows, row{section, "Taxable income", res.TaxableIncome, euros})
	if res.Regime == regime.Corporate {
		rows = append(rows,
			row{section, "Corporate tax", res.CorporateTax, euros},
			row{section, "Distribution tax", res.DistributionTax, euros},
		)
	} else {
		rows = append(rows,
			row{section, "Income tax", res.IncomeTax, euros},
			row{section, "Social levy", res.SocialLevy, euros},
		)
	}
	return append(rows,
		row{section, "Total tax", res.TotalTax, euros},
		row{section, "Net annual income", res.NetAnnualIncome, euros},
		row{section, "Owner monthly income", res.PersonalShare, euros},
		row{section, "Monthly cash-flow", res.MonthlyCashFlow, euros},
		row{section, "Savings effort", res.SavingsEffort, euros},
		row{section, "Total savings required", res.TotalSavingsRequired, euros},
		row{section, "Post-loan monthly income", res.PostLoanMonthlyIncome, euros},
		row{section, "Break-even", float64(res.BreakEvenMonths), months},
	)
}

func regimeTitle(kind regime.Kind) string {
	if kind == regime.Corporate {
		return "Corporate tax regime (IS)"
	}
	return "Personal income tax regime (IR)"
}

func recommendation(c regime.Comparison) string {
	return "The " + string(c.BestRegime) + " regime leaves " + format.Currency(c.AnnualDifference) +
		" more per year (" + format.Currency(c.MonthlyDifference) + " per month)."
}
