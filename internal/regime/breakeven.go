package regime

import "math"

// BreakEvenState tags a break-even horizon.
type BreakEvenState uint8

const (
	// BreakEvenImmediate means the cash-flow is never negative.
	BreakEvenImmediate BreakEvenState = iota
	// BreakEvenNever means the shortfall is never recovered.
	BreakEvenNever
	// BreakEvenAfter means the shortfall is recovered after a number of months.
	BreakEvenAfter
)

// Sentinel month counts used at the Result boundary.
const (
	ImmediateMonths = 0
	NeverMonths     = -1
)

// BreakEven is the number of months until cumulative income offsets the
// savings effort accrued during the loan.
type BreakEven struct {
	State BreakEvenState
	After int
}

// Immediate returns a break-even reached from day one.
func Immediate() BreakEven { return BreakEven{State: BreakEvenImmediate} }

// Never returns a break-even that is never reached.
func Never() BreakEven { return BreakEven{State: BreakEvenNever} }

// After returns a break-even reached after months.
func After(months int) BreakEven { return BreakEven{State: BreakEvenAfter, After: months} }

// Months maps the break-even to its sentinel month count.
func (b BreakEven) Months() int {
	switch b.State {
	case BreakEvenNever:
		return NeverMonths
	case BreakEvenAfter:
		return b.After
	default:
		return ImmediateMonths
	}
}

// BreakEvenFromMonths is the inverse of Months.
func BreakEvenFromMonths(months int) BreakEven {
	switch {
	case months == ImmediateMonths:
		return Immediate()
	case months < 0:
		return Never()
	default:
		return After(months)
	}
}

// ComputeBreakEven derives the break-even horizon. A shortfall is recovered
// after the loan term from postLoanMonthlyIncome; without a shortfall the
// projection is profitable immediately.
func ComputeBreakEven(monthlyCashFlow, savingsEffort, totalSavingsRequired, postLoanMonthlyIncome, loanTermMonths float64) BreakEven {
	if savingsEffort > 0 && postLoanMonthlyIncome > 0 {
		recovery := math.Ceil(totalSavingsRequired / postLoanMonthlyIncome)
		months := math.Ceil(loanTermMonths) + recovery
		if math.IsNaN(months) || months > math.MaxInt32 {
			return Never()
		}
		return After(int(months))
	}
	if monthlyCashFlow >= 0 {
		return Immediate()
	}
	return Never()
}
