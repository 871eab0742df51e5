// Package loans provides common loan processing utilities.
package loans

import (
	"math"

	"github.com/iwvelando/property-yield/pkg/constants"
	"github.com/iwvelando/property-yield/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given monthly payment.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// YearSummary aggregates the payments of one loan year.
type YearSummary struct {
	Year               int     `json:"year"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// NumberOfPayments returns the monthly payment count for a duration in years.
func NumberOfPayments(durationYears float64) float64 {
	return durationYears * constants.MonthsPerYear
}

// MonthlyRate converts an annual rate in percent to a periodic monthly rate.
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / constants.MonthsPerYear / constants.PercentageMultiplier
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard annuity formula. Zero loans and zero rates fall back to straight-line
// repayment so the annuity denominator is never zero.
func CalculateMonthlyPayment(loanAmount, annualInterestRate, durationYears float64) float64 {
	numberOfPayments := NumberOfPayments(durationYears)
	if loanAmount == 0 || annualInterestRate == 0 {
		return mathutil.SafeDivide(loanAmount, numberOfPayments)
	}
	if numberOfPayments <= 0 {
		return 0
	}

	monthlyRate := MonthlyRate(annualInterestRate)
	return mathutil.Finite(loanAmount * monthlyRate / (1 - math.Pow(1+monthlyRate, -numberOfPayments)))
}

// CalculateTotalInterestCost returns the total paid over the term minus the
// borrowed amount. The result is not clamped.
func CalculateTotalInterestCost(monthlyPayment, durationYears, loanAmount float64) float64 {
	return monthlyPayment*NumberOfPayments(durationYears) - loanAmount
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * MonthlyRate(annualInterestRate)
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates the month-by-month amortization schedule of a loan.
// The last payment clears whatever principal remains.
func (g *AmortizationScheduleGenerator) GenerateSchedule(loanAmount, annualInterestRate, durationYears float64) []Payment {
	months := int(math.Round(NumberOfPayments(durationYears)))
	if loanAmount <= 0 || months <= 0 {
		g.logger.Debug("empty amortization schedule",
			zap.String("op", "loans.GenerateSchedule"),
			zap.Float64("loanAmount", loanAmount),
			zap.Float64("durationYears", durationYears),
		)
		return nil
	}

	monthlyPayment := CalculateMonthlyPayment(loanAmount, annualInterestRate, durationYears)
	schedule := make([]Payment, 0, months)
	remaining := loanAmount

	for month := 1; month <= months; month++ {
		var current Payment
		current.Month = month
		current.Interest = CalculateInterestPayment(remaining, annualInterestRate)
		current.Principal = monthlyPayment - current.Interest
		current.Payment = monthlyPayment

		if month == months || current.Principal >= remaining {
			// We will get machine error otherwise so just settle the balance.
			current.Principal = remaining
			current.Payment = current.Interest + remaining
			current.RemainingPrincipal = 0
			schedule = append(schedule, current)
			if month < months {
				g.logger.Debug("loan settled before term",
					zap.String("op", "loans.GenerateSchedule"),
					zap.Int("month", month),
					zap.Int("term", months),
				)
			}
			break
		}

		remaining -= current.Principal
		current.RemainingPrincipal = remaining
		schedule = append(schedule, current)
	}

	g.logger.Debug("generated amortization schedule",
		zap.String("op", "loans.GenerateSchedule"),
		zap.Int("payments", len(schedule)),
		zap.Float64("monthlyPayment", monthlyPayment),
	)
	return schedule
}

// SummarizeByYear groups a monthly schedule into loan years.
func SummarizeByYear(schedule []Payment) []YearSummary {
	var summaries []YearSummary
	for _, payment := range schedule {
		year := (payment.Month-1)/constants.MonthsPerYear + 1
		if len(summaries) == 0 || summaries[len(summaries)-1].Year != year {
			summaries = append(summaries, YearSummary{Year: year})
		}
		current := &summaries[len(summaries)-1]
		current.Payment += payment.Payment
		current.Principal += payment.Principal
		current.Interest += payment.Interest
		current.RemainingPrincipal = payment.RemainingPrincipal
	}
	return summaries
}

// TotalInterest sums the interest portion of every scheduled payment.
func TotalInterest(schedule []Payment) float64 {
	total := 0.0
	for _, payment := range schedule {
		total += payment.Interest
	}
	return total
}
