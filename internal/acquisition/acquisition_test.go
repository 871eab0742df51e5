package acquisition

import (
	"math"
	"testing"
)

func referenceInputs() Inputs {
	return Inputs{
		Title:             "reference",
		MonthlyRent:       1000,
		NetSellerPrice:    200000,
		AgencyFees:        10000,
		RenovationBudget:  0,
		NotaryFeesPercent: 8,
		LoanDurationYears: 15,
		InterestRate:      3,
		DownPayment:       0,
		TargetYield:       10,
	}
}

func TestComputeReferenceScenario(t *testing.T) {
	results := Compute(referenceInputs())

	tests := []struct {
		name      string
		got       float64
		expected  float64
		tolerance float64
	}{
		{"notary fees", results.NotaryFees, 16800, 1e-6},
		{"total project cost", results.TotalProjectCost, 226800, 1e-6},
		{"gross yield", results.GrossYield, 5.291005, 1e-6},
		{"net yield without charges", results.NetYield, 5.291005, 1e-6},
		{"annual fees", results.TotalAnnualFees, 0, 0},
		{"net annual income", results.NetAnnualIncome, 12000, 0},
		{"loan amount", results.LoanAmount, 226800, 1e-6},
		{"monthly payment", results.MonthlyPayment, 1566.24, 0.01},
		{"total interest cost", results.TotalInterestCost, 55123.05, 0.01},
		{"max net seller price", results.MaxNetSellerPrice, 101111.11, 0.01},
		{"max total cost", results.MaxTotalCost, 120000, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.expected) > tt.tolerance {
				t.Errorf("%s = %.6f, expected %.6f", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestTotalProjectCostInvariant(t *testing.T) {
	tests := []struct {
		name   string
		inputs Inputs
	}{
		{"reference", referenceInputs()},
		{"with renovation", Inputs{NetSellerPrice: 153000, AgencyFees: 7650, RenovationBudget: 23500, NotaryFeesPercent: 7.5}},
		{"fractional figures", Inputs{NetSellerPrice: 99999.99, AgencyFees: 0.01, RenovationBudget: 1234.56, NotaryFeesPercent: 2.5}},
		{"all zero", Inputs{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Compute(tt.inputs)
			expected := tt.inputs.NetSellerPrice + tt.inputs.AgencyFees + tt.inputs.RenovationBudget + results.NotaryFees
			if results.TotalProjectCost != expected {
				t.Errorf("TotalProjectCost = %v, expected exactly %v", results.TotalProjectCost, expected)
			}
			notary := (tt.inputs.NetSellerPrice + tt.inputs.AgencyFees) * (tt.inputs.NotaryFeesPercent / 100)
			if results.NotaryFees != notary {
				t.Errorf("NotaryFees = %v, expected exactly %v", results.NotaryFees, notary)
			}
		})
	}
}

func TestZeroProjectCostYields(t *testing.T) {
	results := Compute(Inputs{MonthlyRent: 800, MaintenanceFees: 300})

	if results.TotalProjectCost != 0 {
		t.Fatalf("expected zero project cost, got %v", results.TotalProjectCost)
	}
	if results.GrossYield != 0 {
		t.Errorf("GrossYield = %v, expected 0", results.GrossYield)
	}
	if results.NetYield != 0 {
		t.Errorf("NetYield = %v, expected 0", results.NetYield)
	}
	if GrossYield(1000, 0) != 0 || NetYield(1000, 100, 0) != 0 {
		t.Error("yield helpers must return 0 for a zero project cost")
	}
}

func TestNetYieldWithCharges(t *testing.T) {
	in := referenceInputs()
	in.MaintenanceFees = 400
	in.PropertyTax = 900
	in.LocalBusinessTax = 150
	in.CondoFees = 750

	results := Compute(in)

	if results.TotalAnnualFees != 2200 {
		t.Errorf("TotalAnnualFees = %v, expected 2200", results.TotalAnnualFees)
	}
	if results.NetAnnualIncome != 9800 {
		t.Errorf("NetAnnualIncome = %v, expected 9800", results.NetAnnualIncome)
	}
	expected := 9800 / 226800.0 * 100
	if math.Abs(results.NetYield-expected) > 1e-9 {
		t.Errorf("NetYield = %v, expected %v", results.NetYield, expected)
	}
	if results.NetYield >= results.GrossYield {
		t.Errorf("NetYield %v should be below GrossYield %v", results.NetYield, results.GrossYield)
	}
}

func TestLoanAmount(t *testing.T) {
	tests := []struct {
		name        string
		totalCost   float64
		downPayment float64
		expected    float64
	}{
		{"No down payment", 226800, 0, 226800},
		{"Partial down payment", 226800, 26800, 200000},
		{"Down payment equals cost", 226800, 226800, 0},
		{"Down payment exceeds cost", 226800, 300000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := LoanAmount(tt.totalCost, tt.downPayment); result != tt.expected {
				t.Errorf("LoanAmount() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestComputeDownPaymentCoversCost(t *testing.T) {
	in := referenceInputs()
	in.DownPayment = 500000

	results := Compute(in)

	if results.LoanAmount != 0 {
		t.Errorf("LoanAmount = %v, expected 0", results.LoanAmount)
	}
	if results.MonthlyPayment != 0 {
		t.Errorf("MonthlyPayment = %v, expected 0", results.MonthlyPayment)
	}
	if results.TotalInterestCost != 0 {
		t.Errorf("TotalInterestCost = %v, expected 0", results.TotalInterestCost)
	}
}

func TestComputeZeroRateIsStraightLine(t *testing.T) {
	in := Inputs{NetSellerPrice: 120000, LoanDurationYears: 10}

	results := Compute(in)

	if math.Abs(results.MonthlyPayment-1000) > 1e-9 {
		t.Errorf("MonthlyPayment = %v, expected 1000", results.MonthlyPayment)
	}
	if math.Abs(results.TotalInterestCost) > 1e-6 {
		t.Errorf("TotalInterestCost = %v, expected 0", results.TotalInterestCost)
	}
}

func TestComputeZeroDurationStaysFinite(t *testing.T) {
	in := referenceInputs()
	in.LoanDurationYears = 0

	results := Compute(in)

	if results.MonthlyPayment != 0 {
		t.Errorf("MonthlyPayment = %v, expected 0", results.MonthlyPayment)
	}
	// Interest cost is not clamped: nothing is repaid over a zero-length term.
	if results.TotalInterestCost != -results.LoanAmount {
		t.Errorf("TotalInterestCost = %v, expected %v", results.TotalInterestCost, -results.LoanAmount)
	}
}

func TestReverseSolveIsLeftInverse(t *testing.T) {
	tests := []struct {
		name   string
		inputs Inputs
	}{
		{"reference", referenceInputs()},
		{"high target", Inputs{MonthlyRent: 650, AgencyFees: 4000, NotaryFeesPercent: 7.5, TargetYield: 9}},
		{"no notary fees with renovation", Inputs{MonthlyRent: 1800, AgencyFees: 8000, RenovationBudget: 30000, TargetYield: 6.5}},
		{"low target", Inputs{MonthlyRent: 2200, AgencyFees: 12000, NotaryFeesPercent: 2.5, TargetYield: 3.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := Compute(tt.inputs).MaxNetSellerPrice
			if price <= 0 {
				t.Fatalf("expected a positive max price, got %v", price)
			}

			forward := tt.inputs
			forward.NetSellerPrice = price
			yield := Compute(forward).GrossYield

			if math.Abs(yield-tt.inputs.TargetYield) > 1e-6*tt.inputs.TargetYield {
				t.Errorf("forward yield at max price = %.9f, expected target %.9f", yield, tt.inputs.TargetYield)
			}
		})
	}
}

func TestReverseSolveWithRenovationAndNotaryFees(t *testing.T) {
	in := Inputs{MonthlyRent: 1500, AgencyFees: 5000, RenovationBudget: 20000, NotaryFeesPercent: 8, TargetYield: 7}
	solution := SolveTargetPrice(in.MonthlyRent, in.AgencyFees, in.RenovationBudget, in.NotaryFeesPercent, in.TargetYield)

	forward := in
	forward.NetSellerPrice = solution.Price()
	res := Compute(forward)

	// Renovation is divided by (1 + notary) too, so the forward cost falls
	// short of the solved total by renovation * notary rate.
	expectedCost := solution.MaxTotalCost - in.RenovationBudget*0.08
	if math.Abs(res.TotalProjectCost-expectedCost) > 1e-6 {
		t.Errorf("forward total cost = %.6f, expected %.6f", res.TotalProjectCost, expectedCost)
	}
	if res.GrossYield <= in.TargetYield {
		t.Errorf("forward yield %.6f should exceed the target %.6f", res.GrossYield, in.TargetYield)
	}
}

func TestSolveTargetPrice(t *testing.T) {
	t.Run("Zero target", func(t *testing.T) {
		solution := SolveTargetPrice(1000, 10000, 0, 8, 0)
		if solution != (TargetSolution{}) {
			t.Errorf("expected zero solution, got %+v", solution)
		}
		if MaxNetSellerPrice(1000, 10000, 0, 8, 0) != 0 {
			t.Error("expected max price 0 for a zero target")
		}
	})

	t.Run("Negative theoretical price is floored", func(t *testing.T) {
		solution := SolveTargetPrice(100, 50000, 10000, 8, 10)
		if solution.TheoreticalPrice >= 0 {
			t.Fatalf("expected a negative theoretical price, got %v", solution.TheoreticalPrice)
		}
		if solution.Price() != 0 {
			t.Errorf("Price() = %v, expected 0", solution.Price())
		}
		if math.Abs(solution.MaxTotalCost-12000) > 1e-9 {
			t.Errorf("MaxTotalCost = %v, expected 12000", solution.MaxTotalCost)
		}
	})

	t.Run("Intermediate values", func(t *testing.T) {
		solution := SolveTargetPrice(1000, 10000, 0, 8, 10)
		if math.Abs(solution.MaxTotalCost-120000) > 1e-6 {
			t.Errorf("MaxTotalCost = %v, expected 120000", solution.MaxTotalCost)
		}
		if math.Abs(solution.Base-111111.111111) > 1e-5 {
			t.Errorf("Base = %v, expected 111111.11", solution.Base)
		}
	})
}

func TestMaxTotalCostDivergesWhenFloored(t *testing.T) {
	in := Inputs{MonthlyRent: 100, AgencyFees: 50000, RenovationBudget: 10000, NotaryFeesPercent: 8, TargetYield: 10}

	results := Compute(in)
	solution := SolveTargetPrice(in.MonthlyRent, in.AgencyFees, in.RenovationBudget, in.NotaryFeesPercent, in.TargetYield)

	if results.MaxNetSellerPrice != 0 {
		t.Fatalf("MaxNetSellerPrice = %v, expected 0", results.MaxNetSellerPrice)
	}
	// 0 + 50000 + 10000 + 50000 * 8%
	if math.Abs(results.MaxTotalCost-64000) > 1e-6 {
		t.Errorf("MaxTotalCost = %v, expected 64000", results.MaxTotalCost)
	}
	if results.MaxTotalCost == solution.MaxTotalCost {
		t.Errorf("recomputed max total cost should differ from the solve's total %v", solution.MaxTotalCost)
	}
}

func TestComputeZeroTarget(t *testing.T) {
	in := referenceInputs()
	in.TargetYield = 0

	results := Compute(in)

	if results.MaxNetSellerPrice != 0 {
		t.Errorf("MaxNetSellerPrice = %v, expected 0", results.MaxNetSellerPrice)
	}
	// Agency fees plus their notary fees.
	if math.Abs(results.MaxTotalCost-10800) > 1e-6 {
		t.Errorf("MaxTotalCost = %v, expected 10800", results.MaxTotalCost)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	in := referenceInputs()
	in.RenovationBudget = 17250
	in.CondoFees = 600

	first := Compute(in)
	second := Compute(in)
	if first != second {
		t.Errorf("Compute is not deterministic: %+v != %+v", first, second)
	}
}
