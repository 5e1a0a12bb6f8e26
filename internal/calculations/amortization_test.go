package calculations

import (
	"math"
	"testing"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name       string
		principal  float64
		annualRate float64
		years      int
		want       float64
		tolerance  float64
	}{
		{
			name:       "30 year fixed",
			principal:  975000,
			annualRate: 0.065,
			years:      30,
			want:       6162.663229,
			tolerance:  0.001,
		},
		{
			name:       "zero rate",
			principal:  100000,
			annualRate: 0,
			years:      10,
			want:       100000.0 / 120.0,
		},
		{
			name:       "zero principal",
			principal:  0,
			annualRate: 0.065,
			years:      30,
			want:       0,
		},
		{
			name:       "negative principal",
			principal:  -5000,
			annualRate: 0.065,
			years:      30,
			want:       0,
		},
		{
			name:       "zero years",
			principal:  975000,
			annualRate: 0.065,
			years:      0,
			want:       0,
		},
		{
			name:       "NaN rate treated as zero",
			principal:  120000,
			annualRate: math.NaN(),
			years:      10,
			want:       1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyPayment(tt.principal, tt.annualRate, tt.years)
			if !almostEqual(got, tt.want, tt.tolerance) {
				t.Errorf("MonthlyPayment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyPaymentZeroRateExact(t *testing.T) {
	for _, principal := range []float64{1, 975000, 123456.78, 1e9} {
		for _, years := range []int{1, 7, 15, 30} {
			got := MonthlyPayment(principal, 0, years)
			want := principal / float64(years*12)
			if got != want {
				t.Errorf("MonthlyPayment(%v, 0, %d) = %v, want exactly %v", principal, years, got, want)
			}
		}
	}
}

func TestYearlyDebtService(t *testing.T) {
	amortizing := LoanScenario{LoanAmount: 975000, AnnualRate: 0.065, TermYears: 30, AmortYears: 30}
	if got := YearlyDebtService(amortizing); !almostEqual(got, 73951.958749, 0.01) {
		t.Errorf("amortizing debt service = %v, want 73951.96", got)
	}

	interestOnly := amortizing
	interestOnly.InterestOnlyYears = 3
	if got := YearlyDebtService(interestOnly); !almostEqual(got, 63375, 1e-6) {
		t.Errorf("interest-only debt service = %v, want 63375", got)
	}

	// срок амортизации по умолчанию равен сроку кредита
	termOnly := LoanScenario{LoanAmount: 975000, AnnualRate: 0.065, TermYears: 30}
	if got := YearlyDebtService(termOnly); got != YearlyDebtService(amortizing) {
		t.Errorf("term-only debt service = %v, want %v", got, YearlyDebtService(amortizing))
	}

	if got := YearlyDebtService(LoanScenario{}); got != 0 {
		t.Errorf("empty scenario debt service = %v, want 0", got)
	}
}

func TestInterestOnlyPayment(t *testing.T) {
	if got := InterestOnlyPayment(1200000, 0.06); !almostEqual(got, 6000, 1e-9) {
		t.Errorf("InterestOnlyPayment() = %v, want 6000", got)
	}
	if got := InterestOnlyPayment(math.Inf(1), 0.06); got != 0 {
		t.Errorf("InterestOnlyPayment(Inf) = %v, want 0", got)
	}
}

func TestAmortizationSchedule(t *testing.T) {
	tests := []struct {
		name     string
		scenario LoanScenario
		years    int
		check    func(*testing.T, []AmortizationYear)
	}{
		{
			name:     "fully amortizes",
			scenario: LoanScenario{LoanAmount: 975000, AnnualRate: 0.065, TermYears: 30, AmortYears: 30},
			years:    30,
			check: func(t *testing.T, schedule []AmortizationYear) {
				if len(schedule) != 30 {
					t.Fatalf("expected 30 years, got %d", len(schedule))
				}
				last := schedule[len(schedule)-1]
				if math.Abs(last.EndingBalance) > 975000*1e-6 {
					t.Errorf("expected ending balance ~0, got %f", last.EndingBalance)
				}
				first := schedule[0]
				if !almostEqual(first.Payment, 73951.958749, 0.01) {
					t.Errorf("first year payment = %f, want 73951.96", first.Payment)
				}
				if first.InterestPaid <= first.PrincipalPaid {
					t.Error("early years should be interest heavy")
				}
				for _, y := range schedule {
					if !almostEqual(y.Payment, y.InterestPaid+y.PrincipalPaid, 1e-6) {
						t.Errorf("year %d: payment %f != interest %f + principal %f",
							y.Year, y.Payment, y.InterestPaid, y.PrincipalPaid)
					}
				}
			},
		},
		{
			name:     "interest-only window",
			scenario: LoanScenario{LoanAmount: 1000000, AnnualRate: 0.06, TermYears: 10, AmortYears: 25, InterestOnlyYears: 2},
			years:    4,
			check: func(t *testing.T, schedule []AmortizationYear) {
				for _, y := range schedule[:2] {
					if !y.InterestOnly {
						t.Errorf("year %d should be interest-only", y.Year)
					}
					if y.PrincipalPaid != 0 {
						t.Errorf("year %d principal = %f, want 0", y.Year, y.PrincipalPaid)
					}
					if !almostEqual(y.Payment, 60000, 1e-6) {
						t.Errorf("year %d payment = %f, want 60000", y.Year, y.Payment)
					}
					if y.EndingBalance != 1000000 {
						t.Errorf("year %d balance = %f, want 1000000", y.Year, y.EndingBalance)
					}
				}
				want := MonthlyPayment(1000000, 0.06, 25) * 12
				if !almostEqual(schedule[2].Payment, want, 1e-6) {
					t.Errorf("first amortizing year payment = %f, want %f", schedule[2].Payment, want)
				}
				if !almostEqual(schedule[3].Payment, want, 1e-6) {
					t.Errorf("payment must stay fixed: got %f, want %f", schedule[3].Payment, want)
				}
				if schedule[3].EndingBalance >= schedule[2].EndingBalance {
					t.Error("balance should decrease during amortization")
				}
			},
		},
		{
			name:     "zero rate",
			scenario: LoanScenario{LoanAmount: 120000, TermYears: 10},
			years:    12,
			check: func(t *testing.T, schedule []AmortizationYear) {
				if !almostEqual(schedule[0].PrincipalPaid, 12000, 1e-6) {
					t.Errorf("principal = %f, want 12000", schedule[0].PrincipalPaid)
				}
				if schedule[0].InterestPaid != 0 {
					t.Errorf("interest = %f, want 0", schedule[0].InterestPaid)
				}
				if schedule[9].EndingBalance > 1e-6 {
					t.Errorf("balance after term = %f, want 0", schedule[9].EndingBalance)
				}
				if schedule[11].Payment != 0 {
					t.Errorf("payment after payoff = %f, want 0", schedule[11].Payment)
				}
			},
		},
		{
			name:     "no loan",
			scenario: LoanScenario{LoanAmount: 0, AnnualRate: 0.065, TermYears: 30},
			years:    3,
			check: func(t *testing.T, schedule []AmortizationYear) {
				if len(schedule) != 3 {
					t.Fatalf("expected 3 years, got %d", len(schedule))
				}
				for _, y := range schedule {
					if y.Payment != 0 || y.EndingBalance != 0 {
						t.Errorf("year %d: expected empty record, got %+v", y.Year, y)
					}
				}
			},
		},
		{
			name:     "negative years",
			scenario: LoanScenario{LoanAmount: 975000, AnnualRate: 0.065, TermYears: 30},
			years:    -4,
			check: func(t *testing.T, schedule []AmortizationYear) {
				if len(schedule) != 0 {
					t.Errorf("expected empty schedule, got %d", len(schedule))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, AmortizationSchedule(tt.scenario, tt.years))
		})
	}
}

func TestAmortizerIsSingleUse(t *testing.T) {
	s := LoanScenario{LoanAmount: 500000, AnnualRate: 0.05, TermYears: 30}
	it := NewAmortizer(s, 2)

	count := 0
	for it.Next() {
		count++
		if it.Year().Year != count {
			t.Errorf("year = %d, want %d", it.Year().Year, count)
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 years, got %d", count)
	}
	if it.Next() {
		t.Error("exhausted amortizer must not restart")
	}
}

func TestRemainingBalance(t *testing.T) {
	s := LoanScenario{LoanAmount: 975000, AnnualRate: 0.065, TermYears: 30}

	if got := RemainingBalance(s, 0); got != 975000 {
		t.Errorf("balance after 0 years = %f, want 975000", got)
	}
	five := RemainingBalance(s, 5)
	if five <= 0 || five >= 975000 {
		t.Errorf("balance after 5 years = %f, want between 0 and 975000", five)
	}
	schedule := AmortizationSchedule(s, 5)
	if five != schedule[4].EndingBalance {
		t.Errorf("balance = %f, schedule says %f", five, schedule[4].EndingBalance)
	}
	if got := RemainingBalance(s, 30); got > 975000*1e-6 {
		t.Errorf("balance after 30 years = %f, want ~0", got)
	}
}
