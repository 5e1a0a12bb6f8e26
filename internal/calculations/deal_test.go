package calculations

import (
	"math"
	"reflect"
	"testing"
)

func TestComputeDealMetrics(t *testing.T) {
	m := ComputeDealMetrics(mainStreet())

	checks := []struct {
		name      string
		got, want float64
		tolerance float64
	}{
		{"noi", m.Statement.NOI, 132696, 0},
		{"cap rate", m.CapRate, 0.088464, 1e-9},
		{"monthly payment", m.MonthlyPayment, 6162.663229, 0.001},
		{"debt service", m.DebtService, 73951.958749, 0.01},
		{"dscr", m.DSCR, 132696 / 73951.958749, 1e-6},
		{"equity", m.Equity, 525000, 1e-6},
		{"cash flow", m.CashFlow, 132696 - 73951.958749, 0.01},
		{"cash on cash", m.CashOnCash, (132696 - 73951.958749) / 525000, 1e-6},
		{"grm", m.GRM, 1500000.0 / 175200.0, 1e-9},
		{"loan to value", m.LoanToValue, 0.65, 1e-9},
		{"price per unit", m.PricePerUnit, 1500000.0 / 14.0, 1e-6},
		{"price per square foot", m.PricePerSquareFoot, 1500000.0 / 12600.0, 1e-6},
		{"closing costs", m.ClosingCosts, 45000, 1e-6},
		{"total cash required", m.TotalCashRequired, 525000 + 45000 + 50000, 1e-6},
		{"annual reserves", m.AnnualReserves, 4200, 0},
		{"cash flow after reserves", m.CashFlowAfterReserves, 132696 - 73951.958749 - 4200, 0.01},
		{"break-even occupancy", m.BreakEvenOccupancy, (42504 + 73951.958749) / 175200, 1e-6},
		{"renovation total", m.RenovationTotal, 50000, 0},
	}

	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if !almostEqual(c.got, c.want, c.tolerance) {
				t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
			}
		})
	}

	if !m.Financed {
		t.Error("deal with scenarios should be financed")
	}
}

func TestComputeDealMetricsZeroDenominators(t *testing.T) {
	tests := []struct {
		name  string
		deal  Deal
		check func(*testing.T, DealMetrics)
	}{
		{
			name: "zero price",
			deal: func() Deal { d := mainStreet(); d.Property.Price = 0; return d }(),
			check: func(t *testing.T, m DealMetrics) {
				if m.CapRate != 0 || m.LoanToValue != 0 || m.PricePerUnit != 0 {
					t.Errorf("expected zero price ratios, got %+v", m)
				}
				if m.CashOnCash != 0 {
					t.Errorf("cash on cash with no equity = %v, want 0", m.CashOnCash)
				}
				if m.GRM != 0 {
					t.Errorf("grm = %v, want 0", m.GRM)
				}
			},
		},
		{
			name: "no scenarios",
			deal: func() Deal { d := mainStreet(); d.Scenarios = nil; return d }(),
			check: func(t *testing.T, m DealMetrics) {
				if m.DebtService != 0 || m.DSCR != 0 || m.MonthlyPayment != 0 {
					t.Errorf("expected no financing, got %+v", m)
				}
				if m.CashFlow != m.Statement.NOI {
					t.Errorf("cash flow = %v, want NOI %v", m.CashFlow, m.Statement.NOI)
				}
				if m.Financed {
					t.Error("deal without scenarios should not be financed")
				}
			},
		},
		{
			name: "no down payment",
			deal: func() Deal { d := mainStreet(); d.Property.DownPaymentPct = 0; return d }(),
			check: func(t *testing.T, m DealMetrics) {
				if m.CashOnCash != 0 {
					t.Errorf("cash on cash = %v, want 0", m.CashOnCash)
				}
			},
		},
		{
			name: "no income",
			deal: func() Deal { d := mainStreet(); d.Incomes = nil; return d }(),
			check: func(t *testing.T, m DealMetrics) {
				if m.GRM != 0 || m.BreakEvenOccupancy != 0 {
					t.Errorf("expected zero income ratios, got grm=%v breakeven=%v", m.GRM, m.BreakEvenOccupancy)
				}
			},
		},
		{
			name: "empty deal",
			deal: Deal{},
			check: func(t *testing.T, m DealMetrics) {
				if m != (DealMetrics{}) {
					t.Errorf("expected zero metrics, got %+v", m)
				}
			},
		},
		{
			name: "non-numeric fields",
			deal: Deal{Property: PropertyMeta{Price: math.NaN(), DownPaymentPct: math.Inf(1)}},
			check: func(t *testing.T, m DealMetrics) {
				if m != (DealMetrics{}) {
					t.Errorf("expected zero metrics, got %+v", m)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeDealMetrics(tt.deal)
			for name, v := range map[string]float64{
				"cap": m.CapRate, "dscr": m.DSCR, "coc": m.CashOnCash, "grm": m.GRM,
			} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Errorf("%s is not finite: %v", name, v)
				}
			}
			tt.check(t, m)
		})
	}
}

func TestComputeDealMetricsIgnoresRenovations(t *testing.T) {
	d := mainStreet()
	before := ComputeDealMetrics(d)
	d.Renovations = append(d.Renovations, RenovationPhase{ID: 3, Name: "Parking", Cost: 1e6})
	after := ComputeDealMetrics(d)

	if before.Statement != after.Statement || before.CashFlow != after.CashFlow {
		t.Error("renovation phases must not change NOI or cash flow")
	}
	if after.RenovationTotal != before.RenovationTotal+1e6 {
		t.Errorf("renovation total = %v", after.RenovationTotal)
	}
}

func TestComputeDealMetricsIdempotent(t *testing.T) {
	d := mainStreet()
	first := ComputeDealMetrics(d)
	second := ComputeDealMetrics(d)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(d, mainStreet()) {
		t.Error("ComputeDealMetrics must not modify its input")
	}
}

func TestCompareScenarios(t *testing.T) {
	rows := CompareScenarios(mainStreet())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	base, alt := rows[0], rows[1]
	if !base.Active || alt.Active {
		t.Error("only the first scenario is active")
	}
	if base.ScenarioID != 1 || alt.ScenarioID != 2 {
		t.Errorf("unexpected scenario ids %d, %d", base.ScenarioID, alt.ScenarioID)
	}
	if alt.DebtService <= base.DebtService {
		t.Error("larger loan at higher rate should cost more")
	}
	if !almostEqual(base.Equity, 525000, 1e-6) || !almostEqual(alt.Equity, 450000, 1e-6) {
		t.Errorf("equity = %v / %v", base.Equity, alt.Equity)
	}
	if !almostEqual(base.DebtService, ComputeDealMetrics(mainStreet()).DebtService, 1e-9) {
		t.Error("active row must match deal metrics")
	}
	if got := CompareScenarios(Deal{}); len(got) != 0 {
		t.Errorf("expected no rows, got %d", len(got))
	}
}
