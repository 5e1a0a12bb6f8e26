package deal

import (
	"time"

	"github.com/cloud-ru/mcp-dealcalc-go/internal/calculations"
)

// DefaultDeal сделка, с которой стартует калькулятор.
// Ведомость T12 начинается с текущего месяца прошлого года.
func DefaultDeal(now time.Time) calculations.Deal {
	d := calculations.Deal{
		Property: calculations.PropertyMeta{
			Name:           "123 Main St",
			Market:         "Anytown, USA",
			Price:          1500000,
			Units:          14,
			DownPaymentPct: 0.35,
			RepairBudget:   50000,
			ClosingCostPct: 0.03,
			Type:           calculations.PropertyMultifamily,
		},
		Incomes: []calculations.IncomeLine{
			{Label: "Gross Potential Rent", Amount: 168000},
			{Label: "Other Income", Amount: 7200},
		},
		Expenses: []calculations.ExpenseLine{
			{Label: "Taxes", Amount: 7100},
			{Label: "Insurance", Amount: 6585},
			{Label: "Maintenance", Amount: 9760},
			{Label: "Utilities", Amount: 10299},
			{Label: "Management", Amount: 5, PercentOfEGI: true},
		},
		Scenarios: []calculations.LoanScenario{
			{ID: 1, Name: "Base (65% LTV 6.5% 30yr)", LoanAmount: 975000, AnnualRate: 0.065, TermYears: 30, AmortYears: 30},
			{ID: 2, Name: "Alt (70% LTV 6.75% 30yr)", LoanAmount: 1050000, AnnualRate: 0.0675, TermYears: 30, AmortYears: 30},
		},
		Renovations: []calculations.RenovationPhase{},
		Projection: calculations.ProjectionAssumptions{
			HoldYears:       5,
			RentGrowth:      0.03,
			ExpenseGrowth:   0.02,
			SaleCapRate:     0.06,
			SellingCostsPct: 0.05,
			DebtServiceMode: calculations.DebtServiceFlat,
		},
		T12: calculations.T12Ledger{
			StartMonth: int(now.Month()) - 1,
			StartYear:  now.Year() - 1,
		},
	}

	monthlyExpenses := (7100.0 + 6585.0 + 9760.0) / 12
	for m := 0; m < calculations.T12Months; m++ {
		d.T12 = d.T12.WithIncome(m, 14600).WithExpense(m, monthlyExpenses)
	}
	return d
}
