package calculations

import "math"

// mainStreet сделка на 14 квартир: доход 175 200, NOI 132 696
func mainStreet() Deal {
	return Deal{
		Property: PropertyMeta{
			Name:            "123 Main St",
			Market:          "Anytown, USA",
			Price:           1500000,
			Units:           14,
			DownPaymentPct:  0.35,
			RepairBudget:    50000,
			ClosingCostPct:  0.03,
			MonthlyReserves: 350,
			SquareFeet:      12600,
			Type:            PropertyMultifamily,
		},
		Incomes: []IncomeLine{
			{Label: "Gross Rents", Amount: 168000},
			{Label: "Laundry", Amount: 7200},
		},
		Expenses: []ExpenseLine{
			{Label: "Taxes", Amount: 7100},
			{Label: "Insurance", Amount: 6585},
			{Label: "Maintenance", Amount: 9760},
			{Label: "Utilities", Amount: 10299},
			{Label: "Management", Amount: 5, PercentOfEGI: true},
		},
		Scenarios: []LoanScenario{
			{ID: 1, Name: "Base", LoanAmount: 975000, AnnualRate: 0.065, TermYears: 30, AmortYears: 30},
			{ID: 2, Name: "Alt", LoanAmount: 1050000, AnnualRate: 0.0675, TermYears: 30, AmortYears: 30},
		},
		Renovations: []RenovationPhase{
			{ID: 1, Name: "Roof", Cost: 30000},
			{ID: 2, Name: "Units", Cost: 20000},
		},
		Projection: ProjectionAssumptions{
			HoldYears:       5,
			RentGrowth:      0.03,
			ExpenseGrowth:   0.02,
			SaleCapRate:     0.06,
			SellingCostsPct: 0.05,
		},
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
