package calculations

import (
	"github.com/cloud-ru/mcp-dealcalc-go/pkg/utils"
)

// ComputeDealMetrics рассчитывает показатели сделки по активному сценарию.
// Нулевые знаменатели дают 0: функция вызывается на каждое изменение поля
// и не должна падать на неполном вводе.
func ComputeDealMetrics(d Deal) DealMetrics {
	p := d.Property
	price := utils.Num(p.Price)
	stmt := StatementFor(d)

	var (
		loan           float64
		monthlyPayment float64
		debtService    float64
	)
	scenario, financed := d.ActiveScenario()
	if financed {
		loan = utils.Num(scenario.LoanAmount)
		debtService = YearlyDebtService(scenario)
		monthlyPayment = debtService / monthsPerYear
	}

	equity := price * utils.Num(p.DownPaymentPct)
	cashFlow := stmt.NOI - debtService
	closing := price * utils.Num(p.ClosingCostPct)
	reserves := utils.Num(p.MonthlyReserves) * monthsPerYear

	renovations := 0.0
	for _, phase := range d.Renovations {
		renovations += utils.Num(phase.Cost)
	}

	return DealMetrics{
		Statement:             stmt,
		CapRate:               utils.SafeDiv(stmt.NOI, price),
		MonthlyPayment:        monthlyPayment,
		DebtService:           debtService,
		DSCR:                  utils.SafeDiv(stmt.NOI, debtService),
		Equity:                equity,
		CashFlow:              cashFlow,
		CashOnCash:            utils.SafeDiv(cashFlow, equity),
		GRM:                   utils.SafeDiv(price, stmt.IncomeTotal),
		LoanToValue:           utils.SafeDiv(loan, price),
		PricePerUnit:          utils.SafeDiv(price, float64(p.Units)),
		PricePerSquareFoot:    utils.SafeDiv(price, utils.Num(p.SquareFeet)),
		ClosingCosts:          closing,
		TotalCashRequired:     equity + closing + utils.Num(p.AcquisitionCosts) + utils.Num(p.RepairBudget),
		AnnualReserves:        reserves,
		CashFlowAfterReserves: cashFlow - reserves,
		BreakEvenOccupancy:    utils.SafeDiv(stmt.ExpenseTotal+debtService, stmt.IncomeTotal),
		RenovationTotal:       renovations,
		Financed:              financed,
	}
}

// CompareScenarios сравнивает все сценарии финансирования сделки.
// Собственный капитал в сравнении равен цене за вычетом кредита.
func CompareScenarios(d Deal) []ScenarioComparison {
	price := utils.Num(d.Property.Price)
	stmt := StatementFor(d)

	rows := make([]ScenarioComparison, 0, len(d.Scenarios))
	for i, s := range d.Scenarios {
		loan := utils.Num(s.LoanAmount)
		ds := YearlyDebtService(s)
		equity := price - loan
		if equity < 0 {
			equity = 0
		}
		cf := stmt.NOI - ds
		rows = append(rows, ScenarioComparison{
			ScenarioID:     s.ID,
			Name:           s.Name,
			Active:         i == 0,
			LoanAmount:     loan,
			MonthlyPayment: ds / monthsPerYear,
			DebtService:    ds,
			DSCR:           utils.SafeDiv(stmt.NOI, ds),
			CashFlow:       cf,
			Equity:         equity,
			CashOnCash:     utils.SafeDiv(cf, equity),
			LoanToValue:    utils.SafeDiv(loan, price),
		})
	}
	return rows
}
