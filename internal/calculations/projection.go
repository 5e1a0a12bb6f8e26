package calculations

import (
	"github.com/cloud-ru/mcp-dealcalc-go/pkg/utils"
)

// Project строит прогноз денежного потока ровно на HoldYears лет.
// В режиме DebtServiceFlat обслуживание долга одинаково во всех годах,
// в режиме DebtServiceAmortized берётся годовой платёж из графика погашения.
// Выручка от продажи появляется только в последнем году.
func Project(in ProjectionInput) []ProjectionYear {
	holdYears := in.HoldYears
	if holdYears < 1 {
		holdYears = 1
	}

	vacancy := utils.Num(in.VacancyRate)
	rentGrowth := utils.Num(in.RentGrowth)
	expenseGrowth := utils.Num(in.ExpenseGrowth)
	saleCap := utils.Num(in.SaleCapRate)
	selling := utils.Num(in.SellingCostsPct)

	var (
		flatDS   float64
		schedule []AmortizationYear
	)
	if in.Scenario != nil {
		flatDS = YearlyDebtService(*in.Scenario)
		schedule = AmortizationSchedule(*in.Scenario, holdYears)
	}

	gross := utils.Num(in.StartGross)
	expenses := utils.Num(in.StartExpenses)
	cumulative := 0.0

	years := make([]ProjectionYear, 0, holdYears)
	for y := 1; y <= holdYears; y++ {
		egi := gross * (1 - vacancy)
		noi := egi - expenses

		ds := flatDS
		balance := 0.0
		if schedule != nil {
			balance = schedule[y-1].EndingBalance
			if in.DebtServiceMode == DebtServiceAmortized {
				ds = schedule[y-1].Payment
			}
		}

		cashFlow := noi - ds
		cumulative += cashFlow

		sale := 0.0
		if y == holdYears {
			sale = utils.SafeDiv(noi, saleCap) * (1 - selling)
		}

		years = append(years, ProjectionYear{
			Year:               y,
			GrossIncome:        gross,
			VacancyLoss:        gross - egi,
			EGI:                egi,
			Expenses:           expenses,
			NOI:                noi,
			DebtService:        ds,
			CashFlow:           cashFlow,
			CumulativeCashFlow: cumulative,
			SaleProceeds:       sale,
			LoanBalance:        balance,
		})

		gross *= 1 + rentGrowth
		expenses *= 1 + expenseGrowth
	}
	return years
}

// ProjectionInputFor собирает входные данные прогноза из сделки
func ProjectionInputFor(d Deal) ProjectionInput {
	stmt := StatementFor(d)
	a := d.Projection
	in := ProjectionInput{
		StartGross:      stmt.IncomeTotal,
		StartExpenses:   stmt.ExpenseTotal,
		VacancyRate:     a.VacancyRate,
		RentGrowth:      a.RentGrowth,
		ExpenseGrowth:   a.ExpenseGrowth,
		SaleCapRate:     a.SaleCapRate,
		SellingCostsPct: a.SellingCostsPct,
		HoldYears:       a.HoldYears,
		DebtServiceMode: a.DebtServiceMode,
	}
	if s, ok := d.ActiveScenario(); ok {
		in.Scenario = &s
	}
	return in
}

// ProjectDeal строит прогноз по сделке и подводит итог на момент продажи
func ProjectDeal(d Deal) Projection {
	years := Project(ProjectionInputFor(d))
	last := years[len(years)-1]

	netEquity := last.SaleProceeds - last.LoanBalance
	equity := utils.Num(d.Property.Price) * utils.Num(d.Property.DownPaymentPct)

	return Projection{
		Years: years,
		Summary: ProjectionSummary{
			HoldYears:      len(years),
			TotalCashFlow:  last.CumulativeCashFlow,
			SaleProceeds:   last.SaleProceeds,
			LoanPayoff:     last.LoanBalance,
			NetSaleEquity:  netEquity,
			EquityMultiple: utils.SafeDiv(last.CumulativeCashFlow+netEquity, equity),
		},
	}
}
