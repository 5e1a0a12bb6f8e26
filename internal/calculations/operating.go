package calculations

import (
	"github.com/cloud-ru/mcp-dealcalc-go/pkg/utils"
)

// ComputeOperatingStatement сводит статьи доходов и расходов в NOI.
// Процентные расходы считаются от суммы доходов за один проход и никогда
// не зависят от других процентных статей.
func ComputeOperatingStatement(incomes []IncomeLine, expenses []ExpenseLine) OperatingStatement {
	incomeTotal := 0.0
	for _, line := range incomes {
		incomeTotal += utils.Num(line.Amount)
	}
	// переполнение суммы приводится к 0
	incomeTotal = utils.Num(incomeTotal)

	flat := 0.0
	pct := 0.0
	for _, line := range expenses {
		amount := utils.Num(line.Amount)
		if line.PercentOfEGI {
			pct += amount / 100.0 * incomeTotal
		} else {
			flat += amount
		}
	}

	flat = utils.Num(flat)
	pct = utils.Num(pct)
	expenseTotal := utils.Num(flat + pct)
	return OperatingStatement{
		IncomeTotal:         incomeTotal,
		FlatExpenseTotal:    flat,
		PercentExpenseTotal: pct,
		ExpenseTotal:        expenseTotal,
		NOI:                 utils.Num(incomeTotal - expenseTotal),
		ExpenseRatio:        utils.SafeDiv(expenseTotal, incomeTotal),
	}
}

// StatementFor выбирает источник данных сделки: T12 или постатейный учёт
func StatementFor(d Deal) OperatingStatement {
	if d.UseT12 {
		incomes, expenses := d.T12.OperatingLines()
		return ComputeOperatingStatement(incomes, expenses)
	}
	return ComputeOperatingStatement(d.Incomes, d.Expenses)
}
