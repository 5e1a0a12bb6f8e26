package calculations

import (
	"fmt"
	"time"

	"github.com/cloud-ru/mcp-dealcalc-go/pkg/utils"
)

// T12Months количество месяцев в ведомости T12
const T12Months = 12

// T12Ledger фактические доходы и расходы за последние 12 месяцев.
// StartMonth: 0 январь, 11 декабрь.
type T12Ledger struct {
	StartMonth int                `json:"start_month" yaml:"start_month"`
	StartYear  int                `json:"start_year" yaml:"start_year"`
	Income     [T12Months]float64 `json:"income" yaml:"income"`
	Expenses   [T12Months]float64 `json:"expenses" yaml:"expenses"`
}

// T12Period подпись одного месяца ведомости
type T12Period struct {
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Label string `json:"label"`
}

// T12Summary итог ведомости T12
type T12Summary struct {
	Periods      []T12Period `json:"periods"`
	IncomeTotal  float64     `json:"income_total"`
	ExpenseTotal float64     `json:"expense_total"`
	NOI          float64     `json:"noi"`
}

// MonthlyTotal суммирует доходы и расходы за 12 месяцев
func MonthlyTotal(l T12Ledger) (incomeTotal, expenseTotal float64) {
	for i := 0; i < T12Months; i++ {
		incomeTotal += utils.Num(l.Income[i])
		expenseTotal += utils.Num(l.Expenses[i])
	}
	return incomeTotal, expenseTotal
}

// AnnualNOI годовой NOI по ведомости T12
func AnnualNOI(l T12Ledger) float64 {
	income, expense := MonthlyTotal(l)
	return income - expense
}

// WithIncome возвращает копию ведомости с изменённым доходом за месяц
func (l T12Ledger) WithIncome(month int, amount float64) T12Ledger {
	if month >= 0 && month < T12Months {
		l.Income[month] = utils.Num(amount)
	}
	return l
}

// WithExpense возвращает копию ведомости с изменённым расходом за месяц
func (l T12Ledger) WithExpense(month int, amount float64) T12Ledger {
	if month >= 0 && month < T12Months {
		l.Expenses[month] = utils.Num(amount)
	}
	return l
}

// OperatingLines представляет ведомость в виде статей для ComputeOperatingStatement
func (l T12Ledger) OperatingLines() ([]IncomeLine, []ExpenseLine) {
	income, expense := MonthlyTotal(l)
	return []IncomeLine{{Label: "T12 Income", Amount: income}},
		[]ExpenseLine{{Label: "T12 Expenses", Amount: expense}}
}

// Periods строит подписи 12 месяцев, начиная со StartMonth/StartYear
func (l T12Ledger) Periods() []T12Period {
	m := ((l.StartMonth % T12Months) + T12Months) % T12Months
	y := l.StartYear
	periods := make([]T12Period, 0, T12Months)
	for i := 0; i < T12Months; i++ {
		periods = append(periods, T12Period{
			Month: m,
			Year:  y,
			Label: fmt.Sprintf("%s %d", time.Month(m+1).String()[:3], y),
		})
		m = (m + 1) % T12Months
		if m == 0 {
			y++
		}
	}
	return periods
}

// SummarizeT12 собирает итог ведомости
func SummarizeT12(l T12Ledger) T12Summary {
	income, expense := MonthlyTotal(l)
	return T12Summary{
		Periods:      l.Periods(),
		IncomeTotal:  income,
		ExpenseTotal: expense,
		NOI:          income - expense,
	}
}
