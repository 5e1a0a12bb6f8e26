package calculations

import (
	"math"

	"github.com/cloud-ru/mcp-dealcalc-go/pkg/utils"
)

const monthsPerYear = 12

// MonthlyPayment рассчитывает фиксированный ежемесячный платёж по аннуитетной формуле.
// Нулевая ставка даёт равные доли principal/n; пустой кредит или срок дают 0.
func MonthlyPayment(principal, annualRate float64, amortYears int) float64 {
	principal = utils.Num(principal)
	annualRate = utils.Num(annualRate)
	if principal <= 0 || amortYears <= 0 {
		return 0
	}

	n := float64(amortYears * monthsPerYear)
	r := annualRate / monthsPerYear
	if r == 0 {
		return principal / n
	}
	return utils.Num(principal * r / (1.0 - math.Pow(1.0+r, -n)))
}

// InterestOnlyPayment ежемесячный платёж только по процентам
func InterestOnlyPayment(principal, annualRate float64) float64 {
	return utils.Num(utils.Num(principal) * utils.Num(annualRate) / monthsPerYear)
}

// YearlyDebtService годовое обслуживание долга по сценарию.
// Для кредита с льготным периодом возвращается процентный платёж этого периода.
func YearlyDebtService(s LoanScenario) float64 {
	if s.InterestOnlyYears > 0 {
		return InterestOnlyPayment(s.LoanAmount, s.AnnualRate) * monthsPerYear
	}
	return MonthlyPayment(s.LoanAmount, s.AnnualRate, s.AmortizationYears()) * monthsPerYear
}

// Amortizer последовательно выдаёт годовые записи графика погашения.
// Курсор одноразовый: после исчерпания нужно создать новый через NewAmortizer.
type Amortizer struct {
	rate       float64
	amortYears int
	ioYears    int
	limit      int

	year    int
	balance float64
	payment float64
	started bool
	current AmortizationYear
}

// NewAmortizer создаёт курсор графика погашения на years лет
func NewAmortizer(s LoanScenario, years int) *Amortizer {
	balance := utils.Num(s.LoanAmount)
	if balance < 0 {
		balance = 0
	}
	ioYears := s.InterestOnlyYears
	if ioYears < 0 {
		ioYears = 0
	}
	return &Amortizer{
		rate:       utils.Num(s.AnnualRate),
		amortYears: s.AmortizationYears(),
		ioYears:    ioYears,
		limit:      years,
		balance:    balance,
	}
}

// Next переходит к следующему году. Возвращает false, когда график исчерпан.
func (a *Amortizer) Next() bool {
	if a.year >= a.limit {
		return false
	}
	a.year++

	rec := AmortizationYear{Year: a.year}
	switch {
	case a.balance <= 0:
	case a.year <= a.ioYears:
		interest := a.balance * a.rate
		rec.Payment = interest
		rec.InterestPaid = interest
		rec.InterestOnly = true
	default:
		if !a.started {
			// платёж фиксируется один раз от остатка на начало амортизации
			a.payment = MonthlyPayment(a.balance, a.rate, a.amortYears)
			a.started = true
		}
		if a.payment > 0 {
			a.amortizeYear(&rec)
		}
	}
	rec.EndingBalance = a.balance
	a.current = rec
	return true
}

func (a *Amortizer) amortizeYear(rec *AmortizationYear) {
	monthlyRate := a.rate / monthsPerYear
	for m := 0; m < monthsPerYear && a.balance > 0; m++ {
		interest := a.balance * monthlyRate
		principal := a.payment - interest
		if principal > a.balance {
			principal = a.balance
		}
		a.balance -= principal
		rec.Payment += interest + principal
		rec.InterestPaid += interest
		rec.PrincipalPaid += principal
	}
	if a.balance < 0 {
		a.balance = 0
	}
}

// Year возвращает текущую запись; валидна после успешного Next
func (a *Amortizer) Year() AmortizationYear {
	return a.current
}

// AmortizationSchedule рассчитывает график погашения на years лет
func AmortizationSchedule(s LoanScenario, years int) []AmortizationYear {
	if years < 0 {
		years = 0
	}
	schedule := make([]AmortizationYear, 0, years)
	it := NewAmortizer(s, years)
	for it.Next() {
		schedule = append(schedule, it.Year())
	}
	return schedule
}

// RemainingBalance остаток долга после years лет платежей
func RemainingBalance(s LoanScenario, years int) float64 {
	balance := utils.Num(s.LoanAmount)
	if balance < 0 {
		balance = 0
	}
	it := NewAmortizer(s, years)
	for it.Next() {
		balance = it.Year().EndingBalance
	}
	return balance
}
