package validators

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-dealcalc-go/internal/calculations"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/config"
	"github.com/cloud-ru/mcp-dealcalc-go/pkg/utils"
)

// Максимальный срок кредита в годах
const maxLoanYears = 100

// Issue описывает значение, которое пришлось скорректировать.
// Ввод никогда не отклоняется, значения только приводятся к диапазону.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateNumber проверяет, что число конечно и лежит в допустимом диапазоне
func ValidateNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: значение не является конечным числом", name)
	}
	if value < minInclusive {
		return fmt.Errorf("%s: значение должно быть ≥ %g", name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: значение слишком велико (>%g)", name, maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: значение должно быть в диапазоне [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

type normalizer struct {
	issues []Issue
}

func (n *normalizer) floatField(name string, v *float64, minInclusive, maxInclusive float64) {
	err := ValidateNumber(name, *v, minInclusive, maxInclusive)
	if err == nil {
		return
	}
	n.issues = append(n.issues, Issue{Field: name, Message: err.Error()})
	*v = math.Min(math.Max(utils.Num(*v), minInclusive), maxInclusive)
}

func (n *normalizer) intField(name string, v *int, minInclusive, maxInclusive int) {
	err := ValidateIntRange(name, *v, minInclusive, maxInclusive)
	if err == nil {
		return
	}
	n.issues = append(n.issues, Issue{Field: name, Message: err.Error()})
	if *v < minInclusive {
		*v = minInclusive
	} else {
		*v = maxInclusive
	}
}

// NormalizeDeal приводит сделку к допустимым диапазонам и возвращает список исправлений.
// Исходная сделка не изменяется.
func NormalizeDeal(cfg *config.Config, d calculations.Deal) (calculations.Deal, []Issue) {
	out := d.Clone()
	n := &normalizer{}
	money := cfg.PriceCap()

	p := &out.Property
	n.floatField("price", &p.Price, 0, money)
	n.intField("units", &p.Units, 0, math.MaxInt32)
	n.floatField("down_payment_pct", &p.DownPaymentPct, 0, 1)
	n.floatField("repair_budget", &p.RepairBudget, 0, money)
	n.floatField("acquisition_costs", &p.AcquisitionCosts, 0, money)
	n.floatField("closing_cost_pct", &p.ClosingCostPct, 0, 1)
	n.floatField("after_repair_value", &p.AfterRepairValue, 0, money)
	n.floatField("monthly_reserves", &p.MonthlyReserves, 0, money)
	n.floatField("square_feet", &p.SquareFeet, 0, money)
	if !knownPropertyType(p.Type) {
		if p.Type != "" {
			n.issues = append(n.issues, Issue{Field: "type", Message: fmt.Sprintf("type: неизвестный тип объекта %q", p.Type)})
		}
		p.Type = calculations.PropertyOther
	}

	for i := range out.Incomes {
		n.floatField(fmt.Sprintf("incomes[%d].amount", i), &out.Incomes[i].Amount, -money, money)
	}
	for i := range out.Expenses {
		name := fmt.Sprintf("expenses[%d].amount", i)
		if out.Expenses[i].PercentOfEGI {
			n.floatField(name, &out.Expenses[i].Amount, 0, 100)
		} else {
			n.floatField(name, &out.Expenses[i].Amount, -money, money)
		}
	}

	for i := range out.Scenarios {
		s := &out.Scenarios[i]
		prefix := fmt.Sprintf("scenarios[%d]", i)
		n.floatField(prefix+".loan_amount", &s.LoanAmount, 0, money)
		n.floatField(prefix+".annual_rate", &s.AnnualRate, 0, 1)
		n.intField(prefix+".term_years", &s.TermYears, 0, maxLoanYears)
		n.intField(prefix+".amort_years", &s.AmortYears, 0, maxLoanYears)
		n.intField(prefix+".interest_only_years", &s.InterestOnlyYears, 0, maxLoanYears)
	}

	for i := range out.Renovations {
		n.floatField(fmt.Sprintf("renovations[%d].cost", i), &out.Renovations[i].Cost, 0, money)
	}

	a := &out.Projection
	n.intField("projection.hold_years", &a.HoldYears, 1, cfg.HoldYearsCap())
	n.floatField("projection.rent_growth", &a.RentGrowth, -1, 10)
	n.floatField("projection.expense_growth", &a.ExpenseGrowth, -1, 10)
	n.floatField("projection.vacancy_rate", &a.VacancyRate, 0, 1)
	n.floatField("projection.sale_cap_rate", &a.SaleCapRate, 0, 1)
	n.floatField("projection.selling_costs_pct", &a.SellingCostsPct, 0, 1)
	switch a.DebtServiceMode {
	case calculations.DebtServiceFlat, calculations.DebtServiceAmortized:
	case "":
		a.DebtServiceMode = calculations.DebtServiceFlat
	default:
		n.issues = append(n.issues, Issue{
			Field:   "projection.debt_service_mode",
			Message: fmt.Sprintf("debt_service_mode: неизвестный режим %q", a.DebtServiceMode),
		})
		a.DebtServiceMode = calculations.DebtServiceFlat
	}

	n.intField("t12.start_month", &out.T12.StartMonth, 0, calculations.T12Months-1)
	for m := 0; m < calculations.T12Months; m++ {
		n.floatField(fmt.Sprintf("t12.income[%d]", m), &out.T12.Income[m], -money, money)
		n.floatField(fmt.Sprintf("t12.expenses[%d]", m), &out.T12.Expenses[m], -money, money)
	}

	return out, n.issues
}

// CheckScheduleYears ограничивает длину графика погашения
func CheckScheduleYears(cfg *config.Config, years int) (int, []Issue) {
	n := &normalizer{}
	n.intField("years", &years, 0, cfg.MaxScheduleYears)
	return years, n.issues
}

func knownPropertyType(t calculations.PropertyType) bool {
	for _, known := range calculations.PropertyTypes {
		if t == known {
			return true
		}
	}
	return false
}
