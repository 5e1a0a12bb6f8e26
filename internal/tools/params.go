package tools

import (
	"math"
	"strings"

	"github.com/cloud-ru/mcp-dealcalc-go/internal/calculations"
	"github.com/cloud-ru/mcp-dealcalc-go/pkg/utils"
)

// Параметры приходят из JSON как map[string]interface{}.
// Отсутствующие и нечисловые значения превращаются в 0, ошибок разбора нет.

const maxIntParam = 1e9

func num(params map[string]interface{}, key string) float64 {
	return utils.Coerce(params[key])
}

// Int приводит параметр к целому числу
func Int(params map[string]interface{}, key string) int {
	return integer(params, key)
}

// Float приводит параметр к числу
func Float(params map[string]interface{}, key string) float64 {
	return num(params, key)
}

// Bool приводит параметр к логическому значению
func Bool(params map[string]interface{}, key string) bool {
	return flag(params, key)
}

func integer(params map[string]interface{}, key string) int {
	v := math.Trunc(num(params, key))
	return int(math.Max(-maxIntParam, math.Min(maxIntParam, v)))
}

func str(params map[string]interface{}, key string) string {
	if s, ok := params[key].(string); ok {
		return s
	}
	return ""
}

func flag(params map[string]interface{}, key string) bool {
	switch v := params[key].(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "true" || s == "yes" || s == "on" || utils.Coerce(s) != 0
	default:
		return utils.Coerce(v) != 0
	}
}

func object(params map[string]interface{}, key string) map[string]interface{} {
	if m, ok := params[key].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func list(params map[string]interface{}, key string) []map[string]interface{} {
	raw, ok := params[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

func numbers(params map[string]interface{}, key string) []float64 {
	raw, ok := params[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]float64, len(raw))
	for i, item := range raw {
		out[i] = utils.Coerce(item)
	}
	return out
}

// DecodeProperty разбирает параметры объекта
func DecodeProperty(m map[string]interface{}) calculations.PropertyMeta {
	return calculations.PropertyMeta{
		Name:             str(m, "name"),
		Market:           str(m, "market"),
		Price:            num(m, "price"),
		Units:            integer(m, "units"),
		DownPaymentPct:   num(m, "down_payment_pct"),
		RepairBudget:     num(m, "repair_budget"),
		AcquisitionCosts: num(m, "acquisition_costs"),
		ClosingCostPct:   num(m, "closing_cost_pct"),
		AfterRepairValue: num(m, "after_repair_value"),
		MonthlyReserves:  num(m, "monthly_reserves"),
		SquareFeet:       num(m, "square_feet"),
		Type:             calculations.PropertyType(str(m, "type")),
	}
}

// DecodeIncome разбирает одну статью дохода
func DecodeIncome(m map[string]interface{}) calculations.IncomeLine {
	return calculations.IncomeLine{Label: str(m, "label"), Amount: num(m, "amount")}
}

func decodeIncomes(params map[string]interface{}) []calculations.IncomeLine {
	items := list(params, "incomes")
	out := make([]calculations.IncomeLine, 0, len(items))
	for _, m := range items {
		out = append(out, DecodeIncome(m))
	}
	return out
}

// DecodeExpense разбирает одну статью расходов
func DecodeExpense(m map[string]interface{}) calculations.ExpenseLine {
	return calculations.ExpenseLine{
		Label:        str(m, "label"),
		Amount:       num(m, "amount"),
		PercentOfEGI: flag(m, "percent_of_egi"),
	}
}

func decodeExpenses(params map[string]interface{}) []calculations.ExpenseLine {
	items := list(params, "expenses")
	out := make([]calculations.ExpenseLine, 0, len(items))
	for _, m := range items {
		out = append(out, DecodeExpense(m))
	}
	return out
}

// DecodeScenario разбирает сценарий финансирования
func DecodeScenario(m map[string]interface{}) calculations.LoanScenario {
	return calculations.LoanScenario{
		ID:                integer(m, "id"),
		Name:              str(m, "name"),
		LoanAmount:        num(m, "loan_amount"),
		AnnualRate:        num(m, "annual_rate"),
		TermYears:         integer(m, "term_years"),
		AmortYears:        integer(m, "amort_years"),
		InterestOnlyYears: integer(m, "interest_only_years"),
	}
}

func decodeScenarios(params map[string]interface{}) []calculations.LoanScenario {
	items := list(params, "scenarios")
	out := make([]calculations.LoanScenario, 0, len(items))
	for _, m := range items {
		out = append(out, DecodeScenario(m))
	}
	return out
}

// DecodeRenovation разбирает этап ремонта
func DecodeRenovation(m map[string]interface{}) calculations.RenovationPhase {
	return calculations.RenovationPhase{
		ID:   integer(m, "id"),
		Name: str(m, "name"),
		Cost: num(m, "cost"),
	}
}

func decodeRenovations(params map[string]interface{}) []calculations.RenovationPhase {
	items := list(params, "renovations")
	out := make([]calculations.RenovationPhase, 0, len(items))
	for _, m := range items {
		out = append(out, DecodeRenovation(m))
	}
	return out
}

// DecodeProjection разбирает допущения прогноза
func DecodeProjection(m map[string]interface{}) calculations.ProjectionAssumptions {
	return calculations.ProjectionAssumptions{
		HoldYears:       integer(m, "hold_years"),
		RentGrowth:      num(m, "rent_growth"),
		ExpenseGrowth:   num(m, "expense_growth"),
		VacancyRate:     num(m, "vacancy_rate"),
		SaleCapRate:     num(m, "sale_cap_rate"),
		SellingCostsPct: num(m, "selling_costs_pct"),
		DebtServiceMode: calculations.DebtServiceMode(str(m, "debt_service_mode")),
	}
}

func decodeT12(m map[string]interface{}) calculations.T12Ledger {
	l := calculations.T12Ledger{
		StartMonth: integer(m, "start_month"),
		StartYear:  integer(m, "start_year"),
	}
	for i, v := range numbers(m, "income") {
		l = l.WithIncome(i, v)
	}
	for i, v := range numbers(m, "expenses") {
		l = l.WithExpense(i, v)
	}
	return l
}

// DecodeDeal собирает сделку из параметров инструмента
func DecodeDeal(params map[string]interface{}) calculations.Deal {
	return calculations.Deal{
		Property:    DecodeProperty(object(params, "property")),
		Incomes:     decodeIncomes(params),
		Expenses:    decodeExpenses(params),
		Scenarios:   decodeScenarios(params),
		Renovations: decodeRenovations(params),
		Projection:  DecodeProjection(object(params, "projection")),
		T12:         decodeT12(object(params, "t12")),
		UseT12:      flag(params, "use_t12"),
	}
}
