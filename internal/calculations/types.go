package calculations

// PropertyType тип объекта недвижимости
type PropertyType string

const (
	PropertyMultifamily PropertyType = "Multifamily"
	PropertyRetail      PropertyType = "Retail"
	PropertyOffice      PropertyType = "Office"
	PropertyIndustrial  PropertyType = "Industrial"
	PropertyMixedUse    PropertyType = "MixedUse"
	PropertyLand        PropertyType = "Land"
	PropertyOther       PropertyType = "Other"
)

// PropertyTypes перечисляет допустимые типы объектов
var PropertyTypes = []PropertyType{
	PropertyMultifamily,
	PropertyRetail,
	PropertyOffice,
	PropertyIndustrial,
	PropertyMixedUse,
	PropertyLand,
	PropertyOther,
}

// DebtServiceMode определяет, как проектор считает обслуживание долга по годам
type DebtServiceMode string

const (
	// DebtServiceFlat одинаковый годовой платёж во всех годах прогноза
	DebtServiceFlat DebtServiceMode = "flat"
	// DebtServiceAmortized годовой платёж берётся из графика амортизации
	DebtServiceAmortized DebtServiceMode = "amortized"
)

// PropertyMeta описывает объект сделки
type PropertyMeta struct {
	Name             string       `json:"name" yaml:"name"`
	Market           string       `json:"market" yaml:"market"`
	Price            float64      `json:"price" yaml:"price"`
	Units            int          `json:"units" yaml:"units"`
	DownPaymentPct   float64      `json:"down_payment_pct" yaml:"down_payment_pct"`
	RepairBudget     float64      `json:"repair_budget" yaml:"repair_budget"`
	AcquisitionCosts float64      `json:"acquisition_costs" yaml:"acquisition_costs"`
	ClosingCostPct   float64      `json:"closing_cost_pct" yaml:"closing_cost_pct"`
	AfterRepairValue float64      `json:"after_repair_value" yaml:"after_repair_value"`
	MonthlyReserves  float64      `json:"monthly_reserves" yaml:"monthly_reserves"`
	SquareFeet       float64      `json:"square_feet" yaml:"square_feet"`
	Type             PropertyType `json:"type" yaml:"type"`
}

// IncomeLine статья годового дохода
type IncomeLine struct {
	Label  string  `json:"label" yaml:"label"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// ExpenseLine статья расходов. При PercentOfEGI сумма трактуется как процент (0-100)
// от совокупного дохода и пересчитывается при каждом расчёте.
type ExpenseLine struct {
	Label        string  `json:"label" yaml:"label"`
	Amount       float64 `json:"amount" yaml:"amount"`
	PercentOfEGI bool    `json:"percent_of_egi" yaml:"percent_of_egi"`
}

// LoanScenario вариант финансирования. Ставка задаётся долей (0.065 = 6.5%).
type LoanScenario struct {
	ID                int     `json:"id" yaml:"id"`
	Name              string  `json:"name" yaml:"name"`
	LoanAmount        float64 `json:"loan_amount" yaml:"loan_amount"`
	AnnualRate        float64 `json:"annual_rate" yaml:"annual_rate"`
	TermYears         int     `json:"term_years" yaml:"term_years"`
	AmortYears        int     `json:"amort_years" yaml:"amort_years"`
	InterestOnlyYears int     `json:"interest_only_years" yaml:"interest_only_years"`
}

// AmortizationYears возвращает срок амортизации; если он не задан, используется срок кредита
func (s LoanScenario) AmortizationYears() int {
	if s.AmortYears > 0 {
		return s.AmortYears
	}
	return s.TermYears
}

// RenovationPhase этап ремонта. В расчёт NOI не входит.
type RenovationPhase struct {
	ID   int     `json:"id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`
	Cost float64 `json:"cost" yaml:"cost"`
}

// ProjectionAssumptions допущения многолетнего прогноза
type ProjectionAssumptions struct {
	HoldYears       int             `json:"hold_years" yaml:"hold_years"`
	RentGrowth      float64         `json:"rent_growth" yaml:"rent_growth"`
	ExpenseGrowth   float64         `json:"expense_growth" yaml:"expense_growth"`
	VacancyRate     float64         `json:"vacancy_rate" yaml:"vacancy_rate"`
	SaleCapRate     float64         `json:"sale_cap_rate" yaml:"sale_cap_rate"`
	SellingCostsPct float64         `json:"selling_costs_pct" yaml:"selling_costs_pct"`
	DebtServiceMode DebtServiceMode `json:"debt_service_mode,omitempty" yaml:"debt_service_mode,omitempty"`
}

// Deal снимок сделки: всё, что нужно движку для расчёта.
// Активным считается первый сценарий финансирования.
type Deal struct {
	Property    PropertyMeta          `json:"property" yaml:"property"`
	Incomes     []IncomeLine          `json:"incomes" yaml:"incomes"`
	Expenses    []ExpenseLine         `json:"expenses" yaml:"expenses"`
	Scenarios   []LoanScenario        `json:"scenarios" yaml:"scenarios"`
	Renovations []RenovationPhase     `json:"renovations" yaml:"renovations"`
	Projection  ProjectionAssumptions `json:"projection" yaml:"projection"`
	T12         T12Ledger             `json:"t12" yaml:"t12"`
	UseT12      bool                  `json:"use_t12" yaml:"use_t12"`
}

// ActiveScenario возвращает активный сценарий; false означает сделку без кредита
func (d Deal) ActiveScenario() (LoanScenario, bool) {
	if len(d.Scenarios) == 0 {
		return LoanScenario{}, false
	}
	return d.Scenarios[0], true
}

// Clone возвращает глубокую копию сделки
func (d Deal) Clone() Deal {
	c := d
	c.Incomes = append([]IncomeLine(nil), d.Incomes...)
	c.Expenses = append([]ExpenseLine(nil), d.Expenses...)
	c.Scenarios = append([]LoanScenario(nil), d.Scenarios...)
	c.Renovations = append([]RenovationPhase(nil), d.Renovations...)
	return c
}

// AmortizationYear одна годовая запись графика погашения
type AmortizationYear struct {
	Year          int     `json:"year"`
	Payment       float64 `json:"payment"`
	InterestPaid  float64 `json:"interest_paid"`
	PrincipalPaid float64 `json:"principal_paid"`
	EndingBalance float64 `json:"ending_balance"`
	InterestOnly  bool    `json:"interest_only,omitempty"`
}

// OperatingStatement сводка доходов и расходов
type OperatingStatement struct {
	IncomeTotal         float64 `json:"income_total"`
	FlatExpenseTotal    float64 `json:"flat_expense_total"`
	PercentExpenseTotal float64 `json:"percent_expense_total"`
	ExpenseTotal        float64 `json:"expense_total"`
	NOI                 float64 `json:"noi"`
	ExpenseRatio        float64 `json:"expense_ratio"`
}

// DealMetrics производные показатели сделки за первый год
type DealMetrics struct {
	Statement             OperatingStatement `json:"statement"`
	CapRate               float64            `json:"cap_rate"`
	MonthlyPayment        float64            `json:"monthly_payment"`
	DebtService           float64            `json:"debt_service"`
	DSCR                  float64            `json:"dscr"`
	Equity                float64            `json:"equity"`
	CashFlow              float64            `json:"cash_flow"`
	CashOnCash            float64            `json:"cash_on_cash"`
	GRM                   float64            `json:"grm"`
	LoanToValue           float64            `json:"loan_to_value"`
	PricePerUnit          float64            `json:"price_per_unit"`
	PricePerSquareFoot    float64            `json:"price_per_square_foot"`
	ClosingCosts          float64            `json:"closing_costs"`
	TotalCashRequired     float64            `json:"total_cash_required"`
	AnnualReserves        float64            `json:"annual_reserves"`
	CashFlowAfterReserves float64            `json:"cash_flow_after_reserves"`
	BreakEvenOccupancy    float64            `json:"break_even_occupancy"`
	RenovationTotal       float64            `json:"renovation_total"`
	Financed              bool               `json:"financed"`
}

// ScenarioComparison показатели сделки при конкретном сценарии финансирования
type ScenarioComparison struct {
	ScenarioID     int     `json:"scenario_id"`
	Name           string  `json:"name"`
	Active         bool    `json:"active"`
	LoanAmount     float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	DebtService    float64 `json:"debt_service"`
	DSCR           float64 `json:"dscr"`
	CashFlow       float64 `json:"cash_flow"`
	Equity         float64 `json:"equity"`
	CashOnCash     float64 `json:"cash_on_cash"`
	LoanToValue    float64 `json:"loan_to_value"`
}

// ProjectionInput входные данные многолетнего прогноза
type ProjectionInput struct {
	StartGross      float64
	StartExpenses   float64
	VacancyRate     float64
	RentGrowth      float64
	ExpenseGrowth   float64
	Scenario        *LoanScenario
	SaleCapRate     float64
	SellingCostsPct float64
	HoldYears       int
	DebtServiceMode DebtServiceMode
}

// ProjectionYear одна годовая запись прогноза
type ProjectionYear struct {
	Year               int     `json:"year"`
	GrossIncome        float64 `json:"gross_income"`
	VacancyLoss        float64 `json:"vacancy_loss"`
	EGI                float64 `json:"egi"`
	Expenses           float64 `json:"expenses"`
	NOI                float64 `json:"noi"`
	DebtService        float64 `json:"debt_service"`
	CashFlow           float64 `json:"cash_flow"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
	SaleProceeds       float64 `json:"sale_proceeds"`
	LoanBalance        float64 `json:"loan_balance"`
}

// ProjectionSummary итог прогноза на момент продажи
type ProjectionSummary struct {
	HoldYears      int     `json:"hold_years"`
	TotalCashFlow  float64 `json:"total_cash_flow"`
	SaleProceeds   float64 `json:"sale_proceeds"`
	LoanPayoff     float64 `json:"loan_payoff"`
	NetSaleEquity  float64 `json:"net_sale_equity"`
	EquityMultiple float64 `json:"equity_multiple"`
}

// Projection результат прогноза по сделке
type Projection struct {
	Years   []ProjectionYear  `json:"years"`
	Summary ProjectionSummary `json:"summary"`
}
