package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mcp-dealcalc-go/internal/calculations"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/config"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/metrics"
	"github.com/cloud-ru/mcp-dealcalc-go/internal/validators"
)

// ToolHandler представляет обработчик инструмента MCP
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// ErrUnknownTool возвращается при вызове незарегистрированного инструмента
var ErrUnknownTool = errors.New("неизвестный инструмент")

// Analysis полный расчёт по сделке
type Analysis struct {
	Deal       calculations.Deal                 `json:"deal"`
	Metrics    calculations.DealMetrics          `json:"metrics"`
	Projection calculations.Projection           `json:"projection"`
	Scenarios  []calculations.ScenarioComparison `json:"scenarios"`
	T12        calculations.T12Summary           `json:"t12"`
	Issues     []validators.Issue                `json:"issues,omitempty"`
}

// MetricsResult ответ инструмента deal_metrics
type MetricsResult struct {
	Metrics calculations.DealMetrics `json:"metrics"`
	Issues  []validators.Issue       `json:"issues,omitempty"`
}

// ScheduleResult ответ инструмента amortization_schedule
type ScheduleResult struct {
	MonthlyPayment    float64                         `json:"monthly_payment"`
	YearlyDebtService float64                         `json:"yearly_debt_service"`
	Schedule          []calculations.AmortizationYear `json:"schedule"`
	Issues            []validators.Issue              `json:"issues,omitempty"`
}

// ProjectionResult ответ инструмента project_cash_flows
type ProjectionResult struct {
	calculations.Projection
	Issues []validators.Issue `json:"issues,omitempty"`
}

// ComparisonResult ответ инструмента compare_scenarios
type ComparisonResult struct {
	Scenarios []calculations.ScenarioComparison `json:"scenarios"`
	Issues    []validators.Issue                `json:"issues,omitempty"`
}

type calcFunc func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, []validators.Issue, error)

// instrument оборачивает расчёт в span, метрики и логирование исправленных значений
func instrument(toolName string, tracer trace.Tracer, logger *logrus.Logger, calc calcFunc) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, span := tracer.Start(ctx, toolName)
		defer span.End()

		if params == nil {
			params = map[string]interface{}{}
		}

		metrics.APICalls.WithLabelValues("mcp", toolName, "started").Inc()
		start := time.Now()

		result, issues, err := calc(ctx, span, params)
		metrics.CalculationDuration.WithLabelValues(toolName).Observe(time.Since(start).Seconds())

		if err != nil {
			span.SetAttributes(attribute.String("error", "calculation_error"))
			metrics.ToolCalls.WithLabelValues(toolName, "error").Inc()
			metrics.APICalls.WithLabelValues("mcp", toolName, "error").Inc()
			logger.WithError(err).WithField("tool", toolName).Error("calculation failed")
			return nil, fmt.Errorf("ошибка при выполнении расчета: %w", err)
		}

		if len(issues) > 0 {
			span.SetAttributes(attribute.Int("input_adjustments", len(issues)))
			metrics.InputAdjustments.WithLabelValues(toolName).Add(float64(len(issues)))
			for _, issue := range issues {
				logger.WithFields(logrus.Fields{
					"tool":  toolName,
					"field": issue.Field,
				}).Debug(issue.Message)
			}
		}

		span.SetAttributes(attribute.Bool("success", true))
		metrics.ToolCalls.WithLabelValues(toolName, "success").Inc()
		metrics.APICalls.WithLabelValues("mcp", toolName, "success").Inc()

		return result, nil
	}
}

func dealAttributes(d calculations.Deal) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64("price", d.Property.Price),
		attribute.Int("units", d.Property.Units),
		attribute.Int("scenarios", len(d.Scenarios)),
		attribute.Bool("use_t12", d.UseT12),
	}
}

// Analyze нормализует сделку и выполняет все расчёты по ней
func Analyze(cfg *config.Config, d calculations.Deal) Analysis {
	normalized, issues := validators.NormalizeDeal(cfg, d)
	return Analysis{
		Deal:       normalized,
		Metrics:    calculations.ComputeDealMetrics(normalized),
		Projection: calculations.ProjectDeal(normalized),
		Scenarios:  calculations.CompareScenarios(normalized),
		T12:        calculations.SummarizeT12(normalized.T12),
		Issues:     issues,
	}
}

// AnalyzeDealHandler обрабатывает запрос на полный расчёт сделки
func AnalyzeDealHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return instrument("analyze_deal", tracer, logger,
		func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, []validators.Issue, error) {
			d := DecodeDeal(params)
			span.SetAttributes(dealAttributes(d)...)

			a := Analyze(cfg, d)
			span.SetAttributes(
				attribute.Float64("noi", a.Metrics.Statement.NOI),
				attribute.Float64("cap_rate", a.Metrics.CapRate),
			)
			return a, a.Issues, nil
		})
}

// DealMetricsHandler обрабатывает запрос на расчёт показателей сделки
func DealMetricsHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return instrument("deal_metrics", tracer, logger,
		func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, []validators.Issue, error) {
			d := DecodeDeal(params)
			span.SetAttributes(dealAttributes(d)...)

			normalized, issues := validators.NormalizeDeal(cfg, d)
			// срок владения не участвует в этом расчёте
			issues = withoutField(issues, "projection.hold_years")
			m := calculations.ComputeDealMetrics(normalized)
			span.SetAttributes(
				attribute.Float64("noi", m.Statement.NOI),
				attribute.Float64("cap_rate", m.CapRate),
				attribute.Float64("dscr", m.DSCR),
				attribute.Float64("cash_on_cash", m.CashOnCash),
			)
			return MetricsResult{Metrics: m, Issues: issues}, issues, nil
		})
}

// OperatingStatementHandler обрабатывает запрос на расчёт NOI по статьям
func OperatingStatementHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return instrument("operating_statement", tracer, logger,
		func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, []validators.Issue, error) {
			d := calculations.Deal{
				Incomes:  decodeIncomes(params),
				Expenses: decodeExpenses(params),
			}
			span.SetAttributes(
				attribute.Int("incomes", len(d.Incomes)),
				attribute.Int("expenses", len(d.Expenses)),
			)

			normalized, issues := validators.NormalizeDeal(cfg, d)
			// срок владения не участвует в этом расчёте
			issues = withoutField(issues, "projection.hold_years")

			stmt := calculations.ComputeOperatingStatement(normalized.Incomes, normalized.Expenses)
			span.SetAttributes(attribute.Float64("noi", stmt.NOI))
			return stmt, issues, nil
		})
}

// AmortizationScheduleHandler обрабатывает запрос на построение графика погашения
func AmortizationScheduleHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return instrument("amortization_schedule", tracer, logger,
		func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, []validators.Issue, error) {
			raw := object(params, "scenario")
			if len(raw) == 0 {
				raw = params
			}
			d := calculations.Deal{Scenarios: []calculations.LoanScenario{DecodeScenario(raw)}}
			normalized, issues := validators.NormalizeDeal(cfg, d)
			issues = withoutField(issues, "projection.hold_years")
			s := normalized.Scenarios[0]

			years := s.InterestOnlyYears + s.AmortizationYears()
			if _, ok := params["years"]; ok {
				years = integer(params, "years")
			}
			years, yearIssues := validators.CheckScheduleYears(cfg, years)
			issues = append(issues, yearIssues...)

			span.SetAttributes(
				attribute.Float64("loan_amount", s.LoanAmount),
				attribute.Float64("annual_rate", s.AnnualRate),
				attribute.Int("years", years),
			)

			monthly := calculations.MonthlyPayment(s.LoanAmount, s.AnnualRate, s.AmortizationYears())
			result := ScheduleResult{
				MonthlyPayment:    monthly,
				YearlyDebtService: calculations.YearlyDebtService(s),
				Schedule:          calculations.AmortizationSchedule(s, years),
				Issues:            issues,
			}
			span.SetAttributes(attribute.Float64("monthly_payment", monthly))
			return result, issues, nil
		})
}

// ProjectCashFlowsHandler обрабатывает запрос на многолетний прогноз
func ProjectCashFlowsHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return instrument("project_cash_flows", tracer, logger,
		func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, []validators.Issue, error) {
			d := DecodeDeal(params)
			span.SetAttributes(dealAttributes(d)...)

			normalized, issues := validators.NormalizeDeal(cfg, d)
			p := calculations.ProjectDeal(normalized)
			span.SetAttributes(
				attribute.Int("hold_years", p.Summary.HoldYears),
				attribute.String("debt_service_mode", string(normalized.Projection.DebtServiceMode)),
				attribute.Float64("sale_proceeds", p.Summary.SaleProceeds),
			)
			return ProjectionResult{Projection: p, Issues: issues}, issues, nil
		})
}

// T12SummaryHandler обрабатывает запрос на свод ведомости T12
func T12SummaryHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return instrument("t12_summary", tracer, logger,
		func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, []validators.Issue, error) {
			raw := object(params, "t12")
			if len(raw) == 0 {
				raw = params
			}
			d := calculations.Deal{T12: decodeT12(raw)}
			normalized, issues := validators.NormalizeDeal(cfg, d)
			issues = withoutField(issues, "projection.hold_years")

			s := calculations.SummarizeT12(normalized.T12)
			span.SetAttributes(attribute.Float64("noi", s.NOI))
			return s, issues, nil
		})
}

// CompareScenariosHandler обрабатывает запрос на сравнение сценариев финансирования
func CompareScenariosHandler(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) ToolHandler {
	return instrument("compare_scenarios", tracer, logger,
		func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, []validators.Issue, error) {
			d := DecodeDeal(params)
			span.SetAttributes(dealAttributes(d)...)

			normalized, issues := validators.NormalizeDeal(cfg, d)
			issues = withoutField(issues, "projection.hold_years")
			rows := calculations.CompareScenarios(normalized)
			return ComparisonResult{Scenarios: rows, Issues: issues}, issues, nil
		})
}

// Registry набор инструментов по именам
type Registry map[string]ToolHandler

// NewRegistry регистрирует все инструменты калькулятора
func NewRegistry(cfg *config.Config, tracer trace.Tracer, logger *logrus.Logger) Registry {
	return Registry{
		"analyze_deal":          AnalyzeDealHandler(cfg, tracer, logger),
		"deal_metrics":          DealMetricsHandler(cfg, tracer, logger),
		"operating_statement":   OperatingStatementHandler(cfg, tracer, logger),
		"amortization_schedule": AmortizationScheduleHandler(cfg, tracer, logger),
		"project_cash_flows":    ProjectCashFlowsHandler(cfg, tracer, logger),
		"t12_summary":           T12SummaryHandler(cfg, tracer, logger),
		"compare_scenarios":     CompareScenariosHandler(cfg, tracer, logger),
	}
}

// Names возвращает отсортированный список инструментов
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call вызывает инструмент по имени
func (r Registry) Call(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	h, ok := r[name]
	if !ok {
		metrics.ToolCalls.WithLabelValues("unknown", "error").Inc()
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return h(ctx, params)
}

func withoutField(issues []validators.Issue, field string) []validators.Issue {
	out := issues[:0]
	for _, issue := range issues {
		if issue.Field != field {
			out = append(out, issue)
		}
	}
	return out
}
