package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls счетчик вызовов инструментов
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_total",
			Help: "Общее количество вызовов инструментов",
		},
		[]string{"tool_name", "status"},
	)

	// InputAdjustments счетчик скорректированных входных значений
	InputAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "input_adjustments_total",
			Help: "Количество входных значений, приведённых к допустимому диапазону",
		},
		[]string{"tool_name"},
	)

	// APICalls счетчик вызовов API
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_calls_total",
			Help: "Вызовы API инструментов",
		},
		[]string{"service", "endpoint", "status"},
	)

	// CalculationDuration длительность расчётов
	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calculation_duration_seconds",
			Help:    "Длительность расчёта инструмента",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
		[]string{"tool_name"},
	)

	// DealVersion текущая версия редактируемой сделки
	DealVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deal_version",
			Help: "Версия снимка текущей сделки",
		},
	)
)
