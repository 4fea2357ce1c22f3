package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// Metrics — метрики цикла движка.
type Metrics struct {
	Registry *prometheus.Registry

	TicksTotal    prometheus.Counter
	TickErrors    prometheus.Counter
	TickDuration  prometheus.Histogram
	SignalsTotal  *prometheus.CounterVec // labels: symbol, action
	OrdersTotal   *prometheus.CounterVec // labels: result=filled|rejected|error
	ExitsTotal    prometheus.Counter
	Equity        prometheus.Gauge
	DrawdownPct   prometheus.Gauge
	EngineRunning prometheus.Gauge // 0=stopped, 1=running
}

// New регистрирует метрики в собственном реестре.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ares_engine_ticks_total",
			Help: "Completed engine loop iterations",
		}),
		TickErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ares_engine_tick_errors_total",
			Help: "Engine iterations that failed and triggered backoff",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ares_engine_tick_duration_seconds",
			Help:    "Wall time of one engine iteration",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ares_signals_total",
			Help: "Entry signals produced by the signal engine",
		}, []string{"symbol", "action"}),
		OrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ares_orders_total",
			Help: "Entry orders by result",
		}, []string{"result"}),
		ExitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ares_scalp_exits_total",
			Help: "Positions closed by the scalp exit rule",
		}),
		Equity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ares_account_equity",
			Help: "Last sampled account equity",
		}),
		DrawdownPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ares_account_drawdown_pct",
			Help: "Current drawdown from peak equity, percent",
		}),
		EngineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ares_engine_running",
			Help: "1 while the engine loop is running",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.TicksTotal,
		m.TickErrors,
		m.TickDuration,
		m.SignalsTotal,
		m.OrdersTotal,
		m.ExitsTotal,
		m.Equity,
		m.DrawdownPct,
		m.EngineRunning,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(New),
	)
}
