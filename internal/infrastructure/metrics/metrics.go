// Package metrics contadores Prometheus de reconfiguración y de la API HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Cava-api/internal/application/ports"
)

const namespace = "cava"

var _ ports.ReconfigurationMetrics = (*Recorder)(nil)

// Recorder agrupa los colectores de la aplicación en un registro propio.
type Recorder struct {
	Registry *prometheus.Registry

	movesExecuted   *prometheus.CounterVec
	moveBatches     prometheus.Counter
	plansCreated    prometheus.Counter
	plannedMoves    prometheus.Histogram
	conflicts       *prometheus.CounterVec
	validationFails *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewRecorder crea y registra los colectores.
func NewRecorder() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		movesExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconfiguration",
				Name:      "moves_executed_total",
				Help:      "Botellas reubicadas por ejecuciones confirmadas.",
			},
			[]string{"cellar_id"},
		),
		moveBatches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconfiguration",
				Name:      "executions_total",
				Help:      "Ejecuciones de movimientos confirmadas.",
			},
		),
		plansCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconfiguration",
				Name:      "plans_created_total",
				Help:      "Planes de reconfiguración generados.",
			},
		),
		plannedMoves: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "reconfiguration",
				Name:      "plan_moves",
				Help:      "Movimientos por plan generado.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 9), // 1 a 256
			},
		),
		conflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconfiguration",
				Name:      "conflicts_total",
				Help:      "Ejecuciones abortadas por conflicto.",
			},
			[]string{"kind"},
		),
		validationFails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconfiguration",
				Name:      "validation_errors_total",
				Help:      "Errores de validación de movimientos por categoría.",
			},
			[]string{"category"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Peticiones HTTP atendidas.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duración de las peticiones HTTP.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
			},
			[]string{"method", "route"},
		),
	}
	r.Registry.MustRegister(
		r.movesExecuted,
		r.moveBatches,
		r.plansCreated,
		r.plannedMoves,
		r.conflicts,
		r.validationFails,
		r.httpRequests,
		r.httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return r
}

func (r *Recorder) MovesExecuted(cellarID string, moved int) {
	r.movesExecuted.WithLabelValues(cellarID).Add(float64(moved))
	r.moveBatches.Inc()
}

func (r *Recorder) PlanCreated(_ string, moves int) {
	r.plansCreated.Inc()
	r.plannedMoves.Observe(float64(moves))
}

func (r *Recorder) Conflict(kind string) {
	r.conflicts.WithLabelValues(kind).Inc()
}

func (r *Recorder) ValidationFailed(category string, count int) {
	r.validationFails.WithLabelValues(category).Add(float64(count))
}

// Handler expone el registro en formato Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}

// Middleware mide las peticiones de Fiber por ruta registrada (no por path crudo).
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		r.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		r.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
