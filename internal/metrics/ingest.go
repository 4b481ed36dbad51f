package metrics

import (
	"time"

	"chain-metrics/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "operations_total",
		Help:      "Count of snapshot ingestions by origin and outcome.",
	}, []string{"origin", "status"})
	ingestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "operation_duration_seconds",
		Help:      "Duration of snapshot ingestions, fetch included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"origin", "status"})
	schedulerFetching = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "fetching",
		Help:      "1 while the scheduler is inside a fetch cycle, 0 while waiting.",
	})
)

// Ingest records ingestion outcomes. A failed ingestion is labelled with the
// kind of error that stopped it.
type Ingest struct{}

func NewIngest() *Ingest {
	return &Ingest{}
}

func (Ingest) ObserveIngest(origin string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = string(domain.KindOf(err))
	}

	ingestTotal.WithLabelValues(origin, status).Inc()
	ingestDuration.WithLabelValues(origin, status).Observe(time.Since(started).Seconds())
}

func (Ingest) SetFetching(fetching bool) {
	if fetching {
		schedulerFetching.Set(1)
		return
	}
	schedulerFetching.Set(0)
}
