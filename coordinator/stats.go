package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics exposes the coordinator/worker's queue-lag-adjacent counters via
// Prometheus, the teacher's own direct dependency for process metrics
// (stats/target_stats.go registers the equivalent aistore counters the same
// way). Queue lag itself stays out-of-band per spec.md §7 ("queue lag is
// visible via out-of-band queue metrics"); what we expose here is the set of
// counters a scrape-based dashboard would overlay it with.
type metrics struct {
	tasksPulled   prometheus.Counter
	tasksAcked    prometheus.Counter
	tasksFailed   prometheus.Counter
	recordsMapped prometheus.Counter
	recordsInvalid prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		tasksPulled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taxistat", Name: "tasks_pulled_total", Help: "Tasks pulled from the queue.",
		}),
		tasksAcked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taxistat", Name: "tasks_acked_total", Help: "Tasks acknowledged after a successful commit.",
		}),
		tasksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taxistat", Name: "tasks_failed_total", Help: "Tasks that failed and were left for redelivery.",
		}),
		recordsMapped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taxistat", Name: "records_mapped_total", Help: "Records successfully mapped into a StatCounter.",
		}),
		recordsInvalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taxistat", Name: "records_invalid_total", Help: "Records counted as invalid (parse failure or unlocatable).",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.tasksPulled, m.tasksAcked, m.tasksFailed, m.recordsMapped, m.recordsInvalid)
	}
	return m
}
