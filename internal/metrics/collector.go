package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "traffic_logger"

// Event kinds used as the "kind" label value.
const (
	KindRequest  = "request"
	KindResponse = "response"
)

// Collector groups the printer counters. A nil *Collector is valid and counts nothing.
type Collector struct {
	events       *prometheus.CounterVec
	lines        prometheus.Counter
	sinkFailures prometheus.Counter
	droppedTasks prometheus.Counter
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests     uint64
	Responses    uint64
	Lines        uint64
	SinkFailures uint64
	DroppedTasks uint64
}

// NewCollector creates the counters and registers them on reg.
// A nil reg leaves the counters unregistered.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_rendered_total",
			Help:      "Number of rendered HTTP events by kind.",
		}, []string{"kind"}),
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_emitted_total",
			Help:      "Number of lines written to the sink.",
		}),
		sinkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_failures_total",
			Help:      "Number of failed sink writes.",
		}),
		droppedTasks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_tasks_total",
			Help:      "Number of render tasks dropped by a full or closed queue.",
		}),
	}

	if reg != nil {
		reg.MustRegister(c.events, c.lines, c.sinkFailures, c.droppedTasks)
	}

	return c
}

// EventRendered counts one rendered event of the given kind and its lines.
func (c *Collector) EventRendered(kind string, lines int) {
	if c == nil {
		return
	}

	c.events.WithLabelValues(kind).Inc()
	c.lines.Add(float64(lines))
}

// SinkFailed counts one failed sink write.
func (c *Collector) SinkFailed() {
	if c == nil {
		return
	}

	c.sinkFailures.Inc()
}

// TaskDropped counts one dropped render task.
func (c *Collector) TaskDropped() {
	if c == nil {
		return
	}

	c.droppedTasks.Inc()
}

// Snapshot reads the current counter values.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}

	return Snapshot{
		Requests:     counterValue(c.events.WithLabelValues(KindRequest)),
		Responses:    counterValue(c.events.WithLabelValues(KindResponse)),
		Lines:        counterValue(c.lines),
		SinkFailures: counterValue(c.sinkFailures),
		DroppedTasks: counterValue(c.droppedTasks),
	}
}

func counterValue(counter prometheus.Counter) uint64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		return 0
	}

	return uint64(metric.GetCounter().GetValue())
}
