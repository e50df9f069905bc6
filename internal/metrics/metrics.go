package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "evsel"

// Metrics holds the event loop counters.
type Metrics struct {
	registry *prometheus.Registry

	eventsRead     prometheus.Counter
	eventsSelected prometheus.Counter
	cutflow        *prometheus.CounterVec
	builds         *prometheus.CounterVec

	// Gauge rather than counter: generator weights may be negative.
	weightSum prometheus.Gauge
}

// New creates the counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		eventsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_read_total",
			Help:      "Records taken from the cursor.",
		}),
		eventsSelected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_selected_total",
			Help:      "Records passing every filter.",
		}),
		cutflow: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cutflow_passed_total",
			Help:      "Records passing each filter, in evaluation order.",
		}, []string{"filter"}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_builds_total",
			Help:      "Rebuilds of each derived collection.",
		}, []string{"collection"}),
		weightSum: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_weight_sum",
			Help:      "Sum of nominal weights of selected records.",
		}),
	}
	m.registry.MustRegister(m.eventsRead, m.eventsSelected, m.cutflow, m.builds, m.weightSum)
	return m
}

// Registry exposes the registry, e.g. for an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// EventRead counts one record taken from the cursor.
func (m *Metrics) EventRead() {
	m.eventsRead.Inc()
}

// FilterPassed counts one record passing the named filter.
func (m *Metrics) FilterPassed(filter string) {
	m.cutflow.WithLabelValues(filter).Inc()
}

// EventSelected counts a selected record and adds its nominal weight.
func (m *Metrics) EventSelected(nominal float64) {
	m.eventsSelected.Inc()
	m.weightSum.Add(nominal)
}

// CollectionBuilt counts one rebuild of the named collection. Its
// signature matches analysis.WithBuildHook.
func (m *Metrics) CollectionBuilt(collection string) {
	m.builds.WithLabelValues(collection).Inc()
}

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	EventsRead     uint64            `json:"events_read"`
	EventsSelected uint64            `json:"events_selected"`
	WeightSum      float64           `json:"weight_sum"`
	Cutflow        map[string]uint64 `json:"cutflow"`
	Builds         map[string]uint64 `json:"builds"`
}

// Snapshot gathers the registry into plain values.
func (m *Metrics) Snapshot() (Snapshot, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return Snapshot{}, fmt.Errorf("gather metrics: %w", err)
	}

	s := Snapshot{
		Cutflow: make(map[string]uint64),
		Builds:  make(map[string]uint64),
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			label := ""
			if pairs := metric.GetLabel(); len(pairs) > 0 {
				label = pairs[0].GetValue()
			}
			switch mf.GetName() {
			case namespace + "_events_read_total":
				s.EventsRead = uint64(metric.GetCounter().GetValue())
			case namespace + "_events_selected_total":
				s.EventsSelected = uint64(metric.GetCounter().GetValue())
			case namespace + "_cutflow_passed_total":
				s.Cutflow[label] = uint64(metric.GetCounter().GetValue())
			case namespace + "_collection_builds_total":
				s.Builds[label] = uint64(metric.GetCounter().GetValue())
			case namespace + "_selected_weight_sum":
				s.WeightSum = metric.GetGauge().GetValue()
			}
		}
	}
	return s, nil
}

// WriteText writes every metric in the Prometheus text exposition format,
// families sorted by name.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
