package hestia

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exports the progress of a simulation as Prometheus
// metrics. It is a StepObserver.
type MetricsCollector struct {
	gatherer prometheus.Gatherer

	Steps        prometheus.Counter
	Time         prometheus.Gauge
	Energy       prometheus.Gauge
	RoomMean     *prometheus.GaugeVec
	RoomHeating  *prometheus.GaugeVec
	StepDuration prometheus.Histogram
}

// NewMetricsCollector registers the metrics against reg, defaulting to
// the global registry when nil. Metrics already registered are reused.
func NewMetricsCollector(reg prometheus.Registerer) (*MetricsCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &MetricsCollector{gatherer: gatherer}

	var err error
	c.Steps, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hestia_steps_total",
		Help: "Number of simulation steps taken.",
	}), "hestia_steps_total")
	if err != nil {
		return nil, err
	}
	c.Time, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hestia_simulation_time_seconds",
		Help: "Current simulation time.",
	}), "hestia_simulation_time_seconds")
	if err != nil {
		return nil, err
	}
	c.Energy, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hestia_energy_cumulative",
		Help: "Cumulative radiator forcing injected since the start of the simulation.",
	}), "hestia_energy_cumulative")
	if err != nil {
		return nil, err
	}
	c.RoomMean, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hestia_room_mean_temperature_kelvin",
		Help: "Mean temperature of a room at the end of the last step.",
	}, []string{"room"}), "hestia_room_mean_temperature_kelvin")
	if err != nil {
		return nil, err
	}
	c.RoomHeating, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hestia_room_heating",
		Help: "1 if the radiators of a room were on during the last step.",
	}, []string{"room"}), "hestia_room_heating")
	if err != nil {
		return nil, err
	}
	c.StepDuration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hestia_step_duration_seconds",
		Help:    "Wall-clock duration of a simulation step.",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	}), "hestia_step_duration_seconds")
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *MetricsCollector) ObserveStep(r StepReport) {
	if c == nil {
		return
	}
	c.Steps.Inc()
	c.Time.Set(r.Time)
	c.Energy.Set(r.Cumulative)
	c.StepDuration.Observe(r.Duration.Seconds())
	for _, room := range r.Rooms {
		c.RoomMean.WithLabelValues(room.Name).Set(room.Mean)
		heating := 0.0
		if room.Heating == true {
			heating = 1.0
		}
		c.RoomHeating.WithLabelValues(room.Name).Set(heating)
	}
}

// WriteTextfile writes every gathered metric to filename in the text
// exposition format.
func (c *MetricsCollector) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, c.gatherer)
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T, name string) (T, error) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return collector, nil
}
