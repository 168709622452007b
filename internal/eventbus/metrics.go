package eventbus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics регистрирует метрики шины в reg (nil – дефолтный регистр).
// Значения читаются из bus.Metrics() при каждом сборе.
func RegisterMetrics(reg prometheus.Registerer, bus EventBus) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	counter := func(name, help string, value func(Stats) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "colony_events",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(value(bus.Metrics())) })
	}

	collectors := []prometheus.Collector{
		counter("published_total", "Общее число опубликованных событий.",
			func(s Stats) uint64 { return s.Published }),
		counter("consumed_total", "Общее число доставленных подписчикам событий.",
			func(s Stats) uint64 { return s.Consumed }),
		counter("dropped_total", "Событий, отброшенных из-за переполнения буфера или ошибок.",
			func(s Stats) uint64 { return s.Dropped }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "colony_events",
			Name:      "inflight",
			Help:      "Количество событий в очереди (не доставленных).",
		}, func() float64 { return float64(bus.Metrics().InFlight) }),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
