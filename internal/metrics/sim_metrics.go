package metrics

import (
	"time"

	"github.com/annel0/colony-core/internal/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// SimMetrics инкапсулирует Prometheus-метрики симуляции.
//
// Метрики:
// * colony_frames_total – counter
// * colony_frame_duration_seconds – histogram
// * colony_fluid_sources_total / colony_fluid_transfers_total – counter
// * colony_tree_stage_changes_total – counter
// * colony_transformations_total{result} – counter
// * colony_world_pressure – gauge
// * colony_index_cache_lookups_total{class} – counter, читается из cache.Stats
type SimMetrics struct {
	frames          prometheus.Counter
	frameDuration   prometheus.Histogram
	fluidSources    prometheus.Counter
	fluidTransfers  prometheus.Counter
	treeChanges     prometheus.Counter
	transformations *prometheus.CounterVec
	pressure        prometheus.Gauge
}

// NewSimMetrics создаёт метрики и регистрирует их в reg.
// Если reg == nil, используется глобальный регистр Prometheus.
func NewSimMetrics(reg prometheus.Registerer, stats *cache.Stats) *SimMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	const ns = "colony"
	sm := &SimMetrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "frames_total",
			Help:      "Общее число выполненных кадров симуляции.",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "frame_duration_seconds",
			Help:      "Длительность одного кадра симуляции.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		fluidSources: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "fluid_sources_total",
			Help:      "Клетки, отдавшие давление соседям.",
		}),
		fluidTransfers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "fluid_transfers_total",
			Help:      "Единицы давления, переданные между клетками.",
		}),
		treeChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "tree_stage_changes_total",
			Help:      "Смены стадии стареющих деревьев.",
		}),
		transformations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "transformations_total",
			Help:      "Запросы на преобразование тайлов по результату.",
		}, []string{"result"}),
		pressure: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "world_pressure",
			Help:      "Суммарное давление по всем клеткам мира.",
		}),
	}

	reg.MustRegister(sm.frames, sm.frameDuration, sm.fluidSources, sm.fluidTransfers,
		sm.treeChanges, sm.transformations, sm.pressure)

	if stats != nil {
		for _, class := range []cache.HitClass{cache.HitHot, cache.HitCold, cache.Miss} {
			class := class
			reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace:   ns,
				Name:        "index_cache_lookups_total",
				Help:        "Обращения к IndexCache чанков по классу попадания.",
				ConstLabels: prometheus.Labels{"class": class.String()},
			}, func() float64 {
				snap := stats.Snapshot()
				switch class {
				case cache.HitHot:
					return float64(snap.Hot)
				case cache.HitCold:
					return float64(snap.Cold)
				default:
					return float64(snap.Miss)
				}
			}))
		}
	}

	return sm
}

// ObserveFrame учитывает выполненный кадр
func (sm *SimMetrics) ObserveFrame(d time.Duration, sources, transfers, treeChanges int, totalPressure int64) {
	if sm == nil {
		return
	}
	sm.frames.Inc()
	sm.frameDuration.Observe(d.Seconds())
	sm.fluidSources.Add(float64(sources))
	sm.fluidTransfers.Add(float64(transfers))
	sm.treeChanges.Add(float64(treeChanges))
	sm.pressure.Set(float64(totalPressure))
}

// ObserveTransformation учитывает запрос на преобразование
func (sm *SimMetrics) ObserveTransformation(ok bool) {
	if sm == nil {
		return
	}
	result := "applied"
	if !ok {
		result = "rejected"
	}
	sm.transformations.WithLabelValues(result).Inc()
}
