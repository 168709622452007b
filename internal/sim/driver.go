package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/colony-core/internal/cache"
	"github.com/annel0/colony-core/internal/eventbus"
	"github.com/annel0/colony-core/internal/logging"
	"github.com/annel0/colony-core/internal/metrics"
	"github.com/annel0/colony-core/internal/observability"
	"github.com/annel0/colony-core/internal/world"
	"github.com/annel0/colony-core/internal/world/tile"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrOutOfBounds – запрошенная клетка вне мира
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrUnsetCell – в выделении есть клетка без типа
	ErrUnsetCell = errors.New("cell has no tile type")
)

// Options – параметры кадра
type Options struct {
	Fluid         world.FluidConfig
	Staged        bool  // Шаг жидкости на world.FluidStages кадров
	TreeDecay     uint8 // Потеря здоровья деревьев за одно старение
	AgingInterval int   // Старение каждые N кадров, 0 – выключено
	Metrics       *metrics.SimMetrics
	Events        eventbus.EventBus // nil – события не публикуются
}

// FrameReport – итог одного кадра
type FrameReport struct {
	Frame          uint64            `json:"frame"`
	Fluid          world.FluidResult `json:"fluid"`
	FluidCommitted bool              `json:"fluid_committed"`
	TreeChanges    int               `json:"tree_changes"`
	TotalPressure  int64             `json:"total_pressure"`
	Duration       time.Duration     `json:"duration_ns"`
}

// FluidStepEvent – полезная нагрузка eventbus.EventFluidStep
type FluidStepEvent struct {
	Step          uint64 `json:"step"`
	Sources       int    `json:"sources"`
	Transfers     int    `json:"transfers"`
	TotalPressure int64  `json:"total_pressure"`
}

// TreesAgedEvent – полезная нагрузка eventbus.EventTreesAged
type TreesAgedEvent struct {
	Changed int `json:"changed"`
}

// TransformationEvent – полезная нагрузка eventbus.EventTransformation
type TransformationEvent struct {
	Cells []world.CellIndex `json:"cells"`
	To    tile.Type         `json:"to"`
}

// Snapshot – сводка состояния для debug-API
type Snapshot struct {
	WorldID       string         `json:"world_id"`
	Bounds        world.Bounds   `json:"bounds"`
	Chunks        int            `json:"chunks"`
	Frame         uint64         `json:"frame"`
	FluidSteps    uint64         `json:"fluid_steps"`
	TotalPressure int64          `json:"total_pressure"`
	LastFrame     FrameReport    `json:"last_frame"`
	Cache         cache.Snapshot `json:"cache"`
}

// Driver владеет миром и выполняет по одному шагу симуляции за кадр.
// Сама симуляция однопоточная; мьютекс лишь упорядочивает внешние обращения
// (debug-API) относительно кадров.
type Driver struct {
	mu sync.Mutex

	m      *world.Map
	stats  *cache.Stats
	opts   Options
	staged *world.StagedFluid

	frame      uint64
	fluidSteps uint64
	last       FrameReport

	tracer trace.Tracer
	log    *logging.Logger
}

// NewDriver создаёт драйвер для уже сгенерированного мира. stats может быть nil.
func NewDriver(m *world.Map, stats *cache.Stats, opts Options) *Driver {
	d := &Driver{
		m:      m,
		stats:  stats,
		opts:   opts,
		tracer: observability.Tracer(),
		log:    logging.GetSimLogger(),
	}
	if opts.Staged {
		d.staged = world.NewStagedFluid(m, opts.Fluid)
	}
	return d
}

// Frame выполняет один кадр: шаг (или стадию) жидкости и периодическое старение деревьев
func (d *Driver) Frame(ctx context.Context) FrameReport {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, span := d.tracer.Start(ctx, "sim.frame")
	defer span.End()

	start := time.Now()
	d.frame++
	report := FrameReport{Frame: d.frame}

	if d.staged != nil {
		report.FluidCommitted, report.Fluid = d.staged.Stage()
	} else {
		report.Fluid = world.AdvanceFluidWith(d.m, d.opts.Fluid)
		report.FluidCommitted = true
	}
	if report.FluidCommitted {
		d.fluidSteps++
	}

	if d.opts.AgingInterval > 0 && d.frame%uint64(d.opts.AgingInterval) == 0 {
		report.TreeChanges = world.AgeTrees(d.m, d.opts.TreeDecay)
	}

	report.TotalPressure = d.m.TotalPressure()
	report.Duration = time.Since(start)
	d.last = report

	span.SetAttributes(
		attribute.Int64("sim.frame", int64(report.Frame)),
		attribute.Bool("sim.fluid_committed", report.FluidCommitted),
		attribute.Int("sim.fluid_transfers", report.Fluid.Transfers),
		attribute.Int("sim.tree_changes", report.TreeChanges),
	)
	d.opts.Metrics.ObserveFrame(report.Duration, report.Fluid.Sources, report.Fluid.Transfers,
		report.TreeChanges, report.TotalPressure)

	if report.FluidCommitted && report.Fluid.Transfers > 0 {
		d.publish(ctx, eventbus.EventFluidStep, eventbus.PriorityLow, FluidStepEvent{
			Step:          d.fluidSteps,
			Sources:       report.Fluid.Sources,
			Transfers:     report.Fluid.Transfers,
			TotalPressure: report.TotalPressure,
		})
	}
	if report.TreeChanges > 0 {
		d.publish(ctx, eventbus.EventTreesAged, eventbus.PriorityLow, TreesAgedEvent{Changed: report.TreeChanges})
	}

	if report.Fluid.Transfers > 0 || report.TreeChanges > 0 {
		d.log.Trace("Кадр %d: источников %d, передано %d, деревьев %d",
			report.Frame, report.Fluid.Sources, report.Fluid.Transfers, report.TreeChanges)
	}
	return report
}

// Run выполняет кадры с частотой fps до отмены контекста или maxFrames кадров (0 – без ограничения)
func (d *Driver) Run(ctx context.Context, fps int, maxFrames int64) error {
	if fps <= 0 {
		return fmt.Errorf("fps должен быть > 0, получено %d", fps)
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	d.log.Info("▶ Симуляция мира %s запущена: %d fps", d.m.ID(), fps)
	for {
		select {
		case <-ctx.Done():
			d.log.Info("⏹ Симуляция остановлена на кадре %d", d.FrameNumber())
			return ctx.Err()
		case <-ticker.C:
			report := d.Frame(ctx)
			if maxFrames > 0 && int64(report.Frame) >= maxFrames {
				d.log.Info("⏹ Достигнут предел %d кадров", maxFrames)
				return nil
			}
		}
	}
}

// FrameNumber возвращает номер последнего кадра
func (d *Driver) FrameNumber() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// WithMap выполняет fn с эксклюзивным доступом к миру (например, для начального заполнения)
func (d *Driver) WithMap(fn func(m *world.Map)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.m)
}

// Cell возвращает копию клетки или ErrOutOfBounds
func (d *Driver) Cell(idx world.CellIndex) (world.Cell, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.m.InBounds(idx) {
		return world.Cell{}, fmt.Errorf("%s: %w", idx, ErrOutOfBounds)
	}
	return d.m.GetCell(idx), nil
}

// checkSelection проверяет внешний ввод до обращения к ядру, которое на такие ошибки паникует
func (d *Driver) checkSelection(selection []world.CellIndex) error {
	for _, idx := range selection {
		if !d.m.InBounds(idx) {
			return fmt.Errorf("%s: %w", idx, ErrOutOfBounds)
		}
		if d.m.GetCell(idx).Tile == tile.Unset {
			return fmt.Errorf("%s: %w", idx, ErrUnsetCell)
		}
	}
	return nil
}

// AllowedTransformations возвращает преобразования, допустимые для всего выделения
func (d *Driver) AllowedTransformations(selection []world.CellIndex) ([]world.Transformation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkSelection(selection); err != nil {
		return nil, err
	}
	return world.AllowedTransformations(selection, d.m), nil
}

// Transform применяет преобразование к выделению
func (d *Driver) Transform(selection []world.CellIndex, to tile.Type) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkSelection(selection); err != nil {
		d.opts.Metrics.ObserveTransformation(false)
		return err
	}
	if err := world.ApplyTransformation(d.m, selection, to); err != nil {
		d.opts.Metrics.ObserveTransformation(false)
		return err
	}
	d.opts.Metrics.ObserveTransformation(true)
	d.log.Debug("Преобразование %d клеток в %s", len(selection), to)
	d.publish(context.Background(), eventbus.EventTransformation, eventbus.PriorityHigh, TransformationEvent{
		Cells: selection,
		To:    to,
	})
	return nil
}

// publish отправляет событие в шину; ошибки шины не прерывают симуляцию.
// Вызывается под d.mu.
func (d *Driver) publish(ctx context.Context, eventType string, priority int, payload interface{}) {
	if d.opts.Events == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(d.m.ID().String(), eventType, d.frame, priority, payload)
	if err == nil {
		err = d.opts.Events.Publish(ctx, ev)
	}
	if err != nil {
		d.log.Warn("Событие %s не опубликовано: %v", eventType, err)
	}
}

// Snapshot возвращает сводку состояния
func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Snapshot{
		WorldID:       d.m.ID().String(),
		Bounds:        d.m.Bounds(),
		Chunks:        d.m.ChunkCount(),
		Frame:         d.frame,
		FluidSteps:    d.fluidSteps,
		TotalPressure: d.m.TotalPressure(),
		LastFrame:     d.last,
	}
	if d.stats != nil {
		s.Cache = d.stats.Snapshot()
	}
	return s
}
