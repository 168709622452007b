package world

import (
	"github.com/annel0/colony-core/internal/vec"
	"github.com/annel0/colony-core/internal/world/tile"
)

// renderSmoothing – доля разницы, на которую RenderPressure догоняет Pressure за шаг
const renderSmoothing = 0.25

var lateralDirs = [4]vec.Vec3{
	{X: 1}, {X: -1}, {Z: 1}, {Z: -1},
}

// FluidConfig – параметры шага симуляции жидкости
type FluidConfig struct {
	// Vertical включает обмен по оси Y. По умолчанию поток только боковой.
	Vertical bool `yaml:"vertical" json:"vertical"`
	// GravityHead – разница давления, уравновешивающая один уровень высоты
	GravityHead int32 `yaml:"gravity_head" json:"gravity_head"`
}

// DefaultFluidConfig возвращает каноническую боковую модель
func DefaultFluidConfig() FluidConfig {
	return FluidConfig{Vertical: false, GravityHead: 10}
}

// FluidResult – активность за шаг
type FluidResult struct {
	Sources   int `json:"sources"`   // Клетки, отдавшие давление
	Transfers int `json:"transfers"` // Единицы давления, переданные соседям
}

func (r *FluidResult) add(other FluidResult) {
	r.Sources += other.Sources
	r.Transfers += other.Transfers
}

// AdvanceFluid выполняет один шаг канонической боковой модели
func AdvanceFluid(m *Map) FluidResult {
	return AdvanceFluidWith(m, DefaultFluidConfig())
}

// AdvanceFluidWith выполняет один шаг: сначала расчёт потоков по всем клеткам,
// затем фиксация. Расчёт читает только зафиксированное давление, поэтому результат
// не зависит от порядка обхода.
func AdvanceFluidWith(m *Map, cfg FluidConfig) FluidResult {
	var res FluidResult
	for _, c := range m.chunks {
		res.add(computeChunkFlow(m, c, cfg))
	}
	commitFluid(m)
	return res
}

// computeChunkFlow – фаза расчёта для клеток одного чанка
func computeChunkFlow(m *Map, c *Chunk, cfg FluidConfig) FluidResult {
	var res FluidResult
	m.chunkCells(c, func(idx CellIndex, cell *Cell) bool {
		computeCellFlow(m, idx, cell, cfg, &res)
		return true
	})
	return res
}

// computeCellFlow записывает потоки клетки в NextPressure её и соседей.
//
// Поток происходит, только если у источника хватает давления, чтобы каждому получателю
// досталось по единице и у самого источника осталось больше числа направлений.
// В вертикальном режиме единственное исключение – стекание вниз: клетка с давлением >= 1
// может отдать единицу нижнему соседу, даже если правило избытка поток запрещает.
func computeCellFlow(m *Map, idx CellIndex, cell *Cell, cfg FluidConfig, res *FluidResult) {
	if !tile.IsLiquid(cell.Tile) {
		return
	}
	p := cell.Pressure

	var targets [6]*Cell
	n := 0
	var down *Cell

	for _, d := range lateralDirs {
		if other := liquidNeighbor(m, idx.Add(d)); other != nil && other.Pressure < p {
			targets[n] = other
			n++
		}
	}

	if cfg.Vertical {
		// Соседа сверху видим с надбавкой напора, соседа снизу – с вычетом
		if other := liquidNeighbor(m, idx.Offset(0, 1, 0)); other != nil && other.Pressure+cfg.GravityHead < p {
			targets[n] = other
			n++
		}
		if other := liquidNeighbor(m, idx.Offset(0, -1, 0)); other != nil && other.Pressure-cfg.GravityHead < p {
			targets[n] = other
			n++
			down = other
		}
	}

	switch {
	case n == 0:
	case int32(n) < p:
		cell.NextPressure -= int32(n)
		for i := 0; i < n; i++ {
			targets[i].NextPressure++
		}
		res.Sources++
		res.Transfers += n
	case down != nil && p >= 1:
		cell.NextPressure--
		down.NextPressure++
		res.Sources++
		res.Transfers++
	}
}

// liquidNeighbor возвращает соседа, если он внутри мира и жидкий
func liquidNeighbor(m *Map, idx CellIndex) *Cell {
	if !m.InBounds(idx) {
		return nil
	}
	c := m.CellAt(idx)
	if !tile.IsLiquid(c.Tile) {
		return nil
	}
	return c
}

// commitFluid – фаза фиксации: Pressure += NextPressure, NextPressure = 0
func commitFluid(m *Map) {
	for _, c := range m.Cells() {
		c.Pressure += c.NextPressure
		c.NextPressure = 0
		c.RenderPressure += (float32(c.Pressure) - c.RenderPressure) * renderSmoothing
	}
}

// FluidStages – число вызовов Stage на один полный шаг
const FluidStages = 5

const computeStages = FluidStages - 1

// StagedFluid размазывает шаг симуляции по нескольким кадрам: стадии 0..3 считают
// потоки для четверти чанков каждая, стадия 4 фиксирует. 5·N стадий дают ровно N шагов.
type StagedFluid struct {
	m       *Map
	cfg     FluidConfig
	stage   int
	pending FluidResult
}

// NewStagedFluid создаёт пошаговый симулятор для мира
func NewStagedFluid(m *Map, cfg FluidConfig) *StagedFluid {
	return &StagedFluid{m: m, cfg: cfg}
}

// CurrentStage возвращает номер следующей стадии
func (s *StagedFluid) CurrentStage() int {
	return s.stage
}

// Stage выполняет одну стадию. done == true, когда стадия завершила шаг фиксацией;
// тогда res содержит активность за весь шаг.
func (s *StagedFluid) Stage() (done bool, res FluidResult) {
	if s.stage < computeStages {
		for i, c := range s.m.chunks {
			if i%computeStages == s.stage {
				s.pending.add(computeChunkFlow(s.m, c, s.cfg))
			}
		}
		s.stage++
		return false, FluidResult{}
	}

	commitFluid(s.m)
	res = s.pending
	s.pending = FluidResult{}
	s.stage = 0
	return true, res
}

// Finish доводит текущий шаг до фиксации
func (s *StagedFluid) Finish() FluidResult {
	for {
		if done, res := s.Stage(); done {
			return res
		}
	}
}
