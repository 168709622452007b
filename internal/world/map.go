package world

import (
	"fmt"
	"iter"

	"github.com/annel0/colony-core/internal/cache"
	"github.com/annel0/colony-core/internal/logging"
	"github.com/annel0/colony-core/internal/world/tile"
	"github.com/google/uuid"
)

// Bounds – включительный прямоугольный объём мира
type Bounds struct {
	Min CellIndex `yaml:"min" json:"min"`
	Max CellIndex `yaml:"max" json:"max"`
}

// Contains проверяет, лежит ли клетка внутри границ
func (b Bounds) Contains(c CellIndex) bool {
	return b.Min.LessEq(c) && c.LessEq(b.Max)
}

// Volume возвращает количество клеток в границах
func (b Bounds) Volume() int {
	return CubeLen(b.Min, b.Max)
}

// Map – весь адресуемый мир из чанков.
//
// Все чанки, пересекающие границы, создаются в NewMap и больше не добавляются:
// обращение к отсутствующему чанку – ошибка вызывающего кода, а не состояние выполнения.
type Map struct {
	id     uuid.UUID
	bounds Bounds

	chunks []*Chunk           // В порядке (Y, Z, X) координат чанка
	index  map[ChunkIndex]int // Координата чанка -> позиция в chunks
	lookup cache.IndexCache   // Последние найденные позиции в chunks
	rec    cache.Recorder     // nil, если статистика не собирается

	generator *WorldGenerator
}

// NewMap создаёт мир фиксированного размера. stats может быть nil.
func NewMap(bounds Bounds, stats *cache.Stats) *Map {
	if !bounds.Min.LessEq(bounds.Max) {
		panic(fmt.Sprintf("world: некорректные границы мира %s..%s", bounds.Min, bounds.Max))
	}

	m := &Map{
		id:        uuid.New(),
		bounds:    bounds,
		index:     make(map[ChunkIndex]int),
		generator: NewWorldGenerator(DefaultTerrainConfig()),
	}
	if stats != nil {
		m.rec = stats
	}

	minChunk := ChunkIndexOf(bounds.Min)
	maxChunk := ChunkIndexOf(bounds.Max)
	for ci := range Cube(minChunk, maxChunk) {
		m.index[ci] = len(m.chunks)
		m.chunks = append(m.chunks, NewChunk(ci))
	}

	logging.Debug("Создан мир %s: границы %s..%s, чанков %d", m.id, bounds.Min, bounds.Max, len(m.chunks))
	return m
}

// ID возвращает идентификатор мира
func (m *Map) ID() uuid.UUID {
	return m.id
}

// Bounds возвращает границы мира
func (m *Map) Bounds() Bounds {
	return m.bounds
}

// ChunkCount возвращает количество чанков
func (m *Map) ChunkCount() int {
	return len(m.chunks)
}

// Chunks перебирает чанки в фиксированном порядке
func (m *Map) Chunks() iter.Seq2[int, *Chunk] {
	return func(yield func(int, *Chunk) bool) {
		for i, c := range m.chunks {
			if !yield(i, c) {
				return
			}
		}
	}
}

// InBounds проверяет, лежит ли клетка внутри мира
func (m *Map) InBounds(idx CellIndex) bool {
	return m.bounds.Contains(idx)
}

// chunk находит чанк по координате, сначала через IndexCache
func (m *Map) chunk(ci ChunkIndex) *Chunk {
	i, class := m.lookup.Lookup(func(i int) bool {
		return m.chunks[i].Coords == ci
	}, m.rec)
	if class != cache.Miss {
		return m.chunks[i]
	}

	i, ok := m.index[ci]
	if !ok {
		panic(fmt.Sprintf("world: чанк %s отсутствует, мир не растёт динамически", ci))
	}
	m.lookup.Record(i)
	return m.chunks[i]
}

// CellAt возвращает изменяемую клетку. Выход за границы мира – паника.
func (m *Map) CellAt(idx CellIndex) *Cell {
	if !m.bounds.Contains(idx) {
		panic(fmt.Sprintf("world: клетка %s вне границ мира %s..%s", idx, m.bounds.Min, m.bounds.Max))
	}
	ci := ChunkIndexOf(idx)
	return m.chunk(ci).Cell(LocalOf(idx, ci, DefaultDims))
}

// GetCell возвращает копию клетки
func (m *Map) GetCell(idx CellIndex) Cell {
	return *m.CellAt(idx)
}

// SetTile меняет тип тайла клетки, сбрасывая остальное состояние
func (m *Map) SetTile(idx CellIndex, t tile.Type) {
	m.CellAt(idx).reset(t)
}

// Fill заполняет включительный диапазон тайлом
func (m *Map) Fill(min, max CellIndex, t tile.Type) {
	for idx := range Cube(min, max) {
		m.SetTile(idx, t)
	}
}

// Cells перебирает все клетки мира внутри границ. Чанки идут в фиксированном порядке,
// внутри чанка – порядок Cube. Последовательность ленивая и её можно запускать повторно.
func (m *Map) Cells() iter.Seq2[CellIndex, *Cell] {
	return func(yield func(CellIndex, *Cell) bool) {
		for _, c := range m.chunks {
			if !m.chunkCells(c, yield) {
				return
			}
		}
	}
}

// chunkCells отдаёт клетки чанка, попадающие в границы мира
func (m *Map) chunkCells(c *Chunk, yield func(CellIndex, *Cell) bool) bool {
	origin := c.Origin()
	lo := CellIndex{
		X: max(origin.X, m.bounds.Min.X),
		Y: max(origin.Y, m.bounds.Min.Y),
		Z: max(origin.Z, m.bounds.Min.Z),
	}
	hi := CellIndex{
		X: min(origin.X+ChunkSizeX-1, m.bounds.Max.X),
		Y: min(origin.Y+ChunkSizeY-1, m.bounds.Max.Y),
		Z: min(origin.Z+ChunkSizeZ-1, m.bounds.Max.Z),
	}
	for idx := range Cube(lo, hi) {
		if !yield(idx, c.Cell(idx.Sub(origin))) {
			return false
		}
	}
	return true
}

// TotalPressure возвращает сумму давления по всем клеткам
func (m *Map) TotalPressure() int64 {
	var total int64
	for _, c := range m.Cells() {
		total += int64(c.Pressure)
	}
	return total
}
