package world

import (
	"iter"

	"github.com/annel0/colony-core/internal/world/tile"
)

// Chunk – блок клеток ChunkSizeX x ChunkSizeY x ChunkSizeZ.
// Клетки принадлежат только своему чанку.
type Chunk struct {
	Coords ChunkIndex // Координаты чанка в мире

	cells [ChunkVolume]Cell
}

// NewChunk создаёт чанк, все клетки которого имеют тип Unset
func NewChunk(coords ChunkIndex) *Chunk {
	c := &Chunk{Coords: coords}
	for i := range c.cells {
		c.cells[i].Tile = tile.Unset
	}
	return c
}

// localOffset возвращает линейный индекс клетки: порядок совпадает с Cube (X, затем Z, затем Y)
func localOffset(local CellIndex) int {
	return local.X + local.Z*ChunkSizeX + local.Y*ChunkSizeX*ChunkSizeZ
}

// Origin возвращает глобальную координату клетки (0,0,0) чанка
func (c *Chunk) Origin() CellIndex {
	return GlobalOf(c.Coords, CellIndex{}, DefaultDims)
}

// Cell возвращает клетку по локальным координатам
func (c *Chunk) Cell(local CellIndex) *Cell {
	return &c.cells[localOffset(local)]
}

// Cells перебирает клетки чанка в порядке Cube и отдаёт локальные координаты
func (c *Chunk) Cells() iter.Seq2[CellIndex, *Cell] {
	return func(yield func(CellIndex, *Cell) bool) {
		for local := range Cube(CellIndex{}, CellIndex{X: ChunkSizeX - 1, Y: ChunkSizeY - 1, Z: ChunkSizeZ - 1}) {
			if !yield(local, &c.cells[localOffset(local)]) {
				return
			}
		}
	}
}

// GlobalCells перебирает клетки чанка с глобальными координатами
func (c *Chunk) GlobalCells() iter.Seq2[CellIndex, *Cell] {
	origin := c.Origin()
	return func(yield func(CellIndex, *Cell) bool) {
		for local, cell := range c.Cells() {
			if !yield(origin.Add(local), cell) {
				return
			}
		}
	}
}
