package world

import (
	"fmt"
	"iter"

	"github.com/annel0/colony-core/internal/vec"
)

// CellIndex – глобальная координата клетки
type CellIndex = vec.Vec3

// ChunkIndex – координата чанка (CellIndex, делённый на размер чанка с округлением вниз)
type ChunkIndex = vec.Vec3

// Размер чанка в клетках
const (
	ChunkSizeX = 16
	ChunkSizeY = 8
	ChunkSizeZ = 16

	ChunkVolume = ChunkSizeX * ChunkSizeY * ChunkSizeZ
)

// DefaultDims – размеры чанка, используемые Map
var DefaultDims = vec.Vec3{X: ChunkSizeX, Y: ChunkSizeY, Z: ChunkSizeZ}

// ChunkOf возвращает чанк, содержащий клетку. Деление округляется к минус бесконечности:
// при размере 5 клетка -1 лежит в чанке -1 (локально 4), а не в чанке 0.
func ChunkOf(c CellIndex, dims vec.Vec3) ChunkIndex {
	return c.FloorDiv(dims)
}

// LocalOf возвращает координату клетки внутри чанка, каждая компонента в [0, dim)
func LocalOf(c CellIndex, chunk ChunkIndex, dims vec.Vec3) CellIndex {
	return c.Sub(chunk.Mul(dims))
}

// GlobalOf – обратное преобразование: GlobalOf(ChunkOf(c), LocalOf(c)) == c
func GlobalOf(chunk ChunkIndex, local CellIndex, dims vec.Vec3) CellIndex {
	return chunk.Mul(dims).Add(local)
}

// ChunkIndexOf – ChunkOf для размеров чанка по умолчанию
func ChunkIndexOf(c CellIndex) ChunkIndex {
	return ChunkOf(c, DefaultDims)
}

// LocalIndexOf – LocalOf для размеров чанка по умолчанию
func LocalIndexOf(c CellIndex) CellIndex {
	return LocalOf(c, ChunkIndexOf(c), DefaultDims)
}

// Cube перебирает все клетки включительного диапазона [min, max]:
// быстрее всего меняется X, затем Z, затем Y.
// Перевёрнутый диапазон – ошибка вызывающего кода, паника происходит сразу при вызове.
func Cube(min, max CellIndex) iter.Seq[CellIndex] {
	if !min.LessEq(max) {
		panic(fmt.Sprintf("world: перевёрнутый диапазон куба %s..%s", min, max))
	}
	return func(yield func(CellIndex) bool) {
		for y := min.Y; y <= max.Y; y++ {
			for z := min.Z; z <= max.Z; z++ {
				for x := min.X; x <= max.X; x++ {
					if !yield(CellIndex{X: x, Y: y, Z: z}) {
						return
					}
				}
			}
		}
	}
}

// CubeLen возвращает количество клеток в диапазоне
func CubeLen(min, max CellIndex) int {
	if !min.LessEq(max) {
		panic(fmt.Sprintf("world: перевёрнутый диапазон куба %s..%s", min, max))
	}
	return (max.X - min.X + 1) * (max.Y - min.Y + 1) * (max.Z - min.Z + 1)
}
