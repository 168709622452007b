package world

import "github.com/annel0/colony-core/internal/world/tile"

// MaxHealth – здоровье стареющего тайла в начале стадии
const MaxHealth uint8 = 255

// Cell – изменяемое состояние одной клетки
type Cell struct {
	Tile tile.Type // Тип тайла

	// Pressure может быть отрицательным (вакуум)
	Pressure int32
	// NextPressure – буфер двухфазного обновления, после фиксации всегда 0
	NextPressure int32
	// RenderPressure – сглаженное давление только для отображения
	RenderPressure float32

	Health     uint8 // Для стареющих тайлов
	CanFlowOut bool  // Зарезервировано
}

// reset возвращает клетку в состояние свежесгенерированной с заданным тайлом
func (c *Cell) reset(t tile.Type) {
	*c = Cell{Tile: t}
	if tile.Ages(t) {
		c.Health = MaxHealth
	}
}
