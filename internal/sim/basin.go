package sim

import (
	"github.com/annel0/colony-core/internal/world"
	"github.com/annel0/colony-core/internal/world/tile"
)

// FloodBasin заливает диапазон водой с заданным давлением. Клетки, которые
// сбоку не принимают жидкость (стены, машины), не трогаются. Возвращает число залитых клеток.
func FloodBasin(m *world.Map, min, max world.CellIndex, pressure int32) int {
	flooded := 0
	for idx := range world.Cube(min, max) {
		c := m.CellAt(idx)
		if !tile.IsFloodableFromSide(c.Tile) {
			continue
		}
		water := tile.WaterShallow
		if pressure > 1 {
			water = tile.WaterDeep
		}
		world.Transformation{To: water}.Apply(c)
		c.Pressure = pressure
		flooded++
	}
	return flooded
}
