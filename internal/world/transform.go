package world

import (
	"errors"
	"fmt"
	"slices"

	"github.com/annel0/colony-core/internal/world/tile"
)

// SolarClearance – сколько клеток над солнечной панелью должны быть воздухом
const SolarClearance = 20

// ErrTransformationNotAllowed – преобразование недопустимо для выбранных клеток
var ErrTransformationNotAllowed = errors.New("transformation not allowed")

// Transformation – допустимая смена типа тайла
type Transformation struct {
	To tile.Type `json:"to"`
}

// Apply меняет тайл клетки. Не-жидкие тайлы давление не держат.
func (t Transformation) Apply(c *Cell) {
	c.Tile = t.To
	if !tile.IsLiquid(t.To) {
		c.Pressure = 0
		c.NextPressure = 0
		c.RenderPressure = 0
	}
	if tile.Ages(t.To) {
		c.Health = MaxHealth
	} else {
		c.Health = 0
	}
}

var buildableOnFloor = []tile.Type{
	tile.Wire,
	tile.MachineAssembler,
	tile.MachineAirCleaner,
	tile.MachineDrill,
	tile.Storage,
	tile.Stairs,
}

// AllowedTransformationsOfCell возвращает типы, в которые можно превратить клетку.
// Клетка Unset – ошибка вызывающего кода.
func AllowedTransformationsOfCell(c Cell, idx CellIndex, m *Map) []tile.Type {
	switch c.Tile {
	case tile.Unset:
		panic(fmt.Sprintf("world: преобразование клетки %s без типа", idx))
	case tile.WallRock:
		return []tile.Type{tile.FloorRock, tile.Stairs}
	case tile.WallDirt:
		return []tile.Type{tile.FloorDirt, tile.Stairs}
	case tile.FloorRock, tile.FloorDirt:
		out := slices.Clone(buildableOnFloor)
		if SolarAllowed(idx, m) {
			out = append(out, tile.MachineSolarPanel)
		}
		return out
	case tile.Stairs, tile.Wire, tile.Storage:
		return []tile.Type{tile.FloorRock}
	case tile.TreeDead:
		return []tile.Type{tile.FloorDirt}
	}
	if tile.IsMachine(c.Tile) {
		return []tile.Type{tile.FloorRock}
	}
	// Воздух, вода, корабль и живые деревья не преобразуются
	return nil
}

// SolarAllowed проверяет, что над клеткой SolarClearance уровней воздуха.
// Потолок мира засчитывается как чистое небо.
func SolarAllowed(idx CellIndex, m *Map) bool {
	for dy := 1; dy <= SolarClearance; dy++ {
		above := idx.Offset(0, dy, 0)
		if above.Y > m.bounds.Max.Y {
			return true
		}
		if m.GetCell(above).Tile != tile.Air {
			return false
		}
	}
	return true
}

// AllowedTransformations возвращает преобразования, допустимые для каждой выбранной клетки
// (пересечение), отсортированные по индексу текстуры.
func AllowedTransformations(selection []CellIndex, m *Map) []Transformation {
	if len(selection) == 0 {
		return nil
	}

	var allowed map[tile.Type]bool
	for _, idx := range selection {
		current := make(map[tile.Type]bool)
		for _, t := range AllowedTransformationsOfCell(m.GetCell(idx), idx, m) {
			if allowed == nil || allowed[t] {
				current[t] = true
			}
		}
		allowed = current
		if len(allowed) == 0 {
			return nil
		}
	}

	out := make([]Transformation, 0, len(allowed))
	for t := range allowed {
		out = append(out, Transformation{To: t})
	}
	slices.SortFunc(out, func(a, b Transformation) int {
		return a.To.TextureIndex() - b.To.TextureIndex()
	})
	return out
}

// ApplyTransformation проверяет и применяет преобразование ко всем выбранным клеткам.
// Недопустимый запрос игрока – обычная ошибка, а не паника.
func ApplyTransformation(m *Map, selection []CellIndex, to tile.Type) error {
	if len(selection) == 0 {
		return fmt.Errorf("пустое выделение: %w", ErrTransformationNotAllowed)
	}

	ok := slices.ContainsFunc(AllowedTransformations(selection, m), func(t Transformation) bool {
		return t.To == to
	})
	if !ok {
		return fmt.Errorf("%s для %d клеток: %w", to, len(selection), ErrTransformationNotAllowed)
	}

	tr := Transformation{To: to}
	for _, idx := range selection {
		tr.Apply(m.CellAt(idx))
	}
	return nil
}
