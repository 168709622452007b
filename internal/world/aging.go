package world

import "github.com/annel0/colony-core/internal/world/tile"

// nextTreeStage – следующая стадия стареющего дерева
var nextTreeStage = map[tile.Type]tile.Type{
	tile.TreeHealthy: tile.TreeSick,
	tile.TreeSick:    tile.TreeDying,
	tile.TreeDying:   tile.TreeDead,
}

// AgeTrees уменьшает здоровье стареющих тайлов на decay. Когда здоровье кончается,
// дерево переходит в следующую стадию с полным здоровьем. Возвращает число смен стадии.
func AgeTrees(m *Map, decay uint8) int {
	if decay == 0 {
		return 0
	}
	changed := 0
	for _, c := range m.Cells() {
		if !tile.Ages(c.Tile) {
			continue
		}
		if c.Health > decay {
			c.Health -= decay
			continue
		}
		c.Tile = nextTreeStage[c.Tile]
		c.Health = 0
		if tile.Ages(c.Tile) {
			c.Health = MaxHealth
		}
		changed++
	}
	return changed
}
