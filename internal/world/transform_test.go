package world

import (
	"errors"
	"testing"

	"github.com/annel0/colony-core/internal/vec"
	"github.com/annel0/colony-core/internal/world/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solarMap – столб воздуха высотой height над полом из камня в (1,0,1)
func solarMap(height int) (*Map, CellIndex) {
	min, max := vec.New3(0, 0, 0), vec.New3(2, height, 2)
	m := NewMap(Bounds{Min: min, Max: max}, nil)
	m.Fill(min, max, tile.Air)
	floor := vec.New3(1, 0, 1)
	m.SetTile(floor, tile.FloorRock)
	return m, floor
}

func targets(trs []Transformation) []tile.Type {
	out := make([]tile.Type, 0, len(trs))
	for _, tr := range trs {
		out = append(out, tr.To)
	}
	return out
}

func TestSolarPanelNeedsClearSky(t *testing.T) {
	m, floor := solarMap(25)
	require.Contains(t, targets(AllowedTransformations([]CellIndex{floor}, m)), tile.MachineSolarPanel)

	for dy := 1; dy <= SolarClearance; dy++ {
		blocker := floor.Offset(0, dy, 0)
		m.SetTile(blocker, tile.WallRock)
		assert.NotContains(t, targets(AllowedTransformations([]CellIndex{floor}, m)), tile.MachineSolarPanel,
			"стена на высоте %d должна запрещать панель", dy)
		m.SetTile(blocker, tile.Air)
	}

	// Выше SolarClearance препятствия не мешают
	m.SetTile(floor.Offset(0, SolarClearance+1, 0), tile.WallRock)
	assert.True(t, SolarAllowed(floor, m))
}

func TestSolarPanelWorldCeilingCountsAsSky(t *testing.T) {
	m, floor := solarMap(5)
	assert.True(t, SolarAllowed(floor, m), "потолок мира засчитывается как небо")
	assert.True(t, SolarAllowed(floor.Offset(0, 5, 0), m))
}

func TestAllowedTransformationsIntersection(t *testing.T) {
	m, floor := solarMap(25)
	wall := vec.New3(0, 0, 0)
	stairs := vec.New3(2, 0, 0)
	m.SetTile(wall, tile.WallRock)
	m.SetTile(stairs, tile.Stairs)

	cases := [][]CellIndex{
		{floor},
		{wall},
		{floor, wall},
		{wall, stairs},
		{floor, wall, stairs},
	}
	for _, selection := range cases {
		expected := map[tile.Type]bool{}
		for i, idx := range selection {
			cell := m.GetCell(idx)
			set := map[tile.Type]bool{}
			for _, tt := range AllowedTransformationsOfCell(cell, idx, m) {
				if i == 0 || expected[tt] {
					set[tt] = true
				}
			}
			expected = set
		}

		got := targets(AllowedTransformations(selection, m))
		assert.Len(t, got, len(expected), "выделение %v", selection)
		for _, tt := range got {
			assert.True(t, expected[tt], "%s не должен быть разрешён для %v", tt, selection)
		}
	}

	assert.Equal(t, []tile.Type{tile.Stairs}, targets(AllowedTransformations([]CellIndex{floor, wall}, m)))
	assert.Equal(t, []tile.Type{tile.FloorRock}, targets(AllowedTransformations([]CellIndex{wall, stairs}, m)))
	assert.Empty(t, AllowedTransformations([]CellIndex{floor, wall, stairs}, m))
}

func TestAllowedTransformationsSorted(t *testing.T) {
	m, floor := solarMap(25)
	got := targets(AllowedTransformations([]CellIndex{floor}, m))
	assert.Equal(t, []tile.Type{
		tile.Stairs,
		tile.Wire,
		tile.MachineAssembler,
		tile.MachineAirCleaner,
		tile.MachineDrill,
		tile.MachineSolarPanel,
		tile.Storage,
	}, got)
}

func TestAllowedTransformationsTable(t *testing.T) {
	m, _ := solarMap(3)
	idx := vec.New3(0, 1, 0)

	cases := map[tile.Type][]tile.Type{
		tile.WallRock:          {tile.FloorRock, tile.Stairs},
		tile.WallDirt:          {tile.FloorDirt, tile.Stairs},
		tile.Stairs:            {tile.FloorRock},
		tile.MachineDrill:      {tile.FloorRock},
		tile.MachineSolarPanel: {tile.FloorRock},
		tile.Wire:              {tile.FloorRock},
		tile.TreeDead:          {tile.FloorDirt},
		tile.Air:               nil,
		tile.WaterDeep:         nil,
		tile.Ship:              nil,
		tile.TreeHealthy:       nil,
	}
	for from, expected := range cases {
		got := AllowedTransformationsOfCell(Cell{Tile: from}, idx, m)
		assert.ElementsMatch(t, expected, got, "из %s", from)
	}
	assert.Empty(t, AllowedTransformations(nil, m))
}

func TestAllowedTransformationsUnsetPanics(t *testing.T) {
	m := NewMap(Bounds{Min: vec.New3(0, 0, 0), Max: vec.New3(1, 1, 1)}, nil)
	assert.Panics(t, func() {
		AllowedTransformations([]CellIndex{vec.New3(0, 0, 0)}, m)
	})
}

func TestApplyTransformation(t *testing.T) {
	m, floor := solarMap(25)
	wall := vec.New3(0, 0, 0)
	m.SetTile(wall, tile.WallRock)

	require.NoError(t, ApplyTransformation(m, []CellIndex{wall}, tile.FloorRock))
	assert.Equal(t, tile.FloorRock, m.GetCell(wall).Tile)

	err := ApplyTransformation(m, []CellIndex{floor, wall}, tile.Ship)
	assert.True(t, errors.Is(err, ErrTransformationNotAllowed))
	assert.Equal(t, tile.FloorRock, m.GetCell(floor).Tile, "при ошибке клетки не меняются")

	err = ApplyTransformation(m, nil, tile.FloorRock)
	assert.ErrorIs(t, err, ErrTransformationNotAllowed)
}

func TestTransformationApplyResetsState(t *testing.T) {
	c := Cell{Tile: tile.Air, Pressure: 9, NextPressure: 1, RenderPressure: 3}
	Transformation{To: tile.FloorRock}.Apply(&c)
	assert.Equal(t, Cell{Tile: tile.FloorRock}, c)

	Transformation{To: tile.TreeHealthy}.Apply(&c)
	assert.Equal(t, MaxHealth, c.Health)

	c = Cell{Tile: tile.WaterShallow, Pressure: 4}
	Transformation{To: tile.WaterDeep}.Apply(&c)
	assert.Equal(t, int32(4), c.Pressure, "жидкость сохраняет давление")
}
