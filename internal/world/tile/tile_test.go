package tile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextureIndicesAreStable(t *testing.T) {
	// Индексы зашиты в атлас текстур – перенумерация ломает рендер
	expected := map[Type]int{
		WallRock:          0,
		FloorDirt:         3,
		Air:               5,
		MachineSolarPanel: 10,
		TreeDead:          16,
		WaterDeep:         18,
		Unset:             255,
	}
	for tt, idx := range expected {
		assert.Equal(t, idx, tt.TextureIndex(), "индекс %s", tt)
	}
	assert.Len(t, All(), 19)
}

func TestParseRoundTrip(t *testing.T) {
	for _, tt := range All() {
		parsed, err := Parse(tt.String())
		require.NoError(t, err)
		assert.Equal(t, tt, parsed)
	}

	_, err := Parse("lava")
	assert.Error(t, err)
	assert.Equal(t, "tile(99)", Type(99).String())
	assert.False(t, Type(99).IsValid())
}

func TestJSONUsesNames(t *testing.T) {
	data, err := json.Marshal([]Type{Stairs, Air})
	require.NoError(t, err)
	assert.JSONEq(t, `["stairs","air"]`, string(data))

	var back []Type
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []Type{Stairs, Air}, back)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsLiquid(Air))
	assert.True(t, IsLiquid(WaterDeep))
	assert.False(t, IsLiquid(FloorRock))
	assert.False(t, IsLiquid(Unset))

	assert.True(t, IsWalkableHorizontal(FloorDirt))
	assert.True(t, IsWalkableHorizontal(WaterShallow))
	assert.False(t, IsWalkableHorizontal(WaterDeep))
	assert.False(t, IsWalkableHorizontal(WallRock))

	assert.True(t, IsWalkableVertical(Stairs, Stairs))
	assert.False(t, IsWalkableVertical(Stairs, FloorRock))
	assert.False(t, IsWalkableVertical(FloorRock, Stairs))

	// Три разных набора исключений для затопления
	assert.True(t, IsFloodableFromSide(FloorRock))
	assert.False(t, IsFloodableFromSide(TreeHealthy))
	assert.True(t, IsFloodableFromAbove(TreeHealthy))
	assert.True(t, IsFloodableFromAbove(MachineDrill))
	assert.False(t, IsFloodableFromBelow(FloorRock))
	assert.True(t, IsFloodableFromBelow(Air))
	for _, wall := range []Type{WallRock, WallDirt} {
		assert.False(t, IsFloodableFromSide(wall))
		assert.False(t, IsFloodableFromAbove(wall))
		assert.False(t, IsFloodableFromBelow(wall))
	}

	assert.True(t, IsCovering(WallDirt))
	assert.True(t, IsCovering(Storage))
	assert.False(t, IsCovering(TreeDead))
	assert.False(t, IsCovering(Wire))

	assert.True(t, IsNetworkable(Wire))
	assert.True(t, IsNetworkable(MachineSolarPanel))
	assert.False(t, IsNetworkable(FloorRock))

	assert.True(t, Ages(TreeSick))
	assert.False(t, Ages(TreeDead))

	assert.True(t, IsMachine(MachineAssembler))
	assert.False(t, IsMachine(Wire))
}
