package world

import (
	"testing"

	"github.com/annel0/colony-core/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkOfNegativeCoordinates(t *testing.T) {
	dims := vec.New3(5, 5, 5)
	c := vec.New3(-1, 0, 5)

	chunk := ChunkOf(c, dims)
	assert.Equal(t, vec.New3(-1, 0, 1), chunk, "деление должно округляться к минус бесконечности")
	assert.Equal(t, vec.New3(4, 0, 0), LocalOf(c, chunk, dims))
}

func TestAddressRoundTrip(t *testing.T) {
	for _, dims := range []vec.Vec3{vec.New3(5, 5, 5), vec.New3(3, 7, 2), DefaultDims} {
		for c := range Cube(vec.New3(-23, -17, -23), vec.New3(23, 17, 23)) {
			chunk := ChunkOf(c, dims)
			local := LocalOf(c, chunk, dims)

			require.True(t, local.X >= 0 && local.X < dims.X, "local.X вне [0,%d): %v", dims.X, local)
			require.True(t, local.Y >= 0 && local.Y < dims.Y, "local.Y вне [0,%d): %v", dims.Y, local)
			require.True(t, local.Z >= 0 && local.Z < dims.Z, "local.Z вне [0,%d): %v", dims.Z, local)
			require.Equal(t, c, GlobalOf(chunk, local, dims))
		}
	}
	assert.Equal(t, vec.New3(15, 7, 15), LocalIndexOf(vec.New3(-1, -1, -1)))
}

func TestCubeCountAndOrder(t *testing.T) {
	min := vec.New3(0, 0, 0)
	max := vec.New3(1, 2, 3)

	var got []CellIndex
	for idx := range Cube(min, max) {
		got = append(got, idx)
	}
	require.Len(t, got, 2*3*4)
	assert.Equal(t, 24, CubeLen(min, max))

	// X быстрее всего, затем Z, затем Y
	assert.Equal(t, vec.New3(0, 0, 0), got[0])
	assert.Equal(t, vec.New3(1, 0, 0), got[1])
	assert.Equal(t, vec.New3(0, 0, 1), got[2])
	assert.Equal(t, vec.New3(0, 1, 0), got[8])
	assert.Equal(t, max, got[len(got)-1])
}

func TestCubeSingleCell(t *testing.T) {
	c := vec.New3(-4, 2, 9)
	count := 0
	for idx := range Cube(c, c) {
		assert.Equal(t, c, idx)
		count++
	}
	assert.Equal(t, 1, count)
}

func TestCubeEarlyBreak(t *testing.T) {
	count := 0
	for range Cube(vec.New3(0, 0, 0), vec.New3(9, 9, 9)) {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestCubeInvertedPanics(t *testing.T) {
	for _, max := range []vec.Vec3{vec.New3(-1, 0, 0), vec.New3(0, -1, 0), vec.New3(0, 0, -1)} {
		assert.Panics(t, func() { Cube(vec.New3(0, 0, 0), max) }, "перевёрнутый диапазон %v", max)
		assert.Panics(t, func() { CubeLen(vec.New3(0, 0, 0), max) })
	}
}
