package util

import (
	"github.com/aquilax/go-perlin"
)

// Параметры шума по умолчанию
const (
	DefaultAlpha   = 2.0 // Сглаживание шума
	DefaultBeta    = 2.0 // Частота шума
	DefaultOctaves = 3   // Количество октав
)

// NoiseField – детерминированное 2-D поле шума Перлина. У каждого мира свой экземпляр.
type NoiseField struct {
	seed   int64
	perlin *perlin.Perlin
}

// NewNoiseField создаёт поле шума с указанным сидом
func NewNoiseField(seed int64) *NoiseField {
	return &NoiseField{
		seed:   seed,
		perlin: perlin.NewPerlin(DefaultAlpha, DefaultBeta, DefaultOctaves, seed),
	}
}

// Seed возвращает сид поля
func (n *NoiseField) Seed() int64 {
	return n.seed
}

// Noise2D возвращает значение шума для координат в диапазоне [0, 1]
func (n *NoiseField) Noise2D(x, y float64) float64 {
	// Perlin возвращает примерно [-1, 1]
	v := (n.perlin.Noise2D(x, y) + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
