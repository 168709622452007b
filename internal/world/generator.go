package world

import (
	"fmt"

	"github.com/annel0/colony-core/internal/logging"
	"github.com/annel0/colony-core/internal/util"
	"github.com/annel0/colony-core/internal/vec"
	"github.com/annel0/colony-core/internal/world/tile"
)

// TerrainConfig – параметры генерации ландшафта
type TerrainConfig struct {
	Seed       int64   `yaml:"seed"`
	NoiseScale float64 `yaml:"noise_scale"` // Масштаб шума по горизонтали
	Amplitude  float64 `yaml:"amplitude"`   // Перепад высот в клетках
	Step       int     `yaml:"step"`        // Шаг террас
	BaseLevel  int     `yaml:"base_level"`  // Высота поверхности при нулевом шуме
}

// DefaultTerrainConfig возвращает параметры по умолчанию
func DefaultTerrainConfig() TerrainConfig {
	return TerrainConfig{
		Seed:       12345,
		NoiseScale: 0.05, // Настройка сглаженности ландшафта
		Amplitude:  16,
		Step:       2,
		BaseLevel:  0,
	}
}

// Validate проверяет параметры генерации
func (c TerrainConfig) Validate() error {
	if c.Step < 1 {
		return fmt.Errorf("terrain.step должен быть >= 1, получено %d", c.Step)
	}
	if c.Amplitude < 0 {
		return fmt.Errorf("terrain.amplitude не может быть отрицательной: %v", c.Amplitude)
	}
	if c.NoiseScale <= 0 {
		return fmt.Errorf("terrain.noise_scale должен быть > 0: %v", c.NoiseScale)
	}
	return nil
}

// WorldGenerator генерирует ландшафт-карту высот
type WorldGenerator struct {
	cfg   TerrainConfig
	noise *util.NoiseField
}

// NewWorldGenerator создаёт новый генератор мира
func NewWorldGenerator(cfg TerrainConfig) *WorldGenerator {
	if cfg.Step < 1 {
		cfg.Step = 1
	}
	return &WorldGenerator{
		cfg:   cfg,
		noise: util.NewNoiseField(cfg.Seed),
	}
}

// Config возвращает параметры генератора
func (wg *WorldGenerator) Config() TerrainConfig {
	return wg.cfg
}

// SurfaceLevel возвращает высоту поверхности колонки: шум, обрезанный до шага террас
func (wg *WorldGenerator) SurfaceLevel(col vec.Vec2) int {
	n := wg.noise.Noise2D(float64(col.X)*wg.cfg.NoiseScale, float64(col.Z)*wg.cfg.NoiseScale)
	h := int(n * wg.cfg.Amplitude)
	return wg.cfg.BaseLevel + (h/wg.cfg.Step)*wg.cfg.Step
}

// TileAt возвращает тайл клетки для известной высоты поверхности
func TileAt(y, surface int) tile.Type {
	switch {
	case y > surface:
		return tile.Air
	case y < surface:
		return tile.WallRock
	default:
		return tile.FloorDirt
	}
}

// SetGenerator заменяет генератор, используемый Regenerate
func (m *Map) SetGenerator(gen *WorldGenerator) {
	if gen != nil {
		m.generator = gen
	}
}

// Regenerate заново выводит тип каждой клетки из шума.
// Мир – карта высот: одно значение шума на колонку (x, z) для всех y.
func (m *Map) Regenerate() {
	b := m.bounds
	columns := 0
	for z := b.Min.Z; z <= b.Max.Z; z++ {
		for x := b.Min.X; x <= b.Max.X; x++ {
			col := vec.Vec2{X: x, Z: z}
			surface := m.generator.SurfaceLevel(col)
			for y := b.Min.Y; y <= b.Max.Y; y++ {
				m.CellAt(col.At(y)).reset(TileAt(y, surface))
			}
			columns++
		}
	}

	logging.Info("🌍 Мир %s перегенерирован: %d колонок, сид %d", m.id, columns, m.generator.cfg.Seed)
}
