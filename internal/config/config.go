package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/annel0/colony-core/internal/vec"
	"github.com/annel0/colony-core/internal/world"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации симуляции.
type Config struct {
	World     WorldConfig         `yaml:"world"`
	Terrain   world.TerrainConfig `yaml:"terrain"`
	Fluid     FluidConfig         `yaml:"fluid"`
	Sim       SimConfig           `yaml:"sim"`
	Debug     DebugConfig         `yaml:"debug"`
	Telemetry TelemetryConfig     `yaml:"telemetry"`
	Events    EventsConfig        `yaml:"events"`
	LogLevel  string              `yaml:"log_level"`
}

type WorldConfig struct {
	Min vec.Vec3 `yaml:"min"`
	Max vec.Vec3 `yaml:"max"`
	// Basin – область, заполняемая водой при старте (пустая – без воды)
	Basin *BasinConfig `yaml:"basin"`
}

type BasinConfig struct {
	Min      vec.Vec3 `yaml:"min"`
	Max      vec.Vec3 `yaml:"max"`
	Pressure int32    `yaml:"pressure"`
}

type FluidConfig struct {
	world.FluidConfig `yaml:",inline"`
	// Staged размазывает шаг жидкости на world.FluidStages кадров
	Staged bool `yaml:"staged"`
}

type SimConfig struct {
	FPS           int   `yaml:"fps"`
	MaxFrames     int64 `yaml:"max_frames"` // 0 – до сигнала
	TreeDecay     uint8 `yaml:"tree_decay"`
	AgingInterval int   `yaml:"aging_interval_frames"`
}

type DebugConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// EventsConfig – шина событий симуляции. Без NATSURL используется in-memory шина.
type EventsConfig struct {
	Buffer    int           `yaml:"buffer"`
	Log       bool          `yaml:"log"` // писать события в лог sim (DEBUG)
	NATSURL   string        `yaml:"nats_url"`
	Stream    string        `yaml:"stream"`
	Retention time.Duration `yaml:"retention"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Min: vec.New3(-32, -8, -32),
			Max: vec.New3(31, 23, 31),
		},
		Terrain: world.DefaultTerrainConfig(),
		Fluid:   FluidConfig{FluidConfig: world.DefaultFluidConfig()},
		Sim: SimConfig{
			FPS:           30,
			TreeDecay:     1,
			AgingInterval: 30,
		},
		Telemetry: TelemetryConfig{ServiceName: "colony-core"},
		Events: EventsConfig{
			Buffer:    256,
			Stream:    "COLONY",
			Retention: 24 * time.Hour,
		},
		LogLevel:  "info",
	}
}

// Bounds возвращает границы мира
func (c *Config) Bounds() world.Bounds {
	return world.Bounds{Min: c.World.Min, Max: c.World.Max}
}

// GetDebugAddr возвращает адрес debug-API с поддержкой fallback значений
func (d *DebugConfig) GetDebugAddr() string {
	if d.HTTPAddr != "" {
		return d.HTTPAddr
	}
	return os.Getenv("COLONY_DEBUG_ADDR")
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if !c.World.Min.LessEq(c.World.Max) {
		errs = append(errs, fmt.Errorf("world: min %s больше max %s", c.World.Min, c.World.Max))
	}
	if b := c.World.Basin; b != nil {
		bounds := c.Bounds()
		if !b.Min.LessEq(b.Max) || !bounds.Contains(b.Min) || !bounds.Contains(b.Max) {
			errs = append(errs, fmt.Errorf("world.basin %s..%s вне мира", b.Min, b.Max))
		}
	}
	if err := c.Terrain.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Fluid.Vertical && c.Fluid.GravityHead <= 0 {
		errs = append(errs, fmt.Errorf("fluid.gravity_head должен быть > 0 в вертикальном режиме"))
	}
	if c.Sim.FPS <= 0 {
		errs = append(errs, fmt.Errorf("sim.fps должен быть > 0, получено %d", c.Sim.FPS))
	}
	if c.Events.Buffer <= 0 {
		errs = append(errs, fmt.Errorf("events.buffer должен быть > 0, получено %d", c.Events.Buffer))
	}
	if c.Sim.AgingInterval < 0 || c.Sim.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("sim: отрицательные интервалы недопустимы"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("некорректная конфигурация: %w", errors.Join(errs...))
	}
	return nil
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV COLONY_CONFIG или возвращает значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("COLONY_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv применяет переменные окружения поверх файла
func applyEnv(cfg *Config) {
	if v := os.Getenv("COLONY_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Terrain.Seed = seed
		}
	}
	if v := os.Getenv("COLONY_MAX_FRAMES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			cfg.Sim.MaxFrames = n
		}
	}
	if v := os.Getenv("COLONY_NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("COLONY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
