package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/annel0/colony-core/internal/api"
	"github.com/annel0/colony-core/internal/cache"
	"github.com/annel0/colony-core/internal/config"
	"github.com/annel0/colony-core/internal/eventbus"
	"github.com/annel0/colony-core/internal/logging"
	"github.com/annel0/colony-core/internal/metrics"
	"github.com/annel0/colony-core/internal/observability"
	"github.com/annel0/colony-core/internal/sim"
	"github.com/annel0/colony-core/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var (
		configPath = flag.String("config", "", "путь к YAML конфигурации (по умолчанию $COLONY_CONFIG)")
		logDir     = flag.String("log-dir", "logs", "каталог файловых логов, пустая строка – без файлов")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	logging.LogDir = *logDir
	logging.SetConsoleLevel(logging.ParseLevel(cfg.LogLevel))
	if err := logging.InitDefaultLogger("colony"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error("❌ %v", err)
		stop()
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.Info("🌍 Запуск симуляции колонии: мир %s..%s, seed %d",
		cfg.World.Min, cfg.World.Max, cfg.Terrain.Seed)

	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logging.Warn("Ошибка остановки телеметрии: %v", err)
			}
		}()
		logging.Info("📡 OpenTelemetry включена (%s)", cfg.Telemetry.ServiceName)
	}

	// === МИР ===
	stats := cache.NewStats()
	defer cache.PrintCacheStats(stats)

	m := world.NewMap(cfg.Bounds(), stats)
	m.SetGenerator(world.NewWorldGenerator(cfg.Terrain))
	m.Regenerate()

	if b := cfg.World.Basin; b != nil {
		n := sim.FloodBasin(m, b.Min, b.Max, b.Pressure)
		logging.Info("💧 Залито %d клеток воды (давление %d)", n, b.Pressure)
	}

	// === СОБЫТИЯ ===
	bus, err := newEventBus(cfg.Events)
	if err != nil {
		return err
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Warn("Ошибка закрытия шины событий: %v", err)
		}
	}()
	if err := eventbus.RegisterMetrics(prometheus.DefaultRegisterer, bus); err != nil {
		return err
	}
	if cfg.Events.Log {
		if _, err := eventbus.StartLoggingListener(bus, nil); err != nil {
			return err
		}
	}

	// === СИМУЛЯЦИЯ ===
	simMetrics := metrics.NewSimMetrics(prometheus.DefaultRegisterer, stats)
	driver := sim.NewDriver(m, stats, sim.Options{
		Fluid:         cfg.Fluid.FluidConfig,
		Staged:        cfg.Fluid.Staged,
		TreeDecay:     cfg.Sim.TreeDecay,
		AgingInterval: cfg.Sim.AgingInterval,
		Metrics:       simMetrics,
		Events:        bus,
	})

	// Debug API останавливается вместе с симуляцией
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	apiDone := make(chan error, 1)
	if addr := cfg.Debug.GetDebugAddr(); addr != "" {
		gin.SetMode(gin.ReleaseMode)
		server := api.NewDebugServer(api.Config{
			Addr:    addr,
			Driver:  driver,
			Service: cfg.Telemetry.ServiceName,
		})
		go func() { apiDone <- server.Start(runCtx) }()
		logging.Info("   ❤️  Health check: %s/health", addr)
	} else {
		apiDone <- nil
	}

	err = driver.Run(runCtx, cfg.Sim.FPS, cfg.Sim.MaxFrames)
	cancel()
	if apiErr := <-apiDone; apiErr != nil {
		logging.Error("❌ %v", apiErr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	snap := driver.Snapshot()
	logging.Info("👋 Симуляция завершена: кадров %d, шагов жидкости %d, давление %d",
		snap.Frame, snap.FluidSteps, snap.TotalPressure)
	return nil
}

func newEventBus(cfg config.EventsConfig) (eventbus.EventBus, error) {
	if cfg.NATSURL == "" {
		return eventbus.NewMemoryBus(cfg.Buffer), nil
	}
	bus, err := eventbus.NewJetStreamBus(cfg.NATSURL, cfg.Stream, cfg.Retention)
	if err != nil {
		return nil, err
	}
	logging.Info("📨 События симуляции публикуются в NATS %s (стрим %s)", cfg.NATSURL, cfg.Stream)
	return bus, nil
}
